package repository

import (
	"context"
	"testing"

	"prolens/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippingRepository_Upsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	tm := NewTxManager(pool, zerolog.Nop())
	repo := NewShippingRepository(pool, zerolog.Nop())
	ctx := context.Background()

	userID := seedUser(t, pool, "jane", model.RoleUser)

	none, err := repo.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, none)

	first := &model.Shipping{UserID: userID, FullName: "Jane", Phone: "0771234567", Address: "1 Main St", City: "Kandy"}
	require.NoError(t, repo.Upsert(ctx, nil, first))

	orphan := &model.Shipping{UserID: userID + 100, FullName: "Ghost", Phone: "0770000000", Address: "Nowhere", City: "Kandy"}
	assert.ErrorIs(t, repo.Upsert(ctx, nil, orphan), model.ErrUnknownUser)

	tx, err := tm.BeginTx(ctx)
	require.NoError(t, err)
	second := &model.Shipping{UserID: userID, FullName: "Jane Doe", Phone: "0777654321", Address: "2 Hill St", City: "Galle"}
	require.NoError(t, repo.Upsert(ctx, tx, second))
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, first.ID, second.ID, "one profile per user")

	got, err := repo.GetByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Galle", got.City)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
