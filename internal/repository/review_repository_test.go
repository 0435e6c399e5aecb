package repository

import (
	"context"
	"testing"

	"prolens/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	products := NewProductRepository(pool, zerolog.Nop())
	repo := NewReviewRepository(pool, zerolog.Nop())
	ctx := context.Background()

	jane := seedUser(t, pool, "jane", model.RoleUser)
	john := seedUser(t, pool, "john", model.RoleUser)
	p := seedProduct(t, products, newTestProduct("A", model.CategoryLenses, "10", 5))

	comment := "Sharp lens"
	review := &model.Review{ProductID: p.ID, UserID: jane, Rating: 5, Comment: &comment}
	require.NoError(t, repo.Create(ctx, review))
	require.NotZero(t, review.ID)

	t.Run("duplicate review", func(t *testing.T) {
		err := repo.Create(ctx, &model.Review{ProductID: p.ID, UserID: jane, Rating: 3})
		assert.ErrorIs(t, err, model.ErrReviewExists)
	})

	t.Run("unknown product", func(t *testing.T) {
		err := repo.Create(ctx, &model.Review{ProductID: p.ID + 100, UserID: jane, Rating: 3})
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.Create(ctx, &model.Review{ProductID: p.ID, UserID: john + 100, Rating: 3})
		assert.ErrorIs(t, err, model.ErrUnknownUser)
	})

	t.Run("list with author", func(t *testing.T) {
		reviews, err := repo.ListByProduct(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		require.NotNil(t, reviews[0].Author)
		assert.Equal(t, "jane", reviews[0].Author.Username)
	})

	t.Run("update only by owner", func(t *testing.T) {
		ok, err := repo.UpdateOwned(ctx, &model.Review{ID: review.ID, UserID: john, Rating: 1})
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.UpdateOwned(ctx, &model.Review{ID: review.ID, UserID: jane, Rating: 4})
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetByID(ctx, review.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Rating)
		assert.Nil(t, got.Comment)
	})

	t.Run("delete only by owner", func(t *testing.T) {
		ok, err := repo.DeleteOwned(ctx, review.ID, john)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.DeleteOwned(ctx, review.ID, jane)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetByID(ctx, review.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
