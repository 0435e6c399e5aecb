package service

import (
	"context"
	"errors"
	"testing"

	"prolens/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestShippingService_Save(t *testing.T) {
	ctx := context.Background()
	repo := new(MockShippingRepository)
	svc := NewShippingService(repo, zerolog.Nop())

	repo.On("Upsert", ctx, pgx.Tx(nil), mock.MatchedBy(func(s *model.Shipping) bool {
		return s.UserID == 1 && s.City == "Galle"
	})).Return(nil).Once()

	shipping, err := svc.Save(ctx, 1, &model.ShippingRequest{
		FullName: "Jane Doe",
		Phone:    "0771234567",
		Address:  "5 Fort Street",
		City:     "Galle",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", shipping.FullName)
	repo.AssertExpectations(t)
}

func TestShippingService_Get(t *testing.T) {
	ctx := context.Background()
	repo := new(MockShippingRepository)
	svc := NewShippingService(repo, zerolog.Nop())

	repo.On("GetByUser", ctx, int64(1)).Return(&model.Shipping{UserID: 1, City: "Galle"}, nil)
	repo.On("GetByUser", ctx, int64(2)).Return(nil, nil)
	repo.On("GetByUser", ctx, int64(3)).Return(nil, errors.New("database error"))

	shipping, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Galle", shipping.City)

	_, err = svc.Get(ctx, 2)
	assert.ErrorIs(t, err, model.ErrShippingNotFound)

	_, err = svc.Get(ctx, 3)
	assert.Contains(t, err.Error(), "failed to get shipping")
}

func TestShippingService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockShippingRepository)
	repo.On("List", ctx).Return([]model.Shipping{{UserID: 1}, {UserID: 2}}, nil)

	profiles, err := NewShippingService(repo, zerolog.Nop()).List(ctx)

	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}
