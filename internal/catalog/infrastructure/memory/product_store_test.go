package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecraft/sales-order-service/internal/catalog/domain"
)

func TestProductStoreUpdateQuantityAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore()

	p1, err := store.Create(ctx, domain.Product{Name: "widget", Price: decimal.NewFromInt(10), Stock: 5})
	require.NoError(t, err)
	p2, err := store.Create(ctx, domain.Product{Name: "gadget", Price: decimal.NewFromInt(3), Stock: 1})
	require.NoError(t, err)

	_, err = store.UpdateQuantity(ctx, []domain.Demand{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 4},
	})
	require.ErrorIs(t, err, domain.ErrStockConflict)

	got, err := store.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "failed batch must not touch any product")

	updated, err := store.UpdateQuantity(ctx, []domain.Demand{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, 3, updated[0].Stock)
	assert.Equal(t, 0, updated[1].Stock)
}

func TestProductStoreFindAllByIDSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore()

	p, err := store.Create(ctx, domain.Product{Name: "widget", Price: decimal.NewFromInt(1), Stock: 1})
	require.NoError(t, err)

	found, err := store.FindAllByID(ctx, []string{p.ID, "nope"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)
}
