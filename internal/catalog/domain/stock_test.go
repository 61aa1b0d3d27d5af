package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() map[string]Product {
	return map[string]Product{
		"P1": {ID: "P1", Price: decimal.NewFromInt(10), Stock: 5},
		"P2": {ID: "P2", Price: decimal.NewFromInt(3), Stock: 2},
	}
}

func TestReserveComputesDecrementedStock(t *testing.T) {
	got, err := Reserve([]Demand{{ProductID: "P1", Quantity: 3}, {ProductID: "P2", Quantity: 2}}, snapshot())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"P1": 2, "P2": 0}, got)
}

func TestReserveReturnsOnlyRequestedProducts(t *testing.T) {
	got, err := Reserve([]Demand{{ProductID: "P1", Quantity: 1}}, snapshot())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"P1": 4}, got)
	assert.NotContains(t, got, "P2")
}

func TestReserveUnknownProduct(t *testing.T) {
	_, err := Reserve([]Demand{{ProductID: "P1", Quantity: 1}, {ProductID: "P9", Quantity: 1}}, snapshot())
	require.Error(t, err)

	var unknown *UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"P9"}, unknown.ProductIDs)
}

func TestReserveInsufficientStockFailsWholeBatch(t *testing.T) {
	_, err := Reserve([]Demand{{ProductID: "P1", Quantity: 1}, {ProductID: "P2", Quantity: 3}}, snapshot())
	require.Error(t, err)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Shortfalls, 1)
	assert.Equal(t, Shortfall{ProductID: "P2", Requested: 3, Available: 2}, insufficient.Shortfalls[0])
	assert.Equal(t, []string{"P2"}, insufficient.ProductIDs())
}

func TestReserveIsPure(t *testing.T) {
	catalog := snapshot()
	demands := []Demand{{ProductID: "P1", Quantity: 3}}

	first, err := Reserve(demands, catalog)
	require.NoError(t, err)
	second, err := Reserve(demands, catalog)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 5, catalog["P1"].Stock)
}
