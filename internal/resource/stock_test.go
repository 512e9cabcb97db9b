package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogamuz/inventory-pos/internal/domain"
)

func seededStockStore(t *testing.T, products ...domain.Product) (*StockStore, *fakeProductAPI) {
	t.Helper()
	fake := &fakeProductAPI{products: products}
	s := NewStockStore(fake, 10)
	require.NoError(t, s.Fetch(context.Background()))
	fake.listCalls = 0
	return s, fake
}

func TestStockStoreDefaultsToActiveOnly(t *testing.T) {
	fake := &fakeProductAPI{}
	s := NewStockStore(fake, 10)

	require.NoError(t, s.Fetch(context.Background()))

	require.NotNil(t, fake.lastQuery.IsActive)
	assert.True(t, *fake.lastQuery.IsActive, "stock operations target active products")
}

func TestAdjustSetsAbsoluteStock(t *testing.T) {
	s, fake := seededStockStore(t, domain.Product{ID: "p1", Stock: 12})

	p, err := s.Adjust(context.Background(), "p1", 8, "damaged units")
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock)
	assert.Equal(t, 1, fake.adjustCalls)

	got, _ := s.Get("p1")
	assert.Equal(t, 8, got.Stock)
}

func TestAdjustToZeroAllowed(t *testing.T) {
	s, _ := seededStockStore(t, domain.Product{ID: "p1", Stock: 3})

	p, err := s.Adjust(context.Background(), "p1", 0, "write-off")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestAdjustRejectsNegativeStock(t *testing.T) {
	s, fake := seededStockStore(t, domain.Product{ID: "p1", Stock: 3})

	_, err := s.Adjust(context.Background(), "p1", -1, "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, fake.adjustCalls, "negative targets never reach the server")
}

func TestStockSaleUsesCurrentStock(t *testing.T) {
	s, fake := seededStockStore(t, domain.Product{ID: "p1", Stock: 5})

	_, err := s.RecordSale(context.Background(), "p1", 6)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, fake.saleCalls)

	p, err := s.RecordSale(context.Background(), "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestStockRestockPatches(t *testing.T) {
	s, fake := seededStockStore(t, domain.Product{ID: "p1", Stock: 2})

	p, err := s.Restock(context.Background(), "p1", 10)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Stock)
	assert.Zero(t, fake.listCalls)
}
