package search

import (
	"context"
	"testing"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct{ products []models.Product }

func (s staticSource) Products(context.Context) ([]models.Product, error) {
	return s.products, nil
}

func newLocalService(t *testing.T, products []models.Product) *Service {
	t.Helper()
	cache := catalog.NewCache(staticSource{products: products})
	require.NoError(t, cache.Refresh(context.Background()))
	return &Service{Catalog: cache}
}

func TestSearch_LocalSubstring(t *testing.T) {
	t.Parallel()

	svc := newLocalService(t, []models.Product{
		{ID: 1, Name: "iPhone 14", Description: "Смартфон Apple"},
		{ID: 2, Name: "Samsung Galaxy", Description: "Флагманский смартфон"},
		{ID: 3, Name: "Чехол", Description: "Аксессуар для iPhone"},
	})

	total, products, err := svc.Search(context.Background(), "iphone", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, products, 2)
	assert.Equal(t, "iPhone 14", products[0].Name)
	assert.Equal(t, "Чехол", products[1].Name)
}

func TestSearch_LocalPagination(t *testing.T) {
	t.Parallel()

	svc := newLocalService(t, []models.Product{
		{ID: 1, Name: "смартфон один"},
		{ID: 2, Name: "смартфон два"},
		{ID: 3, Name: "смартфон три"},
	})

	total, products, err := svc.Search(context.Background(), "смартфон", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 1)
	assert.Equal(t, "смартфон два", products[0].Name)
}

func TestSearch_LocalEmptyQuery(t *testing.T) {
	t.Parallel()

	svc := newLocalService(t, []models.Product{{ID: 1, Name: "iPhone 14"}})

	total, products, err := svc.Search(context.Background(), "   ", 0, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, products)
}
