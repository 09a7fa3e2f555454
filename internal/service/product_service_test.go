package service

import (
	"testing"

	"github.com/lunapatch/storefront/internal/catalog"
	"github.com/lunapatch/storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id, series string, featured bool, price int64, rating float64) models.Product {
	return models.Product{
		ID:       id,
		Slug:     id + "-slug",
		Title:    "Product " + id,
		Series:   series,
		Featured: featured,
		Rating:   rating,
		Images:   models.StringArray{id + ".jpg"},
		Variants: []models.ProductVariant{
			{ID: id + "-v1", Name: "7 Patches", Price: price, Inventory: 5, SKU: id + "-7"},
			{ID: id + "-v2", Name: "30 Patches", Price: price * 3, Inventory: 1, SKU: id + "-30"},
		},
	}
}

func testCatalog() []models.Product {
	return []models.Product{
		testProduct("a", "Sleep", false, 349, 4.5),
		testProduct("b", "Focus", true, 249, 4.6),
		testProduct("c", "Sleep", true, 299, 4.8),
		testProduct("d", "Sleep", false, 199, 4.8),
		testProduct("e", "Mood", false, 329, 4.7),
		testProduct("f", "Sleep", true, 299, 4.1),
		testProduct("g", "Collection", false, 449, 4.9),
	}
}

func ids(products []models.Product) []string {
	result := make([]string, 0, len(products))
	for _, product := range products {
		result = append(result, product.ID)
	}
	return result
}

func newTestProductService(t *testing.T) *ProductService {
	t.Helper()
	provider, err := catalog.NewStaticProvider(testCatalog())
	require.NoError(t, err)
	return NewProductService(provider)
}

func TestQueryFeaturedIsStablePartition(t *testing.T) {
	result := QueryProducts(testCatalog(), "all", "featured")
	assert.Equal(t, []string{"b", "c", "f", "a", "d", "e", "g"}, ids(result))
}

func TestQuerySleepPriceLow(t *testing.T) {
	result := QueryProducts(testCatalog(), "Sleep", "price-low")
	assert.Equal(t, []string{"d", "c", "f", "a"}, ids(result))
	for i := 1; i < len(result); i++ {
		assert.LessOrEqual(t, result[i-1].Variants[0].Price, result[i].Variants[0].Price)
		assert.Equal(t, "Sleep", result[i].Series)
	}
}

func TestQueryPriceHighAndRatingAreStable(t *testing.T) {
	assert.Equal(t, []string{"g", "a", "e", "c", "f", "b", "d"}, ids(QueryProducts(testCatalog(), "all", "price-high")))
	assert.Equal(t, []string{"g", "c", "d", "e", "b", "a", "f"}, ids(QueryProducts(testCatalog(), "all", "rating")))
}

func TestQueryUnknownSortFallsBackToFeatured(t *testing.T) {
	assert.Equal(t,
		ids(QueryProducts(testCatalog(), "all", "featured")),
		ids(QueryProducts(testCatalog(), "all", "newest")),
	)
}

func TestQueryUnknownSeriesMatchesNothing(t *testing.T) {
	result := QueryProducts(testCatalog(), "Energy", "featured")
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	products := testCatalog()
	_ = QueryProducts(products, "all", "price-high")
	assert.Equal(t, ids(testCatalog()), ids(products))
}

func TestParseCatalogQueryDefaults(t *testing.T) {
	assert.Equal(t, CatalogQuery{Series: "all", Sort: "featured"}, ParseCatalogQuery("", " "))
	assert.Equal(t, CatalogQuery{Series: "Sleep", Sort: "rating"}, ParseCatalogQuery("Sleep", "rating"))
}

func TestProductServiceList(t *testing.T) {
	svc := newTestProductService(t)
	assert.Equal(t, []string{"b", "c", "f", "a", "d", "e", "g"}, ids(svc.List(CatalogQuery{})))
	assert.Equal(t, []string{"e"}, ids(svc.List(CatalogQuery{Series: "Mood"})))
}

func TestProductServiceGetBySlug(t *testing.T) {
	svc := newTestProductService(t)
	product, err := svc.GetBySlug("c-slug")
	require.NoError(t, err)
	assert.Equal(t, "c", product.ID)

	_, err = svc.GetBySlug("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetBySlug("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductServiceRelated(t *testing.T) {
	svc := newTestProductService(t)
	product, err := svc.GetBySlug("a-slug")
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "d", "f"}, ids(svc.Related(product, 0)))
	assert.Equal(t, []string{"c", "d"}, ids(svc.Related(product, 2)))
	assert.Empty(t, svc.Related(nil, 4))
}

func TestProductServiceFeaturedAndSeries(t *testing.T) {
	svc := newTestProductService(t)
	assert.Equal(t, []string{"b", "c", "f"}, ids(svc.Featured()))
	assert.Equal(t, []string{"all", "Sleep", "Focus", "Mood", "Collection"}, svc.Series())
}
