package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCartStorage struct {
	loadErr error
	saveErr error
	blob    []byte
	saves   int
}

func (f *failingCartStorage) Load(context.Context, string) ([]byte, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	return f.blob, f.blob != nil, nil
}

func (f *failingCartStorage) Save(context.Context, string, []byte) error {
	f.saves++
	return f.saveErr
}

func newTestCart(t *testing.T) *CartStore {
	t.Helper()
	return OpenCartStore(context.Background(), NewMemoryCartStorage(), "lunapatch-cart:test")
}

func addLine(t *testing.T, cart *CartStore, productID, variantID string, price int64, quantity int) {
	t.Helper()
	cart.AddItem(context.Background(), AddCartItemInput{
		ProductID:    productID,
		VariantID:    variantID,
		ProductTitle: "title-" + productID,
		VariantName:  "variant-" + variantID,
		Price:        price,
		Quantity:     quantity,
		Image:        productID + ".jpg",
		Series:       "Sleep",
	})
}

func TestAddItemMergesSameKeyAndSumsQuantities(t *testing.T) {
	cart := newTestCart(t)
	addLine(t, cart, "p1", "v1", 299, 2)
	addLine(t, cart, "p1", "v1", 299, 0)
	addLine(t, cart, "p1", "v1", 299, 3)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 6, items[0].Quantity)
	assert.Equal(t, 6, cart.TotalItems())
}

func TestAddItemMergeKeepsOriginalSnapshot(t *testing.T) {
	cart := newTestCart(t)
	addLine(t, cart, "p1", "v1", 299, 1)
	cart.AddItem(context.Background(), AddCartItemInput{
		ProductID: "p1", VariantID: "v1", ProductTitle: "renamed", Price: 999, Quantity: 1,
	})

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(299), items[0].Price)
	assert.Equal(t, "title-p1", items[0].ProductTitle)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItemKeepsInsertionOrder(t *testing.T) {
	cart := newTestCart(t)
	addLine(t, cart, "p2", "v2", 150, 1)
	addLine(t, cart, "p1", "v1", 299, 1)
	addLine(t, cart, "p1", "v9", 599, 1)
	addLine(t, cart, "p2", "v2", 150, 1)

	items := cart.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "p2", items[0].ProductID)
	assert.Equal(t, "v1", items[1].VariantID)
	assert.Equal(t, "v9", items[2].VariantID)
}

func TestAddItemIgnoresBlankKey(t *testing.T) {
	cart := newTestCart(t)
	cart.AddItem(context.Background(), AddCartItemInput{ProductID: " ", VariantID: "v"})
	cart.AddItem(context.Background(), AddCartItemInput{ProductID: "p", VariantID: "v", Price: -1})
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.TotalPrice())
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	viaUpdate := newTestCart(t)
	viaRemove := newTestCart(t)
	for _, cart := range []*CartStore{viaUpdate, viaRemove} {
		addLine(t, cart, "p1", "v1", 299, 2)
		addLine(t, cart, "p2", "v2", 150, 1)
	}
	viaUpdate.UpdateQuantity(context.Background(), "p1", "v1", 0)
	viaRemove.RemoveItem(context.Background(), "p1", "v1")

	assert.Equal(t, viaRemove.Items(), viaUpdate.Items())
	for _, item := range viaUpdate.Items() {
		assert.False(t, item.ProductID == "p1" && item.VariantID == "v1")
	}
}

func TestUpdateQuantityNegativeRemovesItem(t *testing.T) {
	cart := newTestCart(t)
	addLine(t, cart, "p1", "v1", 299, 2)
	cart.UpdateQuantity(context.Background(), "p1", "v1", -3)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.TotalPrice())
}

func TestUpdateQuantityOverwrites(t *testing.T) {
	cart := newTestCart(t)
	addLine(t, cart, "p1", "v1", 299, 2)
	cart.UpdateQuantity(context.Background(), "p1", "v1", 5)
	assert.Equal(t, 5, cart.TotalItems())
	assert.Equal(t, int64(1495), cart.TotalPrice())
}

func TestUnknownKeyOperationsAreNoops(t *testing.T) {
	storage := &failingCartStorage{}
	cart := OpenCartStore(context.Background(), storage, "k")
	addLine(t, cart, "p1", "v1", 299, 1)
	savesAfterAdd := storage.saves

	cart.RemoveItem(context.Background(), "missing", "v1")
	cart.UpdateQuantity(context.Background(), "p1", "missing", 4)
	cart.UpdateQuantity(context.Background(), "missing", "v1", 0)

	assert.Equal(t, savesAfterAdd, storage.saves)
	assert.Equal(t, 1, cart.TotalItems())
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	cart := newTestCart(t)
	addLine(t, cart, "p1", "v1", 299, 2)
	before := cart.Items()

	addLine(t, cart, "p3", "v3", 80, 4)
	cart.RemoveItem(context.Background(), "p3", "v3")
	assert.Equal(t, before, cart.Items())
}

func TestTotalsScenario748(t *testing.T) {
	cart := newTestCart(t)
	addLine(t, cart, "p1", "v1", 299, 2)
	addLine(t, cart, "p2", "v2", 150, 1)

	assert.Equal(t, 3, cart.TotalItems())
	assert.Equal(t, int64(748), cart.TotalPrice())
	summary := cart.Summary()
	assert.Equal(t, int64(0), summary.Shipping)
	assert.Equal(t, int64(748), summary.Total)
	assert.Equal(t, int64(0), summary.FreeShippingRemaining)
}

func TestEmptyCartTotals(t *testing.T) {
	cart := newTestCart(t)
	assert.Equal(t, int64(0), cart.TotalPrice())
	assert.Equal(t, 0, cart.TotalItems())
	assert.True(t, cart.IsEmpty())
	assert.NotNil(t, cart.Summary().Items)
}

func TestClearEmptiesCart(t *testing.T) {
	cart := newTestCart(t)
	addLine(t, cart, "p1", "v1", 299, 2)
	cart.Clear(context.Background())
	assert.True(t, cart.IsEmpty())
}

func TestItemsReturnsCopy(t *testing.T) {
	cart := newTestCart(t)
	addLine(t, cart, "p1", "v1", 299, 2)
	items := cart.Items()
	items[0].Quantity = 100
	assert.Equal(t, 2, cart.TotalItems())
}

func TestCartRehydratesFromStorage(t *testing.T) {
	storage := NewMemoryCartStorage()
	cart := OpenCartStore(context.Background(), storage, "lunapatch-cart:s1")
	addLine(t, cart, "p1", "v1", 299, 2)
	addLine(t, cart, "p2", "v2", 150, 1)

	reopened := OpenCartStore(context.Background(), storage, "lunapatch-cart:s1")
	assert.Equal(t, cart.Items(), reopened.Items())

	other := OpenCartStore(context.Background(), storage, "lunapatch-cart:s2")
	assert.True(t, other.IsEmpty())
}

func TestCartRehydrateToleratesBadData(t *testing.T) {
	cases := map[string]*failingCartStorage{
		"malformed":  {blob: []byte(`{"items":[`)},
		"wrong type": {blob: []byte(`{"items":"nope"}`)},
		"load error": {loadErr: errors.New("storage offline")},
	}
	for name, storage := range cases {
		t.Run(name, func(t *testing.T) {
			cart := OpenCartStore(context.Background(), storage, "k")
			assert.True(t, cart.IsEmpty())
			addLine(t, cart, "p1", "v1", 10, 1)
			assert.Equal(t, 1, cart.TotalItems())
		})
	}
}

func TestCartRehydrateDropsInvalidItems(t *testing.T) {
	storage := &failingCartStorage{blob: []byte(`{"items":[
		{"product_id":"p1","variant_id":"v1","price":100,"quantity":2},
		{"product_id":"p2","variant_id":"v2","price":100,"quantity":0},
		{"product_id":"","variant_id":"v3","price":100,"quantity":1},
		{"product_id":"p1","variant_id":"v1","price":100,"quantity":5}
	]}`)}
	cart := OpenCartStore(context.Background(), storage, "k")
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartSaveFailureKeepsMemoryState(t *testing.T) {
	storage := &failingCartStorage{saveErr: errors.New("disk full")}
	cart := OpenCartStore(context.Background(), storage, "k")
	addLine(t, cart, "p1", "v1", 299, 2)
	cart.UpdateQuantity(context.Background(), "p1", "v1", 3)

	assert.Equal(t, 3, cart.TotalItems())
	assert.Equal(t, 2, storage.saves)
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	cart := newTestCart(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart.AddItem(context.Background(), AddCartItemInput{ProductID: "p1", VariantID: "v1", Price: 10, Quantity: 2})
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, cart.TotalItems())

	reopened := OpenCartStore(context.Background(), cart.storage, cart.Key())
	assert.Equal(t, 100, reopened.TotalItems())
}
