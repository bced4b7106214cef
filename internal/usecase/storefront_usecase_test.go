package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehub-backend/internal/domain"
	memcache "storehub-backend/internal/infrastructure/cache"
)

func storefrontFixture() (*domain.Store, *fakeProducts, *fakeCategories) {
	store := &domain.Store{
		ID:               "s1",
		Subdomain:        "acme",
		Name:             "Acme",
		Status:           domain.StoreStatusActive,
		RetailEnabled:    true,
		WholesaleEnabled: true,
		ShowcaseEnabled:  true,
		WholesaleName:    strPtr("Acme Opt"),
	}
	product := func(id string, cats ...string) domain.Product {
		return domain.Product{ID: id, StoreID: "s1", Name: id, Price: decimal.NewFromInt(10), IsActive: true, CategoryIDs: cats, Lifecycle: domain.Active()}
	}
	products := newFakeProducts(
		product("p1", "c"),
		product("p2", "d"),
		product("p3"),
	)
	categories := newFakeCategories(
		domain.Category{ID: "a", StoreID: "s1", Name: "A"},
		domain.Category{ID: "b", StoreID: "s1", Name: "B", ParentID: strPtr("a")},
		domain.Category{ID: "c", StoreID: "s1", Name: "C", ParentID: strPtr("b")},
		domain.Category{ID: "d", StoreID: "s1", Name: "D"},
		domain.Category{ID: "e", StoreID: "s1", Name: "Empty"},
	)
	return store, products, categories
}

func newStorefront(stores *fakeStores, products *fakeProducts, categories *fakeCategories) *StorefrontUsecase {
	return NewStorefrontUsecase(stores, products, categories, memcache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
}

func TestStorefrontRetailBuildsPopulatedTree(t *testing.T) {
	store, products, categories := storefrontFixture()
	u := newStorefront(newFakeStores(store), products, categories)

	sf, err := u.Load(context.Background(), "acme", domain.ChannelRetail)
	require.NoError(t, err)
	assert.Len(t, sf.Products, 3)
	assert.Equal(t, "Acme", sf.Branding.Name)

	require.Len(t, sf.Categories, 2)
	assert.Equal(t, "a", sf.Categories[0].ID)
	assert.Equal(t, "d", sf.Categories[1].ID)
	assert.Equal(t, 1, sf.Categories[0].TotalCount)
	assert.Nil(t, sf.Categories.Find("e"))
}

func TestStorefrontWholesaleWithoutCatalogIsEmpty(t *testing.T) {
	store, products, categories := storefrontFixture()
	u := newStorefront(newFakeStores(store), products, categories)

	sf, err := u.Load(context.Background(), "acme", domain.ChannelWholesale)
	require.NoError(t, err)
	assert.NotNil(t, sf.Products)
	assert.Empty(t, sf.Products)
	assert.Empty(t, sf.Categories)
	assert.Equal(t, "Acme Opt", sf.Branding.Name)
	assert.Zero(t, products.listCalls)
}

func TestStorefrontCatalogScopedWithOverrides(t *testing.T) {
	store, products, categories := storefrontFixture()
	store.ShowcaseCatalogID = strPtr("cat-1")
	products.catalogs["cat-1"] = []string{"p2"}
	categories.settings["cat-1"] = []domain.CatalogCategorySetting{
		{CatalogID: "cat-1", CategoryID: "d", ParentID: strPtr("e"), CustomName: strPtr("Dishes")},
	}
	u := newStorefront(newFakeStores(store), products, categories)

	sf, err := u.Load(context.Background(), "acme", domain.ChannelShowcase)
	require.NoError(t, err)
	require.Len(t, sf.Products, 1)
	assert.Equal(t, "p2", sf.Products[0].ID)

	require.Len(t, sf.Categories, 1)
	root := sf.Categories[0]
	assert.Equal(t, "e", root.ID)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "Dishes", root.Children[0].Name)
	assert.Equal(t, 1, root.TotalCount)
}

func TestStorefrontErrorsAreDistinct(t *testing.T) {
	store, products, categories := storefrontFixture()
	store.ShowcaseEnabled = false
	stores := newFakeStores(store)
	u := newStorefront(stores, products, categories)

	_, err := u.Load(context.Background(), "missing", domain.ChannelRetail)
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)

	_, err = u.Load(context.Background(), "acme", domain.ChannelShowcase)
	assert.ErrorIs(t, err, domain.ErrChannelNotActivated)
	assert.NotErrorIs(t, err, domain.ErrStoreNotFound)

	products.listErr = errDB
	_, err = u.Load(context.Background(), "acme", domain.ChannelRetail)
	assert.ErrorIs(t, err, domain.ErrLoadFailed)
}

func TestStorefrontSuspendedStoreIsNotFound(t *testing.T) {
	store, products, categories := storefrontFixture()
	store.Status = domain.StoreStatusSuspended
	u := newStorefront(newFakeStores(store), products, categories)

	_, err := u.Load(context.Background(), "acme", domain.ChannelRetail)
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
}

func TestStorefrontCachesUntilStoreInvalidated(t *testing.T) {
	store, products, categories := storefrontFixture()
	u := newStorefront(newFakeStores(store), products, categories)
	ctx := context.Background()

	_, err := u.Load(ctx, "acme", domain.ChannelRetail)
	require.NoError(t, err)
	_, err = u.LoadByStoreID(ctx, "s1", domain.ChannelRetail)
	require.NoError(t, err)
	assert.Equal(t, 1, products.listCalls)

	u.InvalidateStore("s1")
	sf, err := u.Load(ctx, "acme", domain.ChannelRetail)
	require.NoError(t, err)
	assert.Equal(t, 2, products.listCalls)
	assert.Len(t, sf.Products, 3)

	u.InvalidateAll()
	_, err = u.Load(ctx, "acme", domain.ChannelRetail)
	require.NoError(t, err)
	assert.Equal(t, 3, products.listCalls)
}

func TestProductsInCategoryIncludesDescendants(t *testing.T) {
	store, products, categories := storefrontFixture()
	u := newStorefront(newFakeStores(store), products, categories)
	ctx := context.Background()

	got, err := u.ProductsInCategory(ctx, "acme", domain.ChannelRetail, "a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	got, err = u.ProductsInCategory(ctx, "acme", domain.ChannelRetail, "")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = u.ProductsInCategory(ctx, "acme", domain.ChannelRetail, "unknown")
	require.NoError(t, err)
	assert.Empty(t, got)
}
