package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storehub-backend/internal/catalogtree"
	"storehub-backend/internal/domain"
	"storehub-backend/pkg/cache"
	"storehub-backend/pkg/logger"
)

// Storefront is everything a channel renders: branding, visible products and the
// populated category menu.
type Storefront struct {
	Store      *domain.Store          `json:"store"`
	Channel    domain.Channel         `json:"channel"`
	Branding   domain.ChannelBranding `json:"branding"`
	Products   []domain.Product       `json:"products"`
	Categories catalogtree.Forest     `json:"categories"`
	LoadedAt   time.Time              `json:"loadedAt"`
}

const (
	storefrontCachePrefix = "storefront:"
	storefrontIndexPrefix = "storefront-index:"
)

type StorefrontUsecase struct {
	stores     domain.StoreRepository
	products   domain.ProductRepository
	categories domain.CategoryRepository
	cache      cache.CacheService
	ttl        time.Duration
}

func NewStorefrontUsecase(stores domain.StoreRepository, products domain.ProductRepository, categories domain.CategoryRepository, c cache.CacheService, ttl time.Duration) *StorefrontUsecase {
	return &StorefrontUsecase{
		stores:     stores,
		products:   products,
		categories: categories,
		cache:      c,
		ttl:        ttl,
	}
}

// Load assembles a channel of the store with the given subdomain.
func (u *StorefrontUsecase) Load(ctx context.Context, subdomain string, ch domain.Channel) (*Storefront, error) {
	if sf, ok := u.cached(subdomain, ch); ok {
		return sf, nil
	}

	store, err := u.stores.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, storeLoadError(err)
	}
	return u.assemble(ctx, store, ch)
}

// LoadByStoreID assembles a channel of a store already resolved from a custom domain.
func (u *StorefrontUsecase) LoadByStoreID(ctx context.Context, storeID string, ch domain.Channel) (*Storefront, error) {
	if val, ok := u.cache.Get(storefrontIndexPrefix + storeID); ok {
		if sub, ok := val.(string); ok {
			if sf, ok := u.cached(sub, ch); ok {
				return sf, nil
			}
		}
	}

	store, err := u.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, storeLoadError(err)
	}
	return u.assemble(ctx, store, ch)
}

// ProductsInCategory returns the channel's products in a category or any of its descendants.
// An empty categoryID returns every product of the channel.
func (u *StorefrontUsecase) ProductsInCategory(ctx context.Context, subdomain string, ch domain.Channel, categoryID string) ([]domain.Product, error) {
	sf, err := u.Load(ctx, subdomain, ch)
	if err != nil {
		return nil, err
	}
	if categoryID == "" {
		return sf.Products, nil
	}

	ids := catalogtree.CountDescendants(categoryID, sf.Categories)
	out := []domain.Product{}
	for i := range sf.Products {
		if sf.Products[i].InAnyCategory(ids) {
			out = append(out, sf.Products[i])
		}
	}
	return out, nil
}

// assemble runs the channel pipeline strictly in order: gates, products, then categories,
// since counts depend on the product list.
func (u *StorefrontUsecase) assemble(ctx context.Context, store *domain.Store, ch domain.Channel) (*Storefront, error) {
	log := logger.WithContext(ctx)

	if !store.IsActive() {
		return nil, domain.ErrStoreNotFound
	}
	if !store.ChannelEnabled(ch) {
		return nil, &domain.ChannelError{Channel: ch, Err: domain.ErrChannelNotActivated}
	}

	sf := &Storefront{
		Store:      store,
		Channel:    ch,
		Branding:   store.Branding(ch),
		Products:   []domain.Product{},
		Categories: catalogtree.Forest{},
		LoadedAt:   time.Now().UTC(),
	}

	catalogID, scoped := store.CatalogFor(ch)
	if scoped && catalogID == nil {
		// An unbound channel is empty, never the whole assortment.
		u.remember(sf)
		return sf, nil
	}

	var err error
	if scoped {
		sf.Products, err = u.products.ListVisibleInCatalog(ctx, *catalogID)
	} else {
		sf.Products, err = u.products.ListActiveByStore(ctx, store.ID)
	}
	if err != nil {
		log.Error().Err(err).Str("store_id", store.ID).Str("channel", string(ch)).Msg("Failed to load storefront products")
		return nil, fmt.Errorf("%w: products: %v", domain.ErrLoadFailed, err)
	}

	categories, err := u.categories.ListByStore(ctx, store.ID)
	if err != nil {
		log.Error().Err(err).Str("store_id", store.ID).Msg("Failed to load storefront categories")
		return nil, fmt.Errorf("%w: categories: %v", domain.ErrLoadFailed, err)
	}

	var settings []domain.CatalogCategorySetting
	if scoped {
		settings, err = u.categories.ListCatalogSettings(ctx, *catalogID)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog settings: %v", domain.ErrLoadFailed, err)
		}
	}

	forest := catalogtree.Build(catalogtree.Merge(categories, settings))
	catalogtree.ApplyCounts(forest, sf.Products)
	sf.Categories = catalogtree.FilterToPopulated(forest)

	u.remember(sf)
	return sf, nil
}

func (u *StorefrontUsecase) cached(subdomain string, ch domain.Channel) (*Storefront, bool) {
	val, found := u.cache.Get(storefrontKey(subdomain, ch))
	if !found {
		return nil, false
	}
	sf, ok := val.(*Storefront)
	return sf, ok
}

func (u *StorefrontUsecase) remember(sf *Storefront) {
	u.cache.Set(storefrontKey(sf.Store.Subdomain, sf.Channel), sf, u.ttl)
	u.cache.Set(storefrontIndexPrefix+sf.Store.ID, sf.Store.Subdomain, u.ttl)
}

// InvalidateStore drops every cached channel of a store so the next read refetches.
func (u *StorefrontUsecase) InvalidateStore(storeID string) {
	val, ok := u.cache.Get(storefrontIndexPrefix + storeID)
	if !ok {
		return
	}
	u.cache.Delete(storefrontIndexPrefix + storeID)
	if sub, ok := val.(string); ok {
		u.cache.DeletePrefix(storefrontCachePrefix + sub + ":")
	}
}

// InvalidateAll drops every cached storefront.
func (u *StorefrontUsecase) InvalidateAll() {
	u.cache.DeletePrefix(storefrontCachePrefix)
	u.cache.DeletePrefix(storefrontIndexPrefix)
}

func storefrontKey(subdomain string, ch domain.Channel) string {
	return storefrontCachePrefix + subdomain + ":" + string(ch)
}

func storeLoadError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrStoreNotFound
	}
	return fmt.Errorf("%w: store: %v", domain.ErrLoadFailed, err)
}
