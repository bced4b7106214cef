package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehub-backend/internal/domain"
	memcache "storehub-backend/internal/infrastructure/cache"
)

var platformDomains = []string{"localhost", "storehub.app", "lovableproject.com"}

func newResolver(stores *fakeStores, rec Recorder) *ResolverUsecase {
	return NewResolverUsecase(stores, platformDomains, memcache.NewMemoryCache(time.Minute, time.Minute), time.Minute, rec)
}

func wholesaleStore(enabled bool) *domain.Store {
	return &domain.Store{
		ID:                    "s1",
		Subdomain:             "acme",
		Status:                domain.StoreStatusActive,
		WholesaleCustomDomain: strPtr("opt.acme.com"),
		WholesaleEnabled:      enabled,
	}
}

func TestResolvePlatformHostsNeverQuery(t *testing.T) {
	stores := newFakeStores(wholesaleStore(true))
	r := newResolver(stores, nil)

	hosts := []string{"localhost", "localhost:8080", "storehub.app", "acme.storehub.app", "ACME.StoreHub.App.", "preview-1.lovableproject.com"}
	for _, h := range hosts {
		res, err := r.Resolve(context.Background(), h)
		require.NoError(t, err, h)
		assert.Equal(t, ResolutionPlatform, res.Kind, h)
	}
	assert.Zero(t, stores.callCount())
}

func TestResolveWholesaleDomain(t *testing.T) {
	rec := &fakeRecorder{}
	r := newResolver(newFakeStores(wholesaleStore(true)), rec)

	res, err := r.Resolve(context.Background(), "opt.acme.com")
	require.NoError(t, err)
	assert.Equal(t, ResolutionTenant, res.Kind)
	assert.Equal(t, domain.ChannelWholesale, res.Channel)
	assert.Equal(t, "s1", res.Store.ID)
	assert.Equal(t, []string{"tenant"}, rec.resolutions)
}

func TestResolveWholesaleDisabledIsNotFound(t *testing.T) {
	r := newResolver(newFakeStores(wholesaleStore(false)), nil)

	_, err := r.Resolve(context.Background(), "opt.acme.com")
	assert.ErrorIs(t, err, domain.ErrDomainNotFound)
}

func TestResolveWholesaleBeforeRetail(t *testing.T) {
	both := &domain.Store{
		ID:                    "s1",
		Status:                domain.StoreStatusActive,
		CustomDomain:          strPtr("shop.example.com"),
		WholesaleCustomDomain: strPtr("shop.example.com"),
		RetailEnabled:         true,
		WholesaleEnabled:      true,
	}
	r := newResolver(newFakeStores(both), nil)

	res, err := r.Resolve(context.Background(), "shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelWholesale, res.Channel)
}

func TestResolveRetailDomain(t *testing.T) {
	s := &domain.Store{ID: "s2", Status: domain.StoreStatusActive, CustomDomain: strPtr("shop.example.com"), RetailEnabled: true}
	r := newResolver(newFakeStores(s), nil)

	res, err := r.Resolve(context.Background(), "Shop.Example.com:443")
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelRetail, res.Channel)
	assert.Equal(t, "shop.example.com", res.Host)
}

func TestResolveLookupFailedIsDistinct(t *testing.T) {
	stores := newFakeStores()
	stores.err = errDB
	rec := &fakeRecorder{}
	r := newResolver(stores, rec)

	_, err := r.Resolve(context.Background(), "shop.example.com")
	assert.ErrorIs(t, err, domain.ErrLookupFailed)
	assert.NotErrorIs(t, err, domain.ErrDomainNotFound)
	assert.Equal(t, []string{"lookup_failed"}, rec.resolutions)
}

func TestResolveCachesUntilInvalidated(t *testing.T) {
	s := &domain.Store{ID: "s2", Status: domain.StoreStatusActive, CustomDomain: strPtr("shop.example.com"), RetailEnabled: true}
	stores := newFakeStores(s)
	r := newResolver(stores, nil)

	_, err := r.Resolve(context.Background(), "shop.example.com")
	require.NoError(t, err)
	calls := stores.callCount()

	_, err = r.Resolve(context.Background(), "shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, calls, stores.callCount())

	r.Invalidate()
	_, err = r.Resolve(context.Background(), "shop.example.com")
	require.NoError(t, err)
	assert.Greater(t, stores.callCount(), calls)
}

func TestResolveBlankHost(t *testing.T) {
	r := newResolver(newFakeStores(), nil)
	_, err := r.Resolve(context.Background(), "  ")
	assert.True(t, domain.IsValidation(err))
}

func TestPlatformSubdomain(t *testing.T) {
	r := newResolver(newFakeStores(), nil)
	assert.Equal(t, "acme", r.PlatformSubdomain("acme.storehub.app"))
	assert.Equal(t, "acme", r.PlatformSubdomain("ACME.localhost:5173"))
	assert.Equal(t, "", r.PlatformSubdomain("storehub.app"))
	assert.Equal(t, "", r.PlatformSubdomain("a.b.storehub.app"))
	assert.Equal(t, "", r.PlatformSubdomain("shop.example.com"))
}
