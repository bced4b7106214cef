package usecase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/cache"
	"storehub-backend/pkg/logger"
)

type ResolutionKind string

const (
	// ResolutionPlatform means the host belongs to the platform itself and routes by subdomain.
	ResolutionPlatform ResolutionKind = "platform"
	ResolutionTenant   ResolutionKind = "tenant"
)

type Resolution struct {
	Kind    ResolutionKind `json:"kind"`
	Host    string         `json:"host"`
	Store   *domain.Store  `json:"store,omitempty"`
	Channel domain.Channel `json:"channel,omitempty"`
}

const domainCachePrefix = "domain:"

type ResolverUsecase struct {
	stores          domain.StoreRepository
	platformDomains []string
	cache           cache.CacheService
	ttl             time.Duration
	recorder        Recorder
}

func NewResolverUsecase(stores domain.StoreRepository, platformDomains []string, c cache.CacheService, ttl time.Duration, recorder Recorder) *ResolverUsecase {
	normalized := make([]string, 0, len(platformDomains))
	for _, d := range platformDomains {
		if d = NormalizeHost(d); d != "" {
			normalized = append(normalized, d)
		}
	}
	return &ResolverUsecase{
		stores:          stores,
		platformDomains: normalized,
		cache:           c,
		ttl:             ttl,
		recorder:        recorderOrNop(recorder),
	}
}

// Resolve maps a request host onto a store and channel. Wholesale domains are checked before
// retail ones. ErrDomainNotFound means the host is not ours, ErrLookupFailed that we could not check.
func (u *ResolverUsecase) Resolve(ctx context.Context, hostname string) (*Resolution, error) {
	host := NormalizeHost(hostname)
	if host == "" {
		u.recorder.ResolutionOutcome("invalid")
		return nil, domain.NewValidationError("host", "host is required")
	}

	if u.IsPlatformHost(host) {
		u.recorder.ResolutionOutcome(string(ResolutionPlatform))
		return &Resolution{Kind: ResolutionPlatform, Host: host}, nil
	}

	key := domainCachePrefix + host
	if val, found := u.cache.Get(key); found {
		if res, ok := val.(*Resolution); ok {
			u.recorder.ResolutionOutcome("cached")
			return res, nil
		}
	}

	res, err := u.lookup(ctx, host)
	if err != nil {
		if errors.Is(err, domain.ErrDomainNotFound) {
			u.recorder.ResolutionOutcome("not_found")
		} else {
			u.recorder.ResolutionOutcome("lookup_failed")
			logger.WithContext(ctx).Error().Err(err).Str("host", host).Msg("Domain lookup failed")
		}
		return nil, err
	}

	u.recorder.ResolutionOutcome(string(ResolutionTenant))
	u.cache.Set(key, res, u.ttl)
	return res, nil
}

func (u *ResolverUsecase) lookup(ctx context.Context, host string) (*Resolution, error) {
	store, err := u.stores.FindByWholesaleDomain(ctx, host)
	switch {
	case err == nil:
		return &Resolution{Kind: ResolutionTenant, Host: host, Store: store, Channel: domain.ChannelWholesale}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	store, err = u.stores.FindByRetailDomain(ctx, host)
	switch {
	case err == nil:
		return &Resolution{Kind: ResolutionTenant, Host: host, Store: store, Channel: domain.ChannelRetail}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrDomainNotFound, host)
}

// IsPlatformHost reports whether host equals or sits under a platform domain.
func (u *ResolverUsecase) IsPlatformHost(host string) bool {
	for _, d := range u.platformDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// PlatformSubdomain extracts the store subdomain from a platform host such as "shop.storehub.app".
func (u *ResolverUsecase) PlatformSubdomain(host string) string {
	host = NormalizeHost(host)
	for _, d := range u.platformDomains {
		if sub, ok := strings.CutSuffix(host, "."+d); ok && sub != "" && !strings.Contains(sub, ".") {
			return sub
		}
	}
	return ""
}

// Invalidate forgets every cached resolution.
func (u *ResolverUsecase) Invalidate() {
	u.cache.DeletePrefix(domainCachePrefix)
}

// NormalizeHost lowercases a host and strips the port and trailing dot.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	return strings.TrimSuffix(host, ".")
}
