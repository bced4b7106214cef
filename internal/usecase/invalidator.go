package usecase

import (
	"context"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
)

const storesTable = "stores"

// DomainInvalidator forgets cached host resolutions.
type DomainInvalidator interface {
	Invalidate()
}

// FullInvalidator drops every cached entry. Store invalidators that implement it are
// flushed when a resync event arrives.
type FullInvalidator interface {
	InvalidateAll()
}

// CacheInvalidator turns row change events into cache invalidation: the next read of an
// affected store refetches and swaps in a fresh snapshot.
type CacheInvalidator struct {
	subscriber domain.ChangeSubscriber
	stores     StoreInvalidator
	domains    DomainInvalidator
}

func NewCacheInvalidator(subscriber domain.ChangeSubscriber, stores StoreInvalidator, domains DomainInvalidator) *CacheInvalidator {
	return &CacheInvalidator{subscriber: subscriber, stores: stores, domains: domains}
}

// Run consumes events until ctx is done or the subscription is closed.
func (i *CacheInvalidator) Run(ctx context.Context) {
	events, unsubscribe := i.subscriber.Subscribe("", "")
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			i.handle(evt)
		}
	}
}

func (i *CacheInvalidator) handle(evt domain.ChangeEvent) {
	if evt.IsResync() {
		logger.Get().Info().Msg("Realtime resync, dropping cached storefronts and domains")
		if all, ok := i.stores.(FullInvalidator); ok {
			all.InvalidateAll()
		}
		if i.domains != nil {
			i.domains.Invalidate()
		}
		return
	}
	if evt.Table == storesTable && i.domains != nil {
		i.domains.Invalidate()
	}
	if evt.StoreID == "" {
		logger.Get().Debug().Str("table", evt.Table).Msg("Change without store id, nothing to invalidate")
		return
	}
	i.stores.InvalidateStore(evt.StoreID)
}
