package usecase

import (
	"context"
	"errors"
	"fmt"

	"storehub-backend/internal/domain"
)

// Recorder receives business level counters. The metrics package implements it.
type Recorder interface {
	ResolutionOutcome(outcome string)
	OrderPlaced(channel string)
}

type nopRecorder struct{}

func (nopRecorder) ResolutionOutcome(string) {}
func (nopRecorder) OrderPlaced(string)       {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// StoreInvalidator drops cached read models of a store after a seller write.
type StoreInvalidator interface {
	InvalidateStore(storeID string)
}

// storeGuard loads a store and checks that the caller owns it.
type storeGuard struct {
	stores domain.StoreRepository
}

func (g storeGuard) authorize(ctx context.Context, userID, storeID string) (*domain.Store, error) {
	store, err := g.stores.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, fmt.Errorf("load store: %w", err)
	}
	if userID == "" || store.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return store, nil
}
