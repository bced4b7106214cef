package usecase

import (
	"context"
	"fmt"
	"time"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
)

// TrashUsecase moves products between the Active and Trashed lifecycle states and purges them.
type TrashUsecase struct {
	guard       storeGuard
	products    domain.ProductRepository
	txManager   domain.TransactionManager
	invalidator StoreInvalidator
	now         func() time.Time
}

func NewTrashUsecase(stores domain.StoreRepository, products domain.ProductRepository, txManager domain.TransactionManager, invalidator StoreInvalidator) *TrashUsecase {
	return &TrashUsecase{
		guard:       storeGuard{stores: stores},
		products:    products,
		txManager:   txManager,
		invalidator: invalidator,
		now:         time.Now,
	}
}

func (u *TrashUsecase) ListTrashed(ctx context.Context, userID, storeID string) ([]domain.Product, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return nil, err
	}
	return u.products.ListTrashed(ctx, storeID)
}

func (u *TrashUsecase) MoveToTrash(ctx context.Context, userID, storeID, productID string) error {
	return u.setLifecycle(ctx, userID, storeID, productID, domain.Trashed(u.now()))
}

func (u *TrashUsecase) Restore(ctx context.Context, userID, storeID, productID string) error {
	return u.setLifecycle(ctx, userID, storeID, productID, domain.Active())
}

func (u *TrashUsecase) setLifecycle(ctx context.Context, userID, storeID, productID string, lc domain.Lifecycle) error {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return err
	}
	if err := u.products.SetLifecycle(ctx, storeID, productID, lc); err != nil {
		return err
	}
	u.invalidate(storeID)
	return nil
}

// Purge deletes a trashed product together with its category assignments and catalog
// visibility in one transaction. Active products must be trashed first.
func (u *TrashUsecase) Purge(ctx context.Context, userID, storeID, productID string) error {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return err
	}

	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		p, err := u.products.GetByID(txCtx, storeID, productID)
		if err != nil {
			return err
		}
		if !p.Lifecycle.IsTrashed() {
			return domain.NewValidationError("productId", "only trashed products can be deleted permanently")
		}
		return u.products.Purge(txCtx, storeID, productID)
	})
	if err != nil {
		return fmt.Errorf("purge product: %w", err)
	}

	logger.WithContext(ctx).Info().Str("store_id", storeID).Str("product_id", productID).Msg("Product purged")
	u.invalidate(storeID)
	return nil
}

// EmptyTrash purges every trashed product of the store in one transaction.
func (u *TrashUsecase) EmptyTrash(ctx context.Context, userID, storeID string) (int, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return 0, err
	}

	purged := 0
	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		trashed, err := u.products.ListTrashed(txCtx, storeID)
		if err != nil {
			return err
		}
		for _, p := range trashed {
			if err := u.products.Purge(txCtx, storeID, p.ID); err != nil {
				return err
			}
		}
		purged = len(trashed)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("empty trash: %w", err)
	}
	u.invalidate(storeID)
	return purged, nil
}

func (u *TrashUsecase) invalidate(storeID string) {
	if u.invalidator != nil {
		u.invalidator.InvalidateStore(storeID)
	}
}
