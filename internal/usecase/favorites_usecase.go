package usecase

import (
	"context"

	"github.com/goccy/go-json"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
)

// FavoritesUsecase keeps a per session, per store list of product ids.
type FavoritesUsecase struct {
	storage domain.KeyValueStorage
}

func NewFavoritesUsecase(storage domain.KeyValueStorage) *FavoritesUsecase {
	return &FavoritesUsecase{storage: storage}
}

func favoritesKey(session, storeID string) string {
	return session + ":favorites_" + storeID
}

func (u *FavoritesUsecase) List(ctx context.Context, session, storeID string) ([]string, error) {
	if err := validateFavorites(session, storeID); err != nil {
		return nil, err
	}
	return u.load(ctx, session, storeID), nil
}

// Add appends the product unless it is already a favorite.
func (u *FavoritesUsecase) Add(ctx context.Context, session, storeID, productID string) ([]string, error) {
	if err := validateFavorites(session, storeID); err != nil {
		return nil, err
	}
	if domain.Blank(productID) {
		return nil, domain.NewValidationError("productId", "product id is required")
	}

	ids := u.load(ctx, session, storeID)
	for _, id := range ids {
		if id == productID {
			return ids, nil
		}
	}
	ids = append(ids, productID)
	u.save(ctx, session, storeID, ids)
	return ids, nil
}

func (u *FavoritesUsecase) Remove(ctx context.Context, session, storeID, productID string) ([]string, error) {
	if err := validateFavorites(session, storeID); err != nil {
		return nil, err
	}

	ids := u.load(ctx, session, storeID)
	out := ids[:0]
	for _, id := range ids {
		if id != productID {
			out = append(out, id)
		}
	}
	if len(out) != len(ids) {
		u.save(ctx, session, storeID, out)
	}
	return out, nil
}

func validateFavorites(session, storeID string) error {
	if domain.Blank(session) {
		return domain.NewValidationError("session", "session is required")
	}
	if domain.Blank(storeID) {
		return domain.NewValidationError("storeId", "store id is required")
	}
	return nil
}

func (u *FavoritesUsecase) load(ctx context.Context, session, storeID string) []string {
	ids := []string{}
	data, ok, err := u.storage.Load(favoritesKey(session, storeID))
	if err != nil || !ok {
		if err != nil {
			logger.WithContext(ctx).Warn().Err(err).Msg("Failed to read favorites, starting empty")
		}
		return ids
	}
	if err := json.Unmarshal(data, &ids); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("Discarding unreadable favorites")
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

func (u *FavoritesUsecase) save(ctx context.Context, session, storeID string, ids []string) {
	data, err := json.Marshal(ids)
	if err == nil {
		err = u.storage.Save(favoritesKey(session, storeID), data)
	}
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("Failed to persist favorites")
	}
}
