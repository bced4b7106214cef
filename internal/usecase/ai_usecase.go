package usecase

import (
	"context"
	"fmt"

	"storehub-backend/internal/domain"
)

// AIUsecase asks the AI gateway for product metadata on behalf of a seller.
type AIUsecase struct {
	guard     storeGuard
	products  domain.ProductRepository
	assistant domain.ProductAssistant
}

func NewAIUsecase(stores domain.StoreRepository, products domain.ProductRepository, assistant domain.ProductAssistant) *AIUsecase {
	return &AIUsecase{guard: storeGuard{stores: stores}, products: products, assistant: assistant}
}

// SuggestTags returns suggested tags and SEO text. Rate limit and quota errors pass
// through unchanged so the caller can show the matching message.
func (u *AIUsecase) SuggestTags(ctx context.Context, userID, storeID, productID string) (*domain.ProductSuggestion, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return nil, err
	}
	p, err := u.products.GetByID(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if domain.Blank(p.Name) {
		return nil, domain.NewValidationError("name", "product needs a name before tags can be suggested")
	}

	s, err := u.assistant.SuggestProductMeta(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("suggest tags: %w", err)
	}
	return s, nil
}
