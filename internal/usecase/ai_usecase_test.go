package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehub-backend/internal/domain"
)

func TestSuggestTags(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: "p1", StoreID: "s1", Name: "Green tea"})
	assistant := &fakeAssistant{suggestion: &domain.ProductSuggestion{Tags: []string{"tea"}, SEOTitle: "Green tea"}}
	u := NewAIUsecase(newFakeStores(orderStore(nil)), products, assistant)

	s, err := u.SuggestTags(context.Background(), "owner", "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tea"}, s.Tags)
}

func TestSuggestTagsPassesGatewayErrors(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: "p1", StoreID: "s1", Name: "Green tea"})
	for _, gatewayErr := range []error{domain.ErrRateLimited, domain.ErrQuotaExceeded} {
		assistant := &fakeAssistant{err: gatewayErr}
		u := NewAIUsecase(newFakeStores(orderStore(nil)), products, assistant)

		_, err := u.SuggestTags(context.Background(), "owner", "s1", "p1")
		assert.ErrorIs(t, err, gatewayErr)
		assert.Equal(t, 1, assistant.calls)
	}
}

func TestSuggestTagsGuards(t *testing.T) {
	products := newFakeProducts(domain.Product{ID: "p1", StoreID: "s1", Name: " "})
	assistant := &fakeAssistant{}
	u := NewAIUsecase(newFakeStores(orderStore(nil)), products, assistant)

	_, err := u.SuggestTags(context.Background(), "intruder", "s1", "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = u.SuggestTags(context.Background(), "owner", "s1", "p1")
	assert.True(t, domain.IsValidation(err))

	_, err = u.SuggestTags(context.Background(), "owner", "s1", "p9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, assistant.calls)
}
