package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// --- Lifecycle ---

type LifecycleState string

const (
	LifecycleActive  LifecycleState = "active"
	LifecycleTrashed LifecycleState = "trashed"
)

// Lifecycle is the soft-delete state of a product: Active, or Trashed at a point in time.
type Lifecycle struct {
	State     LifecycleState `json:"state"`
	TrashedAt *time.Time     `json:"trashedAt,omitempty"`
}

func Active() Lifecycle {
	return Lifecycle{State: LifecycleActive}
}

func Trashed(at time.Time) Lifecycle {
	at = at.UTC()
	return Lifecycle{State: LifecycleTrashed, TrashedAt: &at}
}

// LifecycleFromDeletedAt maps the deleted_at column onto a lifecycle state.
func LifecycleFromDeletedAt(deletedAt *time.Time) Lifecycle {
	if deletedAt == nil {
		return Active()
	}
	return Trashed(*deletedAt)
}

func (l Lifecycle) IsTrashed() bool {
	return l.State == LifecycleTrashed
}

// DeletedAt is the column value for this state.
func (l Lifecycle) DeletedAt() *time.Time {
	if !l.IsTrashed() {
		return nil
	}
	return l.TrashedAt
}

// --- Product ---

type Product struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"storeId"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	IsActive    bool            `json:"isActive"`
	// CategoryID is the legacy single category column.
	CategoryID  *string   `json:"categoryId"`
	CategoryIDs []string  `json:"categoryIds"`
	Lifecycle   Lifecycle `json:"lifecycle"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EffectiveCategoryIDs is the union of assignment rows and the legacy category, without duplicates.
func (p *Product) EffectiveCategoryIDs() []string {
	ids := make([]string, 0, len(p.CategoryIDs)+1)
	seen := make(map[string]struct{}, len(p.CategoryIDs)+1)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, id := range p.CategoryIDs {
		add(id)
	}
	if p.CategoryID != nil {
		add(*p.CategoryID)
	}
	return ids
}

// InAnyCategory reports whether the product belongs to at least one id of the set.
func (p *Product) InAnyCategory(ids map[string]struct{}) bool {
	if p.CategoryID != nil {
		if _, ok := ids[*p.CategoryID]; ok {
			return true
		}
	}
	for _, id := range p.CategoryIDs {
		if _, ok := ids[id]; ok {
			return true
		}
	}
	return false
}

type ProductRepository interface {
	// ListActiveByStore returns active, non-trashed products of a store.
	ListActiveByStore(ctx context.Context, storeID string) ([]Product, error)
	// ListVisibleInCatalog returns active, non-trashed products visible in a catalog.
	ListVisibleInCatalog(ctx context.Context, catalogID string) ([]Product, error)
	GetByID(ctx context.Context, storeID, id string) (*Product, error)
	ListTrashed(ctx context.Context, storeID string) ([]Product, error)
	SetLifecycle(ctx context.Context, storeID, id string, lifecycle Lifecycle) error
	// Purge removes a product with its assignments and catalog visibility rows.
	Purge(ctx context.Context, storeID, id string) error
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProductSuggestion is AI generated catalog metadata the seller can accept or discard.
type ProductSuggestion struct {
	Tags           []string `json:"tags"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
}

type ProductAssistant interface {
	SuggestProductMeta(ctx context.Context, p *Product) (*ProductSuggestion, error)
}
