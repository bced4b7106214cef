package domain

import (
	"context"
	"time"
)

type Category struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *string   `json:"parentId"`
	SortOrder *int      `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CatalogCategorySetting layers a catalog specific parent, name and order over a category.
type CatalogCategorySetting struct {
	CatalogID  string  `json:"catalogId"`
	CategoryID string  `json:"categoryId"`
	ParentID   *string `json:"catalogParentId"`
	CustomName *string `json:"customName"`
	SortOrder  *int    `json:"sortOrder"`
}

type Catalog struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"storeId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CategoryRepository interface {
	ListByStore(ctx context.Context, storeID string) ([]Category, error)
	GetByID(ctx context.Context, storeID, id string) (*Category, error)
	GetBySlug(ctx context.Context, storeID, slug string) (*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, storeID, id string) error

	ListCatalogSettings(ctx context.Context, catalogID string) ([]CatalogCategorySetting, error)
	UpsertCatalogSetting(ctx context.Context, setting *CatalogCategorySetting) error
}

type CatalogRepository interface {
	GetByID(ctx context.Context, storeID, id string) (*Catalog, error)
}
