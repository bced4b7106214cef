package pgstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storehub-backend/internal/domain"
)

type categoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, store_id, name, slug, parent_id, sort_order, created_at, updated_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.Slug, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *categoryRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Category, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE store_id = $1
		 ORDER BY sort_order NULLS LAST, name`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Category, error) {
	return scanCategory(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE store_id = $1 AND id = $2`, storeID, id))
}

func (r *categoryRepository) GetBySlug(ctx context.Context, storeID, slug string) (*domain.Category, error) {
	return scanCategory(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE store_id = $1 AND slug = $2`, storeID, slug))
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO categories (store_id, name, slug, parent_id, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		c.StoreID, c.Name, c.Slug, c.ParentID, c.SortOrder,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapErr(err)
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = time.Now().UTC()
	return expectOne(conn(ctx, r.db).Exec(ctx,
		`UPDATE categories SET name = $3, slug = $4, parent_id = $5, sort_order = $6, updated_at = $7
		 WHERE store_id = $1 AND id = $2`,
		c.StoreID, c.ID, c.Name, c.Slug, c.ParentID, c.SortOrder, c.UpdatedAt))
}

// Delete removes the category and lifts its children to the top level.
func (r *categoryRepository) Delete(ctx context.Context, storeID, id string) error {
	db := conn(ctx, r.db)
	if _, err := db.Exec(ctx,
		`UPDATE categories SET parent_id = NULL WHERE store_id = $1 AND parent_id = $2`, storeID, id); err != nil {
		return err
	}
	if _, err := db.Exec(ctx, `DELETE FROM product_category_assignments WHERE category_id = $1`, id); err != nil {
		return err
	}
	if _, err := db.Exec(ctx, `DELETE FROM catalog_category_settings WHERE category_id = $1`, id); err != nil {
		return err
	}
	return expectOne(db.Exec(ctx, `DELETE FROM categories WHERE store_id = $1 AND id = $2`, storeID, id))
}

func (r *categoryRepository) ListCatalogSettings(ctx context.Context, catalogID string) ([]domain.CatalogCategorySetting, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		`SELECT catalog_id, category_id, catalog_parent_id, custom_name, sort_order
		 FROM catalog_category_settings WHERE catalog_id = $1`, catalogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := []domain.CatalogCategorySetting{}
	for rows.Next() {
		var s domain.CatalogCategorySetting
		if err := rows.Scan(&s.CatalogID, &s.CategoryID, &s.ParentID, &s.CustomName, &s.SortOrder); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *categoryRepository) UpsertCatalogSetting(ctx context.Context, s *domain.CatalogCategorySetting) error {
	_, err := conn(ctx, r.db).Exec(ctx,
		`INSERT INTO catalog_category_settings (catalog_id, category_id, catalog_parent_id, custom_name, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (catalog_id, category_id) DO UPDATE
		 SET catalog_parent_id = EXCLUDED.catalog_parent_id,
		     custom_name = EXCLUDED.custom_name,
		     sort_order = EXCLUDED.sort_order`,
		s.CatalogID, s.CategoryID, s.ParentID, s.CustomName, s.SortOrder)
	return mapErr(err)
}
