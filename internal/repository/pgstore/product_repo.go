package pgstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storehub-backend/internal/domain"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	p.id, p.store_id, p.name, p.slug, COALESCE(p.description, ''), p.price,
	COALESCE(p.images, '{}'), COALESCE(p.unit, ''), p.quantity, p.is_active, p.category_id,
	ARRAY(SELECT pca.category_id::text FROM product_category_assignments pca WHERE pca.product_id = p.id),
	p.deleted_at, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var deletedAt *time.Time
	err := row.Scan(
		&p.ID, &p.StoreID, &p.Name, &p.Slug, &p.Description, &p.Price,
		&p.Images, &p.Unit, &p.Quantity, &p.IsActive, &p.CategoryID,
		&p.CategoryIDs,
		&deletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	p.Lifecycle = domain.LifecycleFromDeletedAt(deletedAt)
	return &p, nil
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *productRepository) ListActiveByStore(ctx context.Context, storeID string) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products p
		 WHERE p.store_id = $1 AND p.is_active AND p.deleted_at IS NULL
		 ORDER BY p.created_at DESC`, storeID)
}

func (r *productRepository) ListVisibleInCatalog(ctx context.Context, catalogID string) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products p
		 JOIN catalog_product_visibility v ON v.product_id = p.id
		 WHERE v.catalog_id = $1 AND p.is_active AND p.deleted_at IS NULL
		 ORDER BY p.created_at DESC`, catalogID)
}

func (r *productRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Product, error) {
	return scanProduct(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.store_id = $1 AND p.id = $2`, storeID, id))
}

func (r *productRepository) ListTrashed(ctx context.Context, storeID string) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products p
		 WHERE p.store_id = $1 AND p.deleted_at IS NOT NULL
		 ORDER BY p.deleted_at DESC`, storeID)
}

func (r *productRepository) SetLifecycle(ctx context.Context, storeID, id string, lifecycle domain.Lifecycle) error {
	return expectOne(conn(ctx, r.db).Exec(ctx,
		`UPDATE products SET deleted_at = $3, updated_at = now() WHERE store_id = $1 AND id = $2`,
		storeID, id, lifecycle.DeletedAt()))
}

func (r *productRepository) Purge(ctx context.Context, storeID, id string) error {
	db := conn(ctx, r.db)
	if _, err := db.Exec(ctx, `DELETE FROM product_category_assignments WHERE product_id = $1`, id); err != nil {
		return err
	}
	if _, err := db.Exec(ctx, `DELETE FROM catalog_product_visibility WHERE product_id = $1`, id); err != nil {
		return err
	}
	return expectOne(db.Exec(ctx, `DELETE FROM products WHERE store_id = $1 AND id = $2`, storeID, id))
}
