package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storehub-backend/internal/domain"
)

type catalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) domain.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Catalog, error) {
	var c domain.Catalog
	err := conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, store_id, name, COALESCE(description, ''), created_at
		 FROM catalogs WHERE store_id = $1 AND id = $2`, storeID, id,
	).Scan(&c.ID, &c.StoreID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}
