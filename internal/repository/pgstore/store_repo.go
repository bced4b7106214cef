package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storehub-backend/internal/domain"
)

type storeRepository struct {
	db *pgxpool.Pool
}

func NewStoreRepository(db *pgxpool.Pool) domain.StoreRepository {
	return &storeRepository{db: db}
}

const storeColumns = `
	id, owner_id, subdomain, name, COALESCE(description, ''), COALESCE(logo_url, ''), theme,
	custom_domain, wholesale_custom_domain, status,
	retail_enabled, wholesale_enabled, showcase_enabled,
	retail_name, retail_logo_url, wholesale_name, wholesale_logo_url, showcase_name, showcase_logo_url,
	wholesale_catalog_id, showcase_catalog_id, wholesale_min_order_amount,
	telegram_chat_id, created_at, updated_at`

func scanStore(row pgx.Row) (*domain.Store, error) {
	var s domain.Store
	var status string
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Subdomain, &s.Name, &s.Description, &s.LogoURL, &s.Theme,
		&s.CustomDomain, &s.WholesaleCustomDomain, &status,
		&s.RetailEnabled, &s.WholesaleEnabled, &s.ShowcaseEnabled,
		&s.RetailName, &s.RetailLogoURL, &s.WholesaleName, &s.WholesaleLogoURL, &s.ShowcaseName, &s.ShowcaseLogoURL,
		&s.WholesaleCatalogID, &s.ShowcaseCatalogID, &s.WholesaleMinOrderAmount,
		&s.TelegramChatID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	s.Status = domain.StoreStatus(status)
	return &s, nil
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	return scanStore(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
}

func (r *storeRepository) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Store, error) {
	return scanStore(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE subdomain = $1`, subdomain))
}

func (r *storeRepository) FindByWholesaleDomain(ctx context.Context, host string) (*domain.Store, error) {
	return scanStore(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores
		 WHERE wholesale_custom_domain = $1 AND status = 'active' AND wholesale_enabled
		 LIMIT 1`, host))
}

func (r *storeRepository) FindByRetailDomain(ctx context.Context, host string) (*domain.Store, error) {
	return scanStore(conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores
		 WHERE custom_domain = $1 AND status = 'active' AND retail_enabled
		 LIMIT 1`, host))
}
