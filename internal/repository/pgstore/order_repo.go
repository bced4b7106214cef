package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storehub-backend/internal/domain"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `
	id, order_number, store_id, customer_id, channel, status,
	customer_name, customer_phone, COALESCE(customer_email, ''), COALESCE(comment, ''),
	subtotal, total, shipping_address, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var channel string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.StoreID, &o.CustomerID, &channel, &o.Status,
		&o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.Comment,
		&o.Subtotal, &o.Total, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	o.Channel = domain.OrderChannel(channel)
	return &o, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO orders (order_number, store_id, customer_id, channel, status,
			customer_name, customer_phone, customer_email, comment, subtotal, total, shipping_address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.StoreID, o.CustomerID, string(o.Channel), o.Status,
		o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.Comment, o.Subtotal, o.Total, o.ShippingAddress,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return mapErr(err)
}

// CreateOrderItems inserts all lines in one batch.
func (r *orderRepository) CreateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	batch := &pgx.Batch{}
	for i := range items {
		item := &items[i]
		item.OrderID = orderID
		batch.Queue(
			`INSERT INTO order_items (order_id, product_id, product_name, unit, quantity, price, total)
			 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7) RETURNING id`,
			orderID, item.ProductID, item.ProductName, item.Unit, item.Quantity, item.Price, item.Total,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&item.ID)
		})
	}
	return mapErr(conn(ctx, r.db).SendBatch(ctx, batch).Close())
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id string) error {
	db := conn(ctx, r.db)
	if _, err := db.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return err
	}
	return expectOne(db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id))
}

func (r *orderRepository) GetByID(ctx context.Context, storeID, id string) (*domain.Order, error) {
	db := conn(ctx, r.db)
	o, err := scanOrder(db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE store_id = $1 AND id = $2`, storeID, id))
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx,
		`SELECT id, order_id, product_id, product_name, COALESCE(unit, ''), quantity, price, total
		 FROM order_items WHERE order_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Items = []domain.OrderItem{}
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Unit, &it.Quantity, &it.Price, &it.Total); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

func (r *orderRepository) ListByStore(ctx context.Context, storeID string, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	db := conn(ctx, r.db)

	var total int64
	if err := db.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE store_id = $1 AND ($2 = '' OR status = $2)`,
		storeID, filter.Status,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE store_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		storeID, filter.Status, limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, storeID, id, status string) error {
	return expectOne(conn(ctx, r.db).Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = now() WHERE store_id = $1 AND id = $2`,
		storeID, id, status))
}
