package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderChannel is where an order was placed; it also selects the order number prefix.
type OrderChannel string

const (
	OrderChannelGuest     OrderChannel = "guest"
	OrderChannelRetail    OrderChannel = "retail"
	OrderChannelWholesale OrderChannel = "wholesale"
)

func ParseOrderChannel(s string) (OrderChannel, error) {
	switch OrderChannel(s) {
	case OrderChannelGuest, OrderChannelRetail, OrderChannelWholesale:
		return OrderChannel(s), nil
	}
	return "", ErrInvalidChannel
}

// Prefix is the first character of order numbers placed on this channel.
func (c OrderChannel) Prefix() string {
	switch c {
	case OrderChannelRetail:
		return "R"
	case OrderChannelWholesale:
		return "W"
	}
	return "G"
}

// Order Statuses
const (
	OrderStatusForming    = "forming"
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusForming,
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

type OrderFilter struct {
	Status string
	Limit  int
	Offset int
}

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	StoreID         string          `json:"storeId"`
	CustomerID      *string         `json:"customerId"`
	Channel         OrderChannel    `json:"channel"`
	Status          string          `json:"status"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerEmail   string          `json:"customerEmail"`
	Comment         string          `json:"comment"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress JSONB           `json:"shippingAddress"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem snapshots name and price at order time; nil ProductID is a free-text line.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	ProductID   *string         `json:"productId"`
	ProductName string          `json:"productName"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	CreateOrderItems(ctx context.Context, orderID string, items []OrderItem) error
	DeleteOrder(ctx context.Context, id string) error
	GetByID(ctx context.Context, storeID, id string) (*Order, error)
	ListByStore(ctx context.Context, storeID string, filter OrderFilter) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, storeID, id, status string) error
}

// OrderNotifier announces a placed order to the seller. Implementations must not block the caller.
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, store *Store, order *Order)
}
