package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
	"storehub-backend/pkg/utils"
)

const compensationTimeout = 5 * time.Second

type OrderUsecase struct {
	stores   domain.StoreRepository
	orders   domain.OrderRepository
	notifier domain.OrderNotifier
	recorder Recorder
}

func NewOrderUsecase(stores domain.StoreRepository, orders domain.OrderRepository, notifier domain.OrderNotifier, recorder Recorder) *OrderUsecase {
	return &OrderUsecase{
		stores:   stores,
		orders:   orders,
		notifier: notifier,
		recorder: recorderOrNop(recorder),
	}
}

type OrderItemInput struct {
	ProductID   *string         `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
}

type PlaceOrderInput struct {
	StoreID         string           `json:"storeId"`
	// CustomerID is set by the caller from the authenticated user, never from the body.
	CustomerID      *string          `json:"-"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerEmail   string           `json:"customerEmail"`
	Comment         string           `json:"comment"`
	ShippingAddress domain.JSONB     `json:"shippingAddress"`
	Items           []OrderItemInput `json:"items"`
}

// PlaceOrder validates and records an order, then notifies the seller without waiting.
// If the items cannot be stored the order row is deleted again.
func (u *OrderUsecase) PlaceOrder(ctx context.Context, channel domain.OrderChannel, in PlaceOrderInput) (*domain.Order, error) {
	log := logger.WithContext(ctx)

	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	store, err := u.stores.GetByID(ctx, in.StoreID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, fmt.Errorf("load store: %w", err)
	}
	if !store.IsActive() {
		return nil, domain.ErrStoreNotFound
	}
	if err := channelAcceptsOrders(store, channel); err != nil {
		return nil, err
	}

	items, subtotal := buildOrderItems(in.Items)
	if channel == domain.OrderChannelWholesale {
		if err := checkMinimum(store, subtotal); err != nil {
			return nil, err
		}
	}

	order := &domain.Order{
		OrderNumber:     utils.OrderNumber(channel.Prefix()),
		StoreID:         store.ID,
		CustomerID:      in.CustomerID,
		Channel:         channel,
		Status:          domain.OrderStatusPending,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		Comment:         strings.TrimSpace(in.Comment),
		Subtotal:        subtotal,
		Total:           subtotal,
		ShippingAddress: in.ShippingAddress,
	}

	if err := u.orders.CreateOrder(ctx, order); err != nil {
		log.Error().Err(err).Str("store_id", store.ID).Msg("Failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := u.orders.CreateOrderItems(ctx, order.ID, items); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("Failed to create order items, removing order")
		u.removeOrder(ctx, order.ID)
		return nil, fmt.Errorf("create order items: %w", err)
	}
	order.Items = items

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("store_id", store.ID).
		Str("channel", string(channel)).
		Str("total", order.Total.String()).
		Msg("Order placed")

	u.recorder.OrderPlaced(string(channel))
	if u.notifier != nil {
		u.notifier.NotifyOrderPlaced(ctx, store, order)
	}
	return order, nil
}

// removeOrder deletes an order whose items could not be stored. It outlives the request
// context, which is often the reason the items failed.
func (u *OrderUsecase) removeOrder(ctx context.Context, orderID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	if err := u.orders.DeleteOrder(ctx, orderID); err != nil {
		logger.WithContext(ctx).Error().Err(err).Str("order_id", orderID).Msg("Failed to remove order without items")
	}
}

func validateOrderInput(in PlaceOrderInput) error {
	if domain.Blank(in.StoreID) {
		return domain.NewValidationError("storeId", "store id is required")
	}
	if domain.Blank(in.CustomerName) {
		return domain.NewValidationError("customerName", "name is required")
	}
	if domain.Blank(in.CustomerPhone) {
		return domain.NewValidationError("customerPhone", "phone is required")
	}
	if email := strings.TrimSpace(in.CustomerEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.NewValidationError("customerEmail", "email is not valid")
		}
	}
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "order must contain at least one item")
	}
	for i, it := range in.Items {
		if domain.Blank(it.ProductName) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].productName", i), "product name is required")
		}
		if it.Quantity <= 0 {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than zero")
		}
		if it.Price.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].price", i), "price must not be negative")
		}
	}
	return nil
}

func channelAcceptsOrders(store *domain.Store, channel domain.OrderChannel) error {
	switch channel {
	case domain.OrderChannelRetail:
		if !store.RetailEnabled {
			return &domain.ChannelError{Channel: domain.ChannelRetail, Err: domain.ErrChannelNotActivated}
		}
	case domain.OrderChannelWholesale:
		if !store.WholesaleEnabled {
			return &domain.ChannelError{Channel: domain.ChannelWholesale, Err: domain.ErrChannelNotActivated}
		}
	}
	return nil
}

// buildOrderItems snapshots the lines and computes their totals.
func buildOrderItems(in []OrderItemInput) ([]domain.OrderItem, decimal.Decimal) {
	items := make([]domain.OrderItem, 0, len(in))
	subtotal := decimal.Zero
	for _, it := range in {
		total := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		var productID *string
		if it.ProductID != nil && *it.ProductID != "" {
			productID = it.ProductID
		}
		items = append(items, domain.OrderItem{
			ProductID:   productID,
			ProductName: strings.TrimSpace(it.ProductName),
			Unit:        strings.TrimSpace(it.Unit),
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       total,
		})
		subtotal = subtotal.Add(total)
	}
	return items, subtotal
}

func checkMinimum(store *domain.Store, total decimal.Decimal) error {
	minimum := store.WholesaleMinOrderAmount
	if minimum == nil || !minimum.IsPositive() || total.GreaterThanOrEqual(*minimum) {
		return nil
	}
	shortfall := minimum.Sub(total)
	return domain.NewValidationError("total",
		"minimum wholesale order amount is %s, add %s more", minimum.StringFixed(2), shortfall.StringFixed(2))
}
