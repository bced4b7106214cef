package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
)

type SellerOrderUsecase struct {
	guard  storeGuard
	orders domain.OrderRepository
}

func NewSellerOrderUsecase(stores domain.StoreRepository, orders domain.OrderRepository) *SellerOrderUsecase {
	return &SellerOrderUsecase{guard: storeGuard{stores: stores}, orders: orders}
}

type OrderPage struct {
	Orders     []domain.Order    `json:"orders"`
	Pagination domain.Pagination `json:"pagination"`
}

func (u *SellerOrderUsecase) ListOrders(ctx context.Context, userID, storeID string, filter domain.OrderFilter) (*OrderPage, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return nil, err
	}
	if filter.Status != "" && !knownStatus(filter.Status) {
		return nil, unknownStatusError(filter.Status)
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	orders, total, err := u.orders.ListByStore(ctx, storeID, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &OrderPage{Orders: orders, Pagination: domain.NewPagination(filter.Limit, filter.Offset, total)}, nil
}

func (u *SellerOrderUsecase) GetOrder(ctx context.Context, userID, storeID, orderID string) (*domain.Order, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, storeID, orderID)
}

// UpdateStatus moves an order forward. Status never goes back and cancelled is terminal.
func (u *SellerOrderUsecase) UpdateStatus(ctx context.Context, userID, storeID, orderID, newStatus string) (*domain.Order, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return nil, err
	}
	if !knownStatus(newStatus) {
		return nil, unknownStatusError(newStatus)
	}

	order, err := u.orders.GetByID(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == newStatus {
		return order, nil
	}
	if err := validateOrderTransition(order.Status, newStatus); err != nil {
		return nil, err
	}

	if err := u.orders.UpdateStatus(ctx, storeID, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	logger.WithContext(ctx).Info().
		Str("order_id", orderID).
		Str("from", order.Status).
		Str("to", newStatus).
		Msg("Order status changed")

	order.Status = newStatus
	return order, nil
}

// statusWeights orders the lifecycle. Moves may skip steps but never go backwards.
var statusWeights = map[string]int{
	domain.OrderStatusForming:    0,
	domain.OrderStatusPending:    10,
	domain.OrderStatusProcessing: 20,
	domain.OrderStatusShipped:    30,
	domain.OrderStatusDelivered:  40,
	domain.OrderStatusCompleted:  50,
	domain.OrderStatusCancelled:  90, // Terminal
}

func knownStatus(s string) bool {
	return slices.Contains(domain.OrderStatuses, s)
}

func unknownStatusError(s string) error {
	return domain.NewValidationError("status", "unknown order status %q, expected one of %s",
		s, strings.Join(domain.OrderStatuses, ", "))
}

func validateOrderTransition(current, next string) error {
	currentWeight, okCurrent := statusWeights[current]
	nextWeight := statusWeights[next]

	// Unknown legacy status: allow the update to fix the data
	if !okCurrent {
		return nil
	}
	if current == domain.OrderStatusCancelled || current == domain.OrderStatusCompleted {
		return domain.NewValidationError("status", "order is %s and can no longer change", current)
	}
	if nextWeight < currentWeight {
		return domain.NewValidationError("status", "cannot go back from %s to %s", current, next)
	}
	return nil
}
