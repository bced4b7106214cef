package usecase

import (
	"context"
	"strings"

	"github.com/goccy/go-json"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
)

// CartUsecase stages carts per session, cart kind and store. Storage is best effort: read
// failures yield an empty cart and write failures are logged, never returned.
type CartUsecase struct {
	storage     domain.KeyValueStorage
	maxQuantity int
}

func NewCartUsecase(storage domain.KeyValueStorage, maxQuantity int) *CartUsecase {
	return &CartUsecase{storage: storage, maxQuantity: maxQuantity}
}

// CartRef addresses one cart.
type CartRef struct {
	Session string
	Kind    domain.Channel
	StoreID string
}

func (r CartRef) validate() error {
	if domain.Blank(r.Session) {
		return domain.NewValidationError("session", "cart session is required")
	}
	if domain.Blank(r.StoreID) {
		return domain.NewValidationError("storeId", "store id is required")
	}
	if _, err := domain.ParseChannel(string(r.Kind)); err != nil {
		return domain.NewValidationError("kind", "unknown cart kind %q", r.Kind)
	}
	return nil
}

func (r CartRef) storageKey() string {
	return r.Session + ":" + domain.CartKey(r.Kind, r.StoreID)
}

func (u *CartUsecase) Get(ctx context.Context, ref CartRef) (domain.CartView, error) {
	if err := ref.validate(); err != nil {
		return domain.CartView{}, err
	}
	cart := u.load(ctx, ref)
	return cart.View(), nil
}

// AddItem merges qty of the product into the cart. A zero qty counts as one.
func (u *CartUsecase) AddItem(ctx context.Context, ref CartRef, line domain.CartLine, qty int) (domain.CartView, error) {
	if err := ref.validate(); err != nil {
		return domain.CartView{}, err
	}
	if qty == 0 {
		qty = 1
	}
	if err := u.validateLine(line, qty); err != nil {
		return domain.CartView{}, err
	}

	cart := u.load(ctx, ref)
	if qty > u.maxQuantity || cart.Quantity(line.ProductID) > u.maxQuantity-qty {
		return domain.CartView{}, domain.NewValidationError("quantity", "quantity exceeds maximum of %d", u.maxQuantity)
	}
	line.Name = strings.TrimSpace(line.Name)
	cart.Add(line, qty)
	u.save(ctx, ref, cart)
	return cart.View(), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (u *CartUsecase) UpdateQuantity(ctx context.Context, ref CartRef, productID string, qty int) (domain.CartView, error) {
	if err := ref.validate(); err != nil {
		return domain.CartView{}, err
	}
	if qty > u.maxQuantity {
		return domain.CartView{}, domain.NewValidationError("quantity", "quantity exceeds maximum of %d", u.maxQuantity)
	}

	cart := u.load(ctx, ref)
	if cart.SetQuantity(productID, qty) {
		u.save(ctx, ref, cart)
	}
	return cart.View(), nil
}

func (u *CartUsecase) Remove(ctx context.Context, ref CartRef, productID string) (domain.CartView, error) {
	if err := ref.validate(); err != nil {
		return domain.CartView{}, err
	}
	cart := u.load(ctx, ref)
	if cart.Remove(productID) {
		u.save(ctx, ref, cart)
	}
	return cart.View(), nil
}

func (u *CartUsecase) Clear(ctx context.Context, ref CartRef) (domain.CartView, error) {
	if err := ref.validate(); err != nil {
		return domain.CartView{}, err
	}
	if err := u.storage.Delete(ref.storageKey()); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("cart", ref.storageKey()).Msg("Failed to clear cart")
	}
	cart := &domain.Cart{Key: domain.CartKey(ref.Kind, ref.StoreID)}
	return cart.View(), nil
}

func (u *CartUsecase) validateLine(line domain.CartLine, qty int) error {
	if domain.Blank(line.ProductID) {
		return domain.NewValidationError("productId", "product id is required")
	}
	if qty < 0 {
		return domain.NewValidationError("quantity", "quantity must be positive")
	}
	if line.Price.IsNegative() {
		return domain.NewValidationError("price", "price must not be negative")
	}
	return nil
}

func (u *CartUsecase) load(ctx context.Context, ref CartRef) *domain.Cart {
	cart := &domain.Cart{Key: domain.CartKey(ref.Kind, ref.StoreID)}
	data, ok, err := u.storage.Load(ref.storageKey())
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("cart", ref.storageKey()).Msg("Failed to read cart, starting empty")
		return cart
	}
	if !ok {
		return cart
	}
	var items []domain.CartLine
	if err := json.Unmarshal(data, &items); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("cart", ref.storageKey()).Msg("Discarding unreadable cart")
		return cart
	}
	for _, it := range items {
		if it.ProductID != "" && it.Quantity > 0 {
			cart.Items = append(cart.Items, it)
		}
	}
	return cart
}

func (u *CartUsecase) save(ctx context.Context, ref CartRef, cart *domain.Cart) {
	data, err := json.Marshal(cart.Items)
	if err == nil {
		err = u.storage.Save(ref.storageKey(), data)
	}
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("cart", ref.storageKey()).Msg("Failed to persist cart")
	}
}
