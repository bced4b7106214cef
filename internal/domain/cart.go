package domain

import "github.com/shopspring/decimal"

// CartLine is one staged product of a client side cart.
type CartLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Unit      string          `json:"unit"`
}

// CartView is a cart with its derived values, computed on read.
type CartView struct {
	Key       string          `json:"key"`
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// KeyValueStorage persists serialized client state under namespaced keys.
type KeyValueStorage interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// CartKey namespaces a cart by kind and store, e.g. "wholesale_<storeId>".
func CartKey(kind Channel, storeID string) string {
	return string(kind) + "_" + storeID
}

// Cart is the staged line list of one cart key. It holds no derived values.
type Cart struct {
	Key   string     `json:"key"`
	Items []CartLine `json:"items"`
}

// Add merges qty into the line with the same product or appends a new line.
func (c *Cart) Add(line CartLine, qty int) {
	for i := range c.Items {
		if c.Items[i].ProductID == line.ProductID {
			c.Items[i].Quantity += qty
			return
		}
	}
	line.Quantity = qty
	c.Items = append(c.Items, line)
}

// Quantity returns the staged quantity of a product, zero if absent.
func (c *Cart) Quantity(productID string) int {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// SetQuantity sets a line's quantity; qty <= 0 removes the line. Reports whether the line existed.
func (c *Cart) SetQuantity(productID string, qty int) bool {
	if qty <= 0 {
		return c.Remove(productID)
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			return true
		}
	}
	return false
}

func (c *Cart) Remove(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = nil
}

// View derives total and item count from the current lines.
func (c *Cart) View() CartView {
	v := CartView{Key: c.Key, Items: make([]CartLine, len(c.Items)), Total: decimal.Zero}
	copy(v.Items, c.Items)
	for _, it := range c.Items {
		v.Total = v.Total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		v.ItemCount += it.Quantity
	}
	return v
}
