package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/model"
)

// OrderBuilder accumulates menu items into a draft order. The zero value is
// not usable; call NewOrderBuilder.
type OrderBuilder struct {
	items        []model.OrderItem
	customerID   string
	customerName string

	now   func() time.Time
	newID func() string
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// AddItem adds one of item, snapshotting it if the line is new.
func (b *OrderBuilder) AddItem(item model.MenuItem) {
	if i := b.index(item.ID); i >= 0 {
		b.items[i].Quantity++
		return
	}
	b.items = append(b.items, model.OrderItem{MenuItem: item, Quantity: 1})
}

// UpdateQuantity sets the quantity of an existing line; qty < 1 removes it.
// Unknown ids are ignored.
func (b *OrderBuilder) UpdateQuantity(itemID string, qty int) {
	i := b.index(itemID)
	if i < 0 {
		return
	}
	if qty < 1 {
		b.removeAt(i)
		return
	}
	b.items[i].Quantity = qty
}

// RemoveItem drops the line for itemID, if any.
func (b *OrderBuilder) RemoveItem(itemID string) {
	if i := b.index(itemID); i >= 0 {
		b.removeAt(i)
	}
}

// Quantity returns the current quantity of itemID, 0 when absent.
func (b *OrderBuilder) Quantity(itemID string) int {
	if i := b.index(itemID); i >= 0 {
		return b.items[i].Quantity
	}
	return 0
}

// Items returns a copy of the draft lines in insertion order.
func (b *OrderBuilder) Items() []model.OrderItem {
	out := make([]model.OrderItem, len(b.items))
	copy(out, b.items)
	return out
}

// Subtotal is recomputed from the lines on every call.
func (b *OrderBuilder) Subtotal() decimal.Decimal {
	return Subtotal(b.items)
}

// SetCustomer attaches an optional customer to the draft.
func (b *OrderBuilder) SetCustomer(id, name string) {
	b.customerID = id
	b.customerName = name
}

// Submit turns the draft into a received order and clears the builder.
// On error the draft is left untouched.
func (b *OrderBuilder) Submit(tableNumber int) (model.Order, error) {
	if len(b.items) == 0 {
		return model.Order{}, ErrEmptyOrder
	}
	if tableNumber <= 0 {
		return model.Order{}, ErrMissingTable
	}

	order := model.Order{
		ID:           b.newID(),
		TableNumber:  tableNumber,
		Items:        b.Items(),
		Status:       enum.OrderStatusReceived,
		Discount:     decimal.Zero,
		CreatedAt:    b.now().UTC(),
		CustomerID:   b.customerID,
		CustomerName: b.customerName,
	}
	recalculate(&order)

	b.items = nil
	b.customerID = ""
	b.customerName = ""
	return order, nil
}

func (b *OrderBuilder) index(itemID string) int {
	for i, it := range b.items {
		if it.MenuItem.ID == itemID {
			return i
		}
	}
	return -1
}

func (b *OrderBuilder) removeAt(i int) {
	b.items = append(b.items[:i], b.items[i+1:]...)
}
