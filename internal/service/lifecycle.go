package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/model"
)

// nextStatus defines the forward-only kitchen flow. Served has no successor;
// archiving is a separate operation.
var nextStatus = map[string]string{
	enum.OrderStatusReceived:  enum.OrderStatusPreparing,
	enum.OrderStatusPreparing: enum.OrderStatusReady,
	enum.OrderStatusReady:     enum.OrderStatusServed,
}

// NextStatus returns the status that follows s, if any.
func NextStatus(s string) (string, bool) {
	n, ok := nextStatus[s]
	return n, ok
}

// BoardColumn is one kanban column.
type BoardColumn struct {
	Status string        `json:"status"`
	Orders []model.Order `json:"orders"`
}

// OrderBook owns the active and archived order lists. It is not safe for
// concurrent use; Restaurant serializes access.
type OrderBook struct {
	active   []model.Order
	archived []model.Order
}

func NewOrderBook(active, archived []model.Order) *OrderBook {
	return &OrderBook{
		active:   model.CloneOrders(active),
		archived: model.CloneOrders(archived),
	}
}

// Add appends a freshly submitted order to the active list.
func (b *OrderBook) Add(o model.Order) {
	b.active = append(b.active, o.Clone())
}

// Get looks in the active list first, then the archive.
func (b *OrderBook) Get(id string) (model.Order, error) {
	if i := b.activeIndex(id); i >= 0 {
		return b.active[i].Clone(), nil
	}
	if i := b.archivedIndex(id); i >= 0 {
		return b.archived[i].Clone(), nil
	}
	return model.Order{}, ErrOrderNotFound
}

// Advance moves the order one step forward. A served order is returned
// unchanged together with ErrNoNextStatus.
func (b *OrderBook) Advance(id string) (model.Order, error) {
	i, err := b.mutable(id)
	if err != nil {
		return model.Order{}, err
	}
	next, ok := NextStatus(b.active[i].Status)
	if !ok {
		return b.active[i].Clone(), ErrNoNextStatus
	}
	b.active[i].Status = next
	return b.active[i].Clone(), nil
}

// ApplyDiscount replaces the order's discount with pct clamped to
// [0, maxDiscount] and recomputes the total from the subtotal.
func (b *OrderBook) ApplyDiscount(id string, pct, maxDiscount decimal.Decimal) (model.Order, error) {
	i, err := b.mutable(id)
	if err != nil {
		return model.Order{}, err
	}
	b.active[i].Discount = ClampDiscount(pct, maxDiscount)
	recalculate(&b.active[i])
	return b.active[i].Clone(), nil
}

// Archive moves the order out of the active list into the archive.
func (b *OrderBook) Archive(id string, at time.Time) (model.Order, error) {
	i, err := b.mutable(id)
	if err != nil {
		return model.Order{}, err
	}
	o := b.active[i]
	o.Status = enum.OrderStatusArchived
	ts := at.UTC()
	o.ArchivedAt = &ts

	b.active = append(b.active[:i], b.active[i+1:]...)
	b.archived = append(b.archived, o)
	return o.Clone(), nil
}

// Active returns a copy of the active orders in insertion order.
func (b *OrderBook) Active() []model.Order {
	return model.CloneOrders(b.active)
}

// Archived returns a copy of the archive in archive order.
func (b *OrderBook) Archived() []model.Order {
	return model.CloneOrders(b.archived)
}

// Board partitions active orders by status, one column per lifecycle state.
// Orders keep their insertion order inside a column.
func (b *OrderBook) Board() []BoardColumn {
	cols := make([]BoardColumn, len(enum.ActiveOrderStatuses))
	pos := make(map[string]int, len(cols))
	for i, s := range enum.ActiveOrderStatuses {
		cols[i] = BoardColumn{Status: s, Orders: []model.Order{}}
		pos[s] = i
	}
	for _, o := range b.active {
		if i, ok := pos[o.Status]; ok {
			cols[i].Orders = append(cols[i].Orders, o.Clone())
		}
	}
	return cols
}

// ActiveOnTable returns the most recent active order for a table other than
// exclude, or "" if there is none.
func (b *OrderBook) ActiveOnTable(table int, exclude string) string {
	for i := len(b.active) - 1; i >= 0; i-- {
		if b.active[i].TableNumber == table && b.active[i].ID != exclude {
			return b.active[i].ID
		}
	}
	return ""
}

func (b *OrderBook) clone() *OrderBook {
	return NewOrderBook(b.active, b.archived)
}

func (b *OrderBook) mutable(id string) (int, error) {
	if i := b.activeIndex(id); i >= 0 {
		return i, nil
	}
	if b.archivedIndex(id) >= 0 {
		return -1, ErrOrderArchived
	}
	return -1, ErrOrderNotFound
}

func (b *OrderBook) activeIndex(id string) int {
	for i := range b.active {
		if b.active[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *OrderBook) archivedIndex(id string) int {
	for i := range b.archived {
		if b.archived[i].ID == id {
			return i
		}
	}
	return -1
}
