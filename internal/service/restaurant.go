package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/config"
	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/notify"
	"github.com/tavola-pos/api/internal/store"
)

const (
	notifyTimeout = 15 * time.Second
	eventBuffer   = 256
)

// Restaurant owns the live order book, tables and customers, and persists
// every change through the repository. Methods are safe for concurrent use;
// mutations are serialized.
type Restaurant struct {
	mu       sync.Mutex
	repo     store.Repository
	notifier notify.Notifier

	// events is drained by a single goroutine so notifiers see changes in
	// the order they were applied.
	events    chan notify.Event
	delivered chan struct{}
	closed    bool

	now   func() time.Time
	newID func() string

	book      *OrderBook
	tables    []model.Table
	customers []model.Customer
	cfg       config.AppConfig
	version   uint64
}

// NewRestaurant creates an empty Restaurant and starts its event delivery
// loop; call Load before serving and Close on shutdown.
func NewRestaurant(repo store.Repository, notifier notify.Notifier) *Restaurant {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	s := &Restaurant{
		repo:      repo,
		notifier:  notifier,
		events:    make(chan notify.Event, eventBuffer),
		delivered: make(chan struct{}),
		now:       time.Now,
		newID:     uuid.NewString,
		book:      NewOrderBook(nil, nil),
		cfg:       config.DefaultAppConfig(),
	}
	go s.deliver()
	return s
}

// Close stops accepting events and waits until the queued ones have been
// handed to the notifier.
func (s *Restaurant) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	s.mu.Unlock()
	<-s.delivered
}

func (s *Restaurant) deliver() {
	defer close(s.delivered)
	for e := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		if err := s.notifier.Notify(ctx, e); err != nil {
			log.Printf("ERROR: notify %s: %v", e.Type, err)
		}
		cancel()
	}
}

// Load replaces in-memory state with what the repository holds.
func (s *Restaurant) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Restaurant) loadLocked(ctx context.Context) error {
	active, err := s.repo.GetActiveOrders(ctx)
	if err != nil {
		return external("persistence", fmt.Errorf("load active orders: %w", err))
	}
	archived, err := s.repo.GetArchivedOrders(ctx)
	if err != nil {
		return external("persistence", fmt.Errorf("load archived orders: %w", err))
	}
	tables, err := s.repo.GetTables(ctx)
	if err != nil {
		return external("persistence", fmt.Errorf("load tables: %w", err))
	}
	customers, err := s.repo.GetCustomers(ctx)
	if err != nil {
		return external("persistence", fmt.Errorf("load customers: %w", err))
	}
	cfg, err := s.repo.GetAppConfig(ctx)
	if err != nil {
		return external("persistence", fmt.Errorf("load app config: %w", err))
	}

	s.book = NewOrderBook(active, archived)
	s.tables = tables
	s.customers = customers
	s.cfg = cfg.Normalize()
	s.version++
	return nil
}

// Version increases on every state change. Clients pass it back to Reload.
func (s *Restaurant) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Reload re-reads the repository only if seen is the current version, so a
// refresh that raced with a newer edit cannot overwrite it.
func (s *Restaurant) Reload(ctx context.Context, seen uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seen != s.version {
		return s.version, ErrStaleSnapshot
	}
	if err := s.loadLocked(ctx); err != nil {
		return s.version, err
	}
	return s.version, nil
}

// --- Orders ---

// OrderLine is one requested line of a new order.
type OrderLine struct {
	MenuItemID string
	Quantity   int
}

// SubmitOrderRequest is the input for SubmitOrder.
type SubmitOrderRequest struct {
	TableNumber  int
	CustomerID   string
	CustomerName string
	Items        []OrderLine
}

// SubmitOrder builds an order from menu items, adds it to the board and
// marks its table occupied.
func (s *Restaurant) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (model.Order, error) {
	for i, l := range req.Items {
		if l.Quantity <= 0 {
			return model.Order{}, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
	}

	var menu map[string]model.MenuItem
	if len(req.Items) > 0 {
		items, err := s.repo.GetMenuItems(ctx)
		if err != nil {
			return model.Order{}, external("persistence", fmt.Errorf("load menu: %w", err))
		}
		menu = make(map[string]model.MenuItem, len(items))
		for _, it := range items {
			menu[it.ID] = it
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := NewOrderBuilder()
	b.now = s.now
	b.newID = s.newID
	for i, l := range req.Items {
		mi, ok := menu[l.MenuItemID]
		if !ok {
			return model.Order{}, fmt.Errorf("items[%d]: %w", i, ErrUnknownMenuItem)
		}
		b.AddItem(mi)
		b.UpdateQuantity(mi.ID, b.Quantity(mi.ID)+l.Quantity-1)
	}

	if req.CustomerID != "" {
		ci := customerIndex(s.customers, req.CustomerID)
		if ci < 0 {
			return model.Order{}, ErrUnknownCustomer
		}
		name := req.CustomerName
		if name == "" {
			name = s.customers[ci].Name
		}
		b.SetCustomer(req.CustomerID, name)
	} else if req.CustomerName != "" {
		b.SetCustomer("", req.CustomerName)
	}

	order, err := b.Submit(req.TableNumber)
	if err != nil {
		return model.Order{}, err
	}

	var table model.Table
	err = s.apply(ctx, func(st *state) error {
		ti := tableIndex(st.tables, order.TableNumber)
		if ti < 0 {
			return ErrUnknownTable
		}
		st.book.Add(order)
		st.tables[ti].Status = enum.TableStatusOccupied
		st.tables[ti].OrderID = order.ID
		table = st.tables[ti]
		st.ordersDirty = true
		st.tablesDirty = true
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	s.publish(notify.Event{Type: notify.EventOrderCreated, Order: orderPtr(order)})
	s.publish(notify.Event{Type: notify.EventTableUpdated, Table: &table})
	return order, nil
}

// AdvanceOrder moves an active order to its next status. A served order is
// returned unchanged with ErrNoNextStatus.
func (s *Restaurant) AdvanceOrder(ctx context.Context, id string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var order model.Order
	err := s.apply(ctx, func(st *state) error {
		o, err := st.book.Advance(id)
		order = o
		if err != nil {
			return err
		}
		st.ordersDirty = true
		return nil
	})
	if err != nil {
		s.warnNotFound("advance order", id, err)
		return order, err
	}

	s.publish(notify.Event{Type: notify.EventOrderStatusChanged, Order: orderPtr(order)})
	return order, nil
}

// ApplyDiscount sets the order's discount percentage, clamped to
// [0, max_discount]. Discounts replace each other; they never stack.
func (s *Restaurant) ApplyDiscount(ctx context.Context, id string, pct decimal.Decimal) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxDiscount := s.cfg.MaxDiscount
	var order model.Order
	err := s.apply(ctx, func(st *state) error {
		o, err := st.book.ApplyDiscount(id, pct, maxDiscount)
		if err != nil {
			return err
		}
		order = o
		st.ordersDirty = true
		return nil
	})
	if err != nil {
		s.warnNotFound("discount order", id, err)
		return model.Order{}, err
	}

	s.publish(notify.Event{Type: notify.EventOrderDiscounted, Order: orderPtr(order)})
	return order, nil
}

// ArchiveResult is what ArchiveOrder changed.
type ArchiveResult struct {
	Order        model.Order
	Customer     *model.Customer
	PointsEarned int64
	Table        *model.Table
}

// ArchiveOrder moves an order to history, frees its table and credits the
// customer's loyalty points.
func (s *Restaurant) ArchiveOrder(ctx context.Context, id string) (ArchiveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate := s.cfg.LoyaltyRate
	var res ArchiveResult
	err := s.apply(ctx, func(st *state) error {
		o, err := st.book.Archive(id, s.now())
		if err != nil {
			return err
		}
		res.Order = o
		st.ordersDirty = true

		if ti := tableIndex(st.tables, o.TableNumber); ti >= 0 && st.tables[ti].OrderID == o.ID {
			if next := st.book.ActiveOnTable(o.TableNumber, o.ID); next != "" {
				st.tables[ti].OrderID = next
			} else {
				st.tables[ti].Status = enum.TableStatusAvailable
				st.tables[ti].OrderID = ""
			}
			t := st.tables[ti]
			res.Table = &t
			st.tablesDirty = true
		}

		if o.CustomerID != "" {
			ci := customerIndex(st.customers, o.CustomerID)
			if ci < 0 {
				log.Printf("WARN: archive order %s: customer %s not found, no points credited", o.ID, o.CustomerID)
				return nil
			}
			c, earned := AddPointsForOrder(st.customers[ci], o.Total, rate)
			if earned > 0 {
				st.customers[ci] = c
				st.customersDirty = true
			}
			res.Customer = &c
			res.PointsEarned = earned
		}
		return nil
	})
	if err != nil {
		s.warnNotFound("archive order", id, err)
		return ArchiveResult{}, err
	}

	s.publish(notify.Event{
		Type:         notify.EventOrderArchived,
		Order:        orderPtr(res.Order),
		Customer:     res.Customer,
		PointsEarned: res.PointsEarned,
	})
	if res.Table != nil {
		t := *res.Table
		s.publish(notify.Event{Type: notify.EventTableUpdated, Table: &t})
	}
	return res, nil
}

// Board returns the kanban columns and the version they reflect.
func (s *Restaurant) Board() ([]BoardColumn, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Board(), s.version
}

func (s *Restaurant) ActiveOrders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Active()
}

func (s *Restaurant) ArchivedOrders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Archived()
}

// Order finds an active or archived order.
func (s *Restaurant) Order(id string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.book.Get(id)
	if err != nil {
		s.warnNotFound("get order", id, err)
	}
	return o, err
}

// Bill prepares the printable bill of an order.
func (s *Restaurant) Bill(id string) (Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.book.Get(id)
	if err != nil {
		s.warnNotFound("bill order", id, err)
		return Bill{}, err
	}
	return BuildBill(o, s.cfg), nil
}

// --- State transactions ---

// state is a working copy of the mutable collections.
type state struct {
	book      *OrderBook
	tables    []model.Table
	customers []model.Customer

	ordersDirty    bool
	tablesDirty    bool
	customersDirty bool
}

// apply runs fn on copies of the state, persists the collections fn marked
// dirty and swaps the copies in only when persisting succeeded. s.mu must
// be held.
func (s *Restaurant) apply(ctx context.Context, fn func(st *state) error) error {
	st := &state{
		book:      s.book.clone(),
		tables:    model.CloneTables(s.tables),
		customers: model.CloneCustomers(s.customers),
	}
	if err := fn(st); err != nil {
		return err
	}

	if st.customersDirty {
		if err := s.repo.SaveCustomers(ctx, st.customers); err != nil {
			return external("persistence", fmt.Errorf("save customers: %w", err))
		}
	}
	if st.tablesDirty {
		if err := s.repo.SaveTables(ctx, st.tables); err != nil {
			return external("persistence", fmt.Errorf("save tables: %w", err))
		}
	}
	if st.ordersDirty {
		if err := s.repo.SaveAllOrders(ctx, st.book.active, st.book.archived); err != nil {
			return external("persistence", fmt.Errorf("save orders: %w", err))
		}
	}

	if !st.ordersDirty && !st.tablesDirty && !st.customersDirty {
		return nil
	}
	s.book = st.book
	s.tables = st.tables
	s.customers = st.customers
	s.version++
	return nil
}

// publish queues the event stamped with the current version. s.mu must be
// held, which keeps the queue in the same order as the state changes. A full
// queue drops the event; clients notice the gap from the version.
func (s *Restaurant) publish(e notify.Event) {
	if s.closed {
		return
	}
	if e.At.IsZero() {
		e.At = s.now().UTC()
	}
	e.Version = s.version
	select {
	case s.events <- e:
	default:
		log.Printf("ERROR: notify %s: event queue full, dropped version %d", e.Type, e.Version)
	}
}

func (s *Restaurant) warnNotFound(op, id string, err error) {
	if errors.Is(err, ErrNotFound) {
		log.Printf("WARN: %s %s: %v", op, id, err)
	}
}

func orderPtr(o model.Order) *model.Order {
	c := o.Clone()
	return &c
}

func tableIndex(tables []model.Table, id int) int {
	for i := range tables {
		if tables[i].ID == id {
			return i
		}
	}
	return -1
}

func customerIndex(customers []model.Customer, id string) int {
	for i := range customers {
		if customers[i].ID == id {
			return i
		}
	}
	return -1
}
