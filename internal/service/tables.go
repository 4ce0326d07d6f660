package service

import (
	"context"
	"sort"
	"strconv"

	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/notify"
)

// TableUpdate holds the fields to change; nil fields are left alone.
type TableUpdate struct {
	Status   *string
	Capacity *int
	OrderID  *string
}

func (s *Restaurant) Tables() []model.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneTables(s.tables)
}

func (s *Restaurant) Table(id int) (model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ti := tableIndex(s.tables, id)
	if ti < 0 {
		s.warnNotFound("get table", strconv.Itoa(id), ErrTableNotFound)
		return model.Table{}, ErrTableNotFound
	}
	return s.tables[ti], nil
}

// CreateTable adds a table; an empty status means available.
func (s *Restaurant) CreateTable(ctx context.Context, t model.Table) (model.Table, error) {
	if t.ID <= 0 {
		return model.Table{}, ErrInvalidTableID
	}
	if t.Capacity <= 0 {
		return model.Table{}, ErrInvalidCapacity
	}
	if t.Status == "" {
		t.Status = enum.TableStatusAvailable
	}
	if !enum.IsTableStatus(t.Status) {
		return model.Table{}, ErrInvalidStatus
	}
	if t.Status == enum.TableStatusAvailable && t.OrderID != "" {
		return model.Table{}, ErrOrderIDForStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.apply(ctx, func(st *state) error {
		if tableIndex(st.tables, t.ID) >= 0 {
			return ErrTableExists
		}
		if t.OrderID != "" {
			if err := st.book.checkTableOrder(t.OrderID, t.ID); err != nil {
				return err
			}
		}
		st.tables = append(st.tables, t)
		sort.Slice(st.tables, func(i, j int) bool { return st.tables[i].ID < st.tables[j].ID })
		st.tablesDirty = true
		return nil
	})
	if err != nil {
		return model.Table{}, err
	}

	s.publish(notify.Event{Type: notify.EventTableUpdated, Table: &t})
	return t, nil
}

// UpdateTable changes status, capacity or linked order. Setting a table
// available always clears its order.
func (s *Restaurant) UpdateTable(ctx context.Context, id int, upd TableUpdate) (model.Table, error) {
	if upd.Status != nil && !enum.IsTableStatus(*upd.Status) {
		return model.Table{}, ErrInvalidStatus
	}
	if upd.Capacity != nil && *upd.Capacity <= 0 {
		return model.Table{}, ErrInvalidCapacity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var table model.Table
	err := s.apply(ctx, func(st *state) error {
		ti := tableIndex(st.tables, id)
		if ti < 0 {
			return ErrTableNotFound
		}
		t := st.tables[ti]
		if upd.Capacity != nil {
			t.Capacity = *upd.Capacity
		}
		if upd.Status != nil {
			t.Status = *upd.Status
		}
		if upd.OrderID != nil {
			t.OrderID = *upd.OrderID
		}
		if t.Status == enum.TableStatusAvailable {
			if upd.OrderID != nil && *upd.OrderID != "" {
				return ErrOrderIDForStatus
			}
			t.OrderID = ""
		}
		if upd.OrderID != nil && *upd.OrderID != "" {
			if err := st.book.checkTableOrder(t.OrderID, id); err != nil {
				return err
			}
		}
		st.tables[ti] = t
		table = t
		st.tablesDirty = true
		return nil
	})
	if err != nil {
		s.warnNotFound("update table", strconv.Itoa(id), err)
		return model.Table{}, err
	}

	s.publish(notify.Event{Type: notify.EventTableUpdated, Table: &table})
	return table, nil
}

// checkTableOrder accepts only an active order placed at the given table.
func (b *OrderBook) checkTableOrder(orderID string, table int) error {
	i, err := b.mutable(orderID)
	if err != nil {
		return err
	}
	if b.active[i].TableNumber != table {
		return ErrOrderOnOtherTable
	}
	return nil
}

// DeleteTable removes a table that is not serving an active order.
func (s *Restaurant) DeleteTable(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.apply(ctx, func(st *state) error {
		ti := tableIndex(st.tables, id)
		if ti < 0 {
			return ErrTableNotFound
		}
		if st.book.ActiveOnTable(id, "") != "" {
			return ErrTableHasOrder
		}
		st.tables = append(st.tables[:ti], st.tables[ti+1:]...)
		st.tablesDirty = true
		return nil
	})
	s.warnNotFound("delete table", strconv.Itoa(id), err)
	return err
}
