package store

import (
	"context"
	"sync"

	"github.com/tavola-pos/api/internal/config"
	"github.com/tavola-pos/api/internal/model"
)

// Memory keeps every collection in process memory. Used for tests and for
// running the server without DATABASE_URL.
type Memory struct {
	mu        sync.RWMutex
	menu      []model.MenuItem
	active    []model.Order
	archived  []model.Order
	tables    []model.Table
	staff     []model.StaffMember
	customers []model.Customer
	appConfig *config.AppConfig
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) GetMenuItems(_ context.Context) ([]model.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.CloneMenuItems(m.menu), nil
}

func (m *Memory) SaveMenuItems(_ context.Context, items []model.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menu = model.CloneMenuItems(items)
	return nil
}

func (m *Memory) GetActiveOrders(_ context.Context) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.CloneOrders(m.active), nil
}

func (m *Memory) GetArchivedOrders(_ context.Context) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.CloneOrders(m.archived), nil
}

func (m *Memory) SaveAllOrders(_ context.Context, active, archived []model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = model.CloneOrders(active)
	m.archived = model.CloneOrders(archived)
	return nil
}

func (m *Memory) GetTables(_ context.Context) ([]model.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.CloneTables(m.tables), nil
}

func (m *Memory) SaveTables(_ context.Context, tables []model.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = model.CloneTables(tables)
	return nil
}

func (m *Memory) GetStaff(_ context.Context) ([]model.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.CloneStaff(m.staff), nil
}

func (m *Memory) SaveStaff(_ context.Context, staff []model.StaffMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff = model.CloneStaff(staff)
	return nil
}

func (m *Memory) GetCustomers(_ context.Context) ([]model.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.CloneCustomers(m.customers), nil
}

func (m *Memory) SaveCustomers(_ context.Context, customers []model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers = model.CloneCustomers(customers)
	return nil
}

func (m *Memory) GetAppConfig(_ context.Context) (config.AppConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.appConfig == nil {
		return config.DefaultAppConfig(), nil
	}
	return cloneAppConfig(*m.appConfig), nil
}

func (m *Memory) SaveAppConfig(_ context.Context, cfg config.AppConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cloneAppConfig(cfg)
	m.appConfig = &c
	return nil
}

func cloneAppConfig(c config.AppConfig) config.AppConfig {
	out := c
	if c.EnabledSections != nil {
		out.EnabledSections = make([]string, len(c.EnabledSections))
		copy(out.EnabledSections, c.EnabledSections)
	}
	return out
}
