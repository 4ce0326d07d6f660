package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/config"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/store"
)

func TestMemory_OrdersAreCopied(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	order := model.Order{
		ID:          "o-1",
		TableNumber: 3,
		Status:      "received",
		Items: []model.OrderItem{
			{MenuItem: model.MenuItem{ID: "m-1", Name: "Soup", Price: decimal.RequireFromString("4.50")}, Quantity: 2},
		},
		CreatedAt: time.Now(),
	}
	if err := m.SaveAllOrders(ctx, []model.Order{order}, nil); err != nil {
		t.Fatalf("save orders: %v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	order.Items[0].Quantity = 99

	active, err := m.GetActiveOrders(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active count: got %d, want 1", len(active))
	}
	if active[0].Items[0].Quantity != 2 {
		t.Errorf("quantity: got %d, want 2", active[0].Items[0].Quantity)
	}

	// Nor must mutating what the store returned.
	active[0].Items[0].Quantity = 7
	again, _ := m.GetActiveOrders(ctx)
	if again[0].Items[0].Quantity != 2 {
		t.Errorf("quantity after mutating result: got %d, want 2", again[0].Items[0].Quantity)
	}

	archived, err := m.GetArchivedOrders(ctx)
	if err != nil {
		t.Fatalf("get archived: %v", err)
	}
	if len(archived) != 0 {
		t.Errorf("archived count: got %d, want 0", len(archived))
	}
}

func TestMemory_AppConfigDefaultsUntilSaved(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	cfg, err := m.GetAppConfig(ctx)
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg.Title != config.DefaultAppConfig().Title {
		t.Errorf("title: got %q, want default", cfg.Title)
	}

	cfg.Title = "Osteria"
	cfg.EnabledSections = []string{"menu"}
	if err := m.SaveAppConfig(ctx, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	cfg.EnabledSections[0] = "staff"

	got, _ := m.GetAppConfig(ctx)
	if got.Title != "Osteria" {
		t.Errorf("title: got %q, want Osteria", got.Title)
	}
	if len(got.EnabledSections) != 1 || got.EnabledSections[0] != "menu" {
		t.Errorf("sections: got %v, want [menu]", got.EnabledSections)
	}
}

func TestMemory_StaffSalaryIsCopied(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	salary := decimal.NewFromInt(3000)
	if err := m.SaveStaff(ctx, []model.StaffMember{{ID: "s-1", Name: "Ada", Salary: &salary}}); err != nil {
		t.Fatalf("save staff: %v", err)
	}
	salary = decimal.NewFromInt(1)

	staff, _ := m.GetStaff(ctx)
	if !staff[0].Salary.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("salary: got %s, want 3000", staff[0].Salary)
	}
}
