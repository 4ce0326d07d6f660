// Package store persists the restaurant's collections. Every backend stores
// whole collections: Save* replaces what was there, Get* returns copies.
package store

import (
	"context"

	"github.com/tavola-pos/api/internal/config"
	"github.com/tavola-pos/api/internal/model"
)

// Repository is satisfied by *Memory and *Postgres.
type Repository interface {
	GetMenuItems(ctx context.Context) ([]model.MenuItem, error)
	SaveMenuItems(ctx context.Context, items []model.MenuItem) error

	GetActiveOrders(ctx context.Context) ([]model.Order, error)
	GetArchivedOrders(ctx context.Context) ([]model.Order, error)
	SaveAllOrders(ctx context.Context, active, archived []model.Order) error

	GetTables(ctx context.Context) ([]model.Table, error)
	SaveTables(ctx context.Context, tables []model.Table) error

	GetStaff(ctx context.Context) ([]model.StaffMember, error)
	SaveStaff(ctx context.Context, staff []model.StaffMember) error

	GetCustomers(ctx context.Context) ([]model.Customer, error)
	SaveCustomers(ctx context.Context, customers []model.Customer) error

	GetAppConfig(ctx context.Context) (config.AppConfig, error)
	SaveAppConfig(ctx context.Context, cfg config.AppConfig) error
}
