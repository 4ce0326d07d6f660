// Package model holds the entities shared by the store, service and handler layers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a dish or drink on the menu.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// OrderItem is one order line. MenuItem is a copy taken when the line was
// added, so later menu edits do not change existing orders.
type OrderItem struct {
	MenuItem MenuItem `json:"menu_item"`
	Quantity int      `json:"quantity"`
}

// Order is a table's order. Subtotal and Total are derived from Items and
// Discount by the service layer and are never set on their own.
type Order struct {
	ID           string          `json:"id"`
	TableNumber  int             `json:"table_number"`
	Items        []OrderItem     `json:"items"`
	Status       string          `json:"status"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
	ArchivedAt   *time.Time      `json:"archived_at,omitempty"`
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with o.
func (o Order) Clone() Order {
	out := o
	out.Items = make([]OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	if o.ArchivedAt != nil {
		t := *o.ArchivedAt
		out.ArchivedAt = &t
	}
	return out
}

// Table is a dining table. OrderID is only set while the table is not available.
type Table struct {
	ID       int    `json:"id"`
	Status   string `json:"status"`
	Capacity int    `json:"capacity"`
	OrderID  string `json:"order_id,omitempty"`
}

// Customer is a registered guest. LoyaltyPoints never decrease.
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Avatar        string    `json:"avatar,omitempty"`
	LoyaltyPoints int64     `json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// StaffMember is an employee. PasswordHash is a bcrypt hash and is never
// serialized; members without one cannot log in.
type StaffMember struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Role         string           `json:"role"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	Shift        string           `json:"shift"`
	Avatar       string           `json:"avatar,omitempty"`
	Salary       *decimal.Decimal `json:"salary,omitempty"`
	PasswordHash string           `json:"-"`
}

func CloneOrders(in []Order) []Order {
	out := make([]Order, len(in))
	for i, o := range in {
		out[i] = o.Clone()
	}
	return out
}

func CloneTables(in []Table) []Table {
	out := make([]Table, len(in))
	copy(out, in)
	return out
}

func CloneCustomers(in []Customer) []Customer {
	out := make([]Customer, len(in))
	copy(out, in)
	return out
}

func CloneMenuItems(in []MenuItem) []MenuItem {
	out := make([]MenuItem, len(in))
	copy(out, in)
	return out
}

func CloneStaff(in []StaffMember) []StaffMember {
	out := make([]StaffMember, len(in))
	for i, s := range in {
		out[i] = s
		if s.Salary != nil {
			v := *s.Salary
			out[i].Salary = &v
		}
	}
	return out
}
