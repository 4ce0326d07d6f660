package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/config"
	"github.com/tavola-pos/api/internal/model"
)

// Postgres stores every collection in PostgreSQL. Each Save runs in one
// transaction that replaces the collection, keeping slice order in a
// position column.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// --- Menu ---

func (p *Postgres) GetMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, price, category, description, image
		FROM menu_items
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var (
			it          model.MenuItem
			price       pgtype.Numeric
			description pgtype.Text
			image       pgtype.Text
		)
		if err := rows.Scan(&it.ID, &it.Name, &price, &it.Category, &description, &image); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		it.Price = numericToDecimal(price)
		it.Description = description.String
		it.Image = image.String
		items = append(items, it)
	}
	return items, rows.Err()
}

func (p *Postgres) SaveMenuItems(ctx context.Context, items []model.MenuItem) error {
	return p.replace(ctx, "menu_items", func(b *pgx.Batch) error {
		for i, it := range items {
			b.Queue(`
				INSERT INTO menu_items (id, position, name, price, category, description, image)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				it.ID, i, it.Name, decimalToNumeric(it.Price), it.Category,
				textOrNull(it.Description), textOrNull(it.Image),
			)
		}
		return nil
	})
}

// --- Orders ---

func (p *Postgres) GetActiveOrders(ctx context.Context) ([]model.Order, error) {
	return p.listOrders(ctx, false)
}

func (p *Postgres) GetArchivedOrders(ctx context.Context) ([]model.Order, error) {
	return p.listOrders(ctx, true)
}

func (p *Postgres) listOrders(ctx context.Context, archived bool) ([]model.Order, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, table_number, items, status, subtotal, discount, total,
		       customer_id, customer_name, created_at, archived_at
		FROM orders
		WHERE archived = $1
		ORDER BY position`, archived)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var (
			o            model.Order
			items        []byte
			subtotal     pgtype.Numeric
			discount     pgtype.Numeric
			total        pgtype.Numeric
			customerID   pgtype.Text
			customerName pgtype.Text
			archivedAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&o.ID, &o.TableNumber, &items, &o.Status, &subtotal, &discount, &total,
			&customerID, &customerName, &o.CreatedAt, &archivedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
		}
		o.Subtotal = numericToDecimal(subtotal)
		o.Discount = numericToDecimal(discount)
		o.Total = numericToDecimal(total)
		o.CustomerID = customerID.String
		o.CustomerName = customerName.String
		if archivedAt.Valid {
			t := archivedAt.Time
			o.ArchivedAt = &t
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (p *Postgres) SaveAllOrders(ctx context.Context, active, archived []model.Order) error {
	return p.replace(ctx, "orders", func(b *pgx.Batch) error {
		if err := queueOrders(b, active, false); err != nil {
			return err
		}
		return queueOrders(b, archived, true)
	})
}

func queueOrders(b *pgx.Batch, orders []model.Order, archived bool) error {
	for i, o := range orders {
		items, err := json.Marshal(o.Items)
		if err != nil {
			return fmt.Errorf("encode items of order %s: %w", o.ID, err)
		}
		archivedAt := pgtype.Timestamptz{}
		if o.ArchivedAt != nil {
			archivedAt = pgtype.Timestamptz{Time: *o.ArchivedAt, Valid: true}
		}
		b.Queue(`
			INSERT INTO orders (id, position, archived, table_number, items, status, subtotal, discount, total,
			                    customer_id, customer_name, created_at, archived_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			o.ID, i, archived, o.TableNumber, string(items), o.Status,
			decimalToNumeric(o.Subtotal), decimalToNumeric(o.Discount), decimalToNumeric(o.Total),
			textOrNull(o.CustomerID), textOrNull(o.CustomerName), o.CreatedAt, archivedAt,
		)
	}
	return nil
}

// --- Tables ---

func (p *Postgres) GetTables(ctx context.Context) ([]model.Table, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, status, capacity, order_id FROM dining_tables ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []model.Table
	for rows.Next() {
		var (
			t       model.Table
			orderID pgtype.Text
		)
		if err := rows.Scan(&t.ID, &t.Status, &t.Capacity, &orderID); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		t.OrderID = orderID.String
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (p *Postgres) SaveTables(ctx context.Context, tables []model.Table) error {
	return p.replace(ctx, "dining_tables", func(b *pgx.Batch) error {
		for _, t := range tables {
			b.Queue(`INSERT INTO dining_tables (id, status, capacity, order_id) VALUES ($1, $2, $3, $4)`,
				t.ID, t.Status, t.Capacity, textOrNull(t.OrderID))
		}
		return nil
	})
}

// --- Staff ---

func (p *Postgres) GetStaff(ctx context.Context) ([]model.StaffMember, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, role, email, phone, shift, avatar, salary, password_hash
		FROM staff
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	defer rows.Close()

	var staff []model.StaffMember
	for rows.Next() {
		var (
			s            model.StaffMember
			avatar       pgtype.Text
			salary       pgtype.Numeric
			passwordHash pgtype.Text
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Role, &s.Email, &s.Phone, &s.Shift, &avatar, &salary, &passwordHash); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		s.Avatar = avatar.String
		s.PasswordHash = passwordHash.String
		if salary.Valid {
			d := numericToDecimal(salary)
			s.Salary = &d
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func (p *Postgres) SaveStaff(ctx context.Context, staff []model.StaffMember) error {
	return p.replace(ctx, "staff", func(b *pgx.Batch) error {
		for i, s := range staff {
			salary := pgtype.Numeric{}
			if s.Salary != nil {
				salary = decimalToNumeric(*s.Salary)
			}
			b.Queue(`
				INSERT INTO staff (id, position, name, role, email, phone, shift, avatar, salary, password_hash)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				s.ID, i, s.Name, s.Role, s.Email, s.Phone, s.Shift,
				textOrNull(s.Avatar), salary, textOrNull(s.PasswordHash),
			)
		}
		return nil
	})
}

// --- Customers ---

func (p *Postgres) GetCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, email, phone, avatar, loyalty_points, created_at
		FROM customers
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var (
			c      model.Customer
			avatar pgtype.Text
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &avatar, &c.LoyaltyPoints, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.Avatar = avatar.String
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (p *Postgres) SaveCustomers(ctx context.Context, customers []model.Customer) error {
	return p.replace(ctx, "customers", func(b *pgx.Batch) error {
		for i, c := range customers {
			createdAt := c.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now()
			}
			b.Queue(`
				INSERT INTO customers (id, position, name, email, phone, avatar, loyalty_points, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				c.ID, i, c.Name, c.Email, c.Phone, textOrNull(c.Avatar), c.LoyaltyPoints, createdAt,
			)
		}
		return nil
	})
}

// --- App config ---

func (p *Postgres) GetAppConfig(ctx context.Context) (config.AppConfig, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM app_config WHERE id = 1`).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return config.DefaultAppConfig(), nil
		}
		return config.AppConfig{}, fmt.Errorf("query app config: %w", err)
	}

	cfg := config.DefaultAppConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.AppConfig{}, fmt.Errorf("decode app config: %w", err)
	}
	return cfg.Normalize(), nil
}

func (p *Postgres) SaveAppConfig(ctx context.Context, cfg config.AppConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode app config: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO app_config (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, string(data))
	if err != nil {
		return fmt.Errorf("save app config: %w", err)
	}
	return nil
}

// --- Helpers ---

// replace deletes every row of table and runs the queued inserts in one transaction.
func (p *Postgres) replace(ctx context.Context, table string, queue func(b *pgx.Batch) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// table is always one of the constant names above.
	if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	batch := &pgx.Batch{}
	if err := queue(batch); err != nil {
		return err
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	s, ok := val.(string)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// decimalToNumeric keeps full precision; rounding to cents is a display concern.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.String())
	return n
}
