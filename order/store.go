package order

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"github.com/sing3demons/go-bakery-service/postgres"
)

type Store interface {
	crud.Repository[Order, int64]
	FindSummaries(ctx *router.Context, f Filter, p crud.Pageable) ([]Summary, error)
	CountSummaries(ctx *router.Context, f Filter) (int64, error)
	FindSummariesFrom(ctx *router.Context, from Date) ([]Summary, error)
	ListPickupLocations(ctx *router.Context) ([]PickupLocation, error)
}

type store struct{ db *sql.DB }

const createTables = `CREATE TABLE IF NOT EXISTS pickup_locations
(
    id   BIGSERIAL    PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS orders
(
    id                 BIGSERIAL    PRIMARY KEY,
    due_date           DATE         NOT NULL,
    due_time           TIME         NOT NULL,
    state              VARCHAR(16)  NOT NULL,
    customer_full_name VARCHAR(255) NOT NULL,
    customer_phone     VARCHAR(20)  NOT NULL,
    customer_details   VARCHAR(255) NOT NULL DEFAULT '',
    pickup_location_id BIGINT       REFERENCES pickup_locations (id),
    created_at         TIMESTAMP    NOT NULL,
    updated_at         TIMESTAMP    NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_due_idx ON orders (due_date, due_time, id);
CREATE TABLE IF NOT EXISTS order_items
(
    order_id     BIGINT        NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    position     INT           NOT NULL,
    product_id   VARCHAR(64)   NOT NULL,
    product_name VARCHAR(255)  NOT NULL,
    unit_price   NUMERIC(10,2) NOT NULL,
    quantity     INT           NOT NULL,
    comment      VARCHAR(255)  NOT NULL DEFAULT '',
    PRIMARY KEY (order_id, position)
);
CREATE TABLE IF NOT EXISTS order_history
(
    id         BIGSERIAL    PRIMARY KEY,
    order_id   BIGINT       NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    message    VARCHAR(255) NOT NULL,
    new_state  VARCHAR(16)  NOT NULL,
    created_by VARCHAR(255) NOT NULL,
    created_at TIMESTAMP    NOT NULL
);
INSERT INTO pickup_locations (name) VALUES ('Store'), ('Bakery') ON CONFLICT (name) DO NOTHING;`

// New is a factory function for store layer.
func New(db *sql.DB) Store {
	db.Exec(createTables)
	return store{db: db}
}

const summaryColumns = `SELECT o.id, o.due_date, o.due_time, o.state, o.customer_full_name, COALESCE(p.name, '')
FROM orders o LEFT JOIN pickup_locations p ON p.id = o.pickup_location_id`

// where builds the filter clause. Placeholders start at $1.
func where(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Text != "" {
		args = append(args, postgres.Contains(f.Text))
		conds = append(conds, fmt.Sprintf(`o.customer_full_name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if f.After != nil {
		args = append(args, *f.After)
		conds = append(conds, fmt.Sprintf("o.due_date > $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s store) FindSummaries(ctx *router.Context, f Filter, p crud.Pageable) ([]Summary, error) {
	cond, args := where(f)
	args = append(args, p.Size, p.Offset())
	query := fmt.Sprintf("%s%s ORDER BY o.due_date, o.due_time, o.id LIMIT $%d OFFSET $%d",
		summaryColumns, cond, len(args)-1, len(args))

	return s.querySummaries(ctx, "find_order_summaries", query, args...)
}

func (s store) FindSummariesFrom(ctx *router.Context, from Date) ([]Summary, error) {
	query := summaryColumns + " WHERE o.due_date >= $1 ORDER BY o.due_date, o.due_time, o.id"
	return s.querySummaries(ctx, "find_order_summaries_from", query, from)
}

func (s store) querySummaries(ctx *router.Context, command, query string, args ...any) ([]Summary, error) {
	op := postgres.Begin(ctx.Log, "orders", command, logAction.DB_READ, query, args...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, op.Done(err, nil)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.DueDate, &sum.DueTime, &sum.State, &sum.CustomerName, &sum.PickupLocation); err != nil {
			return nil, op.Done(err, nil)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, op.Done(err, nil)
	}
	op.Done(nil, map[string]any{"rows_count": len(summaries)})

	if len(summaries) == 0 {
		return summaries, nil
	}

	ids := make([]int64, len(summaries))
	for i, sum := range summaries {
		ids[i] = sum.ID
	}

	items, err := s.findItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		summaries[i].Items = items[summaries[i].ID]
		if summaries[i].Items == nil {
			summaries[i].Items = []OrderItem{}
		}
	}
	return summaries, nil
}

func (s store) findItems(ctx *router.Context, ids []int64) (map[int64][]OrderItem, error) {
	query := "SELECT order_id, product_id, product_name, unit_price, quantity, comment FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position"
	op := postgres.Begin(ctx.Log, "order_items", "find_order_items", logAction.DB_READ, query, ids)

	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, op.Done(err, nil)
	}
	defer rows.Close()

	items := make(map[int64][]OrderItem, len(ids))
	count := 0
	for rows.Next() {
		var (
			orderID int64
			item    OrderItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity, &item.Comment); err != nil {
			return nil, op.Done(err, nil)
		}
		items[orderID] = append(items[orderID], item)
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, map[string]any{"rows_count": count})
	return items, nil
}

func (s store) CountSummaries(ctx *router.Context, f Filter) (int64, error) {
	cond, args := where(f)
	query := "SELECT COUNT(*) FROM orders o" + cond

	return s.count(ctx, "count_order_summaries", query, args...)
}

func (s store) Count(ctx *router.Context) (int64, error) {
	return s.count(ctx, "count_orders", "SELECT COUNT(*) FROM orders")
}

func (s store) count(ctx *router.Context, command, query string, args ...any) (int64, error) {
	op := postgres.Begin(ctx.Log, "orders", command, logAction.DB_READ, query, args...)

	var n int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	if err != nil {
		return 0, op.Done(err, nil)
	}
	op.Done(nil, map[string]any{"count": n})
	return n, nil
}

// FindByID loads the full order with its items and history. It returns nil, nil when
// no order has the id.
func (s store) FindByID(ctx *router.Context, id int64) (*Order, error) {
	query := `SELECT o.id, o.due_date, o.due_time, o.state, o.customer_full_name, o.customer_phone, o.customer_details,
COALESCE(o.pickup_location_id, 0), COALESCE(p.name, ''), o.created_at, o.updated_at
FROM orders o LEFT JOIN pickup_locations p ON p.id = o.pickup_location_id WHERE o.id = $1`
	op := postgres.Begin(ctx.Log, "orders", "find_order_by_id", logAction.DB_READ, query, id)

	var o Order
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.DueDate, &o.DueTime, &o.State,
		&o.Customer.FullName, &o.Customer.PhoneNumber, &o.Customer.Details,
		&o.PickupLocation.ID, &o.PickupLocation.Name, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		op.Done(err, nil)
		return nil, nil
	}
	if err != nil {
		return nil, op.Done(err, nil)
	}
	op.Done(nil, map[string]any{"order_id": o.ID})

	items, err := s.findItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	if o.Items == nil {
		o.Items = []OrderItem{}
	}

	o.History, err = s.findHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s store) findHistory(ctx *router.Context, id int64) ([]HistoryItem, error) {
	query := "SELECT id, message, new_state, created_by, created_at FROM order_history WHERE order_id = $1 ORDER BY id"
	op := postgres.Begin(ctx.Log, "order_history", "find_order_history", logAction.DB_READ, query, id)

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, op.Done(err, nil)
	}
	defer rows.Close()

	history := []HistoryItem{}
	for rows.Next() {
		var h HistoryItem
		if err := rows.Scan(&h.ID, &h.Message, &h.NewState, &h.CreatedBy, &h.Timestamp); err != nil {
			return nil, op.Done(err, nil)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, map[string]any{"rows_count": len(history)})
	return history, nil
}

// Save inserts or updates the order, replaces its items and appends new history items
// in one transaction.
func (s store) Save(ctx *router.Context, o *Order) (*Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	var pickup any
	if o.PickupLocation.ID != 0 {
		pickup = o.PickupLocation.ID
	}

	if o.ID == 0 {
		query := `INSERT INTO orders (due_date, due_time, state, customer_full_name, customer_phone, customer_details, pickup_location_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
		params := []any{o.DueDate, o.DueTime, o.State, o.Customer.FullName, o.Customer.PhoneNumber, o.Customer.Details, pickup, o.CreatedAt, o.UpdatedAt}
		op := postgres.Begin(ctx.Log, "orders", "create_order", logAction.DB_CREATE, query, params...)

		if err := tx.QueryRowContext(ctx, query, params...).Scan(&o.ID); err != nil {
			return nil, op.Done(err, nil)
		}
		op.Done(nil, map[string]any{"order_id": o.ID})
	} else {
		query := `UPDATE orders SET due_date = $1, due_time = $2, state = $3, customer_full_name = $4, customer_phone = $5,
customer_details = $6, pickup_location_id = $7, updated_at = $8 WHERE id = $9`
		params := []any{o.DueDate, o.DueTime, o.State, o.Customer.FullName, o.Customer.PhoneNumber, o.Customer.Details, pickup, o.UpdatedAt, o.ID}
		op := postgres.Begin(ctx.Log, "orders", "update_order", logAction.DB_UPDATE, query, params...)

		r, err := tx.ExecContext(ctx, query, params...)
		if err != nil {
			return nil, op.Done(err, nil)
		}
		if n, _ := r.RowsAffected(); n == 0 {
			op.Done(sql.ErrNoRows, nil)
			return nil, crud.ErrNotFound
		}
		op.Done(nil, map[string]any{"order_id": o.ID})
	}

	if err := saveItems(ctx, tx, o); err != nil {
		return nil, err
	}
	if err := saveHistory(ctx, tx, o); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}

func saveItems(ctx *router.Context, tx *sql.Tx, o *Order) error {
	query := "DELETE FROM order_items WHERE order_id = $1"
	op := postgres.Begin(ctx.Log, "order_items", "delete_order_items", logAction.DB_DELETE, query, o.ID)
	if _, err := tx.ExecContext(ctx, query, o.ID); err != nil {
		return op.Done(err, nil)
	}
	op.Done(nil, map[string]any{"order_id": o.ID})

	query = `INSERT INTO order_items (order_id, position, product_id, product_name, unit_price, quantity, comment)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, item := range o.Items {
		params := []any{o.ID, i, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity, item.Comment}
		op := postgres.Begin(ctx.Log, "order_items", "create_order_item", logAction.DB_CREATE, query, params...)
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return op.Done(err, nil)
		}
		op.Done(nil, map[string]any{"order_id": o.ID, "position": i})
	}
	return nil
}

func saveHistory(ctx *router.Context, tx *sql.Tx, o *Order) error {
	query := `INSERT INTO order_history (order_id, message, new_state, created_by, created_at)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	for i := range o.History {
		h := &o.History[i]
		if h.ID != 0 {
			continue
		}

		params := []any{o.ID, h.Message, h.NewState, h.CreatedBy, h.Timestamp}
		op := postgres.Begin(ctx.Log, "order_history", "create_order_history", logAction.DB_CREATE, query, params...)
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&h.ID); err != nil {
			return op.Done(err, nil)
		}
		op.Done(nil, map[string]any{"history_id": h.ID})
	}
	return nil
}

func (s store) Delete(ctx *router.Context, o *Order) error {
	query := "DELETE FROM orders WHERE id = $1"
	op := postgres.Begin(ctx.Log, "orders", "delete_order", logAction.DB_DELETE, query, o.ID)

	r, err := s.db.ExecContext(ctx, query, o.ID)
	if err != nil {
		return op.Done(err, nil)
	}
	rowsAffected, _ := r.RowsAffected()
	op.Done(nil, map[string]any{"order_id": o.ID, "rows_affected": rowsAffected})
	return nil
}

func (s store) ListPickupLocations(ctx *router.Context) ([]PickupLocation, error) {
	query := "SELECT id, name FROM pickup_locations ORDER BY id"
	op := postgres.Begin(ctx.Log, "pickup_locations", "list_pickup_locations", logAction.DB_READ, query)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, op.Done(err, nil)
	}
	defer rows.Close()

	locations := []PickupLocation{}
	for rows.Next() {
		var l PickupLocation
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, op.Done(err, nil)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, map[string]any{"rows_count": len(locations)})
	return locations, nil
}
