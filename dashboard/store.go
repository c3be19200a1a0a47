package dashboard

//go:generate mockgen -source=store.go -destination=mock_store.go -package=dashboard

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/sing3demons/go-bakery-service/order"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"github.com/sing3demons/go-bakery-service/postgres"
)

// Store runs the dashboard aggregates over the order tables.
type Store interface {
	CountByDueDate(ctx *router.Context, due order.Date) (int64, error)
	CountByDueDateAndStates(ctx *router.Context, due order.Date, states []order.State) (int64, error)
	CountByState(ctx *router.Context, state order.State) (int64, error)
	CountPerMonth(ctx *router.Context, state order.State, year int) ([]Row[int64], error)
	CountPerDay(ctx *router.Context, state order.State, year, month int) ([]Row[int64], error)
	SumPerMonth(ctx *router.Context, state order.State, fromYear, toYear int) ([]MonthlySales, error)
	CountPerProduct(ctx *router.Context, state order.State, year, month int) ([]ProductDelivery, error)
}

type store struct{ db *sql.DB }

func NewStore(db *sql.DB) Store {
	return store{db: db}
}

func (s store) CountByDueDate(ctx *router.Context, due order.Date) (int64, error) {
	return s.count(ctx, "count_orders_by_due_date", "SELECT COUNT(*) FROM orders WHERE due_date = $1", due)
}

func (s store) CountByDueDateAndStates(ctx *router.Context, due order.Date, states []order.State) (int64, error) {
	names := make([]string, len(states))
	for i, st := range states {
		names[i] = string(st)
	}
	return s.count(ctx, "count_orders_by_due_date_and_states",
		"SELECT COUNT(*) FROM orders WHERE due_date = $1 AND state = ANY($2)", due, pq.Array(names))
}

func (s store) CountByState(ctx *router.Context, state order.State) (int64, error) {
	return s.count(ctx, "count_orders_by_state", "SELECT COUNT(*) FROM orders WHERE state = $1", state)
}

func (s store) count(ctx *router.Context, command, query string, args ...any) (int64, error) {
	op := postgres.Begin(ctx.Log, "orders", command, logAction.DB_READ, query, args...)

	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, op.Done(err, nil)
	}
	op.Done(nil, map[string]any{"count": n})
	return n, nil
}

func (s store) CountPerMonth(ctx *router.Context, state order.State, year int) ([]Row[int64], error) {
	query := `SELECT EXTRACT(MONTH FROM due_date)::int AS m, COUNT(*) FROM orders
WHERE state = $1 AND EXTRACT(YEAR FROM due_date) = $2 GROUP BY m ORDER BY m`
	return s.rows(ctx, "count_deliveries_per_month", query, state, year)
}

func (s store) CountPerDay(ctx *router.Context, state order.State, year, month int) ([]Row[int64], error) {
	query := `SELECT EXTRACT(DAY FROM due_date)::int AS d, COUNT(*) FROM orders
WHERE state = $1 AND EXTRACT(YEAR FROM due_date) = $2 AND EXTRACT(MONTH FROM due_date) = $3 GROUP BY d ORDER BY d`
	return s.rows(ctx, "count_deliveries_per_day", query, state, year, month)
}

func (s store) rows(ctx *router.Context, command, query string, args ...any) ([]Row[int64], error) {
	op := postgres.Begin(ctx.Log, "orders", command, logAction.DB_READ, query, args...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, op.Done(err, nil)
	}
	defer rows.Close()

	var out []Row[int64]
	for rows.Next() {
		var r Row[int64]
		if err := rows.Scan(&r.Key, &r.Value); err != nil {
			return nil, op.Done(err, nil)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, map[string]any{"rows_count": len(out)})
	return out, nil
}

// SumPerMonth totals the item snapshot prices of orders in state, newest year first.
func (s store) SumPerMonth(ctx *router.Context, state order.State, fromYear, toYear int) ([]MonthlySales, error) {
	query := `SELECT EXTRACT(YEAR FROM o.due_date)::int AS y, EXTRACT(MONTH FROM o.due_date)::int AS m,
SUM(oi.quantity * oi.unit_price)
FROM orders o JOIN order_items oi ON oi.order_id = o.id
WHERE o.state = $1 AND EXTRACT(YEAR FROM o.due_date) BETWEEN $2 AND $3
GROUP BY y, m ORDER BY y DESC, m`
	op := postgres.Begin(ctx.Log, "order_items", "sum_sales_per_month", logAction.DB_READ, query, state, fromYear, toYear)

	rows, err := s.db.QueryContext(ctx, query, state, fromYear, toYear)
	if err != nil {
		return nil, op.Done(err, nil)
	}
	defer rows.Close()

	var out []MonthlySales
	for rows.Next() {
		var m MonthlySales
		if err := rows.Scan(&m.Year, &m.Month, &m.Total); err != nil {
			return nil, op.Done(err, nil)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, map[string]any{"rows_count": len(out)})
	return out, nil
}

func (s store) CountPerProduct(ctx *router.Context, state order.State, year, month int) ([]ProductDelivery, error) {
	query := `SELECT oi.product_id, MAX(oi.product_name), SUM(oi.quantity)
FROM orders o JOIN order_items oi ON oi.order_id = o.id
WHERE o.state = $1 AND EXTRACT(YEAR FROM o.due_date) = $2 AND EXTRACT(MONTH FROM o.due_date) = $3
GROUP BY oi.product_id ORDER BY oi.product_id`
	op := postgres.Begin(ctx.Log, "order_items", "count_deliveries_per_product", logAction.DB_READ, query, state, year, month)

	rows, err := s.db.QueryContext(ctx, query, state, year, month)
	if err != nil {
		return nil, op.Done(err, nil)
	}
	defer rows.Close()

	out := []ProductDelivery{}
	for rows.Next() {
		var p ProductDelivery
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.Quantity); err != nil {
			return nil, op.Done(err, nil)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, map[string]any{"rows_count": len(out)})
	return out, nil
}
