package order_test

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/order"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCtx() *router.Context {
	return router.NewTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
}

func newMockStore(t *testing.T) (order.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %s", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS pickup_locations").WillReturnResult(sqlmock.NewResult(0, 0))
	return order.New(db), mock
}

func TestFindSummaries(t *testing.T) {
	s, mock := newMockStore(t)
	after := order.NewDate(2024, time.June, 9)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE o.customer_full_name ILIKE $1 ESCAPE '\' AND o.due_date > $2 ORDER BY o.due_date, o.due_time, o.id LIMIT $3 OFFSET $4`)).
		WithArgs("%ann%", "2024-06-09", 20, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "due_date", "due_time", "state", "customer_full_name", "name"}).
			AddRow(int64(3), "2024-06-10", "09:30:00", "NEW", "Anna", "Store").
			AddRow(int64(5), "2024-06-11", "16:00:00", "READY", "Joanna", "Bakery"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_items WHERE order_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "product_id", "product_name", "unit_price", "quantity", "comment"}).
			AddRow(int64(3), "p-1", "Cinnamon Bun", "2.50", 4, "").
			AddRow(int64(3), "p-2", "Rye Bread", "4.00", 1, "sliced"))

	summaries, err := s.FindSummaries(newCtx(), order.Filter{Text: "ann", After: &after}, crud.NewPageable(1, 20))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, int64(3), summaries[0].ID)
	assert.Equal(t, order.NewDate(2024, time.June, 10), summaries[0].DueDate)
	assert.Equal(t, order.NewClock(9, 30), summaries[0].DueTime)
	assert.Equal(t, order.StateNew, summaries[0].State)
	assert.Equal(t, "Store", summaries[0].PickupLocation)
	require.Len(t, summaries[0].Items, 2)
	assert.Equal(t, "sliced", summaries[0].Items[1].Comment)
	assert.True(t, decimal.RequireFromString("10").Equal(summaries[0].Items[0].TotalPrice()))
	assert.Empty(t, summaries[1].Items)
	assert.NotNil(t, summaries[1].Items)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSummariesWithoutFilter(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("ON p.id = o.pickup_location_id ORDER BY o.due_date, o.due_time, o.id LIMIT $1 OFFSET $2")).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "due_date", "due_time", "state", "customer_full_name", "name"}))

	summaries, err := s.FindSummaries(newCtx(), order.Filter{}, crud.NewPageable(0, 0))
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountSummaries(t *testing.T) {
	s, mock := newMockStore(t)
	after := order.NewDate(2024, time.June, 9)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders o WHERE o.due_date > $1")).
		WithArgs("2024-06-09").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

	n, err := s.CountSummaries(newCtx(), order.Filter{After: &after})
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountSummariesEscapesWildcards(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM orders o WHERE o.customer_full_name ILIKE $1 ESCAPE '\'`)).
		WithArgs(`%50\%\_%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	n, err := s.CountSummaries(newCtx(), order.Filter{Text: "50%_"})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE o.id = $1")).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"id", "due_date", "due_time", "state", "customer_full_name", "customer_phone", "customer_details", "pickup_location_id", "name", "created_at", "updated_at"}).
				AddRow(int64(7), "2024-06-10", "16:00:00", "CONFIRMED", "Anna", "+358 40 123 4567", "", int64(1), "Store", created, created))
		mock.ExpectQuery(regexp.QuoteMeta("FROM order_items WHERE order_id = ANY($1)")).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"order_id", "product_id", "product_name", "unit_price", "quantity", "comment"}).
				AddRow(int64(7), "p-1", "Cinnamon Bun", "2.50", 6, ""))
		mock.ExpectQuery(regexp.QuoteMeta("FROM order_history WHERE order_id = $1 ORDER BY id")).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"id", "message", "new_state", "created_by", "created_at"}).
				AddRow(int64(1), "Order placed", "NEW", "Admin", created).
				AddRow(int64(2), "Order CONFIRMED", "CONFIRMED", "Admin", created))

		o, err := s.FindByID(newCtx(), 7)
		require.NoError(t, err)
		require.NotNil(t, o)

		assert.Equal(t, order.StateConfirmed, o.State)
		assert.Equal(t, order.PickupLocation{ID: 1, Name: "Store"}, o.PickupLocation)
		assert.Equal(t, "+358 40 123 4567", o.Customer.PhoneNumber)
		assert.Len(t, o.Items, 1)
		require.Len(t, o.History, 2)
		assert.Equal(t, "Order CONFIRMED", o.History[1].Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE o.id = $1")).
			WithArgs(8).
			WillReturnError(sql.ErrNoRows)

		o, err := s.FindByID(newCtx(), 8)
		assert.NoError(t, err)
		assert.Nil(t, o)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSave(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2024, time.June, 10, 7, 0, 0, 0, time.UTC)

	t.Run("insert", func(t *testing.T) {
		o := order.NewOrder(crud.Actor{Name: "Admin"}, now)
		o.DueDate = order.NewDate(2024, time.June, 10)
		o.DueTime = order.NewClock(16, 0)
		o.Customer = order.Customer{FullName: "Anna", PhoneNumber: "040 1234567"}
		o.PickupLocation = order.PickupLocation{ID: 2}
		o.Items = []order.OrderItem{{ProductID: "p-1", ProductName: "Cinnamon Bun", UnitPrice: decimal.RequireFromString("2.50"), Quantity: 2}}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
			WithArgs("2024-06-10", "16:00:00", "NEW", "Anna", "040 1234567", "", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM order_items WHERE order_id = $1")).
			WithArgs(11).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
			WithArgs(11, 0, "p-1", "Cinnamon Bun", "2.5", 2, "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_history")).
			WithArgs(11, "Order placed", "NEW", "Admin", now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(31)))
		mock.ExpectCommit()

		saved, err := s.Save(newCtx(), o)
		require.NoError(t, err)
		assert.Equal(t, int64(11), saved.ID)
		assert.Equal(t, int64(31), saved.History[0].ID)
		assert.False(t, saved.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update of a deleted order", func(t *testing.T) {
		o := &order.Order{ID: 99, State: order.StateNew, DueDate: order.NewDate(2024, time.June, 10), DueTime: order.NewClock(8, 0)}

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := s.Save(newCtx(), o)
		assert.ErrorIs(t, err, crud.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteAndPickupLocations(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = $1")).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM pickup_locations ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Store").AddRow(int64(2), "Bakery"))

	require.NoError(t, s.Delete(newCtx(), &order.Order{ID: 4}))

	locations, err := s.ListPickupLocations(newCtx())
	require.NoError(t, err)
	assert.Equal(t, []order.PickupLocation{{ID: 1, Name: "Store"}, {ID: 2, Name: "Bakery"}}, locations)
	assert.NoError(t, mock.ExpectationsWereMet())
}
