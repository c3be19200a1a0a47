package dashboard

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sing3demons/go-bakery-service/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %s", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestStoreCounts(t *testing.T) {
	s, mock := newTestStore(t)
	today := order.NewDate(2024, time.June, 10)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE due_date = $1")).
		WithArgs("2024-06-10").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE due_date = $1 AND state = ANY($2)")).
		WithArgs("2024-06-10", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE state = $1")).
		WithArgs("NEW").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	n, err := s.CountByDueDate(testCtx(), today)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = s.CountByDueDateAndStates(testCtx(), today, NotAvailableStates)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = s.CountByState(testCtx(), order.StateNew)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCountPerMonth(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("EXTRACT(MONTH FROM due_date)::int AS m, COUNT(*) FROM orders")).
		WithArgs("DELIVERED", 2024).
		WillReturnRows(sqlmock.NewRows([]string{"m", "count"}).AddRow(1, int64(10)).AddRow(3, int64(2)))

	rows, err := s.CountPerMonth(testCtx(), order.StateDelivered, 2024)
	require.NoError(t, err)
	assert.Equal(t, []Row[int64]{{Key: 1, Value: 10}, {Key: 3, Value: 2}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSumPerMonth(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SUM(oi.quantity * oi.unit_price)")).
		WithArgs("DELIVERED", 2022, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"y", "m", "sum"}).
			AddRow(2024, 5, "120.50").
			AddRow(2023, 12, "80.00"))

	sales, err := s.SumPerMonth(testCtx(), order.StateDelivered, 2022, 2024)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, 2024, sales[0].Year)
	assert.Equal(t, "120.5", sales[0].Total.String())
	assert.Equal(t, 12, sales[1].Month)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCountPerProduct(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY oi.product_id ORDER BY oi.product_id")).
		WithArgs("DELIVERED", 2024, 6).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "sum"}))

	products, err := s.CountPerProduct(testCtx(), order.StateDelivered, 2024, 6)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}
