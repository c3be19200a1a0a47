package order_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/order"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	orders    map[int64]order.Order
	nextID    int64
	lastFrom  order.Date
	lastQuery order.Filter
}

func newMemStore(orders ...order.Order) *memStore {
	s := &memStore{orders: map[int64]order.Order{}, nextID: 1}
	for _, o := range orders {
		s.orders[o.ID] = o
		if o.ID >= s.nextID {
			s.nextID = o.ID + 1
		}
	}
	return s
}

func (s *memStore) FindByID(_ *router.Context, id int64) (*order.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	o.History = append([]order.HistoryItem(nil), o.History...)
	o.Items = append([]order.OrderItem(nil), o.Items...)
	return &o, nil
}

func (s *memStore) Save(_ *router.Context, o *order.Order) (*order.Order, error) {
	if o.ID == 0 {
		o.ID = s.nextID
		s.nextID++
	}
	for i := range o.History {
		if o.History[i].ID == 0 {
			o.History[i].ID = int64(i + 1)
		}
	}
	s.orders[o.ID] = *o
	return o, nil
}

func (s *memStore) Delete(_ *router.Context, o *order.Order) error {
	delete(s.orders, o.ID)
	return nil
}

func (s *memStore) Count(*router.Context) (int64, error) {
	return int64(len(s.orders)), nil
}

func (s *memStore) FindSummaries(_ *router.Context, f order.Filter, _ crud.Pageable) ([]order.Summary, error) {
	s.lastQuery = f
	var out []order.Summary
	for _, o := range s.orders {
		out = append(out, o.Summary())
	}
	return out, nil
}

func (s *memStore) CountSummaries(_ *router.Context, f order.Filter) (int64, error) {
	s.lastQuery = f
	return int64(len(s.orders)), nil
}

func (s *memStore) FindSummariesFrom(_ *router.Context, from order.Date) ([]order.Summary, error) {
	s.lastFrom = from
	return nil, nil
}

func (s *memStore) ListPickupLocations(*router.Context) ([]order.PickupLocation, error) {
	return []order.PickupLocation{{ID: 1, Name: "Store"}}, nil
}

type fakeCatalog map[string]decimal.Decimal

func (c fakeCatalog) Lookup(_ *router.Context, productID string) (string, decimal.Decimal, error) {
	price, ok := c[productID]
	if !ok {
		return "", decimal.Zero, crud.ErrNotFound
	}
	return "Product " + productID, price, nil
}

var (
	admin   = crud.Actor{ID: 1, Email: "admin@bakery.test", Name: "Admin"}
	fixedAt = time.Date(2024, time.June, 10, 9, 15, 0, 0, time.UTC)
)

func validOrder() *order.Order {
	o := order.NewOrder(admin, fixedAt)
	o.DueDate = order.NewDate(2024, time.June, 10)
	o.DueTime = order.NewClock(16, 0)
	o.Customer = order.Customer{FullName: "Anna Virtanen", PhoneNumber: "+358 40 1234567"}
	o.PickupLocation = order.PickupLocation{ID: 1}
	o.Items = []order.OrderItem{{ProductID: "p-1", Quantity: 2}}
	return o
}

func newService(store *memStore) *order.Service {
	catalog := fakeCatalog{"p-1": decimal.RequireFromString("2.50"), "p-2": decimal.RequireFromString("4")}
	return order.NewService(store, catalog).WithClock(func() time.Time { return fixedAt })
}

func TestCreateNew(t *testing.T) {
	o := newService(newMemStore()).CreateNew(admin)

	assert.Equal(t, order.StateNew, o.State)
	assert.Equal(t, order.NewDate(2024, time.June, 10), o.DueDate)
	assert.Equal(t, "16:00", o.DueTime.String())
	require.Len(t, o.History, 1)
	assert.Equal(t, order.HistoryItem{Message: "Order placed", NewState: order.StateNew, CreatedBy: "Admin", Timestamp: fixedAt}, o.History[0])
}

func TestSaveSnapshotsProducts(t *testing.T) {
	store := newMemStore()
	svc := newService(store)

	saved, err := svc.Save(newCtx(), admin, validOrder())
	require.NoError(t, err)

	assert.Equal(t, "Product p-1", saved.Items[0].ProductName)
	assert.True(t, decimal.RequireFromString("5").Equal(saved.TotalPrice()))

	o := validOrder()
	o.Items[0].ProductID = "p-404"
	_, err = svc.Save(newCtx(), admin, o)
	assert.EqualError(t, err, "Product p-404 does not exist")
	assert.Equal(t, 422, crud.StatusOf(err))
}

func TestChangeState(t *testing.T) {
	o := validOrder()
	o.ID = 5
	store := newMemStore(*o)
	svc := newService(store)

	changed, err := svc.ChangeState(newCtx(), admin, 5, order.StateReady)
	require.NoError(t, err)
	assert.Equal(t, order.StateReady, changed.State)
	require.Len(t, changed.History, 2)
	assert.Equal(t, "Order READY", changed.History[1].Message)
	assert.Equal(t, order.StateReady, changed.History[1].NewState)

	unchanged, err := svc.ChangeState(newCtx(), admin, 5, order.StateReady)
	require.NoError(t, err)
	assert.Len(t, unchanged.History, 2)

	_, err = svc.ChangeState(newCtx(), admin, 5, order.State("BAKED"))
	_, ok := crud.AsUserFriendly(err)
	assert.True(t, ok)

	_, err = svc.ChangeState(newCtx(), admin, 6, order.StateReady)
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	o := validOrder()
	o.ID = 2
	svc := newService(newMemStore(*o))

	commented, err := svc.AddComment(newCtx(), admin, 2, "  Customer called, picks up at 17  ")
	require.NoError(t, err)
	require.Len(t, commented.History, 2)
	assert.Equal(t, "Customer called, picks up at 17", commented.History[1].Message)
	assert.Equal(t, order.StateNew, commented.History[1].NewState)

	_, err = svc.AddComment(newCtx(), admin, 2, " ")
	assert.EqualError(t, err, "Comment cannot be empty")
}

func decodeJSON(body string) func(any) error {
	return func(v any) error { return json.Unmarshal([]byte(body), v) }
}

func TestSaveFrom(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		svc := newService(newMemStore())

		o, err := svc.SaveFrom(newCtx(), admin, nil, decodeJSON(`{
			"dueDate": "2024-06-12", "dueTime": "09:30",
			"customer": {"fullName": "Anna", "phoneNumber": "040 1234567"},
			"pickupLocation": {"id": 1},
			"items": [{"productId": "p-2", "quantity": 3}]
		}`))
		require.NoError(t, err)

		assert.Equal(t, int64(1), o.ID)
		assert.Equal(t, order.StateNew, o.State)
		assert.Len(t, o.History, 1)
		assert.Equal(t, "Product p-2", o.Items[0].ProductName)
	})

	t.Run("update keeps history and records state change", func(t *testing.T) {
		existing := validOrder()
		existing.ID = 3
		existing.History[0].ID = 1
		svc := newService(newMemStore(*existing))
		id := int64(3)

		o, err := svc.SaveFrom(newCtx(), admin, &id, decodeJSON(`{"state": "CONFIRMED", "history": [], "customer": {"fullName": "Anna V", "phoneNumber": "040 1234567"}}`))
		require.NoError(t, err)

		assert.Equal(t, "Anna V", o.Customer.FullName)
		assert.Equal(t, order.StateConfirmed, o.State)
		require.Len(t, o.History, 2)
		assert.Equal(t, "Order placed", o.History[0].Message)
		assert.Equal(t, "Order CONFIRMED", o.History[1].Message)
	})

	t.Run("update replaces items", func(t *testing.T) {
		existing := validOrder()
		existing.ID = 3
		existing.Items[0].Comment = "no nuts"
		svc := newService(newMemStore(*existing))
		id := int64(3)

		o, err := svc.SaveFrom(newCtx(), admin, &id, decodeJSON(`{"items": [{"productId": "p-2", "quantity": 1}]}`))
		require.NoError(t, err)

		require.Len(t, o.Items, 1)
		assert.Equal(t, "p-2", o.Items[0].ProductID)
		assert.Equal(t, 1, o.Items[0].Quantity)
		assert.Empty(t, o.Items[0].Comment)
	})

	t.Run("update without items keeps them", func(t *testing.T) {
		existing := validOrder()
		existing.ID = 3
		existing.Items[0].Comment = "no nuts"
		svc := newService(newMemStore(*existing))
		id := int64(3)

		o, err := svc.SaveFrom(newCtx(), admin, &id, decodeJSON(`{"customer": {"fullName": "Anna V", "phoneNumber": "040 1234567"}}`))
		require.NoError(t, err)

		require.Len(t, o.Items, 1)
		assert.Equal(t, "p-1", o.Items[0].ProductID)
		assert.Equal(t, "no nuts", o.Items[0].Comment)
	})

	t.Run("id mismatch", func(t *testing.T) {
		existing := validOrder()
		existing.ID = 3
		svc := newService(newMemStore(*existing))
		id := int64(3)

		_, err := svc.SaveFrom(newCtx(), admin, &id, decodeJSON(`{"id": 4}`))
		assert.ErrorIs(t, err, crud.ErrIDMismatch)
	})

	t.Run("bad body", func(t *testing.T) {
		svc := newService(newMemStore())

		_, err := svc.SaveFrom(newCtx(), admin, nil, func(any) error { return errors.New("unexpected EOF") })
		assert.ErrorIs(t, err, crud.ErrInvalidBody)
	})
}

func TestFindAnyMatching(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	after := order.NewDate(2024, time.June, 9)

	_, err := svc.FindAnyMatchingAfterDueDate(newCtx(), "anna", &after, crud.NewPageable(0, 10))
	require.NoError(t, err)
	assert.Equal(t, order.Filter{Text: "anna", After: &after}, store.lastQuery)

	_, err = svc.FindAnyMatchingStartingToday(newCtx())
	require.NoError(t, err)
	assert.Equal(t, order.NewDate(2024, time.June, 10), store.lastFrom)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*order.Order)
		want   string
	}{
		{name: "valid", modify: func(*order.Order) {}},
		{name: "due date", modify: func(o *order.Order) { o.DueDate = order.Date{} }, want: "Due date is required"},
		{name: "due time", modify: func(o *order.Order) { o.DueTime = order.Clock{} }, want: "Due time is required"},
		{name: "pickup location", modify: func(o *order.Order) { o.PickupLocation = order.PickupLocation{} }, want: "Pickup location is required"},
		{name: "customer name", modify: func(o *order.Order) { o.Customer.FullName = " " }, want: "Customer name is required"},
		{name: "phone", modify: func(o *order.Order) { o.Customer.PhoneNumber = "call me" }, want: "Customer phone number is invalid"},
		{name: "no items", modify: func(o *order.Order) { o.Items = nil }, want: "An order needs at least one item"},
		{name: "quantity", modify: func(o *order.Order) { o.Items[0].Quantity = 0 }, want: "Item 1 must have a quantity of at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			tt.modify(o)

			err := order.Validate(o)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.want)
		})
	}
}
