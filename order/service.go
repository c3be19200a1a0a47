package order

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/pkg/router"
)

// Catalog looks up the current name and price of a product.
type Catalog interface {
	Lookup(ctx *router.Context, productID string) (name string, price decimal.Decimal, err error)
}

var phonePattern = regexp.MustCompile(`^(\+\d+)?([ -]?\d+){4,14}$`)

type Service struct {
	crud.Base[Order, int64]
	store   Store
	catalog Catalog
	now     func() time.Time
}

func NewService(store Store, catalog Catalog) *Service {
	return &Service{
		Base:    crud.Base[Order, int64]{Repo: store},
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for due dates and history timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateNew returns an unsaved order due today at 16:00.
func (s *Service) CreateNew(actor crud.Actor) *Order {
	now := s.now()
	o := NewOrder(actor, now)
	o.DueDate = DateOf(now)
	o.DueTime = NewClock(16, 0)
	return o
}

// Save validates o, refreshes the product snapshot of its items and stores it.
func (s *Service) Save(ctx *router.Context, _ crud.Actor, o *Order) (*Order, error) {
	if err := s.snapshotProducts(ctx, o); err != nil {
		return nil, err
	}
	if err := Validate(o); err != nil {
		return nil, err
	}
	return s.store.Save(ctx, o)
}

// SaveOrder loads the order with id, or starts a new one when id is nil, lets fill
// modify it and saves the result.
func (s *Service) SaveOrder(ctx *router.Context, actor crud.Actor, id *int64, fill func(crud.Actor, *Order) error) (*Order, error) {
	var (
		o   *Order
		err error
	)

	if id == nil {
		o = s.CreateNew(actor)
	} else if o, err = s.Load(ctx, *id); err != nil {
		return nil, err
	}

	if err := fill(actor, o); err != nil {
		return nil, err
	}
	return s.Save(ctx, actor, o)
}

// SaveFrom is SaveOrder with a fill that decodes a client document onto the order.
// The id and history of the stored order are kept, and a state change in the document
// is applied through ChangeState.
func (s *Service) SaveFrom(ctx *router.Context, actor crud.Actor, id *int64, decode func(any) error) (*Order, error) {
	return s.SaveOrder(ctx, actor, id, func(actor crud.Actor, o *Order) error {
		origID, state := o.ID, o.State
		history := append([]HistoryItem(nil), o.History...)

		// Items in the document replace the stored list instead of merging into it.
		items := o.Items
		o.Items = nil
		if err := decode(o); err != nil {
			return fmt.Errorf("%w: %v", crud.ErrInvalidBody, err)
		}
		if o.Items == nil {
			o.Items = items
		}
		if o.ID != origID {
			return crud.ErrIDMismatch
		}

		requested := o.State
		o.History, o.State = history, state
		if requested != "" {
			o.ChangeState(actor, requested, s.now())
		}
		return nil
	})
}

func (s *Service) ChangeState(ctx *router.Context, actor crud.Actor, id int64, state State) (*Order, error) {
	if !state.Valid() {
		return nil, crud.NewUserFriendlyError("Unknown order state %s", state)
	}

	return s.SaveOrder(ctx, actor, &id, func(actor crud.Actor, o *Order) error {
		o.ChangeState(actor, state, s.now())
		return nil
	})
}

func (s *Service) AddComment(ctx *router.Context, actor crud.Actor, id int64, comment string) (*Order, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, crud.NewUserFriendlyError("Comment cannot be empty")
	}

	o, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	o.AddHistoryItem(actor, comment, s.now())
	return s.store.Save(ctx, o)
}

func (s *Service) FindAnyMatchingAfterDueDate(ctx *router.Context, filter string, after *Date, p crud.Pageable) ([]Summary, error) {
	return s.store.FindSummaries(ctx, Filter{Text: filter, After: after}, p)
}

func (s *Service) CountAnyMatchingAfterDueDate(ctx *router.Context, filter string, after *Date) (int64, error) {
	return s.store.CountSummaries(ctx, Filter{Text: filter, After: after})
}

// FindAnyMatchingStartingToday returns every order due today or later.
func (s *Service) FindAnyMatchingStartingToday(ctx *router.Context) ([]Summary, error) {
	return s.store.FindSummariesFrom(ctx, DateOf(s.now()))
}

func (s *Service) PickupLocations(ctx *router.Context) ([]PickupLocation, error) {
	return s.store.ListPickupLocations(ctx)
}

func (s *Service) snapshotProducts(ctx *router.Context, o *Order) error {
	for i := range o.Items {
		item := &o.Items[i]
		if item.ProductID == "" {
			continue
		}

		name, price, err := s.catalog.Lookup(ctx, item.ProductID)
		if errors.Is(err, crud.ErrNotFound) {
			return crud.NewUserFriendlyError("Product %s does not exist", item.ProductID)
		}
		if err != nil {
			return fmt.Errorf("lookup product %s: %w", item.ProductID, err)
		}

		item.ProductName = name
		item.UnitPrice = price
	}
	return nil
}

// Validate checks the fields an order needs before it can be stored.
func Validate(o *Order) error {
	switch {
	case o.DueDate.IsZero():
		return crud.NewUserFriendlyError("Due date is required")
	case o.DueTime.IsZero():
		return crud.NewUserFriendlyError("Due time is required")
	case o.PickupLocation.ID == 0:
		return crud.NewUserFriendlyError("Pickup location is required")
	case !o.State.Valid():
		return crud.NewUserFriendlyError("Order status is required")
	case strings.TrimSpace(o.Customer.FullName) == "":
		return crud.NewUserFriendlyError("Customer name is required")
	case len(o.Customer.FullName) > 255:
		return crud.NewUserFriendlyError("Customer name must be at most 255 characters")
	case !phonePattern.MatchString(o.Customer.PhoneNumber):
		return crud.NewUserFriendlyError("Customer phone number is invalid")
	case len(o.Items) == 0:
		return crud.NewUserFriendlyError("An order needs at least one item")
	}

	for i, item := range o.Items {
		if item.ProductID == "" {
			return crud.NewUserFriendlyError("Item %d has no product", i+1)
		}
		if item.Quantity < 1 {
			return crud.NewUserFriendlyError("Item %d must have a quantity of at least 1", i+1)
		}
	}
	return nil
}
