package storefront

import (
	"time"

	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/order"
	"github.com/sing3demons/go-bakery-service/pkg/router"
)

// Filter is what the storefront search box and the "show past orders" toggle select.
type Filter struct {
	Text        string `json:"text"`
	IncludePast bool   `json:"includePast"`
}

// PageSource returns summaries sorted ascending by due date, due time and id.
type PageSource interface {
	Fetch(ctx *router.Context, f Filter, p crud.Pageable) ([]order.Summary, error)
	Count(ctx *router.Context, f Filter) (int64, error)
}

// PageObserver receives every page the provider reads.
type PageObserver func(page []order.Summary)

// DataProvider reads pages for the current filter and reports each one to its observer.
type DataProvider struct {
	source   PageSource
	filter   Filter
	observer PageObserver
}

func NewDataProvider(source PageSource) *DataProvider {
	return &DataProvider{source: source}
}

func (d *DataProvider) SetFilter(f Filter) {
	d.filter = f
}

func (d *DataProvider) Filter() Filter {
	return d.filter
}

func (d *DataProvider) SetPageObserver(fn PageObserver) {
	d.observer = fn
}

func (d *DataProvider) Fetch(ctx *router.Context, p crud.Pageable) ([]order.Summary, error) {
	page, err := d.source.Fetch(ctx, d.filter, p)
	if err != nil {
		return nil, err
	}
	if d.observer != nil {
		d.observer(page)
	}
	return page, nil
}

func (d *DataProvider) Size(ctx *router.Context) (int64, error) {
	return d.source.Count(ctx, d.filter)
}

// OrderFinder is the part of order.Service the storefront reads from.
type OrderFinder interface {
	FindAnyMatchingAfterDueDate(ctx *router.Context, filter string, after *order.Date, p crud.Pageable) ([]order.Summary, error)
	CountAnyMatchingAfterDueDate(ctx *router.Context, filter string, after *order.Date) (int64, error)
}

// OrderSource is the PageSource backed by the order service. Without past orders it
// keeps orders due after yesterday.
type OrderSource struct {
	orders OrderFinder
	now    func() time.Time
}

func NewOrderSource(orders OrderFinder, now func() time.Time) *OrderSource {
	if now == nil {
		now = time.Now
	}
	return &OrderSource{orders: orders, now: now}
}

func (s *OrderSource) Fetch(ctx *router.Context, f Filter, p crud.Pageable) ([]order.Summary, error) {
	return s.orders.FindAnyMatchingAfterDueDate(ctx, f.Text, s.after(f), p)
}

func (s *OrderSource) Count(ctx *router.Context, f Filter) (int64, error) {
	return s.orders.CountAnyMatchingAfterDueDate(ctx, f.Text, s.after(f))
}

func (s *OrderSource) after(f Filter) *order.Date {
	if f.IncludePast {
		return nil
	}
	yesterday := order.DateOf(s.now()).AddDays(-1)
	return &yesterday
}
