package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sing3demons/go-bakery-service/cache"
	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/order"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	"github.com/sing3demons/go-bakery-service/pkg/router"
)

const (
	cachePrefix     = "dashboard:"
	DefaultCacheTTL = 5 * time.Minute
)

// Cache stores rendered dashboards. cache.Cache implements it on redis.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

func cacheKey(year, month int) string {
	return fmt.Sprintf("%s%d:%02d", cachePrefix, year, month)
}

type Service struct {
	store Store
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewService returns the dashboard service. c may be nil to disable caching.
func NewService(store Store, c Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{store: store, cache: c, ttl: ttl, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Data returns the dashboard of year and month, from the cache when possible.
func (s *Service) Data(ctx *router.Context, year, month int) (*Data, error) {
	if month < 1 || month > 12 {
		return nil, crud.NewUserFriendlyError("Month must be between 1 and 12")
	}

	key := cacheKey(year, month)
	if s.cache != nil {
		var cached Data
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			ctx.Log.SetSummary(commonlog.NewEventTag("redis", "get_dashboard")).Info(logAction.CACHE("hit", key), nil)
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logCacheError(ctx, "get_dashboard", key, err)
		}
	}

	data, err := s.build(ctx, year, month)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logCacheError(ctx, "set_dashboard", key, err)
		}
	}
	return data, nil
}

func (s *Service) build(ctx *router.Context, year, month int) (*Data, error) {
	stats, err := s.deliveryStats(ctx)
	if err != nil {
		return nil, err
	}

	perDay, err := s.store.CountPerDay(ctx, order.StateDelivered, year, month)
	if err != nil {
		return nil, err
	}
	perMonth, err := s.store.CountPerMonth(ctx, order.StateDelivered, year)
	if err != nil {
		return nil, err
	}
	sales, err := s.store.SumPerMonth(ctx, order.StateDelivered, year-SalesYears+1, year)
	if err != nil {
		return nil, err
	}
	products, err := s.store.CountPerProduct(ctx, order.StateDelivered, year, month)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []ProductDelivery{}
	}

	return &Data{
		Year:                year,
		Month:               month,
		DeliveryStats:       stats,
		DeliveriesThisMonth: Fill(daysIn(year, month), perDay),
		DeliveriesThisYear:  Fill(12, perMonth),
		SalesPerMonth:       salesPerMonth(year, month, sales),
		ProductDeliveries:   products,
	}, nil
}

func (s *Service) deliveryStats(ctx *router.Context) (DeliveryStats, error) {
	var (
		stats DeliveryStats
		err   error
	)
	today := order.DateOf(s.now())

	if stats.DueToday, err = s.store.CountByDueDate(ctx, today); err != nil {
		return stats, err
	}
	if stats.DueTomorrow, err = s.store.CountByDueDate(ctx, today.AddDays(1)); err != nil {
		return stats, err
	}
	if stats.DeliveredToday, err = s.store.CountByDueDateAndStates(ctx, today, []order.State{order.StateDelivered}); err != nil {
		return stats, err
	}
	if stats.NotAvailableToday, err = s.store.CountByDueDateAndStates(ctx, today, NotAvailableStates); err != nil {
		return stats, err
	}
	if stats.NewOrders, err = s.store.CountByState(ctx, order.StateNew); err != nil {
		return stats, err
	}
	return stats, nil
}

// salesPerMonth lays the sales out as [years back][month]. The requested month of the
// requested year is left empty because it is still incomplete.
func salesPerMonth(year, month int, sales []MonthlySales) [][]*decimal.Decimal {
	rows := make([][]Row[decimal.Decimal], SalesYears)
	for _, m := range sales {
		back := year - m.Year
		if back < 0 || back >= SalesYears || (back == 0 && m.Month == month) {
			continue
		}
		rows[back] = append(rows[back], Row[decimal.Decimal]{Key: m.Month, Value: m.Total})
	}

	out := make([][]*decimal.Decimal, SalesYears)
	for i := range rows {
		out[i] = Fill(12, rows[i])
	}
	return out
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Invalidate drops every cached dashboard.
func (s *Service) Invalidate(ctx *router.Context) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}

	n, err := s.cache.DeletePrefix(ctx, cachePrefix)
	if err != nil {
		s.logCacheError(ctx, "invalidate_dashboard", cachePrefix, err)
		return 0, err
	}
	ctx.Log.SetSummary(commonlog.NewEventTag("redis", "invalidate_dashboard")).Info(logAction.CACHE("invalidate", cachePrefix), map[string]any{"deleted": n})
	return n, nil
}

func (s *Service) logCacheError(ctx *router.Context, command, key string, err error) {
	tag := commonlog.NewEventTag("redis", command)
	ctx.Log.SetSummary(tag.Update("50000", err.Error())).Error(logAction.CACHE(command, key), err.Error())
}
