package storefront

import (
	"strconv"
	"time"

	"github.com/sing3demons/go-bakery-service/order"
)

// Header is the label shown above the first card of a group.
type Header struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

func headerFor(key groupKey) Header {
	switch key.bucket {
	case BucketRecent:
		return Header{Primary: "Recent"}
	case BucketThisWeek:
		return Header{Primary: "This week"}
	default:
		return Header{Primary: key.month.String(), Secondary: strconv.Itoa(key.year)}
	}
}

// HeaderChain assigns a header to the first order of every group in a stream of
// summaries sorted by due date, due time and id. It is not safe for concurrent use.
type HeaderChain struct {
	now         func() time.Time
	includePast bool
	last        groupKey
	started     bool

	// headers holds every ingested id. A nil value means the order has no header.
	headers map[int64]*Header
}

func NewHeaderChain(now func() time.Time) *HeaderChain {
	if now == nil {
		now = time.Now
	}
	return &HeaderChain{now: now, headers: map[int64]*Header{}}
}

// Reset forgets every assigned header and starts a new chain.
func (c *HeaderChain) Reset(includePast bool) {
	c.includePast = includePast
	c.last = groupKey{}
	c.started = false
	c.headers = map[int64]*Header{}
}

// Ingest walks one page in display order. Ids seen since the last Reset are skipped.
func (c *HeaderChain) Ingest(orders []order.Summary) {
	if len(orders) == 0 {
		return
	}

	today := order.DateOf(c.now())
	for _, o := range orders {
		if _, seen := c.headers[o.ID]; seen {
			continue
		}

		key := keyOf(o.DueDate, Classify(o.DueDate, today, c.includePast))
		if c.started && key == c.last {
			c.headers[o.ID] = nil
			continue
		}

		h := headerFor(key)
		c.headers[o.ID] = &h
		c.last = key
		c.started = true
	}
}

// Get returns the header assigned to id. ok is false for unknown ids and for orders
// that are not the first of their group.
func (c *HeaderChain) Get(id int64) (h Header, ok bool) {
	p := c.headers[id]
	if p == nil {
		return Header{}, false
	}
	return *p, true
}
