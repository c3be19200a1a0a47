package storefront

import (
	"sync"
	"time"

	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/order"
	"github.com/sing3demons/go-bakery-service/pkg/router"
)

// Presenter keeps the header chain of one storefront session in step with its data
// provider. A new filter resets the chain before the next page is read, and every
// page read is ingested by the chain.
type Presenter struct {
	mu       sync.Mutex
	provider *DataProvider
	chain    *HeaderChain
	now      func() time.Time
}

func NewPresenter(provider *DataProvider, chain *HeaderChain, now func() time.Time) *Presenter {
	if now == nil {
		now = time.Now
	}

	p := &Presenter{provider: provider, chain: chain, now: now}
	chain.Reset(false)
	provider.SetFilter(Filter{})
	provider.SetPageObserver(chain.Ingest)
	return p
}

func (p *Presenter) FilterChanged(text string, includePast bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.chain.Reset(includePast)
	p.provider.SetFilter(Filter{Text: text, IncludePast: includePast})
}

func (p *Presenter) Filter() Filter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.provider.Filter()
}

// HeaderByOrderID never fails. Rows not read yet, or not first in their group, have no header.
func (p *Presenter) HeaderByOrderID(id int64) (Header, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chain.Get(id)
}

// Page reads one page through the provider and renders it as cards.
func (p *Presenter) Page(ctx *router.Context, pageable crud.Pageable) (crud.Page[Card], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	summaries, err := p.provider.Fetch(ctx, pageable)
	if err != nil {
		return crud.Page[Card]{}, err
	}
	total, err := p.provider.Size(ctx)
	if err != nil {
		return crud.Page[Card]{}, err
	}

	today := order.DateOf(p.now())
	cards := make([]Card, 0, len(summaries))
	for _, s := range summaries {
		var header *Header
		if h, ok := p.chain.Get(s.ID); ok {
			header = &h
		}
		cards = append(cards, NewCard(s, today, header))
	}
	return crud.NewPage(cards, pageable, total), nil
}
