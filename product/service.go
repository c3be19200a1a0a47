package product

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/pkg/router"
)

type Service struct {
	crud.FilterableBase[Product, string]
	store Store
}

func NewService(store Store) *Service {
	return &Service{
		FilterableBase: crud.NewFilterableBase[Product, string](store),
		store:          store,
	}
}

func (s *Service) CreateNew(_ crud.Actor) *Product {
	return &Product{}
}

func (s *Service) Save(ctx *router.Context, _ crud.Actor, p *Product) (*Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := Validate(p); err != nil {
		return nil, err
	}
	return s.store.Save(ctx, p)
}

func Validate(p *Product) error {
	switch {
	case p.Name == "":
		return crud.NewUserFriendlyError("Name is required")
	case len(p.Name) > MaxNameLength:
		return crud.NewUserFriendlyError("Name must be at most %d characters", MaxNameLength)
	case p.Price < 0 || p.Price > MaxPrice:
		return crud.NewUserFriendlyError("Price must be between 0 and %d", MaxPrice)
	}
	return nil
}

// Lookup returns the current name and price of a product for order items.
func (s *Service) Lookup(ctx *router.Context, id string) (string, decimal.Decimal, error) {
	p, err := s.Load(ctx, id)
	if err != nil {
		return "", decimal.Zero, err
	}
	return p.Name, p.PriceDecimal(), nil
}
