package product

import "github.com/sing3demons/go-bakery-service/crud"

func NewHandler(svc *Service, actor crud.ActorResolver) *crud.Handler[Product, string] {
	return crud.NewHandler[Product, string](svc, crud.Options[Product, string]{
		Name:    "products",
		ParseID: func(s string) (string, error) { return s, nil },
		IDOf:    func(p *Product) string { return p.ID },
		Actor:   actor,
	})
}
