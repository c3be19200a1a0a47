package crud

import "github.com/sing3demons/go-bakery-service/pkg/router"

// Actor is the user performing an operation.
type Actor struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Repository is the persistence contract of an entity. FindByID returns nil, nil when
// the entity does not exist.
type Repository[T any, ID comparable] interface {
	FindByID(ctx *router.Context, id ID) (*T, error)
	Save(ctx *router.Context, entity *T) (*T, error)
	Delete(ctx *router.Context, entity *T) error
	Count(ctx *router.Context) (int64, error)
}

// FilterableRepository adds text filtering. An empty filter matches everything.
type FilterableRepository[T any, ID comparable] interface {
	Repository[T, ID]
	FindAnyMatching(ctx *router.Context, filter string, p Pageable) ([]T, error)
	CountAnyMatching(ctx *router.Context, filter string) (int64, error)
}

type Service[T any, ID comparable] interface {
	Load(ctx *router.Context, id ID) (*T, error)
	Save(ctx *router.Context, actor Actor, entity *T) (*T, error)
	Delete(ctx *router.Context, actor Actor, id ID) error
	Count(ctx *router.Context) (int64, error)
	CreateNew(actor Actor) *T
}

type FilterableService[T any, ID comparable] interface {
	Service[T, ID]
	FindAnyMatching(ctx *router.Context, filter string, p Pageable) ([]T, error)
	CountAnyMatching(ctx *router.Context, filter string) (int64, error)
}

// Base implements the Service operations that only need the repository.
type Base[T any, ID comparable] struct {
	Repo Repository[T, ID]
}

func (b Base[T, ID]) Load(ctx *router.Context, id ID) (*T, error) {
	entity, err := b.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrNotFound
	}
	return entity, nil
}

func (b Base[T, ID]) Save(ctx *router.Context, _ Actor, entity *T) (*T, error) {
	return b.Repo.Save(ctx, entity)
}

func (b Base[T, ID]) Delete(ctx *router.Context, _ Actor, id ID) error {
	entity, err := b.Load(ctx, id)
	if err != nil {
		return err
	}
	return b.Repo.Delete(ctx, entity)
}

func (b Base[T, ID]) Count(ctx *router.Context) (int64, error) {
	return b.Repo.Count(ctx)
}

// FilterableBase adds the filter operations to Base.
type FilterableBase[T any, ID comparable] struct {
	Base[T, ID]
	filterable FilterableRepository[T, ID]
}

func NewFilterableBase[T any, ID comparable](repo FilterableRepository[T, ID]) FilterableBase[T, ID] {
	return FilterableBase[T, ID]{Base: Base[T, ID]{Repo: repo}, filterable: repo}
}

func (b FilterableBase[T, ID]) FindAnyMatching(ctx *router.Context, filter string, p Pageable) ([]T, error) {
	return b.filterable.FindAnyMatching(ctx, filter, p)
}

func (b FilterableBase[T, ID]) CountAnyMatching(ctx *router.Context, filter string) (int64, error) {
	return b.filterable.CountAnyMatching(ctx, filter)
}
