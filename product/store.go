package product

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/mongo"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "products"

var ErrDuplicateName = crud.NewUserFriendlyError("There is already a product with that name. Please select a unique name for the product.")

type Store interface {
	crud.FilterableRepository[Product, string]
	EnsureIndexes(ctx context.Context) error
}

type store struct {
	col *driver.Collection
	now func() time.Time
}

func NewStore(col *driver.Collection) Store {
	return &store{col: col, now: time.Now}
}

func (s *store) database() string {
	return s.col.Database().Name()
}

// EnsureIndexes creates the unique index on the product name.
func (s *store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, driver.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	return err
}

func (s *store) FindByID(ctx *router.Context, id string) (*Product, error) {
	cmd := "find_product_by_id"
	filter := bson.M{"_id": id}
	op := mongo.Begin(ctx.Log, s.database(), cmd, logAction.DB_READ, mongo.Request{Collection: collection, Method: "findOne", Query: filter})

	var p Product
	err := s.col.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, driver.ErrNoDocuments) {
		op.Done(err, nil)
		return nil, nil
	}
	if err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, p)
	return &p, nil
}

// Save inserts products without an id under a new UUIDv7 and replaces the others.
func (s *store) Save(ctx *router.Context, p *Product) (*Product, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	p.UpdatedAt = now

	if p.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		p.ID = id.String()
		p.CreatedAt = now

		cmd := "create_product"
		op := mongo.Begin(ctx.Log, s.database(), cmd, logAction.DB_CREATE, mongo.Request{Collection: collection, Method: "insertOne", Document: p})
		result, err := s.col.InsertOne(ctx, p)
		if err != nil {
			p.ID = ""
			return nil, duplicate(op.Done(err, nil))
		}
		op.Done(nil, result)
		return p, nil
	}

	cmd := "update_product"
	filter := bson.M{"_id": p.ID}
	op := mongo.Begin(ctx.Log, s.database(), cmd, logAction.DB_UPDATE, mongo.Request{Collection: collection, Method: "replaceOne", Query: filter, Document: p})
	result, err := s.col.ReplaceOne(ctx, filter, p)
	if err != nil {
		return nil, duplicate(op.Done(err, nil))
	}
	op.Done(nil, result)

	if result.MatchedCount == 0 {
		return nil, crud.ErrNotFound
	}
	return p, nil
}

func duplicate(err error) error {
	if driver.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	return err
}

func (s *store) Delete(ctx *router.Context, p *Product) error {
	cmd := "delete_product"
	filter := bson.M{"_id": p.ID}
	op := mongo.Begin(ctx.Log, s.database(), cmd, logAction.DB_DELETE, mongo.Request{Collection: collection, Method: "deleteOne", Query: filter})

	result, err := s.col.DeleteOne(ctx, filter)
	if err != nil {
		return op.Done(err, nil)
	}
	op.Done(nil, result)
	return nil
}

func (s *store) Count(ctx *router.Context) (int64, error) {
	return s.count(ctx, "count_products", bson.M{})
}

func nameFilter(text string) bson.M {
	if text == "" {
		return bson.M{}
	}
	return bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}}
}

// FindAnyMatching returns products whose name contains filter, ignoring case, sorted by name.
func (s *store) FindAnyMatching(ctx *router.Context, filter string, p crud.Pageable) ([]Product, error) {
	cmd := "find_products"
	query := nameFilter(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Size))
	op := mongo.Begin(ctx.Log, s.database(), cmd, logAction.DB_READ, mongo.Request{
		Collection: collection,
		Method:     "find",
		Query:      query,
		Options:    map[string]any{"sort": map[string]int{"name": 1}, "skip": p.Offset(), "limit": p.Size},
	})

	cur, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, op.Done(err, nil)
	}

	products := []Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, map[string]any{"rows_count": len(products)})
	return products, nil
}

func (s *store) CountAnyMatching(ctx *router.Context, filter string) (int64, error) {
	return s.count(ctx, "count_matching_products", nameFilter(filter))
}

func (s *store) count(ctx *router.Context, cmd string, query bson.M) (int64, error) {
	op := mongo.Begin(ctx.Log, s.database(), cmd, logAction.DB_READ, mongo.Request{Collection: collection, Method: "countDocuments", Query: query})

	n, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return 0, op.Done(err, nil)
	}
	op.Done(nil, map[string]any{"count": n})
	return n, nil
}
