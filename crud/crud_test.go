package crud

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"

	config "github.com/sing3demons/go-bakery-service/configs"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pastry struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type memRepo struct {
	rows   map[int64]pastry
	nextID int64
	err    error
}

func newMemRepo(rows ...pastry) *memRepo {
	r := &memRepo{rows: map[int64]pastry{}, nextID: 1}
	for _, p := range rows {
		r.rows[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *memRepo) FindByID(_ *router.Context, id int64) (*pastry, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memRepo) Save(_ *router.Context, p *pastry) (*pastry, error) {
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.rows[p.ID] = *p
	return p, nil
}

func (r *memRepo) Delete(_ *router.Context, p *pastry) error {
	delete(r.rows, p.ID)
	return nil
}

func (r *memRepo) Count(*router.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *memRepo) matching(filter string) []pastry {
	var out []pastry
	for _, p := range r.rows {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memRepo) FindAnyMatching(_ *router.Context, filter string, p Pageable) ([]pastry, error) {
	all := r.matching(filter)
	if p.Offset() >= len(all) {
		return nil, nil
	}
	end := min(p.Offset()+p.Size, len(all))
	return all[p.Offset():end], nil
}

func (r *memRepo) CountAnyMatching(_ *router.Context, filter string) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

type pastryService struct {
	FilterableBase[pastry, int64]
}

func (s pastryService) CreateNew(Actor) *pastry {
	return &pastry{Price: 100}
}

func (s pastryService) Save(ctx *router.Context, actor Actor, p *pastry) (*pastry, error) {
	if p.Name == "" {
		return nil, NewUserFriendlyError("Name is required")
	}
	return s.FilterableBase.Save(ctx, actor, p)
}

func testCtx() *router.Context {
	return router.NewTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
}

func TestBaseLoad(t *testing.T) {
	repo := newMemRepo(pastry{ID: 1, Name: "Cinnamon Bun"})
	svc := NewFilterableBase[pastry, int64](repo)

	p, err := svc.Load(testCtx(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Cinnamon Bun", p.Name)

	_, err = svc.Load(testCtx(), 9)
	assert.ErrorIs(t, err, ErrNotFound)

	repo.err = errors.New("connection refused")
	_, err = svc.Load(testCtx(), 1)
	assert.EqualError(t, err, "connection refused")
}

func TestBaseDelete(t *testing.T) {
	repo := newMemRepo(pastry{ID: 1, Name: "Croissant"})
	svc := NewFilterableBase[pastry, int64](repo)

	assert.ErrorIs(t, svc.Delete(testCtx(), Actor{}, 2), ErrNotFound)
	require.NoError(t, svc.Delete(testCtx(), Actor{}, 1))

	n, err := svc.Count(testCtx())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewPageable(t *testing.T) {
	tests := []struct {
		page, size int
		want       Pageable
	}{
		{page: 0, size: 0, want: Pageable{Page: 0, Size: DefaultPageSize}},
		{page: -1, size: 10, want: Pageable{Page: 0, Size: 10}},
		{page: 3, size: 500, want: Pageable{Page: 3, Size: MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.page, tt.size), func(t *testing.T) {
			assert.Equal(t, tt.want, NewPageable(tt.page, tt.size))
		})
	}

	assert.Equal(t, 60, NewPageable(3, 20).Offset())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("load order: %w", ErrNotFound)))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(fmt.Errorf("save: %w", NewUserFriendlyError("bad"))))
	assert.Equal(t, http.StatusBadRequest, StatusOf(ErrIDMismatch))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(ErrUnauthorized))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func newTestApp(t *testing.T, repo *memRepo) *router.App {
	t.Helper()

	nop := commonlog.NewNopLoggerService()
	app := router.NewApplication(config.NewConfig(), nop)
	app.LogDetail(nop)
	app.LogSummary(nop)

	h := NewHandler[pastry, int64](pastryService{NewFilterableBase[pastry, int64](repo)}, Options[pastry, int64]{
		Name: "pastries",
		ParseID: func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, 64)
		},
		IDOf: func(p *pastry) int64 { return p.ID },
		Actor: func(ctx *router.Context) (Actor, error) {
			if ctx.Header("x-user-email") == "" {
				return Actor{}, ErrUnauthorized
			}
			return Actor{Email: ctx.Header("x-user-email")}, nil
		},
	})
	h.Register(app)
	return app
}

func do(app *router.App, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set("x-user-email", "admin@bakery.test")

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, r)
	return rec
}

func TestHandler(t *testing.T) {
	repo := newMemRepo(
		pastry{ID: 1, Name: "Strawberry Bun", Price: 250},
		pastry{ID: 2, Name: "Blueberry Cheese Cake", Price: 400},
		pastry{ID: 3, Name: "Strawberry Tart", Price: 300},
	)
	app := newTestApp(t, repo)

	t.Run("list filters and pages", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/pastries?filter=straw&size=1&page=1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"content":[{"id":3,"name":"Strawberry Tart","price":300}],"number":1,"size":1,"total":2}`, rec.Body.String())
	})

	t.Run("new", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/pastries/new", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":0,"name":"","price":100}`, rec.Body.String())
	})

	t.Run("get missing", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/pastries/42", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get invalid id", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/pastries/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/pastries", `{"name":"Vanilla Cracker"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"id":4,"name":"Vanilla Cracker","price":100}`, rec.Body.String())
	})

	t.Run("create invalid", func(t *testing.T) {
		rec := do(app, http.MethodPost, "/pastries", `{"price":10}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"error":"Name is required"}`, rec.Body.String())
	})

	t.Run("update keeps omitted fields", func(t *testing.T) {
		rec := do(app, http.MethodPut, "/pastries/1", `{"price":275}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1,"name":"Strawberry Bun","price":275}`, rec.Body.String())
	})

	t.Run("update id mismatch", func(t *testing.T) {
		rec := do(app, http.MethodPut, "/pastries/1", `{"id":2}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := do(app, http.MethodDelete, "/pastries/2", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		_, ok := repo.rows[2]
		assert.False(t, ok)
	})

	t.Run("unknown actor", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodDelete, "/pastries/1", nil)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
