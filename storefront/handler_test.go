package storefront

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	config "github.com/sing3demons/go-bakery-service/configs"
	"github.com/sing3demons/go-bakery-service/crud"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorefrontApp(f *fakeFinder) (*router.App, *Sessions) {
	nop := commonlog.NewNopLoggerService()
	app := router.NewApplication(config.NewConfig(), nop)
	app.LogDetail(nop)
	app.LogSummary(nop)

	sessions := NewSessions(time.Hour, func() *Presenter { return newTestPresenter(f) })
	NewHandler(sessions, 2).Register(app)
	return app, sessions
}

func get(app *router.App, method, target, session string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, nil)
	if session != "" {
		r.Header.Set("x-session-id", session)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, r)
	return rec
}

func TestStorefrontHandler(t *testing.T) {
	app, sessions := newStorefrontApp(&fakeFinder{rows: scenarioRows()})

	t.Run("pages share one header chain per session", func(t *testing.T) {
		rec := get(app, http.MethodGet, "/storefront/orders?includePast=true", "s-1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "s-1", rec.Header().Get("x-session-id"))

		var page crud.Page[Card]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, int64(5), page.Total)
		require.Len(t, page.Content, 2)
		assert.Equal(t, &Header{Primary: "Recent"}, page.Content[0].Header)
		assert.Nil(t, page.Content[1].Header)

		rec = get(app, http.MethodGet, "/storefront/orders?includePast=true&page=1", "s-1")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Nil(t, page.Content[0].Header)
		assert.Equal(t, &Header{Primary: "June", Secondary: "2024"}, page.Content[1].Header)
	})

	t.Run("header lookup", func(t *testing.T) {
		rec := get(app, http.MethodGet, "/storefront/orders/4/header", "s-1")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"primary":"June","secondary":"2024"}`, rec.Body.String())

		rec = get(app, http.MethodGet, "/storefront/orders/2/header", "s-1")
		assert.Equal(t, "null", trimmed(rec))

		rec = get(app, http.MethodGet, "/storefront/orders/5/header", "s-1")
		assert.Equal(t, "null", trimmed(rec))

		rec = get(app, http.MethodGet, "/storefront/orders/1/header", "unknown")
		assert.Equal(t, "null", trimmed(rec))

		rec = get(app, http.MethodGet, "/storefront/orders/abc/header", "s-1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("filter change starts over", func(t *testing.T) {
		rec := get(app, http.MethodGet, "/storefront/orders", "s-1")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = get(app, http.MethodGet, "/storefront/orders/4/header", "s-1")
		assert.Equal(t, "null", trimmed(rec))
	})

	t.Run("bad toggle", func(t *testing.T) {
		rec := get(app, http.MethodGet, "/storefront/orders?includePast=maybe", "s-2")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("release", func(t *testing.T) {
		rec := get(app, http.MethodDelete, "/storefront/session", "s-1")
		assert.JSONEq(t, `{"released":true}`, rec.Body.String())

		_, ok := sessions.Lookup("s-1")
		assert.False(t, ok)
	})
}

func trimmed(rec *httptest.ResponseRecorder) string {
	return strings.TrimSpace(rec.Body.String())
}
