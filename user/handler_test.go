package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	config "github.com/sing3demons/go-bakery-service/configs"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserApp(svc *Service) *router.App {
	nop := commonlog.NewNopLoggerService()
	app := router.NewApplication(config.NewConfig(), nop)
	app.LogDetail(nop)
	app.LogSummary(nop)

	NewHandler(svc).Register(app)
	return app
}

func call(app *router.App, method, target, email, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if email != "" {
		r.Header.Set(HeaderUserEmail, email)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, r)
	return rec
}

func TestUserHandler(t *testing.T) {
	svc, _ := newTestService(adminUser, lockedUser, baristaBob)
	app := newUserApp(svc)

	t.Run("create never returns the password", func(t *testing.T) {
		rec := call(app, http.MethodPost, "/users", adminUser.Email,
			`{"email":"new@vaadin.com","firstName":"Ada","lastName":"Baker","role":"baker","password":"secret"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "PasswordHash")
		assert.Equal(t, "baker", body["role"])
	})

	t.Run("new defaults to barista", func(t *testing.T) {
		rec := call(app, http.MethodGet, "/users/new", adminUser.Email, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"role":"barista"`)
	})

	t.Run("unknown actor", func(t *testing.T) {
		rec := call(app, http.MethodGet, "/users/new", "ghost@vaadin.com", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("update locked user", func(t *testing.T) {
		rec := call(app, http.MethodPut, "/users/2", adminUser.Email, `{"id":2,"locked":false}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "User has been locked")
	})

	t.Run("delete self", func(t *testing.T) {
		rec := call(app, http.MethodDelete, "/users/1", adminUser.Email, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "You cannot delete your own account")
	})

	t.Run("delete", func(t *testing.T) {
		rec := call(app, http.MethodDelete, "/users/3", adminUser.Email, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := call(app, http.MethodGet, "/users/abc", adminUser.Email, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
