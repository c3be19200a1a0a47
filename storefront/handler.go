package storefront

import (
	"net/http"
	"strconv"

	"github.com/sing3demons/go-bakery-service/crud"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	gokpHTTP "github.com/sing3demons/go-bakery-service/pkg/http"
	"github.com/sing3demons/go-bakery-service/pkg/router"
)

type Handler struct {
	sessions *Sessions
	pageSize int
}

func NewHandler(sessions *Sessions, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = crud.DefaultPageSize
	}
	return &Handler{sessions: sessions, pageSize: pageSize}
}

func (h *Handler) Register(r crud.Routes) {
	r.Get("/storefront/orders", h.Orders)
	r.Get("/storefront/orders/{id}/header", h.Header)
	r.Delete("/storefront/session", h.Release)
}

// Orders returns one page of order cards for the caller's session. A filter that
// differs from the session's current one starts a new header chain.
func (h *Handler) Orders(ctx *router.Context) error {
	cmd := "storefront_orders"

	includePast := false
	if v := ctx.Param("includePast"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			ctx.Log.SetSummary(commonlog.LogEventTag{
				Node:        "client",
				Command:     cmd,
				Code:        "40000",
				Description: err.Error(),
			})
			return ctx.Error(http.StatusBadRequest, "includePast must be true or false")
		}
		includePast = b
	}

	sessionID := ctx.SessionId()
	ctx.ResponseWriter.Header().Set(gokpHTTP.HeaderSessionID, sessionID)

	presenter := h.sessions.Presenter(sessionID)
	filter := Filter{Text: ctx.Param("filter"), IncludePast: includePast}
	if filter != presenter.Filter() {
		presenter.FilterChanged(filter.Text, filter.IncludePast)
		ctx.Log.Info(logAction.APP_LOGIC("filter_changed", cmd), map[string]any{
			"session_id": sessionID,
			"filter":     filter,
		})
	}

	page, err := presenter.Page(ctx, crud.PageableFrom(ctx, h.pageSize))
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	ctx.Log.SetSummary(commonlog.NewEventTag("client", cmd))
	return ctx.JSON(http.StatusOK, page)
}

// Header returns the header of an order card, or null when it has none.
func (h *Handler) Header(ctx *router.Context) error {
	id, err := strconv.ParseInt(ctx.PathParam("id"), 10, 64)
	if err != nil {
		return ctx.Error(http.StatusBadRequest, "invalid order id")
	}

	presenter, ok := h.sessions.Lookup(ctx.SessionId())
	if !ok {
		return ctx.JSON(http.StatusOK, nil)
	}

	header, ok := presenter.HeaderByOrderID(id)
	if !ok {
		return ctx.JSON(http.StatusOK, nil)
	}
	return ctx.JSON(http.StatusOK, header)
}

func (h *Handler) Release(ctx *router.Context) error {
	released := h.sessions.Release(ctx.SessionId())
	return ctx.JSON(http.StatusOK, map[string]bool{"released": released})
}
