package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/order"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	"github.com/sing3demons/go-bakery-service/pkg/router"
)

type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Register(r crud.Routes) {
	r.Get("/dashboard", h.Dashboard)
}

// Dashboard serves GET /dashboard?year=&month=. Missing values default to the current month.
func (h *Handler) Dashboard(ctx *router.Context) error {
	now := h.now()
	year, month := now.Year(), int(now.Month())

	if v := ctx.Param("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return ctx.Error(http.StatusBadRequest, "year must be a number")
		}
		year = y
	}
	if v := ctx.Param("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return ctx.Error(http.StatusBadRequest, "month must be a number")
		}
		month = m
	}

	data, err := h.svc.Data(ctx, year, month)
	if err != nil {
		return crud.RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, data)
}

type orderSavedMessage struct {
	Header router.Header    `json:"header"`
	Body   order.SavedEvent `json:"body"`
}

// OrderSaved consumes order_saved events and drops the cached dashboards. A failed
// invalidation is returned so the message is not committed.
func (h *Handler) OrderSaved(ctx *router.Context) error {
	var msg orderSavedMessage
	if err := ctx.Bind(&msg); err != nil {
		ctx.Log.SetSummary(commonlog.LogEventTag{
			Node:        "consuming",
			Command:     order.TopicOrderSaved,
			Code:        "40000",
			Description: err.Error(),
		}).Error(logAction.CONSUMING(order.TopicOrderSaved, ""), err.Error())
		return nil
	}

	ctx.Log.SetSummary(commonlog.NewEventTag("consuming", order.TopicOrderSaved)).
		Info(logAction.CONSUMING(order.TopicOrderSaved, ""), msg)

	_, err := h.svc.Invalidate(ctx)
	return err
}
