package order

import (
	"net/http"
	"strconv"

	"github.com/sing3demons/go-bakery-service/crud"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	"github.com/sing3demons/go-bakery-service/pkg/router"
)

type Handler struct {
	svc   *Service
	actor crud.ActorResolver
}

func NewHandler(svc *Service, actor crud.ActorResolver) *Handler {
	return &Handler{svc: svc, actor: actor}
}

func (h *Handler) Register(r crud.Routes) {
	r.Get("/orders", h.List)
	r.Get("/orders/new", h.New)
	r.Post("/orders", h.Create)
	r.Get("/orders/{id}", h.Get)
	r.Put("/orders/{id}", h.Update)
	r.Delete("/orders/{id}", h.Delete)
	r.Put("/orders/{id}/state", h.ChangeState)
	r.Post("/orders/{id}/comments", h.AddComment)
	r.Get("/pickup-locations", h.PickupLocations)
}

// List returns order summaries. after=YYYY-MM-DD keeps orders due strictly after that day.
func (h *Handler) List(ctx *router.Context) error {
	var after *Date
	if v := ctx.Param("after"); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return ctx.Error(http.StatusBadRequest, "after must be a date (YYYY-MM-DD)")
		}
		after = &d
	}

	filter := ctx.Param("filter")
	p := crud.PageableFrom(ctx, crud.DefaultPageSize)

	summaries, err := h.svc.FindAnyMatchingAfterDueDate(ctx, filter, after, p)
	if err != nil {
		return crud.RespondError(ctx, err)
	}
	total, err := h.svc.CountAnyMatchingAfterDueDate(ctx, filter, after)
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, crud.NewPage(summaries, p, total))
}

func (h *Handler) New(ctx *router.Context) error {
	actor, err := h.actor(ctx)
	if err != nil {
		return crud.RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, h.svc.CreateNew(actor))
}

func (h *Handler) Get(ctx *router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return ctx.Error(http.StatusBadRequest, "invalid order id")
	}

	o, err := h.svc.Load(ctx, id)
	if err != nil {
		return crud.RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, o)
}

func (h *Handler) Create(ctx *router.Context) error {
	actor, err := h.actor(ctx)
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	o, err := h.svc.SaveFrom(ctx, actor, nil, ctx.Bind)
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	h.publish(ctx, o)
	return ctx.JSON(http.StatusCreated, o)
}

func (h *Handler) Update(ctx *router.Context) error {
	actor, err := h.actor(ctx)
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	id, err := pathID(ctx)
	if err != nil {
		return ctx.Error(http.StatusBadRequest, "invalid order id")
	}

	o, err := h.svc.SaveFrom(ctx, actor, &id, ctx.Bind)
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	h.publish(ctx, o)
	return ctx.JSON(http.StatusOK, o)
}

func (h *Handler) Delete(ctx *router.Context) error {
	actor, err := h.actor(ctx)
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	id, err := pathID(ctx)
	if err != nil {
		return ctx.Error(http.StatusBadRequest, "invalid order id")
	}

	if err := h.svc.Delete(ctx, actor, id); err != nil {
		return crud.RespondError(ctx, err)
	}

	h.publish(ctx, &Order{ID: id})
	return ctx.JSON(http.StatusOK, map[string]any{"id": id, "deleted": true})
}

type stateRequest struct {
	State string `json:"state"`
}

func (h *Handler) ChangeState(ctx *router.Context) error {
	actor, err := h.actor(ctx)
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	id, err := pathID(ctx)
	if err != nil {
		return ctx.Error(http.StatusBadRequest, "invalid order id")
	}

	var req stateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.Error(http.StatusBadRequest, err.Error())
	}
	state, err := ParseState(req.State)
	if err != nil {
		return ctx.Error(http.StatusBadRequest, err.Error())
	}

	o, err := h.svc.ChangeState(ctx, actor, id, state)
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	h.publish(ctx, o)
	return ctx.JSON(http.StatusOK, o)
}

type commentRequest struct {
	Comment string `json:"comment"`
}

func (h *Handler) AddComment(ctx *router.Context) error {
	actor, err := h.actor(ctx)
	if err != nil {
		return crud.RespondError(ctx, err)
	}

	id, err := pathID(ctx)
	if err != nil {
		return ctx.Error(http.StatusBadRequest, "invalid order id")
	}

	var req commentRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.Error(http.StatusBadRequest, err.Error())
	}

	o, err := h.svc.AddComment(ctx, actor, id, req.Comment)
	if err != nil {
		return crud.RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, o)
}

func (h *Handler) PickupLocations(ctx *router.Context) error {
	locations, err := h.svc.PickupLocations(ctx)
	if err != nil {
		return crud.RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, locations)
}

// publish announces the save. A failed publish is logged and does not fail the request.
func (h *Handler) publish(ctx *router.Context, o *Order) {
	if err := ctx.Publish(TopicOrderSaved, o.SavedEvent()); err != nil {
		ctx.Log.SetSummaryLogErrorSource(commonlog.ErrorSourceType{
			Node:        "kafka",
			Code:        "50000",
			Description: err.Error(),
		}).Error(logAction.APP_LOGIC("publish "+TopicOrderSaved, ""), map[string]any{
			"order_id": o.ID,
			"error":    err.Error(),
		})
	}
}

func pathID(ctx *router.Context) (int64, error) {
	return strconv.ParseInt(ctx.PathParam("id"), 10, 64)
}
