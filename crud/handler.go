package crud

import (
	"errors"
	"net/http"

	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	gokpHTTP "github.com/sing3demons/go-bakery-service/pkg/http"
	"github.com/sing3demons/go-bakery-service/pkg/router"
)

// ActorResolver finds the user behind a request.
type ActorResolver func(ctx *router.Context) (Actor, error)

// Routes is the part of router.App handlers register on.
type Routes interface {
	Get(pattern string, handler router.Handler)
	Post(pattern string, handler router.Handler)
	Put(pattern string, handler router.Handler)
	Delete(pattern string, handler router.Handler)
}

type Options[T any, ID comparable] struct {
	// Name is the collection path segment, e.g. "products".
	Name     string
	ParseID  func(string) (ID, error)
	IDOf     func(*T) ID
	Actor    ActorResolver
	PageSize int
}

// Handler exposes a FilterableService over HTTP.
type Handler[T any, ID comparable] struct {
	svc  FilterableService[T, ID]
	opts Options[T, ID]
}

func NewHandler[T any, ID comparable](svc FilterableService[T, ID], opts Options[T, ID]) *Handler[T, ID] {
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Handler[T, ID]{svc: svc, opts: opts}
}

func (h *Handler[T, ID]) Register(r Routes) {
	base := "/" + h.opts.Name
	r.Get(base, h.List)
	r.Get(base+"/new", h.New)
	r.Post(base, h.Create)
	r.Get(base+"/{id}", h.Get)
	r.Put(base+"/{id}", h.Update)
	r.Delete(base+"/{id}", h.Delete)
}

func (h *Handler[T, ID]) List(ctx *router.Context) error {
	filter := ctx.Param("filter")
	p := PageableFrom(ctx, h.opts.PageSize)

	items, err := h.svc.FindAnyMatching(ctx, filter, p)
	if err != nil {
		return RespondError(ctx, err)
	}

	total, err := h.svc.CountAnyMatching(ctx, filter)
	if err != nil {
		return RespondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, NewPage(items, p, total))
}

// New returns an unsaved entity with the defaults a form starts from.
func (h *Handler[T, ID]) New(ctx *router.Context) error {
	actor, err := h.opts.Actor(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, h.svc.CreateNew(actor))
}

func (h *Handler[T, ID]) Get(ctx *router.Context) error {
	id, err := h.opts.ParseID(ctx.PathParam("id"))
	if err != nil {
		return ctx.Error(http.StatusBadRequest, "invalid id")
	}

	entity, err := h.svc.Load(ctx, id)
	if err != nil {
		return RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, entity)
}

func (h *Handler[T, ID]) Create(ctx *router.Context) error {
	actor, err := h.opts.Actor(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	entity := h.svc.CreateNew(actor)
	if err := ctx.Bind(entity); err != nil {
		return ctx.Error(http.StatusBadRequest, err.Error())
	}

	saved, err := h.svc.Save(ctx, actor, entity)
	if err != nil {
		return RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, saved)
}

// Update binds the body onto the stored entity, so omitted fields keep their values.
func (h *Handler[T, ID]) Update(ctx *router.Context) error {
	actor, err := h.opts.Actor(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	id, err := h.opts.ParseID(ctx.PathParam("id"))
	if err != nil {
		return ctx.Error(http.StatusBadRequest, "invalid id")
	}

	entity, err := h.svc.Load(ctx, id)
	if err != nil {
		return RespondError(ctx, err)
	}

	if err := ctx.Bind(entity); err != nil {
		return ctx.Error(http.StatusBadRequest, err.Error())
	}
	if h.opts.IDOf(entity) != id {
		return RespondError(ctx, ErrIDMismatch)
	}

	saved, err := h.svc.Save(ctx, actor, entity)
	if err != nil {
		return RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, saved)
}

func (h *Handler[T, ID]) Delete(ctx *router.Context) error {
	actor, err := h.opts.Actor(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	id, err := h.opts.ParseID(ctx.PathParam("id"))
	if err != nil {
		return ctx.Error(http.StatusBadRequest, "invalid id")
	}

	if err := h.svc.Delete(ctx, actor, id); err != nil {
		return RespondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// RespondError writes err with the status code its kind maps to.
func RespondError(ctx *router.Context, err error) error {
	code := StatusOf(err)
	if code >= http.StatusInternalServerError {
		ctx.Log.SetSummary(commonlog.LogEventTag{
			Node:        "client",
			Command:     ctx.Method() + " " + ctx.URL(),
			Code:        "50000",
			Description: err.Error(),
		}).Error(logAction.EXCEPTION(ctx.URL(), ""), err.Error())
		return ctx.Error(code, "internal server error")
	}

	if ufe, ok := AsUserFriendly(err); ok {
		return ctx.Error(code, ufe.Message)
	}
	return ctx.Error(code, err.Error())
}

func StatusOf(err error) int {
	if _, ok := AsUserFriendly(err); ok {
		return http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIDMismatch), errors.Is(err, ErrInvalidBody), errors.Is(err, gokpHTTP.ErrEmptyBody):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
