package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	gokpHTTP "github.com/sing3demons/go-bakery-service/pkg/http"
)

type Handler func(c *Context) error

type handler struct {
	function       Handler
	requestTimeout time.Duration
	app            *App
}

func (h handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := newContext(w, gokpHTTP.NewRequest(r), h.app.publisher(), h.app.logService(), h.app.conf)
	traceID := trace.SpanFromContext(r.Context()).SpanContext().TraceID().String()

	var tw *timeoutWriter
	if websocket.IsWebSocketUpgrade(r) {
		c.Context = r.Context()
	} else if h.requestTimeout != 0 {
		ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
		defer cancel()

		c.Context = ctx
		tw = newTimeoutWriter(w)
		c.ResponseWriter = tw
	}

	summary := commonlog.NewEventTag("client", r.Method+" "+r.URL.Path)
	c.Log.Info(logAction.INBOUND("client", ""), map[string]any{
		"method":  r.Method,
		"url":     r.URL.String(),
		"headers": c.Request.Headers(),
		"traceId": traceID,
	})

	done := make(chan error, 1)
	panicked := make(chan error, 1)

	go func() {
		defer func() {
			if re := recover(); re != nil {
				panicked <- panicRecovery(re, h.app.Logger)
			}
		}()

		done <- h.function(c)
	}()

	select {
	case <-c.Context.Done():
		if errors.Is(c.Context.Err(), context.DeadlineExceeded) {
			c.Log.SetSummary(summary.Update("50400", "request timed out"))
			if tw == nil {
				_ = c.Error(http.StatusGatewayTimeout, "request timed out")
				break
			}
			claimed := c.written.CompareAndSwap(false, true)
			if tw.timeout(http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out"}) && claimed {
				c.Log.End(http.StatusGatewayTimeout, "request timed out")
			}
		}
	case err := <-done:
		if err != nil {
			h.app.Logger.Errorf("trace_id=%s error=%v", traceID, err)
			if !c.written.Load() {
				c.Log.SetSummary(summary.Update("50000", err.Error()))
				_ = c.Error(http.StatusInternalServerError, err.Error())
			}
		}
	case err := <-panicked:
		c.Log.SetSummary(summary.Update("50000", err.Error()))
		_ = c.Error(http.StatusInternalServerError, "internal server error")
	}
}

func liveHandler(c *Context) error {
	return c.JSON(http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "UP"})
}
