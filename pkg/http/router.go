package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Router struct {
	mux.Router
	RegisteredRoutes *[]string
}

type Middleware func(handler http.Handler) http.Handler

func NewRouter() *Router {
	muxRouter := mux.NewRouter().StrictSlash(false)
	routes := make([]string, 0)

	return &Router{
		Router:           *muxRouter,
		RegisteredRoutes: &routes,
	}
}

// Add registers handler for method and pattern, instrumented with an otel span named after the route.
func (rou *Router) Add(method, pattern string, handler http.Handler) {
	h := otelhttp.NewHandler(handler, method+" "+pattern)
	rou.Router.NewRoute().Methods(method).Path(pattern).Handler(h)
	*rou.RegisteredRoutes = append(*rou.RegisteredRoutes, method+" "+pattern)
}

// UseMiddleware wraps every route registered on the router.
func (rou *Router) UseMiddleware(mws ...Middleware) {
	for _, m := range mws {
		rou.Router.Use(mux.MiddlewareFunc(m))
	}
}

// RequestID echoes the x-request-id header, generating one when the caller sent none.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(HeaderRequestID, id)
		}

		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}
