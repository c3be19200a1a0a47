package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	HeaderSessionID     = "x-session-id"
	HeaderTransactionID = "x-transaction-id"
	HeaderRequestID     = "x-request-id"
)

var ErrEmptyBody = errors.New("request body is empty")

// Request adapts *http.Request to the router request contract.
type Request struct {
	req        *http.Request
	pathParams map[string]string
	ids        map[string]string
}

func NewRequest(r *http.Request) *Request {
	return &Request{
		req:        r,
		pathParams: mux.Vars(r),
		ids:        make(map[string]string, 3),
	}
}

func (r *Request) Context() context.Context {
	return r.req.Context()
}

// Param returns the first value of the query parameter key.
func (r *Request) Param(key string) string {
	return r.req.URL.Query().Get(key)
}

// Params returns every value of key, splitting comma separated values.
func (r *Request) Params(key string) []string {
	values := r.req.URL.Query()[key]

	var params []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				params = append(params, p)
			}
		}
	}

	return params
}

func (r *Request) PathParam(key string) string {
	return r.pathParams[key]
}

func (r *Request) Bind(i any) error {
	body, err := io.ReadAll(r.req.Body)
	if err != nil {
		return err
	}

	if len(body) == 0 {
		return ErrEmptyBody
	}

	return json.Unmarshal(body, i)
}

func (r *Request) HostName() string {
	proto := r.req.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
	}

	return proto + "://" + r.req.Host
}

func (r *Request) Header(key string) string {
	return r.req.Header.Get(key)
}

func (r *Request) Headers() map[string]any {
	headers := make(map[string]any, len(r.req.Header))
	for k, v := range r.req.Header {
		if len(v) == 1 {
			headers[k] = v[0]
			continue
		}
		headers[k] = v
	}
	return headers
}

func (r *Request) Method() string {
	return r.req.Method
}

func (r *Request) URL() string {
	return r.req.URL.String()
}

func (r *Request) SessionId() string {
	return r.idFor(HeaderSessionID)
}

func (r *Request) TransactionId() string {
	return r.idFor(HeaderTransactionID)
}

func (r *Request) RequestId() string {
	return r.idFor(HeaderRequestID)
}

// idFor returns the header value, or a generated id that stays stable for this request.
func (r *Request) idFor(header string) string {
	if v := r.req.Header.Get(header); v != "" {
		return v
	}

	if v, ok := r.ids[header]; ok {
		return v
	}

	r.ids[header] = uuid.NewString()
	return r.ids[header]
}
