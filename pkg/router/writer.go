package router

import (
	"encoding/json"
	"net/http"
	"sync"
)

// timeoutWriter serializes handler writes with the timeout response. Once the request
// timed out every handler write fails with http.ErrHandlerTimeout, so the handler
// goroutine never touches the underlying writer after ServeHTTP returned.
type timeoutWriter struct {
	w http.ResponseWriter
	// h belongs to the handler goroutine and is copied to w on the first write.
	h http.Header

	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func newTimeoutWriter(w http.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{w: w, h: make(http.Header)}
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.h
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	dst := tw.w.Header()
	for k, vv := range tw.h {
		dst[k] = vv
	}
	tw.wroteHeader = true
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.w.Write(b)
}

// timeout writes v with code unless the handler already started its response, and
// rejects every later handler write. It reports whether v was written.
func (tw *timeoutWriter) timeout(code int, v any) bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	tw.timedOut = true
	if tw.wroteHeader {
		return false
	}

	tw.wroteHeader = true
	tw.w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	tw.w.WriteHeader(code)
	_ = json.NewEncoder(tw.w).Encode(v)
	return true
}
