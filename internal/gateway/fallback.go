package gateway

import (
	_ "embed"
	"net/http"
	"time"
)

// Fallback resources shipped with the binary so offline responses never
// depend on the upstream being reachable.

//go:embed assets/offline.html
var offlinePage []byte

//go:embed assets/offline-placeholder.svg
var offlinePlaceholder []byte

const (
	fallbackPageKey  = "offline.html"
	fallbackImageKey = "offline-placeholder.svg"
)

// seedFallbacks loads the embedded fallback resources into the fallback
// partition.
func (rt *Router) seedFallbacks() {
	part := rt.parts.Open(classFallback)
	part.Put(fallbackPageKey, &CachedResponse{
		Status:   http.StatusOK,
		Header:   http.Header{"Content-Type": {"text/html; charset=utf-8"}},
		Body:     offlinePage,
		StoredAt: time.Now(),
	})
	part.Put(fallbackImageKey, &CachedResponse{
		Status:   http.StatusOK,
		Header:   http.Header{"Content-Type": {"image/svg+xml"}},
		Body:     offlinePlaceholder,
		StoredAt: time.Now(),
	})
}

// fallbackFor picks the registered fallback for a resource class. Anything
// without a dedicated fallback gets a plain 503.
func (rt *Router) fallbackFor(class string) *CachedResponse {
	part := rt.parts.Open(classFallback)
	switch class {
	case classDynamic:
		if resp, ok := part.Get(fallbackPageKey); ok {
			return resp
		}
	case classImages:
		if resp, ok := part.Get(fallbackImageKey); ok {
			return resp
		}
	}
	return &CachedResponse{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		Body:   []byte("Offline - Resource not available"),
	}
}
