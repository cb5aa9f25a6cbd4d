package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Tiger884/retro-pc-store/internal/config"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

const controlPath = "/__sw/message"

// Router fronts the upstream origin with per-class caching strategies so
// the storefront keeps working when the upstream is unreachable.
type Router struct {
	conf     config.GatewayConfig
	upstream *url.URL
	client   *http.Client
	parts    *PartitionSet
	queue    *SyncQueue
	log      *logx.Logger
}

func NewRouter(cfg *config.Config) (*Router, error) {
	upstream, err := url.Parse(cfg.Gateway.Upstream)
	if err != nil {
		return nil, err
	}
	rt := &Router{
		conf:     cfg.Gateway,
		upstream: upstream,
		client:   &http.Client{Timeout: cfg.Gateway.FetchTimeout},
		parts:    NewPartitionSet(cfg.Gateway.Version),
		queue:    NewSyncQueue(cfg.Gateway.MaxSyncTries),
		log:      logx.Named("gateway"),
	}
	rt.seedFallbacks()
	return rt, nil
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.URL.Path == controlPath {
		rt.handleControl(w, r)
		return
	}

	// Only GETs are intercepted. Everything else goes straight upstream.
	if r.Method != http.MethodGet {
		rt.passthrough(w, r)
		return
	}

	class := classify(r.URL.Path)
	switch class {
	case classImages, classStatic:
		rt.cacheFirst(w, r, class)
	case classAPI:
		rt.staleWhileRevalidate(w, r, class)
	default:
		rt.networkFirst(w, r, classDynamic)
	}
}

// classify maps a request path to its resource class. First match wins.
func classify(p string) string {
	ext := strings.ToLower(path.Ext(p))
	switch {
	case strings.Contains(p, "/assets/im/"),
		ext == ".png", ext == ".jpg", ext == ".jpeg", ext == ".gif",
		ext == ".svg", ext == ".webp", ext == ".ico":
		return classImages
	case strings.Contains(p, "/assets/"),
		ext == ".css", ext == ".js", ext == ".woff", ext == ".woff2",
		ext == ".json", ext == ".txt":
		return classStatic
	case strings.HasPrefix(p, "/api/"):
		return classAPI
	default:
		return classDynamic
	}
}

func cacheKey(r *http.Request) string {
	return r.URL.RequestURI()
}

// cacheFirst serves the cached copy when present and only reaches for the
// network on a miss.
func (rt *Router) cacheFirst(w http.ResponseWriter, r *http.Request, class string) {
	part := rt.parts.Open(class)
	key := cacheKey(r)

	if cached, ok := part.Get(key); ok {
		rt.log.Debugw("cache hit", "class", class, "key", key)
		writeCached(w, cached)
		return
	}

	resp, err := rt.fetch(r.Context(), r)
	if err != nil {
		rt.log.Debugw("fetch failed, serving fallback", "class", class, "key", key, "error", err)
		writeCached(w, rt.fallbackFor(class))
		return
	}
	if isSuccess(resp.Status) {
		part.Put(key, resp)
	}
	writeCached(w, resp)
}

// networkFirst prefers a fresh response and degrades to cache, then to the
// registered fallback.
func (rt *Router) networkFirst(w http.ResponseWriter, r *http.Request, class string) {
	part := rt.parts.Open(class)
	key := cacheKey(r)

	resp, err := rt.fetch(r.Context(), r)
	if err == nil {
		if isSuccess(resp.Status) {
			part.Put(key, resp)
		}
		writeCached(w, resp)
		return
	}

	if cached, ok := part.Get(key); ok {
		rt.log.Debugw("network failed, serving cache", "class", class, "key", key)
		writeCached(w, cached)
		return
	}
	writeCached(w, rt.fallbackFor(class))
}

// staleWhileRevalidate answers from cache without waiting on the network
// and refreshes the entry in the background. A miss waits on the network.
func (rt *Router) staleWhileRevalidate(w http.ResponseWriter, r *http.Request, class string) {
	part := rt.parts.Open(class)
	key := cacheKey(r)

	if cached, ok := part.Get(key); ok {
		rt.log.Debugw("stale cache served", "class", class, "key", key)
		writeCached(w, cached)
		go rt.revalidate(r.Clone(context.Background()), part, key)
		return
	}

	resp, err := rt.fetch(r.Context(), r)
	if err != nil {
		writeCached(w, rt.fallbackFor(class))
		return
	}
	if isSuccess(resp.Status) {
		part.Put(key, resp)
	}
	writeCached(w, resp)
}

// revalidate refreshes a cache entry outside the request lifecycle. The
// caller's response has already been written.
func (rt *Router) revalidate(r *http.Request, part *Partition, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), rt.conf.FetchTimeout)
	defer cancel()

	resp, err := rt.fetch(ctx, r)
	if err != nil {
		rt.log.Debugw("background revalidation failed", "key", key, "error", err)
		return
	}
	if isSuccess(resp.Status) {
		part.Put(key, resp)
	}
}

// fetch buffers a full upstream response for the same path and query.
func (rt *Router) fetch(ctx context.Context, r *http.Request) (*CachedResponse, error) {
	target := *rt.upstream
	target.Path = r.URL.Path
	target.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	copyHeader(req.Header, r.Header)

	resp, err := rt.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &CachedResponse{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now(),
	}, nil
}

// passthrough forwards a request verbatim and streams the response back.
func (rt *Router) passthrough(w http.ResponseWriter, r *http.Request) {
	target := *rt.upstream
	target.Path = r.URL.Path
	target.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	copyHeader(req.Header, r.Header)

	resp, err := rt.client.Do(req)
	if err != nil {
		http.Error(w, "upstream unreachable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func writeCached(w http.ResponseWriter, resp *CachedResponse) {
	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func copyHeader(dst, src http.Header) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
