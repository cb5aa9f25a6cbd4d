package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiger884/retro-pc-store/internal/config"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

func newTestRouter(t *testing.T, upstream string) *Router {
	t.Helper()
	cfg := &config.Config{
		Gateway: config.GatewayConfig{
			Addr:         ":0",
			Upstream:     upstream,
			Version:      "v9.9.9",
			FetchTimeout: 2 * time.Second,
			SyncInterval: time.Minute,
			MaxSyncTries: 3,
		},
	}
	rt, err := NewRouter(cfg)
	require.NoError(t, err)
	rt.log = logx.Nop()
	rt.queue.log = logx.Nop()
	return rt
}

func serve(rt *Router, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/assets/im/Intel_8086-2.jpg", classImages},
		{"/logo.png", classImages},
		{"/favicon.ico", classImages},
		{"/assets/css/style.css", classStatic},
		{"/assets/js/main.js", classStatic},
		{"/manifest.json", classStatic},
		{"/api/v1/products", classAPI},
		{"/api/v1/search", classAPI},
		{"/", classDynamic},
		{"/index.html", classDynamic},
		{"/about", classDynamic},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.path), "path %s", tt.path)
	}
}

func TestCacheFirst_ServesCachedWhileOffline(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1") // nothing listens here

	rt.parts.Open(classImages).Put("/assets/im/cpu.jpg", &CachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"image/jpeg"}},
		Body:   []byte("jpeg-bytes"),
	})

	rec := serve(rt, http.MethodGet, "/assets/im/cpu.jpg", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg-bytes", rec.Body.String())
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}

func TestCacheFirst_FetchesOnceThenCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("stylesheet"))
	}))
	defer srv.Close()

	rt := newTestRouter(t, srv.URL)

	for i := 0; i < 3; i++ {
		rec := serve(rt, http.MethodGet, "/assets/css/style.css", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "stylesheet", rec.Body.String())
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestCacheFirst_ImageFallback(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")

	rec := serve(rt, http.MethodGet, "/assets/im/missing.jpg", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "IMAGE UNAVAILABLE")
}

func TestNetworkFirst_PrefersNetworkThenCache(t *testing.T) {
	var online atomic.Bool
	online.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !online.Load() {
			panic(http.ErrAbortHandler)
		}
		_, _ = w.Write([]byte("<html>fresh shell</html>"))
	}))
	defer srv.Close()

	rt := newTestRouter(t, srv.URL)

	rec := serve(rt, http.MethodGet, "/index.html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fresh shell")

	online.Store(false)
	rec = serve(rt, http.MethodGet, "/index.html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fresh shell")
}

func TestNetworkFirst_OfflinePageFallback(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")

	rec := serve(rt, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONNECTION LOST")
}

func TestNetworkFirst_GenericFallbackWithoutPage(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")
	rt.parts.Open(classFallback).Clear()

	rec := serve(rt, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Offline - Resource not available", rec.Body.String())
}

func TestStaleWhileRevalidate_ImmediateStaleWithHungUpstream(t *testing.T) {
	unblock := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-unblock
	}))
	defer srv.Close()
	defer close(unblock)

	rt := newTestRouter(t, srv.URL)
	rt.parts.Open(classAPI).Put("/api/v1/products", &CachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   []byte(`{"success":true}`),
	})

	start := time.Now()
	rec := serve(rt, http.MethodGet, "/api/v1/products", nil)
	elapsed := time.Since(start)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Less(t, elapsed, time.Second, "stale response must not wait on the network")
}

func TestStaleWhileRevalidate_MissWaitsOnNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":2}`))
	}))
	defer srv.Close()

	rt := newTestRouter(t, srv.URL)

	rec := serve(rt, http.MethodGet, "/api/v1/products", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())

	// The miss populated the partition.
	_, ok := rt.parts.Open(classAPI).Get("/api/v1/products")
	assert.True(t, ok)
}

func TestNonGET_PassesThrough(t *testing.T) {
	var gotMethod, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	rt := newTestRouter(t, srv.URL)

	rec := serve(rt, http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`{"item":1}`)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.JSONEq(t, `{"item":1}`, gotBody)
	assert.Equal(t, 0, rt.parts.Open(classAPI).Len())
}

func TestInstall_PrecachesCoreResources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("resource " + r.URL.Path))
	}))
	defer srv.Close()

	rt := newTestRouter(t, srv.URL)
	require.NoError(t, rt.Install(context.Background()))

	cached, ok := rt.parts.Open(classDynamic).Get("/")
	require.True(t, ok)
	assert.Equal(t, "resource /", string(cached.Body))

	_, ok = rt.parts.Open(classStatic).Get("/assets/css/style.css")
	assert.True(t, ok)
	_, ok = rt.parts.Open(classAPI).Get("/api/v1/products")
	assert.True(t, ok)
}

func TestInstall_ToleratesUnreachableUpstream(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")

	require.NoError(t, rt.Install(context.Background()))

	// Fallbacks are embedded and survive a total precache failure.
	_, ok := rt.parts.Open(classFallback).Get(fallbackPageKey)
	assert.True(t, ok)
}

func TestActivate_SweepsStalePartitions(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")

	stale := rt.parts.OpenNamed("retro-pc-store-v1.0.0-api")
	stale.Put("/api/v1/products", &CachedResponse{Status: http.StatusOK})
	rt.parts.Open(classAPI).Put("/api/v1/products", &CachedResponse{Status: http.StatusOK})

	rt.Activate()

	names := rt.parts.Names()
	assert.NotContains(t, names, "retro-pc-store-v1.0.0-api")
	assert.Contains(t, names, rt.parts.Name(classAPI))
}

func postControl(rt *Router, body string) *httptest.ResponseRecorder {
	return serve(rt, http.MethodPost, controlPath, bytes.NewReader([]byte(body)))
}

func TestControl_GetVersion(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")

	rec := postControl(rt, `{"type":"GET_VERSION"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "retro-pc-store-v9.9.9", body["version"])
}

func TestControl_ClearCache(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")
	rt.parts.Open(classAPI).Put("/api/v1/products", &CachedResponse{Status: http.StatusOK})
	rt.parts.Open(classImages).Put("/a.jpg", &CachedResponse{Status: http.StatusOK})

	rec := postControl(rt, `{"type":"CLEAR_CACHE"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, rt.parts.Open(classAPI).Len())
	assert.Equal(t, 0, rt.parts.Open(classImages).Len())
	// Fallback resources survive a cache clear.
	assert.NotZero(t, rt.parts.Open(classFallback).Len())
}

func TestControl_BackgroundSync(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")

	rec := postControl(rt, `{"type":"BACKGROUND_SYNC","data":{"tag":"product-view-sync","payload":{"id":3}}}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, rt.queue.Len())
}

func TestControl_UnknownType(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")

	rec := postControl(rt, `{"type":"REBOOT"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestControl_SkipWaiting(t *testing.T) {
	rt := newTestRouter(t, "http://127.0.0.1:1")
	rt.parts.OpenNamed("retro-pc-store-v0.0.1-static")

	rec := postControl(rt, `{"type":"SKIP_WAITING"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rt.parts.Names(), "retro-pc-store-v0.0.1-static")
}
