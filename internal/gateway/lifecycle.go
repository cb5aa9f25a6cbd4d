package gateway

import (
	"context"
	"net/http"
	"net/url"
)

// coreResources are precached on install so the shell keeps rendering
// through an outage that starts right after startup.
var coreResources = []string{
	"/",
	"/index.html",
	"/assets/css/style.css",
	"/assets/js/main.js",
	"/manifest.json",
	"/robots.txt",
	"/api/v1/products",
}

// Install precaches the core resource list. Individual precache failures
// are tolerated; the gateway still comes up and fills its cache lazily.
func (rt *Router) Install(ctx context.Context) error {
	rt.seedFallbacks()

	cached := 0
	for _, res := range coreResources {
		u, err := url.Parse(res)
		if err != nil {
			continue
		}
		req := &http.Request{Method: http.MethodGet, URL: u, Header: http.Header{}}

		resp, err := rt.fetch(ctx, req)
		if err != nil || !isSuccess(resp.Status) {
			rt.log.Debugw("precache miss", "resource", res, "error", err)
			continue
		}
		rt.parts.Open(classify(res)).Put(res, resp)
		cached++
	}
	rt.log.Infow("install complete", "cached", cached, "total", len(coreResources))
	return nil
}

// Activate sweeps partitions tagged by older versions and takes over
// serving immediately.
func (rt *Router) Activate() {
	dropped := rt.parts.DropStale()
	rt.log.Infow("activated", "version", rt.conf.Version, "stale_partitions_dropped", dropped)
}
