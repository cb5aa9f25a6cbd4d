package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/Tiger884/retro-pc-store/internal/config"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

func StartGateway(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	rt *Router,
) {
	log := logx.Named("gateway_server")
	srv := &http.Server{
		Addr:              conf.Gateway.Addr,
		Handler:           rt,
		ReadHeaderTimeout: 10 * time.Second,
	}

	drainCtx, stopDrain := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rt.Install(ctx); err != nil {
				return err
			}
			rt.Activate()

			go func() {
				log.Infow("starting gateway", "addr", conf.Gateway.Addr, "upstream", conf.Gateway.Upstream)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					sd.Shutdown()
				}
			}()

			go func() {
				ticker := time.NewTicker(conf.Gateway.SyncInterval)
				defer ticker.Stop()
				for {
					select {
					case <-drainCtx.Done():
						return
					case <-ticker.C:
						rt.DrainSync(drainCtx)
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopDrain()
			return srv.Shutdown(ctx)
		},
	})
}
