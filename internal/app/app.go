package app

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Tiger884/retro-pc-store/internal/config"
	"github.com/Tiger884/retro-pc-store/internal/gateway"
	"github.com/Tiger884/retro-pc-store/internal/repo/demo"
	"github.com/Tiger884/retro-pc-store/internal/repo/ebay"
	"github.com/Tiger884/retro-pc-store/internal/repo/search"
	"github.com/Tiger884/retro-pc-store/internal/server"
	"github.com/Tiger884/retro-pc-store/internal/usecase"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

func Invoke(funcs ...any) *fx.App {
	conf := config.MustLoad()
	logx.Init(conf.Environment)
	log := logx.Named("app")
	log.Debugw("config loaded", "environment", conf.Environment)
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: os.Stderr}
		}),
		fx.Provide(
			newKVStore,
			newCacheStore,

			server.NewController,

			usecase.NewCatalogUsecase,

			search.NewClient,
			ebay.NewClient,
			demo.NewDataset,

			gateway.NewRouter,
		),
		fx.Supply(conf),
		fx.Invoke(funcs...),
	)
}
