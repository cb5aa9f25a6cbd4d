package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/Tiger884/retro-pc-store/internal/config"
	"github.com/Tiger884/retro-pc-store/internal/repo/cachestore"
	"github.com/Tiger884/retro-pc-store/internal/repo/kvstore"
)

func newKVStore(lc fx.Lifecycle, cfg *config.Config) (kvstore.Store, error) {
	store, err := kvstore.NewBoltStore(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func newCacheStore(cfg *config.Config, store kvstore.Store) *cachestore.CacheStore {
	return cachestore.New(store, cfg.Cache.TTL)
}
