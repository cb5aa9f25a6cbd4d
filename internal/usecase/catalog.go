package usecase

import (
	"context"
	"time"

	"github.com/Tiger884/retro-pc-store/internal/config"
	"github.com/Tiger884/retro-pc-store/internal/models"
	"github.com/Tiger884/retro-pc-store/internal/repo/cachestore"
	"github.com/Tiger884/retro-pc-store/internal/repo/demo"
	"github.com/Tiger884/retro-pc-store/internal/repo/search"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

// CatalogUsecase sequences the acquisition fallback chain: cache, then the
// remote marketplace, then the embedded demo dataset.
type CatalogUsecase interface {
	Acquire(ctx context.Context) ([]models.Product, models.Source, error)
}

type catalogUsecase struct {
	cache  *cachestore.CacheStore
	search search.Client
	demo   *demo.Dataset
	conf   config.CatalogConfig
	log    *logx.Logger

	sleep func(ctx context.Context, d time.Duration)
}

func NewCatalogUsecase(
	cfg *config.Config,
	cache *cachestore.CacheStore,
	searchClient search.Client,
	dataset *demo.Dataset,
) CatalogUsecase {
	return &catalogUsecase{
		cache:  cache,
		search: searchClient,
		demo:   dataset,
		conf:   cfg.Catalog,
		log:    logx.Named("catalog"),
		sleep:  sleepContext,
	}
}

// Acquire never surfaces a hard error while the demo dataset is non-empty;
// every remote failure degrades to the next stage.
func (uc *catalogUsecase) Acquire(ctx context.Context) ([]models.Product, models.Source, error) {
	if cached := uc.cache.Read(); len(cached) > 0 {
		uc.log.Infow("serving cached products", "count", len(cached))
		return uc.cap(cached), models.SourceCache, nil
	}

	if remote := uc.fetchRemote(ctx); len(remote) > 0 {
		uc.log.Infow("serving remote products", "count", len(remote))
		uc.cache.Write(remote)
		return remote, models.SourceRemote, nil
	}

	fallback := uc.demo.Random(uc.conf.MaxProducts)
	if len(fallback) == 0 {
		return nil, "", models.ErrCatalogUnavailable
	}
	uc.log.Infow("serving demo products", "count", len(fallback))
	return fallback, models.SourceDemo, nil
}

// fetchRemote walks the configured queries strictly in order, pausing between
// them to respect the marketplace rate limit. A failed query is logged and
// skipped; results keep the remote's order with no cross-query dedup.
func (uc *catalogUsecase) fetchRemote(ctx context.Context) (products []models.Product) {
	defer func() {
		if r := recover(); r != nil {
			uc.log.Errorw("remote acquisition panicked", "panic", r)
			products = nil
		}
	}()

	var all []models.Product
	for i, query := range uc.conf.Queries {
		if i > 0 && uc.conf.QueryDelay > 0 {
			uc.sleep(ctx, uc.conf.QueryDelay)
		}

		items, err := uc.search.Search(ctx, query)
		if err != nil {
			uc.log.Warnw("search query failed", "query", query, "error", err)
			continue
		}
		if len(items) > uc.conf.PerQueryLimit {
			items = items[:uc.conf.PerQueryLimit]
		}
		all = append(all, items...)
	}
	return uc.cap(all)
}

func (uc *catalogUsecase) cap(products []models.Product) []models.Product {
	if len(products) > uc.conf.MaxProducts {
		return products[:uc.conf.MaxProducts]
	}
	return products
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
