package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiger884/retro-pc-store/internal/config"
	"github.com/Tiger884/retro-pc-store/internal/models"
	"github.com/Tiger884/retro-pc-store/internal/repo/cachestore"
	"github.com/Tiger884/retro-pc-store/internal/repo/demo"
	"github.com/Tiger884/retro-pc-store/internal/repo/kvstore"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

type stubSearch struct {
	calls   []string
	results map[string][]models.Product
	errs    map[string]error
}

func (s *stubSearch) Search(_ context.Context, keywords string) ([]models.Product, error) {
	s.calls = append(s.calls, keywords)
	if err := s.errs[keywords]; err != nil {
		return nil, err
	}
	return s.results[keywords], nil
}

func makeProducts(prefix string, n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		products[i] = models.Product{
			Title:     fmt.Sprintf("%s item %d", prefix, i+1),
			Price:     "USD 10.00",
			Condition: "Used",
			Location:  "Unknown",
			DetailURL: "#",
		}
	}
	return products
}

func newTestUsecase(t *testing.T, conf config.CatalogConfig, stub *stubSearch) (*catalogUsecase, *cachestore.CacheStore) {
	t.Helper()
	dataset, err := demo.NewDataset()
	require.NoError(t, err)
	cache := cachestore.New(kvstore.NewMemoryStore(), 24*time.Hour)
	uc := &catalogUsecase{
		cache:  cache,
		search: stub,
		demo:   dataset,
		conf:   conf,
		log:    logx.Nop(),
		sleep:  func(context.Context, time.Duration) {},
	}
	return uc, cache
}

func defaultConf() config.CatalogConfig {
	return config.CatalogConfig{
		Queries:       []string{"first query", "second query"},
		MaxProducts:   9,
		PerQueryLimit: 4,
	}
}

func TestAcquireUsesCacheFirst(t *testing.T) {
	stub := &stubSearch{}
	uc, cache := newTestUsecase(t, defaultConf(), stub)
	cache.Write(makeProducts("cached", 3))

	products, source, err := uc.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, source)
	assert.Len(t, products, 3)
	assert.Empty(t, stub.calls, "cache hit must short-circuit remote queries")
}

func TestAcquireFetchesRemoteAndCaches(t *testing.T) {
	stub := &stubSearch{results: map[string][]models.Product{
		"first query":  makeProducts("a", 2),
		"second query": makeProducts("b", 2),
	}}
	uc, cache := newTestUsecase(t, defaultConf(), stub)

	products, source, err := uc.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceRemote, source)
	assert.Len(t, products, 4)
	assert.Equal(t, []string{"first query", "second query"}, stub.calls)

	// Successful remote results are written back to the cache.
	assert.Len(t, cache.Read(), 4)
}

func TestAcquirePerQueryCap(t *testing.T) {
	conf := defaultConf()
	conf.PerQueryLimit = 3
	stub := &stubSearch{results: map[string][]models.Product{
		"first query":  makeProducts("a", 5),
		"second query": makeProducts("b", 5),
	}}
	uc, _ := newTestUsecase(t, conf, stub)

	products, _, err := uc.Acquire(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 6)

	// Order preserved: first query's items before the second's.
	assert.Equal(t, "a item 1", products[0].Title)
	assert.Equal(t, "a item 3", products[2].Title)
	assert.Equal(t, "b item 1", products[3].Title)
	assert.Equal(t, "b item 3", products[5].Title)
}

func TestAcquireOverallMax(t *testing.T) {
	conf := defaultConf()
	conf.MaxProducts = 5
	stub := &stubSearch{results: map[string][]models.Product{
		"first query":  makeProducts("a", 4),
		"second query": makeProducts("b", 4),
	}}
	uc, _ := newTestUsecase(t, conf, stub)

	products, _, err := uc.Acquire(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestAcquireFallsBackToDemo(t *testing.T) {
	stub := &stubSearch{errs: map[string]error{
		"first query":  &models.TimeoutError{Err: context.DeadlineExceeded},
		"second query": &models.NetworkError{StatusCode: 502},
	}}
	uc, _ := newTestUsecase(t, defaultConf(), stub)

	products, source, err := uc.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceDemo, source)
	assert.NotEmpty(t, products)
	assert.LessOrEqual(t, len(products), 9)
	assert.Equal(t, []string{"first query", "second query"}, stub.calls,
		"every query is attempted before degrading to demo data")
}

func TestAcquireContinuesPastProtocolError(t *testing.T) {
	stub := &stubSearch{
		errs:    map[string]error{"first query": &models.ProtocolError{Reason: "items field missing"}},
		results: map[string][]models.Product{"second query": makeProducts("b", 2)},
	}
	uc, _ := newTestUsecase(t, defaultConf(), stub)

	products, source, err := uc.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceRemote, source)
	require.Len(t, products, 2)
	assert.Equal(t, "b item 1", products[0].Title)
}

func TestAcquireSleepsBetweenQueries(t *testing.T) {
	conf := defaultConf()
	conf.QueryDelay = 500 * time.Millisecond
	stub := &stubSearch{}
	uc, _ := newTestUsecase(t, conf, stub)

	var sleeps int
	uc.sleep = func(context.Context, time.Duration) { sleeps++ }

	_, _, err := uc.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sleeps, "one pause between two queries")
}

func TestAcquireRecoversFromPanic(t *testing.T) {
	uc, _ := newTestUsecase(t, defaultConf(), &stubSearch{})
	uc.search = panicSearch{}

	products, source, err := uc.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceDemo, source)
	assert.NotEmpty(t, products)
}

type panicSearch struct{}

func (panicSearch) Search(context.Context, string) ([]models.Product, error) {
	panic("unexpected remote shape")
}
