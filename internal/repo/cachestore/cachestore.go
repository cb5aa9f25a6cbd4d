package cachestore

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Tiger884/retro-pc-store/internal/models"
	"github.com/Tiger884/retro-pc-store/internal/repo/kvstore"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

// Storage key layout: a serialized product list plus its write timestamp in
// epoch milliseconds. Both are always written and evicted together.
const (
	productsKey  = "retropc_products_cache"
	timestampKey = "retropc_products_timestamp"
)

// CacheStore is the time-boxed product cache. Caching is a non-critical
// optimization: no operation ever returns an error to the caller, storage
// failures are logged and degrade to a cache miss or a no-op.
type CacheStore struct {
	store kvstore.Store
	ttl   time.Duration
	log   *logx.Logger

	now func() time.Time
}

func New(store kvstore.Store, ttl time.Duration) *CacheStore {
	return &CacheStore{
		store: store,
		ttl:   ttl,
		log:   logx.Named("cachestore"),
		now:   time.Now,
	}
}

// Read returns the cached product list, or nil when no entry exists, the
// entry has outlived its TTL, or it cannot be deserialized. Expired and
// corrupt entries are evicted before returning.
func (s *CacheStore) Read() []models.Product {
	raw, err := s.store.Get(productsKey)
	if err != nil {
		s.log.Warnw("cache read failed", "error", &models.StorageError{Op: "get", Err: err})
		return nil
	}
	tsRaw, err := s.store.Get(timestampKey)
	if err != nil {
		s.log.Warnw("cache read failed", "error", &models.StorageError{Op: "get", Err: err})
		return nil
	}
	if raw == nil || tsRaw == nil {
		return nil
	}

	ts, err := strconv.ParseInt(string(tsRaw), 10, 64)
	if err != nil {
		s.log.Warnw("corrupt cache timestamp, evicting", "error", err)
		s.Clear()
		return nil
	}

	age := s.now().Sub(time.UnixMilli(ts))
	if age > s.ttl {
		s.log.Debugw("cache expired, evicting", "age", age.String())
		s.Clear()
		return nil
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		s.log.Warnw("corrupt cache entry, evicting", "error", err)
		s.Clear()
		return nil
	}

	s.log.Debugw("cache hit", "count", len(products), "age", age.String())
	return products
}

// Write replaces the cached list with the given products and stamps the
// write time. The provenance tag is not persisted.
func (s *CacheStore) Write(products []models.Product) {
	stripped := make([]models.Product, len(products))
	copy(stripped, products)
	for i := range stripped {
		stripped[i].Source = ""
	}

	data, err := json.Marshal(stripped)
	if err != nil {
		s.log.Errorw("cache serialization failed", "error", err)
		return
	}
	if err := s.store.Put(productsKey, data); err != nil {
		s.log.Warnw("cache write skipped", "error", &models.StorageError{Op: "put", Err: err})
		return
	}
	ts := strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.store.Put(timestampKey, []byte(ts)); err != nil {
		s.log.Warnw("cache timestamp write failed", "error", &models.StorageError{Op: "put", Err: err})
		return
	}
	s.log.Debugw("products cached", "count", len(stripped))
}

// Clear removes both entry keys. Idempotent.
func (s *CacheStore) Clear() {
	if err := s.store.Delete(productsKey); err != nil {
		s.log.Warnw("cache clear failed", "error", &models.StorageError{Op: "delete", Err: err})
	}
	if err := s.store.Delete(timestampKey); err != nil {
		s.log.Warnw("cache clear failed", "error", &models.StorageError{Op: "delete", Err: err})
	}
}
