package kvstore

// Store is the minimal key-value capability the cache layer depends on. It
// stands in for the browser's persistent local storage; implementations must
// be safe for concurrent use.
type Store interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}
