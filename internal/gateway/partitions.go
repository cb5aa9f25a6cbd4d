package gateway

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// namePrefix tags every partition owned by this gateway so stale versions
// can be swept without touching foreign state.
const namePrefix = "retro-pc-store"

// Resource classes, each backed by its own partition.
const (
	classImages   = "images"
	classStatic   = "static"
	classDynamic  = "dynamic"
	classAPI      = "api"
	classFallback = "fallback"
)

// CachedResponse is a fully buffered upstream response.
type CachedResponse struct {
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// Partition is a concurrency-safe response cache. Writes are
// last-writer-wins; entries are idempotent re-derivations of the same
// resource, so racing writers converge.
type Partition struct {
	mu      sync.RWMutex
	entries map[string]*CachedResponse
}

func NewPartition() *Partition {
	return &Partition{entries: map[string]*CachedResponse{}}
}

func (p *Partition) Get(key string) (*CachedResponse, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	resp, ok := p.entries[key]
	return resp, ok
}

func (p *Partition) Put(key string, resp *CachedResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[key] = resp
}

func (p *Partition) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, key)
}

func (p *Partition) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = map[string]*CachedResponse{}
}

func (p *Partition) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// PartitionSet owns the versioned partitions. Partitions from older
// versions survive until an activation sweeps them.
type PartitionSet struct {
	mu      sync.Mutex
	version string
	parts   map[string]*Partition
}

func NewPartitionSet(version string) *PartitionSet {
	return &PartitionSet{
		version: version,
		parts:   map[string]*Partition{},
	}
}

func (s *PartitionSet) Version() string {
	return s.version
}

// Name returns the versioned partition name for a resource class.
func (s *PartitionSet) Name(class string) string {
	return fmt.Sprintf("%s-%s-%s", namePrefix, s.version, class)
}

// Open returns the partition for a class, creating it on first use.
func (s *PartitionSet) Open(class string) *Partition {
	name := s.Name(class)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[name]
	if !ok {
		p = NewPartition()
		s.parts[name] = p
	}
	return p
}

// OpenNamed is like Open but takes a full partition name. Used when
// rehydrating partitions tagged by an earlier version.
func (s *PartitionSet) OpenNamed(name string) *Partition {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[name]
	if !ok {
		p = NewPartition()
		s.parts[name] = p
	}
	return p
}

func (s *PartitionSet) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.parts))
	for name := range s.parts {
		names = append(names, name)
	}
	return names
}

func (s *PartitionSet) Drop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parts, name)
}

// DropStale removes every owned partition tagged with a different version
// and reports how many were swept.
func (s *PartitionSet) DropStale() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for name := range s.parts {
		if strings.HasPrefix(name, namePrefix+"-") && !strings.Contains(name, s.version) {
			delete(s.parts, name)
			dropped++
		}
	}
	return dropped
}
