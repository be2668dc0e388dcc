// Package cache implements the in-process bounded caches that keep hot
// fixture, team and offer reads off the database.  A Store is a key/value
// map with LRU eviction and sliding expiry: reads extend an entry's life, so
// recently-used items stay warm while idle ones age out.
//
// Stores never report errors.  A cache that misbehaves is treated as a cache
// that always misses, and correctness falls back to the system of record.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Stats describes the current occupancy of a Store.
type Stats struct {
	Size     int `json:"size"`
	Capacity int `json:"capacity"`
}

// entry is one cached value together with its expiry bookkeeping.  ttl is
// kept per entry so a successful Get can slide expiresAt forward by the same
// duration the entry was stored with.
type entry struct {
	key       string
	value     any
	ttl       time.Duration
	expiresAt time.Time
}

// Store is a bounded key/value cache.  Eviction is least-recently-used and
// triggers only when an insertion would exceed capacity; expiry is sliding.
// All methods are safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	capacity   int
	defaultTTL time.Duration
	ll         *list.List               // front = most recently used
	items      map[string]*list.Element // key -> element holding *entry

	now func() time.Time // test hook
}

// New constructs a Store with the given capacity and default TTL.  Capacity
// must be at least 1; values below are clamped.
func New(capacity int, defaultTTL time.Duration) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

// Get returns the value stored under key.  A hit promotes the entry to
// most-recently-used and slides its expiry forward by its TTL; an expired
// entry is removed and reported as a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if s.now().After(e.expiresAt) {
		s.removeElement(el)
		return nil, false
	}
	e.expiresAt = s.now().Add(e.ttl)
	s.ll.MoveToFront(el)
	return e.value, true
}

// Set stores value under key for the given TTL.  A non-positive ttl falls
// back to the store's default.  Updating an existing key refreshes its value
// and expiry in place; inserting past capacity evicts the LRU entry first.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.ttl = ttl
		e.expiresAt = s.now().Add(ttl)
		s.ll.MoveToFront(el)
		return
	}
	if s.ll.Len() >= s.capacity {
		if tail := s.ll.Back(); tail != nil {
			s.removeElement(tail)
		}
	}
	e := &entry{key: key, value: value, ttl: ttl, expiresAt: s.now().Add(ttl)}
	s.items[key] = s.ll.PushFront(e)
}

// Delete removes key from the store and reports whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return false
	}
	s.removeElement(el)
	return true
}

// Clear empties the store and returns the number of entries removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ll.Len()
	s.ll.Init()
	s.items = make(map[string]*list.Element)
	return n
}

// Keys returns the keys of all non-expired entries, in no particular order.
// Expired entries encountered during the scan are dropped.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	keys := make([]string, 0, len(s.items))
	var expired []*list.Element
	for _, el := range s.items {
		e := el.Value.(*entry)
		if now.After(e.expiresAt) {
			expired = append(expired, el)
			continue
		}
		keys = append(keys, e.key)
	}
	for _, el := range expired {
		s.removeElement(el)
	}
	return keys
}

// Stats reports the store's current size and configured capacity.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Size: s.ll.Len(), Capacity: s.capacity}
}

// removeElement drops an element from both the list and the index.  Caller
// must hold the mutex.
func (s *Store) removeElement(el *list.Element) {
	s.ll.Remove(el)
	delete(s.items, el.Value.(*entry).key)
}
