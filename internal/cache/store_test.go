package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a Store's notion of time without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(capacity int, ttl time.Duration) (*Store, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	s := New(capacity, ttl)
	s.now = clk.now
	return s, clk
}

func TestStoreTTLRoundTrip(t *testing.T) {
	s, clk := newTestStore(10, time.Minute)

	s.Set("k", "v", time.Minute)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	// Past the TTL with no intervening read: miss.
	clk.advance(time.Minute + time.Second)
	_, ok = s.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Stats().Size, "expired entry should be dropped on read")
}

func TestStoreSlidingExpiry(t *testing.T) {
	s, clk := newTestStore(10, time.Minute)

	s.Set("k", "v", time.Minute)

	// Read at 40s extends the deadline to 1m40s.
	clk.advance(40 * time.Second)
	_, ok := s.Get("k")
	require.True(t, ok)

	// 80s after insertion the original deadline has passed, but the read
	// slid it forward, so the entry is still warm.
	clk.advance(40 * time.Second)
	_, ok = s.Get("k")
	assert.True(t, ok)

	// No further reads: the slid deadline passes and the entry dies.
	clk.advance(time.Minute + time.Second)
	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestStoreLRUEviction(t *testing.T) {
	s, _ := newTestStore(2, time.Hour)

	s.Set("team:1", "d1", 0)
	s.Set("team:2", "d2", 0)
	s.Set("team:3", "d3", 0)

	_, ok := s.Get("team:1")
	assert.False(t, ok, "oldest entry should be evicted at capacity")
	_, ok = s.Get("team:2")
	assert.True(t, ok)
	_, ok = s.Get("team:3")
	assert.True(t, ok)
}

func TestStoreGetPromotesAgainstEviction(t *testing.T) {
	s, _ := newTestStore(2, time.Hour)

	s.Set("a", 1, 0)
	s.Set("b", 2, 0)

	// Touch "a" so "b" becomes the LRU victim.
	_, ok := s.Get("a")
	require.True(t, ok)

	s.Set("c", 3, 0)

	_, ok = s.Get("a")
	assert.True(t, ok)
	_, ok = s.Get("b")
	assert.False(t, ok)
}

func TestStoreUpdateExistingKeyDoesNotEvict(t *testing.T) {
	s, _ := newTestStore(2, time.Hour)

	s.Set("a", 1, 0)
	s.Set("b", 2, 0)
	s.Set("a", 10, 0) // update in place, no eviction

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	_, ok = s.Get("b")
	assert.True(t, ok)
}

func TestStoreDeleteAndClear(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)

	s.Set("a", 1, 0)
	s.Set("b", 2, 0)

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"), "second delete reports absence")

	assert.Equal(t, 1, s.Clear())
	assert.Equal(t, 0, s.Stats().Size)
}

func TestStoreKeysSkipsExpired(t *testing.T) {
	s, clk := newTestStore(10, time.Hour)

	s.Set("short", 1, time.Minute)
	s.Set("long", 2, time.Hour)

	clk.advance(2 * time.Minute)

	keys := s.Keys()
	assert.Equal(t, []string{"long"}, keys)
}

func TestStoreStats(t *testing.T) {
	s, _ := newTestStore(5, time.Hour)

	s.Set("a", 1, 0)
	s.Set("b", 2, 0)

	st := s.Stats()
	assert.Equal(t, 2, st.Size)
	assert.Equal(t, 5, st.Capacity)
}
