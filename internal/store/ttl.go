package store

import (
	"container/list"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an entry stays fresh unless configured otherwise.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxEntries bounds the cache when no capacity is configured.
	DefaultMaxEntries = 500

	// DefaultSweepProbability is the fraction of puts that also sweep expired entries.
	DefaultSweepProbability = 0.1
)

// Entry is one cached value and its insertion time.
type Entry[V any] struct {
	Key      string
	Value    V
	StoredAt time.Time
}

// TTLCache is a concurrency-safe, bounded key/value store with expiry.
// Keys are case-folded. When full, the oldest-inserted entry is evicted;
// reads do not refresh an entry's position.
type TTLCache[V any] struct {
	mu sync.Mutex

	ttl        time.Duration
	maxEntries int

	// order holds *Entry[V] from oldest (front) to newest (back).
	order   *list.List
	entries map[string]*list.Element

	now              func() time.Time
	sweepProbability float64
	roll             func() float64
}

// Option configures a TTLCache.
type Option func(*ttlOptions)

type ttlOptions struct {
	now              func() time.Time
	sweepProbability float64
	roll             func() float64
}

// WithClock sets the clock used for insertion times and expiry.
func WithClock(now func() time.Time) Option {
	return func(o *ttlOptions) { o.now = now }
}

// WithSweepProbability sets the fraction of puts that sweep expired entries.
// Zero disables sweeping on write.
func WithSweepProbability(p float64) Option {
	return func(o *ttlOptions) { o.sweepProbability = p }
}

// WithRandom replaces the source of sweep rolls, which must return values in [0, 1).
func WithRandom(roll func() float64) Option {
	return func(o *ttlOptions) { o.roll = roll }
}

// NewTTLCache creates a cache. Non-positive ttl or maxEntries fall back to the defaults.
func NewTTLCache[V any](ttl time.Duration, maxEntries int, opts ...Option) *TTLCache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	o := ttlOptions{
		now:              time.Now,
		sweepProbability: DefaultSweepProbability,
		roll:             rand.Float64,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTLCache[V]{
		ttl:              ttl,
		maxEntries:       maxEntries,
		order:            list.New(),
		entries:          make(map[string]*list.Element),
		now:              o.now,
		sweepProbability: o.sweepProbability,
		roll:             o.roll,
	}
}

// Get returns the value for key while it is fresh. Expired entries are removed and reported as a miss.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	key = foldKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	entry := el.Value.(*Entry[V])
	if c.expired(entry, c.now()) {
		c.remove(el)
		return zero, false
	}
	return entry.Value, true
}

// Put stores value under key, replacing any existing entry and marking it newest.
func (c *TTLCache[V]) Put(key string, value V) {
	key = foldKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	for len(c.entries) >= c.maxEntries {
		c.remove(c.order.Front())
	}
	c.entries[key] = c.order.PushBack(&Entry[V]{Key: key, Value: value, StoredAt: now})

	if c.sweepProbability > 0 && c.roll() < c.sweepProbability {
		c.sweep(now)
	}
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *TTLCache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweep(c.now())
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL returns the configured time-to-live.
func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}

func (c *TTLCache[V]) sweep(now time.Time) int {
	removed := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if c.expired(el.Value.(*Entry[V]), now) {
			c.remove(el)
			removed++
		}
		el = next
	}
	return removed
}

func (c *TTLCache[V]) expired(e *Entry[V], now time.Time) bool {
	return now.Sub(e.StoredAt) >= c.ttl
}

func (c *TTLCache[V]) remove(el *list.Element) {
	entry := c.order.Remove(el).(*Entry[V])
	delete(c.entries, entry.Key)
}

func foldKey(key string) string {
	return strings.ToLower(key)
}
