// Package lifecycle tracks per-page renderer state and recycles a bounded
// pool of renderer slots as the render window slides, so the number of
// live page instances stays fixed regardless of document length.
package lifecycle

import (
	"log"

	"pdfgrip/internal/geometry"
)

// Status is a page's lifecycle state
type Status string

const (
	StatusUnmounted   Status = "unmounted"
	StatusPlaceholder Status = "placeholder"
	StatusLoading     Status = "loading"
	StatusReady       Status = "ready"
	StatusError       Status = "error"
)

// NoOrdinal marks a page without a renderer slot. Ordinals are assigned
// only while a page is loading, ready or in error.
const NoOrdinal = -1

// Load identifies a render request handed back to the driver. Results
// must echo the generation so work from a replaced document is dropped.
type Load struct {
	PageIndex  int
	Ordinal    int
	Generation int64
}

// Cache owns the slot pool. It is mutated exclusively through
// EnsureWindow and SetStatus on the event loop; EnsureWindow is
// idempotent, so calling it on every scroll tick is safe.
type Cache struct {
	generation int64
	poolSize   int
	statuses   []Status
	ordinals   []int
	freeSlots  []int           // FIFO of released ordinals
	window     geometry.Range
}

// NewCache creates a cache whose pool holds poolSize renderer slots
func NewCache(poolSize int) *Cache {
	if poolSize < 1 {
		poolSize = 1
	}
	c := &Cache{poolSize: poolSize, window: geometry.EmptyRange()}
	c.Reset(0)
	return c
}

// Reset prepares the cache for a new document and bumps the generation,
// invalidating every in-flight load from the previous one
func (c *Cache) Reset(pageCount int) {
	c.generation++
	c.statuses = make([]Status, pageCount)
	c.ordinals = make([]int, pageCount)
	for i := range c.statuses {
		c.statuses[i] = StatusUnmounted
		c.ordinals[i] = NoOrdinal
	}
	c.freeSlots = c.freeSlots[:0]
	for i := 0; i < c.poolSize; i++ {
		c.freeSlots = append(c.freeSlots, i)
	}
	c.window = geometry.EmptyRange()
}

// Generation returns the current document generation
func (c *Cache) Generation() int64 {
	return c.generation
}

// Status returns a page's lifecycle state
func (c *Cache) Status(pageIndex int) Status {
	if pageIndex < 0 || pageIndex >= len(c.statuses) {
		return StatusUnmounted
	}
	return c.statuses[pageIndex]
}

// Ordinal returns the renderer slot assigned to a page, or NoOrdinal
func (c *Cache) Ordinal(pageIndex int) int {
	if pageIndex < 0 || pageIndex >= len(c.ordinals) {
		return NoOrdinal
	}
	return c.ordinals[pageIndex]
}

// MountedCount returns how many pages currently hold a renderer slot
func (c *Cache) MountedCount() int {
	return c.poolSize - len(c.freeSlots)
}

// Window returns the render range from the last EnsureWindow call
func (c *Cache) Window() geometry.Range {
	return c.window
}

// EnsureWindow reconciles page states with a new render range. Pages
// leaving the range release their slot and drop back to unmounted; pages
// entering become placeholders, error pages among them losing their error
// so they retry. Placeholders are then promoted to loading as slots allow,
// in ascending page order. The returned loads are the renders the caller must
// start. Calling EnsureWindow twice with the same range returns nothing
// the second time.
func (c *Cache) EnsureWindow(r geometry.Range) []Load {
	if r.Low < 0 || r.High >= len(c.statuses) {
		r = clampRange(r, len(c.statuses))
	}

	// Evict pages that left the range.
	for i, st := range c.statuses {
		if r.Contains(i) || st == StatusUnmounted {
			continue
		}
		c.release(i)
		c.statuses[i] = StatusUnmounted
	}

	// Admit pages that entered. An error page re-entering the range is
	// reset to placeholder so it retries; an error page that never left
	// stays failed until it leaves and comes back.
	if !r.IsEmpty() {
		for i := r.Low; i <= r.High; i++ {
			switch c.statuses[i] {
			case StatusUnmounted:
				c.statuses[i] = StatusPlaceholder
			case StatusError:
				if !c.window.Contains(i) {
					c.release(i)
					c.statuses[i] = StatusPlaceholder
				}
			}
		}
	}

	c.window = r
	return c.promote(r)
}

// promote turns placeholders into loading pages while slots remain
func (c *Cache) promote(r geometry.Range) []Load {
	var loads []Load
	if r.IsEmpty() {
		return loads
	}
	for i := r.Low; i <= r.High && len(c.freeSlots) > 0; i++ {
		if c.statuses[i] != StatusPlaceholder {
			continue
		}
		ord := c.freeSlots[0]
		c.freeSlots = c.freeSlots[1:]
		c.ordinals[i] = ord
		c.statuses[i] = StatusLoading
		loads = append(loads, Load{PageIndex: i, Ordinal: ord, Generation: c.generation})
	}
	return loads
}

// SetStatus applies a render callback result. Results carrying a stale
// generation are ignored: a slow decode from a replaced document must not
// touch the new document's state. Results for pages already evicted from
// the window are dropped the same way.
func (c *Cache) SetStatus(generation int64, pageIndex int, status Status) bool {
	if generation != c.generation {
		log.Printf("lifecycle: dropping stale result for page %d (gen %d != %d)", pageIndex, generation, c.generation)
		return false
	}
	if pageIndex < 0 || pageIndex >= len(c.statuses) {
		return false
	}
	if c.statuses[pageIndex] != StatusLoading {
		return false
	}
	switch status {
	case StatusReady, StatusError:
		c.statuses[pageIndex] = status
	default:
		return false
	}
	return true
}

func (c *Cache) release(pageIndex int) {
	if ord := c.ordinals[pageIndex]; ord != NoOrdinal {
		c.freeSlots = append(c.freeSlots, ord)
		c.ordinals[pageIndex] = NoOrdinal
	}
}

func clampRange(r geometry.Range, n int) geometry.Range {
	if r.IsEmpty() || n == 0 {
		return geometry.EmptyRange()
	}
	if r.Low < 0 {
		r.Low = 0
	}
	if r.High >= n {
		r.High = n - 1
	}
	if r.Low > r.High {
		return geometry.EmptyRange()
	}
	return r
}
