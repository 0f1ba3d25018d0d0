package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pdfgrip/internal/geometry"
)

func TestEnsureWindowMountsAndPromotes(t *testing.T) {
	t.Parallel()
	c := NewCache(8)
	c.Reset(10)

	loads := c.EnsureWindow(geometry.Range{Low: 1, High: 4})

	require.Len(t, loads, 4)
	for i, load := range loads {
		require.Equal(t, i+1, load.PageIndex)
		require.Equal(t, c.Generation(), load.Generation)
		require.Equal(t, StatusLoading, c.Status(load.PageIndex))
	}
	require.Equal(t, StatusUnmounted, c.Status(0))
	require.Equal(t, StatusUnmounted, c.Status(5))
}

func TestEnsureWindowIdempotent(t *testing.T) {
	t.Parallel()
	c := NewCache(8)
	c.Reset(10)

	first := c.EnsureWindow(geometry.Range{Low: 0, High: 3})
	require.Len(t, first, 4)

	second := c.EnsureWindow(geometry.Range{Low: 0, High: 3})
	require.Empty(t, second, "same window twice must not issue duplicate loads")
}

func TestPoolBoundsLiveInstances(t *testing.T) {
	t.Parallel()
	c := NewCache(3)
	c.Reset(100)

	loads := c.EnsureWindow(geometry.Range{Low: 10, High: 20})

	require.Len(t, loads, 3, "loads never exceed the slot pool")
	require.Equal(t, 3, c.MountedCount())
	require.Equal(t, StatusLoading, c.Status(10))
	require.Equal(t, StatusPlaceholder, c.Status(13), "pages beyond the pool wait as placeholders")
}

func TestEvictionRecyclesSlotsFIFO(t *testing.T) {
	t.Parallel()
	c := NewCache(4)
	c.Reset(20)

	loads := c.EnsureWindow(geometry.Range{Low: 0, High: 3})
	require.Len(t, loads, 4)
	for _, l := range loads {
		require.True(t, c.SetStatus(l.Generation, l.PageIndex, StatusReady))
	}

	// Slide the window; the evicted pages' ordinals come back in release
	// order for the entering pages.
	loads = c.EnsureWindow(geometry.Range{Low: 2, High: 5})
	require.Len(t, loads, 2)
	require.Equal(t, 4, loads[0].PageIndex)
	require.Equal(t, 5, loads[1].PageIndex)
	require.Equal(t, 0, loads[0].Ordinal, "page 0's slot is reused first")
	require.Equal(t, 1, loads[1].Ordinal)

	require.Equal(t, StatusUnmounted, c.Status(0))
	require.Equal(t, StatusUnmounted, c.Status(1))
	require.Equal(t, StatusReady, c.Status(2), "pages staying in the window keep their state")
}

func TestErrorRetriesOnlyAfterLeavingWindow(t *testing.T) {
	t.Parallel()
	c := NewCache(8)
	c.Reset(10)

	loads := c.EnsureWindow(geometry.Range{Low: 2, High: 4})
	require.Len(t, loads, 3)
	require.True(t, c.SetStatus(c.Generation(), 3, StatusError))
	require.True(t, c.SetStatus(c.Generation(), 2, StatusReady))
	require.True(t, c.SetStatus(c.Generation(), 4, StatusReady))

	// Same window again: the failed page must not loop-retry in place.
	loads = c.EnsureWindow(geometry.Range{Low: 2, High: 4})
	require.Empty(t, loads)
	require.Equal(t, StatusError, c.Status(3))

	// Scroll away, then back: the error resets and the page retries.
	c.EnsureWindow(geometry.Range{Low: 7, High: 9})
	require.Equal(t, StatusUnmounted, c.Status(3))

	loads = c.EnsureWindow(geometry.Range{Low: 2, High: 4})
	pages := make([]int, 0, len(loads))
	for _, l := range loads {
		pages = append(pages, l.PageIndex)
	}
	require.Contains(t, pages, 3, "page 3 loads again after re-entering")
}

func TestErrorPageRetryKeepsNeighborsMounted(t *testing.T) {
	t.Parallel()
	c := NewCache(8)
	c.Reset(10)

	loads := c.EnsureWindow(geometry.Range{Low: 2, High: 4})
	for _, l := range loads {
		st := StatusReady
		if l.PageIndex == 3 {
			st = StatusError
		}
		require.True(t, c.SetStatus(l.Generation, l.PageIndex, st))
	}

	// Widen the window so page 3 stays inside while the band changes.
	c.EnsureWindow(geometry.Range{Low: 1, High: 5})
	require.Equal(t, StatusReady, c.Status(2))
	require.Equal(t, StatusReady, c.Status(4))
	require.Equal(t, StatusError, c.Status(3), "page 3 never left, so it stays failed")
}

func TestStaleGenerationResultsDropped(t *testing.T) {
	t.Parallel()
	c := NewCache(8)
	c.Reset(5)

	loads := c.EnsureWindow(geometry.Range{Low: 0, High: 2})
	require.NotEmpty(t, loads)
	oldGen := c.Generation()

	c.Reset(5)
	c.EnsureWindow(geometry.Range{Low: 0, High: 2})

	require.False(t, c.SetStatus(oldGen, 0, StatusReady), "a result from the old document is ignored")
	require.Equal(t, StatusLoading, c.Status(0))
}

func TestSetStatusRejectsNonLoadingPages(t *testing.T) {
	t.Parallel()
	c := NewCache(8)
	c.Reset(5)
	c.EnsureWindow(geometry.Range{Low: 0, High: 1})

	require.False(t, c.SetStatus(c.Generation(), 4, StatusReady), "unmounted page")
	require.False(t, c.SetStatus(c.Generation(), 0, StatusPlaceholder), "only ready/error are callback results")

	require.True(t, c.SetStatus(c.Generation(), 0, StatusReady))
	require.False(t, c.SetStatus(c.Generation(), 0, StatusReady), "a second callback for a settled page is dropped")
}

func TestEnsureWindowClampsRange(t *testing.T) {
	t.Parallel()
	c := NewCache(8)
	c.Reset(3)

	loads := c.EnsureWindow(geometry.Range{Low: -5, High: 10})
	require.Len(t, loads, 3)
	require.Equal(t, 0, loads[0].PageIndex)
	require.Equal(t, 2, loads[2].PageIndex)
}
