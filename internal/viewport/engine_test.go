package viewport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pdfgrip/internal/coords"
	"pdfgrip/internal/domain"
	"pdfgrip/internal/lifecycle"
)

func newTestEngine(pageCount int) *Engine {
	e := NewEngine(Options{
		OverscanPx:        200,
		SlotPoolSize:      8,
		DefaultPageHeight: 1000,
		PageMarginPx:      0,
		ZoomMode:          domain.ZoomCustom,
		CustomScale:       1.0,
	})
	e.Resize(coords.Size{Width: 900, Height: 800})
	e.SetDocument(pageCount)
	return e
}

func TestEngineFirstTickIssuesLoads(t *testing.T) {
	t.Parallel()
	e := newTestEngine(50)

	res := e.Tick()

	require.NotEmpty(t, res.Loads, "initial window must load pages")
	require.LessOrEqual(t, len(res.Loads), 8, "loads bounded by the slot pool")
	require.Equal(t, 0, res.Loads[0].PageIndex)

	// Nothing changed: the next tick coalesces into a no-op.
	res = e.Tick()
	require.Empty(t, res.Loads)
}

func TestEngineMeasurementMarksReady(t *testing.T) {
	t.Parallel()
	e := newTestEngine(10)
	gen := e.Generation()
	e.Tick()

	e.HandleMeasurement(gen, 0, domain.PageSize{Width: 612, Height: 792})

	require.Equal(t, lifecycle.StatusReady, e.Status(0))
	require.Equal(t, 792.0, e.PageHeight(0))
	require.Equal(t, 792.0, e.est.DefaultEstimate(),
		"the first measurement sharpens the estimate for unmeasured pages")
}

func TestEngineStaleMeasurementDropped(t *testing.T) {
	t.Parallel()
	e := newTestEngine(10)
	oldGen := e.Generation()
	e.Tick()

	e.SetDocument(10)
	e.Tick()

	e.HandleMeasurement(oldGen, 0, domain.PageSize{Width: 612, Height: 99999})

	require.NotEqual(t, lifecycle.StatusReady, e.Status(0))
	require.Equal(t, 1000.0, e.PageHeight(0), "stale measurements never touch geometry")
}

func TestEngineScrollStabilityCompensation(t *testing.T) {
	t.Parallel()
	e := newTestEngine(20)
	gen := e.Generation()
	e.Tick()
	e.HandleMeasurement(gen, 0, domain.PageSize{Width: 612, Height: 1000})

	// Jump deep into the document, then measure a page fully above the
	// viewport as taller than estimated. The content on screen must not
	// shift: the offset moves by the same delta.
	e.ScrollToPage(10, BehaviorInstant)
	e.Tick()
	before := e.Viewport().ScrollOffset
	require.True(t, e.Window().Render.Contains(9))

	// Page 9's interval [9000, 10000) sits entirely above the offset.
	e.HandleMeasurement(gen, 9, domain.PageSize{Width: 612, Height: 1500})

	require.Equal(t, before+500, e.Viewport().ScrollOffset,
		"offset shifts by the height delta of the page above")
}

func TestEngineCurrentSuppressedWhileAnimating(t *testing.T) {
	t.Parallel()
	e := newTestEngine(30)
	e.Tick()

	e.ScrollToPage(20, BehaviorSmooth)

	sawSettle := false
	for i := 0; i < 1000 && !sawSettle; i++ {
		res := e.Tick()
		if res.Settled {
			sawSettle = true
			// The settle tick or the one after may report the change.
			continue
		}
		require.False(t, res.CurrentChanged,
			"pages passed through mid-animation must not fire current-page changes")
	}
	require.True(t, sawSettle)

	res := e.Tick()
	_ = res
	require.Equal(t, 20, e.CurrentPage())
}

func TestEngineZoomRescalesAndAnchors(t *testing.T) {
	t.Parallel()
	e := newTestEngine(10)
	gen := e.Generation()
	e.Tick()
	e.HandleMeasurement(gen, 0, domain.PageSize{Width: 612, Height: 792})

	require.Equal(t, 1.0, e.EffectiveScale(0))

	e.SetZoom(domain.ZoomCustom, 2.0)

	require.Equal(t, 2.0, e.EffectiveScale(0))
	require.Equal(t, 1584.0, e.PageHeight(0), "measured heights scale with the zoom change")
}

func TestEngineAnnotationMapping(t *testing.T) {
	t.Parallel()
	e := newTestEngine(10)
	gen := e.Generation()
	e.Tick()
	e.HandleMeasurement(gen, 0, domain.PageSize{Width: 612, Height: 792})
	e.SetZoom(domain.ZoomCustom, 1.5)

	stored := domain.Rect{X: 50, Y: 100, Width: 20, Height: 10}
	vr := e.MapToViewport(0, stored)

	origin := e.PageOrigin(0)
	require.Equal(t, origin.X+75.0, vr.X)
	require.Equal(t, origin.Y+150.0, vr.Y)
	require.Equal(t, 30.0, vr.Width)
	require.Equal(t, 15.0, vr.Height)

	// A click at the rect's corner maps back to the stored coordinates.
	back := e.MapToDocument(0, coords.Point{X: vr.X, Y: vr.Y})
	require.InDelta(t, stored.X, back.X, 1e-9)
	require.InDelta(t, stored.Y, back.Y, 1e-9)
}

func TestEngineOverscrollClampsToContentEnd(t *testing.T) {
	t.Parallel()
	e := newTestEngine(3)
	e.Tick()

	// 3 pages at 1000px in an 800px container: the offset can go to 2200
	// at most, however far the user scrolls.
	e.ScrollBy(10000)
	require.Equal(t, 2200.0, e.Viewport().ScrollOffset)

	e.Tick()
	w := e.Window()
	require.False(t, w.Visible.IsEmpty())
	for p := w.Visible.Low; p <= w.Visible.High; p++ {
		top := e.PageOrigin(p).Y
		bottom := top + e.PageHeight(p)
		require.Greater(t, bottom, 0.0, "visible page %d sits above the viewport", p)
		require.Less(t, top, 800.0, "visible page %d sits below the viewport", p)
	}

	// Further scrolling past the end does not compound.
	e.ScrollBy(5000)
	require.Equal(t, 2200.0, e.Viewport().ScrollOffset)

	e.ScrollBy(-99999)
	require.Equal(t, 0.0, e.Viewport().ScrollOffset)
}

func TestEngineOverscrollShortDocument(t *testing.T) {
	t.Parallel()
	e := newTestEngine(1)
	gen := e.Generation()
	e.Tick()
	e.HandleMeasurement(gen, 0, domain.PageSize{Width: 612, Height: 500})

	// Content shorter than the container: the only valid offset is 0.
	e.ScrollBy(500)
	require.Equal(t, 0.0, e.Viewport().ScrollOffset)
}

func TestEngineEmptyDocument(t *testing.T) {
	t.Parallel()
	e := newTestEngine(0)

	res := e.Tick()

	require.Empty(t, res.Loads)
	require.Equal(t, -1, e.CurrentPage())
	require.True(t, e.Window().Render.IsEmpty())
}
