package viewport

import (
	"pdfgrip/internal/coords"
	"pdfgrip/internal/domain"
	"pdfgrip/internal/geometry"
	"pdfgrip/internal/lifecycle"
)

// Options configure the engine. Zero values fall back to usable defaults.
type Options struct {
	OverscanPx        float64
	SlotPoolSize      int
	DefaultPageHeight float64
	PageMarginPx      float64
	FitPadding        float64
	ZoomMode          domain.ZoomMode
	CustomScale       float64
}

func (o *Options) fill() {
	if o.SlotPoolSize < 1 {
		o.SlotPoolSize = 8
	}
	if o.DefaultPageHeight <= 0 {
		o.DefaultPageHeight = 1000
	}
	if o.CustomScale <= 0 {
		o.CustomScale = 1.0
	}
	if o.ZoomMode == "" {
		o.ZoomMode = domain.ZoomFitWidth
	}
	if o.FitPadding == 0 {
		o.FitPadding = coords.DefaultFitPadding
	}
}

// TickResult is what one engine frame produced: render loads to start,
// and the debounced current-page notification if the settled position
// changed.
type TickResult struct {
	Loads          []lifecycle.Load
	CurrentChanged bool
	Current        int
	Settled        bool
}

// Engine composes the geometry estimator, window calculator, lifecycle
// cache, tracker and scroll controller behind one facade. All input is
// funneled through it on the event loop; window recomputation is deferred
// to the next Tick so high-frequency scroll input coalesces into one
// recalculation per frame.
type Engine struct {
	opts    Options
	est     *geometry.Estimator
	cache   *lifecycle.Cache
	tracker *Tracker
	ctrl    *Controller

	container coords.Size
	sizes     []domain.PageSize // intrinsic sizes, zero until measured
	firstSize int               // index of first measured page, -1 if none

	window  geometry.Window
	current int
	dirty   bool
}

// NewEngine creates an engine with no document
func NewEngine(opts Options) *Engine {
	opts.fill()
	e := &Engine{
		opts:      opts,
		est:       geometry.NewEstimator(0, opts.DefaultPageHeight),
		cache:     lifecycle.NewCache(opts.SlotPoolSize),
		tracker:   NewTracker(),
		firstSize: -1,
		current:   -1,
		window:    geometry.Window{Render: geometry.EmptyRange(), Visible: geometry.EmptyRange(), Current: -1},
	}
	e.ctrl = NewController(e.est, e.tracker)
	return e
}

// SetDocument resets the engine for a document with pageCount pages and
// returns the new generation. Every in-flight load from the previous
// document becomes stale.
func (e *Engine) SetDocument(pageCount int) int64 {
	e.est = geometry.NewEstimator(pageCount, e.opts.DefaultPageHeight)
	e.cache.Reset(pageCount)
	e.ctrl.SetEstimator(e.est)
	e.sizes = make([]domain.PageSize, pageCount)
	e.firstSize = -1
	e.tracker.SetScrollOffset(0)
	e.current = -1
	e.window = geometry.Window{Render: geometry.EmptyRange(), Visible: geometry.EmptyRange(), Current: -1}
	e.dirty = true
	return e.cache.Generation()
}

// Generation returns the current document generation
func (e *Engine) Generation() int64 {
	return e.cache.Generation()
}

// PageCount returns the page count of the current document
func (e *Engine) PageCount() int {
	return e.est.PageCount()
}

// Viewport returns the tracker's current state
func (e *Engine) Viewport() geometry.Viewport {
	return e.tracker.Viewport()
}

// Window returns the last computed window
func (e *Engine) Window() geometry.Window {
	return e.window
}

// Status returns a page's lifecycle state
func (e *Engine) Status(pageIndex int) lifecycle.Status {
	return e.cache.Status(pageIndex)
}

// PageHeight returns a page's current on-screen height estimate
func (e *Engine) PageHeight(pageIndex int) float64 {
	return e.est.HeightOf(pageIndex)
}

// TotalHeight returns the full scrollable height
func (e *Engine) TotalHeight() float64 {
	return e.est.TotalHeight()
}

// Resize reports a new container size. Fit zoom modes change their
// effective scale with the container, so known heights are rescaled.
func (e *Engine) Resize(size coords.Size) {
	if size.Width <= 0 || size.Height < 0 {
		return
	}
	before := e.representativeScale()
	e.container = size
	e.tracker.Resize(size.Height)
	e.rescale(before)
	e.dirty = true
}

// SetZoom switches the zoom mode. Stored annotation coordinates are
// untouched; only the layout and overlay positions change.
func (e *Engine) SetZoom(mode domain.ZoomMode, customScale float64) {
	before := e.representativeScale()
	e.opts.ZoomMode = mode
	if customScale > 0 {
		e.opts.CustomScale = customScale
	}
	e.rescale(before)
	e.dirty = true
}

// ZoomMode returns the current zoom mode and custom scale
func (e *Engine) ZoomMode() (domain.ZoomMode, float64) {
	return e.opts.ZoomMode, e.opts.CustomScale
}

// ScrollBy applies manual scroll input, clamped to the scrollable range
// so the offset used for page origins never runs past the last page
func (e *Engine) ScrollBy(delta float64) {
	e.tracker.ScrollBy(delta)
	if max := e.maxScrollOffset(); e.tracker.ScrollOffset() > max {
		e.tracker.SetScrollOffset(max)
	}
	e.ctrl.OnUserScroll()
	e.dirty = true
}

func (e *Engine) maxScrollOffset() float64 {
	max := e.est.TotalHeight() - e.tracker.Viewport().ContainerHeight
	if max < 0 {
		max = 0
	}
	return max
}

// ScrollToPage navigates to a page programmatically
func (e *Engine) ScrollToPage(pageIndex int, behavior Behavior) int64 {
	token := e.ctrl.ScrollToPage(pageIndex, behavior)
	e.dirty = true
	return token
}

// HandleMeasurement applies a page's intrinsic size reported by the
// renderer. Stale generations are dropped. The scroll position is kept
// stable: when a page above the viewport changes height, the offset
// shifts by the same delta so the content on screen does not move.
func (e *Engine) HandleMeasurement(generation int64, pageIndex int, size domain.PageSize) {
	if generation != e.cache.Generation() {
		return
	}
	if pageIndex < 0 || pageIndex >= len(e.sizes) {
		return
	}
	oldHeight := e.est.HeightOf(pageIndex)
	oldTop := e.est.OffsetOf(pageIndex)

	e.sizes[pageIndex] = size
	if e.firstSize < 0 || pageIndex < e.firstSize {
		e.firstSize = pageIndex
		// First intrinsic size known: sharpen the heuristic for all
		// still-unmeasured pages.
		e.est.SetDefaultEstimate(size.Height*e.EffectiveScale(pageIndex) + e.opts.PageMarginPx)
	}

	newHeight := size.Height*e.EffectiveScale(pageIndex) + e.opts.PageMarginPx
	e.est.RecordMeasurement(pageIndex, newHeight)

	if oldTop+oldHeight <= e.tracker.ScrollOffset() {
		e.tracker.ScrollBy(newHeight - oldHeight)
	}

	e.cache.SetStatus(generation, pageIndex, lifecycle.StatusReady)
	e.ctrl.OnGeometryChanged()
	e.dirty = true
}

// HandleRenderError records a page render failure. The page keeps its
// prior height estimate so subsequent pages do not shift.
func (e *Engine) HandleRenderError(generation int64, pageIndex int, err error) {
	if e.cache.SetStatus(generation, pageIndex, lifecycle.StatusError) {
		e.dirty = true
	}
}

// Tick runs one engine frame: advance any smooth scroll, then recompute
// the window if anything changed since the last frame. CurrentChanged is
// reported only from user scrolling or at programmatic-scroll settle,
// never for pages an animation merely passes through.
func (e *Engine) Tick() TickResult {
	var res TickResult
	res.Current = e.current

	settled := e.ctrl.Tick()
	res.Settled = settled
	if settled || e.ctrl.Active() {
		e.dirty = true
	}

	if !e.dirty {
		return res
	}
	e.dirty = false

	e.window = geometry.ComputeWindow(e.tracker.Viewport(), e.est, e.opts.OverscanPx)
	res.Loads = e.cache.EnsureWindow(e.window.Render)

	// Suppress current-page notifications mid-animation.
	if e.ctrl.Active() {
		return res
	}
	if e.window.Current != e.current {
		e.current = e.window.Current
		res.Current = e.current
		res.CurrentChanged = e.current >= 0
	}
	return res
}

// CurrentPage returns the settled current page, -1 when no document
func (e *Engine) CurrentPage() int {
	return e.current
}

// EffectiveScale returns the actual multiplier applied to a page's
// intrinsic size. Different pages can differ mid-transition while their
// intrinsic sizes are still being discovered.
func (e *Engine) EffectiveScale(pageIndex int) float64 {
	return coords.ResolveScale(e.opts.ZoomMode, e.container, e.intrinsicSize(pageIndex), e.opts.CustomScale, e.opts.FitPadding)
}

// PageOrigin returns a page's top-left corner in container coordinates
func (e *Engine) PageOrigin(pageIndex int) coords.Point {
	return coords.Point{
		X: e.opts.FitPadding / 2,
		Y: e.est.OffsetOf(pageIndex) - e.tracker.ScrollOffset(),
	}
}

// MapToViewport positions a stored document-space rectangle on screen
// using the page's current effective scale
func (e *Engine) MapToViewport(pageIndex int, r domain.Rect) coords.Rect {
	scaled := coords.ToViewport(coords.FromDomain(r), e.EffectiveScale(pageIndex))
	origin := e.PageOrigin(pageIndex)
	scaled.X += origin.X
	scaled.Y += origin.Y
	return scaled
}

// MapToDocument converts a container-space point (e.g. a click) into
// document space on the given page
func (e *Engine) MapToDocument(pageIndex int, p coords.Point) coords.Point {
	return coords.ClickToDocument(p, e.PageOrigin(pageIndex), e.EffectiveScale(pageIndex))
}

// intrinsicSize returns the page's measured size, the first measured
// page's size as a stand-in, or a letter-sized default
func (e *Engine) intrinsicSize(pageIndex int) coords.Size {
	if pageIndex >= 0 && pageIndex < len(e.sizes) && e.sizes[pageIndex].Width > 0 {
		return coords.Size{Width: e.sizes[pageIndex].Width, Height: e.sizes[pageIndex].Height}
	}
	if e.firstSize >= 0 {
		return coords.Size{Width: e.sizes[e.firstSize].Width, Height: e.sizes[e.firstSize].Height}
	}
	return coords.Size{Width: 612, Height: 792}
}

// representativeScale is the scale of the reference page used to detect
// zoom/resize scale changes
func (e *Engine) representativeScale() float64 {
	if e.firstSize >= 0 {
		return e.EffectiveScale(e.firstSize)
	}
	return e.EffectiveScale(0)
}

// rescale adjusts known heights after a scale change, anchoring the
// viewport on the current page so the reader does not lose their place
func (e *Engine) rescale(before float64) {
	after := e.representativeScale()
	if before <= 0 || after <= 0 || before == after {
		return
	}

	anchor := e.current
	var frac float64
	if anchor >= 0 {
		h := e.est.HeightOf(anchor)
		if h > 0 {
			frac = (e.tracker.ScrollOffset() - e.est.OffsetOf(anchor)) / h
		}
	}

	e.est.ScaleBy(after / before)

	if anchor >= 0 {
		e.tracker.SetScrollOffset(e.est.OffsetOf(anchor) + frac*e.est.HeightOf(anchor))
	}
}
