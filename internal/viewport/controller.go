package viewport

import (
	"math"

	"pdfgrip/internal/geometry"
)

// Behavior selects how a programmatic scroll reaches its target
type Behavior string

const (
	BehaviorSmooth  Behavior = "smooth"
	BehaviorInstant Behavior = "instant"
)

// settleEpsilon is the distance below which a smooth scroll snaps to its
// target and settles.
const settleEpsilon = 0.5

// Controller executes scroll-to-page requests against the tracker. Each
// request gets a monotonically increasing token; when a new request
// arrives before the previous one settles, the older one becomes a no-op.
// While a programmatic scroll is active the engine suppresses
// current-page notifications so pages merely passed through never fire.
type Controller struct {
	est     *geometry.Estimator
	tracker *Tracker

	token      int64
	active     bool
	targetPage int // page of the most recent request, -1 when none

	// set when the user scrolls manually after a request; blocks nudging
	userScrolled bool

	stepFraction float64
	minStep      float64
}

// NewController creates a controller over the given geometry and tracker
func NewController(est *geometry.Estimator, tracker *Tracker) *Controller {
	return &Controller{
		est:          est,
		tracker:      tracker,
		targetPage:   -1,
		stepFraction: 0.3,
		minStep:      24,
	}
}

// SetEstimator swaps the geometry table when a new document loads
func (c *Controller) SetEstimator(est *geometry.Estimator) {
	c.est = est
	c.active = false
	c.targetPage = -1
}

// Active reports whether a programmatic scroll is in flight
func (c *Controller) Active() bool {
	return c.active
}

// TargetPage returns the page of the most recent request, -1 when none
func (c *Controller) TargetPage() int {
	return c.targetPage
}

// ScrollToPage requests navigation to a page. The returned token
// identifies the request; a stale token observed at settle time means a
// newer request superseded this one. Instant requests settle immediately.
func (c *Controller) ScrollToPage(pageIndex int, behavior Behavior) int64 {
	if pageIndex < 0 {
		pageIndex = 0
	}
	if n := c.est.PageCount(); pageIndex >= n && n > 0 {
		pageIndex = n - 1
	}

	c.token++
	c.targetPage = pageIndex
	c.userScrolled = false

	if behavior == BehaviorInstant {
		c.tracker.SetScrollOffset(c.targetOffset())
		c.active = false
		return c.token
	}

	c.active = true
	return c.token
}

// Tick advances an active smooth scroll one animation step. It returns
// true when the scroll settled on this step.
func (c *Controller) Tick() bool {
	if !c.active {
		return false
	}

	target := c.targetOffset()
	current := c.tracker.ScrollOffset()
	dist := target - current

	if math.Abs(dist) <= settleEpsilon {
		c.tracker.SetScrollOffset(target)
		c.active = false
		return true
	}

	step := math.Abs(dist) * c.stepFraction
	if step < c.minStep {
		step = c.minStep
	}
	if step > math.Abs(dist) {
		step = math.Abs(dist)
	}
	if dist < 0 {
		step = -step
	}
	c.tracker.ScrollBy(step)
	return false
}

// OnUserScroll records manual input. The user's intent wins: any active
// programmatic scroll is cancelled and later geometry nudges are blocked.
func (c *Controller) OnUserScroll() {
	c.userScrolled = true
	c.active = false
}

// OnGeometryChanged re-aims the controller after new measurements shift
// page offsets. An active scroll simply heads for the corrected target;
// a settled one is nudged back onto its page, provided the user has not
// scrolled manually in the interim.
func (c *Controller) OnGeometryChanged() {
	if c.targetPage < 0 || c.userScrolled {
		return
	}
	if !c.active {
		c.tracker.SetScrollOffset(c.targetOffset())
	}
}

func (c *Controller) targetOffset() float64 {
	offset := c.est.OffsetOf(c.targetPage)
	max := c.est.TotalHeight() - c.tracker.Viewport().ContainerHeight
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	return offset
}
