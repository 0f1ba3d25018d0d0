// Package viewport drives the virtualization core: it owns the scroll
// state, executes programmatic navigation, and reconciles both with the
// window calculator without feedback loops.
package viewport

import "pdfgrip/internal/geometry"

// Tracker owns the scrollable container's state. The scroll offset and
// container height change only through real scroll/resize input or the
// scroll controller; everything else reads.
type Tracker struct {
	vp geometry.Viewport
}

// NewTracker creates a tracker with a zero viewport
func NewTracker() *Tracker {
	return &Tracker{}
}

// Viewport returns the current viewport state
func (t *Tracker) Viewport() geometry.Viewport {
	return t.vp
}

// ScrollOffset returns the current scroll position
func (t *Tracker) ScrollOffset() float64 {
	return t.vp.ScrollOffset
}

// SetScrollOffset moves the viewport to an absolute position. Negative
// positions clamp to zero; the upper bound is clamped by the window
// calculator against the live geometry.
func (t *Tracker) SetScrollOffset(offset float64) {
	if offset < 0 {
		offset = 0
	}
	t.vp.ScrollOffset = offset
}

// ScrollBy moves the viewport by a delta
func (t *Tracker) ScrollBy(delta float64) {
	t.SetScrollOffset(t.vp.ScrollOffset + delta)
}

// Resize records a new container height
func (t *Tracker) Resize(height float64) {
	if height < 0 {
		height = 0
	}
	t.vp.ContainerHeight = height
}
