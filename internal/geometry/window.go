package geometry

import "sort"

// Range is an inclusive band of page indices. An empty band is
// represented by Low > High.
type Range struct {
	Low  int
	High int
}

// EmptyRange returns the canonical empty band
func EmptyRange() Range { return Range{Low: 0, High: -1} }

// IsEmpty reports whether the band contains no pages
func (r Range) IsEmpty() bool { return r.Low > r.High }

// Len returns the number of pages in the band
func (r Range) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.High - r.Low + 1
}

// Contains reports whether a page index falls inside the band
func (r Range) Contains(i int) bool { return i >= r.Low && i <= r.High }

// Viewport is the scrollable container's current state, mutated only by
// real scroll and resize input
type Viewport struct {
	ScrollOffset    float64
	ContainerHeight float64
}

// Window is the result of a window computation: the band of pages to
// mount as real renderer instances, the band actually visible, and the
// single current page reported to the rest of the app.
type Window struct {
	Render  Range
	Visible Range
	Current int // -1 when the document is empty
}

// ComputeWindow determines which pages must be mounted for the given
// viewport. The visible band is the pages whose intervals intersect the
// raw viewport; the render band additionally applies the overscan margin
// and one buffer page on each side to mask mount latency while scrolling.
// The scroll offset is clamped to the scrollable area first to tolerate
// overscroll bounce.
func ComputeWindow(vp Viewport, est *Estimator, overscanPx float64) Window {
	n := est.PageCount()
	if n == 0 {
		return Window{Render: EmptyRange(), Visible: EmptyRange(), Current: -1}
	}

	offset := clampOffset(vp.ScrollOffset, est.TotalHeight(), vp.ContainerHeight)

	visible := intersectingRange(est, offset, offset+vp.ContainerHeight)
	render := intersectingRange(est, offset-overscanPx, offset+vp.ContainerHeight+overscanPx)

	// One buffer page beyond the overscan on each side keeps the next
	// page warm during fast scrolls.
	if !render.IsEmpty() {
		if render.Low > 0 {
			render.Low--
		}
		if render.High < n-1 {
			render.High++
		}
	}

	return Window{
		Render:  render,
		Visible: visible,
		Current: currentPage(est, visible, offset, vp.ContainerHeight),
	}
}

// currentPage picks the single page reported as current: the first
// visible page whose geometric center falls inside the viewport. The
// center rule keeps the value stable when two pages straddle the
// viewport boundary equally.
func currentPage(est *Estimator, visible Range, offset, height float64) int {
	if visible.IsEmpty() {
		return -1
	}
	for i := visible.Low; i <= visible.High; i++ {
		center := est.OffsetOf(i) + est.HeightOf(i)/2
		if center >= offset && center < offset+height {
			return i
		}
	}
	// No center inside the viewport (a page taller than the container):
	// the page covering the viewport center wins.
	mid := offset + height/2
	for i := visible.Low; i <= visible.High; i++ {
		if est.OffsetOf(i) <= mid && mid < est.OffsetOf(i)+est.HeightOf(i) {
			return i
		}
	}
	return visible.Low
}

// intersectingRange finds all pages whose [top, top+height) interval
// intersects [lo, hi) via binary search over the offset table
func intersectingRange(est *Estimator, lo, hi float64) Range {
	n := est.PageCount()
	if n == 0 || hi <= 0 || lo >= est.TotalHeight() || hi <= lo {
		return EmptyRange()
	}

	// First page whose bottom edge is past lo.
	first := sort.Search(n, func(i int) bool {
		return est.OffsetOf(i)+est.HeightOf(i) > lo
	})
	if first >= n {
		return EmptyRange()
	}

	last := first
	for last+1 < n && est.OffsetOf(last+1) < hi {
		last++
	}
	// The search can land on a zero-height degenerate page; verify the
	// first page really intersects.
	if est.OffsetOf(first) >= hi {
		return EmptyRange()
	}
	return Range{Low: first, High: last}
}

func clampOffset(offset, total, container float64) float64 {
	max := total - container
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
