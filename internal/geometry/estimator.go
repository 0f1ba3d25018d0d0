// Package geometry is the single source of truth for page layout: a
// per-page height table and the derived prefix-sum offsets that the
// window calculator and scroll controller consume. The rendering surface
// is a pure consumer of these offsets and never feeds measurements back
// except through RecordMeasurement.
package geometry

import (
	"log"
	"math"
)

// Estimator maintains a height estimate per page: measured once known,
// heuristic otherwise. Offsets are recomputed lazily behind a dirty flag
// so that a burst of measurements stays O(n) overall.
type Estimator struct {
	defaultEstimate float64
	measured        []float64 // <= 0 means not yet measured
	tops            []float64 // len pageCount+1; tops[n] is the total height
	dirty           bool
}

// NewEstimator creates an estimator for pageCount pages seeded with a
// default height guess
func NewEstimator(pageCount int, defaultEstimate float64) *Estimator {
	if pageCount < 0 {
		pageCount = 0
	}
	if defaultEstimate <= 0 || math.IsNaN(defaultEstimate) {
		defaultEstimate = 1
	}
	return &Estimator{
		defaultEstimate: defaultEstimate,
		measured:        make([]float64, pageCount),
		tops:            make([]float64, pageCount+1),
		dirty:           true,
	}
}

// PageCount returns the number of pages in the table
func (e *Estimator) PageCount() int {
	return len(e.measured)
}

// DefaultEstimate returns the current heuristic height for unmeasured pages
func (e *Estimator) DefaultEstimate() float64 {
	return e.defaultEstimate
}

// SetDefaultEstimate replaces the heuristic used for unmeasured pages.
// Called once the first page's intrinsic size and effective scale are
// known, so layout sharpens as the user scrolls.
func (e *Estimator) SetDefaultEstimate(height float64) {
	if !validHeight(height) {
		return
	}
	if height == e.defaultEstimate {
		return
	}
	e.defaultEstimate = height
	e.dirty = true
}

// RecordMeasurement updates the measured height for one page.
// Measurements may arrive in any order; the offset table is a pure
// function of the height arrays, so arrival order never matters.
// Invalid heights are clamped to the default estimate rather than
// propagated, so one bad measurement cannot corrupt the layout.
func (e *Estimator) RecordMeasurement(pageIndex int, height float64) {
	if pageIndex < 0 || pageIndex >= len(e.measured) {
		return
	}
	if !validHeight(height) {
		log.Printf("geometry: inconsistent height %v for page %d, keeping estimate", height, pageIndex)
		height = e.defaultEstimate
	}
	if e.measured[pageIndex] == height {
		return
	}
	e.measured[pageIndex] = height
	e.dirty = true
}

// Measured reports whether a page has a recorded measurement
func (e *Estimator) Measured(pageIndex int) bool {
	return pageIndex >= 0 && pageIndex < len(e.measured) && e.measured[pageIndex] > 0
}

// HeightOf returns the measured height if known, the default estimate
// otherwise. A page that failed to render keeps its prior value, which
// prevents scroll-position jumps.
func (e *Estimator) HeightOf(pageIndex int) float64 {
	if pageIndex < 0 || pageIndex >= len(e.measured) {
		return 0
	}
	if h := e.measured[pageIndex]; h > 0 {
		return h
	}
	return e.defaultEstimate
}

// OffsetOf returns the cumulative top offset of a page
func (e *Estimator) OffsetOf(pageIndex int) float64 {
	e.rebuild()
	if pageIndex < 0 {
		return 0
	}
	if pageIndex >= len(e.tops) {
		return e.tops[len(e.tops)-1]
	}
	return e.tops[pageIndex]
}

// TotalHeight returns the summed height of all pages
func (e *Estimator) TotalHeight() float64 {
	e.rebuild()
	return e.tops[len(e.tops)-1]
}

// ScaleBy multiplies every known height by ratio. Used when the effective
// scale changes so measured heights track the new presentation without
// waiting for pages to re-report.
func (e *Estimator) ScaleBy(ratio float64) {
	if !validHeight(ratio) {
		return
	}
	for i, h := range e.measured {
		if h > 0 {
			e.measured[i] = h * ratio
		}
	}
	e.defaultEstimate *= ratio
	e.dirty = true
}

func (e *Estimator) rebuild() {
	if !e.dirty {
		return
	}
	var sum float64
	for i := range e.measured {
		e.tops[i] = sum
		sum += e.HeightOf(i)
	}
	e.tops[len(e.measured)] = sum
	e.dirty = false
}

func validHeight(h float64) bool {
	return h > 0 && !math.IsNaN(h) && !math.IsInf(h, 0)
}
