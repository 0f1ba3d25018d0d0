// Package coords converts annotation geometry between document space
// (a page's native, scale-independent point system, where annotations are
// stored) and viewport space (the current rendered, scaled presentation).
package coords

import "pdfgrip/internal/domain"

// Point is a position in either space; which one is determined by use
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// FromDomain converts a stored annotation rectangle
func FromDomain(r domain.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// ToDomain converts a rectangle for storage
func (r Rect) ToDomain() domain.Rect {
	return domain.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// ToViewport maps a document-space rectangle to viewport space. Applied
// per axis; no rotation is modeled.
func ToViewport(r Rect, scale float64) Rect {
	return Rect{
		X:      r.X * scale,
		Y:      r.Y * scale,
		Width:  r.Width * scale,
		Height: r.Height * scale,
	}
}

// ToDocument maps a viewport-space rectangle back to document space
func ToDocument(r Rect, scale float64) Rect {
	return Rect{
		X:      r.X / scale,
		Y:      r.Y / scale,
		Width:  r.Width / scale,
		Height: r.Height / scale,
	}
}

// PointToViewport maps a document-space point to viewport space
func PointToViewport(p Point, scale float64) Point {
	return Point{X: p.X * scale, Y: p.Y * scale}
}

// PointToDocument maps a viewport-space point to document space
func PointToDocument(p Point, scale float64) Point {
	return Point{X: p.X / scale, Y: p.Y / scale}
}

// ClickToDocument maps a raw pointer position to document space: the page's
// on-screen origin is subtracted first, then the scale is divided out.
func ClickToDocument(click Point, pageOrigin Point, scale float64) Point {
	return PointToDocument(Point{X: click.X - pageOrigin.X, Y: click.Y - pageOrigin.Y}, scale)
}
