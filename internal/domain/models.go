package domain

import "time"

// Document describes a loaded PDF as reported by the document driver
type Document struct {
	ID        string // stable identifier, keys annotation storage
	Path      string
	Title     string
	PageCount int
}

// PageSize is a page's intrinsic, scale-independent size in PDF points
type PageSize struct {
	Width  float64
	Height float64
}

// ZoomMode selects how the effective scale is derived
type ZoomMode string

const (
	ZoomCustom   ZoomMode = "custom"
	ZoomFitWidth ZoomMode = "fit-width"
	ZoomFitPage  ZoomMode = "fit-page"
)

// AnnotationKind identifies the type of a stored annotation
type AnnotationKind string

const (
	KindHighlight AnnotationKind = "highlight"
	KindComment   AnnotationKind = "comment"
	KindBookmark  AnnotationKind = "bookmark"
	KindCTA       AnnotationKind = "cta"
)

// Rect is a page-relative rectangle in document space (unscaled PDF points).
// Annotation geometry is stored in this space and is never rewritten when
// the zoom or container size changes.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Annotation is a user-authored record attached to a page
type Annotation struct {
	ID          string         `json:"id"`
	Kind        AnnotationKind `json:"kind"`
	PageNumber  int            `json:"pageNumber"` // zero-based page index
	Coordinates Rect           `json:"coordinates"`
	Text        string         `json:"text,omitempty"` // highlight capture, comment body or label
	URL         string         `json:"url,omitempty"`  // CTA target
	Generated   bool           `json:"generated,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ScanPhase is the lifecycle phase of a QR scan session
type ScanPhase string

const (
	ScanIdle      ScanPhase = "idle"
	ScanScanning  ScanPhase = "scanning"
	ScanPaused    ScanPhase = "paused"
	ScanCompleted ScanPhase = "completed"
)

// ScanError records a per-page scan failure; it never aborts the session
type ScanError struct {
	PageIndex int
	Message   string
}

// ScanSession tracks progress of a page-by-page QR scan
type ScanSession struct {
	CurrentPage    int
	TotalPages     int
	FoundCount     int
	GeneratedCount int
	Errors         []ScanError
	Phase          ScanPhase
}
