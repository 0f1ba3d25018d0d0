package state

import (
	"pdfgrip/internal/domain"
)

// AppState contains the viewer's UI-facing state. The virtualization
// engine owns scroll geometry; this is everything else the views need.
type AppState struct {
	// Document state
	Doc     *domain.Document // nil until a load succeeds
	LoadErr error            // fatal load failure, retry affordance shown
	Loading bool             // a load is in flight

	// Annotations, mirrored from the annotation service for rendering
	Annotations   []domain.Annotation
	SelectedIndex int // index into Annotations, -1 when none

	// Scan state
	Scan         domain.ScanSession
	ScanActive   bool

	// Chrome
	ShowSidebar   bool
	ShowHelp      bool
	HelpScroll    int
	StatusMessage string

	// Last click position, consumed when an annotation is created
	ClickPage  int
	ClickPoint domain.Rect // zero-size rect at the click, document space
	HasClick   bool
}

// NewAppState creates an empty state
func NewAppState() *AppState {
	return &AppState{
		SelectedIndex: -1,
		Scan:          domain.ScanSession{Phase: domain.ScanIdle},
	}
}

// SetAnnotations replaces the mirror, keeping the selection on the same
// annotation when it survives
func (s *AppState) SetAnnotations(anns []domain.Annotation) {
	var keep string
	if a, ok := s.Selected(); ok {
		keep = a.ID
	}
	s.Annotations = anns
	s.SelectedIndex = -1
	for i, a := range anns {
		if a.ID == keep {
			s.SelectedIndex = i
			break
		}
	}
}

// Selected returns the selected annotation
func (s *AppState) Selected() (domain.Annotation, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Annotations) {
		return domain.Annotation{}, false
	}
	return s.Annotations[s.SelectedIndex], true
}

// CycleSelection moves the annotation selection by delta, wrapping
func (s *AppState) CycleSelection(delta int) {
	n := len(s.Annotations)
	if n == 0 {
		s.SelectedIndex = -1
		return
	}
	i := s.SelectedIndex + delta
	for i < 0 {
		i += n
	}
	s.SelectedIndex = i % n
}

// RecordClick remembers where the user last clicked, in document space
func (s *AppState) RecordClick(page int, x, y float64) {
	s.ClickPage = page
	s.ClickPoint = domain.Rect{X: x, Y: y}
	s.HasClick = true
}

// TakeClick consumes the pending click position
func (s *AppState) TakeClick() (int, domain.Rect, bool) {
	if !s.HasClick {
		return 0, domain.Rect{}, false
	}
	s.HasClick = false
	return s.ClickPage, s.ClickPoint, true
}
