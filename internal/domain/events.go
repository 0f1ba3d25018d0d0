package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventDocumentLoaded     EventType = "DocumentLoaded"
	EventDocumentLoadFailed EventType = "DocumentLoadFailed"
	EventDocumentClosed     EventType = "DocumentClosed"
	EventPageMeasured       EventType = "PageMeasured"
	EventPageRenderFailed   EventType = "PageRenderFailed"
	EventCurrentPageChanged EventType = "CurrentPageChanged"
	EventAnnotationAdded    EventType = "AnnotationAdded"
	EventAnnotationUpdated  EventType = "AnnotationUpdated"
	EventAnnotationRemoved  EventType = "AnnotationRemoved"
	EventAnnotationsLoaded  EventType = "AnnotationsLoaded"
	EventAnnotationsSaved   EventType = "AnnotationsSaved"
	EventScanRequested      EventType = "ScanRequested"
	EventScanStarted        EventType = "ScanStarted"
	EventScanPageDone       EventType = "ScanPageDone"
	EventScanHit            EventType = "ScanHit"
	EventScanCompleted      EventType = "ScanCompleted"
	EventError              EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// DocumentLoadedEvent is emitted when the driver opens a document
type DocumentLoadedEvent struct {
	Doc Document
}

func (e DocumentLoadedEvent) Type() EventType { return EventDocumentLoaded }

// DocumentLoadFailedEvent is emitted when a file cannot be opened; fatal to
// the viewer session for that file
type DocumentLoadFailedEvent struct {
	Path string
	Err  error
}

func (e DocumentLoadFailedEvent) Type() EventType { return EventDocumentLoadFailed }

// DocumentClosedEvent is emitted when the current document is replaced or
// the viewer shuts down
type DocumentClosedEvent struct {
	DocID string
}

func (e DocumentClosedEvent) Type() EventType { return EventDocumentClosed }

// PageMeasuredEvent is emitted once a page's intrinsic size is known.
// Measurements may arrive in any order.
type PageMeasuredEvent struct {
	DocID     string
	PageIndex int
	Size      PageSize
}

func (e PageMeasuredEvent) Type() EventType { return EventPageMeasured }

// PageRenderFailedEvent is emitted when a single page fails to render;
// local to that page, neighbors are unaffected
type PageRenderFailedEvent struct {
	DocID     string
	PageIndex int
	Err       error
}

func (e PageRenderFailedEvent) Type() EventType { return EventPageRenderFailed }

// CurrentPageChangedEvent is emitted at most once per settled scroll position
type CurrentPageChangedEvent struct {
	PageIndex int
}

func (e CurrentPageChangedEvent) Type() EventType { return EventCurrentPageChanged }

// AnnotationAddedEvent is emitted when an annotation is created
type AnnotationAddedEvent struct {
	Annotation Annotation
}

func (e AnnotationAddedEvent) Type() EventType { return EventAnnotationAdded }

// AnnotationUpdatedEvent is emitted when an annotation is edited or moved
type AnnotationUpdatedEvent struct {
	Annotation Annotation
}

func (e AnnotationUpdatedEvent) Type() EventType { return EventAnnotationUpdated }

// AnnotationRemovedEvent is emitted when an annotation is deleted
type AnnotationRemovedEvent struct {
	ID string
}

func (e AnnotationRemovedEvent) Type() EventType { return EventAnnotationRemoved }

// AnnotationsLoadedEvent is emitted after the store is read for a document
type AnnotationsLoadedEvent struct {
	DocID string
	Count int
}

func (e AnnotationsLoadedEvent) Type() EventType { return EventAnnotationsLoaded }

// AnnotationsSavedEvent is emitted after a successful store write
type AnnotationsSavedEvent struct {
	DocID string
}

func (e AnnotationsSavedEvent) Type() EventType { return EventAnnotationsSaved }

// ScanRequestedEvent asks the scanner to start a QR scan of the document
type ScanRequestedEvent struct {
	DocID string
}

func (e ScanRequestedEvent) Type() EventType { return EventScanRequested }

// ScanStartedEvent is emitted when a scan session begins
type ScanStartedEvent struct {
	DocID      string
	TotalPages int
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanPageDoneEvent is emitted after each page is scanned, success or not
type ScanPageDoneEvent struct {
	DocID     string
	PageIndex int
	Found     int
	Err       error
}

func (e ScanPageDoneEvent) Type() EventType { return EventScanPageDone }

// ScanHitEvent carries one decoded QR payload with its position already
// mapped to document space
type ScanHitEvent struct {
	DocID     string
	PageIndex int
	Payload   string
	Rect      Rect
}

func (e ScanHitEvent) Type() EventType { return EventScanHit }

// ScanCompletedEvent is emitted when the session finishes or is stopped
type ScanCompletedEvent struct {
	DocID   string
	Session ScanSession
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
