package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"pdfgrip/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventDocumentLoaded     = domain.EventDocumentLoaded
	EventDocumentLoadFailed = domain.EventDocumentLoadFailed
	EventDocumentClosed     = domain.EventDocumentClosed
	EventPageMeasured       = domain.EventPageMeasured
	EventPageRenderFailed   = domain.EventPageRenderFailed
	EventCurrentPageChanged = domain.EventCurrentPageChanged
	EventAnnotationAdded    = domain.EventAnnotationAdded
	EventAnnotationUpdated  = domain.EventAnnotationUpdated
	EventAnnotationRemoved  = domain.EventAnnotationRemoved
	EventAnnotationsLoaded  = domain.EventAnnotationsLoaded
	EventAnnotationsSaved   = domain.EventAnnotationsSaved
	EventScanRequested      = domain.EventScanRequested
	EventScanStarted        = domain.EventScanStarted
	EventScanPageDone       = domain.EventScanPageDone
	EventScanHit            = domain.EventScanHit
	EventScanCompleted      = domain.EventScanCompleted
	EventError              = domain.EventError
)

// Re-export domain event types
type DocumentLoadedEvent = domain.DocumentLoadedEvent
type DocumentLoadFailedEvent = domain.DocumentLoadFailedEvent
type DocumentClosedEvent = domain.DocumentClosedEvent
type PageMeasuredEvent = domain.PageMeasuredEvent
type PageRenderFailedEvent = domain.PageRenderFailedEvent
type CurrentPageChangedEvent = domain.CurrentPageChangedEvent
type AnnotationAddedEvent = domain.AnnotationAddedEvent
type AnnotationUpdatedEvent = domain.AnnotationUpdatedEvent
type AnnotationRemovedEvent = domain.AnnotationRemovedEvent
type AnnotationsLoadedEvent = domain.AnnotationsLoadedEvent
type AnnotationsSavedEvent = domain.AnnotationsSavedEvent
type ScanRequestedEvent = domain.ScanRequestedEvent
type ScanStartedEvent = domain.ScanStartedEvent
type ScanPageDoneEvent = domain.ScanPageDoneEvent
type ScanHitEvent = domain.ScanHitEvent
type ScanCompletedEvent = domain.ScanCompletedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]EventHandler
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]EventHandler),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Skip logging for high-frequency events
	switch event.Type() {
	case EventPageMeasured, EventCurrentPageChanged:
		// Measurements and page changes fire on every scroll burst
	default:
		log.Printf("EventBus: Publishing event %s", event.Type())
	}

	select {
	case b.eventChan <- event:
		// Event sent successfully
	default:
		// Channel full, log and drop
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		handlers := b.handlers[eventType]
		for i, h := range handlers {
			// Compare function pointers
			if &h == &handler {
				b.handlers[eventType] = append(handlers[:i], handlers[i+1:]...)
				break
			}
		}
	}
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			handlers := b.handlers[event.Type()]
			// Make a copy to avoid holding lock during handler execution
			handlersCopy := make([]EventHandler, len(handlers))
			copy(handlersCopy, handlers)
			b.mu.RUnlock()

			for _, handler := range handlersCopy {
				// Call handler in a goroutine to avoid blocking
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("Event handler panic for %s: %v\nStack: %s", eventType, r, debug.Stack())
						}
					}()
					h(event)
				}(handler, event.Type())
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
					// Discard event
				default:
					return
				}
			}
		}
	}
}
