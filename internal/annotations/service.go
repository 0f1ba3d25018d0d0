package annotations

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdfgrip/internal/domain"
	"pdfgrip/internal/eventbus"
)

// Service owns the in-memory annotation set for the open document and
// keeps the store in sync. It subscribes to the bus for document loads
// and scan hits, and publishes a change event for every mutation.
type Service struct {
	mu     sync.RWMutex
	bus    eventbus.EventBus
	store  Store
	userID string

	docID string
	items []domain.Annotation
}

// NewService creates the annotation service and wires its subscriptions
func NewService(bus eventbus.EventBus, store Store, userID string) *Service {
	s := &Service{
		bus:    bus,
		store:  store,
		userID: userID,
	}

	bus.Subscribe(eventbus.EventDocumentLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.DocumentLoadedEvent); ok {
			s.loadFor(event.Doc.ID)
		}
	})
	bus.Subscribe(eventbus.EventDocumentClosed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.DocumentClosedEvent); ok {
			s.closeFor(event.DocID)
		}
	})
	bus.Subscribe(eventbus.EventScanHit, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanHitEvent); ok {
			s.addFromScan(event)
		}
	})

	return s
}

// loadFor replaces the working set with the stored records for a document
func (s *Service) loadFor(docID string) {
	anns, err := s.store.Load(s.userID, docID)
	if err != nil {
		log.Printf("annotations: load failed for %s: %v", docID, err)
		s.bus.Publish(eventbus.ErrorEvent{Message: "failed to load annotations", Err: err})
		anns = nil
	}

	s.mu.Lock()
	s.docID = docID
	s.items = anns
	count := len(anns)
	s.mu.Unlock()

	s.bus.Publish(eventbus.AnnotationsLoadedEvent{DocID: docID, Count: count})
}

func (s *Service) closeFor(docID string) {
	s.mu.Lock()
	if s.docID == docID {
		s.docID = ""
		s.items = nil
	}
	s.mu.Unlock()
}

// Add creates a new annotation and persists the set. The geometry passed
// in must already be in document space.
func (s *Service) Add(kind domain.AnnotationKind, pageIndex int, rect domain.Rect, text, url string, generated bool) (domain.Annotation, bool) {
	ann := domain.Annotation{
		ID:          uuid.NewString(),
		Kind:        kind,
		PageNumber:  pageIndex,
		Coordinates: rect,
		Text:        text,
		URL:         url,
		Generated:   generated,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	if s.docID == "" {
		s.mu.Unlock()
		return domain.Annotation{}, false
	}
	s.items = append(s.items, ann)
	s.mu.Unlock()

	s.persist()
	s.bus.Publish(eventbus.AnnotationAddedEvent{Annotation: ann})
	return ann, true
}

// Update replaces an annotation's mutable fields (an explicit edit, e.g.
// dragging a CTA box)
func (s *Service) Update(ann domain.Annotation) bool {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == ann.ID {
			s.items[i] = ann
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return false
	}
	s.persist()
	s.bus.Publish(eventbus.AnnotationUpdatedEvent{Annotation: ann})
	return true
}

// Remove deletes an annotation by ID
func (s *Service) Remove(id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return false
	}
	s.persist()
	s.bus.Publish(eventbus.AnnotationRemovedEvent{ID: id})
	return true
}

// All returns a copy of every annotation for the open document
func (s *Service) All() []domain.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Annotation(nil), s.items...)
}

// ForPage returns the annotations attached to one page
func (s *Service) ForPage(pageIndex int) []domain.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Annotation
	for _, a := range s.items {
		if a.PageNumber == pageIndex {
			out = append(out, a)
		}
	}
	return out
}

// Bookmarks returns bookmark annotations ordered by page
func (s *Service) Bookmarks() []domain.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Annotation
	for _, a := range s.items {
		if a.Kind == domain.KindBookmark {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out
}

// Get looks up one annotation by ID
func (s *Service) Get(id string) (domain.Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Annotation{}, false
}

// addFromScan turns a decoded QR hit into a generated CTA annotation.
// Duplicate payloads at the same spot are skipped so rescans stay clean.
func (s *Service) addFromScan(hit eventbus.ScanHitEvent) {
	s.mu.RLock()
	docMatch := s.docID == hit.DocID
	dup := false
	for _, a := range s.items {
		if a.Kind == domain.KindCTA && a.Generated && a.PageNumber == hit.PageIndex && a.URL == hit.Payload {
			dup = true
			break
		}
	}
	s.mu.RUnlock()

	if !docMatch || dup {
		return
	}
	s.Add(domain.KindCTA, hit.PageIndex, hit.Rect, "Scanned QR", hit.Payload, true)
}

// persist writes the working set through the store
func (s *Service) persist() {
	s.mu.RLock()
	docID := s.docID
	items := append([]domain.Annotation(nil), s.items...)
	s.mu.RUnlock()

	if docID == "" {
		return
	}
	if err := s.store.Save(s.userID, docID, items); err != nil {
		log.Printf("annotations: save failed for %s: %v", docID, err)
		s.bus.Publish(eventbus.ErrorEvent{Message: "failed to save annotations", Err: err})
		return
	}
	s.bus.Publish(eventbus.AnnotationsSavedEvent{DocID: docID})
}
