package scan

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"pdfgrip/internal/coords"
	"pdfgrip/internal/domain"
	"pdfgrip/internal/eventbus"
)

// Rasterizer produces a pixel rendering of one page at a given scale.
// It is an external collaborator; the scanner only requires that a page
// it rasterizes is actually ready, which the driver signals through the
// returned image rather than a side channel.
type Rasterizer interface {
	Rasterize(ctx context.Context, pageIndex int, scale float64) (image.Image, error)
}

// Options tune a scan run
type Options struct {
	PageTimeout  time.Duration
	RasterScale  float64
	MaxImageEdge int
}

// Scanner drives QR scan sessions over the event bus. One session at a
// time; starting a new one or replacing the document resets the old.
type Scanner struct {
	bus  eventbus.EventBus
	dec  Decoder
	opts Options

	mu     sync.Mutex
	sess   domain.ScanSession
	docID  string
	cancel context.CancelFunc

	// current document context, learned from the bus, so scan requests
	// can be served without the requester knowing the scanner's inputs
	curDoc   string
	curPages int
	ras      Rasterizer
}

// NewScanner creates a scanner and wires its document subscription
func NewScanner(bus eventbus.EventBus, dec Decoder, opts Options) *Scanner {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 10 * time.Second
	}
	if opts.RasterScale <= 0 {
		opts.RasterScale = 2.0
	}
	s := &Scanner{
		bus:  bus,
		dec:  dec,
		opts: opts,
		sess: domain.ScanSession{Phase: domain.ScanIdle},
	}

	bus.Subscribe(eventbus.EventDocumentLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.DocumentLoadedEvent); ok {
			s.mu.Lock()
			s.curDoc = event.Doc.ID
			s.curPages = event.Doc.PageCount
			s.mu.Unlock()
		}
	})
	bus.Subscribe(eventbus.EventDocumentClosed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.DocumentClosedEvent); ok {
			s.onDocumentClosed(event.DocID)
		}
	})
	bus.Subscribe(eventbus.EventScanRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanRequestedEvent); ok {
			s.onScanRequested(event.DocID)
		}
	})
	// The annotation service decides whether a hit actually becomes a
	// CTA (duplicates are skipped), so generated counts come from it.
	bus.Subscribe(eventbus.EventAnnotationAdded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.AnnotationAddedEvent); ok && event.Annotation.Generated {
			s.mu.Lock()
			if s.sess.Phase == domain.ScanScanning || s.sess.Phase == domain.ScanPaused {
				s.sess.GeneratedCount++
			}
			s.mu.Unlock()
		}
	})

	return s
}

// SetRasterizer registers the page rasterizer used to serve scan
// requests. Called when the document driver is ready.
func (s *Scanner) SetRasterizer(ras Rasterizer) {
	s.mu.Lock()
	s.ras = ras
	s.mu.Unlock()
}

// onScanRequested starts a scan of the current document in response to
// a bus request. Requests for another document or without a registered
// rasterizer are dropped.
func (s *Scanner) onScanRequested(docID string) {
	s.mu.Lock()
	ras := s.ras
	pages := s.curPages
	match := s.curDoc == docID && docID != ""
	s.mu.Unlock()

	if !match || ras == nil {
		log.Printf("scan: request for %s dropped (no document or rasterizer)", docID)
		return
	}
	s.Start(context.Background(), docID, pages, ras)
}

// Session returns a snapshot of the current session
func (s *Scanner) Session() domain.ScanSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sess
	sess.Errors = append([]domain.ScanError(nil), s.sess.Errors...)
	return sess
}

// Start begins scanning a document page by page in the background.
// A session already in progress is cancelled and replaced.
func (s *Scanner) Start(ctx context.Context, docID string, pageCount int, ras Rasterizer) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.docID = docID
	s.sess = domain.ScanSession{
		TotalPages: pageCount,
		Phase:      domain.ScanScanning,
	}
	s.mu.Unlock()

	s.bus.Publish(eventbus.ScanStartedEvent{DocID: docID, TotalPages: pageCount})
	go s.run(runCtx, docID, pageCount, ras)
}

// Pause suspends the scan between pages
func (s *Scanner) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.Phase == domain.ScanScanning {
		s.sess.Phase = domain.ScanPaused
	}
}

// Resume continues a paused scan
func (s *Scanner) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.Phase == domain.ScanPaused {
		s.sess.Phase = domain.ScanScanning
	}
}

// Stop cancels the session and returns the scanner to idle, so a new
// scan can be started. The completion event carries the partial session.
func (s *Scanner) Stop() {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.cancel = nil
	s.sess.Phase = domain.ScanIdle
	docID := s.docID
	sess := s.sess
	sess.Errors = append([]domain.ScanError(nil), s.sess.Errors...)
	s.mu.Unlock()

	s.bus.Publish(eventbus.ScanCompletedEvent{DocID: docID, Session: sess})
}

func (s *Scanner) onDocumentClosed(docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curDoc == docID {
		s.curDoc = ""
		s.curPages = 0
		s.ras = nil
	}
	if s.docID != docID {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.sess = domain.ScanSession{Phase: domain.ScanIdle}
	s.docID = ""
}

// run walks every page. A page failure or timeout is recorded in the
// session's error list and the walk continues; only cancellation or a
// document change stops it early.
func (s *Scanner) run(ctx context.Context, docID string, pageCount int, ras Rasterizer) {
	for i := 0; i < pageCount; i++ {
		if !s.waitWhilePaused(ctx) {
			return
		}
		if !s.stillCurrent(docID) {
			return
		}

		s.mu.Lock()
		s.sess.CurrentPage = i
		s.mu.Unlock()

		found, err := s.scanPage(ctx, docID, i, ras)
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		if err != nil {
			s.sess.Errors = append(s.sess.Errors, domain.ScanError{PageIndex: i, Message: err.Error()})
			log.Printf("scan: page %d failed: %v", i, err)
		} else {
			s.sess.FoundCount += found
		}
		s.mu.Unlock()

		s.bus.Publish(eventbus.ScanPageDoneEvent{DocID: docID, PageIndex: i, Found: found, Err: err})
	}

	s.mu.Lock()
	if s.docID != docID {
		s.mu.Unlock()
		return
	}
	s.sess.Phase = domain.ScanCompleted
	sess := s.sess
	sess.Errors = append([]domain.ScanError(nil), s.sess.Errors...)
	s.mu.Unlock()

	s.bus.Publish(eventbus.ScanCompletedEvent{DocID: docID, Session: sess})
}

// scanPage rasterizes and decodes one page under the per-page timeout.
// Hits are published with their bounds already divided back to document
// space; the raster's pixel space is the intrinsic page scaled by
// RasterScale with the same top-left origin.
func (s *Scanner) scanPage(ctx context.Context, docID string, pageIndex int, ras Rasterizer) (int, error) {
	pageCtx, cancel := context.WithTimeout(ctx, s.opts.PageTimeout)
	defer cancel()

	type result struct {
		hits []Hit
		err  error
	}
	done := make(chan result, 1)

	go func() {
		img, err := ras.Rasterize(pageCtx, pageIndex, s.opts.RasterScale)
		if err != nil {
			done <- result{err: err}
			return
		}
		hits, err := s.dec.Decode(img)
		done <- result{hits: hits, err: err}
	}()

	select {
	case <-pageCtx.Done():
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("page scan timed out after %s", s.opts.PageTimeout)
	case res := <-done:
		if res.err != nil {
			return 0, res.err
		}
		for _, hit := range res.hits {
			docRect := coords.ToDocument(hit.Bounds, s.opts.RasterScale)
			s.bus.Publish(eventbus.ScanHitEvent{
				DocID:     docID,
				PageIndex: pageIndex,
				Payload:   hit.Payload,
				Rect:      docRect.ToDomain(),
			})
		}
		return len(res.hits), nil
	}
}

// waitWhilePaused blocks while the session is paused; returns false when
// the scan was cancelled
func (s *Scanner) waitWhilePaused(ctx context.Context) bool {
	for {
		if ctx.Err() != nil {
			return false
		}
		s.mu.Lock()
		paused := s.sess.Phase == domain.ScanPaused
		s.mu.Unlock()
		if !paused {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (s *Scanner) stillCurrent(docID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docID == docID
}
