package annotations

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pdfgrip/internal/domain"
	"pdfgrip/internal/eventbus"
)

// memStore is an in-memory Store that records every save
type memStore struct {
	mu    sync.Mutex
	data  map[string][]domain.Annotation
	saves int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]domain.Annotation)}
}

func (m *memStore) Load(userID, docID string) ([]domain.Annotation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Annotation(nil), m.data[userID+"/"+docID]...), nil
}

func (m *memStore) Save(userID, docID string, anns []domain.Annotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID+"/"+docID] = append([]domain.Annotation(nil), anns...)
	m.saves++
	return nil
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// openDocument publishes a load event and waits for the service to pick
// up the document context. The bus dispatches asynchronously.
func openDocument(t *testing.T, bus eventbus.EventBus, svc *Service, docID string) {
	t.Helper()
	bus.Publish(eventbus.DocumentLoadedEvent{Doc: domain.Document{ID: docID, PageCount: 10}})
	require.Eventually(t, func() bool {
		_, ok := svc.Add(domain.KindBookmark, 0, domain.Rect{}, "probe", "", false)
		if ok {
			// Remove the probe so the test starts from an empty set
			for _, a := range svc.All() {
				if a.Text == "probe" {
					svc.Remove(a.ID)
				}
			}
		}
		return ok
	}, 2*time.Second, 10*time.Millisecond, "service never adopted document %s", docID)
}

func TestServiceAddRequiresDocument(t *testing.T) {
	t.Parallel()
	svc := NewService(eventbus.New(), newMemStore(), "alice")

	_, ok := svc.Add(domain.KindBookmark, 0, domain.Rect{}, "lost", "", false)
	require.False(t, ok, "Add must fail before any document is loaded")
	require.Empty(t, svc.All())
}

func TestServiceLoadsStoredAnnotationsOnDocumentLoad(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	store := newMemStore()
	require.NoError(t, store.Save("alice", "doc-1", []domain.Annotation{
		{ID: "stored", Kind: domain.KindComment, PageNumber: 3, Text: "hello"},
	}))

	svc := NewService(bus, store, "alice")
	bus.Publish(eventbus.DocumentLoadedEvent{Doc: domain.Document{ID: "doc-1"}})

	require.Eventually(t, func() bool {
		return len(svc.All()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, "stored", svc.All()[0].ID)
}

func TestServiceAddPersistsAndKeepsDocumentSpaceGeometry(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	store := newMemStore()
	svc := NewService(bus, store, "alice")
	openDocument(t, bus, svc, "doc-1")

	rect := domain.Rect{X: 50, Y: 100, Width: 220, Height: 20}
	ann, ok := svc.Add(domain.KindHighlight, 4, rect, "some text", "", false)
	require.True(t, ok)
	require.NotEmpty(t, ann.ID)
	require.Equal(t, 4, ann.PageNumber)
	require.Equal(t, rect, ann.Coordinates)
	require.False(t, ann.CreatedAt.IsZero())

	saved, err := store.Load("alice", "doc-1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Equal(t, rect, saved[0].Coordinates)
}

func TestServiceUpdateAndRemove(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	store := newMemStore()
	svc := NewService(bus, store, "alice")
	openDocument(t, bus, svc, "doc-1")

	ann, ok := svc.Add(domain.KindCTA, 2, domain.Rect{X: 10, Y: 10, Width: 140, Height: 40}, "Click", "https://old", false)
	require.True(t, ok)

	ann.URL = "https://new"
	ann.Coordinates.X = 300
	require.True(t, svc.Update(ann))

	got, found := svc.Get(ann.ID)
	require.True(t, found)
	require.Equal(t, "https://new", got.URL)
	require.Equal(t, 300.0, got.Coordinates.X)

	require.True(t, svc.Remove(ann.ID))
	_, found = svc.Get(ann.ID)
	require.False(t, found)

	require.False(t, svc.Update(ann), "updating a removed annotation must fail")
	require.False(t, svc.Remove(ann.ID), "double remove must fail")

	saved, err := store.Load("alice", "doc-1")
	require.NoError(t, err)
	require.Empty(t, saved)
}

func TestServiceBookmarksSortedByPage(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	svc := NewService(bus, newMemStore(), "alice")
	openDocument(t, bus, svc, "doc-1")

	_, ok := svc.Add(domain.KindBookmark, 7, domain.Rect{}, "late", "", false)
	require.True(t, ok)
	_, ok = svc.Add(domain.KindHighlight, 1, domain.Rect{}, "not a bookmark", "", false)
	require.True(t, ok)
	_, ok = svc.Add(domain.KindBookmark, 2, domain.Rect{}, "early", "", false)
	require.True(t, ok)

	marks := svc.Bookmarks()
	require.Len(t, marks, 2)
	require.Equal(t, "early", marks[0].Text)
	require.Equal(t, "late", marks[1].Text)
}

func TestServiceForPage(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	svc := NewService(bus, newMemStore(), "alice")
	openDocument(t, bus, svc, "doc-1")

	_, ok := svc.Add(domain.KindComment, 3, domain.Rect{}, "on three", "", false)
	require.True(t, ok)
	_, ok = svc.Add(domain.KindComment, 5, domain.Rect{}, "on five", "", false)
	require.True(t, ok)

	onThree := svc.ForPage(3)
	require.Len(t, onThree, 1)
	require.Equal(t, "on three", onThree[0].Text)
	require.Empty(t, svc.ForPage(4))
}

func TestServiceScanHitCreatesGeneratedCTA(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	svc := NewService(bus, newMemStore(), "alice")
	openDocument(t, bus, svc, "doc-1")

	hit := eventbus.ScanHitEvent{
		DocID:     "doc-1",
		PageIndex: 6,
		Payload:   "https://example.com/offer",
		Rect:      domain.Rect{X: 40, Y: 60, Width: 80, Height: 80},
	}
	bus.Publish(hit)

	require.Eventually(t, func() bool {
		return len(svc.ForPage(6)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cta := svc.ForPage(6)[0]
	require.Equal(t, domain.KindCTA, cta.Kind)
	require.True(t, cta.Generated)
	require.Equal(t, "https://example.com/offer", cta.URL)
	require.Equal(t, hit.Rect, cta.Coordinates)
}

func TestServiceScanHitDedupesRescans(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	svc := NewService(bus, newMemStore(), "alice")
	openDocument(t, bus, svc, "doc-1")

	hit := eventbus.ScanHitEvent{DocID: "doc-1", PageIndex: 2, Payload: "https://same"}
	bus.Publish(hit)
	require.Eventually(t, func() bool {
		return len(svc.ForPage(2)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Same page and payload again: a rescan must not duplicate the CTA
	bus.Publish(hit)
	// A distinct payload on the same page is a new hit
	bus.Publish(eventbus.ScanHitEvent{DocID: "doc-1", PageIndex: 2, Payload: "https://other"})

	require.Eventually(t, func() bool {
		return len(svc.ForPage(2)) == 2
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Len(t, svc.ForPage(2), 2)
}

func TestServiceScanHitIgnoresOtherDocuments(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	svc := NewService(bus, newMemStore(), "alice")
	openDocument(t, bus, svc, "doc-1")

	bus.Publish(eventbus.ScanHitEvent{DocID: "someone-elses-doc", PageIndex: 0, Payload: "https://x"})

	time.Sleep(100 * time.Millisecond)
	require.Empty(t, svc.All())
}

func TestServiceDocumentClosedClearsWorkingSet(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	store := newMemStore()
	svc := NewService(bus, store, "alice")
	openDocument(t, bus, svc, "doc-1")

	_, ok := svc.Add(domain.KindBookmark, 0, domain.Rect{}, "mark", "", false)
	require.True(t, ok)
	savesBefore := store.saveCount()

	bus.Publish(eventbus.DocumentClosedEvent{DocID: "doc-1"})
	require.Eventually(t, func() bool {
		return len(svc.All()) == 0
	}, 2*time.Second, 10*time.Millisecond, "service must drop the working set on close")

	_, ok = svc.Add(domain.KindBookmark, 0, domain.Rect{}, "after close", "", false)
	require.False(t, ok, "service must drop the document context on close")
	require.Equal(t, savesBefore, store.saveCount(), "closing must not trigger another save")

	// The stored records survive the close
	saved, err := store.Load("alice", "doc-1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
}
