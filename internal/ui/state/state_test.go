package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pdfgrip/internal/domain"
)

func TestNewAppState(t *testing.T) {
	t.Parallel()
	s := NewAppState()
	require.Equal(t, -1, s.SelectedIndex)
	require.Equal(t, domain.ScanIdle, s.Scan.Phase)
	_, ok := s.Selected()
	require.False(t, ok)
}

func TestSetAnnotationsKeepsSelectionByID(t *testing.T) {
	t.Parallel()
	s := NewAppState()
	s.SetAnnotations([]domain.Annotation{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	})
	s.SelectedIndex = 1

	// Reordered and with a removal: the selection follows "b", not index 1
	s.SetAnnotations([]domain.Annotation{
		{ID: "c"}, {ID: "b"},
	})
	sel, ok := s.Selected()
	require.True(t, ok)
	require.Equal(t, "b", sel.ID)
	require.Equal(t, 1, s.SelectedIndex)
}

func TestSetAnnotationsDropsDeadSelection(t *testing.T) {
	t.Parallel()
	s := NewAppState()
	s.SetAnnotations([]domain.Annotation{{ID: "a"}})
	s.SelectedIndex = 0

	s.SetAnnotations([]domain.Annotation{{ID: "other"}})
	require.Equal(t, -1, s.SelectedIndex)
}

func TestCycleSelectionWraps(t *testing.T) {
	t.Parallel()
	s := NewAppState()
	s.SetAnnotations([]domain.Annotation{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	s.CycleSelection(1)
	require.Equal(t, 0, s.SelectedIndex, "first cycle from no selection lands on the first annotation")
	s.CycleSelection(1)
	require.Equal(t, 1, s.SelectedIndex)
	s.CycleSelection(2)
	require.Equal(t, 0, s.SelectedIndex, "forward wrap")
	s.CycleSelection(-1)
	require.Equal(t, 2, s.SelectedIndex, "backward wrap")
}

func TestCycleSelectionEmpty(t *testing.T) {
	t.Parallel()
	s := NewAppState()
	s.CycleSelection(1)
	require.Equal(t, -1, s.SelectedIndex)
}

func TestClickRecordAndTake(t *testing.T) {
	t.Parallel()
	s := NewAppState()

	_, _, ok := s.TakeClick()
	require.False(t, ok, "no click recorded yet")

	s.RecordClick(3, 50, 120)
	page, pt, ok := s.TakeClick()
	require.True(t, ok)
	require.Equal(t, 3, page)
	require.Equal(t, 50.0, pt.X)
	require.Equal(t, 120.0, pt.Y)

	_, _, ok = s.TakeClick()
	require.False(t, ok, "the click is consumed on take")
}

func TestRecordClickOverwritesPending(t *testing.T) {
	t.Parallel()
	s := NewAppState()
	s.RecordClick(1, 10, 10)
	s.RecordClick(2, 99, 44)

	page, pt, ok := s.TakeClick()
	require.True(t, ok)
	require.Equal(t, 2, page)
	require.Equal(t, 99.0, pt.X)
	require.Equal(t, 44.0, pt.Y)
}
