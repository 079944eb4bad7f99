package history

import (
	"errors"
	"testing"

	"github.com/dshills/promptline/internal/engine/document"
)

func TestUndoRedoClosure(t *testing.T) {
	start := document.New("hello", 5)
	edited := start.Insert(" world")

	h := New(start, 0)
	h.Push(edited)

	got, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if !got.Equal(start) {
		t.Errorf("Undo() = %v, want %v", got, start)
	}

	got, err = h.Redo()
	if err != nil {
		t.Fatalf("Redo() error: %v", err)
	}
	if !got.Equal(edited) {
		t.Errorf("Redo() = %v, want %v", got, edited)
	}
}

func TestBoundaries(t *testing.T) {
	h := New(document.New("", 0), 0)

	if _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() on fresh history error = %v", err)
	}
	if _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() on fresh history error = %v", err)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("fresh history should not undo or redo")
	}
}

func TestPushTruncatesRedo(t *testing.T) {
	h := New(document.New("a", 1), 0)
	h.Push(document.New("ab", 2))
	h.Push(document.New("abc", 3))

	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	h.Push(document.New("abX", 3))

	if h.CanRedo() {
		t.Error("push should clear the redo tail")
	}
	if h.Len() != 3 || h.Index() != 2 {
		t.Errorf("Len() = %d, Index() = %d; want 3, 2", h.Len(), h.Index())
	}
	if got := h.Current().Text(); got != "abX" {
		t.Errorf("Current() = %q", got)
	}
}

func TestCursorOnlyPushDoesNotAddEntry(t *testing.T) {
	h := New(document.New("abc", 3), 0)
	h.Push(document.New("abc", 0))

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
	if got := h.Current().Cursor(); got != 0 {
		t.Errorf("Current().Cursor() = %d, want 0", got)
	}
}

func TestGroupCoalesces(t *testing.T) {
	h := New(document.New("", 0), 0)

	func() {
		defer h.GroupScope().End()
		h.Push(document.NewAtEnd("h"))
		h.Push(document.NewAtEnd("he"))
		h.Push(document.NewAtEnd("hey"))
	}()
	h.Push(document.NewAtEnd("hey!"))

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	got, _ := h.Undo()
	if got.Text() != "hey" {
		t.Errorf("first Undo() = %q, want %q", got.Text(), "hey")
	}
	got, _ = h.Undo()
	if got.Text() != "" {
		t.Errorf("second Undo() = %q, want empty", got.Text())
	}
}

func TestNestedGroups(t *testing.T) {
	h := New(document.New("", 0), 0)
	h.BeginGroup()
	h.BeginGroup()
	h.Push(document.NewAtEnd("a"))
	h.EndGroup()
	if !h.IsGrouping() {
		t.Error("inner EndGroup should not close the outer group")
	}
	h.Push(document.NewAtEnd("ab"))
	h.EndGroup()

	if h.IsGrouping() || h.Len() != 2 {
		t.Errorf("IsGrouping() = %v, Len() = %d", h.IsGrouping(), h.Len())
	}
}

func TestLimit(t *testing.T) {
	h := New(document.New("", 0), 3)
	for _, s := range []string{"a", "ab", "abc", "abcd"} {
		h.Push(document.NewAtEnd(s))
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	if h.Index() != 2 {
		t.Errorf("Index() = %d, want 2", h.Index())
	}
	h.Undo()
	got, _ := h.Undo()
	if got.Text() != "ab" {
		t.Errorf("oldest kept entry = %q, want %q", got.Text(), "ab")
	}
}

func TestReset(t *testing.T) {
	h := New(document.New("x", 0), 0)
	h.Push(document.New("xy", 0))
	h.Reset(document.New("", 0))
	if h.Len() != 1 || h.CanUndo() || h.Current().Text() != "" {
		t.Error("Reset should leave a single empty entry")
	}
}
