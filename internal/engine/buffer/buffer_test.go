package buffer

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/promptline/internal/engine/document"
)

func TestInsertUndoRedo(t *testing.T) {
	b := New(WithText("hello"))
	b.SetCursor(0)
	before := b.Document()

	if err := b.Insert(">> "); err != nil {
		t.Fatal(err)
	}
	after := b.Document()

	if !b.Undo() {
		t.Fatal("Undo() = false")
	}
	if !b.Document().Equal(before) {
		t.Errorf("after undo = %v, want %v", b.Document(), before)
	}
	if !b.Redo() {
		t.Fatal("Redo() = false")
	}
	if !b.Document().Equal(after) {
		t.Errorf("after redo = %v, want %v", b.Document(), after)
	}
	if b.Redo() {
		t.Error("second Redo() should fail")
	}
}

func TestUndoWithNothingToUndo(t *testing.T) {
	b := New()
	if b.Undo() {
		t.Error("Undo() on fresh buffer = true")
	}
	b.SetCursor(3)
	if b.Undo() {
		t.Error("cursor moves should not create undo steps")
	}
}

func TestEditGroupUndoesAsOne(t *testing.T) {
	b := New()
	b.BeginEditGroup()
	for _, r := range "hello" {
		b.Insert(string(r))
	}
	b.EndEditGroup()
	b.Insert("!")

	b.Undo()
	if got := b.Text(); got != "hello" {
		t.Errorf("after first undo = %q", got)
	}
	b.Undo()
	if got := b.Text(); got != "" {
		t.Errorf("after second undo = %q", got)
	}
}

func TestChangeHooks(t *testing.T) {
	b := New()
	var changes int
	b.OnChange(func(*Buffer) { changes++ })

	b.Insert("a")
	b.SetCursor(0)
	b.Insert("b")
	b.Undo()

	if changes != 3 {
		t.Errorf("change hook fired %d times, want 3", changes)
	}
}

func TestReadOnly(t *testing.T) {
	b := New(WithText("fixed"), WithReadOnly())
	if err := b.Insert("x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Insert() error = %v, want ErrReadOnly", err)
	}
	if b.Text() != "fixed" {
		t.Errorf("text changed to %q", b.Text())
	}
}

func TestReadOnlyUndoRedo(t *testing.T) {
	b := New()
	if err := b.Insert("abc"); err != nil {
		t.Fatal(err)
	}
	b.SetReadOnly(true)
	index := b.History().Index()
	if b.Undo() {
		t.Error("Undo() = true on a read-only buffer")
	}
	if b.Text() != "abc" || b.History().Index() != index {
		t.Errorf("text = %q, history index = %d; want %q, %d", b.Text(), b.History().Index(), "abc", index)
	}

	b.SetReadOnly(false)
	if !b.Undo() || b.Text() != "" {
		t.Fatalf("Undo() left %q", b.Text())
	}
	b.SetReadOnly(true)
	index = b.History().Index()
	if b.Redo() {
		t.Error("Redo() = true on a read-only buffer")
	}
	if b.Text() != "" || b.History().Index() != index {
		t.Errorf("text = %q, history index = %d", b.Text(), b.History().Index())
	}
}

func TestNewlineAutoIndent(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		indent bool
		want   string
	}{
		{"copies indent", "    if x:", true, "    if x:\n    "},
		{"tabs", "\tfoo", true, "\tfoo\n\t"},
		{"disabled", "    foo", false, "    foo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(WithText(tt.text), WithAutoIndent(tt.indent))
			b.Newline()
			if b.Text() != tt.want {
				t.Errorf("Newline() text = %q, want %q", b.Text(), tt.want)
			}
			if b.Cursor() != b.Document().Len() {
				t.Errorf("cursor = %d, want end", b.Cursor())
			}
		})
	}
}

func TestHandleEnter(t *testing.T) {
	balanced := CompletenessFunc(func(text string) bool {
		return strings.Count(text, "(") == strings.Count(text, ")")
	})

	tests := []struct {
		name      string
		multiline bool
		text      string
		cursor    int
		accepted  bool
		wantText  string
	}{
		{"single line incomplete inserts newline", false, "f(", -1, false, "f(\n"},
		{"single line complete submits", false, "f()", -1, true, "f()"},
		{"single line ignores text after cursor", false, "f()", 1, true, "f()"},
		{"incomplete inserts newline", true, "f(", -1, false, "f(\n"},
		{"complete submits", true, "f()", -1, true, "f()"},
		{"text after cursor inserts newline", true, "f()", 1, false, "f\n()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(WithText(tt.text), WithMultiline(tt.multiline), WithCompletenessChecker(balanced))
			if tt.cursor >= 0 {
				b.SetCursor(tt.cursor)
			}
			var got []string
			b.OnAccept(func(text string) { got = append(got, text) })

			accepted, err := b.HandleEnter()
			if err != nil {
				t.Fatal(err)
			}
			if accepted != tt.accepted {
				t.Errorf("accepted = %v, want %v", accepted, tt.accepted)
			}
			if b.Text() != tt.wantText {
				t.Errorf("text = %q, want %q", b.Text(), tt.wantText)
			}
			if tt.accepted && (len(got) != 1 || got[0] != tt.wantText) {
				t.Errorf("accept hook got %q", got)
			}
		})
	}
}

func TestHandleEnterDefaultOptionsConsultsChecker(t *testing.T) {
	calls := 0
	b := New(WithText("if x:"), WithCompletenessChecker(CompletenessFunc(func(string) bool {
		calls++
		return false
	})))

	accepted, err := b.HandleEnter()
	if err != nil {
		t.Fatal(err)
	}
	if accepted || calls != 1 {
		t.Errorf("accepted = %v, checker calls = %d; want false, 1", accepted, calls)
	}
	if b.Text() != "if x:\n" {
		t.Errorf("text = %q", b.Text())
	}
}

func TestHandleEnterWithoutChecker(t *testing.T) {
	b := New(WithText("f("))
	accepted, err := b.HandleEnter()
	if err != nil || !accepted {
		t.Errorf("HandleEnter() = %v, %v; want true, nil", accepted, err)
	}
}

func TestCheckerPanicAccepts(t *testing.T) {
	var failures []string
	b := New(WithText("x"), WithMultiline(true), WithCompletenessChecker(CompletenessFunc(func(string) bool {
		panic("boom")
	})))
	b.Failure = func(what string, _ any) { failures = append(failures, what) }

	accepted, err := b.HandleEnter()
	if err != nil || !accepted {
		t.Errorf("HandleEnter() = %v, %v; want true, nil", accepted, err)
	}
	if len(failures) != 1 {
		t.Errorf("failures = %v", failures)
	}
}

func TestValidation(t *testing.T) {
	digits := ValidatorFunc(func(doc document.Document) error {
		for i, r := range []rune(doc.Text()) {
			if r < '0' || r > '9' {
				return &ValidationError{Position: i, Message: "not a digit"}
			}
		}
		return nil
	})

	b := New(WithText("12a4"), WithValidator(digits))
	var accepted bool
	b.OnAccept(func(string) { accepted = true })

	err := b.Accept()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Accept() error = %v, want *ValidationError", err)
	}
	if accepted {
		t.Error("invalid input must not be accepted")
	}
	if b.ValidationError() == nil || b.Cursor() != 2 {
		t.Errorf("validation state = %v, cursor = %d", b.ValidationError(), b.Cursor())
	}
	if b.Text() != "12a4" {
		t.Errorf("text changed to %q", b.Text())
	}

	b.DeleteAfter(1)
	if b.ValidationError() != nil {
		t.Error("editing should clear the validation error")
	}
	if err := b.Accept(); err != nil || !accepted {
		t.Errorf("Accept() = %v, accepted = %v", err, accepted)
	}
}

func TestPlainValidatorError(t *testing.T) {
	b := New(WithText("abc"), WithValidator(ValidatorFunc(func(document.Document) error {
		return errors.New("nope")
	})))
	verr := b.Validate()
	if verr == nil || verr.Message != "nope" || verr.Position != 3 {
		t.Errorf("Validate() = %+v", verr)
	}
}

func TestCursorVerticalSticky(t *testing.T) {
	b := New(WithText("abcdef\nab\nabcdef"))
	b.SetCursor(5)

	b.CursorDown(1)
	if b.Document().CursorCol() != 2 {
		t.Fatalf("col after first down = %d", b.Document().CursorCol())
	}
	b.CursorDown(1)
	if b.Document().CursorCol() != 5 {
		t.Errorf("col after second down = %d, want 5", b.Document().CursorCol())
	}
	if b.CursorDown(1) {
		t.Error("CursorDown on last line should not move")
	}
	b.CursorUp(2)
	if b.Cursor() != 5 {
		t.Errorf("cursor after up = %d, want 5", b.Cursor())
	}
}
