package buffer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/promptline/internal/engine/document"
	"github.com/dshills/promptline/internal/engine/history"
)

// Errors returned by buffer operations.
var (
	ErrReadOnly = errors.New("buffer is read-only")
)

// CompletenessChecker decides whether the text forms a complete input.
// While it returns false, Enter inserts a newline.
type CompletenessChecker interface {
	IsComplete(text string) bool
}

// CompletenessFunc adapts a function to CompletenessChecker.
type CompletenessFunc func(text string) bool

// IsComplete implements CompletenessChecker.
func (f CompletenessFunc) IsComplete(text string) bool { return f(text) }

// Validator checks a document before it is accepted.
type Validator interface {
	Validate(doc document.Document) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(doc document.Document) error

// Validate implements Validator.
func (f ValidatorFunc) Validate(doc document.Document) error { return f(doc) }

// ValidationError is the UI state left behind by a failed validation.
type ValidationError struct {
	// Position is the rune offset the message refers to.
	Position int
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input at %d: %s", e.Position, e.Message)
}

// Buffer is an editing session over a document.
type Buffer struct {
	doc     document.Document
	history *history.History

	multiline    bool
	autoIndent   bool
	readOnly     bool
	historyLimit int
	checker      CompletenessChecker
	validator    Validator

	validationErr *ValidationError
	completion    *CompletionState
	preferredCol  int

	onChange []func(*Buffer)
	onAccept []func(text string)

	// Failure, if set, receives collaborator panics that were absorbed.
	Failure func(what string, recovered any)
}

// New creates an empty buffer configured by opts.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		autoIndent:   true,
		preferredCol: -1,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.history = history.New(b.doc, b.historyLimit)
	return b
}

// Document returns the working document.
func (b *Buffer) Document() document.Document { return b.doc }

// Text returns the working text.
func (b *Buffer) Text() string { return b.doc.Text() }

// Cursor returns the cursor offset.
func (b *Buffer) Cursor() int { return b.doc.Cursor() }

// History returns the undo history.
func (b *Buffer) History() *history.History { return b.history }

// Multiline reports whether Enter may insert newlines.
func (b *Buffer) Multiline() bool { return b.multiline }

// SetMultiline changes the multiline setting.
func (b *Buffer) SetMultiline(on bool) { b.multiline = on }

// ReadOnly reports whether edits are rejected.
func (b *Buffer) ReadOnly() bool { return b.readOnly }

// SetReadOnly changes whether edits, undo and redo are rejected.
func (b *Buffer) SetReadOnly(on bool) { b.readOnly = on }

// OnChange registers a hook called after every text change.
func (b *Buffer) OnChange(fn func(*Buffer)) {
	b.onChange = append(b.onChange, fn)
}

// OnAccept registers a hook called with the text of an accepted input.
func (b *Buffer) OnAccept(fn func(text string)) {
	b.onAccept = append(b.onAccept, fn)
}

// SetDocument replaces the working document and records an undo step when
// the text changed.
func (b *Buffer) SetDocument(doc document.Document) error {
	return b.apply(doc, true)
}

// SetCursor moves the cursor without touching history.
func (b *Buffer) SetCursor(index int) {
	b.doc = b.doc.WithCursor(index)
	b.preferredCol = -1
}

// apply installs doc as the working document. Text changes clear the
// validation error, drop completion state unless it is being navigated,
// and notify change hooks.
func (b *Buffer) apply(doc document.Document, record bool) error {
	changed := doc.Text() != b.doc.Text()
	if changed && b.readOnly {
		return ErrReadOnly
	}
	prev := b.doc
	b.doc = doc
	b.preferredCol = -1
	if !changed {
		return nil
	}
	b.validationErr = nil
	if record {
		b.completion = nil
		// Remember where the cursor was so undo returns to it.
		if b.history.Current().Text() == prev.Text() {
			b.history.Replace(prev)
		}
		b.history.Push(doc)
	}
	for _, fn := range b.onChange {
		fn(b)
	}
	return nil
}

// Undo restores the previous snapshot. It returns false when there is
// nothing to undo or the buffer is read-only.
func (b *Buffer) Undo() bool {
	if b.readOnly {
		return false
	}
	b.syncHistory()
	doc, err := b.history.Undo()
	if err != nil {
		return false
	}
	b.completion = nil
	return b.restore(doc)
}

// Redo re-applies the next snapshot. It returns false when there is
// nothing to redo or the buffer is read-only.
func (b *Buffer) Redo() bool {
	if b.readOnly {
		return false
	}
	doc, err := b.history.Redo()
	if err != nil {
		return false
	}
	b.completion = nil
	return b.restore(doc)
}

// restore installs a history snapshot.
func (b *Buffer) restore(doc document.Document) bool {
	return b.apply(doc.WithoutSelection(), false) == nil
}

// syncHistory records an unrecorded text change before moving in history.
func (b *Buffer) syncHistory() {
	if b.history.Current().Text() != b.doc.Text() {
		b.history.Push(b.doc)
	}
}

// BeginEditGroup starts coalescing edits into one undo step.
func (b *Buffer) BeginEditGroup() { b.history.BeginGroup() }

// EndEditGroup ends the group started by BeginEditGroup.
func (b *Buffer) EndEditGroup() { b.history.EndGroup() }

// Reset replaces the text and starts a fresh history.
func (b *Buffer) Reset(text string) {
	b.doc = document.NewAtEnd(text)
	b.history.Reset(b.doc)
	b.validationErr = nil
	b.completion = nil
	b.preferredCol = -1
	for _, fn := range b.onChange {
		fn(b)
	}
}

// Validate runs the validator and stores its verdict as UI state.
// A validator that panics accepts the input.
func (b *Buffer) Validate() *ValidationError {
	b.validationErr = nil
	if b.validator == nil {
		return nil
	}

	var err error
	func() {
		defer b.absorb("validator")
		err = b.validator.Validate(b.doc)
	}()
	if err == nil {
		return nil
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		verr = &ValidationError{Position: b.doc.Cursor(), Message: err.Error()}
	}
	verr.Position = min(max(verr.Position, 0), b.doc.Len())
	b.validationErr = verr
	return verr
}

// ValidationError returns the error left by the last failed validation.
func (b *Buffer) ValidationError() *ValidationError { return b.validationErr }

// ClearValidation drops the validation error.
func (b *Buffer) ClearValidation() { b.validationErr = nil }

// Accept validates the input and, if valid, hands it to the accept hooks.
// On failure the cursor moves to the error position and the error is
// returned; the buffer keeps its text.
func (b *Buffer) Accept() error {
	if verr := b.Validate(); verr != nil {
		b.doc = b.doc.WithCursor(verr.Position)
		return verr
	}
	b.completion = nil
	text := b.doc.Text()
	for _, fn := range b.onAccept {
		fn(text)
	}
	return nil
}

// IsComplete asks the completeness checker about the current text.
// Without a checker, or when the checker panics, input is complete.
func (b *Buffer) IsComplete() bool {
	if b.checker == nil {
		return true
	}
	complete := true
	func() {
		defer b.absorb("completeness checker")
		complete = b.checker.IsComplete(b.doc.Text())
	}()
	return complete
}

// HandleEnter decides between submitting and inserting a newline.
// Incomplete text, as judged by the completeness checker, gets a newline
// whether or not the buffer is multiline. Multiline buffers also insert a
// newline while the cursor has non-blank text after it. It reports
// whether the input was accepted.
func (b *Buffer) HandleEnter() (bool, error) {
	if b.multiline && strings.TrimSpace(b.doc.TextAfterCursor()) != "" {
		return false, b.Newline()
	}
	if !b.IsComplete() {
		return false, b.Newline()
	}
	if err := b.Accept(); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Buffer) absorb(what string) {
	if r := recover(); r != nil && b.Failure != nil {
		b.Failure(what, r)
	}
}
