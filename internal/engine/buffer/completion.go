package buffer

import (
	"context"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/dshills/promptline/internal/engine/document"
)

// Completion is a candidate replacement for the text before the cursor.
type Completion struct {
	// Text replaces the -StartPosition runes left of the cursor.
	Text          string
	StartPosition int
	// Display is shown in menus instead of Text when set.
	Display string
	// Meta is an optional description shown next to the candidate.
	Meta string
}

// DisplayText returns the label shown in completion menus.
func (c Completion) DisplayText() string {
	if c.Display != "" {
		return c.Display
	}
	return c.Text
}

// CompleteEvent describes what asked for completions.
type CompleteEvent struct {
	// TextInserted is set when completions follow typed text.
	TextInserted bool
	// CompletionRequested is set when the user asked for completions,
	// as with Tab.
	CompletionRequested bool
}

// Completer produces completions for a document. Each call returns a new
// sequence, which may be infinite; consumers stop pulling when they have
// enough. The sequence is consumed off the event loop and should honour
// ctx cancellation. A non-nil error ends the sequence.
type Completer interface {
	Completions(ctx context.Context, doc document.Document, ev CompleteEvent) iter.Seq2[Completion, error]
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, doc document.Document, ev CompleteEvent) iter.Seq2[Completion, error]

// Completions implements Completer.
func (f CompleterFunc) Completions(ctx context.Context, doc document.Document, ev CompleteEvent) iter.Seq2[Completion, error] {
	return f(ctx, doc, ev)
}

// Candidates yields items in order.
func Candidates(items ...Completion) iter.Seq2[Completion, error] {
	return func(yield func(Completion, error) bool) {
		for _, c := range items {
			if !yield(c, nil) {
				return
			}
		}
	}
}

// Failed yields err alone.
func Failed(err error) iter.Seq2[Completion, error] {
	return func(yield func(Completion, error) bool) {
		yield(Completion{}, err)
	}
}

// Collect pulls up to limit candidates from seq; limit <= 0 means no
// bound. It stops early when ctx is done or seq yields an error, and
// returns the candidates gathered so far with that error.
func Collect(ctx context.Context, seq iter.Seq2[Completion, error], limit int) ([]Completion, error) {
	var out []Completion
	for c, err := range seq {
		if err != nil {
			return out, err
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, ctx.Err()
}

// CompletionState tracks an open completion menu.
type CompletionState struct {
	// Original is the document before any candidate was applied.
	Original document.Document
	Items    []Completion
	// Index is the highlighted candidate, or -1 for none.
	Index int
}

// Current returns the highlighted candidate.
func (s *CompletionState) Current() (Completion, bool) {
	if s == nil || s.Index < 0 || s.Index >= len(s.Items) {
		return Completion{}, false
	}
	return s.Items[s.Index], true
}

func applyCompletion(doc document.Document, c Completion) document.Document {
	cursor := doc.Cursor()
	return doc.Replace(cursor+min(c.StartPosition, 0), cursor, c.Text)
}

// SetCompletions opens the completion menu with items. An empty list
// closes it.
func (b *Buffer) SetCompletions(items []Completion) {
	if len(items) == 0 {
		b.completion = nil
		return
	}
	b.completion = &CompletionState{Original: b.doc, Items: items, Index: -1}
}

// Completion returns the open completion menu, or nil.
func (b *Buffer) Completion() *CompletionState { return b.completion }

// CompleteNext highlights the candidate count steps down and applies it.
// Moving past the last candidate returns to the original text.
func (b *Buffer) CompleteNext(count int) {
	b.completeStep(max(count, 1))
}

// CompletePrev highlights the candidate count steps up.
func (b *Buffer) CompletePrev(count int) {
	b.completeStep(-max(count, 1))
}

func (b *Buffer) completeStep(delta int) {
	st := b.completion
	if st == nil {
		return
	}
	n := len(st.Items) + 1
	st.Index = ((st.Index+1+delta)%n+n)%n - 1

	doc := st.Original
	if c, ok := st.Current(); ok {
		doc = applyCompletion(doc, c)
	}
	_ = b.apply(doc, false)
}

// ApplyCompletion inserts c and closes the menu.
func (b *Buffer) ApplyCompletion(c Completion) error {
	base := b.doc
	if b.completion != nil {
		base = b.completion.Original
	}
	b.completion = nil
	return b.apply(applyCompletion(base, c), true)
}

// CancelCompletion closes the menu. With restore set, the text returns to
// what it was before a candidate was highlighted.
func (b *Buffer) CancelCompletion(restore bool) {
	st := b.completion
	b.completion = nil
	if restore && st != nil {
		_ = b.apply(st.Original, false)
	}
}

// CommonSuffix returns the text every candidate would add after the cursor,
// when all candidates agree on a prefix longer than what is typed.
func CommonSuffix(doc document.Document, items []Completion) string {
	if len(items) == 0 {
		return ""
	}
	before := doc.TextBeforeCursor()
	var common string
	for i, c := range items {
		typed := suffixRunes(before, -min(c.StartPosition, 0))
		if !strings.HasPrefix(c.Text, typed) {
			return ""
		}
		rest := c.Text[len(typed):]
		if i == 0 {
			common = rest
			continue
		}
		common = commonPrefix(common, rest)
	}
	return common
}

func suffixRunes(s string, n int) string {
	for i := len(s); i > 0; {
		if n == 0 {
			return s[i:]
		}
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
		n--
	}
	return s
}

func commonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	for i > 0 && i < len(a) && !utf8.RuneStart(a[i]) {
		i--
	}
	return a[:i]
}
