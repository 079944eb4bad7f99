package buffer

import (
	"github.com/dshills/promptline/internal/engine/document"
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithText sets the initial text with the cursor at the end.
func WithText(text string) Option {
	return func(b *Buffer) {
		b.doc = document.NewAtEnd(text)
	}
}

// WithHistoryLimit bounds the number of undo entries.
func WithHistoryLimit(limit int) Option {
	return func(b *Buffer) {
		b.historyLimit = limit
	}
}

// WithMultiline lets Enter insert newlines while input is incomplete.
func WithMultiline(on bool) Option {
	return func(b *Buffer) {
		b.multiline = on
	}
}

// WithAutoIndent copies the current line's indentation onto new lines.
func WithAutoIndent(on bool) Option {
	return func(b *Buffer) {
		b.autoIndent = on
	}
}

// WithCompletenessChecker sets the collaborator consulted on Enter.
func WithCompletenessChecker(c CompletenessChecker) Option {
	return func(b *Buffer) {
		b.checker = c
	}
}

// WithValidator sets the collaborator consulted on accept.
func WithValidator(v Validator) Option {
	return func(b *Buffer) {
		b.validator = v
	}
}

// WithReadOnly rejects every text change.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}
