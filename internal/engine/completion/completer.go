package completion

import (
	"context"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
)

// WordCompleter completes the word before the cursor from a fixed list.
type WordCompleter struct {
	Words []string
	// Meta holds optional descriptions keyed by word.
	Meta map[string]string
	// IgnoreCase matches without regard to case.
	IgnoreCase bool
	// Sentence completes the whole line before the cursor instead of
	// the last word.
	Sentence bool
	// MatchMiddle also offers words that contain the typed text anywhere.
	MatchMiddle bool
}

// NewWordCompleter returns a case-insensitive completer for words.
func NewWordCompleter(words ...string) *WordCompleter {
	return &WordCompleter{Words: words, IgnoreCase: true}
}

// Completions implements buffer.Completer. Matches are yielded in list
// order as they are found.
func (w *WordCompleter) Completions(ctx context.Context, doc document.Document, _ buffer.CompleteEvent) iter.Seq2[buffer.Completion, error] {
	typed := WordBeforeCursor(doc)
	if w.Sentence {
		typed = doc.CurrentLineBeforeCursor()
	}
	needle := typed
	if w.IgnoreCase {
		needle = strings.ToLower(needle)
	}
	start := -utf8.RuneCountInString(typed)

	return func(yield func(buffer.Completion, error) bool) {
		for i, word := range w.Words {
			if i%256 == 0 {
				if err := ctx.Err(); err != nil {
					yield(buffer.Completion{}, err)
					return
				}
			}
			hay := word
			if w.IgnoreCase {
				hay = strings.ToLower(hay)
			}
			ok := strings.HasPrefix(hay, needle)
			if !ok && w.MatchMiddle {
				ok = strings.Contains(hay, needle)
			}
			if ok && !yield(buffer.Completion{Text: word, StartPosition: start, Meta: w.Meta[word]}, nil) {
				return
			}
		}
	}
}

// DefaultFuzzyLimit bounds the candidates FuzzyCompleter ranks.
const DefaultFuzzyLimit = 1 << 16

// FuzzyCompleter filters and ranks another completer's candidates with
// fuzzy matching against the word before the cursor. The wrapped
// completer sees the document with that word removed, so it offers every
// candidate for the position. Ranking needs the whole set, so at most
// Limit candidates are drawn from the wrapped sequence.
type FuzzyCompleter struct {
	Completer buffer.Completer
	Matcher   *Matcher
	// Limit caps the candidates drawn from Completer; <= 0 means
	// DefaultFuzzyLimit.
	Limit int
	// Enabled turns fuzzy matching off while it returns false.
	Enabled func() bool
}

// NewFuzzyCompleter wraps inner.
func NewFuzzyCompleter(inner buffer.Completer) *FuzzyCompleter {
	return &FuzzyCompleter{Completer: inner, Matcher: NewMatcher(), Limit: DefaultFuzzyLimit}
}

// Completions implements buffer.Completer.
func (f *FuzzyCompleter) Completions(ctx context.Context, doc document.Document, ev buffer.CompleteEvent) iter.Seq2[buffer.Completion, error] {
	if f.Enabled != nil && !f.Enabled() {
		return f.Completer.Completions(ctx, doc, ev)
	}
	word := WordBeforeCursor(doc)
	n := utf8.RuneCountInString(word)
	if n == 0 {
		return f.Completer.Completions(ctx, doc, ev)
	}

	return func(yield func(buffer.Completion, error) bool) {
		limit := f.Limit
		if limit <= 0 {
			limit = DefaultFuzzyLimit
		}
		base := doc.Cursor() - n
		inner := document.New(doc.Slice(0, base)+doc.Slice(doc.Cursor(), doc.Len()), base)
		items, err := buffer.Collect(ctx, f.Completer.Completions(ctx, inner, ev), limit)
		if err != nil {
			yield(buffer.Completion{}, err)
			return
		}

		texts := make([]string, len(items))
		for i, c := range items {
			texts[i] = c.Text
		}
		matches, err := f.Matcher.Match(ctx, word, texts, 0)
		if err != nil {
			yield(buffer.Completion{}, err)
			return
		}
		for _, m := range matches {
			c := items[m.Index]
			c.StartPosition -= n
			if !yield(c, nil) {
				return
			}
		}
	}
}

// WordBeforeCursor returns the run of letters, digits and underscores
// ending at the cursor.
func WordBeforeCursor(doc document.Document) string {
	line := []rune(doc.CurrentLineBeforeCursor())
	i := len(line)
	for i > 0 && isWordRune(line[i-1]) {
		i--
	}
	return string(line[i:])
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
