package vim

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/engine/document"
)

// IndentUnit is the text added by ">" and removed by "<".
var IndentUnit = "    "

// Operator acts on the region named by a following motion or text object.
type Operator struct {
	Name string

	// Keys triggers the operator; LineKeys is its doubled, linewise form.
	Keys     string
	LineKeys string

	// EntersInsert is set when the operator leaves the editor in insert mode.
	EntersInsert bool

	apply func(b *buffer.Buffer, clip buffer.Clipboard, r Region) error
}

// Apply runs the operator over r. clip receives removed or copied text and
// may be nil.
func (op Operator) Apply(b *buffer.Buffer, clip buffer.Clipboard, r Region) error {
	if r.Empty() {
		return nil
	}
	return op.apply(b, clip, r)
}

// Standard operators.
var (
	OpDelete    = Operator{Name: "delete", Keys: "d", LineKeys: "d d", apply: deleteRegion}
	OpChange    = Operator{Name: "change", Keys: "c", LineKeys: "c c", EntersInsert: true, apply: changeRegion}
	OpYank      = Operator{Name: "yank", Keys: "y", LineKeys: "y y", apply: yankRegion}
	OpIndent    = Operator{Name: "indent", Keys: ">", LineKeys: "> >", apply: shiftLines(true)}
	OpDedent    = Operator{Name: "dedent", Keys: "<lt>", LineKeys: "<lt> <lt>", apply: shiftLines(false)}
	OpSwapCase  = Operator{Name: "swap-case", Keys: "g ~", LineKeys: "g ~ ~", apply: mapCase(SwapCase)}
	OpLowerCase = Operator{Name: "lower-case", Keys: "g u", LineKeys: "g u u", apply: mapCase(lower)}
	OpUpperCase = Operator{Name: "upper-case", Keys: "g U", LineKeys: "g U U", apply: mapCase(upper)}
)

// Operators lists every standard operator.
var Operators = []Operator{
	OpDelete, OpChange, OpYank, OpIndent, OpDedent, OpSwapCase, OpLowerCase, OpUpperCase,
}

func clipData(doc document.Document, r Region) buffer.ClipboardData {
	t := document.SelectCharacters
	if r.Linewise {
		t = document.SelectLines
	}
	return buffer.ClipboardData{Text: doc.Slice(r.Start, r.End), Type: t}
}

// lineSpan widens a linewise region to take one separating newline with
// it: the trailing one, or the preceding one on the final line.
func lineSpan(doc document.Document, r Region) (int, int) {
	switch {
	case r.End < doc.Len():
		return r.Start, r.End + 1
	case r.Start > 0:
		return r.Start - 1, r.End
	default:
		return r.Start, r.End
	}
}

func deleteRegion(b *buffer.Buffer, clip buffer.Clipboard, r Region) error {
	doc := b.Document()
	if clip != nil {
		clip.Set(clipData(doc, r))
	}
	if !r.Linewise {
		out, _ := doc.DeleteRange(r.Start, r.End)
		return b.SetDocument(ClampNormal(out))
	}
	start, end := lineSpan(doc, r)
	out, _ := doc.DeleteRange(start, end)
	row, _ := out.Position(min(r.Start, out.Len()))
	return b.SetDocument(out.WithCursor(out.FirstNonBlank(row)))
}

func changeRegion(b *buffer.Buffer, clip buffer.Clipboard, r Region) error {
	doc := b.Document()
	if clip != nil {
		clip.Set(clipData(doc, r))
	}
	if !r.Linewise {
		out, _ := doc.DeleteRange(r.Start, r.End)
		return b.SetDocument(out)
	}
	// Changing lines keeps the indent of the first one.
	row, _ := doc.Position(r.Start)
	return b.SetDocument(doc.Replace(r.Start, r.End, doc.LeadingWhitespace(row)))
}

func yankRegion(b *buffer.Buffer, clip buffer.Clipboard, r Region) error {
	doc := b.Document()
	if clip != nil {
		clip.Set(clipData(doc, r))
	}
	if !r.Linewise {
		b.SetCursor(r.Start)
	}
	return nil
}

// rows returns the first and last row touched by r.
func rows(doc document.Document, r Region) (int, int) {
	from, _ := doc.Position(r.Start)
	to, _ := doc.Position(max(r.End-1, r.Start))
	return from, to
}

func shiftLines(right bool) func(*buffer.Buffer, buffer.Clipboard, Region) error {
	return func(b *buffer.Buffer, _ buffer.Clipboard, r Region) error {
		doc := b.Document()
		from, to := rows(doc, r)
		lines := doc.Lines()
		for row := from; row <= to; row++ {
			lines[row] = shift(lines[row], right)
		}
		start := doc.LineStart(from)
		out := doc.Replace(start, doc.LineEnd(to), strings.Join(lines[from:to+1], "\n"))
		return b.SetDocument(out.WithCursor(out.FirstNonBlank(from)))
	}
}

func shift(line string, right bool) string {
	if right {
		if line == "" {
			return line
		}
		return IndentUnit + line
	}
	if strings.HasPrefix(line, "\t") {
		return line[1:]
	}
	n := 0
	for n < len(line) && n < len(IndentUnit) && line[n] == ' ' {
		n++
	}
	return line[n:]
}

func mapCase(fn func(string) string) func(*buffer.Buffer, buffer.Clipboard, Region) error {
	return func(b *buffer.Buffer, _ buffer.Clipboard, r Region) error {
		doc := b.Document()
		out := doc.Replace(r.Start, r.End, fn(doc.Slice(r.Start, r.End)))
		return b.SetDocument(out.WithCursor(r.Start))
	}
}

// SwapCase toggles the case of the runes in s.
func SwapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		}
		return r
	}, s)
}

func lower(s string) string { return cases.Lower(language.Und).String(s) }

func upper(s string) string { return cases.Upper(language.Und).String(s) }
