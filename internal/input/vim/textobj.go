package vim

import "github.com/dshills/promptline/internal/engine/document"

// TextObject selects a region by structure rather than by movement.
// It is typed after "i" (inner) or "a" (around).
type TextObject struct {
	Name string

	// Keys are the keys that name the object after i or a.
	Keys []rune

	Select func(doc document.Document, around bool) (Region, bool)
}

// Standard text objects.
var (
	TextObjWord   = TextObject{Name: "word", Keys: []rune{'w'}, Select: word(false)}
	TextObjWORD   = TextObject{Name: "WORD", Keys: []rune{'W'}, Select: word(true)}
	TextObjParen  = TextObject{Name: "paren", Keys: []rune{'(', ')', 'b'}, Select: brackets('(', ')')}
	TextObjSquare = TextObject{Name: "square", Keys: []rune{'[', ']'}, Select: brackets('[', ']')}
	TextObjBrace  = TextObject{Name: "brace", Keys: []rune{'{', '}', 'B'}, Select: brackets('{', '}')}
	TextObjAngle  = TextObject{Name: "angle", Keys: []rune{'<', '>'}, Select: brackets('<', '>')}
	TextObjDouble = TextObject{Name: "double-quote", Keys: []rune{'"'}, Select: quotes('"')}
	TextObjSingle = TextObject{Name: "single-quote", Keys: []rune{'\''}, Select: quotes('\'')}
	TextObjBack   = TextObject{Name: "backtick", Keys: []rune{'`'}, Select: quotes('`')}
)

// TextObjects lists every standard text object.
var TextObjects = []TextObject{
	TextObjWord, TextObjWORD,
	TextObjParen, TextObjSquare, TextObjBrace, TextObjAngle,
	TextObjDouble, TextObjSingle, TextObjBack,
}

func word(big bool) func(document.Document, bool) (Region, bool) {
	return func(doc document.Document, around bool) (Region, bool) {
		r := doc.WordBounds(doc.Cursor(), big, around)
		if r.Len() == 0 {
			return Region{}, false
		}
		return Region{Start: r.Start, End: r.End}, true
	}
}

func brackets(open, close rune) func(document.Document, bool) (Region, bool) {
	return func(doc document.Document, around bool) (Region, bool) {
		start, end, ok := doc.EnclosingBrackets(doc.Cursor(), open, close)
		if !ok {
			return Region{}, false
		}
		if around {
			return Region{Start: start, End: end + 1}, true
		}
		return Region{Start: start + 1, End: end}, true
	}
}

func quotes(q rune) func(document.Document, bool) (Region, bool) {
	return func(doc document.Document, around bool) (Region, bool) {
		start, end, ok := doc.EnclosingQuotes(doc.Cursor(), q)
		if !ok {
			return Region{}, false
		}
		if !around {
			return Region{Start: start + 1, End: end}, true
		}
		end++
		for r := doc.CharAt(end); r == ' ' || r == '\t'; r = doc.CharAt(end) {
			end++
		}
		return Region{Start: start, End: end}, true
	}
}
