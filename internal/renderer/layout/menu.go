package layout

import (
	"strings"

	"github.com/dshills/promptline/internal/engine/buffer"
	"github.com/dshills/promptline/internal/renderer/core"
)

// CompletionMenu lists the buffer's open completions, one per row, with
// the highlighted candidate marked. It scrolls to keep the highlight in
// view and is hidden while no menu is open.
type CompletionMenu struct {
	Buffer  *buffer.Buffer
	MaxRows int

	scroll int
}

// NewCompletionMenu returns a menu of at most maxRows rows.
func NewCompletionMenu(b *buffer.Buffer, maxRows int) *CompletionMenu {
	return &CompletionMenu{Buffer: b, MaxRows: max(maxRows, 1)}
}

func (m *CompletionMenu) items() []buffer.Completion {
	if st := m.Buffer.Completion(); st != nil {
		return st.Items
	}
	return nil
}

func (m *CompletionMenu) columns() (text, meta int) {
	for _, c := range m.items() {
		text = max(text, core.StringWidth(c.DisplayText()))
		meta = max(meta, core.StringWidth(c.Meta))
	}
	text += 2
	if meta > 0 {
		meta += 2
	}
	return text, meta
}

// PreferredWidth implements Container.
func (m *CompletionMenu) PreferredWidth(_ *Context, maxAvailable int) Dimension {
	if len(m.items()) == 0 {
		return Zero
	}
	text, meta := m.columns()
	return Flexible(0, min(text+meta, maxAvailable))
}

// PreferredHeight implements Container.
func (m *CompletionMenu) PreferredHeight(_ *Context, _, maxAvailable int) Dimension {
	n := min(len(m.items()), m.MaxRows, maxAvailable)
	return Dimension{Min: min(n, 1), Max: n, Preferred: n}
}

// WriteTo implements Container.
func (m *CompletionMenu) WriteTo(ctx *Context, s *core.Screen, r core.Rect) {
	st := m.Buffer.Completion()
	if st == nil || len(st.Items) == 0 || r.Empty() {
		return
	}
	if st.Index >= 0 {
		if st.Index < m.scroll {
			m.scroll = st.Index
		}
		if st.Index >= m.scroll+r.Height {
			m.scroll = st.Index - r.Height + 1
		}
	}
	m.scroll = max(min(m.scroll, len(st.Items)-r.Height), 0)

	textW, metaW := m.columns()
	width := min(textW+metaW, r.Width)
	textW = min(textW, width)
	metaW = width - textW

	for row := 0; row < r.Height && m.scroll+row < len(st.Items); row++ {
		i := m.scroll + row
		c := st.Items[i]
		class := "class:completion-menu"
		if i == st.Index {
			class = "class:completion-menu.current"
		}
		label := " " + core.Truncate(c.DisplayText(), max(textW-2, 0), "…")
		s.WriteString(r.Row+row, r.Col, pad(label, textW), ctx.Styles.Resolve(class))
		if metaW > 0 {
			meta := " " + core.Truncate(c.Meta, max(metaW-2, 0), "…")
			s.WriteString(r.Row+row, r.Col+textW, pad(meta, metaW), ctx.Styles.Resolve(class+" class:completion-menu.meta"))
		}
	}
}

// pad extends s with spaces to width columns.
func pad(s string, width int) string {
	if w := core.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
