package document

import (
	"testing"
)

func TestNewClampsCursor(t *testing.T) {
	tests := []struct {
		text   string
		cursor int
		want   int
	}{
		{"abc", -5, 0},
		{"abc", 2, 2},
		{"abc", 3, 3},
		{"abc", 10, 3},
		{"héllo", 10, 5},
		{"", 1, 0},
	}
	for _, tt := range tests {
		if got := New(tt.text, tt.cursor).Cursor(); got != tt.want {
			t.Errorf("New(%q, %d).Cursor() = %d, want %d", tt.text, tt.cursor, got, tt.want)
		}
	}
}

func TestZeroDocument(t *testing.T) {
	var d Document
	if d.LineCount() != 1 || d.Line(0) != "" || d.CursorRow() != 0 || d.LineEnd(0) != 0 {
		t.Errorf("zero document queries misbehave: %v", d)
	}
	if got := d.Insert("x").Text(); got != "x" {
		t.Errorf("Insert on zero document = %q", got)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	d := New("ab\ncde\n\nf", 0)
	tests := []struct {
		index    int
		row, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{6, 1, 3},
		{7, 2, 0},
		{8, 3, 0},
		{9, 3, 1},
	}
	for _, tt := range tests {
		row, col := d.Position(tt.index)
		if row != tt.row || col != tt.col {
			t.Errorf("Position(%d) = (%d, %d), want (%d, %d)", tt.index, row, col, tt.row, tt.col)
		}
		if got := d.Index(tt.row, tt.col); got != tt.index {
			t.Errorf("Index(%d, %d) = %d, want %d", tt.row, tt.col, got, tt.index)
		}
	}
	if got := d.Index(0, 99); got != 2 {
		t.Errorf("Index past line end = %d, want 2", got)
	}
	if got := d.Index(99, 0); got != 8 {
		t.Errorf("Index past last row = %d, want 8", got)
	}
}

func TestLineQueries(t *testing.T) {
	d := New("  foo\nbar baz", 10)

	if d.LineCount() != 2 {
		t.Fatalf("LineCount() = %d", d.LineCount())
	}
	if d.CursorRow() != 1 || d.CursorCol() != 4 {
		t.Errorf("cursor = (%d, %d), want (1, 4)", d.CursorRow(), d.CursorCol())
	}
	if got := d.CurrentLine(); got != "bar baz" {
		t.Errorf("CurrentLine() = %q", got)
	}
	if got := d.CurrentLineBeforeCursor(); got != "bar " {
		t.Errorf("CurrentLineBeforeCursor() = %q", got)
	}
	if got := d.CurrentLineAfterCursor(); got != "baz" {
		t.Errorf("CurrentLineAfterCursor() = %q", got)
	}
	if got := d.LeadingWhitespace(0); got != "  " {
		t.Errorf("LeadingWhitespace(0) = %q", got)
	}
	if got := d.FirstNonBlank(0); got != 2 {
		t.Errorf("FirstNonBlank(0) = %d", got)
	}
	if !d.OnLastLine() || d.OnFirstLine() {
		t.Error("cursor should be on the last line only")
	}
}

func TestCursorUpDownKeepsColumn(t *testing.T) {
	d := New("abcdef\nab\nabcdef", 5)

	down := d.WithCursor(d.CursorDownIndex(1, -1))
	if down.CursorRow() != 1 || down.CursorCol() != 2 {
		t.Fatalf("down = (%d, %d), want (1, 2)", down.CursorRow(), down.CursorCol())
	}
	again := down.WithCursor(down.CursorDownIndex(1, 5))
	if again.CursorRow() != 2 || again.CursorCol() != 5 {
		t.Errorf("down with preferred column = (%d, %d), want (2, 5)", again.CursorRow(), again.CursorCol())
	}
	if got := d.CursorUpIndex(3, -1); got != 5 {
		t.Errorf("up from first row = %d, want 5", got)
	}
}

func TestEditRoundTrip(t *testing.T) {
	texts := []string{"", "hello", "multi\nline\ntext", "日本語 テキスト"}
	inserts := []string{"x", "abc", "new\nline", "é"}

	for _, text := range texts {
		n := New(text, 0).Len()
		for pos := 0; pos <= n; pos++ {
			for _, s := range inserts {
				d := New(text, pos)
				inserted := d.Insert(s)
				got, removed := inserted.DeleteBefore(New(s, 0).Len())
				if got.Text() != text || got.Cursor() != pos {
					t.Errorf("insert %q at %d in %q then delete = %v", s, pos, text, got)
				}
				if removed != s {
					t.Errorf("removed %q, want %q", removed, s)
				}
			}
		}
	}
}

func TestImmutability(t *testing.T) {
	d := New("abc", 1)
	_ = d.Insert("X")
	_, _ = d.DeleteRange(0, 3)
	_ = d.WithSelection(0, SelectLines)
	if d.Text() != "abc" || d.Cursor() != 1 || d.HasSelection() {
		t.Errorf("original document changed: %v", d)
	}
}

func TestReplaceAndOverwrite(t *testing.T) {
	d := New("hello world", 0)
	if got := d.Replace(0, 5, "howdy"); got.Text() != "howdy world" || got.Cursor() != 5 {
		t.Errorf("Replace = %v", got)
	}
	if got := d.Overwrite("HE"); got.Text() != "HEllo world" || got.Cursor() != 2 {
		t.Errorf("Overwrite = %v", got)
	}
	end := New("ab\ncd", 1)
	if got := end.Overwrite("XYZ"); got.Text() != "aXYZ\ncd" {
		t.Errorf("Overwrite past line end = %q", got.Text())
	}
	if got := d.InsertAfter(">"); got.Text() != ">hello world" || got.Cursor() != 0 {
		t.Errorf("InsertAfter = %v", got)
	}
}

func TestDeleteRanges(t *testing.T) {
	d := New("abcd\nefgh\nijkl", 0)
	out, removed := d.DeleteRanges([]Range{{1, 3}, {6, 8}, {11, 13}})
	if out.Text() != "ad\neh\nil" {
		t.Errorf("DeleteRanges text = %q", out.Text())
	}
	if out.Cursor() != 1 {
		t.Errorf("DeleteRanges cursor = %d", out.Cursor())
	}
	if len(removed) != 3 || removed[0] != "bc" || removed[2] != "jk" {
		t.Errorf("removed = %q", removed)
	}
}

func TestSelectionRanges(t *testing.T) {
	text := "abcd\nefgh\nijkl"
	tests := []struct {
		name      string
		anchor    int
		cursor    int
		typ       SelectionType
		inclusive bool
		want      string
	}{
		{"chars forward", 1, 3, SelectCharacters, false, "bc"},
		{"chars backward inclusive", 3, 1, SelectCharacters, true, "bcd"},
		{"lines", 6, 1, SelectLines, false, "abcd\nefgh\n"},
		{"last line", 12, 12, SelectLines, false, "ijkl"},
		{"block", 1, 12, SelectBlock, true, "bc\nfg\njk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(text, tt.cursor).WithSelection(tt.anchor, tt.typ)
			if got := d.SelectedText(tt.inclusive); got != tt.want {
				t.Errorf("SelectedText() = %q, want %q", got, tt.want)
			}
		})
	}
	if New(text, 0).SelectionRanges(true) != nil {
		t.Error("no selection should yield no ranges")
	}
}

func TestEqual(t *testing.T) {
	a := New("abc", 1)
	if !a.Equal(New("abc", 1)) {
		t.Error("identical documents should be equal")
	}
	if a.Equal(New("abc", 2)) {
		t.Error("cursor should matter")
	}
	if a.Equal(a.WithSelection(0, SelectCharacters)) {
		t.Error("selection should matter")
	}
	if !a.WithSelection(0, SelectLines).Equal(New("abc", 1).WithSelection(0, SelectLines)) {
		t.Error("equal selections should compare equal")
	}
}
