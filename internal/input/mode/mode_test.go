package mode

import "testing"

func TestParseRoundTrip(t *testing.T) {
	for m := Mode(0); m < modeCount; m++ {
		got, err := Parse(m.String())
		if err != nil || got != m {
			t.Errorf("Parse(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, _ := Parse("normal"); got != ViNavigation {
		t.Errorf("Parse(normal) = %v", got)
	}
	if _, err := Parse("hyper"); err == nil {
		t.Error("Parse(hyper) should fail")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		mode    Mode
		vi      bool
		visual  bool
		inserts bool
		count   bool
	}{
		{Emacs, false, false, true, false},
		{ViInsert, true, false, true, false},
		{ViNavigation, true, false, false, true},
		{ViReplace, true, false, true, false},
		{ViVisualLine, true, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if tt.mode.IsVi() != tt.vi || tt.mode.IsVisual() != tt.visual ||
				tt.mode.Inserts() != tt.inserts || tt.mode.AcceptsCount() != tt.count {
				t.Errorf("predicates for %v wrong", tt.mode)
			}
		})
	}
}

func TestSet(t *testing.T) {
	s := Of(ViInsert, Emacs)
	if !s.Has(Emacs) || !s.Has(ViInsert) || s.Has(ViNavigation) {
		t.Errorf("Of() = %v", s)
	}
	if All.Has(Mode(modeCount)) {
		t.Error("All should not contain out-of-range modes")
	}
	if Vi.Has(Emacs) || !Vi.Has(ViVisualBlock) {
		t.Error("Vi set wrong")
	}

	parsed, err := ParseSet("emacs, visual")
	if err != nil {
		t.Fatal(err)
	}
	if parsed != Of(Emacs)|Visual {
		t.Errorf("ParseSet() = %v", parsed)
	}
	if _, err := ParseSet(" , "); err == nil {
		t.Error("empty set should fail")
	}
}

func TestManagerSwitch(t *testing.T) {
	m := NewManager(ViInsert)
	var seen [][2]Mode
	m.OnChange(func(from, to Mode) { seen = append(seen, [2]Mode{from, to}) })

	m.Switch(ViNavigation)
	m.Switch(ViNavigation)
	m.Switch(ViVisualChar)

	if m.Current() != ViVisualChar || m.Previous() != ViNavigation {
		t.Errorf("Current() = %v, Previous() = %v", m.Current(), m.Previous())
	}
	want := [][2]Mode{{ViInsert, ViNavigation}, {ViNavigation, ViVisualChar}}
	if len(seen) != len(want) || seen[0] != want[0] || seen[1] != want[1] {
		t.Errorf("callbacks = %v, want %v", seen, want)
	}
}
