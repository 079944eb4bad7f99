package decode

import (
	"github.com/dshills/promptline/internal/input/key"
)

// tildeKeys maps the first parameter of "CSI n ~" sequences.
var tildeKeys = map[int]key.Key{
	1:  key.KeyHome,
	2:  key.KeyInsert,
	3:  key.KeyDelete,
	4:  key.KeyEnd,
	5:  key.KeyPageUp,
	6:  key.KeyPageDown,
	7:  key.KeyHome,
	8:  key.KeyEnd,
	11: key.KeyF1,
	12: key.KeyF2,
	13: key.KeyF3,
	14: key.KeyF4,
	15: key.KeyF5,
	17: key.KeyF6,
	18: key.KeyF7,
	19: key.KeyF8,
	20: key.KeyF9,
	21: key.KeyF10,
	23: key.KeyF11,
	24: key.KeyF12,
}

// letterKeys maps the final byte of "CSI [1;m] X" sequences.
var letterKeys = map[byte]key.Key{
	'A': key.KeyUp,
	'B': key.KeyDown,
	'C': key.KeyRight,
	'D': key.KeyLeft,
	'H': key.KeyHome,
	'F': key.KeyEnd,
	'P': key.KeyF1,
	'Q': key.KeyF2,
	'S': key.KeyF4,
}

// dispatchCSI interprets a complete CSI sequence held in d.seq.
func (d *Decoder) dispatchCSI() {
	raw := string(d.seq)
	final := d.seq[len(d.seq)-1]
	body := string(d.seq[2 : len(d.seq)-1])

	if body == "" && final == 'M' {
		d.state = stateMouseX10
		d.need = 3
		return
	}

	if len(body) > 0 && body[0] == '<' && (final == 'M' || final == 'm') {
		if ev, ok := sgrMouse(body[1:], final == 'm'); ok {
			ev.Data = raw
			d.emit(ev)
			d.reset()
			return
		}
		d.degrade()
		return
	}

	// Focus reports carry no key.
	if body == "" && (final == 'I' || final == 'O') {
		d.reset()
		return
	}

	p, ok := params(body)
	if !ok {
		d.degrade()
		return
	}

	switch final {
	case '~':
		if len(p) == 0 {
			break
		}
		switch p[0] {
		case 200:
			d.reset()
			d.state = statePaste
			d.paste.Reset()
			return
		case 201:
			// Stray paste terminator.
			d.reset()
			return
		}
		if k, found := tildeKeys[p[0]]; found {
			d.emit(key.Event{Key: k, Modifiers: modParam(p, 1), Data: raw})
			d.reset()
			return
		}
	case 'Z':
		d.emit(key.Event{Key: key.KeyBackTab, Data: raw})
		d.reset()
		return
	case 'R':
		if len(p) == 2 && p[0] > 0 && p[1] > 0 {
			d.emit(key.Event{Key: key.KeyCPR, Report: key.Position{Row: p[0], Col: p[1]}, Data: raw})
			d.reset()
			return
		}
	default:
		if k, found := letterKeys[final]; found && len(p) <= 2 {
			d.emit(key.Event{Key: k, Modifiers: modParam(p, 1), Data: raw})
			d.reset()
			return
		}
	}
	d.degrade()
}

func modParam(p []int, i int) key.Modifier {
	if i >= len(p) {
		return key.ModNone
	}
	return key.XtermModifiers(p[i])
}

// sgrMouse decodes the "b;x;y" body of an SGR (1006) mouse report.
func sgrMouse(body string, release bool) (key.Event, bool) {
	p, ok := params(body)
	if !ok || len(p) != 3 || p[1] < 1 || p[2] < 1 {
		return key.Event{}, false
	}
	m := mouseFromCode(p[0], release)
	m.Col = p[1] - 1
	m.Row = p[2] - 1
	return key.Event{Key: key.KeyMouse, Mouse: m, Modifiers: mouseModifiers(p[0])}, true
}

// x10Mouse decodes the three payload bytes of a legacy X10 mouse report.
func x10Mouse(payload []byte) (key.Event, bool) {
	if len(payload) != 3 || payload[0] < 32 || payload[1] < 33 || payload[2] < 33 {
		return key.Event{}, false
	}
	code := int(payload[0]) - 32
	release := code&3 == 3 && code&64 == 0
	m := mouseFromCode(code, release)
	m.Col = int(payload[1]) - 33
	m.Row = int(payload[2]) - 33
	return key.Event{Key: key.KeyMouse, Mouse: m, Modifiers: mouseModifiers(code)}, true
}

func mouseFromCode(code int, release bool) key.Mouse {
	var m key.Mouse
	switch {
	case code&64 != 0 && code&1 == 0:
		m.Button = key.MouseWheelUp
	case code&64 != 0:
		m.Button = key.MouseWheelDown
	default:
		switch code & 3 {
		case 0:
			m.Button = key.MouseLeft
		case 1:
			m.Button = key.MouseMiddle
		case 2:
			m.Button = key.MouseRight
		default:
			m.Button = key.MouseNone
		}
	}
	switch {
	case release:
		m.Action = key.MouseRelease
	case code&32 != 0:
		m.Action = key.MouseMove
	default:
		m.Action = key.MousePress
	}
	return m
}

func mouseModifiers(code int) key.Modifier {
	var mods key.Modifier
	if code&4 != 0 {
		mods |= key.ModShift
	}
	if code&8 != 0 {
		mods |= key.ModAlt
	}
	if code&16 != 0 {
		mods |= key.ModCtrl
	}
	return mods
}
