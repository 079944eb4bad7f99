// Package decode turns the raw byte stream read from a terminal in raw mode
// into key events.
//
// The Decoder is a byte-at-a-time state machine. Its output depends only on
// the concatenated input, never on how the input was split into chunks.
// Incomplete sequences stay buffered until more bytes arrive or the host
// calls Flush after its escape timeout.
package decode

import (
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/promptline/internal/input/key"
)

const (
	esc = 0x1b
	bel = 0x07

	maxCSILen   = 64
	maxOSCLen   = 4096
	pasteEndSeq = "\x1b[201~"
)

type state uint8

const (
	stateGround state = iota
	stateEscape
	stateCSIParam
	stateCSIIntermediate
	stateSS3
	stateOSC
	stateOSCEscape
	stateUTF8
	stateMouseX10
	statePaste
)

var stateNames = [...]string{
	stateGround:          "ground",
	stateEscape:          "escape",
	stateCSIParam:        "csi-param",
	stateCSIIntermediate: "csi-intermediate",
	stateSS3:             "ss3",
	stateOSC:             "osc",
	stateOSCEscape:       "osc-escape",
	stateUTF8:            "utf8",
	stateMouseX10:        "mouse-x10",
	statePaste:           "paste",
}

func (s state) String() string { return stateNames[s] }

// Decoder converts terminal bytes into key events.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	state state
	seq   []byte
	need  int
	paste strings.Builder
	out   []key.Event

	// Malformed, if set, is called with the bytes of every sequence that
	// was not recognised and was degraded into individual keys.
	Malformed func(raw []byte)
}

// New creates a decoder in the ground state.
func New() *Decoder {
	return &Decoder{seq: make([]byte, 0, 16)}
}

// Feed consumes a chunk of input and returns the events it completed.
// The returned slice is owned by the caller.
func (d *Decoder) Feed(data []byte) []key.Event {
	for _, b := range data {
		d.step(b)
	}
	return d.take()
}

// Flush resolves a sequence that is still incomplete, typically a lone ESC
// after the escape timeout. A bracketed paste in progress is never flushed.
func (d *Decoder) Flush() []key.Event {
	switch d.state {
	case stateGround, statePaste:
	case stateEscape:
		d.emit(key.Event{Key: key.KeyEscape, Data: "\x1b"})
		d.reset()
	case stateOSC, stateOSCEscape:
		d.reset()
	case stateUTF8:
		d.emit(key.Event{Key: key.KeyRune, Rune: utf8.RuneError, Data: string(d.seq)})
		d.reset()
	default:
		d.degrade()
	}
	return d.take()
}

// Pending reports whether bytes are buffered waiting for a terminator.
func (d *Decoder) Pending() bool {
	return d.state != stateGround
}

// InPaste reports whether a bracketed paste is being collected.
func (d *Decoder) InPaste() bool {
	return d.state == statePaste
}

// Reset discards all buffered input.
func (d *Decoder) Reset() {
	d.reset()
	d.paste.Reset()
	d.out = nil
}

func (d *Decoder) reset() {
	d.state = stateGround
	d.seq = d.seq[:0]
	d.need = 0
}

func (d *Decoder) take() []key.Event {
	out := d.out
	d.out = nil
	return out
}

func (d *Decoder) emit(e key.Event) {
	d.out = append(d.out, e)
}

func (d *Decoder) step(b byte) {
	switch d.state {
	case stateGround:
		d.ground(b)
	case stateEscape:
		d.escape(b)
	case stateCSIParam:
		d.csiParam(b)
	case stateCSIIntermediate:
		d.csiIntermediate(b)
	case stateSS3:
		d.ss3(b)
	case stateOSC:
		d.osc(b)
	case stateOSCEscape:
		d.oscEscape(b)
	case stateUTF8:
		d.utf8(b)
	case stateMouseX10:
		d.mouseX10(b)
	case statePaste:
		d.pasteByte(b)
	}
}

func (d *Decoder) ground(b byte) {
	switch {
	case b == esc:
		d.state = stateEscape
		d.seq = append(d.seq[:0], b)
	case b < 0x20 || b == 0x7f:
		d.emit(controlEvent(b))
	case b < 0x80:
		d.emit(key.Event{Key: key.KeyRune, Rune: rune(b), Data: string(rune(b))})
	case b >= 0xc2 && b <= 0xf4:
		d.state = stateUTF8
		d.seq = append(d.seq[:0], b)
		switch {
		case b < 0xe0:
			d.need = 1
		case b < 0xf0:
			d.need = 2
		default:
			d.need = 3
		}
	default:
		d.emit(key.Event{Key: key.KeyRune, Rune: utf8.RuneError, Data: string([]byte{b})})
	}
}

func (d *Decoder) escape(b byte) {
	switch {
	case b == '[':
		d.seq = append(d.seq, b)
		d.state = stateCSIParam
	case b == 'O':
		d.seq = append(d.seq, b)
		d.state = stateSS3
	case b == ']':
		d.seq = append(d.seq, b)
		d.state = stateOSC
	case b == esc:
		d.emit(key.Event{Key: key.KeyEscape, Data: "\x1b"})
	case b < 0x20 || b == 0x7f:
		ev := controlEvent(b)
		ev.Modifiers = ev.Modifiers.With(key.ModAlt)
		ev.Data = "\x1b" + ev.Data
		d.emit(ev)
		d.reset()
	case b < 0x80:
		d.emit(key.Event{Key: key.KeyRune, Rune: rune(b), Modifiers: key.ModAlt, Data: string([]byte{esc, b})})
		d.reset()
	default:
		d.emit(key.Event{Key: key.KeyEscape, Data: "\x1b"})
		d.reset()
		d.ground(b)
	}
}

func (d *Decoder) csiParam(b byte) {
	switch {
	case b >= 0x30 && b <= 0x3f:
		d.seq = append(d.seq, b)
	case b >= 0x20 && b <= 0x2f:
		d.seq = append(d.seq, b)
		d.state = stateCSIIntermediate
	case b >= 0x40 && b <= 0x7e:
		d.seq = append(d.seq, b)
		d.dispatchCSI()
		return
	default:
		d.degrade()
		d.step(b)
		return
	}
	if len(d.seq) > maxCSILen {
		d.degrade()
	}
}

func (d *Decoder) csiIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		d.seq = append(d.seq, b)
	case b >= 0x40 && b <= 0x7e:
		d.seq = append(d.seq, b)
		d.dispatchCSI()
		return
	default:
		d.degrade()
		d.step(b)
		return
	}
	if len(d.seq) > maxCSILen {
		d.degrade()
	}
}

func (d *Decoder) ss3(b byte) {
	d.seq = append(d.seq, b)
	var k key.Key
	switch b {
	case 'A':
		k = key.KeyUp
	case 'B':
		k = key.KeyDown
	case 'C':
		k = key.KeyRight
	case 'D':
		k = key.KeyLeft
	case 'H':
		k = key.KeyHome
	case 'F':
		k = key.KeyEnd
	case 'P':
		k = key.KeyF1
	case 'Q':
		k = key.KeyF2
	case 'R':
		k = key.KeyF3
	case 'S':
		k = key.KeyF4
	case 'M':
		k = key.KeyEnter
	}
	if k == key.KeyNone {
		d.seq = d.seq[:len(d.seq)-1]
		d.degrade()
		d.step(b)
		return
	}
	d.emit(key.Event{Key: k, Data: string(d.seq)})
	d.reset()
}

func (d *Decoder) osc(b byte) {
	switch {
	case b == bel:
		d.reset()
	case b == esc:
		d.state = stateOSCEscape
	case len(d.seq) >= maxOSCLen:
		d.reset()
	default:
		d.seq = append(d.seq, b)
	}
}

func (d *Decoder) oscEscape(b byte) {
	d.reset()
	if b != '\\' {
		// An unterminated OSC is abandoned and the ESC starts a new sequence.
		d.state = stateEscape
		d.seq = append(d.seq, esc)
		d.escape(b)
	}
}

func (d *Decoder) utf8(b byte) {
	if b&0xc0 != 0x80 {
		d.emit(key.Event{Key: key.KeyRune, Rune: utf8.RuneError, Data: string(d.seq)})
		d.reset()
		d.ground(b)
		return
	}
	d.seq = append(d.seq, b)
	d.need--
	if d.need > 0 {
		return
	}
	r, _ := utf8.DecodeRune(d.seq)
	d.emit(key.Event{Key: key.KeyRune, Rune: r, Data: string(d.seq)})
	d.reset()
}

func (d *Decoder) mouseX10(b byte) {
	d.seq = append(d.seq, b)
	d.need--
	if d.need > 0 {
		return
	}
	payload := d.seq[len(d.seq)-3:]
	ev, ok := x10Mouse(payload)
	if !ok {
		d.degrade()
		return
	}
	ev.Data = string(d.seq)
	d.emit(ev)
	d.reset()
}

func (d *Decoder) pasteByte(b byte) {
	d.paste.WriteByte(b)
	if b != '~' {
		return
	}
	text := d.paste.String()
	if strings.HasSuffix(text, pasteEndSeq) {
		d.emit(key.NewPasteEvent(strings.TrimSuffix(text, pasteEndSeq)))
		d.paste.Reset()
		d.reset()
	}
}

// degrade emits every buffered byte as its own key press and returns to
// the ground state.
func (d *Decoder) degrade() {
	if d.Malformed != nil && len(d.seq) > 1 {
		d.Malformed(append([]byte(nil), d.seq...))
	}
	for _, b := range d.seq {
		switch {
		case b == esc:
			d.emit(key.Event{Key: key.KeyEscape, Data: "\x1b"})
		case b < 0x20 || b == 0x7f:
			d.emit(controlEvent(b))
		case b < 0x80:
			d.emit(key.Event{Key: key.KeyRune, Rune: rune(b), Data: string(rune(b))})
		default:
			d.emit(key.Event{Key: key.KeyRune, Rune: utf8.RuneError, Data: string([]byte{b})})
		}
	}
	d.reset()
}

// controlEvent maps a C0 control byte or DEL to a key.
func controlEvent(b byte) key.Event {
	data := string([]byte{b})
	switch b {
	case 0x00:
		return key.Event{Key: key.KeyRune, Rune: ' ', Modifiers: key.ModCtrl, Data: data}
	case '\t':
		return key.Event{Key: key.KeyTab, Data: data}
	case '\r':
		return key.Event{Key: key.KeyEnter, Data: data}
	case esc:
		return key.Event{Key: key.KeyEscape, Data: data}
	case 0x7f:
		return key.Event{Key: key.KeyBackspace, Data: data}
	case 0x1c, 0x1d, 0x1e, 0x1f:
		return key.Event{Key: key.KeyRune, Rune: rune(b) + 0x40, Modifiers: key.ModCtrl, Data: data}
	}
	return key.Event{Key: key.KeyRune, Rune: rune(b) + 'a' - 1, Modifiers: key.ModCtrl, Data: data}
}

// params splits a CSI parameter string into integers. Empty fields are 0.
func params(s string) ([]int, bool) {
	if s == "" {
		return nil, true
	}
	fields := strings.Split(s, ";")
	out := make([]int, len(fields))
	for i, f := range fields {
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// Events decodes a stream of chunks lazily, flushing whatever is left when
// the input ends.
func Events(chunks iter.Seq[[]byte]) iter.Seq[key.Event] {
	return func(yield func(key.Event) bool) {
		d := New()
		for chunk := range chunks {
			for _, ev := range d.Feed(chunk) {
				if !yield(ev) {
					return
				}
			}
		}
		for _, ev := range d.Flush() {
			if !yield(ev) {
				return
			}
		}
	}
}
