package term

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// parser states
type decodeState uint8

const (
	stGround decodeState = iota
	stEscape
	stCSI
	stOSC
	stCharset
)

// maxCSILen bounds accumulated CSI parameter bytes. A sequence that grows
// past this is malformed; the decoder drops it and returns to ground.
const maxCSILen = 128

// Decoder is an incremental escape-sequence parser. Feed it raw process
// output in arbitrary fragments; it emits the corresponding events.
// Partial UTF-8 runes and partial escape sequences are carried across
// calls. Malformed input never produces an error: bad sequences are
// consumed and dropped so the stream stays in sync.
//
// A Decoder is not safe for concurrent use; the session pump is its only
// caller.
type Decoder struct {
	state decodeState

	// partial UTF-8 rune
	utf8Buf [utf8.UTFMax]byte
	utf8Len int

	// CSI accumulator
	csiPrivate byte
	csiParams  []byte
	csiOverrun bool

	// OSC terminator tracking (ESC \)
	oscEsc bool
}

// NewDecoder returns a decoder in the ground state.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed consumes a chunk of raw bytes and returns the decoded events.
// It never fails; unrecognized input is silently discarded.
func (d *Decoder) Feed(p []byte) []Event {
	var evs []Event
	for _, b := range p {
		evs = d.step(b, evs)
	}
	return evs
}

func (d *Decoder) step(b byte, evs []Event) []Event {
	switch d.state {
	case stGround:
		return d.ground(b, evs)
	case stEscape:
		return d.escape(b, evs)
	case stCSI:
		return d.csi(b, evs)
	case stOSC:
		return d.osc(b, evs)
	case stCharset:
		// charset designation byte, consumed and ignored
		d.state = stGround
		return evs
	}
	return evs
}

func (d *Decoder) ground(b byte, evs []Event) []Event {
	if b < 0x20 || b == 0x7f {
		d.utf8Len = 0
		switch b {
		case 0x1b:
			d.state = stEscape
		case '\n', 0x0b, 0x0c:
			evs = append(evs, LineFeed{})
		case '\r':
			evs = append(evs, CarriageReturn{})
		case 0x08:
			evs = append(evs, Backspace{})
		case '\t':
			evs = append(evs, Tab{})
		case 0x07:
			evs = append(evs, Bell{})
		}
		// other C0 controls are dropped
		return evs
	}

	// UTF-8 assembly across fragment boundaries
	if d.utf8Len > 0 || b >= 0x80 {
		if d.utf8Len < len(d.utf8Buf) {
			d.utf8Buf[d.utf8Len] = b
			d.utf8Len++
		} else {
			// overlong garbage, resync on this byte
			d.utf8Len = 0
			return d.ground(b, evs)
		}
		if !utf8.FullRune(d.utf8Buf[:d.utf8Len]) {
			return evs
		}
		r, size := utf8.DecodeRune(d.utf8Buf[:d.utf8Len])
		n := d.utf8Len
		d.utf8Len = 0
		if r == utf8.RuneError {
			// drop only the malformed prefix; the bytes after it may be
			// the start of a valid sequence
			var rest [utf8.UTFMax]byte
			m := copy(rest[:], d.utf8Buf[size:n])
			for _, rb := range rest[:m] {
				evs = d.ground(rb, evs)
			}
			return evs
		}
		return d.print(r, evs)
	}
	return d.print(rune(b), evs)
}

func (d *Decoder) print(r rune, evs []Event) []Event {
	w := runewidth.RuneWidth(r)
	return append(evs, Print{Content: string(r), Width: w})
}

func (d *Decoder) escape(b byte, evs []Event) []Event {
	d.state = stGround
	switch b {
	case '[':
		d.state = stCSI
		d.csiPrivate = 0
		d.csiParams = d.csiParams[:0]
		d.csiOverrun = false
	case ']':
		d.state = stOSC
		d.oscEsc = false
	case '(', ')', '*', '+':
		d.state = stCharset
	case '7':
		evs = append(evs, SaveCursor{})
	case '8':
		evs = append(evs, RestoreCursor{})
	case 'D':
		evs = append(evs, LineFeed{})
	case 'E':
		evs = append(evs, CarriageReturn{}, LineFeed{})
	case 'M':
		evs = append(evs, ReverseIndex{})
	case 'c':
		evs = append(evs, Reset{})
	case 0x1b:
		d.state = stEscape
	default:
		// ESC =, ESC >, unknown finals: consumed, no event
	}
	return evs
}

func (d *Decoder) csi(b byte, evs []Event) []Event {
	switch {
	case b >= '0' && b <= '9' || b == ';':
		if len(d.csiParams) < maxCSILen {
			d.csiParams = append(d.csiParams, b)
		} else {
			d.csiOverrun = true
		}
	case b == '?' || b == '<' || b == '=' || b == '>':
		if len(d.csiParams) == 0 {
			d.csiPrivate = b
		} else {
			d.csiOverrun = true
		}
	case b >= 0x20 && b <= 0x2f:
		// intermediate bytes: sequence is well formed but unsupported
		d.csiOverrun = true
	case b >= 0x40 && b <= 0x7e:
		d.state = stGround
		if !d.csiOverrun {
			evs = d.dispatchCSI(b, evs)
		}
	case b == 0x1b:
		d.state = stEscape
	default:
		// stray control or garbage inside CSI: drop the sequence
		d.state = stGround
	}
	return evs
}

func (d *Decoder) osc(b byte, evs []Event) []Event {
	switch {
	case b == 0x07:
		d.state = stGround
	case b == 0x1b:
		d.oscEsc = true
	case d.oscEsc && b == '\\':
		d.state = stGround
		d.oscEsc = false
	default:
		d.oscEsc = false
	}
	return evs
}

// params returns the accumulated CSI parameters, with def substituted for
// empty positions. Always yields at least one value.
func (d *Decoder) params(def int) []int {
	out := []int{}
	cur, has := 0, false
	for _, b := range d.csiParams {
		if b == ';' {
			if has {
				out = append(out, cur)
			} else {
				out = append(out, def)
			}
			cur, has = 0, false
			continue
		}
		cur = cur*10 + int(b-'0')
		has = true
	}
	if has {
		out = append(out, cur)
	} else {
		out = append(out, def)
	}
	return out
}

func atLeast(v, min int) int {
	if v < min {
		return min
	}
	return v
}

func (d *Decoder) dispatchCSI(final byte, evs []Event) []Event {
	if d.csiPrivate == '?' {
		return d.dispatchPrivate(final, evs)
	}
	if d.csiPrivate != 0 {
		// '<', '=', '>' prefixed sequences are responses/queries we
		// do not interpret
		return evs
	}

	p := d.params(0)
	n := atLeast(p[0], 1)

	switch final {
	case 'A':
		evs = append(evs, CursorUp{N: n})
	case 'B', 'e':
		evs = append(evs, CursorDown{N: n})
	case 'C', 'a':
		evs = append(evs, CursorForward{N: n})
	case 'D':
		evs = append(evs, CursorBack{N: n})
	case 'E':
		evs = append(evs, CursorDown{N: n}, CarriageReturn{})
	case 'F':
		evs = append(evs, CursorUp{N: n}, CarriageReturn{})
	case 'G', '`':
		evs = append(evs, CursorCol{Col: n - 1})
	case 'd':
		evs = append(evs, CursorRow{Row: n - 1})
	case 'H', 'f':
		col := 1
		if len(p) > 1 {
			col = atLeast(p[1], 1)
		}
		evs = append(evs, CursorTo{Row: n - 1, Col: col - 1})
	case 'J':
		evs = append(evs, EraseScreen{Mode: p[0]})
	case 'K':
		evs = append(evs, EraseLine{Mode: p[0]})
	case 'L':
		evs = append(evs, InsertLines{N: n})
	case 'M':
		evs = append(evs, DeleteLines{N: n})
	case 'P':
		evs = append(evs, DeleteChars{N: n})
	case 'X':
		evs = append(evs, EraseChars{N: n})
	case '@':
		evs = append(evs, InsertChars{N: n})
	case 'S':
		evs = append(evs, ScrollUp{N: n})
	case 'T':
		evs = append(evs, ScrollDown{N: n})
	case 'r':
		top := atLeast(p[0], 1) - 1
		bottom := -1
		if len(p) > 1 && p[1] > 0 {
			bottom = p[1] - 1
		}
		evs = append(evs, SetScrollRegion{Top: top, Bottom: bottom})
	case 's':
		evs = append(evs, SaveCursor{})
	case 'u':
		evs = append(evs, RestoreCursor{})
	case 'm':
		evs = d.dispatchSGR(p, evs)
	default:
		// well-formed but unsupported: consumed silently
	}
	return evs
}

func (d *Decoder) dispatchPrivate(final byte, evs []Event) []Event {
	on := final == 'h'
	if !on && final != 'l' {
		return evs
	}
	for _, p := range d.params(0) {
		switch p {
		case 1:
			evs = append(evs, SetMode{Mode: ModeAppCursor, On: on})
		case 6:
			evs = append(evs, SetMode{Mode: ModeOrigin, On: on})
		case 7:
			evs = append(evs, SetMode{Mode: ModeAutowrap, On: on})
		case 25:
			evs = append(evs, SetMode{Mode: ModeCursorVisible, On: on})
		default:
			// unsupported private mode, ignored
		}
	}
	return evs
}

func (d *Decoder) dispatchSGR(p []int, evs []Event) []Event {
	for i := 0; i < len(p); i++ {
		switch v := p[i]; {
		case v == 0:
			evs = append(evs, ResetAttrs{})
		case v == 1:
			evs = append(evs, SetAttr{Kind: AttrBold, On: true})
		case v == 3:
			evs = append(evs, SetAttr{Kind: AttrItalic, On: true})
		case v == 4:
			evs = append(evs, SetAttr{Kind: AttrUnderline, On: true})
		case v == 7:
			evs = append(evs, SetAttr{Kind: AttrInverse, On: true})
		case v == 22:
			evs = append(evs, SetAttr{Kind: AttrBold, On: false})
		case v == 23:
			evs = append(evs, SetAttr{Kind: AttrItalic, On: false})
		case v == 24:
			evs = append(evs, SetAttr{Kind: AttrUnderline, On: false})
		case v == 27:
			evs = append(evs, SetAttr{Kind: AttrInverse, On: false})
		case v >= 30 && v <= 37:
			evs = append(evs, SetFG{Color: IndexedColor(uint8(v - 30))})
		case v >= 90 && v <= 97:
			evs = append(evs, SetFG{Color: IndexedColor(uint8(v - 90 + 8))})
		case v == 39:
			evs = append(evs, SetFG{})
		case v >= 40 && v <= 47:
			evs = append(evs, SetBG{Color: IndexedColor(uint8(v - 40))})
		case v >= 100 && v <= 107:
			evs = append(evs, SetBG{Color: IndexedColor(uint8(v - 100 + 8))})
		case v == 49:
			evs = append(evs, SetBG{})
		case v == 38 || v == 48:
			c, used, ok := extendedColor(p[i+1:])
			i += used
			if !ok {
				return evs
			}
			if v == 38 {
				evs = append(evs, SetFG{Color: c})
			} else {
				evs = append(evs, SetBG{Color: c})
			}
		default:
			// unsupported SGR parameter, ignored
		}
	}
	return evs
}

// extendedColor parses the tail of a 38/48 SGR: `5;n` or `2;r;g;b`.
// Returns the color, the number of parameters consumed, and validity.
func extendedColor(p []int) (Color, int, bool) {
	if len(p) == 0 {
		return Color{}, 0, false
	}
	switch p[0] {
	case 5:
		if len(p) < 2 {
			return Color{}, len(p), false
		}
		return IndexedColor(uint8(clampInt(p[1], 0, 255))), 2, true
	case 2:
		if len(p) < 4 {
			return Color{}, len(p), false
		}
		r := uint8(clampInt(p[1], 0, 255))
		g := uint8(clampInt(p[2], 0, 255))
		b := uint8(clampInt(p[3], 0, 255))
		return RGBColor(r, g, b), 4, true
	}
	return Color{}, 1, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
