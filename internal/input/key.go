// Package input translates logical key and mouse commands into the byte
// sequences a terminal-aware program reads. All functions are pure; the
// caller decides when the target program is ready for them.
package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKeySpec marks a key spec that cannot be parsed or encoded.
var ErrInvalidKeySpec = errors.New("invalid key spec")

const esc = "\x1b"

// arrow final bytes, shared by plain, SS3 and modified forms
var arrowFinals = map[string]byte{
	"Up":    'A',
	"Down":  'B',
	"Right": 'C',
	"Left":  'D',
	"Home":  'H',
	"End":   'F',
}

var namedKeys = map[string]string{
	"Enter": "\r",
	"Tab":   "\t",
	"Esc":   esc,
	"Space": " ",
	"BS":    "\x7f",
	"Del":   esc + "[3~",
	"Ins":   esc + "[2~",
	"PgUp":  esc + "[5~",
	"PgDn":  esc + "[6~",
	"F1":    esc + "OP",
	"F2":    esc + "OQ",
	"F3":    esc + "OR",
	"F4":    esc + "OS",
	"F5":    esc + "[15~",
	"F6":    esc + "[17~",
	"F7":    esc + "[18~",
	"F8":    esc + "[19~",
	"F9":    esc + "[20~",
	"F10":   esc + "[21~",
	"F11":   esc + "[23~",
	"F12":   esc + "[24~",
}

// Key encodes a key spec: a plain character ("a"), a named key
// ("<Enter>"), or a modified form ("<C-a>", "<S-Tab>", "<C-S-Up>").
// appCursor selects SS3 encoding for unmodified arrow keys, matching
// DECCKM state of the target program.
func Key(spec string, appCursor bool) ([]byte, error) {
	if spec == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKeySpec)
	}
	if !strings.HasPrefix(spec, "<") {
		// literal characters, sent as-is
		return []byte(spec), nil
	}
	if !strings.HasSuffix(spec, ">") || len(spec) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKeySpec, spec)
	}
	body := spec[1 : len(spec)-1]

	var ctrl, shift, meta bool
	for done := false; !done; {
		switch {
		case strings.HasPrefix(body, "C-"):
			ctrl = true
			body = body[2:]
		case strings.HasPrefix(body, "S-"):
			shift = true
			body = body[2:]
		case strings.HasPrefix(body, "M-"), strings.HasPrefix(body, "A-"):
			meta = true
			body = body[2:]
		default:
			done = true
		}
	}
	if body == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKeySpec, spec)
	}

	// back-tab is its own sequence, not a modified TAB
	if shift && body == "Tab" {
		seq := esc + "[Z"
		if meta {
			seq = esc + seq
		}
		return []byte(seq), nil
	}

	if final, ok := arrowFinals[body]; ok {
		return encodeArrow(final, ctrl, shift, meta, appCursor), nil
	}

	seq, named := namedKeys[body]
	if !named {
		r := []rune(body)
		if len(r) != 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKeySpec, spec)
		}
		seq = string(r)
	}

	if shift && !named {
		seq = strings.ToUpper(seq)
	}
	if ctrl {
		b, err := ctrlByte(seq, spec)
		if err != nil {
			return nil, err
		}
		seq = string(b)
	}
	if meta {
		seq = esc + seq
	}
	return []byte(seq), nil
}

func encodeArrow(final byte, ctrl, shift, meta, appCursor bool) []byte {
	mod := 1
	if shift {
		mod += 1
	}
	if meta {
		mod += 2
	}
	if ctrl {
		mod += 4
	}
	if mod > 1 {
		return []byte(fmt.Sprintf("%s[1;%d%c", esc, mod, final))
	}
	if appCursor {
		return []byte{0x1b, 'O', final}
	}
	return []byte{0x1b, '[', final}
}

// ctrlByte maps a single character to its control code: <C-a> is 0x01,
// <C-[> is ESC, <C-Space> (passed through namedKeys as " ") is NUL.
func ctrlByte(seq, spec string) (byte, error) {
	if len(seq) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKeySpec, spec)
	}
	c := seq[0]
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a' + 1, nil
	case c >= 'A' && c <= 'Z':
		return c - 'A' + 1, nil
	case c >= '@' && c <= '_':
		return c - '@', nil
	case c == ' ':
		return 0, nil
	case c == '?':
		return 0x7f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKeySpec, spec)
}
