package input

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks an unknown mouse button or scroll direction.
var ErrInvalidArgument = errors.New("invalid argument")

// SGR extended mouse reporting (DECSET 1006). Coordinates on the wire are
// 1-based; callers pass 0-based grid positions. Whether the target
// program has mouse reporting enabled is its own business; the encoder
// only produces the bytes.

var buttonCodes = map[string]int{
	"left":   0,
	"right":  1,
	"middle": 2,
}

var scrollCodes = map[string]int{
	"down": 64,
	"up":   65,
}

// Click encodes a button press at (x, y).
func Click(x, y int, button string) ([]byte, error) {
	code, ok := buttonCodes[button]
	if !ok {
		return nil, fmt.Errorf("%w: button %q", ErrInvalidArgument, button)
	}
	return sgrReport(code, x, y), nil
}

// Scroll encodes one wheel notch at (x, y). dir is "up" or "down".
func Scroll(x, y int, dir string) ([]byte, error) {
	code, ok := scrollCodes[dir]
	if !ok {
		return nil, fmt.Errorf("%w: scroll direction %q", ErrInvalidArgument, dir)
	}
	return sgrReport(code, x, y), nil
}

func sgrReport(code, x, y int) []byte {
	return []byte(fmt.Sprintf("\x1b[<%d;%d;%dM", code, x+1, y+1))
}
