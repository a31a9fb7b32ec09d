package term

import "github.com/rivo/uniseg"

// ColorMode distinguishes the three color models a cell can carry.
type ColorMode uint8

const (
	// ColorDefault means the terminal's default foreground or background.
	ColorDefault ColorMode = iota
	// ColorIndexed is a palette color in 0..255.
	ColorIndexed
	// ColorRGB is a 24-bit truecolor value.
	ColorRGB
)

// Color is a terminal color in one of three models.
// The zero value is the default color.
type Color struct {
	Mode    ColorMode
	Index   uint8
	R, G, B uint8
}

// IndexedColor returns a palette color.
func IndexedColor(idx uint8) Color {
	return Color{Mode: ColorIndexed, Index: idx}
}

// RGBColor returns a truecolor value.
func RGBColor(r, g, b uint8) Color {
	return Color{Mode: ColorRGB, R: r, G: g, B: b}
}

// Cell is a single grid position.
//
// Content holds one grapheme (base rune plus any combining marks).
// Width is the display width: 1 for normal glyphs, 2 for wide glyphs,
// 0 for the spacer cell to the right of a wide glyph. A spacer has no
// content of its own and is always kept in sync with its left neighbor.
type Cell struct {
	Content   string
	Width     int
	FG, BG    Color
	Bold      bool
	Italic    bool
	Underline bool
	Inverse   bool
}

// IsSpacer reports whether the cell is the right half of a wide glyph.
func (c Cell) IsSpacer() bool {
	return c.Width == 0 && c.Content == ""
}

// IsBlank reports whether the cell displays nothing (empty or space).
func (c Cell) IsBlank() bool {
	return c.Content == "" || c.Content == " "
}

// SingleGrapheme reports whether s forms exactly one grapheme cluster.
// Cell content is kept to one cluster: a base glyph plus its combining
// marks. Zero-width characters that would start a new cluster do not
// belong in an existing cell.
func SingleGrapheme(s string) bool {
	return uniseg.GraphemeClusterCount(s) == 1
}
