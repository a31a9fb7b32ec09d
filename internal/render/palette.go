package render

// xterm 256-color palette resolution: 16 base colors, a 6×6×6 color cube
// (16..231) and a 24-step grayscale ramp (232..255).

var baseColors = [16][3]uint8{
	{0, 0, 0},       // black
	{205, 0, 0},     // red
	{0, 205, 0},     // green
	{205, 205, 0},   // yellow
	{0, 0, 238},     // blue
	{205, 0, 205},   // magenta
	{0, 205, 205},   // cyan
	{229, 229, 229}, // white
	{127, 127, 127}, // bright black
	{255, 0, 0},     // bright red
	{0, 255, 0},     // bright green
	{255, 255, 0},   // bright yellow
	{92, 92, 255},   // bright blue
	{255, 0, 255},   // bright magenta
	{0, 255, 255},   // bright cyan
	{255, 255, 255}, // bright white
}

// cube level values used by xterm for the 6×6×6 cube
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// PaletteRGB resolves an indexed color to its RGB value.
func PaletteRGB(idx uint8) (r, g, b uint8) {
	switch {
	case idx < 16:
		c := baseColors[idx]
		return c[0], c[1], c[2]
	case idx < 232:
		n := int(idx) - 16
		return cubeLevels[n/36], cubeLevels[n/6%6], cubeLevels[n%6]
	default:
		v := uint8(8 + 10*(int(idx)-232))
		return v, v, v
	}
}
