package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"tuidrive/internal/term"
)

// Fixed cell metrics of basicfont.Face7x13. The image is exactly
// cols*CellWidth × rows*CellHeight pixels.
const (
	CellWidth  = 7
	CellHeight = 13
)

// Default colors match the original screenshot style: near-black blue
// background, off-white foreground.
var (
	defaultBG = color.RGBA{R: 10, G: 10, B: 50, A: 255}
	defaultFG = color.RGBA{R: 240, G: 240, B: 240, A: 255}
)

func resolve(c term.Color, def color.RGBA) color.RGBA {
	switch c.Mode {
	case term.ColorIndexed:
		r, g, b := PaletteRGB(c.Index)
		return color.RGBA{R: r, G: g, B: b, A: 255}
	case term.ColorRGB:
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	default:
		return def
	}
}

// PNG rasterizes a snapshot and writes it as a PNG image. Each cell is
// filled with its resolved background, then its glyph is drawn in the
// resolved foreground. Inverse swaps the resolved pair; bold
// double-strikes one pixel to the right; underline fills the bottom
// pixel row of the cell.
func PNG(snap *term.Snapshot, w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, snap.Cols*CellWidth, snap.Rows*CellHeight))
	face := basicfont.Face7x13

	for r, row := range snap.Cells {
		for c, cell := range row {
			if cell.IsSpacer() {
				// painted together with its left neighbor
				continue
			}
			fg := resolve(cell.FG, defaultFG)
			bg := resolve(cell.BG, defaultBG)
			if cell.Inverse {
				fg, bg = bg, fg
			}

			x0 := c * CellWidth
			y0 := r * CellHeight
			w0 := CellWidth * maxInt(cell.Width, 1)
			rect := image.Rect(x0, y0, x0+w0, y0+CellHeight)
			draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

			if !cell.IsBlank() {
				d := font.Drawer{
					Dst:  img,
					Src:  image.NewUniform(fg),
					Face: face,
					Dot:  fixed.P(x0, y0+face.Ascent),
				}
				d.DrawString(cell.Content)
				if cell.Bold {
					d.Dot = fixed.P(x0+1, y0+face.Ascent)
					d.DrawString(cell.Content)
				}
			}
			if cell.Underline {
				ul := image.Rect(x0, y0+CellHeight-1, x0+w0, y0+CellHeight)
				draw.Draw(img, ul, image.NewUniform(fg), image.Point{}, draw.Src)
			}
		}
	}
	return png.Encode(w, img)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
