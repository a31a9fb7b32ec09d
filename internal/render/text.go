// Package render converts grid snapshots into caller-visible output: a
// plain-text dump and a PNG raster. Rendering is deterministic; the same
// snapshot always produces the same bytes.
package render

import (
	"strings"

	"tuidrive/internal/term"
)

// Text flattens a snapshot into screen text: one line per grid row,
// joined by newlines, trailing blank cells on each row trimmed. Spacer
// cells contribute nothing; the wide glyph to their left already covers
// both columns.
func Text(snap *term.Snapshot) string {
	lines := make([]string, snap.Rows)
	for r, row := range snap.Cells {
		var b strings.Builder
		for _, c := range row {
			if c.IsSpacer() {
				continue
			}
			if c.Content == "" {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.Content)
		}
		lines[r] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}
