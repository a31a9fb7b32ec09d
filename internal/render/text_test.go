package render

import (
	"strings"
	"testing"

	"tuidrive/internal/term"
)

// snapFrom builds a snapshot by feeding raw terminal output through the
// decoder into a fresh grid.
func snapFrom(rows, cols int, raw string) *term.Snapshot {
	g := term.NewGrid(rows, cols)
	d := term.NewDecoder()
	for _, ev := range d.Feed([]byte(raw)) {
		g.Apply(ev)
	}
	return g.Snapshot()
}

func TestText_TrimsTrailingBlanks(t *testing.T) {
	snap := snapFrom(3, 10, "hello\r\n  indented")
	want := "hello\n  indented\n"
	if got := Text(snap); got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestText_EmptyScreen(t *testing.T) {
	snap := snapFrom(3, 5, "")
	if got := Text(snap); got != "\n\n" {
		t.Fatalf("Text = %q", got)
	}
}

func TestText_InteriorBlanksKept(t *testing.T) {
	snap := snapFrom(1, 10, "a\x1b[1;5Hb")
	if got := Text(snap); got != "a   b" {
		t.Fatalf("Text = %q", got)
	}
}

func TestText_WideGlyphCountsOnce(t *testing.T) {
	snap := snapFrom(1, 10, "世x")
	if got := Text(snap); got != "世x" {
		t.Fatalf("Text = %q", got)
	}
}

func TestText_RowCountMatchesGrid(t *testing.T) {
	snap := snapFrom(24, 80, "line")
	if got := strings.Count(Text(snap), "\n"); got != 23 {
		t.Fatalf("newline count = %d, want 23", got)
	}
}
