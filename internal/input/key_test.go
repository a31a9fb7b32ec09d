package input

import (
	"bytes"
	"errors"
	"testing"
)

func TestKey_Literal(t *testing.T) {
	cases := []struct {
		spec string
		want string
	}{
		{"a", "a"},
		{"hello", "hello"},
		{"ls -la\r", "ls -la\r"},
		{"世", "世"},
	}
	for _, tc := range cases {
		got, err := Key(tc.spec, false)
		if err != nil {
			t.Fatalf("Key(%q): %v", tc.spec, err)
		}
		if string(got) != tc.want {
			t.Fatalf("Key(%q) = %q, want %q", tc.spec, got, tc.want)
		}
	}
}

func TestKey_Named(t *testing.T) {
	cases := []struct {
		spec string
		want string
	}{
		{"<Enter>", "\r"},
		{"<Tab>", "\t"},
		{"<Esc>", "\x1b"},
		{"<Space>", " "},
		{"<BS>", "\x7f"},
		{"<Del>", "\x1b[3~"},
		{"<PgUp>", "\x1b[5~"},
		{"<PgDn>", "\x1b[6~"},
		{"<F1>", "\x1bOP"},
		{"<F5>", "\x1b[15~"},
		{"<F12>", "\x1b[24~"},
	}
	for _, tc := range cases {
		got, err := Key(tc.spec, false)
		if err != nil {
			t.Fatalf("Key(%q): %v", tc.spec, err)
		}
		if string(got) != tc.want {
			t.Fatalf("Key(%q) = %q, want %q", tc.spec, got, tc.want)
		}
	}
}

func TestKey_Ctrl(t *testing.T) {
	cases := []struct {
		spec string
		want []byte
	}{
		{"<C-a>", []byte{0x01}},
		{"<C-z>", []byte{0x1a}},
		{"<C-A>", []byte{0x01}},
		{"<C-[>", []byte{0x1b}},
		{"<C-Space>", []byte{0x00}},
		{"<C-?>", []byte{0x7f}},
	}
	for _, tc := range cases {
		got, err := Key(tc.spec, false)
		if err != nil {
			t.Fatalf("Key(%q): %v", tc.spec, err)
		}
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("Key(%q) = %q, want %q", tc.spec, got, tc.want)
		}
	}
}

func TestKey_MetaAndShift(t *testing.T) {
	got, err := Key("<M-x>", false)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\x1bx" {
		t.Fatalf("<M-x> = %q", got)
	}

	got, err = Key("<A-x>", false)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\x1bx" {
		t.Fatalf("<A-x> = %q", got)
	}

	// shift+tab is back-tab
	got, err = Key("<S-Tab>", false)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\x1b[Z" {
		t.Fatalf("<S-Tab> = %q", got)
	}

	got, err = Key("<S-a>", false)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "A" {
		t.Fatalf("<S-a> = %q", got)
	}

	// meta wraps the ctrl byte
	got, err = Key("<C-M-a>", false)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x1b, 0x01}) {
		t.Fatalf("<C-M-a> = %q", got)
	}
}

func TestKey_Arrows(t *testing.T) {
	cases := []struct {
		spec      string
		appCursor bool
		want      string
	}{
		{"<Up>", false, "\x1b[A"},
		{"<Down>", false, "\x1b[B"},
		{"<Right>", false, "\x1b[C"},
		{"<Left>", false, "\x1b[D"},
		{"<Home>", false, "\x1b[H"},
		{"<End>", false, "\x1b[F"},
		// DECCKM application mode switches to SS3
		{"<Up>", true, "\x1bOA"},
		{"<Left>", true, "\x1bOD"},
		// modified arrows use CSI 1;mod regardless of mode
		{"<S-Up>", false, "\x1b[1;2A"},
		{"<M-Right>", false, "\x1b[1;3C"},
		{"<C-Left>", false, "\x1b[1;5D"},
		{"<C-S-Down>", true, "\x1b[1;6B"},
	}
	for _, tc := range cases {
		got, err := Key(tc.spec, tc.appCursor)
		if err != nil {
			t.Fatalf("Key(%q): %v", tc.spec, err)
		}
		if string(got) != tc.want {
			t.Fatalf("Key(%q, app=%v) = %q, want %q", tc.spec, tc.appCursor, got, tc.want)
		}
	}
}

func TestKey_Invalid(t *testing.T) {
	for _, spec := range []string{"", "<", "<>", "<Foo>", "<C->", "<C-ab>", "<C-é>"} {
		_, err := Key(spec, false)
		if !errors.Is(err, ErrInvalidKeySpec) {
			t.Fatalf("Key(%q) err = %v, want ErrInvalidKeySpec", spec, err)
		}
	}
}
