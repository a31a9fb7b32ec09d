package term

// Event is one decoded terminal action. The decoder turns the raw byte
// stream into a flat sequence of these; the grid applies them in order.
// Keeping the variants explicit (rather than dispatching straight into
// grid mutations) lets the parser be tested without any screen state.
type Event interface {
	isEvent()
}

// Print places one grapheme at the cursor. Width is the display width
// (1 or 2). Width 0 marks a combining mark that merges into the
// previously printed cell instead of occupying a new one.
type Print struct {
	Content string
	Width   int
}

// CursorUp moves the cursor up N rows, stopping at the scroll region top.
type CursorUp struct{ N int }

// CursorDown moves the cursor down N rows, stopping at the region bottom.
type CursorDown struct{ N int }

// CursorForward moves the cursor right N columns, clamped to the last column.
type CursorForward struct{ N int }

// CursorBack moves the cursor left N columns, clamped to column zero.
type CursorBack struct{ N int }

// CursorTo moves the cursor to an absolute position (0-based). In origin
// mode the row is relative to the scroll region top.
type CursorTo struct{ Row, Col int }

// CursorCol moves the cursor to an absolute column (0-based).
type CursorCol struct{ Col int }

// CursorRow moves the cursor to an absolute row (0-based).
type CursorRow struct{ Row int }

// EraseLine clears part of the cursor row. Mode 0 erases from the cursor
// to the end, 1 from the start to the cursor, 2 the whole row.
type EraseLine struct{ Mode int }

// EraseScreen clears part of the screen. Mode 0 erases from the cursor to
// the end, 1 from the start to the cursor, 2 (and 3) the whole screen.
type EraseScreen struct{ Mode int }

// EraseChars blanks N cells starting at the cursor without moving it.
type EraseChars struct{ N int }

// DeleteChars removes N cells at the cursor, shifting the rest of the row left.
type DeleteChars struct{ N int }

// InsertChars inserts N blank cells at the cursor, shifting the row right.
type InsertChars struct{ N int }

// InsertLines inserts N blank rows at the cursor within the scroll region.
type InsertLines struct{ N int }

// DeleteLines removes N rows at the cursor within the scroll region.
type DeleteLines struct{ N int }

// ScrollUp shifts the scroll region up N rows, dropping the top rows.
type ScrollUp struct{ N int }

// ScrollDown shifts the scroll region down N rows, dropping the bottom rows.
type ScrollDown struct{ N int }

// SetScrollRegion sets the scrolling margins (0-based, inclusive).
// Bottom < 0 means the last row.
type SetScrollRegion struct{ Top, Bottom int }

// LineFeed moves the cursor down one row, scrolling at the region bottom.
type LineFeed struct{}

// CarriageReturn moves the cursor to column zero.
type CarriageReturn struct{}

// Backspace moves the cursor left one column.
type Backspace struct{}

// Tab advances the cursor to the next tab stop (every 8 columns).
type Tab struct{}

// Bell is the BEL control character. The grid ignores it; it exists so
// callers observing the event stream can react to it.
type Bell struct{}

// ReverseIndex moves the cursor up one row, scrolling down at the region top.
type ReverseIndex struct{}

// AttrKind names a toggleable text attribute.
type AttrKind uint8

const (
	AttrBold AttrKind = iota
	AttrItalic
	AttrUnderline
	AttrInverse
)

// SetAttr turns a text attribute on or off for subsequent prints.
type SetAttr struct {
	Kind AttrKind
	On   bool
}

// ResetAttrs restores default attributes and colors (SGR 0).
type ResetAttrs struct{}

// SetFG sets the foreground color for subsequent prints.
type SetFG struct{ Color Color }

// SetBG sets the background color for subsequent prints.
type SetBG struct{ Color Color }

// Mode names a DEC private mode the grid tracks.
type Mode uint8

const (
	// ModeAutowrap is DECAWM: printing past the last column wraps.
	ModeAutowrap Mode = iota
	// ModeOrigin is DECOM: absolute rows are relative to the scroll region.
	ModeOrigin
	// ModeCursorVisible is DECTCEM.
	ModeCursorVisible
	// ModeAppCursor is DECCKM: arrow keys are sent as SS3 sequences.
	ModeAppCursor
)

// SetMode enables or disables a tracked mode.
type SetMode struct {
	Mode Mode
	On   bool
}

// SaveCursor records the cursor position and pen attributes (DECSC).
type SaveCursor struct{}

// RestoreCursor restores the state recorded by SaveCursor (DECRC).
type RestoreCursor struct{}

// Reset reinitializes the whole terminal state (RIS).
type Reset struct{}

func (Print) isEvent()           {}
func (CursorUp) isEvent()        {}
func (CursorDown) isEvent()      {}
func (CursorForward) isEvent()   {}
func (CursorBack) isEvent()      {}
func (CursorTo) isEvent()        {}
func (CursorCol) isEvent()       {}
func (CursorRow) isEvent()       {}
func (EraseLine) isEvent()       {}
func (EraseScreen) isEvent()     {}
func (EraseChars) isEvent()      {}
func (DeleteChars) isEvent()     {}
func (InsertChars) isEvent()     {}
func (InsertLines) isEvent()     {}
func (DeleteLines) isEvent()     {}
func (ScrollUp) isEvent()        {}
func (ScrollDown) isEvent()      {}
func (SetScrollRegion) isEvent() {}
func (LineFeed) isEvent()        {}
func (CarriageReturn) isEvent()  {}
func (Backspace) isEvent()       {}
func (Tab) isEvent()             {}
func (Bell) isEvent()            {}
func (ReverseIndex) isEvent()    {}
func (SetAttr) isEvent()         {}
func (ResetAttrs) isEvent()      {}
func (SetFG) isEvent()           {}
func (SetBG) isEvent()           {}
func (SetMode) isEvent()         {}
func (SaveCursor) isEvent()      {}
func (RestoreCursor) isEvent()   {}
func (Reset) isEvent()           {}
