package term

// pen is the attribute state applied to subsequent prints.
type pen struct {
	fg, bg    Color
	bold      bool
	italic    bool
	underline bool
	inverse   bool
}

type savedCursor struct {
	row, col int
	pen      pen
	valid    bool
}

// Grid is the mutable screen state: a rows×cols cell buffer plus cursor,
// pen and mode flags. It is the single source of truth for terminal
// contents. Grid itself is not synchronized; the session controller
// serializes all access behind its lock and hands immutable Snapshots to
// readers.
type Grid struct {
	rows, cols int
	cells      [][]Cell

	curRow, curCol int
	// wrapPending defers the autowrap taken after printing in the last
	// column until the next glyph arrives, as hardware terminals do.
	wrapPending bool

	pen   pen
	saved savedCursor

	autowrap      bool
	origin        bool
	cursorVisible bool
	appCursor     bool

	// inclusive scroll margins
	scrollTop, scrollBottom int
}

// Snapshot is an immutable point-in-time copy of grid contents.
type Snapshot struct {
	Rows, Cols           int
	CursorRow, CursorCol int
	CursorVisible        bool
	Cells                [][]Cell
}

// NewGrid returns a blank grid of the given dimensions. Dimensions are
// clamped to at least 1×1.
func NewGrid(rows, cols int) *Grid {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	g := &Grid{
		rows:          rows,
		cols:          cols,
		autowrap:      true,
		cursorVisible: true,
		scrollTop:     0,
		scrollBottom:  rows - 1,
	}
	g.cells = make([][]Cell, rows)
	for i := range g.cells {
		g.cells[i] = g.blankRow()
	}
	return g
}

func (g *Grid) blankRow() []Cell {
	row := make([]Cell, g.cols)
	for i := range row {
		row[i] = g.blankCell()
	}
	return row
}

// blankCell carries the pen background so erase operations clear with the
// current background color.
func (g *Grid) blankCell() Cell {
	return Cell{Content: "", Width: 1, BG: g.pen.bg}
}

// Size returns the current dimensions.
func (g *Grid) Size() (rows, cols int) {
	return g.rows, g.cols
}

// Cursor returns the current cursor position (0-based).
func (g *Grid) Cursor() (row, col int) {
	return g.curRow, g.curCol
}

// AppCursor reports whether application cursor key mode (DECCKM) is on.
// The input encoder consults it when translating arrow keys.
func (g *Grid) AppCursor() bool {
	return g.appCursor
}

// Cell returns a copy of the cell at (row, col), or false if the
// coordinates are out of range.
func (g *Grid) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Cell{}, false
	}
	return g.cells[row][col], true
}

// Snapshot deep-copies the visible state. The copy never aliases grid
// memory, so readers can hold it while the pump keeps mutating.
func (g *Grid) Snapshot() *Snapshot {
	s := &Snapshot{
		Rows:          g.rows,
		Cols:          g.cols,
		CursorRow:     g.curRow,
		CursorCol:     g.curCol,
		CursorVisible: g.cursorVisible,
		Cells:         make([][]Cell, g.rows),
	}
	for i, row := range g.cells {
		cp := make([]Cell, len(row))
		copy(cp, row)
		s.Cells[i] = cp
	}
	return s
}

// Apply mutates the grid according to one decoded event. Every event is
// applied completely before Apply returns; readers synchronized by the
// caller never observe a half-applied event.
func (g *Grid) Apply(ev Event) {
	switch e := ev.(type) {
	case Print:
		g.print(e)
	case CursorUp:
		g.moveRow(g.curRow-e.N, true)
	case CursorDown:
		g.moveRow(g.curRow+e.N, true)
	case CursorForward:
		g.moveCol(g.curCol + e.N)
	case CursorBack:
		g.moveCol(g.curCol - e.N)
	case CursorTo:
		g.moveTo(e.Row, e.Col)
	case CursorCol:
		g.moveCol(e.Col)
	case CursorRow:
		g.moveToRowAbs(e.Row)
	case EraseLine:
		g.eraseLine(e.Mode)
	case EraseScreen:
		g.eraseScreen(e.Mode)
	case EraseChars:
		g.eraseChars(e.N)
	case DeleteChars:
		g.deleteChars(e.N)
	case InsertChars:
		g.insertChars(e.N)
	case InsertLines:
		g.insertLines(e.N)
	case DeleteLines:
		g.deleteLines(e.N)
	case ScrollUp:
		g.scrollUp(e.N)
	case ScrollDown:
		g.scrollDown(e.N)
	case SetScrollRegion:
		g.setScrollRegion(e.Top, e.Bottom)
	case LineFeed:
		g.lineFeed()
	case CarriageReturn:
		g.curCol = 0
		g.wrapPending = false
	case Backspace:
		g.moveCol(g.curCol - 1)
	case Tab:
		g.moveCol((g.curCol/8 + 1) * 8)
	case Bell:
		// nothing to ring
	case ReverseIndex:
		g.reverseIndex()
	case SetAttr:
		g.setAttr(e)
	case ResetAttrs:
		g.pen = pen{}
	case SetFG:
		g.pen.fg = e.Color
	case SetBG:
		g.pen.bg = e.Color
	case SetMode:
		g.setMode(e)
	case SaveCursor:
		g.saved = savedCursor{row: g.curRow, col: g.curCol, pen: g.pen, valid: true}
	case RestoreCursor:
		if g.saved.valid {
			g.pen = g.saved.pen
			g.moveTo(g.saved.row, g.saved.col)
		}
	case Reset:
		g.reset()
	}
}

func (g *Grid) print(e Print) {
	if e.Width == 0 {
		g.combine(e.Content)
		return
	}
	w := e.Width
	if w > 2 {
		w = 2
	}

	if g.wrapPending {
		g.wrapPending = false
		if g.autowrap {
			g.curCol = 0
			g.lineFeed()
		}
	}
	if g.curCol+w > g.cols {
		if g.autowrap {
			g.curCol = 0
			g.lineFeed()
		} else {
			g.curCol = g.cols - w
		}
	}

	row, col := g.curRow, g.curCol
	g.clearOverlap(row, col)
	if w == 2 {
		g.clearOverlap(row, col+1)
	}

	c := g.blankCell()
	c.Content = e.Content
	c.Width = w
	c.FG = g.pen.fg
	c.Bold = g.pen.bold
	c.Italic = g.pen.italic
	c.Underline = g.pen.underline
	c.Inverse = g.pen.inverse
	g.cells[row][col] = c
	if w == 2 {
		sp := c
		sp.Content = ""
		sp.Width = 0
		g.cells[row][col+1] = sp
	}

	g.curCol += w
	if g.curCol >= g.cols {
		g.curCol = g.cols - 1
		if g.autowrap {
			g.wrapPending = true
		}
	}
}

// combine appends a zero-width mark to the most recently printed cell.
func (g *Grid) combine(mark string) {
	row, col := g.curRow, g.curCol
	if !g.wrapPending {
		col--
	}
	if col < 0 {
		return
	}
	if g.cells[row][col].IsSpacer() && col > 0 {
		col--
	}
	if g.cells[row][col].Content == "" {
		return
	}
	merged := g.cells[row][col].Content + mark
	if !SingleGrapheme(merged) {
		// not a combining mark for this glyph (e.g. a zero-width space);
		// dropping it keeps one grapheme per cell
		return
	}
	g.cells[row][col].Content = merged
}

// clearOverlap keeps the wide-glyph invariant when (row, col) is about to
// be overwritten: a spacer loses its left half, a wide left half loses its
// spacer, atomically with the overwrite.
func (g *Grid) clearOverlap(row, col int) {
	if col >= g.cols {
		return
	}
	c := g.cells[row][col]
	if c.IsSpacer() && col > 0 {
		left := &g.cells[row][col-1]
		if left.Width == 2 {
			*left = g.blankCell()
		}
	}
	if c.Width == 2 && col+1 < g.cols {
		right := &g.cells[row][col+1]
		if right.IsSpacer() {
			*right = g.blankCell()
		}
	}
}

func (g *Grid) lineFeed() {
	g.wrapPending = false
	if g.curRow == g.scrollBottom {
		g.scrollUp(1)
		return
	}
	if g.curRow < g.rows-1 {
		g.curRow++
	}
}

func (g *Grid) reverseIndex() {
	g.wrapPending = false
	if g.curRow == g.scrollTop {
		g.scrollDown(1)
		return
	}
	if g.curRow > 0 {
		g.curRow--
	}
}

// moveRow moves to an absolute row. When region is true, movement stops
// at the scroll margins if the cursor started inside them.
func (g *Grid) moveRow(row int, region bool) {
	g.wrapPending = false
	lo, hi := 0, g.rows-1
	if region && g.curRow >= g.scrollTop && g.curRow <= g.scrollBottom {
		lo, hi = g.scrollTop, g.scrollBottom
	}
	g.curRow = clampInt(row, lo, hi)
}

func (g *Grid) moveCol(col int) {
	g.wrapPending = false
	g.curCol = clampInt(col, 0, g.cols-1)
}

// moveTo is absolute positioning; origin mode offsets rows by the scroll
// region top and confines the cursor to the region.
func (g *Grid) moveTo(row, col int) {
	g.wrapPending = false
	if g.origin {
		row += g.scrollTop
		g.curRow = clampInt(row, g.scrollTop, g.scrollBottom)
	} else {
		g.curRow = clampInt(row, 0, g.rows-1)
	}
	g.curCol = clampInt(col, 0, g.cols-1)
}

func (g *Grid) moveToRowAbs(row int) {
	g.moveTo(row, g.curCol)
}

func (g *Grid) eraseLine(mode int) {
	row := g.cells[g.curRow]
	switch mode {
	case 0:
		g.clearOverlap(g.curRow, g.curCol)
		for i := g.curCol; i < g.cols; i++ {
			row[i] = g.blankCell()
		}
	case 1:
		g.clearOverlap(g.curRow, g.curCol)
		for i := 0; i <= g.curCol && i < g.cols; i++ {
			row[i] = g.blankCell()
		}
	case 2:
		g.cells[g.curRow] = g.blankRow()
	}
}

func (g *Grid) eraseScreen(mode int) {
	switch mode {
	case 0:
		g.eraseLine(0)
		for r := g.curRow + 1; r < g.rows; r++ {
			g.cells[r] = g.blankRow()
		}
	case 1:
		for r := 0; r < g.curRow; r++ {
			g.cells[r] = g.blankRow()
		}
		g.eraseLine(1)
	case 2, 3:
		for r := 0; r < g.rows; r++ {
			g.cells[r] = g.blankRow()
		}
	}
}

func (g *Grid) eraseChars(n int) {
	g.clearOverlap(g.curRow, g.curCol)
	end := clampInt(g.curCol+n, 0, g.cols)
	if end > 0 {
		g.clearOverlap(g.curRow, end-1)
	}
	for i := g.curCol; i < end; i++ {
		g.cells[g.curRow][i] = g.blankCell()
	}
}

func (g *Grid) deleteChars(n int) {
	if n > g.cols-g.curCol {
		n = g.cols - g.curCol
	}
	g.clearOverlap(g.curRow, g.curCol)
	row := g.cells[g.curRow]
	copy(row[g.curCol:], row[g.curCol+n:])
	for i := g.cols - n; i < g.cols; i++ {
		row[i] = g.blankCell()
	}
}

func (g *Grid) insertChars(n int) {
	if n > g.cols-g.curCol {
		n = g.cols - g.curCol
	}
	g.clearOverlap(g.curRow, g.curCol)
	row := g.cells[g.curRow]
	copy(row[g.curCol+n:], row[g.curCol:g.cols-n])
	for i := g.curCol; i < g.curCol+n; i++ {
		row[i] = g.blankCell()
	}
}

func (g *Grid) insertLines(n int) {
	if g.curRow < g.scrollTop || g.curRow > g.scrollBottom {
		return
	}
	region := g.scrollBottom - g.curRow + 1
	if n > region {
		n = region
	}
	for i := 0; i < n; i++ {
		copy(g.cells[g.curRow+1:g.scrollBottom+1], g.cells[g.curRow:g.scrollBottom])
		g.cells[g.curRow] = g.blankRow()
	}
	g.curCol = 0
	g.wrapPending = false
}

func (g *Grid) deleteLines(n int) {
	if g.curRow < g.scrollTop || g.curRow > g.scrollBottom {
		return
	}
	region := g.scrollBottom - g.curRow + 1
	if n > region {
		n = region
	}
	for i := 0; i < n; i++ {
		copy(g.cells[g.curRow:g.scrollBottom], g.cells[g.curRow+1:g.scrollBottom+1])
		g.cells[g.scrollBottom] = g.blankRow()
	}
	g.curCol = 0
	g.wrapPending = false
}

func (g *Grid) scrollUp(n int) {
	region := g.scrollBottom - g.scrollTop + 1
	if n > region {
		n = region
	}
	for i := 0; i < n; i++ {
		copy(g.cells[g.scrollTop:g.scrollBottom], g.cells[g.scrollTop+1:g.scrollBottom+1])
		g.cells[g.scrollBottom] = g.blankRow()
	}
}

func (g *Grid) scrollDown(n int) {
	region := g.scrollBottom - g.scrollTop + 1
	if n > region {
		n = region
	}
	for i := 0; i < n; i++ {
		copy(g.cells[g.scrollTop+1:g.scrollBottom+1], g.cells[g.scrollTop:g.scrollBottom])
		g.cells[g.scrollTop] = g.blankRow()
	}
}

func (g *Grid) setScrollRegion(top, bottom int) {
	if bottom < 0 || bottom >= g.rows {
		bottom = g.rows - 1
	}
	top = clampInt(top, 0, g.rows-1)
	if top >= bottom {
		// degenerate region, restore full screen
		top, bottom = 0, g.rows-1
	}
	g.scrollTop = top
	g.scrollBottom = bottom
	g.moveTo(0, 0)
}

func (g *Grid) setAttr(e SetAttr) {
	switch e.Kind {
	case AttrBold:
		g.pen.bold = e.On
	case AttrItalic:
		g.pen.italic = e.On
	case AttrUnderline:
		g.pen.underline = e.On
	case AttrInverse:
		g.pen.inverse = e.On
	}
}

func (g *Grid) setMode(e SetMode) {
	switch e.Mode {
	case ModeAutowrap:
		g.autowrap = e.On
	case ModeOrigin:
		g.origin = e.On
		g.moveTo(0, 0)
	case ModeCursorVisible:
		g.cursorVisible = e.On
	case ModeAppCursor:
		g.appCursor = e.On
	}
}

func (g *Grid) reset() {
	g.pen = pen{}
	g.saved = savedCursor{}
	g.autowrap = true
	g.origin = false
	g.cursorVisible = true
	g.appCursor = false
	g.scrollTop = 0
	g.scrollBottom = g.rows - 1
	g.curRow, g.curCol = 0, 0
	g.wrapPending = false
	for i := range g.cells {
		g.cells[i] = g.blankRow()
	}
}

// Resize changes dimensions in place. Added rows and columns are blank
// with default attributes; removed ones truncate from the bottom and
// right. The cursor is clamped into the new bounds and the scroll region
// resets to the full screen.
func (g *Grid) Resize(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if rows == g.rows && cols == g.cols {
		return
	}

	// grow or truncate columns per row, keeping wide glyphs whole
	oldPen := g.pen
	g.pen = pen{} // new space uses default attributes
	for i := range g.cells {
		row := g.cells[i]
		if cols < len(row) {
			row = row[:cols]
			if cols > 0 && row[cols-1].Width == 2 {
				// wide glyph cut in half at the new right edge
				row[cols-1] = g.blankCell()
			}
			g.cells[i] = row
			continue
		}
		for len(row) < cols {
			row = append(row, g.blankCell())
		}
		g.cells[i] = row
	}
	if rows < len(g.cells) {
		g.cells = g.cells[:rows]
	}
	for len(g.cells) < rows {
		g.cells = append(g.cells, g.blankRow())
	}
	g.pen = oldPen

	g.rows = rows
	g.cols = cols
	g.scrollTop = 0
	g.scrollBottom = rows - 1
	g.curRow = clampInt(g.curRow, 0, rows-1)
	g.curCol = clampInt(g.curCol, 0, cols-1)
	g.wrapPending = false
}
