// Package session composes the PTY, decoder and grid into one process
// handle. A background pump drains process output into the grid; every
// public operation synchronizes with it through a single lock and reads
// only immutable snapshots.
package session

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"tuidrive/internal/input"
	"tuidrive/internal/pty"
	"tuidrive/internal/render"
	"tuidrive/internal/system"
	"tuidrive/internal/term"
)

var (
	// ErrTimeout is the distinguished wait_text failure, so callers can
	// tell "never appeared" from a broken pipe.
	ErrTimeout = errors.New("timed out waiting for text")
	// ErrOutOfRange marks a cell query outside the grid.
	ErrOutOfRange = errors.New("cell out of range")
)

const (
	// DefaultRows and DefaultCols size sessions that do not ask for
	// specific dimensions.
	DefaultRows = 30
	DefaultCols = 80

	// DefaultWaitTimeout bounds WaitText when the caller gives none.
	DefaultWaitTimeout = time.Second
	// waitPollInterval is the fixed re-check cadence of WaitText. New
	// output triggers an immediate re-check on top of it.
	waitPollInterval = 50 * time.Millisecond
)

// Config adjusts session startup. Zero values mean defaults.
type Config struct {
	Rows, Cols int
	Dir        string
	Env        map[string]string
	ClearEnv   bool
}

// Controller drives one child process in an off-screen terminal.
//
// The pump goroutine is the sole mutator of the decoder and (with the
// exception of Resize) the grid; mu serializes it against callers. Reads
// go through Snapshot so no caller ever holds grid internals outside the
// lock. Input writes and signals bypass the lock entirely: they never
// touch the grid.
type Controller struct {
	pty *pty.Session

	mu   sync.Mutex
	grid *term.Grid
	dec  *term.Decoder
	// changed is closed and replaced each time the pump applies output,
	// waking any WaitText waiters holding the old channel.
	changed chan struct{}

	pumpDone chan struct{}
}

// Start spawns command in a fresh PTY and begins pumping its output.
func Start(command string, cfg Config) (*Controller, error) {
	rows, cols := cfg.Rows, cfg.Cols
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}

	p, err := pty.Spawn(command, rows, cols, pty.Options{
		Dir:      cfg.Dir,
		Env:      cfg.Env,
		ClearEnv: cfg.ClearEnv,
	})
	if err != nil {
		return nil, err
	}
	system.Logger.Info("started", "command", command, "pid", p.PID(), "size", fmt.Sprintf("%dx%d", cols, rows))

	c := &Controller{
		pty:      p,
		grid:     term.NewGrid(rows, cols),
		dec:      term.NewDecoder(),
		changed:  make(chan struct{}),
		pumpDone: make(chan struct{}),
	}
	go c.pump()
	return c, nil
}

// pump is the single producer: read a chunk, decode, apply, notify.
// It survives any byte stream and exits only on end-of-output, which
// also covers process exit (the master reports EOF once the slave side
// is gone and buffered output is drained).
func (c *Controller) pump() {
	defer close(c.pumpDone)
	buf := make([]byte, 4096)
	for {
		n, err := c.pty.Read(buf)
		if n > 0 {
			c.mu.Lock()
			for _, ev := range c.dec.Feed(buf[:n]) {
				c.grid.Apply(ev)
			}
			ch := c.changed
			c.changed = make(chan struct{})
			c.mu.Unlock()
			close(ch)
		}
		if err != nil {
			system.Logger.Debug("pump finished", "pid", c.pty.PID())
			return
		}
	}
}

// snapshot returns the current grid copy plus the change channel that
// will be closed on the next applied output.
func (c *Controller) snapshot() (*term.Snapshot, chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Snapshot(), c.changed
}

// PID returns the child's process id.
func (c *Controller) PID() int {
	return c.pty.PID()
}

// SendString writes s verbatim to the child's input. No escaping: the
// caller may embed raw control bytes.
func (c *Controller) SendString(s string) error {
	system.Logger.Info("send_str", "text", s)
	_, err := c.pty.Write([]byte(s))
	return err
}

// SendKey encodes a key spec and writes it to the child. Arrow keys
// honor the application-cursor mode the child has negotiated.
func (c *Controller) SendKey(spec string) error {
	system.Logger.Info("send_key", "key", spec)
	c.mu.Lock()
	appCursor := c.grid.AppCursor()
	c.mu.Unlock()
	b, err := input.Key(spec, appCursor)
	if err != nil {
		return err
	}
	_, err = c.pty.Write(b)
	return err
}

// Click sends an SGR mouse press for button ("left", "right", "middle")
// at 0-based grid position (x, y).
func (c *Controller) Click(x, y int, button string) error {
	system.Logger.Info("click", "x", x, "y", y, "button", button)
	b, err := input.Click(x, y, button)
	if err != nil {
		return err
	}
	_, err = c.pty.Write(b)
	return err
}

// Scroll sends one SGR wheel notch ("up" or "down") at (x, y).
func (c *Controller) Scroll(x, y int, dir string) error {
	system.Logger.Info("scroll", "x", x, "y", y, "dir", dir)
	b, err := input.Scroll(x, y, dir)
	if err != nil {
		return err
	}
	_, err = c.pty.Write(b)
	return err
}

// Resize changes grid and kernel window size together. Holding the lock
// across both keeps the two dimensions in step from any reader's view.
func (c *Controller) Resize(rows, cols int) error {
	system.Logger.Info("resize", "rows", rows, "cols", cols)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grid.Resize(rows, cols)
	return c.pty.Resize(rows, cols)
}

// Signal delivers sig to the child's process group.
func (c *Controller) Signal(sig syscall.Signal) error {
	system.Logger.Info("send_signal", "signal", int(sig))
	return c.pty.Signal(sig)
}

// Kill forcibly terminates the child.
func (c *Controller) Kill() error {
	system.Logger.Info("kill", "pid", c.pty.PID())
	return c.pty.Kill()
}

// Wait blocks until the child exits. The pump keeps draining buffered
// output independently, so exit detection never loses trailing output.
func (c *Controller) Wait() (pty.ExitStatus, error) {
	status, err := c.pty.Wait()
	system.Logger.Info("wait", "status", status.String())
	return status, err
}

// Contents renders the current screen as text: rows joined by newlines,
// trailing blanks per row trimmed.
func (c *Controller) Contents() string {
	snap, _ := c.snapshot()
	return render.Text(snap)
}

// ContentsHex renders the screen with every character as its hex code,
// newlines preserved. Useful when asserting on invisible output.
func (c *Controller) ContentsHex() string {
	var b strings.Builder
	for _, ch := range c.Contents() {
		if ch == '\n' || ch == '\r' {
			b.WriteRune(ch)
			continue
		}
		if ch <= 255 {
			fmt.Fprintf(&b, " %02x", ch)
		} else {
			fmt.Fprintf(&b, " %x", ch)
		}
	}
	return b.String()
}

// Cell returns the cell at column x, row y with its full attribute set.
func (c *Controller) Cell(x, y int) (term.Cell, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cell, ok := c.grid.Cell(y, x)
	if !ok {
		return term.Cell{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	return cell, nil
}

// WaitText blocks until text appears anywhere on screen or timeout
// elapses (ErrTimeout). A non-positive timeout means DefaultWaitTimeout.
// Each check grabs a fresh snapshot; between checks the caller sleeps on
// the 50 ms cadence or wakes early when the pump applies new output.
// Concurrent waits are independent.
func (c *Controller) WaitText(text string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	system.Logger.Info("wait_text", "text", text, "timeout", timeout)

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(waitPollInterval)
	defer tick.Stop()

	for {
		snap, changed := c.snapshot()
		if strings.Contains(render.Text(snap), text) {
			return nil
		}
		select {
		case <-changed:
		case <-tick.C:
		case <-deadline.C:
			return fmt.Errorf("%w: %q after %s", ErrTimeout, text, timeout)
		}
	}
}

// DumpTxt writes Contents to path as UTF-8.
func (c *Controller) DumpTxt(path string) error {
	system.Logger.Info("dump_txt", "path", path)
	return os.WriteFile(path, []byte(c.Contents()), 0o644)
}

// DumpPNG rasterizes the current screen to a PNG file at path.
func (c *Controller) DumpPNG(path string) error {
	system.Logger.Info("dump_png", "path", path)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	snap, _ := c.snapshot()
	if err := render.PNG(snap, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close stops the pump, then releases PTY resources. Closing the master
// is what unblocks the pump's read; Close returns only after the pump
// goroutine has exited, so no background work leaks. A still-running
// child is orphaned: callers that need it gone must Kill first.
func (c *Controller) Close() error {
	err := c.pty.Close()
	<-c.pumpDone
	return err
}
