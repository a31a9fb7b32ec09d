// Package pty owns the pseudo-terminal pair and the child process. It is
// the only package that touches OS-level terminal plumbing; platform
// differences (signal delivery, exit status decoding) stay behind
// build-tagged files so the rest of the core is platform-agnostic.
package pty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// ErrUnsupported is returned for signal operations the platform cannot
// perform. The caller sees an explicit failure rather than a silent no-op.
var ErrUnsupported = errors.New("operation not supported on this platform")

// Options adjust how the child process is launched.
type Options struct {
	// Dir is the working directory; empty means inherit.
	Dir string
	// Env entries are overlaid on the inherited (or cleared) environment.
	Env map[string]string
	// ClearEnv starts the child from an empty environment.
	ClearEnv bool
}

// ExitStatus describes how the child ended. Signal is the name of the
// terminating signal ("SIGTERM") when the child was killed, otherwise "".
type ExitStatus struct {
	Code   int
	Signal string
}

// Success reports a clean zero exit.
func (s ExitStatus) Success() bool {
	return s.Code == 0 && s.Signal == ""
}

func (s ExitStatus) String() string {
	if s.Signal != "" {
		return "signal: " + s.Signal
	}
	return fmt.Sprintf("exit: %d", s.Code)
}

// Session is one child process attached to a pseudo-terminal. Exactly one
// child per session; the slave side's window size always matches the last
// Resize.
type Session struct {
	cmd  *exec.Cmd
	ptmx *os.File

	waitOnce sync.Once
	status   ExitStatus
	waitErr  error
}

// Spawn launches command through the system shell on a fresh PTY with the
// given window size.
func Spawn(command string, rows, cols int, opts Options) (*Session, error) {
	if command == "" {
		return nil, errors.New("pty: empty command")
	}
	cmd := exec.Command(shellPath(), "-c", command)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if opts.ClearEnv {
		cmd.Env = []string{}
	} else {
		cmd.Env = os.Environ()
	}
	for k, v := range opts.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	ws := &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
	ptmx, err := pty.StartWithSize(cmd, ws)
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", command, err)
	}
	return &Session{cmd: cmd, ptmx: ptmx}, nil
}

// PID returns the child's process id.
func (s *Session) PID() int {
	return s.cmd.Process.Pid
}

// Read blocks until at least one byte of child output is available or the
// child has exited and its output is drained. Linux reports EIO on the
// master once the slave side closes; that is normalized to io.EOF so the
// pump sees a plain end-of-output.
func (s *Session) Read(p []byte) (int, error) {
	n, err := s.ptmx.Read(p)
	if err != nil {
		if errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed) {
			err = io.EOF
		}
		if n > 0 && err == io.EOF {
			err = nil
		}
	}
	return n, err
}

// Write delivers input bytes to the child's terminal.
func (s *Session) Write(p []byte) (int, error) {
	return s.ptmx.Write(p)
}

// Resize updates the kernel-level window size. The child observes it as a
// SIGWINCH on the next redraw.
func (s *Session) Resize(rows, cols int) error {
	return pty.Setsize(s.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Signal delivers sig to the child's process group.
func (s *Session) Signal(sig syscall.Signal) error {
	return s.signal(sig)
}

// Kill forcibly terminates the child.
func (s *Session) Kill() error {
	if s.cmd.Process == nil {
		return nil
	}
	return s.cmd.Process.Kill()
}

// Wait blocks until the child exits and returns its status. Idempotent:
// later calls return the recorded result.
func (s *Session) Wait() (ExitStatus, error) {
	s.waitOnce.Do(func() {
		err := s.cmd.Wait()
		s.status, s.waitErr = decodeExit(err)
	})
	return s.status, s.waitErr
}

// Close releases the PTY master. Safe to call with the child still
// running; the child keeps its slave side and is orphaned unless killed
// first.
func (s *Session) Close() error {
	return s.ptmx.Close()
}
