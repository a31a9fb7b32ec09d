//go:build unix

package pty

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func shellPath() string {
	return "/bin/sh"
}

// LookupSignal resolves a signal name like "SIGTERM" to its number.
func LookupSignal(name string) (syscall.Signal, error) {
	sig := unix.SignalNum(name)
	if sig == 0 {
		return 0, fmt.Errorf("unknown signal: %s", name)
	}
	return sig, nil
}

// signal targets the process group so children spawned by the shell
// receive it too. creack/pty starts the child with setsid, making it the
// group leader.
func (s *Session) signal(sig syscall.Signal) error {
	if s.cmd.Process == nil {
		return errors.New("pty: no process")
	}
	return unix.Kill(-s.cmd.Process.Pid, sig)
}

func decodeExit(err error) (ExitStatus, error) {
	if err == nil {
		return ExitStatus{}, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		ws, ok := ee.Sys().(syscall.WaitStatus)
		if ok && ws.Signaled() {
			return ExitStatus{Code: -1, Signal: unix.SignalName(ws.Signal())}, nil
		}
		return ExitStatus{Code: ee.ExitCode()}, nil
	}
	return ExitStatus{Code: -1}, err
}
