//go:build !unix

package pty

import (
	"errors"
	"os/exec"
	"syscall"
)

func shellPath() string {
	return "sh"
}

// LookupSignal always fails: named signals have no equivalent here. Kill
// remains available as the process-termination fallback.
func LookupSignal(name string) (syscall.Signal, error) {
	return 0, ErrUnsupported
}

func (s *Session) signal(sig syscall.Signal) error {
	return ErrUnsupported
}

func decodeExit(err error) (ExitStatus, error) {
	if err == nil {
		return ExitStatus{}, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ExitStatus{Code: ee.ExitCode()}, nil
	}
	return ExitStatus{Code: -1}, err
}
