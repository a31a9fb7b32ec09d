package system

import (
	"os"

	clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger. It prints to stderr so script
// output and dumps on stdout stay clean; TUIDRIVE_DEBUG=1 raises the
// level to debug.
var Logger = newLogger()

func newLogger() *clog.Logger {
	l := clog.NewWithOptions(os.Stderr, clog.Options{
		ReportTimestamp: true,
	})
	if os.Getenv("TUIDRIVE_DEBUG") != "" {
		l.SetLevel(clog.DebugLevel)
	}
	return l
}
