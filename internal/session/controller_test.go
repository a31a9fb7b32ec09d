//go:build unix

package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

func start(t *testing.T, command string, cfg Config) *Controller {
	t.Helper()
	c, err := Start(command, cfg)
	if err != nil {
		t.Fatalf("start %q: %v", command, err)
	}
	t.Cleanup(func() {
		c.Kill()
		c.Wait()
		c.Close()
	})
	return c
}

func TestController_EchoAppearsOnScreen(t *testing.T) {
	c := start(t, "echo marker-text", Config{})
	if err := c.WaitText("marker-text", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v\nscreen:\n%s", err, c.Contents())
	}
}

func TestController_SendStringRoundTrip(t *testing.T) {
	c := start(t, "read line; echo reply:$line", Config{})
	if err := c.SendString("ping\r"); err != nil {
		t.Fatalf("send_str: %v", err)
	}
	if err := c.WaitText("reply:ping", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v\nscreen:\n%s", err, c.Contents())
	}
}

func TestController_SendKeyEnter(t *testing.T) {
	c := start(t, "read line; echo done-reading", Config{})
	if err := c.SendString("x"); err != nil {
		t.Fatal(err)
	}
	if err := c.SendKey("<Enter>"); err != nil {
		t.Fatal(err)
	}
	if err := c.WaitText("done-reading", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v\nscreen:\n%s", err, c.Contents())
	}
}

func TestController_WaitTextTimeout(t *testing.T) {
	c := start(t, "sleep 10", Config{})
	begin := time.Now()
	err := c.WaitText("never-printed", 200*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(begin); elapsed < 200*time.Millisecond || elapsed > 2*time.Second {
		t.Fatalf("timeout fired after %s", elapsed)
	}
}

func TestController_WaitTextDefaultTimeout(t *testing.T) {
	c := start(t, "sleep 10", Config{})
	begin := time.Now()
	err := c.WaitText("never-printed", 0)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(begin); elapsed < DefaultWaitTimeout {
		t.Fatalf("default timeout fired early after %s", elapsed)
	}
}

func TestController_ExitStatus(t *testing.T) {
	c := start(t, "exit 4", Config{})
	status, err := c.Wait()
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if status.Code != 4 || status.Signal != "" {
		t.Fatalf("status = %v", status)
	}
}

func TestController_SignalByName(t *testing.T) {
	c := start(t, "sleep 30", Config{})
	time.Sleep(100 * time.Millisecond)
	if err := c.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("signal: %v", err)
	}
	status, err := c.Wait()
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if status.Signal != "SIGTERM" {
		t.Fatalf("status = %v, want SIGTERM", status)
	}
}

func TestController_CellAttributes(t *testing.T) {
	c := start(t, `printf '\033[1;31mR\033[0m'; sleep 2`, Config{})
	if err := c.WaitText("R", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v", err)
	}
	cell, err := c.Cell(0, 0)
	if err != nil {
		t.Fatalf("cell: %v", err)
	}
	if cell.Content != "R" || !cell.Bold {
		t.Fatalf("cell = %#v", cell)
	}
}

func TestController_CellOutOfRange(t *testing.T) {
	c := start(t, "sleep 2", Config{Rows: 5, Cols: 10})
	if _, err := c.Cell(10, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if _, err := c.Cell(0, 5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestController_ConfigSize(t *testing.T) {
	c := start(t, "stty size; sleep 2", Config{Rows: 12, Cols: 34})
	if err := c.WaitText("12 34", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v\nscreen:\n%s", err, c.Contents())
	}
}

func TestController_Resize(t *testing.T) {
	c := start(t, "sleep 1; stty size", Config{Rows: 10, Cols: 40})
	if err := c.Resize(20, 66); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if err := c.WaitText("20 66", 10*time.Second); err != nil {
		t.Fatalf("wait_text: %v\nscreen:\n%s", err, c.Contents())
	}
}

func TestController_DumpTxt(t *testing.T) {
	c := start(t, "echo dump-me; sleep 2", Config{})
	if err := c.WaitText("dump-me", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v", err)
	}
	// let the echo's trailing newline land before capturing
	time.Sleep(300 * time.Millisecond)
	want := c.Contents()
	path := filepath.Join(t.TempDir(), "screen.txt")
	if err := c.DumpTxt(path); err != nil {
		t.Fatalf("dump_txt: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != want {
		t.Fatalf("dump = %q, contents = %q", data, want)
	}
	if !strings.Contains(want, "dump-me") {
		t.Fatalf("screen = %q", want)
	}
}

func TestController_DumpPNG(t *testing.T) {
	c := start(t, "echo pixels; sleep 2", Config{Rows: 6, Cols: 20})
	if err := c.WaitText("pixels", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v", err)
	}
	path := filepath.Join(t.TempDir(), "screen.png")
	if err := c.DumpPNG(path); err != nil {
		t.Fatalf("dump_png: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatalf("not a PNG file: % x", data[:8])
	}
}

func TestController_ContentsHex(t *testing.T) {
	c := start(t, "printf 'hi'; sleep 2", Config{Rows: 2, Cols: 10})
	if err := c.WaitText("hi", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v", err)
	}
	hex := c.ContentsHex()
	if !strings.Contains(hex, " 68 69") {
		t.Fatalf("hex = %q", hex)
	}
}

func TestController_CloseStopsPump(t *testing.T) {
	c, err := Start("sleep 30", Config{})
	if err != nil {
		t.Fatal(err)
	}
	c.Kill()
	c.Wait()

	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return")
	}
}

func TestController_CatScenario(t *testing.T) {
	c := start(t, "cat", Config{})
	if err := c.SendString("hello\n"); err != nil {
		t.Fatalf("send_str: %v", err)
	}
	if err := c.WaitText("hello", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v\nscreen:\n%s", err, c.Contents())
	}
	if err := c.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("signal: %v", err)
	}
	status, err := c.Wait()
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if status.Success() {
		t.Fatalf("status = %v, want signaled", status)
	}
}

func TestController_WideGlyph(t *testing.T) {
	c := start(t, "printf '世'; sleep 2", Config{})
	if err := c.WaitText("世", 5*time.Second); err != nil {
		t.Fatalf("wait_text: %v\nscreen:\n%s", err, c.Contents())
	}
	cell, err := c.Cell(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cell.Content != "世" || cell.Width != 2 {
		t.Fatalf("cell = %#v", cell)
	}
}
