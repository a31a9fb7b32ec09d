package script

import (
	"fmt"
	"syscall"
	"time"

	lua "github.com/yuin/gopher-lua"

	"tuidrive/internal/pty"
	"tuidrive/internal/session"
	"tuidrive/internal/term"
)

const procTypeName = "proc"

func registerProcType(L *lua.LState) {
	mt := L.NewTypeMetatable(procTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), procMethods))
}

func pushProc(L *lua.LState, ctrl *session.Controller) {
	ud := L.NewUserData()
	ud.Value = ctrl
	L.SetMetatable(ud, L.GetTypeMetatable(procTypeName))
	L.Push(ud)
}

func checkProc(L *lua.LState) *session.Controller {
	ud := L.CheckUserData(1)
	if ctrl, ok := ud.Value.(*session.Controller); ok {
		return ctrl
	}
	L.ArgError(1, "proc expected")
	return nil
}

var procMethods = map[string]lua.LGFunction{
	"pid":          procPID,
	"cell":         procCell,
	"contents":     procContents,
	"contents_hex": procContentsHex,
	"send_str":     procSendStr,
	"send_key":     procSendKey,
	"click":        procClick,
	"scroll":       procScroll,
	"send_signal":  procSendSignal,
	"kill":         procKill,
	"resize":       procResize,
	"wait":         procWait,
	"wait_text":    procWaitText,
	"dump_txt":     procDumpTxt,
	"dump_png":     procDumpPNG,
}

func procPID(L *lua.LState) int {
	ctrl := checkProc(L)
	L.Push(lua.LNumber(ctrl.PID()))
	return 1
}

// cell{x=, y=} returns {content, fg, bg, bold, italic, underline,
// inverse, wide}. fg/bg are nil for the default color, a palette index
// number, or a "#rrggbb" string.
func procCell(L *lua.LState) int {
	ctrl := checkProc(L)
	opts := L.CheckTable(2)
	x := intField(L, opts, "x")
	y := intField(L, opts, "y")

	cell, err := ctrl.Cell(x, y)
	if err != nil {
		L.RaiseError("cell: %s", err)
		return 0
	}

	info := L.NewTable()
	info.RawSetString("content", lua.LString(cell.Content))
	info.RawSetString("fg", colorValue(cell.FG))
	info.RawSetString("bg", colorValue(cell.BG))
	info.RawSetString("bold", lua.LBool(cell.Bold))
	info.RawSetString("italic", lua.LBool(cell.Italic))
	info.RawSetString("underline", lua.LBool(cell.Underline))
	info.RawSetString("inverse", lua.LBool(cell.Inverse))
	info.RawSetString("wide", lua.LBool(cell.Width == 2))
	L.Push(info)
	return 1
}

func colorValue(c term.Color) lua.LValue {
	switch c.Mode {
	case term.ColorIndexed:
		return lua.LNumber(c.Index)
	case term.ColorRGB:
		return lua.LString(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	default:
		return lua.LNil
	}
}

func procContents(L *lua.LState) int {
	L.Push(lua.LString(checkProc(L).Contents()))
	return 1
}

func procContentsHex(L *lua.LState) int {
	L.Push(lua.LString(checkProc(L).ContentsHex()))
	return 1
}

func procSendStr(L *lua.LState) int {
	ctrl := checkProc(L)
	if err := ctrl.SendString(L.CheckString(2)); err != nil {
		L.RaiseError("send_str: %s", err)
	}
	return 0
}

func procSendKey(L *lua.LState) int {
	ctrl := checkProc(L)
	if err := ctrl.SendKey(L.CheckString(2)); err != nil {
		L.RaiseError("send_key: %s", err)
	}
	return 0
}

// click{x=, y=, button="left"}
func procClick(L *lua.LState) int {
	ctrl := checkProc(L)
	opts := L.CheckTable(2)
	x := intField(L, opts, "x")
	y := intField(L, opts, "y")
	button := "left"
	if v, ok := opts.RawGetString("button").(lua.LString); ok {
		button = string(v)
	}
	if err := ctrl.Click(x, y, button); err != nil {
		L.RaiseError("click: %s", err)
	}
	return 0
}

// scroll{x=, y=, dir="up"|"down"}
func procScroll(L *lua.LState) int {
	ctrl := checkProc(L)
	opts := L.CheckTable(2)
	x := intField(L, opts, "x")
	y := intField(L, opts, "y")
	dir := ""
	if v, ok := opts.RawGetString("dir").(lua.LString); ok {
		dir = string(v)
	}
	if err := ctrl.Scroll(x, y, dir); err != nil {
		L.RaiseError("scroll: %s", err)
	}
	return 0
}

// send_signal accepts a name ("SIGTERM") or a number.
func procSendSignal(L *lua.LState) int {
	ctrl := checkProc(L)
	var sig syscall.Signal
	switch v := L.CheckAny(2).(type) {
	case lua.LNumber:
		sig = syscall.Signal(int(v))
	case lua.LString:
		s, err := pty.LookupSignal(string(v))
		if err != nil {
			L.RaiseError("send_signal: %s", err)
			return 0
		}
		sig = s
	default:
		L.ArgError(2, "signal name or number expected")
		return 0
	}
	if err := ctrl.Signal(sig); err != nil {
		L.RaiseError("send_signal: %s", err)
	}
	return 0
}

func procKill(L *lua.LState) int {
	if err := checkProc(L).Kill(); err != nil {
		L.RaiseError("kill: %s", err)
	}
	return 0
}

// resize{width=, height=}
func procResize(L *lua.LState) int {
	ctrl := checkProc(L)
	opts := L.CheckTable(2)
	width := intField(L, opts, "width")
	height := intField(L, opts, "height")
	if err := ctrl.Resize(height, width); err != nil {
		L.RaiseError("resize: %s", err)
	}
	return 0
}

// wait() returns the exit code and, when the child was signaled, the
// signal name as a second value.
func procWait(L *lua.LState) int {
	status, err := checkProc(L).Wait()
	if err != nil {
		L.RaiseError("wait: %s", err)
		return 0
	}
	L.Push(lua.LNumber(status.Code))
	if status.Signal != "" {
		L.Push(lua.LString(status.Signal))
		return 2
	}
	return 1
}

// wait_text(text [, {timeout=millis}])
func procWaitText(L *lua.LState) int {
	ctrl := checkProc(L)
	text := L.CheckString(2)
	var timeout time.Duration
	if L.GetTop() >= 3 {
		opts := L.CheckTable(3)
		if v, ok := opts.RawGetString("timeout").(lua.LNumber); ok {
			timeout = time.Duration(int64(v)) * time.Millisecond
		}
	}
	if err := ctrl.WaitText(text, timeout); err != nil {
		L.RaiseError("wait_text: %s", err)
	}
	return 0
}

func procDumpTxt(L *lua.LState) int {
	if err := checkProc(L).DumpTxt(L.CheckString(2)); err != nil {
		L.RaiseError("dump_txt: %s", err)
	}
	return 0
}

func procDumpPNG(L *lua.LState) int {
	if err := checkProc(L).DumpPNG(L.CheckString(2)); err != nil {
		L.RaiseError("dump_png: %s", err)
	}
	return 0
}

func intField(L *lua.LState, t *lua.LTable, name string) int {
	v, ok := t.RawGetString(name).(lua.LNumber)
	if !ok {
		L.RaiseError("missing numeric field %q", name)
		return 0
	}
	return int(v)
}
