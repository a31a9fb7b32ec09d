// Package script is the Lua front-end: it exposes session controllers to
// user scripts as a "proc" userdata type plus a couple of globals. Script
// errors (including raised operation failures) propagate out of Run and
// become the process's non-zero exit.
package script

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"tuidrive/internal/session"
)

// Run executes the Lua script at path. defaults seed the dimensions of
// sessions the script starts without explicit width/height.
func Run(path string, defaults session.Config) error {
	L := lua.NewState()
	defer L.Close()

	registerProcType(L)

	L.SetGlobal("start", L.NewFunction(startFn(defaults)))
	L.SetGlobal("sleep", L.NewFunction(sleepFn))

	return L.DoFile(path)
}

// startFn implements start(cmd [, opts]). opts: width, height, cwd,
// env (table of string values), clear_env.
func startFn(defaults session.Config) lua.LGFunction {
	return func(L *lua.LState) int {
		cmd := L.CheckString(1)
		cfg := defaults

		if L.GetTop() >= 2 {
			opts := L.CheckTable(2)
			if v, ok := opts.RawGetString("width").(lua.LNumber); ok {
				cfg.Cols = int(v)
			}
			if v, ok := opts.RawGetString("height").(lua.LNumber); ok {
				cfg.Rows = int(v)
			}
			if v, ok := opts.RawGetString("cwd").(lua.LString); ok {
				cfg.Dir = string(v)
			}
			if v, ok := opts.RawGetString("clear_env").(lua.LBool); ok {
				cfg.ClearEnv = bool(v)
			}
			if env, ok := opts.RawGetString("env").(*lua.LTable); ok {
				cfg.Env = map[string]string{}
				env.ForEach(func(k, v lua.LValue) {
					if ks, ok := k.(lua.LString); ok {
						cfg.Env[string(ks)] = v.String()
					}
				})
			}
		}

		ctrl, err := session.Start(cmd, cfg)
		if err != nil {
			L.RaiseError("start: %s", err)
			return 0
		}
		pushProc(L, ctrl)
		return 1
	}
}

// sleepFn implements sleep(millis).
func sleepFn(L *lua.LState) int {
	ms := L.CheckInt64(1)
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return 0
}
