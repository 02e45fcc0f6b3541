package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// whitelistedLibs are the only standard Lua libraries opened in a
// ScriptContext's state. Anything that can touch the filesystem, spawn
// processes, or load arbitrary compiled chunks (io, os.execute, loadfile,
// dofile, require of unknown modules) is left closed.
var whitelistedLibs = []struct {
	name string
	fn   lua.LGFunction
}{
	{lua.LoadLibName, lua.OpenPackage},
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// newSandboxedState builds a *lua.LState with only whitelistedLibs opened
// and the dangerous base-library escape hatches (dofile, loadfile) removed.
// This is the CLR/host-interop whitelist §4.2 requires of the embedded
// script engine.
func newSandboxedState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range whitelistedLibs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("script: failed to open library %s: %w", lib.name, err)
		}
	}

	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	return L, nil
}
