package script

import (
	lua "github.com/yuin/gopher-lua"
)

// safeLibraries are opened in every state. io, os, debug, channel,
// coroutine and package are not.
var safeLibraries = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// dangerousGlobals load code from files or strings.
var dangerousGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

func newSandboxedState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range safeLibraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, err
		}
	}
	for _, name := range dangerousGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L, nil
}
