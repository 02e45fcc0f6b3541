package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ToLua converts a native Go value (as produced by encoding/json-shaped
// data: nil, bool, numbers, string, []any, map[string]any, or another
// ScriptObject) into the equivalent Lua value. This is the host→script half
// of the bridge used to publish `props`, `VModel` fields, and
// ComponentLookup results into the engine.
func ToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(float64(val))
	case int64:
		return lua.LNumber(float64(val))
	case float64:
		return lua.LNumber(val)
	case []any:
		tbl := L.NewTable()
		for _, item := range val {
			tbl.Append(ToLua(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			L.SetField(tbl, k, ToLua(L, item))
		}
		return tbl
	case ScriptObject:
		return newScriptObjectTable(L, val)
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}

// FromLua is the script→host half of the bridge: it converts a Lua value
// back into plain Go data (nil, bool, float64, string, []any, map[string]any)
// so that event-handler arguments and expression results can cross back into
// Go code (e.g. a Checkbox's `self.isSelected`, freeze()'d loop values).
func FromLua(v lua.LValue) any {
	switch val := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, FromLua(val.RawGetInt(i)))
			}
			return arr
		}
		m := make(map[string]any)
		val.ForEach(func(key, value lua.LValue) {
			if ks, ok := key.(lua.LString); ok {
				m[string(ks)] = FromLua(value)
			}
		})
		return m
	default:
		return v.String()
	}
}

// newScriptObjectTable wraps a ScriptObject so that Lua code can call
// `component("id"):method(args)` and read `component("id").prop` through
// Call/Get respectively, via a metatable that intercepts both index access
// and method dispatch.
func newScriptObjectTable(L *lua.LState, obj ScriptObject) *lua.LTable {
	tbl := L.NewTable()
	mt := L.NewTable()
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(2)
		if val, ok := obj.Get(key); ok {
			L.Push(ToLua(L, val))
			return 1
		}
		// Not a known property: expose as a bound method.
		L.Push(L.NewFunction(func(L *lua.LState) int {
			n := L.GetTop()
			args := make([]any, 0, n-1)
			for i := 2; i <= n; i++ {
				args = append(args, FromLua(L.Get(i)))
			}
			result, err := obj.Call(key, args)
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(ToLua(L, result))
			return 1
		}))
		return 1
	}))
	L.SetMetatable(tbl, mt)
	return tbl
}
