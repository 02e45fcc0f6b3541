// Package script wraps an embedded, sandboxed script engine (gopher-lua,
// chosen per the pack's athyr-tech-athyr-agent/notepid-twilight_bbs
// precedent — see DESIGN.md) and publishes the global scope a page's
// script and every component binding/event/directive expression sees:
// UI, User, Base, VModel, props, $t, component(id), the lifecycle
// registrars, and console.
package script

import (
	"log/slog"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LifecycleHook is a callback registered via onMounted/onUnmounted/
// beforeRender/afterRender/onRefresh. Hooks may fail; a failing hook is
// routed to the page's error handling chain rather than panicking the
// dispatcher (§7).
type LifecycleHook func() error

// MediaHook is the signature of onPhoto/onDocument handlers, invoked with
// the raw transport payload (an opaque value; ScriptContext never inspects
// it beyond passing it through the bridge).
type MediaHook func(payload any) error

// ScriptContext is one embedded script engine instance, owned by exactly
// one ScriptPage for that page's lifetime. Its globals behave like page
// state: nothing is reset between evaluations of the same page's
// expressions, which is what lets onMounted-registered closures see
// variables declared by the page's top-level script.
type ScriptContext struct {
	mu     sync.Mutex
	L      *lua.LState
	logger *slog.Logger

	host   Host
	user   UserHost
	base   BaseHost
	lookup ComponentLookup
	vmodel any
	errorHandler ErrorHandler
	localize     func(key string) string

	onMounted    []LifecycleHook
	onUnmounted  []LifecycleHook
	beforeRender []LifecycleHook
	afterRender  []LifecycleHook
	onRefresh    []LifecycleHook
	onPhoto      []MediaHook
	onDocument   []MediaHook

	// navigated is set by UI.navigate/navigateFresh so the callback
	// dispatcher can skip its default "re-render the same message" step
	// (§4.2, §4.5 Command).
	navigated bool

	// callbackQueryID is published as the top-level `callbackQueryId`
	// global by invokeEvent (§4.4) so handler code can answer the
	// originating callback query directly.
	callbackQueryID string
}

// NewScriptContext builds a fresh sandboxed engine and populates its
// globals. host/user/base/lookup are the live ScriptPage's façades (pkg
// runtime); localize resolves a `$t` key through the page's localisation
// pack, returning the key itself when no translation exists.
func NewScriptContext(host Host, user UserHost, base BaseHost, lookup ComponentLookup, localize func(string) string, logger *slog.Logger) (*ScriptContext, error) {
	L, err := newSandboxedState()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if localize == nil {
		localize = func(key string) string { return key }
	}

	sc := &ScriptContext{
		L:        L,
		logger:   logger,
		host:     host,
		user:     user,
		base:     base,
		lookup:   lookup,
		localize: localize,
	}

	sc.installUI()
	sc.installUser()
	sc.installBase()
	sc.installGlobalFuncs()
	sc.installConsole()

	return sc, nil
}

// Close releases the underlying Lua state. Called once by ScriptPage.
// dispose; safe to call multiple times.
func (sc *ScriptContext) Close() {
	if sc.L != nil {
		sc.L.Close()
		sc.L = nil
	}
}

// SetVModel publishes the page's view model as the `VModel` global and
// records it as the primary error handler for script/event errors (§7).
func (sc *ScriptContext) SetVModel(vmodel any, handler ErrorHandler) {
	sc.vmodel = vmodel
	sc.errorHandler = handler
	sc.L.SetGlobal("VModel", ToLua(sc.L, vmodelToMap(vmodel)))
}

// vmodelToMap best-effort-converts a view model into a script-visible map.
// A nil or non-struct-like vmodel is published as an empty table rather
// than erroring — scripts that never reference VModel are unaffected.
func vmodelToMap(vmodel any) any {
	if m, ok := vmodel.(map[string]any); ok {
		return m
	}
	if vmodel == nil {
		return map[string]any{}
	}
	if so, ok := vmodel.(ScriptObject); ok {
		return so
	}
	return map[string]any{}
}

// SetProps publishes page props as the `props` global, recursively
// converting the host map into native script values.
func (sc *ScriptContext) SetProps(props map[string]any) {
	sc.L.SetGlobal("props", ToLua(sc.L, mapAny(props)))
}

func mapAny(m map[string]any) any {
	if m == nil {
		return map[string]any{}
	}
	return map[string]any(m)
}

// installGlobalFuncs installs `$t`, `component`, and the lifecycle
// registrars (onMounted, onUnmounted, beforeRender, afterRender, onRefresh,
// onPhoto, onDocument).
func (sc *ScriptContext) installGlobalFuncs() {
	sc.L.SetGlobal("$t", sc.L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		L.Push(lua.LString(sc.localize(key)))
		return 1
	}))

	sc.L.SetGlobal("component", sc.L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if sc.lookup == nil {
			L.Push(lua.LNil)
			return 1
		}
		obj, ok := sc.lookup.Component(id)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(newScriptObjectTable(L, obj))
		return 1
	}))

	register := func(name string, dst *[]LifecycleHook) {
		sc.L.SetGlobal(name, sc.L.NewFunction(func(L *lua.LState) int {
			fn := L.CheckFunction(1)
			*dst = append(*dst, sc.wrapHook(fn))
			return 0
		}))
	}
	register("onMounted", &sc.onMounted)
	register("onUnmounted", &sc.onUnmounted)
	register("beforeRender", &sc.beforeRender)
	register("afterRender", &sc.afterRender)
	register("onRefresh", &sc.onRefresh)

	registerMedia := func(name string, dst *[]MediaHook) {
		sc.L.SetGlobal(name, sc.L.NewFunction(func(L *lua.LState) int {
			fn := L.CheckFunction(1)
			*dst = append(*dst, func(payload any) error {
				return sc.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, ToLua(sc.L, payload))
			})
			return 0
		}))
	}
	registerMedia("onPhoto", &sc.onPhoto)
	registerMedia("onDocument", &sc.onDocument)
}

func (sc *ScriptContext) wrapHook(fn *lua.LFunction) LifecycleHook {
	return func() error {
		return sc.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	}
}

// installConsole publishes console.log/warn/error routed through slog, the
// logging sink §4.2 asks for.
func (sc *ScriptContext) installConsole() {
	console := sc.L.NewTable()
	logAt := func(level string) lua.LGFunction {
		return func(L *lua.LState) int {
			n := L.GetTop()
			parts := make([]string, 0, n)
			for i := 1; i <= n; i++ {
				parts = append(parts, L.Get(i).String())
			}
			msg := strings.Join(parts, " ")
			switch level {
			case "warn":
				sc.logger.Warn(msg)
			case "error":
				sc.logger.Error(msg)
			default:
				sc.logger.Info(msg)
			}
			return 0
		}
	}
	sc.L.SetField(console, "log", sc.L.NewFunction(logAt("log")))
	sc.L.SetField(console, "warn", sc.L.NewFunction(logAt("warn")))
	sc.L.SetField(console, "error", sc.L.NewFunction(logAt("error")))
	sc.L.SetGlobal("console", console)
}

// RunMounted, RunUnmounted, RunBeforeRender, RunAfterRender, RunRefresh
// execute a lifecycle hook set in registration order. Errors are reported
// through ReportError rather than aborting the remaining hooks, matching
// §7's "event handlers recover locally" propagation policy.
func (sc *ScriptContext) RunMounted() { sc.runAll(sc.onMounted) }
func (sc *ScriptContext) RunUnmounted() { sc.runAll(sc.onUnmounted) }
func (sc *ScriptContext) RunBeforeRender() { sc.runAll(sc.beforeRender) }
func (sc *ScriptContext) RunAfterRender() { sc.runAll(sc.afterRender) }
func (sc *ScriptContext) RunRefresh() { sc.runAll(sc.onRefresh) }

func (sc *ScriptContext) runAll(hooks []LifecycleHook) {
	for _, h := range hooks {
		if err := h(); err != nil {
			sc.ReportError(err)
		}
	}
}

// DispatchPhoto and DispatchDocument run the registered onPhoto/onDocument
// handlers, reporting (rather than stopping on) the first error.
func (sc *ScriptContext) DispatchPhoto(payload any) bool {
	return sc.dispatchMedia(sc.onPhoto, payload)
}

func (sc *ScriptContext) DispatchDocument(payload any) bool {
	return sc.dispatchMedia(sc.onDocument, payload)
}

func (sc *ScriptContext) dispatchMedia(hooks []MediaHook, payload any) bool {
	if len(hooks) == 0 {
		return false
	}
	for _, h := range hooks {
		if err := h(payload); err != nil {
			sc.ReportError(err)
		}
	}
	return true
}

// ReportError routes a script/event error to VModel.handleErrorAsync first
// (if one was registered via SetVModel), then to the bot-user's handler
// when the UserHost has a HandleError(error) method (pkg/session.BotUser
// does), and logs it — §7's propagation policy, and Open Question 2's
// "explicit error surfacing" resolution (SPEC_FULL.md).
func (sc *ScriptContext) ReportError(err error) {
	if sc.errorHandler != nil && sc.errorHandler.HandleError(err) {
		return
	}
	if h, ok := sc.user.(interface{ HandleError(error) }); ok {
		h.HandleError(err)
	}
	sc.logger.Error("unhandled script error", "error", err)
}

// ConsumeNavigated reports whether UI.navigate/navigateFresh was called
// since the last ConsumeNavigated, clearing the flag. ScriptPage calls this
// once per Command click to decide whether to skip the default re-render.
func (sc *ScriptContext) ConsumeNavigated() bool {
	v := sc.navigated
	sc.navigated = false
	return v
}

// PublishGlobal sets a top-level global to a bridged value — used by
// ComponentFactory to publish v-for loop variables (itemName/indexName)
// for the duration of one iteration's id/prop rendering.
func (sc *ScriptContext) PublishGlobal(name string, value any) {
	sc.L.SetGlobal(name, ToLua(sc.L, value))
}

// ClearGlobal removes a previously published global, restoring it to nil —
// §4.4's "after the loop, clear loop variables from the engine".
func (sc *ScriptContext) ClearGlobal(name string) {
	sc.L.SetGlobal(name, lua.LNil)
}

// SetCallbackQueryID publishes `callbackQueryId` as a top-level global, the
// propagation §4.4's invokeEvent describes.
func (sc *ScriptContext) SetCallbackQueryID(id string) {
	sc.callbackQueryID = id
	sc.L.SetGlobal("callbackQueryId", lua.LString(id))
}
