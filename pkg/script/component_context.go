package script

import "github.com/veydlin-go/botui/pkg/page"

// ComponentContext scopes a single component instance's `self` binding
// within a page's shared ScriptContext. Because one *lua.LState backs the
// whole page (§4.2's script scope is page-wide, not per-component), `self`
// must be swapped in and restored around each component's expression
// evaluations and event handlers rather than living in a separate state —
// this mirrors the save/restore-current-instance pattern the teacher used
// for its own component-local render scope.
type ComponentContext struct {
	sc   *ScriptContext
	self ScriptObject
}

// NewComponentContext binds the given self object to a new context on this
// ScriptContext. id is not looked up; self may be nil and set later.
func (sc *ScriptContext) NewComponentContext(id string, self ScriptObject) *ComponentContext {
	return &ComponentContext{sc: sc, self: self}
}

// Enter installs this component's `self` as the global `self` binding and
// returns a restore function the caller must defer-call before returning
// control (typically to the page dispatcher or a parent component's own
// Enter).
func (cc *ComponentContext) Enter() (restore func()) {
	prev := cc.sc.L.GetGlobal("self")
	cc.sc.L.SetGlobal("self", ToLua(cc.sc.L, cc.self))
	return func() {
		cc.sc.L.SetGlobal("self", prev)
	}
}

// Evaluate runs expression with this component's self scope installed,
// restoring the previous scope before returning — for v-if/:bind/inline
// text expressions evaluated while rendering this component.
func (cc *ComponentContext) Evaluate(expression string) string {
	restore := cc.Enter()
	defer restore()
	return cc.sc.Evaluate(expression)
}

// EvaluateBool is the self-scoped counterpart of ScriptContext.EvaluateBool.
func (cc *ComponentContext) EvaluateBool(expression string) bool {
	restore := cc.Enter()
	defer restore()
	return cc.sc.EvaluateBool(expression)
}

// EvaluateAny is the self-scoped counterpart of ScriptContext.EvaluateAny.
func (cc *ComponentContext) EvaluateAny(expression string) (any, error) {
	restore := cc.Enter()
	defer restore()
	return cc.sc.EvaluateAny(expression)
}

// RenderTemplate is the self-scoped counterpart of ScriptContext.
// RenderTemplate: it substitutes every `{{ expr }}` run in template against
// this component's own self scope. Used for id templates (which may embed
// a v-for loop variable) and any other raw-template prop source.
func (cc *ComponentContext) RenderTemplate(template string) string {
	restore := cc.Enter()
	defer restore()
	return page.Render(template, cc.sc.Evaluate)
}

// Invoke runs an `@event` handler body with this component's self scope
// installed, then its bubbling parent chain untouched — bubbling is the
// caller's (pkg/element) responsibility, driven by whether the handler
// called a bubbling primitive.
func (cc *ComponentContext) Invoke(handlerBody string) error {
	restore := cc.Enter()
	defer restore()
	return cc.sc.ExecuteStatements(handlerBody)
}

// createChild returns a new ComponentContext sharing this context's
// ScriptContext but scoped to a different component id — used when a
// parent component's render walks into a child (e.g. CheckboxList row,
// Card within AutoCard) and must evaluate the child's own bindings under
// its own self.
func (cc *ComponentContext) createChild(self ScriptObject) *ComponentContext {
	return cc.sc.NewComponentContext("", self)
}

// Self exposes the bound ScriptObject, chiefly for tests asserting which
// element a context is scoped to.
func (cc *ComponentContext) Self() ScriptObject { return cc.self }

// SetSelf rebinds the ScriptObject this context scopes `self` to. Used by
// ComponentFactory, which must build a ComponentContext before the
// MenuElement it will scope exists yet (the element needs its
// ComponentContext to evaluate its own props during construction).
func (cc *ComponentContext) SetSelf(self ScriptObject) { cc.self = self }

// ScriptContext exposes the shared page-wide engine this component context
// is scoped within, for callers (pkg/element) that need to publish a
// global outside the self-scoping helpers above, such as callbackQueryId.
func (cc *ComponentContext) ScriptContext() *ScriptContext { return cc.sc }
