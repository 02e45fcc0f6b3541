package script

import (
	"fmt"
	"strings"

	"github.com/veydlin-go/botui/pkg/page"
	lua "github.com/yuin/gopher-lua"
)

// decodeEntities undoes the handful of XML entities a template file's
// attribute values and inline text are forced to use for characters that
// would otherwise confuse the XML parser (`<`, `>`, `&`) before the
// expression inside is handed to the script engine (§4.2).
func decodeEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	r := strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
	return r.Replace(s)
}

// Evaluate runs a single expression (already stripped of `{{`/`}}`
// delimiters) against the current global scope and returns its string
// representation, decoding `self`/`props`/`VModel`-aware XML entities
// first. A failing expression reports through ReportError and renders as
// empty string rather than aborting the surrounding template render.
func (sc *ScriptContext) Evaluate(expression string) string {
	v, err := sc.evalRaw(expression)
	if err != nil {
		sc.ReportError(fmt.Errorf("script: evaluate %q: %w", expression, err))
		return ""
	}
	return luaToDisplayString(v)
}

// EvaluateBool runs an expression and coerces its result to a boolean using
// Lua truthiness (everything except nil and false is truthy) — the
// semantics v-if/v-show conditions use (§3.2).
func (sc *ScriptContext) EvaluateBool(expression string) bool {
	v, err := sc.evalRaw(expression)
	if err != nil {
		sc.ReportError(fmt.Errorf("script: evaluate %q: %w", expression, err))
		return false
	}
	return lua.LVAsBool(v)
}

// EvaluateAny runs an expression and returns its bridged Go value, for
// :bind attributes and v-for source expressions that need structured data
// rather than a display string.
func (sc *ScriptContext) EvaluateAny(expression string) (any, error) {
	v, err := sc.evalRaw(expression)
	if err != nil {
		return nil, err
	}
	return FromLua(v), nil
}

func (sc *ScriptContext) evalRaw(expression string) (lua.LValue, error) {
	expression = decodeEntities(strings.TrimSpace(expression))
	if expression == "" {
		return lua.LNil, nil
	}
	chunk := "return " + expression
	fn, err := sc.L.LoadString(chunk)
	if err != nil {
		return lua.LNil, err
	}
	sc.L.Push(fn)
	if err := sc.L.PCall(0, 1, nil); err != nil {
		return lua.LNil, err
	}
	v := sc.L.Get(-1)
	sc.L.Pop(1)
	return v, nil
}

func luaToDisplayString(v lua.LValue) string {
	if v == nil || v == lua.LNil {
		return ""
	}
	return v.String()
}

// RenderTemplate substitutes every `{{ expr }}` in a template string using
// this context's evaluator, per pkg/page's last-to-first substitution
// order.
func (sc *ScriptContext) RenderTemplate(template string) string {
	return page.Render(template, sc.Evaluate)
}

// ExecuteStatements runs a block of script statements (a `@click` handler
// body, or a page's top-level `<script>` block) for side effect only. The
// embedded engine executes synchronously, and the body must be Lua
// statements (§4.2, §9 scripting substitution).
func (sc *ScriptContext) ExecuteStatements(body string) error {
	body = decodeEntities(body)
	fn, err := sc.L.LoadString(body)
	if err != nil {
		return fmt.Errorf("script: parse: %w", err)
	}
	sc.L.Push(fn)
	return sc.L.PCall(0, 0, nil)
}
