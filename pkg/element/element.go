// Package element implements the MenuElement common protocol (§4.4) and its
// concrete component types (§4.5): the live, per-render instances a
// compiled page.ComponentDefinition expands into. Every MenuElement is a
// script.ScriptObject, so `component(id)` in an embedded script can read
// its props and call its script-exposed methods directly.
package element

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/veydlin-go/botui/pkg/page"
	"github.com/veydlin-go/botui/pkg/script"
)

// ErrDuplicatePropSource is returned by ValidateSingleSource when a prop is
// supplied by more than one of the three sources (:bind attribute, child
// element, plain attribute) the common protocol allows — a compile-time
// page authoring error, not a runtime one.
var ErrDuplicatePropSource = errors.New("element: prop supplied by more than one source")

// Button is one keyboard button a MenuElement's Build emits. Exactly one of
// CallbackToken, URL, WebApp should be set; the transport layer maps this to
// its own inline-keyboard button shape.
type Button struct {
	Text          string
	CallbackToken string
	URL           string
	WebApp        bool
}

// TokenIssuer is the CallbackRegistry façade a MenuElement uses to turn a
// click into a routable token and tear the subscription down again. Defined
// here (rather than importing pkg/registry) to avoid element→registry→...
// import cycles; pkg/registry's CallbackRegistry implements it directly.
type TokenIssuer interface {
	Issue(handler func(queryID string, messageID int, chatID int64) error) string
	Revoke(token string)
}

// MenuElement is the common interface every concrete component type
// satisfies: the ComponentFactory only ever talks to elements through this,
// and the keyboard assembler only ever calls Build.
type MenuElement interface {
	script.ScriptObject

	ID() string
	RowIndex() int
	Hidden() bool
	Columns() int

	// Build renders this element's current state into 0..N keyboard
	// buttons. Called once per page render, after freezeProps.
	Build() []Button

	// Dispose revokes any callback tokens this element issued and runs
	// any element-specific teardown (e.g. a Card's child pages).
	Dispose()
}

// propSource names the places a prop's raw template text can come from.
// ValidateSingleSource checks the same three sources by counting them.
type propSource int

const (
	sourceNone propSource = iota
	sourceBind
	sourceChild
	sourceAttr
)

// Base is embedded by every concrete element type. It implements the
// resolution-order logic of getProp/getRawProp, prop freezing, event
// invocation, and the script.ScriptObject bridge, leaving only
// element-specific behaviour (Build, and any extra script methods/props) to
// the concrete type.
type Base struct {
	def *page.ComponentDefinition
	cc  *script.ComponentContext

	id       string
	rowIndex int
	hideTpl  string
	colsTpl  string

	tokens []string
	issuer TokenIssuer

	frozen     map[string]string
	frozenItem map[string]any
	frozenCtx  map[string]any

	// methods/props let a concrete type register its script-facing API
	// without Base needing to know about it; populated by the concrete
	// type's constructor.
	methods map[string]func(args []any) (any, error)
	props   map[string]func() (any, bool)
}

// NewBase constructs the common element state from a compiled definition,
// resolved id, and the ComponentContext the ComponentFactory built for this
// instance.
func NewBase(def *page.ComponentDefinition, id string, rowIndex int, cc *script.ComponentContext, issuer TokenIssuer) *Base {
	return &Base{
		def:      def,
		cc:       cc,
		id:       id,
		rowIndex: rowIndex,
		hideTpl:  def.Hide,
		colsTpl:  def.Columns,
		issuer:   issuer,
		methods:  make(map[string]func(args []any) (any, error)),
		props:    make(map[string]func() (any, bool)),
	}
}

func (b *Base) ID() string       { return b.id }
func (b *Base) RowIndex() int    { return b.rowIndex }
func (b *Base) Context() *script.ComponentContext { return b.cc }
func (b *Base) Definition() *page.ComponentDefinition { return b.def }

// Hidden evaluates the `hide` template, if any; an empty template means
// "never hidden".
func (b *Base) Hidden() bool {
	if b.hideTpl == "" {
		return false
	}
	return b.cc.EvaluateBool(b.hideTpl)
}

// Columns evaluates the `columns` template; an empty or non-numeric result
// defaults to 1 (single-column row), matching an unset attribute.
func (b *Base) Columns() int {
	if b.colsTpl == "" {
		return 1
	}
	s := b.cc.Evaluate(b.colsTpl)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// RegisterMethod exposes a script-callable method under name — called by a
// concrete type's constructor for each method §4.5 lists for it (e.g.
// Checkbox's "toggle"/"select").
func (b *Base) RegisterMethod(name string, fn func(args []any) (any, error)) {
	b.methods[name] = fn
}

// RegisterProp exposes a script-readable property under name.
func (b *Base) RegisterProp(name string, fn func() (any, bool)) {
	b.props[name] = fn
}

// Call implements script.ScriptObject.
func (b *Base) Call(method string, args []any) (any, error) {
	fn, ok := b.methods[method]
	if !ok {
		return nil, fmt.Errorf("element %s: no such method %q", b.id, method)
	}
	return fn(args)
}

// Get implements script.ScriptObject.
func (b *Base) Get(prop string) (any, bool) {
	fn, ok := b.props[prop]
	if !ok {
		return nil, false
	}
	return fn()
}

// resolveRawProp implements getRawProp's source-of-truth lookup in this
// order: :bind attribute, child element, plain attribute, then (for title
// only) inner text. Frozen values are not consulted here; GetProp checks
// them before calling this.
func (b *Base) resolveRawProp(name string) (tpl string, kind page.AttrKind, found bool) {
	if t, ok := b.def.BindAttrs[name]; ok {
		return t, page.AttrBind, true
	}
	for _, child := range b.def.Element.Children() {
		if strings.EqualFold(child.TagName(), name) {
			return childInnerTemplate(child), page.AttrStatic, true
		}
	}
	if t, ok := b.def.StaticAttrs[name]; ok {
		return t, page.AttrStatic, true
	}
	if name == "title" {
		if text := strings.TrimSpace(b.def.Element.InnerText()); text != "" {
			return text, page.AttrStatic, true
		}
	}
	return "", page.AttrStatic, false
}

func childInnerTemplate(e page.Element) string {
	return e.InnerTemplate()
}

// GetRawProp returns a prop's template text unrendered, or "" if absent.
func (b *Base) GetRawProp(name string) string {
	tpl, _, _ := b.resolveRawProp(name)
	return tpl
}

// GetProp resolves a prop per §4.4's order: frozen → binding (evaluate now)
// → template (render now) → default. lang is not a transform applied to the
// resolved value — it is itself a localisation key, carried on a `lang`
// attribute per §6 ("Templates invoke via $t(key) or the lang attribute on
// an element/option"). When the caller supplies one, it takes priority over
// every source except a frozen value: the prop is whatever $t(lang)
// returns, and the element's own template/binding for name is never
// evaluated. `$t` is not a valid Lua identifier, so it is reached through
// _G.
func (b *Base) GetProp(name, lang, def string) string {
	if b.frozen != nil {
		if v, ok := b.frozen[name]; ok {
			return v
		}
	}
	if lang != "" {
		return b.cc.Evaluate(`_G["$t"]("` + lang + `")`)
	}
	tpl, kind, found := b.resolveRawProp(name)
	if !found {
		return def
	}
	switch kind {
	case page.AttrBind:
		return b.cc.Evaluate(tpl)
	default:
		return b.cc.RenderTemplate(tpl)
	}
}

// ValidateSingleSource checks every attribute name appears in at most one
// of StaticAttrs/BindAttrs against this element's child-element sources,
// returning ErrDuplicatePropSource on the first collision found.
// ComponentFactory calls this for every attribute name of a definition
// before the element's constructor runs.
func (b *Base) ValidateSingleSource(names ...string) error {
	for _, name := range names {
		count := 0
		if _, ok := b.def.BindAttrs[name]; ok {
			count++
		}
		if _, ok := b.def.StaticAttrs[name]; ok {
			count++
		}
		for _, child := range b.def.Element.Children() {
			if strings.EqualFold(child.TagName(), name) {
				count++
				break
			}
		}
		if count > 1 {
			return fmt.Errorf("%w: %q on <%s id=%q>", ErrDuplicatePropSource, name, b.def.TagName, b.id)
		}
	}
	return nil
}

// FreezeProps evaluates every bound/templated prop once and captures any
// named loop variables — the fix for the v-for closure problem (§9): after
// this call GetProp never re-evaluates script state, so later renders of
// sibling iterations cannot corrupt an earlier iteration's captured values.
func (b *Base) FreezeProps(itemName string, itemValue any, indexName string, indexValue any) {
	b.frozen = make(map[string]string)
	b.frozenItem = map[string]any{}
	if itemName != "" {
		b.frozenItem[itemName] = itemValue
	}
	if indexName != "" {
		b.frozenItem[indexName] = indexValue
	}
	for name := range b.def.BindAttrs {
		b.frozen[name] = b.cc.Evaluate(b.def.BindAttrs[name])
	}
	for name := range b.def.StaticAttrs {
		b.frozen[name] = b.cc.RenderTemplate(b.def.StaticAttrs[name])
	}
	b.frozenCtx = map[string]any{}
	for k, v := range b.frozenItem {
		b.frozenCtx[k] = v
	}
}

// HasEvent reports whether an @name handler was declared for this element.
func (b *Base) HasEvent(name string) bool {
	_, ok := b.def.EventAttrs[name]
	return ok
}

// InvokeEvent runs a registered @event handler (its raw code template),
// publishing callbackQueryID as the top-level `callbackQueryId` global
// first when non-empty, per §4.4. The loop variables FreezeProps captured
// are published as globals for the duration of the handler and cleared
// afterwards.
func (b *Base) InvokeEvent(name string, callbackQueryID string) error {
	code, ok := b.def.EventAttrs[name]
	if !ok {
		return nil
	}
	if callbackQueryID != "" {
		b.cc.ScriptContext().SetCallbackQueryID(callbackQueryID)
	}
	sc := b.cc.ScriptContext()
	for k, v := range b.frozenCtx {
		sc.PublishGlobal(k, v)
		defer sc.ClearGlobal(k)
	}
	return b.cc.Invoke(code)
}

// IssueToken asks the owning session's CallbackRegistry for a fresh token
// bound to handler, remembering it so Dispose can revoke it. Returns "" if
// no issuer was wired (e.g. a unit test building an element in isolation).
func (b *Base) IssueToken(handler func(queryID string, messageID int, chatID int64) error) string {
	if b.issuer == nil {
		return ""
	}
	tok := b.issuer.Issue(handler)
	b.tokens = append(b.tokens, tok)
	return tok
}

// RevokeTokens unsubscribes every token this element issued — called at the
// start of every rebuild and from Dispose, per §5's "old tokens become
// invalid" resource-lifetime rule.
func (b *Base) RevokeTokens() {
	if b.issuer == nil {
		return
	}
	for _, tok := range b.tokens {
		b.issuer.Revoke(tok)
	}
	b.tokens = b.tokens[:0]
}

// Dispose implements the MenuElement default: revoke tokens. Concrete types
// with extra teardown (Card's pages, AutoCard's generated children) should
// call Base.Dispose and then do their own cleanup.
func (b *Base) Dispose() {
	b.RevokeTokens()
}
