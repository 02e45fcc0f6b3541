package element

import (
	"fmt"

	"github.com/veydlin-go/botui/pkg/page"
	"github.com/veydlin-go/botui/pkg/script"
)

// Constructor builds one concrete MenuElement from its Base and compiled
// definition. Registered per tag name so Expand never needs a type switch
// over every concrete element package-internally — a constructor closure
// captures whatever host-side wiring (onClick hooks, issuers, pagers) the
// owning ScriptPage supplies.
type Constructor func(base *Base, def *page.ComponentDefinition) (MenuElement, error)

// ComponentFactory expands an ordered list of page.ComponentDefinition
// into live MenuElements, honouring v-if/v-else-if/v-else chains and
// v-for repetition (§4.4's "Directive expansion" section), then optionally
// auto-paginates the result.
type ComponentFactory struct {
	sc         *script.ScriptContext
	issuer     TokenIssuer
	registry   map[string]Constructor
	onRegister func(id string, el MenuElement)
}

// NewComponentFactory builds a factory bound to one page's shared script
// engine. onRegister, if non-nil, is called once per realised element so
// the caller can index it for `component(id)` lookups.
func NewComponentFactory(sc *script.ScriptContext, issuer TokenIssuer, onRegister func(string, MenuElement)) *ComponentFactory {
	return &ComponentFactory{
		sc:         sc,
		issuer:     issuer,
		registry:   make(map[string]Constructor),
		onRegister: onRegister,
	}
}

// Register binds a tag name (e.g. "command", "checkbox-list") to the
// constructor that builds its concrete MenuElement.
func (f *ComponentFactory) Register(tagName string, ctor Constructor) {
	f.registry[tagName] = ctor
}

// Expand realises defs in order, applying v-if/v-else-if/v-else chain
// tracking and v-for repetition exactly as §4.4 describes.
func (f *ComponentFactory) Expand(defs []*page.ComponentDefinition) ([]MenuElement, error) {
	var out []MenuElement
	previousIfWasTrue := false

	for _, def := range defs {
		switch {
		case def.VIf == nil || def.VIf.Type == page.VIfNone:
			previousIfWasTrue = false
		case def.VIf.Type == page.VIfIf:
			previousIfWasTrue = f.sc.EvaluateBool(def.VIf.Condition)
			if !previousIfWasTrue {
				continue
			}
		case def.VIf.Type == page.VIfElseIf:
			if previousIfWasTrue {
				continue
			}
			previousIfWasTrue = f.sc.EvaluateBool(def.VIf.Condition)
			if !previousIfWasTrue {
				continue
			}
		case def.VIf.Type == page.VIfElse:
			if previousIfWasTrue {
				continue
			}
			previousIfWasTrue = true
		}

		if def.VFor != nil {
			elems, err := f.expandFor(def)
			if err != nil {
				return nil, err
			}
			out = append(out, elems...)
			continue
		}

		el, err := f.build(def, "", nil, "", nil)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func (f *ComponentFactory) expandFor(def *page.ComponentDefinition) ([]MenuElement, error) {
	collection, err := f.sc.EvaluateAny(def.VFor.Expression)
	if err != nil {
		return nil, fmt.Errorf("element: v-for %q: %w", def.VFor.Expression, err)
	}
	items, _ := collection.([]any)

	var out []MenuElement
	for i, item := range items {
		el, err := f.build(def, def.VFor.ItemName, item, def.VFor.IndexName, i)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// build creates one live element for def, optionally under a v-for
// iteration's loop variables, freezes its props, registers it by rendered
// id, and returns it.
func (f *ComponentFactory) build(def *page.ComponentDefinition, itemName string, itemValue any, indexName string, indexValue any) (MenuElement, error) {
	ctor, ok := f.registry[def.TagName]
	if !ok {
		return nil, fmt.Errorf("element: no constructor registered for <%s>", def.TagName)
	}

	cc := f.sc.NewComponentContext(def.ID, nil)
	id := def.ID
	if itemName != "" || indexName != "" {
		// The id template may itself reference the loop variables; publish
		// them globally just long enough to render it (§4.4).
		f.withLoopVars(itemName, itemValue, indexName, indexValue, func() {
			id = cc.RenderTemplate(def.ID)
		})
	} else if def.ID != "" {
		id = cc.RenderTemplate(def.ID)
	}

	base := NewBase(def, id, def.RowIndex+indexAsInt(indexValue), cc, f.issuer)
	if def.Element != nil {
		names := make([]string, 0, len(def.BindAttrs)+len(def.StaticAttrs))
		for name := range def.BindAttrs {
			names = append(names, name)
		}
		for name := range def.StaticAttrs {
			names = append(names, name)
		}
		if err := base.ValidateSingleSource(names...); err != nil {
			return nil, err
		}
	}
	el, err := ctor(base, def)
	if err != nil {
		return nil, err
	}
	cc.SetSelf(el)

	f.withLoopVars(itemName, itemValue, indexName, indexValue, func() {
		base.FreezeProps(itemName, itemValue, indexName, indexValue)
	})

	if f.onRegister != nil {
		f.onRegister(id, el)
	}
	return el, nil
}

func indexAsInt(v any) int {
	if n, ok := v.(int); ok {
		return n
	}
	return 0
}

// withLoopVars publishes itemName/indexName as globals in the shared
// engine for the duration of fn, then clears them — §4.4's "after the
// loop, clear loop variables from the engine".
func (f *ComponentFactory) withLoopVars(itemName string, itemValue any, indexName string, indexValue any, fn func()) {
	if itemName != "" {
		f.sc.PublishGlobal(itemName, itemValue)
	}
	if indexName != "" {
		f.sc.PublishGlobal(indexName, indexValue)
	}
	fn()
	if itemName != "" {
		f.sc.ClearGlobal(itemName)
	}
	if indexName != "" {
		f.sc.ClearGlobal(indexName)
	}
}

// AutoPaginate implements §4.4's auto-pagination: starting a new page
// whenever adding the next element would exceed maxItems or adding a new
// rowIndex would exceed maxRows. A navigation panel, if present in
// elements, is extracted and returned separately so the caller can render
// it once, below the content, synced to the owning pager.
func AutoPaginate(elements []MenuElement, maxItems, maxRows int) (pages [][]MenuElement, panel *NavigatePanel) {
	var content []MenuElement
	for _, el := range elements {
		if p, ok := el.(*NavigatePanel); ok && panel == nil {
			panel = p
			continue
		}
		content = append(content, el)
	}
	return PaginateByLimit(content, maxItems, maxRows), panel
}
