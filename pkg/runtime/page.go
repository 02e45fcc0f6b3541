// Package runtime implements the live page runtime §4.1-§4.3 describe:
// ScriptPage (one rendered message, its component tree and embedded
// script engine), PageHandle (the navigation-stack node wrapping a
// ScriptPage with parent/child disposal), and PageManager (compiles a
// page.PageDefinition into a running ScriptPage for a chat). Grounded on
// the teacher's router package for the parent/child navigation-stack
// shape, generalised from an in-process TUI's view stack to a
// transport-backed chat message.
package runtime

import (
	"fmt"
	"sync"

	"github.com/veydlin-go/botui/pkg/element"
	"github.com/veydlin-go/botui/pkg/page"
	"github.com/veydlin-go/botui/pkg/registry"
	"github.com/veydlin-go/botui/pkg/script"
	"github.com/veydlin-go/botui/pkg/transport"
)

// ScriptPage is one compiled page rendered into one chat message: the
// component tree built from page.PageDefinition, the script engine bound
// to it, and the pagination state for auto-paginated or explicit
// <page>-children layouts. It implements script.Host, script.BaseHost,
// script.ComponentLookup, element.Pager and element.ModalOpener so the
// engine, its components, and a bound NavigatePanel can all drive it
// through interfaces alone.
type ScriptPage struct {
	mu sync.Mutex

	def      *page.PageDefinition
	sc       *script.ScriptContext
	factory  *element.ComponentFactory
	registry *registry.CallbackRegistry

	chatID int64
	client transport.Client

	components  map[string]element.MenuElement
	allElements []element.MenuElement

	contentPages [][]element.MenuElement
	navPanel     *element.NavigatePanel
	currentIndex int

	messageID int
	backToken string

	manager *PageManager
	handle  *PageHandle

	currentQueryID string
	modal          *modalState
}

// newScriptPage builds a ScriptPage bound to def and wires its component
// tree, but does not render or send anything yet — callers (PageHandle,
// PageManager) decide when the first render happens.
func newScriptPage(def *page.PageDefinition, manager *PageManager, chatID int64, client transport.Client, reg *registry.CallbackRegistry, localize func(string) string, props map[string]any) (*ScriptPage, error) {
	sp := &ScriptPage{
		def:        def,
		chatID:     chatID,
		client:     client,
		registry:   reg,
		manager:    manager,
		components: make(map[string]element.MenuElement),
	}

	sc, err := script.NewScriptContext(sp, manager.userFor(chatID), sp, sp, localize, manager.logger)
	if err != nil {
		return nil, fmt.Errorf("runtime: new script context for page %q: %w", def.ID, err)
	}
	sp.sc = sc

	if props != nil {
		sc.SetProps(props)
	}
	if def.VModel != "" {
		if factory, ok := manager.vmodels[def.VModel]; ok {
			vmodel, handler := factory(props)
			sc.SetVModel(vmodel, handler)
		}
	}

	sp.factory = element.NewComponentFactory(sc, reg, sp.onComponentRegistered)
	manager.registerConstructors(sp.factory, sp)

	if err := sp.buildComponents(); err != nil {
		sc.Close()
		return nil, err
	}

	if def.Script != "" {
		if err := sc.ExecuteStatements(def.Script); err != nil {
			sp.sc.ReportError(fmt.Errorf("runtime: page %q top-level script: %w", def.ID, err))
		}
	}

	return sp, nil
}

func (sp *ScriptPage) onComponentRegistered(id string, el element.MenuElement) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.components[id] = el
}

// buildComponents expands def.Components through the factory, splits the
// result into content pages (either explicit MenuPages or
// AutoPaginate-driven), and captures any page-level NavigatePanel.
func (sp *ScriptPage) buildComponents() error {
	if len(sp.def.MenuPages) > 0 {
		for _, pageDefs := range sp.def.MenuPages {
			elems, err := sp.factory.Expand(pageDefs)
			if err != nil {
				return err
			}
			sp.allElements = append(sp.allElements, elems...)
			sp.contentPages = append(sp.contentPages, elems)
		}
		return nil
	}

	elems, err := sp.factory.Expand(sp.def.Components)
	if err != nil {
		return err
	}
	sp.allElements = elems

	if sp.def.UsesAutoPagination() {
		pages, panel := element.AutoPaginate(elems, sp.def.MaxItems, sp.def.MaxRows)
		sp.contentPages = pages
		sp.navPanel = panel
	} else {
		sp.contentPages = [][]element.MenuElement{elems}
	}
	return nil
}

// ID is this page's component-tree identity: the compiled page's own id.
// The session's active-page MRU list holds PageHandles, whose ID adds a
// per-manager sequence number to this id.
func (sp *ScriptPage) ID() string { return sp.def.ID }

// Component implements script.ComponentLookup.
func (sp *ScriptPage) Component(id string) (script.ScriptObject, bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	el, ok := sp.components[id]
	return el, ok
}

// PageID, Title, Parent, PageDirectory implement script.BaseHost.
func (sp *ScriptPage) PageID() string { return sp.def.ID }

func (sp *ScriptPage) Title() string {
	return sp.renderTitle(sp.def.Title)
}

func (sp *ScriptPage) Parent() string {
	if sp.handle == nil || sp.handle.parent == nil {
		return ""
	}
	return sp.handle.parent.page.def.ID
}

func (sp *ScriptPage) PageDirectory() string {
	return sp.def.ID
}

func (sp *ScriptPage) renderTitle(t *page.Title) string {
	if t == nil {
		return ""
	}
	if t.Lang != "" {
		return sp.sc.Evaluate(fmt.Sprintf(`_G["$t"](%q)`, t.Lang))
	}
	return sp.sc.RenderTemplate(t.Content)
}

// DispatchPhoto and DispatchDocument back PageHandle's session.ActivePage
// methods, routing straight through to this page's script engine
// onPhoto/onDocument hooks.
func (sp *ScriptPage) DispatchPhoto(payload any) bool    { return sp.sc.DispatchPhoto(payload) }
func (sp *ScriptPage) DispatchDocument(payload any) bool { return sp.sc.DispatchDocument(payload) }

// teardown tears down this page's component tree and script engine. It is
// idempotent-safe to call once (PageHandle guards against double-calls);
// it does not touch the chat message, that's PageHandle.Close's job.
func (sp *ScriptPage) teardown() {
	sp.mu.Lock()
	elements := sp.allElements
	sp.allElements = nil
	panel := sp.navPanel
	sp.navPanel = nil
	sp.mu.Unlock()

	sp.sc.RunUnmounted()
	for _, el := range elements {
		el.Dispose()
	}
	if panel != nil {
		panel.Dispose()
	}
	if sp.backToken != "" {
		sp.registry.Revoke(sp.backToken)
		sp.backToken = ""
	}
	sp.sc.Close()
}
