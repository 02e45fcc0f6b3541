package runtime

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/veydlin-go/botui/pkg/element"
	"github.com/veydlin-go/botui/pkg/page"
	"github.com/veydlin-go/botui/pkg/registry"
	"github.com/veydlin-go/botui/pkg/script"
	"github.com/veydlin-go/botui/pkg/transport"
)

// VModelFactory builds a page's view model and optional error handler
// from the props it was opened with. Registered per page.PageDefinition.
// VModel name (§9's "VModel, resolved by PageManager" note).
type VModelFactory func(props map[string]any) (vmodel any, handler script.ErrorHandler)

// PageManager compiles page.PageDefinitions into running ScriptPages for
// a given chat: it owns the definition table, the VModel factory
// registry, and enough session-level context (client, localisation,
// logger) to build a ScriptContext without importing pkg/session —
// avoiding a runtime<->session import cycle, PageManager takes that
// context as plain values/callbacks instead of a *session.BotUser.
type PageManager struct {
	client transport.Client
	logger *slog.Logger

	defs    map[string]*page.PageDefinition
	vmodels map[string]VModelFactory

	userHostFor func(chatID int64) script.UserHost
	localizeFor func(chatID int64) func(string) string

	seq atomic.Uint64
}

// NewPageManager builds a PageManager over a fixed set of compiled page
// definitions. userHostFor/localizeFor let an application bind the
// manager to its own session layer (e.g. pkg/session.SessionCache)
// without this package depending on it.
func NewPageManager(defs []*page.PageDefinition, client transport.Client, userHostFor func(int64) script.UserHost, localizeFor func(int64) func(string) string, logger *slog.Logger) *PageManager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &PageManager{
		client:      client,
		logger:      logger,
		defs:        make(map[string]*page.PageDefinition, len(defs)),
		vmodels:     make(map[string]VModelFactory),
		userHostFor: userHostFor,
		localizeFor: localizeFor,
	}
	for _, d := range defs {
		m.defs[d.ID] = d
	}
	return m
}

// RegisterVModel binds a view-model factory to the name a page's
// `vmodel` attribute names.
func (m *PageManager) RegisterVModel(name string, factory VModelFactory) {
	m.vmodels[name] = factory
}

func (m *PageManager) userFor(chatID int64) script.UserHost {
	if m.userHostFor == nil {
		return nil
	}
	return m.userHostFor(chatID)
}

func (m *PageManager) localizeForChat(chatID int64) func(string) string {
	if m.localizeFor == nil {
		return nil
	}
	return m.localizeFor(chatID)
}

func (m *PageManager) nextID(pageID string) string {
	n := m.seq.Add(1)
	return fmt.Sprintf("%s#%d", pageID, n)
}

// OpenPage compiles pageID into a fresh top-level PageHandle (no parent),
// renders it, and sends it as a new message in chatID.
func (m *PageManager) OpenPage(chatID int64, reg *registry.CallbackRegistry, pageID string, props map[string]any) (*PageHandle, error) {
	return m.open(chatID, reg, pageID, props, nil, false)
}

// OpenSubPage compiles pageID as a child of parent: navigating back from
// it returns to parent, and disposing parent cascades to dispose it too
// (§9's supplemented sub-page navigation).
func (m *PageManager) OpenSubPage(chatID int64, reg *registry.CallbackRegistry, pageID string, props map[string]any, parent *PageHandle) (*PageHandle, error) {
	return m.open(chatID, reg, pageID, props, parent, true)
}

func (m *PageManager) open(chatID int64, reg *registry.CallbackRegistry, pageID string, props map[string]any, parent *PageHandle, subPage bool) (*PageHandle, error) {
	def, ok := m.defs[pageID]
	if !ok {
		return nil, fmt.Errorf("runtime: unknown page %q", pageID)
	}

	sp, err := newScriptPage(def, m, chatID, m.client, reg, m.localizeForChat(chatID), props)
	if err != nil {
		return nil, err
	}

	handle := newPageHandle(m.nextID(def.ID), sp, parent, chatID, m.client)
	sp.handle = handle
	if subPage && parent != nil {
		parent.registerChild(handle)
	}
	if def.BackToParent && parent != nil {
		sp.backToken = reg.Issue(func(queryID string, messageID int, chatID int64) error {
			return handle.Back()
		})
	}

	sp.sc.RunMounted()
	if err := handle.render(); err != nil {
		return nil, err
	}
	return handle, nil
}

// registerConstructors binds every concrete element type's Constructor to
// sp's ComponentFactory, closing over sp so each instance can drive
// navigation/pagination/modal transitions through sp's Host/Pager/
// ModalOpener implementations.
func (m *PageManager) registerConstructors(factory *element.ComponentFactory, sp *ScriptPage) {
	registerConstructors(factory, sp)
}
