package runtime

import (
	"context"
	"sync"

	"github.com/veydlin-go/botui/pkg/transport"
)

// PageHandle is one node of the navigation stack: it owns a live
// ScriptPage plus its parent/child relationship to other handles opened
// as its sub-pages. Disposing a handle cascades to its children in
// reverse creation order before tearing down its own ScriptPage — mirror
// of the teacher's router history stack, generalised from an in-process
// view stack to chat messages that must also be deleted on close.
// PageHandle implements session.ActivePage structurally (ID/
// DispatchPhoto/DispatchDocument/Dispose), so pkg/session can track it
// without importing this package.
type PageHandle struct {
	mu sync.Mutex

	id     string
	page   *ScriptPage
	parent *PageHandle

	children []*PageHandle
	disposed bool

	chatID int64
	client transport.Client
}

func newPageHandle(id string, sp *ScriptPage, parent *PageHandle, chatID int64, client transport.Client) *PageHandle {
	return &PageHandle{
		id:     id,
		page:   sp,
		parent: parent,
		chatID: chatID,
		client: client,
	}
}

// ID identifies this handle for session.ActivePage and for error context.
func (h *PageHandle) ID() string { return h.id }

func (h *PageHandle) registerChild(child *PageHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.children = append(h.children, child)
}

func (h *PageHandle) removeChild(child *PageHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, c := range h.children {
		if c == child {
			h.children = append(h.children[:i], h.children[i+1:]...)
			return
		}
	}
}

// render performs this handle's first render, sending the page's message.
func (h *PageHandle) render() error {
	return h.currentPage().renderCurrent()
}

func (h *PageHandle) currentPage() *ScriptPage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page
}

// Children returns a snapshot of this handle's currently open sub-pages,
// for pkg/devtools to walk the navigation tree without its own locking.
func (h *PageHandle) Children() []*PageHandle {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*PageHandle, len(h.children))
	copy(out, h.children)
	return out
}

// PageTitle and PageID report the handle's current live page's title and
// definition id, for pkg/devtools.
func (h *PageHandle) PageTitle() string { return h.currentPage().Title() }
func (h *PageHandle) PageID() string    { return h.currentPage().PageID() }

// DispatchPhoto and DispatchDocument satisfy session.ActivePage, routed to
// the handle's current live ScriptPage (which may have been swapped by an
// in-place Navigate).
func (h *PageHandle) DispatchPhoto(payload any) bool {
	return h.currentPage().DispatchPhoto(payload)
}

func (h *PageHandle) DispatchDocument(payload any) bool {
	return h.currentPage().DispatchDocument(payload)
}

// InvokeCallback routes an incoming callback query's token through this
// handle's current ScriptPage's registry, matching §4.6's CallbackRegistry
// contract. ok reports whether token was known. After a known handler
// runs, the page re-renders unless the handler itself already navigated
// away or disposed this handle (§4.5's "if neither navigated the page, the
// caller re-renders").
func (h *PageHandle) InvokeCallback(queryID, token string, messageID int, chatID int64) (ok bool, err error) {
	sp := h.currentPage()
	sp.currentQueryID = queryID
	defer func() { sp.currentQueryID = "" }()

	ok, err = sp.registry.Invoke(queryID, token, messageID, chatID)
	if !ok || err != nil {
		return ok, err
	}

	current := h.currentPage()
	h.mu.Lock()
	disposed := h.disposed
	h.mu.Unlock()
	if disposed || current != sp || current.sc.ConsumeNavigated() {
		return true, nil
	}
	return true, current.renderCurrent()
}

// Back disposes this handle (cascading to its own children first) and
// re-renders its parent, if any — §4.3's back-button behaviour.
func (h *PageHandle) Back() error {
	parent := h.parent
	h.Dispose()
	if parent == nil {
		return nil
	}
	return parent.currentPage().renderCurrent()
}

// Close deletes this handle's chat message, then disposes it.
func (h *PageHandle) Close() error {
	sp := h.currentPage()
	if sp.messageID != 0 {
		_ = h.client.DeleteMessage(context.Background(), h.chatID, sp.messageID)
	}
	h.Dispose()
	return nil
}

// Dispose tears down this handle's children (most-recently-opened first)
// and then its own ScriptPage, idempotently, and detaches from its parent.
// It does not touch the chat message — Close does that before disposing.
func (h *PageHandle) Dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	children := h.children
	h.children = nil
	page := h.page
	parent := h.parent
	h.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	page.teardown()
	if parent != nil {
		parent.removeChild(h)
	}
}
