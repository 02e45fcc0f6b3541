// Package session implements the bot-user session layer (§4.8): the
// per-chat BotUser with its message operations, bounded active-page MRU
// list, virtual hooks, and safe-stop/critical-section machinery, plus the
// SessionCache that owns one BotUser per chat id (§5). Grounded on the
// teacher's router package for the MRU/history shape, and on §5's own
// cancellation-token prose for the safe-stop gate, which maps directly
// onto context.Context + sync.WaitGroup — the standard library is the
// idiomatic tool here because no pack dependency models reference-counted
// graceful shutdown more specifically than that.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/veydlin-go/botui/pkg/registry"
	"github.com/veydlin-go/botui/pkg/transport"
)

// RejectReason classifies why a callback was rejected instead of
// dispatched (§7).
type RejectReason int

const (
	RejectUnknownToken RejectReason = iota
	RejectPermissionDenied
	RejectStopping
)

// ActivePage is the subset of a live ScriptPage (pkg/runtime) BotUser
// needs: forwarding media to the page that registered onPhoto/onDocument,
// and disposing a page evicted from the MRU list. Kept as an interface
// here (rather than importing pkg/runtime) so session and runtime never
// depend on each other.
type ActivePage interface {
	ID() string
	DispatchPhoto(payload any) bool
	DispatchDocument(payload any) bool
	Dispose()
}

// Hooks are the virtual overrides §4.8 lists. Each is optional; a nil hook
// is a no-op (or, for the two gates, "allow"). An application supplies a
// Hooks value per BotUser — the Go idiom for what the spec describes as
// subclass-overridden virtual methods.
type Hooks struct {
	HandleMessage          func(ctx context.Context, msg *transport.IncomingMessage) error
	HandleCommand           func(ctx context.Context, command, args string) error
	HandleOtherMessage      func(ctx context.Context, msg *transport.IncomingMessage) error
	HandlePhoto             func(ctx context.Context, payload any) error
	HandleDocument          func(ctx context.Context, payload any) error
	HandleSuccessPayment    func(ctx context.Context, payload any) error
	HandlePreCheckoutQuery  func(ctx context.Context, queryID string) error
	HandleError             func(err error)
	// HandlePermissive and HandleAcceptLicense are gates: returning false
	// blocks the action they guard (§7's "permission denied" / license
	// wall). A nil gate always allows.
	HandlePermissive        func(ctx context.Context) bool
	HandleAcceptLicense     func(ctx context.Context) bool
	HandleRejectedCallback  func(reason RejectReason, queryID string) error
	HandleStoppingProcess   func(ctx context.Context) error
}

// BotUser is one chat's session: message operations, its own
// CallbackRegistry, localisation binding, and the bounded set of pages
// currently open in this chat.
type BotUser struct {
	chatID   int64
	client   transport.Client
	Callback *registry.CallbackRegistry
	Language string
	hooks    Hooks

	mu          sync.Mutex
	activePages []ActivePage // most-recently-used last; bounded at maxActivePages

	maxActivePages int

	stopping atomic.Bool
	critical sync.WaitGroup

	skipBefore int64 // unix seconds; messages timestamped before this are dropped
}

// New builds a BotUser for one chat. maxActivePages <= 0 defaults to 10,
// §4.8's bounded MRU size.
func New(chatID int64, client transport.Client, callback *registry.CallbackRegistry, language string, hooks Hooks, maxActivePages int, skipBefore int64) *BotUser {
	if maxActivePages <= 0 {
		maxActivePages = 10
	}
	return &BotUser{
		chatID:         chatID,
		client:         client,
		Callback:       callback,
		Language:       language,
		hooks:          hooks,
		maxActivePages: maxActivePages,
		skipBefore:     skipBefore,
	}
}

func (u *BotUser) ChatID() int64 { return u.chatID }

// Send/Edit/Delete implement script.UserHost's chat-facing operations
// (pkg/script). Send goes through the transport client bound to this
// session; Edit and Delete do nothing and return nil.
func (u *BotUser) Send(text string) error {
	_, err := u.client.SendMessage(context.Background(), u.chatID, text, "", nil, false)
	return err
}

func (u *BotUser) Edit(text string) error {
	return nil // ScriptPage tracks its own messageID; BotUser.Edit is the
	// UserHost convenience form used only when no page context applies.
}

func (u *BotUser) Delete() error { return nil }

func (u *BotUser) Localize(key string) string { return key }

// RegisterActivePage adds page to the MRU list, evicting (disposing) the
// least-recently-used entry if the list is already at capacity (§4.8).
func (u *BotUser) RegisterActivePage(page ActivePage) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for i, p := range u.activePages {
		if p.ID() == page.ID() {
			u.activePages = append(u.activePages[:i], u.activePages[i+1:]...)
			break
		}
	}
	u.activePages = append(u.activePages, page)
	if len(u.activePages) > u.maxActivePages {
		dropped := u.activePages[0]
		u.activePages = u.activePages[1:]
		dropped.Dispose()
	}
}

// ActivePageIDs reports the ids of this session's currently open pages,
// most-recently-used last — for pkg/devtools.
func (u *BotUser) ActivePageIDs() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	ids := make([]string, len(u.activePages))
	for i, p := range u.activePages {
		ids[i] = p.ID()
	}
	return ids
}

// UnregisterActivePage removes page from the MRU list without disposing
// it — used when a page disposes itself through its own PageHandle chain.
func (u *BotUser) UnregisterActivePage(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, p := range u.activePages {
		if p.ID() == id {
			u.activePages = append(u.activePages[:i], u.activePages[i+1:]...)
			return
		}
	}
}

// ForwardPhotoToActivePage and ForwardDocumentToActivePage implement
// §4.8's forwarding rule: try every active page's registered onPhoto/
// onDocument handler (most-recently-used first); fall back to the virtual
// hook if none claims it.
func (u *BotUser) ForwardPhotoToActivePage(ctx context.Context, payload any) error {
	if u.dispatchToActivePages(func(p ActivePage) bool { return p.DispatchPhoto(payload) }) {
		return nil
	}
	if u.hooks.HandlePhoto != nil {
		return u.hooks.HandlePhoto(ctx, payload)
	}
	return nil
}

func (u *BotUser) ForwardDocumentToActivePage(ctx context.Context, payload any) error {
	if u.dispatchToActivePages(func(p ActivePage) bool { return p.DispatchDocument(payload) }) {
		return nil
	}
	if u.hooks.HandleDocument != nil {
		return u.hooks.HandleDocument(ctx, payload)
	}
	return nil
}

func (u *BotUser) dispatchToActivePages(try func(ActivePage) bool) bool {
	u.mu.Lock()
	pages := make([]ActivePage, len(u.activePages))
	copy(pages, u.activePages)
	u.mu.Unlock()

	for i := len(pages) - 1; i >= 0; i-- {
		if try(pages[i]) {
			return true
		}
	}
	return false
}

// DisposeAllPages tears down every active page, in MRU order, and empties
// the list — called when a BotUser itself is evicted from the
// SessionCache.
func (u *BotUser) DisposeAllPages() {
	u.mu.Lock()
	pages := u.activePages
	u.activePages = nil
	u.mu.Unlock()
	for _, p := range pages {
		p.Dispose()
	}
}

// EnterCritical marks the start of a critical section (§5): work that
// must run to completion even if a stop was requested mid-flight. The
// returned func must be called exactly once to leave the section.
func (u *BotUser) EnterCritical() func() {
	u.critical.Add(1)
	return u.critical.Done
}

// RequestStop raises the stop flag and blocks until every open critical
// section has exited, then returns — the caller is then free to cancel
// the session's context.
func (u *BotUser) RequestStop() {
	u.stopping.Store(true)
	u.critical.Wait()
}

// IsStopping reports the safe-stop flag's current value.
func (u *BotUser) IsStopping() bool { return u.stopping.Load() }

// ShouldSkip implements skip-on-start (§5): a message timestamped before
// the worker's start time is dropped so a restart doesn't replay old
// traffic.
func (u *BotUser) ShouldSkip(messageTimestamp int64) bool {
	return messageTimestamp < u.skipBefore
}

// HandleRejectedCallback, HandleError, HandlePermissive, HandleAcceptLicense,
// HandleStoppingProcess run the corresponding optional hook, supplying the
// spec's default behaviour when the application registered none.
func (u *BotUser) HandleRejectedCallback(ctx context.Context, reason RejectReason, queryID string) error {
	if u.hooks.HandleRejectedCallback != nil {
		return u.hooks.HandleRejectedCallback(reason, queryID)
	}
	return u.client.AnswerCallbackQuery(ctx, queryID, "This button is no longer active.", false)
}

func (u *BotUser) HandleError(err error) {
	if u.hooks.HandleError != nil {
		u.hooks.HandleError(err)
	}
}

func (u *BotUser) HandlePermissive(ctx context.Context) bool {
	if u.hooks.HandlePermissive == nil {
		return true
	}
	return u.hooks.HandlePermissive(ctx)
}

func (u *BotUser) HandleAcceptLicense(ctx context.Context) bool {
	if u.hooks.HandleAcceptLicense == nil {
		return true
	}
	return u.hooks.HandleAcceptLicense(ctx)
}

func (u *BotUser) HandleStoppingProcess(ctx context.Context) error {
	if u.hooks.HandleStoppingProcess != nil {
		return u.hooks.HandleStoppingProcess(ctx)
	}
	_, err := u.client.SendMessage(ctx, u.chatID, "The bot is restarting, please wait a moment.", "", nil, false)
	return err
}

// HandleMessage, HandleCommand, HandleOtherMessage, HandleSuccessPayment,
// HandlePreCheckoutQuery dispatch directly to their optional hooks.
func (u *BotUser) HandleMessage(ctx context.Context, msg *transport.IncomingMessage) error {
	if u.hooks.HandleMessage != nil {
		return u.hooks.HandleMessage(ctx, msg)
	}
	return nil
}

func (u *BotUser) HandleCommand(ctx context.Context, command, args string) error {
	if u.hooks.HandleCommand != nil {
		return u.hooks.HandleCommand(ctx, command, args)
	}
	return nil
}

func (u *BotUser) HandleOtherMessage(ctx context.Context, msg *transport.IncomingMessage) error {
	if u.hooks.HandleOtherMessage != nil {
		return u.hooks.HandleOtherMessage(ctx, msg)
	}
	return nil
}

func (u *BotUser) HandleSuccessPayment(ctx context.Context, payload any) error {
	if u.hooks.HandleSuccessPayment != nil {
		return u.hooks.HandleSuccessPayment(ctx, payload)
	}
	return nil
}

func (u *BotUser) HandlePreCheckoutQuery(ctx context.Context, queryID string) error {
	if u.hooks.HandlePreCheckoutQuery != nil {
		return u.hooks.HandlePreCheckoutQuery(ctx, queryID)
	}
	return u.client.AnswerPreCheckoutQuery(ctx, queryID, "")
}
