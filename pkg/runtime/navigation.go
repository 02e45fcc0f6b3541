package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/veydlin-go/botui/pkg/element"
	"github.com/veydlin-go/botui/pkg/transport"
)

// Refresh implements script.Host's `UI.refresh()`: re-render the current
// message without changing page or content index.
func (sp *ScriptPage) Refresh() error {
	sp.sc.RunRefresh()
	return sp.renderCurrent()
}

// Navigate replaces this page's content in place (same chat message,
// same PageHandle) with pageID's compiled definition, unless subPage is
// set, in which case pageID opens as a new message nested under the
// current handle (§9's supplemented sub-page navigation).
func (sp *ScriptPage) Navigate(pageID string, subPage bool, props map[string]any) error {
	if subPage {
		_, err := sp.manager.OpenSubPage(sp.chatID, sp.registry, pageID, props, sp.handle)
		return err
	}
	return sp.replace(pageID, props, false)
}

// NavigateFresh is Navigate's counterpart that always sends a brand new
// message for the target page instead of editing the current one in
// place, leaving the old message as-is.
func (sp *ScriptPage) NavigateFresh(pageID string, subPage bool, props map[string]any) error {
	if subPage {
		_, err := sp.manager.OpenSubPage(sp.chatID, sp.registry, pageID, props, sp.handle)
		return err
	}
	return sp.replace(pageID, props, true)
}

// replace swaps sp.handle's live ScriptPage for a freshly compiled one,
// disposing the old component tree/script engine but (unless fresh)
// carrying the same messageID forward so the first render edits in place.
func (sp *ScriptPage) replace(pageID string, props map[string]any, fresh bool) error {
	handle := sp.handle
	def, ok := sp.manager.defs[pageID]
	if !ok {
		return fmt.Errorf("runtime: unknown page %q", pageID)
	}

	next, err := newScriptPage(def, sp.manager, sp.chatID, sp.client, sp.registry, sp.manager.localizeForChat(sp.chatID), props)
	if err != nil {
		return err
	}
	next.handle = handle
	if !fresh {
		next.messageID = sp.messageID
	}
	if def.BackToParent && handle.parent != nil {
		next.backToken = sp.registry.Issue(func(queryID string, messageID int, chatID int64) error {
			return handle.Back()
		})
	}

	sp.teardown()
	handle.mu.Lock()
	handle.page = next
	handle.mu.Unlock()

	next.sc.RunMounted()
	return next.renderCurrent()
}

// SendPage sends pageID as an independent new message in the same chat,
// outside the current handle's navigation stack entirely.
func (sp *ScriptPage) SendPage(pageID string) error {
	_, err := sp.manager.OpenPage(sp.chatID, sp.registry, pageID, nil)
	return err
}

// Back navigates this handle's stack back to its parent, per PageHandle.Back.
func (sp *ScriptPage) Back() error {
	if sp.handle == nil {
		return nil
	}
	return sp.handle.Back()
}

// Close deletes this page's message and disposes its handle cascade.
func (sp *ScriptPage) Close() error {
	if sp.handle == nil {
		sp.teardown()
		return nil
	}
	return sp.handle.Close()
}

// Dispose implements script.Host's `UI.dispose()`: tear down without
// touching the chat message (the caller, e.g. a parent cascading through
// PageHandle, owns message deletion decisions).
func (sp *ScriptPage) Dispose() error {
	sp.teardown()
	return nil
}

// ClearKeyboard removes the current message's inline keyboard entirely.
func (sp *ScriptPage) ClearKeyboard() error {
	if sp.messageID == 0 {
		return nil
	}
	return sp.client.EditMessageReplyMarkup(context.Background(), sp.chatID, sp.messageID, nil)
}

// Toast and Alert answer the originating callback query with a transient
// (toast) or blocking (alert) notification — §4.3's status feedback.
func (sp *ScriptPage) Toast(text string) error { return sp.answerCallback(text, false) }
func (sp *ScriptPage) Alert(text string) error { return sp.answerCallback(text, true) }

func (sp *ScriptPage) answerCallback(text string, showAlert bool) error {
	if sp.currentQueryID == "" {
		return nil
	}
	return sp.client.AnswerCallbackQuery(context.Background(), sp.currentQueryID, text, showAlert)
}

// Status sends a chat action (e.g. "typing") to the chat.
func (sp *ScriptPage) Status(statusType string) error {
	return sp.client.SendChatAction(context.Background(), sp.chatID, statusType)
}

// NextPage, PrevPage, GoToPage, GetPageCount, GetCurrentPage implement
// both script.Host's UI.* pagination surface and element.Pager, since a
// page-level NavigatePanel binds directly to the ScriptPage itself.
func (sp *ScriptPage) NextPage() error { return sp.GoToPage(sp.CurrentPage() + 1) }
func (sp *ScriptPage) PrevPage() error { return sp.GoToPage(sp.CurrentPage() - 1) }

func (sp *ScriptPage) GoToPage(index int) error {
	sp.mu.Lock()
	if index < 0 || index >= len(sp.contentPages) {
		sp.mu.Unlock()
		return nil
	}
	sp.currentIndex = index
	sp.mu.Unlock()
	return sp.renderCurrent()
}

func (sp *ScriptPage) GetPageCount() int { return sp.PageCount() }
func (sp *ScriptPage) GetCurrentPage() int { return sp.CurrentPage() }

func (sp *ScriptPage) CurrentPage() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.currentIndex
}

func (sp *ScriptPage) PageCount() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return len(sp.contentPages)
}

// modalState tracks the content this ScriptPage's message showed before a
// RadioModal/CheckboxModal transitioned it to a synthetic option list, so
// closing the modal can restore it exactly.
type modalState struct {
	prevIndex  int
	onClose    func()
	tokens     []string
	closeToken string
}

// OpenModal implements element.ModalOpener: it replaces the current
// message's keyboard with the originating Radio/CheckboxModal's option
// list, routing each option's click back into the modal element and
// restoring the previous keyboard on close.
func (sp *ScriptPage) OpenModal(pageID string, onClose func()) error {
	originID := strings.TrimSuffix(pageID, "__modal")
	obj, ok := sp.Component(originID)
	if !ok {
		return fmt.Errorf("runtime: modal target %q not found", originID)
	}

	sp.mu.Lock()
	sp.modal = &modalState{prevIndex: sp.currentIndex, onClose: onClose}
	sp.mu.Unlock()

	switch m := obj.(type) {
	case *element.RadioModal:
		return sp.renderModal(m.Options(), func(id string) error { return m.Pick(id) })
	case *element.CheckboxModal:
		return sp.renderModal(m.Options(), func(id string) error { return m.Toggle(id) })
	default:
		return fmt.Errorf("runtime: %q does not support modal display", originID)
	}
}

func (sp *ScriptPage) renderModal(options []element.ModalOption, onPick func(id string) error) error {
	sp.clearModalTokens()

	var rows [][]transport.InlineButton
	for _, o := range options {
		opt := o
		token := sp.registry.Issue(func(queryID string, messageID int, chatID int64) error {
			sp.currentQueryID = queryID
			if err := onPick(opt.ID()); err != nil {
				return err
			}
			return sp.closeModal()
		})
		sp.modal.tokens = append(sp.modal.tokens, token)
		rows = append(rows, []transport.InlineButton{{Text: opt.Title(), CallbackData: token}})
	}

	closeToken := sp.registry.Issue(func(queryID string, messageID int, chatID int64) error {
		sp.currentQueryID = queryID
		return sp.closeModal()
	})
	sp.modal.closeToken = closeToken
	rows = append(rows, []transport.InlineButton{{Text: "Back", CallbackData: closeToken}})

	if sp.messageID == 0 {
		return nil
	}
	return sp.client.EditMessageReplyMarkup(context.Background(), sp.chatID, sp.messageID, &transport.ReplyMarkup{InlineKeyboard: rows})
}

func (sp *ScriptPage) clearModalTokens() {
	sp.mu.Lock()
	m := sp.modal
	sp.mu.Unlock()
	if m == nil {
		return
	}
	for _, tok := range m.tokens {
		sp.registry.Revoke(tok)
	}
	if m.closeToken != "" {
		sp.registry.Revoke(m.closeToken)
	}
}

func (sp *ScriptPage) closeModal() error {
	sp.clearModalTokens()
	sp.mu.Lock()
	m := sp.modal
	sp.modal = nil
	if m != nil {
		sp.currentIndex = m.prevIndex
	}
	sp.mu.Unlock()

	if m != nil && m.onClose != nil {
		m.onClose()
	}
	return sp.renderCurrent()
}
