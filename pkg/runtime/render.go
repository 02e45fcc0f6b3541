package runtime

import (
	"context"
	"fmt"

	"github.com/veydlin-go/botui/pkg/element"
	"github.com/veydlin-go/botui/pkg/page"
	"github.com/veydlin-go/botui/pkg/transport"
)

// renderCurrent re-renders the current content page's text and keyboard
// into the live message, sending it fresh if none has been sent yet.
func (sp *ScriptPage) renderCurrent() error {
	sp.sc.RunBeforeRender()
	defer sp.sc.RunAfterRender()

	text, parseMode := sp.renderMessage()
	markup := sp.buildKeyboard()

	ctx := context.Background()
	if sp.messageID == 0 {
		return sp.send(ctx, text, parseMode, markup)
	}
	if err := sp.client.EditMessageText(ctx, sp.chatID, sp.messageID, text, parseMode, markup); err != nil {
		return fmt.Errorf("runtime: edit page %q: %w", sp.def.ID, err)
	}
	return nil
}

func (sp *ScriptPage) send(ctx context.Context, text, parseMode string, markup *transport.ReplyMarkup) error {
	var (
		msg transport.Message
		err error
	)
	switch {
	case sp.def.Media != nil && sp.def.Media.Type != page.MediaNone:
		src := sp.sc.RenderTemplate(sp.def.Media.Src)
		switch sp.def.Media.Type {
		case page.MediaPhoto:
			msg, err = sp.client.SendPhoto(ctx, sp.chatID, src, text, parseMode, markup)
		case page.MediaDocument:
			msg, err = sp.client.SendDocument(ctx, sp.chatID, src, text, parseMode, markup)
		case page.MediaAudio:
			msg, err = sp.client.SendAudio(ctx, sp.chatID, src, text, parseMode, markup)
		case page.MediaVideo:
			msg, err = sp.client.SendVideo(ctx, sp.chatID, src, text, parseMode, markup)
		}
	default:
		msg, err = sp.client.SendMessage(ctx, sp.chatID, text, parseMode, markup, !sp.def.WebPreview)
	}
	if err != nil {
		return fmt.Errorf("runtime: send page %q: %w", sp.def.ID, err)
	}
	sp.messageID = msg.MessageID
	return nil
}

// renderMessage renders this page's current message body: the single
// inline body, or the first matching v-if/v-else-if/v-else condition
// branch. LoadResource is not read; a message that sets only LoadResource
// renders an empty body.
func (sp *ScriptPage) renderMessage() (text string, parseMode string) {
	msg := sp.def.Message
	if msg == nil {
		return "", ""
	}
	if msg.MD {
		parseMode = "Markdown"
	}

	body := msg.InlineContent
	for _, cond := range msg.Conditions {
		if cond.Condition == "" || sp.sc.EvaluateBool(cond.Condition) {
			body = cond.Content
			break
		}
	}

	rendered := sp.sc.RenderTemplate(body)
	if msg.Pre {
		rendered = "```\n" + rendered + "\n```"
	}
	return rendered, parseMode
}

// buildKeyboard assembles the current content page's keyboard, appending
// this page's own navigate panel (if auto-paginated) and a back button
// when backToken was issued.
func (sp *ScriptPage) buildKeyboard() *transport.ReplyMarkup {
	sp.mu.Lock()
	elems := []element.MenuElement{}
	if sp.currentIndex < len(sp.contentPages) {
		elems = sp.contentPages[sp.currentIndex]
	}
	if sp.navPanel != nil {
		elems = append(elems, sp.navPanel)
	}
	backToken := sp.backToken
	sp.mu.Unlock()

	var back *element.BackButton
	if backToken != "" {
		title := ""
		if sp.def.BackTitle != nil {
			title = sp.renderTitle(sp.def.BackTitle)
		}
		if title == "" {
			title = "Back"
		}
		back = &element.BackButton{Title: title, Token: backToken}
	}

	kb := element.AssembleKeyboard(elems, back)
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]transport.InlineButton, len(kb))
	for i, row := range kb {
		buttons := make([]transport.InlineButton, len(row))
		for j, b := range row {
			buttons[j] = transport.InlineButton{
				Text:         b.Text,
				CallbackData: b.CallbackToken,
				URL:          b.URL,
				WebApp:       b.WebApp,
			}
		}
		rows[i] = buttons
	}
	return &transport.ReplyMarkup{InlineKeyboard: rows}
}
