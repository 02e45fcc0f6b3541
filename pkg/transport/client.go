// Package transport defines the bot-platform boundary (§6): the client
// operations the page runtime calls to speak to chats, the Update union
// the dispatcher consumes, and the webhook server's request/response
// contract. The wire transport loop itself (polling vs. webhook, and any
// concrete platform SDK) is out of scope per SPEC_FULL.md's Non-goals —
// this package only carries the contract; an application supplies the
// concrete Client.
package transport

import "context"

// Message is the opaque result of a send/edit call — the runtime only
// ever needs the ids back to target a later edit/delete.
type Message struct {
	ChatID    int64
	MessageID int
}

// ReplyMarkup is the inline keyboard a send/edit call attaches, built from
// pkg/element's Keyboard by the owning ScriptPage.
type ReplyMarkup struct {
	InlineKeyboard [][]InlineButton
}

// InlineButton is one inline-keyboard button, translated from
// element.Button by the caller.
type InlineButton struct {
	Text          string
	CallbackData  string
	URL           string
	WebApp        bool
}

// Client is the bot platform operations the page runtime drives (§6).
// Context carries the session's cancellationToken (§5); a canceled
// context aborts an in-flight call the same way the spec's cancelToken
// parameter does.
type Client interface {
	SendMessage(ctx context.Context, chatID int64, text, parseMode string, markup *ReplyMarkup, linkPreviewDisabled bool) (Message, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text, parseMode string, markup *ReplyMarkup) error
	EditMessageCaption(ctx context.Context, chatID int64, messageID int, caption, parseMode string, markup *ReplyMarkup) error
	EditMessageMedia(ctx context.Context, chatID int64, messageID int, mediaType, src, caption string, markup *ReplyMarkup) error
	EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, markup *ReplyMarkup) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	SendPhoto(ctx context.Context, chatID int64, input, caption, parseMode string, markup *ReplyMarkup) (Message, error)
	SendDocument(ctx context.Context, chatID int64, input, caption, parseMode string, markup *ReplyMarkup) (Message, error)
	SendAudio(ctx context.Context, chatID int64, input, caption, parseMode string, markup *ReplyMarkup) (Message, error)
	SendVideo(ctx context.Context, chatID int64, input, caption, parseMode string, markup *ReplyMarkup) (Message, error)

	SendChatAction(ctx context.Context, chatID int64, action string) error
	AnswerCallbackQuery(ctx context.Context, queryID, text string, showAlert bool) error
	AnswerPreCheckoutQuery(ctx context.Context, queryID, errorMessage string) error

	SetWebhook(ctx context.Context, url string, allowedUpdates []string, secretToken string) error
	DeleteWebhook(ctx context.Context) error
	GetUpdates(ctx context.Context, offset int, timeoutSeconds int) ([]Update, error)
}

// UpdateKind discriminates Update's union (§6: "Message | CallbackQuery |
// PreCheckoutQuery").
type UpdateKind int

const (
	UpdateMessage UpdateKind = iota
	UpdateCallbackQuery
	UpdatePreCheckoutQuery
)

// IncomingMessage is the Message-shaped half of Update.
type IncomingMessage struct {
	ChatID      int64  `json:"chatId"`
	MessageID   int    `json:"messageId"`
	Text        string `json:"text"`
	Command     string `json:"command"`
	CommandArgs string `json:"commandArgs"`
	Timestamp   int64  `json:"timestamp"`

	HasPhoto        bool `json:"hasPhoto"`
	HasDocument     bool `json:"hasDocument"`
	PhotoPayload    any  `json:"photoPayload,omitempty"`
	DocumentPayload any  `json:"documentPayload,omitempty"`

	SuccessfulPayment any `json:"successfulPayment,omitempty"`
}

// IncomingCallbackQuery is the CallbackQuery-shaped half of Update.
type IncomingCallbackQuery struct {
	QueryID   string `json:"queryId"`
	ChatID    int64  `json:"chatId"`
	MessageID int    `json:"messageId"`
	Data      string `json:"data"` // the opaque callback token
}

// IncomingPreCheckoutQuery is the PreCheckoutQuery-shaped half of Update.
type IncomingPreCheckoutQuery struct {
	QueryID string `json:"queryId"`
	ChatID  int64  `json:"chatId"`
}

// Update is the tagged union the dispatcher consumes; exactly one of
// Message/CallbackQuery/PreCheckoutQuery is populated according to Kind.
type Update struct {
	Kind             UpdateKind                `json:"kind"`
	Message          *IncomingMessage          `json:"message,omitempty"`
	CallbackQuery    *IncomingCallbackQuery    `json:"callbackQuery,omitempty"`
	PreCheckoutQuery *IncomingPreCheckoutQuery `json:"preCheckoutQuery,omitempty"`
}
