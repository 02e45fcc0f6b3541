// Command botui-devtools is a local demo entry point for pkg/devtools,
// mirroring the teacher's cmd/examples convention of a standalone
// bubbletea main per feature. It wires the inspector against a small
// in-process SessionCache/PageManager instead of a live bot process —
// an application embedding pkg/devtools would instead implement
// devtools.Source over its own running dispatcher's SessionCache and
// tracked root PageHandles.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/veydlin-go/botui/pkg/devtools"
	"github.com/veydlin-go/botui/pkg/page"
	"github.com/veydlin-go/botui/pkg/registry"
	"github.com/veydlin-go/botui/pkg/runtime"
	"github.com/veydlin-go/botui/pkg/session"
	"github.com/veydlin-go/botui/pkg/transport"
)

// consoleClient is a transport.Client that prints instead of calling a
// real bot platform, enough to drive ScriptPage's send/edit bookkeeping
// for this demo.
type consoleClient struct {
	mu   sync.Mutex
	next int
}

func (c *consoleClient) nextID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return c.next
}

func (c *consoleClient) SendMessage(ctx context.Context, chatID int64, text, parseMode string, markup *transport.ReplyMarkup, linkPreviewDisabled bool) (transport.Message, error) {
	return transport.Message{ChatID: chatID, MessageID: c.nextID()}, nil
}
func (c *consoleClient) EditMessageText(ctx context.Context, chatID int64, messageID int, text, parseMode string, markup *transport.ReplyMarkup) error {
	return nil
}
func (c *consoleClient) EditMessageCaption(ctx context.Context, chatID int64, messageID int, caption, parseMode string, markup *transport.ReplyMarkup) error {
	return nil
}
func (c *consoleClient) EditMessageMedia(ctx context.Context, chatID int64, messageID int, mediaType, src, caption string, markup *transport.ReplyMarkup) error {
	return nil
}
func (c *consoleClient) EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, markup *transport.ReplyMarkup) error {
	return nil
}
func (c *consoleClient) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return nil
}
func (c *consoleClient) SendPhoto(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{ChatID: chatID, MessageID: c.nextID()}, nil
}
func (c *consoleClient) SendDocument(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{ChatID: chatID, MessageID: c.nextID()}, nil
}
func (c *consoleClient) SendAudio(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{ChatID: chatID, MessageID: c.nextID()}, nil
}
func (c *consoleClient) SendVideo(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{ChatID: chatID, MessageID: c.nextID()}, nil
}
func (c *consoleClient) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return nil
}
func (c *consoleClient) AnswerCallbackQuery(ctx context.Context, queryID, text string, showAlert bool) error {
	return nil
}
func (c *consoleClient) AnswerPreCheckoutQuery(ctx context.Context, queryID, errorMessage string) error {
	return nil
}
func (c *consoleClient) SetWebhook(ctx context.Context, url string, allowedUpdates []string, secretToken string) error {
	return nil
}
func (c *consoleClient) DeleteWebhook(ctx context.Context) error { return nil }
func (c *consoleClient) GetUpdates(ctx context.Context, offset int, timeoutSeconds int) ([]transport.Update, error) {
	return nil, nil
}

// demoSource adapts a SessionCache plus the root PageHandles this demo
// itself opened into devtools.Source, without pkg/devtools depending on
// either pkg/session or pkg/runtime.
type demoSource struct {
	cache *session.SessionCache

	mu    sync.Mutex
	roots map[int64][]*runtime.PageHandle
}

func (s *demoSource) Sessions() []devtools.SessionRow {
	snaps := s.cache.Snapshot()
	rows := make([]devtools.SessionRow, len(snaps))
	for i, sn := range snaps {
		rows[i] = devtools.SessionRow{ChatID: sn.ChatID, IdleFor: sn.IdleFor, ActivePages: sn.ActivePages}
	}
	return rows
}

func (s *demoSource) Tree(chatID int64) []devtools.PageNode {
	s.mu.Lock()
	handles := append([]*runtime.PageHandle(nil), s.roots[chatID]...)
	s.mu.Unlock()

	nodes := make([]devtools.PageNode, len(handles))
	for i, h := range handles {
		nodes[i] = nodeFor(h)
	}
	return nodes
}

func nodeFor(h *runtime.PageHandle) devtools.PageNode {
	children := h.Children()
	node := devtools.PageNode{
		ID:     h.ID(),
		PageID: h.PageID(),
		Title:  h.PageTitle(),
	}
	for _, c := range children {
		node.Children = append(node.Children, nodeFor(c))
	}
	return node
}

// stubElement is a childless, attribute-less page.Element — enough for a
// demo ComponentDefinition that carries every prop it needs via
// StaticAttrs/BindAttrs instead of child elements or inner text.
type stubElement struct{ tag string }

func (e stubElement) TagName() string                             { return e.tag }
func (e stubElement) Attr(name string) (string, page.AttrKind, bool) { return "", page.AttrStatic, false }
func (e stubElement) Children() []page.Element                    { return nil }
func (e stubElement) InnerText() string                           { return "" }
func (e stubElement) InnerTemplate() string                       { return "" }

func demoPages() []*page.PageDefinition {
	return []*page.PageDefinition{
		{
			ID:      "home",
			Title:   &page.Title{Content: "Home"},
			Message: &page.Message{InlineContent: "welcome"},
			Components: []*page.ComponentDefinition{
				{
					TagName:     "command",
					ID:          "open-settings",
					Element:     stubElement{tag: "command"},
					StaticAttrs: map[string]string{"title": "Settings"},
				},
			},
		},
		{
			ID:           "settings",
			Title:        &page.Title{Content: "Settings"},
			Message:      &page.Message{InlineContent: "settings"},
			BackToParent: true,
		},
	}
}

func main() {
	client := &consoleClient{}
	defs := demoPages()

	source := &demoSource{roots: make(map[int64][]*runtime.PageHandle)}
	manager := runtime.NewPageManager(defs, client, nil, nil, nil)

	source.cache = session.New(func(chatID int64) *session.BotUser {
		reg := registry.New(30 * time.Minute)
		return session.New(chatID, client, reg, "en", session.Hooks{}, 10, 0)
	}, 0, 100)

	for _, chatID := range []int64{1001, 1002} {
		user := source.cache.Get(chatID)
		handle, err := manager.OpenPage(chatID, user.Callback, "home", nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open page:", err)
			os.Exit(1)
		}
		user.RegisterActivePage(handle)
		source.roots[chatID] = append(source.roots[chatID], handle)
	}

	if err := devtools.Run(source); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
