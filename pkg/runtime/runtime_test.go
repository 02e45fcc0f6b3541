package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veydlin-go/botui/pkg/page"
	"github.com/veydlin-go/botui/pkg/registry"
	"github.com/veydlin-go/botui/pkg/transport"
)

type fakeClient struct {
	sent    int
	edited  int
	deleted []int
}

func (f *fakeClient) SendMessage(ctx context.Context, chatID int64, text, parseMode string, markup *transport.ReplyMarkup, linkPreviewDisabled bool) (transport.Message, error) {
	f.sent++
	return transport.Message{ChatID: chatID, MessageID: f.sent}, nil
}
func (f *fakeClient) EditMessageText(ctx context.Context, chatID int64, messageID int, text, parseMode string, markup *transport.ReplyMarkup) error {
	f.edited++
	return nil
}
func (f *fakeClient) EditMessageCaption(ctx context.Context, chatID int64, messageID int, caption, parseMode string, markup *transport.ReplyMarkup) error {
	return nil
}
func (f *fakeClient) EditMessageMedia(ctx context.Context, chatID int64, messageID int, mediaType, src, caption string, markup *transport.ReplyMarkup) error {
	return nil
}
func (f *fakeClient) EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, markup *transport.ReplyMarkup) error {
	return nil
}
func (f *fakeClient) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}
func (f *fakeClient) SendPhoto(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{}, nil
}
func (f *fakeClient) SendDocument(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{}, nil
}
func (f *fakeClient) SendAudio(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{}, nil
}
func (f *fakeClient) SendVideo(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{}, nil
}
func (f *fakeClient) SendChatAction(ctx context.Context, chatID int64, action string) error { return nil }
func (f *fakeClient) AnswerCallbackQuery(ctx context.Context, queryID, text string, showAlert bool) error {
	return nil
}
func (f *fakeClient) AnswerPreCheckoutQuery(ctx context.Context, queryID, errorMessage string) error {
	return nil
}
func (f *fakeClient) SetWebhook(ctx context.Context, url string, allowedUpdates []string, secretToken string) error {
	return nil
}
func (f *fakeClient) DeleteWebhook(ctx context.Context) error { return nil }
func (f *fakeClient) GetUpdates(ctx context.Context, offset int, timeoutSeconds int) ([]transport.Update, error) {
	return nil, nil
}

func simplePage(id, text string) *page.PageDefinition {
	return &page.PageDefinition{
		ID:      id,
		Message: &page.Message{InlineContent: text},
	}
}

func newTestManager(client transport.Client, defs ...*page.PageDefinition) *PageManager {
	return NewPageManager(defs, client, nil, nil, nil)
}

func TestPageManager_OpenPageSendsMessage(t *testing.T) {
	client := &fakeClient{}
	m := newTestManager(client, simplePage("home", "hello"))
	reg := registry.New(0)

	handle, err := m.OpenPage(1, reg, "home", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, client.sent)
	assert.Equal(t, "home#1", handle.ID())
}

func TestPageHandle_DisposeCascadesToChildren(t *testing.T) {
	client := &fakeClient{}
	m := newTestManager(client, simplePage("home", "hello"), simplePage("child", "child"))
	reg := registry.New(0)

	root, err := m.OpenPage(1, reg, "home", nil)
	require.NoError(t, err)

	child1, err := m.OpenSubPage(1, reg, "child", nil, root)
	require.NoError(t, err)
	child2, err := m.OpenSubPage(1, reg, "child", nil, root)
	require.NoError(t, err)

	root.Dispose()
	assert.True(t, child1.disposed)
	assert.True(t, child2.disposed)
}

func TestScriptPage_NavigateReplacesContentInPlace(t *testing.T) {
	client := &fakeClient{}
	m := newTestManager(client, simplePage("home", "hello"), simplePage("other", "world"))
	reg := registry.New(0)

	handle, err := m.OpenPage(1, reg, "home", nil)
	require.NoError(t, err)
	firstMessageID := handle.page.messageID

	require.NoError(t, handle.page.Navigate("other", false, nil))
	assert.Equal(t, firstMessageID, handle.page.messageID, "in-place navigate keeps the same message id")
	assert.Equal(t, "other", handle.page.ID())
	assert.Equal(t, 1, client.sent, "navigate edits, it does not send a second message")
	assert.Equal(t, 1, client.edited)
}

func TestScriptPage_NavigateFreshSendsNewMessage(t *testing.T) {
	client := &fakeClient{}
	m := newTestManager(client, simplePage("home", "hello"), simplePage("other", "world"))
	reg := registry.New(0)

	handle, err := m.OpenPage(1, reg, "home", nil)
	require.NoError(t, err)

	require.NoError(t, handle.page.NavigateFresh("other", false, nil))
	assert.Equal(t, 2, client.sent)
}

func TestPageHandle_CloseDeletesMessage(t *testing.T) {
	client := &fakeClient{}
	m := newTestManager(client, simplePage("home", "hello"))
	reg := registry.New(0)

	handle, err := m.OpenPage(1, reg, "home", nil)
	require.NoError(t, err)
	msgID := handle.page.messageID

	require.NoError(t, handle.Close())
	require.Len(t, client.deleted, 1)
	assert.Equal(t, msgID, client.deleted[0])
	assert.True(t, handle.disposed)
}
