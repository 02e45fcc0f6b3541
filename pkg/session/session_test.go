package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veydlin-go/botui/pkg/transport"
)

type stubClient struct{ sent int }

func (s *stubClient) SendMessage(ctx context.Context, chatID int64, text, parseMode string, markup *transport.ReplyMarkup, linkPreviewDisabled bool) (transport.Message, error) {
	s.sent++
	return transport.Message{ChatID: chatID, MessageID: s.sent}, nil
}
func (s *stubClient) EditMessageText(ctx context.Context, chatID int64, messageID int, text, parseMode string, markup *transport.ReplyMarkup) error {
	return nil
}
func (s *stubClient) EditMessageCaption(ctx context.Context, chatID int64, messageID int, caption, parseMode string, markup *transport.ReplyMarkup) error {
	return nil
}
func (s *stubClient) EditMessageMedia(ctx context.Context, chatID int64, messageID int, mediaType, src, caption string, markup *transport.ReplyMarkup) error {
	return nil
}
func (s *stubClient) EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, markup *transport.ReplyMarkup) error {
	return nil
}
func (s *stubClient) DeleteMessage(ctx context.Context, chatID int64, messageID int) error { return nil }
func (s *stubClient) SendPhoto(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{}, nil
}
func (s *stubClient) SendDocument(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{}, nil
}
func (s *stubClient) SendAudio(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{}, nil
}
func (s *stubClient) SendVideo(ctx context.Context, chatID int64, input, caption, parseMode string, markup *transport.ReplyMarkup) (transport.Message, error) {
	return transport.Message{}, nil
}
func (s *stubClient) SendChatAction(ctx context.Context, chatID int64, action string) error { return nil }
func (s *stubClient) AnswerCallbackQuery(ctx context.Context, queryID, text string, showAlert bool) error {
	return nil
}
func (s *stubClient) AnswerPreCheckoutQuery(ctx context.Context, queryID, errorMessage string) error {
	return nil
}
func (s *stubClient) SetWebhook(ctx context.Context, url string, allowedUpdates []string, secretToken string) error {
	return nil
}
func (s *stubClient) DeleteWebhook(ctx context.Context) error { return nil }
func (s *stubClient) GetUpdates(ctx context.Context, offset int, timeoutSeconds int) ([]transport.Update, error) {
	return nil, nil
}

type fakePage struct {
	id       string
	disposed bool
}

func (p *fakePage) ID() string                        { return p.id }
func (p *fakePage) DispatchPhoto(payload any) bool     { return false }
func (p *fakePage) DispatchDocument(payload any) bool  { return false }
func (p *fakePage) Dispose()                           { p.disposed = true }

func newTestUser(chatID int64) *BotUser {
	return New(chatID, &stubClient{}, nil, "en", Hooks{}, 3, 0)
}

func TestBotUser_RegisterActivePage_EvictsOldestOverCapacity(t *testing.T) {
	u := newTestUser(1)
	pages := []*fakePage{{id: "a"}, {id: "b"}, {id: "c"}, {id: "d"}}
	for _, p := range pages {
		u.RegisterActivePage(p)
	}
	assert.True(t, pages[0].disposed, "oldest page should be evicted once over capacity")
	assert.False(t, pages[1].disposed)
	assert.False(t, pages[3].disposed)
	assert.Len(t, u.activePages, 3)
}

func TestBotUser_RegisterActivePage_ReRegisterMovesToMostRecentlyUsed(t *testing.T) {
	u := newTestUser(1)
	a, b := &fakePage{id: "a"}, &fakePage{id: "b"}
	u.RegisterActivePage(a)
	u.RegisterActivePage(b)
	u.RegisterActivePage(a) // touch a again

	require.Len(t, u.activePages, 2)
	assert.Equal(t, "b", u.activePages[0].ID())
	assert.Equal(t, "a", u.activePages[1].ID())
}

func TestBotUser_ForwardPhoto_FallsBackToHookWhenNoPageClaims(t *testing.T) {
	called := false
	u := New(1, &stubClient{}, nil, "en", Hooks{
		HandlePhoto: func(ctx context.Context, payload any) error {
			called = true
			return nil
		},
	}, 3, 0)
	require.NoError(t, u.ForwardPhotoToActivePage(context.Background(), "payload"))
	assert.True(t, called)
}

func TestBotUser_SafeStop_WaitsForCriticalSection(t *testing.T) {
	u := newTestUser(1)
	leave := u.EnterCritical()

	done := make(chan struct{})
	go func() {
		u.RequestStop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("RequestStop returned before critical section exited")
	case <-time.After(20 * time.Millisecond):
	}

	leave()
	<-done
	assert.True(t, u.IsStopping())
}

func TestBotUser_ShouldSkip_DropsMessagesBeforeStart(t *testing.T) {
	u := New(1, &stubClient{}, nil, "en", Hooks{}, 3, 1000)
	assert.True(t, u.ShouldSkip(999))
	assert.False(t, u.ShouldSkip(1001))
}

func TestSessionCache_GetBuildsOncePerChat(t *testing.T) {
	builds := 0
	cache := New(func(chatID int64) *BotUser {
		builds++
		return newTestUser(chatID)
	}, time.Hour, 100)

	u1 := cache.Get(42)
	u2 := cache.Get(42)
	assert.Same(t, u1, u2)
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, cache.Len())
}

func TestSessionCache_EvictsIdleSessionsOpportunistically(t *testing.T) {
	cache := New(func(chatID int64) *BotUser {
		return newTestUser(chatID)
	}, time.Millisecond, 2)

	cache.Get(1)
	time.Sleep(5 * time.Millisecond)
	cache.Get(2) // 2nd call triggers eviction sweep; chat 1 is stale

	assert.Equal(t, 1, cache.Len())
}

func TestSessionCache_RemoveDisposesPages(t *testing.T) {
	cache := New(func(chatID int64) *BotUser { return newTestUser(chatID) }, 0, 100)
	u := cache.Get(5)
	p := &fakePage{id: "x"}
	u.RegisterActivePage(p)

	cache.Remove(5)
	assert.True(t, p.disposed)
	assert.Equal(t, 0, cache.Len())
}
