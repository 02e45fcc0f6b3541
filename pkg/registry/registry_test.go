package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_TokensAreUniqueAndRoutable(t *testing.T) {
	r := New(0)

	var gotQuery string
	var gotMsg int
	var gotChat int64
	tok := r.Subscribe(func(queryID string, messageID int, chatID int64) error {
		gotQuery, gotMsg, gotChat = queryID, messageID, chatID
		return nil
	})
	tok2 := r.Subscribe(func(string, int, int64) error { return nil })
	assert.NotEqual(t, tok, tok2)

	ok, err := r.Invoke("q1", tok, 42, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "q1", gotQuery)
	assert.Equal(t, 42, gotMsg)
	assert.Equal(t, int64(7), gotChat)
}

func TestInvoke_UnknownTokenReturnsFalse(t *testing.T) {
	r := New(0)
	ok, err := r.Invoke("q1", "nonexistent_1", 1, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvoke_PropagatesHandlerError(t *testing.T) {
	r := New(0)
	boom := assert.AnError
	tok := r.Subscribe(func(string, int, int64) error { return boom })
	ok, err := r.Invoke("q1", tok, 1, 1)
	assert.True(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestUnsubscribe_TokenNoLongerInvokable(t *testing.T) {
	r := New(0)
	tok := r.Subscribe(func(string, int, int64) error { return nil })
	r.Unsubscribe(tok)
	ok, err := r.Invoke("q1", tok, 1, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// unsubscribing an already-gone token is a silent no-op
	r.Unsubscribe(tok)
}

func TestClearCache_EvictsOnlyStaleEntries(t *testing.T) {
	r := New(10 * time.Millisecond)
	stale := r.Subscribe(func(string, int, int64) error { return nil })
	time.Sleep(15 * time.Millisecond)
	fresh := r.Subscribe(func(string, int, int64) error { return nil })

	r.ClearCache()

	ok, _ := r.Invoke("q", stale, 1, 1)
	assert.False(t, ok, "entry older than clearCacheTime must be evicted")
	ok, _ = r.Invoke("q", fresh, 1, 1)
	assert.True(t, ok, "entry younger than clearCacheTime must survive")
}

func TestClearCache_ZeroDurationDisablesEviction(t *testing.T) {
	r := New(0)
	tok := r.Subscribe(func(string, int, int64) error { return nil })
	time.Sleep(5 * time.Millisecond)
	r.ClearCache()
	ok, _ := r.Invoke("q", tok, 1, 1)
	assert.True(t, ok)
}

func TestIssueRevoke_SatisfiesTokenIssuerShape(t *testing.T) {
	r := New(0)
	var called bool
	tok := r.Issue(func(string, int, int64) error {
		called = true
		return nil
	})
	require.NotEmpty(t, tok)
	ok, err := r.Invoke("q", tok, 1, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, called)

	r.Revoke(tok)
	assert.Equal(t, 0, r.Len())
}
