// Package registry implements CallbackRegistry (§4.6): the per-session
// token table that turns a MenuElement click into a routable callback
// token, and a Telegram callback query back into the handler that issued
// it.
package registry

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Handler answers one invocation of a subscribed token: the originating
// callback query id, the message the button lived on, and the chat it was
// sent to.
type Handler func(queryID string, messageID int, chatID int64) error

type entry struct {
	handler    Handler
	registered time.Time
}

// CallbackRegistry is one bot-user session's token table. Per §4.6 it is
// thread-safe; per-token operations never block on each other beyond the
// single map mutex, matching §5's "concurrent map; per-token operations
// are lock-free" framing (a RWMutex-guarded map stands in for a genuinely
// lock-free structure here — grounded on the teacher's commands/batcher.go
// use of a counter-plus-mutex for its own at-most-once dispatch table).
type CallbackRegistry struct {
	mu      sync.RWMutex
	entries map[string]entry
	counter uint64

	sessionShortID string
	clearCacheTime time.Duration
}

// New builds a CallbackRegistry with a fresh session short id (the token
// prefix), generated on every call, so tokens issued before a restart never
// collide with tokens issued after one. clearCacheTime is the idle window ClearCache
// evicts past.
func New(clearCacheTime time.Duration) *CallbackRegistry {
	return &CallbackRegistry{
		entries:        make(map[string]entry),
		sessionShortID: uuid.New().String()[:8],
		clearCacheTime: clearCacheTime,
	}
}

// Subscribe issues a fresh token bound to handler. Token format is
// "{sessionShortId}_{counter}" per §4.6, the counter advanced atomically so
// concurrent subscribes from sibling elements never collide.
func (r *CallbackRegistry) Subscribe(handler Handler) string {
	n := atomic.AddUint64(&r.counter, 1)
	token := r.sessionShortID + "_" + strconv.FormatUint(n, 10)

	r.mu.Lock()
	r.entries[token] = entry{handler: handler, registered: time.Now()}
	r.mu.Unlock()

	return token
}

// Unsubscribe removes one or more tokens. Unsubscribing an unknown token is
// a silent no-op, matching repeated-rebuild/teardown call patterns where a
// token may already be gone.
func (r *CallbackRegistry) Unsubscribe(tokens ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tok := range tokens {
		delete(r.entries, tok)
	}
}

// Invoke routes a callback query to its subscribed handler. Returns false
// (and runs nothing) if token is unknown — the stale-button-click case §7
// routes to handleRejectedCallback.
func (r *CallbackRegistry) Invoke(queryID, token string, messageID int, chatID int64) (bool, error) {
	r.mu.RLock()
	e, ok := r.entries[token]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if e.handler == nil {
		return true, nil
	}
	return true, e.handler(queryID, messageID, chatID)
}

// ClearCache evicts every entry registered more than clearCacheTime ago.
// §5 calls for running this "opportunistically every 100 requests"; the
// caller (pkg/session's SessionCache) is responsible for that cadence —
// ClearCache itself is just the one eviction pass.
func (r *CallbackRegistry) ClearCache() {
	if r.clearCacheTime <= 0 {
		return
	}
	cutoff := time.Now().Add(-r.clearCacheTime)
	r.mu.Lock()
	defer r.mu.Unlock()
	for tok, e := range r.entries {
		if e.registered.Before(cutoff) {
			delete(r.entries, tok)
		}
	}
}

// Len reports the number of live tokens, for metrics and tests.
func (r *CallbackRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Issue and Revoke implement pkg/element's TokenIssuer interface, so a
// CallbackRegistry can be handed to ComponentFactory/Base directly without
// either package importing the other. Issue's parameter is written out as
// the bare func type (rather than Handler) because Go interface
// satisfaction requires an identical method signature, not just an
// assignable one.
func (r *CallbackRegistry) Issue(handler func(queryID string, messageID int, chatID int64) error) string {
	return r.Subscribe(handler)
}
func (r *CallbackRegistry) Revoke(token string) { r.Unsubscribe(token) }
