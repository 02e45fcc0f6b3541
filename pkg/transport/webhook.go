package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// Decoder parses a platform-specific webhook POST body into an Update.
// Kept separate from WebhookServer so the server's request/response
// contract (§6) stays pure net/http plumbing independent of any concrete
// wire format.
type Decoder func(body []byte) (Update, error)

// Enqueue hands a decoded Update off for asynchronous processing — the
// webhook handler returns 200 as soon as this returns, per §6's "the
// update is enqueued and processed asynchronously so the response is
// fast".
type Enqueue func(Update)

// WebhookServer implements the optional webhook deployment mode's
// request/response contract: POST on a configured path, secret-token
// header verification, 403/404/200/500 exactly as §6 specifies. Grounded
// on net/http directly — the wire transport loop is out of scope
// (SPEC_FULL.md Non-goals), so this file carries only the contract, not a
// platform SDK.
type WebhookServer struct {
	Path        string
	SecretToken string
	HeaderName  string // defaults to "X-Telegram-Bot-Api-Secret-Token"

	Decode  Decoder
	Enqueue Enqueue
	Logger  *slog.Logger
}

// NewWebhookServer builds a WebhookServer with the platform's standard
// secret header name, overridable via the HeaderName field afterward.
func NewWebhookServer(path, secretToken string, decode Decoder, enqueue Enqueue, logger *slog.Logger) *WebhookServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookServer{
		Path:        path,
		SecretToken: secretToken,
		HeaderName:  "X-Telegram-Bot-Api-Secret-Token",
		Decode:      decode,
		Enqueue:     enqueue,
		Logger:      logger,
	}
}

// ServeHTTP implements http.Handler.
func (s *WebhookServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != s.Path {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if s.SecretToken != "" && r.Header.Get(s.HeaderName) != s.SecretToken {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.Logger.Error("webhook: read body", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	update, err := s.Decode(body)
	if err != nil {
		s.Logger.Error("webhook: decode update", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.Enqueue(update)
	w.WriteHeader(http.StatusOK)
}

// DecodeJSONUpdate is a convenience Decoder for platforms that ship their
// update payload as a flat JSON envelope matching Update's shape directly
// (tests and simple deployments); real platform payloads are translated
// by an application-supplied Decoder instead.
func DecodeJSONUpdate(body []byte) (Update, error) {
	var u Update
	if err := json.Unmarshal(body, &u); err != nil {
		return Update{}, err
	}
	return u, nil
}
