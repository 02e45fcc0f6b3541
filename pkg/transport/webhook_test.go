package transport

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookServer_SecretMismatchReturns403(t *testing.T) {
	s := NewWebhookServer("/hook", "correct-secret", DecodeJSONUpdate, func(Update) {}, nil)
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(s.HeaderName, "wrong")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookServer_WrongPathReturns404(t *testing.T) {
	s := NewWebhookServer("/hook", "", DecodeJSONUpdate, func(Update) {}, nil)
	req := httptest.NewRequest(http.MethodPost, "/other", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhookServer_AcceptedReturns200AndEnqueues(t *testing.T) {
	var got Update
	enqueued := false
	s := NewWebhookServer("/hook", "", DecodeJSONUpdate, func(u Update) {
		got = u
		enqueued = true
	}, nil)

	body := []byte(`{"kind":1,"callbackQuery":{"queryId":"q1","chatId":7,"messageId":42,"data":"tok_1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, enqueued)
	assert.Equal(t, UpdateCallbackQuery, got.Kind)
}

func TestWebhookServer_BadBodyReturns500(t *testing.T) {
	s := NewWebhookServer("/hook", "", DecodeJSONUpdate, func(Update) {}, nil)
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader([]byte(`not json`)))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
