package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerotwo/vakula/services/relay/config"
)

func newTestServer(cfg config.Config) *Server {
	cfg.RequestTimeout = 2 * time.Second
	return New(cfg)
}

func doSend(t *testing.T, srv *Server, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/send", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestSendForwardsToTelegram(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	telegram := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":42}}`))
	}))
	defer telegram.Close()

	srv := newTestServer(config.Config{
		BotToken:      "token123",
		DefaultChatID: "chat-1",
		APIBase:       telegram.URL,
	})

	rec := doSend(t, srv, map[string]any{"message": "Zagreb: WARN (temperature 70.0%)"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "/bottoken123/sendMessage", gotPath)
	assert.Equal(t, "chat-1", gotBody["chat_id"])
	assert.Equal(t, "Zagreb: WARN (temperature 70.0%)", gotBody["text"])

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.NotNil(t, resp["telegram_response"])
}

func TestSendExplicitChatIDOverridesDefault(t *testing.T) {
	var gotBody map[string]string
	telegram := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer telegram.Close()

	srv := newTestServer(config.Config{
		BotToken:      "token123",
		DefaultChatID: "chat-1",
		APIBase:       telegram.URL,
	})

	rec := doSend(t, srv, map[string]any{"message": "hi", "chat_id": "chat-2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chat-2", gotBody["chat_id"])
}

func TestSendWithoutTokenIs500(t *testing.T) {
	srv := newTestServer(config.Config{DefaultChatID: "chat-1"})
	rec := doSend(t, srv, map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSendWithoutChatIDIs400(t *testing.T) {
	srv := newTestServer(config.Config{BotToken: "token123"})
	rec := doSend(t, srv, map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMissingMessageIs400(t *testing.T) {
	srv := newTestServer(config.Config{BotToken: "token123", DefaultChatID: "chat-1"})
	rec := doSend(t, srv, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendTelegramFailureIs502(t *testing.T) {
	telegram := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer telegram.Close()

	srv := newTestServer(config.Config{
		BotToken:      "token123",
		DefaultChatID: "chat-1",
		APIBase:       telegram.URL,
	})

	rec := doSend(t, srv, map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
