package fleet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayNotifierPostsMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewRelayNotifier(srv.URL, time.Second)
	n.Send(context.Background(), "Zagreb: CRITICAL (temperature 15.0%)")

	assert.Equal(t, "/api/send", gotPath)
	assert.Equal(t, "Zagreb: CRITICAL (temperature 15.0%)", gotBody["message"])
}

func TestRelayNotifierUnconfiguredIsNoop(t *testing.T) {
	n := NewRelayNotifier("", time.Second)
	// Must return immediately without attempting any request.
	n.Send(context.Background(), "ignored")
}

func TestRelayNotifierSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	n := NewRelayNotifier(srv.URL, time.Second)
	n.Send(context.Background(), "message")

	// A dead endpoint must not propagate either.
	srv.Close()
	n.Send(context.Background(), "message")
}
