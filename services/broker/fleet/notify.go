package fleet

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

// RelayNotifier posts alert messages to the telegram relay service. An empty
// relay URL disables notification entirely.
type RelayNotifier struct {
	url    string
	client *http.Client
}

// NewRelayNotifier builds a notifier for the given relay base URL.
func NewRelayNotifier(url string, timeout time.Duration) *RelayNotifier {
	return &RelayNotifier{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Send delivers the message best-effort: transport failures and non-success
// responses are logged and swallowed, never surfaced to the caller.
func (n *RelayNotifier) Send(ctx context.Context, message string) {
	if n.url == "" {
		return
	}

	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		log.Printf("encode relay payload: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url+"/api/send", bytes.NewReader(body))
	if err != nil {
		log.Printf("build relay request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("failed to notify relay: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("failed to notify relay: unexpected status %s", resp.Status)
	}
}
