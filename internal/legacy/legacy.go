// Package legacy holds the best-effort secondary destinations notified
// alongside the primary event for a few funnel milestones.
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier delivers one named payload to a legacy destination.
type Notifier interface {
	Notify(ctx context.Context, name string, payload map[string]any) error
}

// Notifiers are the secondary destinations. Nil members are skipped.
type Notifiers struct {
	// Pixel receives item view, checkout start, payment view and purchase.
	Pixel Notifier
	// Transaction receives a transaction followed by its line items.
	Transaction Notifier
	// Conversion receives a structured purchase and a conversion.
	Conversion Notifier
	// Revenue receives a revenue/currency ping.
	Revenue Notifier
}

// Safe runs fn and swallows any error or panic it produces.
func Safe(dest string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("destination", dest).Interface("panic", r).Msg("legacy call panicked, ignored")
		}
	}()
	if err := fn(); err != nil {
		log.Debug().Err(err).Str("destination", dest).Msg("legacy call failed, ignored")
	}
}

// Notify calls n through Safe; a nil n is a no-op.
func Notify(ctx context.Context, dest string, n Notifier, name string, payload map[string]any) {
	if n == nil {
		return
	}
	Safe(dest, func() error { return n.Notify(ctx, name, payload) })
}

// HTTPNotifier posts {"event": name, "data": payload} to a fixed URL.
type HTTPNotifier struct {
	httpClient *http.Client
	url        string
}

// NewHTTPNotifier returns nil when url is empty so the destination is disabled.
func NewHTTPNotifier(url string, timeout time.Duration) Notifier {
	if url == "" {
		return nil
	}
	return &HTTPNotifier{httpClient: &http.Client{Timeout: timeout}, url: url}
}

func (h *HTTPNotifier) Notify(ctx context.Context, name string, payload map[string]any) error {
	body, err := json.Marshal(map[string]any{"event": name, "data": payload})
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: unexpected status %d", name, resp.StatusCode)
	}
	return nil
}
