package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Webhook posts staged actions to an external bridge that owns the real
// provider credentials (Gmail/Outlook OAuth flows stay out of this
// process). 401/403 map to ErrAuthExpired, everything else non-2xx to
// ErrProvider.
type Webhook struct {
	BaseURL   string
	AuthToken string
	HTTP      *http.Client
}

func NewWebhook(baseURL, authToken string) *Webhook {
	return &Webhook{
		BaseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		AuthToken: strings.TrimSpace(authToken),
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *Webhook) SendEmail(ctx context.Context, req EmailRequest) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := w.post(ctx, "/v1/email", req, &out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("%w: email bridge rejected the request", ErrProvider)
	}
	return nil
}

func (w *Webhook) CreateEvent(ctx context.Context, req EventRequest) (string, error) {
	var out struct {
		OK      bool   `json:"ok"`
		EventID string `json:"event_id"`
	}
	if err := w.post(ctx, "/v1/event", req, &out); err != nil {
		return "", err
	}
	if !out.OK {
		return "", fmt.Errorf("%w: calendar bridge rejected the request", ErrProvider)
	}
	return out.EventID, nil
}

func (w *Webhook) post(ctx context.Context, path string, payload any, out any) error {
	if w.BaseURL == "" {
		return fmt.Errorf("%w: missing executor webhook url", ErrProvider)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrProvider, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if w.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+w.AuthToken)
	}

	client := w.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrProvider, err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: http %d", ErrAuthExpired, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: http %d: %s", ErrProvider, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrProvider, err)
	}
	return nil
}
