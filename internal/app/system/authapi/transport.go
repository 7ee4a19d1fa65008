// Package authapi calls the upstream authentication API.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Transport sends a JSON body to path on the backend and decodes the reply
// into out. Implementations return *TransportError for network failures and
// non-2xx replies.
type Transport interface {
	Post(ctx context.Context, path string, body, out any) error
}

// TransportError describes a failed call. It is passed to callers unchanged.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int    // 0 when no response was received
	Message    string // server-supplied message, if any
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "authapi: %s %s", e.Method, e.Path)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// maxErrorBody caps how much of an error reply is read for its message.
const maxErrorBody = 4 << 10

// HTTPTransport is the net/http Transport.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewHTTPTransport returns a transport rooted at baseURL. A zero timeout
// means 10 seconds.
func NewHTTPTransport(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// WithClient swaps the underlying HTTP client (tests, custom TLS).
func (t *HTTPTransport) WithClient(c *http.Client) *HTTPTransport {
	if c != nil {
		t.client = c
	}
	return t
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, path string, body, out any) error {
	fail := func(status int, msg string, err error) error {
		return &TransportError{Method: http.MethodPost, Path: path, StatusCode: status, Message: msg, Err: err}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fail(0, "", fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fail(0, "", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.log.Warn("auth backend unreachable", zap.String("path", path), zap.Error(err))
		return fail(0, "", fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	t.log.Debug("auth backend call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(resp.StatusCode, errorMessage(raw), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// errorMessage pulls a human message out of an error reply: the "message"
// or "error" field of a JSON object, or the trimmed body text.
func errorMessage(raw []byte) string {
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Error != "" {
			return obj.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if strings.HasPrefix(msg, "{") {
		return ""
	}
	return msg
}
