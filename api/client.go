// Package api is the typed client for the platform backend. Every
// operation of the consultation workflow goes through it; the backend
// owns all persistence and derives fields such as expiresOn and status.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"golang-physioconsult/session"
)

// Error is a failure reported by the backend. Beyond the HTTP status
// the contract only defines an optional message field.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL  string
	http     *http.Client
	sessions session.Store
	log      zerolog.Logger
}

func NewClient(baseURL string, sessions session.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		sessions: sessions,
		log:      log.With().Str("component", "api").Logger(),
	}
}

// do sends one request with the bearer token attached and decodes the
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess, err := c.sessions.Session(); err == nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("request")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Message: decodeErrorMessage(resp.Body)}
		c.log.Error().Int("status", resp.StatusCode).Str("method", method).Str("path", path).
			Str("message", apiErr.Message).Msg("backend error")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	return nil
}

// decodeErrorMessage pulls the human-readable message out of an error
// body; the backend uses either "message" or "error" as the key.
func decodeErrorMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Err
}
