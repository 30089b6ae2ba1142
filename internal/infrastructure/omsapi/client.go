// Package omsapi is the HTTP client for the O&M backend. It covers the
// four calls the portal needs: project lookup by phone, project detail,
// equipment categories and ticket lookup, plus the multipart complaint
// submission.
package omsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/SlnkoEnergy/Client-O-M/internal/shared/config"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/errors"
	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
)

const (
	// Maximum response body size accepted from the backend (4MB)
	maxResponseSize = 4 << 20
	// Maximum error body read when extracting an upstream message (64KB)
	maxErrorBodySize = 64 << 10
)

// Client talks to the O&M backend over HTTP.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	logger     logger.Interface
}

// NewClient builds a backend client from the upstream config.
func NewClient(cfg config.UpstreamConfig, log logger.Interface) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		authToken: cfg.AuthToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: log,
	}
}

// envelope tolerates both bare payloads and {message, data} wrappers.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// unwrap peels {message, data} wrappers off a response body. The backend
// wraps some payloads twice, so it keeps unwrapping while a data field is
// present, and reports the innermost non-empty message it saw.
func unwrap(body []byte) (json.RawMessage, string) {
	payload := json.RawMessage(body)
	message := ""
	for i := 0; i < 3; i++ {
		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			break
		}
		if env.Message != "" {
			message = env.Message
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			break
		}
		payload = env.Data
	}
	return payload, message
}

// get performs a GET and returns the unwrapped payload.
func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, string, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", errors.NewInternalError("failed to create request", err.Error())
	}
	c.setHeaders(req)

	body, err := c.do(req)
	if err != nil {
		return nil, "", err
	}
	payload, message := unwrap(body)
	return payload, message, nil
}

// postMultipart performs a POST with a prebuilt multipart body.
func (c *Client) postMultipart(ctx context.Context, path, contentType string, body *bytes.Buffer) (json.RawMessage, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, "", errors.NewInternalError("failed to create request", err.Error())
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	raw, err := c.do(req)
	if err != nil {
		return nil, "", err
	}
	payload, message := unwrap(raw)
	return payload, message, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("backend request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
		return nil, errors.NewRemoteError("upstream request failed", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := extractErrorMessage(resp.Body)
		c.logger.Warnw("backend returned error status",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"message", msg,
		)
		if msg == "" {
			msg = fmt.Sprintf("upstream returned status %d", resp.StatusCode)
		}
		return nil, errors.NewRemoteError(msg, fmt.Sprintf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.NewRemoteError("failed to read upstream response", err.Error())
	}
	return body, nil
}

// extractErrorMessage pulls the message field out of an error body when
// the backend bothered to send one.
func extractErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return ""
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
