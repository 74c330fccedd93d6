// README: HTTP client for the remote fare-prediction endpoint.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taxifare/internal/modules/ride"
)

// DefaultTimeout bounds a single prediction call, connection through body read.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps the 2xx body read.
const maxBodyBytes = 1 << 20

type Client struct {
	endpoint string
	httpc    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its Timeout is left as given.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpc = h
	}
}

func NewClient(endpoint string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		httpc:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// RequestURL returns the endpoint with the query's six parameters merged into
// any query string the endpoint already carries.
func (c *Client) RequestURL(q ride.Query) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("parse endpoint: unsupported scheme %q", u.Scheme)
	}
	params := u.Query()
	for k, v := range q.Params() {
		params[k] = v
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Predict issues one GET and maps the reply to a fare or an *OutcomeError.
// It never retries.
func (c *Client) Predict(ctx context.Context, q ride.Query) (FareResult, error) {
	target, err := c.RequestURL(q)
	if err != nil {
		return FareResult{}, transportError(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return FareResult{}, transportError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return FareResult{}, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		msg := statusMessage(resp)
		return FareResult{}, &OutcomeError{Category: CategoryTransport, Message: msg, Err: errors.New(msg)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return FareResult{}, transportError(fmt.Errorf("read response: %w", err))
	}
	if len(body) > maxBodyBytes {
		return FareResult{}, parseError(fmt.Errorf("response body exceeds %d bytes", maxBodyBytes))
	}
	return interpret(body)
}

func interpret(body []byte) (FareResult, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return FareResult{}, parseError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return FareResult{}, parseError(errors.New("unexpected data after top-level JSON value"))
	}

	if obj, ok := payload.(map[string]any); ok {
		if raw, found := obj["fare"]; found {
			n, ok := raw.(json.Number)
			if !ok {
				return FareResult{}, parseError(fmt.Errorf("fare is not a number: %v", raw))
			}
			f, err := n.Float64()
			if err != nil {
				return FareResult{}, parseError(fmt.Errorf("fare %s: %w", n, err))
			}
			return FareResult{Fare: roundFare(f)}, nil
		}
	}

	rendered, err := renderPayload(body)
	if err != nil {
		return FareResult{}, parseError(err)
	}
	return FareResult{}, &OutcomeError{
		Category: CategoryAPIError,
		Message:  "API response did not contain a 'fare' key. Full response: " + rendered,
		Payload:  rendered,
	}
}

func transportError(err error) *OutcomeError {
	return &OutcomeError{Category: CategoryTransport, Message: err.Error(), Err: err}
}

func parseError(err error) *OutcomeError {
	return &OutcomeError{Category: CategoryParse, Message: err.Error(), Err: err}
}

func statusMessage(resp *http.Response) string {
	code := resp.StatusCode
	kind := "Unexpected Status"
	switch {
	case code >= 400 && code < 500:
		kind = "Client Error"
	case code >= 500 && code < 600:
		kind = "Server Error"
	}
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	target := ""
	if resp.Request != nil && resp.Request.URL != nil {
		target = resp.Request.URL.String()
	}
	return fmt.Sprintf("%d %s: %s for url: %s", code, kind, reason, target)
}
