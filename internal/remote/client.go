// Package remote talks to the restaurant's HTTP API. Every call names an
// action; reads carry query parameters and writes carry an untyped JSON body.
// The package owns no policy: it normalises the {success, result, message}
// envelope into a decoded result or an apperr kind.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/wimpyapp/ordering/internal/apperr"
	"github.com/wimpyapp/ordering/internal/logging"
	"github.com/wimpyapp/ordering/internal/transport"
)

const (
	DefaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
)

type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base: u,
		// Apps Script style endpoints answer through a redirect; the default
		// client follows it.
		http:    &http.Client{},
		timeout: timeout,
	}, nil
}

func (c *Client) endpoint(action string, params url.Values) string {
	u := *c.base
	q := u.Query()
	q.Set("action", action)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Get issues a read action and decodes the envelope result into out.
func (c *Client) Get(ctx context.Context, action string, params url.Values, out any) error {
	return c.do(ctx, action, http.MethodGet, c.endpoint(action, params), nil, out)
}

// Post issues a write action with body as JSON. The content type is plain
// text, the way the browser client sent it.
func (c *Client) Post(ctx context.Context, action string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", action, err)
	}
	return c.do(ctx, action, http.MethodPost, c.endpoint(action, nil), data, out)
}

func (c *Client) do(ctx context.Context, action, method, target string, body []byte, out any) error {
	reqID := uuid.NewString()
	l := logging.FromContext(ctx).With("svc", "remote", "action", action, "request_id", reqID)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return apperr.Connectivity(action, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Warn("remote_timeout", "timeout", c.timeout.String(), "error", err)
		} else {
			l.Warn("remote_transport_error", "error", err)
		}
		return apperr.Connectivity(action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.Warn("remote_bad_status", "status", resp.StatusCode)
		return apperr.Connectivity(action, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var env transport.Envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&env); err != nil {
		l.Warn("remote_malformed_response", "status", resp.StatusCode, "error", err)
		return apperr.Connectivity(action, fmt.Errorf("malformed response: %w", err))
	}

	if !env.Success {
		l.Info("remote_rejected", "message", env.Message, "elapsed", time.Since(started).String())
		return apperr.Rejected(action, env.Message)
	}

	if out != nil && len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, out); err != nil {
			l.Warn("remote_malformed_result", "error", err)
			return apperr.Connectivity(action, fmt.Errorf("malformed result: %w", err))
		}
	}

	l.Debug("remote_ok", "elapsed", time.Since(started).String())
	return nil
}
