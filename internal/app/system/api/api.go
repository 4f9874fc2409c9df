// Package api is the single gateway every store uses to reach the backend
// REST service.
//
// Each call issues exactly one HTTP request with fixed JSON headers and the
// session's backend cookies attached. A 2xx response is decoded into the
// caller's value; any other status becomes an *Error carrying the message
// from the response body's "error" field. Calls are never retried and never
// cached. Cancellation comes only from the caller's context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultConnectTimeout = 5 * time.Second

// ErrMethod is returned for methods other than GET, POST, PUT and DELETE.
var ErrMethod = errors.New("api: unsupported method")

// Error is a non-2xx backend response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

// Session scopes a request to the signed-in user. Stores receive it
// explicitly so tests can pass a fake.
type Session interface {
	UserID() string
	BackendCookies() []*http.Cookie
}

// Anonymous is the Session used before sign-in (login, register).
type Anonymous struct{}

func (Anonymous) UserID() string                 { return "" }
func (Anonymous) BackendCookies() []*http.Cookie { return nil }

// Request describes one backend call. Query is sent for every method;
// Body is JSON-encoded for POST and PUT only.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response holds what callers may need beyond the decoded body.
type Response struct {
	Status  int
	Cookies []*http.Cookie
}

// Client talks to one backend base URL.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// New constructs a Client. If hc is nil a client without an overall
// timeout is used; only connection setup is bounded.
func New(baseURL string, hc *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("backend url %q is not absolute", baseURL)
	}
	if hc == nil {
		hc = defaultClient()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{base: u, http: hc, log: logger}, nil
}

func defaultClient() *http.Client {
	dialer := &net.Dialer{Timeout: defaultConnectTimeout}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: defaultConnectTimeout,
		},
	}
}

// BaseURL returns the backend root this client targets.
func (c *Client) BaseURL() string { return c.base.String() }

// Do issues req and decodes a successful body into out (which may be nil).
func (c *Client) Do(ctx context.Context, sess Session, req Request, out any) (*Response, error) {
	switch req.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %q", ErrMethod, req.Method)
	}

	target := *c.base
	target.Path = c.base.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil && (req.Method == http.MethodPost || req.Method == http.MethodPut) {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(b)
	}

	hr, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, err
	}
	hr.Header.Set("Accept", "application/json")
	hr.Header.Set("Content-Type", "application/json")
	if sess != nil {
		for _, ck := range sess.BackendCookies() {
			hr.AddCookie(ck)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(hr)
	if err != nil {
		c.log.Warn("backend call failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.log.Debug("backend call",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	result := &Response{Status: resp.StatusCode, Cookies: resp.Cookies()}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	if err != nil {
		return result, fmt.Errorf("read %s %s: %w", req.Method, req.Path, err)
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return result, fmt.Errorf("decode %s %s: %w", req.Method, req.Path, err)
		}
	}
	return result, nil
}

func errorMessage(status int, raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return http.StatusText(status)
}

// Fetch is Do returning the decoded value.
func Fetch[T any](ctx context.Context, c *Client, sess Session, req Request) (T, error) {
	var out T
	_, err := c.Do(ctx, sess, req, &out)
	return out, err
}

// Message returns the text to show a user for err. Backend errors are
// shown verbatim; anything else gets a generic message.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Something went wrong. Please try again."
}
