// Package apiclient is the storefront's only way out to the REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenSource yields the bearer credential of the current session, or "".
type TokenSource interface {
	Token() string
}

type noToken struct{}

func (noToken) Token() string { return "" }

type Client struct {
	base    string
	tokens  TokenSource
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithBreaker fails requests fast after maxFailures consecutive transport
// failures, for cooldown. Server and protocol errors do not count.
func WithBreaker(maxFailures uint32, cooldown time.Duration) Option {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:    "api",
			Timeout: cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		})
	}
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = noToken{}
	}
	jar, _ := cookiejar.New(nil)
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		tokens: tokens,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Jar:       jar,
			Timeout:   15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithTokens returns a client for another session: same transport, timeout
// and breaker, its own token source and cookie jar.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	if tokens == nil {
		tokens = noToken{}
	}
	jar, _ := cookiejar.New(nil)
	cp := *c
	cp.tokens = tokens
	cp.http = &http.Client{Transport: c.http.Transport, Jar: jar, Timeout: c.http.Timeout}
	return &cp
}

type payload struct {
	body        io.Reader
	contentType string
}

func jsonBody(v any) (payload, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return payload{}, err
	}
	return payload{body: bytes.NewReader(b), contentType: "application/json"}, nil
}

// call issues one request and returns the raw body of a 2xx answer.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, p payload) ([]byte, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, p.body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if p.contentType != "" {
		req.Header.Set("Content-Type", p.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Op: op, Status: resp.StatusCode, Message: serverMessage(body)}
	}
	return body, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.http.Do(req)
	}
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	return resp, err
}

func serverMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func decode(op string, body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProtocolError{Op: op, Reason: err.Error()}
	}
	return nil
}
