// Package api talks to the clinic REST backend. Every response is wrapped in
// the {success, data} envelope; a 2xx reply that says success:false is
// treated as a failure, not as data.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/libs/httpx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 10 << 20

// ErrEmptyEnvelope is returned when a successful read carries no data.
var ErrEmptyEnvelope = errors.New("response envelope has no data")

// Error is an HTTP or payload level failure reported by the backend.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, msg)
}

func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// MessageOf returns the backend supplied message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

// TokenSource supplies the bearer token for outgoing calls; empty means none.
type TokenSource interface {
	Token() string
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Tokens    TokenSource
	Logger    *slog.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(httpx.RequestIDTransport{Base: base}),
		},
		tokens: opts.Tokens,
		logger: opts.Logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Logger() *slog.Logger { return c.logger }

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
}

func (e envelope) ok() bool { return e.Success == nil || *e.Success }

func (e envelope) hasData() bool {
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Ping checks that the API answers at all; any HTTP status counts as up.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/departments", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	return resp.Body.Close()
}

// call sends the request and returns the decoded envelope of a 2xx reply.
// With wantBody false the body of a 2xx reply is ignored.
func (c *Client) call(ctx context.Context, op, method, path string, body any, wantBody bool) (envelope, error) {
	var env envelope
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return env, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return env, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return env, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return env, fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return env, &Error{Op: op, Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if !wantBody {
		return env, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("%s: decode envelope: %w", op, err)
	}
	if !env.ok() {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return env, &Error{Op: op, Status: resp.StatusCode, Message: msg}
	}
	return env, nil
}

// do runs call and decodes data into out.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	env, err := c.call(ctx, op, method, path, body, out != nil)
	if err != nil || out == nil {
		return err
	}
	if !env.hasData() {
		return fmt.Errorf("%s: %w", op, ErrEmptyEnvelope)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", op, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
