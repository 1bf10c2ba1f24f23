// Package service is the console's line to the FABRIE REST backend.
// The Client owns the session cookie jar and the cached CSRF token, so
// two clients never share state. Nothing in here retries: a failure is
// reported once and the user decides what happens next.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fabrie-console/config"
)

const (
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
)

// Client is the HTTP client for the backend API.
type Client struct {
	base     *url.URL
	http     *http.Client
	log      *zap.Logger
	csrfPath string

	mu   sync.Mutex
	csrf string
}

// NewClient builds a client for the backend described by cfg.
func NewClient(cfg *config.BackendConfig, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base url %q needs a scheme and host", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		base:     base,
		http:     &http.Client{Jar: jar, Timeout: cfg.Timeout},
		log:      log,
		csrfPath: cfg.CSRFPath,
	}, nil
}

// BootstrapCSRF fetches the CSRF cookie and caches its token. Mutating
// calls do this lazily on first use; calling it at startup only
// front-loads the round trip.
func (c *Client) BootstrapCSRF(ctx context.Context) error {
	if err := c.do(ctx, request{method: http.MethodGet, path: c.csrfPath}); err != nil {
		return err
	}

	token := c.cookieToken()
	if token == "" {
		return fmt.Errorf("backend set no %s cookie", csrfCookieName)
	}

	c.mu.Lock()
	c.csrf = token
	c.mu.Unlock()
	return nil
}

func (c *Client) cookieToken() string {
	cookieURL := *c.base
	cookieURL.Path = "/"
	for _, cookie := range c.http.Jar.Cookies(&cookieURL) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) ensureCSRF(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.csrf
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}

	if err := c.BootstrapCSRF(ctx); err != nil {
		return "", err
	}

	c.mu.Lock()
	token = c.csrf
	c.mu.Unlock()
	return token, nil
}

func (c *Client) invalidateCSRF() {
	c.mu.Lock()
	c.csrf = ""
	c.mu.Unlock()
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	out         any
}

// do executes one backend call and maps the outcome onto the failure
// classes in errors.go. A cancelled context comes back as ctx.Err()
// itself, untouched.
func (c *Client) do(ctx context.Context, r request) error {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if len(r.body) > 0 {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build backend request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	if mutating(r.method) {
		token, err := c.ensureCSRF(ctx)
		if err != nil {
			return err
		}
		req.Header.Set(csrfHeaderName, token)
		req.Header.Set("Referer", c.base.String())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Warn("backend unreachable",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	c.log.Debug("backend request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		if r.out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, r.out); err != nil {
			return fmt.Errorf("decode backend response: %w", err)
		}
		return nil

	case resp.StatusCode == http.StatusBadRequest:
		return parseValidationError(data)

	case resp.StatusCode == http.StatusForbidden:
		c.invalidateCSRF()
		c.log.Warn("backend rejected request",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.String("body", snippet(data)))
		return ErrCSRF

	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound

	default:
		return &StatusError{StatusCode: resp.StatusCode, Body: snippet(data)}
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
