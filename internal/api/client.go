// Package api is the gateway to the inventory backend. One Client carries the
// base URL, the request timeout and the cookie-based session, unwraps the
// {data: ...} response envelope, and normalizes every failure to a
// RequestError.
package api

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
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yogamuz/inventory-pos/internal/logging"
)

const apiPrefix = "/api/v1"

const genericFailure = "something went wrong, please try again"

// authBoundaryPaths never trigger the global 401 side effect: a 401 from
// these is a normal outcome (wrong credentials, expired reset token).
var authBoundaryPaths = []string{
	"/auth/login",
	"/auth/forgot-password",
	"/auth/reset-password",
}

// Client talks to the backend REST API.
type Client struct {
	base     *url.URL
	http     *http.Client
	jar      *cookiejar.Jar
	log      zerolog.Logger
	clientID string

	onUnauthorized func()
	// invalidating latches after the first effective 401 so concurrent
	// failures run the hook exactly once; Reauthorized re-arms it.
	invalidating atomic.Bool
	// publicView suppresses the 401 side effect while the login surface
	// is active.
	publicView atomic.Bool
}

// New creates a Client for baseURL (without the /api/v1 suffix).
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + apiPrefix)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		base:     u,
		http:     &http.Client{Timeout: timeout, Jar: jar},
		jar:      jar,
		log:      logging.New("api"),
		clientID: uuid.NewString(),
	}, nil
}

// SetUnauthorizedHook registers the callback run when a 401 arrives outside
// the auth boundary. The hook is responsible for clearing persisted session
// state and steering the user back to login.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// SetPublicView flags whether the login surface is currently shown.
func (c *Client) SetPublicView(active bool) {
	c.publicView.Store(active)
}

// Reauthorized re-arms the 401 latch after a successful login or session
// validation.
func (c *Client) Reauthorized() {
	c.invalidating.Store(false)
}

// Cookies returns the session cookies currently held for the API host.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.base)
}

// RestoreCookies seeds the jar with previously persisted session cookies.
func (c *Client) RestoreCookies(cookies []*http.Cookie) {
	for _, ck := range cookies {
		if ck.Path == "" {
			ck.Path = "/"
		}
	}
	c.jar.SetCookies(c.base, cookies)
}

// envelope is the wire shape of every JSON response.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do performs one API call. body is JSON-encoded when non-nil; on 2xx the
// {data} payload is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rd)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Id", c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return &RequestError{Kind: KindNetwork, Message: transportMessage(err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Message: transportMessage(err)}
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = genericFailure
		}
		kind := KindServer
		if resp.StatusCode == http.StatusUnauthorized {
			kind = KindAuth
			c.handleUnauthorized(path)
		}
		c.log.Warn().Str("method", method).Str("path", path).
			Int("status", resp.StatusCode).Str("message", msg).Msg("request rejected")
		return &RequestError{Kind: kind, Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response payload: %w", err)
		}
	}
	return nil
}

// handleUnauthorized runs the global invalidation hook at most once per
// failure window. Auth-boundary calls and the public login view are exempt.
func (c *Client) handleUnauthorized(path string) {
	for _, p := range authBoundaryPaths {
		if strings.HasPrefix(path, p) {
			return
		}
	}
	if c.publicView.Load() {
		return
	}
	if c.onUnauthorized == nil {
		return
	}
	if c.invalidating.CompareAndSwap(false, true) {
		c.log.Info().Str("path", path).Msg("session rejected, clearing local state")
		c.onUnauthorized()
	}
}

func transportMessage(err error) string {
	if err == nil {
		return genericFailure
	}
	// A timeout reads the same as any other transport failure to callers.
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	return err.Error()
}
