// Package auth fetches and caches bearer tokens for authenticated
// scenario runs.
//
// Tokens are cached in the key-value store alongside an absolute expiry
// instant, so resumed runs reuse a still-valid token instead of hitting
// the auth endpoint on every step. A malformed cached expiry is treated
// as expired and triggers a refresh.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/probelab/scenic/internal/transport"
)

// Store is the subset of the key-value store the token cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Unset(ctx context.Context, key string) error
}

// Clock supplies the current time. Injected for deterministic expiry
// handling in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Keys names the store slots the token cache writes.
type Keys struct {
	Token  string
	Expiry string
}

// DefaultKeys derives the token cache slot keys from a namespace.
func DefaultKeys(ns string) Keys {
	return Keys{
		Token:  ns + ".auth.token",
		Expiry: ns + ".auth.expiry",
	}
}

// Config describes the auth endpoint a TokenSource fetches from.
type Config struct {
	URL          string
	ClientID     string
	ClientSecret string

	// Leeway is subtracted from the advertised token lifetime so a
	// token is refreshed before it actually expires mid-request.
	Leeway time.Duration
}

// TokenSource fetches bearer tokens and caches them in the store.
type TokenSource struct {
	cfg      Config
	store    Store
	dispatch transport.Dispatcher
	clock    Clock
	keys     Keys
	logger   *slog.Logger
}

// Option configures a TokenSource beyond its required dependencies.
type Option func(*TokenSource)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(ts *TokenSource) { ts.clock = c }
}

// WithKeys overrides the store slot keys.
func WithKeys(k Keys) Option {
	return func(ts *TokenSource) { ts.keys = k }
}

// WithLogger attaches a logger for cache diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(ts *TokenSource) { ts.logger = l }
}

// NewTokenSource creates a token source backed by the given store and
// dispatcher.
func NewTokenSource(cfg Config, st Store, d transport.Dispatcher, opts ...Option) *TokenSource {
	ts := &TokenSource{
		cfg:      cfg,
		store:    st,
		dispatch: d,
		clock:    systemClock{},
		keys:     DefaultKeys("scenic"),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// tokenResponse is the auth endpoint's success payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token returns a valid bearer token, fetching a fresh one when the
// cache is empty or expired.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	if tok, ok := ts.cached(ctx); ok {
		return tok, nil
	}
	return ts.refresh(ctx)
}

// cached returns the stored token when it exists and has not expired.
func (ts *TokenSource) cached(ctx context.Context) (string, bool) {
	tok, ok, err := ts.store.Get(ctx, ts.keys.Token)
	if err != nil || !ok || tok == "" {
		return "", false
	}

	raw, ok, err := ts.store.Get(ctx, ts.keys.Expiry)
	if err != nil || !ok {
		return "", false
	}
	expiry, perr := time.Parse(time.RFC3339, raw)
	if perr != nil {
		ts.logger.Warn("cached token expiry is malformed, treating as expired",
			slog.String("key", ts.keys.Expiry),
			slog.String("error", perr.Error()))
		return "", false
	}
	if !ts.clock.Now().Before(expiry) {
		return "", false
	}
	return tok, true
}

// refresh fetches a token from the auth endpoint and caches it.
func (ts *TokenSource) refresh(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     ts.cfg.ClientID,
		"client_secret": ts.cfg.ClientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("encode auth request: %w", err)
	}

	resp, err := ts.dispatch.Do(ctx, transport.Request{
		Method: "POST",
		URL:    ts.cfg.URL,
		Header: map[string]string{"Content-Type": "application/json"},
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("fetch auth token: %w", err)
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("fetch auth token: endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil {
		return "", fmt.Errorf("decode auth token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("decode auth token response: missing access_token")
	}

	lifetime := time.Duration(tr.ExpiresIn)*time.Second - ts.cfg.Leeway
	if lifetime < 0 {
		lifetime = 0
	}
	expiry := ts.clock.Now().Add(lifetime)

	if err := ts.store.Set(ctx, ts.keys.Token, tr.AccessToken); err != nil {
		return "", fmt.Errorf("cache auth token: %w", err)
	}
	if err := ts.store.Set(ctx, ts.keys.Expiry, expiry.Format(time.RFC3339)); err != nil {
		return "", fmt.Errorf("cache auth token expiry: %w", err)
	}

	ts.logger.Debug("fetched fresh auth token",
		slog.Time("expiry", expiry))
	return tr.AccessToken, nil
}

// Invalidate drops the cached token so the next Token call refetches.
func (ts *TokenSource) Invalidate(ctx context.Context) error {
	if err := ts.store.Unset(ctx, ts.keys.Token); err != nil {
		return fmt.Errorf("invalidate auth token: %w", err)
	}
	if err := ts.store.Unset(ctx, ts.keys.Expiry); err != nil {
		return fmt.Errorf("invalidate auth token expiry: %w", err)
	}
	return nil
}

// Authorize returns a copy of the template with a bearer Authorization
// header. The input template is not modified.
func (ts *TokenSource) Authorize(ctx context.Context, tmpl transport.Template) (transport.Template, error) {
	tok, err := ts.Token(ctx)
	if err != nil {
		return transport.Template{}, err
	}

	out := tmpl
	out.Header = make(map[string]string, len(tmpl.Header)+1)
	for k, v := range tmpl.Header {
		out.Header[k] = v
	}
	out.Header["Authorization"] = "Bearer " + tok
	return out, nil
}
