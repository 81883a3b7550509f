// Package twitchapi contains minimal clients for the Twitch Helix users API
// and the unofficial TMI chatters endpoint, authenticated where needed with a
// cached app access (client credentials) token.
package twitchapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/onnwee/twitch-roles/telemetry"
)

const (
	tokenURL = "https://id.twitch.tv/oauth2/token"

	// expiryLeeway is subtracted from the reported TTL so a token is never
	// presented upstream right at its expiry boundary.
	expiryLeeway = 60 * time.Second
)

// AppTokenSource fetches and caches a Twitch app access token obtained via
// the client-credentials grant. The token is replaced, not mutated, on
// renewal; concurrent renewals are serialized by the write lock.
// NOTE: an app token cannot be used for IRC chat.
type AppTokenSource struct {
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// Token returns a valid (fresh or cached) app access token.
func (ts *AppTokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.RLock()
	if ts.token != "" && time.Now().Before(ts.expiresAt) {
		tok := ts.token
		ts.mu.RUnlock()
		return tok, nil
	}
	ts.mu.RUnlock()
	return ts.exchange(ctx)
}

func (ts *AppTokenSource) exchange(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	// Another caller may have renewed while we waited for the lock.
	if ts.token != "" && time.Now().Before(ts.expiresAt) {
		return ts.token, nil
	}
	if ts.ClientID == "" || ts.ClientSecret == "" {
		return "", &AuthError{Err: errors.New("missing client id/secret")}
	}
	form := url.Values{}
	form.Set("client_id", ts.ClientID)
	form.Set("client_secret", ts.ClientSecret)
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	hc := ts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		telemetry.CountTokenRefresh(false)
		return "", &AuthError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		telemetry.CountTokenRefresh(false)
		return "", &AuthError{Err: &UpstreamError{Endpoint: tokenURL, StatusCode: resp.StatusCode, Body: string(b)}}
	}
	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		telemetry.CountTokenRefresh(false)
		return "", &AuthError{Err: err}
	}
	if grant.AccessToken == "" {
		telemetry.CountTokenRefresh(false)
		return "", &AuthError{Err: errors.New("empty access_token in response")}
	}
	ts.token = grant.AccessToken
	ts.expiresAt = time.Now().Add(time.Duration(grant.ExpiresIn)*time.Second - expiryLeeway)
	telemetry.CountTokenRefresh(true)
	return ts.token, nil
}
