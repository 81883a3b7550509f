package twitchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/onnwee/twitch-roles/telemetry"
)

const (
	helixUsersURL = "https://api.twitch.tv/helix/users"

	// maxUsersPerRequest is the Helix per-request cap on id/login filters.
	maxUsersPerRequest = 100
)

// UserSummary is the public projection of a Helix user record.
type UserSummary struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// HelixClient issues authenticated requests against the Helix users API.
type HelixClient struct {
	TokenSource *AppTokenSource
	ClientID    string
	HTTPClient  *http.Client
}

func (hc *HelixClient) http() *http.Client {
	if hc.HTTPClient != nil {
		return hc.HTTPClient
	}
	return http.DefaultClient
}

// UserByLogin resolves a login name to its user summary.
func (hc *HelixClient) UserByLogin(ctx context.Context, login string) (*UserSummary, error) {
	if login == "" {
		return nil, fmt.Errorf("login empty")
	}
	q := url.Values{}
	q.Set("login", login)
	users, err := hc.fetchUsers(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%q: %w", login, ErrUserNotFound)
	}
	return &users[0], nil
}

// UsersByIDsOrLogins resolves a list of identifiers (numeric ids or login
// names) in sequential batches of at most 100, preserving input order.
// An empty input returns an empty slice without an upstream call.
func (hc *HelixClient) UsersByIDsOrLogins(ctx context.Context, identifiers []string) ([]UserSummary, error) {
	out := make([]UserSummary, 0, len(identifiers))
	for start := 0; start < len(identifiers); start += maxUsersPerRequest {
		end := start + maxUsersPerRequest
		if end > len(identifiers) {
			end = len(identifiers)
		}
		q := url.Values{}
		for _, ident := range identifiers[start:end] {
			if isNumeric(ident) {
				q.Add("id", ident)
			} else {
				q.Add("login", ident)
			}
		}
		users, err := hc.fetchUsers(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, users...)
	}
	return out, nil
}

func (hc *HelixClient) fetchUsers(ctx context.Context, query url.Values) ([]UserSummary, error) {
	tok, err := hc.TokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, helixUsersURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Client-Id", hc.ClientID)
	req.Header.Set("Authorization", "Bearer "+tok)
	telemetry.CountHelixRequest()
	resp, err := hc.http().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{Endpoint: helixUsersURL, StatusCode: resp.StatusCode, Body: string(b)}
	}
	var body struct {
		Data []UserSummary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
