package twitchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// rewriteTransport redirects requests against the hardcoded upstream hosts
// to a local test server.
type rewriteTransport struct {
	host string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = strings.TrimPrefix(t.host, "http://")
	return http.DefaultTransport.RoundTrip(req)
}

// seededTokenSource returns a token source with a pre-cached token so tests
// exercise only the Helix call.
func seededTokenSource() *AppTokenSource {
	ts := &AppTokenSource{ClientID: "test-client-id", ClientSecret: "test-secret"}
	ts.token = "test-token"
	ts.expiresAt = time.Now().Add(1 * time.Hour)
	return ts
}

func TestHelixClient_UserByLogin(t *testing.T) {
	tests := []struct {
		response    interface{}
		name        string
		login       string
		want        *UserSummary
		errContains string
		wantErr     bool
		notFound    bool
	}{
		{
			name:  "successful user lookup",
			login: "testuser",
			response: map[string]interface{}{
				"data": []map[string]string{
					{
						"id":                "12345",
						"login":             "testuser",
						"display_name":      "TestUser",
						"profile_image_url": "https://example.com/avatar.png",
						"created_at":        "2016-12-14T20:32:28Z",
					},
				},
			},
			want: &UserSummary{
				ID:              "12345",
				Login:           "testuser",
				DisplayName:     "TestUser",
				ProfileImageURL: "https://example.com/avatar.png",
				CreatedAt:       "2016-12-14T20:32:28Z",
			},
		},
		{
			name:  "user not found",
			login: "nonexistent",
			response: map[string]interface{}{
				"data": []map[string]string{},
			},
			wantErr:  true,
			notFound: true,
		},
		{
			name:        "empty login",
			login:       "",
			wantErr:     true,
			errContains: "login empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Client-Id") != "test-client-id" {
					t.Errorf("missing or wrong Client-Id header")
				}
				if r.Header.Get("Authorization") != "Bearer test-token" {
					t.Errorf("missing or wrong Authorization header")
				}
				if tt.login != "" && r.URL.Query().Get("login") != tt.login {
					t.Errorf("login query param = %s, want %s", r.URL.Query().Get("login"), tt.login)
				}
				if tt.response != nil {
					json.NewEncoder(w).Encode(tt.response)
				}
			}))
			defer server.Close()

			client := &HelixClient{
				TokenSource: seededTokenSource(),
				ClientID:    "test-client-id",
				HTTPClient: &http.Client{
					Transport: &rewriteTransport{host: server.URL},
				},
			}

			user, err := client.UserByLogin(context.Background(), tt.login)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("UserByLogin() error = nil, want error")
				}
				if tt.notFound && !errors.Is(err, ErrUserNotFound) {
					t.Errorf("UserByLogin() error = %v, want ErrUserNotFound", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("UserByLogin() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("UserByLogin() unexpected error = %v", err)
			}
			if *user != *tt.want {
				t.Errorf("UserByLogin() = %+v, want %+v", user, tt.want)
			}
		})
	}
}

func TestHelixClient_UsersByIDsOrLogins_Chunking(t *testing.T) {
	identifiers := make([]string, 150)
	for i := range identifiers {
		identifiers[i] = fmt.Sprintf("user%03d", i)
	}

	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins := r.URL.Query()["login"]
		batchSizes = append(batchSizes, len(logins))
		// Echo the requested logins back in order.
		data := make([]map[string]string, 0, len(logins))
		for _, l := range logins {
			data = append(data, map[string]string{"id": "id-" + l, "login": l})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}))
	defer server.Close()

	client := &HelixClient{
		TokenSource: seededTokenSource(),
		ClientID:    "test-client-id",
		HTTPClient: &http.Client{
			Transport: &rewriteTransport{host: server.URL},
		},
	}

	users, err := client.UsersByIDsOrLogins(context.Background(), identifiers)
	if err != nil {
		t.Fatalf("UsersByIDsOrLogins() error = %v", err)
	}

	if len(batchSizes) != 2 || batchSizes[0] != 100 || batchSizes[1] != 50 {
		t.Errorf("batch sizes = %v, want [100 50]", batchSizes)
	}
	if len(users) != 150 {
		t.Fatalf("got %d users, want 150", len(users))
	}
	for i, u := range users {
		if u.Login != identifiers[i] {
			t.Fatalf("users[%d].Login = %s, want %s (input order preserved)", i, u.Login, identifiers[i])
		}
	}
}

func TestHelixClient_UsersByIDsOrLogins_Empty(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := &HelixClient{
		// Unseeded: a token exchange attempt would fail loudly.
		TokenSource: &AppTokenSource{},
		ClientID:    "test-client-id",
		HTTPClient: &http.Client{
			Transport: &rewriteTransport{host: server.URL},
		},
	}

	users, err := client.UsersByIDsOrLogins(context.Background(), nil)
	if err != nil {
		t.Fatalf("UsersByIDsOrLogins() error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("got %d users, want 0", len(users))
	}
	if calls != 0 {
		t.Errorf("expected no upstream calls for empty input, got %d", calls)
	}
}

func TestHelixClient_UsersByIDsOrLogins_SplitsIDsAndLogins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["id"]; len(got) != 1 || got[0] != "141981764" {
			t.Errorf("id params = %v, want [141981764]", got)
		}
		if got := r.URL.Query()["login"]; len(got) != 1 || got[0] != "someuser" {
			t.Errorf("login params = %v, want [someuser]", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]string{}})
	}))
	defer server.Close()

	client := &HelixClient{
		TokenSource: seededTokenSource(),
		ClientID:    "test-client-id",
		HTTPClient: &http.Client{
			Transport: &rewriteTransport{host: server.URL},
		},
	}

	if _, err := client.UsersByIDsOrLogins(context.Background(), []string{"141981764", "someuser"}); err != nil {
		t.Fatalf("UsersByIDsOrLogins() error = %v", err)
	}
}

func TestHelixClient_UsersByIDsOrLogins_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Service Unavailable"}`))
	}))
	defer server.Close()

	client := &HelixClient{
		TokenSource: seededTokenSource(),
		ClientID:    "test-client-id",
		HTTPClient: &http.Client{
			Transport: &rewriteTransport{host: server.URL},
		},
	}

	_, err := client.UsersByIDsOrLogins(context.Background(), []string{"someuser"})
	if err == nil {
		t.Fatal("UsersByIDsOrLogins() error = nil, want upstream error")
	}
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error = %T, want *UpstreamError", err)
	}
	if upErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", upErr.StatusCode, http.StatusServiceUnavailable)
	}
}
