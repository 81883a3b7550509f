// Package server exposes the HTTP API: the status index, user metadata, role
// member listings, health, and metrics. It injects correlation IDs into
// request contexts for consistent logging.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/onnwee/twitch-roles/roster"
	"github.com/onnwee/twitch-roles/twitchapi"
)

// Roster is the subset of roster.Service the handlers depend on.
type Roster interface {
	User(ctx context.Context, channel string) (*twitchapi.UserSummary, error)
	RoleMembers(ctx context.Context, channel string, role roster.Role) ([]twitchapi.UserSummary, error)
	Founders(ctx context.Context, channel string) roster.FoundersResponse
}

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	roster Roster
}

// NewHandlers creates a Handlers instance with the given dependencies.
func NewHandlers(svc Roster) *Handlers {
	return &Handlers{roster: svc}
}

// HandleIndex serves the fixed status payload describing the API.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	// "/" on ServeMux is a catch-all; anything else under it is a 404.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "Twitch channel roles API",
		"endpoints": []string{
			"/api/user",
			"/api/mods",
			"/api/vips",
			"/api/founders",
		},
		"usage": "GET /api/mods?channel=<login>",
	})
}

// HandleUser returns basic metadata for the channel's user record.
func (h *Handlers) HandleUser(w http.ResponseWriter, r *http.Request) {
	channel, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	user, err := h.roster.User(r.Context(), channel)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleMods lists the channel's moderators currently in chat.
func (h *Handlers) HandleMods(w http.ResponseWriter, r *http.Request) {
	h.handleRole(w, r, roster.RoleModerators)
}

// HandleVips lists the channel's VIPs currently in chat.
func (h *Handlers) HandleVips(w http.ResponseWriter, r *http.Request) {
	h.handleRole(w, r, roster.RoleVIPs)
}

func (h *Handlers) handleRole(w http.ResponseWriter, r *http.Request, role roster.Role) {
	channel, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	members, err := h.roster.RoleMembers(r.Context(), channel, role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// HandleFounders returns the fixed informational founders payload.
func (h *Handlers) HandleFounders(w http.ResponseWriter, r *http.Request) {
	channel, ok := h.channelParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.roster.Founders(r.Context(), channel))
}

// HandleHealthz responds to liveness probe requests.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// channelParam extracts the required channel query parameter, writing the
// fixed 400 response when absent.
func (h *Handlers) channelParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "channel parameter required"})
		return "", false
	}
	return channel, true
}

// writeError maps the upstream error taxonomy to a deterministic status so
// "not found" and "upstream unavailable" are distinguishable by clients.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var authErr *twitchapi.AuthError
	var chanErr *twitchapi.ChannelUnavailableError
	var upErr *twitchapi.UpstreamError
	switch {
	case errors.Is(err, twitchapi.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.As(err, &chanErr), errors.As(err, &authErr), errors.As(err, &upErr):
		status = http.StatusBadGateway
	}
	slog.Warn("request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("err", err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", slog.Any("err", err))
	}
}
