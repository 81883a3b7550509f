// Package roster reshapes Twitch upstream responses into the service's
// public schema: channel user metadata and role member listings.
package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/onnwee/twitch-roles/twitchapi"
)

// Role selects which partition of the chatters snapshot to resolve.
type Role string

const (
	RoleModerators Role = "moderators"
	RoleVIPs       Role = "vips"
)

// maxRoleMembers caps how many role member names are resolved per request.
// Names beyond the cap are silently truncated (Helix batch limit).
const maxRoleMembers = 100

// UserDirectory resolves logins and identifier batches to user summaries.
type UserDirectory interface {
	UserByLogin(ctx context.Context, login string) (*twitchapi.UserSummary, error)
	UsersByIDsOrLogins(ctx context.Context, identifiers []string) ([]twitchapi.UserSummary, error)
}

// ChattersSource fetches the chatters snapshot for a channel login.
type ChattersSource interface {
	Chatters(ctx context.Context, channel string) (*twitchapi.ChattersSnapshot, error)
}

// FoundersResponse is the fixed payload returned for founders requests.
type FoundersResponse struct {
	Message string                  `json:"message"`
	Data    []twitchapi.UserSummary `json:"data"`
}

// foundersMessage explains the permanent limitation: founder data requires
// a broadcaster-scoped token the service does not possess.
const foundersMessage = "Founders data is not available: it requires broadcaster authorization this service does not have."

// Service composes upstream calls per public endpoint.
type Service struct {
	users    UserDirectory
	chatters ChattersSource
}

// NewService returns a Service backed by the given upstream clients.
func NewService(users UserDirectory, chatters ChattersSource) *Service {
	return &Service{users: users, chatters: chatters}
}

// User returns the public projection of the channel's user record.
func (s *Service) User(ctx context.Context, channel string) (*twitchapi.UserSummary, error) {
	return s.users.UserByLogin(ctx, strings.ToLower(channel))
}

// RoleMembers resolves the members of the requested role currently in the
// channel's chat. An empty role list returns an empty slice without a user
// lookup; lists beyond 100 names are truncated.
func (s *Service) RoleMembers(ctx context.Context, channel string, role Role) ([]twitchapi.UserSummary, error) {
	snapshot, err := s.chatters.Chatters(ctx, strings.ToLower(channel))
	if err != nil {
		return nil, err
	}
	var names []string
	switch role {
	case RoleModerators:
		names = snapshot.Chatters.Moderators
	case RoleVIPs:
		names = snapshot.Chatters.VIPs
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if len(names) == 0 {
		return []twitchapi.UserSummary{}, nil
	}
	if len(names) > maxRoleMembers {
		names = names[:maxRoleMembers]
	}
	return s.users.UsersByIDsOrLogins(ctx, names)
}

// Founders always returns the fixed informational payload with an empty
// member list. This is a permanent limitation, not a transient failure.
func (s *Service) Founders(ctx context.Context, channel string) FoundersResponse {
	return FoundersResponse{Message: foundersMessage, Data: []twitchapi.UserSummary{}}
}
