package twitchapi

import (
	"errors"
	"fmt"
)

// ErrUserNotFound indicates a user lookup returned zero records.
var ErrUserNotFound = errors.New("user not found")

// AuthError indicates the client-credentials token exchange failed.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("twitch app token exchange failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ChannelUnavailableError indicates the chatters lookup for a channel did
// not succeed (channel offline or nonexistent).
type ChannelUnavailableError struct {
	Channel string
	Err     error
}

func (e *ChannelUnavailableError) Error() string {
	return fmt.Sprintf("channel %q unavailable: %v", e.Channel, e.Err)
}

func (e *ChannelUnavailableError) Unwrap() error { return e.Err }

// UpstreamError indicates any other non-success upstream response.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
