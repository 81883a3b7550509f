package twitchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/onnwee/twitch-roles/telemetry"
)

const chattersURLFormat = "https://tmi.twitch.tv/group/user/%s/chatters"

// ChattersSnapshot is the TMI listing of channel participants partitioned
// by role. The endpoint is undocumented and unauthenticated.
type ChattersSnapshot struct {
	ChatterCount int `json:"chatter_count"`
	Chatters     struct {
		Broadcaster []string `json:"broadcaster"`
		VIPs        []string `json:"vips"`
		Moderators  []string `json:"moderators"`
		Staff       []string `json:"staff"`
		Admins      []string `json:"admins"`
		GlobalMods  []string `json:"global_mods"`
		Viewers     []string `json:"viewers"`
	} `json:"chatters"`
}

// ChattersClient fetches the chatters snapshot for a channel login.
type ChattersClient struct {
	HTTPClient *http.Client
}

func (cc *ChattersClient) http() *http.Client {
	if cc.HTTPClient != nil {
		return cc.HTTPClient
	}
	return http.DefaultClient
}

// Chatters returns the current chatters snapshot for the given channel
// login. Any failure is reported as a ChannelUnavailableError since the
// endpoint answers non-200 for offline or nonexistent channels.
func (cc *ChattersClient) Chatters(ctx context.Context, channel string) (*ChattersSnapshot, error) {
	if channel == "" {
		return nil, &ChannelUnavailableError{Channel: channel, Err: fmt.Errorf("channel empty")}
	}
	endpoint := fmt.Sprintf(chattersURLFormat, channel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	telemetry.CountChattersRequest()
	resp, err := cc.http().Do(req)
	if err != nil {
		return nil, &ChannelUnavailableError{Channel: channel, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, &ChannelUnavailableError{
			Channel: channel,
			Err:     &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(b)},
		}
	}
	var snapshot ChattersSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, &ChannelUnavailableError{Channel: channel, Err: err}
	}
	return &snapshot, nil
}
