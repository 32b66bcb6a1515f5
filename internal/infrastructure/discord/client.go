package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/guild-verify-api/internal/config"
)

// Granter is the privilege-grant collaborator: it assigns the verified role
// and posts completion notices to the guild's configured channel.
type Granter interface {
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	Announce(ctx context.Context, channelID, message string) error
}

type client struct {
	http *resty.Client
}

// NewClient builds a Discord REST client authenticated with the bot token.
func NewClient(cfg *config.Config) Granter {
	c := resty.New().
		SetBaseURL(cfg.DiscordAPIBaseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Authorization", "Bot "+cfg.DiscordBotToken).
		SetHeader("Content-Type", "application/json")
	return &client{http: c}
}

// GrantRole adds roleID to the guild member. The endpoint is idempotent:
// adding a role the member already holds returns 204 as well.
func (c *client) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Put(fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID))
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("grant role: discord returned %d", resp.StatusCode())
	}
	return nil
}

// Announce posts a message to a channel. Callers treat failures as best-effort.
func (c *client) Announce(ctx context.Context, channelID, message string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"content": message}).
		Post(fmt.Sprintf("/channels/%s/messages", channelID))
	if err != nil {
		return fmt.Errorf("announce: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("announce: discord returned %d", resp.StatusCode())
	}
	return nil
}
