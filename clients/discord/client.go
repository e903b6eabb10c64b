package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"rolebot/clients"
)

// DiscordClient implements the clients.DiscordClient interface on top of the
// discordgo REST API.
type DiscordClient struct {
	sdkClient *discordgo.Session

	// botUser is cached after the first lookup - the bot's identity is stable
	// for the lifetime of the token.
	botUserMu sync.Mutex
	botUser   *clients.DiscordUser
}

// NewDiscordClient creates a new Discord REST client for the given bot token
func NewDiscordClient(botToken string) (clients.DiscordClient, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &DiscordClient{sdkClient: session}, nil
}

// GetBotUser returns the identity of the bot account
func (c *DiscordClient) GetBotUser() (*clients.DiscordUser, error) {
	c.botUserMu.Lock()
	defer c.botUserMu.Unlock()

	if c.botUser != nil {
		return c.botUser, nil
	}

	user, err := c.sdkClient.User("@me")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot user: %w", classifyError(err))
	}

	c.botUser = &clients.DiscordUser{
		ID:       user.ID,
		Username: user.Username,
		Bot:      user.Bot,
	}
	return c.botUser, nil
}

// GetGuildRoles fetches all roles of a guild
func (c *DiscordClient) GetGuildRoles(ctx context.Context, guildID string) ([]clients.DiscordRole, error) {
	sdkRoles, err := c.sdkClient.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roles: %w", classifyError(err))
	}

	roles := make([]clients.DiscordRole, len(sdkRoles))
	for i, r := range sdkRoles {
		roles[i] = clients.DiscordRole{
			ID:       r.ID,
			Name:     r.Name,
			Position: r.Position,
			Managed:  r.Managed,
		}
	}
	return roles, nil
}

// GetBotMemberRoleIDs fetches the role IDs the bot holds in a guild
func (c *DiscordClient) GetBotMemberRoleIDs(ctx context.Context, guildID string) ([]string, error) {
	botUser, err := c.GetBotUser()
	if err != nil {
		return nil, err
	}

	member, err := c.sdkClient.GuildMember(guildID, botUser.ID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot guild member: %w", classifyError(err))
	}
	return member.Roles, nil
}

// GrantRole adds a role to a guild member
func (c *DiscordClient) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	err := c.sdkClient.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to grant role %s to user %s: %w", roleID, userID, classifyError(err))
	}
	return nil
}

// RevokeRole removes a role from a guild member
func (c *DiscordClient) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	err := c.sdkClient.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to revoke role %s from user %s: %w", roleID, userID, classifyError(err))
	}
	return nil
}

// AddReaction reacts to a message as the bot. The emoji is either a unicode
// sequence or "name:id" for custom emoji.
func (c *DiscordClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	err := c.sdkClient.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to add reaction %s to message %s: %w", emoji, messageID, classifyError(err))
	}
	return nil
}
