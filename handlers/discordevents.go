package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"rolebot/middleware"
	"rolebot/models"
	"rolebot/usecases"
)

// presenceStatuses rotate through the bot's "Listening to" activity so the
// presence never goes stale after gateway resumes.
var presenceStatuses = []string{
	"reactions",
	"role requests",
	"/help",
}

type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	reconcileUseCase usecases.ReconcileUseCaseInterface
	alertMiddleware  *middleware.ErrorAlertMiddleware
	presenceInterval time.Duration
	stopPresence     chan struct{}
}

func NewDiscordEventsHandler(
	botToken string,
	reconcileUseCase usecases.ReconcileUseCaseInterface,
	alertMiddleware *middleware.ErrorAlertMiddleware,
	presenceInterval time.Duration,
) (*DiscordEventsHandler, error) {
	// Create a new Discord session using the provided bot token
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	handler := &DiscordEventsHandler{
		discordSDKClient: session,
		reconcileUseCase: reconcileUseCase,
		alertMiddleware:  alertMiddleware,
		presenceInterval: presenceInterval,
		stopPresence:     make(chan struct{}),
	}

	// Dispatch events inline on the gateway read loop instead of one
	// goroutine per event - same-tuple reactions must reach the engine in
	// gateway order. Handlers must not block: reaction handlers only
	// enqueue, the slower cleanup handlers run on their own goroutines.
	session.SyncEvents = true

	// Register event handlers
	session.AddHandler(handler.handleReactionAddedEvent)
	session.AddHandler(handler.handleReactionRemovedEvent)
	session.AddHandler(handler.handleRoleDeletedEvent)
	session.AddHandler(handler.handleMemberJoinedEvent)
	session.AddHandler(handler.handleGuildRemovedEvent)

	// Set intents to receive guild, member and reaction events
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessageReactions

	return handler, nil
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	// Open a websocket connection to Discord and begin listening
	err := h.discordSDKClient.Open()
	if err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	go h.runPresenceLoop()

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordEventsHandler) StopBot() {
	close(h.stopPresence)
	h.discordSDKClient.Close()
}

// runPresenceLoop periodically re-applies the bot's presence status
func (h *DiscordEventsHandler) runPresenceLoop() {
	if h.presenceInterval <= 0 {
		return
	}

	ticker := time.NewTicker(h.presenceInterval)
	defer ticker.Stop()

	idx := 0
	refresh := h.alertMiddleware.WrapBackgroundTask("presence refresh", func() error {
		return h.updatePresence(presenceStatuses[idx])
	})

	if err := refresh(); err != nil {
		log.Printf("⚠️ Failed to update presence: %v", err)
	}
	for {
		select {
		case <-h.stopPresence:
			return
		case <-ticker.C:
			idx = (idx + 1) % len(presenceStatuses)
			if err := refresh(); err != nil {
				log.Printf("⚠️ Failed to update presence: %v", err)
			}
		}
	}
}

func (h *DiscordEventsHandler) updatePresence(status string) error {
	if err := h.discordSDKClient.UpdateListeningStatus(status); err != nil {
		return fmt.Errorf("failed to update listening status: %w", err)
	}
	return nil
}

// handleReactionAddedEvent handles when a reaction is added to a message
func (h *DiscordEventsHandler) handleReactionAddedEvent(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" {
		return // DM reaction, nothing to reconcile
	}

	log.Printf("🤖 Discord reaction %s added by user %s on message %s in guild %s",
		r.Emoji.Name, r.UserID, r.MessageID, r.GuildID)

	event := mapToReactionEvent(r.GuildID, r.ChannelID, r.MessageID, r.UserID, r.Emoji, models.ReactionAdd)
	h.alertMiddleware.WrapEventTask("MessageReactionAdd", func() error {
		h.reconcileUseCase.OnReactionEvent(context.Background(), event)
		return nil
	})
}

// handleReactionRemovedEvent handles when a reaction is removed from a message
func (h *DiscordEventsHandler) handleReactionRemovedEvent(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.GuildID == "" {
		return
	}

	log.Printf("🤖 Discord reaction %s removed by user %s on message %s in guild %s",
		r.Emoji.Name, r.UserID, r.MessageID, r.GuildID)

	event := mapToReactionEvent(r.GuildID, r.ChannelID, r.MessageID, r.UserID, r.Emoji, models.ReactionRemove)
	h.alertMiddleware.WrapEventTask("MessageReactionRemove", func() error {
		h.reconcileUseCase.OnReactionEvent(context.Background(), event)
		return nil
	})
}

// handleRoleDeletedEvent handles when a role is deleted in a guild
func (h *DiscordEventsHandler) handleRoleDeletedEvent(s *discordgo.Session, e *discordgo.GuildRoleDelete) {
	log.Printf("🤖 Discord role %s deleted in guild %s", e.RoleID, e.GuildID)

	go h.alertMiddleware.WrapEventTask("GuildRoleDelete", func() error {
		return h.reconcileUseCase.OnRoleDeleted(context.Background(), models.RoleDeletedEvent{
			GuildID: e.GuildID,
			RoleID:  e.RoleID,
		})
	})
}

// handleMemberJoinedEvent handles when a member joins a guild
func (h *DiscordEventsHandler) handleMemberJoinedEvent(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	log.Printf("🤖 Member %s joined guild %s", e.User.ID, e.GuildID)

	if e.User.Bot {
		log.Printf("⏭️ Skipping join roles for bot user %s", e.User.ID)
		return
	}

	go h.alertMiddleware.WrapEventTask("GuildMemberAdd", func() error {
		return h.reconcileUseCase.OnMemberJoined(context.Background(), models.MemberJoinedEvent{
			GuildID: e.GuildID,
			UserID:  e.User.ID,
		})
	})
}

// handleGuildRemovedEvent handles when the bot is removed from a guild
func (h *DiscordEventsHandler) handleGuildRemovedEvent(s *discordgo.Session, e *discordgo.GuildDelete) {
	// Unavailable means a Discord outage, not a removal - keep the guild's data
	if e.Unavailable {
		log.Printf("⚠️ Guild %s became unavailable - keeping its configuration", e.ID)
		return
	}

	log.Printf("🤖 Bot removed from guild %s", e.ID)
	go h.alertMiddleware.WrapEventTask("GuildDelete", func() error {
		return h.reconcileUseCase.OnGuildRemoved(context.Background(), e.ID)
	})
}

// mapToReactionEvent maps a Discord SDK reaction payload to our domain model.
// Custom emoji are keyed by ID, unicode emoji by the literal character.
func mapToReactionEvent(
	guildID, channelID, messageID, userID string,
	emoji discordgo.Emoji,
	direction models.ReactionDirection,
) models.ReactionEvent {
	emojiKey := emoji.Name
	if emoji.ID != "" {
		emojiKey = emoji.ID
	}

	return models.ReactionEvent{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		UserID:    userID,
		EmojiKey:  emojiKey,
		Direction: direction,
	}
}
