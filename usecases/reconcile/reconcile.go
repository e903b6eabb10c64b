package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"

	"rolebot/clients"
	"rolebot/models"
	"rolebot/services"
)

// Config tunes the engine's retry behavior for remote role mutations.
type Config struct {
	// MaxRetries bounds retry attempts after the first failure of a
	// transient remote error.
	MaxRetries uint64
	// RemoteTimeout bounds each individual remote API call.
	RemoteTimeout time.Duration
	// InitialBackoff is the first retry delay; subsequent delays grow
	// exponentially.
	InitialBackoff time.Duration
}

// DefaultConfig returns the retry policy used in production
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		RemoteTimeout:  10 * time.Second,
		InitialBackoff: 500 * time.Millisecond,
	}
}

// ReconcileUseCase translates reaction events into role grants and revokes.
// Events for the same (guild, user, emoji) tuple are applied in arrival
// order; everything else runs concurrently. A failed event never stops the
// engine - failures are classified, logged and dropped.
type ReconcileUseCase struct {
	discordClient     clients.DiscordClient
	bindingsService   services.BindingsService
	categoriesService services.CategoriesService
	joinRolesService  services.JoinRolesService
	lanes             *laneSet
	config            Config
}

// NewReconcileUseCase creates a new instance of ReconcileUseCase
func NewReconcileUseCase(
	discordClient clients.DiscordClient,
	bindingsService services.BindingsService,
	categoriesService services.CategoriesService,
	joinRolesService services.JoinRolesService,
	config Config,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		discordClient:     discordClient,
		bindingsService:   bindingsService,
		categoriesService: categoriesService,
		joinRolesService:  joinRolesService,
		lanes:             newLaneSet(),
		config:            config,
	}
}

// OnReactionEvent enqueues a reaction event for reconciliation and returns
// immediately - the ingestion path never blocks on remote calls. Processing
// is serialized per (guild, user, emoji) tuple.
func (u *ReconcileUseCase) OnReactionEvent(ctx context.Context, event models.ReactionEvent) {
	key := event.GuildID + "|" + event.UserID + "|" + event.EmojiKey
	u.lanes.Submit(key, func() {
		if err := u.processReactionEvent(ctx, event); err != nil {
			log.Printf("❌ Failed to reconcile reaction %s by user %s in guild %s: %v",
				event.EmojiKey, event.UserID, event.GuildID, err)
		}
	})
}

// Drain blocks until every queued reaction event has been processed. Used
// during graceful shutdown.
func (u *ReconcileUseCase) Drain() {
	u.lanes.Drain()
}

func (u *ReconcileUseCase) processReactionEvent(ctx context.Context, event models.ReactionEvent) error {
	log.Printf("📋 Starting to reconcile reaction %s (%s) by user %s on message %s in guild %s",
		event.EmojiKey, event.Direction, event.UserID, event.MessageID, event.GuildID)

	// Step 1: Resolve - not every reaction is role-relevant
	maybeBinding, err := u.bindingsService.GetBindingByEmoji(ctx, event.GuildID, event.EmojiKey)
	if err != nil {
		return fmt.Errorf("failed to resolve binding: %w", err)
	}
	if !maybeBinding.IsPresent() {
		log.Printf("⏭️ No binding for emoji %s in guild %s - ignoring reaction", event.EmojiKey, event.GuildID)
		return nil
	}
	binding := maybeBinding.MustGet()

	// Step 2: Authorize - ignore the bot's own seeding reactions
	botUser, err := u.discordClient.GetBotUser()
	if err != nil {
		return fmt.Errorf("failed to get bot user: %w", err)
	}
	if event.UserID == botUser.ID {
		log.Printf("⏭️ Reaction from the bot itself - ignoring")
		return nil
	}

	// Step 3: Act - grants and revokes are idempotent on the Discord side
	var op func(ctx context.Context) error
	switch event.Direction {
	case models.ReactionAdd:
		op = func(ctx context.Context) error {
			return u.discordClient.GrantRole(ctx, event.GuildID, event.UserID, binding.RoleID)
		}
	case models.ReactionRemove:
		op = func(ctx context.Context) error {
			return u.discordClient.RevokeRole(ctx, event.GuildID, event.UserID, binding.RoleID)
		}
	default:
		return fmt.Errorf("unknown reaction direction %q", event.Direction)
	}

	if err := u.callWithRetry(ctx, op); err != nil {
		var remoteErr *clients.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Kind == clients.RemotePermanent {
			// Binding left intact: an administrator has to notice and fix
			// hierarchy or recreate the role.
			return fmt.Errorf("permanent failure applying role %s (%s) for user %s: %w",
				binding.RoleID, binding.RoleName, event.UserID, err)
		}
		return fmt.Errorf("dropping event after retries for role %s, user %s: %w",
			binding.RoleID, event.UserID, err)
	}

	// Step 4: Outcome - success is silent towards the user
	log.Printf("✅ Reconciled reaction %s (%s): role %s for user %s in guild %s",
		event.EmojiKey, event.Direction, binding.RoleID, event.UserID, event.GuildID)
	return nil
}

// OnRoleDeleted removes all state referring to a role deleted server-side.
// Both deletes are idempotent - the notification may race with explicit
// administrator deletes.
func (u *ReconcileUseCase) OnRoleDeleted(ctx context.Context, event models.RoleDeletedEvent) error {
	log.Printf("📋 Starting to clean up deleted role %s in guild %s", event.RoleID, event.GuildID)

	if err := u.bindingsService.DeleteBindingsByRole(ctx, event.RoleID); err != nil {
		return fmt.Errorf("failed to delete bindings for deleted role: %w", err)
	}
	if err := u.joinRolesService.DeleteJoinRolesByRole(ctx, event.RoleID); err != nil {
		return fmt.Errorf("failed to delete join roles for deleted role: %w", err)
	}

	log.Printf("✅ Cleaned up deleted role %s in guild %s", event.RoleID, event.GuildID)
	return nil
}

// OnMemberJoined grants every configured join role to a new member. One
// role failing does not stop the others.
func (u *ReconcileUseCase) OnMemberJoined(ctx context.Context, event models.MemberJoinedEvent) error {
	log.Printf("📋 Starting to apply join roles for user %s in guild %s", event.UserID, event.GuildID)

	joinRoles, err := u.joinRolesService.GetJoinRolesByGuild(ctx, event.GuildID)
	if err != nil {
		return fmt.Errorf("failed to list join roles: %w", err)
	}
	if len(joinRoles) == 0 {
		return nil
	}

	granted := 0
	for _, joinRole := range joinRoles {
		roleID := joinRole.RoleID
		err := u.callWithRetry(ctx, func(ctx context.Context) error {
			return u.discordClient.GrantRole(ctx, event.GuildID, event.UserID, roleID)
		})
		if err != nil {
			log.Printf("❌ Failed to grant join role %s (%s) to user %s in guild %s: %v",
				roleID, joinRole.RoleName, event.UserID, event.GuildID, err)
			continue
		}
		granted++
	}

	log.Printf("✅ Granted %d/%d join role(s) to user %s in guild %s",
		granted, len(joinRoles), event.UserID, event.GuildID)
	return nil
}

// OnGuildRemoved drops all durable state of a guild the bot was removed from.
func (u *ReconcileUseCase) OnGuildRemoved(ctx context.Context, guildID string) error {
	log.Printf("📋 Starting to tear down state for guild %s", guildID)

	if err := u.bindingsService.DeleteBindingsByGuild(ctx, guildID); err != nil {
		return fmt.Errorf("failed to delete guild bindings: %w", err)
	}
	if err := u.categoriesService.DeleteCategoriesByGuild(ctx, guildID); err != nil {
		return fmt.Errorf("failed to delete guild categories: %w", err)
	}
	if err := u.joinRolesService.DeleteJoinRolesByGuild(ctx, guildID); err != nil {
		return fmt.Errorf("failed to delete guild join roles: %w", err)
	}

	log.Printf("✅ Tore down state for guild %s", guildID)
	return nil
}

// callWithRetry runs op with a per-attempt timeout, retrying transient remote
// failures with bounded exponential backoff. Permanent failures stop the
// retry loop immediately.
func (u *ReconcileUseCase) callWithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, u.config.RemoteTimeout)
		defer cancel()

		err := op(attemptCtx)
		if err == nil {
			return nil
		}

		var remoteErr *clients.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.Kind == clients.RemotePermanent {
			return backoff.Permanent(err)
		}
		return err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = u.config.InitialBackoff

	return backoff.Retry(operation, backoff.WithMaxRetries(expBackoff, u.config.MaxRetries))
}
