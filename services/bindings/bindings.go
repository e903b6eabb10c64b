package bindings

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"rolebot/clients"
	"rolebot/core"
	"rolebot/db"
	"rolebot/models"
	"rolebot/services"
)

// MaxUncategorizedBindings is the hard ceiling on bindings outside any
// category. Discord renders uncategorized bindings as an interactive control
// row limited to 25 slots, one of which is reserved.
const MaxUncategorizedBindings = 24

// BindingsRepository defines the interface for binding repository operations
type BindingsRepository interface {
	CreateBinding(ctx context.Context, binding *models.Binding) error
	GetBindingByID(ctx context.Context, id string) (mo.Option[*models.Binding], error)
	GetBindingByEmoji(ctx context.Context, guildID, emojiKey string) (mo.Option[*models.Binding], error)
	GetBindingByRole(ctx context.Context, guildID, roleID string) (mo.Option[*models.Binding], error)
	GetBindingsByGuild(ctx context.Context, guildID string) ([]*models.Binding, error)
	GetUncategorizedBindingCount(ctx context.Context, guildID string) (int, error)
	DeleteBindingByID(ctx context.Context, id string) (bool, error)
	DeleteBindingsByRole(ctx context.Context, roleID string) (int64, error)
	DeleteBindingsByGuild(ctx context.Context, guildID string) (int64, error)
}

// BindingsService is the binding manager: it owns every mutation of the
// guild+emoji -> role mapping and enforces the capacity, hierarchy and
// uniqueness invariants before anything is persisted.
type BindingsService struct {
	bindingsRepo  BindingsRepository
	discordClient clients.DiscordClient
	txManager     services.TransactionManager
}

func NewBindingsService(
	repo BindingsRepository,
	discordClient clients.DiscordClient,
	txManager services.TransactionManager,
) *BindingsService {
	return &BindingsService{
		bindingsRepo:  repo,
		discordClient: discordClient,
		txManager:     txManager,
	}
}

// CreateBinding validates and persists a new emoji -> role binding.
// Preconditions are checked in a fixed order, short-circuiting on the first
// failure: capacity, hierarchy, emoji resolvability, emoji uniqueness, role
// uniqueness. Hierarchy is validated at creation time only - later role
// reordering surfaces as a permanent remote error during reconciliation.
func (s *BindingsService) CreateBinding(
	ctx context.Context,
	guildID, roleID, rawEmoji string,
) (*models.Binding, error) {
	log.Printf("📋 Starting to create binding for role %s with emoji %q in guild %s", roleID, rawEmoji, guildID)
	if guildID == "" {
		return nil, fmt.Errorf("guild ID cannot be empty")
	}
	if roleID == "" {
		return nil, fmt.Errorf("role ID cannot be empty")
	}

	// Remote reads happen up front so the transaction below stays narrow.
	guildRoles, err := s.discordClient.GetGuildRoles(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roles: %w", err)
	}
	botRoleIDs, err := s.discordClient.GetBotMemberRoleIDs(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot member roles: %w", err)
	}

	var targetRole *clients.DiscordRole
	for i := range guildRoles {
		if guildRoles[i].ID == roleID {
			targetRole = &guildRoles[i]
			break
		}
	}
	if targetRole == nil {
		return nil, fmt.Errorf("role %s in guild %s: %w", roleID, guildID, core.ErrNotFound)
	}

	botTop := BotTopPosition(guildRoles, botRoleIDs)
	hierarchyOK := CanManageRole(botTop, targetRole.Position)
	emoji, emojiErr := ResolveEmoji(rawEmoji)

	// Uniqueness checks and the insert run in one transaction so two
	// concurrent creates cannot both pass the checks and race on the same
	// emoji or role.
	var binding *models.Binding
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		count, err := s.bindingsRepo.GetUncategorizedBindingCount(txCtx, guildID)
		if err != nil {
			return fmt.Errorf("failed to count uncategorized bindings: %w", err)
		}
		if count >= MaxUncategorizedBindings {
			return newCapacityExceededError(count)
		}

		if !hierarchyOK {
			return newInsufficientHierarchyError(targetRole.Name)
		}

		if emojiErr != nil {
			return newUnresolvableEmojiError(rawEmoji, emojiErr)
		}

		maybeConflict, err := s.bindingsRepo.GetBindingByEmoji(txCtx, guildID, emoji.Key)
		if err != nil {
			return fmt.Errorf("failed to check emoji uniqueness: %w", err)
		}
		if maybeConflict.IsPresent() {
			return newEmojiAlreadyBoundError(maybeConflict.MustGet())
		}

		maybeConflict, err = s.bindingsRepo.GetBindingByRole(txCtx, guildID, roleID)
		if err != nil {
			return fmt.Errorf("failed to check role uniqueness: %w", err)
		}
		if maybeConflict.IsPresent() {
			return newRoleAlreadyBoundError(maybeConflict.MustGet())
		}

		binding = &models.Binding{
			ID:           core.NewID("bnd"),
			GuildID:      guildID,
			RoleID:       roleID,
			RoleName:     targetRole.Name,
			EmojiKey:     emoji.Key,
			EmojiDisplay: emoji.Display,
			Kind:         models.BindingKindNormal,
		}
		if err := s.bindingsRepo.CreateBinding(txCtx, binding); err != nil {
			// The unique indexes are the backstop for creates racing in
			// from outside this transaction's snapshot.
			if db.IsUniqueViolation(err, db.BindingsGuildEmojiConstraint) {
				return &ValidationError{
					Code:    CodeEmojiAlreadyBound,
					Message: fmt.Sprintf("emoji %s was just bound by a concurrent request", emoji.Key),
				}
			}
			if db.IsUniqueViolation(err, db.BindingsGuildRoleConstraint) {
				return &ValidationError{
					Code:    CodeRoleAlreadyBound,
					Message: fmt.Sprintf("role %s was just bound by a concurrent request", roleID),
				}
			}
			return fmt.Errorf("failed to persist binding: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Created binding %s (emoji %s -> role %s) in guild %s", binding.ID, binding.EmojiKey, roleID, guildID)
	return binding, nil
}

// DeleteBinding removes a binding by ID. Deleting a binding that no longer
// exists is a no-op - deletes race with server-side role deletions.
func (s *BindingsService) DeleteBinding(ctx context.Context, bindingID string) error {
	log.Printf("📋 Starting to delete binding %s", bindingID)
	if bindingID == "" {
		return fmt.Errorf("binding ID cannot be empty")
	}

	deleted, err := s.bindingsRepo.DeleteBindingByID(ctx, bindingID)
	if err != nil {
		return fmt.Errorf("failed to delete binding: %w", err)
	}
	if !deleted {
		log.Printf("⏭️ Binding %s was already gone - nothing to do", bindingID)
		return nil
	}

	log.Printf("✅ Deleted binding %s", bindingID)
	return nil
}

// DeleteBindingsByRole removes every binding for a role, across categories.
// Invoked reactively on role-deletion notifications, so a zero-row delete is
// a successful no-op.
func (s *BindingsService) DeleteBindingsByRole(ctx context.Context, roleID string) error {
	log.Printf("📋 Starting to delete bindings for role %s", roleID)
	if roleID == "" {
		return fmt.Errorf("role ID cannot be empty")
	}

	deleted, err := s.bindingsRepo.DeleteBindingsByRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to delete bindings by role: %w", err)
	}

	log.Printf("✅ Deleted %d binding(s) for role %s", deleted, roleID)
	return nil
}

// DeleteBindingsByGuild removes every binding for a guild (guild teardown).
func (s *BindingsService) DeleteBindingsByGuild(ctx context.Context, guildID string) error {
	log.Printf("📋 Starting to delete bindings for guild %s", guildID)
	if guildID == "" {
		return fmt.Errorf("guild ID cannot be empty")
	}

	deleted, err := s.bindingsRepo.DeleteBindingsByGuild(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to delete bindings by guild: %w", err)
	}

	log.Printf("✅ Deleted %d binding(s) for guild %s", deleted, guildID)
	return nil
}

// GetBindingByEmoji resolves a reaction emoji to its binding, if any
func (s *BindingsService) GetBindingByEmoji(
	ctx context.Context,
	guildID, emojiKey string,
) (mo.Option[*models.Binding], error) {
	return s.bindingsRepo.GetBindingByEmoji(ctx, guildID, emojiKey)
}

// GetBindingByRole returns the binding using a role, if any
func (s *BindingsService) GetBindingByRole(
	ctx context.Context,
	guildID, roleID string,
) (mo.Option[*models.Binding], error) {
	return s.bindingsRepo.GetBindingByRole(ctx, guildID, roleID)
}

// GetBindingsByGuild lists all bindings of a guild in creation order
func (s *BindingsService) GetBindingsByGuild(ctx context.Context, guildID string) ([]*models.Binding, error) {
	return s.bindingsRepo.GetBindingsByGuild(ctx, guildID)
}

// GetUncategorizedBindingCount counts the bindings outside any category
func (s *BindingsService) GetUncategorizedBindingCount(ctx context.Context, guildID string) (int, error) {
	return s.bindingsRepo.GetUncategorizedBindingCount(ctx, guildID)
}
