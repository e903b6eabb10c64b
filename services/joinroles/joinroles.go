package joinroles

import (
	"context"
	"fmt"
	"log"

	"rolebot/clients"
	"rolebot/core"
	"rolebot/models"
	"rolebot/services"
	"rolebot/services/bindings"
)

// MaxJoinRolesPerGuild caps the roles auto-granted on member join
const MaxJoinRolesPerGuild = 5

// JoinRolesRepository defines the interface for join role repository operations
type JoinRolesRepository interface {
	CreateJoinRole(ctx context.Context, joinRole *models.JoinRole) error
	GetJoinRolesByGuild(ctx context.Context, guildID string) ([]*models.JoinRole, error)
	DeleteJoinRolesByRole(ctx context.Context, roleID string) (int64, error)
	DeleteJoinRolesByGuild(ctx context.Context, guildID string) (int64, error)
}

// JoinRolesService manages the roles granted automatically to new members.
type JoinRolesService struct {
	joinRolesRepo JoinRolesRepository
	discordClient clients.DiscordClient
	txManager     services.TransactionManager
}

func NewJoinRolesService(
	repo JoinRolesRepository,
	discordClient clients.DiscordClient,
	txManager services.TransactionManager,
) *JoinRolesService {
	return &JoinRolesService{
		joinRolesRepo: repo,
		discordClient: discordClient,
		txManager:     txManager,
	}
}

// CreateJoinRole registers a role to be granted on member join. The same
// hierarchy rule as bindings applies - the bot must outrank the role.
func (s *JoinRolesService) CreateJoinRole(ctx context.Context, guildID, roleID string) (*models.JoinRole, error) {
	log.Printf("📋 Starting to create join role %s in guild %s", roleID, guildID)
	if guildID == "" {
		return nil, fmt.Errorf("guild ID cannot be empty")
	}
	if roleID == "" {
		return nil, fmt.Errorf("role ID cannot be empty")
	}

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
	if !bindings.CanManageRole(bindings.BotTopPosition(guildRoles, botRoleIDs), targetRole.Position) {
		return nil, fmt.Errorf("role %q is above the bot's highest role", targetRole.Name)
	}

	var joinRole *models.JoinRole
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.joinRolesRepo.GetJoinRolesByGuild(txCtx, guildID)
		if err != nil {
			return fmt.Errorf("failed to list join roles: %w", err)
		}
		if len(existing) >= MaxJoinRolesPerGuild {
			return fmt.Errorf("guild %s already has %d join roles, the maximum is %d",
				guildID, len(existing), MaxJoinRolesPerGuild)
		}
		for _, jr := range existing {
			if jr.RoleID == roleID {
				return fmt.Errorf("role %s is already a join role in guild %s", roleID, guildID)
			}
		}

		joinRole = &models.JoinRole{
			ID:       core.NewID("jr"),
			GuildID:  guildID,
			RoleID:   roleID,
			RoleName: targetRole.Name,
		}
		if err := s.joinRolesRepo.CreateJoinRole(txCtx, joinRole); err != nil {
			return fmt.Errorf("failed to persist join role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Created join role %s (role %s) in guild %s", joinRole.ID, roleID, guildID)
	return joinRole, nil
}

// DeleteJoinRolesByRole removes the join role entry for a role. Invoked
// reactively on role deletions, so a zero-row delete is a successful no-op.
func (s *JoinRolesService) DeleteJoinRolesByRole(ctx context.Context, roleID string) error {
	log.Printf("📋 Starting to delete join roles for role %s", roleID)
	if roleID == "" {
		return fmt.Errorf("role ID cannot be empty")
	}

	deleted, err := s.joinRolesRepo.DeleteJoinRolesByRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to delete join roles by role: %w", err)
	}

	log.Printf("✅ Deleted %d join role(s) for role %s", deleted, roleID)
	return nil
}

// DeleteJoinRolesByGuild removes every join role of a guild (guild teardown)
func (s *JoinRolesService) DeleteJoinRolesByGuild(ctx context.Context, guildID string) error {
	log.Printf("📋 Starting to delete join roles for guild %s", guildID)
	if guildID == "" {
		return fmt.Errorf("guild ID cannot be empty")
	}

	deleted, err := s.joinRolesRepo.DeleteJoinRolesByGuild(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to delete join roles by guild: %w", err)
	}

	log.Printf("✅ Deleted %d join role(s) for guild %s", deleted, guildID)
	return nil
}

// GetJoinRolesByGuild lists the join roles of a guild in creation order
func (s *JoinRolesService) GetJoinRolesByGuild(ctx context.Context, guildID string) ([]*models.JoinRole, error) {
	return s.joinRolesRepo.GetJoinRolesByGuild(ctx, guildID)
}
