package usecases

import (
	"context"

	"rolebot/models"
)

// ReconcileUseCaseInterface defines the reconciliation operations invoked by
// the transport layer's event subscriptions
type ReconcileUseCaseInterface interface {
	OnReactionEvent(ctx context.Context, event models.ReactionEvent)
	OnRoleDeleted(ctx context.Context, event models.RoleDeletedEvent) error
	OnMemberJoined(ctx context.Context, event models.MemberJoinedEvent) error
	OnGuildRemoved(ctx context.Context, guildID string) error
	Drain()
}

// DispatchUseCaseInterface defines the category seeding operation invoked by
// the command layer
type DispatchUseCaseInterface interface {
	SeedCategory(ctx context.Context, categoryID, channelID, messageID string) (*models.SeedResult, error)
}
