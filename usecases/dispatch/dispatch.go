package dispatch

import (
	"context"
	"fmt"
	"log"

	"rolebot/clients"
	"rolebot/core"
	"rolebot/models"
	"rolebot/services"
)

// DispatchUseCase fans a single "react to this message" request out to every
// binding in a category, pre-seeding the target message's reactions so
// members have something to click.
type DispatchUseCase struct {
	discordClient     clients.DiscordClient
	categoriesService services.CategoriesService
}

// NewDispatchUseCase creates a new instance of DispatchUseCase
func NewDispatchUseCase(
	discordClient clients.DiscordClient,
	categoriesService services.CategoriesService,
) *DispatchUseCase {
	return &DispatchUseCase{
		discordClient:     discordClient,
		categoriesService: categoriesService,
	}
}

// SeedCategory adds each binding's emoji as a reaction to the target message,
// in category order. A single failing emoji (stale custom emoji, deleted
// message permissions) is logged and skipped - the remaining bindings are
// still seeded.
func (u *DispatchUseCase) SeedCategory(
	ctx context.Context,
	categoryID, channelID, messageID string,
) (*models.SeedResult, error) {
	log.Printf("📋 Starting to seed category %s onto message %s in channel %s", categoryID, messageID, channelID)

	maybeCategory, err := u.categoriesService.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if !maybeCategory.IsPresent() {
		return nil, fmt.Errorf("category %s: %w", categoryID, core.ErrNotFound)
	}

	catBindings, err := u.categoriesService.GetCategoryBindings(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category bindings: %w", err)
	}
	if len(catBindings) == 0 {
		return nil, fmt.Errorf("category %s has no bindings to seed", categoryID)
	}

	result := &models.SeedResult{CategoryID: categoryID}
	for _, binding := range catBindings {
		err := u.discordClient.AddReaction(ctx, channelID, messageID, binding.ReactionEmoji())
		if err != nil {
			log.Printf("⚠️ Failed to seed emoji %s (binding %s) onto message %s: %v",
				binding.EmojiMention(), binding.ID, messageID, err)
			result.Failures = append(result.Failures, models.SeedFailure{Binding: binding, Err: err})
			continue
		}
		result.Seeded++
	}

	log.Printf("✅ Seeded %d/%d emoji(s) from category %s onto message %s",
		result.Seeded, len(catBindings), categoryID, messageID)
	return result, nil
}
