package dispatch

import (
	"context"
	"fmt"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	discordclient "rolebot/clients/discord"
	"rolebot/core"
	"rolebot/models"
	"rolebot/services"
)

const (
	testGuildID    = "guild-123"
	testCategoryID = "cat_456"
	testChannelID  = "channel-789"
	testMessageID  = "msg-abc"
)

type dispatchUseCaseTestFixture struct {
	useCase           *DispatchUseCase
	discordClient     *discordclient.MockDiscordClient
	categoriesService *services.MockCategoriesService
	ctx               context.Context
}

func setupDispatchUseCaseTest(t *testing.T) *dispatchUseCaseTestFixture {
	mockDiscord := new(discordclient.MockDiscordClient)
	mockCategories := new(services.MockCategoriesService)

	useCase := NewDispatchUseCase(mockDiscord, mockCategories)

	return &dispatchUseCaseTestFixture{
		useCase:           useCase,
		discordClient:     mockDiscord,
		categoriesService: mockCategories,
		ctx:               context.Background(),
	}
}

func (f *dispatchUseCaseTestFixture) assertAllExpectations(t *testing.T) {
	f.discordClient.AssertExpectations(t)
	f.categoriesService.AssertExpectations(t)
}

func createTestCategory() *models.Category {
	return &models.Category{
		ID:      testCategoryID,
		GuildID: testGuildID,
		Name:    "Colors",
	}
}

func createTestCategoryBindings() []*models.Binding {
	display := "<:nn:123456789012345678>"
	return []*models.Binding{
		{ID: "bnd_1", GuildID: testGuildID, RoleID: "role-1", EmojiKey: "🔴"},
		{ID: "bnd_2", GuildID: testGuildID, RoleID: "role-2", EmojiKey: "123456789012345678", EmojiDisplay: &display},
		{ID: "bnd_3", GuildID: testGuildID, RoleID: "role-3", EmojiKey: "🔵"},
	}
}

func TestSeedCategory(t *testing.T) {
	t.Run("seeds_every_binding_in_order", func(t *testing.T) {
		fixture := setupDispatchUseCaseTest(t)

		fixture.categoriesService.On("GetCategoryByID", fixture.ctx, testCategoryID).
			Return(mo.Some(createTestCategory()), nil)
		fixture.categoriesService.On("GetCategoryBindings", fixture.ctx, testCategoryID).
			Return(createTestCategoryBindings(), nil)
		fixture.discordClient.On("AddReaction", fixture.ctx, testChannelID, testMessageID, "🔴").Return(nil)
		fixture.discordClient.On("AddReaction", fixture.ctx, testChannelID, testMessageID, "nn:123456789012345678").
			Return(nil)
		fixture.discordClient.On("AddReaction", fixture.ctx, testChannelID, testMessageID, "🔵").Return(nil)

		result, err := fixture.useCase.SeedCategory(fixture.ctx, testCategoryID, testChannelID, testMessageID)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Seeded)
		assert.Empty(t, result.Failures)
		assert.False(t, result.PartialFailure())
		fixture.assertAllExpectations(t)
	})

	t.Run("one_failing_emoji_does_not_stop_the_rest", func(t *testing.T) {
		fixture := setupDispatchUseCaseTest(t)

		catBindings := createTestCategoryBindings()

		fixture.categoriesService.On("GetCategoryByID", fixture.ctx, testCategoryID).
			Return(mo.Some(createTestCategory()), nil)
		fixture.categoriesService.On("GetCategoryBindings", fixture.ctx, testCategoryID).
			Return(catBindings, nil)
		fixture.discordClient.On("AddReaction", fixture.ctx, testChannelID, testMessageID, "🔴").Return(nil)
		fixture.discordClient.On("AddReaction", fixture.ctx, testChannelID, testMessageID, "nn:123456789012345678").
			Return(fmt.Errorf("unknown emoji"))
		fixture.discordClient.On("AddReaction", fixture.ctx, testChannelID, testMessageID, "🔵").Return(nil)

		result, err := fixture.useCase.SeedCategory(fixture.ctx, testCategoryID, testChannelID, testMessageID)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Seeded)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, "bnd_2", result.Failures[0].Binding.ID)
		assert.True(t, result.PartialFailure())
		fixture.assertAllExpectations(t)
	})

	t.Run("error_category_not_found", func(t *testing.T) {
		fixture := setupDispatchUseCaseTest(t)

		fixture.categoriesService.On("GetCategoryByID", fixture.ctx, testCategoryID).
			Return(mo.None[*models.Category](), nil)

		_, err := fixture.useCase.SeedCategory(fixture.ctx, testCategoryID, testChannelID, testMessageID)

		assert.ErrorIs(t, err, core.ErrNotFound)
		fixture.assertAllExpectations(t)
	})

	t.Run("error_empty_category", func(t *testing.T) {
		fixture := setupDispatchUseCaseTest(t)

		fixture.categoriesService.On("GetCategoryByID", fixture.ctx, testCategoryID).
			Return(mo.Some(createTestCategory()), nil)
		fixture.categoriesService.On("GetCategoryBindings", fixture.ctx, testCategoryID).
			Return([]*models.Binding{}, nil)

		_, err := fixture.useCase.SeedCategory(fixture.ctx, testCategoryID, testChannelID, testMessageID)

		assert.Error(t, err)
		fixture.assertAllExpectations(t)
	})
}
