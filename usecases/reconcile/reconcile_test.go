package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rolebot/clients"
	discordclient "rolebot/clients/discord"
	"rolebot/models"
	"rolebot/services"
)

const (
	testGuildID   = "guild-123"
	testChannelID = "channel-456"
	testMessageID = "msg-789"
	testUserID    = "user-abc"
	testRoleID    = "role-def"
	testEmojiKey  = "🎉"
	testBotID     = "bot-xyz"
)

type reconcileUseCaseTestFixture struct {
	useCase *ReconcileUseCase
	mocks   *reconcileUseCaseMocks
	ctx     context.Context
}

type reconcileUseCaseMocks struct {
	discordClient     *discordclient.MockDiscordClient
	bindingsService   *services.MockBindingsService
	categoriesService *services.MockCategoriesService
	joinRolesService  *services.MockJoinRolesService
}

func setupReconcileUseCaseTest(t *testing.T) *reconcileUseCaseTestFixture {
	mocks := &reconcileUseCaseMocks{
		discordClient:     new(discordclient.MockDiscordClient),
		bindingsService:   new(services.MockBindingsService),
		categoriesService: new(services.MockCategoriesService),
		joinRolesService:  new(services.MockJoinRolesService),
	}

	// Fast retries so transient-failure tests finish quickly
	config := Config{
		MaxRetries:     2,
		RemoteTimeout:  time.Second,
		InitialBackoff: time.Millisecond,
	}

	useCase := NewReconcileUseCase(
		mocks.discordClient,
		mocks.bindingsService,
		mocks.categoriesService,
		mocks.joinRolesService,
		config,
	)

	return &reconcileUseCaseTestFixture{
		useCase: useCase,
		mocks:   mocks,
		ctx:     context.Background(),
	}
}

func (f *reconcileUseCaseTestFixture) assertAllExpectations(t *testing.T) {
	f.mocks.discordClient.AssertExpectations(t)
	f.mocks.bindingsService.AssertExpectations(t)
	f.mocks.categoriesService.AssertExpectations(t)
	f.mocks.joinRolesService.AssertExpectations(t)
}

func createTestBinding() *models.Binding {
	return &models.Binding{
		ID:       "bnd_123",
		GuildID:  testGuildID,
		RoleID:   testRoleID,
		RoleName: "Gamers",
		EmojiKey: testEmojiKey,
	}
}

func createTestBotUser() *clients.DiscordUser {
	return &clients.DiscordUser{
		ID:       testBotID,
		Username: "rolebot",
		Bot:      true,
	}
}

func createTestReactionEvent(direction models.ReactionDirection) models.ReactionEvent {
	return models.ReactionEvent{
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		MessageID: testMessageID,
		UserID:    testUserID,
		EmojiKey:  testEmojiKey,
		Direction: direction,
	}
}

func TestOnReactionEvent(t *testing.T) {
	t.Run("add_grants_the_bound_role", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		fixture.mocks.bindingsService.On("GetBindingByEmoji", mock.Anything, testGuildID, testEmojiKey).
			Return(mo.Some(createTestBinding()), nil)
		fixture.mocks.discordClient.On("GetBotUser").Return(createTestBotUser(), nil)
		fixture.mocks.discordClient.On("GrantRole", mock.Anything, testGuildID, testUserID, testRoleID).
			Return(nil)

		fixture.useCase.OnReactionEvent(fixture.ctx, createTestReactionEvent(models.ReactionAdd))
		fixture.useCase.Drain()

		fixture.assertAllExpectations(t)
	})

	t.Run("remove_revokes_the_bound_role", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		fixture.mocks.bindingsService.On("GetBindingByEmoji", mock.Anything, testGuildID, testEmojiKey).
			Return(mo.Some(createTestBinding()), nil)
		fixture.mocks.discordClient.On("GetBotUser").Return(createTestBotUser(), nil)
		fixture.mocks.discordClient.On("RevokeRole", mock.Anything, testGuildID, testUserID, testRoleID).
			Return(nil)

		fixture.useCase.OnReactionEvent(fixture.ctx, createTestReactionEvent(models.ReactionRemove))
		fixture.useCase.Drain()

		fixture.assertAllExpectations(t)
	})

	t.Run("unbound_emoji_is_ignored", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		fixture.mocks.bindingsService.On("GetBindingByEmoji", mock.Anything, testGuildID, testEmojiKey).
			Return(mo.None[*models.Binding](), nil)

		fixture.useCase.OnReactionEvent(fixture.ctx, createTestReactionEvent(models.ReactionAdd))
		fixture.useCase.Drain()

		fixture.mocks.discordClient.AssertNotCalled(t, "GrantRole",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		fixture.assertAllExpectations(t)
	})

	t.Run("bot_own_seeding_reaction_is_ignored", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		event := createTestReactionEvent(models.ReactionAdd)
		event.UserID = testBotID

		fixture.mocks.bindingsService.On("GetBindingByEmoji", mock.Anything, testGuildID, testEmojiKey).
			Return(mo.Some(createTestBinding()), nil)
		fixture.mocks.discordClient.On("GetBotUser").Return(createTestBotUser(), nil)

		fixture.useCase.OnReactionEvent(fixture.ctx, event)
		fixture.useCase.Drain()

		fixture.mocks.discordClient.AssertNotCalled(t, "GrantRole",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		fixture.assertAllExpectations(t)
	})

	t.Run("transient_failure_is_retried_until_success", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		transientErr := clients.NewTransientError(0, fmt.Errorf("rate limited"))

		fixture.mocks.bindingsService.On("GetBindingByEmoji", mock.Anything, testGuildID, testEmojiKey).
			Return(mo.Some(createTestBinding()), nil)
		fixture.mocks.discordClient.On("GetBotUser").Return(createTestBotUser(), nil)
		fixture.mocks.discordClient.On("GrantRole", mock.Anything, testGuildID, testUserID, testRoleID).
			Return(transientErr).Twice()
		fixture.mocks.discordClient.On("GrantRole", mock.Anything, testGuildID, testUserID, testRoleID).
			Return(nil).Once()

		fixture.useCase.OnReactionEvent(fixture.ctx, createTestReactionEvent(models.ReactionAdd))
		fixture.useCase.Drain()

		fixture.mocks.discordClient.AssertNumberOfCalls(t, "GrantRole", 3)
		fixture.assertAllExpectations(t)
	})

	t.Run("permanent_failure_is_not_retried", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		permanentErr := clients.NewPermanentError(50013, fmt.Errorf("missing permissions"))

		fixture.mocks.bindingsService.On("GetBindingByEmoji", mock.Anything, testGuildID, testEmojiKey).
			Return(mo.Some(createTestBinding()), nil)
		fixture.mocks.discordClient.On("GetBotUser").Return(createTestBotUser(), nil)
		fixture.mocks.discordClient.On("GrantRole", mock.Anything, testGuildID, testUserID, testRoleID).
			Return(permanentErr)

		fixture.useCase.OnReactionEvent(fixture.ctx, createTestReactionEvent(models.ReactionAdd))
		fixture.useCase.Drain()

		fixture.mocks.discordClient.AssertNumberOfCalls(t, "GrantRole", 1)
		fixture.assertAllExpectations(t)
	})

	t.Run("event_dropped_after_retries_are_exhausted", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		transientErr := clients.NewTransientError(0, fmt.Errorf("rate limited"))

		fixture.mocks.bindingsService.On("GetBindingByEmoji", mock.Anything, testGuildID, testEmojiKey).
			Return(mo.Some(createTestBinding()), nil)
		fixture.mocks.discordClient.On("GetBotUser").Return(createTestBotUser(), nil)
		fixture.mocks.discordClient.On("GrantRole", mock.Anything, testGuildID, testUserID, testRoleID).
			Return(transientErr)

		fixture.useCase.OnReactionEvent(fixture.ctx, createTestReactionEvent(models.ReactionAdd))
		fixture.useCase.Drain()

		// Initial attempt plus MaxRetries retries
		fixture.mocks.discordClient.AssertNumberOfCalls(t, "GrantRole", 3)
		fixture.assertAllExpectations(t)
	})
}

func TestOnRoleDeleted(t *testing.T) {
	t.Run("cascades_to_bindings_and_join_roles", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		fixture.mocks.bindingsService.On("DeleteBindingsByRole", fixture.ctx, testRoleID).Return(nil)
		fixture.mocks.joinRolesService.On("DeleteJoinRolesByRole", fixture.ctx, testRoleID).Return(nil)

		err := fixture.useCase.OnRoleDeleted(fixture.ctx, models.RoleDeletedEvent{
			GuildID: testGuildID,
			RoleID:  testRoleID,
		})

		assert.NoError(t, err)
		fixture.assertAllExpectations(t)
	})

	t.Run("error_binding_cascade_fails", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		fixture.mocks.bindingsService.On("DeleteBindingsByRole", fixture.ctx, testRoleID).
			Return(fmt.Errorf("database unavailable"))

		err := fixture.useCase.OnRoleDeleted(fixture.ctx, models.RoleDeletedEvent{
			GuildID: testGuildID,
			RoleID:  testRoleID,
		})

		assert.Error(t, err)
		fixture.assertAllExpectations(t)
	})
}

func TestOnMemberJoined(t *testing.T) {
	t.Run("grants_all_join_roles", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		joinRoles := []*models.JoinRole{
			{ID: "jr_1", GuildID: testGuildID, RoleID: "role-1", RoleName: "Newcomer"},
			{ID: "jr_2", GuildID: testGuildID, RoleID: "role-2", RoleName: "Member"},
		}

		fixture.mocks.joinRolesService.On("GetJoinRolesByGuild", fixture.ctx, testGuildID).
			Return(joinRoles, nil)
		fixture.mocks.discordClient.On("GrantRole", mock.Anything, testGuildID, testUserID, "role-1").Return(nil)
		fixture.mocks.discordClient.On("GrantRole", mock.Anything, testGuildID, testUserID, "role-2").Return(nil)

		err := fixture.useCase.OnMemberJoined(fixture.ctx, models.MemberJoinedEvent{
			GuildID: testGuildID,
			UserID:  testUserID,
		})

		assert.NoError(t, err)
		fixture.assertAllExpectations(t)
	})

	t.Run("one_failing_role_does_not_stop_the_others", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		joinRoles := []*models.JoinRole{
			{ID: "jr_1", GuildID: testGuildID, RoleID: "role-1", RoleName: "Newcomer"},
			{ID: "jr_2", GuildID: testGuildID, RoleID: "role-2", RoleName: "Member"},
		}

		fixture.mocks.joinRolesService.On("GetJoinRolesByGuild", fixture.ctx, testGuildID).
			Return(joinRoles, nil)
		fixture.mocks.discordClient.On("GrantRole", mock.Anything, testGuildID, testUserID, "role-1").
			Return(clients.NewPermanentError(10011, fmt.Errorf("unknown role")))
		fixture.mocks.discordClient.On("GrantRole", mock.Anything, testGuildID, testUserID, "role-2").Return(nil)

		err := fixture.useCase.OnMemberJoined(fixture.ctx, models.MemberJoinedEvent{
			GuildID: testGuildID,
			UserID:  testUserID,
		})

		assert.NoError(t, err)
		fixture.assertAllExpectations(t)
	})

	t.Run("no_join_roles_is_a_noop", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		fixture.mocks.joinRolesService.On("GetJoinRolesByGuild", fixture.ctx, testGuildID).
			Return([]*models.JoinRole{}, nil)

		err := fixture.useCase.OnMemberJoined(fixture.ctx, models.MemberJoinedEvent{
			GuildID: testGuildID,
			UserID:  testUserID,
		})

		assert.NoError(t, err)
		fixture.mocks.discordClient.AssertNotCalled(t, "GrantRole",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		fixture.assertAllExpectations(t)
	})
}

func TestOnGuildRemoved(t *testing.T) {
	t.Run("tears_down_all_guild_state", func(t *testing.T) {
		fixture := setupReconcileUseCaseTest(t)

		fixture.mocks.bindingsService.On("DeleteBindingsByGuild", fixture.ctx, testGuildID).Return(nil)
		fixture.mocks.categoriesService.On("DeleteCategoriesByGuild", fixture.ctx, testGuildID).Return(nil)
		fixture.mocks.joinRolesService.On("DeleteJoinRolesByGuild", fixture.ctx, testGuildID).Return(nil)

		err := fixture.useCase.OnGuildRemoved(fixture.ctx, testGuildID)

		assert.NoError(t, err)
		fixture.assertAllExpectations(t)
	})
}
