package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rolebot/models"
)

// MockReconcileUseCase is a mock implementation of ReconcileUseCaseInterface
type MockReconcileUseCase struct {
	mock.Mock
}

func (m *MockReconcileUseCase) OnReactionEvent(ctx context.Context, event models.ReactionEvent) {
	m.Called(ctx, event)
}

func (m *MockReconcileUseCase) OnRoleDeleted(ctx context.Context, event models.RoleDeletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockReconcileUseCase) OnMemberJoined(ctx context.Context, event models.MemberJoinedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockReconcileUseCase) OnGuildRemoved(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockReconcileUseCase) Drain() {
	m.Called()
}

// MockDispatchUseCase is a mock implementation of DispatchUseCaseInterface
type MockDispatchUseCase struct {
	mock.Mock
}

func (m *MockDispatchUseCase) SeedCategory(
	ctx context.Context,
	categoryID, channelID, messageID string,
) (*models.SeedResult, error) {
	args := m.Called(ctx, categoryID, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SeedResult), args.Error(1)
}
