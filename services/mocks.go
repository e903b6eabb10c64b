package services

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"rolebot/models"
)

// MockBindingsService is a mock implementation of BindingsService
type MockBindingsService struct {
	mock.Mock
}

func (m *MockBindingsService) CreateBinding(
	ctx context.Context,
	guildID, roleID, rawEmoji string,
) (*models.Binding, error) {
	args := m.Called(ctx, guildID, roleID, rawEmoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Binding), args.Error(1)
}

func (m *MockBindingsService) DeleteBinding(ctx context.Context, bindingID string) error {
	args := m.Called(ctx, bindingID)
	return args.Error(0)
}

func (m *MockBindingsService) DeleteBindingsByRole(ctx context.Context, roleID string) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *MockBindingsService) DeleteBindingsByGuild(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockBindingsService) GetBindingByEmoji(
	ctx context.Context,
	guildID, emojiKey string,
) (mo.Option[*models.Binding], error) {
	args := m.Called(ctx, guildID, emojiKey)
	return args.Get(0).(mo.Option[*models.Binding]), args.Error(1)
}

func (m *MockBindingsService) GetBindingByRole(
	ctx context.Context,
	guildID, roleID string,
) (mo.Option[*models.Binding], error) {
	args := m.Called(ctx, guildID, roleID)
	return args.Get(0).(mo.Option[*models.Binding]), args.Error(1)
}

func (m *MockBindingsService) GetBindingsByGuild(ctx context.Context, guildID string) ([]*models.Binding, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Binding), args.Error(1)
}

func (m *MockBindingsService) GetUncategorizedBindingCount(ctx context.Context, guildID string) (int, error) {
	args := m.Called(ctx, guildID)
	return args.Int(0), args.Error(1)
}

// MockCategoriesService is a mock implementation of CategoriesService
type MockCategoriesService struct {
	mock.Mock
}

func (m *MockCategoriesService) CreateCategory(
	ctx context.Context,
	guildID, name string,
	description *string,
) (*models.Category, error) {
	args := m.Called(ctx, guildID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoriesService) UpdateCategory(
	ctx context.Context,
	categoryID, name string,
	description *string,
) (*models.Category, error) {
	args := m.Called(ctx, categoryID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoriesService) DeleteCategory(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

func (m *MockCategoriesService) DeleteCategoriesByGuild(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockCategoriesService) GetCategoryByID(
	ctx context.Context,
	categoryID string,
) (mo.Option[*models.Category], error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(mo.Option[*models.Category]), args.Error(1)
}

func (m *MockCategoriesService) GetCategoriesByGuild(ctx context.Context, guildID string) ([]*models.Category, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoriesService) GetCategoryBindings(ctx context.Context, categoryID string) ([]*models.Binding, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Binding), args.Error(1)
}

func (m *MockCategoriesService) AddBindingToCategory(ctx context.Context, guildID, bindingID, categoryID string) error {
	args := m.Called(ctx, guildID, bindingID, categoryID)
	return args.Error(0)
}

func (m *MockCategoriesService) RemoveBindingFromCategory(ctx context.Context, guildID, bindingID string) error {
	args := m.Called(ctx, guildID, bindingID)
	return args.Error(0)
}

// MockJoinRolesService is a mock implementation of JoinRolesService
type MockJoinRolesService struct {
	mock.Mock
}

func (m *MockJoinRolesService) CreateJoinRole(ctx context.Context, guildID, roleID string) (*models.JoinRole, error) {
	args := m.Called(ctx, guildID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JoinRole), args.Error(1)
}

func (m *MockJoinRolesService) DeleteJoinRolesByRole(ctx context.Context, roleID string) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *MockJoinRolesService) DeleteJoinRolesByGuild(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockJoinRolesService) GetJoinRolesByGuild(ctx context.Context, guildID string) ([]*models.JoinRole, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.JoinRole), args.Error(1)
}
