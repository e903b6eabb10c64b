package services

import (
	"context"

	"github.com/samber/mo"

	"rolebot/models"
)

// BindingsService defines the interface for emoji -> role binding operations
type BindingsService interface {
	CreateBinding(ctx context.Context, guildID, roleID, rawEmoji string) (*models.Binding, error)
	DeleteBinding(ctx context.Context, bindingID string) error
	DeleteBindingsByRole(ctx context.Context, roleID string) error
	DeleteBindingsByGuild(ctx context.Context, guildID string) error
	GetBindingByEmoji(ctx context.Context, guildID, emojiKey string) (mo.Option[*models.Binding], error)
	GetBindingByRole(ctx context.Context, guildID, roleID string) (mo.Option[*models.Binding], error)
	GetBindingsByGuild(ctx context.Context, guildID string) ([]*models.Binding, error)
	GetUncategorizedBindingCount(ctx context.Context, guildID string) (int, error)
}

// CategoriesService defines the interface for binding category operations
type CategoriesService interface {
	CreateCategory(ctx context.Context, guildID, name string, description *string) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID, name string, description *string) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	DeleteCategoriesByGuild(ctx context.Context, guildID string) error
	GetCategoryByID(ctx context.Context, categoryID string) (mo.Option[*models.Category], error)
	GetCategoriesByGuild(ctx context.Context, guildID string) ([]*models.Category, error)
	GetCategoryBindings(ctx context.Context, categoryID string) ([]*models.Binding, error)
	AddBindingToCategory(ctx context.Context, guildID, bindingID, categoryID string) error
	RemoveBindingFromCategory(ctx context.Context, guildID, bindingID string) error
}

// JoinRolesService defines the interface for join role operations
type JoinRolesService interface {
	CreateJoinRole(ctx context.Context, guildID, roleID string) (*models.JoinRole, error)
	DeleteJoinRolesByRole(ctx context.Context, roleID string) error
	DeleteJoinRolesByGuild(ctx context.Context, guildID string) error
	GetJoinRolesByGuild(ctx context.Context, guildID string) ([]*models.JoinRole, error)
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
