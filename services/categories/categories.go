package categories

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"rolebot/core"
	"rolebot/models"
	"rolebot/services"
)

// CategoriesRepository defines the interface for category repository operations
type CategoriesRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id string) (mo.Option[*models.Category], error)
	GetCategoryByName(ctx context.Context, guildID, name string) (mo.Option[*models.Category], error)
	GetCategoriesByGuild(ctx context.Context, guildID string) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) (bool, error)
	DeleteCategoryByID(ctx context.Context, id string) (bool, error)
	DeleteCategoriesByGuild(ctx context.Context, guildID string) (int64, error)
}

// CategoryBindingsRepository is the slice of the bindings repository the
// categories service needs for membership management.
type CategoryBindingsRepository interface {
	GetBindingByID(ctx context.Context, id string) (mo.Option[*models.Binding], error)
	GetBindingsByCategoryID(ctx context.Context, categoryID string) ([]*models.Binding, error)
	UpdateBindingCategory(ctx context.Context, bindingID string, categoryID *string) (bool, error)
	ClearCategoryFromBindings(ctx context.Context, categoryID string) (int64, error)
}

// CategoriesService manages named groupings of bindings. Categories never own
// their bindings - membership is a nullable reference on the binding row.
type CategoriesService struct {
	categoriesRepo CategoriesRepository
	bindingsRepo   CategoryBindingsRepository
	txManager      services.TransactionManager
}

func NewCategoriesService(
	categoriesRepo CategoriesRepository,
	bindingsRepo CategoryBindingsRepository,
	txManager services.TransactionManager,
) *CategoriesService {
	return &CategoriesService{
		categoriesRepo: categoriesRepo,
		bindingsRepo:   bindingsRepo,
		txManager:      txManager,
	}
}

// CreateCategory creates a named category in a guild. Names are unique per guild.
func (s *CategoriesService) CreateCategory(
	ctx context.Context,
	guildID, name string,
	description *string,
) (*models.Category, error) {
	log.Printf("📋 Starting to create category %q in guild %s", name, guildID)
	if guildID == "" {
		return nil, fmt.Errorf("guild ID cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("category name cannot be empty")
	}

	var category *models.Category
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		maybeExisting, err := s.categoriesRepo.GetCategoryByName(txCtx, guildID, name)
		if err != nil {
			return fmt.Errorf("failed to check category name: %w", err)
		}
		if maybeExisting.IsPresent() {
			return fmt.Errorf("category %q already exists in guild %s", name, guildID)
		}

		category = &models.Category{
			ID:          core.NewID("cat"),
			GuildID:     guildID,
			Name:        name,
			Description: description,
		}
		if err := s.categoriesRepo.CreateCategory(txCtx, category); err != nil {
			return fmt.Errorf("failed to persist category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Created category %s (%q) in guild %s", category.ID, name, guildID)
	return category, nil
}

// UpdateCategory renames a category and/or replaces its description
func (s *CategoriesService) UpdateCategory(
	ctx context.Context,
	categoryID, name string,
	description *string,
) (*models.Category, error) {
	log.Printf("📋 Starting to update category %s", categoryID)
	if name == "" {
		return nil, fmt.Errorf("category name cannot be empty")
	}

	maybeCategory, err := s.categoriesRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if !maybeCategory.IsPresent() {
		return nil, fmt.Errorf("category %s: %w", categoryID, core.ErrNotFound)
	}
	category := maybeCategory.MustGet()

	category.Name = name
	category.Description = description
	updated, err := s.categoriesRepo.UpdateCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if !updated {
		return nil, fmt.Errorf("category %s: %w", categoryID, core.ErrNotFound)
	}

	log.Printf("✅ Updated category %s", categoryID)
	return category, nil
}

// DeleteCategory removes a category and detaches its bindings. The bindings
// themselves survive with a cleared category reference.
func (s *CategoriesService) DeleteCategory(ctx context.Context, categoryID string) error {
	log.Printf("📋 Starting to delete category %s", categoryID)
	if categoryID == "" {
		return fmt.Errorf("category ID cannot be empty")
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		detached, err := s.bindingsRepo.ClearCategoryFromBindings(txCtx, categoryID)
		if err != nil {
			return fmt.Errorf("failed to detach category bindings: %w", err)
		}

		deleted, err := s.categoriesRepo.DeleteCategoryByID(txCtx, categoryID)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		if !deleted {
			log.Printf("⏭️ Category %s was already gone - nothing to do", categoryID)
			return nil
		}

		log.Printf("✅ Deleted category %s, detached %d binding(s)", categoryID, detached)
		return nil
	})
}

// DeleteCategoriesByGuild removes every category of a guild (guild teardown)
func (s *CategoriesService) DeleteCategoriesByGuild(ctx context.Context, guildID string) error {
	log.Printf("📋 Starting to delete categories for guild %s", guildID)
	if guildID == "" {
		return fmt.Errorf("guild ID cannot be empty")
	}

	deleted, err := s.categoriesRepo.DeleteCategoriesByGuild(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to delete categories by guild: %w", err)
	}

	log.Printf("✅ Deleted %d categories for guild %s", deleted, guildID)
	return nil
}

// GetCategoryByID fetches a category by ID
func (s *CategoriesService) GetCategoryByID(
	ctx context.Context,
	categoryID string,
) (mo.Option[*models.Category], error) {
	return s.categoriesRepo.GetCategoryByID(ctx, categoryID)
}

// GetCategoriesByGuild lists a guild's categories in creation order
func (s *CategoriesService) GetCategoriesByGuild(ctx context.Context, guildID string) ([]*models.Category, error) {
	return s.categoriesRepo.GetCategoriesByGuild(ctx, guildID)
}

// GetCategoryBindings lists a category's bindings in category order
func (s *CategoriesService) GetCategoryBindings(ctx context.Context, categoryID string) ([]*models.Binding, error) {
	return s.bindingsRepo.GetBindingsByCategoryID(ctx, categoryID)
}

// AddBindingToCategory moves a binding into a category. A binding belongs to
// at most one category, so this replaces any previous membership.
func (s *CategoriesService) AddBindingToCategory(ctx context.Context, guildID, bindingID, categoryID string) error {
	log.Printf("📋 Starting to add binding %s to category %s in guild %s", bindingID, categoryID, guildID)

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		maybeCategory, err := s.categoriesRepo.GetCategoryByID(txCtx, categoryID)
		if err != nil {
			return fmt.Errorf("failed to get category: %w", err)
		}
		if !maybeCategory.IsPresent() {
			return fmt.Errorf("category %s: %w", categoryID, core.ErrNotFound)
		}
		if maybeCategory.MustGet().GuildID != guildID {
			return fmt.Errorf("category %s does not belong to guild %s", categoryID, guildID)
		}

		maybeBinding, err := s.bindingsRepo.GetBindingByID(txCtx, bindingID)
		if err != nil {
			return fmt.Errorf("failed to get binding: %w", err)
		}
		if !maybeBinding.IsPresent() {
			return fmt.Errorf("binding %s: %w", bindingID, core.ErrNotFound)
		}
		if maybeBinding.MustGet().GuildID != guildID {
			return fmt.Errorf("binding %s does not belong to guild %s", bindingID, guildID)
		}

		if _, err := s.bindingsRepo.UpdateBindingCategory(txCtx, bindingID, &categoryID); err != nil {
			return fmt.Errorf("failed to set binding category: %w", err)
		}

		log.Printf("✅ Added binding %s to category %s", bindingID, categoryID)
		return nil
	})
}

// RemoveBindingFromCategory detaches a binding from its category, returning it
// to the uncategorized pool.
func (s *CategoriesService) RemoveBindingFromCategory(ctx context.Context, guildID, bindingID string) error {
	log.Printf("📋 Starting to remove binding %s from its category in guild %s", bindingID, guildID)

	maybeBinding, err := s.bindingsRepo.GetBindingByID(ctx, bindingID)
	if err != nil {
		return fmt.Errorf("failed to get binding: %w", err)
	}
	if !maybeBinding.IsPresent() {
		log.Printf("⏭️ Binding %s was already gone - nothing to do", bindingID)
		return nil
	}
	if maybeBinding.MustGet().GuildID != guildID {
		return fmt.Errorf("binding %s does not belong to guild %s", bindingID, guildID)
	}

	if _, err := s.bindingsRepo.UpdateBindingCategory(ctx, bindingID, nil); err != nil {
		return fmt.Errorf("failed to clear binding category: %w", err)
	}

	log.Printf("✅ Removed binding %s from its category", bindingID)
	return nil
}
