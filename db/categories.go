package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"rolebot/db/tx"
	"rolebot/models"
)

type PostgresCategoriesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for categories table
var categoriesColumns = []string{
	"id",
	"guild_id",
	"name",
	"description",
	"created_at",
	"updated_at",
}

// CategoriesGuildNameConstraint backs the per-guild category name uniqueness
const CategoriesGuildNameConstraint = "categories_guild_id_name_key"

func NewPostgresCategoriesRepository(db *sqlx.DB, schema string) *PostgresCategoriesRepository {
	return &PostgresCategoriesRepository{db: db, schema: schema}
}

func (r *PostgresCategoriesRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	columnsStr := strings.Join(categoriesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.categories (%s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	err := tx.GetTransactional(ctx, r.db).
		QueryRowxContext(ctx, query, category.ID, category.GuildID, category.Name, category.Description).
		StructScan(category)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *PostgresCategoriesRepository) GetCategoryByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Category], error) {
	columnsStr := strings.Join(categoriesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.categories
		WHERE id = $1`, columnsStr, r.schema)

	var category models.Category
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &category, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Category](), nil
		}
		return mo.None[*models.Category](), fmt.Errorf("failed to get category by ID: %w", err)
	}

	return mo.Some(&category), nil
}

func (r *PostgresCategoriesRepository) GetCategoryByName(
	ctx context.Context,
	guildID, name string,
) (mo.Option[*models.Category], error) {
	if guildID == "" {
		return mo.None[*models.Category](), fmt.Errorf("guild ID cannot be empty")
	}

	columnsStr := strings.Join(categoriesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.categories
		WHERE guild_id = $1 AND name = $2`, columnsStr, r.schema)

	var category models.Category
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &category, query, guildID, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Category](), nil
		}
		return mo.None[*models.Category](), fmt.Errorf("failed to get category by name: %w", err)
	}

	return mo.Some(&category), nil
}

func (r *PostgresCategoriesRepository) GetCategoriesByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.Category, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild ID cannot be empty")
	}

	columnsStr := strings.Join(categoriesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.categories
		WHERE guild_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var categories []*models.Category
	err := tx.GetTransactional(ctx, r.db).SelectContext(ctx, &categories, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories by guild: %w", err)
	}

	return categories, nil
}

func (r *PostgresCategoriesRepository) UpdateCategory(ctx context.Context, category *models.Category) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.categories
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).
		ExecContext(ctx, query, category.ID, category.Name, category.Description)
	if err != nil {
		return false, fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresCategoriesRepository) DeleteCategoryByID(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s.categories WHERE id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresCategoriesRepository) DeleteCategoriesByGuild(ctx context.Context, guildID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s.categories WHERE guild_id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete categories by guild: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
