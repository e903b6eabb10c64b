package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"rolebot/db/tx"
	"rolebot/models"
)

type PostgresBindingsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for bindings table
var bindingsColumns = []string{
	"id",
	"guild_id",
	"role_id",
	"role_name",
	"emoji_key",
	"emoji_display",
	"category_id",
	"kind",
	"created_at",
	"updated_at",
}

// Unique constraint names backing the per-guild uniqueness invariants
const (
	BindingsGuildEmojiConstraint = "bindings_guild_id_emoji_key_key"
	BindingsGuildRoleConstraint  = "bindings_guild_id_role_id_key"
)

func NewPostgresBindingsRepository(db *sqlx.DB, schema string) *PostgresBindingsRepository {
	return &PostgresBindingsRepository{db: db, schema: schema}
}

func (r *PostgresBindingsRepository) CreateBinding(ctx context.Context, binding *models.Binding) error {
	insertColumns := []string{
		"id",
		"guild_id",
		"role_id",
		"role_name",
		"emoji_key",
		"emoji_display",
		"category_id",
		"kind",
		"created_at",
		"updated_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(bindingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.bindings (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := tx.GetTransactional(ctx, r.db).
		QueryRowxContext(ctx, query,
			binding.ID,
			binding.GuildID,
			binding.RoleID,
			binding.RoleName,
			binding.EmojiKey,
			binding.EmojiDisplay,
			binding.CategoryID,
			binding.Kind,
		).
		StructScan(binding)
	if err != nil {
		return fmt.Errorf("failed to create binding: %w", err)
	}

	return nil
}

func (r *PostgresBindingsRepository) GetBindingByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Binding], error) {
	columnsStr := strings.Join(bindingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.bindings
		WHERE id = $1`, columnsStr, r.schema)

	var binding models.Binding
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &binding, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Binding](), nil
		}
		return mo.None[*models.Binding](), fmt.Errorf("failed to get binding by ID: %w", err)
	}

	return mo.Some(&binding), nil
}

func (r *PostgresBindingsRepository) GetBindingByEmoji(
	ctx context.Context,
	guildID, emojiKey string,
) (mo.Option[*models.Binding], error) {
	if guildID == "" {
		return mo.None[*models.Binding](), fmt.Errorf("guild ID cannot be empty")
	}
	if emojiKey == "" {
		return mo.None[*models.Binding](), fmt.Errorf("emoji key cannot be empty")
	}

	columnsStr := strings.Join(bindingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.bindings
		WHERE guild_id = $1 AND emoji_key = $2`, columnsStr, r.schema)

	var binding models.Binding
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &binding, query, guildID, emojiKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Binding](), nil
		}
		return mo.None[*models.Binding](), fmt.Errorf("failed to get binding by emoji: %w", err)
	}

	return mo.Some(&binding), nil
}

func (r *PostgresBindingsRepository) GetBindingByRole(
	ctx context.Context,
	guildID, roleID string,
) (mo.Option[*models.Binding], error) {
	if guildID == "" {
		return mo.None[*models.Binding](), fmt.Errorf("guild ID cannot be empty")
	}
	if roleID == "" {
		return mo.None[*models.Binding](), fmt.Errorf("role ID cannot be empty")
	}

	columnsStr := strings.Join(bindingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.bindings
		WHERE guild_id = $1 AND role_id = $2`, columnsStr, r.schema)

	var binding models.Binding
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &binding, query, guildID, roleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Binding](), nil
		}
		return mo.None[*models.Binding](), fmt.Errorf("failed to get binding by role: %w", err)
	}

	return mo.Some(&binding), nil
}

func (r *PostgresBindingsRepository) GetBindingsByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.Binding, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild ID cannot be empty")
	}

	columnsStr := strings.Join(bindingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.bindings
		WHERE guild_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var bindings []*models.Binding
	err := tx.GetTransactional(ctx, r.db).SelectContext(ctx, &bindings, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bindings by guild: %w", err)
	}

	return bindings, nil
}

func (r *PostgresBindingsRepository) GetBindingsByCategoryID(
	ctx context.Context,
	categoryID string,
) ([]*models.Binding, error) {
	columnsStr := strings.Join(bindingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.bindings
		WHERE category_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var bindings []*models.Binding
	err := tx.GetTransactional(ctx, r.db).SelectContext(ctx, &bindings, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bindings by category ID: %w", err)
	}

	return bindings, nil
}

func (r *PostgresBindingsRepository) GetUncategorizedBindingCount(
	ctx context.Context,
	guildID string,
) (int, error) {
	if guildID == "" {
		return 0, fmt.Errorf("guild ID cannot be empty")
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s.bindings
		WHERE guild_id = $1 AND category_id IS NULL`, r.schema)

	var count int
	err := tx.GetTransactional(ctx, r.db).GetContext(ctx, &count, query, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to count uncategorized bindings: %w", err)
	}

	return count, nil
}

func (r *PostgresBindingsRepository) UpdateBindingCategory(
	ctx context.Context,
	bindingID string,
	categoryID *string,
) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.bindings
		SET category_id = $2, updated_at = NOW()
		WHERE id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, bindingID, categoryID)
	if err != nil {
		return false, fmt.Errorf("failed to update binding category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresBindingsRepository) ClearCategoryFromBindings(
	ctx context.Context,
	categoryID string,
) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s.bindings
		SET category_id = NULL, updated_at = NOW()
		WHERE category_id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear category from bindings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func (r *PostgresBindingsRepository) DeleteBindingByID(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s.bindings WHERE id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete binding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresBindingsRepository) DeleteBindingsByRole(ctx context.Context, roleID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s.bindings WHERE role_id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, roleID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bindings by role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func (r *PostgresBindingsRepository) DeleteBindingsByGuild(ctx context.Context, guildID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s.bindings WHERE guild_id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bindings by guild: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
