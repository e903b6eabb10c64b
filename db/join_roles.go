package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"rolebot/db/tx"
	"rolebot/models"
)

type PostgresJoinRolesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for join_roles table
var joinRolesColumns = []string{
	"id",
	"guild_id",
	"role_id",
	"role_name",
	"created_at",
	"updated_at",
}

// JoinRolesGuildRoleConstraint backs the one-join-role-per-role invariant
const JoinRolesGuildRoleConstraint = "join_roles_guild_id_role_id_key"

func NewPostgresJoinRolesRepository(db *sqlx.DB, schema string) *PostgresJoinRolesRepository {
	return &PostgresJoinRolesRepository{db: db, schema: schema}
}

func (r *PostgresJoinRolesRepository) CreateJoinRole(ctx context.Context, joinRole *models.JoinRole) error {
	columnsStr := strings.Join(joinRolesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.join_roles (%s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, columnsStr)

	err := tx.GetTransactional(ctx, r.db).
		QueryRowxContext(ctx, query, joinRole.ID, joinRole.GuildID, joinRole.RoleID, joinRole.RoleName).
		StructScan(joinRole)
	if err != nil {
		return fmt.Errorf("failed to create join role: %w", err)
	}

	return nil
}

func (r *PostgresJoinRolesRepository) GetJoinRolesByGuild(
	ctx context.Context,
	guildID string,
) ([]*models.JoinRole, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild ID cannot be empty")
	}

	columnsStr := strings.Join(joinRolesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.join_roles
		WHERE guild_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	var joinRoles []*models.JoinRole
	err := tx.GetTransactional(ctx, r.db).SelectContext(ctx, &joinRoles, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get join roles by guild: %w", err)
	}

	return joinRoles, nil
}

func (r *PostgresJoinRolesRepository) DeleteJoinRolesByRole(ctx context.Context, roleID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s.join_roles WHERE role_id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, roleID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete join roles by role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func (r *PostgresJoinRolesRepository) DeleteJoinRolesByGuild(ctx context.Context, guildID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s.join_roles WHERE guild_id = $1`, r.schema)

	result, err := tx.GetTransactional(ctx, r.db).ExecContext(ctx, query, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete join roles by guild: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
