package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"rolebot/config"
	"rolebot/core"
	"rolebot/db"
	"rolebot/models"
)

// LoadTestConfig loads configuration for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test") // From services/ directory
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// CreateTestBinding creates a binding with unique IDs to avoid constraint violations
func CreateTestBinding(t *testing.T, bindingsRepo *db.PostgresBindingsRepository, guildID string) *models.Binding {
	binding := &models.Binding{
		ID:       core.NewID("bnd"),
		GuildID:  guildID,
		RoleID:   "role-" + uuid.New().String(),
		RoleName: "Test Role",
		EmojiKey: "emoji-" + uuid.New().String(),
		Kind:     models.BindingKindNormal,
	}

	err := bindingsRepo.CreateBinding(context.Background(), binding)
	require.NoError(t, err, "Failed to create test binding")
	return binding
}

// CreateTestCategory creates a category with a unique name to avoid constraint violations
func CreateTestCategory(t *testing.T, categoriesRepo *db.PostgresCategoriesRepository, guildID string) *models.Category {
	category := &models.Category{
		ID:      core.NewID("cat"),
		GuildID: guildID,
		Name:    "test-category-" + uuid.New().String(),
	}

	err := categoriesRepo.CreateCategory(context.Background(), category)
	require.NoError(t, err, "Failed to create test category")
	return category
}

// NewTestGuildID returns a unique guild ID for test isolation
func NewTestGuildID() string {
	return "guild-" + uuid.New().String()
}
