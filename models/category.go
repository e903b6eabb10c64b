package models

import (
	"time"
)

// Category is a named grouping of bindings within a guild. A category does not
// own its bindings - deleting a category only detaches them.
type Category struct {
	ID          string    `db:"id"          json:"id"`
	GuildID     string    `db:"guild_id"    json:"guild_id"`
	Name        string    `db:"name"        json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}
