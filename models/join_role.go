package models

import (
	"time"
)

// JoinRole is a role automatically granted to members when they join a guild.
type JoinRole struct {
	ID        string    `db:"id"         json:"id"`
	GuildID   string    `db:"guild_id"   json:"guild_id"`
	RoleID    string    `db:"role_id"    json:"role_id"`
	RoleName  string    `db:"role_name"  json:"role_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
