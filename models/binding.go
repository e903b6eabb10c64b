package models

import (
	"time"
)

// BindingKind discriminates future binding variants. Only normal exists today.
type BindingKind string

const (
	BindingKindNormal BindingKind = "normal"
)

// Binding is a durable emoji -> role rule scoped to a single guild.
type Binding struct {
	ID       string `db:"id"        json:"id"`
	GuildID  string `db:"guild_id"  json:"guild_id"`
	RoleID   string `db:"role_id"   json:"role_id"`
	RoleName string `db:"role_name" json:"role_name"`
	// EmojiKey is either the custom emoji ID or the raw unicode sequence.
	EmojiKey string `db:"emoji_key" json:"emoji_key"`
	// EmojiDisplay is the renderable mention tag for custom emoji, nil for unicode.
	EmojiDisplay *string     `db:"emoji_display" json:"emoji_display,omitempty"`
	CategoryID   *string     `db:"category_id"   json:"category_id,omitempty"`
	Kind         BindingKind `db:"kind"          json:"kind"`
	CreatedAt    time.Time   `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"    json:"updated_at"`
}

// IsCustomEmoji reports whether the binding uses a guild custom emoji.
func (b *Binding) IsCustomEmoji() bool {
	return b.EmojiDisplay != nil
}

// ReactionEmoji returns the emoji in the form the Discord reaction API expects:
// "name:id" for custom emoji, the raw unicode sequence otherwise.
func (b *Binding) ReactionEmoji() string {
	if b.IsCustomEmoji() {
		return "nn:" + b.EmojiKey
	}
	return b.EmojiKey
}

// EmojiMention returns the renderable form of the binding's emoji.
func (b *Binding) EmojiMention() string {
	if b.EmojiDisplay != nil {
		return *b.EmojiDisplay
	}
	return b.EmojiKey
}
