package models

// ReactionDirection says whether a reaction was added or removed.
type ReactionDirection string

const (
	ReactionAdd    ReactionDirection = "add"
	ReactionRemove ReactionDirection = "remove"
)

// ReactionEvent is an ephemeral gateway notification that a member reacted to
// (or unreacted from) a message. It is never persisted - all role-relevance is
// derived from the binding store at processing time.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	// EmojiKey is the custom emoji ID when present, the unicode sequence otherwise.
	EmojiKey  string
	Direction ReactionDirection
}

// RoleDeletedEvent is emitted when a role is deleted server-side.
type RoleDeletedEvent struct {
	GuildID string
	RoleID  string
}

// MemberJoinedEvent is emitted when a member joins a guild.
type MemberJoinedEvent struct {
	GuildID string
	UserID  string
}
