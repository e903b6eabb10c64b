package clients

import (
	"context"
	"fmt"
)

// DiscordUser represents a Discord user with only the fields we need
type DiscordUser struct {
	ID       string
	Username string
	Bot      bool
}

// DiscordRole represents a guild role with only the fields we need
type DiscordRole struct {
	ID       string
	Name     string
	Position int
	Managed  bool
}

// DiscordClient defines the interface for Discord API operations
type DiscordClient interface {
	// Bot identity
	GetBotUser() (*DiscordUser, error)

	// Guild operations
	GetGuildRoles(ctx context.Context, guildID string) ([]DiscordRole, error)
	GetBotMemberRoleIDs(ctx context.Context, guildID string) ([]string, error)

	// Role membership operations. Both are idempotent on the Discord side:
	// granting a held role or revoking an unheld role succeeds.
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	RevokeRole(ctx context.Context, guildID, userID, roleID string) error

	// Reaction operations
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
}

// RemoteErrorKind classifies failures from the Discord API into the retry
// policy buckets the reconciliation engine works with.
type RemoteErrorKind string

const (
	// RemoteTransient covers rate limits, timeouts and network failures -
	// retried with bounded backoff.
	RemoteTransient RemoteErrorKind = "transient"
	// RemotePermanent covers missing permissions and unknown entities -
	// logged with context, never retried.
	RemotePermanent RemoteErrorKind = "permanent"
)

// RemoteError is a classified Discord API failure.
type RemoteError struct {
	Kind RemoteErrorKind
	// Code is the Discord JSON error code when available, 0 otherwise.
	Code int
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("discord api error (%s, code %d): %v", e.Kind, e.Code, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err as a retryable remote failure
func NewTransientError(code int, err error) *RemoteError {
	return &RemoteError{Kind: RemoteTransient, Code: code, Err: err}
}

// NewPermanentError wraps err as a non-retryable remote failure
func NewPermanentError(code int, err error) *RemoteError {
	return &RemoteError{Kind: RemotePermanent, Code: code, Err: err}
}
