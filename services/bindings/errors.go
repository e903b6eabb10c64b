package bindings

import (
	"errors"
	"fmt"

	"rolebot/models"
)

// ValidationCode identifies why a mutation of the binding mapping was rejected.
type ValidationCode string

const (
	// CodeCapacityExceeded - the guild already has the maximum number of
	// uncategorized bindings.
	CodeCapacityExceeded ValidationCode = "capacity_exceeded"
	// CodeInsufficientHierarchy - the bot's top role does not outrank the
	// target role.
	CodeInsufficientHierarchy ValidationCode = "insufficient_hierarchy"
	// CodeUnresolvableEmoji - the input is neither a unicode emoji nor a
	// custom emoji mention.
	CodeUnresolvableEmoji ValidationCode = "unresolvable_emoji"
	// CodeEmojiAlreadyBound - the emoji is already bound to a role in the guild.
	CodeEmojiAlreadyBound ValidationCode = "emoji_already_bound"
	// CodeRoleAlreadyBound - the role is already bound to an emoji in the guild.
	CodeRoleAlreadyBound ValidationCode = "role_already_bound"
)

// ValidationError is surfaced synchronously to the administrator issuing the
// mutation. It is never retried.
type ValidationError struct {
	Code    ValidationCode
	Message string
	// Conflicting carries the existing binding for the AlreadyBound codes.
	Conflicting *models.Binding
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("binding validation failed (%s): %s", e.Code, e.Message)
}

// AsValidationError extracts a ValidationError from err if there is one
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func newCapacityExceededError(count int) *ValidationError {
	return &ValidationError{
		Code: CodeCapacityExceeded,
		Message: fmt.Sprintf(
			"guild has %d uncategorized bindings, the maximum is %d - assign some to a category first",
			count, MaxUncategorizedBindings),
	}
}

func newInsufficientHierarchyError(roleName string) *ValidationError {
	return &ValidationError{
		Code: CodeInsufficientHierarchy,
		Message: fmt.Sprintf(
			"role %q is above the bot's highest role - move the bot's role above it in the server settings",
			roleName),
	}
}

func newUnresolvableEmojiError(raw string, cause error) *ValidationError {
	return &ValidationError{
		Code:    CodeUnresolvableEmoji,
		Message: fmt.Sprintf("could not resolve %q to an emoji: %v", raw, cause),
	}
}

func newEmojiAlreadyBoundError(conflicting *models.Binding) *ValidationError {
	return &ValidationError{
		Code: CodeEmojiAlreadyBound,
		Message: fmt.Sprintf("emoji %s is already bound to role %q",
			conflicting.EmojiMention(), conflicting.RoleName),
		Conflicting: conflicting,
	}
}

func newRoleAlreadyBoundError(conflicting *models.Binding) *ValidationError {
	return &ValidationError{
		Code: CodeRoleAlreadyBound,
		Message: fmt.Sprintf("role %q is already bound to emoji %s",
			conflicting.RoleName, conflicting.EmojiMention()),
		Conflicting: conflicting,
	}
}
