package core

import (
	"errors"
	"strings"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// IsNotFoundError checks if an error is a "not found" error.
// During reactive processing "not found" means "nothing to do", so callers use
// this to downgrade lookups that raced with deletions.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	// Fall back to message matching for errors wrapped by external layers
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
