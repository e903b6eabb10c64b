package bindings

import (
	"fmt"
	"regexp"
	"strings"
)

// customEmojiPattern matches a custom emoji mention like <:party:123456789012345678>
// or <a:party:123456789012345678> for animated emoji.
var customEmojiPattern = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]+):([0-9]{15,21})>$`)

// ResolvedEmoji is the storable form of an emoji input.
type ResolvedEmoji struct {
	// Key is the custom emoji ID, or the raw unicode sequence.
	Key string
	// Display is the renderable mention tag for custom emoji, nil for unicode.
	Display *string
}

// ResolveEmoji parses an administrator-supplied emoji into its storable form.
// Custom emoji mentions resolve to their snowflake ID; anything else must be a
// plain unicode emoji sequence.
func ResolveEmoji(raw string) (ResolvedEmoji, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ResolvedEmoji{}, fmt.Errorf("emoji input is empty")
	}

	if match := customEmojiPattern.FindStringSubmatch(trimmed); match != nil {
		animated, id := match[1], match[3]
		// The display tag only needs the ID to render; the name is irrelevant
		display := fmt.Sprintf("<%s:nn:%s>", animated, id)
		return ResolvedEmoji{Key: id, Display: &display}, nil
	}

	if err := validateUnicodeEmoji(trimmed); err != nil {
		return ResolvedEmoji{}, err
	}
	return ResolvedEmoji{Key: trimmed}, nil
}

// validateUnicodeEmoji rejects plain text masquerading as an emoji. Keycap
// sequences (1️⃣, #️⃣) legitimately contain ASCII, everything else must not.
func validateUnicodeEmoji(s string) error {
	if len(s) > 64 {
		return fmt.Errorf("input too long to be an emoji sequence")
	}

	hasKeycap := strings.ContainsRune(s, '⃣')
	for _, r := range s {
		if r >= 0x80 {
			continue
		}
		if hasKeycap && (r == '#' || r == '*' || (r >= '0' && r <= '9')) {
			continue
		}
		return fmt.Errorf("contains non-emoji character %q", r)
	}
	return nil
}
