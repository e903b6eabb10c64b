package bindings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEmoji(t *testing.T) {
	t.Run("custom emoji resolves to its ID", func(t *testing.T) {
		resolved, err := ResolveEmoji("<:party:123456789012345678>")
		require.NoError(t, err)
		assert.Equal(t, "123456789012345678", resolved.Key)
		require.NotNil(t, resolved.Display)
		assert.Equal(t, "<:nn:123456789012345678>", *resolved.Display)
	})

	t.Run("animated custom emoji keeps the animation flag in the display tag", func(t *testing.T) {
		resolved, err := ResolveEmoji("<a:blob_dance:987654321098765432>")
		require.NoError(t, err)
		assert.Equal(t, "987654321098765432", resolved.Key)
		require.NotNil(t, resolved.Display)
		assert.Equal(t, "<a:nn:987654321098765432>", *resolved.Display)
	})

	t.Run("unicode emoji resolves to itself with no display tag", func(t *testing.T) {
		resolved, err := ResolveEmoji("🎉")
		require.NoError(t, err)
		assert.Equal(t, "🎉", resolved.Key)
		assert.Nil(t, resolved.Display)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		resolved, err := ResolveEmoji("  🎉 ")
		require.NoError(t, err)
		assert.Equal(t, "🎉", resolved.Key)
	})

	t.Run("keycap sequence with ASCII digit is accepted", func(t *testing.T) {
		resolved, err := ResolveEmoji("1️⃣")
		require.NoError(t, err)
		assert.Equal(t, "1️⃣", resolved.Key)
	})

	t.Run("multi-codepoint emoji sequence is accepted", func(t *testing.T) {
		resolved, err := ResolveEmoji("👨‍👩‍👧‍👦")
		require.NoError(t, err)
		assert.Equal(t, "👨‍👩‍👧‍👦", resolved.Key)
	})

	errorCases := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"whitespace only", "   "},
		{"plain text", "party"},
		{"bare digit without keycap", "1"},
		{"custom emoji with malformed ID", "<:party:12345>"},
		{"custom emoji missing closing bracket", "<:party:123456789012345678"},
		{"role mention", "<@&123456789012345678>"},
		{"emoji mixed with text", "🎉party"},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveEmoji(tc.input)
			assert.Error(t, err)
		})
	}
}
