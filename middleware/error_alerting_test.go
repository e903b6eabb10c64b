package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapBackgroundTask(t *testing.T) {
	m := NewErrorAlertMiddleware(AlertConfig{})

	t.Run("propagates_task_error", func(t *testing.T) {
		task := m.WrapBackgroundTask("refresh", func() error {
			return assert.AnError
		})

		assert.ErrorIs(t, task(), assert.AnError)
	})

	t.Run("success_returns_nil", func(t *testing.T) {
		ran := false
		task := m.WrapBackgroundTask("refresh", func() error {
			ran = true
			return nil
		})

		require.NoError(t, task())
		assert.True(t, ran)
	})

	t.Run("recovers_panics", func(t *testing.T) {
		task := m.WrapBackgroundTask("refresh", func() error {
			panic("boom")
		})

		assert.NotPanics(t, func() {
			_ = task()
		})
	})
}

func TestWrapEventTask(t *testing.T) {
	m := NewErrorAlertMiddleware(AlertConfig{})

	t.Run("runs_the_task", func(t *testing.T) {
		ran := false
		m.WrapEventTask("MessageReactionAdd", func() error {
			ran = true
			return nil
		})

		assert.True(t, ran)
	})

	t.Run("recovers_panics", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.WrapEventTask("MessageReactionAdd", func() error {
				panic("boom")
			})
		})
	})
}
