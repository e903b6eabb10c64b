package discord

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"rolebot/clients"
)

// classifyError maps a discordgo error onto the clients.RemoteError taxonomy.
// Transient failures (rate limits, timeouts, network errors, 5xx) are retried
// by the reconciliation engine; permanent ones (missing permissions, unknown
// entities) are logged and dropped.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	// Rate limited after discordgo exhausted its own waits
	var rateLimitErr *discordgo.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return clients.NewTransientError(0, err)
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeMissingPermissions,
				discordgo.ErrCodeMissingAccess,
				discordgo.ErrCodeUnknownRole,
				discordgo.ErrCodeUnknownUser,
				discordgo.ErrCodeUnknownMember,
				discordgo.ErrCodeUnknownMessage,
				discordgo.ErrCodeUnknownChannel,
				discordgo.ErrCodeUnknownEmoji:
				return clients.NewPermanentError(restErr.Message.Code, err)
			}
		}
		if restErr.Response != nil {
			switch {
			case restErr.Response.StatusCode == http.StatusTooManyRequests:
				return clients.NewTransientError(0, err)
			case restErr.Response.StatusCode >= 500:
				return clients.NewTransientError(0, err)
			case restErr.Response.StatusCode >= 400:
				return clients.NewPermanentError(0, err)
			}
		}
		return clients.NewTransientError(0, err)
	}

	// Timeouts and network-level failures
	if errors.Is(err, context.DeadlineExceeded) {
		return clients.NewTransientError(0, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return clients.NewTransientError(0, err)
	}

	// Unclassified errors are treated as transient so a flaky gateway never
	// permanently drops an event without a retry.
	return clients.NewTransientError(0, err)
}
