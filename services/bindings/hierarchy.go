package bindings

import (
	"slices"

	"rolebot/clients"
)

// CanManageRole reports whether a role at botTopPosition is structurally able
// to grant and revoke a role at targetPosition. Pure comparison, no remote
// calls. Equal positions are not manageable.
func CanManageRole(botTopPosition, targetPosition int) bool {
	return botTopPosition > targetPosition
}

// BotTopPosition returns the highest role position among the roles the bot
// holds. Every member implicitly holds @everyone at position 0.
func BotTopPosition(guildRoles []clients.DiscordRole, botRoleIDs []string) int {
	top := 0
	for _, role := range guildRoles {
		if !slices.Contains(botRoleIDs, role.ID) {
			continue
		}
		if role.Position > top {
			top = role.Position
		}
	}
	return top
}
