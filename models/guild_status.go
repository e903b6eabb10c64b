package models

// GuildStatus is the read-only operational summary exposed over HTTP.
type GuildStatus struct {
	GuildID            string `json:"guild_id"`
	BindingCount       int    `json:"binding_count"`
	UncategorizedCount int    `json:"uncategorized_count"`
	UncategorizedLimit int    `json:"uncategorized_limit"`
	CategoryCount      int    `json:"category_count"`
	JoinRoleCount      int    `json:"join_role_count"`
}
