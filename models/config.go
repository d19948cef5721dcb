package models

import "time"

// Config is the unmarshalled result of config.yaml, .env, environment
// variables and command line flags.
type Config struct {
	DiscordAPIKey string `mapstructure:"discord_api_key"`
	Debug         bool   `mapstructure:"debug"`

	Web       WebConfig       `mapstructure:"web"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Bot       BotConfig       `mapstructure:"bot"`
	Roles     RolesConfig     `mapstructure:"roles"`
	Channels  ChannelsConfig  `mapstructure:"channels"`
	Interests InterestsConfig `mapstructure:"interests"`
	Profiles  ProfilesConfig  `mapstructure:"profiles"`
	GitHub    GitHubConfig    `mapstructure:"github"`
}

// WebConfig configures the health/metrics/checks HTTP server.
type WebConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// GRPCConfig configures the gRPC health service. An empty Listen
// disables it.
type GRPCConfig struct {
	Listen string `mapstructure:"listen"`
}

// BotConfig holds Discord-level identities.
type BotConfig struct {
	Timezone       string `mapstructure:"timezone"`
	OwnerID        string `mapstructure:"owner_id"`
	MaintainerID   string `mapstructure:"maintainer_id"`
	ErrorChannelID string `mapstructure:"error_channel_id"`
}

// RolesConfig holds the roles pinged by the bot.
type RolesConfig struct {
	Greeter  string `mapstructure:"greeter"`
	Reviewer string `mapstructure:"reviewer"`
}

// ChannelsConfig maps features to channel names. Channels are matched by
// name, only the diaries channel is matched by ID.
type ChannelsConfig struct {
	Intro       string `mapstructure:"intro"`
	Traps       string `mapstructure:"traps"`
	Discoveries string `mapstructure:"discoveries"`
	Jobs        string `mapstructure:"jobs"`
	Candidates  string `mapstructure:"candidates"`
	Reviews     string `mapstructure:"reviews"`
	DiariesID   string `mapstructure:"diaries_id"`
}

// InterestsConfig configures the interests feed refresh.
type InterestsConfig struct {
	URL      string        `mapstructure:"url"`
	Schedule string        `mapstructure:"schedule"`
	Cooldown time.Duration `mapstructure:"cooldown"`
	// Timeout bounds one feed fetch.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProfilesConfig points at the candidate list and the external profile
// review engine.
type ProfilesConfig struct {
	EggtrayURL string `mapstructure:"eggtray_url"`
	CheckerURL string `mapstructure:"checker_url"`
}

// GitHubConfig configures the issue tracker used for asynchronous
// review requests.
type GitHubConfig struct {
	APIKey string `mapstructure:"api_key"`
	Owner  string `mapstructure:"owner"`
	Repo   string `mapstructure:"repo"`
}
