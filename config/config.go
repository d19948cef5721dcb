package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"chick-bot/models"
)

// ErrMissingToken means no Discord bot token was configured.
var ErrMissingToken = errors.New("no bot token provided, set DISCORD_API_KEY or --discord-api-key")

var defaults = map[string]any{
	"discord_api_key": "",
	"debug":           false,

	"web.host":    "0.0.0.0",
	"web.port":    8080,
	"grpc.listen": "",

	"bot.timezone":         "Europe/Prague",
	"bot.owner_id":         "",
	"bot.maintainer_id":    "668226181769986078",
	"bot.error_channel_id": "1135903241792651365",

	"roles.greeter":  "1062755787153358879",
	"roles.reviewer": "1075044541796716604",

	"channels.intro":       "ahoj",
	"channels.traps":       "past-vedle-pasti",
	"channels.discoveries": "můj-dnešní-objev",
	"channels.jobs":        "práce-inzeráty",
	"channels.candidates":  "práce-hledám",
	"channels.reviews":     "cv-github-linkedin",
	"channels.diaries_id":  "1075087192101244928",

	"interests.url":      "https://junior.guru/api/interests.json",
	"interests.schedule": "@every 6h",
	"interests.cooldown": "24h",
	"interests.timeout":  "30s",

	"profiles.eggtray_url": "https://juniorguru.github.io/eggtray/profiles.json",
	"profiles.checker_url": "",

	"github.api_key": "",
	"github.owner":   "juniorguru",
	"github.repo":    "eggtray",
}

// NewFlagSet defines the command line flags understood by LoadConfig.
func NewFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("chick", pflag.ContinueOnError)
	flags.BoolP("debug", "d", false, "enable debug logging")
	flags.StringP("host", "h", "0.0.0.0", "HTTP server host")
	flags.IntP("port", "p", 8080, "HTTP server port")
	flags.String("discord-api-key", "", "Discord bot token")
	flags.String("config", "", "path to the config file (default ./config.yaml)")
	return flags
}

// LoadConfig loads the configuration from several sources, later ones
// overriding earlier ones:
// 1. built-in defaults
// 2. .env file (exported into the environment)
// 3. config.yaml in the working directory, or the file given by --config
// 4. environment variables, "." in keys replaced by "_"
// 5. command line flags that were set explicitly
func LoadConfig(args []string, logger *slog.Logger) (*models.Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	flags := NewFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found, skipping")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The hosting platform passes the listen address as HOST and PORT.
	if err := v.BindEnv("web.host", "WEB_HOST", "HOST"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("web.port", "WEB_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		logger.Debug("config.yaml not found, using defaults, environment and flags")
	} else {
		logger.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	for key, flag := range map[string]string{
		"debug":           "debug",
		"web.host":        "host",
		"web.port":        "port",
		"discord_api_key": "discord-api-key",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func Validate(cfg *models.Config) error {
	if cfg.DiscordAPIKey == "" {
		return ErrMissingToken
	}
	if cfg.Interests.Cooldown <= 0 {
		return fmt.Errorf("interests.cooldown must be positive, got %s", cfg.Interests.Cooldown)
	}
	if cfg.Interests.Timeout <= 0 {
		return fmt.Errorf("interests.timeout must be positive, got %s", cfg.Interests.Timeout)
	}
	if cfg.Interests.Schedule == "" {
		return errors.New("interests.schedule must not be empty")
	}
	if _, err := time.LoadLocation(cfg.Bot.Timezone); err != nil {
		return fmt.Errorf("bot.timezone: %w", err)
	}
	if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
		return fmt.Errorf("web.port out of range: %d", cfg.Web.Port)
	}
	return nil
}
