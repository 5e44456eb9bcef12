// Package config provides configuration types and loading for dukkanbot.
package config

import "os"

// Config is the root configuration struct.
// Top-level groups: Store, Admin, Channels.
type Config struct {
	Store    StoreConfig    `json:"store"`
	Admin    AdminConfig    `json:"admin"`
	Channels ChannelsConfig `json:"channels"`
}

// StoreConfig groups storage settings.
type StoreConfig struct {
	Path string `json:"path" envconfig:"STORE_PATH"`
}

// AdminConfig lists the platform identities allowed into the admin menus.
// Entries are either a bare sender id or "channel:sender".
type AdminConfig struct {
	IDs []string `json:"ids" envconfig:"ADMIN_IDS"`
}

// ChannelsConfig contains all channel configurations.
type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
	Slack    SlackConfig    `json:"slack"`
}

// TelegramConfig configures the Telegram channel.
type TelegramConfig struct {
	Enabled bool   `json:"enabled" envconfig:"ENABLED"`
	Token   string `json:"token" envconfig:"TOKEN"`
}

// SlackConfig configures the Slack Socket Mode channel.
type SlackConfig struct {
	Enabled  bool   `json:"enabled" envconfig:"ENABLED"`
	BotToken string `json:"botToken" envconfig:"BOT_TOKEN"`
	AppToken string `json:"appToken" envconfig:"APP_TOKEN"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "~/.dukkanbot/dukkan.db",
		},
	}
}

// Validate checks the parts of the config the daemon cannot run without.
func (c *Config) Validate() []string {
	var problems []string
	if c.Store.Path == "" {
		problems = append(problems, "store.path is empty")
	}
	if len(c.Admin.IDs) == 0 {
		problems = append(problems, "admin.ids is empty, nobody can manage shops")
	}
	if c.Channels.Telegram.Enabled && c.Channels.Telegram.Token == "" {
		problems = append(problems, "channels.telegram.enabled but no token set")
	}
	if c.Channels.Slack.Enabled {
		if c.Channels.Slack.BotToken == "" {
			problems = append(problems, "channels.slack.enabled but no botToken set")
		}
		if c.Channels.Slack.AppToken == "" {
			problems = append(problems, "channels.slack.enabled but no appToken set")
		}
	}
	if !c.Channels.Telegram.Enabled && !c.Channels.Slack.Enabled {
		problems = append(problems, "no channel enabled")
	}
	return problems
}

// EnsureDir ensures a directory exists with proper permissions.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
