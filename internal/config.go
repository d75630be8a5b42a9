package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hallgrim/skald/internal/models"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App         ApplicationConfig `yaml:"app"`
	Transcripts TreeConfig        `yaml:"transcripts"`
	Summaries   TreeConfig        `yaml:"summaries"`
	SQLite      SQLiteConfig      `yaml:"sqlite"`
	Discord     DiscordConfig     `yaml:"discord"`
	Slack       SlackConfig       `yaml:"slack"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Auth        AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Transcripts.Validate(); err != nil {
		return err
	}
	if err := c.Summaries.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Discord.Validate(); err != nil {
		return err
	}
	if err := c.Slack.Validate(); err != nil {
		return err
	}
	if len(c.Discord.Channels) == 0 && len(c.Slack.Channels) == 0 {
		return fmt.Errorf("config: at least one discord or slack channel must be configured")
	}
	if err := c.Schedule.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// TreeConfig holds the path to a Markdown file tree (transcripts or summaries).
type TreeConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the tree configuration.
func (c *TreeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// DiscordConfig holds the Discord bot token and the channels collected
// through it. An empty channel list disables the source.
type DiscordConfig struct {
	Token    string           `yaml:"token"`
	Channels []models.Channel `yaml:"channels"`
}

// Validate validates the Discord configuration.
func (c *DiscordConfig) Validate() error {
	if len(c.Channels) == 0 {
		return nil
	}
	if c.Token == "" {
		return fmt.Errorf("discord: channels configured but token is empty")
	}
	return validateChannels("discord", c.Channels)
}

// SlackConfig holds the Slack bot token and the channels collected through
// it. An empty channel list disables the source.
type SlackConfig struct {
	Token    string           `yaml:"token"`
	Channels []models.Channel `yaml:"channels"`
}

// Validate validates the Slack configuration.
func (c *SlackConfig) Validate() error {
	if len(c.Channels) == 0 {
		return nil
	}
	if c.Token == "" {
		return fmt.Errorf("slack: channels configured but token is empty")
	}
	return validateChannels("slack", c.Channels)
}

func validateChannels(source string, channels []models.Channel) error {
	for i, ch := range channels {
		if ch.ID == "" || ch.Name == "" {
			return fmt.Errorf("%s: channel %d must have both id and name", source, i)
		}
	}
	return nil
}

// ScheduleConfig holds the cron expression for the nightly pipeline run.
type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

// Validate validates the schedule configuration.
func (c *ScheduleConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Cron, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Transcripts: TreeConfig{
			Path: "./transcripts",
		},
		Summaries: TreeConfig{
			Path: "./summaries",
		},
		SQLite: SQLiteConfig{
			Path: "./skald.db",
		},
		Schedule: ScheduleConfig{
			// Runs right after the window close so the night's messages are
			// already inside the collected range.
			Cron: "45 3 * * *",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
