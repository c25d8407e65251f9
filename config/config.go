// Package config loads the bot configuration from the environment once at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Supported completion backends.
const (
	BackendLangchain  = "langchain"
	BackendOpenAI     = "openai"
	BackendOpenRouter = "openrouter"
)

// Config is built once in main and passed down to every component that needs it.
type Config struct {
	Discord DiscordConfig
	Twitch  TwitchConfig
	AI      AIConfig `envPrefix:"AI_"`

	// Prefix is the single character that starts a command.
	Prefix string `env:"COMMAND_PREFIX" envDefault:"," validate:"len=1"`

	// FlavorsPath overrides the embedded flavor catalog with a YAML file.
	FlavorsPath string `env:"FLAVORS_PATH"`

	// SelfRoastChance is the probability that a roast targets the bot itself.
	SelfRoastChance float64 `env:"SELF_ROAST_CHANCE" envDefault:"0.1" validate:"gte=0,lte=1"`

	// RiddleTimeout bounds the wait for the reveal reaction.
	RiddleTimeout time.Duration `env:"RIDDLE_TIMEOUT" envDefault:"60s" validate:"gt=0"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":6060"`

	// OpenRouterKey is the credential name used by older deployments.
	OpenRouterKey string `env:"OPENROUTER_API_KEY"`
}

// DiscordConfig holds the discord bot credential.
type DiscordConfig struct {
	Token string `env:"DISCORD_BOT_TOKEN" validate:"required"`
}

// TwitchConfig enables the twitch adapter when Channel is set.
type TwitchConfig struct {
	Channel    string `env:"TWITCH_CHANNEL"`
	Username   string `env:"TWITCH_USERNAME" validate:"required_with=Channel"`
	OAuthToken string `env:"TWITCH_OAUTH_TOKEN" validate:"required_with=Channel"`
}

// AIConfig configures the completion backend. An empty APIKey disables it.
type AIConfig struct {
	APIKey  string        `env:"API_KEY"`
	BaseURL string        `env:"API_URL" envDefault:"https://openrouter.ai/api/v1" validate:"required,url"`
	Model   string        `env:"MODEL" envDefault:"openai/gpt-4o" validate:"required"`
	Backend string        `env:"BACKEND" envDefault:"langchain" validate:"oneof=langchain openai openrouter"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

// Enabled reports whether a completion credential is configured.
func (a AIConfig) Enabled() bool {
	return a.APIKey != ""
}

// Enabled reports whether the twitch adapter should start.
func (t TwitchConfig) Enabled() bool {
	return t.Channel != ""
}

// Load reads envFile if it exists, then parses and validates the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	return finish(cfg)
}

// LoadFromMap parses cfg from the given variables instead of the process environment.
func LoadFromMap(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.AI.APIKey = strings.TrimSpace(cfg.AI.APIKey)
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = strings.TrimSpace(cfg.OpenRouterKey)
	}
	cfg.AI.BaseURL = strings.TrimRight(cfg.AI.BaseURL, "/")
	cfg.Twitch.Channel = strings.ToLower(strings.TrimPrefix(cfg.Twitch.Channel, "#"))

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg and reports every failing field in one error.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
