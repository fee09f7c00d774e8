package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// APIKeyEnv is the environment variable holding the OpenAI credential.
const APIKeyEnv = "OPENAI_API_KEY"

// ErrNilConfig is returned when a nil Config is provided.
var ErrNilConfig = errors.New("config is nil")

// Config holds the settings read from the preferences file.
// Keys keep the human-readable names used in the file.
type Config struct {
	PromptsFile     string `mapstructure:"prompts file" default:"prompts.yaml"`
	ChatHistoryFile string `mapstructure:"chat history file" default:"chat_history.json"`
	LogFile         string `mapstructure:"log file" default:"weather.log"`
	LogMode         string `mapstructure:"log mode" default:"Info"`
	OpenAIKey       string `mapstructure:"openai key"`
	OpenAIBaseURL   string `mapstructure:"openai base url" default:"https://api.openai.com/v1"`
	WeatherURL      string `mapstructure:"weather url" default:"https://api.weather.gc.ca/collections/citypageweather-realtime/items/%s?f=json"`
	HistoryLimit    int    `mapstructure:"history limit" default:"20"`

	// Source is the file the settings were read from, empty when only
	// defaults apply.
	Source string `mapstructure:"-"`
}

// ProviderConfig holds connection details for the chat-completion provider.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Provider returns the provider settings for the resolved apiKey.
func (c *Config) Provider(apiKey string) ProviderConfig {
	return ProviderConfig{
		BaseURL: c.OpenAIBaseURL,
		APIKey:  apiKey,
	}
}

// Default returns a Config populated only with defaults.
func Default() *Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		// Tags are static; a failure here is a programming error.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &cfg
}

// Load reads the settings file at path. A missing file is not an error:
// the returned Config carries defaults and an empty Source.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("unmarshal config: " + err.Error())
	}
	cfg.Source = v.ConfigFileUsed()
	return cfg, nil
}

// Loaded reports whether the settings came from a file.
func (c *Config) Loaded() bool {
	return c.Source != ""
}

// ResolveAPIKey returns the OpenAI key from the environment, falling back to
// the settings file. A missing key is logged but not fatal; the backend call
// fails on its own when the key is unusable.
func ResolveAPIKey(cfg *Config, log zerolog.Logger) string {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		return key
	}
	log.Error().Msg(APIKeyEnv + " not found in environment variables")

	if cfg == nil {
		log.Error().Err(ErrNilConfig).Msg("no fallback OpenAI key available")
		return ""
	}
	if key := strings.TrimSpace(cfg.OpenAIKey); key != "" {
		return key
	}
	log.Error().Msg("OpenAI key missing from both environment and settings file")
	return ""
}
