package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/akashicode/weather/internal/config"
)

// ErrNilConfig is returned when a nil config is provided.
var ErrNilConfig = errors.New("llm config is nil")

// ErrEmptyResponse is returned when the LLM returns an empty response.
var ErrEmptyResponse = errors.New("llm returned empty response")

// Settings are the per-request knobs sent with every completion.
type Settings struct {
	Model           string
	MaximumTokens   int
	Verbosity       string
	ReasoningEffort string
}

// Connection wraps the OpenAI client and the request settings.
type Connection struct {
	client *openai.Client

	mu       sync.RWMutex
	settings Settings
}

// NewConnection creates a Connection from a ProviderConfig. An empty API key
// is accepted; requests will be rejected by the provider.
func NewConnection(cfg *config.ProviderConfig) (*Connection, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &Connection{
		client:   openai.NewClientWithConfig(clientCfg),
		settings: Settings{Model: cfg.Model},
	}, nil
}

// SetMaximumTokens caps the completion length.
func (c *Connection) SetMaximumTokens(n int) {
	c.mu.Lock()
	c.settings.MaximumTokens = n
	c.mu.Unlock()
}

// SetModel selects the model.
func (c *Connection) SetModel(name string) {
	c.mu.Lock()
	c.settings.Model = name
	c.mu.Unlock()
}

// SetVerbosity sets the response verbosity hint (low, medium, high).
func (c *Connection) SetVerbosity(level string) {
	c.mu.Lock()
	c.settings.Verbosity = level
	c.mu.Unlock()
}

// SetReasoningEffort sets the reasoning effort (minimal, low, medium, high).
func (c *Connection) SetReasoningEffort(level string) {
	c.mu.Lock()
	c.settings.ReasoningEffort = level
	c.mu.Unlock()
}

// Settings returns a copy of the current request settings.
func (c *Connection) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Model returns the configured model name.
func (c *Connection) Model() string {
	return c.Settings().Model
}

// Complete sends messages and returns the assistant response text.
func (c *Connection) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	s := c.Settings()
	if s.Model == "" {
		return "", errors.New("llm model is required")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               s.Model,
		Messages:            messages,
		MaxCompletionTokens: s.MaximumTokens,
		ReasoningEffort:     s.ReasoningEffort,
		Verbosity:           s.Verbosity,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
