package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/akashicode/weather/internal/history"
	"github.com/akashicode/weather/internal/prompt"
)

// ErrSaveHistory is returned with a valid reply when the history file could
// not be written.
var ErrSaveHistory = errors.New("save chat history")

// Payload assembles system prompt, chat history and user message into one
// request and sends it over a Connection.
type Payload struct {
	Connection *Connection
	Prompts    *prompt.Builder
	History    *history.Manager

	// HistoryLimit caps the number of history messages replayed.
	HistoryLimit int
	// AutoAddResponseToHistory records each exchange and saves the history.
	AutoAddResponseToHistory bool
}

// NewPayload wires the three collaborators together.
func NewPayload(conn *Connection, prompts *prompt.Builder, hist *history.Manager) (*Payload, error) {
	if conn == nil {
		return nil, errors.New("llm connection is required")
	}
	if prompts == nil {
		prompts = prompt.NewBuilder(nil)
	}
	if hist == nil {
		hist, _ = history.Load("")
	}
	return &Payload{
		Connection: conn,
		Prompts:    prompts,
		History:    hist,
	}, nil
}

// LoadPrompt selects the named system prompt.
func (p *Payload) LoadPrompt(name string) error {
	return p.Prompts.LoadPrompt(name)
}

// Prompt returns the selected system prompt.
func (p *Payload) Prompt() string {
	return p.Prompts.Prompt()
}

// SetMaximumTokens caps the completion length.
func (p *Payload) SetMaximumTokens(n int) { p.Connection.SetMaximumTokens(n) }

// SetModel selects the model.
func (p *Payload) SetModel(name string) { p.Connection.SetModel(name) }

// SetVerbosity sets the verbosity hint.
func (p *Payload) SetVerbosity(level string) { p.Connection.SetVerbosity(level) }

// SetReasoningEffort sets the reasoning effort.
func (p *Payload) SetReasoningEffort(level string) { p.Connection.SetReasoningEffort(level) }

// Settings returns the connection settings.
func (p *Payload) Settings() Settings { return p.Connection.Settings() }

// Messages builds the request messages for userMessage. The addendum is
// appended to the system prompt named promptName, or to the selected prompt
// when promptName is unknown.
func (p *Payload) Messages(userMessage, promptName, addendum string) []openai.ChatCompletionMessage {
	system := p.Prompts.Prompt()
	if promptName != "" && promptName != p.Prompts.Name() {
		if text, err := p.Prompts.Get(promptName); err == nil {
			system = text
		}
	}

	var sb strings.Builder
	sb.WriteString(system)
	if addendum != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(addendum)
	}

	messages := []openai.ChatCompletionMessage{}
	if sb.Len() > 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: sb.String(),
		})
	}
	messages = append(messages, p.History.Messages(p.HistoryLimit)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})
	return messages
}

// SendMessage sends userMessage with the named prompt and addendum and
// returns the raw reply. A failure to persist history is reported with
// ErrSaveHistory alongside the reply.
func (p *Payload) SendMessage(ctx context.Context, userMessage, promptName, addendum string) (string, error) {
	reply, err := p.Connection.Complete(ctx, p.Messages(userMessage, promptName, addendum))
	if err != nil {
		return "", err
	}

	if p.AutoAddResponseToHistory {
		p.History.Append(
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userMessage},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
		)
		if err := p.History.Save(); err != nil {
			return reply, fmt.Errorf("%w: %v", ErrSaveHistory, err)
		}
	}
	return reply, nil
}
