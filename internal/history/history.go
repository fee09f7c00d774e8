package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// Manager keeps the chat transcript replayed to the model on each request.
type Manager struct {
	mu       sync.Mutex
	path     string
	messages []openai.ChatCompletionMessage
}

// Load reads the transcript at path. A missing file starts an empty one.
func Load(path string) (*Manager, error) {
	m := &Manager{path: path}
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("read chat history %q: %w", path, err)
	}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m.messages); err != nil {
		return nil, fmt.Errorf("parse chat history %q: %w", path, err)
	}
	return m, nil
}

// Messages returns the most recent limit messages. A limit of zero or less
// returns the whole transcript.
func (m *Manager) Messages(limit int) []openai.ChatCompletionMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]openai.ChatCompletionMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds messages to the transcript in memory.
func (m *Manager) Append(msgs ...openai.ChatCompletionMessage) {
	m.mu.Lock()
	m.messages = append(m.messages, msgs...)
	m.mu.Unlock()
}

// Len returns the number of stored messages.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Save writes the transcript back to its file. A Manager without a path is
// memory-only and Save is a no-op.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return nil
	}
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chat history directory %q: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(m.messages, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chat history: %w", err)
	}
	return os.WriteFile(m.path, data, 0o600)
}
