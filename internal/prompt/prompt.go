package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a named prompt is not in the prompts file.
var ErrNotFound = errors.New("prompt not found")

// File is the on-disk layout of the prompts file. JSON files parse too.
type File struct {
	Prompts map[string]string `yaml:"prompts"`
}

// Builder holds the named system prompts and the one currently selected.
type Builder struct {
	mu      sync.RWMutex
	prompts map[string]string
	name    string
	text    string
}

// NewBuilder returns a Builder over an in-memory prompt set.
func NewBuilder(prompts map[string]string) *Builder {
	b := &Builder{prompts: make(map[string]string, len(prompts))}
	for name, text := range prompts {
		b.prompts[name] = text
	}
	return b
}

// Load reads prompts from path. A missing file yields an empty Builder so
// the caller can decide whether a missing prompt matters.
func Load(path string) (*Builder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewBuilder(nil), nil
		}
		return nil, fmt.Errorf("read prompts file %q: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse prompts file %q: %w", path, err)
	}
	return NewBuilder(f.Prompts), nil
}

// Get returns the prompt text stored under name.
func (b *Builder) Get(name string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text, ok := b.prompts[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return strings.TrimSpace(text), nil
}

// LoadPrompt selects name as the active prompt.
func (b *Builder) LoadPrompt(name string) error {
	text, err := b.Get(name)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.name, b.text = name, text
	b.mu.Unlock()
	return nil
}

// Prompt returns the active prompt text, empty when none is selected.
func (b *Builder) Prompt() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Name returns the active prompt name.
func (b *Builder) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}
