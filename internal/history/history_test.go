package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(role, content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{Role: role, Content: content}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "chat_history.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Messages(10))
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chat_history.json")

	m, err := Load(path)
	require.NoError(t, err)
	m.Append(
		msg(openai.ChatMessageRoleUser, "Is it cold in Ottawa?"),
		msg(openai.ChatMessageRoleAssistant, "Yes, -5C."),
	)
	require.NoError(t, m.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Messages(0), reloaded.Messages(0))
}

func TestMessages_Limit(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	for _, c := range []string{"a", "b", "c", "d"} {
		m.Append(msg(openai.ChatMessageRoleUser, c))
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"unlimited", 0, []string{"a", "b", "c", "d"}},
		{"negative", -1, []string{"a", "b", "c", "d"}},
		{"last two", 2, []string{"c", "d"}},
		{"larger than history", 10, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Messages(tt.limit)
			contents := make([]string, 0, len(got))
			for _, g := range got {
				contents = append(contents, g.Content)
			}
			assert.Equal(t, tt.want, contents)
		})
	}
}

func TestMessages_ReturnsCopy(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	m.Append(msg(openai.ChatMessageRoleUser, "original"))

	got := m.Messages(0)
	got[0].Content = "changed"
	assert.Equal(t, "original", m.Messages(0)[0].Content)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSave_MemoryOnly(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	m.Append(msg(openai.ChatMessageRoleUser, "hi"))
	assert.NoError(t, m.Save())
}
