package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashicode/weather/internal/config"
)

// fakeOpenAI serves /chat/completions, recording each request body and
// answering with reply.
type fakeOpenAI struct {
	srv      *httptest.Server
	reply    string
	status   int
	requests []map[string]any
}

func newFakeOpenAI(t *testing.T, reply string) *fakeOpenAI {
	t.Helper()
	f := &fakeOpenAI{reply: reply, status: http.StatusOK}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		f.requests = append(f.requests, req)

		w.Header().Set("Content-Type", "application/json")
		if f.status != http.StatusOK {
			w.WriteHeader(f.status)
			fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
			return
		}
		content, _ := json.Marshal(f.reply)
		fmt.Fprintf(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-5-nano",`+
			`"choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`, content)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeOpenAI) connection(t *testing.T) *Connection {
	t.Helper()
	conn, err := NewConnection(&config.ProviderConfig{BaseURL: f.srv.URL + "/v1/", APIKey: "sk-test"})
	require.NoError(t, err)
	return conn
}

func TestNewConnection_NilConfig(t *testing.T) {
	_, err := NewConnection(nil)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestConnection_Settings(t *testing.T) {
	conn, err := NewConnection(&config.ProviderConfig{Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", conn.Model())

	conn.SetModel("gpt-5-nano")
	conn.SetMaximumTokens(500)
	conn.SetVerbosity("low")
	conn.SetReasoningEffort("minimal")

	assert.Equal(t, Settings{
		Model:           "gpt-5-nano",
		MaximumTokens:   500,
		Verbosity:       "low",
		ReasoningEffort: "minimal",
	}, conn.Settings())
}

func TestConnection_Complete(t *testing.T) {
	fake := newFakeOpenAI(t, "It is -5C.")
	conn := fake.connection(t)
	conn.SetModel("gpt-5-nano")
	conn.SetMaximumTokens(500)
	conn.SetVerbosity("low")
	conn.SetReasoningEffort("minimal")

	got, err := conn.Complete(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "It is -5C.", got)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "gpt-5-nano", req["model"])
	assert.EqualValues(t, 500, req["max_completion_tokens"])
	assert.Equal(t, "minimal", req["reasoning_effort"])
	assert.Equal(t, "low", req["verbosity"])
}

func TestConnection_CompleteErrors(t *testing.T) {
	t.Run("empty reply", func(t *testing.T) {
		fake := newFakeOpenAI(t, "")
		conn := fake.connection(t)
		conn.SetModel("gpt-5-nano")

		_, err := conn.Complete(context.Background(), nil)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("provider error", func(t *testing.T) {
		fake := newFakeOpenAI(t, "unused")
		fake.status = http.StatusInternalServerError
		conn := fake.connection(t)
		conn.SetModel("gpt-5-nano")

		_, err := conn.Complete(context.Background(), nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("no model", func(t *testing.T) {
		fake := newFakeOpenAI(t, "unused")
		conn := fake.connection(t)

		_, err := conn.Complete(context.Background(), nil)
		require.Error(t, err)
		assert.Empty(t, fake.requests)
	})
}
