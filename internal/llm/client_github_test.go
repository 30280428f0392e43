package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *GitHubModelsClient {
	return NewGitHubModelsClientWithConfig(GitHubModelsConfig{
		Token:   "test-token",
		BaseURL: serverURL,
		Model:   "openai/gpt-4.1-mini",
		Timeout: 5 * time.Second,
	})
}

func completionBody(content string) string {
	resp := map[string]interface{}{
		"id":    "chatcmpl-123",
		"model": "openai/gpt-4.1-mini",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestGitHubModelsClient_Complete(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("def test_add():\n    pass")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.Complete(context.Background(), "generate tests")

	require.NoError(t, err)
	assert.Equal(t, "def test_add():\n    pass", out)
	assert.Equal(t, "Bearer test-token", gotAuth)

	// Empty system prompt falls back to the built-in test-engineer framing.
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[0].Content, "unit tests")
	assert.Equal(t, "generate tests", gotBody.Messages[1].Content)
	assert.Equal(t, 0.2, gotBody.Temperature)
	assert.Equal(t, 4096, gotBody.MaxTokens)
}

func TestGitHubModelsClient_RetriesOn429(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(completionBody("ok")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.Complete(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGitHubModelsClient_ServerErrorNotRetried(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "bad model"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGitHubModelsClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "x", "choices": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completion returned")
}

func TestGitHubModelsClient_MissingToken(t *testing.T) {
	client := NewGitHubModelsClient("")
	_, err := client.Complete(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token not configured")
}

func TestNewClient_Factory(t *testing.T) {
	client, err := NewClient(Options{Provider: "github", APIKey: "tok", Model: "custom/model"})
	require.NoError(t, err)
	gh, ok := client.(*GitHubModelsClient)
	require.True(t, ok)
	assert.Equal(t, "custom/model", gh.GetModel())

	// Default provider is GitHub Models.
	client, err = NewClient(Options{APIKey: "tok"})
	require.NoError(t, err)
	_, ok = client.(*GitHubModelsClient)
	assert.True(t, ok)

	_, err = NewClient(Options{Provider: "martian"})
	require.Error(t, err)

	// Gemini requires an API key.
	_, err = NewClient(Options{Provider: "gemini"})
	require.Error(t, err)
}
