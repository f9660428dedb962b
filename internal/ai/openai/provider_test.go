package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiranshivaraju/medconsensus/internal/ai/openai"
	"github.com/kiranshivaraju/medconsensus/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "the prompt", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(srv *httptest.Server) *openai.Provider {
	return openai.NewProviderWithClient(config.OpenAIConfig{
		APIKey:  "sk-test",
		Model:   "gpt-test",
		BaseURL: srv.URL + "/v1",
	}, srv.Client())
}

func TestProvider_Identity(t *testing.T) {
	p := openai.NewProvider(config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"})
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "gpt-4o-mini", p.Model())
}

func TestProvider_Complete(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Diagnosis: Flu"}, "finish_reason": "stop"}]
	}`)

	out, err := newProvider(srv).Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Diagnosis: Flu", out)
}

func TestProvider_NoChoices(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"id": "chatcmpl-1", "object": "chat.completion", "choices": []}`)

	out, err := newProvider(srv).Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProvider_ErrorStatus(t *testing.T) {
	srv := chatServer(t, http.StatusUnauthorized, `{"error": {"message": "bad key", "type": "invalid_request_error"}}`)

	_, err := newProvider(srv).Complete(context.Background(), "the prompt")
	require.Error(t, err)
}
