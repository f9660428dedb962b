package vllm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiranshivaraju/medconsensus/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIBase(t *testing.T) {
	assert.Equal(t, "http://vllm:8000/v1", apiBase("http://vllm:8000"))
	assert.Equal(t, "http://vllm:8000/v1", apiBase("http://vllm:8000/"))
	assert.Equal(t, "http://vllm:8000/v1", apiBase("http://vllm:8000/v1"))
}

func TestProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"index": 0, "message": {"role": "assistant", "content": "Is it painful?"}}]}`))
	}))
	defer srv.Close()

	p := NewProviderWithClient(config.VLLMConfig{BaseURL: srv.URL, Model: "mistral-7b"}, srv.Client())
	assert.Equal(t, "vllm", p.Name())
	assert.Equal(t, "mistral-7b", p.Model())

	out, err := p.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Is it painful?", out)
}

func TestProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProviderWithClient(config.VLLMConfig{BaseURL: srv.URL, Model: "m"}, srv.Client())
	_, err := p.Complete(context.Background(), "prompt")
	require.Error(t, err)
}
