package vllm

import (
	"context"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kiranshivaraju/medconsensus/internal/ai/openai"
	"github.com/kiranshivaraju/medconsensus/internal/config"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

// Provider implements models.CompletionProvider against a vLLM server's
// OpenAI-compatible endpoint.
type Provider struct {
	client *goopenai.Client
	model  string
}

func NewProvider(cfg config.VLLMConfig) *Provider {
	return NewProviderWithClient(cfg, nil)
}

// NewProviderWithClient is NewProvider with a caller-supplied HTTP client.
func NewProviderWithClient(cfg config.VLLMConfig, httpClient *http.Client) *Provider {
	// vLLM does not check the key unless started with --api-key.
	oc := goopenai.DefaultConfig("EMPTY")
	oc.BaseURL = apiBase(cfg.BaseURL)
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}
	return &Provider{
		client: goopenai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string  { return "vllm" }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	return openai.ChatComplete(ctx, p.client, p.model, prompt)
}

// apiBase appends the /v1 prefix vLLM serves the OpenAI API under.
func apiBase(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(base, "/v1") {
		return base
	}
	return base + "/v1"
}

var _ models.CompletionProvider = (*Provider)(nil)
