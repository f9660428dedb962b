package openai

import (
	"context"
	"errors"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kiranshivaraju/medconsensus/internal/config"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

const defaultTemperature = 0.2

// Provider implements models.CompletionProvider using the OpenAI chat API.
type Provider struct {
	client *goopenai.Client
	model  string
}

// NewProvider creates an OpenAI provider. A non-empty BaseURL points the
// client at an OpenAI-compatible gateway.
func NewProvider(cfg config.OpenAIConfig) *Provider {
	return NewProviderWithClient(cfg, nil)
}

// NewProviderWithClient is NewProvider with a caller-supplied HTTP client.
func NewProviderWithClient(cfg config.OpenAIConfig, httpClient *http.Client) *Provider {
	oc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}
	return &Provider{
		client: goopenai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string  { return "openai" }
func (p *Provider) Model() string { return p.model }

// Complete sends prompt as a single user message and returns the first
// choice. Zero choices yield an empty string and no error.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	return ChatComplete(ctx, p.client, p.model, prompt)
}

// ChatComplete runs one chat completion against client. It is shared with
// other OpenAI-compatible providers.
func ChatComplete(ctx context.Context, client *goopenai.Client, model, prompt string) (string, error) {
	if client == nil {
		return "", errors.New("openai client not initialized")
	}

	resp, err := client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

var _ models.CompletionProvider = (*Provider)(nil)
