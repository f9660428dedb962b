package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/kiranshivaraju/medconsensus/internal/config"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

const defaultTemperature float32 = 0.4

// Provider implements models.CompletionProvider using the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

// NewProvider creates a Gemini provider. The API key must come from config;
// there is no built-in key.
func NewProvider(ctx context.Context, cfg config.GeminiConfig) (*Provider, error) {
	return NewProviderWithClient(ctx, cfg, "", nil)
}

// NewProviderWithClient is NewProvider with a custom endpoint and HTTP client.
// An empty baseURL keeps the SDK default.
func NewProviderWithClient(ctx context.Context, cfg config.GeminiConfig, baseURL string, httpClient *http.Client) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Provider{client: client, model: cfg.Model}, nil
}

func (p *Provider) Name() string  { return "gemini" }
func (p *Provider) Model() string { return p.model }

// Complete returns the text of the first candidate. A reply with no
// candidates yields an empty string and no error.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(defaultTemperature),
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}
	return resp.Text(), nil
}

var _ models.CompletionProvider = (*Provider)(nil)
