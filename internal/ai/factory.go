package ai

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/medconsensus/internal/ai/anthropic"
	"github.com/kiranshivaraju/medconsensus/internal/ai/gemini"
	"github.com/kiranshivaraju/medconsensus/internal/ai/mock"
	"github.com/kiranshivaraju/medconsensus/internal/ai/ollama"
	"github.com/kiranshivaraju/medconsensus/internal/ai/openai"
	"github.com/kiranshivaraju/medconsensus/internal/ai/vllm"
	"github.com/kiranshivaraju/medconsensus/internal/config"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

// NewProvider constructs the appropriate completion provider based on config.
// Called once at server startup.
func NewProvider(ctx context.Context, cfg config.AIConfig) (models.CompletionProvider, error) {
	switch cfg.Provider {
	case "gemini":
		p, err := gemini.NewProvider(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "vllm":
		return vllm.NewProvider(cfg.VLLM), nil
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	case "mock":
		return mock.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, openai, vllm, anthropic, ollama, mock", cfg.Provider)
	}
}
