package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/kiranshivaraju/medconsensus/internal/metrics"
	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

// Completion outcomes recorded in metrics.
const (
	outcomeOK        = "ok"
	outcomeTimeout   = "timeout"
	outcomeTransport = "transport_error"
	outcomeEmpty     = "empty"
)

// Gateway makes exactly one bounded completion call per request against a
// single provider and maps failures onto ErrTransport or ErrEmptyResponse.
// It never retries.
type Gateway struct {
	provider models.CompletionProvider
	timeout  time.Duration
	metrics  *metrics.Metrics
}

// NewGateway wraps provider. timeout must be positive; m may be nil.
func NewGateway(provider models.CompletionProvider, timeout time.Duration, m *metrics.Metrics) *Gateway {
	return &Gateway{provider: provider, timeout: timeout, metrics: m}
}

func (g *Gateway) Name() string  { return g.provider.Name() }
func (g *Gateway) Model() string { return g.provider.Model() }

// Complete returns the raw completion text for prompt.
func (g *Gateway) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.provider.Complete(callCtx, prompt)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		err = classifyError(callCtx, err)
		outcome := outcomeTransport
		if errors.Is(err, ErrInferenceTimeout) {
			outcome = outcomeTimeout
		}
		g.metrics.ObserveCompletion(g.provider.Name(), outcome, elapsed)
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		g.metrics.ObserveCompletion(g.provider.Name(), outcomeEmpty, elapsed)
		return "", ErrEmptyResponse
	}

	g.metrics.ObserveCompletion(g.provider.Name(), outcomeOK, elapsed)
	return text, nil
}

// classifyError wraps err in ErrTransport, adding ErrInferenceTimeout when the
// call ran out of time.
func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %v", ErrTransport, ErrInferenceTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w: %v", ErrTransport, ErrInferenceTimeout, err)
	}

	return fmt.Errorf("%w: %w", ErrTransport, err)
}
