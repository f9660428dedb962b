package mock

import (
	"context"

	"github.com/kiranshivaraju/medconsensus/pkg/models"
)

// MockProvider satisfies models.CompletionProvider for testing and for
// running the server without a model backend (AI_PROVIDER=mock).
type MockProvider struct {
	Name_        string
	Model_       string
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *MockProvider) Name() string  { return m.Name_ }
func (m *MockProvider) Model() string { return m.Model_ }

func (m *MockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "", nil
}

// NewMockProvider returns a MockProvider that answers every prompt with a
// reply containing all opinion labels, all verdict sections and five
// questions, so each synthesis operation parses without defaults.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Name_:  "mock",
		Model_: "mock-v1",
		CompleteFunc: func(_ context.Context, _ string) (string, error) {
			return CannedReply, nil
		},
	}
}

// CannedReply is the text returned by NewMockProvider.
const CannedReply = `Diagnosis: Simulated condition from mock provider
Confidence: 80%
Recommendation: Follow up with a physician for confirmation

CONSENSUS DIAGNOSIS: Simulated consensus diagnosis
AGREEMENT ANALYSIS: All simulated specialists agree.
RECOMMENDATIONS: Simulated combined recommendation.
NEXT STEPS: Simulated next steps.

When did the symptoms start?
How severe are the symptoms?
Have you had this before?
Are you taking any medication?
Do you have any allergies?`

// NewStaticProvider returns a MockProvider that always answers with reply.
func NewStaticProvider(reply string) *MockProvider {
	return &MockProvider{
		Name_:  "mock-static",
		Model_: "mock-v1",
		CompleteFunc: func(_ context.Context, _ string) (string, error) {
			return reply, nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_:  "mock-failing",
		Model_: "mock-v1",
		CompleteFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_:  "mock-timeout",
		Model_: "mock-v1",
		CompleteFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
}

// Compile-time check that MockProvider implements CompletionProvider.
var _ models.CompletionProvider = (*MockProvider)(nil)
