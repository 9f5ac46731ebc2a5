package retry

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService wraps a completion service with rate limiting and bounded
// retries.
type LLMService struct {
	inner   driven.LLMService
	policy  Policy
	limiter *rate.Limiter
}

// NewLLMService decorates the given completion service.
func NewLLMService(inner driven.LLMService, cfg Config) *LLMService {
	return &LLMService{
		inner:   inner,
		policy:  cfg.Policy.normalise(),
		limiter: newLimiter(cfg),
	}
}

// Generate produces a text completion from a single prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var result string
	err := s.policy.do(ctx, "generate", func(ctx context.Context) error {
		if err := s.wait(ctx); err != nil {
			return err
		}
		var err error
		result, err = s.inner.Generate(ctx, prompt, opts)
		return err
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var result string
	err := s.policy.do(ctx, "chat", func(ctx context.Context) error {
		if err := s.wait(ctx); err != nil {
			return err
		}
		var err error
		result, err = s.inner.Chat(ctx, messages, opts)
		return err
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the service is reachable. Not retried.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases resources.
func (s *LLMService) Close() error {
	return s.inner.Close()
}

func (s *LLMService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}
