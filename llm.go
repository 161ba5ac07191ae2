package maya

import (
	"context"
)

// LLMProvider defines the interface that completion backends must
// implement. It allows swapping the real OpenAI-compatible client for
// tracing decorators or test doubles.
type LLMProvider interface {
	// GetResponse generates a completion for the given messages using
	// the supplied configuration. Exactly one attempt is made.
	GetResponse(ctx context.Context, messages []LLMMessage, config LLMRequestConfig) (LLMResponse, error)
}

// LLMRequest handles the configuration and execution of LLM requests.
// It provides a consistent interface for interacting with different LLM providers.
type LLMRequest struct {
	requestConfig LLMRequestConfig
	provider      LLMProvider
}

// NewLLMRequest creates a new LLMRequest with the specified configuration and provider.
//
// Example usage:
//
//	provider := maya.NewOpenAILLMProvider(maya.OpenAIProviderConfig{
//	    Client: client,
//	    Model:  "grok-beta",
//	})
//	llm := maya.NewLLMRequest(maya.NewRequestConfig(), provider)
func NewLLMRequest(config LLMRequestConfig, provider LLMProvider) *LLMRequest {
	return &LLMRequest{
		requestConfig: config,
		provider:      provider,
	}
}

// Generate sends messages to the configured LLM provider and returns the response.
// It uses the provider and configuration specified during initialization.
func (r *LLMRequest) Generate(ctx context.Context, messages []LLMMessage) (LLMResponse, error) {
	return r.provider.GetResponse(ctx, messages, r.requestConfig)
}
