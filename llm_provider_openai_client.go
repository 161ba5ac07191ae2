package maya

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClientProvider defines the interface for talking to an
// OpenAI-compatible chat completions API. It abstracts the single
// operation used by OpenAILLMProvider so tests can inject a double.
type OpenAIClientProvider interface {
	// CreateCompletion creates a new chat completion.
	CreateCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAIClient implements the OpenAIClientProvider interface using the
// official OpenAI SDK. The same client speaks to any OpenAI-compatible
// endpoint (x.ai included) via option.WithBaseURL.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new instance of OpenAIClient with the provided API key
// and optional client options.
//
// Example usage:
//
//	httpClient := &http.Client{Timeout: 30 * time.Second}
//	client := NewOpenAIClient(
//	    "your-api-key",
//	    option.WithBaseURL("https://api.x.ai/v1"),
//	    option.WithHTTPClient(httpClient),
//	)
func NewOpenAIClient(apiKey string, opts ...option.RequestOption) *OpenAIClient {
	// One network attempt per call; retry policy is not this layer's job.
	opts = append(opts, option.WithAPIKey(apiKey), option.WithMaxRetries(0))
	return &OpenAIClient{
		client: openai.NewClient(opts...),
	}
}

// CreateCompletion implements the OpenAIClientProvider interface using the OpenAI client.
func (c *OpenAIClient) CreateCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
