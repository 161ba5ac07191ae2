package maya

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
)

// DefaultModel is the completion model used when none is configured.
const DefaultModel = "grok-beta"

// ErrMalformedResponse indicates a successful HTTP response whose body
// carried no generated choices.
var ErrMalformedResponse = errors.New("completion response contains no choices")

// OpenAILLMProvider implements the LLMProvider interface against any
// OpenAI-compatible chat completions endpoint.
type OpenAILLMProvider struct {
	client OpenAIClientProvider
	model  string
}

// OpenAIProviderConfig holds configuration for the OpenAI-compatible provider.
type OpenAIProviderConfig struct {
	// Client is the OpenAIClientProvider implementation to use
	Client OpenAIClientProvider
	// Model specifies which model to use (e.g. "grok-beta")
	Model openai.ChatModel
}

// NewOpenAILLMProvider creates a new provider with the specified
// configuration. If no model is specified, it defaults to DefaultModel.
func NewOpenAILLMProvider(config OpenAIProviderConfig) *OpenAILLMProvider {
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &OpenAILLMProvider{
		client: config.Client,
		model:  config.Model,
	}
}

// convertToOpenAIMessages converts internal message format to OpenAI's format.
// User messages carrying an image become a content-part list: an optional
// text part followed by one image_url part with the inline data URI.
func (p *OpenAILLMProvider) convertToOpenAIMessages(messages []LLMMessage) []openai.ChatCompletionMessageParamUnion {
	var openAIMessages []openai.ChatCompletionMessageParamUnion
	for _, msg := range messages {
		switch msg.Role {
		case SystemRole:
			openAIMessages = append(openAIMessages, openai.SystemMessage(msg.Text))
		case AssistantRole:
			openAIMessages = append(openAIMessages, openai.AssistantMessage(msg.Text))
		default:
			if msg.Image == nil {
				openAIMessages = append(openAIMessages, openai.UserMessage(msg.Text))
				continue
			}

			var parts []openai.ChatCompletionContentPartUnionParam
			if msg.Text != "" {
				parts = append(parts, openai.TextPart(msg.Text))
			}
			parts = append(parts, openai.ImagePart(msg.Image.DataURI()))
			openAIMessages = append(openAIMessages, openai.UserMessageParts(parts...))
		}
	}
	return openAIMessages
}

// createCompletionParams creates OpenAI API parameters from request config
func (p *OpenAILLMProvider) createCompletionParams(messages []openai.ChatCompletionMessageParamUnion, config LLMRequestConfig) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages:    openai.F(messages),
		Model:       openai.F(p.model),
		MaxTokens:   openai.Int(config.maxToken),
		TopP:        openai.Float(config.topP),
		Temperature: openai.Float(config.temperature),
	}
}

// GetResponse generates a response for the given messages and configuration.
// API-level failures (non-success status) are returned as *LLMError with the
// status code; a success status without choices is ErrMalformedResponse;
// anything else surfaces unchanged as a transport error.
func (p *OpenAILLMProvider) GetResponse(ctx context.Context, messages []LLMMessage, config LLMRequestConfig) (LLMResponse, error) {
	startTime := time.Now()
	openAIMessages := p.convertToOpenAIMessages(messages)
	params := p.createCompletionParams(openAIMessages, config)

	completion, err := p.client.CreateCompletion(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return LLMResponse{}, &LLMError{Code: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return LLMResponse{}, err
	}

	if len(completion.Choices) == 0 {
		return LLMResponse{}, ErrMalformedResponse
	}

	return LLMResponse{
		Text:             completion.Choices[0].Message.Content,
		TotalInputToken:  int(completion.Usage.PromptTokens),
		TotalOutputToken: int(completion.Usage.CompletionTokens),
		CompletionTime:   time.Since(startTime).Seconds(),
	}, nil
}
