// Package maya implements the conversational core of the Maya Telegram
// assistant: bounded per-user chat memory, completion request assembly,
// and the single-attempt call against an OpenAI-compatible API.
package maya

import (
	"fmt"
)

// LLMMessageRole represents the role of a participant in a conversation.
type LLMMessageRole string

const (
	// SystemRole is the role for persona instructions.
	SystemRole LLMMessageRole = "system"
	// UserRole is the role for end-user messages.
	UserRole LLMMessageRole = "user"
	// AssistantRole is the role for generated replies.
	AssistantRole LLMMessageRole = "assistant"
)

// ImageData is an inline image attached to a user message.
type ImageData struct {
	MimeType string
	Base64   string
}

// DataURI renders the image as an embeddable data URI suitable for
// an image_url content part.
func (i ImageData) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MimeType, i.Base64)
}

// LLMMessage represents a single message in a completion request.
// Image is set only on user messages that carry a photo.
type LLMMessage struct {
	Role  LLMMessageRole
	Text  string
	Image *ImageData
}

// LLMResponse encapsulates a successful response from an LLM provider.
type LLMResponse struct {
	// Text contains the generated response text
	Text string
	// TotalInputToken is the number of tokens in the input prompt
	TotalInputToken int
	// TotalOutputToken is the number of tokens in the generated response
	TotalOutputToken int
	// CompletionTime is the total time taken to generate the response, in seconds
	CompletionTime float64
}

// LLMError represents an API-level error reported by the completion
// endpoint, carrying the HTTP status code it answered with.
type LLMError struct {
	Code    int
	Message string
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("LLM error %d: %s", e.Code, e.Message)
}

// LLMRequestConfig defines the sampling parameters for a completion call.
type LLMRequestConfig struct {
	maxToken    int64
	temperature float64
	topP        float64
}

// DefaultConfig holds the default values for completion requests.
var DefaultConfig = LLMRequestConfig{
	maxToken:    500,
	temperature: 0.8,
	topP:        1.0,
}

// RequestOption is a function that modifies an LLMRequestConfig.
type RequestOption func(*LLMRequestConfig)

// WithMaxToken sets the maximum number of tokens to generate.
// Non-positive values keep the default.
func WithMaxToken(maxToken int64) RequestOption {
	return func(c *LLMRequestConfig) {
		if maxToken > 0 {
			c.maxToken = maxToken
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) RequestOption {
	return func(c *LLMRequestConfig) {
		c.temperature = temperature
	}
}

// WithTopP sets the nucleus sampling parameter.
func WithTopP(topP float64) RequestOption {
	return func(c *LLMRequestConfig) {
		c.topP = topP
	}
}

// NewRequestConfig creates a new request configuration starting from
// DefaultConfig and applying the given options.
func NewRequestConfig(opts ...RequestOption) LLMRequestConfig {
	config := DefaultConfig
	for _, opt := range opts {
		opt(&config)
	}
	return config
}
