package maya

import (
	"context"
	"errors"

	"github.com/klaus04-hub/maya/observability"
)

// Fixed replies substituted for a generated answer when the completion
// call degrades. Users only ever see these, never a raw error.
const (
	// FallbackBadStatus is returned when the API answers with a
	// non-success status code.
	FallbackBadStatus = "Desculpa, tive um problema. Tenta de novo?"
	// FallbackMalformed is returned when a success response carries no
	// generated choices.
	FallbackMalformed = "Ops, algo deu errado..."
	// FallbackTransport is returned on network, timeout or any other
	// transport failure.
	FallbackTransport = "Desculpa, tive um problema técnico. Tenta de novo?"
)

// CompletionOutcome classifies the result of a single completion attempt.
type CompletionOutcome int

const (
	// OutcomeSuccess means the provider returned generated text.
	OutcomeSuccess CompletionOutcome = iota
	// OutcomeBadStatus means the API answered with a non-success status.
	OutcomeBadStatus
	// OutcomeMalformedResponse means a success response had no choices.
	OutcomeMalformedResponse
	// OutcomeTransportFailure covers network, timeout and every other
	// failure mode.
	OutcomeTransportFailure
)

// CompletionResult is the outcome of one completion call. Text is set
// only on success; ReplyText folds the failure kinds into the fixed
// fallback strings.
type CompletionResult struct {
	Outcome CompletionOutcome
	Text    string
}

// ReplyText returns the user-visible reply for this result.
func (r CompletionResult) ReplyText() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return r.Text
	case OutcomeBadStatus:
		return FallbackBadStatus
	case OutcomeMalformedResponse:
		return FallbackMalformed
	default:
		return FallbackTransport
	}
}

// CompletionClient performs exactly one completion attempt per call and
// never returns an error: every failure is folded into the result's
// outcome so callers hold the failure-mapping policy in one place.
type CompletionClient struct {
	request *LLMRequest
	logger  observability.Logger
}

// NewCompletionClient creates a CompletionClient over a configured
// LLMRequest.
func NewCompletionClient(request *LLMRequest, logger observability.Logger) *CompletionClient {
	return &CompletionClient{
		request: request,
		logger:  logger,
	}
}

// Complete sends the messages to the provider and classifies the result.
func (c *CompletionClient) Complete(ctx context.Context, messages []LLMMessage) CompletionResult {
	response, err := c.request.Generate(ctx, messages)
	if err == nil {
		return CompletionResult{Outcome: OutcomeSuccess, Text: response.Text}
	}

	var llmErr *LLMError
	switch {
	case errors.As(err, &llmErr):
		c.logger.WithFields(map[string]interface{}{"status": llmErr.Code}).
			Errorf("completion returned non-success status: %s", llmErr.Message)
		return CompletionResult{Outcome: OutcomeBadStatus}
	case errors.Is(err, ErrMalformedResponse):
		c.logger.Error("completion response missing choices")
		return CompletionResult{Outcome: OutcomeMalformedResponse}
	default:
		c.logger.WithErr(err).Error("completion request failed")
		return CompletionResult{Outcome: OutcomeTransportFailure}
	}
}
