package maya

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/klaus04-hub/maya"

// TracingLLMProvider decorates any LLMProvider with an OTel span per
// completion call. A no-op when no tracer provider is configured.
type TracingLLMProvider struct {
	provider LLMProvider
}

// NewTracingLLMProvider wraps the given provider with tracing.
func NewTracingLLMProvider(provider LLMProvider) *TracingLLMProvider {
	return &TracingLLMProvider{
		provider: provider,
	}
}

// GetResponse implements LLMProvider, recording timing, token usage and
// the sampling parameters on the span.
func (t *TracingLLMProvider) GetResponse(ctx context.Context, messages []LLMMessage, config LLMRequestConfig) (LLMResponse, error) {
	ctx, span := startSpan(ctx, "LLMProvider.GetResponse")
	defer span.End()

	startTime := time.Now()

	response, err := t.provider.GetResponse(ctx, messages, config)
	if err != nil {
		span.RecordError(err)
		return LLMResponse{}, err
	}

	span.SetAttributes(
		attribute.Int("total_input_token", response.TotalInputToken),
		attribute.Int("total_output_token", response.TotalOutputToken),
		attribute.Int("message_count", len(messages)),
		attribute.Float64("completion_time", time.Since(startTime).Seconds()),
		attribute.Int64("max_token", config.maxToken),
		attribute.Float64("temperature", config.temperature),
		attribute.Float64("top_p", config.topP),
	)

	return response, nil
}

// startSpan derives a span from whatever tracer provider is attached to
// the context.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer(tracerName)
	return tracer.Start(ctx, name)
}
