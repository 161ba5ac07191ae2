package maya

import (
	"context"

	"github.com/google/uuid"

	"github.com/klaus04-hub/maya/observability"
)

// ImageMemoryMarker prefixes the persisted user turn when the message
// carried a photo, so later turns can refer back to it.
const ImageMemoryMarker = "[Foto]"

// Orchestrator ties the history manager, request builder and completion
// client together. It holds no state across calls; each invocation is
// independent apart from the two history appends it performs.
type Orchestrator struct {
	history    *HistoryManager
	completion *CompletionClient
	persona    string
	logger     observability.Logger
}

// NewOrchestrator creates an Orchestrator. An empty persona falls back
// to DefaultPersona.
func NewOrchestrator(history *HistoryManager, completion *CompletionClient, persona string, logger observability.Logger) *Orchestrator {
	if persona == "" {
		persona = DefaultPersona
	}
	return &Orchestrator{
		history:    history,
		completion: completion,
		persona:    persona,
		logger:     logger,
	}
}

// Handle processes one inbound user message and returns the reply text.
// The user and assistant turns are persisted unconditionally, fallback
// replies included: the stored conversation is whatever was said, with
// no distinction between a genuine answer and a degraded one.
func (o *Orchestrator) Handle(ctx context.Context, userID string, text string, image *ImageData) string {
	logger := o.logger.WithFields(map[string]interface{}{
		"user_id":    userID,
		"request_id": uuid.NewString(),
	})

	history := o.history.Get(ctx, userID)
	messages := BuildCompletionMessages(o.persona, history, text, image)

	result := o.completion.Complete(ctx, messages)
	reply := result.ReplyText()

	memoryText := text
	if image != nil {
		memoryText = ImageMemoryMarker + " " + text
	}
	o.history.Append(ctx, userID, UserRole, memoryText)
	o.history.Append(ctx, userID, AssistantRole, reply)

	logger.WithFields(map[string]interface{}{
		"history_turns": len(history),
		"outcome":       result.Outcome,
		"has_image":     image != nil,
	}).Debug("message handled")

	return reply
}

// Clear deletes the stored history for a user. Used by the
// administrative clear command.
func (o *Orchestrator) Clear(ctx context.Context, userID string) error {
	return o.history.Clear(ctx, userID)
}

// Stats returns the number of distinct users with stored history.
func (o *Orchestrator) Stats(ctx context.Context) (int, error) {
	return o.history.CountUsers(ctx)
}
