package maya

// BuildCompletionMessages assembles the message sequence for one
// completion call: the persona as the first system turn, a copy of the
// stored history, and one new user turn carrying the incoming text and,
// when present, the inline image. The given history is not mutated; the
// new turn exists only in the outgoing request.
func BuildCompletionMessages(persona string, history []Turn, text string, image *ImageData) []LLMMessage {
	messages := make([]LLMMessage, 0, len(history)+2)
	messages = append(messages, LLMMessage{Role: SystemRole, Text: persona})

	for _, turn := range history {
		messages = append(messages, LLMMessage{Role: turn.Role, Text: turn.Content})
	}

	messages = append(messages, LLMMessage{Role: UserRole, Text: text, Image: image})
	return messages
}
