package dto

// ChatMessage is one message of the conversation forwarded to the AI relay.
// SenderID "me" maps to the user role, "opto" to the assistant; any other
// sender is a friend whose text is prefixed with their name.
type ChatMessage struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName,omitempty"`
	Text       string `json:"text"`
}

// ChatContext describes where the conversation is happening
type ChatContext struct {
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

// ChatRequest represents the request payload for POST /api/chat
type ChatRequest struct {
	Messages            []ChatMessage `json:"messages"`
	ConversationContext *ChatContext  `json:"conversationContext,omitempty"`
}

// ChatResponse represents the AI reply. Fallback is true when the answer was
// produced locally instead of by the provider.
type ChatResponse struct {
	Message  string `json:"message"`
	Fallback bool   `json:"fallback"`
}

// ChatStatusResponse reports whether the AI relay is configured
type ChatStatusResponse struct {
	Configured bool    `json:"configured"`
	Model      *string `json:"model"`
}
