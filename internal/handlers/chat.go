package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/openai/openai-go"

	"opto-backend/internal/config"
	"opto-backend/internal/dto"
	"opto-backend/internal/utils"
)

// optoSystemPrompt frames every conversation sent to the provider.
const optoSystemPrompt = `You are Opto, a friendly and knowledgeable AI financial wellness assistant. Your role is to:
- Provide practical, actionable financial advice
- Help users with budgeting, saving, investing, and debt management
- Be encouraging and supportive about their financial journey
- Use simple language (avoid jargon unless the user is advanced)
- Keep responses concise (2-4 sentences usually, unless they ask for detail)
- Add relevant emojis sparingly to keep the tone warm
- Never give specific investment recommendations or guarantees
- Encourage users to consult a licensed financial advisor for complex decisions
- If the conversation is between friends, provide relevant financial insight based on what they're discussing

You are integrated into a social financial wellness platform where users track their financial scores, chat with friends, and work on financial goals together.`

// Fallback replies returned with a 200 so the chat UI stays usable when the
// provider is missing or failing.
const (
	fallbackNotConfigured = "I'd love to help, but the AI service isn't configured yet. Please add your OpenAI API key to the .env file to enable AI responses! 🔑"
	fallbackQuota         = "Oops! The AI service quota has been exceeded. Please check your OpenAI billing settings. 💳"
	fallbackBadKey        = "The AI API key appears to be invalid. Please check your .env file and update the OPENAI_API_KEY. 🔑"
	fallbackGeneric       = "I'm having trouble connecting right now. Please try again in a moment! 🔄"
)

// ChatHandler relays conversations to the OpenAI chat completions API
type ChatHandler struct {
	client     openai.Client
	cfg        *config.OpenAIConfig
	configured bool
}

// NewChatHandler creates a new ChatHandler instance. When no API key is
// configured the handler still serves requests, answering with fallback
// messages.
func NewChatHandler(client openai.Client, cfg *config.OpenAIConfig) *ChatHandler {
	return &ChatHandler{client: client, cfg: cfg, configured: cfg.APIKey != ""}
}

// Chat returns an AI reply for a conversation
// @Summary AI chat
// @Description Relay a conversation to the Opto assistant
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Conversation"
// @Success 200 {object} dto.ChatResponse "Assistant reply"
// @Failure 400 {object} dto.ErrorResponse "Missing messages"
// @Failure 500 {object} dto.ErrorResponse "No response from provider"
// @Router /api/chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if len(req.Messages) == 0 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing messages", "Messages array is required")
		return
	}

	if !h.configured {
		utils.WriteJSONResponse(w, http.StatusOK, dto.ChatResponse{Message: fallbackNotConfigured, Fallback: true})
		return
	}

	completion, err := h.client.Chat.Completions.New(r.Context(), openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(h.cfg.Model),
		Messages:    buildMessages(req),
		MaxTokens:   openai.Int(h.cfg.MaxTokens),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		log.Printf("chat: provider error: %v", err)
		utils.WriteJSONResponse(w, http.StatusOK, dto.ChatResponse{Message: fallbackFor(err), Fallback: true})
		return
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "No response from AI", "The provider returned an empty reply")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.ChatResponse{
		Message:  completion.Choices[0].Message.Content,
		Fallback: false,
	})
}

// Status reports whether the AI relay is configured
// @Summary AI chat status
// @Tags chat
// @Produce json
// @Success 200 {object} dto.ChatStatusResponse "Relay status"
// @Router /api/chat/status [get]
func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := dto.ChatStatusResponse{Configured: h.configured}
	if h.configured {
		model := h.cfg.Model
		resp.Model = &model
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// buildMessages converts the client conversation into provider messages.
// The sender "me" is the user, "opto" is the assistant, and anyone else is
// a friend whose name is prefixed so the model knows who is speaking.
func buildMessages(req dto.ChatRequest) []openai.ChatCompletionMessageParamUnion {
	systemPrompt := optoSystemPrompt
	if ctx := req.ConversationContext; ctx != nil {
		systemPrompt += fmt.Sprintf("\n\nContext: This conversation is happening in a %s chat. %s", ctx.Type, ctx.Details)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	messages = append(messages, openai.SystemMessage(systemPrompt))

	for _, msg := range req.Messages {
		switch msg.SenderID {
		case "me":
			messages = append(messages, openai.UserMessage(msg.Text))
		case "opto":
			messages = append(messages, openai.AssistantMessage(msg.Text))
		default:
			name := msg.SenderName
			if name == "" {
				name = "Friend"
			}
			messages = append(messages, openai.UserMessage(fmt.Sprintf("[%s]: %s", name, msg.Text)))
		}
	}
	return messages
}

// fallbackFor picks the friendly reply matching a provider error
func fallbackFor(err error) string {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.Code {
		case "insufficient_quota":
			return fallbackQuota
		case "invalid_api_key":
			return fallbackBadKey
		}
	}
	return fallbackGeneric
}
