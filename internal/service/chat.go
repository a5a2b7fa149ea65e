package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService english-assistant/internal/service ChatService

import (
	"context"
	"time"

	"github.com/google/uuid"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/llm"
)

const (
	chatMaxTokens = 2048
	// chatHistoryLimit is the number of most recent turns sent upstream.
	chatHistoryLimit = 20
)

// ChatTurn is one prior message of the conversation.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=10000"`
}

// ChatContext describes what the user is looking at, e.g. a quiz question.
type ChatContext struct {
	Type string         `json:"type" validate:"required,max=50"`
	Data map[string]any `json:"data"`
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message   string       `json:"message" validate:"required,notblank,max=1000"`
	Context   *ChatContext `json:"context" validate:"omitempty"`
	History   []ChatTurn   `json:"history" validate:"max=50,dive"`
	SessionID string       `json:"session_id" validate:"max=100"`
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Answer     string
	TokensUsed int
	SessionID  string
}

// ChatService provides chat functionality.
type ChatService interface {
	// Chat answers a message in the assistant persona, taking prior turns into account.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	gen     Generator
	timeout time.Duration
}

// NewChatService creates a new ChatService.
func NewChatService(gen Generator, timeout time.Duration) ChatService {
	return &chatService{
		gen:     gen,
		timeout: timeout,
	}
}

// Chat processes a chat request.
func (s *chatService) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateStruct(req); err != nil {
		logger.WarnContext(ctx, "invalid chat request", "error", err)
		return ChatResponse{}, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	result, err := complete(ctx, s.gen, s.timeout, llm.CompletionRequest{
		Prompt:          req.Message,
		SystemMessage:   chatSystemMessage(req.Context),
		History:         recentHistory(req.History, chatHistoryLimit),
		MaxOutputTokens: chatMaxTokens,
		Tag:             "MineAssistant",
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get chat answer", "session_id", sessionID, "error", err)
		return ChatResponse{}, WrapError(err, "failed to get chat answer")
	}

	logger.InfoContext(ctx, "chat request processed successfully",
		"session_id", sessionID,
		"message_length", len(req.Message),
		"answer_length", len(result.Text),
		"history_turns", len(req.History),
		"provider", result.Provider.String(),
	)
	return ChatResponse{
		Answer:     result.Text,
		TokensUsed: result.TokensUsed,
		SessionID:  sessionID,
	}, nil
}

// recentHistory keeps the last limit turns, oldest first.
func recentHistory(turns []ChatTurn, limit int) []llm.Message {
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	msgs := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	return msgs
}
