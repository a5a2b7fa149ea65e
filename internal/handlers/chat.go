package handlers

import (
	"net/http"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/service"
)

// MarkdownRenderer turns a chat answer into safe HTML.
type MarkdownRenderer interface {
	HTML(markdown string) (string, error)
}

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
	renderer    MarkdownRenderer
}

// NewChatHandler creates a new ChatHandler. renderer may be nil, in which
// case ?render=html is ignored.
func NewChatHandler(chatService service.ChatService, renderer MarkdownRenderer) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		renderer:    renderer,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message   string               `json:"message"`
	Context   *service.ChatContext `json:"context,omitempty"`
	History   []service.ChatTurn   `json:"history,omitempty"`
	SessionID string               `json:"session_id,omitempty"`
}

// ChatData is the payload of a successful chat response.
type ChatData struct {
	Answer     string `json:"answer"`
	AnswerHTML string `json:"answer_html,omitempty"`
	TokensUsed int    `json:"tokens_used"`
	SessionID  string `json:"session_id"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.chatService.Chat(ctx, service.ChatRequest{
		Message:   req.Message,
		Context:   req.Context,
		History:   req.History,
		SessionID: req.SessionID,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}

	data := ChatData{
		Answer:     svcResp.Answer,
		TokensUsed: svcResp.TokensUsed,
		SessionID:  svcResp.SessionID,
	}
	if r.URL.Query().Get("render") == "html" && h.renderer != nil {
		html, err := h.renderer.HTML(svcResp.Answer)
		if err != nil {
			logger.WarnContext(ctx, "failed to render chat answer", "error", err)
		} else {
			data.AnswerHTML = html
		}
	}

	writeData(ctx, w, http.StatusOK, data)
}
