package handlers

import (
	"net/http"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/service"
)

// QuizHandler serves custom and quick quizzes.
type QuizHandler struct {
	quizService service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Generate handles POST /quiz/generate. The quiz is written as is, without
// the success envelope.
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params service.QuizParams
	if err := decodeJSON(r, &params); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.quizService.Generate(ctx, params)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate quiz")
		return
	}
	writeJSON(ctx, w, http.StatusOK, quiz)
}

// Quick handles GET and POST /quiz/quick. Any body is ignored.
func (h *QuizHandler) Quick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	quiz, err := h.quizService.GenerateQuick(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate quick quiz")
		return
	}
	writeJSON(ctx, w, http.StatusOK, quiz)
}
