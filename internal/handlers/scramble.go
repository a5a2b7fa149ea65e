package handlers

import (
	"net/http"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/service"
)

// ScrambleHandler serves word scramble puzzles.
type ScrambleHandler struct {
	scrambleService service.ScrambleService
}

// NewScrambleHandler creates a new ScrambleHandler.
func NewScrambleHandler(scrambleService service.ScrambleService) *ScrambleHandler {
	return &ScrambleHandler{scrambleService: scrambleService}
}

// ServeHTTP handles POST /scramble/generate. Like quizzes, the result is not
// wrapped in the success envelope.
func (h *ScrambleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params service.ScrambleParams
	if err := decodeJSON(r, &params); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	scramble, err := h.scrambleService.Generate(ctx, params)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to generate scramble words")
		return
	}
	writeJSON(ctx, w, http.StatusOK, scramble)
}
