package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Aniket17200/presentpal/internal/api/shared"
	"github.com/Aniket17200/presentpal/internal/service"
)

// QuestionAsker answers one free-text question with stored audio.
type QuestionAsker interface {
	Ask(ctx context.Context, question string) (*service.Answer, error)
}

// AskHandler serves the spoken Q&A endpoint.
type AskHandler struct {
	asker  QuestionAsker
	logger *slog.Logger
}

// NewAskHandler creates an AskHandler.
func NewAskHandler(asker QuestionAsker, logger *slog.Logger) *AskHandler {
	return &AskHandler{asker: asker, logger: logger}
}

// HandleAsk handles POST /ask. The call is synchronous: the response
// carries the URL of the stored audio answer.
func (h *AskHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	answer, err := h.asker.Ask(r.Context(), req.Question)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AskResponse{
		Success:   true,
		AudioURL:  answer.AudioURL,
		Timestamp: answer.Timestamp,
	})
}
