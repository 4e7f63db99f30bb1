package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Aniket17200/presentpal/internal/api/shared"
	"github.com/Aniket17200/presentpal/internal/task"
)

// StatusReader reads task records. *task.Registry satisfies this.
type StatusReader interface {
	GetMediaTask(id string) (task.MediaTask, error)
	GetCompositeTask(folderName string) (task.CompositeTask, error)
}

// StatusHandler serves task status polls.
type StatusHandler struct {
	reader StatusReader
	logger *slog.Logger
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(reader StatusReader, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{reader: reader, logger: logger}
}

// HandleMediaStatus handles GET /status/{taskID}. The result URL field in
// the response depends on the task's kind: audioUrl for narration tasks,
// animationVideoUrl for animation tasks.
func (h *StatusHandler) HandleMediaStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	mt, err := h.reader.GetMediaTask(taskID)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred", err)
		return
	}

	resp := MediaStatusResponse{
		Success: true,
		TaskID:  mt.ID,
		Status:  string(mt.Status),
		Error:   mt.Error,
	}
	if mt.ResultURL != "" {
		switch mt.Kind {
		case task.KindAudio:
			resp.AudioURL = &mt.ResultURL
		case task.KindAnimation:
			resp.AnimationVideoURL = &mt.ResultURL
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// HandleFinalVideoStatus handles GET /status/final-videos/{folderName}.
// Video URLs appear only once the whole composition completed; a failed
// or skipped run never exposes a partial list.
func (h *StatusHandler) HandleFinalVideoStatus(w http.ResponseWriter, r *http.Request) {
	folderName := chi.URLParam(r, "folderName")

	ct, err := h.reader.GetCompositeTask(folderName)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CompositeStatusResponse{
		Success:    true,
		FolderName: ct.FolderName,
		Status:     string(ct.Status),
		VideoURLs:  ct.VideoURLs,
		Error:      ct.Error,
	})
}
