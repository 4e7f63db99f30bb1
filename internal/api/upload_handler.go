package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Aniket17200/presentpal/internal/api/shared"
	"github.com/Aniket17200/presentpal/internal/platform/fileutil"
	"github.com/Aniket17200/presentpal/internal/service"
)

// maxUploadMemory bounds how much of a multipart body is held in memory
// before spilling to disk.
const maxUploadMemory = 32 << 20

// UploadProcessor runs the synchronous stage of the pipeline for one
// uploaded deck.
type UploadProcessor interface {
	ProcessUpload(ctx context.Context, req service.UploadRequest) (*service.UploadResult, error)
}

// UploadHandler accepts deck uploads.
type UploadHandler struct {
	processor UploadProcessor
	uploadDir string
	logger    *slog.Logger
}

// NewUploadHandler creates an UploadHandler spooling uploads under
// uploadDir.
func NewUploadHandler(processor UploadProcessor, uploadDir string, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		processor: processor,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// HandleUpload handles POST /upload. The multipart body carries the deck
// in the "ppt" field and, optionally, a portrait image in "userImage".
// The response is sent once the deck's artifacts are stored; media
// generation continues in the background under the returned task ids.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	deckFile, deckHeader, err := r.FormFile("ppt")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = deckFile.Close() }()

	// Uploads are spooled into a per-request scratch directory that is
	// removed once the synchronous stage has read everything it needs.
	tempDir, err := os.MkdirTemp(h.uploadDir, "upload-")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Error processing file", err)
		return
	}
	defer fileutil.RemoveWithRetry(log, tempDir)

	req := service.UploadRequest{DeckName: deckHeader.Filename}
	req.DeckPath, err = spoolFormFile(tempDir, deckFile, deckHeader.Filename)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Error processing file", err)
		return
	}

	if portraitFile, portraitHeader, ferr := r.FormFile("userImage"); ferr == nil {
		defer func() { _ = portraitFile.Close() }()
		req.PortraitName = portraitHeader.Filename
		req.PortraitPath, err = spoolFormFile(tempDir, portraitFile, portraitHeader.Filename)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Error processing file", err)
			return
		}
	}

	result, err := h.processor.ProcessUpload(r.Context(), req)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("upload accepted",
		slog.String("folder", result.FolderName),
		slog.Int("pages", len(result.ImageURLs)))

	resp := UploadResponse{
		Success:     true,
		FolderName:  result.FolderName,
		ImageURLs:   result.ImageURLs,
		PPTURL:      result.DeckURL,
		PDFURL:      result.PDFURL,
		AudioTaskID: result.AudioTaskID,
	}
	if result.PortraitURL != "" {
		resp.UserImageURL = &result.PortraitURL
	}
	if result.AnimationTaskID != "" {
		resp.AnimationTaskID = &result.AnimationTaskID
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// spoolFormFile copies one multipart file into dir and returns its path.
// Only the base of the client-supplied name is used.
func spoolFormFile(dir string, src multipart.File, name string) (string, error) {
	destPath := filepath.Join(dir, filepath.Base(name))
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer func() { _ = dest.Close() }()

	if _, err := io.Copy(dest, src); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return destPath, nil
}
