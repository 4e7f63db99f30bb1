package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aniket17200/presentpal/internal/platform/converter"
	"github.com/Aniket17200/presentpal/internal/service"
)

type fakeProcessor struct {
	req    service.UploadRequest
	result *service.UploadResult
	err    error

	deckBytes     []byte
	portraitBytes []byte
}

func (f *fakeProcessor) ProcessUpload(_ context.Context, req service.UploadRequest) (*service.UploadResult, error) {
	f.req = req
	// Snapshot the spooled files while they still exist; the handler
	// removes its scratch directory after responding.
	f.deckBytes, _ = os.ReadFile(req.DeckPath)
	if req.PortraitPath != "" {
		f.portraitBytes, _ = os.ReadFile(req.PortraitPath)
	}
	return f.result, f.err
}

func buildUploadBody(t *testing.T, deckName string, deck []byte, portraitName string, portrait []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("ppt", deckName)
	require.NoError(t, err)
	_, err = fw.Write(deck)
	require.NoError(t, err)
	if portraitName != "" {
		fw, err = w.CreateFormFile("userImage", portraitName)
		require.NoError(t, err)
		_, err = fw.Write(portrait)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleUploadSuccess(t *testing.T) {
	portraitURL := "http://store.test/user-images/f/user-image-deck.png"
	animationID := "anim-task-1"
	processor := &fakeProcessor{result: &service.UploadResult{
		FolderName:      "ppt-1710000000000-deck",
		ImageURLs:       []string{"http://store.test/ppt-images/f/image-1.png"},
		DeckURL:         "http://store.test/ppt-files/f/ppt-deck.pptx",
		PDFURL:          "http://store.test/ppt-pdfs/f/pdf-deck.pdf",
		PortraitURL:     portraitURL,
		AudioTaskID:     "audio-task-1",
		AnimationTaskID: animationID,
	}}
	handler := NewUploadHandler(processor, t.TempDir(), testLogger())

	body, contentType := buildUploadBody(t, "deck.pptx", []byte("deck-bytes"), "face.png", []byte("portrait-bytes"))
	r := httptest.NewRequest(http.MethodPost, "/upload", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.HandleUpload(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ppt-1710000000000-deck", resp.FolderName)
	assert.Equal(t, "audio-task-1", resp.AudioTaskID)
	require.NotNil(t, resp.AnimationTaskID)
	assert.Equal(t, animationID, *resp.AnimationTaskID)
	require.NotNil(t, resp.UserImageURL)
	assert.Equal(t, portraitURL, *resp.UserImageURL)

	// The handler spooled both files intact before calling the service.
	assert.Equal(t, "deck.pptx", processor.req.DeckName)
	assert.Equal(t, []byte("deck-bytes"), processor.deckBytes)
	assert.Equal(t, "face.png", processor.req.PortraitName)
	assert.Equal(t, []byte("portrait-bytes"), processor.portraitBytes)
}

func TestHandleUploadWithoutPortrait(t *testing.T) {
	processor := &fakeProcessor{result: &service.UploadResult{
		FolderName:  "ppt-1710000000000-deck",
		AudioTaskID: "audio-task-1",
	}}
	handler := NewUploadHandler(processor, t.TempDir(), testLogger())

	body, contentType := buildUploadBody(t, "deck.ppt", []byte("deck"), "", nil)
	r := httptest.NewRequest(http.MethodPost, "/upload", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.HandleUpload(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.UserImageURL)
	assert.Nil(t, resp.AnimationTaskID)
	assert.Empty(t, processor.req.PortraitPath)
}

func TestHandleUploadMissingFile(t *testing.T) {
	handler := NewUploadHandler(&fakeProcessor{}, t.TempDir(), testLogger())

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.Close())
	r := httptest.NewRequest(http.MethodPost, "/upload", &body)
	r.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.HandleUpload(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")
}

func TestHandleUploadRejectsInvalidType(t *testing.T) {
	processor := &fakeProcessor{err: converter.ErrInvalidFileType}
	handler := NewUploadHandler(processor, t.TempDir(), testLogger())

	body, contentType := buildUploadBody(t, "notes.pdf", []byte("pdf"), "", nil)
	r := httptest.NewRequest(http.MethodPost, "/upload", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.HandleUpload(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Only PowerPoint files are allowed")
}

func TestHandleUploadCleansScratchDir(t *testing.T) {
	uploadDir := t.TempDir()
	processor := &fakeProcessor{result: &service.UploadResult{FolderName: "f", AudioTaskID: "a"}}
	handler := NewUploadHandler(processor, uploadDir, testLogger())

	body, contentType := buildUploadBody(t, "deck.pptx", []byte("deck"), "", nil)
	r := httptest.NewRequest(http.MethodPost, "/upload", body)
	r.Header.Set("Content-Type", contentType)
	handler.HandleUpload(httptest.NewRecorder(), r)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory should be removed after the response")
}
