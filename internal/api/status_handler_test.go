package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aniket17200/presentpal/internal/task"
)

func newStatusRouter(registry *task.Registry) http.Handler {
	handler := NewStatusHandler(registry, testLogger())
	r := chi.NewRouter()
	r.Get("/status/final-videos/{folderName}", handler.HandleFinalVideoStatus)
	r.Get("/status/{taskID}", handler.HandleMediaStatus)
	return r
}

func TestHandleMediaStatusAudio(t *testing.T) {
	registry := task.NewRegistry()
	registry.SetMediaTask(task.MediaTask{
		ID:        "audio-1",
		Kind:      task.KindAudio,
		Status:    task.StatusCompleted,
		ResultURL: "http://store.test/ppt-audio/f/f-audio.zip",
	})

	w := httptest.NewRecorder()
	newStatusRouter(registry).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/audio-1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp MediaStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "audio-1", resp.TaskID)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.AudioURL)
	assert.Equal(t, "http://store.test/ppt-audio/f/f-audio.zip", *resp.AudioURL)
	assert.Nil(t, resp.AnimationVideoURL)
}

func TestHandleMediaStatusAnimation(t *testing.T) {
	registry := task.NewRegistry()
	registry.SetMediaTask(task.MediaTask{
		ID:        "anim-1",
		Kind:      task.KindAnimation,
		Status:    task.StatusCompleted,
		ResultURL: "http://store.test/animate-video/f/f-animation.mp4",
	})

	w := httptest.NewRecorder()
	newStatusRouter(registry).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/anim-1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp MediaStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.AudioURL)
	require.NotNil(t, resp.AnimationVideoURL)
	assert.Equal(t, "http://store.test/animate-video/f/f-animation.mp4", *resp.AnimationVideoURL)
}

func TestHandleMediaStatusProcessing(t *testing.T) {
	registry := task.NewRegistry()
	registry.SetMediaTask(task.MediaTask{ID: "audio-1", Kind: task.KindAudio, Status: task.StatusProcessing})

	w := httptest.NewRecorder()
	newStatusRouter(registry).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/audio-1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp MediaStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "processing", resp.Status)
	assert.Nil(t, resp.AudioURL)
}

func TestHandleMediaStatusNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	newStatusRouter(task.NewRegistry()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Task not found", body["message"])
}

func TestHandleFinalVideoStatusCompleted(t *testing.T) {
	registry := task.NewRegistry()
	registry.SetCompositeTask(task.CompositeTask{
		FolderName: "ppt-1-deck",
		Status:     task.StatusCompleted,
		VideoURLs:  []string{"http://store.test/ppt-video/f/final-video-slide1.mp4"},
	})

	w := httptest.NewRecorder()
	newStatusRouter(registry).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/final-videos/ppt-1-deck", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp CompositeStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ppt-1-deck", resp.FolderName)
	assert.Equal(t, "completed", resp.Status)
	require.Len(t, resp.VideoURLs, 1)
}

func TestHandleFinalVideoStatusFailed(t *testing.T) {
	registry := task.NewRegistry()
	registry.SetCompositeTask(task.CompositeTask{
		FolderName: "ppt-1-deck",
		Status:     task.StatusFailed,
		Error:      "composition failed for slide 2",
	})

	w := httptest.NewRecorder()
	newStatusRouter(registry).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/final-videos/ppt-1-deck", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp CompositeStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp.Status)
	assert.Empty(t, resp.VideoURLs)
	assert.NotEmpty(t, resp.Error)
}

func TestHandleFinalVideoStatusNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	newStatusRouter(task.NewRegistry()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/final-videos/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
