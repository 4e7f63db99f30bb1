package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aniket17200/presentpal/internal/platform/remotejob"
	"github.com/Aniket17200/presentpal/internal/service"
)

type fakeAsker struct {
	question string
	answer   *service.Answer
	err      error
}

func (f *fakeAsker) Ask(_ context.Context, question string) (*service.Answer, error) {
	f.question = question
	return f.answer, f.err
}

func TestHandleAsk(t *testing.T) {
	now := time.Now()
	asker := &fakeAsker{answer: &service.Answer{
		AudioURL:  "http://store.test/qa-audio/audios/audio_1_1.mp3",
		Timestamp: now,
	}}
	handler := NewAskHandler(asker, testLogger())

	r := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"what is slide two about?"}`))
	w := httptest.NewRecorder()
	handler.HandleAsk(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "what is slide two about?", asker.question)

	var resp AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, asker.answer.AudioURL, resp.AudioURL)
	assert.WithinDuration(t, now, resp.Timestamp, time.Second)
}

func TestHandleAskMalformedBody(t *testing.T) {
	handler := NewAskHandler(&fakeAsker{}, testLogger())

	r := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question"`))
	w := httptest.NewRecorder()
	handler.HandleAsk(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request format")
}

func TestHandleAskMissingQuestion(t *testing.T) {
	handler := NewAskHandler(&fakeAsker{}, testLogger())

	r := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.HandleAsk(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Question")
}

func TestHandleAskUpstreamFailure(t *testing.T) {
	handler := NewAskHandler(&fakeAsker{err: remotejob.ErrRemoteJobFailed}, testLogger())

	r := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"anything"}`))
	w := httptest.NewRecorder()
	handler.HandleAsk(w, r)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Media service request failed")
}
