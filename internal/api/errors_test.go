package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aniket17200/presentpal/internal/platform/blobstore"
	"github.com/Aniket17200/presentpal/internal/platform/converter"
	"github.com/Aniket17200/presentpal/internal/platform/remotejob"
	"github.com/Aniket17200/presentpal/internal/task"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid file type", converter.ErrInvalidFileType, http.StatusBadRequest},
		{"wrapped invalid file type", fmt.Errorf("upload: %w", converter.ErrInvalidFileType), http.StatusBadRequest},
		{"task not found", task.ErrTaskNotFound, http.StatusNotFound},
		{"remote job failed", remotejob.ErrRemoteJobFailed, http.StatusBadGateway},
		{"unexpected response type", remotejob.ErrUnexpectedResponseType, http.StatusBadGateway},
		{"upload failed", blobstore.ErrUploadFailed, http.StatusBadGateway},
		{"conversion failed", converter.ErrConversionFailed, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "Only PowerPoint files are allowed", GetSafeErrorMessage(converter.ErrInvalidFileType))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(task.ErrTaskNotFound))
	assert.Equal(t, "Error processing file", GetSafeErrorMessage(converter.ErrRasterizationFailed))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))

	// Internal details never surface.
	leaky := fmt.Errorf("dial tcp 10.0.0.8:9000: %w", blobstore.ErrUploadFailed)
	assert.NotContains(t, GetSafeErrorMessage(leaky), "10.0.0.8")
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New("Key: 'AskRequest.Question' Error:Field validation for 'Question' failed on the 'required' tag")
	assert.Equal(t, "Invalid Question: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
