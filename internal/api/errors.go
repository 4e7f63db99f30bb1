package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Aniket17200/presentpal/internal/platform/blobstore"
	"github.com/Aniket17200/presentpal/internal/platform/converter"
	"github.com/Aniket17200/presentpal/internal/platform/remotejob"
	"github.com/Aniket17200/presentpal/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes based on
// the error type, so internal error strings never drive responses.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, converter.ErrInvalidFileType):
		return http.StatusBadRequest

	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound

	// Upstream dependencies: the media services and the object store.
	case errors.Is(err, remotejob.ErrRemoteJobFailed),
		errors.Is(err, remotejob.ErrUnexpectedResponseType),
		errors.Is(err, blobstore.ErrUploadFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error type, hiding internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, converter.ErrInvalidFileType):
		return "Only PowerPoint files are allowed"

	case errors.Is(err, task.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, remotejob.ErrUnexpectedResponseType):
		return "Media service returned an unexpected response"

	case errors.Is(err, remotejob.ErrRemoteJobFailed):
		return "Media service request failed"

	case errors.Is(err, blobstore.ErrUploadFailed):
		return "Storage upload failed"

	case errors.Is(err, converter.ErrConversionFailed),
		errors.Is(err, converter.ErrRasterizationFailed):
		return "Error processing file"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError reduces a validator error to a user-friendly
// message naming only the offending field and rule.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'AskRequest.Question' Error:Field validation for
		// 'Question' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
