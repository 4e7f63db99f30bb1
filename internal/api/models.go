package api

import "time"

// UploadResponse is the body returned once the synchronous stage of an
// upload finishes. UserImageURL and AnimationTaskID are null when no
// portrait image was supplied.
type UploadResponse struct {
	Success         bool     `json:"success"`
	FolderName      string   `json:"folderName"`
	ImageURLs       []string `json:"imageUrls"`
	PPTURL          string   `json:"pptUrl"`
	PDFURL          string   `json:"pdfUrl"`
	UserImageURL    *string  `json:"userImageUrl"`
	AudioTaskID     string   `json:"audioTaskId"`
	AnimationTaskID *string  `json:"animationTaskId"`
}

// MediaStatusResponse is the body for a media task poll. Exactly one of
// AudioURL and AnimationVideoURL is set once the task completes,
// depending on the task's kind.
type MediaStatusResponse struct {
	Success           bool    `json:"success"`
	TaskID            string  `json:"taskId"`
	Status            string  `json:"status"`
	AudioURL          *string `json:"audioUrl,omitempty"`
	AnimationVideoURL *string `json:"animationVideoUrl,omitempty"`
	Error             string  `json:"error,omitempty"`
}

// CompositeStatusResponse is the body for a final-videos poll.
type CompositeStatusResponse struct {
	Success    bool     `json:"success"`
	FolderName string   `json:"folderName"`
	Status     string   `json:"status"`
	VideoURLs  []string `json:"videoUrls,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// AskRequest is the body for submitting a question.
type AskRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
}

// AskResponse is the body returned for an answered question.
type AskResponse struct {
	Success   bool      `json:"success"`
	AudioURL  string    `json:"audioUrl"`
	Timestamp time.Time `json:"timestamp"`
}
