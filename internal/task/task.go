package task

// Status represents the current state of a task
type Status string

// Possible task status values
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Terminal reports whether a status is final. A task in a terminal
// status never transitions again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped || s == StatusFailed
}

// MediaKind identifies what a media generation task produces.
type MediaKind string

// Media task kinds
const (
	KindAudio     MediaKind = "audio"
	KindAnimation MediaKind = "animation"
)

// MediaTask tracks one speech synthesis or avatar animation job.
// Created in processing state when the upload is accepted, it is mutated
// exactly once more: to completed with a result URL, or to failed with an
// error message.
type MediaTask struct {
	ID        string
	Kind      MediaKind
	Status    Status
	ResultURL string
	Error     string
}

// CompositeTask tracks the per-slide final video generation for one upload,
// keyed by the upload's folder name rather than a generated id.
//
// State machine: pending -> processing -> completed | failed, or
// pending -> skipped when a precursor media task failed or was never
// requested. VideoURLs is non-empty only in completed state and is ordered
// by slide index ascending.
type CompositeTask struct {
	FolderName string
	Status     Status
	VideoURLs  []string
	Error      string
}
