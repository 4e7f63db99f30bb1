package task

import (
	"errors"
	"sync"
)

// ErrTaskNotFound is returned when a task id or folder name was never
// registered. Callers cannot distinguish "never existed" from "not yet
// created"; the orchestrator closes that gap by registering records
// before handing their identifiers to clients.
var ErrTaskNotFound = errors.New("task not found")

// Registry is the in-memory store of media and composite task records.
// Records are whole-value replaced on every update, so concurrent readers
// always observe a complete record, and are never deleted during the
// process lifetime.
type Registry struct {
	mu         sync.RWMutex
	media      map[string]MediaTask
	composites map[string]CompositeTask
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		media:      make(map[string]MediaTask),
		composites: make(map[string]CompositeTask),
	}
}

// SetMediaTask stores or replaces the record for t.ID.
func (r *Registry) SetMediaTask(t MediaTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.media[t.ID] = t
}

// GetMediaTask returns the record for the given id, or ErrTaskNotFound.
func (r *Registry) GetMediaTask(id string) (MediaTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.media[id]
	if !ok {
		return MediaTask{}, ErrTaskNotFound
	}
	return t, nil
}

// SetCompositeTask stores or replaces the record for t.FolderName.
// Composite state is monotonic: once a record reaches a terminal status
// the update is dropped, so a completed URL list can never change.
func (r *Registry) SetCompositeTask(t CompositeTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.composites[t.FolderName]; ok && current.Status.Terminal() {
		return
	}
	t.VideoURLs = cloneURLs(t.VideoURLs)
	r.composites[t.FolderName] = t
}

// GetCompositeTask returns the record for the given folder name, or
// ErrTaskNotFound.
func (r *Registry) GetCompositeTask(folderName string) (CompositeTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.composites[folderName]
	if !ok {
		return CompositeTask{}, ErrTaskNotFound
	}
	t.VideoURLs = cloneURLs(t.VideoURLs)
	return t, nil
}

// CompositeFolders lists the folder names with a composite record, in no
// particular order.
func (r *Registry) CompositeFolders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	folders := make([]string, 0, len(r.composites))
	for name := range r.composites {
		folders = append(folders, name)
	}
	return folders
}

// cloneURLs copies the slice so callers cannot mutate stored records.
func cloneURLs(urls []string) []string {
	if urls == nil {
		return nil
	}
	out := make([]string, len(urls))
	copy(out, urls)
	return out
}
