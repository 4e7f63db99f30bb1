package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Aniket17200/presentpal/internal/platform/blobstore"
	"github.com/Aniket17200/presentpal/internal/platform/converter"
	"github.com/Aniket17200/presentpal/internal/platform/remotejob"
	"github.com/Aniket17200/presentpal/internal/task"
)

// deckMimeType is sent for the uploaded deck regardless of which
// PowerPoint flavor it is, matching what the speech service expects.
const deckMimeType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// sanitizePattern strips everything but ASCII letters and digits from the
// deck's base name before it is embedded in the folder identifier.
var sanitizePattern = regexp.MustCompile(`[^a-zA-Z0-9]`)

// JobClient is the slice of the remote job client the pipeline needs.
type JobClient interface {
	Submit(ctx context.Context, endpoint string, parts []remotejob.FilePart, wantContentType string, timeout time.Duration) ([]byte, error)
	SubmitJSON(ctx context.Context, endpoint string, payload interface{}, wantContentType string, timeout time.Duration) ([]byte, error)
	Download(ctx context.Context, url, destPath string) error
}

// DocumentConverter turns a slide deck into a PDF and page images.
type DocumentConverter interface {
	ConvertToPDF(ctx context.Context, docPath string) (string, error)
	RasterizePDF(ctx context.Context, pdfPath string) ([]string, error)
}

// PipelineOptions configures the upload pipeline.
type PipelineOptions struct {
	AudioEndpoint     string
	AnimationEndpoint string
	ComposeEndpoint   string

	// MediaTimeout bounds one speech or animation generation call.
	MediaTimeout time.Duration

	// ComposeTimeout bounds one per-slide composition call.
	ComposeTimeout time.Duration

	// ScratchDir is where composition scratch directories are created.
	ScratchDir string

	// UploadConcurrency bounds the page image upload fan-out.
	UploadConcurrency int

	// ComposeConcurrency bounds in-flight composition requests, as
	// backpressure against the downstream composition service.
	ComposeConcurrency int
}

// PipelineService orchestrates the conversion, media generation and
// composition stages of one upload.
type PipelineService struct {
	store     blobstore.Store
	jobs      JobClient
	converter DocumentConverter
	registry  *task.Registry
	opts      PipelineOptions
	logger    *slog.Logger
}

// NewPipelineService wires a PipelineService. Zero option values fall back
// to production defaults.
func NewPipelineService(
	store blobstore.Store,
	jobs JobClient,
	conv DocumentConverter,
	registry *task.Registry,
	opts PipelineOptions,
	logger *slog.Logger,
) *PipelineService {
	if opts.MediaTimeout == 0 {
		opts.MediaTimeout = 120 * time.Second
	}
	if opts.ComposeTimeout == 0 {
		opts.ComposeTimeout = 180 * time.Second
	}
	if opts.UploadConcurrency <= 0 {
		opts.UploadConcurrency = 3
	}
	if opts.ComposeConcurrency <= 0 {
		opts.ComposeConcurrency = 3
	}
	return &PipelineService{
		store:     store,
		jobs:      jobs,
		converter: conv,
		registry:  registry,
		opts:      opts,
		logger:    logger,
	}
}

// UploadRequest describes one upload: the deck saved to a temp path, and
// optionally a portrait image for avatar animation.
type UploadRequest struct {
	DeckPath     string
	DeckName     string
	PortraitPath string
	PortraitName string
}

// UploadResult is everything available synchronously: artifact URLs and
// the identifiers for polling the background work. AnimationTaskID and
// PortraitURL are empty when no portrait was supplied.
type UploadResult struct {
	FolderName      string
	ImageURLs       []string
	DeckURL         string
	PDFURL          string
	PortraitURL     string
	AudioTaskID     string
	AnimationTaskID string
}

// ProcessUpload runs the synchronous stage of the pipeline: validation,
// conversion and artifact uploads. It returns as soon as the page images
// are stored; speech synthesis, animation and composition continue in a
// detached goroutine whose only output channel is the task registry.
//
// The caller owns the temp files in req and may delete them once this
// returns: everything the background stage needs is read into memory here.
func (s *PipelineService) ProcessUpload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(req.DeckName))
	if err := converter.CheckExtension(ext); err != nil {
		return nil, err
	}

	baseName := sanitizePattern.ReplaceAllString(strings.TrimSuffix(req.DeckName, filepath.Ext(req.DeckName)), "_")
	folderName := fmt.Sprintf("ppt-%d-%s", time.Now().UnixMilli(), baseName)
	logger := s.logger.With("folder", folderName)

	// The composite record exists before any work starts, so its status
	// is poll-able for the whole lifetime of the upload.
	s.registry.SetCompositeTask(task.CompositeTask{FolderName: folderName, Status: task.StatusPending})

	deckData, err := os.ReadFile(req.DeckPath)
	if err != nil {
		return nil, s.failUpload(folderName, fmt.Errorf("failed to read uploaded deck: %w", err))
	}

	audioTaskID := uuid.New().String()
	var animationTaskID string
	var portraitURL string
	var portraitData []byte
	if req.PortraitPath != "" {
		portraitData, err = os.ReadFile(req.PortraitPath)
		if err != nil {
			return nil, s.failUpload(folderName, fmt.Errorf("failed to read portrait image: %w", err))
		}
		portraitExt := strings.ToLower(filepath.Ext(req.PortraitName))
		portraitURL, err = s.store.Upload(ctx, bucketPortraits,
			fmt.Sprintf("%s/user-image-%s%s", folderName, baseName, portraitExt),
			portraitData, "image/"+strings.TrimPrefix(portraitExt, "."))
		if err != nil {
			return nil, s.failUpload(folderName, err)
		}
		animationTaskID = uuid.New().String()
	}

	deckURL, err := s.store.Upload(ctx, bucketDecks,
		fmt.Sprintf("%s/ppt-%s%s", folderName, baseName, ext), deckData, deckMimeType)
	if err != nil {
		return nil, s.failUpload(folderName, err)
	}

	pdfPath, err := s.converter.ConvertToPDF(ctx, req.DeckPath)
	if err != nil {
		return nil, s.failUpload(folderName, err)
	}

	pdfData, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, s.failUpload(folderName, fmt.Errorf("failed to read generated PDF: %w", err))
	}
	pdfURL, err := s.store.Upload(ctx, bucketPDFs,
		fmt.Sprintf("%s/pdf-%s.pdf", folderName, baseName), pdfData, "application/pdf")
	if err != nil {
		return nil, s.failUpload(folderName, err)
	}

	imagePaths, err := s.converter.RasterizePDF(ctx, pdfPath)
	if err != nil {
		return nil, s.failUpload(folderName, err)
	}

	imageURLs, err := s.uploadPageImages(ctx, folderName, imagePaths)
	if err != nil {
		return nil, s.failUpload(folderName, err)
	}
	logger.Info("page images uploaded", "count", len(imageURLs))

	// Media task records are registered before the response is built, so
	// the ids handed to the client always resolve.
	s.registry.SetMediaTask(task.MediaTask{ID: audioTaskID, Kind: task.KindAudio, Status: task.StatusProcessing})
	if animationTaskID != "" {
		s.registry.SetMediaTask(task.MediaTask{ID: animationTaskID, Kind: task.KindAnimation, Status: task.StatusProcessing})
	}

	go s.runBackground(folderName, audioTaskID, animationTaskID,
		deckData, req.DeckName, portraitData, req.PortraitName)

	return &UploadResult{
		FolderName:      folderName,
		ImageURLs:       imageURLs,
		DeckURL:         deckURL,
		PDFURL:          pdfURL,
		PortraitURL:     portraitURL,
		AudioTaskID:     audioTaskID,
		AnimationTaskID: animationTaskID,
	}, nil
}

// uploadPageImages stores the page images concurrently. Completion order
// is arbitrary but the result slice is joined positionally, so URLs come
// back in source page order.
func (s *PipelineService) uploadPageImages(ctx context.Context, folderName string, imagePaths []string) ([]string, error) {
	imageURLs := make([]string, len(imagePaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.UploadConcurrency)
	for i, imagePath := range imagePaths {
		i, imagePath := i, imagePath
		g.Go(func() error {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return fmt.Errorf("failed to read page image %s: %w", imagePath, err)
			}
			url, err := s.store.Upload(gctx, bucketImages,
				fmt.Sprintf("%s/image-%d.png", folderName, i+1), data, "image/png")
			if err != nil {
				return err
			}
			imageURLs[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imageURLs, nil
}

// failUpload records a synchronous-phase failure on the composite record
// so it is not left pending forever, and passes the error through.
func (s *PipelineService) failUpload(folderName string, err error) error {
	s.registry.SetCompositeTask(task.CompositeTask{
		FolderName: folderName,
		Status:     task.StatusFailed,
		Error:      err.Error(),
	})
	return err
}

// runBackground drives the detached stage of the pipeline: both media
// generations in parallel, then, once both settle, per-slide composition.
// Nothing is reported back to any caller; every outcome lands in the
// registry. It must never crash the process.
func (s *PipelineService) runBackground(
	folderName, audioTaskID, animationTaskID string,
	deckData []byte, deckName string,
	portraitData []byte, portraitName string,
) {
	// Detached from the request: the upload response has already been
	// sent, and there is no cancellation for a running pipeline.
	ctx := context.Background()
	logger := s.logger.With("folder", folderName)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("background pipeline panicked", "panic", r)
			s.registry.SetCompositeTask(task.CompositeTask{
				FolderName: folderName,
				Status:     task.StatusFailed,
				Error:      fmt.Sprintf("internal error: %v", r),
			})
		}
	}()

	var audioURL, animationURL string
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		audioURL = s.generateAudio(ctx, folderName, audioTaskID, deckName, deckData)
	}()

	if animationTaskID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			animationURL = s.generateAnimation(ctx, folderName, animationTaskID, portraitName, portraitData)
		}()
	}

	// Join both branches regardless of which finishes first. Absence of a
	// portrait leaves animationURL empty, which is "not requested", not
	// "failed" — but either way there is nothing to compose.
	wg.Wait()

	if audioURL == "" || animationURL == "" {
		logger.Info("skipping final video generation, missing audio or animation")
		s.registry.SetCompositeTask(task.CompositeTask{FolderName: folderName, Status: task.StatusSkipped})
		return
	}

	s.registry.SetCompositeTask(task.CompositeTask{FolderName: folderName, Status: task.StatusProcessing})

	videoURLs, err := s.composeFinalVideos(ctx, audioURL, animationURL, folderName)
	if err != nil {
		logger.Error("final video generation failed", "error", err)
		s.registry.SetCompositeTask(task.CompositeTask{
			FolderName: folderName,
			Status:     task.StatusFailed,
			Error:      err.Error(),
		})
		return
	}

	logger.Info("final videos generated", "count", len(videoURLs))
	s.registry.SetCompositeTask(task.CompositeTask{
		FolderName: folderName,
		Status:     task.StatusCompleted,
		VideoURLs:  videoURLs,
	})
}

// generateAudio submits the deck to the speech synthesis service, stores
// the returned narration bundle and resolves the audio media task. It
// returns the bundle's URL, or "" on failure.
func (s *PipelineService) generateAudio(ctx context.Context, folderName, taskID, deckName string, deckData []byte) string {
	logger := s.logger.With("task_id", taskID, "folder", folderName)
	logger.Info("starting audio generation")

	data, err := s.jobs.Submit(ctx, s.opts.AudioEndpoint, []remotejob.FilePart{{
		Field:       "file",
		Filename:    deckName,
		ContentType: deckMimeType,
		Data:        deckData,
	}}, "application/zip", s.opts.MediaTimeout)
	if err != nil {
		logger.Error("audio generation failed", "error", err)
		s.registry.SetMediaTask(task.MediaTask{ID: taskID, Kind: task.KindAudio, Status: task.StatusFailed, Error: err.Error()})
		return ""
	}

	url, err := s.store.Upload(ctx, bucketAudio,
		fmt.Sprintf("%s/%s-audio.zip", folderName, folderName), data, "application/zip")
	if err != nil {
		logger.Error("audio bundle upload failed", "error", err)
		s.registry.SetMediaTask(task.MediaTask{ID: taskID, Kind: task.KindAudio, Status: task.StatusFailed, Error: err.Error()})
		return ""
	}

	s.registry.SetMediaTask(task.MediaTask{ID: taskID, Kind: task.KindAudio, Status: task.StatusCompleted, ResultURL: url})
	logger.Info("audio generation completed", "url", url)
	return url
}

// generateAnimation submits the portrait to the avatar animation service,
// stores the returned clip and resolves the animation media task. It
// returns the clip's URL, or "" on failure.
func (s *PipelineService) generateAnimation(ctx context.Context, folderName, taskID, portraitName string, portraitData []byte) string {
	logger := s.logger.With("task_id", taskID, "folder", folderName)
	logger.Info("starting animation generation")

	portraitExt := strings.TrimPrefix(strings.ToLower(filepath.Ext(portraitName)), ".")
	data, err := s.jobs.Submit(ctx, s.opts.AnimationEndpoint, []remotejob.FilePart{{
		Field:       "image",
		Filename:    portraitName,
		ContentType: "image/" + portraitExt,
		Data:        portraitData,
	}}, "video/mp4", s.opts.MediaTimeout)
	if err != nil {
		logger.Error("animation generation failed", "error", err)
		s.registry.SetMediaTask(task.MediaTask{ID: taskID, Kind: task.KindAnimation, Status: task.StatusFailed, Error: err.Error()})
		return ""
	}

	url, err := s.store.Upload(ctx, bucketAnimations,
		fmt.Sprintf("%s/%s-animation.mp4", folderName, folderName), data, "video/mp4")
	if err != nil {
		logger.Error("animation clip upload failed", "error", err)
		s.registry.SetMediaTask(task.MediaTask{ID: taskID, Kind: task.KindAnimation, Status: task.StatusFailed, Error: err.Error()})
		return ""
	}

	s.registry.SetMediaTask(task.MediaTask{ID: taskID, Kind: task.KindAnimation, Status: task.StatusCompleted, ResultURL: url})
	logger.Info("animation generation completed", "url", url)
	return url
}
