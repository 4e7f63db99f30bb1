package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Aniket17200/presentpal/internal/config"
	"github.com/Aniket17200/presentpal/internal/platform/blobstore"
	"github.com/Aniket17200/presentpal/internal/platform/converter"
	"github.com/Aniket17200/presentpal/internal/platform/remotejob"
	"github.com/Aniket17200/presentpal/internal/service"
	"github.com/Aniket17200/presentpal/internal/task"
)

// bucketSetupTimeout bounds the startup bucket bootstrap.
const bucketSetupTimeout = 30 * time.Second

// application holds all shared dependencies, wired once at startup.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	store     *blobstore.MinioStore
	registry  *task.Registry
	pipeline  *service.PipelineService
	questions *service.QuestionService
}

// newApplication wires the object store, media service client, converter
// and services, and prepares the storage buckets and upload directory.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	store, err := blobstore.NewMinioStore(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), bucketSetupTimeout)
	defer cancel()
	if err := store.EnsureBuckets(ctx, service.AllBuckets()); err != nil {
		return nil, fmt.Errorf("failed to prepare storage buckets: %w", err)
	}

	if err := os.MkdirAll(cfg.Pipeline.UploadDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	jobs := remotejob.NewClient(remotejob.DefaultClientConfig(), logger)
	conv := converter.New(cfg.Converter, logger)
	registry := task.NewRegistry()

	pipeline := service.NewPipelineService(store, jobs, conv, registry, service.PipelineOptions{
		AudioEndpoint:     cfg.Services.AudioURL,
		AnimationEndpoint: cfg.Services.AnimationURL,
		ComposeEndpoint:   cfg.Services.ComposeURL,
		MediaTimeout:      cfg.Pipeline.MediaTimeout(),
		ComposeTimeout:    cfg.Pipeline.ComposeTimeout(),
		ScratchDir:        cfg.Pipeline.UploadDir,
	}, logger)

	questions := service.NewQuestionService(store, jobs, cfg.Services.AskURL, logger)

	return &application{
		config:    cfg,
		logger:    logger,
		store:     store,
		registry:  registry,
		pipeline:  pipeline,
		questions: questions,
	}, nil
}
