package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Aniket17200/presentpal/internal/platform/fileutil"
	"github.com/Aniket17200/presentpal/internal/platform/remotejob"
)

// ErrNoAudioClips indicates the narration bundle contained no per-slide
// WAV files, leaving nothing to compose.
var ErrNoAudioClips = errors.New("narration bundle contains no audio clips")

// clipPattern extracts the slide number from a narration clip file name.
var clipPattern = regexp.MustCompile(`slide(\d+)\.wav`)

// composeFinalVideos fetches the narration bundle and the animation clip,
// then submits one composition job per slide and stores the results. The
// returned slice is ordered by slide number and is all-or-nothing: any
// failed slide fails the whole composition.
func (s *PipelineService) composeFinalVideos(ctx context.Context, audioURL, animationURL, folderName string) ([]string, error) {
	logger := s.logger.With("folder", folderName)

	workDir, err := os.MkdirTemp(s.opts.ScratchDir, "temp-videos-")
	if err != nil {
		return nil, fmt.Errorf("failed to create composition scratch dir: %w", err)
	}
	defer fileutil.RemoveWithRetry(logger, workDir)

	zipPath := filepath.Join(workDir, "audio.zip")
	if err := s.jobs.Download(ctx, audioURL, zipPath); err != nil {
		return nil, fmt.Errorf("failed to download narration bundle: %w", err)
	}

	audioDir := filepath.Join(workDir, "audio")
	if err := fileutil.ExtractZip(zipPath, audioDir); err != nil {
		return nil, fmt.Errorf("failed to extract narration bundle: %w", err)
	}

	clipPaths, err := collectAudioClips(audioDir)
	if err != nil {
		return nil, err
	}
	logger.Info("composing final videos", "slides", len(clipPaths))

	animationPath := filepath.Join(workDir, "animation.mp4")
	if err := s.jobs.Download(ctx, animationURL, animationPath); err != nil {
		return nil, fmt.Errorf("failed to download animation clip: %w", err)
	}
	animationData, err := os.ReadFile(animationPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read animation clip: %w", err)
	}

	videoURLs := make([]string, len(clipPaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.ComposeConcurrency)
	for i, clipPath := range clipPaths {
		i, clipPath := i, clipPath
		g.Go(func() error {
			clipData, err := os.ReadFile(clipPath)
			if err != nil {
				return fmt.Errorf("failed to read audio clip %s: %w", filepath.Base(clipPath), err)
			}

			data, err := s.jobs.Submit(gctx, s.opts.ComposeEndpoint, []remotejob.FilePart{
				{Field: "video", Filename: "animation.mp4", ContentType: "video/mp4", Data: animationData},
				{Field: "audio", Filename: filepath.Base(clipPath), ContentType: "audio/wav", Data: clipData},
			}, "video/mp4", s.opts.ComposeTimeout)
			if err != nil {
				return fmt.Errorf("composition failed for slide %d: %w", i+1, err)
			}

			url, err := s.store.Upload(gctx, bucketVideos,
				fmt.Sprintf("%s/final-video-slide%d.mp4", folderName, i+1), data, "video/mp4")
			if err != nil {
				return err
			}
			videoURLs[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return videoURLs, nil
}

// collectAudioClips lists the per-slide WAV files in dir ordered by slide
// number, so slide10 sorts after slide9. Files without a parsable number
// sort first.
func collectAudioClips(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list narration clips: %w", err)
	}

	var clips []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".wav") {
			continue
		}
		clips = append(clips, filepath.Join(dir, entry.Name()))
	}
	if len(clips) == 0 {
		return nil, ErrNoAudioClips
	}

	sort.Slice(clips, func(i, j int) bool {
		return clipNumber(clips[i]) < clipNumber(clips[j])
	})
	return clips, nil
}

func clipNumber(path string) int {
	m := clipPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
