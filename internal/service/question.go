package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Aniket17200/presentpal/internal/platform/blobstore"
)

const askTimeout = 30 * time.Second

// QuestionJobClient is the slice of the remote job client the Q&A
// service needs.
type QuestionJobClient interface {
	SubmitJSON(ctx context.Context, endpoint string, payload interface{}, wantContentType string, timeout time.Duration) ([]byte, error)
}

// Answer is a stored spoken answer to one question.
type Answer struct {
	AudioURL  string
	Timestamp time.Time
}

// QuestionService forwards free-text questions to the Q&A service and
// stores the spoken answers it returns.
type QuestionService struct {
	store       blobstore.Store
	jobs        QuestionJobClient
	askEndpoint string
	logger      *slog.Logger
}

// NewQuestionService wires a QuestionService.
func NewQuestionService(store blobstore.Store, jobs QuestionJobClient, askEndpoint string, logger *slog.Logger) *QuestionService {
	return &QuestionService{
		store:       store,
		jobs:        jobs,
		askEndpoint: askEndpoint,
		logger:      logger,
	}
}

// Ask submits the question, stores the returned audio answer and hands
// back its URL. The answer is a single synchronous call; there is no
// task record for it.
func (s *QuestionService) Ask(ctx context.Context, question string) (*Answer, error) {
	s.logger.Info("submitting question", "length", len(question))

	data, err := s.jobs.SubmitJSON(ctx, s.askEndpoint,
		map[string]string{"question": question}, "audio", askTimeout)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	key := fmt.Sprintf("audios/audio_%d_%d.mp3", now.UnixMilli(), rand.Intn(1000))
	url, err := s.store.Upload(ctx, bucketAnswers, key, data, "audio/mpeg")
	if err != nil {
		return nil, err
	}

	s.logger.Info("answer stored", "url", url)
	return &Answer{AudioURL: url, Timestamp: now}, nil
}
