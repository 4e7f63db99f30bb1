package remotejob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"
)

var (
	// ErrUnexpectedResponseType is returned when a service responds with a
	// content type other than the one the caller expects. This guards
	// against endpoints that return JSON error bodies with HTTP 200.
	ErrUnexpectedResponseType = errors.New("unexpected response content type")

	// ErrRemoteJobFailed is returned when a submission exhausts its retry
	// budget or the service reports a server-side failure.
	ErrRemoteJobFailed = errors.New("remote job failed")
)

// FilePart is one named file carried in a multipart submission.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// ClientConfig tunes the retry policy of a Client.
type ClientConfig struct {
	// MaxAttempts bounds how many times a submission is tried.
	MaxAttempts int

	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
}

// DefaultClientConfig returns the retry policy used in production.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxAttempts: 12,
		RetryDelay:  5 * time.Second,
	}
}

// Client submits jobs to remote HTTP endpoints.
type Client struct {
	httpClient *http.Client
	config     ClientConfig
	logger     *slog.Logger
}

// NewClient creates a Client with the given retry policy.
func NewClient(config ClientConfig, logger *slog.Logger) *Client {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	return &Client{
		// Per-call deadlines come from the caller's timeout; the
		// underlying client carries none of its own.
		httpClient: &http.Client{},
		config:     config,
		logger:     logger,
	}
}

// fatalError marks a failure that retrying cannot fix.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Submit posts the given file parts to endpoint as a multipart request and
// returns the response body. The response's Content-Type must contain
// wantContentType. Transient failures are retried up to the configured
// attempt budget with a fixed delay; a response with status >= 500 aborts
// immediately, since the service has stated clearly that it failed.
func (c *Client) Submit(ctx context.Context, endpoint string, parts []FilePart, wantContentType string, timeout time.Duration) ([]byte, error) {
	return c.withRetry(ctx, endpoint, func(callCtx context.Context) ([]byte, error) {
		return c.submitMultipart(callCtx, endpoint, parts, wantContentType, timeout)
	})
}

// SubmitJSON posts payload as a JSON body and returns the response body.
// Unlike Submit it makes a single attempt; the caller decides whether the
// operation is worth retrying.
func (c *Client) SubmitJSON(ctx context.Context, endpoint string, payload interface{}, wantContentType string, timeout time.Duration) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req, wantContentType)
	if err != nil {
		var fatal *fatalError
		if errors.As(err, &fatal) {
			err = fatal.err
		}
		return nil, fmt.Errorf("%w: %v", ErrRemoteJobFailed, err)
	}
	return data, nil
}

// Download fetches url into destPath.
func (c *Client) Download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close download body", "url", url, "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed with status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return out.Close()
}

// withRetry runs call with the configured attempt budget and fixed delay.
func (c *Client) withRetry(ctx context.Context, endpoint string, call func(context.Context) ([]byte, error)) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		data, err := call(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var fatal *fatalError
		if errors.As(err, &fatal) {
			return nil, fmt.Errorf("%w after %d attempt(s): %v", ErrRemoteJobFailed, attempt, fatal.err)
		}
		if attempt == c.config.MaxAttempts {
			break
		}

		c.logger.Warn("remote job attempt failed, retrying",
			"endpoint", endpoint,
			"attempt", attempt,
			"max_attempts", c.config.MaxAttempts,
			"retry_delay", c.config.RetryDelay,
			"error", err)

		select {
		case <-time.After(c.config.RetryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w after %d attempt(s): %v", ErrRemoteJobFailed, attempt, ctx.Err())
		}
	}
	return nil, fmt.Errorf("%w after %d attempt(s): %v", ErrRemoteJobFailed, c.config.MaxAttempts, lastErr)
}

// submitMultipart performs one multipart POST against endpoint.
func (c *Client) submitMultipart(ctx context.Context, endpoint string, parts []FilePart, wantContentType string, timeout time.Duration) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, part := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, part.Field, part.Filename))
		header.Set("Content-Type", part.ContentType)
		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create multipart section for %s: %w", part.Field, err)
		}
		if _, err := w.Write(part.Data); err != nil {
			return nil, fmt.Errorf("failed to write multipart section for %s: %w", part.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, wantContentType)
}

// do executes the request, enforcing the status and content-type contract.
func (c *Client) do(req *http.Request, wantContentType string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "url", req.URL.String(), "error", closeErr)
		}
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &fatalError{fmt.Errorf("service returned status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if wantContentType != "" && !strings.Contains(contentType, wantContentType) {
		return nil, fmt.Errorf("%w: got %q, expected %q", ErrUnexpectedResponseType, contentType, wantContentType)
	}

	return io.ReadAll(resp.Body)
}
