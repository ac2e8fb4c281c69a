package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"scanform/internal/config"
	"scanform/internal/domain"
	"scanform/internal/port"
)

// Client implements port.Extractor against the OCR/LLM extraction service.
// It posts the document as multipart form data and decodes the returned
// field payload.
type Client struct {
	baseURL  string
	attempts uint
	delay    time.Duration
	client   *http.Client
}

// NewClient creates an extraction client from config.
func NewClient(cfg *config.ServiceClientConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	attempts := uint(cfg.MaxAttempts)
	if attempts == 0 {
		attempts = 3
	}
	delay := time.Duration(cfg.RetryDelayMS) * time.Millisecond
	if delay == 0 {
		delay = 2 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		attempts: attempts,
		delay:    delay,
		client:   &http.Client{Timeout: timeout},
	}
}

// Extract sends the document to the extraction service and returns its raw
// payload. Transient failures (network errors, 429, 5xx) are retried;
// any other non-success status fails the call.
func (c *Client) Extract(ctx context.Context, input port.ExtractInput) (*domain.ExtractionPayload, error) {
	var payload domain.ExtractionPayload

	err := retry.Do(
		func() error {
			body, contentType, err := encodeMultipart(input.FileName, input.ContentType, input.FileBytes, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("encoding request: %w", err))
			}
			respBody, err := c.post(ctx, c.baseURL+"/api/v1/extract-llm", contentType, body)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(respBody, &payload); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decoding extraction payload: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(serverDirectedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// rateLimitedError carries the backoff a 429 response requested via its
// Retry-After header.
type rateLimitedError struct {
	retryAfter time.Duration
	err        error
}

func (e *rateLimitedError) Error() string { return e.err.Error() }
func (e *rateLimitedError) Unwrap() error { return e.err }

// serverDirectedDelay waits as long as the server asked when the last
// failure was a rate limit with a Retry-After, and backs off normally
// otherwise.
func serverDirectedDelay(n uint, err error, cfg *retry.Config) time.Duration {
	var rl *rateLimitedError
	if errors.As(err, &rl) && rl.retryAfter > 0 {
		return rl.retryAfter
	}
	return retry.BackOffDelay(n, err, cfg)
}

// parseRetryAfter reads a Retry-After value in either delay-seconds or
// HTTP-date form; 0 means absent or unparseable.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func (c *Client) post(ctx context.Context, url, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("extraction service error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &rateLimitedError{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")), err: err}
		}
		if resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, retry.Unrecoverable(err)
	}
	return respBody, nil
}

// encodeMultipart builds a multipart body with the document under the "file"
// field and any extra string fields alongside it.
func encodeMultipart(fileName, contentType string, fileBytes []byte, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(fileBytes); err != nil {
		return nil, "", err
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
