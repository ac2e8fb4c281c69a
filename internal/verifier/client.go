package verifier

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

// Client implements port.Verifier against the external verification service.
// Each request carries the document plus the form record snapshot serialized
// as a JSON form field, so a response always scores the record as it was at
// request time.
type Client struct {
	baseURL  string
	attempts uint
	delay    time.Duration
	client   *http.Client
}

// NewClient creates a verification client from config.
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

// verifyResponse models the wire shape of the verification service response.
type verifyResponse struct {
	Results []domain.VerificationOutcome `json:"results"`
}

// Verify sends the document and record snapshot to the verification service
// and returns the per-field outcomes in service order. Transient failures
// (network errors, 429, 5xx) are retried.
func (c *Client) Verify(ctx context.Context, input port.VerifyInput) (domain.VerificationReport, error) {
	recordJSON, err := json.Marshal(input.Record)
	if err != nil {
		return nil, fmt.Errorf("marshaling form record: %w", err)
	}

	var decoded verifyResponse

	err = retry.Do(
		func() error {
			body, contentType, err := encodeMultipart(input, string(recordJSON))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("encoding request: %w", err))
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/verify", body)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
			}
			req.Header.Set("Content-Type", contentType)

			resp, err := c.client.Do(req)
			if err != nil {
				return fmt.Errorf("calling verification service: %w", err)
			}
			defer func() { _ = resp.Body.Close() }()

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}

			if resp.StatusCode != http.StatusOK {
				err := fmt.Errorf("verification service error (status %d): %s", resp.StatusCode, string(respBody))
				if resp.StatusCode == http.StatusTooManyRequests {
					return &rateLimitedError{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")), err: err}
				}
				if resp.StatusCode >= 500 {
					return err
				}
				return retry.Unrecoverable(err)
			}

			if err := json.Unmarshal(respBody, &decoded); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decoding verification response: %w", err))
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
	return domain.VerificationReport(decoded.Results), nil
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

func encodeMultipart(input port.VerifyInput, recordJSON string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, input.FileName))
	hdr.Set("Content-Type", input.ContentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(input.FileBytes); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("form_data_json", recordJSON); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
