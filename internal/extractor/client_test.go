package extractor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanform/internal/config"
	"scanform/internal/port"
)

func testConfig(baseURL string) *config.ServiceClientConfig {
	return &config.ServiceClientConfig{
		BaseURL:      baseURL,
		TimeoutSecs:  5,
		MaxAttempts:  3,
		RetryDelayMS: 1,
	}
}

func testInput() port.ExtractInput {
	return port.ExtractInput{
		FileName:    "scan.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("%PDF-1.4 fake"),
	}
}

func TestClient_Extract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/extract-llm", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		assert.Equal(t, "scan.pdf", header.Filename)
		body, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"first_name":    "Asha",
			"last_name":     nil,
			"date_of_birth": "15-03-2020",
			"raw_text":      "Name: Asha",
		})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	payload, err := client.Extract(context.Background(), testInput())
	require.NoError(t, err)

	require.NotNil(t, payload.FirstName)
	assert.Equal(t, "Asha", *payload.FirstName)
	assert.Nil(t, payload.LastName)
	assert.Equal(t, "Name: Asha", payload.RawText)
}

func TestClient_ExtractRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"raw_text":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	payload, err := client.Extract(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "ok", payload.RawText)
}

func TestClient_ExtractClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Extract(context.Background(), testInput())

	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ExtractHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var attempts []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts = append(attempts, time.Now())
		mu.Unlock()
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"raw_text":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	payload, err := client.Extract(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, "ok", payload.RawText)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, attempts, 2)
	assert.GreaterOrEqual(t, attempts[1].Sub(attempts[0]), time.Second)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 2*time.Second, parseRetryAfter("2"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))

	httpDate := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(httpDate)
	assert.Greater(t, got, 25*time.Second)
	assert.LessOrEqual(t, got, 30*time.Second)
}

func TestClient_ExtractMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Extract(context.Background(), testInput())

	assert.Error(t, err)
}

func TestClient_ExtractExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Extract(context.Background(), testInput())

	assert.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}
