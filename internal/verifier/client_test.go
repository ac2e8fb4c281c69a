package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanform/internal/config"
	"scanform/internal/domain"
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

func testInput() port.VerifyInput {
	record := domain.EmptyRecord()
	record[domain.FieldFirstName] = "Asha"
	record[domain.FieldCity] = "Pune"
	return port.VerifyInput{
		FileName:    "scan.jpg",
		ContentType: "image/jpeg",
		FileBytes:   []byte{0xFF, 0xD8, 0xFF},
		Record:      record,
	}
}

func TestClient_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/verify", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		_ = file.Close()
		assert.Equal(t, "scan.jpg", header.Filename)

		// The record travels with the request as a JSON form field.
		var record map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("form_data_json")), &record))
		assert.Equal(t, "Asha", record["first_name"])
		assert.Equal(t, "Pune", record["city"])
		assert.Len(t, record, 12)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"field": "first_name", "status": "match", "confidence": 0.92},
				{"field": "city", "status": "mismatch", "confidence": 0.41},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	report, err := client.Verify(context.Background(), testInput())
	require.NoError(t, err)

	require.Len(t, report, 2)
	assert.Equal(t, domain.FieldFirstName, report[0].Field)
	assert.Equal(t, domain.VerificationMatch, report[0].Status)
	assert.InDelta(t, 0.92, report[0].Confidence, 1e-9)
	assert.Equal(t, domain.VerificationMismatch, report[1].Status)
}

func TestClient_VerifyRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	report, err := client.Verify(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, report)
}

func TestClient_VerifyHonorsRetryAfter(t *testing.T) {
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
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Verify(context.Background(), testInput())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, attempts, 2)
	assert.GreaterOrEqual(t, attempts[1].Sub(attempts[0]), time.Second)
}

func TestClient_VerifyClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Verify(context.Background(), testInput())

	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_VerifyMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Verify(context.Background(), testInput())

	assert.Error(t, err)
}
