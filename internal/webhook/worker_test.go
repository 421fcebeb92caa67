package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(url string) *WebhookWorker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		WebhookURL:        url,
		WebhookSecret:     "gateway-secret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	return NewWebhookWorker(nil, logger, cfg)
}

func testPayload(t *testing.T) (Event, string) {
	incidentID := uuid.New()
	event := Event{
		Kind:       EventIncidentMatched,
		IncidentID: &incidentID,
		Recipients: []uuid.UUID{uuid.New(), uuid.New()},
		Timestamp:  time.Now().UTC(),
	}
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	return event, string(raw)
}

func TestProcessWebhookEvent_DeliversSignedPayload(t *testing.T) {
	var gotSignature string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	worker := newTestWorker(server.URL)
	event, raw := testPayload(t)

	ok := worker.processWebhookEvent(context.Background(), event, raw)

	assert.True(t, ok)
	assert.Equal(t, raw, string(gotBody))
	assert.Equal(t, generateHMACSHA256(raw, "gateway-secret"), gotSignature)
}

func TestProcessWebhookEvent_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	worker := newTestWorker(server.URL)
	event, raw := testPayload(t)

	ok := worker.processWebhookEvent(context.Background(), event, raw)

	assert.True(t, ok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	worker := newTestWorker(server.URL)
	event, raw := testPayload(t)

	ok := worker.processWebhookEvent(context.Background(), event, raw)

	assert.False(t, ok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_NoURLConfigured(t *testing.T) {
	worker := newTestWorker("")
	event, raw := testPayload(t)

	assert.False(t, worker.processWebhookEvent(context.Background(), event, raw))
}

func TestProcessWebhookEvent_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	var gotKind string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		gotKind = r.Header.Get("X-Event-Kind")
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	worker := newTestWorker(server.URL)
	event, raw := testPayload(t)

	ok := worker.processWebhookEvent(context.Background(), event, raw)

	assert.False(t, ok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, string(EventIncidentMatched), gotKind)
}

func TestProcessWebhookEvent_TooManyRequestsIsRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	worker := newTestWorker(server.URL)
	event, raw := testPayload(t)

	assert.True(t, worker.processWebhookEvent(context.Background(), event, raw))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestProcessWebhookEvent_StopsWhenContextCancelled(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	worker := newTestWorker(server.URL)
	worker.cfg.WebhookBaseDelay = time.Hour
	event, raw := testPayload(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	assert.False(t, worker.processWebhookEvent(ctx, event, raw))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
