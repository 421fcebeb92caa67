package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/rescue_dispatch/internal/config"
	"github.com/shenikar/rescue_dispatch/internal/metrics"
	"github.com/sirupsen/logrus"
)

// errPermanent - шлюз отклонил событие, повтор не поможет
var errPermanent = errors.New("gateway rejected event")

// WebhookWorker забирает события из очереди и доставляет их в шлюз уведомлений
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *WebhookWorker {
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: cfg.WebhookTimeout},
	}
}

// Start запускает горутину, которая работает до отмены ctx
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.WithField("queue", dispatchQueueKey).Info("Starting notification worker")
	go w.run(ctx)
}

func (w *WebhookWorker) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			w.logger.Info("Notification worker stopped")
			return
		}

		// 0 - ждать события без ограничения
		result, err := w.redisClient.BRPop(ctx, 0, dispatchQueueKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.WithError(err).Error("Failed to pop dispatch event from Redis")
			w.wait(ctx, w.cfg.WebhookTimeout)
			continue
		}

		// result[0] - ключ, result[1] - значение
		raw := result[1]
		var event Event
		if err := json.Unmarshal([]byte(raw), &event); err != nil {
			w.logger.WithError(err).Error("Dropping malformed dispatch event")
			continue
		}
		w.processWebhookEvent(ctx, event, raw)
	}
}

// processWebhookEvent доставляет событие с удвоением паузы между попытками.
// true - шлюз подтвердил прием.
func (w *WebhookWorker) processWebhookEvent(ctx context.Context, event Event, raw string) bool {
	log := w.logger.WithFields(logrus.Fields{
		"event_kind": event.Kind,
		"recipients": len(event.Recipients),
	})
	if event.IncidentID != nil {
		log = log.WithField("incident_id", *event.IncidentID)
	}

	if w.cfg.WebhookURL == "" {
		log.Warn("WEBHOOK_URL is not configured, notification skipped")
		metrics.WebhookDeliveriesTotal.WithLabelValues("skipped").Inc()
		return false
	}

	attempts := max(w.cfg.WebhookMaxRetries, 1)
	delay := w.cfg.WebhookBaseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		err := w.deliver(ctx, event, raw)
		if err == nil {
			log.WithField("attempt", attempt).Info("Notification delivered")
			metrics.WebhookDeliveriesTotal.WithLabelValues("delivered").Inc()
			return true
		}
		if errors.Is(err, errPermanent) {
			log.WithError(err).Error("Notification rejected by gateway")
			break
		}
		if attempt == attempts {
			log.WithError(err).Errorf("Notification not delivered after %d attempts", attempts)
			break
		}

		log.WithError(err).Warnf("Notification attempt %d/%d failed, retrying in %v", attempt, attempts, delay)
		if !w.wait(ctx, delay) {
			break
		}
		delay *= 2
	}

	metrics.WebhookDeliveriesTotal.WithLabelValues("failed").Inc()
	w.deadLetter(log, raw)
	return false
}

// deliver - одна попытка POST в шлюз
func (w *WebhookWorker) deliver(ctx context.Context, event Event, raw string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewBufferString(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", errPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Kind", string(event.Kind))
	if w.cfg.WebhookSecret != "" {
		req.Header.Set("X-Webhook-Signature", generateHMACSHA256(raw, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("gateway responded with status %d", resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", errPermanent, resp.StatusCode)
	}
}

// deadLetter сохраняет недоставленное событие для ручного разбора
func (w *WebhookWorker) deadLetter(log *logrus.Entry, raw string) {
	if w.redisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WebhookTimeout)
	defer cancel()
	if err := w.redisClient.LPush(ctx, deadLetterQueueKey, raw).Err(); err != nil {
		log.WithError(err).Error("Failed to store undelivered notification")
	}
}

// wait возвращает false, если ctx отменен раньше истечения паузы
func (w *WebhookWorker) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
