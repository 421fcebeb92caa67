package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/rescue_dispatch/internal/models"
)

const (
	dispatchQueueKey   = "dispatch_events"
	deadLetterQueueKey = "dispatch_events:dead"
)

// EventKind тип события для шлюза уведомлений
type EventKind string

const (
	EventIncidentMatched   EventKind = "incident.matched"
	EventIncidentEscalated EventKind = "incident.escalated"
	EventTeamActivated     EventKind = "team.activated"
)

// Event - структура для данных вебхука: список получателей и ссылка на инцидент или бедствие
type Event struct {
	Kind         EventKind       `json:"kind"`
	IncidentID   *uuid.UUID      `json:"incident_id,omitempty"`
	DisasterID   *uuid.UUID      `json:"disaster_id,omitempty"`
	ActivationID *uuid.UUID      `json:"activation_id,omitempty"`
	Recipients   []uuid.UUID     `json:"recipients"`
	Severity     models.Severity `json:"severity,omitempty"`
	Latitude     float64         `json:"latitude,omitempty"`
	Longitude    float64         `json:"longitude,omitempty"`
	Message      string          `json:"message,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// WebhookPublisher - интерфейс для публикации событий в шлюз уведомлений
type WebhookPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие в очередь Redis. Доставку выполняет WebhookWorker
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в левую часть списка, воркер забирает справа
	if err := p.redisClient.LPush(ctx, dispatchQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
