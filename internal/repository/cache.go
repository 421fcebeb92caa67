package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/service"
)

type IncidentCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewIncidentCache(redisClient *redis.Client, ttl time.Duration) service.IncidentCache {
	return &IncidentCache{redisClient: redisClient, ttl: ttl}
}

func incidentKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

// Get пытается получить инцидент из Redis
func (c *IncidentCache) Get(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := c.redisClient.Get(ctx, incidentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// Set сохраняет инцидент в Redis
func (c *IncidentCache) Set(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := c.redisClient.Set(ctx, incidentKey(incident.ID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// Invalidate удаляет инцидент из кеша
func (c *IncidentCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.redisClient.Del(ctx, incidentKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
