package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/config"
	"github.com/shenikar/rescue_dispatch/internal/geo"
	"github.com/shenikar/rescue_dispatch/internal/metrics"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/webhook"
	"github.com/sirupsen/logrus"
)

// Matcher подбирает волонтеров для инцидента и рассылает им уведомления
type Matcher interface {
	FindEligibleVolunteers(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]models.MatchedVolunteer, error)
	FanOut(ctx context.Context, incident *models.Incident, radiusKm float64, kind webhook.EventKind) (int, error)
}

type matcher struct {
	volunteers VolunteerRepository
	incidents  IncidentRepository
	publisher  webhook.WebhookPublisher
	logger     *logrus.Logger
	cfg        *config.Config
}

func NewMatcher(volunteers VolunteerRepository, incidents IncidentRepository, publisher webhook.WebhookPublisher, logger *logrus.Logger, cfg *config.Config) Matcher {
	return &matcher{
		volunteers: volunteers,
		incidents:  incidents,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// FindEligibleVolunteers - доступные и проверенные волонтеры в радиусе от точки.
// Пул кандидатов ограничивается limit до точной фильтрации, поэтому итог может быть меньше limit.
func (m *matcher) FindEligibleVolunteers(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]models.MatchedVolunteer, error) {
	if !geo.ValidCoordinate(lat, lng) {
		return nil, fmt.Errorf("%w: invalid coordinates", models.ErrValidation)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", models.ErrValidation)
	}
	if limit <= 0 {
		limit = m.cfg.MatchCandidateLimit
	}

	box := geo.NewBoundingBox(lat, lng, radiusKm)
	candidates, err := m.volunteers.FindCandidates(ctx, box, lat, lng, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate volunteers: %w", err)
	}

	ranked := geo.FilterByRadius(lat, lng, candidates, radiusKm)
	matched := make([]models.MatchedVolunteer, 0, len(ranked))
	for _, r := range ranked {
		// реплика могла отстать, повторно проверяем флаги
		if !r.Item.Eligible() {
			continue
		}
		matched = append(matched, models.MatchedVolunteer{Volunteer: r.Item, DistanceKm: r.DistanceKm})
	}
	return matched, nil
}

// FanOut сохраняет записи подбора и публикует событие в шлюз уведомлений.
// Возвращает число подобранных волонтеров; сбой публикации не считается ошибкой.
func (m *matcher) FanOut(ctx context.Context, incident *models.Incident, radiusKm float64, kind webhook.EventKind) (int, error) {
	log := m.logger.WithFields(logrus.Fields{
		"service":     "matching",
		"method":      "FanOut",
		"incident_id": incident.ID,
		"severity":    incident.Severity,
		"radius_km":   radiusKm,
	})

	if !incident.Severity.RequiresFanOut() {
		return 0, nil
	}

	matched, err := m.FindEligibleVolunteers(ctx, incident.Latitude, incident.Longitude, radiusKm, m.cfg.MatchCandidateLimit)
	if err != nil {
		metrics.FanOutFailuresTotal.WithLabelValues("match").Inc()
		return 0, err
	}
	metrics.FanOutVolunteersMatched.Observe(float64(len(matched)))
	if len(matched) == 0 {
		log.Info("No eligible volunteers in range")
		return 0, nil
	}

	now := time.Now().UTC()
	recipients := make([]uuid.UUID, len(matched))
	records := make([]models.Match, len(matched))
	for i, mv := range matched {
		recipients[i] = mv.Volunteer.ID
		records[i] = models.Match{
			IncidentID:  incident.ID,
			VolunteerID: mv.Volunteer.ID,
			DistanceKm:  mv.DistanceKm,
			Trigger:     string(kind),
			MatchedAt:   now,
		}
	}

	if err := m.incidents.SaveMatches(ctx, records); err != nil {
		metrics.FanOutFailuresTotal.WithLabelValues("record").Inc()
		log.WithError(err).Warn("Failed to save match records")
	}

	incidentID := incident.ID
	event := webhook.Event{
		Kind:       kind,
		IncidentID: &incidentID,
		Recipients: recipients,
		Severity:   incident.Severity,
		Latitude:   incident.Latitude,
		Longitude:  incident.Longitude,
		Message:    incident.Description,
		Timestamp:  now,
	}
	if err := m.publisher.Publish(ctx, event); err != nil {
		metrics.FanOutFailuresTotal.WithLabelValues("publish").Inc()
		log.WithError(err).Warn("Failed to publish notification event")
	}

	log.WithField("matched", len(matched)).Info("Volunteers matched")
	return len(matched), nil
}
