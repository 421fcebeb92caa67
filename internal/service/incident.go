package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/config"
	"github.com/shenikar/rescue_dispatch/internal/geo"
	"github.com/shenikar/rescue_dispatch/internal/metrics"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/webhook"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	GetIssueType(ctx context.Context, code string) (*models.IssueType, error)
	List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	FindOpenInBox(ctx context.Context, box geo.BoundingBox) ([]*models.Incident, error)
	ListActiveForVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*models.Incident, error)
	Acknowledge(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Escalate(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SaveMatches(ctx context.Context, matches []models.Match) error
}

// IncidentCache кеш инцидентов по ID. Get возвращает nil, nil при промахе
type IncidentCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Set(ctx context.Context, incident *models.Incident) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	ReportIncident(ctx context.Context, caller models.Caller, incident *models.Incident) (*models.FanOutResult, error)
	GetIncident(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Incident, error)
	AcknowledgeIncident(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Incident, error)
	EscalateIncident(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.FanOutResult, error)
	CancelIncident(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Incident, error)
	ListVisibleIncidents(ctx context.Context, caller models.Caller, filter models.IncidentFilter) ([]*models.Incident, error)
}

type incidentService struct {
	incidents   IncidentRepository
	assignments AssignmentRepository
	volunteers  VolunteerRepository
	cache       IncidentCache
	matcher     Matcher
	logger      *logrus.Logger
	cfg         *config.Config
}

func NewIncidentService(
	incidents IncidentRepository,
	assignments AssignmentRepository,
	volunteers VolunteerRepository,
	cache IncidentCache,
	matcher Matcher,
	logger *logrus.Logger,
	cfg *config.Config,
) IncidentService {
	return &incidentService{
		incidents:   incidents,
		assignments: assignments,
		volunteers:  volunteers,
		cache:       cache,
		matcher:     matcher,
		logger:      logger,
		cfg:         cfg,
	}
}

// ReportIncident регистрирует инцидент и для high/critical сразу рассылает уведомления.
// Ошибка рассылки не отменяет регистрацию: инцидент всегда сохраняется.
func (s *incidentService) ReportIncident(ctx context.Context, caller models.Caller, incident *models.Incident) (*models.FanOutResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ReportIncident",
		"type":      incident.TypeCode,
		"anonymous": caller.IsAnonymous(),
	})
	log.Info("Attempting to report a new incident")

	if !geo.ValidCoordinate(incident.Latitude, incident.Longitude) {
		return nil, fmt.Errorf("%w: invalid coordinates", models.ErrValidation)
	}
	if strings.TrimSpace(incident.VictimPhone) == "" {
		return nil, fmt.Errorf("%w: victim contact is required", models.ErrValidation)
	}

	issueType, err := s.incidents.GetIssueType(ctx, incident.TypeCode)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown issue type %q", models.ErrValidation, incident.TypeCode)
		}
		log.WithError(err).Error("Failed to load issue type")
		return nil, fmt.Errorf("service: could not load issue type: %w", err)
	}
	if issueType.RequiresAuth && caller.IsAnonymous() {
		log.Warn("Anonymous report rejected for issue type requiring authentication")
		return nil, fmt.Errorf("%w: issue type %q requires authentication", models.ErrAuthorization, issueType.Code)
	}

	if incident.Severity == "" {
		incident.Severity = issueType.DefaultSeverity
	}
	if !incident.Severity.Valid() {
		return nil, fmt.Errorf("%w: invalid severity %q", models.ErrValidation, incident.Severity)
	}

	incident.ReporterID = nil
	if caller.UserID != uuid.Nil {
		reporter := caller.UserID
		incident.ReporterID = &reporter
	}
	incident.Status = models.IncidentPending

	if err := s.incidents.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}
	metrics.IncidentsReportedTotal.WithLabelValues(string(incident.Severity)).Inc()
	log = log.WithField("incident_id", incident.ID)
	log.Info("Incident created successfully")

	notified := s.fanOut(ctx, log, incident, s.cfg.MatchRadiusKm, webhook.EventIncidentMatched)
	return &models.FanOutResult{Incident: incident, Notified: notified}, nil
}

// fanOut запускает подбор и рассылку, ошибки только логируются
func (s *incidentService) fanOut(ctx context.Context, log *logrus.Entry, incident *models.Incident, radiusKm float64, kind webhook.EventKind) int {
	if !incident.Severity.RequiresFanOut() {
		log.Debug("Severity below fan-out threshold, volunteers will discover the incident by polling")
		return 0
	}
	notified, err := s.matcher.FanOut(ctx, incident, radiusKm, kind)
	if err != nil {
		log.WithError(err).Warn("Fan-out failed, incident remains visible by polling")
		return 0
	}
	log.WithField("notified", notified).Info("Fan-out completed")
	return notified
}

// GetIncident получает инцидент по ID с проверкой видимости
func (s *incidentService) GetIncident(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	incident, err := s.load(ctx, log, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, caller, incident); err != nil {
		log.WithError(err).Warn("Caller is not allowed to view incident")
		return nil, err
	}
	return incident, nil
}

// load читает инцидент сначала из кеша, затем из бд
func (s *incidentService) load(ctx context.Context, log *logrus.Entry, id uuid.UUID) (*models.Incident, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.incidents.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	if err := s.cache.Set(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// authorizeView применяет к одному инциденту тот же предикат, что и ScopeFor к списку
func (s *incidentService) authorizeView(ctx context.Context, caller models.Caller, incident *models.Incident) error {
	switch {
	case caller.IsAdmin():
		return nil
	case incident.ReportedBy(caller.UserID):
		return nil
	case caller.IsVolunteer():
		volunteer, err := s.volunteers.GetByID(ctx, caller.UserID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("service: could not load volunteer: %w", err)
		}
		if volunteer != nil {
			scope, err := ScopeFor(caller, models.IncidentFilter{}, volunteer, s.cfg.DefaultServiceRadiusKm)
			if err != nil {
				return err
			}
			if scope.Covers(incident) {
				return nil
			}
		}

		active, err := s.assignments.GetActiveByIncident(ctx, incident.ID)
		if err == nil && active.VolunteerID == caller.UserID {
			return nil
		}
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("service: could not check assignment: %w", err)
		}
	}
	return fmt.Errorf("%w: incident is not visible to caller", models.ErrAuthorization)
}

// AcknowledgeIncident подтверждает получение инцидента диспетчером
func (s *incidentService) AcknowledgeIncident(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "AcknowledgeIncident",
		"incident_id": id,
	})
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators acknowledge incidents", models.ErrAuthorization)
	}

	incident, err := s.incidents.Acknowledge(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to acknowledge incident")
		return nil, fmt.Errorf("service: could not acknowledge incident: %w", err)
	}
	s.invalidate(ctx, log, id)
	log.Info("Incident acknowledged")
	return incident, nil
}

// EscalateIncident повышает тяжесть до critical и повторяет рассылку в расширенном радиусе,
// даже если у инцидента уже есть назначение, ожидающее принятия.
func (s *incidentService) EscalateIncident(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.FanOutResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "EscalateIncident",
		"incident_id": id,
	})
	log.Info("Attempting to escalate incident")

	current, err := s.incidents.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	if err := s.authorizeEscalation(ctx, caller, current); err != nil {
		log.WithError(err).Warn("Caller is not allowed to escalate incident")
		return nil, err
	}

	incident, err := s.incidents.Escalate(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to escalate incident")
		return nil, fmt.Errorf("service: could not escalate incident: %w", err)
	}
	s.invalidate(ctx, log, id)

	notified := s.fanOut(ctx, log, incident, s.cfg.EscalationRadiusKm(), webhook.EventIncidentEscalated)
	return &models.FanOutResult{Incident: incident, Notified: notified}, nil
}

func (s *incidentService) authorizeEscalation(ctx context.Context, caller models.Caller, incident *models.Incident) error {
	if caller.IsAdmin() || incident.ReportedBy(caller.UserID) {
		return nil
	}
	if caller.IsVolunteer() {
		active, err := s.assignments.GetActiveByIncident(ctx, incident.ID)
		if err == nil && active.VolunteerID == caller.UserID {
			return nil
		}
	}
	return fmt.Errorf("%w: only the reporter, an administrator or the assigned volunteer may escalate", models.ErrAuthorization)
}

// CancelIncident отменяет инцидент (автор или администратор). Активное назначение закрывается вместе с ним
func (s *incidentService) CancelIncident(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "CancelIncident",
		"incident_id": id,
	})
	log.Info("Attempting to cancel incident")

	current, err := s.incidents.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	if !caller.IsAdmin() && !current.ReportedBy(caller.UserID) {
		return nil, fmt.Errorf("%w: only the reporter or an administrator may cancel", models.ErrAuthorization)
	}

	incident, err := s.incidents.Cancel(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to cancel incident")
		return nil, fmt.Errorf("service: could not cancel incident: %w", err)
	}
	s.invalidate(ctx, log, id)
	log.Info("Incident cancelled")
	return incident, nil
}

// ListVisibleIncidents возвращает инциденты, видимые вызывающему, новые первыми
func (s *incidentService) ListVisibleIncidents(ctx context.Context, caller models.Caller, filter models.IncidentFilter) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListVisibleIncidents",
		"role":    caller.Role,
	})

	var volunteer *models.Volunteer
	if caller.IsVolunteer() {
		v, err := s.volunteers.GetByID(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("service: could not load volunteer: %w", err)
		}
		volunteer = v
	}

	scope, err := ScopeFor(caller, filter, volunteer, s.cfg.DefaultServiceRadiusKm)
	if err != nil {
		return nil, err
	}

	var incidents []*models.Incident
	switch scope.Kind {
	case ScopeAll, ScopeReporter:
		incidents, err = s.incidents.List(ctx, scope.Filter)
	case ScopeVolunteer:
		incidents, err = s.listForVolunteer(ctx, scope)
	}
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// listForVolunteer - объединение назначенных волонтеру инцидентов (на любом расстоянии)
// и открытых инцидентов в радиусе обслуживания от текущей точки
func (s *incidentService) listForVolunteer(ctx context.Context, scope IncidentScope) ([]*models.Incident, error) {
	assigned, err := s.incidents.ListActiveForVolunteer(ctx, scope.VolunteerID)
	if err != nil {
		return nil, err
	}

	box := geo.NewBoundingBox(scope.Center.Latitude, scope.Center.Longitude, scope.RadiusKm)
	candidates, err := s.incidents.FindOpenInBox(ctx, box)
	if err != nil {
		return nil, err
	}
	nearby := geo.Items(geo.FilterByRadius(scope.Center.Latitude, scope.Center.Longitude, candidates, scope.RadiusKm))

	seen := make(map[uuid.UUID]bool, len(assigned)+len(nearby))
	union := make([]*models.Incident, 0, len(assigned)+len(nearby))
	for _, group := range [][]*models.Incident{assigned, nearby} {
		for _, inc := range group {
			if seen[inc.ID] || !scope.Filter.Matches(inc) {
				continue
			}
			seen[inc.ID] = true
			union = append(union, inc)
		}
	}

	models.SortNewestFirst(union)
	return scope.Filter.Paginate(union), nil
}

func (s *incidentService) invalidate(ctx context.Context, log *logrus.Entry, id uuid.UUID) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}
