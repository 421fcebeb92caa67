package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/metrics"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/webhook"
	"github.com/sirupsen/logrus"
)

// DisasterRepository определяет контракт хранения бедствий и активаций команд
type DisasterRepository interface {
	CreateDisaster(ctx context.Context, disaster *models.Disaster) error
	GetDisaster(ctx context.Context, id uuid.UUID) (*models.Disaster, error)
	// ResolveDisaster закрывает бедствие и отзывает все его активные активации
	ResolveDisaster(ctx context.Context, id uuid.UUID) (*models.Disaster, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	// CreateActivation вставляет запись, только если бедствие активно, иначе models.ErrStateConflict
	CreateActivation(ctx context.Context, activation *models.DisasterActivation) error
	ListActivations(ctx context.Context, disasterID uuid.UUID) ([]*models.DisasterActivation, error)
	WithdrawActivation(ctx context.Context, id uuid.UUID) (*models.DisasterActivation, error)
}

// DisasterService определяет контракт активации команд на бедствие
type DisasterService interface {
	DeclareDisaster(ctx context.Context, caller models.Caller, disaster *models.Disaster) (*models.Disaster, error)
	ResolveDisaster(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Disaster, error)
	ActivateTeam(ctx context.Context, caller models.Caller, disasterID, teamID uuid.UUID, assignedArea, responsibilities string) (*models.DisasterActivation, error)
	WithdrawActivation(ctx context.Context, caller models.Caller, activationID uuid.UUID) (*models.DisasterActivation, error)
	ListActivations(ctx context.Context, caller models.Caller, disasterID uuid.UUID) ([]*models.DisasterActivation, error)
}

type disasterService struct {
	repo      DisasterRepository
	publisher webhook.WebhookPublisher
	logger    *logrus.Logger
}

func NewDisasterService(repo DisasterRepository, publisher webhook.WebhookPublisher, logger *logrus.Logger) DisasterService {
	return &disasterService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// DeclareDisaster объявляет крупное бедствие
func (s *disasterService) DeclareDisaster(ctx context.Context, caller models.Caller, disaster *models.Disaster) (*models.Disaster, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "disaster",
		"method":  "DeclareDisaster",
		"name":    disaster.Name,
	})
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators declare disasters", models.ErrAuthorization)
	}
	if strings.TrimSpace(disaster.Name) == "" {
		return nil, fmt.Errorf("%w: disaster name is required", models.ErrValidation)
	}
	if disaster.Severity == "" {
		disaster.Severity = models.SeverityHigh
	}
	if !disaster.Severity.Valid() {
		return nil, fmt.Errorf("%w: invalid severity %q", models.ErrValidation, disaster.Severity)
	}
	disaster.Status = models.DisasterActive
	disaster.DeclaredBy = caller.UserID

	if err := s.repo.CreateDisaster(ctx, disaster); err != nil {
		log.WithError(err).Error("Failed to create disaster in repository")
		return nil, fmt.Errorf("service: could not declare disaster: %w", err)
	}
	log.WithField("disaster_id", disaster.ID).Info("Disaster declared")
	return disaster, nil
}

// ResolveDisaster закрывает бедствие, активации отзываются
func (s *disasterService) ResolveDisaster(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Disaster, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators resolve disasters", models.ErrAuthorization)
	}
	disaster, err := s.repo.ResolveDisaster(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not resolve disaster: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"service":     "disaster",
		"method":      "ResolveDisaster",
		"disaster_id": id,
	}).Info("Disaster resolved")
	return disaster, nil
}

// ActivateTeam привязывает команду к бедствию. Повторная активация той же команды создает
// новую запись (повторный инструктаж), а не ошибку. Назначения по инцидентам не создаются.
func (s *disasterService) ActivateTeam(ctx context.Context, caller models.Caller, disasterID, teamID uuid.UUID, assignedArea, responsibilities string) (*models.DisasterActivation, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "disaster",
		"method":      "ActivateTeam",
		"disaster_id": disasterID,
		"team_id":     teamID,
	})
	log.Info("Attempting to activate team")

	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators activate teams", models.ErrAuthorization)
	}

	disaster, err := s.repo.GetDisaster(ctx, disasterID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get disaster: %w", err)
	}
	if disaster.Status != models.DisasterActive {
		return nil, fmt.Errorf("%w: disaster is %s", models.ErrStateConflict, disaster.Status)
	}
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get team: %w", err)
	}

	activation := &models.DisasterActivation{
		DisasterID:       disasterID,
		TeamID:           teamID,
		AssignedArea:     assignedArea,
		Responsibilities: responsibilities,
		ActivatedBy:      caller.UserID,
	}
	if err := s.repo.CreateActivation(ctx, activation); err != nil {
		log.WithError(err).Warn("Failed to create activation")
		return nil, fmt.Errorf("service: could not activate team: %w", err)
	}
	metrics.ActivationsTotal.Inc()
	log = log.WithField("activation_id", activation.ID)
	log.Info("Team activated")

	s.notifyTeam(ctx, log, disaster, team, activation)
	return activation, nil
}

// notifyTeam оповещает состав команды, сбой публикации только логируется
func (s *disasterService) notifyTeam(ctx context.Context, log *logrus.Entry, disaster *models.Disaster, team *models.Team, activation *models.DisasterActivation) {
	recipients := make([]uuid.UUID, 0, len(team.MemberIDs)+1)
	seen := make(map[uuid.UUID]bool, len(team.MemberIDs)+1)
	for _, id := range append([]uuid.UUID{team.LeaderID}, team.MemberIDs...) {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		recipients = append(recipients, id)
	}
	if len(recipients) == 0 {
		return
	}

	disasterID, activationID := disaster.ID, activation.ID
	event := webhook.Event{
		Kind:         webhook.EventTeamActivated,
		DisasterID:   &disasterID,
		ActivationID: &activationID,
		Recipients:   recipients,
		Severity:     disaster.Severity,
		Message:      fmt.Sprintf("%s: %s", disaster.Name, activation.AssignedArea),
		Timestamp:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to notify team roster")
	}
}

// WithdrawActivation отзывает активацию
func (s *disasterService) WithdrawActivation(ctx context.Context, caller models.Caller, activationID uuid.UUID) (*models.DisasterActivation, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators withdraw activations", models.ErrAuthorization)
	}
	activation, err := s.repo.WithdrawActivation(ctx, activationID)
	if err != nil {
		return nil, fmt.Errorf("service: could not withdraw activation: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"service":       "disaster",
		"method":        "WithdrawActivation",
		"activation_id": activationID,
	}).Info("Activation withdrawn")
	return activation, nil
}

// ListActivations - все активации бедствия для панели диспетчера, включая отозванные
func (s *disasterService) ListActivations(ctx context.Context, caller models.Caller, disasterID uuid.UUID) ([]*models.DisasterActivation, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators read activations", models.ErrAuthorization)
	}
	if _, err := s.repo.GetDisaster(ctx, disasterID); err != nil {
		return nil, fmt.Errorf("service: could not get disaster: %w", err)
	}
	activations, err := s.repo.ListActivations(ctx, disasterID)
	if err != nil {
		return nil, fmt.Errorf("service: could not list activations: %w", err)
	}
	return activations, nil
}
