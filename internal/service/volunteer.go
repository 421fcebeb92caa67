package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/config"
	"github.com/shenikar/rescue_dispatch/internal/geo"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// VolunteerRepository определяет контракт справочника волонтеров
type VolunteerRepository interface {
	Upsert(ctx context.Context, volunteer *models.Volunteer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
	FindCandidates(ctx context.Context, box geo.BoundingBox, lat, lng float64, limit int) ([]*models.Volunteer, error)
}

// VolunteerService определяет контракт справочника волонтеров
type VolunteerService interface {
	RegisterVolunteer(ctx context.Context, caller models.Caller, volunteer *models.Volunteer) (*models.Volunteer, error)
	GetVolunteer(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Volunteer, error)
	UpdateLocation(ctx context.Context, caller models.Caller, lat, lng float64) error
	SetAvailability(ctx context.Context, caller models.Caller, available bool) error
	VerifyVolunteer(ctx context.Context, caller models.Caller, id uuid.UUID, verified bool) error
	FindEligibleVolunteers(ctx context.Context, caller models.Caller, lat, lng, radiusKm float64, limit int) ([]models.MatchedVolunteer, error)
}

type volunteerService struct {
	repo    VolunteerRepository
	matcher Matcher
	logger  *logrus.Logger
	cfg     *config.Config
}

func NewVolunteerService(repo VolunteerRepository, matcher Matcher, logger *logrus.Logger, cfg *config.Config) VolunteerService {
	return &volunteerService{
		repo:    repo,
		matcher: matcher,
		logger:  logger,
		cfg:     cfg,
	}
}

// RegisterVolunteer создает или обновляет профиль волонтера (администратор)
func (s *volunteerService) RegisterVolunteer(ctx context.Context, caller models.Caller, volunteer *models.Volunteer) (*models.Volunteer, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "volunteer",
		"method":       "RegisterVolunteer",
		"volunteer_id": volunteer.ID,
	})
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators register volunteers", models.ErrAuthorization)
	}
	if volunteer.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: volunteer id is required", models.ErrValidation)
	}
	if !geo.ValidCoordinate(volunteer.Latitude, volunteer.Longitude) {
		return nil, fmt.Errorf("%w: invalid coordinates", models.ErrValidation)
	}
	if volunteer.ServiceRadiusKm <= 0 {
		volunteer.ServiceRadiusKm = s.cfg.DefaultServiceRadiusKm
	}
	if volunteer.Rank == "" {
		volunteer.Rank = models.RankBeginner
	}
	if !volunteer.Rank.Valid() {
		return nil, fmt.Errorf("%w: invalid rank %q", models.ErrValidation, volunteer.Rank)
	}

	if err := s.repo.Upsert(ctx, volunteer); err != nil {
		log.WithError(err).Error("Failed to upsert volunteer in repository")
		return nil, fmt.Errorf("service: could not register volunteer: %w", err)
	}
	log.Info("Volunteer registered")
	return volunteer, nil
}

// GetVolunteer возвращает профиль: администратору любой, волонтеру только свой
func (s *volunteerService) GetVolunteer(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Volunteer, error) {
	if !caller.IsAdmin() && !(caller.IsVolunteer() && caller.UserID == id) {
		return nil, fmt.Errorf("%w: volunteer profile is not visible to caller", models.ErrAuthorization)
	}
	volunteer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get volunteer: %w", err)
	}
	return volunteer, nil
}

// UpdateLocation обновляет текущую точку волонтера
func (s *volunteerService) UpdateLocation(ctx context.Context, caller models.Caller, lat, lng float64) error {
	if !caller.IsVolunteer() {
		return fmt.Errorf("%w: only volunteers report their location", models.ErrAuthorization)
	}
	if !geo.ValidCoordinate(lat, lng) {
		return fmt.Errorf("%w: invalid coordinates", models.ErrValidation)
	}
	if err := s.repo.UpdateLocation(ctx, caller.UserID, lat, lng); err != nil {
		return fmt.Errorf("service: could not update location: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"service":      "volunteer",
		"method":       "UpdateLocation",
		"volunteer_id": caller.UserID,
	}).Debug("Volunteer location updated")
	return nil
}

// SetAvailability включает или выключает участие волонтера в подборе
func (s *volunteerService) SetAvailability(ctx context.Context, caller models.Caller, available bool) error {
	if !caller.IsVolunteer() {
		return fmt.Errorf("%w: only volunteers change their availability", models.ErrAuthorization)
	}
	if err := s.repo.SetAvailability(ctx, caller.UserID, available); err != nil {
		return fmt.Errorf("service: could not set availability: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"service":      "volunteer",
		"method":       "SetAvailability",
		"volunteer_id": caller.UserID,
		"available":    available,
	}).Info("Volunteer availability changed")
	return nil
}

// VerifyVolunteer отмечает волонтера проверенным (администратор)
func (s *volunteerService) VerifyVolunteer(ctx context.Context, caller models.Caller, id uuid.UUID, verified bool) error {
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: only administrators verify volunteers", models.ErrAuthorization)
	}
	if err := s.repo.SetVerified(ctx, id, verified); err != nil {
		return fmt.Errorf("service: could not verify volunteer: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"service":      "volunteer",
		"method":       "VerifyVolunteer",
		"volunteer_id": id,
		"verified":     verified,
	}).Info("Volunteer verification changed")
	return nil
}

// FindEligibleVolunteers - подбор по произвольной точке для диспетчера
func (s *volunteerService) FindEligibleVolunteers(ctx context.Context, caller models.Caller, lat, lng, radiusKm float64, limit int) ([]models.MatchedVolunteer, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators search volunteers", models.ErrAuthorization)
	}
	if radiusKm <= 0 {
		radiusKm = s.cfg.MatchRadiusKm
	}
	matched, err := s.matcher.FindEligibleVolunteers(ctx, lat, lng, radiusKm, limit)
	if err != nil {
		return nil, fmt.Errorf("service: could not find eligible volunteers: %w", err)
	}
	return matched, nil
}
