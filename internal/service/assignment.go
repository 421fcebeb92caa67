package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/metrics"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// AssignmentRepository определяет контракт атомарных операций над назначениями.
// Create и Transition меняют статус инцидента в той же транзакции.
type AssignmentRepository interface {
	// Create - compare-and-set: успешен, только если у инцидента нет активного назначения
	// и он в открытом статусе, иначе models.ErrStateConflict.
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	GetActiveByIncident(ctx context.Context, incidentID uuid.UUID) (*models.Assignment, error)
	ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Assignment, error)
	// Transition переводит назначение из from в to, только если текущий статус равен from
	Transition(ctx context.Context, id uuid.UUID, from, to models.AssignmentStatus, reason string) (*models.Assignment, error)
}

// AssignmentService определяет контракт машины состояний назначения
type AssignmentService interface {
	AcceptIncident(ctx context.Context, caller models.Caller, incidentID uuid.UUID) (*models.Assignment, error)
	DispatchVolunteer(ctx context.Context, caller models.Caller, incidentID, volunteerID uuid.UUID) (*models.Assignment, error)
	AdvanceAssignment(ctx context.Context, caller models.Caller, assignmentID uuid.UUID, to models.AssignmentStatus) (*models.Assignment, error)
	DropAssignment(ctx context.Context, caller models.Caller, assignmentID uuid.UUID, reason string) (*models.Assignment, error)
	GetAssignment(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Assignment, error)
	ListIncidentAssignments(ctx context.Context, caller models.Caller, incidentID uuid.UUID) ([]*models.Assignment, error)
}

type assignmentService struct {
	assignments AssignmentRepository
	incidents   IncidentRepository
	volunteers  VolunteerRepository
	cache       IncidentCache
	logger      *logrus.Logger
}

func NewAssignmentService(assignments AssignmentRepository, incidents IncidentRepository, volunteers VolunteerRepository, cache IncidentCache, logger *logrus.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		incidents:   incidents,
		volunteers:  volunteers,
		cache:       cache,
		logger:      logger,
	}
}

// AcceptIncident - волонтер берет инцидент. Если диспетчер уже назначил именно его,
// назначение переходит assigned -> accepted; иначе создается новое через compare-and-set.
func (s *assignmentService) AcceptIncident(ctx context.Context, caller models.Caller, incidentID uuid.UUID) (*models.Assignment, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "assignment",
		"method":       "AcceptIncident",
		"incident_id":  incidentID,
		"volunteer_id": caller.UserID,
	})
	log.Info("Volunteer attempting to accept incident")

	if !caller.IsVolunteer() {
		return nil, fmt.Errorf("%w: only volunteers accept incidents", models.ErrAuthorization)
	}
	if err := s.requireEligible(ctx, caller.UserID); err != nil {
		log.WithError(err).Warn("Volunteer is not eligible to accept")
		return nil, err
	}
	if _, err := s.incidents.GetByID(ctx, incidentID); err != nil {
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	active, err := s.assignments.GetActiveByIncident(ctx, incidentID)
	switch {
	case err == nil:
		if active.VolunteerID == caller.UserID && active.Status == models.AssignmentAssigned {
			return s.transition(ctx, log, active, models.AssignmentAccepted, "")
		}
		metrics.AcceptConflictsTotal.Inc()
		log.Warn("Incident already has an active assignment")
		return nil, fmt.Errorf("%w: incident already assigned", models.ErrStateConflict)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("service: could not check active assignment: %w", err)
	}

	assignment := &models.Assignment{
		IncidentID:  incidentID,
		VolunteerID: caller.UserID,
		Status:      models.AssignmentAccepted,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		if errors.Is(err, models.ErrStateConflict) {
			metrics.AcceptConflictsTotal.Inc()
			log.WithError(err).Warn("Lost the race to accept incident")
		}
		return nil, fmt.Errorf("service: could not accept incident: %w", err)
	}
	metrics.AssignmentTransitionsTotal.WithLabelValues(string(models.AssignmentAccepted)).Inc()
	s.invalidate(ctx, log, incidentID)

	log.WithField("assignment_id", assignment.ID).Info("Incident accepted")
	return assignment, nil
}

// DispatchVolunteer - диспетчер назначает конкретного волонтера, тот должен принять назначение
func (s *assignmentService) DispatchVolunteer(ctx context.Context, caller models.Caller, incidentID, volunteerID uuid.UUID) (*models.Assignment, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "assignment",
		"method":       "DispatchVolunteer",
		"incident_id":  incidentID,
		"volunteer_id": volunteerID,
	})
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators dispatch volunteers", models.ErrAuthorization)
	}
	if err := s.requireEligible(ctx, volunteerID); err != nil {
		return nil, err
	}

	dispatcher := caller.UserID
	assignment := &models.Assignment{
		IncidentID:  incidentID,
		VolunteerID: volunteerID,
		Status:      models.AssignmentAssigned,
	}
	if dispatcher != uuid.Nil {
		assignment.AssignedBy = &dispatcher
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		log.WithError(err).Warn("Failed to dispatch volunteer")
		return nil, fmt.Errorf("service: could not dispatch volunteer: %w", err)
	}
	metrics.AssignmentTransitionsTotal.WithLabelValues(string(models.AssignmentAssigned)).Inc()
	s.invalidate(ctx, log, incidentID)

	log.WithField("assignment_id", assignment.ID).Info("Volunteer dispatched")
	return assignment, nil
}

// AdvanceAssignment продвигает назначение на один шаг по пути волонтера
func (s *assignmentService) AdvanceAssignment(ctx context.Context, caller models.Caller, assignmentID uuid.UUID, to models.AssignmentStatus) (*models.Assignment, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "assignment",
		"method":        "AdvanceAssignment",
		"assignment_id": assignmentID,
		"to":            to,
	})

	switch to {
	case models.AssignmentAccepted, models.AssignmentEnRoute, models.AssignmentOnSite, models.AssignmentCompleted:
	default:
		return nil, fmt.Errorf("%w: %q is not a volunteer step", models.ErrValidation, to)
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get assignment: %w", err)
	}
	if assignment.VolunteerID != caller.UserID || !caller.IsVolunteer() {
		log.Warn("Caller does not own the assignment")
		return nil, fmt.Errorf("%w: assignment belongs to another volunteer", models.ErrAuthorization)
	}

	return s.transition(ctx, log, assignment, to, "")
}

// DropAssignment снимает волонтера с инцидента, инцидент снова открыт для подбора
func (s *assignmentService) DropAssignment(ctx context.Context, caller models.Caller, assignmentID uuid.UUID, reason string) (*models.Assignment, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "assignment",
		"method":        "DropAssignment",
		"assignment_id": assignmentID,
	})

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get assignment: %w", err)
	}
	if !caller.IsAdmin() && !(caller.IsVolunteer() && assignment.VolunteerID == caller.UserID) {
		return nil, fmt.Errorf("%w: assignment belongs to another volunteer", models.ErrAuthorization)
	}

	return s.transition(ctx, log, assignment, models.AssignmentDropped, reason)
}

func (s *assignmentService) transition(ctx context.Context, log *logrus.Entry, assignment *models.Assignment, to models.AssignmentStatus, reason string) (*models.Assignment, error) {
	if err := models.CheckTransition(assignment.Status, to); err != nil {
		log.WithError(err).Warn("Illegal assignment transition")
		return nil, err
	}

	updated, err := s.assignments.Transition(ctx, assignment.ID, assignment.Status, to, reason)
	if err != nil {
		log.WithError(err).Warn("Failed to apply assignment transition")
		return nil, fmt.Errorf("service: could not move assignment to %s: %w", to, err)
	}
	metrics.AssignmentTransitionsTotal.WithLabelValues(string(to)).Inc()
	s.invalidate(ctx, log, updated.IncidentID)

	log.WithFields(logrus.Fields{"from": assignment.Status, "status": to}).Info("Assignment transitioned")
	return updated, nil
}

// GetAssignment доступно владельцу и администратору
func (s *assignmentService) GetAssignment(ctx context.Context, caller models.Caller, id uuid.UUID) (*models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get assignment: %w", err)
	}
	if !caller.IsAdmin() && !(caller.IsVolunteer() && assignment.VolunteerID == caller.UserID) {
		return nil, fmt.Errorf("%w: assignment is not visible to caller", models.ErrAuthorization)
	}
	return assignment, nil
}

// ListIncidentAssignments - история назначений инцидента, включая терминальные
func (s *assignmentService) ListIncidentAssignments(ctx context.Context, caller models.Caller, incidentID uuid.UUID) ([]*models.Assignment, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators read assignment history", models.ErrAuthorization)
	}
	if _, err := s.incidents.GetByID(ctx, incidentID); err != nil {
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	assignments, err := s.assignments.ListByIncident(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("service: could not list assignments: %w", err)
	}
	return assignments, nil
}

func (s *assignmentService) requireEligible(ctx context.Context, volunteerID uuid.UUID) error {
	volunteer, err := s.volunteers.GetByID(ctx, volunteerID)
	if err != nil {
		return fmt.Errorf("service: could not get volunteer: %w", err)
	}
	if !volunteer.Eligible() {
		return fmt.Errorf("%w: volunteer is not available or not verified", models.ErrAuthorization)
	}
	return nil
}

func (s *assignmentService) invalidate(ctx context.Context, log *logrus.Entry, incidentID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}
