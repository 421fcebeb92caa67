package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus статус участия волонтера в инциденте
type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentEnRoute   AssignmentStatus = "en_route"
	AssignmentOnSite    AssignmentStatus = "on_site"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentDropped   AssignmentStatus = "dropped"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// ActiveAssignmentStatuses - нетерминальные статусы. У инцидента одновременно может быть не больше одного такого назначения
var ActiveAssignmentStatuses = []AssignmentStatus{
	AssignmentAssigned, AssignmentAccepted, AssignmentEnRoute, AssignmentOnSite,
}

// forward допустимые переходы вперед. Пропуск шага запрещен
var forward = map[AssignmentStatus]AssignmentStatus{
	AssignmentAssigned: AssignmentAccepted,
	AssignmentAccepted: AssignmentEnRoute,
	AssignmentEnRoute:  AssignmentOnSite,
	AssignmentOnSite:   AssignmentCompleted,
}

// Valid проверяет, что значение входит в перечисление
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentAccepted, AssignmentEnRoute, AssignmentOnSite,
		AssignmentCompleted, AssignmentDropped, AssignmentCancelled:
		return true
	}
	return false
}

// IsActive - нетерминальный статус
func (s AssignmentStatus) IsActive() bool {
	for _, a := range ActiveAssignmentStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// Next следующий статус на пути волонтера
func (s AssignmentStatus) Next() (AssignmentStatus, bool) {
	n, ok := forward[s]
	return n, ok
}

// CheckTransition проверяет допустимость перехода from -> to.
// dropped разрешен из любого активного статуса, cancelled - только при отмене инцидента.
func CheckTransition(from, to AssignmentStatus) error {
	if !from.IsActive() {
		return fmt.Errorf("%w: assignment is already %s", ErrStateConflict, from)
	}
	switch to {
	case AssignmentDropped, AssignmentCancelled:
		return nil
	}
	if next, ok := forward[from]; ok && next == to {
		return nil
	}
	return fmt.Errorf("%w: illegal transition %s -> %s", ErrStateConflict, from, to)
}

// IncidentStatusFor статус инцидента, который соответствует статусу активного назначения.
// Статус инцидента меняется только вместе с назначением.
func IncidentStatusFor(s AssignmentStatus, incident *Incident) IncidentStatus {
	switch s {
	case AssignmentAssigned:
		return IncidentAssigned
	case AssignmentAccepted:
		return IncidentAccepted
	case AssignmentEnRoute:
		return IncidentEnRoute
	case AssignmentOnSite:
		return IncidentOnSite
	case AssignmentCompleted:
		return IncidentResolved
	case AssignmentCancelled:
		return IncidentCancelled
	default:
		return incident.ReopenStatus()
	}
}

type Assignment struct {
	ID          uuid.UUID        `json:"id"`
	IncidentID  uuid.UUID        `json:"incident_id"`
	VolunteerID uuid.UUID        `json:"volunteer_id"`
	Status      AssignmentStatus `json:"status"`
	AssignedBy  *uuid.UUID       `json:"assigned_by,omitempty"`
	DropReason  string           `json:"drop_reason,omitempty"`
	AssignedAt  *time.Time       `json:"assigned_at,omitempty"`
	AcceptedAt  *time.Time       `json:"accepted_at,omitempty"`
	EnRouteAt   *time.Time       `json:"en_route_at,omitempty"`
	OnSiteAt    *time.Time       `json:"on_site_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	DroppedAt   *time.Time       `json:"dropped_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Stamp проставляет время перехода в соответствующее поле
func (a *Assignment) Stamp(s AssignmentStatus, at time.Time) {
	t := at
	switch s {
	case AssignmentAssigned:
		a.AssignedAt = &t
	case AssignmentAccepted:
		a.AcceptedAt = &t
	case AssignmentEnRoute:
		a.EnRouteAt = &t
	case AssignmentOnSite:
		a.OnSiteAt = &t
	case AssignmentCompleted:
		a.CompletedAt = &t
	case AssignmentDropped, AssignmentCancelled:
		a.DroppedAt = &t
	}
	a.Status = s
	a.UpdatedAt = at
}
