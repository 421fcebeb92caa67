package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Type      TeamType    `json:"type"`
	District  string      `json:"district"`
	LeaderID  uuid.UUID   `json:"leader_id"`
	MemberIDs []uuid.UUID `json:"member_ids"`
}

// DisasterStatus статус объявленного бедствия
type DisasterStatus string

const (
	DisasterActive   DisasterStatus = "active"
	DisasterResolved DisasterStatus = "resolved"
)

type Disaster struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	District   string         `json:"district"`
	Severity   Severity       `json:"severity"`
	Status     DisasterStatus `json:"status"`
	DeclaredBy uuid.UUID      `json:"declared_by"`
	DeclaredAt time.Time      `json:"declared_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

// DisasterActivation привязка команды к бедствию. Не зависит от назначений по инцидентам
type DisasterActivation struct {
	ID               uuid.UUID  `json:"id"`
	DisasterID       uuid.UUID  `json:"disaster_id"`
	TeamID           uuid.UUID  `json:"team_id"`
	AssignedArea     string     `json:"assigned_area"`
	Responsibilities string     `json:"responsibilities"`
	ActivatedBy      uuid.UUID  `json:"activated_by"`
	ActivatedAt      time.Time  `json:"activated_at"`
	WithdrawnAt      *time.Time `json:"withdrawn_at,omitempty"`
}

// Active - активация не отозвана
func (a *DisasterActivation) Active() bool {
	return a.WithdrawnAt == nil
}
