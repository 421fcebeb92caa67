package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity степень тяжести инцидента
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid проверяет, что значение входит в перечисление
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// RequiresFanOut - активная рассылка волонтерам только для high и critical
func (s Severity) RequiresFanOut() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// IncidentStatus статус инцидента
type IncidentStatus string

const (
	IncidentPending      IncidentStatus = "pending"
	IncidentAcknowledged IncidentStatus = "acknowledged"
	IncidentEscalated    IncidentStatus = "escalated"
	IncidentAssigned     IncidentStatus = "assigned"
	IncidentAccepted     IncidentStatus = "accepted"
	IncidentEnRoute      IncidentStatus = "en_route"
	IncidentOnSite       IncidentStatus = "on_site"
	IncidentResolved     IncidentStatus = "resolved"
	IncidentCancelled    IncidentStatus = "cancelled"
)

// OpenIncidentStatuses - инциденты без активного назначения, доступные для принятия
var OpenIncidentStatuses = []IncidentStatus{IncidentPending, IncidentAcknowledged, IncidentEscalated}

// Valid проверяет, что значение входит в перечисление
func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentPending, IncidentAcknowledged, IncidentEscalated, IncidentAssigned, IncidentAccepted,
		IncidentEnRoute, IncidentOnSite, IncidentResolved, IncidentCancelled:
		return true
	}
	return false
}

// IsOpen - инцидент ждет волонтера
func (s IncidentStatus) IsOpen() bool {
	for _, o := range OpenIncidentStatuses {
		if s == o {
			return true
		}
	}
	return false
}

// IsTerminal - resolved и cancelled конечные
func (s IncidentStatus) IsTerminal() bool {
	return s == IncidentResolved || s == IncidentCancelled
}

// TeamType тип команды, также подсказка автоназначения для типа инцидента
type TeamType string

const (
	TeamRescue  TeamType = "rescue"
	TeamMedical TeamType = "medical"
	TeamRelief  TeamType = "relief"
	TeamGeneral TeamType = "general"
)

// IssueType категория инцидента со значениями по умолчанию
type IssueType struct {
	Code               string   `json:"code"`
	Name               string   `json:"name"`
	DefaultSeverity    Severity `json:"default_severity"`
	AutoAssignTeamType TeamType `json:"auto_assign_team_type"`
	RequiresAuth       bool     `json:"requires_auth"`
}

type Incident struct {
	ID             uuid.UUID      `json:"id"`
	TypeCode       string         `json:"type_code"`
	ReporterID     *uuid.UUID     `json:"reporter_id,omitempty"`
	VictimName     string         `json:"victim_name"`
	VictimPhone    string         `json:"victim_phone"`
	Description    string         `json:"description"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	Address        string         `json:"address"`
	Landmark       string         `json:"landmark"`
	District       string         `json:"district"`
	Severity       Severity       `json:"severity"`
	Status         IncidentStatus `json:"status"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	EscalatedAt    *time.Time     `json:"escalated_at,omitempty"`
	ResolvedAt     *time.Time     `json:"resolved_at,omitempty"`
	CancelledAt    *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Coordinates реализует geo.Locatable
func (i *Incident) Coordinates() (float64, float64) {
	return i.Latitude, i.Longitude
}

// ReportedBy проверяет авторство инцидента
func (i *Incident) ReportedBy(userID uuid.UUID) bool {
	return i.ReporterID != nil && userID != uuid.Nil && *i.ReporterID == userID
}

// ReopenStatus статус, в который возвращается инцидент после сброса назначения
func (i *Incident) ReopenStatus() IncidentStatus {
	if i.EscalatedAt != nil {
		return IncidentEscalated
	}
	if i.AcknowledgedAt != nil {
		return IncidentAcknowledged
	}
	return IncidentPending
}

// Match запись о волонтере, получившем уведомление по инциденту
type Match struct {
	IncidentID  uuid.UUID `json:"incident_id"`
	VolunteerID uuid.UUID `json:"volunteer_id"`
	DistanceKm  float64   `json:"distance_km"`
	Trigger     string    `json:"trigger"`
	MatchedAt   time.Time `json:"matched_at"`
}

// FanOutResult инцидент и количество уведомленных волонтеров
type FanOutResult struct {
	Incident *Incident
	Notified int
}
