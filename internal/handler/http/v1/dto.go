package v1

import (
	"time"

	"github.com/google/uuid"
)

// ReportIncidentRequest DTO для сообщения об инциденте
// @Description DTO для сообщения об инциденте. Анонимный вызов допустим для типов без обязательной идентификации
type ReportIncidentRequest struct {
	TypeCode    string   `json:"type_code" validate:"required,max=64"`
	VictimName  string   `json:"victim_name" validate:"max=255"`
	VictimPhone string   `json:"victim_phone" validate:"required,min=5,max=32"`
	Description string   `json:"description" validate:"max=2000"`
	Latitude    *float64 `json:"latitude" validate:"required,latitude"`
	Longitude   *float64 `json:"longitude" validate:"required,longitude"`
	Address     string   `json:"address" validate:"max=500"`
	Landmark    string   `json:"landmark" validate:"max=255"`
	District    string   `json:"district" validate:"max=128"`
	Severity    string   `json:"severity" validate:"omitempty,oneof=low medium high critical"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID             uuid.UUID  `json:"id"`
	TypeCode       string     `json:"type_code"`
	ReporterID     *uuid.UUID `json:"reporter_id,omitempty"`
	VictimName     string     `json:"victim_name"`
	VictimPhone    string     `json:"victim_phone"`
	Description    string     `json:"description,omitempty"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Address        string     `json:"address,omitempty"`
	Landmark       string     `json:"landmark,omitempty"`
	District       string     `json:"district,omitempty"`
	Severity       string     `json:"severity"`
	Status         string     `json:"status"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	EscalatedAt    *time.Time `json:"escalated_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FanOutResponse инцидент и число уведомленных волонтеров
// @Description Инцидент и число уведомленных волонтеров
type FanOutResponse struct {
	Incident *IncidentResponse `json:"incident"`
	Notified int               `json:"notified"`
}

// ListIncidentsQuery фильтры списка инцидентов.
// lat/lng - текущая точка волонтера, без нее используется сохраненная
type ListIncidentsQuery struct {
	Status    string   `form:"status"`
	Severity  string   `form:"severity" validate:"omitempty,oneof=low medium high critical"`
	District  string   `form:"district"`
	TypeCode  string   `form:"type"`
	Page      int      `form:"page" validate:"omitempty,gte=1,lte=100000"`
	PageSize  int      `form:"page_size" validate:"omitempty,gte=1,lte=100"`
	Latitude  *float64 `form:"lat" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude *float64 `form:"lng" validate:"required_with=Latitude,omitempty,longitude"`
}

// DispatchRequest DTO для назначения волонтера диспетчером
// @Description DTO для назначения волонтера диспетчером
type DispatchRequest struct {
	VolunteerID string `json:"volunteer_id" validate:"required,uuid"`
}

// AssignmentResponse DTO для ответа с назначением
// @Description DTO для ответа с назначением
type AssignmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	IncidentID  uuid.UUID  `json:"incident_id"`
	VolunteerID uuid.UUID  `json:"volunteer_id"`
	Status      string     `json:"status"`
	AssignedBy  *uuid.UUID `json:"assigned_by,omitempty"`
	DropReason  string     `json:"drop_reason,omitempty"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	EnRouteAt   *time.Time `json:"en_route_at,omitempty"`
	OnSiteAt    *time.Time `json:"on_site_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DroppedAt   *time.Time `json:"dropped_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AdvanceAssignmentRequest следующий шаг волонтера
// @Description Следующий шаг волонтера
type AdvanceAssignmentRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted en_route on_site completed"`
}

// DropAssignmentRequest причина снятия с инцидента
// @Description Причина снятия с инцидента
type DropAssignmentRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// VolunteerRequest DTO для регистрации или обновления волонтера
// @Description DTO для регистрации или обновления волонтера
type VolunteerRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=255"`
	Phone           string   `json:"phone" validate:"max=32"`
	Latitude        *float64 `json:"latitude" validate:"required,latitude"`
	Longitude       *float64 `json:"longitude" validate:"required,longitude"`
	ServiceRadiusKm float64  `json:"service_radius_km" validate:"omitempty,gt=0,lte=200"`
	IsAvailable     bool     `json:"is_available"`
	IsVerified      bool     `json:"is_verified"`
	Rank            string   `json:"rank" validate:"omitempty,oneof=beginner trained advanced expert leader"`
	Specializations []string `json:"specializations" validate:"dive,min=1,max=64"`
}

// VolunteerResponse DTO для ответа с профилем волонтера
// @Description DTO для ответа с профилем волонтера
type VolunteerResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	ServiceRadiusKm float64   `json:"service_radius_km"`
	IsAvailable     bool      `json:"is_available"`
	IsVerified      bool      `json:"is_verified"`
	Rank            string    `json:"rank"`
	ResolvedCount   int       `json:"resolved_count"`
	Rating          float64   `json:"rating"`
	Specializations []string  `json:"specializations"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LocationRequest текущая точка волонтера
// @Description Текущая точка волонтера
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// AvailabilityRequest готовность волонтера принимать вызовы
// @Description Готовность волонтера принимать вызовы
type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// VerifyRequest отметка о проверке волонтера
// @Description Отметка о проверке волонтера
type VerifyRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

// EligibleVolunteersQuery параметры подбора волонтеров по точке
type EligibleVolunteersQuery struct {
	Latitude  *float64 `form:"lat" validate:"required,latitude"`
	Longitude *float64 `form:"lng" validate:"required,longitude"`
	RadiusKm  float64  `form:"radius_km" validate:"omitempty,gt=0,lte=200"`
	Limit     int      `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// MatchedVolunteerResponse волонтер и расстояние до точки
// @Description Волонтер и расстояние до точки
type MatchedVolunteerResponse struct {
	Volunteer  *VolunteerResponse `json:"volunteer"`
	DistanceKm float64            `json:"distance_km"`
}

// DeclareDisasterRequest DTO для объявления бедствия
// @Description DTO для объявления бедствия
type DeclareDisasterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Kind     string `json:"kind" validate:"max=64"`
	District string `json:"district" validate:"max=128"`
	Severity string `json:"severity" validate:"omitempty,oneof=low medium high critical"`
}

// DisasterResponse DTO для ответа с бедствием
// @Description DTO для ответа с бедствием
type DisasterResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Kind       string     `json:"kind,omitempty"`
	District   string     `json:"district,omitempty"`
	Severity   string     `json:"severity"`
	Status     string     `json:"status"`
	DeclaredAt time.Time  `json:"declared_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// ActivateTeamRequest DTO для активации команды
// @Description DTO для активации команды на бедствие
type ActivateTeamRequest struct {
	TeamID           string `json:"team_id" validate:"required,uuid"`
	AssignedArea     string `json:"assigned_area" validate:"required,max=500"`
	Responsibilities string `json:"responsibilities" validate:"max=2000"`
}

// ActivationResponse DTO для ответа с активацией
// @Description DTO для ответа с активацией команды
type ActivationResponse struct {
	ID               uuid.UUID  `json:"id"`
	DisasterID       uuid.UUID  `json:"disaster_id"`
	TeamID           uuid.UUID  `json:"team_id"`
	AssignedArea     string     `json:"assigned_area"`
	Responsibilities string     `json:"responsibilities,omitempty"`
	ActivatedAt      time.Time  `json:"activated_at"`
	WithdrawnAt      *time.Time `json:"withdrawn_at,omitempty"`
	Active           bool       `json:"active"`
}
