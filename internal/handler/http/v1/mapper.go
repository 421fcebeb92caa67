package v1

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/models"
)

// DTOToIncidentModel преобразует DTO сообщения в доменную модель
func DTOToIncidentModel(dto ReportIncidentRequest) *models.Incident {
	return &models.Incident{
		TypeCode:    dto.TypeCode,
		VictimName:  dto.VictimName,
		VictimPhone: dto.VictimPhone,
		Description: dto.Description,
		Latitude:    *dto.Latitude,
		Longitude:   *dto.Longitude,
		Address:     dto.Address,
		Landmark:    dto.Landmark,
		District:    dto.District,
		Severity:    models.Severity(dto.Severity),
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:             model.ID,
		TypeCode:       model.TypeCode,
		ReporterID:     model.ReporterID,
		VictimName:     model.VictimName,
		VictimPhone:    model.VictimPhone,
		Description:    model.Description,
		Latitude:       model.Latitude,
		Longitude:      model.Longitude,
		Address:        model.Address,
		Landmark:       model.Landmark,
		District:       model.District,
		Severity:       string(model.Severity),
		Status:         string(model.Status),
		AcknowledgedAt: model.AcknowledgedAt,
		EscalatedAt:    model.EscalatedAt,
		ResolvedAt:     model.ResolvedAt,
		CancelledAt:    model.CancelledAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func FanOutToResponse(result *models.FanOutResult) *FanOutResponse {
	return &FanOutResponse{
		Incident: ModelToIncidentResponse(result.Incident),
		Notified: result.Notified,
	}
}

// QueryToIncidentFilter собирает фильтр из параметров запроса. status - список через запятую
func QueryToIncidentFilter(q ListIncidentsQuery) (models.IncidentFilter, error) {
	filter := models.IncidentFilter{
		Severity: models.Severity(q.Severity),
		District: q.District,
		TypeCode: q.TypeCode,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.Status != "" {
		for _, raw := range strings.Split(q.Status, ",") {
			status := models.IncidentStatus(strings.TrimSpace(raw))
			if !status.Valid() {
				return models.IncidentFilter{}, fmt.Errorf("%w: invalid status filter %q", models.ErrValidation, status)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	return filter, nil
}

func ModelToAssignmentResponse(model *models.Assignment) *AssignmentResponse {
	return &AssignmentResponse{
		ID:          model.ID,
		IncidentID:  model.IncidentID,
		VolunteerID: model.VolunteerID,
		Status:      string(model.Status),
		AssignedBy:  model.AssignedBy,
		DropReason:  model.DropReason,
		AssignedAt:  model.AssignedAt,
		AcceptedAt:  model.AcceptedAt,
		EnRouteAt:   model.EnRouteAt,
		OnSiteAt:    model.OnSiteAt,
		CompletedAt: model.CompletedAt,
		DroppedAt:   model.DroppedAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func ModelsToAssignmentResponses(models []*models.Assignment) []*AssignmentResponse {
	responses := make([]*AssignmentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToAssignmentResponse(model)
	}
	return responses
}

// DTOToVolunteerModel - ID берется из пути
func DTOToVolunteerModel(id uuid.UUID, dto VolunteerRequest) *models.Volunteer {
	return &models.Volunteer{
		ID:              id,
		Name:            dto.Name,
		Phone:           dto.Phone,
		Latitude:        *dto.Latitude,
		Longitude:       *dto.Longitude,
		ServiceRadiusKm: dto.ServiceRadiusKm,
		IsAvailable:     dto.IsAvailable,
		IsVerified:      dto.IsVerified,
		Rank:            models.Rank(dto.Rank),
		Specializations: dto.Specializations,
	}
}

func ModelToVolunteerResponse(model *models.Volunteer) *VolunteerResponse {
	specializations := model.Specializations
	if specializations == nil {
		specializations = []string{}
	}
	return &VolunteerResponse{
		ID:              model.ID,
		Name:            model.Name,
		Phone:           model.Phone,
		Latitude:        model.Latitude,
		Longitude:       model.Longitude,
		ServiceRadiusKm: model.ServiceRadiusKm,
		IsAvailable:     model.IsAvailable,
		IsVerified:      model.IsVerified,
		Rank:            string(model.Rank),
		ResolvedCount:   model.ResolvedCount,
		Rating:          model.Rating,
		Specializations: specializations,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func MatchedToResponses(matched []models.MatchedVolunteer) []*MatchedVolunteerResponse {
	responses := make([]*MatchedVolunteerResponse, len(matched))
	for i, m := range matched {
		responses[i] = &MatchedVolunteerResponse{
			Volunteer:  ModelToVolunteerResponse(m.Volunteer),
			DistanceKm: m.DistanceKm,
		}
	}
	return responses
}

func DTOToDisasterModel(dto DeclareDisasterRequest) *models.Disaster {
	return &models.Disaster{
		Name:     dto.Name,
		Kind:     dto.Kind,
		District: dto.District,
		Severity: models.Severity(dto.Severity),
	}
}

func ModelToDisasterResponse(model *models.Disaster) *DisasterResponse {
	return &DisasterResponse{
		ID:         model.ID,
		Name:       model.Name,
		Kind:       model.Kind,
		District:   model.District,
		Severity:   string(model.Severity),
		Status:     string(model.Status),
		DeclaredAt: model.DeclaredAt,
		ResolvedAt: model.ResolvedAt,
	}
}

func ModelToActivationResponse(model *models.DisasterActivation) *ActivationResponse {
	return &ActivationResponse{
		ID:               model.ID,
		DisasterID:       model.DisasterID,
		TeamID:           model.TeamID,
		AssignedArea:     model.AssignedArea,
		Responsibilities: model.Responsibilities,
		ActivatedAt:      model.ActivatedAt,
		WithdrawnAt:      model.WithdrawnAt,
		Active:           model.Active(),
	}
}

func ModelsToActivationResponses(models []*models.DisasterActivation) []*ActivationResponse {
	responses := make([]*ActivationResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToActivationResponse(model)
	}
	return responses
}
