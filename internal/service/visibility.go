package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/geo"
	"github.com/shenikar/rescue_dispatch/internal/models"
)

// ScopeKind путь выборки инцидентов, определяемый ролью
type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeReporter
	ScopeVolunteer
)

// IncidentScope предикат видимости для одного вызова
type IncidentScope struct {
	Kind        ScopeKind
	Filter      models.IncidentFilter
	VolunteerID uuid.UUID
	Center      models.GeoPoint
	RadiusKm    float64
}

// ScopeFor - чистая функция от роли и фильтров к предикату выборки.
// Для волонтера центр берется из текущей точки вызова, иначе из сохраненного профиля.
func ScopeFor(caller models.Caller, filter models.IncidentFilter, volunteer *models.Volunteer, defaultRadiusKm float64) (IncidentScope, error) {
	filter = filter.Normalize()

	switch caller.Role {
	case models.RoleAdministrator:
		return IncidentScope{Kind: ScopeAll, Filter: filter}, nil

	case models.RoleVolunteer:
		if !caller.IsVolunteer() || volunteer == nil {
			return IncidentScope{}, fmt.Errorf("%w: volunteer identity required", models.ErrAuthorization)
		}
		center := models.GeoPoint{Latitude: volunteer.Latitude, Longitude: volunteer.Longitude}
		if caller.Location != nil {
			center = *caller.Location
		}
		if !geo.ValidCoordinate(center.Latitude, center.Longitude) {
			return IncidentScope{}, fmt.Errorf("%w: invalid volunteer location", models.ErrValidation)
		}
		radius := volunteer.ServiceRadiusKm
		if radius <= 0 {
			radius = defaultRadiusKm
		}
		// волонтер сам не выбирает автора
		filter.ReporterID = nil
		return IncidentScope{
			Kind:        ScopeVolunteer,
			Filter:      filter,
			VolunteerID: volunteer.ID,
			Center:      center,
			RadiusKm:    radius,
		}, nil

	case models.RoleCitizen:
		if caller.IsAnonymous() {
			return IncidentScope{}, fmt.Errorf("%w: anonymous callers cannot list incidents", models.ErrAuthorization)
		}
		reporter := caller.UserID
		filter.ReporterID = &reporter
		return IncidentScope{Kind: ScopeReporter, Filter: filter}, nil
	}

	return IncidentScope{}, fmt.Errorf("%w: unknown role %q", models.ErrAuthorization, caller.Role)
}

// Covers - открытый инцидент в радиусе обслуживания волонтера
func (s IncidentScope) Covers(incident *models.Incident) bool {
	if s.Kind != ScopeVolunteer || !incident.Status.IsOpen() {
		return false
	}
	return geo.Haversine(s.Center.Latitude, s.Center.Longitude, incident.Latitude, incident.Longitude) <= s.RadiusKm
}
