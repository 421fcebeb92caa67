package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFor(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()
	profile := &models.Volunteer{ID: userID, Latitude: 25.60, Longitude: 85.10, ServiceRadiusKm: 7}
	noRadius := &models.Volunteer{ID: userID, Latitude: 25.60, Longitude: 85.10}

	tests := []struct {
		name       string
		caller     models.Caller
		filter     models.IncidentFilter
		volunteer  *models.Volunteer
		wantKind   ScopeKind
		wantErr    error
		wantCenter models.GeoPoint
		wantRadius float64
	}{
		{
			name:     "administrator sees all",
			caller:   admin(),
			wantKind: ScopeAll,
		},
		{
			name:     "citizen sees own reports",
			caller:   citizenCaller(userID),
			filter:   models.IncidentFilter{ReporterID: &other},
			wantKind: ScopeReporter,
		},
		{
			name:    "anonymous cannot list",
			caller:  models.Anonymous(),
			wantErr: models.ErrAuthorization,
		},
		{
			name:       "volunteer uses profile location",
			caller:     volunteerCaller(userID),
			volunteer:  profile,
			wantKind:   ScopeVolunteer,
			wantCenter: models.GeoPoint{Latitude: 25.60, Longitude: 85.10},
			wantRadius: 7,
		},
		{
			name: "volunteer current location wins",
			caller: models.Caller{
				Role: models.RoleVolunteer, UserID: userID,
				Location: &models.GeoPoint{Latitude: 26.1, Longitude: 85.4},
			},
			volunteer:  profile,
			wantKind:   ScopeVolunteer,
			wantCenter: models.GeoPoint{Latitude: 26.1, Longitude: 85.4},
			wantRadius: 7,
		},
		{
			name:       "volunteer without radius gets default",
			caller:     volunteerCaller(userID),
			volunteer:  noRadius,
			wantKind:   ScopeVolunteer,
			wantCenter: models.GeoPoint{Latitude: 25.60, Longitude: 85.10},
			wantRadius: 10,
		},
		{
			name: "volunteer with invalid location",
			caller: models.Caller{
				Role: models.RoleVolunteer, UserID: userID,
				Location: &models.GeoPoint{Latitude: 120, Longitude: 85.4},
			},
			volunteer: profile,
			wantErr:   models.ErrValidation,
		},
		{
			name:    "volunteer without profile",
			caller:  volunteerCaller(userID),
			wantErr: models.ErrAuthorization,
		},
		{
			name:    "unknown role",
			caller:  models.Caller{Role: "dispatcher", UserID: userID},
			wantErr: models.ErrAuthorization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ScopeFor(tt.caller, tt.filter, tt.volunteer, 10)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, scope.Kind)
			assert.Equal(t, 1, scope.Filter.Page)
			assert.Equal(t, models.DefaultPageSize, scope.Filter.PageSize)

			switch tt.wantKind {
			case ScopeReporter:
				require.NotNil(t, scope.Filter.ReporterID)
				assert.Equal(t, tt.caller.UserID, *scope.Filter.ReporterID)
			case ScopeVolunteer:
				assert.Nil(t, scope.Filter.ReporterID)
				assert.Equal(t, userID, scope.VolunteerID)
				assert.Equal(t, tt.wantCenter, scope.Center)
				assert.Equal(t, tt.wantRadius, scope.RadiusKm)
			}
		})
	}
}

func TestScopeFor_KeepsFilters(t *testing.T) {
	filter := models.IncidentFilter{
		Statuses: []models.IncidentStatus{models.IncidentPending},
		Severity: models.SeverityCritical,
		District: "Patna",
		Page:     3,
		PageSize: 50,
	}

	scope, err := ScopeFor(admin(), filter, nil, 10)

	require.NoError(t, err)
	assert.Equal(t, filter, scope.Filter)
}
