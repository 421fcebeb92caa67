package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/geo"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/repository/memory"
	"github.com/shenikar/rescue_dispatch/internal/service/mocks"
	"github.com/shenikar/rescue_dispatch/internal/webhook"
	webhook_mocks "github.com/shenikar/rescue_dispatch/internal/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestMatcher собирает подбор поверх хранилища в памяти и мока шлюза уведомлений
func newTestMatcher(t *testing.T) (*matcher, *memory.Store, *webhook_mocks.MockWebhookPublisher) {
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	publisher := webhook_mocks.NewMockWebhookPublisher(ctrl)
	m := NewMatcher(store.Volunteers(), store.Incidents(), publisher, testLogger(), testConfig())
	return m.(*matcher), store, publisher
}

func seedVolunteer(t *testing.T, store *memory.Store, lat, lng float64, available, verified bool) *models.Volunteer {
	t.Helper()
	v := &models.Volunteer{
		ID:              uuid.New(),
		Name:            "volunteer",
		Latitude:        lat,
		Longitude:       lng,
		ServiceRadiusKm: 10,
		IsAvailable:     available,
		IsVerified:      verified,
		Rank:            models.RankTrained,
	}
	require.NoError(t, store.Volunteers().Upsert(context.Background(), v))
	return v
}

func TestFindEligibleVolunteers_RadiusAndFlags(t *testing.T) {
	m, store, _ := newTestMatcher(t)

	// ~5 км
	near := seedVolunteer(t, store, 25.645, 85.10, true, true)
	// ~20 км
	seedVolunteer(t, store, 25.78, 85.10, true, true)
	// ~2 км, недоступен
	seedVolunteer(t, store, 25.618, 85.10, false, true)
	// ~1 км, не проверен
	seedVolunteer(t, store, 25.61, 85.10, true, false)
	// в прямоугольнике, но ~10.5 км
	seedVolunteer(t, store, 25.67, 85.17, true, true)

	matched, err := m.FindEligibleVolunteers(context.Background(), 25.60, 85.10, 10, 0)

	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, near.ID, matched[0].Volunteer.ID)
	assert.InDelta(t, 5.0, matched[0].DistanceKm, 0.1)
}

func TestFindEligibleVolunteers_NearestFirst(t *testing.T) {
	m, store, _ := newTestMatcher(t)

	far := seedVolunteer(t, store, 25.66, 85.10, true, true)
	closest := seedVolunteer(t, store, 25.605, 85.10, true, true)
	middle := seedVolunteer(t, store, 25.63, 85.10, true, true)

	matched, err := m.FindEligibleVolunteers(context.Background(), 25.60, 85.10, 10, 0)

	require.NoError(t, err)
	require.Len(t, matched, 3)
	assert.Equal(t, closest.ID, matched[0].Volunteer.ID)
	assert.Equal(t, middle.ID, matched[1].Volunteer.ID)
	assert.Equal(t, far.ID, matched[2].Volunteer.ID)
}

func TestFindEligibleVolunteers_Validation(t *testing.T) {
	m, _, _ := newTestMatcher(t)

	tests := []struct {
		name     string
		lat, lng float64
		radius   float64
	}{
		{"latitude out of range", 91, 85.10, 10},
		{"longitude out of range", 25.60, 200, 10},
		{"zero radius", 25.60, 85.10, 0},
		{"negative radius", 25.60, 85.10, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.FindEligibleVolunteers(context.Background(), tt.lat, tt.lng, tt.radius, 10)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestFindEligibleVolunteers_CandidatePoolIsCapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	volunteers := mocks.NewMockVolunteerRepository(ctrl)
	m := NewMatcher(volunteers, mocks.NewMockIncidentRepository(ctrl), webhook_mocks.NewMockWebhookPublisher(ctrl), testLogger(), testConfig())

	stale := &models.Volunteer{ID: uuid.New(), Latitude: 25.601, Longitude: 85.10, IsAvailable: false, IsVerified: true}
	fresh := &models.Volunteer{ID: uuid.New(), Latitude: 25.602, Longitude: 85.10, IsAvailable: true, IsVerified: true}

	volunteers.EXPECT().
		FindCandidates(gomock.Any(), geo.NewBoundingBox(25.60, 85.10, 10), 25.60, 85.10, 30).
		Return([]*models.Volunteer{stale, fresh}, nil).Times(1)

	matched, err := m.FindEligibleVolunteers(context.Background(), 25.60, 85.10, 10, 0)

	require.NoError(t, err)
	// реплика вернула устаревший флаг, кандидат отсеивается повторной проверкой
	require.Len(t, matched, 1)
	assert.Equal(t, fresh.ID, matched[0].Volunteer.ID)
}

func TestFanOut_PublishesAndRecordsMatches(t *testing.T) {
	m, store, publisher := newTestMatcher(t)
	ctx := context.Background()

	a := seedVolunteer(t, store, 25.645, 85.10, true, true)
	seedVolunteer(t, store, 25.78, 85.10, true, true)
	seedVolunteer(t, store, 25.618, 85.10, false, true)
	incident := seedIncident(t, store, 25.60, 85.10, models.IncidentPending)

	publisher.EXPECT().Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.Event) error {
			assert.Equal(t, webhook.EventIncidentMatched, event.Kind)
			require.NotNil(t, event.IncidentID)
			assert.Equal(t, incident.ID, *event.IncidentID)
			assert.Equal(t, []uuid.UUID{a.ID}, event.Recipients)
			assert.Equal(t, models.SeverityCritical, event.Severity)
			return nil
		}).Times(1)

	notified, err := m.FanOut(ctx, incident, 10, webhook.EventIncidentMatched)

	require.NoError(t, err)
	assert.Equal(t, 1, notified)
	records := store.Matches()
	require.Len(t, records, 1)
	assert.Equal(t, a.ID, records[0].VolunteerID)
	assert.Equal(t, string(webhook.EventIncidentMatched), records[0].Trigger)
}

func TestFanOut_PublishFailureIsNotAnError(t *testing.T) {
	m, store, publisher := newTestMatcher(t)
	ctx := context.Background()

	seedVolunteer(t, store, 25.61, 85.10, true, true)
	incident := seedIncident(t, store, 25.60, 85.10, models.IncidentPending)

	publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("redis down")).Times(1)

	notified, err := m.FanOut(ctx, incident, 10, webhook.EventIncidentMatched)

	require.NoError(t, err)
	assert.Equal(t, 1, notified)
	assert.Len(t, store.Matches(), 1)
}

func TestFanOut_NoVolunteersSkipsPublish(t *testing.T) {
	m, store, publisher := newTestMatcher(t)
	incident := seedIncident(t, store, 25.60, 85.10, models.IncidentPending)

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	notified, err := m.FanOut(context.Background(), incident, 10, webhook.EventIncidentMatched)

	require.NoError(t, err)
	assert.Equal(t, 0, notified)
}

func TestFanOut_BelowThreshold(t *testing.T) {
	m, store, publisher := newTestMatcher(t)
	seedVolunteer(t, store, 25.61, 85.10, true, true)
	incident := &models.Incident{ID: uuid.New(), Latitude: 25.60, Longitude: 85.10, Severity: models.SeverityMedium}

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	notified, err := m.FanOut(context.Background(), incident, 10, webhook.EventIncidentMatched)

	require.NoError(t, err)
	assert.Equal(t, 0, notified)
	assert.Empty(t, store.Matches())
}

func TestFanOut_EscalationRadiusReachesFurther(t *testing.T) {
	m, store, publisher := newTestMatcher(t)
	ctx := context.Background()

	seedVolunteer(t, store, 25.60+0.11, 85.10, true, true) // ~12 км
	incident := seedIncident(t, store, 25.60, 85.10, models.IncidentPending)

	publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	notified, err := m.FanOut(ctx, incident, 10, webhook.EventIncidentMatched)
	require.NoError(t, err)
	assert.Equal(t, 0, notified)

	notified, err = m.FanOut(ctx, incident, testConfig().EscalationRadiusKm(), webhook.EventIncidentEscalated)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
}
