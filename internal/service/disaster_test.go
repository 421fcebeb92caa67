package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/repository/memory"
	"github.com/shenikar/rescue_dispatch/internal/webhook"
	webhook_mocks "github.com/shenikar/rescue_dispatch/internal/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestDisasterService(t *testing.T) (*disasterService, *memory.Store, *webhook_mocks.MockWebhookPublisher) {
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	publisher := webhook_mocks.NewMockWebhookPublisher(ctrl)
	svc := NewDisasterService(store.Disasters(), publisher, testLogger())
	return svc.(*disasterService), store, publisher
}

func declare(t *testing.T, svc *disasterService) *models.Disaster {
	t.Helper()
	disaster, err := svc.DeclareDisaster(context.Background(), admin(), &models.Disaster{Name: "Kosi floods", Kind: "flood", District: "Supaul"})
	require.NoError(t, err)
	return disaster
}

func TestDeclareDisaster(t *testing.T) {
	svc, _, _ := newTestDisasterService(t)

	disaster := declare(t, svc)

	assert.NotEqual(t, uuid.Nil, disaster.ID)
	assert.Equal(t, models.DisasterActive, disaster.Status)
	assert.Equal(t, models.SeverityHigh, disaster.Severity)

	_, err := svc.DeclareDisaster(context.Background(), admin(), &models.Disaster{Name: "  "})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.DeclareDisaster(context.Background(), admin(), &models.Disaster{Name: "x", Severity: "apocalyptic"})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.DeclareDisaster(context.Background(), volunteerCaller(uuid.New()), &models.Disaster{Name: "x"})
	assert.ErrorIs(t, err, models.ErrAuthorization)
}

func TestActivateTeam_NotifiesRoster(t *testing.T) {
	svc, store, publisher := newTestDisasterService(t)
	ctx := context.Background()
	disaster := declare(t, svc)

	leader, member := uuid.New(), uuid.New()
	teamID := uuid.New()
	store.PutTeam(models.Team{ID: teamID, Name: "NDRF 9", Type: models.TeamRescue, LeaderID: leader, MemberIDs: []uuid.UUID{member, leader}})

	publisher.EXPECT().Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, event webhook.Event) error {
			assert.Equal(t, webhook.EventTeamActivated, event.Kind)
			require.NotNil(t, event.DisasterID)
			assert.Equal(t, disaster.ID, *event.DisasterID)
			assert.Nil(t, event.IncidentID)
			// лидер не дублируется
			assert.Equal(t, []uuid.UUID{leader, member}, event.Recipients)
			return nil
		}).Times(1)

	activation, err := svc.ActivateTeam(ctx, admin(), disaster.ID, teamID, "Birpur embankment", "evacuation")

	require.NoError(t, err)
	assert.True(t, activation.Active())
	assert.Equal(t, "Birpur embankment", activation.AssignedArea)
}

func TestActivateTeam_RepeatActivationCreatesNewRecord(t *testing.T) {
	svc, store, publisher := newTestDisasterService(t)
	ctx := context.Background()
	disaster := declare(t, svc)
	teamID := uuid.New()
	store.PutTeam(models.Team{ID: teamID, Name: "Relief", LeaderID: uuid.New()})

	publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("redis down")).Times(2)

	first, err := svc.ActivateTeam(ctx, admin(), disaster.ID, teamID, "north", "")
	require.NoError(t, err)
	second, err := svc.ActivateTeam(ctx, admin(), disaster.ID, teamID, "south", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	activations, err := svc.ListActivations(ctx, admin(), disaster.ID)
	require.NoError(t, err)
	require.Len(t, activations, 2)
	assert.Equal(t, second.ID, activations[0].ID)
}

func TestActivateTeam_Errors(t *testing.T) {
	svc, store, publisher := newTestDisasterService(t)
	ctx := context.Background()
	disaster := declare(t, svc)
	teamID := uuid.New()
	store.PutTeam(models.Team{ID: teamID, Name: "Medical"})

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.ActivateTeam(ctx, volunteerCaller(uuid.New()), disaster.ID, teamID, "", "")
	assert.ErrorIs(t, err, models.ErrAuthorization)

	_, err = svc.ActivateTeam(ctx, admin(), uuid.New(), teamID, "", "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.ActivateTeam(ctx, admin(), disaster.ID, uuid.New(), "", "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// команда без состава активируется без уведомления
	_, err = svc.ActivateTeam(ctx, admin(), disaster.ID, teamID, "", "")
	assert.NoError(t, err)
}

func TestResolveDisaster_WithdrawsActivations(t *testing.T) {
	svc, store, publisher := newTestDisasterService(t)
	ctx := context.Background()
	disaster := declare(t, svc)
	teamID := uuid.New()
	store.PutTeam(models.Team{ID: teamID, Name: "Rescue", LeaderID: uuid.New()})
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	_, err := svc.ActivateTeam(ctx, admin(), disaster.ID, teamID, "", "")
	require.NoError(t, err)

	resolved, err := svc.ResolveDisaster(ctx, admin(), disaster.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DisasterResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)

	activations, err := svc.ListActivations(ctx, admin(), disaster.ID)
	require.NoError(t, err)
	require.Len(t, activations, 1)
	assert.False(t, activations[0].Active())

	_, err = svc.ActivateTeam(ctx, admin(), disaster.ID, teamID, "", "")
	assert.ErrorIs(t, err, models.ErrStateConflict)
	_, err = svc.ResolveDisaster(ctx, admin(), disaster.ID)
	assert.ErrorIs(t, err, models.ErrStateConflict)
}

func TestWithdrawActivation(t *testing.T) {
	svc, store, publisher := newTestDisasterService(t)
	ctx := context.Background()
	disaster := declare(t, svc)
	teamID := uuid.New()
	store.PutTeam(models.Team{ID: teamID, Name: "Rescue", LeaderID: uuid.New()})
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	activation, err := svc.ActivateTeam(ctx, admin(), disaster.ID, teamID, "", "")
	require.NoError(t, err)

	_, err = svc.WithdrawActivation(ctx, volunteerCaller(uuid.New()), activation.ID)
	assert.ErrorIs(t, err, models.ErrAuthorization)

	withdrawn, err := svc.WithdrawActivation(ctx, admin(), activation.ID)
	require.NoError(t, err)
	assert.False(t, withdrawn.Active())

	_, err = svc.WithdrawActivation(ctx, admin(), activation.ID)
	assert.ErrorIs(t, err, models.ErrStateConflict)
}
