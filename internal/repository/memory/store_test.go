package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/geo"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVolunteer(t *testing.T, s *Store, lat, lng float64) *models.Volunteer {
	t.Helper()
	v := &models.Volunteer{ID: uuid.New(), Name: "v", Latitude: lat, Longitude: lng, IsAvailable: true, IsVerified: true, Rank: models.RankTrained}
	require.NoError(t, s.Volunteers().Upsert(context.Background(), v))
	return v
}

func newIncident(t *testing.T, s *Store, status models.IncidentStatus) *models.Incident {
	t.Helper()
	i := &models.Incident{TypeCode: "panic", VictimPhone: "100", Latitude: 25.6, Longitude: 85.1, Severity: models.SeverityCritical, Status: status}
	require.NoError(t, s.Incidents().Create(context.Background(), i))
	return i
}

func TestIssueTypesSeeded(t *testing.T) {
	s := NewStore()

	panicType, err := s.Incidents().GetIssueType(context.Background(), "panic")
	require.NoError(t, err)
	assert.False(t, panicType.RequiresAuth)
	assert.Equal(t, models.SeverityCritical, panicType.DefaultSeverity)

	fire, err := s.Incidents().GetIssueType(context.Background(), "fire")
	require.NoError(t, err)
	assert.True(t, fire.RequiresAuth)

	_, err = s.Incidents().GetIssueType(context.Background(), "meteor")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAssignmentCreate_CompareAndSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	v1 := newVolunteer(t, s, 25.6, 85.1)
	v2 := newVolunteer(t, s, 25.6, 85.1)
	incident := newIncident(t, s, models.IncidentPending)

	first := &models.Assignment{IncidentID: incident.ID, VolunteerID: v1.ID, Status: models.AssignmentAccepted}
	require.NoError(t, s.Assignments().Create(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotNil(t, first.AcceptedAt)

	err := s.Assignments().Create(ctx, &models.Assignment{IncidentID: incident.ID, VolunteerID: v2.ID, Status: models.AssignmentAccepted})
	assert.ErrorIs(t, err, models.ErrStateConflict)

	err = s.Assignments().Create(ctx, &models.Assignment{IncidentID: incident.ID, VolunteerID: v2.ID, Status: models.AssignmentCompleted})
	assert.ErrorIs(t, err, models.ErrValidation)

	err = s.Assignments().Create(ctx, &models.Assignment{IncidentID: newIncident(t, s, models.IncidentPending).ID, VolunteerID: uuid.New(), Status: models.AssignmentAccepted})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAssignmentTransition_StaleFromIsConflict(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	v := newVolunteer(t, s, 25.6, 85.1)
	incident := newIncident(t, s, models.IncidentPending)
	a := &models.Assignment{IncidentID: incident.ID, VolunteerID: v.ID, Status: models.AssignmentAccepted}
	require.NoError(t, s.Assignments().Create(ctx, a))

	_, err := s.Assignments().Transition(ctx, a.ID, models.AssignmentAccepted, models.AssignmentEnRoute, "")
	require.NoError(t, err)

	// второй вызов с устаревшим from
	_, err = s.Assignments().Transition(ctx, a.ID, models.AssignmentAccepted, models.AssignmentDropped, "late")
	assert.ErrorIs(t, err, models.ErrStateConflict)

	current, err := s.Assignments().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentEnRoute, current.Status)
	assert.Empty(t, current.DropReason)
}

func TestFindCandidates_BoxAndLimit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	closest := newVolunteer(t, s, 25.601, 85.1)
	second := newVolunteer(t, s, 25.62, 85.1)
	newVolunteer(t, s, 25.65, 85.1)
	newVolunteer(t, s, 27.0, 85.1)

	box := geo.NewBoundingBox(25.6, 85.1, 10)
	candidates, err := s.Volunteers().FindCandidates(ctx, box, 25.6, 85.1, 2)

	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, closest.ID, candidates[0].ID)
	assert.Equal(t, second.ID, candidates[1].ID)
}

func TestVolunteerUpsert_KeepsCounters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	v := newVolunteer(t, s, 25.6, 85.1)
	incident := newIncident(t, s, models.IncidentPending)
	a := &models.Assignment{IncidentID: incident.ID, VolunteerID: v.ID, Status: models.AssignmentOnSite}
	require.NoError(t, s.Assignments().Create(ctx, a))
	_, err := s.Assignments().Transition(ctx, a.ID, models.AssignmentOnSite, models.AssignmentCompleted, "")
	require.NoError(t, err)

	require.NoError(t, s.Volunteers().Upsert(ctx, &models.Volunteer{ID: v.ID, Name: "renamed", Latitude: 25.6, Longitude: 85.1}))

	stored, err := s.Volunteers().GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Name)
	assert.Equal(t, 1, stored.ResolvedCount)
	assert.Equal(t, []string{}, stored.Specializations)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	incident := newIncident(t, s, models.IncidentPending)

	fetched, err := s.Incidents().GetByID(ctx, incident.ID)
	require.NoError(t, err)
	fetched.Status = models.IncidentResolved

	again, err := s.Incidents().GetByID(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IncidentPending, again.Status)
}

func TestListNewestFirstWithPagination(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	var created []*models.Incident
	for i := 0; i < 5; i++ {
		created = append(created, newIncident(t, s, models.IncidentPending))
	}

	page, err := s.Incidents().List(ctx, models.IncidentFilter{Page: 2, PageSize: 2})

	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, created[2].ID, page[0].ID)
	assert.Equal(t, created[1].ID, page[1].ID)
}

func TestCancelRacesTransition(t *testing.T) {
	for round := 0; round < 20; round++ {
		s := NewStore()
		ctx := context.Background()
		v := newVolunteer(t, s, 25.6, 85.1)
		incident := newIncident(t, s, models.IncidentPending)
		a := &models.Assignment{IncidentID: incident.ID, VolunteerID: v.ID, Status: models.AssignmentAccepted}
		require.NoError(t, s.Assignments().Create(ctx, a))

		var wg sync.WaitGroup
		var cancelErr, moveErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancelErr = s.Incidents().Cancel(ctx, incident.ID)
		}()
		go func() {
			defer wg.Done()
			_, moveErr = s.Assignments().Transition(ctx, a.ID, models.AssignmentAccepted, models.AssignmentEnRoute, "")
		}()
		wg.Wait()

		require.NoError(t, cancelErr)
		if moveErr != nil {
			assert.True(t, errors.Is(moveErr, models.ErrStateConflict), moveErr)
		}

		stored, err := s.Incidents().GetByID(ctx, incident.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IncidentCancelled, stored.Status)
		current, err := s.Assignments().GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AssignmentCancelled, current.Status)
	}
}

func TestLoadTeams(t *testing.T) {
	s := NewStore()
	leader := uuid.New()
	teamID := uuid.New()
	input := `[{"id":"` + teamID.String() + `","name":"NDRF 9","type":"rescue","district":"Supaul","leader_id":"` + leader.String() + `","member_ids":[]}]`

	n, err := s.LoadTeams(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	team, err := s.Disasters().GetTeam(context.Background(), teamID)
	require.NoError(t, err)
	assert.Equal(t, "NDRF 9", team.Name)
	assert.Equal(t, leader, team.LeaderID)
}

func TestLoadTeams_Invalid(t *testing.T) {
	s := NewStore()

	_, err := s.LoadTeams(strings.NewReader(`{"name":"not an array"}`))
	assert.Error(t, err)

	_, err = s.LoadTeams(strings.NewReader(`[{"name":""}]`))
	assert.ErrorIs(t, err, models.ErrValidation)
}
