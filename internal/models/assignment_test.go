package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition_VolunteerPath(t *testing.T) {
	assert.NoError(t, CheckTransition(AssignmentAssigned, AssignmentAccepted))
	assert.NoError(t, CheckTransition(AssignmentAccepted, AssignmentEnRoute))
	assert.NoError(t, CheckTransition(AssignmentEnRoute, AssignmentOnSite))
	assert.NoError(t, CheckTransition(AssignmentOnSite, AssignmentCompleted))
}

func TestCheckTransition_SkippingIsRejected(t *testing.T) {
	cases := []struct {
		from, to AssignmentStatus
	}{
		{AssignmentAccepted, AssignmentOnSite},
		{AssignmentAccepted, AssignmentCompleted},
		{AssignmentEnRoute, AssignmentCompleted},
		{AssignmentOnSite, AssignmentEnRoute},
		{AssignmentAssigned, AssignmentEnRoute},
	}
	for _, tc := range cases {
		err := CheckTransition(tc.from, tc.to)
		assert.ErrorIs(t, err, ErrStateConflict, "%s -> %s", tc.from, tc.to)
	}
}

func TestCheckTransition_DropFromAnyActive(t *testing.T) {
	for _, s := range ActiveAssignmentStatuses {
		assert.NoError(t, CheckTransition(s, AssignmentDropped))
	}
	assert.ErrorIs(t, CheckTransition(AssignmentCompleted, AssignmentDropped), ErrStateConflict)
	assert.ErrorIs(t, CheckTransition(AssignmentDropped, AssignmentAccepted), ErrStateConflict)
}

func TestIncidentStatusFor(t *testing.T) {
	inc := &Incident{}
	assert.Equal(t, IncidentAccepted, IncidentStatusFor(AssignmentAccepted, inc))
	assert.Equal(t, IncidentResolved, IncidentStatusFor(AssignmentCompleted, inc))
	assert.Equal(t, IncidentPending, IncidentStatusFor(AssignmentDropped, inc))

	now := time.Now()
	inc.AcknowledgedAt = &now
	assert.Equal(t, IncidentAcknowledged, IncidentStatusFor(AssignmentDropped, inc))

	// эскалация сохраняется после сброса назначения
	inc.EscalatedAt = &now
	assert.Equal(t, IncidentEscalated, IncidentStatusFor(AssignmentDropped, inc))
}

func TestAssignmentStamp(t *testing.T) {
	a := &Assignment{Status: AssignmentAccepted}
	at := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

	a.Stamp(AssignmentEnRoute, at)

	assert.Equal(t, AssignmentEnRoute, a.Status)
	assert.Equal(t, at, *a.EnRouteAt)
	assert.Equal(t, at, a.UpdatedAt)
}

func TestRankOrdering(t *testing.T) {
	assert.True(t, RankBeginner.Less(RankTrained))
	assert.True(t, RankExpert.Less(RankLeader))
	assert.False(t, RankLeader.Less(RankAdvanced))
	assert.False(t, Rank("chief").Valid())
}

func TestSeverityFanOut(t *testing.T) {
	assert.True(t, SeverityCritical.RequiresFanOut())
	assert.True(t, SeverityHigh.RequiresFanOut())
	assert.False(t, SeverityMedium.RequiresFanOut())
	assert.False(t, SeverityLow.RequiresFanOut())
}
