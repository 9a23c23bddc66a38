package mockdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospector/internal/entity"
)

func TestLeadsReturnsRequestedCount(t *testing.T) {
	criteria := entity.SearchCriteria{Industry: "SaaS", Location: "Madrid", TargetPersona: "CTO"}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, k := range []int{1, 3, 10, 57} {
		leads := Leads(criteria, k, now)
		require.Len(t, leads, k)

		seen := map[string]bool{}
		for _, l := range leads {
			assert.NotEmpty(t, l.ID)
			assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
			seen[l.ID] = true
			assert.GreaterOrEqual(t, l.QualificationScore, 0)
			assert.LessOrEqual(t, l.QualificationScore, 100)
			assert.Equal(t, entity.StatusNew, l.Status)
			assert.Equal(t, "CTO", l.Role)
			require.NotNil(t, l.Coordinates)
		}
	}
}

func TestLeadsDefaults(t *testing.T) {
	now := time.Now()

	assert.Len(t, Leads(entity.SearchCriteria{}, 0, now), DefaultLeadCount)
	assert.Len(t, Leads(entity.SearchCriteria{LeadCount: 7}, 0, now), 7)

	l := Leads(entity.SearchCriteria{}, 1, now)[0]
	assert.Equal(t, "Decision Maker", l.Role)
	assert.Equal(t, "General Corp 1", l.Company)
}

func TestLeadsDeterministic(t *testing.T) {
	criteria := entity.SearchCriteria{Industry: "Retail", Location: "Lima"}
	now := time.Unix(1700000000, 0)

	assert.Equal(t, Leads(criteria, 4, now), Leads(criteria, 4, now))
}

func TestCoordinatesInRange(t *testing.T) {
	for _, seed := range []string{"", "a", "mock-0", "MadridAcme Inc", "a very long seed with spaces and ñ"} {
		xy := Coordinates(seed)
		assert.GreaterOrEqual(t, xy.X, 5.0, seed)
		assert.Less(t, xy.X, 95.0, seed)
		assert.GreaterOrEqual(t, xy.Y, 5.0, seed)
		assert.Less(t, xy.Y, 95.0, seed)
		assert.Equal(t, xy, Coordinates(seed))
	}
}

func TestDeepDiveDoesNotMutateInput(t *testing.T) {
	l := &entity.Lead{ID: "l1", Company: "Acme"}
	patch := DeepDive(l)

	require.NotNil(t, patch.IsDeepDived)
	assert.True(t, *patch.IsDeepDived)
	assert.NotEmpty(t, patch.TechStack)
	assert.False(t, l.IsDeepDived)
	assert.Empty(t, l.TechStack)

	patch.Apply(l)
	assert.True(t, l.IsDeepDived)
	assert.Equal(t, "Simulated offline deep dive.", l.AuditObservation)
}

func TestCRMStatusIsKnown(t *testing.T) {
	status := CRMStatus(&entity.Lead{ID: "x"}, time.Now())
	assert.Contains(t, crmStatuses, status)
}

func TestSequenceHasThreeSteps(t *testing.T) {
	steps := Sequence(&entity.Lead{ID: "l1", Name: "Ana Ruiz", Company: "Acme"})
	require.Len(t, steps, 3)
	assert.Equal(t, []int{1, 3, 7}, []int{steps[0].Day, steps[1].Day, steps[2].Day})
	assert.Contains(t, steps[0].Body, "Hi Ana")
}

func TestNilLeadDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		patch := DeepDive(nil)
		assert.NotEmpty(t, patch.TechStack)
		assert.Equal(t, "ANALYTICAL", Battlecard(nil).PersonalityType)
		assert.Len(t, Sequence(nil), 3)
		assert.Contains(t, crmStatuses, CRMStatus(nil, time.Now()))
	})
}
