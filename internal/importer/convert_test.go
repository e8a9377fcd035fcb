package importer

import (
	"testing"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_ResolvesRefsAndDefaults(t *testing.T) {
	out, err := Convert(validSchema(), nil)
	require.NoError(t, err)

	require.Len(t, out.NewTeams, 2)
	pay, web := out.NewTeams[0], out.NewTeams[1]
	assert.Equal(t, "Payments", pay.Name)

	require.Len(t, out.Initiatives, 2)
	checkout := out.Initiatives[0]
	assert.Equal(t, domain.StatusBacklog, checkout.Status)
	assert.True(t, checkout.IsProtected)
	assert.Equal(t, 2026, checkout.PlanningYear)
	assert.Equal(t, []domain.Assignment{{TeamID: pay.ID, SDEYears: 4}}, checkout.Assignments)

	search := out.Initiatives[1]
	assert.Equal(t, domain.StatusInProgress, search.Status)
	require.NotNil(t, search.TargetDueDate)
	assert.Equal(t, "2026-09-30", search.TargetDueDate.Format("2006-01-02"))
	assert.Equal(t, web.ID, search.Assignments[0].TeamID)

	assert.Equal(t, 15.0, out.Metrics[domain.TotalsScope].EffectiveBIS.Net)
	assert.Equal(t, domain.CapacityFigure{Gross: 9, Net: 8}, out.Metrics[pay.ID].EffectiveBIS)
}

func TestConvert_ReusesExistingTeamsByName(t *testing.T) {
	existing := []*domain.Team{{ID: "existing-pay", Name: "payments"}}

	out, err := Convert(validSchema(), existing)
	require.NoError(t, err)

	require.Len(t, out.NewTeams, 1)
	assert.Equal(t, "Web", out.NewTeams[0].Name)
	assert.Equal(t, "existing-pay", out.Initiatives[0].Assignments[0].TeamID)
	assert.Contains(t, out.Metrics, "existing-pay")
}

func TestConvert_AssignmentByExistingTeamName(t *testing.T) {
	s := &ImportSchema{
		PlanningYear: 2026,
		Initiatives: []InitiativeImport{
			{Title: "Ads", Assignments: []AssignmentImport{{Team: "Growth", SDEYears: 1}}},
		},
	}
	out, err := Convert(s, []*domain.Team{{ID: "g", Name: "Growth"}})
	require.NoError(t, err)
	assert.Equal(t, "g", out.Initiatives[0].Assignments[0].TeamID)
}

func TestConvert_UnknownTeam(t *testing.T) {
	s := validSchema()
	s.Initiatives[0].Assignments[0].Team = "ghost"

	_, err := Convert(s, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown team "ghost"`)
}

func TestConvert_InitiativeYearOverridesDefault(t *testing.T) {
	s := validSchema()
	s.Initiatives[1].PlanningYear = 2027

	out, err := Convert(s, nil)
	require.NoError(t, err)
	assert.Equal(t, 2026, out.Initiatives[0].PlanningYear)
	assert.Equal(t, 2027, out.Initiatives[1].PlanningYear)
}
