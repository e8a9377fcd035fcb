package planner

import (
	"testing"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionFixture() ([]*domain.Initiative, []*domain.Team, domain.CapacityMetrics) {
	initiatives := []*domain.Initiative{
		makeInit("A", true, on("t1", 4)),
		makeInit("B", false, on("t1", 6)),
		makeInit("C", false, on("t2", 3)),
	}
	next := makeInit("N", false, on("t1", 1))
	next.PlanningYear = testYear + 1
	initiatives = append(initiatives, next)

	teams := []*domain.Team{{ID: "t1", Name: "One"}, {ID: "t2", Name: "Two"}}
	metrics := teamMetrics(map[string]float64{"t1": 7, "t2": 3})
	return initiatives, teams, metrics
}

func TestCompute_SelectsYearAndClassifies(t *testing.T) {
	initiatives, teams, metrics := sessionFixture()

	res := Compute(initiatives, teams, metrics, testCtx)

	assert.Equal(t, 10.0, res.Limit)
	assert.Equal(t, []string{"A", "B", "C"}, ids(res.Initiatives))
	assert.Equal(t, []domain.Classification{domain.ClassATL, domain.ClassATL, domain.ClassBTL},
		[]domain.Classification{res.Initiatives[0].Classification, res.Initiatives[1].Classification, res.Initiatives[2].Classification})
	assert.Equal(t, domain.ClassUnset, initiatives[3].Classification, "other years are invisible")

	require.Len(t, res.TeamLoad.Rows, 2)
	assert.Equal(t, 10.0, res.TeamLoad.Rows[0].AssignedATLSDE)
	assert.Equal(t, domain.LoadOverloaded, res.TeamLoad.Rows[0].Status)
	assert.Equal(t, 0.0, res.TeamLoad.Rows[1].AssignedATLSDE, "BTL work does not load a team")
	assert.Equal(t, 10.0, res.ATLTotal())
}

func TestCompute_ReportsCompleted(t *testing.T) {
	initiatives, teams, metrics := sessionFixture()
	initiatives[1].Status = domain.StatusCompleted

	res := Compute(initiatives, teams, metrics, testCtx)

	assert.Equal(t, []string{"A", "C"}, ids(res.Initiatives))
	assert.Equal(t, []string{"B"}, ids(res.Completed))
	assert.Equal(t, 7.0, res.Initiatives[1].CumulativeSDE)
}

func TestSession_AssignmentRecomputes(t *testing.T) {
	initiatives, teams, metrics := sessionFixture()
	s := NewSession(initiatives, teams, metrics, testCtx)
	require.Equal(t, domain.ClassBTL, s.Result().Initiatives[2].Classification)

	assert.True(t, s.SetAssignment("B", "t1", "0"))

	res := s.Result()
	assert.Equal(t, []string{"A", "B", "C"}, ids(res.Initiatives))
	assert.Equal(t, domain.ClassATL, res.Initiatives[2].Classification)
	assert.Equal(t, 7.0, res.Initiatives[2].CumulativeSDE)

	assert.False(t, s.SetAssignment("missing", "t1", "3"))
}

func TestSession_DropRecomputes(t *testing.T) {
	initiatives, teams, metrics := sessionFixture()
	s := NewSession(initiatives, teams, metrics, testCtx)

	require.Nil(t, s.BeginMove("C"))
	assert.Equal(t, Dragging, s.DragState())
	require.Nil(t, s.AttemptDrop("B", DropBefore))

	res := s.Result()
	assert.Equal(t, []string{"A", "C", "B"}, ids(res.Initiatives))
	assert.Equal(t, domain.ClassATL, res.Initiatives[1].Classification)
	assert.Equal(t, domain.ClassBTL, res.Initiatives[2].Classification)
	assert.Equal(t, []string{"A", "C", "B"}, ids(s.YearOrder()))
	assert.Len(t, s.Initiatives(), 4, "other years are kept")
}

func TestSession_RejectedDropKeepsResult(t *testing.T) {
	initiatives, teams, metrics := sessionFixture()
	s := NewSession(initiatives, teams, metrics, testCtx)

	require.Nil(t, s.BeginMove("B"))
	rej := s.AttemptDrop("A", DropBefore)

	require.NotNil(t, rej)
	assert.Equal(t, RejectProtectedTarget, rej.Reason)
	assert.Equal(t, []string{"A", "B", "C"}, ids(s.YearOrder()))
}

func TestSession_ContextSwitch(t *testing.T) {
	initiatives, teams, metrics := sessionFixture()
	s := NewSession(initiatives, teams, metrics, testCtx)

	s.SetContext(Context{Year: testYear + 1, Scenario: domain.ScenarioFundedHC})

	assert.Equal(t, []string{"N"}, ids(s.Result().Initiatives))
	assert.Equal(t, []string{"N"}, ids(s.YearOrder()))
}

func TestSession_ContextSwitchCancelsDrag(t *testing.T) {
	initiatives, teams, metrics := sessionFixture()
	s := NewSession(initiatives, teams, metrics, testCtx)
	require.Nil(t, s.BeginMove("C"))

	s.SetContext(Context{Year: testYear + 1, Scenario: domain.ScenarioEffectiveBIS, UseNet: true})
	assert.Equal(t, Idle, s.DragState())
	assert.Empty(t, s.DraggingID())

	rej := s.AttemptDrop("N", DropBefore)
	require.NotNil(t, rej)
	assert.Equal(t, RejectNotDragging, rej.Reason)

	assert.ElementsMatch(t, []string{"A", "B", "C", "N"}, ids(s.Initiatives()))
	assert.Equal(t, []string{"N"}, ids(s.YearOrder()))

	s.SetContext(testCtx)
	assert.Equal(t, []string{"A", "B", "C"}, ids(s.YearOrder()))
	assert.InDelta(t, 13.0, s.Result().Initiatives[2].CumulativeSDE, 1e-9)
}

func TestSession_DropKeepsOtherYears(t *testing.T) {
	initiatives, teams, metrics := sessionFixture()
	s := NewSession(initiatives, teams, metrics, testCtx)

	require.Nil(t, s.BeginMove("C"))
	require.Nil(t, s.AttemptDrop("B", DropBefore))

	assert.Len(t, s.Initiatives(), 4)
	assert.ElementsMatch(t, []string{"A", "B", "C", "N"}, ids(s.Initiatives()))
	assert.Equal(t, []string{"A", "C", "B"}, ids(s.YearOrder()))
}

func TestSession_CommitIsIdempotent(t *testing.T) {
	initiatives, teams, metrics := sessionFixture()
	initiatives[2].Status = domain.StatusCommitted
	s := NewSession(initiatives, teams, metrics, testCtx)

	first := s.Commit()
	assert.Equal(t, 3, first.Updated())
	assert.Equal(t, domain.StatusCommitted, initiatives[0].Status)
	assert.Equal(t, domain.StatusBacklog, initiatives[2].Status)

	second := s.Commit()
	assert.Zero(t, second.Updated())
	assert.Equal(t, domain.StatusBacklog, initiatives[3].Status, "other year untouched")
}
