package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_ClassifiesAndAggregates(t *testing.T) {
	r := setupRepos(t)
	team, _ := seedPlan(t, r)
	ctx := context.Background()

	resp, err := r.planning().Plan(ctx, testContext())
	require.NoError(t, err)

	res := resp.Result
	assert.Equal(t, 5.0, res.Limit)
	assert.Equal(t, []string{"Platform", "Search", "Billing"}, titlesOf(res.Initiatives))
	assert.Equal(t, domain.ClassATL, res.Initiatives[0].Classification)
	assert.Equal(t, domain.ClassATL, res.Initiatives[1].Classification)
	assert.Equal(t, domain.ClassBTL, res.Initiatives[2].Classification)
	assert.Equal(t, 6.0, res.Initiatives[2].CumulativeSDE)

	require.Len(t, res.TeamLoad.Rows, 1)
	row := res.TeamLoad.Rows[0]
	assert.Equal(t, team.ID, row.TeamID)
	assert.Equal(t, 5.0, row.AssignedATLSDE)
	assert.Equal(t, 0.0, row.RemainingCapacity)
	assert.Equal(t, domain.LoadNearLimit, row.Status)
	assert.Empty(t, resp.Warnings)
}

func TestPlan_GrossRaisesLimit(t *testing.T) {
	r := setupRepos(t)
	seedPlan(t, r)

	pctx := testContext()
	pctx.UseNet = false
	resp, err := r.planning().Plan(context.Background(), pctx)
	require.NoError(t, err)

	assert.Equal(t, 6.0, resp.Result.Limit)
	assert.Len(t, planner.ATL(resp.Result.Initiatives), 3)
}

func TestPlan_InvalidContext(t *testing.T) {
	r := setupRepos(t)
	_, err := r.planning().Plan(context.Background(), planner.Context{Year: 0, Scenario: domain.ScenarioFundedHC})
	require.Error(t, err)
}

func TestPlan_WarnsWhenNetExceedsGross(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	require.NoError(t, r.metrics.Upsert(ctx, domain.TotalsScope, testutil.UniformCapacity(4, 5)))

	resp, err := r.planning().Plan(ctx, testContext())
	require.NoError(t, err)
	assert.Len(t, resp.Warnings, len(domain.Scenarios))
}

func TestSetAssignment_RecomputesAndPersists(t *testing.T) {
	r := setupRepos(t)
	team, inits := seedPlan(t, r)
	ctx := context.Background()
	search := inits[1]

	resp, err := r.planning().SetAssignment(ctx, AssignRequest{
		Context:      testContext(),
		InitiativeID: search.ID,
		TeamRef:      "core",
		Value:        "0.5",
	})
	require.NoError(t, err)
	assert.Len(t, planner.BTL(resp.Result.Initiatives), 0, "3 + 0.5 + 1 fits under 5")

	stored, err := r.inits.GetByID(ctx, search.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, stored.AssignmentFor(team.ID))
}

func TestSetAssignment_InvalidValueDeletes(t *testing.T) {
	r := setupRepos(t)
	team, inits := seedPlan(t, r)
	ctx := context.Background()

	for _, raw := range []string{"abc", "-1", "0", ""} {
		_, err := r.planning().SetAssignment(ctx, AssignRequest{
			Context:      testContext(),
			InitiativeID: inits[2].ID,
			TeamRef:      team.ID,
			Value:        raw,
		})
		require.NoError(t, err, raw)

		stored, err := r.inits.GetByID(ctx, inits[2].ID)
		require.NoError(t, err)
		assert.False(t, stored.HasAssignment(team.ID), raw)
	}
}

func TestSetAssignment_UnknownTeam(t *testing.T) {
	r := setupRepos(t)
	_, inits := seedPlan(t, r)

	_, err := r.planning().SetAssignment(context.Background(), AssignRequest{
		Context:      testContext(),
		InitiativeID: inits[0].ID,
		TeamRef:      "Nobody",
		Value:        "1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestSetAssignment_ClearsStaleTeam(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	init := testutil.NewTestInitiative("Orphaned", testutil.WithAssignment("gone-team", 2))
	require.NoError(t, r.inits.Create(ctx, init))

	_, err := r.planning().SetAssignment(ctx, AssignRequest{
		Context:      testContext(),
		InitiativeID: init.ID,
		TeamRef:      "gone-team",
		Value:        "",
	})
	require.NoError(t, err)

	stored, err := r.inits.GetByID(ctx, init.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Assignments)
}

func TestMove_PersistsOrderAndReclassifies(t *testing.T) {
	r := setupRepos(t)
	_, inits := seedPlan(t, r)
	ctx := context.Background()

	resp, err := r.planning().Move(ctx, MoveRequest{
		Context:   testContext(),
		DraggedID: inits[2].ID,
		TargetID:  inits[1].ID,
		Position:  planner.DropBefore,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Platform", "Billing", "Search"}, titlesOf(resp.Result.Initiatives))
	assert.Equal(t, domain.ClassATL, resp.Result.Initiatives[1].Classification)
	assert.Equal(t, domain.ClassBTL, resp.Result.Initiatives[2].Classification)

	stored, err := r.inits.ListByYear(ctx, testutil.TestYear)
	require.NoError(t, err)
	assert.Equal(t, []string{"Platform", "Billing", "Search"}, titlesOf(stored))
}

func TestMove_RejectionLeavesOrderAndIsObserved(t *testing.T) {
	r := setupRepos(t)
	_, inits := seedPlan(t, r)
	ctx := context.Background()
	obs := &recordingObserver{}

	_, err := r.planning(obs).Move(ctx, MoveRequest{
		Context:   testContext(),
		DraggedID: inits[2].ID,
		TargetID:  inits[1].ID,
		Position:  planner.DropBefore,
	})
	require.NoError(t, err)

	_, err = r.planning(obs).Move(ctx, MoveRequest{
		Context:   testContext(),
		DraggedID: inits[1].ID,
		TargetID:  inits[0].ID,
		Position:  planner.DropAfter,
	})
	var rej *planner.MoveRejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, planner.RejectProtectedTarget, rej.Reason)

	stored, err := r.inits.ListByYear(ctx, testutil.TestYear)
	require.NoError(t, err)
	assert.Equal(t, []string{"Platform", "Billing", "Search"}, titlesOf(stored))

	event := obs.last()
	assert.Equal(t, "move", event.Name)
	assert.False(t, event.Success)
	assert.Equal(t, string(planner.RejectProtectedTarget), event.Fields[FieldRejectReason])
}

func TestSaveOrder_ValidatesMembership(t *testing.T) {
	r := setupRepos(t)
	_, inits := seedPlan(t, r)
	ctx := context.Background()
	svc := r.planning()

	err := svc.SaveOrder(ctx, testutil.TestYear, []string{inits[0].ID, inits[1].ID})
	require.Error(t, err)

	err = svc.SaveOrder(ctx, testutil.TestYear, []string{inits[0].ID, inits[1].ID, "bogus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	err = svc.SaveOrder(ctx, testutil.TestYear, []string{inits[0].ID, inits[2].ID, inits[1].ID})
	require.NoError(t, err)
	stored, err := r.inits.ListByYear(ctx, testutil.TestYear)
	require.NoError(t, err)
	assert.Equal(t, []string{"Platform", "Billing", "Search"}, titlesOf(stored))
}

func TestCommit_TransitionsAndIsIdempotent(t *testing.T) {
	r := setupRepos(t)
	_, inits := seedPlan(t, r)
	ctx := context.Background()
	require.NoError(t, r.inits.UpdateStatus(ctx, inits[2].ID, domain.StatusInProgress, domain.ClassUnset))
	svc := r.planning()

	resp, err := svc.Commit(ctx, testContext())
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Commit.Updated())

	want := map[string]domain.InitiativeStatus{
		inits[0].ID: domain.StatusCommitted,
		inits[1].ID: domain.StatusCommitted,
		inits[2].ID: domain.StatusBacklog,
	}
	for id, status := range want {
		stored, err := r.inits.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, stored.Status, stored.Title)
	}
	billing, err := r.inits.GetByID(ctx, inits[2].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassBTL, billing.CommittedAs)

	again, err := svc.Commit(ctx, testContext())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Commit.Updated())
}

func TestCommit_LeavesCompletedAlone(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	done := testutil.NewTestInitiative("Shipped", testutil.WithStatus(domain.StatusCompleted))
	require.NoError(t, r.inits.Create(ctx, done))

	resp, err := r.planning().Commit(ctx, testContext())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Commit.Updated())

	stored, err := r.inits.GetByID(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestCommit_RollsBackOnWriteFailure(t *testing.T) {
	r := setupRepos(t)
	_, inits := seedPlan(t, r)
	ctx := context.Background()

	failUoW := &testutil.FailOnNthExecUoW{DB: r.db, FailOn: 2, Err: errors.New("injected status write failure")}
	svc := NewPlanningService(r.teams, r.inits, r.metrics, failUoW)

	_, err := svc.Commit(ctx, testContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected status write failure")

	stored, err := r.inits.GetByID(ctx, inits[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBacklog, stored.Status, "first write must be rolled back")
	assert.Equal(t, domain.ClassUnset, stored.CommittedAs)
}

func TestLoadSession_MatchesPlan(t *testing.T) {
	r := setupRepos(t)
	seedPlan(t, r)
	ctx := context.Background()

	session, err := r.planning().LoadSession(ctx, testContext())
	require.NoError(t, err)
	assert.Equal(t, []string{"Platform", "Search", "Billing"}, titlesOf(session.YearOrder()))
	assert.Len(t, planner.BTL(session.Result().Initiatives), 1)
}
