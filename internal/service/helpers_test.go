package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

type repos struct {
	db        *sql.DB
	uow       db.UnitOfWork
	teams     *repository.SQLiteTeamRepo
	inits     *repository.SQLiteInitiativeRepo
	metrics   *repository.SQLiteMetricsRepo
	snapshots *repository.SQLiteSnapshotRepo
}

func setupRepos(t *testing.T) *repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &repos{
		db:        database,
		uow:       testutil.NewTestUoW(database),
		teams:     repository.NewSQLiteTeamRepo(database),
		inits:     repository.NewSQLiteInitiativeRepo(database),
		metrics:   repository.NewSQLiteMetricsRepo(database),
		snapshots: repository.NewSQLiteSnapshotRepo(database),
	}
}

func (r *repos) planning(observers ...UseCaseObserver) PlanningService {
	return NewPlanningService(r.teams, r.inits, r.metrics, r.uow, observers...)
}

func testContext() planner.Context {
	return planner.Context{Year: testutil.TestYear, Scenario: domain.ScenarioEffectiveBIS, UseNet: true}
}

// seedPlan stores one team "Core" with 5 SDE-years of capacity, matching
// totals, and three initiatives in creation order:
// Platform (protected, 3), Search (2), Billing (1).
func seedPlan(t *testing.T, r *repos) (*domain.Team, []*domain.Initiative) {
	t.Helper()
	ctx := context.Background()

	team := testutil.NewTestTeam("Core")
	require.NoError(t, r.teams.Create(ctx, team))
	require.NoError(t, r.metrics.Upsert(ctx, team.ID, testutil.UniformCapacity(6, 5)))
	require.NoError(t, r.metrics.Upsert(ctx, domain.TotalsScope, testutil.UniformCapacity(6, 5)))

	inits := []*domain.Initiative{
		testutil.NewTestInitiative("Platform", testutil.Protected(), testutil.WithAssignment(team.ID, 3)),
		testutil.NewTestInitiative("Search", testutil.WithAssignment(team.ID, 2)),
		testutil.NewTestInitiative("Billing", testutil.WithAssignment(team.ID, 1)),
	}
	for _, init := range inits {
		require.NoError(t, r.inits.Create(ctx, init))
	}
	return team, inits
}

func titlesOf(list []*domain.Initiative) []string {
	out := make([]string, len(list))
	for i, init := range list {
		out[i] = init.Title
	}
	return out
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
