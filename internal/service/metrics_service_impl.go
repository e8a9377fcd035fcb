package service

import (
	"context"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/go-faster/errors"
)

type metricsService struct {
	metrics  repository.MetricsRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewMetricsService(metrics repository.MetricsRepo, uow db.UnitOfWork, observers ...UseCaseObserver) MetricsService {
	return &metricsService{metrics: metrics, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *metricsService) Get(ctx context.Context) (domain.CapacityMetrics, error) {
	return s.metrics.Get(ctx)
}

func (s *metricsService) SetFigure(ctx context.Context, scope string, scenario domain.Scenario, fig domain.CapacityFigure) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "metrics_set", startedAt, err, map[string]any{"scope": scope, "scenario": string(scenario)})
	}()

	if _, ok := (domain.ScenarioCapacity{}).Figure(scenario); !ok {
		return errors.Errorf("invalid scenario %q", scenario)
	}
	if fig.Gross < 0 || fig.Net < 0 {
		return errors.New("capacity figures must not be negative")
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		id, err := scopeID(ctx, repository.NewSQLiteTeamRepo(tx), scope)
		if err != nil {
			return err
		}
		txMetrics := repository.NewSQLiteMetricsRepo(tx)
		current, err := txMetrics.Get(ctx)
		if err != nil {
			return err
		}
		caps := current[id]
		caps.SetFigure(scenario, fig)
		return txMetrics.Upsert(ctx, id, caps)
	})
}

func (s *metricsService) DeleteScope(ctx context.Context, scope string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "metrics_delete", startedAt, err, map[string]any{"scope": scope})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		id, err := scopeID(ctx, repository.NewSQLiteTeamRepo(tx), scope)
		if err != nil {
			return err
		}
		return repository.NewSQLiteMetricsRepo(tx).DeleteScope(ctx, id)
	})
}

// scopeID maps a team ref to its id; the totals scope passes through.
func scopeID(ctx context.Context, teams repository.TeamRepo, scope string) (string, error) {
	if scope == domain.TotalsScope {
		return scope, nil
	}
	t, err := resolveTeam(ctx, teams, scope)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}
