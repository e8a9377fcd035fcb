package service

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/go-faster/errors"
)

func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, err error, fields map[string]any) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// resolveTeam looks a team up by id first, then by name.
func resolveTeam(ctx context.Context, teams repository.TeamRepo, ref string) (*domain.Team, error) {
	t, err := teams.GetByID(ctx, ref)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	t, err = teams.GetByName(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.Wrapf(repository.ErrNotFound, "team %q", ref)
		}
		return nil, err
	}
	return t, nil
}

// planData is everything a recomputation reads from the store.
type planData struct {
	teams       []*domain.Team
	metrics     domain.CapacityMetrics
	initiatives []*domain.Initiative
}

func loadPlanData(
	ctx context.Context,
	teams repository.TeamRepo,
	initiatives repository.InitiativeRepo,
	metrics repository.MetricsRepo,
	year int,
) (*planData, error) {
	teamList, err := teams.List(ctx)
	if err != nil {
		return nil, err
	}
	m, err := metrics.Get(ctx)
	if err != nil {
		return nil, err
	}
	inits, err := initiatives.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return &planData{teams: teamList, metrics: m, initiatives: inits}, nil
}

func metricsWarnings(m domain.CapacityMetrics) []string {
	var out []string
	for _, err := range m.Validate() {
		out = append(out, err.Error())
	}
	sort.Strings(out)
	return out
}
