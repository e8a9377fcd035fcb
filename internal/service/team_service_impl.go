package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

type teamService struct {
	teams    repository.TeamRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTeamService(teams repository.TeamRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TeamService {
	return &teamService{teams: teams, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *teamService) Create(ctx context.Context, name string) (team *domain.Team, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "team_create", startedAt, err, map[string]any{"name": name})
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("team name is required")
	}
	if name == domain.TotalsScope {
		return nil, errors.Errorf("%q is reserved", domain.TotalsScope)
	}

	now := time.Now().UTC().Truncate(time.Second)
	team = &domain.Team{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*domain.Team, error) {
	return s.teams.List(ctx)
}

func (s *teamService) Resolve(ctx context.Context, ref string) (*domain.Team, error) {
	return resolveTeam(ctx, s.teams, ref)
}

func (s *teamService) Rename(ctx context.Context, ref, name string) (team *domain.Team, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "team_rename", startedAt, err, map[string]any{"ref": ref, "name": name})
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("team name is required")
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTeams := repository.NewSQLiteTeamRepo(tx)
		t, err := resolveTeam(ctx, txTeams, ref)
		if err != nil {
			return err
		}
		t.Name = name
		t.UpdatedAt = time.Now().UTC().Truncate(time.Second)
		team = t
		return txTeams.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// Delete removes the team and its capacity scope. Assignments that name the
// team stay on their initiatives and show up as load on an unknown team.
func (s *teamService) Delete(ctx context.Context, ref string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "team_delete", startedAt, err, map[string]any{"ref": ref})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTeams := repository.NewSQLiteTeamRepo(tx)
		t, err := resolveTeam(ctx, txTeams, ref)
		if err != nil {
			return err
		}
		err = repository.NewSQLiteMetricsRepo(tx).DeleteScope(ctx, t.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return txTeams.Delete(ctx, t.ID)
	})
}
