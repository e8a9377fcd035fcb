package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/capplan/internal/export"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/go-faster/errors"
)

type exportService struct {
	planning PlanningService
	teams    repository.TeamRepo
	observer UseCaseObserver
	now      func() time.Time
}

func NewExportService(planning PlanningService, teams repository.TeamRepo, observers ...UseCaseObserver) ExportService {
	return &exportService{
		planning: planning,
		teams:    teams,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, req ExportRequest, w io.Writer) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "export", startedAt, err, map[string]any{
			"year":   req.Context.Year,
			"format": string(req.Format),
			"team":   req.TeamRef,
		})
	}()

	opts := export.Options{GeneratedAt: s.now().UTC()}
	if req.TeamRef != "" && req.TeamRef != export.AllTeams {
		team, err := resolveTeam(ctx, s.teams, req.TeamRef)
		if err != nil {
			return err
		}
		opts.TeamFilter = team.ID
	}

	plan, err := s.planning.Plan(ctx, req.Context)
	if err != nil {
		return err
	}
	yearPlan := export.BuildYearPlan(plan.Result, plan.Teams, plan.Metrics, opts)

	switch req.Format {
	case ExportCSV, "":
		return export.WriteCSV(w, yearPlan)
	case ExportXLSX:
		return export.WriteXLSX(w, yearPlan)
	default:
		return errors.Errorf("unsupported export format %q", req.Format)
	}
}
