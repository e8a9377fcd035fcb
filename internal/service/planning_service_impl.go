package service

import (
	"context"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/go-faster/errors"
)

type planningService struct {
	teams       repository.TeamRepo
	initiatives repository.InitiativeRepo
	metrics     repository.MetricsRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewPlanningService(
	teams repository.TeamRepo,
	initiatives repository.InitiativeRepo,
	metrics repository.MetricsRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanningService {
	return &planningService{
		teams:       teams,
		initiatives: initiatives,
		metrics:     metrics,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) Plan(ctx context.Context, pctx planner.Context) (resp *PlanResponse, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "plan", startedAt, err, map[string]any{"year": pctx.Year, "scenario": string(pctx.Scenario)})
	}()
	return s.plan(ctx, pctx)
}

func (s *planningService) plan(ctx context.Context, pctx planner.Context) (*PlanResponse, error) {
	if err := pctx.Validate(); err != nil {
		return nil, err
	}
	data, err := loadPlanData(ctx, s.teams, s.initiatives, s.metrics, pctx.Year)
	if err != nil {
		return nil, errors.Wrap(err, "loading plan data")
	}
	return newPlanResponse(data, pctx), nil
}

func newPlanResponse(data *planData, pctx planner.Context) *PlanResponse {
	return &PlanResponse{
		Result:   planner.Compute(data.initiatives, data.teams, data.metrics, pctx),
		Teams:    data.teams,
		Metrics:  data.metrics,
		Warnings: metricsWarnings(data.metrics),
	}
}

func (s *planningService) SetAssignment(ctx context.Context, req AssignRequest) (resp *PlanResponse, err error) {
	startedAt := time.Now()
	changed := false
	defer func() {
		observe(ctx, s.observer, "set_assignment", startedAt, err, map[string]any{
			"initiative_id": req.InitiativeID,
			"team":          req.TeamRef,
			"changed":       changed,
		})
	}()

	if err := req.Context.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInits := repository.NewSQLiteInitiativeRepo(tx)
		txTeams := repository.NewSQLiteTeamRepo(tx)

		init, err := txInits.GetByID(ctx, req.InitiativeID)
		if err != nil {
			return err
		}

		teamID := req.TeamRef
		team, err := resolveTeam(ctx, txTeams, req.TeamRef)
		switch {
		case err == nil:
			teamID = team.ID
		case errors.Is(err, repository.ErrNotFound) && init.HasAssignment(req.TeamRef):
			// Stale assignment to a deleted team; the edit may still clear it.
		default:
			return err
		}

		changed = planner.SetAssignment(init, teamID, req.Value)
		if !changed {
			return nil
		}
		return txInits.ReplaceAssignments(ctx, init.ID, init.Assignments)
	})
	if err != nil {
		return nil, err
	}
	return s.plan(ctx, req.Context)
}

func (s *planningService) Move(ctx context.Context, req MoveRequest) (resp *PlanResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"dragged":  req.DraggedID,
		"target":   req.TargetID,
		"position": req.Position.String(),
	}
	defer func() {
		var rej *planner.MoveRejection
		if errors.As(err, &rej) {
			fields[FieldRejectReason] = string(rej.Reason)
		}
		observe(ctx, s.observer, "move", startedAt, err, fields)
	}()

	if err := req.Context.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInits := repository.NewSQLiteInitiativeRepo(tx)
		list, err := txInits.ListByYear(ctx, req.Context.Year)
		if err != nil {
			return err
		}
		moved, rej := planner.Move(list, req.DraggedID, req.TargetID, req.Position)
		if rej != nil {
			return rej
		}
		return txInits.SaveOrder(ctx, req.Context.Year, initiativeIDs(moved))
	})
	if err != nil {
		return nil, err
	}
	return s.plan(ctx, req.Context)
}

func (s *planningService) SaveOrder(ctx context.Context, year int, ids []string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "save_order", startedAt, err, map[string]any{"year": year, "count": len(ids)})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInits := repository.NewSQLiteInitiativeRepo(tx)
		current, err := txInits.ListByYear(ctx, year)
		if err != nil {
			return err
		}
		if err := checkOrder(current, ids); err != nil {
			return err
		}
		return txInits.SaveOrder(ctx, year, ids)
	})
}

// checkOrder rejects orders that drop, repeat or invent initiatives.
func checkOrder(current []*domain.Initiative, ids []string) error {
	if len(ids) != len(current) {
		return errors.Errorf("order lists %d initiatives, year has %d", len(ids), len(current))
	}
	known := make(map[string]bool, len(current))
	for _, init := range current {
		known[init.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return errors.Wrapf(repository.ErrNotFound, "initiative %q in year order", id)
		}
		delete(known, id)
	}
	return nil
}

func (s *planningService) Commit(ctx context.Context, pctx planner.Context) (resp *CommitResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"year": pctx.Year, "scenario": string(pctx.Scenario)}
	defer func() {
		observe(ctx, s.observer, "commit", startedAt, err, fields)
	}()

	if err := pctx.Validate(); err != nil {
		return nil, err
	}

	var (
		data   *planData
		commit planner.CommitResult
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInits := repository.NewSQLiteInitiativeRepo(tx)
		var err error
		data, err = loadPlanData(ctx,
			repository.NewSQLiteTeamRepo(tx), txInits, repository.NewSQLiteMetricsRepo(tx), pctx.Year)
		if err != nil {
			return err
		}

		planner.Compute(data.initiatives, data.teams, data.metrics, pctx)
		before := make(map[string]domain.InitiativeStatus, len(data.initiatives))
		committedAs := make(map[string]domain.Classification, len(data.initiatives))
		for _, init := range data.initiatives {
			before[init.ID] = init.Status
			committedAs[init.ID] = init.CommittedAs
		}

		commit = planner.CommitPlan(data.initiatives, pctx.Year)
		for _, init := range data.initiatives {
			if init.Status == before[init.ID] && init.CommittedAs == committedAs[init.ID] {
				continue
			}
			if err := txInits.UpdateStatus(ctx, init.ID, init.Status, init.CommittedAs); err != nil {
				return errors.Wrapf(err, "committing %q", init.Title)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields[FieldStatusChanges] = commit.Updated()
	return &CommitResponse{Commit: commit, Plan: newPlanResponse(data, pctx)}, nil
}

func (s *planningService) LoadSession(ctx context.Context, pctx planner.Context) (*planner.Session, error) {
	if err := pctx.Validate(); err != nil {
		return nil, err
	}
	data, err := loadPlanData(ctx, s.teams, s.initiatives, s.metrics, pctx.Year)
	if err != nil {
		return nil, errors.Wrap(err, "loading plan data")
	}
	return planner.NewSession(data.initiatives, data.teams, data.metrics, pctx), nil
}

func initiativeIDs(list []*domain.Initiative) []string {
	out := make([]string, len(list))
	for i, init := range list {
		out[i] = init.ID
	}
	return out
}
