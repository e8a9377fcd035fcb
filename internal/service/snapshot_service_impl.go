package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

type snapshotService struct {
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewSnapshotService(snapshots repository.SnapshotRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SnapshotService {
	return &snapshotService{
		snapshots: snapshots,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       time.Now,
	}
}

func (s *snapshotService) Create(ctx context.Context, pctx planner.Context, label string) (snap *domain.PlanSnapshot, err error) {
	startedAt := time.Now()
	pruned := 0
	defer func() {
		observe(ctx, s.observer, "snapshot_create", startedAt, err, map[string]any{"year": pctx.Year, "pruned": pruned})
	}()

	if err := pctx.Validate(); err != nil {
		return nil, err
	}

	createdAt := s.now().UTC()
	label = strings.TrimSpace(label)
	if label == "" {
		label = "Snapshot " + createdAt.Format("2006-01-02 15:04")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		inits, err := repository.NewSQLiteInitiativeRepo(tx).ListByYear(ctx, pctx.Year)
		if err != nil {
			return err
		}
		snap = &domain.PlanSnapshot{
			ID:           uuid.New().String(),
			PlanningYear: pctx.Year,
			Label:        label,
			Scenario:     pctx.Scenario,
			UseNet:       pctx.UseNet,
			Initiatives:  inits,
			CreatedAt:    createdAt,
		}
		txSnaps := repository.NewSQLiteSnapshotRepo(tx)
		if err := txSnaps.Create(ctx, snap); err != nil {
			return err
		}
		pruned, err = txSnaps.Prune(ctx, pctx.Year, domain.MaxSnapshotsPerYear)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *snapshotService) List(ctx context.Context, year int) ([]*domain.PlanSnapshot, error) {
	return s.snapshots.ListByYear(ctx, year)
}

// Restore deletes the year's current initiatives and recreates the snapshot
// copies in snapshot order. An initiative that has since moved to another
// year is pulled back.
func (s *snapshotService) Restore(ctx context.Context, id string) (snap *domain.PlanSnapshot, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "snapshot_restore", startedAt, err, map[string]any{"id": id})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		snap, err = repository.NewSQLiteSnapshotRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		txInits := repository.NewSQLiteInitiativeRepo(tx)
		if err := txInits.DeleteByYear(ctx, snap.PlanningYear); err != nil {
			return err
		}
		now := time.Now().UTC().Truncate(time.Second)
		for _, init := range snap.Initiatives {
			err := txInits.Delete(ctx, init.ID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			init.PlanningYear = snap.PlanningYear
			init.UpdatedAt = now
			if err := txInits.Create(ctx, init); err != nil {
				return errors.Wrapf(err, "restoring %q", init.Title)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *snapshotService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "snapshot_delete", startedAt, err, map[string]any{"id": id})
	}()
	return s.snapshots.Delete(ctx, id)
}
