package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/importer"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/go-faster/errors"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading import file")
	}
	return s.ImportSchema(ctx, schema)
}

// ImportSchema validates the whole file before writing anything, then adds
// teams, capacity scopes and initiatives in one transaction. Initiatives are
// appended to the end of their year's order.
func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (res *ImportResult, err error) {
	startedAt := time.Now()
	defer func() {
		fields := map[string]any{}
		if res != nil {
			fields["teams"] = res.TeamsCreated
			fields["scopes"] = res.ScopesUpdated
			fields["initiatives"] = res.InitiativesCreated
		}
		observe(ctx, s.observer, "import", startedAt, err, fields)
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTeams := repository.NewSQLiteTeamRepo(tx)
		existing, err := txTeams.List(ctx)
		if err != nil {
			return err
		}
		converted, err := importer.Convert(schema, existing)
		if err != nil {
			return errors.Wrap(err, "converting import schema")
		}

		for _, t := range converted.NewTeams {
			if err := txTeams.Create(ctx, t); err != nil {
				return errors.Wrapf(err, "creating team %q", t.Name)
			}
		}
		txMetrics := repository.NewSQLiteMetricsRepo(tx)
		for scope, caps := range converted.Metrics {
			if err := txMetrics.Upsert(ctx, scope, caps); err != nil {
				return err
			}
		}
		txInits := repository.NewSQLiteInitiativeRepo(tx)
		for _, init := range converted.Initiatives {
			if err := init.Validate(); err != nil {
				return err
			}
			if err := txInits.Create(ctx, init); err != nil {
				return errors.Wrapf(err, "creating initiative %q", init.Title)
			}
		}

		res = &ImportResult{
			TeamsCreated:       len(converted.NewTeams),
			ScopesUpdated:      len(converted.Metrics),
			InitiativesCreated: len(converted.Initiatives),
			Warnings:           importer.Warnings(schema),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return errors.New(msg)
}
