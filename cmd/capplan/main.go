package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/capplan/internal/cli"
	"github.com/alexanderramin/capplan/internal/config"
	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/go-faster/errors"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load(config.DefaultEnvFiles)
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	planner.SetLogger(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer database.Close()

	// Wire repositories
	teamRepo := repository.NewSQLiteTeamRepo(database)
	initiativeRepo := repository.NewSQLiteInitiativeRepo(database)
	metricsRepo := repository.NewSQLiteMetricsRepo(database)
	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	observers := []service.UseCaseObserver{service.NewLogUseCaseObserver(logger)}
	if cfg.MetricsFile != "" {
		metricsObs := service.NewMetricsObserver()
		observers = append(observers, metricsObs)
		defer func() {
			if werr := metricsObs.WriteTextfile(cfg.MetricsFile); werr != nil {
				logger.WithError(werr).Warn("writing metrics textfile")
			}
		}()
	}

	// Wire services
	planning := service.NewPlanningService(teamRepo, initiativeRepo, metricsRepo, uow, observers...)

	app := &cli.App{
		Planning:    planning,
		Teams:       service.NewTeamService(teamRepo, uow, observers...),
		Initiatives: service.NewInitiativeService(initiativeRepo, observers...),
		Metrics:     service.NewMetricsService(metricsRepo, uow, observers...),
		Snapshots:   service.NewSnapshotService(snapshotRepo, uow, observers...),
		Export:      service.NewExportService(planning, teamRepo, observers...),
		Import:      service.NewImportService(uow, observers...),
		Defaults: planner.Context{
			Year:     cfg.Year,
			Scenario: cfg.DefaultScenario(),
			UseNet:   cfg.UseNet,
		},
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
