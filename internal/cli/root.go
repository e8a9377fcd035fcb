package cli

import (
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Planning    service.PlanningService
	Teams       service.TeamService
	Initiatives service.InitiativeService
	Metrics     service.MetricsService
	Snapshots   service.SnapshotService
	Export      service.ExportService
	Import      service.ImportService

	// Defaults is the planning context used when no context flags are given.
	Defaults planner.Context

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "capplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "capplan",
		Short:         "Capacity-constrained initiative planning",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Int("year", 0, "Planning year (default from CAPPLAN_YEAR or the current year)")
	root.PersistentFlags().Var(&scenarioFlag{}, "scenario", "Capacity scenario: fundedHC, teamBIS or effectiveBIS")
	root.PersistentFlags().Bool("gross", false, "Use gross capacity instead of net")

	root.AddCommand(
		newTeamCmd(app),
		newInitiativeCmd(app),
		newMetricsCmd(app),
		newPlanCmd(app),
		newSnapshotCmd(app),
		newExportCmd(app),
		newImportCmd(app),
	)

	return root
}

// scenarioFlag parses --scenario at flag-parse time.
type scenarioFlag struct {
	scenario domain.Scenario
}

var _ pflag.Value = (*scenarioFlag)(nil)

func (f *scenarioFlag) String() string { return string(f.scenario) }
func (f *scenarioFlag) Type() string   { return "scenario" }

func (f *scenarioFlag) Set(raw string) error {
	s, err := domain.ParseScenario(raw)
	if err != nil {
		return err
	}
	f.scenario = s
	return nil
}

// planningContext applies the persistent context flags over app.Defaults.
func planningContext(cmd *cobra.Command, app *App) (planner.Context, error) {
	pctx := app.Defaults
	flags := cmd.Flags()

	if flags.Changed("year") {
		year, err := flags.GetInt("year")
		if err != nil {
			return pctx, err
		}
		pctx.Year = year
	}
	if flags.Changed("scenario") {
		if f, ok := flags.Lookup("scenario").Value.(*scenarioFlag); ok {
			pctx.Scenario = f.scenario
		}
	}
	if flags.Changed("gross") {
		gross, err := flags.GetBool("gross")
		if err != nil {
			return pctx, err
		}
		pctx.UseNet = !gross
	}

	if err := pctx.Validate(); err != nil {
		return pctx, errors.Wrap(err, "planning context")
	}
	return pctx, nil
}
