package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

func newMetricsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Manage capacity metrics",
		Long: "Capacity metrics are the precomputed gross and net SDE-years per team and\n" +
			"for the whole organization (scope \"totals\") under each scenario.",
	}

	cmd.AddCommand(
		newMetricsShowCmd(app),
		newMetricsSetCmd(app),
		newMetricsRemoveCmd(app),
	)

	return cmd
}

func newMetricsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show capacity metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			metrics, err := app.Metrics.Get(ctx)
			if err != nil {
				return err
			}
			teams, err := app.Teams.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMetrics(metrics, teams))
			return nil
		},
	}
}

func newMetricsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set SCOPE SCENARIO GROSS NET",
		Short: "Set one scenario's gross and net capacity for a team or totals",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := domain.ParseScenario(args[1])
			if err != nil {
				return err
			}
			gross, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return errors.Wrapf(err, "invalid gross %q", args[2])
			}
			net, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return errors.Wrapf(err, "invalid net %q", args[3])
			}

			fig := domain.CapacityFigure{Gross: gross, Net: net}
			if err := app.Metrics.SetFigure(cmd.Context(), args[0], scenario, fig); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Set %s %s capacity: gross %s, net %s\n",
				args[0], scenario.Label(), formatter.Number(gross), formatter.Number(net))
			if net > gross {
				fmt.Fprintln(out, formatter.StyleYellow.Render("! net exceeds gross"))
			}
			return nil
		},
	}
}

func newMetricsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove SCOPE",
		Aliases: []string{"rm"},
		Short:   "Delete all capacity figures of a scope",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Metrics.DeleteScope(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed capacity for %s\n", args[0])
			return nil
		},
	}
}
