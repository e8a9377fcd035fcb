package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

func newInitiativeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initiative",
		Aliases: []string{"init"},
		Short:   "Manage initiatives",
	}

	cmd.AddCommand(
		newInitiativeAddCmd(app),
		newInitiativeListCmd(app),
		newInitiativeShowCmd(app),
		newInitiativeUpdateCmd(app),
		newInitiativeRemoveCmd(app),
	)

	return cmd
}

// parseAssignments turns TEAM=SDE pairs into assignments, resolving teams
// by id or name.
func parseAssignments(ctx context.Context, app *App, pairs []string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, pair := range pairs {
		ref, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.Errorf("invalid assignment %q, expected TEAM=SDE_YEARS", pair)
		}
		v, ok := planner.ParseSDE(raw)
		if !ok {
			return nil, errors.Errorf("invalid SDE-years %q for team %q", raw, ref)
		}
		team, err := app.Teams.Resolve(ctx, strings.TrimSpace(ref))
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Assignment{TeamID: team.ID, SDEYears: v})
	}
	return out, nil
}

func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid due date %q", raw)
	}
	return &d, nil
}

func newInitiativeAddCmd(app *App) *cobra.Command {
	var title, description, status, goal, due string
	var protected bool
	var assign []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an initiative at the end of the year's order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			st, err := domain.ParseInitiativeStatus(status)
			if err != nil {
				return err
			}
			dueDate, err := parseDueDate(due)
			if err != nil {
				return err
			}
			assignments, err := parseAssignments(ctx, app, assign)
			if err != nil {
				return err
			}

			init := &domain.Initiative{
				Title:         title,
				Description:   description,
				Status:        st,
				IsProtected:   protected,
				PlanningYear:  pctx.Year,
				PrimaryGoalID: goal,
				TargetDueDate: dueDate,
				Assignments:   assignments,
			}
			if err := app.Initiatives.Create(ctx, init); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created initiative %s (%s) in %d\n", init.Title, formatter.ShortID(init.ID), init.PlanningYear)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Initiative title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&status, "status", string(domain.StatusBacklog), "Workflow status")
	cmd.Flags().StringVar(&goal, "goal", "", "Primary goal ID")
	cmd.Flags().StringVar(&due, "due", "", "Target due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&protected, "protected", false, "Pin above all unprotected initiatives")
	cmd.Flags().StringArrayVar(&assign, "assign", nil, "Team assignment TEAM=SDE_YEARS (repeatable)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newInitiativeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the year's initiatives in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			resp, err := app.Planning.Plan(cmd.Context(), pctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInitiatives(resp.Result))
			return nil
		},
	}
}

func newInitiativeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show INITIATIVE",
		Short: "Show one initiative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			init, err := resolveInitiative(ctx, app, pctx.Year, args[0])
			if err != nil {
				return err
			}
			teams, err := app.Teams.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInitiativeDetail(init, teams))
			return nil
		},
	}
}

func newInitiativeUpdateCmd(app *App) *cobra.Command {
	var title, description, status, goal, due string
	var protected bool
	var moveTo int
	var assign []string

	cmd := &cobra.Command{
		Use:   "update INITIATIVE",
		Short: "Update an initiative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			init, err := resolveInitiative(ctx, app, pctx.Year, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				init.Title = title
			}
			if flags.Changed("description") {
				init.Description = description
			}
			if flags.Changed("status") {
				st, err := domain.ParseInitiativeStatus(status)
				if err != nil {
					return err
				}
				init.Status = st
			}
			if flags.Changed("goal") {
				init.PrimaryGoalID = goal
			}
			if flags.Changed("due") {
				if init.TargetDueDate, err = parseDueDate(due); err != nil {
					return err
				}
			}
			if flags.Changed("protected") {
				init.IsProtected = protected
			}
			if flags.Changed("move-to-year") {
				init.PlanningYear = moveTo
			}
			if flags.Changed("assign") {
				if init.Assignments, err = parseAssignments(ctx, app, assign); err != nil {
					return err
				}
			}

			if err := app.Initiatives.Update(ctx, init); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated initiative %s\n", init.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "New workflow status")
	cmd.Flags().StringVar(&goal, "goal", "", "Primary goal ID")
	cmd.Flags().StringVar(&due, "due", "", "Target due date (YYYY-MM-DD, empty clears)")
	cmd.Flags().BoolVar(&protected, "protected", false, "Pin above all unprotected initiatives")
	cmd.Flags().IntVar(&moveTo, "move-to-year", 0, "Move to another planning year")
	cmd.Flags().StringArrayVar(&assign, "assign", nil, "Replace all assignments with TEAM=SDE_YEARS (repeatable)")

	return cmd
}

func newInitiativeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove INITIATIVE",
		Aliases: []string{"rm"},
		Short:   "Delete an initiative",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			init, err := resolveInitiative(ctx, app, pctx.Year, args[0])
			if err != nil {
				return err
			}
			if err := app.Initiatives.Delete(ctx, init.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed initiative %s\n", init.Title)
			return nil
		},
	}
}
