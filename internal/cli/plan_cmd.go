package cli

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/alexanderramin/capplan/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "View and edit the year plan",
	}

	cmd.AddCommand(
		newPlanShowCmd(app),
		newPlanAssignCmd(app),
		newPlanMoveCmd(app),
		newPlanCommitCmd(app),
		newPlanReorderCmd(app),
	)

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the classified plan and team load",
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(resp.Result, resp.Warnings))
			return nil
		},
	}
}

func newPlanAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign INITIATIVE TEAM SDE_YEARS",
		Short: "Set a team's SDE-years on an initiative",
		Long: "Set a team's SDE-years on an initiative. A value that is not a positive\n" +
			"number (0, negative, empty or text) removes the team's assignment.",
		Args: cobra.ExactArgs(3),
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
			resp, err := app.Planning.SetAssignment(ctx, service.AssignRequest{
				Context:      pctx,
				InitiativeID: init.ID,
				TeamRef:      args[1],
				Value:        args[2],
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if v, ok := planner.ParseSDE(args[2]); ok {
				fmt.Fprintf(out, "Assigned %s SDE-years of %s to %s\n", formatter.Number(v), args[1], init.Title)
			} else {
				fmt.Fprintf(out, "Removed %s from %s\n", args[1], init.Title)
			}
			fmt.Fprint(out, formatter.FormatTeamLoad(resp.Result.TeamLoad))
			return nil
		},
	}
}

func newPlanMoveCmd(app *App) *cobra.Command {
	var after bool

	cmd := &cobra.Command{
		Use:   "move INITIATIVE TARGET",
		Short: "Move an initiative before (or after) another one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			dragged, err := resolveInitiative(ctx, app, pctx.Year, args[0])
			if err != nil {
				return err
			}
			target, err := resolveInitiative(ctx, app, pctx.Year, args[1])
			if err != nil {
				return err
			}

			pos := planner.DropBefore
			if after {
				pos = planner.DropAfter
			}
			resp, err := app.Planning.Move(ctx, service.MoveRequest{
				Context:   pctx,
				DraggedID: dragged.ID,
				TargetID:  target.ID,
				Position:  pos,
			})
			var rej *planner.MoveRejection
			if errors.As(err, &rej) {
				return errors.Errorf("move rejected: %s", rej.Message)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s %s %s\n", dragged.Title, pos, target.Title)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInitiatives(resp.Result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&after, "after", false, "Drop after the target instead of before it")

	return cmd
}

// pendingCommitChanges counts the status changes a commit would make now.
func pendingCommitChanges(res planner.Result) int {
	preview := domain.CloneInitiatives(res.Initiatives)
	return planner.CommitPlan(preview, res.Context.Year).Updated()
}

func newPlanCommitCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Write the plan's classification into workflow status",
		Long: "Commit moves above-the-line Backlog/Defined initiatives to Committed and\n" +
			"below-the-line Committed/In Progress initiatives back to Backlog.\n" +
			"Completed initiatives are never touched. Running it twice is a no-op.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				resp, err := app.Planning.Plan(ctx, pctx)
				if err != nil {
					return err
				}
				if n := pendingCommitChanges(resp.Result); n > 0 {
					confirmed := false
					if err := commitConfirmForm(pctx.Year, n, &confirmed).Run(); err != nil {
						return err
					}
					if !confirmed {
						fmt.Fprintln(cmd.OutOrStdout(), "Commit cancelled.")
						return nil
					}
				}
			}

			resp, err := app.Planning.Commit(ctx, pctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCommit(resp.Commit))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newPlanReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder",
		Short: "Reorder initiatives interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("plan reorder needs an interactive terminal; use \"plan move\" instead")
			}
			ctx := cmd.Context()
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			session, err := app.Planning.LoadSession(ctx, pctx)
			if err != nil {
				return err
			}

			save := func(ids []string) error {
				return app.Planning.SaveOrder(ctx, pctx.Year, ids)
			}
			final, err := tea.NewProgram(newReorderModel(session, save), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(*reorderModel); ok && m.dirty {
				fmt.Fprintln(cmd.OutOrStdout(), "Reorder discarded.")
			}
			return nil
		},
	}
}
