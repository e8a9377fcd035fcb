package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}

	cmd.AddCommand(
		newTeamAddCmd(app),
		newTeamListCmd(app),
		newTeamRenameCmd(app),
		newTeamRemoveCmd(app),
	)

	return cmd
}

func newTeamAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create a team",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := app.Teams.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created team %s (%s)\n", team.Name, formatter.ShortID(team.ID))
			return nil
		},
	}
}

func newTeamListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := app.Teams.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTeamList(teams))
			return nil
		},
	}
}

func newTeamRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename TEAM NEW_NAME",
		Short: "Rename a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := app.Teams.Rename(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed team to %s\n", team.Name)
			return nil
		},
	}
}

func newTeamRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove TEAM",
		Aliases: []string{"rm"},
		Short:   "Delete a team and its capacity figures",
		Long: "Delete a team and its capacity figures. Assignments to the team stay on\n" +
			"their initiatives and are reported as load on an unknown team.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Teams.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed team %s\n", args[0])
			return nil
		},
	}
}
