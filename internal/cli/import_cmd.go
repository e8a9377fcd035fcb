package cli

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import teams, capacity and initiatives from a JSON or YAML file",
		Long: "Import teams, capacity and initiatives from a JSON or YAML file. The\n" +
			"whole file is validated first; nothing is written if any entry is invalid.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d teams, %d capacity scopes, %d initiatives\n",
				res.TeamsCreated, res.ScopesUpdated, res.InitiativesCreated)
			for _, w := range res.Warnings {
				fmt.Fprintln(out, formatter.StyleYellow.Render("! "+w))
			}
			return nil
		},
	}
}
