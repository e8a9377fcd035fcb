package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/capplan/internal/service"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		format string
		team   string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the year plan as CSV or XLSX",
		Long: "Export the year plan with per-initiative SDE-years per team, the\n" +
			"classification and the team load summary. CSV goes to stdout unless\n" +
			"--out is given; XLSX always needs --out.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}

			f := service.ExportFormat(strings.ToLower(format))
			if f != service.ExportCSV && f != service.ExportXLSX {
				return errors.Errorf("unsupported export format %q (use csv or xlsx)", format)
			}
			if f == service.ExportXLSX && out == "" {
				return errors.New("xlsx export needs --out")
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return errors.Wrap(err, "creating export file")
				}
				defer file.Close()
				w = file
			}

			req := service.ExportRequest{Context: pctx, Format: f, TeamRef: team}
			if err := app.Export.Export(cmd.Context(), req, w); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported plan %d to %s\n", pctx.Year, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(service.ExportCSV), "Export format: csv or xlsx")
	cmd.Flags().StringVar(&team, "team", "", "Only export assignments of this team")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file path")

	return cmd
}
