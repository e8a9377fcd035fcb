package cli

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Save and restore copies of a year plan",
	}

	cmd.AddCommand(
		newSnapshotCreateCmd(app),
		newSnapshotListCmd(app),
		newSnapshotRestoreCmd(app),
		newSnapshotRemoveCmd(app),
	)

	return cmd
}

func newSnapshotCreateCmd(app *App) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Snapshot the current year plan",
		Long: fmt.Sprintf("Snapshot the current year plan. Only the newest %d snapshots of a\n"+
			"year are kept.", domain.MaxSnapshotsPerYear),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			snap, err := app.Snapshots.Create(cmd.Context(), pctx, label)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created snapshot %q (%s) with %d initiatives\n",
				snap.Label, formatter.ShortID(snap.ID), len(snap.Initiatives))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Snapshot label (default: creation time)")

	return cmd
}

func newSnapshotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots of the year, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			snaps, err := app.Snapshots.List(cmd.Context(), pctx.Year)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSnapshotList(snaps))
			return nil
		},
	}
}

func newSnapshotRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore SNAPSHOT",
		Short: "Replace the year's initiatives with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			snap, err := resolveSnapshot(ctx, app, pctx.Year, args[0])
			if err != nil {
				return err
			}
			if _, err := app.Snapshots.Restore(ctx, snap.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d initiatives from snapshot %q\n", len(snap.Initiatives), snap.Label)
			return nil
		},
	}
}

func newSnapshotRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove SNAPSHOT",
		Aliases: []string{"rm"},
		Short:   "Delete a snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pctx, err := planningContext(cmd, app)
			if err != nil {
				return err
			}
			snap, err := resolveSnapshot(ctx, app, pctx.Year, args[0])
			if err != nil {
				return err
			}
			if err := app.Snapshots.Delete(ctx, snap.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed snapshot %q\n", snap.Label)
			return nil
		},
	}
}
