package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"modreview-dashboard/internal/export"
	"modreview-dashboard/internal/render"
	"modreview-dashboard/internal/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered video rows as CSV",
	Long: `Write the video rows behind the dashboard as CSV.

The file is named after the selection unless -o is given. Use -o - to write
to standard output.`,
	Args: cobra.NoArgs,
	RunE: withDashboards(func(cmd *cobra.Command, args []string, d dashboards) error {
		sel, err := selection()
		if err != nil {
			return err
		}

		rows, err := d.Export(cmd.Context(), sel)
		if errors.Is(err, services.ErrNoData) {
			return errors.New("no video rows match the selection, nothing to export")
		}
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		if opts.output == "-" {
			return export.WriteVideos(cmd.OutOrStdout(), rows)
		}

		path := opts.output
		if path == "" {
			path = export.Filename(sel)
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := export.WriteVideos(f, rows); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), render.Success(fmt.Sprintf("Wrote %d rows to %s", len(rows), path)))
		return nil
	}),
}

func init() {
	exportCmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout")
}
