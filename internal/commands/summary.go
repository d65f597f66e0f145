package commands

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"modreview-dashboard/internal/render"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"show", "dashboard"},
	Short:   "Print the dashboard for the current selection",
	Args:    cobra.NoArgs,
	RunE: withDashboards(func(cmd *cobra.Command, args []string, d dashboards) error {
		sel, err := selection()
		if err != nil {
			return err
		}

		dash, err := d.Build(cmd.Context(), sel)
		if err != nil {
			return fmt.Errorf("build dashboard: %w", err)
		}

		if summaryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dash)
		}
		fmt.Fprint(cmd.OutOrStdout(), render.Dashboard(dash))
		return nil
	}),
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the dashboard as JSON")
}
