package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"modreview-dashboard/internal/logging"
	"modreview-dashboard/internal/render"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List selectable users",
	Args:  cobra.NoArgs,
	RunE: withDashboards(func(cmd *cobra.Command, args []string, d dashboards) error {
		users, err := d.Users(cmd.Context())
		if err != nil {
			logging.Warn().Err(err).Msg("user list unavailable")
		}
		fmt.Fprint(cmd.OutOrStdout(), render.List("Users", users))
		return nil
	}),
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions <user>",
	Short: "List the sessions of a user",
	Long: `List the session ids of a user, newest first.

Sessions only exist within a user, so ALL has no sessions to list.`,
	Args: cobra.ExactArgs(1),
	RunE: withDashboards(func(cmd *cobra.Command, args []string, d dashboards) error {
		sessions, err := d.Sessions(cmd.Context(), args[0])
		if err != nil {
			logging.Warn().Err(err).Str("user", args[0]).Msg("session list unavailable")
		}
		fmt.Fprint(cmd.OutOrStdout(), render.List("Sessions for "+args[0], sessions))
		return nil
	}),
}
