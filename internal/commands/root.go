package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"modreview-dashboard/internal/analytics"
	"modreview-dashboard/internal/config"
	"modreview-dashboard/internal/database"
	"modreview-dashboard/internal/logging"
	"modreview-dashboard/internal/models"
	"modreview-dashboard/internal/services"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// dashboards is the part of the dashboard service the commands use.
type dashboards interface {
	Users(ctx context.Context) ([]string, error)
	Sessions(ctx context.Context, username string) ([]string, error)
	Build(ctx context.Context, sel analytics.Selection) (*models.Dashboard, error)
	Export(ctx context.Context, sel analytics.Selection) ([]models.VideoRow, error)
}

type options struct {
	databaseURL string
	user        string
	session     string
	start       string
	end         string
	logLevel    string
	output      string
}

var opts options

// openDashboards connects to the configured store. Replaced in tests.
var openDashboards = func(ctx context.Context) (dashboards, func(), error) {
	if opts.databaseURL != "" {
		os.Setenv("DATABASE_URL", opts.databaseURL)
	}
	if os.Getenv("DATABASE_URL") == "" {
		return nil, nil, fmt.Errorf("no database configured: pass --db or set DATABASE_URL")
	}

	cfg := config.Load()
	store, closeStore, err := database.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return services.NewDashboardService(store), closeStore, nil
}

var rootCmd = &cobra.Command{
	Use:   "dashctl",
	Short: "Inspect moderation review activity from the terminal",
	Long: `dashctl reads the review activity store and prints the same dashboard
the HTTP service serves: completion status, session durations, idle time,
decisions, sound status, playback speed and queue counts.

Narrow the data with --user, --session, --start and --end.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{Level: opts.logLevel, Format: "console", Output: cmd.ErrOrStderr()})
	},
}

// withDashboards opens the store for the duration of one command.
func withDashboards(fn func(*cobra.Command, []string, dashboards) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		d, closeStore, err := openDashboards(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return fn(cmd, args, d)
	}
}

// selection builds the filter from the persistent flags.
func selection() (analytics.Selection, error) {
	start, err := analytics.ParseDate(opts.start)
	if err != nil {
		return analytics.Selection{}, fmt.Errorf("invalid --start %q: want YYYY-MM-DD", opts.start)
	}
	end, err := analytics.ParseDate(opts.end)
	if err != nil {
		return analytics.Selection{}, fmt.Errorf("invalid --end %q: want YYYY-MM-DD", opts.end)
	}
	return analytics.NewSelection(opts.user, opts.session, start, end), nil
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.databaseURL, "db", "", "database URL or SQLite file (default $DATABASE_URL)")
	flags.StringVarP(&opts.user, "user", "u", analytics.All, "user to show")
	flags.StringVarP(&opts.session, "session", "s", analytics.All, "session to show, requires --user")
	flags.StringVar(&opts.start, "start", "", "first day to include (YYYY-MM-DD)")
	flags.StringVar(&opts.end, "end", "", "last day to include (YYYY-MM-DD)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}
