package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modreview-dashboard/internal/analytics"
	"modreview-dashboard/internal/models"
	"modreview-dashboard/internal/services"
)

type stubDashboards struct {
	users    []string
	sessions []string
	rows     []models.VideoRow
	err      error

	gotUser string
	gotSel  analytics.Selection
}

func (s *stubDashboards) Users(ctx context.Context) ([]string, error) {
	return s.users, s.err
}

func (s *stubDashboards) Sessions(ctx context.Context, username string) ([]string, error) {
	s.gotUser = username
	return s.sessions, s.err
}

func (s *stubDashboards) Build(ctx context.Context, sel analytics.Selection) (*models.Dashboard, error) {
	s.gotSel = sel
	if s.err != nil {
		return nil, s.err
	}
	return &models.Dashboard{
		Selection: models.SelectionView{User: sel.User(), Session: sel.Session()},
		Summary: models.Section[models.VideoSummary]{
			Title: "Summary for " + sel.User(),
			State: models.SectionOK,
			Data:  models.VideoSummary{Rows: len(s.rows)},
		},
	}, nil
}

func (s *stubDashboards) Export(ctx context.Context, sel analytics.Selection) ([]models.VideoRow, error) {
	s.gotSel = sel
	if s.err != nil {
		return nil, s.err
	}
	if len(s.rows) == 0 {
		return nil, services.ErrNoData
	}
	return s.rows, nil
}

// run executes the root command against stub and returns its output.
func run(t *testing.T, stub *stubDashboards, args ...string) (string, error) {
	t.Helper()

	opts = options{user: analytics.All, session: analytics.All, logLevel: "disabled"}
	summaryJSON = false

	prev := openDashboards
	openDashboards = func(context.Context) (dashboards, func(), error) {
		return stub, func() {}, nil
	}
	t.Cleanup(func() { openDashboards = prev })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "disabled"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestUsersCommand(t *testing.T) {
	out, err := run(t, &stubDashboards{users: []string{"ALL", "alice", "bob"}}, "users")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	for _, want := range []string{"Users", "alice", "bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestUsersCommand_StoreFailureStillLists(t *testing.T) {
	out, err := run(t, &stubDashboards{users: []string{"ALL"}, err: errors.New("down")}, "users")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if !strings.Contains(out, "ALL") {
		t.Errorf("output = %q, want ALL listed", out)
	}
}

func TestSessionsCommand(t *testing.T) {
	stub := &stubDashboards{sessions: []string{"ALL", "11", "10"}}
	out, err := run(t, stub, "sessions", "alice")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if stub.gotUser != "alice" {
		t.Errorf("user = %q, want alice", stub.gotUser)
	}
	if !strings.Contains(out, "Sessions for alice") || !strings.Contains(out, "11") {
		t.Errorf("output = %q", out)
	}
}

func TestSessionsCommand_RequiresUser(t *testing.T) {
	if _, err := run(t, &stubDashboards{}, "sessions"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestSummaryCommand_PassesSelection(t *testing.T) {
	stub := &stubDashboards{}
	out, err := run(t, stub, "summary", "--user", "alice", "--session", "10", "--start", "2024-03-01", "--end", "2024-03-05")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if stub.gotSel.User() != "alice" || stub.gotSel.Session() != "10" {
		t.Errorf("selection = %s/%s, want alice/10", stub.gotSel.User(), stub.gotSel.Session())
	}
	if got := analytics.FormatDate(stub.gotSel.Start()); got != "2024-03-01" {
		t.Errorf("start = %q", got)
	}
	if got := analytics.FormatDate(stub.gotSel.End()); got != "2024-03-05" {
		t.Errorf("end = %q", got)
	}
	if !strings.Contains(out, "Summary for alice") {
		t.Errorf("output = %q", out)
	}
}

func TestSummaryCommand_JSON(t *testing.T) {
	out, err := run(t, &stubDashboards{}, "summary", "--json")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, `"selection"`) || !strings.Contains(out, `"user": "ALL"`) {
		t.Errorf("output = %q", out)
	}
}

func TestSummaryCommand_BadDate(t *testing.T) {
	_, err := run(t, &stubDashboards{}, "summary", "--start", "03/01/2024")
	if err == nil || !strings.Contains(err.Error(), "--start") {
		t.Fatalf("err = %v, want invalid --start", err)
	}
}

func TestExportCommand(t *testing.T) {
	stub := &stubDashboards{rows: []models.VideoRow{
		{Username: "alice", SessionID: "10", VideoID: "100"},
		{Username: "alice", SessionID: "10", VideoID: "101"},
	}}

	t.Run("to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		out, err := run(t, stub, "export", "-o", path)
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if !strings.Contains(out, "Wrote 2 rows") {
			t.Errorf("output = %q", out)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if lines := strings.Count(string(data), "\n"); lines != 3 {
			t.Errorf("csv has %d lines, want header + 2", lines)
		}
	})

	t.Run("to stdout", func(t *testing.T) {
		out, err := run(t, stub, "export", "-o", "-")
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if !strings.HasPrefix(out, "username,") {
			t.Errorf("output = %q, want CSV header first", out)
		}
	})

	t.Run("no data", func(t *testing.T) {
		_, err := run(t, &stubDashboards{}, "export", "-o", "-")
		if err == nil || !strings.Contains(err.Error(), "nothing to export") {
			t.Fatalf("err = %v", err)
		}
	})
}
