package sqlite_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"modreview-dashboard/internal/analytics"
	"modreview-dashboard/internal/repository"
	"modreview-dashboard/internal/repository/sqlite"
)

var _ repository.Store = (*sqlite.Store)(nil)

// openSeeded writes the fixture database with a separate read-write
// connection, then opens it through the read-only store. Extra statements run
// after the seed.
func openSeeded(t *testing.T, extra ...string) *sqlite.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "activity.db")
	rw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	for _, file := range []string{"testdata/schema.sql", "testdata/seed.sql"} {
		content, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		if _, err := rw.Exec(string(content)); err != nil {
			t.Fatalf("exec %s: %v", file, err)
		}
	}
	for _, stmt := range extra {
		if _, err := rw.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	if err := rw.Close(); err != nil {
		t.Fatalf("close fixture db: %v", err)
	}

	store, err := sqlite.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_Ping(t *testing.T) {
	store := openSeeded(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestStore_ListUsers(t *testing.T) {
	store := openSeeded(t)

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0].Name != "alice" || users[1].Name != "bob" {
		t.Fatalf("unexpected users %+v", users)
	}
}

func TestStore_ListSessions(t *testing.T) {
	store := openSeeded(t)

	sessions, err := store.ListSessions(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "12" {
		t.Errorf("Expected newest session first, got %s", sessions[0].ID)
	}
	if sessions[0].StartTime == nil || sessions[0].StartTime.Day() != 3 {
		t.Errorf("Expected parsed start time, got %v", sessions[0].StartTime)
	}

	none, err := store.ListSessions(context.Background(), "carol")
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no sessions for unknown user, got %d", len(none))
	}
}

func TestStore_ListVideos(t *testing.T) {
	store := openSeeded(t)

	videos, err := store.ListVideos(context.Background())
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	// the orphaned session has no user and is dropped by the join
	if len(videos) != 5 {
		t.Fatalf("Expected 5 videos, got %d", len(videos))
	}

	first := videos[0]
	if first.Username != "alice" || first.SessionID != "10" || first.VideoID != "vid-a" {
		t.Errorf("unexpected first row %+v", first)
	}
	if first.Watched == nil || !*first.Watched {
		t.Errorf("Expected watched=true, got %v", first.Watched)
	}
	if first.SessionDuration == nil || *first.SessionDuration != 25 {
		t.Errorf("Expected duration 25, got %v", first.SessionDuration)
	}
	if got := analytics.Classify(first.Keys); got != analytics.Accepted {
		t.Errorf("Expected Accepted for keys A,x, got %s", got)
	}
	if got := analytics.Classify(videos[1].Keys); got != analytics.Rejected {
		t.Errorf("Expected Rejected for key q, got %s", got)
	}
	if videos[2].SoundMuted != nil || videos[2].LoopTime != nil {
		t.Errorf("Expected nulls preserved, got %+v", videos[2])
	}
	if len(videos[2].Keys) != 0 {
		t.Errorf("Expected no keys, got %d", len(videos[2].Keys))
	}
	// rows follow session start order, so bob's session sits between alice's
	if videos[3].Username != "bob" || videos[3].SessionDuration != nil {
		t.Errorf("Expected bob's row with null duration, got %+v", videos[3])
	}
	if len(videos[4].Keys) != 1 || videos[4].Keys[0] != nil {
		t.Errorf("Expected a single null key, got %v", videos[4].Keys)
	}
}

func TestStore_ListVideos_UntypedNumericKeys(t *testing.T) {
	// without TEXT affinity, numeric key values are stored as integers
	store := openSeeded(t,
		`DROP TABLE video_keys`,
		`CREATE TABLE video_keys (id INTEGER PRIMARY KEY, video_id INTEGER, key_value)`,
		`INSERT INTO video_keys (video_id, key_value) VALUES (100, 7), (100, 'A'), (101, 2.5)`,
	)

	videos, err := store.ListVideos(context.Background())
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}

	var keys []string
	for _, k := range videos[0].Keys {
		if k == nil {
			t.Fatal("Expected no null keys")
		}
		keys = append(keys, *k)
	}
	if len(keys) != 2 || keys[0] != "7" || keys[1] != "A" {
		t.Errorf("Expected keys [7 A], got %v", keys)
	}
	if got := analytics.Classify(videos[0].Keys); got != analytics.Accepted {
		t.Errorf("Expected Accepted, got %s", got)
	}
	if len(videos[1].Keys) != 1 || *videos[1].Keys[0] != "2.5" {
		t.Errorf("Expected key 2.5, got %v", videos[1].Keys)
	}
}

func TestStore_ListIdleEvents(t *testing.T) {
	store := openSeeded(t)

	events, err := store.ListIdleEvents(context.Background())
	if err != nil {
		t.Fatalf("ListIdleEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 idle events, got %d", len(events))
	}
	if n := len(analytics.TimedIdle(events)); n != 2 {
		t.Errorf("Expected 2 timed events, got %d", n)
	}
}

func TestStore_ListSpeeds(t *testing.T) {
	store := openSeeded(t)

	speeds, err := store.ListSpeeds(context.Background())
	if err != nil {
		t.Fatalf("ListSpeeds: %v", err)
	}
	if len(speeds) != 3 {
		t.Fatalf("Expected 3 speed rows, got %d", len(speeds))
	}
	if speeds[0].CreatedAt == nil || speeds[0].VideoID != "vid-a" {
		t.Errorf("unexpected first speed %+v", speeds[0])
	}

	avg := analytics.AverageSpeedPerSession(speeds)
	if len(avg) != 2 || avg[0].SessionID != "10" || avg[0].AverageSpeed != 1.5 {
		t.Errorf("unexpected averages %+v", avg)
	}
}

func TestStore_ListQueues(t *testing.T) {
	store := openSeeded(t)

	queues, err := store.ListQueues(context.Background())
	if err != nil {
		t.Fatalf("ListQueues: %v", err)
	}
	if len(queues) != 3 {
		t.Fatalf("Expected 3 active snapshots, got %d", len(queues))
	}
	if queues[0].Name != "escalations" {
		t.Errorf("Expected newest snapshot first, got %s", queues[0].Name)
	}

	malformed := queues[1]
	if malformed.MainQueueCount != nil || malformed.SubQueues.Len() != 0 || malformed.SubQueues.IsMap() {
		t.Errorf("Expected malformed snapshot to decode to empty list, got %+v", malformed)
	}

	parsed := queues[2]
	detail := analytics.SubQueueDetail(parsed)
	if len(detail) != 2 || detail[0].Count != 3 || detail[1].Count != 0 {
		t.Errorf("unexpected sub-queue detail %+v", detail)
	}
}
