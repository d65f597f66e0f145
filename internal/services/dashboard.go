package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"modreview-dashboard/internal/analytics"
	"modreview-dashboard/internal/logging"
	"modreview-dashboard/internal/metrics"
	"modreview-dashboard/internal/models"
	"modreview-dashboard/internal/repository"
	"modreview-dashboard/internal/worker"
)

// ErrNoData is returned by Export when the selection matches no videos.
var ErrNoData = errors.New("no video rows match the selection")

var errNotRead = errors.New("dataset not read before the request ended")

const invertedRangeWarning = "Start date must be on or before end date."

// secondaryDatasets is the number of datasets read alongside the videos.
const secondaryDatasets = 3

// DashboardService runs one fetch → filter → aggregate cycle per call. It
// holds no state between calls besides the store.
type DashboardService struct {
	store repository.Store
	pool  *worker.Pool
	now   func() time.Time
}

func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{
		store: store,
		pool:  worker.NewPool(secondaryDatasets),
		now:   time.Now,
	}
}

// Users returns the selectable user names, All first. On failure the list
// still holds All so a caller can keep rendering.
func (s *DashboardService) Users(ctx context.Context) ([]string, error) {
	users, err := fetch(ctx, "users", s.store.ListUsers)
	if err != nil {
		return []string{analytics.All}, err
	}

	names := make([]string, 0, len(users))
	seen := make(map[string]bool, len(users))
	for _, u := range users {
		if u.Name == "" || seen[u.Name] {
			continue
		}
		seen[u.Name] = true
		names = append(names, u.Name)
	}
	sort.Strings(names)
	return append([]string{analytics.All}, names...), nil
}

// Sessions returns the selectable session ids of a user, All first. Sessions
// only exist within a user, so All users yields just All.
func (s *DashboardService) Sessions(ctx context.Context, username string) ([]string, error) {
	if username == "" || username == analytics.All {
		return []string{analytics.All}, nil
	}

	sessions, err := fetch(ctx, "sessions", func(ctx context.Context) ([]models.Session, error) {
		return s.store.ListSessions(ctx, username)
	})
	if err != nil {
		return []string{analytics.All}, err
	}

	ids := make([]string, 0, len(sessions)+1)
	ids = append(ids, analytics.All)
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	return ids, nil
}

// Build assembles the full dashboard for a selection. Only a failure to reach
// the store or read the videos is returned as an error; every other dataset
// failure marks its section unavailable.
func (s *DashboardService) Build(ctx context.Context, sel analytics.Selection) (*models.Dashboard, error) {
	started := time.Now()
	defer func() { metrics.DashboardBuildDuration.Observe(time.Since(started).Seconds()) }()

	all, err := s.loadVideos(ctx)
	if err != nil {
		return nil, err
	}

	var (
		idle   []models.IdleRow
		speeds []models.SpeedRow
		queues []models.QueueRow
	)
	// Tasks skipped after cancellation leave their dataset unread.
	idleErr, speedErr, queueErr := errNotRead, errNotRead, errNotRead
	s.pool.Run(ctx,
		func(ctx context.Context) { idle, idleErr = fetch(ctx, "idle", s.store.ListIdleEvents) },
		func(ctx context.Context) { speeds, speedErr = fetch(ctx, "speeds", s.store.ListSpeeds) },
		func(ctx context.Context) { queues, queueErr = fetch(ctx, "queues", s.store.ListQueues) },
	)

	sel = s.resolveDates(sel,
		analytics.Earliest(all),
		analytics.Earliest(idle),
		analytics.Earliest(speeds),
		analytics.Earliest(queues),
	)
	videos := analytics.Apply(sel, all)

	d := &models.Dashboard{
		Selection: models.SelectionView{
			User:    sel.User(),
			Session: sel.Session(),
			Start:   analytics.FormatDate(sel.Start()),
			End:     analytics.FormatDate(sel.End()),
		},
		Warnings:        []string{},
		GeneratedAt:     s.now().UTC(),
		ExportAvailable: len(videos) > 0,
	}
	if sel.Inverted() {
		d.Warnings = append(d.Warnings, invertedRangeWarning)
	}

	s.videoSections(d, sel, videos)

	d.IdleTime = s.idleSection(ctx, sel, idle, idleErr)
	d.AverageSpeed = s.speedSection(ctx, sel, speeds, speedErr)
	d.QueueTotals, d.SubQueues = s.queueSections(ctx, sel, queues, queueErr)

	return d, nil
}

// Export returns the filtered video rows behind the dashboard.
func (s *DashboardService) Export(ctx context.Context, sel analytics.Selection) ([]models.VideoRow, error) {
	all, err := s.loadVideos(ctx)
	if err != nil {
		return nil, err
	}

	// An earlier start from another dataset cannot admit more videos, so the
	// videos alone decide the default bound here.
	videos := analytics.Apply(s.resolveDates(sel, analytics.Earliest(all)), all)
	if len(videos) == 0 {
		return nil, ErrNoData
	}
	return videos, nil
}

func (s *DashboardService) loadVideos(ctx context.Context) ([]models.VideoRow, error) {
	if err := s.store.Ping(ctx); err != nil {
		return nil, unavailableStore(err)
	}
	videos, err := fetch(ctx, "videos", s.store.ListVideos)
	if err != nil {
		return nil, unavailableStore(err)
	}
	return videos, nil
}

func unavailableStore(err error) error {
	if errors.Is(err, repository.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
}

// resolveDates fills unset bounds: start defaults to the earliest of the
// given dataset starts and end to today.
func (s *DashboardService) resolveDates(sel analytics.Selection, earliest ...*time.Time) analytics.Selection {
	start, end := sel.Start(), sel.End()

	if start == nil {
		for _, t := range earliest {
			if t != nil && (start == nil || t.Before(*start)) {
				start = t
			}
		}
	}
	if end == nil {
		today := s.now().UTC()
		end = &today
	}

	// With no dated rows at all there is nothing to bound.
	if start == nil {
		return sel.WithDates(nil, nil)
	}
	return sel.WithDates(start, end)
}

func (s *DashboardService) videoSections(d *models.Dashboard, sel analytics.Selection, videos []models.VideoRow) {
	const noVideos = "No video data for this selection."
	empty := len(videos) == 0
	who := subject(sel)

	d.Summary = section("Summary for "+who, models.ChartMetric, analytics.Summarize(videos), empty, noVideos)
	d.Status = section("Video Completion Status for "+who, models.ChartPie, analytics.StatusDistribution(videos), empty, noVideos)

	sessions := analytics.SessionDurations(videos)
	bins, unbinned := analytics.DurationBinCounts(sessions)
	d.SessionDurations = section("Session Durations for "+who, models.ChartBar,
		models.DurationView{Sessions: sessions, Bins: bins, Unbinned: unbinned},
		len(sessions) == 0, noVideos)

	d.UniqueVideos = section("Unique Videos per Session for "+who, models.ChartLine,
		models.UniqueVideosView{
			Total:      analytics.TotalUniqueVideos(videos),
			PerSession: analytics.UniqueVideosPerSession(videos),
		},
		empty, noVideos)

	d.Decisions = section("Acceptance Decisions for "+who, models.ChartBar, analytics.DecisionCounts(videos), empty, noVideos)

	sound := analytics.SoundStatus(videos)
	d.SoundStatus = section("Sound Status for "+who, models.ChartPie, sound, sound.Total == 0, "No sound status data available.")
}

func (s *DashboardService) idleSection(ctx context.Context, sel analytics.Selection, rows []models.IdleRow, err error) models.Section[models.IdleView] {
	const title = "Idle Time Distribution"
	view := models.IdleView{ByType: []models.IdleTypeStat{}, Histogram: []models.HistogramBucket{}}
	if err != nil {
		return unavailable(ctx, "idle", title, models.ChartHistogram, view, err)
	}

	filtered := analytics.Apply(sel, rows)
	if len(filtered) == 0 {
		return section(title, models.ChartHistogram, view, true, "No idle time data available.")
	}

	timed := analytics.TimedIdle(filtered)
	view.ByType = analytics.IdleByType(timed)
	view.Histogram = analytics.IdleHistogram(timed)
	return section(title, models.ChartHistogram, view, len(timed) == 0, "No idle time durations available.")
}

func (s *DashboardService) speedSection(ctx context.Context, sel analytics.Selection, rows []models.SpeedRow, err error) models.Section[[]models.SessionSpeed] {
	const title = "Average Playback Speed per Session"
	if err != nil {
		return unavailable(ctx, "speeds", title, models.ChartLine, []models.SessionSpeed{}, err)
	}

	avg := analytics.AverageSpeedPerSession(analytics.Apply(sel, rows))
	return section(title, models.ChartLine, avg, len(avg) == 0, "No playback speed data available.")
}

func (s *DashboardService) queueSections(ctx context.Context, sel analytics.Selection, rows []models.QueueRow, err error) (models.Section[[]models.QueueTotal], models.Section[models.SubQueueView]) {
	const (
		totalsTitle = "Queue Item Counts"
		detailTitle = "Sub-queue Counts"
	)
	detail := models.SubQueueView{Items: []models.SubQueueCount{}}
	if err != nil {
		return unavailable(ctx, "queue_totals", totalsTitle, models.ChartBar, []models.QueueTotal{}, err),
			unavailable(ctx, "subqueues", detailTitle, models.ChartTable, detail, err)
	}

	filtered := analytics.Apply(sel, rows)
	totals := section(totalsTitle, models.ChartBar, analytics.QueueTotals(filtered), len(filtered) == 0, "No active queue data available.")

	if !sel.SessionSelected() {
		return totals, section(detailTitle, models.ChartTable, detail, true, "Select a user and a session to see sub-queue counts.")
	}

	snapshot, ok := analytics.LatestSnapshot(filtered, sel.Session())
	if !ok {
		return totals, section(detailTitle, models.ChartTable, detail, true, "No active queue snapshot for this session.")
	}

	detail.SessionID = snapshot.SessionID
	detail.QueueName = snapshot.Name
	detail.Items = analytics.SubQueueDetail(snapshot)
	return totals, section(detailTitle+" for "+snapshot.Name, models.ChartTable, detail, len(detail.Items) == 0, "This queue has no sub-queues.")
}

func subject(sel analytics.Selection) string {
	if !sel.UserSelected() {
		return "All Users"
	}
	if sel.SessionSelected() {
		return sel.User() + " (session " + sel.Session() + ")"
	}
	return sel.User()
}

func section[T any](title, chart string, data T, empty bool, emptyMessage string) models.Section[T] {
	sec := models.Section[T]{Title: title, Chart: chart, State: models.SectionOK, Data: data}
	if empty {
		sec.State = models.SectionEmpty
		sec.Message = emptyMessage
	}
	return sec
}

func unavailable[T any](ctx context.Context, name, title, chart string, data T, err error) models.Section[T] {
	metrics.SectionsUnavailable.WithLabelValues(name).Inc()
	logging.Ctx(ctx).Warn().Err(err).Str("section", name).Msg("section unavailable")
	return models.Section[T]{
		Title:   title,
		Chart:   chart,
		State:   models.SectionUnavailable,
		Message: "This data could not be loaded.",
		Data:    data,
	}
}

// fetch reads one dataset and records its latency and failures.
func fetch[T any](ctx context.Context, dataset string, load func(context.Context) ([]T, error)) ([]T, error) {
	started := time.Now()
	rows, err := load(ctx)
	metrics.StoreQueryDuration.WithLabelValues(dataset).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.StoreQueryErrors.WithLabelValues(dataset).Inc()
		return nil, fmt.Errorf("read %s: %w", dataset, err)
	}
	return rows, nil
}
