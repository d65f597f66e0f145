package analytics

import (
	"sort"

	"modreview-dashboard/internal/models"
)

// SubQueueNameLimit is the display length after which sub-queue names are cut.
const SubQueueNameLimit = 80

const ellipsis = "..."

// SessionDurations groups video rows by session in first-appearance order and
// bins the first non-nil duration of each session.
func SessionDurations(rows []models.VideoRow) []models.SessionDuration {
	index := make(map[string]int)
	out := []models.SessionDuration{}

	for _, row := range rows {
		i, seen := index[row.SessionID]
		if !seen {
			index[row.SessionID] = len(out)
			out = append(out, models.SessionDuration{
				SessionNumber: len(out) + 1,
				SessionID:     row.SessionID,
			})
			i = len(out) - 1
		}
		if out[i].Duration == nil && row.SessionDuration != nil {
			d := *row.SessionDuration
			out[i].Duration = &d
		}
	}

	for i := range out {
		out[i].Bin, out[i].Binned = BinDuration(out[i].Duration)
	}
	return out
}

// DurationBinCounts counts binned sessions per label in bin order, leaving out
// empty bins. Sessions outside every bin are returned separately.
func DurationBinCounts(sessions []models.SessionDuration) (bins []models.LabelCount, unbinned int) {
	counts := make(map[string]int)
	for _, s := range sessions {
		if !s.Binned {
			unbinned++
			continue
		}
		counts[s.Bin]++
	}

	bins = []models.LabelCount{}
	for _, b := range DurationBins {
		if n := counts[b.Label]; n > 0 {
			bins = append(bins, models.LabelCount{Label: b.Label, Count: n})
		}
	}
	return bins, unbinned
}

// UniqueVideosPerSession counts distinct non-empty video ids per session,
// numbering sessions in first-appearance order.
func UniqueVideosPerSession(rows []models.VideoRow) []models.SessionVideoCount {
	index := make(map[string]int)
	seen := make(map[string]map[string]struct{})
	out := []models.SessionVideoCount{}

	for _, row := range rows {
		i, ok := index[row.SessionID]
		if !ok {
			i = len(out)
			index[row.SessionID] = i
			seen[row.SessionID] = make(map[string]struct{})
			out = append(out, models.SessionVideoCount{
				SessionNumber: i + 1,
				SessionID:     row.SessionID,
			})
		}
		if row.VideoID == "" {
			continue
		}
		if _, dup := seen[row.SessionID][row.VideoID]; dup {
			continue
		}
		seen[row.SessionID][row.VideoID] = struct{}{}
		out[i].UniqueVideos++
	}
	return out
}

// TotalUniqueVideos counts distinct non-empty video ids across all rows.
func TotalUniqueVideos(rows []models.VideoRow) int {
	seen := make(map[string]struct{})
	for _, row := range rows {
		if row.VideoID == "" {
			continue
		}
		seen[row.VideoID] = struct{}{}
	}
	return len(seen)
}

// AverageSpeedPerSession averages the non-nil speeds of each session. Sessions
// are numbered by ascending session id, not by time.
func AverageSpeedPerSession(rows []models.SpeedRow) []models.SessionSpeed {
	type acc struct {
		sum float64
		n   int
	}
	bySession := make(map[string]*acc)
	for _, row := range rows {
		if row.Speed == nil {
			continue
		}
		a, ok := bySession[row.SessionID]
		if !ok {
			a = &acc{}
			bySession[row.SessionID] = a
		}
		a.sum += *row.Speed
		a.n++
	}

	ids := make([]string, 0, len(bySession))
	for id := range bySession {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.SessionSpeed, 0, len(ids))
	for i, id := range ids {
		a := bySession[id]
		out = append(out, models.SessionSpeed{
			SessionNumber: i + 1,
			SessionID:     id,
			AverageSpeed:  a.sum / float64(a.n),
			Samples:       a.n,
		})
	}
	return out
}

// QueueTotals sums main queue counts per queue name, largest first. A nil
// count adds nothing.
func QueueTotals(rows []models.QueueRow) []models.QueueTotal {
	totals := make(map[string]int64)
	var order []string
	for _, row := range rows {
		if _, ok := totals[row.Name]; !ok {
			order = append(order, row.Name)
			totals[row.Name] = 0
		}
		if row.MainQueueCount != nil {
			totals[row.Name] += *row.MainQueueCount
		}
	}

	out := make([]models.QueueTotal, 0, len(order))
	for _, name := range order {
		out = append(out, models.QueueTotal{Name: name, Total: totals[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// LatestSnapshot returns the most recent active snapshot of a session. Rows
// without a creation time sort last.
func LatestSnapshot(rows []models.QueueRow, sessionID string) (models.QueueRow, bool) {
	var (
		best  models.QueueRow
		found bool
	)
	for _, row := range rows {
		if row.SessionID != sessionID || !row.Active {
			continue
		}
		if !found || newer(row, best) {
			best = row
			found = true
		}
	}
	return best, found
}

func newer(a, b models.QueueRow) bool {
	if a.CreatedAt == nil {
		return false
	}
	if b.CreatedAt == nil {
		return true
	}
	return a.CreatedAt.After(*b.CreatedAt)
}

// SubQueueDetail pairs each sub-queue name of a snapshot with its count from
// the parallel count mapping. Missing counts are zero.
func SubQueueDetail(snapshot models.QueueRow) []models.SubQueueCount {
	names := subQueueNames(snapshot.SubQueues)

	out := make([]models.SubQueueCount, 0, len(names))
	for _, name := range names {
		out = append(out, models.SubQueueCount{
			Name:        name,
			DisplayName: TruncateName(name, SubQueueNameLimit),
			Count:       lookupCount(snapshot.SubQueueCounts, name),
		})
	}
	return out
}

func subQueueNames(f models.QueueField) []string {
	if f.IsMap() {
		names := make([]string, 0, len(f.Map))
		for k := range f.Map {
			names = append(names, k)
		}
		sort.Strings(names)
		return names
	}

	names := make([]string, 0, len(f.List))
	for _, v := range f.List {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names
}

func lookupCount(f models.QueueField, name string) int64 {
	if !f.IsMap() {
		return 0
	}
	switch n := f.Map[name].(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

// TruncateName shortens s to limit runes followed by an ellipsis.
func TruncateName(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + ellipsis
}

// StatusDistribution counts videos per completion status, most common first.
// Videos without a status are skipped.
func StatusDistribution(rows []models.VideoRow) []models.LabelCount {
	labels := make([]string, 0)
	for _, row := range rows {
		if row.Status == nil {
			continue
		}
		labels = append(labels, *row.Status)
	}
	return countLabels(labels)
}

// DecisionCounts classifies every video and counts each decision in
// Accepted, Rejected, No Decision order. Decisions with no videos are omitted.
func DecisionCounts(rows []models.VideoRow) []models.LabelCount {
	counts := make(map[Decision]int)
	for _, row := range rows {
		counts[Classify(row.Keys)]++
	}

	out := []models.LabelCount{}
	for _, d := range decisionOrder {
		if n := counts[d]; n > 0 {
			out = append(out, models.LabelCount{Label: string(d), Count: n})
		}
	}
	return out
}

// SoundStatus normalises the muted flag of every video that has one and
// reports each label's share of those videos.
func SoundStatus(rows []models.VideoRow) models.SoundStatusView {
	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.SoundMuted == nil {
			continue
		}
		labels = append(labels, NormalizeSoundStatus(*row.SoundMuted))
	}

	view := models.SoundStatusView{Total: len(labels), Labels: []models.LabelShare{}}
	for _, lc := range countLabels(labels) {
		view.Labels = append(view.Labels, models.LabelShare{
			Label:   lc.Label,
			Count:   lc.Count,
			Percent: float64(lc.Count) * 100 / float64(view.Total),
		})
	}
	return view
}

// Summarize computes the headline metrics of the filtered video rows.
func Summarize(rows []models.VideoRow) models.VideoSummary {
	sessions := make(map[string]struct{})
	summary := models.VideoSummary{Rows: len(rows)}

	var loopSum float64
	var loopN int
	for _, row := range rows {
		sessions[row.SessionID] = struct{}{}
		if row.Watched != nil {
			if *row.Watched {
				summary.Watched++
			} else {
				summary.NotWatched++
			}
		}
		if row.LoopTime != nil {
			loopSum += *row.LoopTime
			loopN++
		}
	}

	summary.Sessions = len(sessions)
	summary.UniqueVideos = TotalUniqueVideos(rows)
	if loopN > 0 {
		mean := loopSum / float64(loopN)
		summary.MeanLoopTime = &mean
	}
	return summary
}

// countLabels counts occurrences, most common first and ties by label.
func countLabels(labels []string) []models.LabelCount {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}

	out := make([]models.LabelCount, 0, len(counts))
	for l, n := range counts {
		out = append(out, models.LabelCount{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
