package analytics

import (
	"math"
	"sort"

	"modreview-dashboard/internal/models"
)

// IdleBuckets is the number of equal-width histogram buckets.
const IdleBuckets = 20

// UnknownIdleType labels idle events recorded without a type.
const UnknownIdleType = "unknown"

// TimedIdle drops idle events without a duration. They are excluded from the
// analysis rather than counted as zero.
func TimedIdle(rows []models.IdleRow) []models.IdleRow {
	out := make([]models.IdleRow, 0, len(rows))
	for _, row := range rows {
		if row.Duration != nil {
			out = append(out, row)
		}
	}
	return out
}

func idleType(row models.IdleRow) string {
	if row.Type == nil || *row.Type == "" {
		return UnknownIdleType
	}
	return *row.Type
}

// IdleByType totals idle seconds per type, longest total first. Rows are
// expected to have passed through TimedIdle.
func IdleByType(rows []models.IdleRow) []models.IdleTypeStat {
	index := make(map[string]int)
	out := []models.IdleTypeStat{}

	for _, row := range rows {
		if row.Duration == nil {
			continue
		}
		t := idleType(row)
		i, ok := index[t]
		if !ok {
			i = len(out)
			index[t] = i
			out = append(out, models.IdleTypeStat{Type: t})
		}
		out[i].Count++
		out[i].TotalSeconds += *row.Duration
	}

	for i := range out {
		out[i].MeanSeconds = out[i].TotalSeconds / float64(out[i].Count)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalSeconds != out[j].TotalSeconds {
			return out[i].TotalSeconds > out[j].TotalSeconds
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// IdleHistogram splits the observed duration range into IdleBuckets buckets
// of equal width and counts events per type in each. The last bucket includes
// the maximum. When every duration is equal a single bucket is returned.
func IdleHistogram(rows []models.IdleRow) []models.HistogramBucket {
	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, row := range rows {
		if row.Duration == nil {
			continue
		}
		lo = math.Min(lo, *row.Duration)
		hi = math.Max(hi, *row.Duration)
		n++
	}
	if n == 0 {
		return []models.HistogramBucket{}
	}

	if lo == hi {
		b := models.HistogramBucket{Lower: lo, Upper: hi, Counts: make(map[string]int)}
		for _, row := range rows {
			if row.Duration != nil {
				b.Counts[idleType(row)]++
			}
		}
		return []models.HistogramBucket{b}
	}

	width := (hi - lo) / IdleBuckets
	buckets := make([]models.HistogramBucket, IdleBuckets)
	for i := range buckets {
		buckets[i] = models.HistogramBucket{
			Lower:  lo + float64(i)*width,
			Upper:  lo + float64(i+1)*width,
			Counts: make(map[string]int),
		}
	}
	buckets[IdleBuckets-1].Upper = hi

	for _, row := range rows {
		if row.Duration == nil {
			continue
		}
		i := int((*row.Duration - lo) / width)
		if i >= IdleBuckets {
			i = IdleBuckets - 1
		}
		buckets[i].Counts[idleType(row)]++
	}
	return buckets
}
