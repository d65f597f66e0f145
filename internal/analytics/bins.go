package analytics

// DurationBin is a right-inclusive range (Lower, Upper] in seconds.
type DurationBin struct {
	Label string
	Lower float64
	Upper float64
}

// DurationBins are the fixed session-length ranges, in ascending order.
var DurationBins = []DurationBin{
	{Label: "0-30s", Lower: 0, Upper: 30},
	{Label: "31-60s", Lower: 30, Upper: 60},
	{Label: "61-120s", Lower: 60, Upper: 120},
	{Label: "121-300s", Lower: 120, Upper: 300},
	{Label: "301-600s", Lower: 300, Upper: 600},
	{Label: "601-1800s", Lower: 600, Upper: 1800},
	{Label: "1801-3600s", Lower: 1800, Upper: 3600},
	{Label: "3601-7200s", Lower: 3600, Upper: 7200},
}

// BinDuration returns the label of the bin holding d. A nil duration counts
// as zero. ok is false when no bin matches (zero, negative, or above the
// last upper bound).
func BinDuration(d *float64) (label string, ok bool) {
	var v float64
	if d != nil {
		v = *d
	}

	for _, b := range DurationBins {
		if v > b.Lower && v <= b.Upper {
			return b.Label, true
		}
	}
	return "", false
}
