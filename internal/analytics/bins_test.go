package analytics

import "testing"

func ptr[T any](v T) *T { return &v }

func TestBinDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration *float64
		label    string
		ok       bool
	}{
		{"nil is zero and unbinned", nil, "", false},
		{"zero unbinned", ptr(0.0), "", false},
		{"negative unbinned", ptr(-5.0), "", false},
		{"just above zero", ptr(0.5), "0-30s", true},
		{"upper boundary inclusive", ptr(30.0), "0-30s", true},
		{"next bin", ptr(31.0), "31-60s", true},
		{"fractional boundary", ptr(30.01), "31-60s", true},
		{"sixty", ptr(60.0), "31-60s", true},
		{"two minutes", ptr(120.0), "61-120s", true},
		{"five minutes", ptr(300.0), "121-300s", true},
		{"ten minutes", ptr(600.0), "301-600s", true},
		{"half hour", ptr(1800.0), "601-1800s", true},
		{"hour", ptr(3600.0), "1801-3600s", true},
		{"last bound", ptr(7200.0), "3601-7200s", true},
		{"above last bound", ptr(7200.5), "", false},
		{"far above", ptr(9000.0), "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, ok := BinDuration(tc.duration)
			if ok != tc.ok || label != tc.label {
				t.Errorf("Expected (%q, %v), got (%q, %v)", tc.label, tc.ok, label, ok)
			}
		})
	}
}

func TestBinDuration_NoOverlap(t *testing.T) {
	for d := 0.25; d <= 7300; d += 0.25 {
		matches := 0
		for _, b := range DurationBins {
			if d > b.Lower && d <= b.Upper {
				matches++
			}
		}
		if matches > 1 {
			t.Fatalf("duration %v matched %d bins", d, matches)
		}
		_, ok := BinDuration(&d)
		if ok != (matches == 1) {
			t.Fatalf("duration %v: ok=%v but %d bins match", d, ok, matches)
		}
	}
}
