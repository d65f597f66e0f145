package analytics

import "testing"

func TestNormalizeSoundStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"yes", SoundMuted},
		{"no", SoundNotMuted},
		{"true", SoundMuted},
		{"false", SoundNotMuted},
		{"maybe", "maybe"},
		{"", ""},
		// lookup is exact; other casings pass through
		{"Yes", "Yes"},
		{"TRUE", "TRUE"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			if got := NormalizeSoundStatus(tc.raw); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
