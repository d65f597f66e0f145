package analytics

const (
	SoundMuted    = "Muted"
	SoundNotMuted = "Not Muted"
)

// soundLabels is matched exactly; raw values are not case-folded.
var soundLabels = map[string]string{
	"yes":   SoundMuted,
	"no":    SoundNotMuted,
	"true":  SoundMuted,
	"false": SoundNotMuted,
}

// NormalizeSoundStatus maps a raw muted flag to its display label. Values
// outside the lookup table are returned unchanged.
func NormalizeSoundStatus(raw string) string {
	if label, ok := soundLabels[raw]; ok {
		return label
	}
	return raw
}
