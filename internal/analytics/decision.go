package analytics

import "strings"

type Decision string

const (
	Accepted   Decision = "Accepted"
	Rejected   Decision = "Rejected"
	NoDecision Decision = "No Decision"
)

// decisionOrder is the display order for decision counts.
var decisionOrder = []Decision{Accepted, Rejected, NoDecision}

const (
	acceptKey = "a"
	rejectKey = "q"
)

// Classify derives a video's decision from its raw key presses. Keys are
// compared case-insensitively and an accept key wins over a reject key.
func Classify(keys []*string) Decision {
	if len(keys) == 0 {
		return NoDecision
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == nil {
			continue
		}
		seen[strings.ToLower(*k)] = true
	}

	if seen[acceptKey] {
		return Accepted
	}
	if seen[rejectKey] {
		return Rejected
	}
	return NoDecision
}
