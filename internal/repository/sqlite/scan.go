package sqlite

import (
	"fmt"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// nullTime scans the loosely typed timestamp columns SQLite hands back:
// time.Time, text in several layouts, or unix seconds.
type nullTime struct {
	t *time.Time
}

func (n *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.t = nil
		return nil
	case time.Time:
		n.t = &v
		return nil
	case int64:
		t := time.Unix(v, 0).UTC()
		n.t = &t
		return nil
	case float64:
		t := time.Unix(int64(v), 0).UTC()
		n.t = &t
		return nil
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
}

func (n *nullTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		n.t = nil
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.t = &t
			return nil
		}
	}
	return fmt.Errorf("unrecognised time %q", s)
}
