package analytics

import "time"

// All is the selection sentinel meaning "no restriction".
const All = "ALL"

const DateLayout = "2006-01-02"

// Rows opt in to each filter stage by implementing the matching interface.
// A dataset without the column simply skips that stage.
type (
	userScoped    interface{ OwnerName() string }
	sessionScoped interface{ OwnerSession() string }
	timestamped   interface {
		ReferenceTime() (time.Time, bool)
	}
)

// Selection is the user → session → date filter applied to every dataset.
// It is a value: build a new one for every change of selection.
type Selection struct {
	user    string
	session string
	start   *time.Time
	end     *time.Time
}

// NewSelection normalises empty user or session values to All and truncates
// the bounds to calendar dates.
func NewSelection(user, session string, start, end *time.Time) Selection {
	if user == "" {
		user = All
	}
	if session == "" {
		session = All
	}
	return Selection{
		user:    user,
		session: session,
		start:   dateOnly(start),
		end:     dateOnly(end),
	}
}

func (s Selection) User() string    { return s.user }
func (s Selection) Session() string { return s.session }

func (s Selection) Start() *time.Time { return copyTime(s.start) }
func (s Selection) End() *time.Time   { return copyTime(s.end) }

// WithDates returns a copy of s with the given bounds.
func (s Selection) WithDates(start, end *time.Time) Selection {
	return NewSelection(s.user, s.session, start, end)
}

func (s Selection) UserSelected() bool {
	return s.user != All
}

// SessionSelected reports whether the session stage is active. Sessions are
// scoped to a user, so picking All users disables it.
func (s Selection) SessionSelected() bool {
	return s.UserSelected() && s.session != All
}

func (s Selection) DateBounded() bool {
	return s.start != nil && s.end != nil
}

// Inverted reports a start date after the end date.
func (s Selection) Inverted() bool {
	return s.DateBounded() && s.start.After(*s.end)
}

// Matches runs the cascade on a single row.
func (s Selection) Matches(row any) bool {
	if s.UserSelected() {
		if u, ok := row.(userScoped); ok && u.OwnerName() != s.user {
			return false
		}
	}

	if s.SessionSelected() {
		if ss, ok := row.(sessionScoped); ok && ss.OwnerSession() != s.session {
			return false
		}
	}

	if s.DateBounded() {
		if ts, ok := row.(timestamped); ok {
			t, present := ts.ReferenceTime()
			if !present {
				return false
			}
			day := dateOnly(&t)
			if day.Before(*s.start) || day.After(*s.end) {
				return false
			}
		}
	}

	return true
}

// Apply returns the rows of a dataset that pass the cascade, in their
// original order. The input slice is not modified.
func Apply[T any](sel Selection, rows []T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if sel.Matches(row) {
			out = append(out, row)
		}
	}
	return out
}

// Earliest returns the earliest reference time among rows, or nil when no
// row carries one.
func Earliest[T any](rows []T) *time.Time {
	var earliest *time.Time
	for _, row := range rows {
		ts, ok := any(row).(timestamped)
		if !ok {
			return nil
		}
		t, present := ts.ReferenceTime()
		if present && (earliest == nil || t.Before(*earliest)) {
			earliest = &t
		}
	}
	return earliest
}

// ParseDate parses a YYYY-MM-DD bound. An empty string is an unset bound.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
