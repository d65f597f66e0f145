package models

import "time"

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Session struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Duration  *float64   `json:"duration"`
}

// VideoRow is one video flattened together with its owning session and user.
type VideoRow struct {
	Username        string     `json:"username"`
	SessionID       string     `json:"session_id"`
	SessionStart    *time.Time `json:"session_start"`
	SessionEnd      *time.Time `json:"session_end"`
	SessionDuration *float64   `json:"session_duration"`
	Status          *string    `json:"status"`
	Watched         *bool      `json:"watched"`
	LoopTime        *float64   `json:"loop_time"`
	VideoID         string     `json:"video_id"`
	SoundMuted      *string    `json:"sound_muted"`
	Keys            []*string  `json:"keys"`
}

func (v VideoRow) OwnerName() string    { return v.Username }
func (v VideoRow) OwnerSession() string { return v.SessionID }

func (v VideoRow) ReferenceTime() (time.Time, bool) {
	if v.SessionStart == nil {
		return time.Time{}, false
	}
	return *v.SessionStart, true
}

// IdleRow carries the owning session's start time since inactivity events
// have no timestamp of their own.
type IdleRow struct {
	Username     string     `json:"username"`
	SessionID    string     `json:"session_id"`
	SessionStart *time.Time `json:"session_start"`
	Type         *string    `json:"idle_type"`
	Duration     *float64   `json:"idle_duration"`
}

func (i IdleRow) OwnerName() string    { return i.Username }
func (i IdleRow) OwnerSession() string { return i.SessionID }

func (i IdleRow) ReferenceTime() (time.Time, bool) {
	if i.SessionStart == nil {
		return time.Time{}, false
	}
	return *i.SessionStart, true
}

type SpeedRow struct {
	Username  string     `json:"username"`
	SessionID string     `json:"session_id"`
	VideoID   string     `json:"video_id"`
	Speed     *float64   `json:"speed"`
	CreatedAt *time.Time `json:"created_at"`
}

func (s SpeedRow) OwnerName() string    { return s.Username }
func (s SpeedRow) OwnerSession() string { return s.SessionID }

func (s SpeedRow) ReferenceTime() (time.Time, bool) {
	if s.CreatedAt == nil {
		return time.Time{}, false
	}
	return *s.CreatedAt, true
}

type QueueRow struct {
	Username       string     `json:"username"`
	SessionID      string     `json:"session_id"`
	Name           string     `json:"name"`
	MainQueueCount *int64     `json:"main_queue_count"`
	SubQueues      QueueField `json:"subqueues"`
	SubQueueCounts QueueField `json:"subqueue_counts"`
	Active         bool       `json:"active"`
	CreatedAt      *time.Time `json:"created_at"`
}

func (q QueueRow) OwnerName() string    { return q.Username }
func (q QueueRow) OwnerSession() string { return q.SessionID }

func (q QueueRow) ReferenceTime() (time.Time, bool) {
	if q.CreatedAt == nil {
		return time.Time{}, false
	}
	return *q.CreatedAt, true
}
