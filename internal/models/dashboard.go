package models

import "time"

// Section states. Empty means the data was fetched but nothing survived the
// filters; unavailable means the fetch itself failed.
const (
	SectionOK          = "ok"
	SectionEmpty       = "empty"
	SectionUnavailable = "unavailable"
)

// Chart hints for the rendering layer.
const (
	ChartPie       = "pie"
	ChartBar       = "bar"
	ChartLine      = "line"
	ChartHistogram = "histogram"
	ChartMetric    = "metric"
	ChartTable     = "table"
)

type Section[T any] struct {
	Title   string `json:"title"`
	Chart   string `json:"chart"`
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

type SelectionView struct {
	User    string `json:"user"`
	Session string `json:"session"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

type Dashboard struct {
	Selection        SelectionView             `json:"selection"`
	Warnings         []string                  `json:"warnings"`
	GeneratedAt      time.Time                 `json:"generated_at"`
	ExportAvailable  bool                      `json:"export_available"`
	Summary          Section[VideoSummary]     `json:"summary"`
	Status           Section[[]LabelCount]     `json:"status_distribution"`
	SessionDurations Section[DurationView]     `json:"session_durations"`
	IdleTime         Section[IdleView]         `json:"idle_time"`
	UniqueVideos     Section[UniqueVideosView] `json:"unique_videos"`
	Decisions        Section[[]LabelCount]     `json:"decisions"`
	SoundStatus      Section[SoundStatusView]  `json:"sound_status"`
	AverageSpeed     Section[[]SessionSpeed]   `json:"average_speed"`
	QueueTotals      Section[[]QueueTotal]     `json:"queue_totals"`
	SubQueues        Section[SubQueueView]     `json:"subqueues"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type LabelShare struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type VideoSummary struct {
	Rows         int      `json:"rows"`
	Sessions     int      `json:"sessions"`
	UniqueVideos int      `json:"unique_videos"`
	Watched      int      `json:"watched"`
	NotWatched   int      `json:"not_watched"`
	MeanLoopTime *float64 `json:"mean_loop_time"`
}

type SessionDuration struct {
	SessionNumber int      `json:"session_number"`
	SessionID     string   `json:"session_id"`
	Duration      *float64 `json:"duration"`
	Bin           string   `json:"bin,omitempty"`
	Binned        bool     `json:"binned"`
}

type DurationView struct {
	Sessions []SessionDuration `json:"sessions"`
	Bins     []LabelCount      `json:"bins"`
	Unbinned int               `json:"unbinned"`
}

type IdleTypeStat struct {
	Type         string  `json:"type"`
	Count        int     `json:"count"`
	TotalSeconds float64 `json:"total_seconds"`
	MeanSeconds  float64 `json:"mean_seconds"`
}

type HistogramBucket struct {
	Lower  float64        `json:"lower"`
	Upper  float64        `json:"upper"`
	Counts map[string]int `json:"counts"`
}

type IdleView struct {
	ByType    []IdleTypeStat    `json:"by_type"`
	Histogram []HistogramBucket `json:"histogram"`
}

type SessionVideoCount struct {
	SessionNumber int    `json:"session_number"`
	SessionID     string `json:"session_id"`
	UniqueVideos  int    `json:"unique_videos"`
}

type UniqueVideosView struct {
	Total      int                 `json:"total"`
	PerSession []SessionVideoCount `json:"per_session"`
}

type SoundStatusView struct {
	Total  int          `json:"total"`
	Labels []LabelShare `json:"labels"`
}

type SessionSpeed struct {
	SessionNumber int     `json:"session_number"`
	SessionID     string  `json:"session_id"`
	AverageSpeed  float64 `json:"average_speed"`
	Samples       int     `json:"samples"`
}

type QueueTotal struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

type SubQueueCount struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Count       int64  `json:"count"`
}

type SubQueueView struct {
	SessionID string          `json:"session_id,omitempty"`
	QueueName string          `json:"queue_name,omitempty"`
	Items     []SubQueueCount `json:"items"`
}
