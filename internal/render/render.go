// Package render draws dashboard sections as plain terminal text.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"modreview-dashboard/internal/models"
)

// BarWidth is the width of the longest bar in a bar chart.
const BarWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentBright))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Border(lipgloss.DoubleBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color(ColorAccentMain))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMutedText)).Italic(true)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
)

// Dashboard renders every section of d in page order.
func Dashboard(d *models.Dashboard) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Moderation Activity Dashboard"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(selectionLine(d.Selection)))
	b.WriteString("\n")
	for _, w := range d.Warnings {
		b.WriteString(warnStyle.Render("! " + w))
		b.WriteString("\n")
	}

	blocks := []string{
		section(d.Summary, summary),
		section(d.Status, labelCounts),
		section(d.SessionDurations, durations),
		section(d.IdleTime, idle),
		section(d.UniqueVideos, uniqueVideos),
		section(d.Decisions, labelCounts),
		section(d.SoundStatus, soundStatus),
		section(d.AverageSpeed, speeds),
		section(d.QueueTotals, queueTotals),
		section(d.SubQueues, subQueues),
	}
	for _, block := range blocks {
		b.WriteString("\n")
		b.WriteString(block)
	}
	return b.String()
}

// List renders a titled bullet list.
func List(title string, items []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("  • " + item + "\n")
	}
	return b.String()
}

// Success renders a one-line confirmation.
func Success(msg string) string {
	return okStyle.Render("✓ " + msg)
}

func selectionLine(s models.SelectionView) string {
	line := fmt.Sprintf("user: %s   session: %s", s.User, s.Session)
	if s.Start != "" || s.End != "" {
		line += fmt.Sprintf("   dates: %s → %s", s.Start, s.End)
	}
	return line
}

func section[T any](s models.Section[T], body func(T) string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title))
	b.WriteString("\n")

	switch s.State {
	case models.SectionUnavailable:
		b.WriteString(errorStyle.Render("  " + s.Message))
		b.WriteString("\n")
	case models.SectionEmpty:
		b.WriteString(mutedStyle.Render("  " + s.Message))
		b.WriteString("\n")
	default:
		b.WriteString(body(s.Data))
	}
	return b.String()
}

func summary(v models.VideoSummary) string {
	loop := "n/a"
	if v.MeanLoopTime != nil {
		loop = fmt.Sprintf("%.1fs", *v.MeanLoopTime)
	}
	return table([][2]string{
		{"Rows", fmt.Sprint(v.Rows)},
		{"Sessions", fmt.Sprint(v.Sessions)},
		{"Unique videos", fmt.Sprint(v.UniqueVideos)},
		{"Watched", fmt.Sprint(v.Watched)},
		{"Not watched", fmt.Sprint(v.NotWatched)},
		{"Mean loop time", loop},
	})
}

func labelCounts(counts []models.LabelCount) string {
	rows := make([]barRow, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, barRow{label: c.Label, value: float64(c.Count), text: fmt.Sprint(c.Count)})
	}
	return bars(rows)
}

func durations(v models.DurationView) string {
	out := labelCounts(v.Bins)
	if v.Unbinned > 0 {
		out += mutedStyle.Render(fmt.Sprintf("  %d session(s) outside every bin", v.Unbinned)) + "\n"
	}
	return out
}

func idle(v models.IdleView) string {
	rows := make([]barRow, 0, len(v.ByType))
	for _, s := range v.ByType {
		rows = append(rows, barRow{
			label: s.Type,
			value: s.TotalSeconds,
			text:  fmt.Sprintf("%.0fs total, %d events, %.1fs mean", s.TotalSeconds, s.Count, s.MeanSeconds),
		})
	}
	out := bars(rows)

	hist := make([]barRow, 0, len(v.Histogram))
	for _, bucket := range v.Histogram {
		n := 0
		for _, c := range bucket.Counts {
			n += c
		}
		hist = append(hist, barRow{
			label: fmt.Sprintf("%.0f–%.0fs", bucket.Lower, bucket.Upper),
			value: float64(n),
			text:  fmt.Sprint(n),
		})
	}
	if len(hist) > 0 {
		out += labelStyle.Render("  Histogram") + "\n" + bars(hist)
	}
	return out
}

func uniqueVideos(v models.UniqueVideosView) string {
	rows := make([]barRow, 0, len(v.PerSession))
	for _, s := range v.PerSession {
		rows = append(rows, barRow{
			label: fmt.Sprintf("Session %d", s.SessionNumber),
			value: float64(s.UniqueVideos),
			text:  fmt.Sprint(s.UniqueVideos),
		})
	}
	return table([][2]string{{"Total unique videos", fmt.Sprint(v.Total)}}) + bars(rows)
}

func soundStatus(v models.SoundStatusView) string {
	rows := make([]barRow, 0, len(v.Labels))
	for _, l := range v.Labels {
		rows = append(rows, barRow{
			label: l.Label,
			value: l.Percent,
			text:  fmt.Sprintf("%d (%.1f%%)", l.Count, l.Percent),
		})
	}
	return bars(rows)
}

func speeds(v []models.SessionSpeed) string {
	rows := make([]barRow, 0, len(v))
	for _, s := range v {
		rows = append(rows, barRow{
			label: fmt.Sprintf("Session %d", s.SessionNumber),
			value: s.AverageSpeed,
			text:  fmt.Sprintf("%.2fx", s.AverageSpeed),
		})
	}
	return bars(rows)
}

func queueTotals(v []models.QueueTotal) string {
	rows := make([]barRow, 0, len(v))
	for _, q := range v {
		rows = append(rows, barRow{label: q.Name, value: float64(q.Total), text: fmt.Sprint(q.Total)})
	}
	return bars(rows)
}

func subQueues(v models.SubQueueView) string {
	items := make([]models.SubQueueCount, len(v.Items))
	copy(items, v.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })

	pairs := make([][2]string, 0, len(items))
	for _, item := range items {
		pairs = append(pairs, [2]string{item.DisplayName, fmt.Sprint(item.Count)})
	}
	return table(pairs)
}

type barRow struct {
	label string
	value float64
	text  string
}

func bars(rows []barRow) string {
	labelWidth, top := 0, 0.0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.label))
		top = max(top, r.value)
	}

	var b strings.Builder
	for _, r := range rows {
		n := 0
		if top > 0 {
			n = int(r.value / top * BarWidth)
		}
		if n == 0 && r.value > 0 {
			n = 1
		}
		label := labelStyle.Width(labelWidth).Render(r.label)
		fmt.Fprintf(&b, "  %s %s %s\n", label, barStyle.Render(strings.Repeat("█", n)), r.text)
	}
	return b.String()
}

func table(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}

	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "  %s  %s\n", labelStyle.Width(width).Render(p[0]), p[1])
	}
	return b.String()
}
