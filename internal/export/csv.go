// Package export writes the filtered video table as comma-separated text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"

	"modreview-dashboard/internal/analytics"
	"modreview-dashboard/internal/models"
)

// Columns is the header row, in output order.
var Columns = []string{
	"username",
	"session_id",
	"session_start",
	"session_end",
	"session_duration",
	"status",
	"watched",
	"loop_time",
	"video_id",
	"sound_muted",
	"keys",
	"decision",
}

const ContentType = "text/csv; charset=utf-8"

// Filename builds the attachment name for a selection, e.g.
// videos_alice_2024-03-01_2024-03-31.csv.
func Filename(sel analytics.Selection) string {
	name := "videos_" + sel.User()
	if sel.SessionSelected() {
		name += "_" + sel.Session()
	}
	if sel.DateBounded() {
		name += "_" + analytics.FormatDate(sel.Start()) + "_" + analytics.FormatDate(sel.End())
	}
	return sanitize(name) + ".csv"
}

func sanitize(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// WriteVideos writes a header and one record per row. Missing values are
// written as empty fields. Keys are a JSON array so tokens containing commas
// survive a round trip.
func WriteVideos(w io.Writer, rows []models.VideoRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		keys, err := gojson.Marshal(row.Keys)
		if err != nil {
			return fmt.Errorf("encode keys of video %s: %w", row.VideoID, err)
		}
		if row.Keys == nil {
			keys = []byte("[]")
		}

		record := []string{
			row.Username,
			row.SessionID,
			formatTime(row.SessionStart),
			formatTime(row.SessionEnd),
			formatFloat(row.SessionDuration),
			deref(row.Status),
			formatBool(row.Watched),
			formatFloat(row.LoopTime),
			row.VideoID,
			deref(row.SoundMuted),
			string(keys),
			string(analytics.Classify(row.Keys)),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write video %s: %w", row.VideoID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Table is a parsed export: the header and the records under it.
type Table struct {
	Header  []string
	Records [][]string
}

// ReadTable parses an export back into records. Every record must have as
// many fields as the header.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cr.FieldsPerRecord = len(header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return &Table{Header: header, Records: records}, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
