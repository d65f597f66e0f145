package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	gojson "github.com/goccy/go-json"

	"modreview-dashboard/internal/analytics"
	"modreview-dashboard/internal/models"
	"modreview-dashboard/internal/repository"
)

// Store implements repository.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT CAST(id AS TEXT), name FROM users WHERE name IS NOT NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) ListSessions(ctx context.Context, username string) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT CAST(s.id AS TEXT), u.name, s.starttime, s.endtime, s.duration
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE u.name = ?
		 ORDER BY s.starttime IS NULL, s.starttime DESC, s.id`, username)
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", username, err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var (
			sess       models.Session
			start, end nullTime
		)
		if err := rows.Scan(&sess.ID, &sess.Username, &start, &end, &sess.Duration); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartTime, sess.EndTime = start.t, end.t
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *Store) ListVideos(ctx context.Context) ([]models.VideoRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.name, CAST(s.id AS TEXT), s.starttime, s.endtime, s.duration,
		 CAST(v.status AS TEXT), v.watched, v.loop_time, COALESCE(CAST(v.video_id AS TEXT), ''),
		 CAST(v.sound_muted AS TEXT),
		 (SELECT json_group_array(CAST(k.key_value AS TEXT)) FROM video_keys k WHERE k.video_id = v.id)
		 FROM videos v
		 JOIN sessions s ON s.id = v.session_id
		 JOIN users u ON u.id = s.user_id
		 ORDER BY s.starttime IS NULL, s.starttime, s.id, v.id`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos := []models.VideoRow{}
	for rows.Next() {
		var (
			v          models.VideoRow
			start, end nullTime
			keys       sql.NullString
		)
		err := rows.Scan(&v.Username, &v.SessionID, &start, &end, &v.SessionDuration,
			&v.Status, &v.Watched, &v.LoopTime, &v.VideoID, &v.SoundMuted, &keys)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.SessionStart, v.SessionEnd = start.t, end.t

		v.Keys = []*string{}
		if keys.Valid {
			if err := gojson.Unmarshal([]byte(keys.String), &v.Keys); err != nil {
				return nil, fmt.Errorf("decode keys of video %s: %w", v.VideoID, err)
			}
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (s *Store) ListIdleEvents(ctx context.Context) ([]models.IdleRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.name, CAST(s.id AS TEXT), s.starttime, CAST(i.type AS TEXT), i.duration
		 FROM inactivity i
		 JOIN sessions s ON s.id = i.session_id
		 JOIN users u ON u.id = s.user_id
		 ORDER BY s.starttime IS NULL, s.starttime, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list idle events: %w", err)
	}
	defer rows.Close()

	events := []models.IdleRow{}
	for rows.Next() {
		var (
			e     models.IdleRow
			start nullTime
		)
		if err := rows.Scan(&e.Username, &e.SessionID, &start, &e.Type, &e.Duration); err != nil {
			return nil, fmt.Errorf("scan idle event: %w", err)
		}
		e.SessionStart = start.t
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) ListSpeeds(ctx context.Context) ([]models.SpeedRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.name, CAST(s.id AS TEXT), COALESCE(CAST(v.video_id AS TEXT), ''), vs.speed_value, vs.created_at
		 FROM video_speeds vs
		 JOIN videos v ON v.id = vs.video_id
		 JOIN sessions s ON s.id = v.session_id
		 JOIN users u ON u.id = s.user_id
		 ORDER BY vs.created_at IS NULL, vs.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list speeds: %w", err)
	}
	defer rows.Close()

	speeds := []models.SpeedRow{}
	for rows.Next() {
		var (
			sp      models.SpeedRow
			created nullTime
		)
		if err := rows.Scan(&sp.Username, &sp.SessionID, &sp.VideoID, &sp.Speed, &created); err != nil {
			return nil, fmt.Errorf("scan speed: %w", err)
		}
		sp.CreatedAt = created.t
		speeds = append(speeds, sp)
	}
	return speeds, rows.Err()
}

func (s *Store) ListQueues(ctx context.Context) ([]models.QueueRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.name, CAST(s.id AS TEXT), COALESCE(q.name, ''), q.main_queue_count,
		 CAST(q.subqueues AS TEXT), CAST(q.subqueue_counts AS TEXT), q.active, q.created_at
		 FROM queues q
		 JOIN sessions s ON s.id = q.session_id
		 JOIN users u ON u.id = s.user_id
		 WHERE q.active
		 ORDER BY q.created_at IS NULL, q.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list queues: %w", err)
	}
	defer rows.Close()

	queues := []models.QueueRow{}
	for rows.Next() {
		var (
			q                    models.QueueRow
			subQueues, subCounts *string
			created              nullTime
		)
		err := rows.Scan(&q.Username, &q.SessionID, &q.Name, &q.MainQueueCount,
			&subQueues, &subCounts, &q.Active, &created)
		if err != nil {
			return nil, fmt.Errorf("scan queue: %w", err)
		}
		q.SubQueues = analytics.ParseQueueField(subQueues)
		q.SubQueueCounts = analytics.ParseQueueField(subCounts)
		q.CreatedAt = created.t
		queues = append(queues, q)
	}
	return queues, rows.Err()
}
