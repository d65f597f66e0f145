package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"modreview-dashboard/internal/analytics"
	"modreview-dashboard/internal/models"
)

// ActivityRepo reads the activity tables from Postgres.
type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

var _ Store = (*ActivityRepo)(nil)

func (r *ActivityRepo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *ActivityRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id::text, name FROM users WHERE name IS NOT NULL ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
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

func (r *ActivityRepo) ListSessions(ctx context.Context, username string) ([]models.Session, error) {
	query := `SELECT s.id::text, u.name, s.starttime, s.endtime, s.duration::float8
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE u.name = $1
		ORDER BY s.starttime DESC NULLS LAST, s.id`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", username, err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.Username, &s.StartTime, &s.EndTime, &s.Duration); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *ActivityRepo) ListVideos(ctx context.Context) ([]models.VideoRow, error) {
	query := `SELECT u.name, s.id::text, s.starttime, s.endtime, s.duration::float8,
			v.status::text, v.watched, v.loop_time::float8, COALESCE(v.video_id::text, ''),
			v.sound_muted::text,
			COALESCE(array_agg(k.key_value::text) FILTER (WHERE k.video_id IS NOT NULL), '{}')
		FROM videos v
		JOIN sessions s ON s.id = v.session_id
		JOIN users u ON u.id = s.user_id
		LEFT JOIN video_keys k ON k.video_id = v.id
		GROUP BY u.name, s.id, v.id
		ORDER BY s.starttime NULLS LAST, s.id, v.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos := []models.VideoRow{}
	for rows.Next() {
		var v models.VideoRow
		err := rows.Scan(
			&v.Username, &v.SessionID, &v.SessionStart, &v.SessionEnd, &v.SessionDuration,
			&v.Status, &v.Watched, &v.LoopTime, &v.VideoID, &v.SoundMuted, &v.Keys,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *ActivityRepo) ListIdleEvents(ctx context.Context) ([]models.IdleRow, error) {
	query := `SELECT u.name, s.id::text, s.starttime, i.type::text, i.duration::float8
		FROM inactivity i
		JOIN sessions s ON s.id = i.session_id
		JOIN users u ON u.id = s.user_id
		ORDER BY s.starttime NULLS LAST, s.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list idle events: %w", err)
	}
	defer rows.Close()

	events := []models.IdleRow{}
	for rows.Next() {
		var e models.IdleRow
		if err := rows.Scan(&e.Username, &e.SessionID, &e.SessionStart, &e.Type, &e.Duration); err != nil {
			return nil, fmt.Errorf("scan idle event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *ActivityRepo) ListSpeeds(ctx context.Context) ([]models.SpeedRow, error) {
	query := `SELECT u.name, s.id::text, COALESCE(v.video_id::text, ''), vs.speed_value::float8, vs.created_at
		FROM video_speeds vs
		JOIN videos v ON v.id = vs.video_id
		JOIN sessions s ON s.id = v.session_id
		JOIN users u ON u.id = s.user_id
		ORDER BY vs.created_at NULLS LAST`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list speeds: %w", err)
	}
	defer rows.Close()

	speeds := []models.SpeedRow{}
	for rows.Next() {
		var s models.SpeedRow
		if err := rows.Scan(&s.Username, &s.SessionID, &s.VideoID, &s.Speed, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan speed: %w", err)
		}
		speeds = append(speeds, s)
	}
	return speeds, rows.Err()
}

func (r *ActivityRepo) ListQueues(ctx context.Context) ([]models.QueueRow, error) {
	query := `SELECT u.name, s.id::text, COALESCE(q.name, ''), q.main_queue_count::bigint,
			q.subqueues::text, q.subqueue_counts::text, q.active, q.created_at
		FROM queues q
		JOIN sessions s ON s.id = q.session_id
		JOIN users u ON u.id = s.user_id
		WHERE q.active
		ORDER BY q.created_at DESC NULLS LAST`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list queues: %w", err)
	}
	defer rows.Close()

	return collectQueues(rows)
}

func collectQueues(rows pgx.Rows) ([]models.QueueRow, error) {
	queues := []models.QueueRow{}
	for rows.Next() {
		var (
			q                       models.QueueRow
			subQueues, subQueueCnts *string
		)
		err := rows.Scan(&q.Username, &q.SessionID, &q.Name, &q.MainQueueCount,
			&subQueues, &subQueueCnts, &q.Active, &q.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan queue: %w", err)
		}
		q.SubQueues = analytics.ParseQueueField(subQueues)
		q.SubQueueCounts = analytics.ParseQueueField(subQueueCnts)
		queues = append(queues, q)
	}
	return queues, rows.Err()
}
