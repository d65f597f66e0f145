package repository

import (
	"context"
	"errors"

	"modreview-dashboard/internal/models"
)

// ErrStoreUnavailable marks a failure that prevents any dashboard from being
// built: the store can't be reached or the video dataset can't be read.
var ErrStoreUnavailable = errors.New("activity store unavailable")

// Store is the read-only view of the activity database. Every List method
// returns flat rows already joined to their owning session and user; rows
// whose ownership can't be resolved are dropped by the join.
type Store interface {
	Ping(ctx context.Context) error
	ListUsers(ctx context.Context) ([]models.User, error)
	ListSessions(ctx context.Context, username string) ([]models.Session, error)
	ListVideos(ctx context.Context) ([]models.VideoRow, error)
	ListIdleEvents(ctx context.Context) ([]models.IdleRow, error)
	ListSpeeds(ctx context.Context) ([]models.SpeedRow, error)
	// ListQueues returns active snapshots only, newest first.
	ListQueues(ctx context.Context) ([]models.QueueRow, error)
}
