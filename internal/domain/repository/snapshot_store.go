package repository

import (
	"context"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

// SnapshotStore persists the whole User aggregate as one JSON blob per
// user key. Every mutation writes the full aggregate; reads return
// (nil, nil) when no snapshot exists.
type SnapshotStore interface {
	Load(ctx context.Context, userID string) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, userID string) error
	// UserIDs lists the ids of all persisted snapshots, for the
	// background decay sweep.
	UserIDs(ctx context.Context) ([]string, error)
}
