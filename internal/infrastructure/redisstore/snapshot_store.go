package redisstore

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	"github.com/soulpet-ai/soulpet-api/internal/domain/repository"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

const snapshotPrefix = "companion:user:"

// SnapshotStore keeps each User aggregate as a single JSON value in
// Redis, no TTL. Writes are whole-aggregate; the blob is small enough
// that batching is not worth it.
type SnapshotStore struct {
	rdb *redis.Client
}

func NewSnapshotStore(rdb *redis.Client) *SnapshotStore {
	return &SnapshotStore{rdb: rdb}
}

func snapshotKey(userID string) string {
	return snapshotPrefix + userID
}

func (s *SnapshotStore) Load(ctx context.Context, userID string) (*entity.User, error) {
	var u entity.User
	found, err := helpers.RedisGetJSON(ctx, s.rdb, snapshotKey(userID), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

func (s *SnapshotStore) Save(ctx context.Context, u *entity.User) error {
	return helpers.RedisSetJSON(ctx, s.rdb, snapshotKey(u.ID), u, 0)
}

func (s *SnapshotStore) Remove(ctx context.Context, userID string) error {
	return helpers.RedisDel(ctx, s.rdb, snapshotKey(userID))
}

// UserIDs scans the keyspace for persisted snapshots. SCAN keeps the
// sweep from blocking Redis the way KEYS would.
func (s *SnapshotStore) UserIDs(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, snapshotPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			ids = append(ids, strings.TrimPrefix(k, snapshotPrefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}

var _ repository.SnapshotStore = (*SnapshotStore)(nil)
