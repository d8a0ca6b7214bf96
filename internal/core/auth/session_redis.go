package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"doggy-rescue/internal/domain"
)

// RedisSessionStore keeps sessions under "sess:<id>" with a TTL, so expiry
// is handled by redis and PruneExpired has nothing to do.
type RedisSessionStore struct {
	RDB    *redis.Client
	Prefix string
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{RDB: rdb, Prefix: "sess:"}
}

func (s *RedisSessionStore) Save(ctx context.Context, sess Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.RDB.Set(ctx, s.Prefix+sess.ID, b, ttl).Err(); err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (Session, error) {
	b, err := s.RDB.Get(ctx, s.Prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, domain.ErrNotFound
	}
	if err != nil {
		return Session{}, domain.Unavailable(err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.RDB.Del(ctx, s.Prefix+id).Err(); err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

func (s *RedisSessionStore) PruneExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
