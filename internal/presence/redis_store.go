package presence

import (
	"careers-page-builder/internal/domain"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one sorted set per company, scored by heartbeat time in
// milliseconds, and a hash of user emails next to it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore expires idle company keys after ttl; pass a value well above
// the presence window.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &RedisStore{client: client, ttl: ttl}
}

func editorsKey(companyID uint64) string {
	return fmt.Sprintf("presence:company:%d", companyID)
}

func emailsKey(companyID uint64) string {
	return fmt.Sprintf("presence:company:%d:emails", companyID)
}

func (s *RedisStore) Touch(ctx context.Context, editor domain.ActiveEditor) error {
	member := strconv.FormatUint(editor.UserID, 10)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, editorsKey(editor.CompanyID), redis.Z{
			Score:  float64(editor.LastHeartbeat.UnixMilli()),
			Member: member,
		})
		pipe.HSet(ctx, emailsKey(editor.CompanyID), member, editor.UserEmail)
		pipe.Expire(ctx, editorsKey(editor.CompanyID), s.ttl)
		pipe.Expire(ctx, emailsKey(editor.CompanyID), s.ttl)
		return nil
	})
	return err
}

func (s *RedisStore) ListActive(ctx context.Context, companyID, excludeUserID uint64, since time.Time) ([]domain.ActiveEditor, error) {
	entries, err := s.client.ZRevRangeByScoreWithScores(ctx, editorsKey(companyID), &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []domain.ActiveEditor{}, nil
	}

	members := make([]string, 0, len(entries))
	for _, e := range entries {
		members = append(members, e.Member.(string))
	}
	emails, err := s.client.HMGet(ctx, emailsKey(companyID), members...).Result()
	if err != nil {
		return nil, err
	}

	editors := make([]domain.ActiveEditor, 0, len(entries))
	for i, e := range entries {
		userID, err := strconv.ParseUint(members[i], 10, 64)
		if err != nil || userID == excludeUserID {
			continue
		}
		email, _ := emails[i].(string)
		editors = append(editors, domain.ActiveEditor{
			CompanyID:     companyID,
			UserID:        userID,
			UserEmail:     email,
			LastHeartbeat: time.UnixMilli(int64(e.Score)).UTC(),
		})
	}
	return editors, nil
}

func (s *RedisStore) Remove(ctx context.Context, companyID, userID uint64) error {
	member := strconv.FormatUint(userID, 10)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, editorsKey(companyID), member)
		pipe.HDel(ctx, emailsKey(companyID), member)
		return nil
	})
	return err
}
