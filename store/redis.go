package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the production [UserStore]. Records are stored as JSON under
// per-user keys with secondary email/phone index keys; one-shot tokens
// ride Redis TTLs and are consumed with GETDEL.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed store. The prefix namespaces every key;
// it defaults to "authkit" when empty.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "authkit"
	}
	return &Redis{
		client: client,
		prefix: prefix,
	}
}

func (r *Redis) userKey(id string) string      { return fmt.Sprintf("%s:user:%s", r.prefix, id) }
func (r *Redis) emailKey(email string) string  { return fmt.Sprintf("%s:email:%s", r.prefix, email) }
func (r *Redis) phoneKey(phone string) string  { return fmt.Sprintf("%s:phone:%s", r.prefix, phone) }
func (r *Redis) verifyKey(token string) string { return fmt.Sprintf("%s:verify:%s", r.prefix, token) }
func (r *Redis) resetKey(token string) string  { return fmt.Sprintf("%s:reset:%s", r.prefix, token) }

func mapRedisErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (r *Redis) GetByID(ctx context.Context, id string) (Record, error) {
	data, err := r.client.Get(ctx, r.userKey(id)).Bytes()
	if err != nil {
		return Record{}, mapRedisErr(err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: corrupt record %s", ErrUnavailable, id)
	}
	return rec, nil
}

func (r *Redis) GetByEmail(ctx context.Context, email string) (Record, error) {
	id, err := r.client.Get(ctx, r.emailKey(email)).Result()
	if err != nil {
		return Record{}, mapRedisErr(err)
	}
	return r.GetByID(ctx, id)
}

func (r *Redis) Create(ctx context.Context, rec Record) error {
	// The email index doubles as the uniqueness claim: SETNX either wins
	// the email or reports a duplicate.
	claimed, err := r.client.SetNX(ctx, r.emailKey(rec.Email), rec.ID, 0).Result()
	if err != nil {
		return mapRedisErr(err)
	}
	if !claimed {
		return ErrDuplicate
	}

	if rec.Phone != "" {
		claimed, err = r.client.SetNX(ctx, r.phoneKey(rec.Phone), rec.ID, 0).Result()
		if err != nil || !claimed {
			_ = r.client.Del(context.WithoutCancel(ctx), r.emailKey(rec.Email)).Err()
			if err != nil {
				return mapRedisErr(err)
			}
			return ErrDuplicate
		}
	}

	if err := r.writeRecord(ctx, rec); err != nil {
		_ = r.client.Del(context.WithoutCancel(ctx), r.emailKey(rec.Email)).Err()
		if rec.Phone != "" {
			_ = r.client.Del(context.WithoutCancel(ctx), r.phoneKey(rec.Phone)).Err()
		}
		return err
	}
	return nil
}

func (r *Redis) Update(ctx context.Context, rec Record) error {
	old, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}

	if err := r.writeRecord(ctx, rec); err != nil {
		return err
	}

	// Secondary indexes follow the record; stale entries are removed
	// after the new ones exist so lookups never miss.
	pipe := r.client.Pipeline()
	if old.Email != rec.Email {
		pipe.Set(ctx, r.emailKey(rec.Email), rec.ID, 0)
		pipe.Del(ctx, r.emailKey(old.Email))
	}
	if old.Phone != rec.Phone {
		if rec.Phone != "" {
			pipe.Set(ctx, r.phoneKey(rec.Phone), rec.ID, 0)
		}
		if old.Phone != "" {
			pipe.Del(ctx, r.phoneKey(old.Phone))
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return mapRedisErr(err)
	}
	return nil
}

func (r *Redis) writeRecord(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", ErrUnavailable, err)
	}
	if err := r.client.Set(ctx, r.userKey(rec.ID), data, 0).Err(); err != nil {
		return mapRedisErr(err)
	}
	return nil
}

func (r *Redis) PutVerificationToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return mapRedisErr(r.client.Set(ctx, r.verifyKey(token), userID, ttl).Err())
}

func (r *Redis) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.GetDel(ctx, r.verifyKey(token)).Result()
	if err != nil {
		return "", mapRedisErr(err)
	}
	return userID, nil
}

func (r *Redis) PutResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return mapRedisErr(r.client.Set(ctx, r.resetKey(token), userID, ttl).Err())
}

func (r *Redis) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.GetDel(ctx, r.resetKey(token)).Result()
	if err != nil {
		return "", mapRedisErr(err)
	}
	return userID, nil
}
