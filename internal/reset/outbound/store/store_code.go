package store

import (
	"context"
	"strconv"
	"time"

	"github.com/kodapp/resetgate/internal/pkg/goerror"
	"github.com/kodapp/resetgate/internal/reset/entity"
	"github.com/redis/go-redis/v9"
)

// attemptScript increments the attempt counter and deletes the record in the
// same step once the maximum is reached. -1 signals a missing record.
var attemptScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
local attempts = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
if attempts >= tonumber(ARGV[1]) then
  redis.call('DEL', KEYS[1])
end
return attempts
`)

// consumeScript flips used from 0 to 1 exactly once.
// -1: missing record, 0: already used, 1: consumed now.
var consumeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
if redis.call('HGET', KEYS[1], 'used') == '1' then
  return 0
end
redis.call('HSET', KEYS[1], 'used', '1')
return 1
`)

// SaveResetCode replaces the principal's record and arms its TTL.
func (s *Store) SaveResetCode(ctx context.Context, email string, rec entity.OtpRecord, ttl time.Duration) (err error) {
	ctx, span := s.startSpan(ctx, "SaveResetCode")
	defer func() { s.endSpan(span, err) }()

	key := codeKey(email)
	used := "0"
	if rec.Used {
		used = "1"
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"code_hash", rec.CodeHash,
			"created_at", rec.CreatedAt.UnixMilli(),
			"expires_at", rec.ExpiresAt.UnixMilli(),
			"used", used,
			"attempts", rec.Attempts,
		)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	return err
}

// GetResetCode loads the principal's record.
func (s *Store) GetResetCode(ctx context.Context, email string) (rec *entity.OtpRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetResetCode")
	defer func() { s.endSpan(span, err) }()

	values, err := s.client.HGetAll(ctx, codeKey(email)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, goerror.ErrNotFound
	}

	createdAt, _ := strconv.ParseInt(values["created_at"], 10, 64)
	expiresAt, _ := strconv.ParseInt(values["expires_at"], 10, 64)
	attempts, _ := strconv.ParseInt(values["attempts"], 10, 64)

	return &entity.OtpRecord{
		CodeHash:  values["code_hash"],
		CreatedAt: time.UnixMilli(createdAt),
		ExpiresAt: time.UnixMilli(expiresAt),
		Used:      values["used"] == "1",
		Attempts:  attempts,
	}, nil
}

// DeleteResetCode removes the principal's record.
func (s *Store) DeleteResetCode(ctx context.Context, email string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteResetCode")
	defer func() { s.endSpan(span, err) }()

	return s.client.Del(ctx, codeKey(email)).Err()
}

// RegisterAttempt counts one wrong code against the record.
func (s *Store) RegisterAttempt(ctx context.Context, email string) (attempts int64, err error) {
	ctx, span := s.startSpan(ctx, "RegisterAttempt")
	defer func() { s.endSpan(span, err) }()

	res, err := attemptScript.Run(ctx, s.client, []string{codeKey(email)}, entity.MaxAttempts).Int64()
	if err != nil {
		return 0, err
	}
	if res < 0 {
		return 0, goerror.ErrNotFound
	}
	return res, nil
}

// ConsumeResetCode marks the record used after a successful credential update.
func (s *Store) ConsumeResetCode(ctx context.Context, email string) (consumed bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeResetCode")
	defer func() { s.endSpan(span, err) }()

	res, err := consumeScript.Run(ctx, s.client, []string{codeKey(email)}).Int64()
	if err != nil {
		return false, err
	}
	if res < 0 {
		return false, goerror.ErrNotFound
	}
	return res == 1, nil
}
