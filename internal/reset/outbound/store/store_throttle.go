package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// throttleScript prunes entries older than the window, denies with a
// retry-after hint when the budget is spent, and otherwise records this
// issuance. Returns {allowed, retry_after_ms}.
var throttleScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, now - window)

local count = redis.call('ZCARD', KEYS[1])
if count >= limit then
  local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
  local retry = math.ceil(tonumber(oldest[2]) + window - now)
  return {0, retry}
end

redis.call('ZADD', KEYS[1], now, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window)
return {1, 0}
`)

// ThrottleIssue applies the rolling-window issuance limit for the principal.
func (s *Store) ThrottleIssue(ctx context.Context, email string) (allowed bool, retryAfter time.Duration, err error) {
	ctx, span := s.startSpan(ctx, "ThrottleIssue")
	defer func() { s.endSpan(span, err) }()

	now := s.clock.Now().UnixMilli()
	member := strconv.FormatInt(s.uid.Generate(), 10)

	res, err := throttleScript.Run(ctx, s.client,
		[]string{issueKey(email)},
		now, s.window.Milliseconds(), s.limit, member,
	).Int64Slice()
	if err != nil {
		return false, 0, err
	}

	if len(res) == 2 && res[0] == 0 {
		return false, time.Duration(res[1]) * time.Millisecond, nil
	}
	return true, 0, nil
}
