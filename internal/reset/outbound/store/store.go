// Package store persists reset-code records and issuance counters in Redis.
//
// Every read-modify-write on shared per-principal state runs as a single Lua
// script, so concurrent requests cannot lose updates or slip past a guard
// that another request just changed.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/kodapp/resetgate/internal/pkg/clock"
	"github.com/kodapp/resetgate/internal/pkg/goerror"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/uid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	codeKeyPrefix  = "reset:code:"
	issueKeyPrefix = "reset:issue:"
)

type Store struct {
	client redis.Cmdable
	ins    instrument.Instrumentation
	clock  clock.Clocker
	uid    uid.NumberID
	window time.Duration
	limit  int64
}

// Config holds the dependencies and limits for the Redis store.
type Config struct {
	// Client is the Redis connection.
	Client redis.Cmdable
	// Instrument provides tracing.
	Instrument instrument.Instrumentation
	// Clock is the time source for window math.
	Clock clock.Clocker
	// UID generates unique issuance members for the rate-limit window.
	UID uid.NumberID
	// Window is the rolling issuance window.
	Window time.Duration
	// Limit is the number of issuances allowed per window.
	Limit int64
}

func NewStore(cfg Config) *Store {
	return &Store{
		client: cfg.Client,
		ins:    cfg.Instrument,
		clock:  cfg.Clock,
		uid:    cfg.UID,
		window: cfg.Window,
		limit:  cfg.Limit,
	}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("reset.outbound.store").Start(ctx, name)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func codeKey(email string) string {
	return codeKeyPrefix + email
}

func issueKey(email string) string {
	return issueKeyPrefix + email
}
