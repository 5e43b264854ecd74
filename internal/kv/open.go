package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown settings backend")

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options carries the connection details for every backend; only the
// fields of the selected backend are used.
type Options struct {
	FilePath    string
	DatabaseURL string
	Redis       RedisConfig
}

// Open connects the named backend. The returned close function releases
// any connection and is never nil.
func Open(ctx context.Context, backend string, opts Options) (Store, func(), error) {
	noop := func() {}

	switch backend {
	case BackendMemory:
		return NewMemoryStore(), noop, nil

	case BackendFile:
		s, err := NewFileStore(opts.FilePath)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case BackendPostgres:
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ping database: %w", err)
		}
		s := NewPostgresStore(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return s, pool.Close, nil

	case BackendRedis:
		s, client, err := NewRedisStore(opts.Redis)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { client.Close() }, nil
	}

	return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
