// Package redis implements the Redis-backed report cache.
//
// Key layout:
//   - report:latest            - JSON of the most recent snapshot
//   - report:student:{id}      - JSON of one student's line from that snapshot
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION
// ══════════════════════════════════════════════════════════════════════════════

// Options describes how to reach the Redis server holding report keys.
type Options struct {
	// Addr is "host:port".
	Addr string

	// Password is empty when the server has no auth.
	Password string

	// DB is the logical database number (0-15).
	DB int

	// Pool sizing.
	PoolSize     int
	MinIdleConns int

	// Socket timeouts.
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ErrUnreachable is returned by Dial when the server does not answer PING.
var ErrUnreachable = errors.New("redis: server unreachable")

// Dial opens a client and checks the server answers PING within DialTimeout.
// Command-level retries are left to pkg/retry, so the client itself never retries.
func Dial(ctx context.Context, o Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		PoolSize:     o.PoolSize,
		MinIdleConns: o.MinIdleConns,
		MaxRetries:   -1,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
	})

	pingCtx := ctx
	if o.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, o.DialTimeout)
		defer cancel()
	}

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, o.Addr, err)
	}

	return client, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// KEYS
// ══════════════════════════════════════════════════════════════════════════════

const keyPrefix = "report:"

// LatestReportKey is where the most recent snapshot is stored.
func LatestReportKey() string {
	return keyPrefix + "latest"
}

// StudentPerformanceKey returns the key of a student's cached line.
func StudentPerformanceKey(studentID string) string {
	return keyPrefix + "student:" + studentID
}
