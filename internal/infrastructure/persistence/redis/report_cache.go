package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/university-records/internal/domain/report"
	"github.com/alem-hub/university-records/internal/domain/shared"
	"github.com/alem-hub/university-records/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ReportCache implements report.Sink on a Redis client.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a ReportCache. A zero ttl keeps entries forever;
// a negative one is treated as zero.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{
		client: client,
		ttl:    max(ttl, 0),
	}
}

// entry is one key with its encoded value.
type entry struct {
	key   string
	value []byte
}

// Save stores the snapshot under LatestReportKey and every student line under
// its StudentPerformanceKey, all in one pipeline.
//
// Returned errors are marked for pkg/retry: encoding problems and server error
// replies are permanent, network failures and timeouts are retryable.
func (c *ReportCache) Save(ctx context.Context, snap *report.Snapshot) error {
	if snap == nil {
		return retry.Permanent(shared.NewDomainError("report", "Cache", shared.ErrInvalidInput, "snapshot is nil"))
	}

	entries, err := snapshotEntries(snap)
	if err != nil {
		return retry.Permanent(shared.WrapError("report", "Cache", shared.ErrInvalidInput,
			"failed to encode run "+snap.RunID, err))
	}

	_, err = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			pipe.Set(ctx, e.key, e.value, c.ttl)
		}
		return nil
	})
	if err != nil {
		return classify(shared.WrapError("report", "Cache", shared.ErrServiceUnavailable,
			"failed to cache run "+snap.RunID, err))
	}

	return nil
}

// snapshotEntries encodes the snapshot and each student line, latest key first.
func snapshotEntries(snap *report.Snapshot) ([]entry, error) {
	entries := make([]entry, 0, len(snap.Students)+1)

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry{key: LatestReportKey(), value: data})

	for _, line := range snap.Students {
		data, err := json.Marshal(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{key: StudentPerformanceKey(line.StudentID), value: data})
	}

	return entries, nil
}

// classify marks a pipeline error for pkg/retry. A reply from the server
// (WRONGTYPE, OOM, NOAUTH...) will not change on retry; anything else is
// treated as a transport failure.
func classify(err error) error {
	var reply redis.Error
	if errors.As(err, &reply) {
		return retry.Permanent(err)
	}
	return retry.Retryable(err)
}

var _ report.Sink = (*ReportCache)(nil)
