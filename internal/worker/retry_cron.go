package worker

// retry_cron.go — Delayed retry scheduling
// Failed jobs are parked in a Redis sorted set scored by the time of the
// next attempt. A cron goroutine periodically moves due jobs back onto the
// main queue. After maxAttempts the job goes to the DLQ instead.

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	RetryZSet   = "jobs:notifications:retry"
	maxAttempts = 5
)

// backoff returns the delay before the given attempt number.
// 1m, 5m, 15m, 30m.
func backoff(attempt int) time.Duration {
	switch attempt {
	case 1:
		return 1 * time.Minute
	case 2:
		return 5 * time.Minute
	case 3:
		return 15 * time.Minute
	default:
		return 30 * time.Minute
	}
}

// ScheduleRetry parks a failed job for a later attempt, or moves it to the
// DLQ once the retry budget is exhausted.
func ScheduleRetry(ctx context.Context, rdb *redis.Client, job Job, reason string) {
	job.Attempts++
	if job.Attempts >= maxAttempts {
		SendToDLQ(ctx, rdb, QueueNotifications, job.Type, job.Payload, reason, job.Attempts)
		return
	}

	data, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("retry: failed to marshal job")
		return
	}

	due := time.Now().Add(backoff(job.Attempts))
	if err := rdb.ZAdd(ctx, RetryZSet, redis.Z{
		Score:  float64(due.Unix()),
		Member: data,
	}).Err(); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("retry: failed to schedule")
		return
	}

	log.Warn().
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Time("next_attempt", due).
		Msg("retry: job scheduled")
}

// StartRetryCron launches a goroutine that re-enqueues due retries.
func StartRetryCron(ctx context.Context, rdb *redis.Client, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry cron shutting down")
				return
			case <-ticker.C:
				requeueDue(ctx, rdb)
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("retry cron started")
}

func requeueDue(ctx context.Context, rdb *redis.Client) {
	now := float64(time.Now().Unix())
	entries, err := rdb.ZRangeByScore(ctx, RetryZSet, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatFloat(now, 'f', 0, 64),
		Count: 50,
	}).Result()
	if err != nil || len(entries) == 0 {
		return
	}

	for _, raw := range entries {
		// Remove first so a concurrent cron tick cannot double-enqueue
		removed, err := rdb.ZRem(ctx, RetryZSet, raw).Result()
		if err != nil || removed == 0 {
			continue
		}
		if err := rdb.LPush(ctx, QueueNotifications, raw).Err(); err != nil {
			log.Error().Err(err).Msg("retry: failed to requeue job")
			// Put it back so the next tick retries
			rdb.ZAdd(ctx, RetryZSet, redis.Z{Score: now, Member: raw})
			continue
		}
	}
	log.Info().Int("count", len(entries)).Msg("retry: due jobs requeued")
}
