package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BatchResult summarizes a batch run over many episodes.
type BatchResult struct {
	Processed []int
	Skipped   []int
	Failed    []int
}

// RunBatch processes every episode, in parallel up to MaxConcurrent. Episodes
// whose audio file is missing are skipped; a failing episode is retried with
// exponential backoff and then recorded as failed without aborting the rest
// of the batch. Whatever output a failed episode already wrote is left in
// place.
func RunBatch(ctx context.Context, t Transcriber, d Diarizer, episodes []Episode, opts Options) BatchResult {
	runID := uuid.NewString()
	slog.Info("starting batch run",
		"run_id", runID,
		"episodes", len(episodes),
		"max_concurrent", opts.MaxConcurrent,
		"rate_limit_rpm", opts.RateLimitRPM)

	// Engine calls are the expensive part; meter attempts, not episodes.
	limiter := rate.NewLimiter(rate.Limit(float64(opts.RateLimitRPM)/60.0), 1)

	var (
		mu  sync.Mutex
		res BatchResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxConcurrent)

	for _, ep := range episodes {
		ep := ep
		g.Go(func() error {
			log := slog.With("run_id", runID, "episode", ep.Number)

			audioPath := ep.AudioPath(opts.AudioDir)
			if _, err := os.Stat(audioPath); os.IsNotExist(err) {
				log.Warn("audio file not found, skipping", "path", audioPath)
				mu.Lock()
				res.Skipped = append(res.Skipped, ep.Number)
				mu.Unlock()
				return nil
			}

			err := processWithRetry(gctx, t, d, ep, opts, limiter, log)

			mu.Lock()
			if err != nil {
				log.Error("episode failed", "err", err)
				res.Failed = append(res.Failed, ep.Number)
			} else {
				res.Processed = append(res.Processed, ep.Number)
			}
			mu.Unlock()

			// A single episode's failure never cancels the batch.
			return nil
		})
	}

	g.Wait()

	slog.Info("batch run complete",
		"run_id", runID,
		"processed", res.Processed,
		"skipped", res.Skipped,
		"failed", res.Failed)
	return res
}

func processWithRetry(ctx context.Context, t Transcriber, d Diarizer, ep Episode, opts Options, limiter *rate.Limiter, log *slog.Logger) error {
	var lastErr error

	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		err := ProcessEpisode(ctx, t, d, ep, opts)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return lastErr
		}
		if attempt < opts.MaxRetries-1 {
			backoff := 1 << uint(attempt) // 1s, 2s, 4s...
			log.Warn("episode attempt failed, retrying",
				"attempt", attempt+1, "backoff_sec", backoff, "err", err)

			timer := time.NewTimer(time.Duration(backoff) * time.Second)
			select {
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			case <-timer.C:
			}
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", opts.MaxRetries, lastErr)
}
