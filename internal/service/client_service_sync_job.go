package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
)

// DefaultSyncInterval is used when the job is started without an interval.
const DefaultSyncInterval = 5 * time.Minute

type syncJob struct {
	syncService SyncService

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewSyncJob creates a syncJob that calls syncService.SyncPending on a
// ticker. The job is idle until Start or Run is called.
func NewSyncJob(syncService SyncService, logger *logger.Logger) SyncJob {
	return &syncJob{syncService: syncService, logger: logger}
}

// Start implements SyncJob. It stops any previously running job, then
// launches Run in a background goroutine. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		j.Run(jobCtx, interval)
	}()
}

// Run implements SyncJob. It syncs once right away, then every interval,
// and returns when ctx is done. If interval is zero or negative it defaults
// to [DefaultSyncInterval].
func (j *syncJob) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	j.runOnce(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			j.runOnce(ctx)
		}
	}
}

func (j *syncJob) runOnce(ctx context.Context) {
	_, err := j.syncService.SyncPending(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, ErrSyncInProgress):
		j.logger.Debug().Str("func", "*syncJob.runOnce").Msg("previous sync still running")
	default:
		j.logger.Err(err).Str("func", "*syncJob.runOnce").Msg("sync failed")
	}
}

// Stop implements SyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
