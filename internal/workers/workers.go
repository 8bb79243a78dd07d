package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-climate-keeper/internal/service"
)

type Workers struct {
	workers []Worker
}

func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in its own goroutine and blocks until all of them
// have returned.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			worker.Run(ctx)
		})
	}
	wg.Wait()
}

type syncWorker struct {
	job      service.SyncJob
	interval time.Duration
}

// NewSyncWorker runs job in the foreground on the given interval.
func NewSyncWorker(job service.SyncJob, interval time.Duration) Worker {
	return &syncWorker{job: job, interval: interval}
}

func (s *syncWorker) Run(ctx context.Context) {
	s.job.Run(ctx, s.interval)
}
