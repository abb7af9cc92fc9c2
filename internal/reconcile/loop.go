package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"meshsync/internal/domain"
	"meshsync/internal/infra"
)

// CycleResult aggregates the outcome of one reconciliation cycle.
type CycleResult struct {
	Synced int
	Failed int
}

// LoopOptions configures the batch reconciliation loop.
type LoopOptions struct {
	Repo       domain.JobRepository
	Reconciler *Reconciler
	Interval   time.Duration
	BatchSize  int
	BatchDelay time.Duration
	ScanLimit  int
	Logger     infra.Logger
}

// Loop drives periodic reconciliation of all active jobs.
type Loop struct {
	repo       domain.JobRepository
	rec        *Reconciler
	interval   time.Duration
	batchSize  int
	batchDelay time.Duration
	scanLimit  int
	logger     infra.Logger

	// running guards against a slow cycle overlapping the next timer tick.
	running atomic.Bool
	// cycles joins the in-flight cycle goroutine on shutdown.
	cycles sync.WaitGroup
}

// NewLoop constructs a loop with sane defaults.
func NewLoop(opts LoopOptions) *Loop {
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	batchDelay := opts.BatchDelay
	if batchDelay < 0 {
		batchDelay = 0
	}
	scanLimit := opts.ScanLimit
	if scanLimit <= 0 {
		scanLimit = 1000
	}
	return &Loop{
		repo:       opts.Repo,
		rec:        opts.Reconciler,
		interval:   interval,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		scanLimit:  scanLimit,
		logger:     opts.Logger,
	}
}

// Run fires a reconciliation cycle on every tick until the context is
// cancelled. A tick that arrives while the previous cycle is still in flight
// is skipped, not queued; cycle failures only log and never stop the timer.
// On cancellation Run waits for the in-flight cycle before returning, so the
// caller can safely tear down the connection pool.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info().
		Dur("interval", l.interval).
		Int("batch_size", l.batchSize).
		Msg("reconcile: loop started")

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.cycles.Wait()
			l.logger.Info().Msg("reconcile: loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if !l.running.CompareAndSwap(false, true) {
				l.logger.Warn().Msg("reconcile: previous cycle still running, skipping tick")
				continue
			}
			l.cycles.Add(1)
			go func() {
				defer l.cycles.Done()
				defer l.running.Store(false)
				res := l.RunCycle(ctx)
				if res.Synced > 0 || res.Failed > 0 {
					l.logger.Info().
						Int("synced", res.Synced).
						Int("failed", res.Failed).
						Msg("reconcile: cycle complete")
				}
			}()
		}
	}
}

// RunCycle reconciles every active job once: jobs are selected up to the scan
// limit, partitioned into fixed-size batches reconciled concurrently, with a
// fixed delay between batches as backpressure against the mesh API. One job's
// failure never stops the cycle.
func (l *Loop) RunCycle(ctx context.Context) CycleResult {
	jobs, err := l.repo.ListActive(ctx, l.scanLimit)
	if err != nil {
		l.logger.Error().Err(err).Msg("reconcile: list active jobs failed")
		return CycleResult{}
	}
	if len(jobs) == 0 {
		return CycleResult{}
	}

	var synced, failed atomic.Int64
	for start := 0; start < len(jobs); start += l.batchSize {
		end := start + l.batchSize
		if end > len(jobs) {
			end = len(jobs)
		}

		var wg sync.WaitGroup
		for _, job := range jobs[start:end] {
			wg.Add(1)
			go func(jobID string) {
				defer wg.Done()
				defer func() {
					if rec := recover(); rec != nil {
						failed.Add(1)
						l.logger.Error().
							Str("job_id", jobID).
							Interface("panic", rec).
							Msg("reconcile: panic recovered")
					}
				}()
				if l.rec.ReconcileJob(ctx, jobID) {
					synced.Add(1)
				} else {
					failed.Add(1)
				}
			}(job.ID)
		}
		wg.Wait()

		if end < len(jobs) && l.batchDelay > 0 {
			select {
			case <-ctx.Done():
				return CycleResult{Synced: int(synced.Load()), Failed: int(failed.Load())}
			case <-time.After(l.batchDelay):
			}
		}
	}
	return CycleResult{Synced: int(synced.Load()), Failed: int(failed.Load())}
}
