package worker

import (
	"context"
	"sync"
	"time"

	"gameportal/backend/internal/metrics"

	"go.uber.org/zap"
)

type Job interface {
	Run(context.Context) error
	Name() string
}

// Pool runs jobs on a fixed number of goroutines fed by a bounded queue.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc
	log     *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
}

func NewPool(workers, queueSize int, log *zap.SugaredLogger) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log = log.Named("worker-pool")
	log.Debugw("creating worker pool", "workers", workers, "queue", queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Infow("starting worker pool", "workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.With("worker_id", id)

			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))

					start := time.Now()
					if err := job.Run(ctx); err != nil {
						workerLog.Errorw("job failed", "job", job.Name(), "elapsed", time.Since(start), "error", err)
					} else {
						workerLog.Debugw("job completed", "job", job.Name(), "elapsed", time.Since(start))
					}
				}
			}
		}(i + 1)
	}
}

// Stop closes the queue, lets workers drain it and waits for them.
func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.log.Info("worker pool stopped")
}

// TrySubmit queues the job unless the queue is full or the pool is stopped.
func (p *Pool) TrySubmit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- job:
		metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
		return true
	default:
		p.log.Warnw("worker queue full, dropping job", "job", job.Name())
		return false
	}
}
