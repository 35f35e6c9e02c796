// Package scheduler runs the bounded-concurrency worker pool that drives
// a pass. At most N fetch-classify-extract operations are in flight at
// once; a new job is dispatched as soon as any worker frees up, so a
// single slow URL never blocks a whole wave.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"urlharvest/pkg/logger"
	"urlharvest/pkg/models"
)

// Job is one unit of work: a URL and its position in the work list.
type Job struct {
	Index int
	URL   string
}

// Result is the completed outcome for one job. Err is non-nil only for
// fatal failures (checkpoint store I/O) that must abort the pass.
type Result struct {
	Job      Job
	Outcome  models.Outcome
	Err      error
	Duration time.Duration
}

// Processor handles a single URL end to end: fetch, classify, extract,
// persist, and record the outcome.
type Processor interface {
	Process(ctx context.Context, url string) (models.Outcome, error)
}

// WorkerPool manages the fixed worker budget.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	processor   Processor
	logger      logger.Logger
}

// NewWorkerPool creates a pool with numWorkers concurrent workers.
func NewWorkerPool(numWorkers int, processor Processor, log logger.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		processor:   processor,
		logger:      log,
	}
}

// Start launches all workers.
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop signals that no more jobs will be submitted, waits for in-flight
// jobs to finish, then closes the result channel.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("worker pool stopped")
}

// Abort cancels the pool context so pending submissions fail and workers
// stop picking up queued jobs. Used when a fatal error ends the pass.
func (wp *WorkerPool) Abort() {
	wp.cancel()
}

// Submit queues a job for processing. Blocks while all workers are busy
// and the buffer is full, which is what bounds the fan-out.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	default:
	}
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the channel of completed results.
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

// worker pulls jobs until the queue closes or the pool is aborted.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		start := time.Now()
		outcome, err := wp.processor.Process(wp.ctx, job.URL)
		result := Result{
			Job:      job,
			Outcome:  outcome,
			Err:      err,
			Duration: time.Since(start),
		}

		wp.logger.DebugWithFields("worker completed job", map[string]interface{}{
			"worker_id": id,
			"url":       job.URL,
			"outcome":   string(outcome.Kind),
			"duration":  result.Duration,
		})

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}
