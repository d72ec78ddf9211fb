package webhook

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned by Enqueue when the delivery queue has no room.
var ErrQueueFull = errors.New("webhook queue full")

type AsyncConfig struct {
	QueueSize int
	Workers   int
	// JobTimeout bounds one delivery's processing, reviews included.
	// Defaults to 10 minutes.
	JobTimeout time.Duration
}

// AsyncProcessor accepts webhook deliveries on a bounded queue and processes
// them on background workers, so the HTTP handler can acknowledge GitHub
// within its delivery timeout while reviews run for minutes.
type AsyncProcessor struct {
	processor  *Processor
	logger     *zap.Logger
	jobs       chan job
	jobTimeout time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type job struct {
	eventType  string
	payload    []byte
	deliveryID string
}

func NewAsyncProcessor(processor *Processor, cfg AsyncConfig, logger *zap.Logger) *AsyncProcessor {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &AsyncProcessor{
		processor:  processor,
		logger:     logger,
		jobs:       make(chan job, cfg.QueueSize),
		jobTimeout: cfg.JobTimeout,
		cancel:     cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}

	return p
}

// Enqueue accepts a delivery or fails immediately when the queue is full.
// The payload is copied because gin reuses request buffers.
func (p *AsyncProcessor) Enqueue(ctx context.Context, eventType string, payload []byte, deliveryID string) error {
	_ = ctx
	if p.processor == nil {
		return errors.New("webhook processor is nil")
	}

	j := job{eventType: eventType, payload: append([]byte(nil), payload...), deliveryID: deliveryID}

	select {
	case p.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncProcessor) Stop(ctx context.Context) error {
	p.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("stop webhook workers: %w", ctx.Err())
	case <-done:
		return nil
	}
}

func (p *AsyncProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			p.runJob(j)
		}
	}
}

// runJob processes one delivery under the job timeout. The context is
// detached from the worker pool's: cancelling the pool should not abort a
// review already in flight, but a hung collaborator call must not hold the
// worker forever.
func (p *AsyncProcessor) runJob(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()

	if err := p.processor.Process(ctx, j.eventType, j.payload, j.deliveryID); err != nil {
		p.logger.Error("webhook processing failed",
			zap.String("event_type", j.eventType),
			zap.String("delivery_id", j.deliveryID),
			zap.Error(err))
	}
}
