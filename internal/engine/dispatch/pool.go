// Package dispatch runs generation work on background goroutines and hands
// the results back to the main loop.
//
// Workers never touch caller state: a finished job is queued, and its
// completion callback runs only inside Drain, on whichever goroutine calls it.
// The host loop calls Drain once per frame.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// ErrProducerPanic wraps a panic recovered from a producer.
var ErrProducerPanic = errors.New("producer panicked")

// Config holds pool configuration.
type Config struct {
	Workers       int     // 0 = runtime.NumCPU()
	QueueSize     int     // Buffered jobs before Submit spills to the backlog
	JobsPerSecond float64 // Worker-side throttle, 0 = unlimited
	ApplyBudget   int     // Completions applied per Drain, 0 = all
}

type job struct {
	produce func(context.Context) (any, error)
	done    func(any, error)
}

type completion struct {
	done   func(any, error)
	result any
	err    error
}

// Pool is a fixed set of worker goroutines with a main-loop apply queue.
type Pool struct {
	cfg     Config
	jobs    chan job
	limiter *rate.Limiter
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// backlog holds jobs that did not fit the channel; only the
	// submitting goroutine touches it.
	backlog []job

	mu        sync.Mutex
	completed []completion

	pending atomic.Int64
}

// NewPool starts the workers.
func NewPool(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = max(runtime.NumCPU(), 1)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		cfg:    cfg,
		jobs:   make(chan job, cfg.QueueSize),
		log:    logger.Named("dispatch"),
		ctx:    ctx,
		cancel: cancel,
	}
	if cfg.JobsPerSecond > 0 {
		burst := max(int(cfg.JobsPerSecond), 1)
		p.limiter = rate.NewLimiter(rate.Limit(cfg.JobsPerSecond), burst)
	}

	for range cfg.Workers {
		p.wg.Add(1)
		go p.worker()
	}

	p.log.Debug("worker pool started",
		zap.Int("workers", cfg.Workers),
		zap.Int("queue", cfg.QueueSize),
		zap.Float64("jobsPerSecond", cfg.JobsPerSecond))

	return p
}

// Submit queues produce to run on a worker. done receives its result during
// a later Drain. Submit never blocks.
func (p *Pool) Submit(produce func(context.Context) (any, error), done func(any, error)) {
	p.pending.Add(1)
	j := job{produce: produce, done: done}

	if len(p.backlog) == 0 {
		select {
		case p.jobs <- j:
			return
		default:
		}
	}
	p.backlog = append(p.backlog, j)
}

// Drain runs queued completion callbacks on the calling goroutine and
// returns how many ran. At most ApplyBudget run per call when it is set.
func (p *Pool) Drain() int {
	p.flushBacklog()

	p.mu.Lock()
	batch := p.completed
	if budget := p.cfg.ApplyBudget; budget > 0 && len(batch) > budget {
		rest := make([]completion, len(batch)-budget)
		copy(rest, batch[budget:])
		batch = batch[:budget]
		p.completed = rest
	} else {
		p.completed = nil
	}
	p.mu.Unlock()

	for _, c := range batch {
		p.pending.Add(-1)
		c.done(c.result, c.err)
	}
	return len(batch)
}

// Pending returns the number of submitted jobs whose completion has not run yet.
func (p *Pool) Pending() int {
	return int(p.pending.Load())
}

// Close stops the workers and waits for them. Jobs still queued are dropped.
func (p *Pool) Close() {
	p.cancel()
	p.wg.Wait()
	p.log.Debug("worker pool stopped", zap.Int("dropped", p.Pending()))
}

func (p *Pool) flushBacklog() {
	sent := 0
	for _, j := range p.backlog {
		select {
		case p.jobs <- j:
			sent++
			continue
		default:
		}
		break
	}
	if sent == 0 {
		return
	}
	n := copy(p.backlog, p.backlog[sent:])
	clear(p.backlog[n:])
	p.backlog = p.backlog[:n]
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case j := <-p.jobs:
			if p.limiter != nil {
				if err := p.limiter.Wait(p.ctx); err != nil {
					return
				}
			}
			result, err := run(p.ctx, j.produce)

			p.mu.Lock()
			p.completed = append(p.completed, completion{done: j.done, result: result, err: err})
			p.mu.Unlock()
		}
	}
}

func run(ctx context.Context, produce func(context.Context) (any, error)) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrProducerPanic, r)
		}
	}()
	return produce(ctx)
}

// FromConfig converts the file/flag worker settings.
func FromConfig(w config.WorkersConfig) Config {
	return Config{
		Workers:       w.Count,
		QueueSize:     w.QueueSize,
		JobsPerSecond: w.JobsPerSecond,
		ApplyBudget:   w.ApplyBudget,
	}
}
