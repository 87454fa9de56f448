package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrPoolClosed is returned by Submit after Stop.
var ErrPoolClosed = errors.New("worker: pool stopped")

// ErrPoolFull is returned when every slot is busy.
var ErrPoolFull = errors.New("worker: pool at capacity")

// Pool runs a bounded number of background jobs and waits for them on Stop.
type Pool struct {
	name   string
	logger *zap.Logger
	slots  chan struct{}

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
}

// NewPool builds a pool that runs at most size jobs at once.
func NewPool(name string, size int, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		name:   name,
		logger: logger,
		slots:  make(chan struct{}, size),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit starts job in the background. The job context is cancelled when
// parent is cancelled or the pool stops.
func (p *Pool) Submit(parent context.Context, job func(ctx context.Context)) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	select {
	case p.slots <- struct{}{}:
	default:
		p.mu.Unlock()
		return ErrPoolFull
	}
	p.wg.Add(1)
	poolCtx := p.ctx
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(poolCtx, cancel)

	go func() {
		defer func() {
			stop()
			cancel()
			<-p.slots
			p.wg.Done()
			if r := recover(); r != nil {
				p.logger.Error("background job panicked", zap.String("pool", p.name), zap.Any("panic", r))
			}
		}()
		job(ctx)
	}()
	return nil
}

// Stop cancels running jobs and waits for them until ctx expires.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.logger.Info("worker pool stopped", zap.String("pool", p.name))
	return nil
}
