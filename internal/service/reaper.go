package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openrace/corrida-api/internal/domain"
)

type ReaperRepository interface {
	FindExpiredPendingOrders(ctx context.Context) ([]domain.Order, error)
	ExpireOrder(ctx context.Context, orderID uint) (int, error)
}

// ExpirationReaper reclaims capacity from orders whose payment deadline
// passed unpaid. Admission reserves slots optimistically; this is the
// guaranteed-eventual rollback for reservations that are never paid.
//
// The scheduler is an owned object rather than a package-level timer so the
// composition root can stop it on shutdown and tests can call
// RunExpirationSweep directly.
type ExpirationReaper struct {
	repo     ReaperRepository
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

func NewExpirationReaper(repo ReaperRepository, interval time.Duration) *ExpirationReaper {
	if interval <= 0 {
		interval = 60 * time.Second
	}

	return &ExpirationReaper{
		repo:     repo,
		interval: interval,
	}
}

// Start launches the periodic sweep loop, with one immediate run. Calling
// Start on a running reaper is a no-op.
func (r *ExpirationReaper) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go r.loop(r.stop, r.done)
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (r *ExpirationReaper) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	stop, done := r.stop, r.done
	r.mu.Unlock()

	close(stop)
	<-done
}

func (r *ExpirationReaper) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	r.sweep()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-stop:
			return
		}
	}
}

func (r *ExpirationReaper) sweep() {
	if _, err := r.RunExpirationSweep(context.Background()); err != nil {
		zap.L().Error("expiration sweep failed", zap.Error(err))
	}
}

// RunExpirationSweep performs one pass: find expired pending orders with a
// lock-skipping read, then expire each in its own sub-transaction. One
// order's failure is counted and skipped, never aborting the sweep.
func (r *ExpirationReaper) RunExpirationSweep(ctx context.Context) (domain.SweepResult, error) {
	result := domain.SweepResult{}

	orders, err := r.repo.FindExpiredPendingOrders(ctx)
	if err != nil {
		return result, err
	}

	for _, order := range orders {
		released, err := r.repo.ExpireOrder(ctx, order.ID)
		if err != nil {
			result.Errors++
			zap.L().Error("failed to expire order",
				zap.Uint("order_id", order.ID),
				zap.Error(err),
			)
			continue
		}

		result.Processed++
		result.Released += released
	}

	if result.Processed > 0 || result.Released > 0 || result.Errors > 0 {
		zap.L().Info("expiration sweep finished",
			zap.Int("processed", result.Processed),
			zap.Int("released", result.Released),
			zap.Int("errors", result.Errors),
		)
	}

	return result, nil
}
