package delivery

import (
	"context"
	"sync"
	"time"
)

// Scheduler ticks a Queue on a fixed interval until stopped.
type Scheduler struct {
	queue    *Queue
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewScheduler creates a scheduler for queue. A non-positive interval uses
// DefaultInterval.
func NewScheduler(queue *Queue, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		queue:    queue,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start begins ticking in a new goroutine. The loop ends when ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.ticker = time.NewTicker(s.interval)
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.ticker.C:
			s.queue.Tick(ctx)
		}
	}
}

// Stop halts the ticker and waits for the loop to exit. It is safe to call
// more than once, and before Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.ticker == nil {
			return
		}
		s.ticker.Stop()
		<-s.stopped
	})
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration { return s.interval }
