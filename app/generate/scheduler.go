package generate

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler periodically reruns the generator. Generation is skipped
// per repository when nothing changed, so a short interval is cheap.
type Scheduler struct {
	generator *Generator
	interval  time.Duration
	force     bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewScheduler(generator *Generator, interval time.Duration, force bool) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		generator: generator,
		interval:  interval,
		force:     force,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// initial run honors the force flag; later runs rely on the
		// staleness check alone
		s.run(s.force)

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.run(false)
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) run(force bool) {
	started := time.Now()
	if err := s.generator.Run(s.ctx, force); err != nil {
		if s.ctx.Err() != nil {
			return
		}
		slog.Error("Scheduled generation run failed", "error", err)
		return
	}
	slog.Debug("Scheduled generation run finished", "duration", time.Since(started).String())
}
