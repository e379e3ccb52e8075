// Package scheduler owns the daemon's tier loops: one independent
// ticker per tier, fanning out to that tier's collectors in parallel
// and joining before the next tick is allowed to start.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/galacticcic/galacticcic/internal/collector"
	"github.com/galacticcic/galacticcic/internal/logger"
)

// maxConsecutiveWriteFailures is the threshold at which the daemon
// reports itself degraded via `status`.
const maxConsecutiveWriteFailures = 10

// Scheduler runs every registered Collector on its tier's ticker.
type Scheduler struct {
	deps       *collector.Deps
	log        logger.Logger
	collectors map[collector.Tier][]collector.Collector

	consecutiveFailures int32

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New builds a Scheduler with the default collector roster, grouped by
// tier.
func New(deps *collector.Deps, log logger.Logger) *Scheduler {
	s := &Scheduler{deps: deps, log: log, collectors: make(map[collector.Tier][]collector.Collector)}
	for _, c := range defaultCollectors() {
		s.collectors[c.Tier()] = append(s.collectors[c.Tier()], c)
	}
	return s
}

// defaultCollectors returns one instance of every required collector.
func defaultCollectors() []collector.Collector {
	return []collector.Collector{
		collector.ServerHealth{},
		collector.TopProcesses{},
		collector.Cron{},
		collector.Network{},
		collector.Activity{},
		collector.Agents{},
		collector.PlatformStatus{},
		collector.Security{},
		collector.Sitrep{},
		collector.DNS{},
		collector.Geo{},
		collector.Nmap{},
	}
}

// Degraded reports whether the daemon has seen maxConsecutiveWriteFailures
// or more store-write failures in a row across any tier.
func (s *Scheduler) Degraded() bool {
	return atomic.LoadInt32(&s.consecutiveFailures) >= maxConsecutiveWriteFailures
}

// RunOnce runs every registered collector in every tier exactly once,
// tier by tier, and blocks until all of them finish. It backs
// `galacticcic collect`, which needs a single synchronous pass over
// every data source rather than the daemon's independent tickers.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, tier := range []collector.Tier{collector.Fast, collector.Medium, collector.Slow, collector.Glacial} {
		collectors := s.collectors[tier]
		if len(collectors) == 0 {
			continue
		}
		s.tick(ctx, tier, collectors)
	}
}

// Run starts all tier loops and blocks until ctx is cancelled, then
// waits up to 5s for in-flight collectors before returning.
func (s *Scheduler) Run(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, tier := range []collector.Tier{collector.Fast, collector.Medium, collector.Slow, collector.Glacial} {
		tier := tier
		collectors := s.collectors[tier]
		if len(collectors) == 0 {
			continue
		}
		s.wg.Add(1)
		go s.runTier(runCtx, tier, collectors)
	}

	<-runCtx.Done()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn("scheduler: shutdown grace period elapsed with collectors still in flight")
	}
}

// Shutdown cancels all tier loops. Run returns once in-flight
// collectors finish or the grace period elapses.
func (s *Scheduler) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}

// runTier ticks tier's own interval, never starting the next tick
// before the previous one's fan-out has fully joined.
func (s *Scheduler) runTier(ctx context.Context, tier collector.Tier, collectors []collector.Collector) {
	defer s.wg.Done()

	ticker := time.NewTicker(tier.Interval())
	defer ticker.Stop()

	s.tick(ctx, tier, collectors)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, tier, collectors)
		}
	}
}

// tick fans out every collector in this tier in parallel and joins
// before returning, mirroring the teacher's Collector.Collect()
// wg.Add/go/wg.Wait pattern.
func (s *Scheduler) tick(ctx context.Context, tier collector.Tier, collectors []collector.Collector) {
	s.log.Debug("%s tier: starting tick (%d collectors)", tier, len(collectors))
	var wg sync.WaitGroup
	for _, c := range collectors {
		wg.Add(1)
		go func(c collector.Collector) {
			defer wg.Done()
			s.runOne(ctx, c)
		}(c)
	}
	wg.Wait()
}

// DegradedConfigKey is where the daemon records its own degraded/healthy
// state, so `galacticcic status` (a separate process) can read it back
// without sharing memory with the daemon.
const DegradedConfigKey = "daemon_degraded"

func (s *Scheduler) runOne(ctx context.Context, c collector.Collector) {
	s.log.Debug("%s: running", c.Name())
	outcome := c.Run(ctx, s.deps)

	switch outcome {
	case collector.Ok:
		if atomic.SwapInt32(&s.consecutiveFailures, 0) >= maxConsecutiveWriteFailures {
			s.setDegraded(false)
		}
	case collector.Degraded:
		s.log.Warn("%s: degraded this tick", c.Name())
	case collector.Failed:
		s.log.Error("%s: failed this tick", c.Name())
		if atomic.AddInt32(&s.consecutiveFailures, 1) == maxConsecutiveWriteFailures {
			s.setDegraded(true)
		}
	}
}

func (s *Scheduler) setDegraded(degraded bool) {
	if s.deps.Store == nil {
		return
	}
	value := "0"
	if degraded {
		value = "1"
	}
	if err := s.deps.Store.SetConfigValue(DegradedConfigKey, value); err != nil {
		s.log.Warn("scheduler: could not persist degraded state: %v", err)
	}
}
