// Package collector implements one collection function per external data
// source: each combines the Command Runner (or an HTTP client) with a
// parser and an optional cache write, and never lets an external failure
// propagate past itself.
package collector

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/galacticcic/galacticcic/internal/cache"
	"github.com/galacticcic/galacticcic/internal/logger"
	"github.com/galacticcic/galacticcic/internal/runner"
	"github.com/galacticcic/galacticcic/internal/store"
)

// Outcome is the tagged result of one collector invocation. It is
// distinct from runner.Outcome: a collector can succeed even when some
// underlying Runner call returned "missing", by writing nothing for that
// piece and reporting Degraded rather than Failed.
type Outcome int

const (
	Ok Outcome = iota
	Degraded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case Degraded:
		return "degraded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Tier is a collection schedule bucket with its own interval and set of
// collectors.
type Tier int

const (
	Fast Tier = iota
	Medium
	Slow
	Glacial
)

func (t Tier) String() string {
	switch t {
	case Fast:
		return "fast"
	case Medium:
		return "medium"
	case Slow:
		return "slow"
	case Glacial:
		return "glacial"
	default:
		return "unknown"
	}
}

// Interval returns the tier's fixed tick interval.
func (t Tier) Interval() time.Duration {
	switch t {
	case Fast:
		return 30 * time.Second
	case Medium:
		return 2 * time.Minute
	case Slow:
		return 5 * time.Minute
	case Glacial:
		return 15 * time.Minute
	default:
		return time.Minute
	}
}

// Deps bundles everything a collector might need. Not every collector
// uses every field.
type Deps struct {
	Runner      *runner.Runner
	Store       *store.Store
	HTTPClient  *http.Client
	DNSCache    *cache.DNSCache
	GeoCache    *cache.GeoCache
	NmapCache   *cache.NmapCache
	SitrepCache *cache.SitrepCache
	NmapActive  *int32
	Log         logger.Logger
	Now         func() time.Time
}

// now returns d.Now() if set, else time.Now; tests inject a fixed clock.
func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Collector is a named, tiered capability the Scheduler dispatches.
// Modeling each source as a value satisfying this interface replaces
// runtime introspection with an explicit tagged capability.
type Collector interface {
	Name() string
	Tier() Tier
	Run(ctx context.Context, deps *Deps) Outcome
}

// IncNmapActive and DecNmapActive maintain the process-wide nmap_active
// counter. It is monotonic over the active set (a count, not a boolean)
// so overlapping scans are handled correctly.
func IncNmapActive(counter *int32) { atomic.AddInt32(counter, 1) }
func DecNmapActive(counter *int32) { atomic.AddInt32(counter, -1) }

// NmapActive reports whether at least one attacker scan is in flight.
func NmapActive(counter *int32) bool { return atomic.LoadInt32(counter) > 0 }
