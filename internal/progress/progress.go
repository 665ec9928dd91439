// Package progress reports coarse-grained driver progress from the
// worker pool. It is the one piece of observability the teacher never
// had a library for; grounded on the pack's logrus-based reporter
// (i5heu-ouroboros-db's keyValStore logging) rather than the teacher's
// bare log.Printf idiom, since this is a concurrent, structured status
// stream rather than a fatal CLI error.
package progress

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Reporter accumulates seed and block counters from every worker under a
// single mutex and logs at coarse intervals (spec §4.G, §9 "a global
// mutex-protected stream; not on any hot path").
type Reporter struct {
	mu         sync.Mutex
	log        *logrus.Logger
	seeds      int64
	blocks     int64
	totalSeeds int64
	every      int64
}

// New constructs a Reporter that logs every `every` seeds processed.
func New(logger *logrus.Logger, totalSeeds int64, every int64) *Reporter {
	if logger == nil {
		logger = logrus.New()
	}
	if every <= 0 {
		every = 1000
	}
	return &Reporter{log: logger, totalSeeds: totalSeeds, every: every}
}

// SeedDone records one finished seed attempt, logging every `every` calls.
func (r *Reporter) SeedDone() {
	r.mu.Lock()
	r.seeds++
	n := r.seeds
	blocks := r.blocks
	r.mu.Unlock()

	if n%r.every == 0 {
		r.log.WithFields(logrus.Fields{
			"seedsDone":  n,
			"seedsTotal": r.totalSeeds,
			"blocksFound": blocks,
		}).Info("lcbfind progress")
	}
}

// BlockCommitted records one successful block commit.
func (r *Reporter) BlockCommitted() {
	r.mu.Lock()
	r.blocks++
	r.mu.Unlock()
}

// Final logs a summary once the driver has finished.
func (r *Reporter) Final() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.WithFields(logrus.Fields{
		"seedsDone":   r.seeds,
		"blocksFound": r.blocks,
	}).Info("lcbfind finished")
}
