// Package finder implements the parallel seed-and-extend driver (spec
// component G): it builds the candidate seed list, partitions it across
// worker goroutines, and drives each seed through extend-and-commit until
// the storage is exhausted of useful seeds.
package finder

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/mudesheng/lcbfind/internal/bubble"
	"github.com/mudesheng/lcbfind/internal/extend"
	"github.com/mudesheng/lcbfind/internal/junction"
	"github.com/mudesheng/lcbfind/internal/numeric"
	"github.com/mudesheng/lcbfind/internal/pathobj"
	"github.com/mudesheng/lcbfind/internal/progress"
)

// Options carries the configuration flags from spec.md §6.
type Options struct {
	Threads         int
	MaxBranchSize   int64
	MaxFlankingSize int64
	MinBlockSize    int64
	LookingDepth    int
	SampleSize      int
	SeedAll         bool
	Seed            int64
}

// BuildSeeds enumerates every signed vertex with at least one
// forward-strand occurrence, keeping only block seeds under the bubble
// source test unless opt.SeedAll requests the full-shuffle compatibility
// mode (spec §4.D, §4.G step 1, §9 open question on the two driver
// variants retrieved from the reference).
func BuildSeeds(storage *junction.Storage, opt Options) []junction.VertexID {
	var seeds []junction.VertexID
	n := storage.VerticesNumber()
	for v := -n; v <= n; v++ {
		if v == 0 {
			continue
		}
		vid := junction.VertexID(v)
		if storage.InstancesCount(vid) == 0 {
			continue
		}
		it := storage.VertexOccurrences(vid)
		hasForward := false
		for it.Valid() {
			if it.IsPositiveStrand() {
				hasForward = true
				break
			}
			it = it.Next()
		}
		if !hasForward {
			continue
		}
		if opt.SeedAll {
			seeds = append(seeds, vid)
			continue
		}
		forward := bubble.Scan(storage, vid, opt.MaxBranchSize, false)
		backward := bubble.Scan(storage, vid, opt.MaxBranchSize, true)
		if bubble.IsSeed(forward, backward) {
			seeds = append(seeds, vid)
		}
	}

	r := rand.New(rand.NewSource(opt.Seed))
	r.Shuffle(len(seeds), func(i, j int) { seeds[i], seeds[j] = seeds[j], seeds[i] })
	return seeds
}

// Run spawns opt.Threads workers over contiguous, pre-shuffled ranges of
// seeds and blocks until every worker has finished its range (spec
// §4.G.2-3).
func Run(storage *junction.Storage, seeds []junction.VertexID, opt Options, reporter *progress.Reporter) {
	threads := opt.Threads
	if threads < 1 {
		threads = 1
	}

	chunk := (len(seeds) + threads - 1) / threads
	if chunk == 0 {
		chunk = 1
	}

	var wg sync.WaitGroup
	for t := 0; t < threads; t++ {
		lo := t * chunk
		if lo >= len(seeds) {
			break
		}
		hi := int(numeric.MinInt64(int64(lo+chunk), int64(len(seeds))))

		wg.Add(1)
		go func(block []junction.VertexID) {
			defer wg.Done()
			runWorker(storage, block, opt, reporter)
		}(seeds[lo:hi])
	}
	wg.Wait()

	if reporter != nil {
		reporter.Final()
	}
}

func runWorker(storage *junction.Storage, seeds []junction.VertexID, opt Options, reporter *progress.Reporter) {
	voter := extend.New(storage, opt.LookingDepth, opt.MaxBranchSize)

	for _, v := range seeds {
		for {
			p := pathobj.New(storage, opt.MaxBranchSize, opt.MinBlockSize, opt.MaxFlankingSize)
			p.Init(v)

			voter.Phase(p, true, opt.MinBlockSize)
			voter.Phase(p, false, opt.MinBlockSize)

			committed := commit(storage, p, opt)
			if reporter != nil && committed {
				reporter.BlockCommitted()
			}
			if !committed {
				break
			}
		}
		if reporter != nil {
			reporter.SeedDone()
		}
	}
}

// commit implements spec §4.F "Commit": lock every touched stripe in
// sorted order, re-verify the score in a fresh finalizer path built from
// the best edges (defending against concurrent commits), then allocate a
// block id and mark every instance's occurrences used.
func commit(storage *junction.Storage, p *pathobj.Path, opt Options) bool {
	if !(p.Score(true) > 0 && p.GoodInstances() > 1) {
		return false
	}

	keys := lockKeysFor(storage, p.Instances())
	storage.LockStripes(keys)
	defer storage.UnlockStripes(keys)

	finalizer := rebuild(storage, p, opt)
	if !(finalizer.Score(true) > 0 && finalizer.GoodInstances() > 1) {
		return false
	}

	blockID := storage.NextBlockID()
	for i, in := range finalizer.Instances() {
		sign := int64(1)
		if !in.Front.IsPositiveStrand() {
			sign = -1
		}
		walkInstance(in, func(it junction.SequentialIterator) {
			it.MarkUsed()
			storage.SetAssignment(it.Chr(), it.Idx(), sign*blockID, int32(i))
		})
	}
	return true
}

// rebuild replays the committed body's edges into a fresh path seeded at
// the same start vertex, so the commit re-check sees only occurrences
// still unused at lock time.
func rebuild(storage *junction.Storage, p *pathobj.Path, opt Options) *pathobj.Path {
	finalizer := pathobj.New(storage, opt.MaxBranchSize, opt.MinBlockSize, opt.MaxFlankingSize)
	finalizer.Init(p.StartVertex())
	for _, e := range p.Edges() {
		if !finalizer.PushBack(e) {
			break
		}
	}
	return finalizer
}

func walkInstance(in pathobj.Instance, fn func(junction.SequentialIterator)) {
	cur := in.Front
	for {
		fn(cur)
		if cur.Chr() == in.Back.Chr() && cur.Idx() == in.Back.Idx() {
			break
		}
		cur = cur.Next()
		if !cur.Valid() {
			break
		}
	}
}

func lockKeysFor(storage *junction.Storage, instances []pathobj.Instance) []junction.StripeKey {
	var all []junction.StripeKey
	for _, in := range instances {
		lo, hi := in.Front.Idx(), in.Back.Idx()
		if lo > hi {
			lo, hi = hi, lo
		}
		all = append(all, storage.RangeOf(in.Front.Chr(), lo, hi)...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Chr != all[j].Chr {
			return all[i].Chr < all[j].Chr
		}
		return all[i].Stripe < all[j].Stripe
	})

	var keys []junction.StripeKey
	for _, k := range all {
		if len(keys) == 0 || keys[len(keys)-1] != k {
			keys = append(keys, k)
		}
	}
	return keys
}
