// Package extend implements the most-popular-vertex extender (spec
// component F): it looks ahead from one end of a path, votes for the
// best next vertex across the path's instances, and drives the greedy
// extension loop that grows the path before a commit attempt.
package extend

import (
	"github.com/mudesheng/lcbfind/internal/junction"
	"github.com/mudesheng/lcbfind/internal/numeric"
	"github.com/mudesheng/lcbfind/internal/pathobj"
)

// Voter holds the per-worker vote accumulator. It is not safe for
// concurrent use; each worker goroutine owns one (spec §9 "vote
// accumulator", a reusable dense array indexed by vertexId+N rather than
// a hashmap, to avoid churn on the hot extension path).
type Voter struct {
	n int64

	counts     []int64
	bestDelta  []int64
	bestDepth  []int
	bestOrigin []junction.SequentialIterator
	touched    []int

	lookingDepth  int
	maxBranchSize int64
}

// New constructs a Voter sized for storage's vertex range.
func New(storage *junction.Storage, lookingDepth int, maxBranchSize int64) *Voter {
	n := int64(storage.VerticesNumber())
	size := 2*n + 1
	return &Voter{
		n:             n,
		counts:        make([]int64, size),
		bestDelta:     make([]int64, size),
		bestDepth:     make([]int, size),
		bestOrigin:    make([]junction.SequentialIterator, size),
		lookingDepth:  lookingDepth,
		maxBranchSize: maxBranchSize,
	}
}

func (v *Voter) offset(id junction.VertexID) int { return int(id) + int(v.n) }

func (v *Voter) record(id junction.VertexID, weight, delta int64, origin junction.SequentialIterator, depth int) {
	idx := v.offset(id)
	firstVisit := v.counts[idx] == 0
	if firstVisit {
		v.touched = append(v.touched, idx)
	}
	v.counts[idx] += weight
	if firstVisit || delta < v.bestDelta[idx] {
		v.bestDelta[idx] = delta
		v.bestDepth[idx] = depth
		v.bestOrigin[idx] = origin
	}
}

func (v *Voter) reset() {
	for _, idx := range v.touched {
		v.counts[idx] = 0
		v.bestDelta[idx] = 0
		v.bestDepth[idx] = 0
		v.bestOrigin[idx] = junction.SequentialIterator{}
	}
	v.touched = v.touched[:0]
}

// candidateInstances returns the good instances if at least two exist,
// otherwise every instance (spec §4.F step 1).
func candidateInstances(p *pathobj.Path) []pathobj.Instance {
	all := p.Instances()
	var good []pathobj.Instance
	for _, in := range all {
		if in.Length() >= p.MinChainSize() {
			good = append(good, in)
		}
	}
	if len(good) >= 2 {
		return good
	}
	return all
}

// vote runs the look-ahead walk from every candidate instance's extremum
// and picks the vertex that accumulates the most votes, breaking ties by
// the smallest absolute position difference from its origin (spec §4.F
// steps 1-3). It returns the edges connecting the path's current
// extremum to the winning vertex along the winning occurrence's own
// walk, so the caller can push them one at a time.
func (v *Voter) vote(p *pathobj.Path, pushingBack bool) ([]junction.Edge, bool) {
	defer v.reset()

	for _, in := range candidateInstances(p) {
		origin := in.Back
		if !pushingBack {
			origin = in.Front
		}
		weight := in.Length() + 1

		walker := origin
		for depth := 1; depth <= v.lookingDepth; depth++ {
			var next junction.SequentialIterator
			if pushingBack {
				next = walker.Next()
			} else {
				next = walker.Prev()
			}
			if !next.Valid() {
				break
			}
			delta := numeric.AbsInt64(next.Position() - origin.Position())
			if delta > v.maxBranchSize {
				break
			}
			id := next.VertexID()
			if next.IsUsed() || p.Contains(id) {
				break
			}
			v.record(id, weight, delta, origin, depth)
			walker = next
		}
	}

	if len(v.touched) == 0 {
		return nil, false
	}

	winner := v.touched[0]
	for _, idx := range v.touched[1:] {
		if v.counts[idx] > v.counts[winner] ||
			(v.counts[idx] == v.counts[winner] && v.bestDelta[idx] < v.bestDelta[winner]) {
			winner = idx
		}
	}

	origin := v.bestOrigin[winner]
	depth := v.bestDepth[winner]
	edges := make([]junction.Edge, 0, depth)
	walker := origin
	for i := 0; i < depth; i++ {
		if pushingBack {
			edges = append(edges, walker.OutgoingEdge())
			walker = walker.Next()
		} else {
			edges = append(edges, walker.IngoingEdge())
			walker = walker.Prev()
		}
	}
	return edges, true
}

// Phase runs the full extension loop from one end of p (spec §4.F
// "Extension loop"): repeated rounds of voting and pushing the winning
// occurrence's edge chain, bounded by minRun per round, until a round
// makes no progress or never reaches a positive score. It rewinds p to
// the best-scoring length observed before returning, so the caller can
// chain a symmetric Phase on the opposite end immediately afterward.
func (v *Voter) Phase(p *pathobj.Path, pushingBack bool, minBlockSize int64) int64 {
	minRun := numeric.MaxInt64(2*minBlockSize, 2*v.maxBranchSize)

	bestScore := int64(0)
	bestSize := p.Len()

	for {
		prevLen := p.MiddlePathLength()
		positive := false
		pushedAny := false

		for {
			edges, ok := v.vote(p, pushingBack)
			if !ok {
				break
			}
			stop := false
			for _, e := range edges {
				var pushed bool
				if pushingBack {
					pushed = p.PushBack(e)
				} else {
					pushed = p.PushFront(e)
				}
				if !pushed {
					stop = true
					break
				}
				pushedAny = true
				if p.MiddlePathLength()-prevLen > minRun {
					stop = true
					break
				}
			}

			if s := p.Score(false); s > 0 {
				positive = true
				if s > bestScore {
					bestScore = s
					bestSize = p.Len()
				}
			}

			if stop {
				break
			}
		}

		if !pushedAny || !positive {
			break
		}
	}

	for p.Len() > bestSize {
		if pushingBack {
			p.PopBack()
		} else {
			p.PopFront()
		}
	}

	return bestScore
}
