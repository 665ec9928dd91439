// Package pathobj implements the bubble-aware path object (spec
// component E): a single consensus walk of vertices plus a live set of
// genomic instances consistent with it, subject to branch-length and
// flank-length budgets.
package pathobj

import (
	"github.com/mudesheng/lcbfind/internal/assert"
	"github.com/mudesheng/lcbfind/internal/junction"
	"github.com/mudesheng/lcbfind/internal/numeric"
)

// Instance is a contiguous sub-walk of one chromosome, on one strand,
// that currently matches the path under the compatibility rule. Front
// and Back are explicit sequential iterators rather than live cursors
// into a shared deque, so instances stay trivially copyable and
// comparable (spec §9 "Instance identity").
type Instance struct {
	Front, Back                           junction.SequentialIterator
	LeftFlankDistance, RightFlankDistance int64
}

// Chr returns the chromosome this instance lives on.
func (in Instance) Chr() int { return in.Front.Chr() }

// Length is the genomic span currently covered by the instance.
func (in Instance) Length() int64 {
	d := in.Back.Position() - in.Front.Position()
	if d < 0 {
		d = -d
	}
	return d
}

func (in Instance) leftFlank(pathFrontDistance int64) int64 {
	d := in.LeftFlankDistance - pathFrontDistance
	if d < 0 {
		d = -d
	}
	return d
}

func (in Instance) rightFlank(pathBackDistance int64) int64 {
	d := in.RightFlankDistance - pathBackDistance
	if d < 0 {
		d = -d
	}
	return d
}

type bodyPoint struct {
	vertex   junction.VertexID
	distance int64
}

type occKey struct {
	chr, idx int
}

// Path holds the live state scoped to a single seed attempt in a single
// worker: it owns its instance set outright and never mutates Storage
// except via the atomic Used flag and stripe locks it is handed at
// commit time, which live outside this package.
type Path struct {
	storage *junction.Storage

	body      []bodyPoint
	edges     []junction.Edge
	instances []Instance
	inside    map[occKey]struct{}

	// undo holds one snapshot per currently-applied push, taken right
	// before that push committed, so PopBack/PopFront can restore the
	// instance set and inside set exactly rather than recompute them
	// (spec §8 law 3: pop is the bitwise inverse of push). The two ends
	// share one LIFO stack; callers must pop the same end they most
	// recently pushed, which is how the extension loop (spec §4.F) always
	// uses it: a run of pushBack/popBack, then separately a run of
	// pushFront/popFront.
	undo []undoEntry

	maxBranchSize   int64
	minBlockSize    int64
	maxFlankingSize int64
	minChainSize    int64
}

type undoEntry struct {
	instances []Instance
	inside    map[occKey]struct{}
}

// New constructs an empty path bound to storage with the given budgets.
// minChainSize follows spec §4.E: minBlockSize - 2*maxFlankingSize.
func New(storage *junction.Storage, maxBranchSize, minBlockSize, maxFlankingSize int64) *Path {
	return &Path{
		storage:         storage,
		inside:          make(map[occKey]struct{}),
		maxBranchSize:   maxBranchSize,
		minBlockSize:    minBlockSize,
		maxFlankingSize: maxFlankingSize,
		minChainSize:    minBlockSize - 2*maxFlankingSize,
	}
}

// Storage returns the junction storage this path is bound to.
func (p *Path) Storage() *junction.Storage { return p.storage }

// Clear returns the path to empty.
func (p *Path) Clear() {
	p.body = p.body[:0]
	p.edges = p.edges[:0]
	p.instances = p.instances[:0]
	p.inside = make(map[occKey]struct{})
	p.undo = p.undo[:0]
}

// Len returns the number of vertices currently in the consensus body.
func (p *Path) Len() int { return len(p.body) }

// StartVertex returns the leftmost consensus vertex.
func (p *Path) StartVertex() junction.VertexID { return p.body[0].vertex }

// EndVertex returns the rightmost consensus vertex.
func (p *Path) EndVertex() junction.VertexID { return p.body[len(p.body)-1].vertex }

func (p *Path) frontDistance() int64 { return p.body[0].distance }
func (p *Path) backDistance() int64  { return p.body[len(p.body)-1].distance }

// Instances returns the live instance set. Callers must not mutate it.
func (p *Path) Instances() []Instance { return p.instances }

// MiddlePathLength is the consensus span from the first to the last body
// point, used by the extension loop's run-length bookkeeping.
func (p *Path) MiddlePathLength() int64 {
	if len(p.body) == 0 {
		return 0
	}
	return p.backDistance() - p.frontDistance()
}

func (p *Path) hasVertex(v junction.VertexID) bool {
	for _, b := range p.body {
		if b.vertex == v {
			return true
		}
	}
	return false
}

// Contains reports whether v already sits in the consensus body.
func (p *Path) Contains(v junction.VertexID) bool { return p.hasVertex(v) }

// MinChainSize returns the length threshold an instance must meet to
// count as "good" (spec §4.E).
func (p *Path) MinChainSize() int64 { return p.minChainSize }

func occOf(it junction.SequentialIterator) occKey {
	return occKey{chr: it.Chr(), idx: it.Idx()}
}

// Init resets the path to a single point v: the body becomes {(v, 0)}
// and the instance set becomes every not-used occurrence of v, each a
// single-point instance with both flanks at distance 0 (spec §4.E init).
func (p *Path) Init(v junction.VertexID) {
	p.Clear()
	p.body = append(p.body, bodyPoint{vertex: v, distance: 0})

	it := p.storage.VertexOccurrences(v)
	for it.Valid() {
		seq := it.SequentialIterator()
		if !seq.IsUsed() {
			p.instances = append(p.instances, Instance{Front: seq, Back: seq})
			p.inside[occOf(seq)] = struct{}{}
		}
		it = it.Next()
	}
}

// compatible implements the compatibility rule from spec §4.E: instance
// extremum a, candidate occurrence b, the edge e driving the extension,
// pushingBack indicating which end is being extended.
func compatible(a, b junction.SequentialIterator, e junction.Edge, maxBranchSize int64, pushingBack bool) bool {
	if a.Chr() != b.Chr() || a.IsPositiveStrand() != b.IsPositiveStrand() {
		return false
	}

	var delta int64
	if pushingBack {
		delta = b.Position() - a.Position()
	} else {
		delta = a.Position() - b.Position()
	}

	forward := a.IsPositiveStrand()
	if forward && delta < 0 {
		return false
	}
	if !forward && delta > 0 {
		return false
	}

	if numeric.AbsInt64(delta) <= maxBranchSize {
		return true
	}

	var succ junction.SequentialIterator
	var aChar byte
	if pushingBack {
		succ = a.Next()
		aChar = a.Char()
	} else {
		succ = a.Prev()
		aChar = a.Char()
	}
	if !succ.Valid() {
		return false
	}
	if succ.Chr() != b.Chr() || succ.Idx() != b.Idx() || succ.IsPositiveStrand() != b.IsPositiveStrand() {
		return false
	}
	return aChar == e.Ch
}

// pendingAttach pairs a candidate occurrence with the instance index it
// will extend, or -1 if it starts a fresh single-point instance.
type pendingAttach struct {
	occ         junction.SequentialIterator
	instanceIdx int
}

// pushEnd is the shared implementation of PushBack/PushFront. pushingBack
// selects which end is extended; e is the candidate edge from the current
// extremum to the new vertex.
func (p *Path) pushEnd(e junction.Edge, pushingBack bool) bool {
	var newVertex junction.VertexID
	var newDistance int64
	if pushingBack {
		newVertex = e.EndVertex
		assert.Invariant(e.StartVertex == p.EndVertex(), "pushBack edge start %d does not match path end %d", e.StartVertex, p.EndVertex())
		newDistance = p.backDistance() + e.Length
	} else {
		newVertex = e.StartVertex
		assert.Invariant(e.EndVertex == p.StartVertex(), "pushFront edge end %d does not match path start %d", e.EndVertex, p.StartVertex())
		newDistance = p.frontDistance() - e.Length
	}

	if p.hasVertex(newVertex) {
		return false
	}

	// Tentative flank updates, keyed by instance index; left untouched
	// means "defaults to current value" per spec §4.E step 2.
	tentativeRight := make([]int64, len(p.instances))
	tentativeLeft := make([]int64, len(p.instances))
	for i, in := range p.instances {
		tentativeRight[i] = in.RightFlankDistance
		tentativeLeft[i] = in.LeftFlankDistance
	}

	var attach []pendingAttach
	it := p.storage.VertexOccurrences(newVertex)
	for it.Valid() {
		occ := it.SequentialIterator()
		key := occOf(occ)
		if !occ.IsUsed() {
			if _, taken := p.inside[key]; !taken {
				matched := -1
				for i := range p.instances {
					var extremum junction.SequentialIterator
					if pushingBack {
						extremum = p.instances[i].Back
					} else {
						extremum = p.instances[i].Front
					}
					if compatible(extremum, occ, e, p.maxBranchSize, pushingBack) {
						matched = i
						break
					}
				}
				attach = append(attach, pendingAttach{occ: occ, instanceIdx: matched})
				if matched >= 0 {
					if pushingBack {
						tentativeRight[matched] = newDistance
					} else {
						tentativeLeft[matched] = newDistance
					}
				}
			}
		}
		it = it.Next()
	}

	// Flank budget check (spec §4.E step 4), evaluated holistically over
	// every instance's tentative state: reject the whole push if any
	// good instance would exceed its flank budget on either end.
	for i, in := range p.instances {
		tentative := in
		tentative.RightFlankDistance = tentativeRight[i]
		tentative.LeftFlankDistance = tentativeLeft[i]
		if pushingBack {
			tentative.Back = lastAttached(in.Back, attach, i)
		} else {
			tentative.Front = lastAttached(in.Front, attach, i)
		}
		if tentative.Length() >= p.minChainSize {
			newFront, newBack := p.frontDistance(), p.backDistance()
			if pushingBack {
				newBack = newDistance
			} else {
				newFront = newDistance
			}
			if tentative.leftFlank(newFront) > p.maxFlankingSize || tentative.rightFlank(newBack) > p.maxFlankingSize {
				return false
			}
		}
	}

	// Snapshot the pre-commit instance/inside state so a later pop can
	// restore it exactly, then commit: append the body point, extend
	// matched instances, and seed fresh single-point instances for the
	// rest (spec §4.E step 5).
	p.undo = append(p.undo, snapshot(p.instances, p.inside))

	if pushingBack {
		p.body = append(p.body, bodyPoint{vertex: newVertex, distance: newDistance})
		p.edges = append(p.edges, e)
	} else {
		p.body = append([]bodyPoint{{vertex: newVertex, distance: newDistance}}, p.body...)
		p.edges = append([]junction.Edge{e}, p.edges...)
	}

	for _, a := range attach {
		key := occOf(a.occ)
		p.inside[key] = struct{}{}
		if a.instanceIdx >= 0 {
			if pushingBack {
				p.instances[a.instanceIdx].Back = a.occ
				p.instances[a.instanceIdx].RightFlankDistance = newDistance
			} else {
				p.instances[a.instanceIdx].Front = a.occ
				p.instances[a.instanceIdx].LeftFlankDistance = newDistance
			}
		} else {
			p.instances = append(p.instances, Instance{
				Front:              a.occ,
				Back:               a.occ,
				LeftFlankDistance:  newDistance,
				RightFlankDistance: newDistance,
			})
		}
	}

	return true
}

func lastAttached(fallback junction.SequentialIterator, attach []pendingAttach, idx int) junction.SequentialIterator {
	for _, a := range attach {
		if a.instanceIdx == idx {
			return a.occ
		}
	}
	return fallback
}

// snapshot deep-copies the instance slice and inside set so a later pop
// can restore this exact state (spec §8 law 3).
func snapshot(instances []Instance, inside map[occKey]struct{}) undoEntry {
	e := undoEntry{
		instances: make([]Instance, len(instances)),
		inside:    make(map[occKey]struct{}, len(inside)),
	}
	copy(e.instances, instances)
	for k := range inside {
		e.inside[k] = struct{}{}
	}
	return e
}

// PushBack extends the consensus at the right end by edge e (spec §4.E).
func (p *Path) PushBack(e junction.Edge) bool { return p.pushEnd(e, true) }

// PushFront extends the consensus at the left end by edge e (spec §4.E).
func (p *Path) PushFront(e junction.Edge) bool { return p.pushEnd(e, false) }

// PopBack is the exact inverse of the most recent successful push, which
// must have been a PushBack: it restores the instance set and inside set
// from the snapshot taken at that push and drops the trailing body point
// (spec §8 law 3). Callers must not interleave PopBack after a PushFront
// or vice versa without having first undone every push on the other end;
// the extension loop (spec §4.F) never does, since it runs a pushBack/
// popBack phase to completion before starting a pushFront/popFront phase.
func (p *Path) PopBack() {
	assert.Invariant(len(p.body) > 0, "PopBack called on an empty path")
	p.popCommon()
	p.body = p.body[:len(p.body)-1]
	p.edges = p.edges[:len(p.edges)-1]
}

// PopFront is the symmetric inverse of PushFront.
func (p *Path) PopFront() {
	assert.Invariant(len(p.body) > 0, "PopFront called on an empty path")
	p.popCommon()
	p.body = p.body[1:]
	p.edges = p.edges[1:]
}

func (p *Path) popCommon() {
	assert.Invariant(len(p.undo) > 0, "pop called with no matching push to undo")
	last := p.undo[len(p.undo)-1]
	p.undo = p.undo[:len(p.undo)-1]
	p.instances = last.instances
	p.inside = last.inside
}

func (p *Path) backDistanceOrZero() int64 {
	if len(p.body) == 0 {
		return 0
	}
	return p.backDistance()
}

func (p *Path) frontDistanceOrZero() int64 {
	if len(p.body) == 0 {
		return 0
	}
	return p.frontDistance()
}

// GoodInstances returns the count of instances whose length meets
// minChainSize (spec §4.E).
func (p *Path) GoodInstances() int {
	n := 0
	for _, in := range p.instances {
		if in.Length() >= p.minChainSize {
			n++
		}
	}
	return n
}

// Score sums length-leftFlank-rightFlank over instances. When final is
// true, instances shorter than minChainSize are excluded entirely (spec
// §4.E, §9: this filtering applies only at final-commit scoring, never
// during greedy extension).
func (p *Path) Score(final bool) int64 {
	var total int64
	front, back := p.frontDistanceOrZero(), p.backDistanceOrZero()
	for _, in := range p.instances {
		length := in.Length()
		if final && length < p.minChainSize {
			continue
		}
		total += length - in.leftFlank(front) - in.rightFlank(back)
	}
	return total
}

// Edges returns the actual pushed edges between consecutive body points,
// in push order left-to-right, used when handing the best path off to a
// finalizer for the commit re-check (spec §4.F). Callers must not mutate
// the returned slice.
func (p *Path) Edges() []junction.Edge { return p.edges }
