// Package bubble implements the bubble analyser (spec component D): for
// a vertex, it enumerates which pairs of its instances rejoin within a
// bounded window, in each direction, and classifies a vertex as a block
// seed when its forward and backward bulges disagree (an asymmetric
// junction, the signature of an LCB boundary).
package bubble

import (
	"github.com/cespare/xxhash"
	"github.com/mudesheng/lcbfind/internal/junction"
	"github.com/mudesheng/lcbfind/internal/numeric"
)

// alphabetBucket classifies an emitted base into one of five buckets
// (A, C, G, T, other/wildcard) so occurrences whose outgoing edge shares
// a bucket are trivially bubbled pairwise (spec §4.D step 2).
func alphabetBucket(ch byte) int {
	switch ch {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'G', 'g':
		return 2
	case 'T', 't':
		return 3
	default:
		return 4
	}
}

// branchMap is a scratch hash table from a candidate downstream vertex id
// to the branch indices that reached it, keyed by an xxhash-mixed bucket.
// The teacher's cuckoofilter.go builds its probabilistic set on top of
// the same xxhash primitive for exactly this reason: a vertex-id-keyed
// lookup on the hot per-vertex scan shouldn't pay Go's generic map
// overhead for int64 keys when a flat, rehashed bucket array will do.
type branchMap struct {
	buckets [][]branchEntry
	mask    uint64
}

type branchEntry struct {
	vertex   junction.VertexID
	branches []int
}

func newBranchMap(hint int) *branchMap {
	size := uint64(16)
	for size < uint64(hint)*2 {
		size <<= 1
	}
	return &branchMap{buckets: make([][]branchEntry, size), mask: size - 1}
}

func (m *branchMap) hashOf(v junction.VertexID) uint64 {
	var b [8]byte
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
	return xxhash.Sum64(b[:]) & m.mask
}

// addBranch records that branch originated vertex, returning the list of
// branches that have reached vertex so far including this one.
func (m *branchMap) addBranch(vertex junction.VertexID, branch int) []int {
	h := m.hashOf(vertex)
	bucket := m.buckets[h]
	for i := range bucket {
		if bucket[i].vertex == vertex {
			bucket[i].branches = append(bucket[i].branches, branch)
			return bucket[i].branches
		}
	}
	m.buckets[h] = append(bucket, branchEntry{vertex: vertex, branches: []int{branch}})
	return m.buckets[h][len(m.buckets[h])-1].branches
}

func (m *branchMap) entries() [][]int {
	var out [][]int
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			out = append(out, e.branches)
		}
	}
	return out
}

// Bulges is the result of scanning one direction from a vertex: an
// undirected adjacency list over instance indices, Bulges[i] containing
// every j that rejoins instance i within the configured window.
type Bulges [][]int

func (b Bulges) union(i, j int) {
	if i == j {
		return
	}
	if !contains(b[i], j) {
		b[i] = append(b[i], j)
	}
	if !contains(b[j], i) {
		b[j] = append(b[j], i)
	}
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// Scan computes the bulge adjacency for vertex v in one direction
// (forward when reverse == false). maxBranchSize is the rejoin-window
// budget from spec §4.D / config.
func Scan(s *junction.Storage, v junction.VertexID, maxBranchSize int64, reverse bool) Bulges {
	n := s.InstancesCount(v)
	bulges := make(Bulges, n)
	if n < 2 {
		return bulges
	}

	walkVid := v
	if reverse {
		walkVid = -v
	}

	starts := make([]junction.SequentialIterator, n)
	it := s.VertexOccurrences(walkVid)
	for i := 0; i < n; i, it = i+1, it.Next() {
		starts[i] = it.SequentialIterator()
	}

	// Step 2: trivial bucket pairing by the immediate emitted character.
	bucketOf := make([]int, n)
	for i, start := range starts {
		bucketOf[i] = alphabetBucket(start.Char())
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if bucketOf[i] == bucketOf[j] {
				bulges.union(i, j)
			}
		}
	}

	// Step 3: walk forward from each instance, recording the first branch
	// set to reach each downstream vertex within the window.
	bm := newBranchMap(n * 4)
	for i, start := range starts {
		originPos := start.Position()
		walker := start.Next()
		for walker.Valid() {
			if numeric.AbsInt64(originPos-walker.Position()) > maxBranchSize {
				break
			}
			branches := bm.addBranch(walker.VertexID(), i)
			if len(branches) > 1 {
				break
			}
			walker = walker.Next()
		}
	}

	for _, branches := range bm.entries() {
		for a := 0; a < len(branches); a++ {
			for b := a + 1; b < len(branches); b++ {
				bulges.union(branches[a], branches[b])
			}
		}
	}

	return bulges
}

// IsSeed implements the source test (spec §4.D): v is a block seed iff
// some pair of instances separates going backward while staying joined
// going forward, an asymmetric junction.
func IsSeed(forward, backward Bulges) bool {
	for i := range forward {
		for _, j := range forward[i] {
			if !contains(backward[i], j) {
				return true
			}
		}
	}
	return false
}
