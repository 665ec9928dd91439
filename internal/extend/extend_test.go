package extend

import (
	"testing"

	"github.com/mudesheng/lcbfind/internal/junction"
	"github.com/mudesheng/lcbfind/internal/pathobj"
)

// buildFixture returns a two-chromosome storage carrying the same
// three-vertex walk (1 -> 2 -> 3) on both chromosomes, eight bases apart
// end to end, so a look-ahead walk has somewhere real to go.
func buildFixture(t *testing.T) *junction.Storage {
	t.Helper()
	seq := []byte("ACGTACGTACGT")
	sequences := [][]byte{append([]byte{}, seq...), append([]byte{}, seq...)}
	descriptions := []string{"chr0", "chr1"}
	records := []junction.JunctionRecord{
		{Chr: 0, ID: 1, Pos: 0},
		{Chr: 0, ID: 2, Pos: 4},
		{Chr: 0, ID: 3, Pos: 8},
		{Chr: 1, ID: 1, Pos: 0},
		{Chr: 1, ID: 2, Pos: 4},
		{Chr: 1, ID: 3, Pos: 8},
	}
	s, err := junction.Build(records, sequences, descriptions, 3, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestVotePicksNearestMostPopularVertex(t *testing.T) {
	s := buildFixture(t)
	p := pathobj.New(s, 50, 4, 2)
	p.Init(junction.VertexID(1))

	v := New(s, 2, 50)
	edges, ok := v.vote(p, true)
	if !ok {
		t.Fatalf("vote() = (_, false), want a winner")
	}
	if len(edges) == 0 {
		t.Fatalf("vote() returned no edges")
	}
	if edges[0].EndVertex != 2 {
		t.Errorf("vote() first edge ends at %d, want vertex 2 (nearer of the two tied-count candidates)", edges[0].EndVertex)
	}
}

func TestVoteReturnsFalseWithNoInstances(t *testing.T) {
	s := buildFixture(t)
	p := pathobj.New(s, 50, 4, 2)
	// Mark every occurrence used before Init, leaving nothing unused for
	// Init to seed and so nothing for vote() to work with.
	for chr := 0; chr < s.ChrCount(); chr++ {
		for idx := 0; idx < s.ChrSize(chr); idx++ {
			s.MarkUsed(chr, idx)
		}
	}
	p.Init(junction.VertexID(3))

	v := New(s, 2, 50)
	if _, ok := v.vote(p, true); ok {
		t.Errorf("vote() = (_, true) with every occurrence marked used, want false")
	}
}

func TestPhaseGrowsAndRewindsToBestScore(t *testing.T) {
	s := buildFixture(t)
	p := pathobj.New(s, 50, 4, 2)
	p.Init(junction.VertexID(1))

	v := New(s, 4, 50)
	v.Phase(p, true, 4)

	if p.Len() < 2 {
		t.Fatalf("Phase() left Len() = %d, want at least 2 (some extension happened)", p.Len())
	}
	if p.Score(false) <= 0 {
		t.Errorf("Phase() left Score() = %d, want positive after a successful extension", p.Score(false))
	}
}
