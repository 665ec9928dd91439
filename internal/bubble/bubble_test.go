package bubble

import (
	"testing"

	"github.com/mudesheng/lcbfind/internal/junction"
)

func TestIsSeedAsymmetricJunction(t *testing.T) {
	// Instances 0 and 1 stay joined going forward but separate going
	// backward: an asymmetric junction, the signature of a block seed.
	forward := Bulges{{1}, {0}}
	backward := Bulges{{}, {}}
	if !IsSeed(forward, backward) {
		t.Errorf("IsSeed(%v, %v) = false, want true", forward, backward)
	}
}

func TestIsSeedSymmetricJunctionIsNotSeed(t *testing.T) {
	forward := Bulges{{1}, {0}}
	backward := Bulges{{1}, {0}}
	if IsSeed(forward, backward) {
		t.Errorf("IsSeed(%v, %v) = true, want false (symmetric bulge)", forward, backward)
	}
}

func TestBulgesUnionIsSymmetric(t *testing.T) {
	b := make(Bulges, 3)
	b.union(0, 2)
	if !contains(b[0], 2) || !contains(b[2], 0) {
		t.Errorf("union(0,2) did not record both directions: %v", b)
	}
	b.union(0, 2)
	if len(b[0]) != 1 {
		t.Errorf("union(0,2) twice produced a duplicate: %v", b[0])
	}
}

// buildDivergentFixture returns a storage where vertex 1 has two
// occurrences whose forward walks rejoin at vertex 3 within the window,
// and whose backward walks run to distinct predecessors. Both occurrences
// emit the same base going backward (the complement of the 'T' before
// them), so a backward Scan still pairs them by bucket and IsSeed does
// not report this vertex as a seed.
func buildDivergentFixture(t *testing.T) *junction.Storage {
	t.Helper()
	// chr0: 10 -> 1 -> 3   (backward predecessor 10)
	// chr1: 20 -> 1 -> 3   (backward predecessor 20, distinct from 10)
	seq0 := []byte("ACGTACGTACGTACGT")
	seq1 := []byte("ACGTACGTACGTACGT")
	// Give chr1's vertex-1 occurrence a different immediate emitted base
	// than chr0's, so the two instances are not trivially bucket-paired
	// (bubble.go step 2) and can only join via the forward-walk rejoin at
	// vertex 3 (step 3), which is what this fixture is testing.
	seq1[7] = 'C'
	sequences := [][]byte{seq0, seq1}
	descriptions := []string{"chr0", "chr1"}
	records := []junction.JunctionRecord{
		{Chr: 0, ID: 10, Pos: 0},
		{Chr: 0, ID: 1, Pos: 4},
		{Chr: 0, ID: 3, Pos: 8},
		{Chr: 1, ID: 20, Pos: 0},
		{Chr: 1, ID: 1, Pos: 4},
		{Chr: 1, ID: 3, Pos: 8},
	}
	s, err := junction.Build(records, sequences, descriptions, 3, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestScanForwardRejoinsWithinWindow(t *testing.T) {
	s := buildDivergentFixture(t)
	forward := Scan(s, junction.VertexID(1), 100, false)
	if !contains(forward[0], 1) {
		t.Errorf("Scan forward = %v, want instances 0 and 1 joined (both reach vertex 3)", forward)
	}
}

func TestScanRespectsMaxBranchSizeWindow(t *testing.T) {
	s := buildDivergentFixture(t)
	// A window of 0 can't reach past the immediate occurrence, so the
	// two instances never rejoin.
	forward := Scan(s, junction.VertexID(1), 0, false)
	if contains(forward[0], 1) {
		t.Errorf("Scan with maxBranchSize=0 joined instances that are 4bp apart: %v", forward)
	}
}
