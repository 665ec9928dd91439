package junction

import "testing"

// buildFixture returns a two-chromosome storage where both chromosomes
// carry the same three-vertex walk (ids 1, 2, 3) at positions 0, 4, 8,
// so every vertex has exactly two occurrences, one per chromosome.
func buildFixture(t *testing.T) *Storage {
	t.Helper()
	seq := []byte("ACGTACGTACGT")
	sequences := [][]byte{append([]byte{}, seq...), append([]byte{}, seq...)}
	descriptions := []string{"chr0", "chr1"}
	records := []JunctionRecord{
		{Chr: 0, ID: 1, Pos: 0},
		{Chr: 0, ID: 2, Pos: 4},
		{Chr: 0, ID: 3, Pos: 8},
		{Chr: 1, ID: 1, Pos: 0},
		{Chr: 1, ID: 2, Pos: 4},
		{Chr: 1, ID: 3, Pos: 8},
	}
	s, err := Build(records, sequences, descriptions, 3, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestBuildBasics(t *testing.T) {
	s := buildFixture(t)
	if s.ChrCount() != 2 {
		t.Fatalf("ChrCount() = %d, want 2", s.ChrCount())
	}
	if s.ChrSize(0) != 3 {
		t.Fatalf("ChrSize(0) = %d, want 3", s.ChrSize(0))
	}
	if s.VerticesNumber() != 3 {
		t.Fatalf("VerticesNumber() = %d, want 3", s.VerticesNumber())
	}
	if got := s.InstancesCount(VertexID(2)); got != 2 {
		t.Fatalf("InstancesCount(2) = %d, want 2", got)
	}
	if got := s.InstancesCount(VertexID(-2)); got != 2 {
		t.Fatalf("InstancesCount(-2) = %d, want 2 (shared by sign)", got)
	}
}

func TestBuildRejectsUnsorted(t *testing.T) {
	sequences := [][]byte{[]byte("ACGTACGTACGT")}
	records := []JunctionRecord{{Chr: 0, ID: 1, Pos: 4}, {Chr: 0, ID: 2, Pos: 0}}
	if _, err := Build(records, sequences, []string{"chr0"}, 3, 1); err == nil {
		t.Fatalf("Build: expected an error for an unsorted junction stream")
	}
}

func TestSequentialIteratorWalk(t *testing.T) {
	s := buildFixture(t)

	it := s.SeqBegin(0, true)
	var positions []int64
	for it.Valid() {
		positions = append(positions, it.Position())
		it = it.Next()
	}
	want := []int64{0, 4, 8}
	if len(positions) != len(want) {
		t.Fatalf("forward walk got %v, want %v", positions, want)
	}
	for i := range want {
		if positions[i] != want[i] {
			t.Errorf("forward walk[%d] = %d, want %d", i, positions[i], want[i])
		}
	}

	// Position on the reverse strand grows as pos+k, so walking the
	// reverse strand in storage order still ascends (spec §4.C).
	rit := s.Seq(0, 0, false)
	if rit.Position() != 3 {
		t.Errorf("reverse Position() = %d, want 3 (pos 0 + k 3)", rit.Position())
	}
}

func TestVertexOccurrencesSignSymmetry(t *testing.T) {
	s := buildFixture(t)

	fwd := s.VertexOccurrences(VertexID(1))
	var fwdPositions []int64
	for fwd.Valid() {
		fwdPositions = append(fwdPositions, fwd.Position())
		fwd = fwd.Next()
	}

	rev := s.VertexOccurrences(VertexID(-1))
	var revPositions []int64
	for rev.Valid() {
		revPositions = append(revPositions, rev.Position())
		rev = rev.Next()
	}

	if len(fwdPositions) != len(revPositions) {
		t.Fatalf("+1 has %d occurrences, -1 has %d, want equal", len(fwdPositions), len(revPositions))
	}
}

func TestEdgeReverseInvolution(t *testing.T) {
	s := buildFixture(t)
	it := s.Seq(0, 0, true)
	e := it.OutgoingEdge()
	if !e.Valid() {
		t.Fatalf("OutgoingEdge() returned an invalid edge")
	}
	if got := e.Reverse().Reverse(); got != e {
		t.Errorf("Reverse(Reverse(e)) = %+v, want %+v", got, e)
	}
	if e.Reverse().StartVertex != -e.EndVertex || e.Reverse().EndVertex != -e.StartVertex {
		t.Errorf("Reverse() did not negate-and-swap endpoints: %+v", e.Reverse())
	}
}

func TestStripeLockingOrderAndDedup(t *testing.T) {
	s := buildFixture(t)
	keys := s.RangeOf(0, 0, 2)
	if len(keys) == 0 {
		t.Fatalf("RangeOf returned no keys")
	}
	for _, k := range keys {
		if k.Chr != 0 {
			t.Errorf("RangeOf(0, ...) returned key for chr %d", k.Chr)
		}
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1].Stripe >= keys[i].Stripe {
			t.Errorf("RangeOf keys not strictly ascending and deduped: %v", keys)
		}
	}
	s.LockStripes(keys)
	s.UnlockStripes(keys)
}

func TestUsedAndAssignment(t *testing.T) {
	s := buildFixture(t)
	if s.IsUsed(0, 0) {
		t.Fatalf("fresh storage reports (0,0) as used")
	}
	s.MarkUsed(0, 0)
	if !s.IsUsed(0, 0) {
		t.Fatalf("MarkUsed did not stick")
	}

	id := s.NextBlockID()
	s.SetAssignment(0, 0, id, 0)
	a := s.Assignment(0, 0)
	if !a.HasBlock || a.BlockID != id {
		t.Errorf("Assignment(0,0) = %+v, want block %d", a, id)
	}
	if s.BlocksFound() != id {
		t.Errorf("BlocksFound() = %d, want %d", s.BlocksFound(), id)
	}
}
