package ioout

import (
	"os"
	"strings"
	"testing"

	"github.com/mudesheng/lcbfind/internal/junction"
)

// buildFixture returns a one-chromosome storage long enough to carve out
// a three-occurrence run and commits it as block 1, covering positions
// 0 through 10, including the trailing k-mer (k=3).
func buildFixture(t *testing.T) *junction.Storage {
	t.Helper()
	seq := []byte("ACGTACGTACGT")
	records := []junction.JunctionRecord{
		{Chr: 0, ID: 1, Pos: 0},
		{Chr: 0, ID: 2, Pos: 4},
		{Chr: 0, ID: 3, Pos: 8},
	}
	s, err := junction.Build(records, [][]byte{seq}, []string{"chr0"}, 3, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	blockID := s.NextBlockID()
	for idx := 0; idx < 3; idx++ {
		s.MarkUsed(0, idx)
		s.SetAssignment(0, idx, blockID, 0)
	}
	return s
}

func TestCollectInstancesUsesGenomicPositionsNotArrayIndices(t *testing.T) {
	s := buildFixture(t)
	byBlock := collectInstances(s)
	instances := byBlock[1]
	if len(instances) != 1 {
		t.Fatalf("collectInstances()[1] = %d instances, want 1", len(instances))
	}
	in := instances[0]
	// Occurrences sit at genomic positions 0, 4, 8; the span must run from
	// the first occurrence's position to the last occurrence's position
	// plus k, not from the occurrence's array index.
	wantLo, wantHi := int64(0), int64(8+3)
	if in.spanLo != wantLo || in.spanHi != wantHi {
		t.Errorf("span = [%d, %d), want [%d, %d)", in.spanLo, in.spanHi, wantLo, wantHi)
	}
	if in.length != wantHi-wantLo {
		t.Errorf("length = %d, want %d", in.length, wantHi-wantLo)
	}
}

func TestWriteSequencesSlicesForwardStrandSpanVerbatim(t *testing.T) {
	s := buildFixture(t)
	path := t.TempDir() + "/out.fa"
	if err := WriteSequences(s, path); err != nil {
		t.Fatalf("WriteSequences: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], ">") {
		t.Fatalf("WriteSequences output = %q, want a single two-line FASTA record", data)
	}
	want := "ACGTACGTACG" // seq[0:11): span [0, 8+k) for the occurrence run
	if lines[1] != want {
		t.Errorf("WriteSequences body = %q, want %q", lines[1], want)
	}
}

// buildTwoCopyFixture returns a two-chromosome storage where a single
// block has one instance per chromosome, each spanning its whole
// sequence, so the block's multiplicity is exactly 2.
func buildTwoCopyFixture(t *testing.T) *junction.Storage {
	t.Helper()
	seq0 := []byte("ACGTACGTACGT")
	seq1 := []byte("ACGTACGTACGT")
	records := []junction.JunctionRecord{
		{Chr: 0, ID: 1, Pos: 0},
		{Chr: 0, ID: 2, Pos: 4},
		{Chr: 0, ID: 3, Pos: 9},
		{Chr: 1, ID: 1, Pos: 0},
		{Chr: 1, ID: 2, Pos: 4},
		{Chr: 1, ID: 3, Pos: 9},
	}
	s, err := junction.Build(records, [][]byte{seq0, seq1}, []string{"chr0", "chr1"}, 3, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	blockID := s.NextBlockID()
	for chr := 0; chr < 2; chr++ {
		for idx := 0; idx < 3; idx++ {
			s.SetAssignment(chr, idx, blockID, int32(chr))
		}
	}
	return s
}

func TestWriteCoverageReportBinsByMultiplicity(t *testing.T) {
	s := buildTwoCopyFixture(t)
	path := t.TempDir() + "/coverage.txt"
	if err := WriteCoverageReport(s, path); err != nil {
		t.Fatalf("WriteCoverageReport: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	// blocksFound, the header, and a single MinCopies=2 row: the block's
	// only multiplicity is 2, so the binning never goes past it.
	if len(lines) != 3 {
		t.Fatalf("WriteCoverageReport lines = %d, want 3:\n%s", len(lines), data)
	}
	want := "2\t100.00\t100.00\t100.00"
	if lines[2] != want {
		t.Errorf("degree-2 row = %q, want %q", lines[2], want)
	}
}

func TestWriteCoverageReportNoMultiBlockHasNoRows(t *testing.T) {
	s := buildFixture(t)
	path := t.TempDir() + "/coverage.txt"
	if err := WriteCoverageReport(s, path); err != nil {
		t.Fatalf("WriteCoverageReport: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	// buildFixture's one block has a single instance, degree 1, below the
	// binning floor of 2, so only blocksFound and the header are emitted.
	if len(lines) != 2 {
		t.Fatalf("WriteCoverageReport lines = %d, want 2:\n%s", len(lines), data)
	}
}

func TestReverseComplement(t *testing.T) {
	got := reverseComplement([]byte("ACGT"))
	want := "ACGT" // ACGT is its own reverse complement
	if string(got) != want {
		t.Errorf("reverseComplement(ACGT) = %s, want %s", got, want)
	}
	got2 := reverseComplement([]byte("AACC"))
	want2 := "GGTT"
	if string(got2) != want2 {
		t.Errorf("reverseComplement(AACC) = %s, want %s", got2, want2)
	}
}
