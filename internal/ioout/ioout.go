// Package ioout writes the block finder's outputs (spec.md §6): tab
// delimited coordinates, optional multi-FASTA block sequences, and a
// coverage report. Follows the teacher's os.Create + bufio.NewWriterSize
// output idiom throughout constructdbg.go.
package ioout

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/brotli/go/cbrotli"

	"github.com/mudesheng/lcbfind/internal/junction"
)

type blockInstance struct {
	chr                        int
	strand                     byte
	startOneBased, endOneBased int64
	length                     int64
	// spanLo, spanHi bound the instance on the forward-strand sequence,
	// zero-based half-open, independent of display strand swapping.
	spanLo, spanHi int64
}

// collectInstances walks every (chr, idx) occurrence once, grouping the
// contiguous idx runs that share a block id into instance records. An
// instance's occurrences are always contiguous in idx regardless of
// which direction it was walked in (forward strand walks idx ascending,
// reverse strand descending, but both bound one contiguous idx span), so
// a single ascending scan finds every run.
func collectInstances(s *junction.Storage) map[int64][]blockInstance {
	byBlock := make(map[int64][]blockInstance)
	k := int64(s.K())

	for chr := 0; chr < s.ChrCount(); chr++ {
		var curBlock int64
		var curInstance int32
		var curStart, curEnd int
		open := false

		flush := func() {
			if !open {
				return
			}
			abs := curBlock
			strand := byte('+')
			if abs < 0 {
				abs = -abs
				strand = '-'
			}

			lo := s.Seq(chr, curStart, true).AbsolutePosition()
			hi := s.Seq(chr, curEnd, true).AbsolutePosition() + k
			length := hi - lo

			start, end := lo+1, hi
			if strand == '-' {
				start, end = hi, lo+1
			}

			byBlock[abs] = append(byBlock[abs], blockInstance{
				chr: chr, strand: strand,
				startOneBased: start, endOneBased: end, length: length,
				spanLo: lo, spanHi: hi,
			})
			open = false
		}

		for idx := 0; idx < s.ChrSize(chr); idx++ {
			a := s.Assignment(chr, idx)
			if !a.HasBlock {
				flush()
				continue
			}
			if open && a.BlockID == curBlock && a.InstanceIdx == curInstance && idx == curEnd+1 {
				curEnd = idx
				continue
			}
			flush()
			curBlock, curInstance, curStart, curEnd, open = a.BlockID, a.InstanceIdx, idx, idx, true
		}
		flush()
	}

	return byBlock
}

// WriteCoordinates writes one line per (block, chromosome instance):
// blockID\tchrIndex\tstrand\tstartOneBased\tendOneBased\tlength.
func WriteCoordinates(s *junction.Storage, path string) error {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ioout.WriteCoordinates: %w", err)
	}
	defer fp.Close()
	buffp := bufio.NewWriterSize(fp, 1<<16)
	defer buffp.Flush()

	byBlock := collectInstances(s)
	for blockID, instances := range byBlock {
		for _, in := range instances {
			fmt.Fprintf(buffp, "%d\t%d\t%c\t%d\t%d\t%d\n", blockID, in.chr, in.strand, in.startOneBased, in.endOneBased, in.length)
		}
	}
	return nil
}

// WriteSequences writes the substring covered by each block instance as
// a multi-FASTA record, reverse-complemented on the negative strand. A
// ".br" suffix compresses the output through cbrotli, the way the
// teacher's filterlong subcommand defaults its "output.fa.br" flag.
func WriteSequences(s *junction.Storage, path string) error {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ioout.WriteSequences: %w", err)
	}
	defer fp.Close()

	var w io.Writer = fp
	if strings.HasSuffix(path, ".br") {
		bw := cbrotli.NewWriter(fp, cbrotli.WriterOptions{Quality: 9})
		defer bw.Close()
		w = bw
	}
	buffp := bufio.NewWriterSize(w, 1<<16)
	defer buffp.Flush()

	byBlock := collectInstances(s)
	for blockID, instances := range byBlock {
		for i, in := range instances {
			seq := s.ChrSequence(in.chr)
			sub := seq[in.spanLo:in.spanHi]
			if in.strand == '-' {
				sub = reverseComplement(sub)
			}
			fmt.Fprintf(buffp, ">block%d_%d chr=%d strand=%c len=%d\n", blockID, i, in.chr, in.strand, in.length)
			buffp.Write(sub)
			buffp.WriteByte('\n')
		}
	}
	return nil
}

func reverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, b := range seq {
		out[len(seq)-1-i] = junction.Complement(b)
	}
	return out
}

// WriteCoverageReport reports, per chromosome and overall, the
// percentage of bases covered by blocks with at least N copies, for
// every N from 2 up to the largest multiplicity found, mirroring
// blocksfinder.h's GenerateReport/CalculateCoverage.
func WriteCoverageReport(s *junction.Storage, path string) error {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ioout.WriteCoverageReport: %w", err)
	}
	defer fp.Close()
	buffp := bufio.NewWriterSize(fp, 1<<16)
	defer buffp.Flush()

	byBlock := collectInstances(s)
	maxDegree := 0
	for _, instances := range byBlock {
		if len(instances) > maxDegree {
			maxDegree = len(instances)
		}
	}

	fmt.Fprintf(buffp, "blocksFound\t%d\n", s.BlocksFound())
	fmt.Fprint(buffp, "MinCopies\tAll")
	for chr := 0; chr < s.ChrCount(); chr++ {
		fmt.Fprintf(buffp, "\t%s", s.ChrDescription(chr))
	}
	fmt.Fprintln(buffp)

	for n := 2; n <= maxDegree; n++ {
		covered, total := coveredBases(s, byBlock, n)
		var coveredAll, totalAll int
		for chr := range covered {
			coveredAll += covered[chr]
			totalAll += total[chr]
		}
		fmt.Fprintf(buffp, "%d\t%s", n, pct(coveredAll, totalAll))
		for chr := range covered {
			fmt.Fprintf(buffp, "\t%s", pct(covered[chr], total[chr]))
		}
		fmt.Fprintln(buffp)
	}
	return nil
}

// coveredBases returns, per chromosome, how many bases fall inside some
// instance of a block with at least minCopies copies, and the
// chromosome's length, replaying CalculateCoverage's cover vector.
func coveredBases(s *junction.Storage, byBlock map[int64][]blockInstance, minCopies int) (covered, total []int) {
	total = make([]int, s.ChrCount())
	cover := make([][]bool, s.ChrCount())
	for chr := range cover {
		total[chr] = len(s.ChrSequence(chr))
		cover[chr] = make([]bool, total[chr])
	}

	for _, instances := range byBlock {
		if len(instances) < minCopies {
			continue
		}
		for _, in := range instances {
			row := cover[in.chr]
			for i := in.spanLo; i < in.spanHi; i++ {
				row[i] = true
			}
		}
	}

	covered = make([]int, s.ChrCount())
	for chr, row := range cover {
		for _, v := range row {
			if v {
				covered[chr]++
			}
		}
	}
	return covered, total
}

func pct(covered, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(covered)/float64(total)*100)
}
