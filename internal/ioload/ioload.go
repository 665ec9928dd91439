// Package ioload reads the two external inputs from spec.md §6: the
// binary junction stream and the genome FASTA. Follows the teacher's
// bufio.NewReaderSize + encoding/binary idiom (constructdbg.go's node
// readers) for the junction stream, and biogo's fasta reader (hinted at,
// commented out, in the teacher's bam.go) for the genome.
package ioload

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/zstd"

	"github.com/mudesheng/lcbfind/internal/junction"
)

// junctionRecordOnDisk mirrors the wire layout of one junction record:
// chr u32, id i32, pos u32, little-endian, matching spec.md §6.
type junctionRecordOnDisk struct {
	Chr uint32
	ID  int32
	Pos uint32
}

// LoadJunctions reads the binary junction stream. A ".zst" suffix opens
// it through klauspost/compress/zstd (the teacher's ReadZstdFile covers
// the same concern for its own edge format); anything else is read
// directly through a buffered reader.
func LoadJunctions(path string) ([]junction.JunctionRecord, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ioload.LoadJunctions: %w", err)
	}
	defer fp.Close()

	var r io.Reader = bufio.NewReaderSize(fp, 1<<20)
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("ioload.LoadJunctions: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var records []junction.JunctionRecord
	var rec junctionRecordOnDisk
	for {
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("ioload.LoadJunctions: truncated junction stream: %w", err)
		}
		records = append(records, junction.JunctionRecord{
			Chr: int32(rec.Chr),
			ID:  rec.ID,
			Pos: rec.Pos,
		})
	}
	return records, nil
}

// LoadGenome reads one FASTA record per chromosome, in file order,
// transparently gunzipping a ".gz" input.
func LoadGenome(path string) (sequences [][]byte, descriptions []string, err error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ioload.LoadGenome: %w", err)
	}
	defer fp.Close()

	var r io.Reader = bufio.NewReaderSize(fp, 1<<20)
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("ioload.LoadGenome: %w", err)
		}
		defer gr.Close()
		r = gr
	}

	reader := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))
	for {
		s, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("ioload.LoadGenome: %w", err)
		}
		ls, ok := s.(*linear.Seq)
		if !ok {
			return nil, nil, fmt.Errorf("ioload.LoadGenome: unexpected sequence type %T", s)
		}
		raw := make([]byte, len(ls.Seq))
		for i, l := range ls.Seq {
			raw[i] = byte(l)
		}
		sequences = append(sequences, raw)
		descriptions = append(descriptions, ls.Annotation.ID)
	}
	return sequences, descriptions, nil
}
