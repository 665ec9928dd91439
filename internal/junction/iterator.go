package junction

// SequentialIterator walks the occurrences of one chromosome in order,
// forward or reverse strand (spec §4.C). It is a small value type: cheap
// to copy, purely index-based, valid only while it refers to a Storage
// that outlives it.
type SequentialIterator struct {
	s       *Storage
	chr     int
	idx     int
	forward bool
}

// Seq returns an iterator positioned at (chr, idx) on the given strand.
func (s *Storage) Seq(chr, idx int, positiveStrand bool) SequentialIterator {
	return SequentialIterator{s: s, chr: chr, idx: idx, forward: positiveStrand}
}

// SeqBegin returns the first iterator position on chr for the given strand.
func (s *Storage) SeqBegin(chr int, positiveStrand bool) SequentialIterator {
	if positiveStrand {
		return s.Seq(chr, 0, true)
	}
	return s.Seq(chr, len(s.chrPosition[chr])-1, false)
}

// SeqEnd returns the one-past-the-last iterator position on chr.
func (s *Storage) SeqEnd(chr int, positiveStrand bool) SequentialIterator {
	if positiveStrand {
		return s.Seq(chr, len(s.chrPosition[chr]), true)
	}
	return s.Seq(chr, -1, false)
}

// Valid reports whether the iterator refers to an in-range occurrence.
func (it SequentialIterator) Valid() bool {
	return it.idx >= 0 && it.idx < len(it.s.chrPosition[it.chr])
}

// Chr returns the chromosome index.
func (it SequentialIterator) Chr() int { return it.chr }

// Idx returns the raw array index (not the relative/strand-aware index).
func (it SequentialIterator) Idx() int { return it.idx }

// IsPositiveStrand reports whether the iterator walks the forward strand.
func (it SequentialIterator) IsPositiveStrand() bool { return it.forward }

func (it SequentialIterator) rawID() int32 {
	return it.s.chrPosition[it.chr][it.idx].id
}

// VertexID returns the signed vertex id seen by this iterator: the raw
// recorded id on the forward strand, negated on the reverse strand.
func (it SequentialIterator) VertexID() VertexID {
	id := VertexID(it.rawID())
	if it.forward {
		return id
	}
	return -id
}

// AbsolutePosition returns the raw forward-strand k-mer start position,
// independent of strand.
func (it SequentialIterator) AbsolutePosition() int64 {
	return int64(it.s.chrPosition[it.chr][it.idx].pos)
}

// Position returns the strand-aware coordinate: Pos on the forward
// strand, Pos+k on the reverse strand. Along a walk (Next), positions
// increase on the forward strand and decrease on the reverse strand.
func (it SequentialIterator) Position() int64 {
	p := it.AbsolutePosition()
	if it.forward {
		return p
	}
	return p + int64(it.s.k)
}

// Char returns the character this iterator's strand emits past the
// k-mer: the forward-strand base after the k-mer, or the complement of
// the base before it on the reverse strand.
func (it SequentialIterator) Char() byte {
	pos := it.s.chrPosition[it.chr][it.idx].pos
	seq := it.s.sequence[it.chr]
	if it.forward {
		if int(pos)+it.s.k < len(seq) {
			return seq[int(pos)+it.s.k]
		}
		return 'N'
	}
	if pos > 0 {
		return Complement(seq[pos-1])
	}
	return 'N'
}

// Reverse flips the strand at the same raw index.
func (it SequentialIterator) Reverse() SequentialIterator {
	return SequentialIterator{s: it.s, chr: it.chr, idx: it.idx, forward: !it.forward}
}

// Next returns the iterator advanced by one step in the walk direction.
func (it SequentialIterator) Next() SequentialIterator {
	if it.forward {
		return SequentialIterator{s: it.s, chr: it.chr, idx: it.idx + 1, forward: true}
	}
	return SequentialIterator{s: it.s, chr: it.chr, idx: it.idx - 1, forward: false}
}

// Prev returns the iterator stepped back one position.
func (it SequentialIterator) Prev() SequentialIterator {
	if it.forward {
		return SequentialIterator{s: it.s, chr: it.chr, idx: it.idx - 1, forward: true}
	}
	return SequentialIterator{s: it.s, chr: it.chr, idx: it.idx + 1, forward: false}
}

// Advance moves step positions in the walk direction (negative steps move
// backward); a constant-time strided move per spec §4.C.
func (it SequentialIterator) Advance(step int64) SequentialIterator {
	d := int(step)
	if !it.forward {
		d = -d
	}
	return SequentialIterator{s: it.s, chr: it.chr, idx: it.idx + d, forward: it.forward}
}

// IsUsed reports whether the occurrence under the iterator is committed.
func (it SequentialIterator) IsUsed() bool {
	return it.s.IsUsed(it.chr, it.idx)
}

// MarkUsed commits the occurrence under the iterator.
func (it SequentialIterator) MarkUsed() {
	it.s.MarkUsed(it.chr, it.idx)
}

// OutgoingEdge builds the edge to the next sequential position in the
// walk direction (spec §4.B).
func (it SequentialIterator) OutgoingEdge() Edge {
	nxt := it.Next()
	if !nxt.Valid() {
		return Edge{}
	}
	if it.forward {
		ch := it.s.sequence[it.chr][it.s.chrPosition[it.chr][it.idx].pos+uint32(it.s.k)]
		revCh := Complement(it.s.sequence[it.chr][it.s.chrPosition[it.chr][nxt.idx].pos-1])
		return Edge{
			StartVertex: VertexID(it.rawID()),
			EndVertex:   VertexID(nxt.rawID()),
			Ch:          ch,
			RevCh:       revCh,
			Length:      int64(it.s.chrPosition[it.chr][nxt.idx].pos) - int64(it.s.chrPosition[it.chr][it.idx].pos),
		}
	}
	ch := Complement(it.s.sequence[it.chr][it.s.chrPosition[it.chr][it.idx].pos-1])
	revCh := it.s.sequence[it.chr][it.s.chrPosition[it.chr][nxt.idx].pos+uint32(it.s.k)]
	return Edge{
		StartVertex: -VertexID(it.rawID()),
		EndVertex:   -VertexID(nxt.rawID()),
		Ch:          ch,
		RevCh:       revCh,
		Length:      int64(it.s.chrPosition[it.chr][it.idx].pos) - int64(it.s.chrPosition[it.chr][nxt.idx].pos),
	}
}

// IngoingEdge builds the edge from the previous sequential position in
// the walk direction (spec §4.C).
func (it SequentialIterator) IngoingEdge() Edge {
	prv := it.Prev()
	if !prv.Valid() {
		return Edge{}
	}
	return prv.OutgoingEdge()
}

// VertexIterator enumerates the occurrences of one signed vertex id,
// following the order of the stored per-vertex vector: forward-strand
// requests scan it as-is, reverse-strand requests scan it in reverse
// (spec §4.C).
type VertexIterator struct {
	s    *Storage
	vid  VertexID
	iidx int
}

// VertexOccurrences returns an iterator over every occurrence of v.
func (s *Storage) VertexOccurrences(v VertexID) VertexIterator {
	return VertexIterator{s: s, vid: v, iidx: 0}
}

func (s *Storage) absVertex(v VertexID) VertexID {
	if v < 0 {
		return -v
	}
	return v
}

func (it VertexIterator) rawSlice() []vertexRecord {
	return it.s.vertex[it.s.absVertex(it.vid)]
}

func (it VertexIterator) physicalIndex() int {
	n := len(it.rawSlice())
	if it.vid >= 0 {
		return it.iidx
	}
	return n - it.iidx - 1
}

// Valid reports whether the iterator refers to an in-range occurrence.
func (it VertexIterator) Valid() bool {
	return it.iidx >= 0 && it.iidx < len(it.rawSlice())
}

// Next returns the iterator advanced to the following occurrence.
func (it VertexIterator) Next() VertexIterator {
	return VertexIterator{s: it.s, vid: it.vid, iidx: it.iidx + 1}
}

// Prev returns the iterator moved to the preceding occurrence.
func (it VertexIterator) Prev() VertexIterator {
	return VertexIterator{s: it.s, vid: it.vid, iidx: it.iidx - 1}
}

func (it VertexIterator) rec() vertexRecord {
	return it.rawSlice()[it.physicalIndex()]
}

// IsPositiveStrand reports whether this occurrence's originally recorded
// signed id matches the requested vid, as opposed to its negation, i.e.
// whether walking it.VertexID() traces the forward strand at this
// genomic position.
func (it VertexIterator) IsPositiveStrand() bool {
	return VertexID(it.rec().id) == it.vid
}

// VertexID returns the signed vertex id this iterator was constructed
// for (not the stored occurrence id, though they agree up to sign).
func (it VertexIterator) VertexID() VertexID { return it.vid }

// ChrIdx returns the (chr, idx) location of the current occurrence.
func (it VertexIterator) ChrIdx() (int, int) {
	r := it.rec()
	return int(r.chr), int(r.idx)
}

// Position returns the absolute forward-strand position of the occurrence.
func (it VertexIterator) Position() int64 { return int64(it.rec().pos) }

// Char returns the character associated with this vertex occurrence on
// the requested strand.
func (it VertexIterator) Char() byte {
	r := it.rec()
	if it.IsPositiveStrand() {
		return r.ch
	}
	return r.revCh
}

// InstancesCount returns the total number of occurrences of this vertex.
func (it VertexIterator) InstancesCount() int { return len(it.rawSlice()) }

// SequentialIterator converts this per-vertex occurrence into the
// equivalent sequential iterator over its chromosome.
func (it VertexIterator) SequentialIterator() SequentialIterator {
	chr, idx := it.ChrIdx()
	return it.s.Seq(chr, idx, it.IsPositiveStrand())
}

// IsUsed reports whether the underlying occurrence has been committed.
func (it VertexIterator) IsUsed() bool {
	chr, idx := it.ChrIdx()
	return it.s.IsUsed(chr, idx)
}
