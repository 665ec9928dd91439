package junction

// Edge is a transient value describing the oriented gap between two
// adjacent occurrences of the same chromosome. Edges are never stored;
// they are constructed on the fly by the sequential iterator (see
// iterator.go) and consumed immediately by the path object.
type Edge struct {
	StartVertex VertexID
	EndVertex   VertexID
	Ch          byte
	RevCh       byte
	Length      int64
}

// Valid reports whether e was actually constructed from two occurrences,
// as opposed to the zero Edge returned at a chromosome boundary.
func (e Edge) Valid() bool {
	return e.StartVertex != 0 || e.EndVertex != 0 || e.Ch != 0
}

// Reverse returns the edge as seen walking the opposite strand: endpoints
// are negated and swapped, and Ch/RevCh swap. Reversal is an involution
// (spec §8 law 1): Reverse(Reverse(e)) == e.
func (e Edge) Reverse() Edge {
	return Edge{
		StartVertex: -e.EndVertex,
		EndVertex:   -e.StartVertex,
		Ch:          e.RevCh,
		RevCh:       e.Ch,
		Length:      e.Length,
	}
}

// Equal implements the (start, end, ch) comparison from spec §4.B: two
// edges compare equal iff their endpoints and emitted character match,
// regardless of RevCh or Length.
func (e Edge) Equal(o Edge) bool {
	return e.StartVertex == o.StartVertex && e.EndVertex == o.EndVertex && e.Ch == o.Ch
}

var complementTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(i)
	}
	t['A'], t['T'] = 'T', 'A'
	t['C'], t['G'] = 'G', 'C'
	t['a'], t['t'] = 't', 'a'
	t['c'], t['g'] = 'g', 'c'
	t['N'], t['n'] = 'N', 'n'
	return t
}()

// Complement returns the Watson-Crick complement of a single base,
// preserving case and passing the 'N' sentinel through unchanged.
func Complement(ch byte) byte {
	return complementTable[ch]
}
