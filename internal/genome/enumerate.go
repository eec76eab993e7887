// Package genome enumerates synthetic single-nucleotide substitutions
// across a reference genome.
package genome

// Substitution is a single-nucleotide change at a 1-based genome position.
type Substitution struct {
	Pos int64
	Ref byte
	Alt byte
}

// substitutionPairs is the fixed ordered list of all ref != alt base pairs
// over {A,C,G,T}. The order is part of the output contract: the synthetic
// catalog must be byte-for-byte reproducible across runs.
var substitutionPairs = [12][2]byte{
	{'A', 'C'}, {'A', 'T'}, {'A', 'G'},
	{'C', 'A'}, {'C', 'T'}, {'C', 'G'},
	{'G', 'C'}, {'G', 'T'}, {'G', 'A'},
	{'T', 'C'}, {'T', 'G'}, {'T', 'A'},
}

// PairsPerPosition is the number of substitutions generated per position.
const PairsPerPosition = len(substitutionPairs)

// Enumerator lazily yields every possible single-nucleotide substitution
// over positions 1..Length, ordered by position ascending, then by the
// fixed pair order. It is deterministic and restartable.
//
// The length must match the reference genome the annotation tool uses; a
// mismatch is not detectable here and produces wrong results downstream.
type Enumerator struct {
	length int64
	pos    int64
	pair   int
}

// NewEnumerator creates an enumerator over positions 1..length.
func NewEnumerator(length int64) *Enumerator {
	return &Enumerator{length: length, pos: 1}
}

// Next returns the next substitution, or nil when the catalog is exhausted.
func (e *Enumerator) Next() *Substitution {
	if e.pos > e.length {
		return nil
	}
	p := substitutionPairs[e.pair]
	s := &Substitution{Pos: e.pos, Ref: p[0], Alt: p[1]}
	e.pair++
	if e.pair == PairsPerPosition {
		e.pair = 0
		e.pos++
	}
	return s
}

// Reset rewinds the enumerator to the first substitution.
func (e *Enumerator) Reset() {
	e.pos = 1
	e.pair = 0
}

// Total returns the number of substitutions the full catalog contains.
func (e *Enumerator) Total() int64 {
	if e.length < 1 {
		return 0
	}
	return e.length * int64(PairsPerPosition)
}
