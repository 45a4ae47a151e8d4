package graph

import "github.com/chunksplit/chunksplit/internal/helpers"

// EntrySignature records, for a single module, which of the canonically
// ordered entry points depend on it. Two modules with an equal signature
// are chunk-equivalent: they can never be observably split apart, so they
// become candidates for the same preliminary chunk.
//
// It's backed by a helpers.BitSet rather than a literal 'X'/'_' string for
// speed -- thousands of modules times thousands of entries adds up -- but
// Format renders the 'X'/'_' notation for verbose output and tests.
type EntrySignature struct {
	bits    helpers.BitSet
	numBits uint
}

func NewEntrySignature(numEntries uint) EntrySignature {
	return EntrySignature{bits: helpers.NewBitSet(numEntries), numBits: numEntries}
}

func (s EntrySignature) Set(entryIndex uint) {
	s.bits.SetBit(entryIndex)
}

// Key returns a value suitable for use as a map key and for canonical
// sorting. Equal signatures always produce an equal key.
func (s EntrySignature) Key() string {
	return s.bits.String()
}

// Format renders the signature using the textual 'X'/'_' alphabet.
func (s EntrySignature) Format() string {
	return s.bits.Format(s.numBits)
}

// Clone returns an independent copy, since Merge mutates the receiver.
func (s EntrySignature) Clone() EntrySignature {
	return EntrySignature{bits: s.bits.Clone(), numBits: s.numBits}
}

// Merge ORs other's bits into the receiver in place. Position-wise OR is
// commutative, associative and idempotent, so merge order between chunks
// never changes the resulting signature.
func (s EntrySignature) Merge(other EntrySignature) {
	s.bits.UnionInPlace(other.bits)
}

// Distance returns the number of positions at which the two signatures
// differ. When enforceSubset is true, any bit set on the receiver but
// missing from other makes the two incompatible and the distance is
// reported as InfiniteDistance.
func (s EntrySignature) Distance(other EntrySignature, enforceSubset bool) int {
	if enforceSubset && s.bits.HasAnyNotIn(other.bits) {
		return InfiniteDistance
	}
	return s.bits.DifferingBitCount(other.bits)
}

// InfiniteDistance is the sentinel returned by Distance when a merge would
// be unsafe.
const InfiniteDistance = -1
