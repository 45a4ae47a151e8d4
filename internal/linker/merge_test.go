package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chunksplit/chunksplit/internal/graph"
)

func sigOf(pattern string) graph.EntrySignature {
	sig := graph.NewEntrySignature(uint(len(pattern)))
	for i, c := range pattern {
		if c == 'X' {
			sig.Set(uint(i))
		}
	}
	return sig
}

func desc(id string, pattern string, size int, pure bool) *chunkDescription {
	return &chunkDescription{
		modules:   []graph.Module{mod(id, size)},
		signature: sigOf(pattern),
		size:      size,
		pure:      pure,
	}
}

func descIDs(cds []*chunkDescription) []string {
	var ids []string
	for _, cd := range cds {
		for _, m := range cd.modules {
			ids = append(ids, m.(*fakeModule).id)
		}
	}
	return ids
}

type discardMergeLogger struct{}

func (discardMergeLogger) buckets(string, *chunkPartition) {}

func TestChunkBucketSkipsRemovedEntries(t *testing.T) {
	b := newChunkBucket()
	a := desc("a", "X", 1, true)
	c := desc("c", "X", 2, true)
	b.add(a)
	b.add(c)
	b.remove(a)

	assert.Equal(t, 1, b.len())
	assert.Equal(t, []string{"c"}, descIDs(b.contents()))
}

func TestChunkBucketReAddMovesToEnd(t *testing.T) {
	b := newChunkBucket()
	a := desc("a", "X", 1, true)
	c := desc("c", "X", 2, true)
	b.add(a)
	b.add(c)
	b.remove(a)
	b.add(a)

	assert.Equal(t, []string{"c", "a"}, descIDs(b.contents()))
}

func TestPartitionSortsBucketsBySize(t *testing.T) {
	big := desc("big", "X_", 500, true)
	small2 := desc("small2", "_X", 20, true)
	small1 := desc("small1", "XX", 10, false)

	p := partitionChunks([]*chunkDescription{big, small2, small1}, 100)

	assert.Equal(t, []string{"small2"}, descIDs(p.smallPure.contents()))
	assert.Equal(t, []string{"small1"}, descIDs(p.smallSideEffect.contents()))
	assert.Equal(t, []string{"big"}, descIDs(p.bigPure.contents()))
	assert.Equal(t, 0, p.bigSideEffect.len())
}

func TestPickTargetPrefersEarliestAtEqualDistance(t *testing.T) {
	source := desc("src", "X___", 1, true)
	first := desc("first", "XX__", 10, true)
	second := desc("second", "X_X_", 20, true)

	// Both are one position away; with the short-circuit the scan stops
	// at the first candidate.
	b := newChunkBucket()
	b.add(first)
	b.add(second)
	got := pickTarget(source, []*chunkBucket{b}, func(s, t *chunkDescription) int {
		return s.signature.Distance(t.signature, false)
	})
	assert.Same(t, first, got)
}

func TestPickTargetSkipsIncompatibleCandidates(t *testing.T) {
	source := desc("src", "X_", 1, false)
	incompatible := desc("inc", "_X", 10, true)

	b := newChunkBucket()
	b.add(incompatible)
	got := pickTarget(source, []*chunkBucket{b}, func(s, t *chunkDescription) int {
		return t.signature.Distance(s.signature, true)
	})
	assert.Nil(t, got)
}

func TestPickTargetNeverReturnsSource(t *testing.T) {
	source := desc("src", "X_", 1, true)
	b := newChunkBucket()
	b.add(source)
	got := pickTarget(source, []*chunkBucket{b}, func(s, t *chunkDescription) int {
		return s.signature.Distance(t.signature, false)
	})
	assert.Nil(t, got)
}

func TestMergeChunkCombinesEverything(t *testing.T) {
	source := desc("src", "X_", 10, false)
	target := desc("tgt", "_X", 20, true)

	mergeChunk(source, target)

	assert.Equal(t, []string{"tgt", "src"}, descIDs([]*chunkDescription{target}))
	assert.Equal(t, 30, target.size)
	assert.False(t, target.pure)
	assert.Equal(t, "XX", target.signature.Format())
}

func TestMergePassChainsThroughReAddedTargets(t *testing.T) {
	// Three small pure chunks with pairwise-compatible signatures: a
	// merges into b, the combined chunk is re-added, and c later merges
	// into it, leaving one chunk holding everything.
	a := desc("a", "X__", 1, true)
	b := desc("b", "_X_", 2, true)
	c := desc("c", "__X", 4, true)

	p := partitionChunks([]*chunkDescription{a, b, c}, 100)
	runMergePass(p, p.smallPure,
		[]*chunkBucket{p.smallPure, p.bigSideEffect, p.bigPure},
		func(source, target *chunkDescription) int {
			return source.signature.Distance(target.signature, !target.pure)
		})

	assert.Equal(t, 1, p.smallPure.len())
	final := p.smallPure.contents()[0]
	assert.ElementsMatch(t, []string{"a", "b", "c"}, descIDs([]*chunkDescription{final}))
	assert.Equal(t, "XXX", final.signature.Format())
	assert.Equal(t, 7, final.size)
}

func TestMergeSmallChunksEmitsBucketsInFixedOrder(t *testing.T) {
	// Signatures are chosen so no merge is legal: the small side-effect
	// chunk has no subset target, and the small pure chunk would widen
	// the side-effect target's entries.
	smallSE := desc("smallSE", "X___", 10, false)
	smallP := desc("smallP", "_X__", 10, true)
	bigSE := desc("bigSE", "__XX", 500, false)

	out := mergeSmallChunks([]*chunkDescription{bigSE, smallP, smallSE}, 100, discardMergeLogger{})

	assert.Equal(t, []string{"smallSE", "smallP", "bigSE"}, descIDs(out))
}
