package linker

import (
	"sort"

	"github.com/chunksplit/chunksplit/internal/graph"
)

// chunkBucket is an insertion-ordered set of chunk descriptions that can
// be iterated while it is being mutated: additions made during iteration
// are picked up by the same loop, and removals make the stale slice entry
// invisible. The slot map doubles as the membership test -- an entry in
// the ordered slice is live only while slot still points at its index.
type chunkBucket struct {
	ordered []*chunkDescription
	slot    map[*chunkDescription]int
}

func newChunkBucket() *chunkBucket {
	return &chunkBucket{slot: make(map[*chunkDescription]int)}
}

func (b *chunkBucket) add(cd *chunkDescription) {
	if _, ok := b.slot[cd]; ok {
		return
	}
	b.slot[cd] = len(b.ordered)
	b.ordered = append(b.ordered, cd)
}

func (b *chunkBucket) remove(cd *chunkDescription) {
	delete(b.slot, cd)
}

func (b *chunkBucket) len() int {
	return len(b.slot)
}

// liveAt reports whether ordered[i] is still a live entry of the bucket.
func (b *chunkBucket) liveAt(i int) bool {
	s, ok := b.slot[b.ordered[i]]
	return ok && s == i
}

// contents returns the live entries in bucket order.
func (b *chunkBucket) contents() []*chunkDescription {
	out := make([]*chunkDescription, 0, len(b.slot))
	for i, cd := range b.ordered {
		if b.liveAt(i) {
			out = append(out, cd)
		}
	}
	return out
}

// chunkPartition holds the four {small,big} x {pure,sideEffect} buckets
// the merge passes operate on. The buckets are live: merging a chunk
// moves its target to whichever bucket matches its new size and purity.
type chunkPartition struct {
	smallPure       *chunkBucket
	smallSideEffect *chunkBucket
	bigPure         *chunkBucket
	bigSideEffect   *chunkBucket
	minChunkSize    int
}

// bucketFor classifies a chunk by its current size and purity, both of
// which change as merges happen.
func (p *chunkPartition) bucketFor(cd *chunkDescription) *chunkBucket {
	if cd.size < p.minChunkSize {
		if cd.pure {
			return p.smallPure
		}
		return p.smallSideEffect
	}
	if cd.pure {
		return p.bigPure
	}
	return p.bigSideEffect
}

// partitionChunks buckets every preliminary chunk and sorts each bucket
// ascending by size so the smallest chunks merge first.
func partitionChunks(groups []*chunkDescription, minChunkSize int) *chunkPartition {
	p := &chunkPartition{
		smallPure:       newChunkBucket(),
		smallSideEffect: newChunkBucket(),
		bigPure:         newChunkBucket(),
		bigSideEffect:   newChunkBucket(),
		minChunkSize:    minChunkSize,
	}
	sorted := append([]*chunkDescription{}, groups...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].size < sorted[j].size })
	for _, g := range sorted {
		p.bucketFor(g).add(g)
	}
	return p
}

// mergeChunk folds the source chunk into the target in place. Both have
// already been pulled out of their buckets; the caller re-buckets the
// target afterwards, while the source is gone for good.
func mergeChunk(source, target *chunkDescription) {
	target.modules = append(target.modules, source.modules...)
	target.size += source.size
	target.pure = target.pure && source.pure
	target.signature.Merge(source.signature)
}

// runMergePass drains the source bucket, merging each chunk into the
// closest-signature live target found across the candidate buckets.
// distance decides per pair whether a merge is allowed at all; a distance
// of exactly 1 is taken immediately, so ties are broken by candidate
// iteration order. Targets that absorb a chunk are re-bucketed right
// away, which can put them back into this very pass's source bucket.
func runMergePass(p *chunkPartition, sources *chunkBucket, candidates []*chunkBucket, distance func(source, target *chunkDescription) int) {
	for i := 0; i < len(sources.ordered); i++ {
		source := sources.ordered[i]
		if !sources.liveAt(i) {
			continue
		}

		target := pickTarget(source, candidates, distance)
		if target == nil {
			continue
		}

		sources.remove(source)
		p.bucketFor(target).remove(target)
		mergeChunk(source, target)
		p.bucketFor(target).add(target)
	}
}

// pickTarget scans the candidate buckets in order for the live chunk with
// the smallest finite distance from source.
func pickTarget(source *chunkDescription, candidates []*chunkBucket, distance func(source, target *chunkDescription) int) *chunkDescription {
	var best *chunkDescription
	bestDistance := 0

	for _, bucket := range candidates {
		for i, target := range bucket.ordered {
			if !bucket.liveAt(i) || target == source {
				continue
			}
			d := distance(source, target)
			if d == graph.InfiniteDistance {
				continue
			}
			if d == 1 {
				return target
			}
			if best == nil || d < bestDistance {
				best, bestDistance = target, d
			}
		}
	}
	return best
}

// mergeSmallChunks runs the two size-driven merge passes over the
// preliminary chunks and returns the final chunk order.
//
// Pass 1 rescues small chunks with side effects. They may only join a
// pure target whose signature is a subset of their own: the merged chunk
// then loads under exactly the entries that already needed the side
// effects, so no effect ever runs under an entry that did not request it.
//
// Pass 2 rescues small pure chunks. Pure code may be loaded under extra
// entries freely, so any target works -- except that a side-effect target
// must not gain entries either, hence the subset check flips on whenever
// the target is impure.
func mergeSmallChunks(groups []*chunkDescription, minChunkSize int, log mergeLogger) []*chunkDescription {
	if minChunkSize <= 0 {
		return groups
	}

	p := partitionChunks(groups, minChunkSize)
	log.buckets("before merging chunks", p)

	runMergePass(p, p.smallSideEffect,
		[]*chunkBucket{p.smallPure, p.bigPure},
		func(source, target *chunkDescription) int {
			return target.signature.Distance(source.signature, true)
		})
	log.buckets("after merging side effect chunks", p)

	runMergePass(p, p.smallPure,
		[]*chunkBucket{p.smallPure, p.bigSideEffect, p.bigPure},
		func(source, target *chunkDescription) int {
			return source.signature.Distance(target.signature, !target.pure)
		})
	log.buckets("after merging pure chunks", p)

	out := make([]*chunkDescription, 0, len(groups))
	out = append(out, p.smallSideEffect.contents()...)
	out = append(out, p.smallPure.contents()...)
	out = append(out, p.bigSideEffect.contents()...)
	out = append(out, p.bigPure.contents()...)
	return out
}

// mergeLogger is the narrow logging surface the merge pass needs; kept as
// a local interface so this package's core doesn't depend on the concrete
// logger type's formatting choices.
type mergeLogger interface {
	buckets(label string, p *chunkPartition)
}
