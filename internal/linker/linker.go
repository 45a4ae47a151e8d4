// Package linker implements chunk assignment: deciding which output chunk
// every module in a dependency graph belongs to. The algorithm is a pure
// function of its inputs -- it does no I/O, touches no filesystem, and
// produces the same chunk list for the same graph every time it runs.
package linker

import (
	"fmt"

	"github.com/chunksplit/chunksplit/internal/graph"
	"github.com/chunksplit/chunksplit/internal/helpers"
	"github.com/chunksplit/chunksplit/internal/logger"
)

// AssignChunks runs the full assignment pipeline over entries and the
// optional manual chunk assignments, and returns the final chunk list:
// manual chunks first in the order their aliases were introduced, followed
// by automatic chunks in their own deterministic order.
//
// minChunkSize enables the size-driven merge pass when positive; a value
// of zero disables it and preliminary signature groups are emitted as-is.
// Negative values are a caller error.
func AssignChunks(entries []graph.Module, manual []graph.ManualChunk, minChunkSize int, log logger.Log, timer *helpers.Timer) []graph.Chunk {
	if minChunkSize < 0 {
		panic("linker: minChunkSize must not be negative")
	}

	timer.Begin("Assign chunks")
	defer timer.End("Assign chunks")

	timer.Begin("Materialize manual chunks")
	manualChunks, inManualChunks := materializeManualChunks(manual)
	timer.End("Materialize manual chunks")

	// Entries claimed by a manual chunk still take part in graph analysis
	// (they occupy a signature position and can discover dynamic entries);
	// only the entry-to-module attribution skips them.
	timer.Begin("Analyze module graph")
	ga := analyzeGraph(entries)
	depsByDynEntry := dynamicDependents(ga)
	timer.End("Analyze module graph")

	timer.Begin("Assign entries to modules")
	as := assignEntries(ga, depsByDynEntry, inManualChunks)
	timer.End("Assign entries to modules")

	timer.Begin("Group modules by signature")
	entryIndex := ga.entryIndex()
	numEntries := uint(len(ga.allEntries))
	groups := groupBySignature(as, entryIndex, numEntries)
	timer.End("Group modules by signature")

	if log.IsVerbose() {
		for _, g := range groups {
			log.Verbose(fmt.Sprintf("signature %s: %d modules, %s",
				g.signature.Format(), len(g.modules), logger.PrettyBytes(g.size)))
		}
	}

	timer.Begin("Merge small chunks")
	groups = mergeSmallChunks(groups, minChunkSize, loggingAdapter{log})
	timer.End("Merge small chunks")

	automaticChunks := make([]graph.Chunk, len(groups))
	for i, g := range groups {
		automaticChunks[i] = graph.Chunk{Modules: g.modules}
	}

	result := make([]graph.Chunk, 0, len(manualChunks)+len(automaticChunks))
	result = append(result, manualChunks...)
	result = append(result, automaticChunks...)

	log.Verbose(fmt.Sprintf("generated %d manual and %d automatic chunks", len(manualChunks), len(automaticChunks)))
	return result
}

// loggingAdapter satisfies mergeLogger in terms of the public logger.Log
// type, keeping the merge pass free of a direct dependency on pterm's
// formatting choices.
type loggingAdapter struct {
	log logger.Log
}

func (a loggingAdapter) buckets(label string, p *chunkPartition) {
	a.log.BucketCounts(label, p.smallPure.len(), p.smallSideEffect.len(), p.bigPure.len(), p.bigSideEffect.len())
}
