package linker

import "github.com/chunksplit/chunksplit/internal/graph"

// materializeManualChunks walks each manually assigned entry's static
// dependency graph and buckets the reachable modules by alias, in input
// order. The returned set is the hard exclusion list every later phase
// consults before touching a module.
func materializeManualChunks(manual []graph.ManualChunk) ([]graph.Chunk, map[graph.Module]bool) {
	inManualChunks := make(map[graph.Module]bool, len(manual))
	for _, mc := range manual {
		if inManualChunks[mc.Entry] {
			panic("linker: manualAliasByEntry has duplicate keys")
		}
		inManualChunks[mc.Entry] = true
	}

	var aliasOrder []string
	buckets := make(map[string][]graph.Module)

	for _, mc := range manual {
		if _, seen := buckets[mc.Alias]; !seen {
			aliasOrder = append(aliasOrder, mc.Alias)
		}

		queue := []graph.Module{mc.Entry}
		for len(queue) > 0 {
			module := queue[0]
			queue = queue[1:]

			buckets[mc.Alias] = append(buckets[mc.Alias], module)

			for _, dep := range module.Dependencies() {
				if !dep.IsInternal() || inManualChunks[dep.Module] {
					continue
				}
				// Mark at discovery time, not at dequeue time, so a
				// diamond-shaped dependency is only ever queued once.
				inManualChunks[dep.Module] = true
				queue = append(queue, dep.Module)
			}
		}
	}

	chunks := make([]graph.Chunk, 0, len(aliasOrder))
	for _, alias := range aliasOrder {
		alias := alias
		chunks = append(chunks, graph.Chunk{Alias: &alias, Modules: buckets[alias]})
	}
	return chunks, inManualChunks
}
