package linker

import "github.com/chunksplit/chunksplit/internal/graph"

// graphAnalysis is the first traversal's result: the canonical,
// load-bearing order of every entry (user-specified or discovered), which
// of those entries were discovered rather than given, and which entries
// can reach each module at all (before any already-loaded elision is
// layered on top).
type graphAnalysis struct {
	allEntries     []graph.Module
	isUserEntry    map[graph.Module]bool
	isDynamicEntry map[graph.Module]bool
	dependentByMod map[graph.Module]map[graph.Module]bool
}

// analyzeGraph discovers all entries and which modules each can reach.
// allEntries starts as the user-provided entries and grows as
// dynamic-import targets and implicit predecessors are discovered; the
// for loop below re-reads len(allEntries) on every iteration so entries
// appended mid-traversal are still visited.
func analyzeGraph(entries []graph.Module) *graphAnalysis {
	ga := &graphAnalysis{
		isUserEntry:    make(map[graph.Module]bool, len(entries)),
		isDynamicEntry: make(map[graph.Module]bool),
		dependentByMod: make(map[graph.Module]map[graph.Module]bool),
	}

	inAllEntries := make(map[graph.Module]bool, len(entries))
	for _, e := range entries {
		ga.allEntries = append(ga.allEntries, e)
		ga.isUserEntry[e] = true
		inAllEntries[e] = true
	}

	for i := 0; i < len(ga.allEntries); i++ {
		currentEntry := ga.allEntries[i]

		working := []graph.Module{currentEntry}
		for len(working) > 0 {
			module := working[0]
			working = working[1:]

			set := ga.dependentByMod[module]
			if set == nil {
				set = make(map[graph.Module]bool)
				ga.dependentByMod[module] = set
			}
			if set[currentEntry] {
				// Already traversed this module under this entry; without
				// this guard a cyclic graph would never terminate.
				continue
			}
			set[currentEntry] = true

			for _, dep := range module.DependenciesToBeIncluded() {
				if dep.IsInternal() {
					working = append(working, dep.Module)
				}
			}

			for _, di := range module.DynamicImports() {
				if di.IsInternal() && len(di.Module.IncludedDynamicImporters()) > 0 && !inAllEntries[di.Module] {
					ga.isDynamicEntry[di.Module] = true
					inAllEntries[di.Module] = true
					ga.allEntries = append(ga.allEntries, di.Module)
				}
			}

			for _, dep := range module.ImplicitlyLoadedBefore() {
				if !inAllEntries[dep] {
					ga.isDynamicEntry[dep] = true
					inAllEntries[dep] = true
					ga.allEntries = append(ga.allEntries, dep)
				}
			}
		}
	}

	return ga
}

// entryIndex returns the canonical position of an entry in allEntries,
// used as the bit position in every EntrySignature.
func (ga *graphAnalysis) entryIndex() map[graph.Module]uint {
	idx := make(map[graph.Module]uint, len(ga.allEntries))
	for i, e := range ga.allEntries {
		idx[e] = uint(i)
	}
	return idx
}
