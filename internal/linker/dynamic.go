package linker

import "github.com/chunksplit/chunksplit/internal/graph"

// maxDynamicDependentEntries caps how many calling-context entries the
// already-loaded check is willing to chase before giving up and assuming
// the worst (the module is not already loaded). Chunk boundaries shift if
// this changes, so it is a compatibility constant, not a tuning knob.
const maxDynamicDependentEntries = 3

// dynamicDependents computes, for each dynamic entry, the union of
// dependentByMod over every module that dynamically imports it (or
// implicitly follows it): the set of entries under which that dynamic
// entry may ever be loaded.
func dynamicDependents(ga *graphAnalysis) map[graph.Module]map[graph.Module]bool {
	result := make(map[graph.Module]map[graph.Module]bool, len(ga.isDynamicEntry))
	for d := range ga.isDynamicEntry {
		set := make(map[graph.Module]bool)
		for _, importer := range d.IncludedDynamicImporters() {
			for e := range ga.dependentByMod[importer] {
				set[e] = true
			}
		}
		for _, importer := range d.ImplicitlyLoadedAfter() {
			for e := range ga.dependentByMod[importer] {
				set[e] = true
			}
		}
		result[d] = set
	}
	return result
}

// alreadyLoaded asks: is every entry in "entries" either already known to
// load the module in question (contained in "containedIn"), or itself only
// reachable via a dynamic entry whose calling context is?
func alreadyLoaded(entries, containedIn map[graph.Module]bool, isUserEntry map[graph.Module]bool, depsByDynEntry map[graph.Module]map[graph.Module]bool) bool {
	if len(entries) > maxDynamicDependentEntries {
		return false
	}

	working := make([]graph.Module, 0, len(entries))
	inWorking := make(map[graph.Module]bool, len(entries))
	for e := range entries {
		working = append(working, e)
		inWorking[e] = true
	}

	for i := 0; i < len(working); i++ {
		e := working[i]
		if containedIn[e] {
			continue
		}
		if isUserEntry[e] {
			return false
		}
		d := depsByDynEntry[e]
		if len(d) > maxDynamicDependentEntries {
			return false
		}
		for e2 := range d {
			if !inWorking[e2] {
				inWorking[e2] = true
				working = append(working, e2)
			}
		}
	}

	return true
}

// assignment records, for every module that survives the already-loaded
// elision for at least one entry, the set of entries that actually need
// it, plus the deterministic discovery order used when building
// preliminary chunks.
type assignment struct {
	assignedByModule map[graph.Module]map[graph.Module]bool
	order            []graph.Module
}

// assignEntries attributes entries to modules. For every entry not
// already claimed by a manual chunk, it walks the static included
// dependency graph, stopping at externals and manual-chunk modules, and
// attributes the entry to each module visited unless that module is
// already guaranteed loaded whenever the entry is.
func assignEntries(ga *graphAnalysis, depsByDynEntry map[graph.Module]map[graph.Module]bool, inManualChunks map[graph.Module]bool) *assignment {
	as := &assignment{assignedByModule: make(map[graph.Module]map[graph.Module]bool)}
	seen := make(map[graph.Module]bool)

	for _, entry := range ga.allEntries {
		if inManualChunks[entry] {
			continue
		}

		var dynamicDependentEntries map[graph.Module]bool
		isDynamic := ga.isDynamicEntry[entry]
		if isDynamic {
			dynamicDependentEntries = depsByDynEntry[entry]
		}

		visited := make(map[graph.Module]bool)
		var walk func(module graph.Module)
		walk = func(module graph.Module) {
			if visited[module] {
				return
			}
			visited[module] = true

			if !seen[module] {
				seen[module] = true
				as.order = append(as.order, module)
			}

			skip := isDynamic && alreadyLoaded(dynamicDependentEntries, ga.dependentByMod[module], ga.isUserEntry, depsByDynEntry)
			if !skip {
				set := as.assignedByModule[module]
				if set == nil {
					set = make(map[graph.Module]bool)
					as.assignedByModule[module] = set
				}
				set[entry] = true
			}

			for _, dep := range module.DependenciesToBeIncluded() {
				if !dep.IsInternal() || inManualChunks[dep.Module] {
					continue
				}
				walk(dep.Module)
			}
		}
		walk(entry)
	}

	return as
}
