package linker

import "github.com/chunksplit/chunksplit/internal/graph"

// chunkDescription is the preliminary grouping unit: all modules sharing
// one entry signature, before any size-driven merging has happened.
type chunkDescription struct {
	modules   []graph.Module
	signature graph.EntrySignature
	size      int
	pure      bool
}

// buildSignature scans allEntries in canonical order and sets a bit for
// every entry present in "assigned", producing the module's
// EntrySignature.
func buildSignature(assigned map[graph.Module]bool, entryIndex map[graph.Module]uint, numEntries uint) graph.EntrySignature {
	sig := graph.NewEntrySignature(numEntries)
	for e := range assigned {
		sig.Set(entryIndex[e])
	}
	return sig
}

// groupBySignature buckets modules by signature key. Modules are scanned
// in their assignment discovery order, and groups come out in the order
// their first module was discovered, so the result is stable across runs.
func groupBySignature(as *assignment, entryIndex map[graph.Module]uint, numEntries uint) []*chunkDescription {
	groups := make(map[string]*chunkDescription)
	var order []*chunkDescription

	for _, module := range as.order {
		assigned := as.assignedByModule[module]
		if assigned == nil {
			continue
		}
		sig := buildSignature(assigned, entryIndex, numEntries)
		key := sig.Key()
		g, ok := groups[key]
		if !ok {
			g = &chunkDescription{signature: sig, pure: true}
			groups[key] = g
			order = append(order, g)
		}
		g.modules = append(g.modules, module)
		g.size += module.Size()
		if module.HasEffects() {
			g.pure = false
		}
	}

	return order
}
