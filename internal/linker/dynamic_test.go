package linker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chunksplit/chunksplit/internal/graph"
)

func moduleSet(mods ...*fakeModule) map[graph.Module]bool {
	set := make(map[graph.Module]bool, len(mods))
	for _, m := range mods {
		set[m] = true
	}
	return set
}

func TestAlreadyLoadedTrivialCases(t *testing.T) {
	e := mod("e", 1)

	assert.True(t, alreadyLoaded(nil, nil, nil, nil),
		"no calling contexts means nothing can contradict containment")
	assert.True(t, alreadyLoaded(moduleSet(e), moduleSet(e), moduleSet(e), nil))
}

func TestAlreadyLoadedFailsOnUncontainedUserEntry(t *testing.T) {
	e := mod("e", 1)
	other := mod("other", 1)

	assert.False(t, alreadyLoaded(moduleSet(e), moduleSet(other), moduleSet(e), nil))
}

func TestAlreadyLoadedChasesDynamicEntries(t *testing.T) {
	user := mod("user", 1)
	dyn := mod("dyn", 1)

	// dyn is not contained, but every entry that can load dyn is.
	depsByDynEntry := map[graph.Module]map[graph.Module]bool{
		dyn: moduleSet(user),
	}
	assert.True(t, alreadyLoaded(moduleSet(dyn), moduleSet(user), moduleSet(user), depsByDynEntry))

	// A chain of dynamic entries is followed transitively.
	mid := mod("mid", 1)
	depsByDynEntry = map[graph.Module]map[graph.Module]bool{
		dyn: moduleSet(mid),
		mid: moduleSet(user),
	}
	assert.True(t, alreadyLoaded(moduleSet(dyn), moduleSet(user), moduleSet(user), depsByDynEntry))

	// If the chain bottoms out at an uncontained user entry, it fails.
	assert.False(t, alreadyLoaded(moduleSet(dyn), moduleSet(), moduleSet(user), depsByDynEntry))
}

func TestAlreadyLoadedGivesUpBeyondCap(t *testing.T) {
	contained := make(map[graph.Module]bool)
	tooMany := make(map[graph.Module]bool)
	for i := 0; i < maxDynamicDependentEntries+1; i++ {
		m := mod(fmt.Sprintf("m%d", i), 1)
		tooMany[m] = true
		contained[m] = true
	}

	// Even though every entry is contained, the set is over the cap.
	assert.False(t, alreadyLoaded(tooMany, contained, nil, nil))

	// The cap also applies to the dependent-entry sets pulled in while
	// chasing a dynamic entry.
	dyn := mod("dyn", 1)
	depsByDynEntry := map[graph.Module]map[graph.Module]bool{
		dyn: tooMany,
	}
	assert.False(t, alreadyLoaded(moduleSet(dyn), contained, nil, depsByDynEntry))
}

func TestDynamicDependentsUnionsImportersAndImplicitFollowers(t *testing.T) {
	e1 := mod("e1", 1)
	e2 := mod("e2", 1)
	importer := mod("importer", 1)
	follower := mod("follower", 1)
	d := mod("d", 1)
	dep(e1, importer)
	dep(e2, follower)
	dynImport(importer, d)
	loadBefore(follower, d)

	ga := analyzeGraph(entries(e1, e2))
	deps := dynamicDependents(ga)

	assert.Equal(t, moduleSet(e1, e2), deps[d])
}
