// Package graph defines the module graph that the linker package's chunk
// assignment algorithm consumes. Everything in this package is a read-only
// collaborator contract: parsing, resolution and tree-shaking are expected
// to have already happened by the time a Module reaches this package.
package graph

// Module is the unit the chunk assignment algorithm reasons about. An
// implementation is expected to be backed by a pointer so that Module
// values are comparable and usable as map keys; the algorithm never
// mutates a Module, it only queries it.
type Module interface {
	// Dependencies returns the direct static dependencies of this module,
	// in source order. A Resolution may point at an external module, in
	// which case Resolution.Module is nil.
	Dependencies() []Resolution

	// DependenciesToBeIncluded returns the subset of Dependencies that
	// tree-shaking selected for inclusion. It is the traversal edge set
	// used by chunk assignment.
	DependenciesToBeIncluded() []Resolution

	// DynamicImports returns the dynamic `import()` targets found in this
	// module, in source order.
	DynamicImports() []Resolution

	// IncludedDynamicImporters returns the modules that dynamically import
	// this one and are themselves included in the bundle.
	IncludedDynamicImporters() []Module

	// ImplicitlyLoadedBefore returns modules this one has an implicit
	// load-order dependency on (treated as an implicit dynamic edge).
	ImplicitlyLoadedBefore() []Module

	// ImplicitlyLoadedAfter returns modules that have declared an implicit
	// load-order dependency on this one.
	ImplicitlyLoadedAfter() []Module

	// HasEffects reports whether evaluating this module can cause
	// observable side effects.
	HasEffects() bool

	// Size returns this module's serialized byte cost.
	Size() int
}

// Resolution is what a dependency or dynamic import record points at: an
// internal Module, an external module (External is true, Module is nil),
// or nothing at all (both are zero, e.g. an import the resolver couldn't
// settle).
type Resolution struct {
	Module   Module
	External bool
}

// IsInternal reports whether this resolution points at a module that
// chunk assignment should traverse into.
func (r Resolution) IsInternal() bool {
	return !r.External && r.Module != nil
}

// ManualChunk pairs a user-specified entry with the alias of the manual
// chunk it should be materialized into. Multiple entries may share an
// alias; order here is the order manual chunks are discovered in the
// output.
type ManualChunk struct {
	Entry Module
	Alias string
}

// Chunk is the final output of chunk assignment: a group of modules meant
// to be emitted together. Alias is non-nil only for manually-assigned
// chunks.
type Chunk struct {
	Alias   *string
	Modules []Module
}
