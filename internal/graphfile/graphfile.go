// Package graphfile reads module graph descriptions from YAML files and
// turns them into the in-memory graph the linker package consumes. A graph
// file is a post-tree-shake snapshot of a bundle: it names every included
// module, its static and dynamic edges, and the entry points, so chunk
// assignment can be run (and re-run) without a parser or resolver in the
// loop.
package graphfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chunksplit/chunksplit/internal/graph"
)

// Module is the file-backed implementation of graph.Module. Edges are
// resolved to pointers at load time, so the linker never sees an id.
type Module struct {
	id                       string
	size                     int
	hasEffects               bool
	dependencies             []graph.Resolution
	includedDependencies     []graph.Resolution
	dynamicImports           []graph.Resolution
	includedDynamicImporters []graph.Module
	implicitlyLoadedBefore   []graph.Module
	implicitlyLoadedAfter    []graph.Module
}

func (m *Module) ID() string { return m.id }

func (m *Module) Dependencies() []graph.Resolution { return m.dependencies }

func (m *Module) DependenciesToBeIncluded() []graph.Resolution { return m.includedDependencies }

func (m *Module) DynamicImports() []graph.Resolution { return m.dynamicImports }

func (m *Module) IncludedDynamicImporters() []graph.Module { return m.includedDynamicImporters }

func (m *Module) ImplicitlyLoadedBefore() []graph.Module { return m.implicitlyLoadedBefore }

func (m *Module) ImplicitlyLoadedAfter() []graph.Module { return m.implicitlyLoadedAfter }

func (m *Module) HasEffects() bool { return m.hasEffects }

func (m *Module) Size() int { return m.size }

// Bundle is everything a graph file describes: the graph itself plus the
// chunking inputs that accompany it.
type Bundle struct {
	Modules      []*Module
	Entries      []graph.Module
	ManualChunks []graph.ManualChunk
	MinChunkSize int
}

type moduleSpec struct {
	ID                     string   `yaml:"id"`
	Size                   int      `yaml:"size"`
	SideEffects            bool     `yaml:"sideEffects"`
	External               bool     `yaml:"external"`
	Dependencies           []string `yaml:"dependencies"`
	ExcludedDependencies   []string `yaml:"excludedDependencies"`
	DynamicImports         []string `yaml:"dynamicImports"`
	ImplicitlyLoadedBefore []string `yaml:"implicitlyLoadedBefore"`
}

type manualChunkSpec struct {
	Alias string `yaml:"alias"`
	Entry string `yaml:"entry"`
}

type documentSpec struct {
	Modules      []moduleSpec      `yaml:"modules"`
	Entries      []string          `yaml:"entries"`
	ManualChunks []manualChunkSpec `yaml:"manualChunks"`
	MinChunkSize int               `yaml:"minChunkSize"`
}

// Load reads and parses the graph file at path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphfile: %w", err)
	}
	return Parse(data)
}

// Parse builds a Bundle from YAML source. Every edge must name a module
// declared in the file; dangling references are an error rather than a
// silently-dropped edge, since a missing module would quietly change
// chunk boundaries.
func Parse(data []byte) (*Bundle, error) {
	var doc documentSpec
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("graphfile: %w", err)
	}

	modules := make(map[string]*moduleSpec, len(doc.Modules))
	byID := make(map[string]*Module, len(doc.Modules))
	bundle := &Bundle{MinChunkSize: doc.MinChunkSize}

	for i := range doc.Modules {
		spec := &doc.Modules[i]
		if spec.ID == "" {
			return nil, fmt.Errorf("graphfile: module %d has no id", i)
		}
		if _, dup := modules[spec.ID]; dup {
			return nil, fmt.Errorf("graphfile: duplicate module id %q", spec.ID)
		}
		modules[spec.ID] = spec
		if spec.External {
			continue
		}
		m := &Module{id: spec.ID, size: spec.Size, hasEffects: spec.SideEffects}
		byID[spec.ID] = m
		bundle.Modules = append(bundle.Modules, m)
	}

	resolve := func(owner, id string) (graph.Resolution, error) {
		spec, ok := modules[id]
		if !ok {
			return graph.Resolution{}, fmt.Errorf("graphfile: module %q references unknown module %q", owner, id)
		}
		if spec.External {
			return graph.Resolution{External: true}, nil
		}
		return graph.Resolution{Module: byID[id]}, nil
	}

	for _, m := range bundle.Modules {
		spec := modules[m.id]

		excluded := make(map[string]bool, len(spec.ExcludedDependencies))
		for _, id := range spec.ExcludedDependencies {
			excluded[id] = true
		}

		for _, id := range spec.Dependencies {
			res, err := resolve(m.id, id)
			if err != nil {
				return nil, err
			}
			m.dependencies = append(m.dependencies, res)
			if !excluded[id] {
				m.includedDependencies = append(m.includedDependencies, res)
			}
		}

		for _, id := range spec.DynamicImports {
			res, err := resolve(m.id, id)
			if err != nil {
				return nil, err
			}
			m.dynamicImports = append(m.dynamicImports, res)
			if res.IsInternal() {
				target := res.Module.(*Module)
				target.includedDynamicImporters = append(target.includedDynamicImporters, m)
			}
		}

		for _, id := range spec.ImplicitlyLoadedBefore {
			res, err := resolve(m.id, id)
			if err != nil {
				return nil, err
			}
			if !res.IsInternal() {
				return nil, fmt.Errorf("graphfile: module %q implicitly loads external module %q", m.id, id)
			}
			target := res.Module.(*Module)
			m.implicitlyLoadedBefore = append(m.implicitlyLoadedBefore, target)
			target.implicitlyLoadedAfter = append(target.implicitlyLoadedAfter, m)
		}
	}

	for _, id := range doc.Entries {
		m, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("graphfile: entry %q is not an internal module", id)
		}
		bundle.Entries = append(bundle.Entries, m)
	}

	seenManual := make(map[string]bool, len(doc.ManualChunks))
	for _, mc := range doc.ManualChunks {
		if mc.Alias == "" {
			return nil, fmt.Errorf("graphfile: manual chunk for entry %q has an empty alias", mc.Entry)
		}
		m, ok := byID[mc.Entry]
		if !ok {
			return nil, fmt.Errorf("graphfile: manual chunk %q names unknown module %q", mc.Alias, mc.Entry)
		}
		if seenManual[mc.Entry] {
			return nil, fmt.Errorf("graphfile: module %q is assigned to more than one manual chunk", mc.Entry)
		}
		seenManual[mc.Entry] = true
		bundle.ManualChunks = append(bundle.ManualChunks, graph.ManualChunk{Entry: m, Alias: mc.Alias})
	}

	return bundle, nil
}
