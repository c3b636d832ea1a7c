package graph

import (
	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/record"
	"github.com/matzehuels/quasiclique/pkg/schema"
)

// BuildStats counts what happened to the records handed to a [Builder].
type BuildStats struct {
	Records  int `json:"records"`  // edge records seen
	Accepted int `json:"accepted"` // records that produced or repeated an edge
	Dropped  int `json:"dropped"`  // records rejected by the schema or the graph
	Pruned   int `json:"pruned"`   // nodes removed by degree pruning
}

// Builder turns edge records into graphs according to a schema.
type Builder struct {
	reg *schema.Registry
}

// NewBuilder returns a builder resolving types and relations through reg.
func NewBuilder(reg *schema.Registry) *Builder {
	return &Builder{reg: reg}
}

// Build creates the graph of partition gid from edges. Records belonging to
// another partition, whose source type is not the core type, whose target
// type is undeclared, whose relation is not declared for the target type, or
// that would form a self loop are dropped.
func (b *Builder) Build(gid ids.GraphID, edges []record.Edge) (*Graph, BuildStats) {
	g := New(gid)
	var stats BuildStats
	for _, e := range edges {
		stats.Records++
		if b.add(g, e) {
			stats.Accepted++
		} else {
			stats.Dropped++
		}
	}
	return g, stats
}

func (b *Builder) add(g *Graph, e record.Edge) bool {
	if e.GraphID != g.ID || !b.reg.IsCore(e.SourceType) {
		return false
	}
	target, err := b.reg.Resolve(e.TargetType)
	if err != nil {
		return false
	}
	rel, ok := b.reg.RelationID(e.Relation)
	if !ok || !target.Allows(rel) {
		return false
	}
	return g.AddEdge(e.SourceID, e.TargetID, target.ID, rel) == nil
}

// RebuildPruned builds the graph of gid, peels it to its minDegree-core and
// materializes a fresh graph from the records whose endpoints both survived.
// The result has exactly the node set of Build followed by [Trim].
func (b *Builder) RebuildPruned(gid ids.GraphID, edges []record.Edge, minDegree int) (*Graph, BuildStats) {
	g, stats := b.Build(gid, edges)
	removed := Trim(g, minDegree)
	if len(removed) == 0 {
		return g, stats
	}

	gone := make(map[ids.NodeID]struct{}, len(removed))
	for _, id := range removed {
		gone[id] = struct{}{}
	}
	kept := make([]record.Edge, 0, len(edges))
	for _, e := range edges {
		_, src := gone[e.SourceID]
		_, dst := gone[e.TargetID]
		if !src && !dst {
			kept = append(kept, e)
		}
	}

	fresh, _ := b.Build(gid, kept)
	stats.Pruned = len(removed)
	return fresh, stats
}
