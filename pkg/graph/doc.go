// Package graph provides the typed bipartite multigraph searched for
// quasi-cliques.
//
// # Overview
//
// A [Graph] holds one partition. Every edge connects a core node (the type
// under search, for example "author") to a non-core node (for example
// "conference") through one relation kind. Several relation kinds may connect
// the same pair, so a node's adjacency maps each neighbor to a sorted set of
// [ids.EdgeTypeID]. Adjacency is symmetric: an edge recorded at u is always
// mirrored at v.
//
// # Building
//
// Graphs are built from parsed edge records by a [Builder] bound to a
// [schema.Registry]:
//
//	b := graph.NewBuilder(reg)
//	g, stats := b.Build(0, edges)
//
// Records that do not fit the schema (wrong partition, source type other than
// the core type, undeclared target type or relation) are dropped and counted
// in [BuildStats.Dropped]; they never fail the build.
//
// # Pruning
//
// [Trim] removes, in place, every node whose degree falls below a threshold,
// cascading until a fixed point (k-core peeling). [Builder.RebuildPruned]
// yields the same surviving node set as a fresh, compacted graph.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. A fully built graph may be read
// from several goroutines.
package graph
