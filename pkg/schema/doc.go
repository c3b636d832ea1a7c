// Package schema builds the type registry that drives graph construction and
// scoring.
//
// A schema is a list of (source type, relation, target type) triples plus the
// name of the core type under search:
//
//	reg, err := schema.NewRegistry([]schema.Triple{
//	    {Source: "author", Relation: "published_at", Target: "conference"},
//	    {Source: "author", Relation: "reviewed_for", Target: "conference"},
//	    {Source: "author", Relation: "published_at", Target: "journal"},
//	}, "author")
//
// Every target type reachable from the core type gets a stable [ids.NodeTypeID]
// (1, 2, ... in first-declaration order; the core type is always 0) and a
// normalization constant, [TypeEntry.MaxRelations]: the number of distinct
// relation kinds that may connect a core node to a node of that type. In the
// example above conference has MaxRelations 2 and journal has 1.
//
// A [Registry] is immutable after construction. Build one per job and pass it
// explicitly to the graph builder, the scorer and the pipeline; there is no
// package-level registry.
//
// Schema files can be loaded with [Load] in TOML, YAML or tab-separated form.
package schema
