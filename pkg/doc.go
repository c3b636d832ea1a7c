// Package pkg holds the libraries behind the quasiclique command.
//
// # Overview
//
// quasiclique finds approximately maximal dense groups ("quasi-cliques") in
// typed bipartite graphs. Input is a stream of edge records partitioned by a
// graph id; for every partition the search returns a set of core nodes and
// the non-core nodes they share across the relation kinds of a schema.
//
// # Architecture
//
// The data flow for one partition:
//
//	tab-separated lines
//	         ↓
//	    [record] package (classify and parse lines)
//	         ↓
//	    [graph] package (typed graph, k-core pruning)
//	         ↓
//	    [clique] package (scoring and beam search)
//	         ↓
//	    [sink] package (text or JSON lines)
//
// [schema] resolves type and relation names to ids and relation budgets.
// [pipeline] ties the steps together, streams partitions and fans them out
// to workers. [cache], [observability] and [metrics] are optional
// infrastructure around it; [render] draws a partition and its result.
package pkg
