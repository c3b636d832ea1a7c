// Package nodelink renders partition graphs as node-link diagrams.
//
// # Overview
//
// Core nodes are drawn as boxes on one rank and non-core nodes as ellipses
// on the other, with one undirected edge per connected pair. When a
// candidate is given, its members are filled and the edges between them
// are drawn bold, so a quasi-clique stands out against the rest of the
// partition.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, best, nodelink.Options{Names: registry})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Names: resolves type and relation ids to names for labels
//   - Detailed: adds type names to node labels and relation names to edges
//   - OnlyCandidate: draws the induced subgraph of the candidate only
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
