// Package render draws quasi-cliques found in typed bipartite graphs.
//
// # Overview
//
// The [nodelink] subpackage converts a partition graph to Graphviz DOT,
// highlighting the members of a found candidate, and renders it to SVG
// in-process. This package adds format conversion of the SVG output.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(g, best, nodelink.Options{Names: registry})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
