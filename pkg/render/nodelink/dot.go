package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/quasiclique/pkg/clique"
	"github.com/matzehuels/quasiclique/pkg/graph"
	"github.com/matzehuels/quasiclique/pkg/ids"
)

// Names resolves ids to display names. [schema.Registry] implements it.
type Names interface {
	TypeName(id ids.NodeTypeID) (string, bool)
	RelationName(id ids.EdgeTypeID) (string, bool)
}

// Options configures diagram rendering.
type Options struct {
	Names Names
	// Detailed includes type names in node labels and relation names on edges.
	Detailed bool
	// OnlyCandidate leaves out every node that is not a candidate member.
	OnlyCandidate bool
}

const (
	memberFill = "#f6c343"
	otherFill  = "#eeeeee"
)

// ToDOT converts a partition graph to Graphviz DOT. Members of c, which may
// be nil, are highlighted.
func ToDOT(g *graph.Graph, c *clique.Candidate, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph G%d {\n", g.ID)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"filled\", fillcolor=\"" + otherFill + "\", fontsize=14];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  nodesep=0.2;\n")

	inCandidate := func(id ids.NodeID) bool {
		return c != nil && (c.HasCore(id) || c.HasMember(id))
	}
	visible := func(id ids.NodeID) bool {
		return !opts.OnlyCandidate || inCandidate(id)
	}

	for _, side := range []struct {
		nodes []ids.NodeID
		shape string
	}{
		{g.CoreIDs(), "box"},
		{g.NonCoreIDs(), "ellipse"},
	} {
		buf.WriteString("\n  { rank=same;\n")
		for _, id := range side.nodes {
			if !visible(id) {
				continue
			}
			n, _ := g.Node(id)
			attrs := []string{
				fmt.Sprintf("label=%q", fmtLabel(n, opts)),
				"shape=" + side.shape,
			}
			if inCandidate(id) {
				attrs = append(attrs, fmt.Sprintf("fillcolor=%q", memberFill), "penwidth=2")
			}
			fmt.Fprintf(&buf, "    %s [%s];\n", nodeName(id), strings.Join(attrs, ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, id := range g.CoreIDs() {
		if !visible(id) {
			continue
		}
		n, _ := g.Node(id)
		for _, nb := range n.Neighbors() {
			if !visible(nb) {
				continue
			}
			var attrs []string
			if opts.Detailed {
				attrs = append(attrs, fmt.Sprintf("label=%q", fmtRelations(n.Relations(nb), opts.Names)))
			}
			if inCandidate(id) && inCandidate(nb) {
				attrs = append(attrs, "penwidth=2.5")
			} else {
				attrs = append(attrs, "color=\"#bbbbbb\"")
			}
			fmt.Fprintf(&buf, "  %s -- %s [%s];\n", nodeName(id), nodeName(nb), strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id ids.NodeID) string {
	return "n" + strings.ReplaceAll(id.String(), "-", "m")
}

func fmtLabel(n *graph.Node, opts Options) string {
	label := n.ID.String()
	if !opts.Detailed {
		return label
	}
	typ := strconv.Itoa(int(n.TypeID))
	if opts.Names != nil {
		if name, ok := opts.Names.TypeName(n.TypeID); ok {
			typ = name
		}
	}
	return label + "\n" + typ + "\ndegree: " + strconv.Itoa(n.Degree())
}

func fmtRelations(rels []ids.EdgeTypeID, names Names) string {
	parts := make([]string, len(rels))
	for i, rel := range rels {
		parts[i] = strconv.Itoa(int(rel))
		if names != nil {
			if name, ok := names.RelationName(rel); ok {
				parts[i] = name
			}
		}
	}
	return strings.Join(parts, ", ")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header with one whose origin
// is zero and whose size matches the view box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
