package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/quasiclique/pkg/ids"
)

var (
	// ErrUnknownNode is returned when an operation references a node id that
	// is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node. A bipartite graph cannot contain self loops.
	ErrSelfLoop = errors.New("self loop")

	// ErrRoleConflict is returned by [Graph.AddEdge] when a node id was first
	// seen with a different core flag or type id.
	ErrRoleConflict = errors.New("node already exists with a different type")

	// ErrAsymmetricEdge is returned by [Graph.Validate] when an edge recorded
	// at one endpoint is missing at the other.
	ErrAsymmetricEdge = errors.New("asymmetric adjacency")

	// ErrNotBipartite is returned by [Graph.Validate] when an edge connects two
	// core nodes or two non-core nodes.
	ErrNotBipartite = errors.New("edge between nodes of the same side")
)

// Graph is one partition's typed multigraph. It owns its nodes.
//
// The zero value is not usable; call [New].
type Graph struct {
	ID    ids.GraphID
	nodes map[ids.NodeID]*Node
	edges int
}

// New creates an empty graph for partition id.
func New(id ids.GraphID) *Graph {
	return &Graph{ID: id, nodes: make(map[ids.NodeID]*Node)}
}

// Node returns the node with the given id.
func (g *Graph) Node(id ids.NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of (core, non-core, relation) edges.
func (g *Graph) EdgeCount() int { return g.edges }

// NodeIDs returns all node ids in ascending order.
func (g *Graph) NodeIDs() []ids.NodeID {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.NodeIDs() {
		out = append(out, g.nodes[id])
	}
	return out
}

// CoreIDs returns the ids of core nodes in ascending order.
func (g *Graph) CoreIDs() []ids.NodeID { return g.side(true) }

// NonCoreIDs returns the ids of non-core nodes in ascending order.
func (g *Graph) NonCoreIDs() []ids.NodeID { return g.side(false) }

func (g *Graph) side(core bool) []ids.NodeID {
	var out []ids.NodeID
	for id, n := range g.nodes {
		if n.Core == core {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// AddEdge connects core node c to non-core node t (of type tt) through rel,
// creating either node on first reference. Adding an existing edge is a
// no-op. It returns [ErrSelfLoop] or [ErrRoleConflict] without modifying the
// graph when the edge cannot be represented.
func (g *Graph) AddEdge(c, t ids.NodeID, tt ids.NodeTypeID, rel ids.EdgeTypeID) error {
	if c == t {
		return ErrSelfLoop
	}
	if n, ok := g.nodes[c]; ok && !n.Core {
		return fmt.Errorf("%w: %d is non-core", ErrRoleConflict, c)
	}
	if n, ok := g.nodes[t]; ok && (n.Core || n.TypeID != tt) {
		return fmt.Errorf("%w: %d", ErrRoleConflict, t)
	}

	cn := g.ensure(c, ids.CoreTypeID, true)
	tn := g.ensure(t, tt, false)
	if cn.addEdge(t, rel) {
		tn.addEdge(c, rel)
		g.edges++
	}
	return nil
}

func (g *Graph) ensure(id ids.NodeID, typeID ids.NodeTypeID, core bool) *Node {
	n, ok := g.nodes[id]
	if !ok {
		n = newNode(id, typeID, core)
		g.nodes[id] = n
	}
	return n
}

// RemoveNode deletes a node and all its edges, including the mirrored
// entries at its neighbors. It reports whether the node existed.
func (g *Graph) RemoveNode(id ids.NodeID) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	for nb := range n.edges {
		if other, ok := g.nodes[nb]; ok {
			g.edges -= other.dropNeighbor(id)
		}
	}
	delete(g.nodes, id)
	return true
}

// SharesNeighbor reports whether nodes a and b have at least one common
// neighbor. For two core nodes this means they can be part of the same
// quasi-clique.
func (g *Graph) SharesNeighbor(a, b ids.NodeID) bool {
	na, ok := g.nodes[a]
	if !ok {
		return false
	}
	nb, ok := g.nodes[b]
	if !ok {
		return false
	}
	if len(nb.edges) < len(na.edges) {
		na, nb = nb, na
	}
	for x := range na.edges {
		if _, ok := nb.edges[x]; ok {
			return true
		}
	}
	return false
}

// Validate checks structural invariants: every edge is mirrored at both
// endpoints, connects a core node to a non-core node and references a node
// present in the graph.
func (g *Graph) Validate() error {
	count := 0
	for id, n := range g.nodes {
		for nb, rels := range n.edges {
			other, ok := g.nodes[nb]
			if !ok {
				return fmt.Errorf("%w: %d -> %d (missing node)", ErrAsymmetricEdge, id, nb)
			}
			if other.Core == n.Core {
				return fmt.Errorf("%w: %d -> %d", ErrNotBipartite, id, nb)
			}
			if !slices.Equal(rels, other.edges[id]) {
				return fmt.Errorf("%w: %d -> %d", ErrAsymmetricEdge, id, nb)
			}
			if n.Core {
				count += len(rels)
			}
		}
	}
	if count != g.edges {
		return fmt.Errorf("%w: edge count %d, counted %d", ErrAsymmetricEdge, g.edges, count)
	}
	return nil
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	out := New(g.ID)
	out.edges = g.edges
	for id, n := range g.nodes {
		c := newNode(n.ID, n.TypeID, n.Core)
		c.degree = n.degree
		for nb, rels := range n.edges {
			c.edges[nb] = slices.Clone(rels)
		}
		out.nodes[id] = c
	}
	return out
}

// Induced returns the subgraph induced by nodes: the listed nodes plus every
// edge running between two of them. It returns [ErrUnknownNode] when a listed
// id is not in g.
func (g *Graph) Induced(nodes []ids.NodeID) (*Graph, error) {
	keep := make(map[ids.NodeID]struct{}, len(nodes))
	for _, id := range nodes {
		if _, ok := g.nodes[id]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
		}
		keep[id] = struct{}{}
	}

	out := New(g.ID)
	for id := range keep {
		n := g.nodes[id]
		out.ensure(id, n.TypeID, n.Core)
	}
	for id := range keep {
		n := g.nodes[id]
		if !n.Core {
			continue
		}
		for nb, rels := range n.edges {
			if _, ok := keep[nb]; !ok {
				continue
			}
			t := g.nodes[nb]
			for _, rel := range rels {
				_ = out.AddEdge(id, nb, t.TypeID, rel)
			}
		}
	}
	return out, nil
}
