package graph

import (
	"maps"
	"slices"

	"github.com/matzehuels/quasiclique/pkg/ids"
)

// Node is a vertex of a partition graph.
type Node struct {
	ID     ids.NodeID
	TypeID ids.NodeTypeID
	Core   bool

	edges  map[ids.NodeID][]ids.EdgeTypeID // neighbor -> sorted relation set
	degree int
	sorted []ids.NodeID // cached sorted neighbor ids, nil when stale
}

func newNode(id ids.NodeID, typeID ids.NodeTypeID, core bool) *Node {
	return &Node{
		ID:     id,
		TypeID: typeID,
		Core:   core,
		edges:  make(map[ids.NodeID][]ids.EdgeTypeID),
	}
}

// IsCore reports whether the node belongs to the core type.
func (n *Node) IsCore() bool { return n.Core }

// Degree returns the number of incident edges, counting each relation kind
// to each neighbor once.
func (n *Node) Degree() int { return n.degree }

// NeighborCount returns the number of distinct neighbors.
func (n *Node) NeighborCount() int { return len(n.edges) }

// Neighbors returns the neighbor ids in ascending order.
// The returned slice must not be modified.
func (n *Node) Neighbors() []ids.NodeID {
	if n.sorted == nil {
		n.sorted = slices.Sorted(maps.Keys(n.edges))
	}
	return n.sorted
}

// Relations returns the sorted relation kinds connecting n to nb, or nil when
// they are not adjacent. The returned slice must not be modified.
func (n *Node) Relations(nb ids.NodeID) []ids.EdgeTypeID {
	return n.edges[nb]
}

// Connected reports whether n and nb share at least one edge.
func (n *Node) Connected(nb ids.NodeID) bool {
	_, ok := n.edges[nb]
	return ok
}

// addEdge records rel towards nb and reports whether the edge is new.
func (n *Node) addEdge(nb ids.NodeID, rel ids.EdgeTypeID) bool {
	rels := n.edges[nb]
	i, found := slices.BinarySearch(rels, rel)
	if found {
		return false
	}
	if rels == nil {
		n.sorted = nil
	}
	n.edges[nb] = slices.Insert(rels, i, rel)
	n.degree++
	return true
}

// dropNeighbor removes every edge towards nb and returns how many were removed.
func (n *Node) dropNeighbor(nb ids.NodeID) int {
	rels, ok := n.edges[nb]
	if !ok {
		return 0
	}
	delete(n.edges, nb)
	n.degree -= len(rels)
	n.sorted = nil
	return len(rels)
}
