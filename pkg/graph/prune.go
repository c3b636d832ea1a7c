package graph

import (
	"slices"

	"github.com/matzehuels/quasiclique/pkg/ids"
)

// Trim removes, in place, every node whose degree is below minDegree,
// re-checking neighbors as their degrees fall, until every remaining node has
// degree >= minDegree. It returns the removed ids in ascending order.
//
// Removal order does not affect the result: the surviving set is the unique
// maximal subgraph of minimum degree minDegree. A minDegree of zero or less
// removes nothing.
func Trim(g *Graph, minDegree int) []ids.NodeID {
	if minDegree <= 0 || g.NodeCount() == 0 {
		return nil
	}

	// Degrees are tracked separately so a node is enqueued exactly once, the
	// moment it first drops below the threshold.
	degree := make(map[ids.NodeID]int, g.NodeCount())
	queued := make(map[ids.NodeID]bool)
	var queue []ids.NodeID
	for _, n := range g.Nodes() {
		degree[n.ID] = n.Degree()
		if n.Degree() < minDegree {
			queue = append(queue, n.ID)
			queued[n.ID] = true
		}
	}

	var removed []ids.NodeID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n := g.nodes[id]
		for _, nb := range n.Neighbors() {
			degree[nb] -= len(n.Relations(nb))
			if degree[nb] < minDegree && !queued[nb] {
				queued[nb] = true
				queue = append(queue, nb)
			}
		}
		g.RemoveNode(id)
		removed = append(removed, id)
	}

	slices.Sort(removed)
	return removed
}
