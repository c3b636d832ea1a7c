package clique

import (
	"slices"
	"strings"

	"github.com/matzehuels/quasiclique/pkg/graph"
	"github.com/matzehuels/quasiclique/pkg/ids"
)

// Member is a non-core node of a candidate.
type Member struct {
	ID     ids.NodeID     `json:"id"`
	TypeID ids.NodeTypeID `json:"type_id"`
	// Coverage counts the distinct (core member, relation) pairs connecting
	// this node to the candidate's core set.
	Coverage int `json:"coverage"`
}

// Candidate is one partial solution. It is immutable: expanding a candidate
// allocates a new one.
type Candidate struct {
	core    []ids.NodeID
	members []Member

	score   float64
	density float64
	coreKey string
	key     string
}

// Core returns the core node ids in ascending order. The slice must not be
// modified.
func (c *Candidate) Core() []ids.NodeID { return c.core }

// Members returns the non-core members ordered by id. The slice must not be
// modified.
func (c *Candidate) Members() []Member { return c.members }

// NonCore returns the non-core node ids in ascending order.
func (c *Candidate) NonCore() []ids.NodeID {
	out := make([]ids.NodeID, len(c.members))
	for i, m := range c.members {
		out[i] = m.ID
	}
	return out
}

// Size returns the total number of nodes in the candidate.
func (c *Candidate) Size() int { return len(c.core) + len(c.members) }

// Score returns the cached score.
func (c *Candidate) Score() float64 { return c.score }

// Density returns the cached relation density in [0, 1].
func (c *Candidate) Density() float64 { return c.density }

// CoreKey identifies the core set; candidates with equal core sets share it.
func (c *Candidate) CoreKey() string { return c.coreKey }

// Key identifies the full membership and orders candidates with equal score.
func (c *Candidate) Key() string { return c.key }

// HasCore reports whether id is in the core set.
func (c *Candidate) HasCore(id ids.NodeID) bool {
	_, ok := slices.BinarySearch(c.core, id)
	return ok
}

// HasMember reports whether id is a non-core member.
func (c *Candidate) HasMember(id ids.NodeID) bool {
	_, ok := c.memberIndex(id)
	return ok
}

func (c *Candidate) memberIndex(id ids.NodeID) (int, bool) {
	return slices.BinarySearchFunc(c.members, id, func(m Member, id ids.NodeID) int {
		return compareIDs(m.ID, id)
	})
}

func compareIDs(a, b ids.NodeID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func newCandidate(core []ids.NodeID, members []Member, sc *Scorer) *Candidate {
	c := &Candidate{core: core, members: members}
	c.coreKey = ids.JoinNodes(core)

	var b strings.Builder
	b.WriteString(c.coreKey)
	b.WriteByte('|')
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(m.ID.String())
	}
	c.key = b.String()

	c.density = sc.Density(len(core), members)
	c.score = sc.score(len(core), len(members), c.density)
	return c
}

// seedCandidate returns the candidate holding only core node id.
func seedCandidate(id ids.NodeID, sc *Scorer) *Candidate {
	return newCandidate([]ids.NodeID{id}, nil, sc)
}

// withCore returns c grown by core node n. Members not adjacent to n are
// dropped; the rest gain the relations connecting them to n.
func (c *Candidate) withCore(n *graph.Node, sc *Scorer) *Candidate {
	core := slices.Clone(c.core)
	i, _ := slices.BinarySearch(core, n.ID)
	core = slices.Insert(core, i, n.ID)

	members := make([]Member, 0, len(c.members))
	for _, m := range c.members {
		rels := n.Relations(m.ID)
		if len(rels) == 0 {
			continue
		}
		m.Coverage += len(rels)
		members = append(members, m)
	}
	return newCandidate(core, members, sc)
}

// withMember returns c grown by non-core node n, which must be adjacent to
// every core member.
func (c *Candidate) withMember(n *graph.Node, sc *Scorer) *Candidate {
	m := Member{ID: n.ID, TypeID: n.TypeID}
	for _, id := range c.core {
		m.Coverage += len(n.Relations(id))
	}
	members := slices.Clone(c.members)
	i, _ := c.memberIndex(n.ID)
	members = slices.Insert(members, i, m)
	return newCandidate(slices.Clone(c.core), members, sc)
}

// ranksBefore orders candidates by score descending, then key ascending.
func ranksBefore(a, b *Candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.key < b.key
}
