// Package ids defines the identifier types shared by every quasiclique package.
//
// Identifiers are opaque integer handles. They are totally ordered and
// hashable, so they can be used as map keys, sorted with [slices.Sort] and
// stored in ordered containers. No other behavior is attached to them.
package ids

import (
	"slices"
	"strconv"
	"strings"
)

// GraphID identifies one graph partition.
type GraphID int64

// NodeID identifies a node within a partition.
type NodeID int64

// NodeTypeID identifies a node type in a [schema.Registry]. The core type
// always has id 0.
type NodeTypeID int

// EdgeTypeID identifies a relation kind in a [schema.Registry].
type EdgeTypeID int

// CoreTypeID is the type id assigned to the configured core type.
const CoreTypeID NodeTypeID = 0

func (g GraphID) String() string { return strconv.FormatInt(int64(g), 10) }
func (n NodeID) String() string  { return strconv.FormatInt(int64(n), 10) }

// JoinNodes formats ids as a comma separated list in the given order.
func JoinNodes(nodes []NodeID) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(n), 10))
	}
	return b.String()
}

// SortedNodes returns the keys of m in ascending order.
func SortedNodes[V any](m map[NodeID]V) []NodeID {
	out := make([]NodeID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
