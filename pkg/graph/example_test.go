package graph_test

import (
	"fmt"

	"github.com/matzehuels/quasiclique/pkg/graph"
	"github.com/matzehuels/quasiclique/pkg/record"
	"github.com/matzehuels/quasiclique/pkg/schema"
)

func ExampleBuilder_Build() {
	reg, _ := schema.NewRegistry([]schema.Triple{
		{Source: "author", Relation: "published_at", Target: "conference"},
	}, "author")

	edges := []record.Edge{
		{SourceID: 1, TargetID: 3, SourceType: "author", Relation: "published_at", TargetType: "conference"},
		{SourceID: 2, TargetID: 3, SourceType: "author", Relation: "published_at", TargetType: "conference"},
		{SourceID: 2, TargetID: 4, SourceType: "author", Relation: "reviewed", TargetType: "conference"},
	}

	g, stats := graph.NewBuilder(reg).Build(0, edges)
	fmt.Println("Core:", g.CoreIDs())
	fmt.Println("Non-core:", g.NonCoreIDs())
	fmt.Println("Dropped:", stats.Dropped)
	// Output:
	// Core: [1 2]
	// Non-core: [3]
	// Dropped: 1
}

func ExampleTrim() {
	g := graph.New(0)
	_ = g.AddEdge(1, 3, 1, 0)
	_ = g.AddEdge(2, 3, 1, 0)
	_ = g.AddEdge(1, 4, 1, 0)
	_ = g.AddEdge(2, 4, 1, 0)
	_ = g.AddEdge(2, 5, 1, 0)

	removed := graph.Trim(g, 2)
	fmt.Println("Removed:", removed)
	fmt.Println("Remaining:", g.NodeIDs())
	// Output:
	// Removed: [5]
	// Remaining: [1 2 3 4]
}
