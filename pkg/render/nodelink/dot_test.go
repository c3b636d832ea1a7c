package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/quasiclique/pkg/clique"
	"github.com/matzehuels/quasiclique/pkg/graph"
	"github.com/matzehuels/quasiclique/pkg/ids"
)

type names struct{}

func (names) TypeName(id ids.NodeTypeID) (string, bool) {
	return map[ids.NodeTypeID]string{0: "author", 1: "conference"}[id], id <= 1
}

func (names) RelationName(id ids.EdgeTypeID) (string, bool) {
	return "published_at", id == 0
}

// smallGraph is a 2x2 biclique plus a dangling conference 5 on author 2.
func smallGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(0)
	for _, e := range [][2]ids.NodeID{{1, 3}, {2, 3}, {1, 4}, {2, 4}, {2, 5}} {
		if err := g.AddEdge(e[0], e[1], 1, 0); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func best(t *testing.T, g *graph.Graph) *clique.Candidate {
	t.Helper()
	sc := clique.NewScorer(budget{}, clique.DefaultWeights(), clique.Thresholds{})
	res := clique.Find(g, sc, clique.DefaultConfig(), nil)
	if res.Best == nil {
		t.Fatal("no candidate")
	}
	return res.Best
}

type budget struct{}

func (budget) MaxRelationsByID(ids.NodeTypeID) int { return 1 }

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(smallGraph(t), nil, Options{})

	for _, want := range []string{"graph G0 {", `n1 [label="1", shape=box]`, `n3 [label="3", shape=ellipse]`, "n2 -- n5"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Contains(dot, memberFill) {
		t.Error("ToDOT() without candidate should not highlight nodes")
	}
}

func TestToDOT_Candidate(t *testing.T) {
	g := smallGraph(t)
	dot := ToDOT(g, best(t, g), Options{})

	if got := strings.Count(dot, memberFill); got != 4 {
		t.Errorf("highlighted %d nodes, want 4", got)
	}
	if !strings.Contains(dot, "n1 -- n3 [penwidth=2.5]") {
		t.Error("candidate edge should be bold")
	}
	if !strings.Contains(dot, `n2 -- n5 [color="#bbbbbb"]`) {
		t.Error("edge leaving the candidate should be grey")
	}
}

func TestToDOT_OnlyCandidate(t *testing.T) {
	g := smallGraph(t)
	dot := ToDOT(g, best(t, g), Options{OnlyCandidate: true})

	if strings.Contains(dot, "n5") {
		t.Error("non-member node 5 should be left out")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(smallGraph(t), nil, Options{Detailed: true, Names: names{}})

	if !strings.Contains(dot, `label="1\nauthor\ndegree: 2"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="published_at"`) {
		t.Error("detailed edge label missing")
	}
}

func TestNodeName(t *testing.T) {
	if got := nodeName(-4); got != "nm4" {
		t.Errorf("nodeName(-4) = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.Contains(got, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without view box should be unchanged")
	}
}
