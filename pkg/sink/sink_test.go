package sink

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/quasiclique/pkg/clique"
	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/pipeline"
)

func found() *pipeline.Result {
	return &pipeline.Result{
		GraphID: 7,
		Found:   true,
		Core:    []ids.NodeID{1, 2},
		NonCore: []ids.NodeID{3, 4},
		Score:   4,
		Density: 1,
		Steps:   6,
		State:   clique.StateConverged,
	}
}

func empty() *pipeline.Result {
	return &pipeline.Result{GraphID: 8, State: clique.StateNoCandidate}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"plain", Options{}, "7\t1,2\t3,4\n"},
		{"verbose", Options{Verbose: true}, "7\t1,2\t3,4\t4\t1.0000\t6\n"},
		{"include empty", Options{IncludeEmpty: true}, "7\t1,2\t3,4\n8\t\t\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewText(&buf, tt.opts)
			for _, res := range []*pipeline.Result{found(), empty()} {
				if err := s.Write(res); err != nil {
					t.Fatalf("Write() error: %v", err)
				}
			}
			if buf.Len() != 0 {
				t.Error("output should be buffered until Flush")
			}
			if err := s.Flush(); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONLines(&buf, Options{IncludeEmpty: true})
	for _, res := range []*pipeline.Result{found(), empty()} {
		if err := s.Write(res); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first["state"] != "converged" || first["found"] != true {
		t.Errorf("first line = %v", first)
	}
	if _, ok := first["score"]; ok {
		t.Error("score should only be written in verbose mode")
	}
	if !strings.Contains(lines[1], `"core":[]`) || !strings.Contains(lines[1], `"state":"no_candidate"`) {
		t.Errorf("empty line = %s", lines[1])
	}
}

func TestJSONLinesVerbose(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONLines(&buf, Options{Verbose: true})
	if err := s.Write(found()); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(empty()); err != nil {
		t.Fatal(err)
	}
	s.Flush()

	var got struct {
		Score float64 `json:"score"`
		Steps int     `json:"steps"`
		Stats *struct {
			Nodes int `json:"nodes"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a single object: %v", err)
	}
	if got.Score != 4 || got.Steps != 6 || got.Stats == nil {
		t.Errorf("verbose fields = %+v", got)
	}
}

func TestNew(t *testing.T) {
	for _, format := range append(Formats, "") {
		if _, err := New(&bytes.Buffer{}, format, Options{}); err != nil {
			t.Errorf("New(%q) error: %v", format, err)
		}
	}
	if _, err := New(&bytes.Buffer{}, "csv", Options{}); err == nil {
		t.Error("New(csv) should fail")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	s, err := Open(path, FormatText, Options{})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := s.Write(found()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "7\t1,2\t3,4\n" {
		t.Errorf("file content = %q", data)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing", "out"), FormatText, Options{}); err == nil {
		t.Error("Open() into a missing directory should fail")
	}
}
