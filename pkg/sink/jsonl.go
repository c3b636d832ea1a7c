package sink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/quasiclique/pkg/clique"
	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/pipeline"
)

type line struct {
	GraphID ids.GraphID  `json:"graph_id"`
	Found   bool         `json:"found"`
	Core    []ids.NodeID `json:"core"`
	NonCore []ids.NodeID `json:"non_core"`

	Score   *float64        `json:"score,omitempty"`
	Density *float64        `json:"density,omitempty"`
	Steps   *int            `json:"steps,omitempty"`
	State   clique.State    `json:"state"`
	Stats   *pipeline.Stats `json:"stats,omitempty"`
}

// JSONLines writes one JSON object per result.
type JSONLines struct {
	w    *bufio.Writer
	enc  *json.Encoder
	opts Options
}

// NewJSONLines returns a JSON lines sink writing to w.
func NewJSONLines(w io.Writer, opts Options) *JSONLines {
	bw := bufio.NewWriter(w)
	return &JSONLines{w: bw, enc: json.NewEncoder(bw), opts: opts}
}

// Write implements [pipeline.Sink].
func (j *JSONLines) Write(res *pipeline.Result) error {
	if !res.Found && !j.opts.IncludeEmpty {
		return nil
	}
	out := line{
		GraphID: res.GraphID,
		Found:   res.Found,
		Core:    orEmpty(res.Core),
		NonCore: orEmpty(res.NonCore),
		State:   res.State,
	}
	if j.opts.Verbose {
		score, density, steps, stats := res.Score, res.Density, res.Steps, res.Stats
		out.Score, out.Density, out.Steps, out.Stats = &score, &density, &steps, &stats
	}
	if err := j.enc.Encode(out); err != nil {
		return fmt.Errorf("encode result %d: %w", res.GraphID, err)
	}
	return nil
}

// Flush writes buffered output.
func (j *JSONLines) Flush() error { return j.w.Flush() }

func orEmpty(nodes []ids.NodeID) []ids.NodeID {
	if nodes == nil {
		return []ids.NodeID{}
	}
	return nodes
}
