package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/observability"
)

type collectSink struct {
	results []*Result
	failAt  int
}

func (s *collectSink) Write(res *Result) error {
	if s.failAt > 0 && len(s.results)+1 == s.failAt {
		return errors.New("sink full")
	}
	s.results = append(s.results, res)
	return nil
}

func manyPartitions(n int) string {
	var b strings.Builder
	for gid := 0; gid < n; gid++ {
		for _, e := range [][2]int{{1, 3}, {2, 3}, {1, 4}, {2, 4}} {
			fmt.Fprintf(&b, "%d\t%d\t%d\tauthor\tpublished_at\tconference\n", gid, e[0], e[1])
		}
	}
	b.WriteString("garbage line\n")
	return b.String()
}

func TestRun_OrderedOutput(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			opts := Options{Schema: publicationSchema(), CoreType: "author", Workers: workers}
			r := newRunner(t, opts)
			sink := &collectSink{}

			summary, err := r.Run(context.Background(), strings.NewReader(manyPartitions(12)), sink)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if len(sink.results) != 12 {
				t.Fatalf("sink got %d results, want 12", len(sink.results))
			}
			for i, res := range sink.results {
				if res.GraphID != ids.GraphID(i) {
					t.Errorf("result %d has graph %d", i, res.GraphID)
				}
			}
			if summary.Partitions != 12 || summary.Found != 12 || summary.Malformed != 1 || summary.Lines != 49 {
				t.Errorf("summary = %+v", summary)
			}
			if summary.RunID == "" {
				t.Error("summary has no run id")
			}
		})
	}
}

func TestRun_SinkError(t *testing.T) {
	r := newRunner(t, Options{Schema: publicationSchema(), CoreType: "author", Workers: 2})
	sink := &collectSink{failAt: 3}

	_, err := r.Run(context.Background(), strings.NewReader(manyPartitions(8)), sink)
	if err == nil || err.Error() != "sink full" {
		t.Errorf("Run() error = %v, want sink full", err)
	}
	if len(sink.results) != 2 {
		t.Errorf("sink got %d results before failing, want 2", len(sink.results))
	}
}

type startCounter struct {
	observability.NoopSearchHooks
	started atomic.Int64
}

func (c *startCounter) OnPartitionStart(context.Context, ids.GraphID, int) { c.started.Add(1) }

func TestRun_SinkErrorStopsWorkers(t *testing.T) {
	counter := &startCounter{}
	observability.SetSearchHooks(counter)
	defer observability.Reset()

	r := newRunner(t, Options{Schema: publicationSchema(), CoreType: "author", Workers: 2})
	sink := &collectSink{failAt: 1}

	_, err := r.Run(context.Background(), strings.NewReader(manyPartitions(200)), sink)
	if err == nil || err.Error() != "sink full" {
		t.Fatalf("Run() error = %v, want sink full", err)
	}
	// Only partitions already queued when the sink failed may start.
	if n := counter.started.Load(); n > 10 {
		t.Errorf("%d partitions started after the sink failed, want at most 10", n)
	}
}

func TestRun_Cancelled(t *testing.T) {
	r := newRunner(t, Options{Schema: publicationSchema(), CoreType: "author"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, strings.NewReader(manyPartitions(3)), &collectSink{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
