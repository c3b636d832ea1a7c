package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/quasiclique/pkg/observability"
)

func TestRecorder_WriteTextfile(t *testing.T) {
	ctx := context.Background()
	r := New()

	r.OnRecordsRejected(ctx, "malformed", 1)
	r.OnRecordsRejected(ctx, "malformed", 1)
	r.OnPartitionStart(ctx, 1, 10)
	r.OnPrune(ctx, 1, 3)
	r.OnStep(ctx, 1, 1, 2, true)
	r.OnStep(ctx, 1, 2, 4, false)
	r.OnPartitionComplete(ctx, 1, "converged", 5, 10*time.Millisecond, nil)
	r.OnPartitionComplete(ctx, 2, "", 0, time.Millisecond, errors.New("boom"))
	r.OnCacheMiss(ctx, "result")
	r.OnCacheSet(ctx, "result", 128)
	r.OnCacheHit(ctx, "result")

	path := filepath.Join(t.TempDir(), "quasiclique.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, want := range []string{
		`quasiclique_records_rejected_total{reason="malformed"} 2`,
		`quasiclique_partitions_total{state="converged"} 1`,
		`quasiclique_partition_errors_total 1`,
		`quasiclique_pruned_nodes_total 3`,
		`quasiclique_search_improvements_total 1`,
		`quasiclique_last_best_score 4`,
		`quasiclique_search_steps_count 1`,
		`quasiclique_cache_operations_total{key_type="result",op="hit"} 1`,
		`quasiclique_cache_operations_total{key_type="result",op="miss"} 1`,
		`quasiclique_cache_written_bytes_total 128`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}

func TestRecorder_Install(t *testing.T) {
	defer observability.Reset()

	r := New()
	r.Install()
	if observability.Search() != observability.SearchHooks(r) {
		t.Error("Install() did not register search hooks")
	}
	if observability.Cache() != observability.CacheHooks(r) {
		t.Error("Install() did not register cache hooks")
	}
}
