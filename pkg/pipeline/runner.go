package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/quasiclique/pkg/cache"
	"github.com/matzehuels/quasiclique/pkg/clique"
	"github.com/matzehuels/quasiclique/pkg/errors"
	"github.com/matzehuels/quasiclique/pkg/graph"
	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/observability"
	"github.com/matzehuels/quasiclique/pkg/record"
	"github.com/matzehuels/quasiclique/pkg/schema"
)

// keyTypeResult labels result cache events.
const keyTypeResult = "result"

// Runner encapsulates job execution with caching.
//
// A Runner owns one schema registry built from its options. Partitions share
// no mutable state, so multiple goroutines can safely call Process on the
// same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	opts       Options
	registry   *schema.Registry
	builder    *graph.Builder
	scorer     *clique.Scorer
	parser     record.Parser
	schemaHash string
}

// NewRunner validates opts and builds the schema registry. Schema problems
// are fatal and returned as [errors.ErrCodeSchema] errors.
// If c is nil, a NullCache is used (caching disabled).
// If logger is nil, the options' logger is used.
func NewRunner(opts Options, c cache.Cache, logger *log.Logger) (*Runner, error) {
	if logger != nil && opts.Logger == nil {
		opts.Logger = logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	reg, err := schema.NewRegistry(opts.Schema, opts.CoreType)
	if err != nil {
		return nil, err
	}
	schemaData, err := json.Marshal(opts.Schema)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash schema")
	}

	if c == nil {
		c = cache.NewNullCache()
	}
	keyer := cache.NewDefaultKeyer()
	if opts.CacheNamespace != "" {
		keyer = cache.NewScopedKeyer(keyer, opts.CacheNamespace)
	}

	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     opts.Logger,
		opts:       opts,
		registry:   reg,
		builder:    graph.NewBuilder(reg),
		scorer:     clique.NewScorer(reg, opts.Weights(), opts.Thresholds()),
		parser:     record.Parser{LongIDs: opts.LongIDs},
		schemaHash: cache.Hash(schemaData),
	}, nil
}

// Options returns the validated options.
func (r *Runner) Options() Options { return r.opts }

// Registry returns the schema registry.
func (r *Runner) Registry() *schema.Registry { return r.registry }

// Builder returns the graph builder bound to the runner's schema.
func (r *Runner) Builder() *graph.Builder { return r.builder }

// ClassifyLine reports whether line is an edge or a membership record.
func (r *Runner) ClassifyLine(line string) (record.Kind, error) {
	return r.parser.Classify(line)
}

// ParseLine parses one input line.
func (r *Runner) ParseLine(line string) (record.Record, error) {
	return r.parser.Parse(line)
}

// BuildGraph builds the graph of p, pruned to MinDegree when it is set.
func (r *Runner) BuildGraph(p Partition) (*graph.Graph, graph.BuildStats) {
	if r.opts.MinDegree > 0 {
		return r.builder.RebuildPruned(p.GraphID, p.Edges, r.opts.MinDegree)
	}
	return r.builder.Build(p.GraphID, p.Edges)
}

// Process builds and searches one partition, consulting the cache first.
// A partition without core nodes, or without any candidate passing the
// thresholds, yields a Result with Found false, not an error.
func (r *Runner) Process(ctx context.Context, p Partition) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	hooks := observability.Search()
	hooks.OnPartitionStart(ctx, p.GraphID, len(p.Edges))

	key := r.Keyer.ResultKey(partitionHash(p), r.opts.ResultKeyOpts(r.schemaHash))
	if res, ok := r.cached(ctx, key); ok {
		res.Stats.Duration = time.Since(start)
		hooks.OnPartitionComplete(ctx, p.GraphID, res.State.String(), res.Steps, res.Stats.Duration, nil)
		r.Logger.Debug("partition from cache", "graph", p.GraphID, "state", res.State)
		return res, nil
	}

	g, stats := r.BuildGraph(p)
	if stats.Dropped > 0 {
		hooks.OnRecordsRejected(ctx, "schema", stats.Dropped)
	}
	if stats.Pruned > 0 {
		hooks.OnPrune(ctx, p.GraphID, stats.Pruned)
	}

	hint := make([]ids.NodeID, 0, len(p.Members))
	for _, m := range p.Members {
		hint = append(hint, m.NodeID)
	}

	s := clique.NewSearch(g, r.scorer, r.opts.SearchConfig())
	s.OnStep(func(info clique.StepInfo) {
		hooks.OnStep(ctx, p.GraphID, info.Step, info.BestScore, info.Improved)
		if r.opts.Verbose {
			r.Logger.Debug("search step",
				"graph", p.GraphID,
				"step", info.Step,
				"beam", info.BeamSize,
				"expansions", info.Expansions,
				"best", info.BestScore)
		}
	})
	out := s.Run(hint)

	res := &Result{
		GraphID: p.GraphID,
		Steps:   out.Steps,
		State:   out.State,
		Stats: Stats{
			BuildStats: stats,
			Nodes:      g.NodeCount(),
			Edges:      g.EdgeCount(),
		},
	}
	if out.Best != nil {
		res.Found = true
		res.Best = out.Best
		res.Core = out.Best.Core()
		res.NonCore = out.Best.NonCore()
		res.Score = out.Best.Score()
		res.Density = out.Best.Density()
	}
	res.Stats.Duration = time.Since(start)

	r.store(ctx, key, res)
	hooks.OnPartitionComplete(ctx, p.GraphID, res.State.String(), res.Steps, res.Stats.Duration, nil)
	r.Logger.Debug("processed partition",
		"graph", p.GraphID,
		"nodes", res.Stats.Nodes,
		"dropped", stats.Dropped,
		"pruned", stats.Pruned,
		"state", res.State,
		"steps", res.Steps,
		"core", len(res.Core),
		"non_core", len(res.NonCore),
		"duration", res.Stats.Duration)
	return res, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	if r.opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		// Unreadable entries are recomputed and overwritten.
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeResult)
	res.CacheHit = true
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeResult, len(data))
}

// partitionHash hashes the records of p in their canonical line form.
func partitionHash(p Partition) string {
	lines := make([]string, 0, len(p.Edges)+len(p.Members))
	for _, e := range p.Edges {
		lines = append(lines, record.Format(record.FromEdge(e)))
	}
	for _, m := range p.Members {
		lines = append(lines, record.Format(record.FromMembership(m)))
	}
	return cache.HashLines(lines)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
