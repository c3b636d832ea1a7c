// Package pipeline runs quasi-clique discovery over a stream of partitioned
// records.
//
// This package ties the core packages together so the CLI and library users
// share one implementation of the job:
//
//  1. Read: split input lines into partitions (consecutive lines with the
//     same graph id), dropping malformed lines with a warning
//  2. Build: turn a partition's edge records into a typed graph, optionally
//     pruned to its k-core
//  3. Search: run the beam search and keep the best candidate
//  4. Write: hand results to a [Sink] in input order
//
// Results are cached by a content hash of the options and the partition's
// records, so re-running a job over unchanged partitions is cheap.
//
// # Usage
//
//	opts := pipeline.Options{
//	    Schema:   file.Relations,
//	    CoreType: "author",
//	}
//	runner, err := pipeline.NewRunner(opts, nil, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary, err := runner.Run(ctx, os.Stdin, sink.NewText(os.Stdout, false))
//
// Process a single partition:
//
//	res, err := runner.Process(ctx, partition)
//	if res.Found {
//	    fmt.Println(res.Core, res.NonCore)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/quasiclique/pkg/cache"
	"github.com/matzehuels/quasiclique/pkg/clique"
	"github.com/matzehuels/quasiclique/pkg/errors"
	"github.com/matzehuels/quasiclique/pkg/graph"
	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/record"
	"github.com/matzehuels/quasiclique/pkg/schema"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and library callers
// =============================================================================

const (
	// DefaultBeamWidth is the number of candidates kept between search steps.
	DefaultBeamWidth = clique.DefaultBeamWidth

	// DefaultSearchWidth caps the expansions sampled per candidate and step.
	DefaultSearchWidth = clique.DefaultSearchWidth

	// DefaultMaxEpochs caps the number of search steps per partition.
	DefaultMaxEpochs = clique.DefaultMaxEpochs

	// DefaultPatience is the number of non-improving steps tolerated.
	DefaultPatience = clique.DefaultPatience

	// DefaultAlpha and DefaultBeta weight core and non-core sizes in the score.
	DefaultAlpha = 1.0
	DefaultBeta  = 1.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(clique.DefaultSeed)

	// DefaultWorkers processes partitions one at a time.
	DefaultWorkers = 1
)

// =============================================================================
// Options - Job Configuration
// =============================================================================

// Options contains all configuration for a job.
// It can be decoded from JSON, TOML or YAML job files.
type Options struct {
	// Schema options
	Schema   []schema.Triple `json:"schema,omitempty" toml:"schema" yaml:"schema"`
	CoreType string          `json:"core_type" toml:"core_type" yaml:"core_type"`

	// Search options. Zero counts and nil pointers take the defaults above;
	// an explicit zero Alpha, Beta or Seed is kept.
	BeamWidth       int      `json:"beam_width,omitempty" toml:"beam_width" yaml:"beam_width"`
	SearchWidth     int      `json:"search_width,omitempty" toml:"search_width" yaml:"search_width"`
	Alpha           *float64 `json:"alpha,omitempty" toml:"alpha" yaml:"alpha"`
	Beta            *float64 `json:"beta,omitempty" toml:"beta" yaml:"beta"`
	Gamma           *float64 `json:"gamma,omitempty" toml:"gamma" yaml:"gamma"`
	GlobalThreshold *float64 `json:"global_threshold,omitempty" toml:"global_threshold" yaml:"global_threshold"`
	LocalThreshold  *float64 `json:"local_threshold,omitempty" toml:"local_threshold" yaml:"local_threshold"`
	MaxEpochs       int      `json:"max_epochs,omitempty" toml:"max_epochs" yaml:"max_epochs"`
	Patience        int      `json:"patience,omitempty" toml:"patience" yaml:"patience"`
	MinDegree       int      `json:"min_degree,omitempty" toml:"min_degree" yaml:"min_degree"`
	Seed            *uint64  `json:"seed,omitempty" toml:"seed" yaml:"seed"`

	// Input options
	LongIDs bool `json:"long_ids,omitempty" toml:"long_ids" yaml:"long_ids"`

	// Execution options
	Workers        int    `json:"workers,omitempty" toml:"workers" yaml:"workers"`
	Verbose        bool   `json:"verbose,omitempty" toml:"verbose" yaml:"verbose"`
	Refresh        bool   `json:"refresh,omitempty" toml:"refresh" yaml:"refresh"`
	CacheNamespace string `json:"cache_namespace,omitempty" toml:"cache_namespace" yaml:"cache_namespace"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Partition is the input of one independent search.
type Partition struct {
	GraphID ids.GraphID
	Edges   []record.Edge
	// Members are membership hints; their nodes seed the search.
	Members []record.Membership
}

// Result is the outcome of processing one partition.
type Result struct {
	GraphID ids.GraphID `json:"graph_id"`

	// Found is false when the partition had no core node to search from or
	// no candidate passed the thresholds.
	Found   bool         `json:"found"`
	Core    []ids.NodeID `json:"core,omitempty"`
	NonCore []ids.NodeID `json:"non_core,omitempty"`
	Score   float64      `json:"score"`
	Density float64      `json:"density"`

	Steps int          `json:"steps"`
	State clique.State `json:"state"`
	Stats Stats        `json:"stats"`

	// CacheHit reports whether the result was served from the cache.
	CacheHit bool `json:"-"`

	// Best is the winning candidate. It is nil when Found is false and for
	// results served from the cache.
	Best *clique.Candidate `json:"-"`
}

// Stats contains per-partition statistics.
type Stats struct {
	graph.BuildStats
	Nodes    int           `json:"nodes"`
	Edges    int           `json:"edges"`
	Duration time.Duration `json:"duration"`
}

// Summary aggregates a [Runner.Run].
type Summary struct {
	RunID      string        `json:"run_id"`
	Partitions int           `json:"partitions"`
	Found      int           `json:"found"`
	Empty      int           `json:"empty"`
	Lines      int           `json:"lines"`
	Malformed  int           `json:"malformed"`
	Dropped    int           `json:"dropped"`
	Pruned     int           `json:"pruned"`
	Steps      int           `json:"steps"`
	CacheHits  int           `json:"cache_hits"`
	Duration   time.Duration `json:"duration"`
}

// Sink receives results in input order.
type Sink interface {
	Write(*Result) error
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Schema) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "schema is required")
	}
	if o.CoreType == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "core_type is required")
	}

	o.SetSearchDefaults()
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	for _, check := range []error{
		errors.ValidatePositive("beam_width", o.BeamWidth),
		errors.ValidatePositive("search_width", o.SearchWidth),
		errors.ValidatePositive("max_epochs", o.MaxEpochs),
		errors.ValidatePositive("patience", o.Patience),
		errors.ValidatePositive("workers", o.Workers),
		errors.ValidateUnitInterval("global_threshold", o.GlobalThreshold),
		errors.ValidateUnitInterval("local_threshold", o.LocalThreshold),
	} {
		if check != nil {
			return check
		}
	}
	if o.MinDegree < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_degree must not be negative, got %d", o.MinDegree)
	}
	if *o.Alpha < 0 || *o.Beta < 0 || (o.Gamma != nil && *o.Gamma < 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "score exponents must not be negative")
	}

	o.validated = true
	return nil
}

// SetSearchDefaults fills zero counts and unset weights and seed with their
// defaults.
func (o *Options) SetSearchDefaults() {
	if o.BeamWidth == 0 {
		o.BeamWidth = DefaultBeamWidth
	}
	if o.SearchWidth == 0 {
		o.SearchWidth = DefaultSearchWidth
	}
	if o.MaxEpochs == 0 {
		o.MaxEpochs = DefaultMaxEpochs
	}
	if o.Patience == 0 {
		o.Patience = DefaultPatience
	}
	if o.Alpha == nil {
		o.Alpha = valuePtr(DefaultAlpha)
	}
	if o.Beta == nil {
		o.Beta = valuePtr(DefaultBeta)
	}
	if o.Seed == nil {
		o.Seed = valuePtr(DefaultSeed)
	}
}

func valuePtr[T any](v T) *T { return &v }

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// SearchConfig returns the search bounds.
func (o *Options) SearchConfig() clique.Config {
	return clique.Config{
		BeamWidth:   o.BeamWidth,
		SearchWidth: o.SearchWidth,
		MaxEpochs:   o.MaxEpochs,
		Patience:    o.Patience,
		Seed:        valueOr(o.Seed, DefaultSeed),
	}
}

// Weights returns the score exponents.
func (o *Options) Weights() clique.Weights {
	return clique.Weights{
		Alpha: valueOr(o.Alpha, DefaultAlpha),
		Beta:  valueOr(o.Beta, DefaultBeta),
		Gamma: o.Gamma,
	}
}

// Thresholds returns the admission thresholds.
func (o *Options) Thresholds() clique.Thresholds {
	return clique.Thresholds{Global: o.GlobalThreshold, Local: o.LocalThreshold}
}

// ResultKeyOpts returns cache key options for partition results.
func (o *Options) ResultKeyOpts(schemaHash string) cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		SchemaHash:      schemaHash,
		CoreType:        o.CoreType,
		BeamWidth:       o.BeamWidth,
		SearchWidth:     o.SearchWidth,
		Alpha:           valueOr(o.Alpha, DefaultAlpha),
		Beta:            valueOr(o.Beta, DefaultBeta),
		Gamma:           o.Gamma,
		GlobalThreshold: o.GlobalThreshold,
		LocalThreshold:  o.LocalThreshold,
		MaxEpochs:       o.MaxEpochs,
		Patience:        o.Patience,
		MinDegree:       o.MinDegree,
		Seed:            valueOr(o.Seed, DefaultSeed),
	}
}
