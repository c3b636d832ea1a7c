package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quasiclique/pkg/metrics"
	"github.com/matzehuels/quasiclique/pkg/observability"
	"github.com/matzehuels/quasiclique/pkg/pipeline"
	"github.com/matzehuels/quasiclique/pkg/sink"
)

type runFlags struct {
	job   jobFlags
	cache cacheFlags

	input        string
	output       string
	format       string
	includeEmpty bool
	workers      int
	refresh      bool
	namespace    string
	metricsFile  string
}

// runCommand creates the run command for batch quasi-clique search.
func (c *CLI) runCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Find the best quasi-clique of every partition",
		Long: `Run reads tab-separated edge and membership records, groups consecutive
records with the same graph id into partitions and writes the best
quasi-clique of each partition.

Input lines:
  graph_id  source_id  target_id  source_type  relation  target_type
  graph_id  node_id    type_name  ""           ""        ""

Output lines (text format):
  graph_id  core_ids  non_core_ids  [score  density  steps with -v]`,
		Example: `  # Search with a TOML schema, reading stdin
  quasiclique run --schema schema.toml --core-type author < edges.tsv

  # Strict thresholds, 4 workers, JSON lines output
  quasiclique run --schema schema.toml --global-threshold 1 --local-threshold 1 \
      --workers 4 --format jsonl -i edges.tsv -o cliques.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd, &f)
		},
	}

	f.job.register(cmd)
	f.cache.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&f.input, "input", "i", "-", "input file (- for stdin)")
	fs.StringVarP(&f.output, "output", "o", "-", "output file (- for stdout)")
	fs.StringVarP(&f.format, "format", "f", sink.FormatText, "output format: text, jsonl")
	fs.BoolVar(&f.includeEmpty, "include-empty", false, "write partitions without a quasi-clique")
	fs.IntVarP(&f.workers, "workers", "w", pipeline.DefaultWorkers, "partitions processed concurrently")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	fs.StringVar(&f.namespace, "cache-namespace", "", "prefix for cache keys")
	fs.StringVar(&f.metricsFile, "metrics-textfile", "", "write Prometheus metrics to this file when done")

	return cmd
}

func (c *CLI) runRun(cmd *cobra.Command, f *runFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts, err := f.job.options(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	if f.refresh {
		opts.Refresh = true
	}
	if f.namespace != "" {
		opts.CacheNamespace = f.namespace
	}
	opts.Verbose = opts.Verbose || c.verbose
	opts.Logger = logger

	var rec *metrics.Recorder
	if f.metricsFile != "" {
		rec = metrics.New()
		rec.Install()
		defer observability.Reset()
	}

	store, err := f.cache.open(ctx)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner, err := pipeline.NewRunner(opts, store, logger)
	if err != nil {
		store.Close()
		return err
	}
	defer runner.Close()
	logger.Debug("options", "core_type", runner.Options().CoreType, "search", describeOptions(runner.Options()))

	in, err := c.openInput(f.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := c.openSink(f.output, f.format, sink.Options{Verbose: opts.Verbose, IncludeEmpty: f.includeEmpty})
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	summary, err := runner.Run(ctx, in, out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Searched %d partitions", summary.Partitions))

	if rec != nil {
		if err := rec.WriteTextfile(f.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	printSummary(summary)
	if f.output != "-" && f.output != "" {
		printFile(f.output)
	}
	if f.metricsFile != "" {
		printFile(f.metricsFile)
	}
	return nil
}

// outputSink is a sink that must be closed once the run is done.
type outputSink interface {
	pipeline.Sink
	Close() error
}

type writerSink struct{ sink.Flusher }

func (s writerSink) Close() error { return s.Flush() }

// openSink opens the output path, with "-" or "" meaning the CLI's output.
func (c *CLI) openSink(path, format string, opts sink.Options) (outputSink, error) {
	if path == "" || path == "-" {
		s, err := sink.New(c.Out, format, opts)
		if err != nil {
			return nil, err
		}
		return writerSink{s}, nil
	}
	return sink.Open(path, format, opts)
}
