package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type outcome struct {
	res *Result
	err error
}

// Run reads partitions from in, processes up to Workers of them
// concurrently and writes each result to sink in input order. Partitions
// without a result are passed to the sink as well; sinks decide whether to
// print them.
//
// Run stops at the first processing or sink error; a sink error cancels the
// partitions not yet started. Cancelling ctx stops it between partitions.
func (r *Runner) Run(ctx context.Context, in io.Reader, sink Sink) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	logger := r.Logger.With("run", summary.RunID[:8])
	start := time.Now()

	logger.Info("starting run",
		"core_type", r.opts.CoreType,
		"workers", r.opts.Workers,
		"beam_width", r.opts.BeamWidth,
		"min_degree", r.opts.MinDegree)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending := make(chan chan outcome, r.opts.Workers)
	drained := make(chan error, 1)
	go func() { drained <- r.drain(pending, sink, &summary, cancel) }()

	workers, wctx := errgroup.WithContext(runCtx)
	workers.SetLimit(r.opts.Workers)

	reader := r.ReadPartitions(in)
	var readErr error
	for wctx.Err() == nil {
		p, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			readErr = err
			break
		}

		slot := make(chan outcome, 1)
		pending <- slot
		workers.Go(func() error {
			res, err := r.Process(wctx, p)
			slot <- outcome{res: res, err: err}
			return err
		})
	}

	workErr := workers.Wait()
	close(pending)
	sinkErr := <-drained

	if sinkErr != nil && ctx.Err() == nil && errors.Is(workErr, context.Canceled) {
		workErr = nil
	}

	summary.Lines = reader.Lines()
	summary.Malformed = reader.Malformed()
	summary.Duration = time.Since(start)

	for _, err := range []error{readErr, workErr, sinkErr, ctx.Err()} {
		if err != nil {
			logger.Error("run failed", "error", err)
			return summary, err
		}
	}

	logger.Info("finished run",
		"partitions", summary.Partitions,
		"found", summary.Found,
		"malformed", summary.Malformed,
		"dropped", summary.Dropped,
		"cache_hits", summary.CacheHits,
		"duration", summary.Duration)
	return summary, nil
}

// drain writes outcomes in submission order. A sink error calls stop. After
// the first error it keeps consuming slots so producers never block.
func (r *Runner) drain(pending <-chan chan outcome, sink Sink, summary *Summary, stop context.CancelFunc) error {
	var firstErr error
	for slot := range pending {
		o := <-slot
		if firstErr != nil {
			continue
		}
		if o.err != nil {
			firstErr = o.err
			continue
		}
		summary.add(o.res)
		if err := sink.Write(o.res); err != nil {
			firstErr = err
			stop()
		}
	}
	if f, ok := sink.(interface{ Flush() error }); ok && firstErr == nil {
		firstErr = f.Flush()
	}
	return firstErr
}

func (s *Summary) add(res *Result) {
	s.Partitions++
	if res.Found {
		s.Found++
	} else {
		s.Empty++
	}
	s.Dropped += res.Stats.Dropped
	s.Pruned += res.Stats.Pruned
	s.Steps += res.Steps
	if res.CacheHit {
		s.CacheHits++
	}
}
