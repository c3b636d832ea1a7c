package pipeline

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/quasiclique/pkg/errors"
	"github.com/matzehuels/quasiclique/pkg/observability"
	"github.com/matzehuels/quasiclique/pkg/record"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// PartitionReader groups consecutive input lines with the same graph id
// into partitions. Malformed lines are logged and skipped.
type PartitionReader struct {
	sc     *bufio.Scanner
	parser record.Parser
	logger *log.Logger

	line      int
	lines     int
	malformed int

	pending *record.Record
	done    bool
}

// ReadPartitions returns a reader over the lines of in.
func (r *Runner) ReadPartitions(in io.Reader) *PartitionReader {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &PartitionReader{sc: sc, parser: r.parser, logger: r.Logger}
}

// Next returns the next partition, or io.EOF when the input is exhausted.
// Read failures of the underlying reader are returned as
// [errors.ErrCodeInvalidInput] errors.
func (pr *PartitionReader) Next() (Partition, error) {
	var p Partition
	started := false

	add := func(rec record.Record) {
		if !started {
			p.GraphID = rec.GraphID()
			started = true
		}
		if e, err := rec.AsEdge(); err == nil {
			p.Edges = append(p.Edges, e)
			return
		}
		if m, err := rec.AsMembership(); err == nil {
			p.Members = append(p.Members, m)
		}
	}

	if pr.pending != nil {
		add(*pr.pending)
		pr.pending = nil
	}

	for !pr.done {
		rec, ok, err := pr.scan()
		if err != nil {
			return Partition{}, err
		}
		if !ok {
			continue
		}
		if started && rec.GraphID() != p.GraphID {
			pr.pending = &rec
			return p, nil
		}
		add(rec)
	}

	if !started {
		return Partition{}, io.EOF
	}
	return p, nil
}

// scan reads one line. It reports ok=false for skipped lines and sets done at
// end of input.
func (pr *PartitionReader) scan() (record.Record, bool, error) {
	if !pr.sc.Scan() {
		pr.done = true
		if err := pr.sc.Err(); err != nil {
			return record.Record{}, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
		}
		return record.Record{}, false, nil
	}
	pr.line++
	text := strings.TrimRight(pr.sc.Text(), "\r")
	if strings.TrimSpace(text) == "" {
		return record.Record{}, false, nil
	}
	pr.lines++

	rec, err := pr.parser.Parse(text)
	if err != nil {
		pr.malformed++
		observability.Search().OnRecordsRejected(context.Background(), "malformed", 1)
		pr.logger.Warn("skipping malformed line", "error", &errors.LineError{Line: pr.line, Err: err})
		return record.Record{}, false, nil
	}
	return rec, true, nil
}

// Lines returns the number of non-blank lines read so far.
func (pr *PartitionReader) Lines() int { return pr.lines }

// Malformed returns the number of lines skipped as malformed so far.
func (pr *PartitionReader) Malformed() int { return pr.malformed }
