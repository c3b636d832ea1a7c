package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/pipeline"
)

// Supported formats.
const (
	FormatText      = "text"
	FormatJSONLines = "jsonl"
)

// Formats lists the accepted format names.
var Formats = []string{FormatText, FormatJSONLines}

// Options controls what a sink writes.
type Options struct {
	// Verbose adds score, density and step columns (text) or keeps them in
	// the object (JSON lines).
	Verbose bool
	// IncludeEmpty writes partitions without a candidate.
	IncludeEmpty bool
}

// Text writes results as tab-separated lines.
type Text struct {
	w    *bufio.Writer
	opts Options
}

// NewText returns a text sink writing to w.
func NewText(w io.Writer, opts Options) *Text {
	return &Text{w: bufio.NewWriter(w), opts: opts}
}

// Write implements [pipeline.Sink].
func (t *Text) Write(res *pipeline.Result) error {
	if !res.Found && !t.opts.IncludeEmpty {
		return nil
	}
	fields := []string{res.GraphID.String(), ids.JoinNodes(res.Core), ids.JoinNodes(res.NonCore)}
	if t.opts.Verbose {
		fields = append(fields,
			strconv.FormatFloat(res.Score, 'g', -1, 64),
			strconv.FormatFloat(res.Density, 'f', 4, 64),
			strconv.Itoa(res.Steps))
	}
	if _, err := t.w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
		return fmt.Errorf("write result %d: %w", res.GraphID, err)
	}
	return nil
}

// Flush writes buffered output.
func (t *Text) Flush() error { return t.w.Flush() }

// New returns a sink of the given format writing to w.
func New(w io.Writer, format string, opts Options) (Flusher, error) {
	switch format {
	case "", FormatText:
		return NewText(w, opts), nil
	case FormatJSONLines:
		return NewJSONLines(w, opts), nil
	}
	return nil, fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(Formats, ", "))
}

// Flusher is a sink with buffered output.
type Flusher interface {
	pipeline.Sink
	Flush() error
}

// File is a sink bound to an output file.
type File struct {
	Flusher
	f *os.File
}

// Open creates path and returns a sink writing to it. A path of "-" or ""
// writes to stdout, which Close leaves open.
func Open(path, format string, opts Options) (*File, error) {
	if path == "" || path == "-" {
		s, err := New(os.Stdout, format, opts)
		if err != nil {
			return nil, err
		}
		return &File{Flusher: s}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	s, err := New(f, format, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{Flusher: s, f: f}, nil
}

// Close flushes buffered output and closes the file.
func (f *File) Close() error {
	err := f.Flush()
	if f.f == nil {
		return err
	}
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	return err
}
