package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/pipeline"
	"github.com/matzehuels/quasiclique/pkg/render"
	"github.com/matzehuels/quasiclique/pkg/render/nodelink"
)

// Render output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

var renderFormats = []string{formatDOT, formatSVG, formatPDF, formatPNG}

type renderFlags struct {
	job jobFlags

	input         string
	output        string
	format        string
	graphID       int64
	detailed      bool
	onlyCandidate bool
	scale         float64
}

// renderCommand creates the render command that draws one partition.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw one partition with its quasi-clique highlighted",
		Long: `Render searches a single partition of the input and draws its graph as a
node-link diagram. Core nodes are boxes, non-core nodes ellipses; members of
the best quasi-clique are filled and joined by bold edges.

Formats: dot (Graphviz source), svg, pdf and png. PDF and PNG require
rsvg-convert from librsvg.`,
		Example: `  quasiclique render --schema schema.toml -i edges.tsv --graph-id 7 -o g7.svg
  quasiclique render --schema schema.toml -i edges.tsv --graph-id 7 --format dot --detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, &f)
		},
	}

	f.job.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&f.input, "input", "i", "-", "input file (- for stdin)")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: graph-<id>.<format>, - for stdout)")
	fs.StringVarP(&f.format, "format", "f", "", "output format: dot, svg, pdf, png (default: from output extension, else svg)")
	fs.Int64Var(&f.graphID, "graph-id", 0, "partition to render")
	fs.BoolVar(&f.detailed, "detailed", false, "label nodes with types and edges with relations")
	fs.BoolVar(&f.onlyCandidate, "only-candidate", false, "draw only the quasi-clique members")
	fs.Float64Var(&f.scale, "scale", 2, "png scale factor")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, f *renderFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, err := renderFormat(f.format, f.output)
	if err != nil {
		return err
	}

	opts, err := f.job.options(cmd)
	if err != nil {
		return err
	}
	opts.Logger = logger
	runner, err := pipeline.NewRunner(opts, nil, logger)
	if err != nil {
		return err
	}

	in, err := c.openInput(f.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	part, err := findPartition(runner, in, ids.GraphID(f.graphID))
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := runner.Process(ctx, part)
	if err != nil {
		return err
	}
	g, _ := runner.BuildGraph(part)
	if !res.Found {
		printWarning("No quasi-clique in partition %d, drawing the graph only", f.graphID)
	}

	dot := nodelink.ToDOT(g, res.Best, nodelink.Options{
		Names:         runner.Registry(),
		Detailed:      f.detailed,
		OnlyCandidate: f.onlyCandidate,
	})
	data, err := renderDOT(cmd, dot, format, f.scale)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered partition %d", f.graphID))

	path := f.output
	if path == "" {
		path = fmt.Sprintf("graph-%d.%s", f.graphID, format)
	}
	if path == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Partition %d: %d core, %d non-core members", f.graphID, len(res.Core), len(res.NonCore))
	printFile(path)
	return nil
}

// findPartition returns the first partition of in with graph id gid.
func findPartition(runner *pipeline.Runner, in io.Reader, gid ids.GraphID) (pipeline.Partition, error) {
	reader := runner.ReadPartitions(in)
	for {
		p, err := reader.Next()
		if err == io.EOF {
			return pipeline.Partition{}, fmt.Errorf("graph id %d not found in input", gid)
		}
		if err != nil {
			return pipeline.Partition{}, err
		}
		if p.GraphID == gid {
			return p, nil
		}
	}
}

// renderFormat picks the output format from the flag or the output extension.
func renderFormat(format, output string) (string, error) {
	if format == "" {
		format = formatSVG
		if ext := filepath.Ext(output); ext != "" {
			format = strings.ToLower(ext[1:])
		}
	}
	for _, f := range renderFormats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(renderFormats, ", "))
}

func renderDOT(cmd *cobra.Command, dot, format string, scale float64) ([]byte, error) {
	if format == formatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(cmd.Context(), dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatPDF:
		return render.ToPDF(cmd.Context(), svg)
	case formatPNG:
		return render.ToPNG(cmd.Context(), svg, scale)
	}
	return svg, nil
}
