package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quasiclique/pkg/record"
)

// classifyCommand creates the classify command, a debugging aid for input files.
func (c *CLI) classifyCommand() *cobra.Command {
	var (
		input   string
		longIDs bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Report the record kind of every input line",
		Long: `Classify parses every input line and prints its number and kind: "edge",
"membership" or "invalid" followed by the reason. Blank lines are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := c.openInput(input)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer in.Close()

			parser := record.Parser{LongIDs: longIDs}
			w := bufio.NewWriter(c.Out)
			defer w.Flush()

			sc := bufio.NewScanner(in)
			invalid := 0
			for n := 1; sc.Scan(); n++ {
				line := sc.Text()
				if line == "" {
					continue
				}
				if _, err := parser.Parse(line); err != nil {
					invalid++
					fmt.Fprintf(w, "%d\tinvalid\t%v\n", n, err)
					continue
				}
				kind, _ := parser.Classify(line)
				fmt.Fprintf(w, "%d\t%s\n", n, kind)
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if strict && invalid > 0 {
				return fmt.Errorf("%d invalid lines", invalid)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "input file (- for stdin)")
	cmd.Flags().BoolVar(&longIDs, "long-ids", false, "accept 64-bit identifiers")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any line is invalid")

	return cmd
}
