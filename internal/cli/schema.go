package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/schema"
)

// schemaCommand creates the schema command that shows the resolved registry.
func (c *CLI) schemaCommand() *cobra.Command {
	var coreType string

	cmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Show the type registry built from a schema file",
		Long: `Schema loads a schema file and prints the ids the search assigns to types
and relations, along with the maximum number of relations between a core node
and a node of each type.`,
		Example: `  quasiclique schema schema.toml
  quasiclique schema relations.tsv --core-type author`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := schema.Load(args[0])
			if err != nil {
				return err
			}
			reg, err := file.Registry(coreType)
			if err != nil {
				return err
			}
			c.printRegistry(reg)
			return nil
		},
	}

	cmd.Flags().StringVar(&coreType, "core-type", "", "core node type (overrides the file's core_type)")

	return cmd
}

func (c *CLI) printRegistry(reg *schema.Registry) {
	fmt.Fprintln(c.Out, StyleTitle.Render("Core type"))
	printKeyValueTo(c.Out, fmt.Sprint(ids.CoreTypeID), reg.CoreType())

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, StyleTitle.Render("Relations"))
	for id, name := range reg.Relations() {
		printKeyValueTo(c.Out, fmt.Sprint(id), name)
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, StyleTitle.Render("Target types"))
	for _, t := range reg.TargetTypes() {
		rels := make([]string, len(t.Relations))
		for i, rel := range t.Relations {
			rels[i], _ = reg.RelationName(rel)
		}
		printKeyValueTo(c.Out, fmt.Sprint(t.ID),
			fmt.Sprintf("%s %s", t.Name, StyleDim.Render(fmt.Sprintf("(max %d: %s)", t.MaxRelations, strings.Join(rels, ", ")))))
	}
}
