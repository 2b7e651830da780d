package cli

import (
	"github.com/spf13/cobra"

	dagio "github.com/matzehuels/beamsplit/pkg/io"
	"github.com/matzehuels/beamsplit/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags  solveFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the dependency graph of a grid as JSON",
		Long: `Export writes the graph built during the traversal: the source, every
reached splitter and one collector per exit column, with an edge from each
firing cell to the cell it reached. Every node carries its path count.
The unreachable policy applies as for solve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			text, err := pipeline.ReadGridFile(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.options(c)
			opts.Grid, opts.Name = text, args[0]
			d, err := runner.Graph(ctx, opts)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return dagio.WriteJSON(d, stdout)
			}
			if err := dagio.ExportJSON(d, output); err != nil {
				return err
			}
			printSuccess("Exported %d nodes, %d edges", d.NodeCount(), d.EdgeCount())
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
