package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/pipeline"
)

// pickCommand creates the pick command.
func (c *CLI) pickCommand() *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   "pick [dir]",
		Short: "Choose a grid file interactively and solve it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			files, err := listGridFiles(dir)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "list %s", dir)
			}
			if len(files) == 0 {
				printWarning("No grid files in %s", dir)
				return nil
			}

			final, err := tea.NewProgram(NewGridListModel(files), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			m, ok := final.(GridListModel)
			if !ok || m.Selected == nil {
				return nil
			}

			inputs, err := pipeline.FileOptions([]string{m.Selected.Path}, flags.options(c))
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Solve(ctx, inputs[0])
			if err != nil {
				return err
			}
			printResult(res)
			printNextStep("Export the graph", "beamsplit export "+m.Selected.Path)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
