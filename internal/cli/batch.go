package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/pipeline"
)

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags       solveFlags
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Solve many grids concurrently",
		Long: `Batch solves every grid file concurrently and prints a table of results.
A grid that fails to solve is reported in the table without stopping the
others; the command fails if any grid failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			inputs, err := pipeline.FileOptions(args, flags.options(c))
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			limit := concurrency
			if limit <= 0 {
				limit = c.Config.Batch.Concurrency
			}

			prog := newProgress(logger)
			spinner := newBatchSpinner("Solving", len(inputs))
			runner.OnBatchItem = func(it pipeline.BatchItem) {
				spinner.Done()
				if it.Err != nil {
					logger.Debug("grid failed", "name", it.Name, "err", it.Err)
				}
			}
			spinner.Start(ctx)
			items, err := runner.SolveBatch(ctx, inputs, limit)
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Solved %d grids", len(items)))

			fmt.Fprintln(stdout, renderBatchTable(items))

			failed := 0
			for _, it := range items {
				if it.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "%d of %d grids failed", failed, len(items))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "maximum concurrent solves (default from config)")

	return cmd
}

// renderBatchTable renders batch results as a bordered table.
func renderBatchTable(items []pipeline.BatchItem) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		if it.Err != nil {
			rows = append(rows, []string{it.Name, "", "", "", "", "", errors.UserMessage(it.Err)})
			continue
		}
		r := it.Result
		status := iconFresh
		if r.CacheHit {
			status = iconCached
		}
		rows = append(rows, []string{
			it.Name,
			fmt.Sprintf("%dx%d", r.Rows, r.Cols),
			strconv.FormatUint(r.Splits, 10),
			strconv.FormatUint(r.Paths, 10),
			strconv.Itoa(r.ExitColumns),
			status,
			"",
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("File", "Size", "Splits", "Paths", "Exits", "Cache", "Error").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(items) {
				return lipgloss.NewStyle()
			}
			if items[row].Err != nil {
				return lipgloss.NewStyle().Foreground(colorRed)
			}
			switch col {
			case 2, 3, 4:
				return StyleNumber
			case 5:
				if items[row].Result.CacheHit {
					return styleCached
				}
				return styleComputed
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
