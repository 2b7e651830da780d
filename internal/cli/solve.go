package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beamsplit/pkg/errors"
	"github.com/matzehuels/beamsplit/pkg/pipeline"
)

// solveFlags holds the flags shared by solve, batch and pick.
type solveFlags struct {
	noCache     bool
	refresh     bool
	unreachable string
}

func (f *solveFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results and store fresh ones")
	cmd.Flags().StringVar(&f.unreachable, "unreachable", "", "unreachable splitter policy: ignore, warn or error (default from config)")
}

// options returns the pipeline options template, falling back to the
// configured policy.
func (f *solveFlags) options(c *CLI) pipeline.Options {
	policy := f.unreachable
	if policy == "" {
		policy = string(c.Config.UnreachablePolicy())
	}
	return pipeline.Options{Unreachable: policy, Refresh: f.refresh}
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		flags  solveFlags
		part   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "solve <file>...",
		Short: "Count splits and paths for grid files",
		Long: `Solve simulates each grid and prints the number of split events, the
number of distinct source-to-bottom paths and the number of exit columns.

With --part 1 only the split count is printed, with --part 2 only the
path count, one line per file.`,
		Example: `  beamsplit solve input.txt
  beamsplit solve --part 2 input.txt
  beamsplit solve --json a.txt b.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if part != 0 && part != 1 && part != 2 {
				return errors.New(errors.ErrCodeInvalidInput, "--part must be 1 or 2")
			}
			ctx := cmd.Context()

			inputs, err := pipeline.FileOptions(args, flags.options(c))
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			results := make([]*pipeline.Result, 0, len(inputs))
			for _, opts := range inputs {
				res, err := runner.Solve(ctx, opts)
				if err != nil {
					return fmt.Errorf("%s: %w", opts.Name, err)
				}
				results = append(results, res)
			}

			switch {
			case asJSON:
				return printResultsJSON(results)
			case part == 1:
				for _, r := range results {
					fmt.Fprintln(stdout, strconv.FormatUint(r.Splits, 10))
				}
			case part == 2:
				for _, r := range results {
					fmt.Fprintln(stdout, strconv.FormatUint(r.Paths, 10))
				}
			default:
				for _, r := range results {
					printResult(r)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&part, "part", 0, "print only the split count (1) or the path count (2)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")

	return cmd
}

// printResult prints one solve result in the human format.
func printResult(r *pipeline.Result) {
	printSuccess("%s", StyleTitle.Render(r.Name))
	printKeyValue("Splits", StyleNumber.Render(strconv.FormatUint(r.Splits, 10)))
	printKeyValue("Paths", StyleNumber.Render(strconv.FormatUint(r.Paths, 10)))
	printKeyValue("Exits", StyleNumber.Render(strconv.Itoa(r.ExitColumns)))
	if r.SideExits > 0 {
		printKeyValue("Side exits", strconv.FormatUint(r.SideExits, 10))
	}
	if n := len(r.Unreachable); n > 0 {
		printWarning("%d unreachable splitter(s), first at %s", n, r.Unreachable[0])
	}
	printStats(r.Splits, r.Paths, r.ExitColumns, r.CacheHit)
}

// printResultsJSON prints one object for a single result and an array otherwise.
func printResultsJSON(results []*pipeline.Result) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}
