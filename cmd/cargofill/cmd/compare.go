package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/piwi3910/CargoFill/internal/engine"
	"github.com/spf13/cobra"
)

func newCompareCmd(root *rootOptions) *cobra.Command {
	var search searchFlags

	c := &cobra.Command{
		Use:   "compare [instance-file]",
		Short: "Compare search settings on one instance",
		Long: `Run the instance under the current settings and a few what-if
variations (the other algorithm, doubled batch size, the next seed) and print
the outcomes side by side.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger := root.newLogger(c.ErrOrStderr(), cfg)

			settings, err := search.settings(c, cfg)
			if err != nil {
				return err
			}
			inv, err := root.loadInventory()
			if err != nil {
				return err
			}
			inst, err := search.loadInstance(args, cfg, inv, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt)
			defer stop()

			results, err := engine.CompareScenarios(ctx, engine.BuildDefaultScenarios(settings), inst.container, inst.boxes, logger)
			if err != nil {
				return err
			}
			return printComparison(c.OutOrStdout(), results)
		},
	}

	search.register(c)
	return c
}

func printComparison(w io.Writer, results []engine.ComparisonResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tALGORITHM\tPLACED\tUNPLACED\tFLOATING\tFILL %\tTRIALS\tSTOP")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.2f\t%d\t%s\n",
			r.Scenario.Name,
			r.Result.Algorithm,
			r.PlacedCount,
			r.UnplacedCount,
			r.FloatingCount,
			r.FillPercent,
			r.Result.TrialsRun,
			r.Result.StopReason,
		)
	}
	return tw.Flush()
}
