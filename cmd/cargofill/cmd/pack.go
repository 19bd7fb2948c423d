package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/CargoFill/internal/engine"
	"github.com/piwi3910/CargoFill/internal/export"
	"github.com/piwi3910/CargoFill/internal/model"
	"github.com/piwi3910/CargoFill/internal/project"
	"github.com/spf13/cobra"
)

const recentFilesLimit = 10

type packOptions struct {
	search searchFlags

	pdfPath    string
	labelsPath string
	dxfPath    string
	xlsxPath   string
	outputJSON bool
}

func newPackCmd(root *rootOptions) *cobra.Command {
	opts := &packOptions{}

	c := &cobra.Command{
		Use:   "pack [instance-file]",
		Short: "Pack boxes into a container",
		Long: `Load an instance and search for the loading order that leaves the
fewest boxes unplaced. Instance files may be benchmark text (.txt), JSON
order files (.json), CSV or Excel box lists (.csv, .xlsx) or YAML manifests
(.yaml). Boxes can also be given inline with --box.

Examples:
  cargofill pack thpack1.txt --max-trials 500 --seed 1
  cargofill pack boxes.xlsx --preset "ISO 40ft" --pdf plan.pdf --labels labels.pdf
  cargofill pack orders.json --order 1001 --json > result.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runPack(c, root, opts, args)
		},
	}

	opts.search.register(c)
	c.Flags().StringVar(&opts.pdfPath, "pdf", "", "write a PDF report with one plan page per level")
	c.Flags().StringVar(&opts.labelsPath, "labels", "", "write a PDF sheet of QR box labels")
	c.Flags().StringVar(&opts.dxfPath, "dxf", "", "write a 3D DXF wireframe")
	c.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "write an Excel load plan")
	c.Flags().BoolVar(&opts.outputJSON, "json", false, "print the result as JSON")
	return c
}

func runPack(c *cobra.Command, root *rootOptions, opts *packOptions, args []string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	logger := root.newLogger(c.ErrOrStderr(), cfg)

	settings, err := opts.search.settings(c, cfg)
	if err != nil {
		return err
	}
	inv, err := root.loadInventory()
	if err != nil {
		return err
	}
	inst, err := opts.search.loadInstance(args, cfg, inv, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt)
	defer stop()

	result, err := engine.New(settings, logger).Optimize(ctx, inst.container, inst.boxes)
	if err != nil {
		return err
	}

	if err := writeReports(opts, result, logger); err != nil {
		return err
	}

	if len(args) == 1 {
		cfg.AddRecentFile(args[0], recentFilesLimit)
		if err := project.SaveAppConfig(root.configPath, cfg); err != nil {
			logger.Warn("failed to update recent files", "error", err)
		}
	}

	out := c.OutOrStdout()
	if opts.outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printSummary(out, result)
}

// writeReports runs every exporter that was asked for.
func writeReports(opts *packOptions, result model.PackResult, logger *slog.Logger) error {
	reports := []struct {
		kind  string
		path  string
		write func(string, model.PackResult) error
	}{
		{"pdf", opts.pdfPath, export.ExportPDF},
		{"labels", opts.labelsPath, export.ExportLabels},
		{"dxf", opts.dxfPath, export.ExportDXF},
		{"xlsx", opts.xlsxPath, export.ExportLoadPlan},
	}
	for _, r := range reports {
		if r.path == "" {
			continue
		}
		if err := r.write(r.path, result); err != nil {
			return fmt.Errorf("failed to write %s report: %w", r.kind, err)
		}
		logger.Info("report written", "kind", r.kind, "path", r.path)
	}
	return nil
}

// printSummary prints the result the way an operator reads it: fill ratio,
// counts and the ids that need attention.
func printSummary(w io.Writer, result model.PackResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", result.RunID)
	fmt.Fprintf(tw, "Container:\t%s mm\n", result.Container)
	fmt.Fprintf(tw, "Fill ratio:\t%.4f (%.2f%%)\n", result.FillRatio, result.FillPercent())
	fmt.Fprintf(tw, "Placed boxes:\t%d\n", len(result.Placements))
	fmt.Fprintf(tw, "Unplaced boxes:\t%d\n", len(result.Unplaced))
	fmt.Fprintf(tw, "Unplaced IDs:\t%v\n", result.UnplacedIDs())
	fmt.Fprintf(tw, "Floating boxes:\t%d\n", len(result.FloatingIDs))
	fmt.Fprintf(tw, "Floating IDs:\t%v\n", result.FloatingIDs)
	fmt.Fprintf(tw, "Search:\t%s, %d trials in %d batches, stopped on %s after %s\n",
		result.Algorithm, result.TrialsRun, result.BatchesRun, result.StopReason, result.Elapsed.Round(time.Millisecond))
	return tw.Flush()
}
