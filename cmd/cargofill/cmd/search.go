package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/piwi3910/CargoFill/internal/importer"
	"github.com/piwi3910/CargoFill/internal/model"
	"github.com/spf13/cobra"
)

// searchFlags are the instance and search flags shared by pack and compare.
type searchFlags struct {
	container string
	preset    string
	order     string
	boxes     []string

	algorithm string
	maxTrials int
	timeLimit time.Duration
	batchSize int
	workers   int
	seed      int64
}

func (f *searchFlags) register(c *cobra.Command) {
	defaults := model.DefaultSettings()

	c.Flags().StringVar(&f.container, "container", "", "container size as LxWxH in mm (overrides the instance file)")
	c.Flags().StringVar(&f.preset, "preset", "", "container preset name from the inventory")
	c.Flags().StringVar(&f.order, "order", "", "order id to load from a JSON order file (default: first order)")
	c.Flags().StringArrayVar(&f.boxes, "box", nil, "inline box as LxWxH or LxWxHxQTY (repeatable)")

	c.Flags().StringVar(&f.algorithm, "algorithm", string(defaults.Algorithm), "search algorithm: random or genetic")
	c.Flags().IntVar(&f.maxTrials, "max-trials", defaults.MaxTrials, "maximum number of placement trials")
	c.Flags().DurationVar(&f.timeLimit, "time-limit", defaults.TimeLimit, "wall-clock budget, checked between batches")
	c.Flags().IntVar(&f.batchSize, "batch-size", defaults.BatchSize, "trials per parallel batch")
	c.Flags().IntVar(&f.workers, "workers", defaults.Workers, "worker pool size (0 = one per CPU)")
	c.Flags().Int64Var(&f.seed, "seed", defaults.Seed, "random seed (0 = time based)")
}

// settings layers defaults, the config file and explicitly set flags, in
// that order.
func (f *searchFlags) settings(c *cobra.Command, cfg model.AppConfig) (model.SearchSettings, error) {
	s := model.DefaultSettings()
	cfg.ApplyToSettings(&s)

	flags := c.Flags()
	if flags.Changed("algorithm") {
		s.Algorithm = model.Algorithm(f.algorithm)
	}
	if flags.Changed("max-trials") {
		s.MaxTrials = f.maxTrials
	}
	if flags.Changed("time-limit") {
		s.TimeLimit = f.timeLimit
	}
	if flags.Changed("batch-size") {
		s.BatchSize = f.batchSize
	}
	if flags.Changed("workers") {
		s.Workers = f.workers
	}
	if flags.Changed("seed") {
		s.Seed = f.seed
	}
	return s, s.Validate()
}

// instance is a loaded problem ready to pack.
type instance struct {
	source    string
	container model.Container
	boxes     []model.Box
}

// loadInstance reads boxes from the instance file or the --box flags and
// picks the container: --container, then --preset, then the file's own
// container, then the configured default preset.
func (f *searchFlags) loadInstance(args []string, cfg model.AppConfig, inv model.Inventory, logger *slog.Logger) (instance, error) {
	var inst instance
	var fileContainer *model.Container

	switch {
	case len(args) == 1 && len(f.boxes) > 0:
		return inst, fmt.Errorf("use either an instance file or --box, not both")
	case len(args) == 1:
		res, err := f.importFile(args[0])
		if err != nil {
			return inst, err
		}
		for _, w := range res.Warnings {
			logger.Debug("import warning", "file", args[0], "warning", w)
		}
		if len(res.Errors) > 0 {
			return inst, fmt.Errorf("failed to import %s: %s", args[0], strings.Join(res.Errors, "; "))
		}
		inst.source = args[0]
		inst.boxes = res.Boxes
		fileContainer = res.Container
	case len(f.boxes) > 0:
		boxes, err := parseBoxSpecs(f.boxes)
		if err != nil {
			return inst, err
		}
		inst.source = "inline"
		inst.boxes = boxes
	default:
		return inst, fmt.Errorf("no boxes given: pass an instance file or --box")
	}

	switch {
	case f.container != "":
		c, err := ParseContainer(f.container)
		if err != nil {
			return inst, err
		}
		inst.container = c
	case f.preset != "":
		p := inv.FindContainerByName(f.preset)
		if p == nil {
			return inst, fmt.Errorf("unknown container preset %q", f.preset)
		}
		inst.container = p.ToContainer()
	case fileContainer != nil:
		inst.container = *fileContainer
	default:
		p := inv.FindContainerByName(cfg.DefaultContainer)
		if p == nil {
			return inst, fmt.Errorf("no container given and default preset %q is not in the inventory", cfg.DefaultContainer)
		}
		inst.container = p.ToContainer()
	}

	logger.Debug("instance loaded",
		"source", inst.source,
		"container", inst.container.String(),
		"boxes", len(inst.boxes),
		"box_volume", model.TotalVolume(inst.boxes),
	)
	return inst, nil
}

// importFile loads a file, honouring --order for JSON order files.
func (f *searchFlags) importFile(path string) (importer.ImportResult, error) {
	if f.order == "" {
		return importer.Import(path), nil
	}
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		return importer.ImportResult{}, fmt.Errorf("--order only applies to JSON order files")
	}

	instances, err := importer.ImportOrders(path, importer.DefaultOrderContainer)
	if err != nil {
		return importer.ImportResult{}, err
	}
	for _, in := range instances {
		if in.Name == f.order {
			c := in.Container
			return importer.ImportResult{Container: &c, Boxes: in.Boxes}, nil
		}
	}
	return importer.ImportResult{}, fmt.Errorf("order %q not found in %s", f.order, path)
}

// ParseContainer parses "LxWxH" with positive integer sides in mm.
func ParseContainer(s string) (model.Container, error) {
	dims, err := parseDims(s, 3)
	if err != nil {
		return model.Container{}, fmt.Errorf("invalid container %q: %w", s, err)
	}
	return model.Container{Length: dims[0], Width: dims[1], Height: dims[2]}, nil
}

// maxInlineBoxes bounds the boxes --box may expand to.
const maxInlineBoxes = 10000

// parseBoxSpecs expands "LxWxH" or "LxWxHxQTY" specs into boxes with
// sequential ids.
func parseBoxSpecs(specs []string) ([]model.Box, error) {
	var boxes []model.Box
	for _, spec := range specs {
		n := strings.Count(strings.ToLower(spec), "x") + 1
		if n != 3 && n != 4 {
			return nil, fmt.Errorf("invalid box %q: want LxWxH or LxWxHxQTY", spec)
		}
		dims, err := parseDims(spec, n)
		if err != nil {
			return nil, fmt.Errorf("invalid box %q: %w", spec, err)
		}
		qty := 1
		if n == 4 {
			qty = dims[3]
		}
		if qty > maxInlineBoxes-len(boxes) {
			return nil, fmt.Errorf("invalid box %q: --box allows at most %d boxes in total", spec, maxInlineBoxes)
		}
		for i := 0; i < qty; i++ {
			b := model.NewBox(len(boxes), dims[0], dims[1], dims[2])
			b.Label = spec
			boxes = append(boxes, b)
		}
	}
	return boxes, nil
}

func parseDims(s string, n int) ([]int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values separated by 'x'", n)
	}
	dims := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", p)
		}
		if v <= 0 {
			return nil, fmt.Errorf("values must be positive")
		}
		dims[i] = v
	}
	return dims, nil
}
