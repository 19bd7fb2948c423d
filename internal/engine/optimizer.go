package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/piwi3910/CargoFill/internal/model"
)

// Optimizer searches box orderings for the best container load.
type Optimizer struct {
	Settings model.SearchSettings
	logger   *slog.Logger
}

// New creates an optimizer. A nil logger falls back to slog.Default().
func New(settings model.SearchSettings, logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{Settings: settings, logger: logger}
}

// Optimize validates its inputs, runs the configured search and audits the
// best placement for floating boxes.
//
// The context is only consulted between batches: trials already dispatched
// always run to completion, and at least one batch always runs, so a result is
// returned even when ctx is already done.
func (o *Optimizer) Optimize(ctx context.Context, container model.Container, boxes []model.Box) (model.PackResult, error) {
	if err := o.Settings.Validate(); err != nil {
		return model.PackResult{}, err
	}
	if err := model.ValidateBoxes(boxes); err != nil {
		return model.PackResult{}, err
	}

	runID := model.NewRunID()
	seed := o.Settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := o.logger.With("run_id", runID)

	s := newSearch(o.Settings, container, boxes, seed, logger)
	logger.Info("search started",
		"algorithm", o.Settings.Algorithm,
		"container", container.String(),
		"boxes", len(boxes),
		"require_full", s.requireFull,
		"max_trials", o.Settings.MaxTrials,
		"batch_size", o.Settings.BatchSize,
		"workers", s.workers,
		"seed", seed,
	)

	if o.Settings.Algorithm == model.AlgorithmGenetic {
		s.runGenetic(ctx, geneticConfigFor(o.Settings))
	} else {
		s.runRandom(ctx)
	}

	result := model.PackResult{
		TrialResult: *s.best,
		RunID:       runID,
		Container:   container,
		Algorithm:   o.Settings.Algorithm,
		Seed:        seed,
		FloatingIDs: FloatingIDs(s.best.Placements),
		TrialsRun:   s.trials,
		BatchesRun:  s.batches,
		Elapsed:     time.Since(s.start),
		StopReason:  s.reason,
	}

	logger.Info("search finished",
		"reason", result.StopReason,
		"trials", result.TrialsRun,
		"batches", result.BatchesRun,
		"elapsed", result.Elapsed,
		"placed", len(result.Placements),
		"unplaced", len(result.Unplaced),
		"fill_ratio", result.FillRatio,
	)
	if len(result.FloatingIDs) > 0 {
		logger.Warn("floating boxes in best placement", "ids", result.FloatingIDs)
	}
	return result, nil
}
