package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/CargoFill/internal/model"
)

// search holds the orchestrator state of one Optimize call. It is only
// touched by the orchestrating goroutine; trials receive their inputs by
// value and hand back results through per-index slots.
type search struct {
	settings    model.SearchSettings
	container   model.Container
	boxes       []model.Box
	requireFull bool
	workers     int
	rng         *rand.Rand
	logger      *slog.Logger

	start   time.Time
	best    *model.TrialResult
	trials  int
	batches int
	reason  model.StopReason
}

func newSearch(settings model.SearchSettings, container model.Container, boxes []model.Box, seed int64, logger *slog.Logger) *search {
	workers := settings.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &search{
		settings:    settings,
		container:   container,
		boxes:       boxes,
		requireFull: model.TotalVolume(boxes) <= container.Volume(),
		workers:     workers,
		rng:         rand.New(rand.NewSource(seed)),
		logger:      logger,
		start:       time.Now(),
	}
}

// runBatch runs n trials on the bounded worker pool and waits for all of
// them. Result i always comes from trial(i), whatever order they finish in.
func (s *search) runBatch(n int, trial func(i int) model.TrialResult) []model.TrialResult {
	results := make([]model.TrialResult, n)
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := 0; i < n; i++ {
		i := i // per-iteration copy (go.mod targets Go 1.21 loop semantics)
		g.Go(func() error {
			results[i] = trial(i)
			return nil
		})
	}
	// Trials cannot fail.
	_ = g.Wait()

	s.trials += n
	s.batches++
	return results
}

// consider replaces the best result with the first one that leaves strictly
// fewer boxes unplaced. Fill ratio does not break ties.
func (s *search) consider(results []model.TrialResult) {
	for i := range results {
		if s.best == nil || len(results[i].Unplaced) < len(s.best.Unplaced) {
			r := results[i]
			s.best = &r
		}
	}
}

// shouldStop checks the budget at a batch boundary and records the reason.
func (s *search) shouldStop(ctx context.Context) bool {
	switch {
	case s.requireFull && s.best != nil && len(s.best.Unplaced) == 0:
		s.reason = model.StopPerfect
	case s.trials >= s.settings.MaxTrials:
		s.reason = model.StopMaxTrials
	case time.Since(s.start) > s.settings.TimeLimit:
		s.reason = model.StopTimeLimit
	case ctx.Err() != nil:
		s.reason = model.StopCanceled
	default:
		return false
	}
	return true
}

// runRandom is the multi-start search: every trial packs its own uniformly
// shuffled copy of the boxes. Trial seeds are drawn from the master generator
// before the batch is dispatched, so a fixed seed reproduces the whole run
// regardless of how the pool schedules trials.
func (s *search) runRandom(ctx context.Context) {
	for {
		n := min(s.settings.BatchSize, s.settings.MaxTrials-s.trials)
		seeds := make([]int64, n)
		for i := range seeds {
			seeds[i] = s.rng.Int63()
		}

		results := s.runBatch(n, func(i int) model.TrialResult {
			rng := rand.New(rand.NewSource(seeds[i]))
			return PlaceSequence(s.container, shuffled(s.boxes, rng))
		})
		s.consider(results)

		s.logger.Debug("batch finished",
			"batch", s.batches,
			"trials", s.trials,
			"best_unplaced", len(s.best.Unplaced),
			"best_fill_ratio", s.best.FillRatio,
		)
		if s.shouldStop(ctx) {
			return
		}
	}
}

// shuffled returns a uniformly permuted copy of boxes.
func shuffled(boxes []model.Box, rng *rand.Rand) []model.Box {
	order := make([]model.Box, len(boxes))
	copy(order, boxes)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
