package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/piwi3910/CargoFill/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.SearchSettings
}

// ComparisonResult holds the search result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackResult
	PlacedCount   int
	UnplacedCount int
	FloatingCount int
	FillPercent   float64
}

// CompareScenarios runs a search for each scenario and returns the results
// in scenario order. This enables side-by-side comparison of different
// search parameters (e.g. algorithm, batch size, seed).
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, container model.Container, boxes []model.Box, logger *slog.Logger) ([]ComparisonResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings, logger.With("scenario", scenario.Name))
		result, err := opt.Optimize(ctx, container, boxes)
		if err != nil {
			return results, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			PlacedCount:   len(result.Placements),
			UnplacedCount: len(result.Unplaced),
			FloatingCount: len(result.FloatingIDs),
			FillPercent:   result.FillPercent(),
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.SearchSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: Try the other algorithm
	alt := base
	if base.Algorithm == model.AlgorithmGenetic {
		alt.Algorithm = model.AlgorithmRandom
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Random Multi-Start",
			Settings: alt,
		})
	} else {
		alt.Algorithm = model.AlgorithmGenetic
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Genetic Ordering",
			Settings: alt,
		})
	}

	// Scenario: Larger batches (fewer barriers, coarser early exit)
	wide := base
	wide.BatchSize = base.BatchSize * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Batch Size %d", wide.BatchSize),
		Settings: wide,
	})

	// Scenario: Different seed, only meaningful when the run is reproducible
	if base.Seed != 0 {
		reseeded := base
		reseeded.Seed = base.Seed + 1
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Seed %d", reseeded.Seed),
			Settings: reseeded,
		})
	}

	return scenarios
}
