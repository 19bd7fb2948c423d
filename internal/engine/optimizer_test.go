package engine

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/piwi3910/CargoFill/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSettings() model.SearchSettings {
	return model.SearchSettings{
		Algorithm: model.AlgorithmRandom,
		MaxTrials: 100,
		TimeLimit: time.Minute,
		BatchSize: 10,
		Workers:   4,
		Seed:      42,
	}
}

// cubes returns n cubes of the given side with ids 0..n-1.
func cubes(n, side int) []model.Box {
	boxes := make([]model.Box, n)
	for i := range boxes {
		boxes[i] = model.NewBox(i, side, side, side)
	}
	return boxes
}

func TestOptimize_PerfectPackingStopsAfterFirstBatch(t *testing.T) {
	opt := New(testSettings(), discardLogger())
	res, err := opt.Optimize(context.Background(), cube10(), cubes(1, 5))
	require.NoError(t, err)

	assert.Equal(t, model.StopPerfect, res.StopReason)
	assert.Equal(t, 10, res.TrialsRun, "the whole first batch runs before the check")
	assert.Equal(t, 1, res.BatchesRun)
	assert.InDelta(t, 0.125, res.FillRatio, 1e-9)
	require.Len(t, res.Placements, 1)
	assert.Equal(t, 0, res.Placements[0].Z)
	assert.Empty(t, res.FloatingIDs)
}

func TestOptimize_TwoHalvesFillContainer(t *testing.T) {
	boxes := []model.Box{model.NewBox(0, 5, 10, 10), model.NewBox(1, 5, 10, 10)}
	res, err := New(testSettings(), discardLogger()).Optimize(context.Background(), cube10(), boxes)
	require.NoError(t, err)

	assert.Equal(t, model.StopPerfect, res.StopReason)
	assert.Empty(t, res.Unplaced)
	assert.InDelta(t, 1.0, res.FillRatio, 1e-9)
}

func TestOptimize_OverfullRunsWholeBudget(t *testing.T) {
	settings := testSettings()
	settings.MaxTrials = 25

	res, err := New(settings, discardLogger()).Optimize(context.Background(), cube10(), cubes(20, 6))
	require.NoError(t, err)

	assert.Equal(t, model.StopMaxTrials, res.StopReason)
	assert.Equal(t, 25, res.TrialsRun, "the last batch is truncated to the budget")
	assert.Equal(t, 3, res.BatchesRun)
	assert.Len(t, res.Placements, 1)
	assert.Len(t, res.Unplaced, 19)
}

func TestOptimize_OverfullWithUnreachedPerfection(t *testing.T) {
	// Total volume exceeds the container, so even when every box were to fit
	// the search must not stop early.
	boxes := []model.Box{model.NewBox(0, 10, 10, 6), model.NewBox(1, 10, 10, 6)}
	settings := testSettings()
	settings.MaxTrials = 30

	res, err := New(settings, discardLogger()).Optimize(context.Background(), cube10(), boxes)
	require.NoError(t, err)

	assert.Equal(t, model.StopMaxTrials, res.StopReason)
	assert.Equal(t, 30, res.TrialsRun)
	assert.Equal(t, 3, res.BatchesRun)
	assert.Len(t, res.Unplaced, 1)
	assert.InDelta(t, 0.6, res.FillRatio, 1e-9)
}

func TestOptimize_BudgetSmallerThanBatch(t *testing.T) {
	settings := testSettings()
	settings.MaxTrials = 3

	res, err := New(settings, discardLogger()).Optimize(context.Background(), cube10(), cubes(5, 6))
	require.NoError(t, err)

	assert.Equal(t, 3, res.TrialsRun)
	assert.Equal(t, 1, res.BatchesRun)
	assert.Equal(t, model.StopMaxTrials, res.StopReason)
}

func TestOptimize_TimeLimit(t *testing.T) {
	settings := testSettings()
	settings.TimeLimit = time.Nanosecond
	settings.BatchSize = 4
	settings.MaxTrials = 1000

	res, err := New(settings, discardLogger()).Optimize(context.Background(), cube10(), cubes(20, 6))
	require.NoError(t, err)

	assert.Equal(t, model.StopTimeLimit, res.StopReason)
	assert.Equal(t, 4, res.TrialsRun, "a running batch always completes")
	assert.Equal(t, 1, res.BatchesRun)
}

func TestOptimize_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(testSettings(), discardLogger()).Optimize(ctx, cube10(), cubes(20, 6))
	require.NoError(t, err)

	assert.Equal(t, model.StopCanceled, res.StopReason)
	assert.Equal(t, 10, res.TrialsRun)
	assert.Equal(t, 1, res.BatchesRun)
	assert.Len(t, res.Placements, 1, "a result is still returned")
}

func TestOptimize_EmptyBoxList(t *testing.T) {
	res, err := New(testSettings(), discardLogger()).Optimize(context.Background(), cube10(), nil)
	require.NoError(t, err)

	assert.Equal(t, model.StopPerfect, res.StopReason)
	assert.Equal(t, 1, res.BatchesRun)
	assert.Empty(t, res.Placements)
	assert.Empty(t, res.Unplaced)
	assert.Equal(t, 0.0, res.FillRatio)
}

func TestOptimize_DegenerateContainer(t *testing.T) {
	c := model.Container{Length: 0, Width: 10, Height: 10}
	settings := testSettings()
	settings.MaxTrials = 20

	res, err := New(settings, discardLogger()).Optimize(context.Background(), c, cubes(3, 1))
	require.NoError(t, err)

	assert.Equal(t, model.StopMaxTrials, res.StopReason)
	assert.Empty(t, res.Placements)
	assert.Len(t, res.Unplaced, 3)
	assert.Equal(t, 0.0, res.FillRatio)
}

func TestOptimize_InvalidSettings(t *testing.T) {
	settings := testSettings()
	settings.BatchSize = 0

	_, err := New(settings, discardLogger()).Optimize(context.Background(), cube10(), cubes(1, 1))
	assert.ErrorIs(t, err, model.ErrInvalidSettings)
}

func TestOptimize_InvalidBoxes(t *testing.T) {
	boxes := []model.Box{model.NewBox(1, 1, 1, 1), model.NewBox(1, 2, 2, 2)}

	_, err := New(testSettings(), discardLogger()).Optimize(context.Background(), cube10(), boxes)
	assert.ErrorIs(t, err, model.ErrInvalidBox)
}

func TestOptimize_NilLoggerFallsBackToDefault(t *testing.T) {
	opt := New(testSettings(), nil)
	_, err := opt.Optimize(context.Background(), cube10(), cubes(1, 2))
	assert.NoError(t, err)
}

func TestOptimize_FixedSeedIsReproducible(t *testing.T) {
	c := model.Container{Length: 20, Width: 15, Height: 12}
	boxes := randomBoxes(rand.New(rand.NewSource(3)), 40, 8)

	settings := testSettings()
	settings.MaxTrials = 40
	settings.Workers = 1
	first, err := New(settings, discardLogger()).Optimize(context.Background(), c, boxes)
	require.NoError(t, err)

	settings.Workers = 8
	second, err := New(settings, discardLogger()).Optimize(context.Background(), c, boxes)
	require.NoError(t, err)

	assert.Equal(t, first.Placements, second.Placements, "pool size must not change the outcome")
	assert.Equal(t, first.UnplacedIDs(), second.UnplacedIDs())
	assert.Equal(t, int64(42), first.Seed)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestOptimize_BestResultIsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	c := model.Container{Length: 20, Width: 15, Height: 12}

	for round := 0; round < 5; round++ {
		boxes := randomBoxes(rng, 25, 8)
		settings := testSettings()
		settings.MaxTrials = 30
		settings.Seed = int64(round + 1)

		res, err := New(settings, discardLogger()).Optimize(context.Background(), c, boxes)
		require.NoError(t, err)

		assertValidPacking(t, c, res.TrialResult)
		assert.Empty(t, res.FloatingIDs)
		assert.Equal(t, len(boxes), len(res.Placements)+len(res.Unplaced))
		assert.LessOrEqual(t, res.TrialsRun, settings.MaxTrials)
	}
}

func TestConsider_TieKeepsEarlierResult(t *testing.T) {
	s := newSearch(testSettings(), cube10(), nil, 1, discardLogger())
	first := model.TrialResult{FillRatio: 0.2, Unplaced: []model.Box{model.NewBox(0, 1, 1, 1)}}
	fuller := model.TrialResult{FillRatio: 0.9, Unplaced: []model.Box{model.NewBox(1, 1, 1, 1)}}

	s.consider([]model.TrialResult{first, fuller})
	assert.InDelta(t, 0.2, s.best.FillRatio, 1e-9, "fill ratio never breaks a tie")

	better := model.TrialResult{FillRatio: 0.1, Unplaced: []model.Box{}}
	s.consider([]model.TrialResult{better})
	assert.InDelta(t, 0.1, s.best.FillRatio, 1e-9, "fewer unplaced boxes always wins")
}

func TestNewSearch_DefaultWorkers(t *testing.T) {
	settings := testSettings()
	settings.Workers = 0
	s := newSearch(settings, cube10(), nil, 1, discardLogger())
	assert.Positive(t, s.workers)
}
