package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validation sentinels, checked with errors.Is.
var (
	ErrInvalidSettings = errors.New("invalid search settings")
	ErrInvalidBox      = errors.New("invalid box")
)

// Container is the usable loading volume. All sizes are in mm.
type Container struct {
	Length int `json:"length" yaml:"length"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Volume returns L*W*H. A container with a non-positive side has no usable
// volume and nothing can be placed in it.
func (c Container) Volume() int {
	if c.Length <= 0 || c.Width <= 0 || c.Height <= 0 {
		return 0
	}
	return c.Length * c.Width * c.Height
}

func (c Container) String() string {
	return fmt.Sprintf("%dx%dx%d", c.Length, c.Width, c.Height)
}

// Dims is an (L, W, H) triple, used for rotated box sizes.
type Dims struct {
	L, W, H int
}

// Box is an immutable box specification.
type Box struct {
	ID     int    `json:"id"`
	Label  string `json:"label,omitempty"`
	Length int    `json:"length"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func NewBox(id int, l, w, h int) Box {
	return Box{ID: id, Length: l, Width: w, Height: h}
}

func (b Box) Volume() int {
	return b.Length * b.Width * b.Height
}

// Rotations returns the six axis-aligned orientations of the box. The order
// is fixed and decides which orientation wins when several fit.
func (b Box) Rotations() [6]Dims {
	l, w, h := b.Length, b.Width, b.Height
	return [6]Dims{
		{l, w, h},
		{l, h, w},
		{w, l, h},
		{w, h, l},
		{h, l, w},
		{h, w, l},
	}
}

// TotalVolume sums the volume of all boxes.
func TotalVolume(boxes []Box) int {
	total := 0
	for _, b := range boxes {
		total += b.Volume()
	}
	return total
}

// ValidateBoxes checks that ids are non-negative and unique and that every
// side is positive.
func ValidateBoxes(boxes []Box) error {
	seen := make(map[int]bool, len(boxes))
	for _, b := range boxes {
		if b.ID < 0 {
			return fmt.Errorf("%w: id %d is negative", ErrInvalidBox, b.ID)
		}
		if seen[b.ID] {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidBox, b.ID)
		}
		seen[b.ID] = true
		if b.Length <= 0 || b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("%w: box %d has non-positive size %dx%dx%d",
				ErrInvalidBox, b.ID, b.Length, b.Width, b.Height)
		}
	}
	return nil
}

// Placement is a box assigned a position and an orientation within one
// trial. Length, Width and Height are the rotated sizes along X, Y and Z.
type Placement struct {
	Box    Box `json:"box"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Z      int `json:"z"`
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (p Placement) MaxX() int { return p.X + p.Length }
func (p Placement) MaxY() int { return p.Y + p.Width }
func (p Placement) MaxZ() int { return p.Z + p.Height }

func (p Placement) Volume() int {
	return p.Length * p.Width * p.Height
}

// FootprintArea is the X-Y area the box covers.
func (p Placement) FootprintArea() int {
	return p.Length * p.Width
}

// Rotated reports whether the assigned orientation differs from the
// specification's.
func (p Placement) Rotated() bool {
	return p.Length != p.Box.Length || p.Width != p.Box.Width || p.Height != p.Box.Height
}

// TrialResult is the outcome of one placement pass.
type TrialResult struct {
	Placements []Placement `json:"placements"`
	FillRatio  float64     `json:"fill_ratio"`
	Unplaced   []Box       `json:"unplaced"`
}

// UsedVolume returns the total volume of placed boxes.
func (r TrialResult) UsedVolume() int {
	total := 0
	for _, p := range r.Placements {
		total += p.Volume()
	}
	return total
}

// UnplacedIDs returns the ids of boxes that could not be placed.
func (r TrialResult) UnplacedIDs() []int {
	ids := make([]int, len(r.Unplaced))
	for i, b := range r.Unplaced {
		ids[i] = b.ID
	}
	return ids
}

// Algorithm selects the search strategy.
type Algorithm string

const (
	AlgorithmRandom  Algorithm = "random"  // Random multi-start over box orderings
	AlgorithmGenetic Algorithm = "genetic" // Evolves box orderings
)

// StopReason records why a search ended.
type StopReason string

const (
	StopPerfect   StopReason = "perfect"
	StopMaxTrials StopReason = "max-trials"
	StopTimeLimit StopReason = "time-limit"
	StopCanceled  StopReason = "canceled"
)

// SearchSettings bounds and shapes the search.
type SearchSettings struct {
	Algorithm Algorithm     `json:"algorithm"`
	MaxTrials int           `json:"max_trials"`
	TimeLimit time.Duration `json:"time_limit"`
	BatchSize int           `json:"batch_size"`
	Workers   int           `json:"workers"` // 0 = one per available CPU
	Seed      int64         `json:"seed"`    // 0 = derive from the clock
}

func DefaultSettings() SearchSettings {
	return SearchSettings{
		Algorithm: AlgorithmRandom,
		MaxTrials: 1000,
		TimeLimit: 30 * time.Second,
		BatchSize: 10,
		Workers:   0,
		Seed:      0,
	}
}

// Validate rejects settings that would break the search loop.
func (s SearchSettings) Validate() error {
	switch {
	case s.MaxTrials <= 0:
		return fmt.Errorf("%w: max trials must be positive, got %d", ErrInvalidSettings, s.MaxTrials)
	case s.BatchSize <= 0:
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidSettings, s.BatchSize)
	case s.TimeLimit <= 0:
		return fmt.Errorf("%w: time limit must be positive, got %s", ErrInvalidSettings, s.TimeLimit)
	case s.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidSettings, s.Workers)
	}
	if s.Algorithm != AlgorithmRandom && s.Algorithm != AlgorithmGenetic {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidSettings, s.Algorithm)
	}
	return nil
}

// PackResult is the best trial of a search plus the audit and run statistics.
type PackResult struct {
	TrialResult
	RunID       string        `json:"run_id"`
	Container   Container     `json:"container"`
	Algorithm   Algorithm     `json:"algorithm"`
	Seed        int64         `json:"seed"`
	FloatingIDs []int         `json:"floating_ids"`
	TrialsRun   int           `json:"trials_run"`
	BatchesRun  int           `json:"batches_run"`
	Elapsed     time.Duration `json:"elapsed"`
	StopReason  StopReason    `json:"stop_reason"`
}

// NewRunID returns a short identifier for a search run.
func NewRunID() string {
	return uuid.New().String()[:8]
}

// FillPercent returns the fill ratio as a percentage.
func (r PackResult) FillPercent() float64 {
	return r.FillRatio * 100.0
}
