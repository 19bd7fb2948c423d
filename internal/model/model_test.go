package model

import (
	"errors"
	"testing"
	"time"
)

func TestContainerVolume(t *testing.T) {
	if got := (Container{Length: 10, Width: 20, Height: 30}).Volume(); got != 6000 {
		t.Errorf("expected volume 6000, got %d", got)
	}
	if got := (Container{Length: 10, Width: 0, Height: 30}).Volume(); got != 0 {
		t.Errorf("expected degenerate container to have volume 0, got %d", got)
	}
	if got := (Container{Length: 1200, Width: 800, Height: 1500}).String(); got != "1200x800x1500" {
		t.Errorf("unexpected container string %q", got)
	}
}

func TestBoxRotationsCoverAllPermutations(t *testing.T) {
	b := NewBox(0, 1, 2, 3)
	rotations := b.Rotations()

	if rotations[0] != (Dims{1, 2, 3}) {
		t.Errorf("first orientation should be the box as given, got %+v", rotations[0])
	}
	seen := make(map[Dims]bool)
	for _, r := range rotations {
		if r.L*r.W*r.H != b.Volume() {
			t.Errorf("rotation %+v changes the volume", r)
		}
		seen[r] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 distinct orientations, got %d", len(seen))
	}
}

func TestTotalVolume(t *testing.T) {
	boxes := []Box{NewBox(0, 2, 2, 2), NewBox(1, 1, 2, 3)}
	if got := TotalVolume(boxes); got != 14 {
		t.Errorf("expected 14, got %d", got)
	}
	if got := TotalVolume(nil); got != 0 {
		t.Errorf("expected 0 for no boxes, got %d", got)
	}
}

func TestValidateBoxes(t *testing.T) {
	tests := []struct {
		name    string
		boxes   []Box
		wantErr bool
	}{
		{"valid", []Box{NewBox(0, 1, 1, 1), NewBox(7, 2, 3, 4)}, false},
		{"empty", nil, false},
		{"negative id", []Box{NewBox(-1, 1, 1, 1)}, true},
		{"duplicate id", []Box{NewBox(3, 1, 1, 1), NewBox(3, 2, 2, 2)}, true},
		{"zero side", []Box{NewBox(0, 1, 0, 1)}, true},
		{"negative side", []Box{NewBox(0, 1, 1, -5)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBoxes(tt.boxes)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBox) {
					t.Errorf("expected ErrInvalidBox, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPlacementExtents(t *testing.T) {
	p := Placement{Box: NewBox(0, 2, 3, 4), X: 1, Y: 2, Z: 3, Length: 3, Width: 4, Height: 2}

	if p.MaxX() != 4 || p.MaxY() != 6 || p.MaxZ() != 5 {
		t.Errorf("unexpected extents %d,%d,%d", p.MaxX(), p.MaxY(), p.MaxZ())
	}
	if p.Volume() != 24 || p.FootprintArea() != 12 {
		t.Errorf("unexpected volume %d or footprint %d", p.Volume(), p.FootprintArea())
	}
	if !p.Rotated() {
		t.Error("expected placement to be rotated")
	}

	p.Length, p.Width, p.Height = 2, 3, 4
	if p.Rotated() {
		t.Error("expected placement in specified orientation not to be rotated")
	}
}

func TestTrialResultAccessors(t *testing.T) {
	r := TrialResult{
		Placements: []Placement{
			{Box: NewBox(0, 1, 1, 1), Length: 1, Width: 1, Height: 1},
			{Box: NewBox(1, 2, 1, 1), Length: 2, Width: 1, Height: 1},
		},
		Unplaced: []Box{NewBox(5, 9, 9, 9), NewBox(2, 9, 9, 9)},
	}

	if got := r.UsedVolume(); got != 3 {
		t.Errorf("expected used volume 3, got %d", got)
	}
	ids := r.UnplacedIDs()
	if len(ids) != 2 || ids[0] != 5 || ids[1] != 2 {
		t.Errorf("expected unplaced ids [5 2] in order, got %v", ids)
	}
	if ids := (TrialResult{}).UnplacedIDs(); len(ids) != 0 {
		t.Errorf("expected no unplaced ids, got %v", ids)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*SearchSettings)
	}{
		{"zero max trials", func(s *SearchSettings) { s.MaxTrials = 0 }},
		{"zero batch size", func(s *SearchSettings) { s.BatchSize = 0 }},
		{"zero time limit", func(s *SearchSettings) { s.TimeLimit = 0 }},
		{"negative time limit", func(s *SearchSettings) { s.TimeLimit = -time.Second }},
		{"negative workers", func(s *SearchSettings) { s.Workers = -1 }},
		{"unknown algorithm", func(s *SearchSettings) { s.Algorithm = "annealing" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if len(a) != 8 {
		t.Errorf("expected 8 character run id, got %q", a)
	}
	if a == b {
		t.Errorf("expected distinct run ids, got %q twice", a)
	}
}

func TestFillPercent(t *testing.T) {
	r := PackResult{TrialResult: TrialResult{FillRatio: 0.525}}
	if got := r.FillPercent(); got < 52.4999 || got > 52.5001 {
		t.Errorf("expected 52.5, got %f", got)
	}
}
