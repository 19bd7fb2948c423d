package engine

import (
	"math"

	"github.com/piwi3910/CargoFill/internal/model"
)

const (
	// SupportRatio is the share of a box's footprint a single box underneath
	// must cover for the upper box to rest on it. Support is pairwise: several
	// neighbours that each cover less than this do not add up.
	SupportRatio = 0.80

	// heightTolerance is the gap allowed between a box bottom and the top of
	// its support when auditing a finished placement.
	heightTolerance = 1e-3
)

// supports reports whether other covers enough of candidate's footprint to
// carry it, ignoring heights.
func supports(candidate, other model.Placement) bool {
	area := candidate.FootprintArea()
	if area <= 0 {
		return false
	}
	overlap := footprintOverlap(candidate, other)
	if overlap == 0 {
		return false
	}
	return float64(overlap)/float64(area) >= SupportRatio
}

// SupportHeight returns the height at which the candidate would rest given
// the boxes already placed: the highest top among boxes that individually
// support it, or 0 for the floor. The candidate's own Z is ignored.
func SupportHeight(candidate model.Placement, placed []model.Placement) int {
	z := 0
	for _, other := range placed {
		if supports(candidate, other) && other.MaxZ() > z {
			z = other.MaxZ()
		}
	}
	return z
}

// FloatingBoxes audits a finished placement and returns, in input order, every
// box above the floor that has no other box supporting it at exactly its
// resting height. It never modifies the placement.
func FloatingBoxes(placed []model.Placement) []model.Placement {
	var floating []model.Placement
	for i, b := range placed {
		if b.Z == 0 {
			continue
		}
		supported := false
		for j, other := range placed {
			if i == j {
				continue
			}
			if supports(b, other) && math.Abs(float64(b.Z-other.MaxZ())) < heightTolerance {
				supported = true
				break
			}
		}
		if !supported {
			floating = append(floating, b)
		}
	}
	return floating
}

// FloatingIDs returns the box ids reported by FloatingBoxes.
func FloatingIDs(placed []model.Placement) []int {
	floating := FloatingBoxes(placed)
	ids := make([]int, len(floating))
	for i, p := range floating {
		ids[i] = p.Box.ID
	}
	return ids
}
