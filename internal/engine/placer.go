package engine

import "github.com/piwi3910/CargoFill/internal/model"

// extremePoint is a candidate anchor for the lower corner of the next box.
type extremePoint struct {
	x, y, z int
}

// PlaceSequence packs boxes into the container in the given order using
// first-feasible extreme-point placement. For every box it tries the six
// rotations in order and, for each rotation, the extreme points in the order
// they were created; the first rotation/anchor pair that fits inside the
// container at its supported height without colliding wins. Boxes that fit
// nowhere are returned unchanged in Unplaced, in input order.
//
// The result depends only on the container and the order of boxes. The input
// slice is not modified.
func PlaceSequence(container model.Container, boxes []model.Box) model.TrialResult {
	placements := make([]model.Placement, 0, len(boxes))
	unplaced := make([]model.Box, 0)
	points := []extremePoint{{0, 0, 0}}

	for _, b := range boxes {
		p, ok := placeBox(container, b, points, placements)
		if !ok {
			unplaced = append(unplaced, b)
			continue
		}
		placements = append(placements, p)
		points = append(points,
			extremePoint{x: p.MaxX(), y: p.Y, z: p.Z},
			extremePoint{x: p.X, y: p.MaxY(), z: p.Z},
			extremePoint{x: p.X, y: p.Y, z: p.MaxZ()},
		)
	}

	return model.TrialResult{
		Placements: placements,
		FillRatio:  fillRatio(container, placements),
		Unplaced:   unplaced,
	}
}

// placeBox returns the first feasible placement for b, rotations outer and
// anchors inner. Only the anchor's X and Y are used: the resting height always
// comes from SupportHeight.
func placeBox(container model.Container, b model.Box, points []extremePoint, placed []model.Placement) (model.Placement, bool) {
	for _, d := range b.Rotations() {
		for _, pt := range points {
			if pt.x+d.L > container.Length || pt.y+d.W > container.Width {
				continue
			}
			candidate := model.Placement{
				Box:    b,
				X:      pt.x,
				Y:      pt.y,
				Length: d.L,
				Width:  d.W,
				Height: d.H,
			}
			candidate.Z = SupportHeight(candidate, placed)
			if candidate.MaxZ() <= container.Height && !collidesAny(candidate, placed) {
				return candidate, true
			}
		}
	}
	return model.Placement{}, false
}
