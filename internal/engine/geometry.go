package engine

import "github.com/piwi3910/CargoFill/internal/model"

// Collides reports whether two placed boxes share interior volume.
// Boxes that only touch along a face or an edge do not collide.
func Collides(a, b model.Placement) bool {
	return a.X < b.MaxX() && a.MaxX() > b.X &&
		a.Y < b.MaxY() && a.MaxY() > b.Y &&
		a.Z < b.MaxZ() && a.MaxZ() > b.Z
}

// collidesAny returns true if the candidate collides with any placed box.
func collidesAny(candidate model.Placement, placed []model.Placement) bool {
	for _, other := range placed {
		if Collides(candidate, other) {
			return true
		}
	}
	return false
}

// footprintOverlap returns the area shared by the X-Y footprints of a and b,
// or 0 when they do not overlap with positive extent on both axes.
func footprintOverlap(a, b model.Placement) int {
	dx := min(a.MaxX(), b.MaxX()) - max(a.X, b.X)
	dy := min(a.MaxY(), b.MaxY()) - max(a.Y, b.Y)
	if dx <= 0 || dy <= 0 {
		return 0
	}
	return dx * dy
}

// fillRatio returns the placed volume as a fraction of the container volume.
func fillRatio(container model.Container, placements []model.Placement) float64 {
	total := container.Volume()
	if total <= 0 {
		return 0
	}
	used := 0
	for _, p := range placements {
		used += p.Volume()
	}
	return float64(used) / float64(total)
}
