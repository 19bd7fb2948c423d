package engine

import (
	"testing"

	"github.com/piwi3910/CargoFill/internal/model"
	"github.com/stretchr/testify/assert"
)

func placed(id, x, y, z, l, w, h int) model.Placement {
	return model.Placement{
		Box: model.NewBox(id, l, w, h),
		X:   x, Y: y, Z: z,
		Length: l, Width: w, Height: h,
	}
}

func TestCollides_Overlapping(t *testing.T) {
	a := placed(0, 0, 0, 0, 10, 10, 10)
	b := placed(1, 5, 5, 5, 10, 10, 10)
	assert.True(t, Collides(a, b))
	assert.True(t, Collides(b, a), "collision must be symmetric")
}

func TestCollides_Contained(t *testing.T) {
	outer := placed(0, 0, 0, 0, 10, 10, 10)
	inner := placed(1, 2, 2, 2, 2, 2, 2)
	assert.True(t, Collides(outer, inner))
}

func TestCollides_TouchingFacesDoNotCollide(t *testing.T) {
	a := placed(0, 0, 0, 0, 5, 5, 5)
	assert.False(t, Collides(a, placed(1, 5, 0, 0, 5, 5, 5)), "touching on X face")
	assert.False(t, Collides(a, placed(2, 0, 5, 0, 5, 5, 5)), "touching on Y face")
	assert.False(t, Collides(a, placed(3, 0, 0, 5, 5, 5, 5)), "stacked on top")
	assert.False(t, Collides(a, placed(4, 5, 5, 5, 5, 5, 5)), "touching at a corner")
}

func TestCollides_SeparatedOnOneAxis(t *testing.T) {
	a := placed(0, 0, 0, 0, 5, 5, 5)
	// Overlaps on X and Y but sits above with a gap
	assert.False(t, Collides(a, placed(1, 1, 1, 7, 2, 2, 2)))
}

func TestFootprintOverlap(t *testing.T) {
	a := placed(0, 0, 0, 0, 10, 10, 1)

	assert.Equal(t, 100, footprintOverlap(a, placed(1, 0, 0, 5, 10, 10, 1)), "identical footprint")
	assert.Equal(t, 25, footprintOverlap(a, placed(2, 5, 5, 0, 10, 10, 1)), "quarter overlap")
	assert.Equal(t, 0, footprintOverlap(a, placed(3, 10, 0, 0, 5, 5, 1)), "edge contact has no area")
	assert.Equal(t, 0, footprintOverlap(a, placed(4, 20, 20, 0, 5, 5, 1)), "disjoint")
}

func TestFillRatio(t *testing.T) {
	c := model.Container{Length: 10, Width: 10, Height: 10}
	assert.Equal(t, 0.0, fillRatio(c, nil))
	assert.InDelta(t, 0.125, fillRatio(c, []model.Placement{placed(0, 0, 0, 0, 5, 5, 5)}), 1e-9)

	bad := model.Container{Length: 0, Width: 10, Height: 10}
	assert.Equal(t, 0.0, fillRatio(bad, []model.Placement{placed(0, 0, 0, 0, 5, 5, 5)}))
}
