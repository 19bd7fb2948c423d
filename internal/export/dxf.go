package export

import (
	"fmt"

	"github.com/piwi3910/CargoFill/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	LayerContainer = "CONTAINER"
	LayerBoxes     = "BOXES"
)

// cuboid is an axis-aligned box given by its lower and upper corners.
type cuboid struct {
	x0, y0, z0 float64
	x1, y1, z1 float64
}

// edges returns the 12 edges of the cuboid as start/end point pairs.
func (c cuboid) edges() [12][2][3]float64 {
	p := func(x, y, z float64) [3]float64 { return [3]float64{x, y, z} }
	b00, b10 := p(c.x0, c.y0, c.z0), p(c.x1, c.y0, c.z0)
	b11, b01 := p(c.x1, c.y1, c.z0), p(c.x0, c.y1, c.z0)
	t00, t10 := p(c.x0, c.y0, c.z1), p(c.x1, c.y0, c.z1)
	t11, t01 := p(c.x1, c.y1, c.z1), p(c.x0, c.y1, c.z1)
	return [12][2][3]float64{
		// bottom
		{b00, b10}, {b10, b11}, {b11, b01}, {b01, b00},
		// top
		{t00, t10}, {t10, t11}, {t11, t01}, {t01, t00},
		// verticals
		{b00, t00}, {b10, t10}, {b11, t11}, {b01, t01},
	}
}

// ExportDXF writes a 3D wireframe of the load: the container outline on
// layer CONTAINER and the 12 edges of every placed box on layer BOXES, in mm.
func ExportDXF(path string, result model.PackResult) error {
	if result.Container.Volume() == 0 {
		return fmt.Errorf("container %s has no volume", result.Container)
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerContainer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerContainer, err)
	}
	c := result.Container
	if err := drawCuboid(d, cuboid{x1: float64(c.Length), y1: float64(c.Width), z1: float64(c.Height)}); err != nil {
		return err
	}

	if _, err := d.AddLayer(LayerBoxes, color.Cyan, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerBoxes, err)
	}
	for _, p := range result.Placements {
		box := cuboid{
			x0: float64(p.X), y0: float64(p.Y), z0: float64(p.Z),
			x1: float64(p.MaxX()), y1: float64(p.MaxY()), z1: float64(p.MaxZ()),
		}
		if err := drawCuboid(d, box); err != nil {
			return fmt.Errorf("box %d: %w", p.Box.ID, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF file: %w", err)
	}
	return nil
}

// drawCuboid adds the cuboid's edges as LINE entities on the current layer.
func drawCuboid(d *drawing.Drawing, c cuboid) error {
	for _, e := range c.edges() {
		if _, err := d.Line(e[0][0], e[0][1], e[0][2], e[1][0], e[1][1], e[1][2]); err != nil {
			return fmt.Errorf("failed to draw edge: %w", err)
		}
	}
	return nil
}
