package systems

import "github.com/pthm-cable/sprout/components"

// EnergyGrid is the energy field sampled at the centres of a regular lattice
// over the domain. Values are row-major.
type EnergyGrid struct {
	Cols, Rows   int
	CellW, CellH float64
	Values       []float64
}

// SampleEnergy evaluates the field built from resources on a cols x rows grid.
func SampleEnergy(resources []components.ResourcePoint, maxDist float64, dom Domain, cols, rows int) EnergyGrid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	field := NewResourceField()
	for _, r := range resources {
		field.Add(r)
	}

	g := EnergyGrid{
		Cols:   cols,
		Rows:   rows,
		CellW:  dom.Width / float64(cols),
		CellH:  dom.Height / float64(rows),
		Values: make([]float64, cols*rows),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			g.Values[row*cols+col] = field.Energy(g.Center(col, row), maxDist)
		}
	}
	return g
}

// Center returns the world position of a cell centre.
func (g EnergyGrid) Center(col, row int) components.Vector2D {
	return components.Vec((float64(col)+0.5)*g.CellW, (float64(row)+0.5)*g.CellH)
}

// At returns the sampled energy of a cell, or MinEnergy outside the grid.
func (g EnergyGrid) At(col, row int) float64 {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return MinEnergy
	}
	return g.Values[row*g.Cols+col]
}

// Fraction maps an energy value to [0,1] across the energy range.
func Fraction(energy float64) float64 {
	return clamp((energy-MinEnergy)/(MaxEnergy-MinEnergy), 0, 1)
}
