package components

import "fmt"

// FieldDescriptor describes a node field for UI display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Min    float64 // Minimum value (for bars)
	Max    float64 // Maximum value (for bars)
	IsBar  bool    // True to render as progress bar
	Value  func(n *PlantNode) float64
}

// NodeFields returns the inspectable fields of a PlantNode in display order.
// dCritical scales the distortion bar.
func NodeFields(dCritical float64) []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "energy", Label: "Energy", Format: "%.2f", Min: 0.1, Max: 1.5, IsBar: true,
			Value: func(n *PlantNode) float64 { return n.Energy }},
		{ID: "coherence", Label: "Coherence", Format: "%.2f", Min: 0, Max: 1, IsBar: true,
			Value: func(n *PlantNode) float64 { return n.Coherence }},
		{ID: "distortion", Label: "Distortion", Format: "%.2f", Min: 0, Max: dCritical, IsBar: true,
			Value: func(n *PlantNode) float64 { return n.Distortion }},
		{ID: "temporal", Label: "Temporal", Format: "%.2f",
			Value: func(n *PlantNode) float64 { return n.TemporalComplexity }},
		{ID: "spatial", Label: "Spatial", Format: "%.2f",
			Value: func(n *PlantNode) float64 { return n.SpatialComplexity }},
		{ID: "age", Label: "Age", Format: "%.0f",
			Value: func(n *PlantNode) float64 { return float64(n.Age) }},
	}
}

// FormatField renders a field value for n.
func (fd FieldDescriptor) FormatField(n *PlantNode) string {
	return fmt.Sprintf(fd.Format, fd.Value(n))
}

// Fraction returns the field value mapped to [0,1] across Min..Max.
func (fd FieldDescriptor) Fraction(n *PlantNode) float64 {
	if fd.Max <= fd.Min {
		return 0
	}
	return clamp((fd.Value(n)-fd.Min)/(fd.Max-fd.Min), 0, 1)
}
