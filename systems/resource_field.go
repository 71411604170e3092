package systems

import (
	"github.com/pthm-cable/sprout/components"
)

// ResourceField holds the resource points of the domain and evaluates the
// energy they make available. Points are append-only.
type ResourceField struct {
	points []components.ResourcePoint
}

// NewResourceField creates an empty resource field.
func NewResourceField() *ResourceField {
	return &ResourceField{}
}

// Add appends a resource point.
func (rf *ResourceField) Add(p components.ResourcePoint) {
	rf.points = append(rf.points, p)
}

// Len returns the number of resource points.
func (rf *ResourceField) Len() int { return len(rf.points) }

// Points returns a copy of the resource points.
func (rf *ResourceField) Points() []components.ResourcePoint {
	out := make([]components.ResourcePoint, len(rf.points))
	copy(out, rf.points)
	return out
}

// Energy returns the energy available at pos.
// Every light strictly closer than maxDist adds intensity*(1-d/maxDist)*2 on
// top of a 0.3 baseline; the sum is clamped to [MinEnergy, MaxEnergy].
func (rf *ResourceField) Energy(pos components.Vector2D, maxDist float64) float64 {
	energy := baselineEnergy
	for i := range rf.points {
		p := &rf.points[i]
		if p.Kind != components.KindLight {
			continue
		}
		d := pos.Distance(p.Position)
		if d < maxDist {
			energy += p.Intensity * (1 - d/maxDist) * 2
		}
	}
	return clampEnergy(energy)
}

// NearestLight returns the distance from pos to the closest light.
// ok is false when the field has no lights.
func (rf *ResourceField) NearestLight(pos components.Vector2D) (dist float64, ok bool) {
	for i := range rf.points {
		p := &rf.points[i]
		if p.Kind != components.KindLight {
			continue
		}
		d := pos.Distance(p.Position)
		if !ok || d < dist {
			dist = d
			ok = true
		}
	}
	return dist, ok
}
