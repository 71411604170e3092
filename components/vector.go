// Package components defines the value types shared by the growth engine,
// the runner and the viewers.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector2D is a position or direction in the growth domain.
type Vector2D struct {
	X, Y float64
}

// fallbackDirection is what Normalize returns for the zero vector.
var fallbackDirection = Vector2D{X: 0, Y: -1}

// Vec returns a Vector2D from its components.
func Vec(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

func (v Vector2D) r2() r2.Vec { return r2.Vec(v) }

// Add returns v+o.
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D(r2.Add(v.r2(), o.r2()))
}

// Sub returns v-o.
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D(r2.Sub(v.r2(), o.r2()))
}

// Scale returns v*f.
func (v Vector2D) Scale(f float64) Vector2D {
	return Vector2D(r2.Scale(f, v.r2()))
}

// Magnitude returns the Euclidean length of v.
func (v Vector2D) Magnitude() float64 {
	return r2.Norm(v.r2())
}

// Distance returns |v-o|.
func (v Vector2D) Distance(o Vector2D) float64 {
	return v.Sub(o).Magnitude()
}

// Normalize returns v scaled to unit length.
// The zero vector (and anything with a non-finite length) maps to (0,-1).
func (v Vector2D) Normalize() Vector2D {
	mag := v.Magnitude()
	if !(mag > 0) || math.IsInf(mag, 0) {
		return fallbackDirection
	}
	return Vector2D{X: v.X / mag, Y: v.Y / mag}
}

// Clamp limits v to the rectangle [0,w]x[0,h].
func (v Vector2D) Clamp(w, h float64) Vector2D {
	return Vector2D{X: clamp(v.X, 0, w), Y: clamp(v.Y, 0, h)}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
