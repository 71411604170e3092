package systems

import (
	"testing"

	"github.com/pthm-cable/sprout/components"
)

func TestSampleEnergy_MatchesField(t *testing.T) {
	resources := []components.ResourcePoint{
		{Position: components.Vec(100, 100), Intensity: 1, Kind: components.KindLight},
		{Position: components.Vec(300, 50), Intensity: 1, Kind: components.KindWater},
	}
	dom := Domain{Width: 400, Height: 200}
	g := SampleEnergy(resources, 200, dom, 4, 2)

	if g.Cols != 4 || g.Rows != 2 || len(g.Values) != 8 {
		t.Fatalf("grid shape = %dx%d (%d values)", g.Cols, g.Rows, len(g.Values))
	}
	if c := g.Center(1, 0); c != components.Vec(150, 50) {
		t.Errorf("Center(1,0) = %v, want (150,50)", c)
	}

	field := fieldOf(resources...)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			want := field.Energy(g.Center(col, row), 200)
			if got := g.At(col, row); !approx(got, want) {
				t.Errorf("At(%d,%d) = %v, want %v", col, row, got, want)
			}
		}
	}
}

func TestSampleEnergy_NoLightsIsBaseline(t *testing.T) {
	g := SampleEnergy(nil, 200, Domain{Width: 100, Height: 100}, 3, 3)
	for i, v := range g.Values {
		if !approx(v, baselineEnergy) {
			t.Errorf("Values[%d] = %v, want baseline %v", i, v, baselineEnergy)
		}
	}
}

func TestEnergyGrid_AtOutside(t *testing.T) {
	g := SampleEnergy(nil, 200, Domain{Width: 100, Height: 100}, 2, 2)
	if got := g.At(5, 0); got != MinEnergy {
		t.Errorf("At outside = %v, want %v", got, MinEnergy)
	}
}

func TestFraction(t *testing.T) {
	if got := Fraction(MinEnergy); got != 0 {
		t.Errorf("Fraction(min) = %v", got)
	}
	if got := Fraction(MaxEnergy); got != 1 {
		t.Errorf("Fraction(max) = %v", got)
	}
	if got := Fraction(5); got != 1 {
		t.Errorf("Fraction(above) = %v", got)
	}
}
