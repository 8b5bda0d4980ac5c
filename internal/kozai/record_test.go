package kozai

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gianuzzi/reboundx/internal/astro"
)

func TestObliquity(t *testing.T) {
	tests := []struct {
		name string
		spin astro.Vec3
		want float64
	}{
		{"aligned with pole", astro.Vec3{Z: 3.5}, 0},
		{"in the plane", astro.Vec3{X: 2}, 90},
		{"in the plane y", astro.Vec3{Y: 0.1}, 90},
		{"anti-aligned", astro.Vec3{Z: -1}, 180},
		{"45 degrees", astro.Vec3{X: 1, Z: 1}, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Obliquity(tt.spin), 1e-10)
		})
	}
}

func TestObliquityZeroSpin(t *testing.T) {
	got := Obliquity(astro.Vec3{})
	assert.True(t, math.IsNaN(got), "zero spin obliquity = %f, want NaN sentinel", got)
}

func TestColumnsMatchHeader(t *testing.T) {
	assert.Len(t, Header, 31)

	rec := Record{
		T:          200 * math.Pi,
		Inner:      astro.Elements{A: 5, E: 0.1, Inc: 0.2, Node: 0.3, Pomega: 0.4, TrueAnom: 0.5},
		Outer:      astro.Elements{A: 1000, E: 0.01, Inc: 1.5, Node: 0.6, Pomega: 0.7},
		PlanetSpin: astro.Vec3{X: 1, Y: 2, Z: 3},
	}
	cols := rec.Columns()

	assert.Len(t, cols, len(Header))
	assert.Equal(t, 100.0, cols[0], "t column is in years")
	assert.Equal(t, 5.0, cols[10], "a1 column")
	assert.Equal(t, 0.1, cols[12], "e1 column")
	assert.Equal(t, 1000.0, cols[26], "a2 column")
	assert.Equal(t, 0.7, cols[30], "pom2 column")
}

func TestSpinVector(t *testing.T) {
	s := SpinVector(2, 0, 0)
	assert.InDelta(t, 0, s.X, 1e-15)
	assert.InDelta(t, 0, s.Y, 1e-15)
	assert.InDelta(t, 2, s.Z, 1e-15, "zero obliquity points along the pole")

	s = SpinVector(2, 90, 90)
	assert.InDelta(t, 2, s.X, 1e-12)
	assert.InDelta(t, 0, s.Y, 1e-12)
	assert.InDelta(t, 0, s.Z, 1e-12)

	s = SpinVector(3, 27, 123)
	assert.InDelta(t, 3, s.Norm(), 1e-12, "decomposition preserves magnitude")
	assert.InDelta(t, 27, Obliquity(s), 1e-10, "round trip through obliquity")
}
