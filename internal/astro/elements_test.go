package astro

import (
	"errors"
	"math"
	"testing"
)

func TestElementsRoundTrip(t *testing.T) {
	const mu = 1.1

	eccs := []float64{0.001, 0.1, 0.5, 0.9}
	incs := []float64{0.01, 0.5, 1.2, math.Pi - 0.01}
	nodes := []float64{0.3, 2.1}
	peris := []float64{0.7, 4.0}
	anoms := []float64{0.2, 3.0}

	for _, e := range eccs {
		for _, inc := range incs {
			for _, node := range nodes {
				for _, peri := range peris {
					for _, f := range anoms {
						in := Elements{A: 5, E: e, Inc: inc, Node: node, Peri: peri, TrueAnom: f}
						pos, vel := in.Cartesian(mu)
						out, err := FromCartesian(mu, pos, vel)
						if err != nil {
							t.Fatalf("e=%g inc=%g: %v", e, inc, err)
						}

						checkClose(t, "a", in.A, out.A, 1e-9)
						checkClose(t, "e", in.E, out.E, 1e-9)
						checkClose(t, "inc", in.Inc, out.Inc, 1e-9)
						checkAngle(t, "node", in.Node, out.Node, 1e-8)
						checkAngle(t, "peri", in.Peri, out.Peri, 1e-8)
						checkAngle(t, "f", in.TrueAnom, out.TrueAnom, 1e-8)
					}
				}
			}
		}
	}
}

func TestFromCartesianCircular(t *testing.T) {
	// Circular planar orbit: singular angles fall back to x-axis
	// conventions, but a and e must still be exact.
	pos := Vec3{X: 2}
	vel := Vec3{Y: math.Sqrt(1.0 / 2.0)}

	el, err := FromCartesian(1.0, pos, vel)
	if err != nil {
		t.Fatal(err)
	}
	checkClose(t, "a", 2, el.A, 1e-12)
	if el.E > 1e-9 {
		t.Errorf("e = %g, want ~0", el.E)
	}
	if el.Inc > 1e-9 {
		t.Errorf("inc = %g, want ~0", el.Inc)
	}
}

func TestFromCartesianDegenerate(t *testing.T) {
	tests := []struct {
		name string
		mu   float64
		pos  Vec3
		vel  Vec3
	}{
		{"zero separation", 1, Vec3{}, Vec3{X: 1}},
		{"zero mu", 0, Vec3{X: 1}, Vec3{Y: 1}},
		{"radial infall", 1, Vec3{X: 1}, Vec3{X: -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCartesian(tt.mu, tt.pos, tt.vel)
			if !errors.Is(err, ErrDegenerateOrbit) {
				t.Errorf("err = %v, want ErrDegenerateOrbit", err)
			}
		})
	}
}

func TestPomegaIsNodePlusPeri(t *testing.T) {
	in := Elements{A: 3, E: 0.4, Inc: 0.8, Node: 1.0, Peri: 2.5, TrueAnom: 0.3}
	pos, vel := in.Cartesian(1)
	out, err := FromCartesian(1, pos, vel)
	if err != nil {
		t.Fatal(err)
	}
	checkAngle(t, "pomega", out.Node+out.Peri, out.Pomega, 1e-12)
}

func checkClose(t *testing.T, name string, want, got, tol float64) {
	t.Helper()
	if math.Abs(want-got) > tol*math.Max(1, math.Abs(want)) {
		t.Errorf("%s = %.12g, want %.12g", name, got, want)
	}
}

func checkAngle(t *testing.T, name string, want, got, tol float64) {
	t.Helper()
	d := math.Mod(want-got, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	if math.Abs(d) > tol {
		t.Errorf("%s = %.12g, want %.12g (diff %.3g)", name, got, want, d)
	}
}
