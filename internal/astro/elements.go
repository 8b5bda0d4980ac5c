package astro

import (
	"errors"
	"math"
)

// Elements are osculating Keplerian orbital elements of a two-body pair.
// Angles are in radians. Pomega is the longitude of pericenter Node+Peri.
type Elements struct {
	A        float64 // semi-major axis
	E        float64 // eccentricity
	Inc      float64 // inclination
	Node     float64 // longitude of ascending node
	Peri     float64 // argument of pericenter
	Pomega   float64 // longitude of pericenter
	TrueAnom float64 // true anomaly
}

// ErrDegenerateOrbit marks a pair whose relative state carries no orbit
// (zero separation, zero angular momentum, or zero gravitational parameter).
var ErrDegenerateOrbit = errors.New("astro: degenerate orbit geometry")

const tiny = 1e-12

// Cartesian converts elements to relative position and velocity about a
// primary with gravitational parameter mu. The true anomaly is used
// directly, so no Kepler solve is needed.
func (el Elements) Cartesian(mu float64) (Vec3, Vec3) {
	a, e, f := el.A, el.E, el.TrueAnom

	p := a * (1 - e*e)
	r := p / (1 + e*math.Cos(f))
	v := math.Sqrt(mu / p)

	// State in the orbital plane, pericenter along +x.
	xp := r * math.Cos(f)
	yp := r * math.Sin(f)
	vxp := -v * math.Sin(f)
	vyp := v * (e + math.Cos(f))

	cO, sO := math.Cos(el.Node), math.Sin(el.Node)
	ci, si := math.Cos(el.Inc), math.Sin(el.Inc)
	cw, sw := math.Cos(el.Peri), math.Sin(el.Peri)

	r11 := cO*cw - sO*sw*ci
	r12 := -cO*sw - sO*cw*ci
	r21 := sO*cw + cO*sw*ci
	r22 := -sO*sw + cO*cw*ci
	r31 := sw * si
	r32 := cw * si

	pos := Vec3{r11*xp + r12*yp, r21*xp + r22*yp, r31*xp + r32*yp}
	vel := Vec3{r11*vxp + r12*vyp, r21*vxp + r22*vyp, r31*vxp + r32*vyp}
	return pos, vel
}

// FromCartesian recovers osculating elements from a relative position and
// velocity about a primary with gravitational parameter mu.
//
// Near-circular and near-planar orbits fall back to measuring angles from
// the x-axis, so individual angles stay finite there even though the usual
// conventions are singular; callers accept that convention.
func FromCartesian(mu float64, pos, vel Vec3) (Elements, error) {
	r := pos.Norm()
	if mu == 0 || r < tiny {
		return Elements{}, ErrDegenerateOrbit
	}

	h := pos.Cross(vel)
	hMag := h.Norm()
	if hMag < tiny {
		return Elements{}, ErrDegenerateOrbit
	}

	v2 := vel.Dot(vel)
	energy := v2/2 - mu/r
	if math.Abs(energy) < tiny {
		return Elements{}, ErrDegenerateOrbit
	}
	a := -mu / (2 * energy)

	rdotv := pos.Dot(vel)
	eVec := pos.Scale((v2 - mu/r) / mu).Sub(vel.Scale(rdotv / mu))
	e := eVec.Norm()

	inc := math.Acos(clamp(h.Z / hMag))

	n := Vec3{0, 0, 1}.Cross(h)
	nMag := n.Norm()

	var node float64
	if nMag > tiny {
		node = mod2pi(math.Atan2(n.Y, n.X))
	}

	var peri float64
	switch {
	case nMag > tiny && e > tiny:
		peri = math.Acos(clamp(n.Dot(eVec) / (nMag * e)))
		if eVec.Z < 0 {
			peri = 2*math.Pi - peri
		}
	case e > tiny:
		// Planar orbit: measure pericenter from the x-axis.
		peri = mod2pi(math.Atan2(eVec.Y, eVec.X))
	}

	var f float64
	if e > tiny {
		f = math.Acos(clamp(pos.Dot(eVec) / (r * e)))
		if rdotv < 0 {
			f = 2*math.Pi - f
		}
	} else if nMag > tiny {
		// Circular orbit: measure from the ascending node.
		f = math.Acos(clamp(pos.Dot(n) / (r * nMag)))
		if pos.Z < 0 {
			f = 2*math.Pi - f
		}
	} else {
		f = mod2pi(math.Atan2(pos.Y, pos.X))
	}

	return Elements{
		A:        a,
		E:        e,
		Inc:      inc,
		Node:     node,
		Peri:     peri,
		Pomega:   mod2pi(node + peri),
		TrueAnom: f,
	}, nil
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

func mod2pi(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x
}
