package sim

import "math"

// State is a packed integration vector: position and velocity blocks for
// every body, followed by spin blocks for spin-coupled bodies.
type State []float64

func (y State) clone() State {
	c := make(State, len(y))
	copy(c, y)
	return c
}

func (y State) isValid() bool {
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type derivFunc func(y State, dy State)

// Dormand-Prince 5(4) coefficients.
var (
	dpA2, dpA3, dpA4, dpA5 = 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0

	dpB21 = 1.0 / 5.0
	dpB31, dpB32 = 3.0 / 40.0, 9.0 / 40.0
	dpB41, dpB42, dpB43 = 44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0
	dpB51, dpB52, dpB53, dpB54 = 19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0
	dpB61, dpB62, dpB63, dpB64, dpB65 = 9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0

	dpC1, dpC3, dpC4, dpC5, dpC6 = 35.0 / 384.0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0

	dpE1 = dpC1 - 5179.0/57600.0
	dpE3 = dpC3 - 7571.0/16695.0
	dpE4 = dpC4 - 393.0/640.0
	dpE5 = dpC5 + 92097.0/339200.0
	dpE6 = dpC6 - 187.0/2100.0
	dpE7 = -1.0 / 40.0
)

// stepper is an embedded Dormand-Prince 5(4) pair with reusable scratch
// storage, sized lazily to the state dimension.
type stepper struct {
	k1, k2, k3, k4, k5, k6, k7 State
	ytmp                       State
	safety                     float64
	minScale                   float64
	maxScale                   float64
}

func newStepper() *stepper {
	return &stepper{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (st *stepper) ensureScratch(n int) {
	if len(st.ytmp) == n {
		return
	}
	st.k1 = make(State, n)
	st.k2 = make(State, n)
	st.k3 = make(State, n)
	st.k4 = make(State, n)
	st.k5 = make(State, n)
	st.k6 = make(State, n)
	st.k7 = make(State, n)
	st.ytmp = make(State, n)
}

// attempt takes one trial step of size dt and returns the candidate state
// together with the scaled error estimate (<=1 means the step is
// acceptable at tolerance tol).
func (st *stepper) attempt(f derivFunc, y State, dt, tol float64) (State, float64) {
	n := len(y)
	st.ensureScratch(n)

	f(y, st.k1)

	for i := 0; i < n; i++ {
		st.ytmp[i] = y[i] + dt*dpB21*st.k1[i]
	}
	f(st.ytmp, st.k2)

	for i := 0; i < n; i++ {
		st.ytmp[i] = y[i] + dt*(dpB31*st.k1[i]+dpB32*st.k2[i])
	}
	f(st.ytmp, st.k3)

	for i := 0; i < n; i++ {
		st.ytmp[i] = y[i] + dt*(dpB41*st.k1[i]+dpB42*st.k2[i]+dpB43*st.k3[i])
	}
	f(st.ytmp, st.k4)

	for i := 0; i < n; i++ {
		st.ytmp[i] = y[i] + dt*(dpB51*st.k1[i]+dpB52*st.k2[i]+dpB53*st.k3[i]+dpB54*st.k4[i])
	}
	f(st.ytmp, st.k5)

	for i := 0; i < n; i++ {
		st.ytmp[i] = y[i] + dt*(dpB61*st.k1[i]+dpB62*st.k2[i]+dpB63*st.k3[i]+dpB64*st.k4[i]+dpB65*st.k5[i])
	}
	f(st.ytmp, st.k6)

	yNew := make(State, n)
	for i := 0; i < n; i++ {
		yNew[i] = y[i] + dt*(dpC1*st.k1[i]+dpC3*st.k3[i]+dpC4*st.k4[i]+dpC5*st.k5[i]+dpC6*st.k6[i])
	}
	f(yNew, st.k7)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dpE1*st.k1[i] + dpE3*st.k3[i] + dpE4*st.k4[i] + dpE5*st.k5[i] + dpE6*st.k6[i] + dpE7*st.k7[i])
		scale := math.Abs(y[i]) + math.Abs(dt*st.k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	return yNew, errMax / tol
}

// nextDt proposes the following step size from the scaled error of an
// accepted step.
func (st *stepper) nextDt(dt, errRatio float64) float64 {
	if errRatio <= 0 {
		return dt * st.maxScale
	}
	scale := math.Min(st.maxScale, st.safety*math.Pow(errRatio, -0.2))
	return dt * scale
}

// shrinkDt proposes a retry step size after a rejected step.
func (st *stepper) shrinkDt(dt, errRatio float64) float64 {
	scale := math.Max(st.minScale, st.safety*math.Pow(errRatio, -0.25))
	return dt * scale
}
