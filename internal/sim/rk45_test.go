package sim

import (
	"math"
	"testing"
)

// Harmonic oscillator, the standard stepper smoke test.
func oscillator(y State, dy State) {
	dy[0] = y[1]
	dy[1] = -y[0]
}

func TestStepperAttempt(t *testing.T) {
	st := newStepper()
	y := State{1, 0}

	yNew, errRatio := st.attempt(oscillator, y, 0.1, 1e-9)
	if !yNew.isValid() {
		t.Fatal("attempt produced invalid state")
	}
	if errRatio < 0 {
		t.Errorf("error ratio = %f, want >= 0", errRatio)
	}

	// Analytic solution: cos(0.1), -sin(0.1).
	if math.Abs(yNew[0]-math.Cos(0.1)) > 1e-9 {
		t.Errorf("y[0] = %.12f, want %.12f", yNew[0], math.Cos(0.1))
	}
	if math.Abs(yNew[1]+math.Sin(0.1)) > 1e-9 {
		t.Errorf("y[1] = %.12f, want %.12f", yNew[1], -math.Sin(0.1))
	}
}

func TestStepperEnergyConservation(t *testing.T) {
	st := newStepper()
	y := State{1, 0}
	tol := 1e-10
	dt := 0.1

	for i := 0; i < 10000; {
		yNew, errRatio := st.attempt(oscillator, y, dt, tol)
		if errRatio > 1 {
			dt = st.shrinkDt(dt, errRatio)
			continue
		}
		y = yNew
		dt = st.nextDt(dt, errRatio)
		i++
	}

	energy := 0.5 * (y[0]*y[0] + y[1]*y[1])
	if math.Abs(energy-0.5) > 1e-6 {
		t.Errorf("energy = %.10f, want 0.5", energy)
	}
}

func TestStepperScaling(t *testing.T) {
	st := newStepper()

	if dt := st.shrinkDt(1.0, 100); dt >= 1.0 {
		t.Errorf("shrinkDt on rejection = %f, want < 1", dt)
	}
	if dt := st.shrinkDt(1.0, 1e12); dt < st.minScale {
		t.Errorf("shrinkDt = %f, below min scale", dt)
	}
	if dt := st.nextDt(1.0, 0); dt != st.maxScale {
		t.Errorf("nextDt with zero error = %f, want max scale", dt)
	}
	if dt := st.nextDt(1.0, 0.99); dt > st.maxScale {
		t.Errorf("nextDt = %f, above max scale", dt)
	}
}
