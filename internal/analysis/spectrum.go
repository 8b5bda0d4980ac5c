// Package analysis provides frequency analysis of recorded time series,
// used to measure the secular oscillation (Kozai cycle) period from an
// output column such as the inner eccentricity.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a power-of-two length
// series by radix-2 decimation.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		out := make([]complex128, n)
		for i, v := range data {
			out[i] = complex(v, 0)
		}
		return out
	}
	if n%2 != 0 {
		panic("analysis: fft requires power-of-two length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	fe := FFT(even)
	fo := FFT(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		out[k] = fe[k] + w*fo[k]
		out[k+n/2] = fe[k] - w*fo[k]
	}
	return out
}

// PowerSpectrum returns the one-sided amplitude spectrum of the series,
// mean-subtracted and zero-padded to the next power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantPeriod estimates the strongest oscillation period of a series
// sampled at fixed spacing dt (same unit as the returned period). Zero
// when no oscillation stands out (e.g. a constant series).
func DominantPeriod(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}

	// Bin 0 is the residual DC component, skip it.
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower == 0 {
		return 0
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	freq := float64(maxIdx) / (float64(n) * dt)
	return 1 / freq
}
