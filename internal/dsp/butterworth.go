// Package dsp implements the low-pass filtering used to smooth marker
// distance traces: Butterworth coefficient design, zero-phase (forward and
// backward) application, and a gap-preserving wrapper that excises
// missing-value runs before filtering and restores them afterwards.
package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Butterworth designs digital low-pass Butterworth filter coefficients via
// the bilinear transform of the analog prototype. cutoffHz must lie strictly
// between zero and the Nyquist frequency. The returned slices are the
// transfer-function numerator b and denominator a, with a[0] == 1.
func Butterworth(order int, cutoffHz, sampleRateHz float64) (b, a []float64, err error) {
	if order < 1 {
		return nil, nil, fmt.Errorf("butterworth: order must be >= 1, got %d", order)
	}
	nyquist := sampleRateHz / 2
	if cutoffHz <= 0 || cutoffHz >= nyquist {
		return nil, nil, fmt.Errorf("butterworth: cutoff %.3f Hz outside (0, %.3f)", cutoffHz, nyquist)
	}

	// Analog prototype poles on the unit circle, left half-plane.
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * float64(2*k+order+1) / float64(2*order)
		poles[k] = cmplx.Exp(complex(0, theta))
	}

	// Pre-warp the cutoff and scale the prototype. The design works on the
	// normalized rate fs=2 so the bilinear constant is 4.
	const fs = 2.0
	warped := 2 * fs * math.Tan(math.Pi*(cutoffHz/nyquist)/2)
	gain := complex(math.Pow(warped, float64(order)), 0)
	for i := range poles {
		poles[i] *= complex(warped, 0)
	}

	// Bilinear transform: poles map to (fs2+p)/(fs2-p), zeros to z=-1.
	const fs2 = 2 * fs
	zPoles := make([]complex128, order)
	prod := complex(1, 0)
	for i, p := range poles {
		zPoles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
		prod *= complex(fs2, 0) - p
	}
	gain /= prod

	zZeros := make([]complex128, order)
	for i := range zZeros {
		zZeros[i] = -1
	}

	b = realPoly(zZeros)
	a = realPoly(zPoles)
	k := real(gain)
	for i := range b {
		b[i] *= k
	}
	return b, a, nil
}

// realPoly expands a polynomial from its roots and returns the real part of
// the coefficients, highest order first with leading coefficient 1. Complex
// roots are expected in conjugate pairs so the imaginary parts cancel.
func realPoly(roots []complex128) []float64 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}
