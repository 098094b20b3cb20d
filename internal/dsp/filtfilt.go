package dsp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FiltFilt applies the filter described by b/a forward and backward over x,
// giving zero phase distortion. The input is extended at both ends by an
// odd reflection of length 3*(n-1) samples before filtering, and each pass
// is seeded with the filter's step-response initial conditions, matching
// the conventional filtfilt edge treatment.
func FiltFilt(b, a, x []float64) ([]float64, error) {
	if len(b) == 0 || len(a) == 0 {
		return nil, fmt.Errorf("filtfilt: empty coefficients")
	}
	bn, an := normalize(b, a)
	n := len(bn)
	if n == 1 {
		// pure gain, applied twice
		out := make([]float64, len(x))
		for i, v := range x {
			out[i] = v * bn[0] * bn[0]
		}
		return out, nil
	}
	padLen := 3 * (n - 1)
	if len(x) <= padLen {
		return nil, fmt.Errorf("filtfilt: input length %d must exceed pad length %d", len(x), padLen)
	}

	zi, err := stepInitialState(bn, an)
	if err != nil {
		return nil, err
	}

	ext := oddExtend(x, padLen)

	// forward pass
	z := scaled(zi, ext[0])
	y := lfilter(bn, an, ext, z)

	// backward pass
	reverse(y)
	z = scaled(zi, y[0])
	y = lfilter(bn, an, y, z)
	reverse(y)

	return y[padLen : len(y)-padLen], nil
}

// normalize pads b and a to equal length and divides through by a[0].
func normalize(b, a []float64) ([]float64, []float64) {
	n := len(b)
	if len(a) > n {
		n = len(a)
	}
	bn := make([]float64, n)
	an := make([]float64, n)
	copy(bn, b)
	copy(an, a)
	a0 := an[0]
	for i := range bn {
		bn[i] /= a0
		an[i] /= a0
	}
	return bn, an
}

// lfilter runs a direct-form II transposed filter over x with initial
// state z (length len(b)-1, mutated in place).
func lfilter(b, a, x, z []float64) []float64 {
	n := len(b)
	y := make([]float64, len(x))
	for i, xv := range x {
		yv := b[0]*xv + z[0]
		for j := 1; j < n-1; j++ {
			z[j-1] = b[j]*xv + z[j] - a[j]*yv
		}
		z[n-2] = b[n-1]*xv - a[n-1]*yv
		y[i] = yv
	}
	return y
}

// stepInitialState computes the filter state that makes the step response
// start at its final value, solving (I - A^T) zi = B for the companion-form
// state matrix. Coefficients must already be normalized to a[0]==1.
func stepInitialState(b, a []float64) ([]float64, error) {
	n := len(a) - 1
	if n == 0 {
		return []float64{}, nil
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// companion(a) transposed: first column -a[1:], superdiagonal ones
			var v float64
			if j == 0 {
				v = -a[i+1]
			}
			if j == i+1 {
				v += 1
			}
			if i == j {
				m.Set(i, j, 1-v)
			} else {
				m.Set(i, j, -v)
			}
		}
	}
	rhs := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}
	var zi mat.VecDense
	if err := zi.SolveVec(m, rhs); err != nil {
		return nil, fmt.Errorf("filtfilt: initial-state solve: %w", err)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}

// oddExtend reflects padLen samples about each end of x.
func oddExtend(x []float64, padLen int) []float64 {
	out := make([]float64, 0, len(x)+2*padLen)
	for i := padLen; i >= 1; i-- {
		out = append(out, 2*x[0]-x[i])
	}
	out = append(out, x...)
	last := len(x) - 1
	for i := 1; i <= padLen; i++ {
		out = append(out, 2*x[last]-x[last-i])
	}
	return out
}

func scaled(zi []float64, v float64) []float64 {
	out := make([]float64, len(zi))
	for i, z := range zi {
		out[i] = z * v
	}
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
