// Package gsuper generates point grids of UV spheres and superformula
// "supershapes". All functions are pure numeric transforms: invalid inputs
// propagate NaN/Inf into the output instead of returning errors.
package gsuper

import (
	"github.com/chewxy/math32"
)

const (
	// A and B are the superformula's unit scale coefficients dividing the
	// cosine and sine terms respectively.
	A = 1
	B = 1
	// DefaultRoundDigits is the amount of decimal digits generated coordinates
	// are rounded to when a [Generator] does not specify otherwise.
	DefaultRoundDigits = 5
	// maxRoundDigits is the most digits a float32 can meaningfully be rounded to.
	maxRoundDigits = 9
)

// Scale maps v in range [min1, max1] to range [min2, max2] linearly.
// There are no bounds checks: v outside of the first range is extrapolated and
// an empty first range (min1==max1) yields a NaN or infinite result.
func Scale(v, min1, max1, min2, max2 float32) float32 {
	return ((v-min1)/(max1-min1))*(max2-min2) + min2
}

func absf(a float32) float32 {
	return math32.Abs(a)
}

func powf(a, b float32) float32 {
	return math32.Pow(a, b)
}

// pow10f returns 10**n for small non-negative n.
func pow10f(n int) float32 {
	p := float32(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}
