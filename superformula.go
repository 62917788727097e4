package gsuper

import "github.com/chewxy/math32"

// ShapeParams holds the coefficients of one superformula axis.
// See [SuperRadius] for the formula the coefficients are used in.
type ShapeParams struct {
	// M is the rotational symmetry of the shape.
	M float32
	// N1 is the overall exponent. Zero is degenerate and results in a unit radius.
	N1 float32
	// N2 is the exponent of the cosine term.
	N2 float32
	// N3 is the exponent of the sine term.
	N3 float32
}

// CircleParams are the superformula coefficients that describe a unit circle.
// A supershape with CircleParams on both axes is a sphere.
var CircleParams = ShapeParams{M: 0, N1: 1, N2: 2, N3: 2}

// Radius returns the superformula radius at angle theta for the receiver's coefficients.
func (p ShapeParams) Radius(theta float32) float32 {
	return SuperRadius(theta, p.M, p.N1, p.N2, p.N3)
}

// SuperRadius computes Gielis' superformula radius at angle theta:
//
//	r(θ) = ( |cos(m·θ/4)/A|^n2 + |sin(m·θ/4)/B|^n3 ) ^ (-1/n1)
//
// n1==0 returns 1 instead of dividing by zero. No other input is guarded;
// NaN and infinities propagate to the result.
func SuperRadius(theta, m, n1, n2, n3 float32) float32 {
	if n1 == 0 {
		return 1
	}
	angle := m * theta / 4
	t1 := powf(absf(math32.Cos(angle)/A), n2)
	t2 := powf(absf(math32.Sin(angle)/B), n3)
	return powf(t1+t2, -1/n1)
}
