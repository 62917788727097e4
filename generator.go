package gsuper

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Generator creates sphere and supershape grids. The zero value is ready
// to use and rounds coordinates to [DefaultRoundDigits] decimals.
type Generator struct {
	// RoundDigits sets the amount of decimal digits generated coordinates are
	// rounded to. Zero selects DefaultRoundDigits and a negative value disables rounding.
	RoundDigits int
}

var defaultGenerator Generator

// Sphere calls [Generator.Sphere] with default rounding.
func Sphere(radius float32, precision int) Grid {
	return defaultGenerator.Sphere(radius, precision)
}

// SuperShape calls [Generator.SuperShape] with default rounding.
func SuperShape(radius float32, precision int, polar, azimuthal ShapeParams) Grid {
	return defaultGenerator.SuperShape(radius, precision, polar, azimuthal)
}

// Sphere returns a precision×precision UV sphere grid of given radius centered at the origin.
// Longitude index maps to [0, 2π) and latitude index to [0, π], so grid[0][0] is the +Z pole.
// A non-positive precision returns an empty grid.
func (gen *Generator) Sphere(radius float32, precision int) Grid {
	if precision <= 0 {
		return Grid{}
	}
	p := float32(precision)
	globe := make(Grid, precision)
	for x := range globe {
		lon := Scale(float32(x), 0, p, 0, 2*math32.Pi)
		sinLon, cosLon := math32.Sincos(lon)
		col := make([]ms3.Vec, precision)
		for y := range col {
			lat := Scale(float32(y), 0, p-1, 0, math32.Pi)
			sinLat, cosLat := math32.Sincos(lat)
			col[y] = gen.round(ms3.Vec{
				X: radius * sinLat * cosLon,
				Y: radius * sinLat * sinLon,
				Z: radius * cosLat,
			})
		}
		globe[x] = col
	}
	return globe
}

// SuperShape returns a precision×precision supershape grid. Each point's radius is the product
// of the azimuthal superformula radius evaluated at longitude in [-π, π) and the polar
// superformula radius evaluated at latitude in [-π/2, π/2], scaled by radius:
//
//	x = R·r1·cos(lon)·r2·cos(lat)
//	y = R·r1·sin(lon)·r2·cos(lat)
//	z = R·r2·sin(lat)
//
// A non-positive precision returns an empty grid.
func (gen *Generator) SuperShape(radius float32, precision int, polar, azimuthal ShapeParams) Grid {
	if precision <= 0 {
		return Grid{}
	}
	p := float32(precision)
	globe := make(Grid, precision)
	for x := range globe {
		lon := Scale(float32(x), 0, p, -math32.Pi, math32.Pi)
		r1 := azimuthal.Radius(lon)
		sinLon, cosLon := math32.Sincos(lon)
		col := make([]ms3.Vec, precision)
		for y := range col {
			lat := Scale(float32(y), 0, p-1, -math32.Pi/2, math32.Pi/2)
			r2 := polar.Radius(lat)
			sinLat, cosLat := math32.Sincos(lat)
			col[y] = gen.round(ms3.Vec{
				X: radius * r1 * cosLon * r2 * cosLat,
				Y: radius * r1 * sinLon * r2 * cosLat,
				Z: radius * r2 * sinLat,
			})
		}
		globe[x] = col
	}
	return globe
}

func (gen *Generator) digits() int {
	switch {
	case gen.RoundDigits == 0:
		return DefaultRoundDigits
	case gen.RoundDigits > maxRoundDigits:
		return maxRoundDigits
	}
	return gen.RoundDigits
}

func (gen *Generator) round(v ms3.Vec) ms3.Vec {
	d := gen.digits()
	if d < 0 {
		return v
	}
	mul := pow10f(d)
	return ms3.Vec{
		X: roundf(v.X, mul),
		Y: roundf(v.Y, mul),
		Z: roundf(v.Z, mul),
	}
}

func roundf(v, mul float32) float32 {
	return math32.Round(v*mul) / mul
}
