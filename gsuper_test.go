package gsuper_test

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsuper"
)

// Rounding to 5 decimals moves each coordinate up to 5e-6.
const normTol = 2e-5

func TestScale(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := rng.Float32()*200 - 100
		a := rng.Float32()*10 - 20
		b := a + 1 + rng.Float32()*10
		got := gsuper.Scale(v, a, b, a, b)
		if math32.Abs(got-v) > 1e-4*math32.Max(1, math32.Abs(v)) {
			t.Fatalf("identity scale of %v over [%v,%v] got %v", v, a, b, got)
		}
		got = gsuper.Scale(v, 0, 1, 0, 2)
		if got != 2*v {
			t.Fatalf("scale(%v,0,1,0,2)=%v, want %v", v, got, 2*v)
		}
	}
	got := gsuper.Scale(1, 3, 3, 0, 1)
	if !math32.IsNaN(got) && !math32.IsInf(got, 0) {
		t.Errorf("expected empty input range to give NaN or Inf, got %v", got)
	}
}

func TestSuperRadiusZeroN1(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		theta := rng.Float32()*20 - 10
		m := rng.Float32() * 16
		n2 := rng.Float32() * 50
		n3 := rng.Float32() * 50
		if r := gsuper.SuperRadius(theta, m, 0, n2, n3); r != 1 {
			t.Fatalf("SuperRadius(%v,%v,0,%v,%v)=%v, want 1", theta, m, n2, n3, r)
		}
	}
}

func TestSuperRadiusCircle(t *testing.T) {
	for theta := float32(-math32.Pi); theta < math32.Pi; theta += 0.1 {
		r := gsuper.CircleParams.Radius(theta)
		if math32.Abs(r-1) > 1e-6 {
			t.Fatalf("circle radius at %v: got %v", theta, r)
		}
	}
	// m=4,n=2 is a square-ish superellipse that touches the unit circle at axes.
	r := gsuper.SuperRadius(0, 4, 2, 2, 2)
	if math32.Abs(r-1) > 1e-6 {
		t.Errorf("expected radius 1 on axis, got %v", r)
	}
	if !math32.IsNaN(gsuper.SuperRadius(math32.NaN(), 4, 1, 1, 1)) {
		t.Error("expected NaN to propagate")
	}
}

func TestSphere(t *testing.T) {
	var tests = []struct {
		r float32
		p int
	}{
		{r: 2, p: 4},
		{r: 1, p: 17},
		{r: 10, p: 50},
		{r: 0.5, p: 3},
	}
	for _, test := range tests {
		g := gsuper.Sphere(test.r, test.p)
		assertSquare(t, g, test.p)
		for i, col := range g {
			for j, p := range col {
				norm := ms3.Norm(p)
				if math32.Abs(norm-test.r) > normTol*math32.Max(1, test.r) {
					t.Fatalf("sphere(%v,%v)[%d][%d]=%v has norm %v", test.r, test.p, i, j, p, norm)
				}
			}
		}
	}
}

func TestSphereExample(t *testing.T) {
	g := gsuper.Sphere(2, 4)
	assertSquare(t, g, 4)
	got := g.At(0, 0)
	if got != (ms3.Vec{X: 0, Y: 0, Z: 2}) {
		t.Errorf("sphere(2,4)[0][0]=%v, want (0,0,2)", got)
	}
	// Last latitude index is the -Z pole.
	got = g.At(0, 3)
	if got.Z != -2 {
		t.Errorf("sphere(2,4)[0][3]=%v, want z=-2", got)
	}
	// Longitude of index 1 is π/2, latitude of index 1 is π/3.
	got = g.At(1, 1)
	want := ms3.Vec{X: 0, Y: 2 * math32.Sin(math32.Pi/3), Z: 1}
	if ms3.Norm(ms3.Sub(got, want)) > 1e-5 {
		t.Errorf("sphere(2,4)[1][1]=%v, want %v", got, want)
	}
}

func TestSuperShapeCircleIsSphere(t *testing.T) {
	const radius = 3
	const precision = 24
	g := gsuper.SuperShape(radius, precision, gsuper.CircleParams, gsuper.CircleParams)
	assertSquare(t, g, precision)
	for i, col := range g {
		for j, p := range col {
			norm := ms3.Norm(p)
			if math32.Abs(norm-radius) > normTol*radius {
				t.Fatalf("supershape[%d][%d]=%v has norm %v, want %v", i, j, p, norm, radius)
			}
		}
	}
	// Latitude starts at the south pole.
	if z := g.At(0, 0).Z; z != -radius {
		t.Errorf("expected south pole at first latitude, got z=%v", z)
	}
}

func TestDeterminism(t *testing.T) {
	polar := gsuper.ShapeParams{M: 2.5, N1: 1, N2: 40, N3: 0.1}
	azimuthal := gsuper.ShapeParams{M: 4, N1: 0.1, N2: 0.1, N3: 100}
	a := gsuper.SuperShape(2, 30, polar, azimuthal)
	b := gsuper.SuperShape(2, 30, polar, azimuthal)
	if !a.Equal(b) {
		t.Error("supershape not deterministic")
	}
	if !gsuper.Sphere(2, 30).Equal(gsuper.Sphere(2, 30)) {
		t.Error("sphere not deterministic")
	}
}

func TestEmptyPrecision(t *testing.T) {
	for _, p := range []int{0, -1, -50} {
		if g := gsuper.Sphere(1, p); len(g) != 0 {
			t.Errorf("precision %d: expected empty sphere grid, got %d columns", p, len(g))
		}
		if g := gsuper.SuperShape(1, p, gsuper.CircleParams, gsuper.CircleParams); len(g) != 0 {
			t.Errorf("precision %d: expected empty supershape grid, got %d columns", p, len(g))
		}
	}
}

func TestRounding(t *testing.T) {
	const r = 1.2345678
	gen := gsuper.Generator{RoundDigits: 2}
	g := gen.Sphere(r, 5)
	if z := g.At(0, 0).Z; z != 1.23 {
		t.Errorf("2 digit rounding: got %v, want 1.23", z)
	}
	gen.RoundDigits = -1
	g = gen.Sphere(r, 5)
	if z := g.At(0, 0).Z; z != r {
		t.Errorf("disabled rounding: got %v, want %v", z, float32(r))
	}
	var zero gsuper.Generator
	if !zero.Sphere(r, 9).Equal(gsuper.Sphere(r, 9)) {
		t.Error("zero value generator should match package level Sphere")
	}
}

func TestGridAppendFlat(t *testing.T) {
	const p = 6
	g := gsuper.Sphere(1, p)
	flat, err := g.AppendFlat(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(flat) != p*p {
		t.Fatalf("got %d flattened points, want %d", len(flat), p*p)
	}
	for x := 0; x < p; x++ {
		for y := 0; y < p; y++ {
			if flat[x+y*p] != g.At(x, y) {
				t.Fatalf("flat[%d] mismatch with grid[%d][%d]", x+y*p, x, y)
			}
		}
	}
	g[2] = g[2][:3]
	_, err = g.AppendFlat(nil)
	if err == nil {
		t.Error("expected error flattening non square grid")
	}
}

func TestGridBounds(t *testing.T) {
	bb := gsuper.Sphere(2, 41).Bounds()
	size := bb.Size()
	if math32.Abs(size.Z-4) > 1e-5 {
		t.Errorf("sphere z extent: got %v, want 4", size.Z)
	}
	if size.X > 4+1e-5 || size.Y > 4+1e-5 {
		t.Errorf("sphere bounds too large: %v", bb)
	}
	if (gsuper.Grid{}).Bounds() != (ms3.Box{}) {
		t.Error("expected zero box for empty grid")
	}
}

func assertSquare(t *testing.T, g gsuper.Grid, p int) {
	t.Helper()
	if len(g) != p {
		t.Fatalf("expected %d columns, got %d", p, len(g))
	}
	for i, col := range g {
		if len(col) != p {
			t.Fatalf("column %d: expected %d points, got %d", i, p, len(col))
		}
	}
	if !g.IsSquare() {
		t.Fatal("IsSquare false for square grid")
	}
}
