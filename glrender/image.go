package glrender

import (
	"errors"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"golang.org/x/image/draw"
)

// Light is a colored light source. Color components are in range [0, 1].
type Light struct {
	Position  ms3.Vec
	Color     ms3.Vec
	Intensity float32
}

// Camera is a perspective camera placed at the origin looking towards -Z with +Y up.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV       float32
	Near, Far float32
}

// ImageConfig configures an [ImageRenderer].
type ImageConfig struct {
	Camera Camera
	// Supersample renders at Supersample times the output resolution and downscales.
	// Values below 1 are treated as 1.
	Supersample int
	Background  color.Color
	// Albedo is the mesh surface color with components in [0, 1].
	Albedo  ms3.Vec
	Ambient Light
	Point   Light
}

// DefaultImageConfig returns a dark scene lit by a white ambient light and a
// bluish point light at the camera position.
func DefaultImageConfig() ImageConfig {
	return ImageConfig{
		Camera:      Camera{FOV: 35, Near: 0.1, Far: 10000},
		Supersample: 2,
		Background:  color.RGBA{R: 0x02, G: 0x03, B: 0x04, A: 0xff},
		Albedo:      ms3.Vec{X: 1, Y: 1, Z: 1},
		Ambient:     Light{Color: ms3.Vec{X: 1, Y: 1, Z: 1}, Intensity: 0.5},
		Point:       Light{Color: ms3.Vec{X: 0.8, Y: 0.8, Z: 1}, Intensity: 0.5},
	}
}

// ImageRenderer rasterizes a [GridMesh] into an image with a depth buffer and flat shading.
// Both faces of every triangle are drawn.
type ImageRenderer struct {
	cfg  ImageConfig
	hi   *image.RGBA
	zbuf []float32
}

// NewImageRenderer instances a new [ImageRenderer].
func NewImageRenderer(cfg ImageConfig) (*ImageRenderer, error) {
	cam := cfg.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		return nil, errors.New("camera field of view must be in (0, 180) degrees")
	} else if cam.Near <= 0 || cam.Far <= cam.Near {
		return nil, errors.New("invalid camera near/far planes")
	}
	if cfg.Supersample < 1 {
		cfg.Supersample = 1
	}
	if cfg.Background == nil {
		cfg.Background = color.Black
	}
	return &ImageRenderer{cfg: cfg}, nil
}

// Render draws the mesh placed by tf onto dst, covering all of dst's bounds.
func (ir *ImageRenderer) Render(m *GridMesh, tf Transform, dst draw.Image) error {
	if m == nil {
		return errNilMesh
	}
	bb := dst.Bounds()
	if bb.Empty() {
		return errors.New("empty destination image")
	}
	ss := ir.cfg.Supersample
	w, h := bb.Dx()*ss, bb.Dy()*ss
	ir.reset(w, h)

	cam := ir.cfg.Camera
	focal := 1 / math32.Tan(cam.FOV*math32.Pi/360)
	aspect := float32(w) / float32(h)
	project := func(p ms3.Vec) (sx, sy, depth float32) {
		depth = -p.Z
		ndcX := focal * p.X / (depth * aspect)
		ndcY := focal * p.Y / depth
		sx = (ndcX + 1) / 2 * float32(w)
		sy = (1 - ndcY) / 2 * float32(h)
		return sx, sy, depth
	}

	for i := range m.Faces {
		var t ms3.Triangle
		visible := true
		for j, v := range m.Triangle(i) {
			t[j] = tf.Apply(v)
			z := -t[j].Z
			if !isFinite(t[j]) || z < cam.Near || z > cam.Far {
				visible = false
				break
			}
		}
		if !visible {
			continue
		}
		c := ir.shade(t)
		var sx, sy, sz [3]float32
		for j := range t {
			sx[j], sy[j], sz[j] = project(t[j])
		}
		ir.fill(sx, sy, sz, c)
	}
	if ss == 1 {
		draw.Draw(dst, bb, ir.hi, image.Point{}, draw.Src)
		return nil
	}
	draw.ApproxBiLinear.Scale(dst, bb, ir.hi, ir.hi.Bounds(), draw.Src, nil)
	return nil
}

func (ir *ImageRenderer) reset(w, h int) {
	if ir.hi == nil || ir.hi.Bounds().Dx() != w || ir.hi.Bounds().Dy() != h {
		ir.hi = image.NewRGBA(image.Rect(0, 0, w, h))
		ir.zbuf = make([]float32, w*h)
	}
	draw.Draw(ir.hi, ir.hi.Bounds(), image.NewUniform(ir.cfg.Background), image.Point{}, draw.Src)
	inf := math32.Inf(1)
	for i := range ir.zbuf {
		ir.zbuf[i] = inf
	}
}

// shade returns the flat shaded color of a world space triangle.
func (ir *ImageRenderer) shade(t ms3.Triangle) color.RGBA {
	cfg := &ir.cfg
	n := unit(triangleNormal(t))
	center := ms3.Scale(1./3, ms3.Add(ms3.Add(t[0], t[1]), t[2]))
	if ms3.Dot(n, center) > 0 {
		// Back face, camera is at origin.
		n = ms3.Scale(-1, n)
	}
	light := ms3.Scale(cfg.Ambient.Intensity, cfg.Ambient.Color)
	toLight := unit(ms3.Sub(cfg.Point.Position, center))
	diffuse := math32.Max(0, ms3.Dot(n, toLight)) * cfg.Point.Intensity
	light = ms3.Add(light, ms3.Scale(diffuse, cfg.Point.Color))
	col := ms3.MulElem(light, cfg.Albedo)
	return color.RGBA{
		R: to8(col.X),
		G: to8(col.Y),
		B: to8(col.Z),
		A: 255,
	}
}

// fill rasterizes a screen space triangle testing against the depth buffer.
func (ir *ImageRenderer) fill(sx, sy, sz [3]float32, c color.RGBA) {
	area := edge(sx[0], sy[0], sx[1], sy[1], sx[2], sy[2])
	if area == 0 || math32.IsNaN(area) {
		return
	}
	bb := ir.hi.Bounds()
	minX := max(int(math32.Floor(min(sx[0], sx[1], sx[2]))), bb.Min.X)
	maxX := min(int(math32.Ceil(max(sx[0], sx[1], sx[2]))), bb.Max.X-1)
	minY := max(int(math32.Floor(min(sy[0], sy[1], sy[2]))), bb.Min.Y)
	maxY := min(int(math32.Ceil(max(sy[0], sy[1], sy[2]))), bb.Max.Y-1)
	w := bb.Dx()
	inv := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(sx[1], sy[1], sx[2], sy[2], px, py) * inv
			w1 := edge(sx[2], sy[2], sx[0], sy[0], px, py) * inv
			w2 := edge(sx[0], sy[0], sx[1], sy[1], px, py) * inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*sz[0] + w1*sz[1] + w2*sz[2]
			idx := x + y*w
			if z >= ir.zbuf[idx] {
				continue
			}
			ir.zbuf[idx] = z
			ir.hi.SetRGBA(x, y, c)
		}
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func to8(v float32) uint8 {
	if !(v > 0) {
		return 0
	} else if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
