// Package anim drives supershape animations. A [Scene] owns the mesh vertex buffer
// and all animation state; the shape generator itself is stateless.
package anim

import (
	"errors"
	"time"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsuper"
	"github.com/soypat/gsuper/glrender"
)

// DefaultPhaseStep is the phase accumulator increment per frame.
const DefaultPhaseStep = 0.005

// ParamSchedule derives superformula coefficients for one axis from the animation phase.
// M oscillates between MMin and MMax following the sine of the phase while the exponents stay fixed.
type ParamSchedule struct {
	MMin float32 `toml:"m_min"`
	MMax float32 `toml:"m_max"`
	N1   float32 `toml:"n1"`
	N2   float32 `toml:"n2"`
	N3   float32 `toml:"n3"`
}

// At returns the shape parameters at the given phase.
func (ps ParamSchedule) At(phase float32) gsuper.ShapeParams {
	return gsuper.ShapeParams{
		M:  gsuper.Scale(math32.Sin(phase), -1, 1, ps.MMin, ps.MMax),
		N1: ps.N1,
		N2: ps.N2,
		N3: ps.N3,
	}
}

// Schedule holds the parameter schedules of both supershape axes.
type Schedule struct {
	Polar     ParamSchedule `toml:"polar"`
	Azimuthal ParamSchedule `toml:"azimuthal"`
}

// DefaultSchedule morphs a sphere-like blob into a spiky star and back.
func DefaultSchedule() Schedule {
	return Schedule{
		Polar:     ParamSchedule{MMin: 1, MMax: 4, N1: 1, N2: 40, N3: 0.1},
		Azimuthal: ParamSchedule{MMin: 0, MMax: 8, N1: 0.1, N2: 0.1, N3: 100},
	}
}

// At returns the polar and azimuthal shape parameters at the given phase.
func (s Schedule) At(phase float32) (polar, azimuthal gsuper.ShapeParams) {
	return s.Polar.At(phase), s.Azimuthal.At(phase)
}

// Motion animates the mesh transform over time.
type Motion struct {
	// RotationRate is the Euler angle increment per second.
	RotationRate ms3.Vec `toml:"rotation_rate"`
	// Center is the point the mesh orbits around.
	Center ms3.Vec `toml:"center"`
	// Amplitude is the orbit size along each axis. X follows a sine while Y and Z follow a cosine.
	Amplitude ms3.Vec `toml:"amplitude"`
	// Frequency is the orbit angular frequency in radians per second.
	Frequency float32 `toml:"frequency"`
}

// DefaultMotion tumbles the mesh while it drifts 35 units in front of the camera.
func DefaultMotion() Motion {
	return Motion{
		RotationRate: ms3.Vec{X: 1, Y: 1.5, Z: 2.5},
		Center:       ms3.Vec{Z: -35},
		Amplitude:    ms3.Vec{X: 2, Y: 4, Z: 1},
		Frequency:    0.25,
	}
}

// Position returns the mesh position after elapsed time.
func (m Motion) Position(elapsed time.Duration) ms3.Vec {
	s, c := math32.Sincos(m.Frequency * float32(elapsed.Seconds()))
	return ms3.Add(m.Center, ms3.MulElem(m.Amplitude, ms3.Vec{X: s, Y: c, Z: c}))
}

// Config configures a new [Scene].
type Config struct {
	Radius    float32
	Precision int
	// RoundDigits is passed on to the scene's [gsuper.Generator].
	RoundDigits int
	// PhaseStep is the phase increment per update. Zero selects DefaultPhaseStep.
	PhaseStep float32
	Schedule  Schedule
	Motion    Motion
	// InitialRotation sets the starting Euler angles of the mesh.
	InitialRotation ms3.Vec
}

// DefaultConfig returns the configuration of the classic supershape demo.
func DefaultConfig() Config {
	return Config{
		Radius:          2,
		Precision:       50,
		PhaseStep:       DefaultPhaseStep,
		Schedule:        DefaultSchedule(),
		Motion:          DefaultMotion(),
		InitialRotation: ms3.Vec{X: -0.5, Y: -0.5},
	}
}

// Scene is the explicit animation context: it owns the mesh, the phase accumulator
// and the mesh transform. Scene is not safe for concurrent use.
type Scene struct {
	gen       gsuper.Generator
	radius    float32
	phase     float32
	phaseStep float32
	schedule  Schedule
	motion    Motion
	tf        glrender.Transform
	mesh      *glrender.GridMesh
	frames    uint64
	elapsed   time.Duration
}

// NewScene creates a scene whose mesh starts out as a sphere.
func NewScene(cfg Config) (*Scene, error) {
	if cfg.Radius <= 0 || math32.IsInf(cfg.Radius, 0) || math32.IsNaN(cfg.Radius) {
		return nil, errors.New("scene radius must be positive and finite")
	}
	gen := gsuper.Generator{RoundDigits: cfg.RoundDigits}
	mesh, err := glrender.NewGridMeshFromGrid(gen.Sphere(cfg.Radius, cfg.Precision))
	if err != nil {
		return nil, err
	}
	if cfg.PhaseStep == 0 {
		cfg.PhaseStep = DefaultPhaseStep
	}
	sc := &Scene{
		gen:       gen,
		radius:    cfg.Radius,
		phaseStep: cfg.PhaseStep,
		schedule:  cfg.Schedule,
		motion:    cfg.Motion,
		mesh:      mesh,
	}
	sc.tf.Rotation = cfg.InitialRotation
	sc.tf.Position = cfg.Motion.Position(0)
	return sc, nil
}

// Update advances the scene by one frame that took dt since the last one.
// The supershape for the current phase is generated and copied into the mesh
// vertex buffer, normals are recomputed and then the phase is advanced.
func (sc *Scene) Update(dt time.Duration) error {
	sc.elapsed += dt
	sc.tf.Rotation = ms3.Add(sc.tf.Rotation, ms3.Scale(float32(dt.Seconds()), sc.motion.RotationRate))
	sc.tf.Position = sc.motion.Position(sc.elapsed)

	polar, azimuthal := sc.schedule.At(sc.phase)
	grid := sc.gen.SuperShape(sc.radius, sc.mesh.Precision(), polar, azimuthal)
	sc.phase += sc.phaseStep
	err := sc.mesh.SetGrid(grid)
	if err != nil {
		return err
	}
	sc.mesh.ComputeNormals()
	sc.frames++
	return nil
}

// Mesh returns the scene's mesh. Its vertex buffer is overwritten by every call to Update.
func (sc *Scene) Mesh() *glrender.GridMesh { return sc.mesh }

// Transform returns the current mesh placement.
func (sc *Scene) Transform() glrender.Transform { return sc.tf }

// Phase returns the phase accumulator value used by the next Update.
func (sc *Scene) Phase() float32 { return sc.phase }

// Frames returns the amount of successful updates.
func (sc *Scene) Frames() uint64 { return sc.frames }

// Elapsed returns the sum of all update durations.
func (sc *Scene) Elapsed() time.Duration { return sc.elapsed }

// SetSchedule replaces the parameter schedule. The phase is kept so the
// animation continues from where it was.
func (sc *Scene) SetSchedule(s Schedule) { sc.schedule = s }

// SetMotion replaces the transform animation. Elapsed time is kept.
func (sc *Scene) SetMotion(m Motion) { sc.motion = m }

// Schedule returns the current parameter schedule.
func (sc *Scene) Schedule() Schedule { return sc.schedule }
