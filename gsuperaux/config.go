package gsuperaux

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsuper/anim"
	"github.com/soypat/gsuper/glrender"
)

// Config is the TOML file configuration of a supershape animation.
type Config struct {
	Scene    SceneConfig   `toml:"scene"`
	Schedule anim.Schedule `toml:"schedule"`
	Motion   anim.Motion   `toml:"motion"`
	Render   RenderOptions `toml:"render"`
	Log      LogConfig     `toml:"log"`
}

// SceneConfig holds the shape generation parameters.
type SceneConfig struct {
	Radius          float32 `toml:"radius"`
	Precision       int     `toml:"precision"`
	RoundDigits     int     `toml:"round_digits"`
	PhaseStep       float32 `toml:"phase_step"`
	InitialRotation ms3.Vec `toml:"initial_rotation"`
}

// RenderOptions holds headless rendering and viewer options.
type RenderOptions struct {
	// Frames is the amount of animation frames to render headless.
	Frames int `toml:"frames"`
	// FPS is the animation frame rate used to compute the time step between frames.
	FPS         float32 `toml:"fps"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Supersample int     `toml:"supersample"`
	// FOV is the camera vertical field of view in degrees.
	FOV float32 `toml:"fov"`
	// STL is the output path of the final frame's mesh. Empty disables STL output.
	STL string `toml:"stl"`
	// PNG is a fmt pattern with one integer verb for frame image paths such as "frame%04d.png".
	// Empty disables image output.
	PNG string `toml:"png"`
	// Stats draws frame statistics on rendered images.
	Stats bool `toml:"stats"`
}

// DefaultConfig returns the configuration of the classic supershape demo.
func DefaultConfig() Config {
	sc := anim.DefaultConfig()
	return Config{
		Scene: SceneConfig{
			Radius:          sc.Radius,
			Precision:       sc.Precision,
			PhaseStep:       sc.PhaseStep,
			InitialRotation: sc.InitialRotation,
		},
		Schedule: sc.Schedule,
		Motion:   sc.Motion,
		Render: RenderOptions{
			Frames:      120,
			FPS:         60,
			Width:       640,
			Height:      480,
			Supersample: 2,
			FOV:         35,
			Stats:       true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads a TOML configuration file. Fields missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer fp.Close()
	cfg, err := DecodeConfig(fp)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes and validates a TOML configuration over the default configuration.
// Unknown fields are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	err := dec.Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML to w.
func (cfg Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	err := toml.NewEncoder(&buf).Encode(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// Validate checks all configuration fields and returns every problem found.
func (cfg Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	sc := cfg.Scene
	if !(sc.Radius > 0) || math32.IsInf(sc.Radius, 0) {
		add("scene radius must be positive and finite, got %v", sc.Radius)
	}
	if sc.Precision < 2 {
		add("scene precision must be at least 2, got %d", sc.Precision)
	}
	if math32.IsNaN(sc.PhaseStep) || math32.IsInf(sc.PhaseStep, 0) {
		add("scene phase step must be finite")
	}
	r := cfg.Render
	if r.Frames < 0 {
		add("negative render frame count %d", r.Frames)
	}
	if !(r.FPS > 0) {
		add("render fps must be positive, got %v", r.FPS)
	}
	if r.Width <= 0 || r.Height <= 0 {
		add("render size must be positive, got %dx%d", r.Width, r.Height)
	}
	if r.FOV <= 0 || r.FOV >= 180 {
		add("render fov must be in (0, 180) degrees, got %v", r.FOV)
	}
	if r.PNG != "" && !validFramePattern(r.PNG) {
		add("render png pattern %q must contain a frame number verb", r.PNG)
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SceneConfig returns the [anim.Config] described by cfg.
func (cfg Config) SceneConfig() anim.Config {
	return anim.Config{
		Radius:          cfg.Scene.Radius,
		Precision:       cfg.Scene.Precision,
		RoundDigits:     cfg.Scene.RoundDigits,
		PhaseStep:       cfg.Scene.PhaseStep,
		Schedule:        cfg.Schedule,
		Motion:          cfg.Motion,
		InitialRotation: cfg.Scene.InitialRotation,
	}
}

// ImageConfig returns the [glrender.ImageConfig] described by cfg.
func (cfg Config) ImageConfig() glrender.ImageConfig {
	ic := glrender.DefaultImageConfig()
	ic.Camera.FOV = cfg.Render.FOV
	ic.Supersample = cfg.Render.Supersample
	return ic
}

// FrameDuration returns the animation time step between frames.
func (cfg Config) FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / float64(cfg.Render.FPS))
}

// validFramePattern reports whether pattern formats distinct names for distinct frames.
func validFramePattern(pattern string) bool {
	a := fmt.Sprintf(pattern, 0)
	b := fmt.Sprintf(pattern, 1)
	return a != b && !strings.Contains(a, "%!")
}
