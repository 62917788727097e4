package gsuperaux

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/fsnotify/fsnotify"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gsuper/glrender"
)

const pi = math32.Pi

var (
	axisX = ms3.Vec{X: 1}
	axisY = ms3.Vec{Y: 1}
	axisZ = ms3.Vec{Z: 1}
)

func tanf(a float32) float32 { return math32.Tan(a) }

// UIConfig configures the interactive viewer started by [UI].
type UIConfig struct {
	Config Config
	// ConfigPath, if set, is watched for changes. On write the file is reloaded
	// and its schedule and motion are applied without restarting the animation.
	ConfigPath string
	Width      int
	Height     int
	// Context closes the viewer when done. May be nil.
	Context context.Context
}

// UI opens a window and animates the supershape described by cfg.Config
// until the window is closed. Requires cgo and must be called from the main goroutine.
func UI(cfg UIConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("UI requires positive window dimensions")
	}
	err := cfg.Config.Validate()
	if err != nil {
		return err
	}
	return ui(cfg)
}

// watchConfig reloads the configuration file at path on every write and sends
// valid configurations on the returned channel. Invalid files are logged and skipped.
// The watcher stops when ctx is done.
func watchConfig(ctx context.Context, path string) (<-chan Config, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors often replace files on save so the directory is watched instead.
	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	log := Logger()
	configs := make(chan Config, 1)
	go func() {
		defer watcher.Close()
		defer close(configs)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher", "err", err)
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				evAbs, _ := filepath.Abs(ev.Name)
				if evAbs != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					log.Warn("ignoring config reload", "err", err)
					continue
				}
				select {
				case configs <- cfg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return configs, nil
}

// modelMatrix returns the column major 4x4 matrix of tf.
func modelMatrix(tf glrender.Transform) [16]float32 {
	x := tf.ApplyDir(axisX)
	y := tf.ApplyDir(axisY)
	z := tf.ApplyDir(axisZ)
	p := tf.Position
	return [16]float32{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		p.X, p.Y, p.Z, 1,
	}
}

// perspectiveMatrix returns a column major OpenGL projection matrix.
func perspectiveMatrix(fovDeg, aspect, near, far float32) [16]float32 {
	f := 1 / tanf(fovDeg*pi/360)
	nf := 1 / (near - far)
	return [16]float32{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}
