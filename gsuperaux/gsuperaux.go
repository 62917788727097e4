// Package gsuperaux has auxiliary functions to get supershape animations rendered quickly:
// configuration files, headless rendering to STL and PNG and an interactive viewer.
// Applications with specific needs should write their own loop over [anim.Scene].
package gsuperaux

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/soypat/gsuper/anim"
	"github.com/soypat/gsuper/glrender"
)

// RenderOutput holds the destinations of [Render]. Nil fields are skipped.
type RenderOutput struct {
	// STLOutput receives the mesh of the last frame in binary STL format.
	STLOutput io.Writer
	// FrameOutput returns the destination for the PNG image of a frame. The writer is closed after encoding.
	FrameOutput func(frame int) (io.WriteCloser, error)
	// Silent disables logging for this render.
	Silent bool
}

// FileOutput creates a RenderOutput writing to the paths set in cfg.Render.
// The returned function closes the STL file and must be called after Render.
func FileOutput(cfg Config) (out RenderOutput, closeFn func() error, err error) {
	closeFn = func() error { return nil }
	if cfg.Render.STL != "" {
		fp, err := os.Create(cfg.Render.STL)
		if err != nil {
			return out, closeFn, err
		}
		w := bufio.NewWriter(fp)
		out.STLOutput = w
		closeFn = func() error {
			return errors.Join(w.Flush(), fp.Close())
		}
	}
	if cfg.Render.PNG != "" {
		pattern := cfg.Render.PNG
		out.FrameOutput = func(frame int) (io.WriteCloser, error) {
			return os.Create(fmt.Sprintf(pattern, frame))
		}
	}
	return out, closeFn, nil
}

// Render runs the animation described by cfg for cfg.Render.Frames frames
// and writes results to out. Render stops early if ctx is done.
func Render(ctx context.Context, cfg Config, out RenderOutput) (err error) {
	if out.STLOutput == nil && out.FrameOutput == nil {
		return errors.New("Render requires an output")
	}
	err = cfg.Validate()
	if err != nil {
		return err
	}
	log := Logger()
	if out.Silent {
		log = slog.New(nopHandler{})
	}
	watch := stopwatch()
	scene, err := anim.NewScene(cfg.SceneConfig())
	if err != nil {
		return fmt.Errorf("creating scene: %w", err)
	}
	log.Info("scene created", slog.Int("precision", cfg.Scene.Precision), slog.Int("faces", len(scene.Mesh().Faces)), slog.Duration("took", watch()))

	var (
		ir      *glrender.ImageRenderer
		img     *image.RGBA
		overlay *StatsOverlay
	)
	if out.FrameOutput != nil {
		ir, err = glrender.NewImageRenderer(cfg.ImageConfig())
		if err != nil {
			return err
		}
		img = image.NewRGBA(image.Rect(0, 0, cfg.Render.Width, cfg.Render.Height))
		if cfg.Render.Stats {
			overlay, err = NewStatsOverlay(12, color.White)
			if err != nil {
				return fmt.Errorf("loading stats font: %w", err)
			}
		}
	}

	var stats FrameStats
	dt := cfg.FrameDuration()
	watch = stopwatch()
	for frame := 0; frame < cfg.Render.Frames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		frameWatch := stopwatch()
		err = scene.Update(dt)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		if out.FrameOutput != nil {
			err = ir.Render(scene.Mesh(), scene.Transform(), img)
			if err != nil {
				return fmt.Errorf("rendering frame %d: %w", frame, err)
			}
		}
		stats.Record(frameWatch())
		if out.FrameOutput != nil {
			if overlay != nil {
				overlay.Draw(img, stats.String(), fmt.Sprintf("phase %.3f", scene.Phase()))
			}
			err = writePNG(out.FrameOutput, frame, img)
			if err != nil {
				return err
			}
		}
		log.Debug("frame done", slog.Int("frame", frame), slog.Duration("took", stats.Last()))
	}
	log.Info("animation rendered", slog.Int("frames", cfg.Render.Frames), slog.Float64("fps", stats.FPS()), slog.Duration("took", watch()))

	if out.STLOutput != nil {
		watch = stopwatch()
		mesh := scene.Mesh()
		mesh.Reset()
		triangles, err := glrender.RenderAll(mesh, nil)
		if err != nil {
			return fmt.Errorf("reading mesh triangles: %w", err)
		}
		_, err = glrender.WriteBinarySTL(out.STLOutput, triangles)
		if err != nil {
			return fmt.Errorf("writing STL: %w", err)
		}
		filename := "STL"
		if fp, ok := out.STLOutput.(*os.File); ok {
			filename = fp.Name()
		}
		log.Info("wrote "+filename, slog.Int("triangles", len(triangles)), slog.Duration("took", watch()))
	}
	return nil
}

func writePNG(frameOutput func(int) (io.WriteCloser, error), frame int, img image.Image) error {
	w, err := frameOutput(frame)
	if err != nil {
		return fmt.Errorf("frame %d output: %w", frame, err)
	}
	err = png.Encode(w, img)
	errClose := w.Close()
	if err != nil {
		return fmt.Errorf("encoding frame %d: %w", frame, err)
	}
	return errClose
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
