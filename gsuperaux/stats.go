package gsuperaux

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// FrameStats keeps frame time statistics for an animation loop.
type FrameStats struct {
	frames uint64
	last   time.Duration
	// avg is an exponential moving average of frame time in seconds.
	avg float64
}

// Record adds a frame that took d to process.
func (fs *FrameStats) Record(d time.Duration) {
	const alpha = 0.1
	fs.frames++
	fs.last = d
	if fs.frames == 1 {
		fs.avg = d.Seconds()
		return
	}
	fs.avg += alpha * (d.Seconds() - fs.avg)
}

// Frames returns the amount of frames recorded.
func (fs *FrameStats) Frames() uint64 { return fs.frames }

// Last returns the duration of the last recorded frame.
func (fs *FrameStats) Last() time.Duration { return fs.last }

// FPS returns the smoothed frames per second. Zero if no frames were recorded.
func (fs *FrameStats) FPS() float64 {
	if fs.avg <= 0 {
		return 0
	}
	return 1 / fs.avg
}

func (fs *FrameStats) String() string {
	return fmt.Sprintf("%.0f FPS (%.1f ms) frame %d", fs.FPS(), float64(fs.last.Microseconds())/1000, fs.frames)
}

// StatsOverlay draws lines of text in the top left corner of images.
type StatsOverlay struct {
	face   font.Face
	src    image.Image
	margin int
}

// NewStatsOverlay creates an overlay using the Go Regular font at the given point size.
func NewStatsOverlay(size float64, c color.Color) (*StatsOverlay, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return &StatsOverlay{
		face:   face,
		src:    image.NewUniform(c),
		margin: int(size / 2),
	}, nil
}

// Draw writes each line of text below the previous one.
func (so *StatsOverlay) Draw(dst draw.Image, lines ...string) {
	metrics := so.face.Metrics()
	bb := dst.Bounds()
	d := font.Drawer{
		Dst:  dst,
		Src:  so.src,
		Face: so.face,
	}
	x := fixed.I(bb.Min.X + so.margin)
	y := fixed.I(bb.Min.Y+so.margin) + metrics.Ascent
	for _, line := range lines {
		d.Dot = fixed.Point26_6{X: x, Y: y}
		d.DrawString(line)
		y += metrics.Height
	}
}
