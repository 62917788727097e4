package gsuperaux

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestConfigEncodeDecode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.PNG = "out/frame%04d.png"
	cfg.Scene.RoundDigits = -1
	cfg.Schedule.Polar.MMax = 7
	var buf bytes.Buffer
	err := cfg.Encode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("config changed after encode/decode:\ngot  %+v\nwant %+v", got, cfg)
	}
}

func TestDecodeConfigDefaults(t *testing.T) {
	const src = `
[scene]
precision = 16

[render]
frames = 3
`
	cfg, err := DecodeConfig(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Scene.Precision = 16
	want.Render.Frames = 3
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("missing fields should keep defaults:\ngot  %+v\nwant %+v", cfg, want)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		src  string
	}{
		{name: "unknown field", src: "[scene]\nradios = 2\n"},
		{name: "unknown table", src: "[camera]\nfov = 20\n"},
		{name: "syntax", src: "[scene\n"},
		{name: "zero radius", src: "[scene]\nradius = 0\n"},
		{name: "precision", src: "[scene]\nprecision = 1\n"},
		{name: "fov", src: "[render]\nfov = 180\n"},
		{name: "png pattern", src: "[render]\npng = \"frame.png\"\n"},
		{name: "log level", src: "[log]\nlevel = \"loud\"\n"},
	} {
		_, err := DecodeConfig(strings.NewReader(test.src))
		if err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scene.Radius = -1
	cfg.Render.FPS = 0
	cfg.Render.Width = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"radius", "fps", "size"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shape.toml")
	err := os.WriteFile(path, []byte("[motion]\nfrequency = 0.5\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Motion.Frequency != 0.5 {
		t.Errorf("got frequency %v, want 0.5", cfg.Motion.Frequency)
	}
	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	if err == nil {
		t.Error("expected error loading missing file")
	}
}

func TestFrameDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.FPS = 50
	if got := cfg.FrameDuration(); got != 20*time.Millisecond {
		t.Errorf("got %v, want 20ms", got)
	}
}

func TestValidFramePattern(t *testing.T) {
	for pattern, want := range map[string]bool{
		"frame%d.png":    true,
		"frame%04d.png":  true,
		"frame.png":      false,
		"frame%s.png":    false,
		"a%d/b%d.png":    false,
		"frame%%%d.png":  true,
		"frame%%d.png":   false,
		"frame%03x.png":  true,
		"frame%v.png":    true,
		"constant%%.png": false,
	} {
		if got := validFramePattern(pattern); got != want {
			t.Errorf("validFramePattern(%q)=%v, want %v", pattern, got, want)
		}
	}
}

func TestLogConfig(t *testing.T) {
	var buf bytes.Buffer
	l, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown", slog.Int("n", 1))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record logged at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("json record not found in %q", out)
	}
	_, err = LogConfig{Format: "xml"}.NewLogger(&buf)
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSetLogger(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("default logger should be silent")
	}
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)
	Logger().Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("logger not set, output %q", buf.String())
	}
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("nil should restore silent logger")
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := LoadConfig("../examples/supershape/supershape.toml")
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Scene != def.Scene || cfg.Schedule != def.Schedule || cfg.Motion != def.Motion {
		t.Errorf("example config animation differs from defaults:\ngot  %+v\nwant %+v", cfg, def)
	}
}
