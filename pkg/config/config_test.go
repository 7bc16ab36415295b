package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/topoviz/pkg/core/sim"
	"github.com/matzehuels/topoviz/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Simulation.AlphaDecay != sim.DefaultAlphaDecay {
		t.Errorf("alpha decay = %v, want %v", cfg.Simulation.AlphaDecay, sim.DefaultAlphaDecay)
	}
	if cfg.Viewport.MinScale != 0.5 || cfg.Viewport.MaxScale != 2 {
		t.Errorf("scale bounds = [%v, %v], want [0.5, 2]", cfg.Viewport.MinScale, cfg.Viewport.MaxScale)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("cache backend = %q, want %q", cfg.Cache.Backend, CacheFile)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if got := Dir(); got != "/tmp/test-xdg/topoviz" {
		t.Errorf("Dir() = %q", got)
	}
	if got := Path(); got != "/tmp/test-xdg/topoviz/config.toml" {
		t.Errorf("Path() = %q", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if got, want := Dir(), filepath.Join(home, ".config", "topoviz"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestLoadMissingReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file should give defaults (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Simulation.ChargeStrength = -400
	cfg.Server.FrameInterval = Duration{50 * time.Millisecond}
	cfg.Cache.Backend = CacheRedis
	if err := cfg.Save(""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(Path()); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[render]\nwidth = 1024\n\n[server]\nframe_interval = \"100ms\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Width != 1024 || cfg.Render.Height != 600 {
		t.Errorf("size = %vx%v, want 1024x600", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Server.FrameInterval.Duration != 100*time.Millisecond {
		t.Errorf("frame interval = %v", cfg.Server.FrameInterval)
	}
	if cfg.Simulation.CollideRadius != sim.DefaultCollideRadius {
		t.Errorf("collide radius = %v", cfg.Simulation.CollideRadius)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[render\nwidth = 1"},
		{"duration", "[server]\nframe_interval = \"soon\""},
		{"alpha decay", "[simulation]\nalpha_decay = 1.5"},
		{"scale bounds", "[viewport]\nmin_scale = 2\nmax_scale = 1"},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"width", "[render]\nwidth = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"alpha min", func(c *Config) { c.Simulation.AlphaMin = 0 }},
		{"velocity decay", func(c *Config) { c.Simulation.VelocityDecay = 2 }},
		{"max ticks", func(c *Config) { c.Simulation.MaxTicks = 0 }},
		{"node radius", func(c *Config) { c.Render.NodeRadius = -1 }},
		{"reheat", func(c *Config) { c.Viewport.ReheatTarget = 1 }},
		{"frame interval", func(c *Config) { c.Server.FrameInterval = Duration{} }},
		{"redis addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "" }},
		{"ttl", func(c *Config) { c.Cache.TTL = Duration{-time.Second} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Render.Width = 1000
	cfg.Simulation.ChargeStrength = -100
	cfg.Viewport.MaxScale = 4

	so := cfg.SimulationOptions()
	if so.Width != 1000 || so.ForceConfig.ChargeStrength != -100 {
		t.Errorf("SimulationOptions = %+v", so)
	}
	if io := cfg.InteractionOptions(); io.MaxScale != 4 || io.MinScale != 0.5 {
		t.Errorf("InteractionOptions = %+v", io)
	}
	if n := len(cfg.RenderOptions()); n != 2 {
		t.Errorf("RenderOptions len = %d, want 2", n)
	}
	cfg.Render.Icons = false
	if n := len(cfg.RenderOptions()); n != 3 {
		t.Errorf("RenderOptions len = %d, want 3 without icons", n)
	}
}
