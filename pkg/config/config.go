// Package config loads and saves the topoviz settings file.
//
// The file lives at $XDG_CONFIG_HOME/topoviz/config.toml (falling back to
// ~/.config). A missing file yields [Default]; a present file is decoded
// over the defaults so omitted keys keep their default values.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/topoviz/pkg/core/interact"
	"github.com/matzehuels/topoviz/pkg/core/render"
	"github.com/matzehuels/topoviz/pkg/core/sim"
	"github.com/matzehuels/topoviz/pkg/errors"
)

// Config is the whole settings file.
type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Render     RenderConfig     `toml:"render"`
	Viewport   ViewportConfig   `toml:"viewport"`
	Server     ServerConfig     `toml:"server"`
	Cache      CacheConfig      `toml:"cache"`
	Source     SourceConfig     `toml:"source"`
}

// SimulationConfig holds the cooling schedule and force constants.
type SimulationConfig struct {
	AlphaMin          float64 `toml:"alpha_min"`
	AlphaDecay        float64 `toml:"alpha_decay"`
	VelocityDecay     float64 `toml:"velocity_decay"`
	LinkDistance      float64 `toml:"link_distance"`
	LinkStrength      float64 `toml:"link_strength"`
	ChargeStrength    float64 `toml:"charge_strength"`
	ChargeDistanceMax float64 `toml:"charge_distance_max"`
	CollideRadius     float64 `toml:"collide_radius"`
	Seed              uint64  `toml:"seed"`
	MaxTicks          int     `toml:"max_ticks"`
}

// RenderConfig sizes the canvas and the node glyphs.
type RenderConfig struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	NodeRadius  float64 `toml:"node_radius"`
	LabelOffset float64 `toml:"label_offset"`
	Icons       bool    `toml:"icons"`
}

// ViewportConfig bounds zoom and sets the drag reheat target.
type ViewportConfig struct {
	MinScale     float64 `toml:"min_scale"`
	MaxScale     float64 `toml:"max_scale"`
	ReheatTarget float64 `toml:"reheat_target"`
	HitRadius    float64 `toml:"hit_radius"`
}

// ServerConfig configures `topoviz serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	FrameInterval  Duration `toml:"frame_interval"`
	ReloadInterval Duration `toml:"reload_interval"`
}

// CacheConfig selects where fetched topologies are cached.
type CacheConfig struct {
	Backend string   `toml:"backend"` // "file", "redis" or "none"
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// SourceConfig tunes remote sources.
type SourceConfig struct {
	HTTPTimeout     Duration `toml:"http_timeout"`
	MongoDatabase   string   `toml:"mongo_database"`
	NodesCollection string   `toml:"nodes_collection"`
	EdgesCollection string   `toml:"edges_collection"`
}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			AlphaMin:          sim.DefaultAlphaMin,
			AlphaDecay:        sim.DefaultAlphaDecay,
			VelocityDecay:     sim.DefaultVelocityDecay,
			LinkDistance:      sim.DefaultLinkDistance,
			LinkStrength:      sim.DefaultLinkStrength,
			ChargeStrength:    sim.DefaultChargeStrength,
			ChargeDistanceMax: sim.DefaultChargeDistanceMax,
			CollideRadius:     sim.DefaultCollideRadius,
			Seed:              sim.DefaultSeed,
			MaxTicks:          1000,
		},
		Render: RenderConfig{
			Width:       800,
			Height:      600,
			NodeRadius:  render.NodeRadius,
			LabelOffset: render.LabelOffset,
			Icons:       true,
		},
		Viewport: ViewportConfig{
			MinScale:     interact.DefaultMinScale,
			MaxScale:     interact.DefaultMaxScale,
			ReheatTarget: interact.DefaultReheatTarget,
			HitRadius:    interact.DefaultHitRadius,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			FrameInterval:  Duration{time.Second / 60},
			ReloadInterval: Duration{5 * time.Second},
		},
		Cache: CacheConfig{
			Backend:     CacheFile,
			TTL:         Duration{5 * time.Second},
			RedisAddr:   "localhost:6379",
			RedisPrefix: "topoviz:",
		},
		Source: SourceConfig{
			HTTPTimeout:     Duration{10 * time.Second},
			MongoDatabase:   "",
			NodesCollection: "nodes",
			EdgesCollection: "connections",
		},
	}
}

// Dir returns the topoviz config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "topoviz")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults. An empty path means [Path]. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories. An empty path
// means [Path].
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

// Validate rejects values the simulation or server cannot run with.
func (c *Config) Validate() error {
	bad := func(key string, v any) error {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid %s: %v", key, v)
	}
	s := c.Simulation
	switch {
	case s.AlphaMin <= 0 || s.AlphaMin >= 1:
		return bad("simulation.alpha_min", s.AlphaMin)
	case s.AlphaDecay <= 0 || s.AlphaDecay >= 1:
		return bad("simulation.alpha_decay", s.AlphaDecay)
	case s.VelocityDecay <= 0 || s.VelocityDecay > 1:
		return bad("simulation.velocity_decay", s.VelocityDecay)
	case s.LinkDistance < 0:
		return bad("simulation.link_distance", s.LinkDistance)
	case s.ChargeDistanceMax <= 0:
		return bad("simulation.charge_distance_max", s.ChargeDistanceMax)
	case s.CollideRadius < 0:
		return bad("simulation.collide_radius", s.CollideRadius)
	case s.MaxTicks <= 0:
		return bad("simulation.max_ticks", s.MaxTicks)
	}

	r := c.Render
	switch {
	case r.Width <= 0:
		return bad("render.width", r.Width)
	case r.Height <= 0:
		return bad("render.height", r.Height)
	case r.NodeRadius <= 0:
		return bad("render.node_radius", r.NodeRadius)
	}

	v := c.Viewport
	switch {
	case v.MinScale <= 0:
		return bad("viewport.min_scale", v.MinScale)
	case v.MaxScale < v.MinScale:
		return bad("viewport.max_scale", v.MaxScale)
	case v.ReheatTarget <= 0 || v.ReheatTarget >= 1:
		return bad("viewport.reheat_target", v.ReheatTarget)
	case v.HitRadius < 0:
		return bad("viewport.hit_radius", v.HitRadius)
	}

	if c.Server.FrameInterval.Duration <= 0 {
		return bad("server.frame_interval", c.Server.FrameInterval)
	}
	if c.Server.ReloadInterval.Duration < 0 {
		return bad("server.reload_interval", c.Server.ReloadInterval)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return bad("cache.redis_addr", `""`)
		}
	default:
		return bad("cache.backend", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return bad("cache.ttl", c.Cache.TTL)
	}
	if c.Source.HTTPTimeout.Duration < 0 {
		return bad("source.http_timeout", c.Source.HTTPTimeout)
	}
	return nil
}

// SimulationOptions converts the simulation section.
func (c *Config) SimulationOptions() sim.Options {
	s := c.Simulation
	return sim.Options{
		Width:         c.Render.Width,
		Height:        c.Render.Height,
		AlphaMin:      s.AlphaMin,
		AlphaDecay:    s.AlphaDecay,
		VelocityDecay: s.VelocityDecay,
		Seed:          s.Seed,
		ForceConfig: &sim.ForceConfig{
			LinkDistance:      s.LinkDistance,
			LinkStrength:      s.LinkStrength,
			ChargeStrength:    s.ChargeStrength,
			ChargeDistanceMax: s.ChargeDistanceMax,
			CollideRadius:     s.CollideRadius,
		},
	}
}

// InteractionOptions converts the viewport section.
func (c *Config) InteractionOptions() interact.Options {
	v := c.Viewport
	return interact.Options{
		ReheatTarget: v.ReheatTarget,
		HitRadius:    v.HitRadius,
		MinScale:     v.MinScale,
		MaxScale:     v.MaxScale,
	}
}

// RenderOptions converts the render section into scene builder options.
func (c *Config) RenderOptions() []render.Option {
	opts := []render.Option{
		render.WithNodeRadius(c.Render.NodeRadius),
		render.WithLabelOffset(c.Render.LabelOffset),
	}
	if !c.Render.Icons {
		opts = append(opts, render.WithoutIcons())
	}
	return opts
}
