// Package config provides configuration loading and access for the viewer.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Axes        AxesConfig        `yaml:"axes"`
	Sizing      SizingConfig      `yaml:"sizing"`
	Camera      CameraConfig      `yaml:"camera"`
	Overlays    OverlaysConfig    `yaml:"overlays"`
	Edges       EdgesConfig       `yaml:"edges"`
	Interaction InteractionConfig `yaml:"interaction"`
	Palette     []ColorConfig     `yaml:"palette"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// AxisMap is the fixed affine map from a normalized metric to one world
// axis: world = offset + span * metric.
type AxisMap struct {
	Span   float32 `yaml:"span"`
	Offset float32 `yaml:"offset"`
}

// Apply maps a metric value onto the axis.
func (a AxisMap) Apply(metric float32) float32 {
	return a.Offset + a.Span*metric
}

// AxesConfig maps the three positional metrics onto world axes.
// X carries profit, Y confidence, Z risk.
type AxesConfig struct {
	X AxisMap `yaml:"x"`
	Y AxisMap `yaml:"y"`
	Z AxisMap `yaml:"z"`
}

// SizingConfig describes the monotonic volume-to-scale curve:
// scale = base + gain * volume^exponent.
type SizingConfig struct {
	Base     float32 `yaml:"base"`
	Gain     float32 `yaml:"gain"`
	Exponent float32 `yaml:"exponent"`
}

// CameraConfig holds orbit and fly-to parameters.
type CameraConfig struct {
	FovY            float32 `yaml:"fov_y"`
	FlyDamping      float32 `yaml:"fly_damping"`     // per-tick interpolation factor
	Epsilon         float32 `yaml:"epsilon"`         // snap distance ending a flight
	OrbitDamping    float32 `yaml:"orbit_damping"`   // velocity retained per tick
	OrbitSpeed      float32 `yaml:"orbit_speed"`     // radians per pixel of drag
	DollySpeed      float32 `yaml:"dolly_speed"`     // distance factor per wheel notch
	Standoff        float32 `yaml:"standoff"`        // fly-to distance beyond the target
	FrameMargin     float32 `yaml:"frame_margin"`    // extra distance factor for frameAll
	MinDistance     float32 `yaml:"min_distance"`
	MaxDistance     float32 `yaml:"max_distance"`
	InitialDistance float32 `yaml:"initial_distance"`
}

// OverlaysConfig holds highlight multipliers and capacity caps.
type OverlaysConfig struct {
	HoverScale    float32 `yaml:"hover_scale"`
	FocusScale    float32 `yaml:"focus_scale"`
	NeighborScale float32 `yaml:"neighbor_scale"`
	GlowScale     float32 `yaml:"glow_scale"`
	RingScale     float32 `yaml:"ring_scale"`
	NeighborCap   int     `yaml:"neighbor_cap"`
}

// EdgesConfig holds connectivity rendering parameters.
type EdgesConfig struct {
	DashLength float32 `yaml:"dash_length"`
	GapLength  float32 `yaml:"gap_length"`
	BaseAlpha  float32 `yaml:"base_alpha"`
}

// InteractionConfig holds pointer handling parameters.
type InteractionConfig struct {
	DragThresholdPx float32 `yaml:"drag_threshold_px"`
}

// ColorConfig is one palette entry assigned to categories in first-seen
// order; categories beyond the palette wrap around.
type ColorConfig struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// TelemetryConfig holds perf collection settings.
type TelemetryConfig struct {
	WindowFrames int `yaml:"window_frames"`
}

var current *Config

// Init loads configuration from the given path, falling back to the
// embedded defaults when path is empty. Must be called before Cfg.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	current = cfg
	return nil
}

// Cfg returns the loaded configuration. Panics if Init was not called.
func Cfg() *Config {
	if current == nil {
		panic("config: Cfg called before Init")
	}
	return current
}

// Load parses defaults and then overlays the YAML file at path, if any.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks parameter ranges that would otherwise fail silently at
// render time.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("config: screen dimensions must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Camera.FlyDamping <= 0 || c.Camera.FlyDamping >= 1 {
		return fmt.Errorf("config: camera.fly_damping must be in (0,1), got %f", c.Camera.FlyDamping)
	}
	if c.Camera.Epsilon <= 0 {
		return fmt.Errorf("config: camera.epsilon must be positive, got %f", c.Camera.Epsilon)
	}
	if c.Sizing.Exponent <= 0 {
		return fmt.Errorf("config: sizing.exponent must be positive, got %f", c.Sizing.Exponent)
	}
	if c.Overlays.NeighborCap <= 0 {
		return fmt.Errorf("config: overlays.neighbor_cap must be positive, got %d", c.Overlays.NeighborCap)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("config: palette must not be empty")
	}
	return nil
}

// WriteYAML saves the configuration to a file for experiment provenance.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
