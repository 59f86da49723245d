// Package config loads the demo's startup configuration from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the complete startup configuration. Zero values are never meaningful; start from
// Default and overlay a file with Load.
type Config struct {
	Window     WindowConfig     `yaml:"window" toml:"window"`
	Camera     CameraConfig     `yaml:"camera" toml:"camera"`
	Controller ControllerConfig `yaml:"controller" toml:"controller"`
	Grid       GridConfig       `yaml:"grid" toml:"grid"`
	Renderer   RendererConfig   `yaml:"renderer" toml:"renderer"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// WindowConfig sizes the window. A zero max dimension is unbounded.
type WindowConfig struct {
	Title     string `yaml:"title" toml:"title"`
	Width     int    `yaml:"width" toml:"width"`
	Height    int    `yaml:"height" toml:"height"`
	MinWidth  int    `yaml:"min_width" toml:"min_width"`
	MinHeight int    `yaml:"min_height" toml:"min_height"`
	MaxWidth  int    `yaml:"max_width" toml:"max_width"`
	MaxHeight int    `yaml:"max_height" toml:"max_height"`
}

// CameraConfig is the initial camera pose and projection. FovyDegrees is converted to
// radians when the camera is built.
type CameraConfig struct {
	Eye         [3]float32 `yaml:"eye" toml:"eye"`
	Target      [3]float32 `yaml:"target" toml:"target"`
	Up          [3]float32 `yaml:"up" toml:"up"`
	FovyDegrees float32    `yaml:"fovy_degrees" toml:"fovy_degrees"`
	Near        float32    `yaml:"near" toml:"near"`
	Far         float32    `yaml:"far" toml:"far"`
}

type ControllerConfig struct {
	Speed       float32 `yaml:"speed" toml:"speed"`
	MinDistance float32 `yaml:"min_distance" toml:"min_distance"`
}

type GridConfig struct {
	Rows        int     `yaml:"rows" toml:"rows"`
	Cols        int     `yaml:"cols" toml:"cols"`
	TiltDegrees float32 `yaml:"tilt_degrees" toml:"tilt_degrees"`
	SpinDegrees float32 `yaml:"spin_degrees" toml:"spin_degrees"`
}

// RendererConfig selects presentation and device options.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `yaml:"present_mode" toml:"present_mode"`
	// MSAA is the sample count, 1 or 4.
	MSAA          int  `yaml:"msaa" toml:"msaa"`
	ForceSoftware bool `yaml:"force_software" toml:"force_software"`
	// ValidateShaders compiles the WGSL sources with naga at startup and logs failures.
	ValidateShaders bool `yaml:"validate_shaders" toml:"validate_shaders"`
}

type LogConfig struct {
	// Level is a slog level name: debug, info, warn or error.
	Level   string `yaml:"level" toml:"level"`
	Profile bool   `yaml:"profile" toml:"profile"`
}

// Default returns the configuration the demo runs with when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "oxy-instanced",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 240,
		},
		Camera: CameraConfig{
			Eye:         [3]float32{0, 1, 2},
			Target:      [3]float32{0, 0, 0},
			Up:          [3]float32{0, 1, 0},
			FovyDegrees: 45,
			Near:        0.1,
			Far:         100,
		},
		Controller: ControllerConfig{
			Speed:       0.2,
			MinDistance: 1.0,
		},
		Grid: GridConfig{
			Rows:        10,
			Cols:        10,
			TiltDegrees: 45,
			SpinDegrees: 1,
		},
		Renderer: RendererConfig{
			PresentMode:     "vsync",
			MSAA:            1,
			ValidateShaders: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. The format is chosen by extension: .yaml and .yml
// are YAML, .toml is TOML. Unknown keys are rejected. The result is validated.
//
// Parameters:
//   - path: the configuration file
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over the defaults in the format named by ext (".yaml", ".yml" or ".toml")
// and validates the result.
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// a document with no content decodes to io.EOF and leaves the defaults in place
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("invalid yaml: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("invalid toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
//
// Returns:
//   - error: nil if the configuration is usable, otherwise all problems joined
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.MinWidth < 0 || c.Window.MinHeight < 0 || c.Window.MaxWidth < 0 || c.Window.MaxHeight < 0 {
		errs = append(errs, errors.New("window size limits must not be negative"))
	}
	if c.Camera.Eye == c.Camera.Target {
		errs = append(errs, errors.New("camera eye and target must differ"))
	}
	if c.Camera.Up == [3]float32{} {
		errs = append(errs, errors.New("camera up vector must not be zero"))
	}
	if c.Camera.FovyDegrees <= 0 || c.Camera.FovyDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fovy_degrees must be in (0, 180), got %g", c.Camera.FovyDegrees))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera planes must satisfy 0 < near < far, got near %g far %g", c.Camera.Near, c.Camera.Far))
	}
	if c.Controller.Speed <= 0 {
		errs = append(errs, fmt.Errorf("controller speed must be positive, got %g", c.Controller.Speed))
	}
	if c.Controller.MinDistance <= 0 {
		errs = append(errs, fmt.Errorf("controller min_distance must be positive, got %g", c.Controller.MinDistance))
	}
	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		errs = append(errs, fmt.Errorf("grid dimensions must be positive, got %dx%d", c.Grid.Rows, c.Grid.Cols))
	}
	switch c.Renderer.PresentMode {
	case "vsync", "uncapped":
	default:
		errs = append(errs, fmt.Errorf("renderer present_mode must be vsync or uncapped, got %q", c.Renderer.PresentMode))
	}
	if c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4 {
		errs = append(errs, fmt.Errorf("renderer msaa must be 1 or 4, got %d", c.Renderer.MSAA))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses Level. An empty level is info.
//
// Returns:
//   - slog.Level: the parsed level
//   - error: error if the name is not a slog level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return level, nil
}
