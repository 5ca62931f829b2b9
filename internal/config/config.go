// Package config loads the optional TOML configuration that tunes the
// router, the debounce window, and rendering.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"patch-router/internal/route"
)

// Config holds all tunables. Zero values are replaced by defaults.
type Config struct {
	Routing RoutingConfig `toml:"routing"`
	Updater UpdaterConfig `toml:"updater"`
	Render  RenderConfig  `toml:"render"`
}

// RoutingConfig mirrors route.Options.
type RoutingConfig struct {
	Tolerance         float64 `toml:"tolerance"`
	MinResolution     int     `toml:"min_resolution"`
	MaxResolution     int     `toml:"max_resolution"`
	MaxNodes          int     `toml:"max_nodes"`
	OvershootSteps    int     `toml:"overshoot_steps"`
	MinSearchDistance float64 `toml:"min_search_distance"`
}

// UpdaterConfig tunes the debounced path applier.
type UpdaterConfig struct {
	DebounceMS int `toml:"debounce_ms"`
	QueueSize  int `toml:"queue_size"`
}

// RenderConfig tunes the raster renderer.
type RenderConfig struct {
	Scale float64 `toml:"scale"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	opts := route.DefaultOptions()
	return &Config{
		Routing: RoutingConfig{
			Tolerance:         opts.Tolerance,
			MinResolution:     opts.MinResolution,
			MaxResolution:     opts.MaxResolution,
			MaxNodes:          opts.MaxNodes,
			OvershootSteps:    opts.OvershootSteps,
			MinSearchDistance: opts.MinSearchDistance,
		},
		Updater: UpdaterConfig{DebounceMS: 50, QueueSize: 4096},
		Render:  RenderConfig{Scale: 1.0},
	}
}

// Load reads a TOML config file, filling unset fields from the
// defaults. A missing file is not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Routing.Tolerance <= 0 {
		c.Routing.Tolerance = def.Routing.Tolerance
	}
	if c.Routing.MinResolution <= 0 {
		c.Routing.MinResolution = def.Routing.MinResolution
	}
	if c.Routing.MaxResolution <= 0 {
		c.Routing.MaxResolution = def.Routing.MaxResolution
	}
	if c.Routing.MaxNodes <= 0 {
		c.Routing.MaxNodes = def.Routing.MaxNodes
	}
	if c.Routing.OvershootSteps <= 0 {
		c.Routing.OvershootSteps = def.Routing.OvershootSteps
	}
	if c.Routing.MinSearchDistance <= 0 {
		c.Routing.MinSearchDistance = def.Routing.MinSearchDistance
	}
	if c.Updater.DebounceMS <= 0 {
		c.Updater.DebounceMS = def.Updater.DebounceMS
	}
	if c.Updater.QueueSize <= 0 {
		c.Updater.QueueSize = def.Updater.QueueSize
	}
	if c.Render.Scale <= 0 {
		c.Render.Scale = def.Render.Scale
	}
}

// RouteOptions converts the routing section into route.Options.
func (c *Config) RouteOptions() route.Options {
	return route.Options{
		Tolerance:         c.Routing.Tolerance,
		MinResolution:     c.Routing.MinResolution,
		MaxResolution:     c.Routing.MaxResolution,
		MaxNodes:          c.Routing.MaxNodes,
		OvershootSteps:    c.Routing.OvershootSteps,
		MinSearchDistance: c.Routing.MinSearchDistance,
	}
}

// DebounceInterval returns the updater debounce window.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Updater.DebounceMS) * time.Millisecond
}
