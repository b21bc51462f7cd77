// Package config provides YAML-based configuration loading and feel presets
// for the cropper.
package config

import (
	"errors"
	"fmt"
)

// Config contains all configuration for a crop session.
type Config struct {
	Motion MotionConfig `yaml:"motion"`
	Frame  FrameConfig  `yaml:"frame"`
	Zoom   ZoomConfig   `yaml:"zoom"`
	Input  InputConfig  `yaml:"input"`
}

// MotionConfig defines fling and spring parameters shared by both axes.
type MotionConfig struct {
	Friction       float64 `yaml:"friction"`        // Fling friction, velocity decays as e^(-4.2*friction*t)
	StopVelocity   float64 `yaml:"stop_velocity"`   // Fling settles below this speed
	Stiffness      float64 `yaml:"stiffness"`       // Spring stiffness
	DampingRatio   float64 `yaml:"damping_ratio"`   // Spring damping ratio
	SettleDistance float64 `yaml:"settle_distance"` // Spring settles within this distance of its target
	SettleVelocity float64 `yaml:"settle_velocity"` // ...and below this speed
}

// FrameConfig defines the crop viewport.
type FrameConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	CellAspect float64 `yaml:"cell_aspect"` // Height of a display cell relative to its width
}

// ZoomConfig defines pinch/zoom limits and the scale spring.
type ZoomConfig struct {
	MaxScale      float64 `yaml:"max_scale"`
	Overzoom      float64 `yaml:"overzoom"`
	MinPinchScale float64 `yaml:"min_pinch_scale"`
	Step          float64 `yaml:"step"`
	Stiffness     float64 `yaml:"stiffness"`
	DampingRatio  float64 `yaml:"damping_ratio"`
}

// InputConfig defines keyboard-driven motion.
type InputConfig struct {
	NudgeStep        float64 `yaml:"nudge_step"`
	KeyFlingVelocity float64 `yaml:"key_fling_velocity"`
}

// Validate checks that the configuration describes a motion that converges.
func (c Config) Validate() error {
	var errs []error

	if c.Motion.Friction <= 0 {
		errs = append(errs, fmt.Errorf("motion.friction must be positive, got %v", c.Motion.Friction))
	}
	if c.Motion.StopVelocity <= 0 {
		errs = append(errs, fmt.Errorf("motion.stop_velocity must be positive, got %v", c.Motion.StopVelocity))
	}
	if c.Motion.Stiffness <= 0 {
		errs = append(errs, fmt.Errorf("motion.stiffness must be positive, got %v", c.Motion.Stiffness))
	}
	if c.Motion.DampingRatio <= 0 {
		errs = append(errs, fmt.Errorf("motion.damping_ratio must be positive, got %v", c.Motion.DampingRatio))
	}
	if c.Motion.SettleDistance <= 0 || c.Motion.SettleVelocity <= 0 {
		errs = append(errs, errors.New("motion.settle_distance and motion.settle_velocity must be positive"))
	}
	if c.Frame.Width <= 0 || c.Frame.Height <= 0 {
		errs = append(errs, fmt.Errorf("frame must have a positive size, got %vx%v", c.Frame.Width, c.Frame.Height))
	}
	if c.Frame.CellAspect <= 0 {
		errs = append(errs, fmt.Errorf("frame.cell_aspect must be positive, got %v", c.Frame.CellAspect))
	}
	if c.Zoom.MaxScale <= 1 {
		errs = append(errs, fmt.Errorf("zoom.max_scale must be greater than 1, got %v", c.Zoom.MaxScale))
	}
	if c.Zoom.Overzoom < 1 {
		errs = append(errs, fmt.Errorf("zoom.overzoom must be at least 1, got %v", c.Zoom.Overzoom))
	}
	if c.Zoom.MinPinchScale <= 0 || c.Zoom.MinPinchScale > 1 {
		errs = append(errs, fmt.Errorf("zoom.min_pinch_scale must be in (0, 1], got %v", c.Zoom.MinPinchScale))
	}
	if c.Zoom.Step <= 1 {
		errs = append(errs, fmt.Errorf("zoom.step must be greater than 1, got %v", c.Zoom.Step))
	}
	if c.Zoom.Stiffness <= 0 || c.Zoom.DampingRatio <= 0 {
		errs = append(errs, errors.New("zoom.stiffness and zoom.damping_ratio must be positive"))
	}

	return errors.Join(errs...)
}

// FeelPreset names a bundle of motion tuning.
type FeelPreset string

const (
	FeelSmooth FeelPreset = "smooth"
	FeelSnappy FeelPreset = "snappy"
	FeelBouncy FeelPreset = "bouncy"
	FeelStiff  FeelPreset = "stiff"
)

// ParsePreset validates a preset name. An empty name means no preset.
func ParsePreset(name string) (FeelPreset, error) {
	switch p := FeelPreset(name); p {
	case "", FeelSmooth, FeelSnappy, FeelBouncy, FeelStiff:
		return p, nil
	default:
		return "", fmt.Errorf("unknown preset %q (want smooth, snappy, bouncy or stiff)", name)
	}
}

// ApplyPreset modifies the motion config based on a feel preset.
// FeelSmooth and the empty preset keep the loaded values.
func ApplyPreset(cfg *Config, preset FeelPreset) {
	switch preset {
	case FeelSnappy:
		cfg.Motion.Friction = 1.8
		cfg.Motion.Stiffness = 450
		cfg.Motion.DampingRatio = 1.0
	case FeelBouncy:
		cfg.Motion.Friction = 0.8
		cfg.Motion.Stiffness = 160
		cfg.Motion.DampingRatio = 0.45
		cfg.Zoom.DampingRatio = 0.5
	case FeelStiff:
		cfg.Motion.Friction = 2.5
		cfg.Motion.Stiffness = 300
		cfg.Motion.DampingRatio = 1.6
	}
}
