package config

import (
	_ "embed"
)

//go:embed defaults/cropper.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration.
// It mirrors defaults/cropper.yaml and is used if the embedded file cannot be parsed.
func Default() Config {
	return Config{
		Motion: MotionConfig{
			Friction:       1.1,
			StopVelocity:   1.5,
			Stiffness:      200,
			DampingRatio:   1.0,
			SettleDistance: 0.02,
			SettleVelocity: 0.5,
		},
		Frame: FrameConfig{
			Width:      48,
			Height:     18,
			CellAspect: 2.0,
		},
		Zoom: ZoomConfig{
			MaxScale:      4.0,
			Overzoom:      1.5,
			MinPinchScale: 0.6,
			Step:          1.15,
			Stiffness:     300,
			DampingRatio:  1.0,
		},
		Input: InputConfig{
			NudgeStep:        1.0,
			KeyFlingVelocity: 60,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
