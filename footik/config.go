package footik

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("footik: invalid config")

// Config holds the reconciler's joint names, tuned thresholds and distances.
// Distances are in world units along the character's up axis.
type Config struct {
	LeftFoot  string
	RightFoot string
	Hips      string

	// FreeThreshold: magnet weights at or below this skip IK entirely.
	FreeThreshold float64
	// ContactThreshold: magnet weights at or above this count as planted.
	ContactThreshold float64

	FootHeight       float64
	FootHeightOffset float64

	// RayStartHeight lifts the ray origin above the animated foot so ground
	// slightly above the foot is still found.
	RayStartHeight float64
	// A hit is valid when the ground lies between MinStepHeight and
	// MaxFootAboveGround below the animated foot. A negative MinStepHeight
	// accepts ground above the foot (stepping up).
	MinStepHeight      float64
	MaxFootAboveGround float64

	GlobalWeight float64
}

func DefaultConfig() Config {
	return Config{
		LeftFoot:           "left_foot",
		RightFoot:          "right_foot",
		Hips:               "hips",
		FreeThreshold:      0.001,
		ContactThreshold:   0.95,
		FootHeight:         0.08,
		FootHeightOffset:   0,
		RayStartHeight:     0.5,
		MinStepHeight:      -0.5,
		MaxFootAboveGround: 0.6,
		GlobalWeight:       1,
	}
}

func (c Config) Validate() error {
	if c.LeftFoot == "" && c.RightFoot == "" {
		return fmt.Errorf("%w: no foot joints named", ErrInvalidConfig)
	}
	if c.FreeThreshold < 0 || c.ContactThreshold > 1 || c.FreeThreshold >= c.ContactThreshold {
		return fmt.Errorf("%w: thresholds free=%v contact=%v", ErrInvalidConfig, c.FreeThreshold, c.ContactThreshold)
	}
	if c.MinStepHeight > c.MaxFootAboveGround {
		return fmt.Errorf("%w: min step %v above max foot height %v", ErrInvalidConfig, c.MinStepHeight, c.MaxFootAboveGround)
	}
	if -c.MinStepHeight > c.RayStartHeight {
		return fmt.Errorf("%w: ray starts %v above the foot but steps up to %v are allowed", ErrInvalidConfig, c.RayStartHeight, -c.MinStepHeight)
	}
	if c.GlobalWeight < 0 || c.GlobalWeight > 1 {
		return fmt.Errorf("%w: global weight %v", ErrInvalidConfig, c.GlobalWeight)
	}
	return nil
}
