package motion

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// LocomotionProfile is the read-only set of base clips and named actions a
// character blends between. Clips order is the order of every weight vector.
type LocomotionProfile struct {
	Name    string
	Joints  []string
	Clips   []*MotionClip
	Actions []ActionClip
}

func (p *LocomotionProfile) Validate() error {
	if p == nil || len(p.Clips) == 0 {
		return ErrNoClips
	}
	seen := make(map[string]bool, len(p.Clips))
	idle := 0
	for _, c := range p.Clips {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("motion: profile %q: %w", p.Name, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: clip %q in profile %q", ErrDuplicateName, c.Name, p.Name)
		}
		seen[c.Name] = true
		if c.IsIdle() {
			idle++
		}
	}
	if idle > 1 {
		return fmt.Errorf("%w: profile %q", ErrDuplicateIdle, p.Name)
	}

	actions := make(map[string]bool, len(p.Actions))
	for _, a := range p.Actions {
		if err := a.Clip.Validate(); err != nil {
			return fmt.Errorf("motion: profile %q action %q: %w", p.Name, a.Name, err)
		}
		if actions[a.Name] {
			return fmt.Errorf("%w: action %q in profile %q", ErrDuplicateName, a.Name, p.Name)
		}
		actions[a.Name] = true
	}
	return nil
}

// Points returns the reference points, parallel to Clips.
func (p *LocomotionProfile) Points() []mgl64.Vec2 {
	if p == nil {
		return nil
	}
	out := make([]mgl64.Vec2, len(p.Clips))
	for i, c := range p.Clips {
		out[i] = c.Point
	}
	return out
}

// Idle returns the clip at the origin, if the profile has one.
func (p *LocomotionProfile) Idle() (*MotionClip, bool) {
	if p == nil {
		return nil, false
	}
	for _, c := range p.Clips {
		if c.IsIdle() {
			return c, true
		}
	}
	return nil, false
}

func (p *LocomotionProfile) Action(name string) (ActionClip, bool) {
	if p == nil {
		return ActionClip{}, false
	}
	for _, a := range p.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionClip{}, false
}

func (p *LocomotionProfile) Clip(name string) (*MotionClip, bool) {
	if p == nil {
		return nil, false
	}
	for _, c := range p.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
