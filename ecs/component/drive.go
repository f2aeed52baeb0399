package component

import "github.com/go-gl/mathgl/mgl64"

// Drive is the locomotion request for the next tick. Actions are consumed
// by the locomotion system.
type Drive struct {
	Velocity mgl64.Vec2
	Actions  []string
	// Manual hands control to the keyboard and mutes the director.
	Manual bool
}

var DriveComponent = NewComponent[Drive]()
