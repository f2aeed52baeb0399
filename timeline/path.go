package timeline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/common"
)

// Path is a polyline travelled at constant speed. Waypoints are planar
// (lateral, forward) coordinates, the same frame as locomotion velocities.
type Path struct {
	Waypoints []mgl64.Vec2
	Speed     float64
}

// Sample is the path state at one instant.
type Sample struct {
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Distance float64
}

// Length is the total polyline length.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.Waypoints); i++ {
		total += p.Waypoints[i].Sub(p.Waypoints[i-1]).Len()
	}
	return total
}

// Duration is the time needed to walk the whole path; 0 for a stationary path.
func (p Path) Duration() float64 {
	if !(p.Speed > 0) {
		return 0
	}
	return p.Length() / p.Speed
}

// Sample returns the state at time t. Before the start and after the end the
// walker stands still at the first or last waypoint.
func (p Path) Sample(t float64) Sample {
	if len(p.Waypoints) == 0 {
		return Sample{}
	}
	first := p.Waypoints[0]
	if len(p.Waypoints) == 1 || !(p.Speed > 0) || !(t > 0) || math.IsNaN(t) {
		return Sample{Position: first}
	}

	remaining := t * p.Speed
	travelled := 0.0
	for i := 1; i < len(p.Waypoints); i++ {
		a, b := p.Waypoints[i-1], p.Waypoints[i]
		seg := b.Sub(a)
		segLen := seg.Len()
		if common.NearZero(segLen) {
			continue
		}
		if remaining < segLen {
			dir := seg.Mul(1 / segLen)
			return Sample{
				Position: a.Add(dir.Mul(remaining)),
				Velocity: dir.Mul(p.Speed),
				Distance: travelled + remaining,
			}
		}
		remaining -= segLen
		travelled += segLen
	}
	return Sample{Position: p.Waypoints[len(p.Waypoints)-1], Distance: travelled}
}
