package system

import (
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
)

// ClockSystem advances simulation time. Time stands still while paused or
// scrubbing; scrub time never goes negative.
type ClockSystem struct{}

func NewClockSystem() *ClockSystem {
	return &ClockSystem{}
}

func (c *ClockSystem) Update(w *ecs.World) {
	clock, ok := singleton(w, component.ClockComponent)
	if !ok {
		return
	}
	if clock.Scrubbing {
		if clock.ScrubTime < 0 {
			clock.ScrubTime = 0
		}
		return
	}
	if clock.Paused || clock.DT <= 0 {
		return
	}
	clock.Time += clock.DT
}
