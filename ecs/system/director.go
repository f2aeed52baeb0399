package system

import (
	"log"

	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
)

// DirectorSystem steps each character's script at the current clock time
// and turns its command into the character's drive. Manual drives and
// scrubbing mute the script.
type DirectorSystem struct{}

func NewDirectorSystem() *DirectorSystem {
	return &DirectorSystem{}
}

func (d *DirectorSystem) Update(w *ecs.World) {
	clock, ok := singleton(w, component.ClockComponent)
	if !ok || clock.Scrubbing || clock.Paused {
		return
	}

	ecs.ForEach2(w, component.DirectorComponent.Kind(), component.DriveComponent.Kind(), func(e ecs.Entity, dir *component.Director, drive *component.Drive) {
		if dir.Runtime == nil || dir.Failed || drive.Manual {
			return
		}
		cmd, err := dir.Runtime.Step(clock.Time)
		if err != nil {
			log.Printf("DirectorSystem: %s stopped on entity %v: %v", dir.Script, e, err)
			dir.Failed = true
			drive.Velocity = drive.Velocity.Mul(0)
			return
		}
		drive.Velocity = cmd.Velocity
		drive.Actions = append(drive.Actions, cmd.Actions...)
	})
}
