package system

import (
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
)

// CameraSystem eases the camera towards the first character's root.
type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if !ecs.IsAlive(w, cs.camEntity) {
		e, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = e
	}
	if !ecs.IsAlive(w, cs.targetEntity) {
		e, ok := ecs.First(w, component.CharacterComponent.Kind())
		if !ok {
			return
		}
		cs.targetEntity = e
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	ch, ok := ecs.Get(w, cs.targetEntity, component.CharacterComponent.Kind())
	if !ok || ch.Skeleton == nil {
		return
	}

	root := ch.Skeleton.Root().Position
	targetX := root.X() + cam.LookOffset
	targetY := root.Y()

	k := cam.Smoothness
	if k <= 0 || k > 1 {
		k = 1
	}
	cam.X += (targetX - cam.X) * k
	cam.Y += (targetY - cam.Y) * k
}
