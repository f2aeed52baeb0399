package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/director"
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/ground"
	"github.com/milk9111/stride/locomotion"
	"github.com/milk9111/stride/prefabs"
	"github.com/milk9111/stride/rig"
)

// CharacterSpec names the prefabs a character is built from.
type CharacterSpec struct {
	Name    string
	Profile string
	FootIK  string
	Script  string
	X       float64
}

// NewCharacter builds a skeleton, reconciler and controller from prefabs and
// attaches them with a drive. A script is optional; without one the drive
// starts in manual mode.
func NewCharacter(w *ecs.World, spec CharacterSpec, g ground.Raycaster) (ecs.Entity, error) {
	profile, err := prefabs.LoadProfile(spec.Profile)
	if err != nil {
		return 0, fmt.Errorf("character: %w", err)
	}

	skel := rig.NewSkeleton(profile.Joints...)
	root := rig.Identity()
	root.Position = mgl64.Vec3{spec.X, 0, 0}
	skel.SetRoot(root)

	feet, err := prefabs.BuildReconciler(spec.FootIK, g)
	if err != nil {
		return 0, fmt.Errorf("character: foot ik %s: %w", spec.FootIK, err)
	}
	ctrl, err := locomotion.NewController(profile, skel, feet)
	if err != nil {
		return 0, fmt.Errorf("character: %w", err)
	}

	name := spec.Name
	if name == "" {
		name = profile.Name
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CharacterComponent.Kind(), &component.Character{
		Name:        name,
		Controller:  ctrl,
		Skeleton:    skel,
		Feet:        feet,
		ProfileName: spec.Profile,
		FootIKName:  spec.FootIK,
		Bones:       component.DefaultBones,
	}); err != nil {
		return 0, fmt.Errorf("character: add character: %w", err)
	}
	if err := ecs.Add(w, e, component.DriveComponent.Kind(), &component.Drive{Manual: spec.Script == ""}); err != nil {
		return 0, fmt.Errorf("character: add drive: %w", err)
	}

	if spec.Script == "" {
		return e, nil
	}
	rt, err := director.Load(spec.Script)
	if err != nil {
		return 0, fmt.Errorf("character: %w", err)
	}
	if err := ecs.Add(w, e, component.DirectorComponent.Kind(), &component.Director{Script: spec.Script, Runtime: rt}); err != nil {
		return 0, fmt.Errorf("character: add director: %w", err)
	}
	return e, nil
}
