package system

import (
	"log"

	"github.com/milk9111/stride/director"
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/prefabs"
)

// ReloadSystem applies prefab changes reported by a watcher. Each change is
// rebuilt from disk; a change that fails to load is logged and the running
// state is kept.
type ReloadSystem struct {
	changes <-chan prefabs.Change
}

func NewReloadSystem(changes <-chan prefabs.Change) *ReloadSystem {
	return &ReloadSystem{changes: changes}
}

func (r *ReloadSystem) Update(w *ecs.World) {
	if r == nil || r.changes == nil || w == nil {
		return
	}
	for {
		select {
		case change, ok := <-r.changes:
			if !ok {
				r.changes = nil
				return
			}
			r.apply(w, change)
		default:
			return
		}
	}
}

func (r *ReloadSystem) apply(w *ecs.World, change prefabs.Change) {
	switch change.Kind {
	case prefabs.ScriptChanged:
		reloadScript(w, change.Name)
	case prefabs.SpecChanged:
		reloadProfile(w, change.Name)
		reloadFootIK(w, change.Name)
		reloadViewer(w, change.Name)
	}
}

func reloadProfile(w *ecs.World, name string) {
	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		if ch.ProfileName != name {
			return
		}
		profile, err := prefabs.LoadProfile(name)
		if err != nil {
			log.Printf("ReloadSystem: profile %s: %v", name, err)
			return
		}
		if err := ch.Controller.SetProfile(profile); err != nil {
			log.Printf("ReloadSystem: profile %s: %v", name, err)
			return
		}
		log.Printf("ReloadSystem: reloaded profile %s for %s", name, ch.Name)
	})
}

func reloadFootIK(w *ecs.World, name string) {
	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		if ch.FootIKName != name || ch.Feet == nil {
			return
		}
		spec, err := prefabs.LoadFootIKSpec(name)
		if err != nil {
			log.Printf("ReloadSystem: foot ik %s: %v", name, err)
			return
		}
		cfg, err := spec.Config()
		if err == nil {
			err = ch.Feet.SetConfig(cfg)
		}
		if err != nil {
			log.Printf("ReloadSystem: foot ik %s: %v", name, err)
			return
		}
		log.Printf("ReloadSystem: reloaded foot ik %s for %s", name, ch.Name)
	})
}

// reloadViewer rebuilds terrain, colours and timelines. Profile and script
// names in the viewer file are only read at startup.
func reloadViewer(w *ecs.World, name string) {
	scene, ok := singleton(w, component.SceneComponent)
	if !ok || scene.ViewerName != name {
		return
	}
	spec, err := prefabs.LoadViewerSpec(name)
	if err != nil {
		log.Printf("ReloadSystem: viewer %s: %v", name, err)
		return
	}
	tl, err := prefabs.BuildTimeline(spec.Timeline)
	if err != nil {
		log.Printf("ReloadSystem: viewer %s: %v", name, err)
		return
	}

	scene.Terrain = prefabs.BuildTerrain(spec.Ground)
	ApplyColors(scene, spec.Colors)

	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		if ch.Feet != nil {
			ch.Feet.SetGround(scene.Terrain)
		}
		if cur, ok := ecs.Get(w, e, component.TimelineComponent.Kind()); ok {
			if err := tl.Validate(ch.Controller.Profile()); err != nil {
				log.Printf("ReloadSystem: viewer %s timeline: %v", name, err)
				return
			}
			cur.Timeline = tl
		}
	})
	log.Printf("ReloadSystem: reloaded viewer %s", name)
}

func reloadScript(w *ecs.World, name string) {
	ecs.ForEach(w, component.DirectorComponent.Kind(), func(e ecs.Entity, dir *component.Director) {
		if dir.Script != name {
			return
		}
		rt, err := director.Load(name)
		if err != nil {
			log.Printf("ReloadSystem: script %s: %v", name, err)
			return
		}
		dir.Runtime = rt
		dir.Failed = false
		log.Printf("ReloadSystem: reloaded script %s", name)
	})
}
