package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/ecs/entity"
	"github.com/milk9111/stride/ecs/system"
	"github.com/milk9111/stride/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Options struct {
	Viewer string
	Debug  bool
	Scrub  bool
	Watch  bool
}

type Game struct {
	frames  int
	world   *ecs.World
	watcher *prefabs.Watcher
}

func NewGame(opts Options) (*Game, error) {
	w := ecs.NewWorld()
	v, err := entity.NewViewer(w, opts.Viewer, baseWidth, baseHeight)
	if err != nil {
		return nil, err
	}
	if scene, ok := ecs.Get(w, v.Scene, component.SceneComponent.Kind()); ok {
		scene.Debug = opts.Debug
	}
	if clock, ok := ecs.Get(w, v.Clock, component.ClockComponent.Kind()); ok {
		clock.DT = 1.0 / float64(ebiten.DefaultTPS)
		clock.Scrubbing = opts.Scrub
	}

	g := &Game{world: w}
	if opts.Watch {
		watcher, err := prefabs.NewWatcher(prefabs.DiskRoot, filepath.Join(prefabs.DiskRoot, "scripts"))
		if err != nil {
			log.Printf("Game: not watching %s: %v", prefabs.DiskRoot, err)
		} else {
			g.watcher = watcher
			w.AddSystem(system.NewReloadSystem(watcher.Events))
		}
	}

	w.AddSystem(system.NewInputSystem())
	w.AddSystem(system.NewClockSystem())
	w.AddSystem(system.NewDirectorSystem())
	w.AddSystem(system.NewLocomotionSystem())
	w.AddSystem(system.NewCameraSystem())
	w.AddSystem(system.NewRenderSystem())
	w.AddSystem(system.NewOverlaySystem())
	return g, nil
}

func (g *Game) Update() error {
	g.frames++
	if g.watcher != nil {
		select {
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("Game: watcher: %v", err)
			}
		default:
		}
	}
	g.world.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  (F1: debug)", ebiten.ActualFPS()), 8, baseHeight-20)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// Close stops watching prefabs.
func (g *Game) Close() {
	if g == nil || g.watcher == nil {
		return
	}
	if err := g.watcher.Close(); err != nil {
		log.Printf("Game: close watcher: %v", err)
	}
}
