package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/stride/prefabs"
)

func main() {
	viewerName := flag.String("viewer", "viewer.yaml", "viewer spec in prefabs/")
	prefabsDir := flag.String("prefabs", "prefabs", "directory to read and watch prefab overrides from")
	debug := flag.Bool("debug", false, "start with the debug overlay on")
	scrub := flag.Bool("scrub", false, "start in timeline scrub mode")
	watch := flag.Bool("watch", true, "reload prefabs when they change on disk")
	flag.Parse()

	prefabs.DiskRoot = *prefabsDir

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("stride")

	game, err := NewGame(Options{
		Viewer: *viewerName,
		Debug:  *debug,
		Scrub:  *scrub,
		Watch:  *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
