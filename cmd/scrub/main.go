package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/milk9111/stride/ecs"
	"github.com/milk9111/stride/ecs/component"
	"github.com/milk9111/stride/ecs/entity"
	"github.com/milk9111/stride/ecs/system"
	"github.com/milk9111/stride/locomotion"
	"github.com/milk9111/stride/prefabs"
)

func main() {
	viewerName := flag.String("viewer", "viewer.yaml", "viewer spec in prefabs/")
	prefabsDir := flag.String("prefabs", "prefabs", "directory to read prefab overrides from")
	from := flag.Float64("from", 0, "first timeline time, seconds")
	to := flag.Float64("to", -1, "last timeline time, seconds (default: timeline end)")
	step := flag.Float64("step", 0.25, "time between rows, seconds")
	flag.Parse()

	if *step <= 0 {
		log.Fatalf("scrub: step must be positive, got %v", *step)
	}
	prefabs.DiskRoot = *prefabsDir

	w := ecs.NewWorld()
	v, err := entity.NewViewer(w, *viewerName, 0, 0)
	if err != nil {
		log.Fatal(err)
	}
	clock, _ := ecs.Get(w, v.Clock, component.ClockComponent.Kind())
	ch, _ := ecs.Get(w, v.Character, component.CharacterComponent.Kind())
	tl, _ := ecs.Get(w, v.Character, component.TimelineComponent.Kind())

	end := *to
	if end < 0 {
		end = tl.Timeline.Duration(ch.Controller.Profile())
	}

	loco := system.NewLocomotionSystem()
	clock.Scrubbing = true

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "t\tx\troot y\tblend\taction\tleft\tright\thip")
	for i := 0; ; i++ {
		t := *from + float64(i)**step
		if t > end+1e-9 {
			break
		}
		clock.ScrubTime = t
		loco.Update(w)
		fmt.Fprintln(tw, row(clock.ScrubTime, ch))
	}
	if err := tw.Flush(); err != nil {
		log.Fatal(err)
	}
}

func row(t float64, ch *component.Character) string {
	res := ch.Last
	clips := ch.Controller.Profile().Clips
	var blend []string
	for i, wgt := range res.Weights {
		if wgt > 0.005 && i < len(clips) {
			blend = append(blend, fmt.Sprintf("%s:%.2f", clips[i].Name, wgt))
		}
	}

	action := "-"
	if st := ch.Controller.State(); st.Action != locomotion.ActionNone && st.ActionClip != nil {
		action = fmt.Sprintf("%s:%.2f", st.ActionClip.Name, st.ActionWeight)
	}

	return fmt.Sprintf("%.2f\t%.3f\t%.3f\t%s\t%s\t%.2f %s\t%.2f %s\t%.3f",
		t,
		res.Root.Position.X(),
		res.Root.Position.Y(),
		strings.Join(blend, " "),
		action,
		res.Signals.LeftFoot, res.Feet[0].Phase,
		res.Signals.RightFoot, res.Feet[1].Phase,
		res.Signals.HipOffset,
	)
}
