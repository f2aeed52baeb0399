package component

import "github.com/milk9111/stride/timeline"

type Timeline struct {
	Timeline *timeline.Timeline
}

var TimelineComponent = NewComponent[Timeline]()
