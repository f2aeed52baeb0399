package component

// Clock is the simulation time singleton. While Scrubbing, real time stands
// still and characters are posed from their timeline at ScrubTime.
type Clock struct {
	DT        float64
	Time      float64
	Paused    bool
	Scrubbing bool
	ScrubTime float64
	ScrubRate float64
}

var ClockComponent = NewComponent[Clock]()
