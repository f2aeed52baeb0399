package footik

// FootPhase labels where a foot is in its contact cycle.
type FootPhase int

const (
	Free FootPhase = iota
	PreContact
	Contact
	Release
)

func (p FootPhase) String() string {
	switch p {
	case Free:
		return "Free"
	case PreContact:
		return "PreContact"
	case Contact:
		return "Contact"
	case Release:
		return "Release"
	default:
		return "Unknown"
	}
}

// Foot identifies a leg.
type Foot int

const (
	Left Foot = iota
	Right
)

func (f Foot) String() string {
	if f == Left {
		return "left"
	}
	return "right"
}

// classify derives the phase from the current and previous magnet weight.
// A flat weight between the thresholds keeps the direction it last had.
func classify(m, prev float64, prevPhase FootPhase, cfg Config) FootPhase {
	switch {
	case m <= cfg.FreeThreshold:
		return Free
	case m >= cfg.ContactThreshold:
		return Contact
	case m > prev:
		return PreContact
	case m < prev:
		return Release
	case prevPhase == PreContact || prevPhase == Free:
		return PreContact
	default:
		return Release
	}
}
