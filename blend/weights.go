package blend

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/stride/common"
)

// Calculator turns a planar velocity into per-clip blend weights. It caches
// the reference points and their radii; Weights has no other state, so calls
// may happen in any order (including scrubbing backwards).
type Calculator struct {
	points    []mgl64.Vec2
	radii     []float64
	maxRadius float64
	rest      int
}

func NewCalculator(points []mgl64.Vec2) *Calculator {
	c := &Calculator{
		points: append([]mgl64.Vec2(nil), points...),
		radii:  make([]float64, len(points)),
		rest:   -1,
	}
	minRadius := math.Inf(1)
	for i, p := range c.points {
		r := p.Len()
		c.radii[i] = r
		if r > c.maxRadius {
			c.maxRadius = r
		}
		if r < minRadius {
			minRadius = r
			c.rest = i
		}
	}
	return c
}

// Len is the number of reference points.
func (c *Calculator) Len() int {
	if c == nil {
		return 0
	}
	return len(c.points)
}

// Rest returns the index of the point nearest the origin, or -1 when empty.
func (c *Calculator) Rest() int {
	if c == nil {
		return -1
	}
	return c.rest
}

// Weights returns a vector parallel to the reference points whose entries are
// in [0,1] and sum to 1. An empty point list yields an empty vector.
func (c *Calculator) Weights(v mgl64.Vec2) []float64 {
	if c == nil || len(c.points) == 0 {
		return []float64{}
	}
	out := make([]float64, len(c.points))

	speed := v.Len()
	if speed < common.Epsilon {
		out[c.rest] = 1
		return out
	}
	// Only an idle point: nothing to fade toward.
	if c.maxRadius < common.Epsilon {
		out[c.rest] = 1
		return out
	}

	dir := v.Mul(1 / speed)
	sum := 0.0
	for i, p := range c.points {
		pr := c.radii[i]
		if pr < common.Epsilon {
			out[i] = 1 - common.Clamp01(speed/c.maxRadius)
			sum += out[i]
			continue
		}

		angular := math.Max(dir.Dot(p.Mul(1/pr)), 0)
		if angular <= 0 {
			continue
		}
		radial := 1 - common.Clamp01(math.Abs(speed-pr)/c.maxRadius)
		if radial <= 0 {
			continue
		}
		out[i] = angular * radial
		sum += out[i]
	}

	if sum < common.Epsilon {
		for i := range out {
			out[i] = 0
		}
		out[c.nearest(v)] = 1
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func (c *Calculator) nearest(v mgl64.Vec2) int {
	best := 0
	bestDist := math.Inf(1)
	for i, p := range c.points {
		if d := p.Sub(v).Len(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
