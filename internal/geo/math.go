package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Viewport maps projected coordinates onto a pixel grid of Width x Height.
// Projected Y grows north while pixel Y grows down, so Y is flipped.
type Viewport struct {
	Bound  orb.Bound
	Width  int
	Height int
}

// ToPixel converts a projected coordinate to pixel space.
func (v Viewport) ToPixel(p orb.Point) (x, y float32) {
	spanX := v.Bound.Max.X() - v.Bound.Min.X()
	spanY := v.Bound.Max.Y() - v.Bound.Min.Y()
	if spanX == 0 || spanY == 0 {
		return 0, 0
	}

	// x: [minX..maxX] -> [0..width]
	px := (p.X() - v.Bound.Min.X()) / spanX * float64(v.Width)
	// y: [minY..maxY] -> [height..0]
	py := (v.Bound.Max.Y() - p.Y()) / spanY * float64(v.Height)

	return float32(px), float32(py)
}

// ParseBound parses "minx,miny,maxx,maxy" as used by the overlay endpoint.
func ParseBound(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox needs 4 values, got %d", len(parts))
	}

	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox value %d: %w", i, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return orb.Bound{}, fmt.Errorf("bbox value %d is not finite", i)
		}
		vals[i] = f
	}

	b := orb.Bound{
		Min: orb.Point{vals[0], vals[1]},
		Max: orb.Point{vals[2], vals[3]},
	}
	if b.Min.X() >= b.Max.X() || b.Min.Y() >= b.Max.Y() {
		return orb.Bound{}, errors.New("bbox min must be below max")
	}

	return b, nil
}
