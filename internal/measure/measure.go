// Package measure derives a scalar measurement from a drawn geometry.
package measure

import (
	"errors"
	"fmt"
	"math"

	"github.com/woozymasta/dzmeasure/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrPrecondition wraps geometry validation failures. The capture surface
// must never emit such records, so seeing it means an integration bug.
var ErrPrecondition = errors.New("measure precondition violated")

// Kind is the measurement variant.
type Kind uint8

const (
	None Kind = iota
	Length
	Area
)

// Measurement is a value derived from the active annotation.
// It is recomputed on every completion and never stored on its own.
type Measurement struct {
	Kind  Kind
	Value float64
}

// Unit returns the unit label for the measurement kind.
func (m Measurement) Unit() string {
	switch m.Kind {
	case Length:
		return "meters"
	case Area:
		return "square meters"
	}
	return ""
}

// String renders the text shown to the user, empty for None.
func (m Measurement) String() string {
	switch m.Kind {
	case Length:
		return fmt.Sprintf("Length: %.2f %s", m.Value, m.Unit())
	case Area:
		return fmt.Sprintf("Area: %.2f %s", m.Value, m.Unit())
	}
	return ""
}

// KindName is the lowercase label used in JSON and YAML output.
func (m Measurement) KindName() string {
	switch m.Kind {
	case Length:
		return "length"
	case Area:
		return "area"
	}
	return "none"
}

// Measure computes the measurement for rec:
// polygons give the unsigned planar area of the outer ring,
// lines their cumulative length and points nothing.
func Measure(rec geo.Record) (Measurement, error) {
	if err := rec.Validate(); err != nil {
		return Measurement{}, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}

	switch rec.Type {
	case geo.TypePolygon:
		ring, _ := rec.Ring()
		return Measurement{Kind: Area, Value: RingArea(ring)}, nil

	case geo.TypeLineString:
		return Measurement{Kind: Length, Value: planar.Length(rec.Geometry)}, nil
	}

	return Measurement{Kind: None}, nil
}

// RingArea is the shoelace area of a closed ring, always non-negative.
// Degenerate rings (collinear or self-touching) yield 0.
// Non-finite coordinates are rejected by Validate before this runs.
func RingArea(ring orb.Ring) float64 {
	return math.Abs(planar.Area(ring))
}
