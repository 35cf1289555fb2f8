// Package draw implements the draw mode state machine that arms capture
// sessions on the map surface and turns finished drawings into measurements.
package draw

import (
	"fmt"
	"strings"

	"github.com/woozymasta/dzmeasure/internal/geo"
)

// Mode selects which geometry type is being captured.
type Mode string

const (
	ModeNone       Mode = ""
	ModePoint      Mode = Mode(geo.TypePoint)
	ModeLineString Mode = Mode(geo.TypeLineString)
	ModePolygon    Mode = Mode(geo.TypePolygon)
)

// Modes lists the selectable modes in UI order.
var Modes = []Mode{ModePolygon, ModePoint, ModeLineString}

// ParseMode accepts GeoJSON type names and a few short aliases, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point", "pin":
		return ModePoint, nil
	case "linestring", "line":
		return ModeLineString, nil
	case "polygon", "area":
		return ModePolygon, nil
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Valid reports whether m can be selected.
func (m Mode) Valid() bool {
	return m == ModePoint || m == ModeLineString || m == ModePolygon
}

// Type is the geometry type a capture in this mode must produce.
func (m Mode) Type() geo.Type {
	return geo.Type(m)
}

// String returns "None" for the empty mode.
func (m Mode) String() string {
	if m == ModeNone {
		return "None"
	}
	return string(m)
}

// State of the controller.
type State uint8

const (
	StateIdle State = iota
	StateArming
	StateCapturing
)

func (s State) String() string {
	switch s {
	case StateArming:
		return "arming"
	case StateCapturing:
		return "capturing"
	}
	return "idle"
}

// Session identifies one armed capture on the surface. Zero means none.
type Session uint64
