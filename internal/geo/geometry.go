// Package geo holds the geometry records captured on the map surface
// and the conversions between them and their wire formats.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Type names a geometry variant. Values match GeoJSON type names.
type Type string

const (
	TypePoint      Type = "Point"
	TypeLineString Type = "LineString"
	TypePolygon    Type = "Polygon"
)

// Minimum vertex counts per variant. A polygon ring counts its closing point.
const (
	MinLineVertices = 2
	MinRingVertices = 4
)

var (
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
	ErrTooFewVertices      = errors.New("too few vertices")
	ErrRingNotClosed       = errors.New("polygon ring is not closed")
	ErrNonFinite           = errors.New("coordinate is not finite")
)

// Record is a single drawn geometry in the surface's projected units.
// Geometry is always one of orb.Point, orb.LineString or orb.Polygon
// and agrees with Type.
type Record struct {
	Type     Type
	Geometry orb.Geometry
}

// NewPoint builds a Point record.
func NewPoint(p orb.Point) Record {
	return Record{Type: TypePoint, Geometry: p}
}

// NewLineString builds a LineString record.
func NewLineString(ls orb.LineString) Record {
	return Record{Type: TypeLineString, Geometry: ls}
}

// NewPolygon builds a Polygon record from a single outer ring.
func NewPolygon(ring orb.Ring) Record {
	return Record{Type: TypePolygon, Geometry: orb.Polygon{ring}}
}

// FromGeometry wraps an orb geometry into a record.
// MultiPoint, MultiPolygon and other orb types are not accepted.
func FromGeometry(g orb.Geometry) (Record, error) {
	switch v := g.(type) {
	case orb.Point:
		return NewPoint(v), nil
	case orb.LineString:
		return NewLineString(v), nil
	case orb.Polygon:
		return Record{Type: TypePolygon, Geometry: v}, nil
	case nil:
		return Record{}, fmt.Errorf("%w: empty geometry", ErrUnsupportedGeometry)
	default:
		return Record{}, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
}

// Validate checks that the record is structurally valid for its variant.
func (r Record) Validate() error {
	switch r.Type {
	case TypePoint:
		p, ok := r.Geometry.(orb.Point)
		if !ok {
			return fmt.Errorf("%w: point record holds %T", ErrUnsupportedGeometry, r.Geometry)
		}
		return checkFinite(p)

	case TypeLineString:
		ls, ok := r.Geometry.(orb.LineString)
		if !ok {
			return fmt.Errorf("%w: line record holds %T", ErrUnsupportedGeometry, r.Geometry)
		}
		if len(ls) < MinLineVertices {
			return fmt.Errorf("%w: line has %d, need %d", ErrTooFewVertices, len(ls), MinLineVertices)
		}
		return checkFinite(ls...)

	case TypePolygon:
		poly, ok := r.Geometry.(orb.Polygon)
		if !ok {
			return fmt.Errorf("%w: polygon record holds %T", ErrUnsupportedGeometry, r.Geometry)
		}
		// holes cannot be drawn in a single capture session
		if len(poly) != 1 {
			return fmt.Errorf("%w: polygon has %d rings, need exactly 1", ErrUnsupportedGeometry, len(poly))
		}
		ring := poly[0]
		if len(ring) < MinRingVertices {
			return fmt.Errorf("%w: ring has %d, need %d", ErrTooFewVertices, len(ring), MinRingVertices)
		}
		if err := checkFinite(ring...); err != nil {
			return err
		}
		if !ring.Closed() {
			return ErrRingNotClosed
		}
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnsupportedGeometry, string(r.Type))
}

func checkFinite(pts ...orb.Point) error {
	for i, p := range pts {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: vertex %d is %v", ErrNonFinite, i, p)
			}
		}
	}
	return nil
}

// Ring returns the outer ring of a polygon record.
func (r Record) Ring() (orb.Ring, bool) {
	poly, ok := r.Geometry.(orb.Polygon)
	if !ok || len(poly) == 0 {
		return nil, false
	}
	return poly[0], true
}
