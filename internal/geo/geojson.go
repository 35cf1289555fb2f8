package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// ErrEmptyFeature is returned when a GeoJSON payload has no geometry.
var ErrEmptyFeature = errors.New("geojson payload has no geometry")

// Feature wraps the record into a GeoJSON feature with the given properties.
func (r Record) Feature(props map[string]interface{}) *geojson.Feature {
	f := geojson.NewFeature(r.Geometry)
	for k, v := range props {
		f.Properties[k] = v
	}

	return f
}

// DecodeFeature parses a GeoJSON Feature into a record.
// Only the geometry is kept, properties belong to the caller.
func DecodeFeature(data []byte) (Record, geojson.Properties, error) {
	f, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return Record{}, nil, fmt.Errorf("decode feature: %w", err)
	}
	if f.Geometry == nil {
		return Record{}, nil, ErrEmptyFeature
	}

	rec, err := FromGeometry(f.Geometry)
	if err != nil {
		return Record{}, nil, err
	}

	return rec, f.Properties, nil
}

// Decode accepts either a GeoJSON Feature, a FeatureCollection with
// exactly one feature, or a bare Geometry object.
func Decode(data []byte) (Record, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Record{}, fmt.Errorf("decode geojson: %w", err)
	}

	switch probe.Type {
	case "Feature":
		rec, _, err := DecodeFeature(data)
		return rec, err

	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Record{}, fmt.Errorf("decode feature collection: %w", err)
		}
		if len(fc.Features) != 1 {
			return Record{}, fmt.Errorf("feature collection has %d features, need exactly 1", len(fc.Features))
		}
		if fc.Features[0].Geometry == nil {
			return Record{}, ErrEmptyFeature
		}
		return FromGeometry(fc.Features[0].Geometry)

	case "":
		return Record{}, fmt.Errorf("decode geojson: missing type")
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return Record{}, fmt.Errorf("decode geometry: %w", err)
	}

	return FromGeometry(g.Geometry())
}
