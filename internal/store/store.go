// Package store keeps the single active annotation of the workspace.
//
// The workspace holds at most one drawn geometry at a time. Setting a new
// one discards the previous one entirely; this is the contract of the
// store, not a limitation to be lifted.
package store

import (
	"github.com/woozymasta/dzmeasure/internal/geo"
	"github.com/woozymasta/dzmeasure/internal/measure"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// OverlayClearer removes rendered geometry from the map surface.
type OverlayClearer interface {
	ClearOverlay()
}

// Store holds zero or one annotation. It is not safe for concurrent use;
// callers serialize access through the draw loop.
type Store struct {
	overlay OverlayClearer
	active  *geo.Record
}

// New returns an empty store. overlay may be nil.
func New(overlay OverlayClearer) *Store {
	return &Store{overlay: overlay}
}

// Clear drops the held annotation and clears the surface overlay.
// Calling it on an empty store is a no-op for the slot.
func (s *Store) Clear() {
	if s.active != nil {
		log.Debug().Str("type", string(s.active.Type)).Msg("Active annotation cleared")
	}
	s.active = nil

	if s.overlay != nil {
		s.overlay.ClearOverlay()
	}
}

// Set replaces any held annotation with a copy of rec.
// The overlay is left alone: the surface already shows what was drawn.
func (s *Store) Set(rec geo.Record) {
	rec.Geometry = orb.Clone(rec.Geometry)
	s.active = &rec
}

// Current returns a copy of the active annotation, if any.
func (s *Store) Current() (geo.Record, bool) {
	if s.active == nil {
		return geo.Record{}, false
	}
	rec := *s.active
	rec.Geometry = orb.Clone(rec.Geometry)
	return rec, true
}

// Feature exports the active annotation as GeoJSON with its measurement.
func (s *Store) Feature() (*geojson.Feature, bool) {
	rec, ok := s.Current()
	if !ok {
		return nil, false
	}

	props := map[string]interface{}{}
	if m, err := measure.Measure(rec); err == nil && m.Kind != measure.None {
		props["measurement"] = m.KindName()
		props["value"] = m.Value
		props["unit"] = m.Unit()
		props["text"] = m.String()
	}

	return rec.Feature(props), true
}
