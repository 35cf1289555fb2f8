// Package surface adapts map rendering surfaces to the draw controller.
//
// The browser page (OpenLayers) does the actual drawing, snapping and
// vertex editing. Web translates its native events into draw sessions
// and geometry records; Memory is an in-process surface for scripted runs.
package surface

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/woozymasta/dzmeasure/internal/draw"
	"github.com/woozymasta/dzmeasure/internal/geo"

	"github.com/rs/zerolog/log"
)

// ErrBadEvent is returned for surface payloads that cannot be decoded.
var ErrBadEvent = errors.New("malformed surface event")

// CaptureEvent is the page's drawend payload.
type CaptureEvent struct {
	Session draw.Session    `json:"session"`
	Feature json.RawMessage `json:"feature"`
}

// ModifyEvent is the page's modifyend payload.
type ModifyEvent struct {
	Feature json.RawMessage `json:"feature"`
}

// Web is the browser surface. The page learns about arm and clear
// requests from the session id and overlay generation in state replies.
// Not safe for concurrent use; it runs on the draw loop with the controller.
type Web struct {
	next    draw.Session
	armed   draw.Session
	mode    draw.Mode
	overlay uint64
}

// NewWeb returns a web surface with nothing armed.
func NewWeb() *Web {
	return &Web{}
}

// ArmCapture implements draw.Surface.
func (w *Web) ArmCapture(mode draw.Mode) draw.Session {
	if w.armed != 0 {
		log.Debug().
			Uint64("session", uint64(w.armed)).
			Str("mode", w.mode.String()).
			Msg("Discarding uncompleted capture session")
	}

	w.next++
	w.armed = w.next
	w.mode = mode

	return w.armed
}

// ClearOverlay implements draw.Surface. The page clears its vector
// source whenever the generation changes.
func (w *Web) ClearOverlay() {
	w.overlay++
}

// Armed returns the armed session and its mode, zero when none.
func (w *Web) Armed() (draw.Session, draw.Mode) {
	return w.armed, w.mode
}

// Overlay returns the overlay generation.
func (w *Web) Overlay() uint64 {
	return w.overlay
}

// Capture decodes a drawend payload.
func (w *Web) Capture(data []byte) (draw.Session, geo.Record, error) {
	var ev CaptureEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return 0, geo.Record{}, fmt.Errorf("%w: %w", ErrBadEvent, err)
	}
	if ev.Session == 0 {
		return 0, geo.Record{}, fmt.Errorf("%w: missing session", ErrBadEvent)
	}
	if len(ev.Feature) == 0 {
		return 0, geo.Record{}, fmt.Errorf("%w: missing feature", ErrBadEvent)
	}

	rec, err := geo.Decode(ev.Feature)
	if err != nil {
		return 0, geo.Record{}, fmt.Errorf("%w: %w", ErrBadEvent, err)
	}

	return ev.Session, rec, nil
}

// Release marks session as completed once the controller accepted it,
// so each session completes at most once on this surface.
func (w *Web) Release(session draw.Session) {
	if session == w.armed {
		w.armed = 0
		w.mode = draw.ModeNone
	}
}

// Modify decodes a modifyend payload.
func (w *Web) Modify(data []byte) (geo.Record, error) {
	var ev ModifyEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return geo.Record{}, fmt.Errorf("%w: %w", ErrBadEvent, err)
	}
	if len(ev.Feature) == 0 {
		return geo.Record{}, fmt.Errorf("%w: missing feature", ErrBadEvent)
	}

	rec, err := geo.Decode(ev.Feature)
	if err != nil {
		return geo.Record{}, fmt.Errorf("%w: %w", ErrBadEvent, err)
	}

	return rec, nil
}
