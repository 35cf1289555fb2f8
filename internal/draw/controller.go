package draw

import (
	"errors"
	"fmt"

	"github.com/woozymasta/dzmeasure/internal/geo"
	"github.com/woozymasta/dzmeasure/internal/measure"
	"github.com/woozymasta/dzmeasure/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownMode     = errors.New("unknown draw mode")
	ErrModeMismatch    = errors.New("capture does not match armed mode")
	ErrStaleSession    = errors.New("capture session is not armed")
	ErrUnexpectedEvent = errors.New("event not valid in current state")
	ErrNoAnnotation    = errors.New("no active annotation")
)

// Surface is the map rendering surface as seen by the controller.
type Surface interface {
	// ArmCapture discards any armed, uncompleted session and starts
	// listening for a geometry of the given mode.
	ArmCapture(mode Mode) Session
	// ClearOverlay removes rendered geometry from the canvas.
	ClearOverlay()
}

// Display receives the measurement text shown to the user.
type Display interface {
	Show(m measure.Measurement)
}

// Status is a read-only snapshot of the controller.
type Status struct {
	State   State
	Mode    Mode
	Session Session
}

// Controller is the draw mode state machine. It is single-threaded:
// run every call through a Loop when events come from several goroutines.
type Controller struct {
	surface Surface
	store   *store.Store
	display Display
	log     zerolog.Logger

	state   State
	mode    Mode
	session Session
}

// NewController wires the controller to its collaborators.
func NewController(surface Surface, st *store.Store, display Display) *Controller {
	return &Controller{
		surface: surface,
		store:   st,
		display: display,
		log:     log.With().Str("component", "draw").Logger(),
	}
}

// Status returns the current state, mode and armed session.
func (c *Controller) Status() Status {
	return Status{State: c.state, Mode: c.mode, Session: c.session}
}

// SelectMode starts a fresh capture for mode from any state.
// The active annotation and the displayed measurement are cleared
// immediately, and any partial capture on the surface is discarded.
func (c *Controller) SelectMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}

	prev := c.state
	c.store.Clear()
	c.display.Show(measure.Measurement{})
	c.session = c.surface.ArmCapture(mode)
	c.state = StateArming
	c.mode = mode

	c.log.Debug().
		Str("mode", mode.String()).
		Str("from", prev.String()).
		Uint64("session", uint64(c.session)).
		Msg("Capture session armed")

	return nil
}

// AdapterReady confirms that the surface has armed session.
func (c *Controller) AdapterReady(session Session) error {
	if c.state != StateArming {
		return c.reject(fmt.Errorf("%w: ready while %s", ErrUnexpectedEvent, c.state), session)
	}
	if session != c.session {
		return c.reject(fmt.Errorf("%w: ready for %d, armed %d", ErrStaleSession, session, c.session), session)
	}

	c.state = StateCapturing
	c.log.Debug().Uint64("session", uint64(session)).Str("mode", c.mode.String()).Msg("Capturing")

	return nil
}

// CaptureComplete accepts the finished geometry of the armed session,
// stores it, measures it and shows the result. Completions that do not
// match the armed session or mode are rejected and leave state untouched.
func (c *Controller) CaptureComplete(session Session, rec geo.Record) error {
	if c.state != StateCapturing {
		return c.reject(fmt.Errorf("%w: capture while %s", ErrUnexpectedEvent, c.state), session)
	}
	if session != c.session {
		return c.reject(fmt.Errorf("%w: capture for %d, armed %d", ErrStaleSession, session, c.session), session)
	}
	if rec.Type != c.mode.Type() {
		return c.reject(fmt.Errorf("%w: got %s, armed %s", ErrModeMismatch, rec.Type, c.mode), session)
	}
	if err := rec.Validate(); err != nil {
		return c.reject(fmt.Errorf("%w: %w", measure.ErrPrecondition, err), session)
	}

	c.store.Set(rec)
	m, err := measure.Measure(rec)
	if err != nil {
		return c.reject(err, session)
	}
	c.display.Show(m)

	c.state = StateIdle
	c.mode = ModeNone
	c.session = 0

	c.log.Info().
		Str("type", string(rec.Type)).
		Str("measurement", m.KindName()).
		Float64("value", m.Value).
		Msg("Capture completed")

	return nil
}

// Reshape replaces the active annotation after a vertex edit on the
// surface and re-measures it. The geometry type cannot change.
func (c *Controller) Reshape(rec geo.Record) error {
	current, ok := c.store.Current()
	if !ok {
		return c.reject(ErrNoAnnotation, 0)
	}
	if rec.Type != current.Type {
		return c.reject(fmt.Errorf("%w: reshape %s into %s", ErrModeMismatch, current.Type, rec.Type), 0)
	}

	m, err := measure.Measure(rec)
	if err != nil {
		return c.reject(err, 0)
	}

	c.store.Set(rec)
	c.display.Show(m)

	c.log.Debug().Str("type", string(rec.Type)).Float64("value", m.Value).Msg("Annotation reshaped")

	return nil
}

// Reset drops the annotation, the armed session and the displayed text.
func (c *Controller) Reset() {
	c.store.Clear()
	c.display.Show(measure.Measurement{})
	c.state = StateIdle
	c.mode = ModeNone
	c.session = 0

	c.log.Debug().Msg("Workspace reset")
}

// reject logs an integration error and returns it to the host.
func (c *Controller) reject(err error, session Session) error {
	c.log.Error().
		Err(err).
		Str("state", c.state.String()).
		Str("mode", c.mode.String()).
		Uint64("armed", uint64(c.session)).
		Uint64("session", uint64(session)).
		Msg("Surface event rejected")

	return err
}
