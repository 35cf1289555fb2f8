// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/dzmeasure/internal/draw"
	"github.com/woozymasta/dzmeasure/internal/geo"
	"github.com/woozymasta/dzmeasure/internal/measure"
	"github.com/woozymasta/dzmeasure/internal/overlay"
	"github.com/woozymasta/dzmeasure/internal/surface"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// Routes registers all handlers on a new mux.
func (s *ServerContext) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.HandleConfig)
	mux.HandleFunc("/api/state", s.HandleState)
	mux.HandleFunc("/api/mode", s.HandleMode)
	mux.HandleFunc("/api/ready", s.HandleReady)
	mux.HandleFunc("/api/capture", s.HandleCapture)
	mux.HandleFunc("/api/modify", s.HandleModify)
	mux.HandleFunc("/api/reset", s.HandleReset)
	mux.HandleFunc("/api/feature", s.HandleFeature)
	mux.HandleFunc("/api/overlay.webp", s.HandleOverlay)
	mux.HandleFunc("/favicon.svg", s.HandleFavicon)
	mux.HandleFunc("/", s.HandleIndex)

	return mux
}

// HandleConfig serves the map view settings for the page.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.Config)
}

// HandleState serves the current workspace state.
func (s *ServerContext) HandleState(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	s.dispatch(w, r, func() error { return nil })
}

// HandleMode selects a draw mode, arming a new capture session.
func (s *ServerContext) HandleMode(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Mode string `json:"mode"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, err := draw.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.dispatch(w, r, func() error { return s.Controller.SelectMode(mode) })
}

// HandleReady confirms that the page armed its draw interaction.
func (s *ServerContext) HandleReady(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Session draw.Session `json:"session"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.dispatch(w, r, func() error { return s.Controller.AdapterReady(req.Session) })
}

// HandleCapture receives a finished drawing from the page.
func (s *ServerContext) HandleCapture(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.dispatch(w, r, func() error {
		session, rec, err := s.Surface.Capture(body)
		if err != nil {
			return err
		}
		if err := s.Controller.CaptureComplete(session, rec); err != nil {
			return err
		}
		s.Surface.Release(session)
		return nil
	})
}

// HandleModify receives a vertex edit of the active annotation.
func (s *ServerContext) HandleModify(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.dispatch(w, r, func() error {
		rec, err := s.Surface.Modify(body)
		if err != nil {
			return err
		}
		return s.Controller.Reshape(rec)
	})
}

// HandleReset clears the workspace.
func (s *ServerContext) HandleReset(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.dispatch(w, r, func() error {
		s.Controller.Reset()
		return nil
	})
}

// HandleFeature exports the active annotation as GeoJSON.
func (s *ServerContext) HandleFeature(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	var data []byte
	var found bool
	var encErr error
	err := s.Loop.Do(r.Context(), func() {
		f, ok := s.Store.Feature()
		if !ok {
			return
		}
		found = true
		data, encErr = json.Marshal(f)
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, draw.ErrNoAnnotation)
		return
	}
	if encErr != nil {
		writeError(w, http.StatusInternalServerError, encErr)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

// HandleOverlay renders the active annotation for a bbox as a WebP image.
// An empty workspace yields a transparent image.
func (s *ServerContext) HandleOverlay(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	bound, err := geo.ParseBound(q.Get("bbox"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := overlay.Options{
		Size:        s.Config.Overlay.Size,
		Supersample: s.Config.Overlay.Supersample,
		Quality:     s.Config.Overlay.Quality,
		Lossless:    s.Config.Overlay.Lossless,
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 || size > s.Config.Overlay.MaxSize {
			writeError(w, http.StatusBadRequest, fmt.Errorf("size must be 1..%d", s.Config.Overlay.MaxSize))
			return
		}
		opts.Size = size
	}

	var rec *geo.Record
	err = s.Loop.Do(r.Context(), func() {
		if cur, ok := s.Store.Current(); ok {
			rec = &cur
		}
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := overlay.Encode(&buf, overlay.Render(rec, bound, opts), opts); err != nil {
		log.Error().Err(err).Msg("Failed to encode overlay")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// HandleFavicon serves the site icon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Page.Favicon)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.Page.Index))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.Page.Index)
}

// dispatch runs fn on the draw loop and replies with the resulting state.
func (s *ServerContext) dispatch(w http.ResponseWriter, r *http.Request, fn func() error) {
	var state State
	var evErr error

	err := s.Loop.Do(r.Context(), func() {
		evErr = fn()
		state = s.snapshot()
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if evErr != nil {
		writeError(w, statusFor(evErr), evErr)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, draw.ErrUnknownMode), errors.Is(err, surface.ErrBadEvent):
		return http.StatusBadRequest
	case errors.Is(err, draw.ErrModeMismatch),
		errors.Is(err, draw.ErrStaleSession),
		errors.Is(err, draw.ErrUnexpectedEvent),
		errors.Is(err, draw.ErrNoAnnotation),
		errors.Is(err, measure.ErrPrecondition):
		return http.StatusConflict
	case errors.Is(err, draw.ErrLoopStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
