package server

import (
	"context"
	"fmt"

	"github.com/woozymasta/dzmeasure/assets"
	"github.com/woozymasta/dzmeasure/internal/config"
	"github.com/woozymasta/dzmeasure/internal/draw"
	"github.com/woozymasta/dzmeasure/internal/store"
	"github.com/woozymasta/dzmeasure/internal/surface"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
// The workspace (store, surface, controller, display) is only touched
// from inside Loop.
type ServerContext struct {
	Config     *config.Config
	Page       *assets.Page
	Loop       *draw.Loop
	Controller *draw.Controller
	Store      *store.Store
	Surface    *surface.Web
	Display    *draw.TextDisplay
}

// State is the workspace snapshot returned to the page.
type State struct {
	State   string       `json:"state"`
	Mode    string       `json:"mode"`
	Session draw.Session `json:"session"`
	Display string       `json:"display"`
	Overlay uint64       `json:"overlay"`
}

// NewServerContext builds the page and wires a fresh workspace.
// The loop must be started with Run before handlers are served.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	page, err := assets.Build(cfg.Title)
	if err != nil {
		return nil, fmt.Errorf("build page: %w", err)
	}

	web := surface.NewWeb()
	st := store.New(web)
	display := &draw.TextDisplay{}

	log.Info().
		Int("page_bytes", len(page.Index)).
		Int("queue", cfg.Queue).
		Msg("Server context initialized")

	return &ServerContext{
		Config:     cfg,
		Page:       page,
		Loop:       draw.NewLoop(cfg.Queue),
		Controller: draw.NewController(web, st, display),
		Store:      st,
		Surface:    web,
		Display:    display,
	}, nil
}

// Run processes workspace events until ctx is done.
func (s *ServerContext) Run(ctx context.Context) {
	s.Loop.Run(ctx)
}

// snapshot must be called from inside the loop.
func (s *ServerContext) snapshot() State {
	st := s.Controller.Status()
	mode := ""
	if st.Mode != draw.ModeNone {
		mode = string(st.Mode)
	}

	return State{
		State:   st.State.String(),
		Mode:    mode,
		Session: st.Session,
		Display: s.Display.Text(),
		Overlay: s.Surface.Overlay(),
	}
}
