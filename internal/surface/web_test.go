package surface

import (
	"errors"
	"testing"

	"github.com/woozymasta/dzmeasure/internal/draw"
	"github.com/woozymasta/dzmeasure/internal/geo"
	"github.com/woozymasta/dzmeasure/internal/store"
)

const polygonFeature = `{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,3],[0,3],[0,0]]]},"properties":null}`

func TestWebArmDiscardsPrevious(t *testing.T) {
	w := NewWeb()

	first := w.ArmCapture(draw.ModePolygon)
	second := w.ArmCapture(draw.ModeLineString)
	if first == second || first == 0 || second == 0 {
		t.Fatalf("sessions must be distinct and non-zero: %d, %d", first, second)
	}

	armed, mode := w.Armed()
	if armed != second || mode != draw.ModeLineString {
		t.Errorf("Armed: expected %d/%s, got %d/%s", second, draw.ModeLineString, armed, mode)
	}
}

func TestWebClearOverlayBumpsGeneration(t *testing.T) {
	w := NewWeb()
	before := w.Overlay()
	w.ClearOverlay()
	w.ClearOverlay()
	if w.Overlay() != before+2 {
		t.Errorf("Overlay: expected %d, got %d", before+2, w.Overlay())
	}
}

func TestWebCapture(t *testing.T) {
	w := NewWeb()
	session := w.ArmCapture(draw.ModePolygon)

	got, rec, err := w.Capture([]byte(`{"session":1,"feature":` + polygonFeature + `}`))
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if got != session {
		t.Errorf("session: expected %d, got %d", session, got)
	}
	if rec.Type != geo.TypePolygon {
		t.Errorf("type: expected Polygon, got %s", rec.Type)
	}

	if armed, _ := w.Armed(); armed != session {
		t.Errorf("decoding must not consume the session, armed %d", armed)
	}

	w.Release(session)
	if armed, _ := w.Armed(); armed != 0 {
		t.Errorf("Release must consume the armed session, still %d", armed)
	}
}

func TestWebCaptureErrors(t *testing.T) {
	w := NewWeb()
	w.ArmCapture(draw.ModePolygon)

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"no session", `{"feature":` + polygonFeature + `}`},
		{"no feature", `{"session":1}`},
		{"bad feature", `{"session":1,"feature":{"type":"Feature","geometry":{"type":"MultiPoint","coordinates":[[0,0]]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := w.Capture([]byte(tt.data)); !errors.Is(err, ErrBadEvent) {
				t.Errorf("expected ErrBadEvent, got %v", err)
			}
		})
	}

	if armed, _ := w.Armed(); armed == 0 {
		t.Error("failed decodes must not consume the session")
	}
}

func TestWebModify(t *testing.T) {
	w := NewWeb()
	rec, err := w.Modify([]byte(`{"feature":` + polygonFeature + `}`))
	if err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	if rec.Type != geo.TypePolygon {
		t.Errorf("type: expected Polygon, got %s", rec.Type)
	}

	if _, err := w.Modify([]byte(`{}`)); !errors.Is(err, ErrBadEvent) {
		t.Errorf("empty modify: expected ErrBadEvent, got %v", err)
	}
}

// The web surface drives the controller the same way the page does.
func TestWebWithController(t *testing.T) {
	w := NewWeb()
	display := &draw.TextDisplay{}
	ctrl := draw.NewController(w, store.New(w), display)

	if err := ctrl.SelectMode(draw.ModePolygon); err != nil {
		t.Fatal(err)
	}
	if w.Overlay() != 1 {
		t.Errorf("mode selection must clear the overlay once, got %d", w.Overlay())
	}
	session, _ := w.Armed()
	if err := ctrl.AdapterReady(session); err != nil {
		t.Fatal(err)
	}

	got, rec, err := w.Capture([]byte(`{"session":1,"feature":` + polygonFeature + `}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := ctrl.CaptureComplete(got, rec); err != nil {
		t.Fatal(err)
	}
	if display.Text() != "Area: 12.00 square meters" {
		t.Errorf("display: unexpected %q", display.Text())
	}
}

func TestMemory(t *testing.T) {
	m := &Memory{}
	s1 := m.ArmCapture(draw.ModePoint)
	s2 := m.ArmCapture(draw.ModePolygon)
	m.ClearOverlay()

	if s1 == s2 || m.Session() != s2 {
		t.Errorf("sessions: %d, %d, current %d", s1, s2, m.Session())
	}
	if len(m.Armed) != 2 || m.Clears != 1 {
		t.Errorf("recorded: armed %v, clears %d", m.Armed, m.Clears)
	}
}
