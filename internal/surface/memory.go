package surface

import "github.com/woozymasta/dzmeasure/internal/draw"

// Memory is an in-process surface that records what it was asked to do.
type Memory struct {
	Armed   []draw.Mode
	Clears  int
	session draw.Session
}

// ArmCapture implements draw.Surface.
func (m *Memory) ArmCapture(mode draw.Mode) draw.Session {
	m.Armed = append(m.Armed, mode)
	m.session++
	return m.session
}

// ClearOverlay implements draw.Surface.
func (m *Memory) ClearOverlay() {
	m.Clears++
}

// Session returns the most recently armed session.
func (m *Memory) Session() draw.Session {
	return m.session
}
