package draw

import "github.com/woozymasta/dzmeasure/internal/measure"

// TextDisplay keeps the last shown measurement as display text.
type TextDisplay struct {
	last measure.Measurement
}

// Show implements Display.
func (d *TextDisplay) Show(m measure.Measurement) {
	d.last = m
}

// Text returns the current display string, empty when nothing is measured.
func (d *TextDisplay) Text() string {
	return d.last.String()
}

// Measurement returns the last shown measurement.
func (d *TextDisplay) Measurement() measure.Measurement {
	return d.last
}
