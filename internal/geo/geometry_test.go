package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want error
	}{
		{"point", NewPoint(orb.Point{1, 2}), nil},
		{"line", NewLineString(orb.LineString{{0, 0}, {1, 1}}), nil},
		{"polygon", NewPolygon(orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}), nil},
		{"short line", NewLineString(orb.LineString{{0, 0}}), ErrTooFewVertices},
		{"empty line", NewLineString(nil), ErrTooFewVertices},
		{"short ring", NewPolygon(orb.Ring{{0, 0}, {1, 0}, {0, 0}}), ErrTooFewVertices},
		{"open ring", NewPolygon(orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}), ErrRingNotClosed},
		{"polygon with hole", Record{Type: TypePolygon, Geometry: orb.Polygon{
			{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
			{{1, 1}, {2, 1}, {2, 2}, {1, 1}},
		}}, ErrUnsupportedGeometry},
		{"nan point", NewPoint(orb.Point{math.NaN(), 0}), ErrNonFinite},
		{"inf line vertex", NewLineString(orb.LineString{{0, 0}, {math.Inf(1), 1}}), ErrNonFinite},
		{"nan ring vertex", NewPolygon(orb.Ring{{0, 0}, {1, math.NaN()}, {1, 1}, {0, 0}}), ErrNonFinite},
		{"type mismatch", Record{Type: TypePoint, Geometry: orb.LineString{{0, 0}, {1, 1}}}, ErrUnsupportedGeometry},
		{"unknown type", Record{Type: "MultiPoint", Geometry: orb.MultiPoint{{0, 0}}}, ErrUnsupportedGeometry},
		{"zero", Record{}, ErrUnsupportedGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate failed: unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate failed: expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFromGeometry(t *testing.T) {
	rec, err := FromGeometry(orb.LineString{{0, 0}, {3, 4}})
	if err != nil {
		t.Fatalf("FromGeometry failed: %v", err)
	}
	if rec.Type != TypeLineString {
		t.Errorf("Type: expected %s, got %s", TypeLineString, rec.Type)
	}

	if _, err := FromGeometry(orb.MultiLineString{}); !errors.Is(err, ErrUnsupportedGeometry) {
		t.Errorf("MultiLineString: expected ErrUnsupportedGeometry, got %v", err)
	}
	if _, err := FromGeometry(nil); !errors.Is(err, ErrUnsupportedGeometry) {
		t.Errorf("nil: expected ErrUnsupportedGeometry, got %v", err)
	}
}

func TestRecordRing(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	got, ok := NewPolygon(ring).Ring()
	if !ok || len(got) != len(ring) {
		t.Fatalf("Ring failed: got %v, %v", got, ok)
	}

	if _, ok := NewPoint(orb.Point{}).Ring(); ok {
		t.Error("Ring on a point must report false")
	}
}

func TestViewportToPixel(t *testing.T) {
	vp := Viewport{
		Bound:  orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 50}},
		Width:  200,
		Height: 100,
	}

	tests := []struct {
		p      orb.Point
		wx, wy float32
	}{
		{orb.Point{0, 0}, 0, 100},
		{orb.Point{100, 50}, 200, 0},
		{orb.Point{50, 25}, 100, 50},
	}

	for _, tt := range tests {
		x, y := vp.ToPixel(tt.p)
		if x != tt.wx || y != tt.wy {
			t.Errorf("ToPixel(%v): expected (%v,%v), got (%v,%v)", tt.p, tt.wx, tt.wy, x, y)
		}
	}
}

func TestParseBound(t *testing.T) {
	b, err := ParseBound("-10, -20,30,40")
	if err != nil {
		t.Fatalf("ParseBound failed: %v", err)
	}
	if b.Min != (orb.Point{-10, -20}) || b.Max != (orb.Point{30, 40}) {
		t.Errorf("ParseBound: unexpected %v", b)
	}

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "5,5,1,1", "0,0,0,10",
		"NaN,NaN,NaN,NaN", "-Inf,-Inf,Inf,Inf", "0,0,10,+Inf", "NaN,0,10,10"} {
		if _, err := ParseBound(bad); err == nil {
			t.Errorf("ParseBound(%q): expected error", bad)
		}
	}
}
