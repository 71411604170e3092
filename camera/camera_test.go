package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 800, 600)

	// Should be centered on world
	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("expected camera at (400, 300), got (%f, %f)", cam.X, cam.Y)
	}
	// min(1280/800, 720/600) = 1.2
	if !near(cam.Zoom, 1.2) {
		t.Errorf("expected fit zoom 1.2, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 800, 600)

	sx, sy := cam.WorldToScreen(400, 300)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestWholeWorldFitsAtReset(t *testing.T) {
	cam := New(1280, 720, 800, 600)

	for _, p := range []struct{ x, y float32 }{{0, 0}, {800, 0}, {0, 600}, {800, 600}} {
		sx, sy := cam.WorldToScreen(p.x, p.y)
		if sx < -0.01 || sx > 1280.01 || sy < -0.01 || sy > 720.01 {
			t.Errorf("world corner (%v,%v) maps off screen to (%f,%f)", p.x, p.y, sx, sy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 800, 600)
	cam.SetZoom(2.5)
	cam.Pan(100, -40)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInWorld(t *testing.T) {
	cam := New(1280, 720, 800, 600)

	cam.Pan(-100000, 0)
	if cam.X != 0 {
		t.Errorf("expected X clamped to 0, got %f", cam.X)
	}
	cam.Pan(0, 100000)
	if cam.Y != 600 {
		t.Errorf("expected Y clamped to 600, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 800, 600)

	if !near(cam.MinZoom, 0.6) {
		t.Errorf("expected MinZoom 0.6, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if !near(cam.Zoom, 0.6) {
		t.Errorf("expected zoom clamped to 0.6, got %f", cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1280, 720, 800, 600)

	wx, wy := cam.ScreenToWorld(800, 400)
	cam.ZoomAt(800, 400, 2)
	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 800) || !near(sy, 400) {
		t.Errorf("point under cursor moved to (%f,%f)", sx, sy)
	}
}

func TestResizeRefits(t *testing.T) {
	cam := New(1280, 720, 800, 600)
	cam.Resize(400, 300)

	if !near(cam.FitZoom(), 0.5) {
		t.Errorf("expected fit zoom 0.5, got %f", cam.FitZoom())
	}
	if !near(cam.MinZoom, 0.25) {
		t.Errorf("expected MinZoom 0.25, got %f", cam.MinZoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 800, 600)
	cam.SetZoom(4)

	// Visible half-extents: 160 x 90 around (400, 300)
	if !cam.IsVisible(400, 300, 1) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(700, 300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(565, 300, 10) {
		t.Error("edge point with radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 800, 600)
	cam.X = 50
	cam.Y = 50
	cam.Zoom = 3

	cam.Reset()

	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("expected position (400, 300), got (%f, %f)", cam.X, cam.Y)
	}
	if !near(cam.Zoom, cam.FitZoom()) {
		t.Errorf("expected fit zoom, got %f", cam.Zoom)
	}
}
