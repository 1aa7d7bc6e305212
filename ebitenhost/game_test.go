package ebitenhost

import (
	"testing"

	"github.com/phanxgames/canopy"
)

func TestNewGameDefaults(t *testing.T) {
	g := NewGame(RunConfig{Title: "t"})
	defer g.Surface().Destroy()
	s := g.Surface()
	if s.Width() != 640 || s.Height() != 480 {
		t.Errorf("surface size = %vx%v, want 640x480", s.Width(), s.Height())
	}
	if g.Loop().CurrentTime() != 0 {
		t.Errorf("loop time = %d, want 0", g.Loop().CurrentTime())
	}
	if g.Host() == nil {
		t.Fatal("no host")
	}
}

func TestLayoutResizesSurface(t *testing.T) {
	g := NewGame(RunConfig{Width: 100, Height: 100})
	defer g.Surface().Destroy()
	s := g.Surface()
	sizes := 0
	s.Connect(canopy.EventSize, func(*canopy.EventContext) { sizes++ })

	if w, h := g.Layout(100, 100); w != 100 || h != 100 || sizes != 0 {
		t.Errorf("Layout(100, 100) = %d, %d with %d size events", w, h, sizes)
	}
	if w, h := g.Layout(200, 150); w != 200 || h != 150 || sizes != 1 {
		t.Errorf("Layout(200, 150) = %d, %d with %d size events", w, h, sizes)
	}
}

func TestLayoutHonorsSizingHandlers(t *testing.T) {
	tests := []struct {
		name         string
		handler      func(*canopy.EventContext)
		wantW, wantH int
	}{
		{"refused", func(c *canopy.EventContext) { c.Cancel() }, 100, 100},
		{"clamped", func(c *canopy.EventContext) {
			c.Sizing.Width = min(c.Sizing.Width, 300)
		}, 300, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGame(RunConfig{Width: 100, Height: 100})
			defer g.Surface().Destroy()
			g.Surface().Connect(canopy.EventSizing, tt.handler)
			w, h := g.Layout(500, 400)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Layout = %d, %d, want %d, %d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestInputScriptSnapshotsQueueScreenshots(t *testing.T) {
	script, err := canopy.LoadInputScript([]byte(`{"steps": [{"action": "snapshot", "label": "start"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	g := NewGame(RunConfig{Width: 50, Height: 50})
	defer g.Surface().Destroy()
	g.SetInputScript(script, true)

	script.Step(g.Surface())
	if len(g.screenshots) != 1 || g.screenshots[0] != "start" {
		t.Errorf("screenshots = %v, want [start]", g.screenshots)
	}
	if !script.Done() {
		t.Error("script not done after its only step")
	}
}
