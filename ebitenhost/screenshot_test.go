package ebitenhost

import (
	"image"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-click", "after-click"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		128, 64, 0, 128,
		255, 0, 0, 255,
		0, 0, 0, 0,
	}
	img := unpremultiply(pixels, 3, 1)
	want := []byte{
		255, 127, 0, 128,
		255, 0, 0, 255,
		0, 0, 0, 0,
	}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Errorf("Pix[%d] = %d, want %d", i, img.Pix[i], want[i])
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	g := NewGame(RunConfig{})
	defer g.Surface().Destroy()
	g.Screenshot("a")
	g.Screenshot("b")
	if len(g.screenshots) != 2 || g.screenshots[0] != "a" || g.screenshots[1] != "b" {
		t.Errorf("queue = %v, want [a b]", g.screenshots)
	}
	if g.cfg.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want screenshots", g.cfg.ScreenshotDir)
	}
}

func TestWritePNGMissingDir(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	if err := writePNG(filepath.Join(t.TempDir(), "out.png"), img); err != nil {
		t.Errorf("writePNG: %v", err)
	}
	if err := writePNG(filepath.Join(t.TempDir(), "missing", "out.png"), img); err == nil {
		t.Error("writePNG into a missing directory succeeded")
	}
}
