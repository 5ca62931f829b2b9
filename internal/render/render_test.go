package render

import (
	"os"
	"path/filepath"
	"testing"

	"patch-router/internal/patch"
	"patch-router/internal/route"
	"patch-router/pkg/geometry"
)

func testPatch(t *testing.T) *patch.Patch {
	t.Helper()
	p := patch.New(route.DefaultOptions())
	src := p.AddObject("osc~ 440", geometry.NewRect(0, 0, 100, 24), 0, 1)
	dst := p.AddObject("dac~", geometry.NewRect(60, 200, 100, 24), 1, 0)
	c, err := p.Connect(src.ID, 0, dst.ID, 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := p.SetSegmented(c.ID, true); err != nil {
		t.Fatalf("segment: %v", err)
	}
	return p
}

func TestRenderSize(t *testing.T) {
	p := testPatch(t)

	img, err := Render(p, 1.0)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b := img.Bounds()
	// Content spans x 0..160, y 0..224, plus 24px padding on each side.
	if b.Dx() != 208 || b.Dy() != 272 {
		t.Errorf("image size = %dx%d, want 208x272", b.Dx(), b.Dy())
	}

	scaled, err := Render(p, 2.0)
	if err != nil {
		t.Fatalf("render scaled: %v", err)
	}
	sb := scaled.Bounds()
	if sb.Dx() != 2*b.Dx() || sb.Dy() != 2*b.Dy() {
		t.Errorf("scaled size = %dx%d, want %dx%d", sb.Dx(), sb.Dy(), 2*b.Dx(), 2*b.Dy())
	}
}

func TestRenderEmptyPatchHasFallbackCanvas(t *testing.T) {
	p := patch.New(route.DefaultOptions())
	img, err := Render(p, 1.0)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img.Bounds().Dx() < 100 || img.Bounds().Dy() < 100 {
		t.Errorf("empty patch canvas too small: %v", img.Bounds())
	}
}

func TestRenderRejectsCollapsedScale(t *testing.T) {
	p := testPatch(t)
	img, err := Render(p, -3)
	if err != nil {
		t.Fatalf("negative scale should fall back to 1.0, got %v", err)
	}
	if img.Bounds().Dx() == 0 {
		t.Error("fallback scale produced an empty image")
	}
}

func TestSavePNG(t *testing.T) {
	p := testPatch(t)
	path := filepath.Join(t.TempDir(), "out.png")

	if err := SavePNG(p, path, 1.0); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("wrote an empty PNG")
	}
}
