// internal/compose/compositor_test.go - Unit tests for raster assembly
package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"ptolemy/internal/bounds"
	"ptolemy/internal/tile"
)

func writeTile(t *testing.T, dir string, a tile.Address, c color.RGBA, size int) *tile.CachedTile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.SetRGBA(x, y, c)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("%d_%d_%d.png", a.Z, a.X, a.Y))
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return &tile.CachedTile{Address: a, Path: path, Status: tile.StatusOK}
}

func TestDrawLayerQuadrants(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	yellow := color.RGBA{255, 255, 0, 255}

	tiles := []*tile.CachedTile{
		writeTile(t, dir, tile.Address{Kind: "test", Z: 1, X: 0, Y: 0}, red, 256),
		writeTile(t, dir, tile.Address{Kind: "test", Z: 1, X: 0, Y: 1}, green, 256),
		writeTile(t, dir, tile.Address{Kind: "test", Z: 1, X: 1, Y: 0}, blue, 256),
		writeTile(t, dir, tile.Address{Kind: "test", Z: 1, X: 1, Y: 1}, yellow, 256),
	}

	comp := New(bounds.Box{X0: 0, Y0: 0, X1: 2, Y1: 2}, 256)
	skipped, err := comp.DrawLayer(tiles)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}

	img := comp.Image()
	if got := img.Bounds(); got.Dx() != 512 || got.Dy() != 512 {
		t.Fatalf("canvas size = %dx%d, want 512x512", got.Dx(), got.Dy())
	}

	// Each 256x256 quadrant carries its tile's colour edge to edge.
	quads := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, red}, {0, 511, green}, {511, 0, blue}, {511, 511, yellow},
		{128, 128, red}, {128, 384, green}, {384, 128, blue}, {384, 384, yellow},
	}
	for _, q := range quads {
		if got := img.RGBAAt(q.x, q.y); got != q.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", q.x, q.y, got, q.want)
		}
	}
}

func TestDrawLayerSkipsFailedTiles(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{255, 0, 0, 255}

	tiles := []*tile.CachedTile{
		writeTile(t, dir, tile.Address{Kind: "test", Z: 1, X: 0, Y: 0}, red, 256),
		{Address: tile.Address{Kind: "test", Z: 1, X: 1, Y: 0}, Status: tile.StatusFetchFailed},
	}

	comp := New(bounds.Box{X0: 0, Y0: 0, X1: 2, Y1: 1}, 256)
	skipped, err := comp.DrawLayer(tiles)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}

	img := comp.Image()
	if got := img.RGBAAt(128, 128); got != red {
		t.Errorf("fetched tile pixel = %v, want %v", got, red)
	}
	// The failed tile's slot stays transparent.
	if got := img.RGBAAt(384, 128); got != (color.RGBA{}) {
		t.Errorf("failed tile pixel = %v, want transparent", got)
	}
}

func TestDrawLayerResamplesMismatchedTiles(t *testing.T) {
	dir := t.TempDir()
	blue := color.RGBA{0, 0, 255, 255}

	// Native 128px tile scaled up to fill a 256px slot.
	tiles := []*tile.CachedTile{
		writeTile(t, dir, tile.Address{Kind: "test", Z: 0, X: 0, Y: 0}, blue, 128),
	}

	comp := New(bounds.Box{X0: 0, Y0: 0, X1: 1, Y1: 1}, 256)
	if _, err := comp.DrawLayer(tiles); err != nil {
		t.Fatal(err)
	}

	img := comp.Image()
	for _, p := range []image.Point{{0, 0}, {128, 128}, {255, 255}} {
		if got := img.RGBAAt(p.X, p.Y); got != blue {
			t.Errorf("pixel %v = %v, want %v", p, got, blue)
		}
	}
}

func TestDrawLayerStacksLayers(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}
	a := tile.Address{Kind: "base", Z: 0, X: 0, Y: 0}

	comp := New(bounds.Box{X0: 0, Y0: 0, X1: 1, Y1: 1}, 64)
	if _, err := comp.DrawLayer([]*tile.CachedTile{writeTile(t, dir, a, red, 64)}); err != nil {
		t.Fatal(err)
	}
	if _, err := comp.DrawLayer([]*tile.CachedTile{writeTile(t, dir, tile.Address{Kind: "over", Z: 0, X: 0, Y: 0}, green, 64)}); err != nil {
		t.Fatal(err)
	}

	// An opaque later layer hides the earlier one.
	if got := comp.Image().RGBAAt(32, 32); got != green {
		t.Errorf("pixel = %v, want %v", got, green)
	}
}

func TestDrawLayerOffsetBox(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{255, 0, 0, 255}

	// Box away from the origin; the tile still lands at the canvas
	// top-left.
	tiles := []*tile.CachedTile{
		writeTile(t, dir, tile.Address{Kind: "test", Z: 5, X: 16, Y: 10}, red, 64),
	}

	comp := New(bounds.Box{X0: 16, Y0: 10, X1: 18, Y1: 12}, 64)
	if _, err := comp.DrawLayer(tiles); err != nil {
		t.Fatal(err)
	}
	if got := comp.Image().RGBAAt(32, 32); got != red {
		t.Errorf("pixel = %v, want %v", got, red)
	}
	if got := comp.Image().RGBAAt(96, 96); got != (color.RGBA{}) {
		t.Errorf("unfetched slot pixel = %v, want transparent", got)
	}
}

func TestAnnotate(t *testing.T) {
	dir := t.TempDir()
	grey := color.RGBA{128, 128, 128, 255}

	tiles := []*tile.CachedTile{
		writeTile(t, dir, tile.Address{Kind: "test", Z: 3, X: 4, Y: 2}, grey, 256),
		{Address: tile.Address{Kind: "test", Z: 3, X: 4, Y: 3}, Status: tile.StatusFetchFailed},
	}

	comp := New(bounds.Box{X0: 4, Y0: 2, X1: 5, Y1: 4}, 256)
	if _, err := comp.DrawLayer(tiles); err != nil {
		t.Fatal(err)
	}
	if err := comp.Annotate(tiles, 3); err != nil {
		t.Fatal(err)
	}

	img := comp.Image()
	white := color.RGBA{255, 255, 255, 255}
	// Label background in the first tile's corner.
	if got := img.RGBAAt(2, 2); got != white {
		t.Errorf("label background pixel = %v, want %v", got, white)
	}
	// Failed tiles are annotated too, on top of the transparent gap.
	if got := img.RGBAAt(2, 258); got != white {
		t.Errorf("failed tile label pixel = %v, want %v", got, white)
	}
}
