// internal/compose/compositor.go - Tile raster assembly
package compose

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"ptolemy/internal/bounds"
	"ptolemy/internal/tile"
)

// Compositor pastes fetched tiles into one RGBA canvas sized to the
// bounding box times the tile edge length. The canvas starts fully
// transparent; tiles that failed to fetch leave it that way.
type Compositor struct {
	box      bounds.Box
	tileSize int
	canvas   *image.RGBA
}

// New allocates a compositor for the given box and tile pixel size.
func New(box bounds.Box, tileSize int) *Compositor {
	return &Compositor{
		box:      box,
		tileSize: tileSize,
		canvas:   image.NewRGBA(image.Rect(0, 0, box.Dx()*tileSize, box.Dy()*tileSize)),
	}
}

// Image returns the assembled canvas.
func (c *Compositor) Image() *image.RGBA {
	return c.canvas
}

// DrawLayer alpha-composites every successfully fetched tile of one
// style layer over the canvas, later layers over earlier ones. Failed
// tiles are skipped; the number skipped is returned.
func (c *Compositor) DrawLayer(tiles []*tile.CachedTile) (skipped int, err error) {
	for _, t := range tiles {
		if t.Status != tile.StatusOK {
			skipped++
			continue
		}
		if err := c.drawTile(t); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}

// drawTile decodes one cached tile and composites it at its offset,
// resampling first when its native size differs from the layer's
// declared tile size.
func (c *Compositor) drawTile(t *tile.CachedTile) error {
	src, err := decode(t.Path)
	if err != nil {
		return fmt.Errorf("failed to decode tile %s: %w", t.Address, err)
	}

	if src.Bounds().Dx() != c.tileSize || src.Bounds().Dy() != c.tileSize {
		src = resample(src, c.tileSize, c.tileSize)
	}

	x, y := c.offset(t.Address)
	r := image.Rect(x, y, x+c.tileSize, y+c.tileSize)
	draw.Draw(c.canvas, r, src, src.Bounds().Min, draw.Over)
	return nil
}

// offset computes the pixel position of a tile relative to the box's
// top-left corner.
func (c *Compositor) offset(a tile.Address) (int, int) {
	return (a.X - c.box.X0) * c.tileSize, (a.Y - c.box.Y0) * c.tileSize
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func resample(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}
