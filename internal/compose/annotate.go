// internal/compose/annotate.go - Coordinate indicator overlay
package compose

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"ptolemy/internal/tile"
)

// labelWidthFraction is the fraction of a tile's width the coordinate
// label is sized to fill.
const labelWidthFraction = 0.5

// Annotate overlays coordinate indicators: a red border around every
// tile slot and a white-backed "x, y" label, the first tile's label
// additionally carrying the effective zoom. Failed tiles are annotated
// too, so gaps stay identifiable.
func (c *Compositor) Annotate(tiles []*tile.CachedTile, zoom int) error {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse label font: %w", err)
	}

	dc := gg.NewContextForRGBA(c.canvas)
	for i, t := range tiles {
		x, y := c.offset(t.Address)

		dc.SetLineWidth(1)
		dc.SetHexColor("#ff0000")
		dc.DrawRectangle(float64(x), float64(y), float64(c.tileSize), float64(c.tileSize))
		dc.Stroke()

		text := fmt.Sprintf("%d, %d", t.Address.X, t.Address.Y)
		face := faceForWidth(ttf, text, labelWidthFraction*float64(c.tileSize))
		if i == 0 {
			text += fmt.Sprintf(" @ %d", zoom)
		}
		dc.SetFontFace(face)
		w, h := dc.MeasureString(text)

		dc.SetHexColor("#ffffff")
		dc.DrawRectangle(float64(x), float64(y), w+4, h+4)
		dc.Fill()

		dc.SetHexColor("#ff0000")
		dc.DrawStringAnchored(text, float64(x)+2, float64(y)+2, 0, 1)
	}
	return nil
}

// faceForWidth returns a face sized so text renders at the target pixel
// width.
func faceForWidth(ttf *truetype.Font, text string, width float64) font.Face {
	const probeSize = 20
	probe := truetype.NewFace(ttf, &truetype.Options{Size: probeSize})
	adv := font.MeasureString(probe, text)
	measured := float64(adv) / 64
	if measured <= 0 {
		return probe
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: probeSize * width / measured})
}
