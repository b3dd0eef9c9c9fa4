// internal/project/project.go - World map re-projection
package project

import (
	"image"
	"math"
	"sort"
)

// Formula is a forward projection: longitude and latitude in radians to
// a normalized destination position in [0,1]².
type Formula func(lon, lat float64) (x, y float64)

var formulas = map[string]Formula{
	"eckert_iv": EckertIV,
}

// Lookup returns the named projection formula.
func Lookup(name string) (Formula, bool) {
	f, ok := formulas[name]
	return f, ok
}

// Names returns the available projection names in sorted order.
func Names() []string {
	names := make([]string, 0, len(formulas))
	for name := range formulas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const eckertScale = 0.18824

// EckertIV maps a longitude/latitude sample to the Eckert IV
// equal-area projection. The auxiliary angle satisfies
// θ + sin θ cos θ + 2 sin θ = (2 + π/2) sin(lat); the closed-form
// inverse below is a deliberately rough approximation.
func EckertIV(lon, lat float64) (x, y float64) {
	theta := math.Asin(2 * (lat + 2*math.Sin(lat) + math.Sin(lat)*math.Cos(lat)) / (4 + math.Pi))
	x = 0.5 + eckertScale*0.4222382*lon*(1+math.Cos(theta))
	y = 0.5 + eckertScale*1.3265004*math.Sin(theta)
	return x, y
}

// Project re-warps an equirectangular world raster through a projection
// formula, producing a raster of the same size. Every source pixel is
// interpreted as a longitude/latitude sample and scattered forward to
// its projected position; destination pixels no source pixel hits stay
// transparent, so gaps at poles and seams are expected. Only meaningful
// when the source covers the full world.
func Project(src image.Image, f Formula) *image.RGBA {
	b := src.Bounds()
	return ProjectSized(src, f, b.Dx(), b.Dy())
}

// ProjectSized is Project with an explicit destination size.
func ProjectSized(src image.Image, f Formula, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	for sx := 0; sx < sw; sx++ {
		lon := lerp(float64(sx)/float64(sw), -math.Pi, math.Pi)
		for sy := 0; sy < sh; sy++ {
			lat := lerp(float64(sy)/float64(sh), -math.Pi/2, math.Pi/2)

			x, y := f(lon, lat)
			dx, dy := int(x*float64(width)), int(y*float64(height))
			if dx < 0 || dy < 0 || dx >= width || dy >= height {
				continue
			}
			dst.Set(dx, dy, src.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}

func lerp(t, a, b float64) float64 {
	return a + (b-a)*t
}
