// internal/geo/geo.go - Geographic coordinate parsing and Web-Mercator math
package geo

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"ptolemy/internal"
)

// sidePattern matches one half of a coordinate string: a signed decimal
// degree value or a compact degrees/minutes/seconds triple, followed by an
// optional compass letter. DMS accepts both 52d7m5s and 52°7'5" markers.
var sidePattern = regexp.MustCompile(
	`^([+-]?)(\d+(?:\.\d+)?)(?:[°d](\d+(?:\.\d+)?)['m]?(?:(\d+(?:\.\d+)?)["s]?)?)?([NSEWnsew]?)$`)

// ParseCoordinate parses a human geographic coordinate string into a
// signed decimal (longitude, latitude) point.
//
// Accepted forms include "51.5,-0.12", "51.5N 0.12W", "0N,0E" and
// "52d7m5sN 2d19mW". When neither side carries a compass letter the input
// is taken as (latitude, longitude); when both do, whichever side is N/S
// is the latitude regardless of order. Labeling only one side is an error.
func ParseCoordinate(s string) (orb.Point, error) {
	sides := splitSides(s)
	if len(sides) != 2 {
		return orb.Point{}, internal.NewError(internal.ErrorCodeCoordFormat,
			fmt.Sprintf("invalid coordinate %q: expected two comma or space separated values", s), nil)
	}

	a, aDir, err := parseSide(sides[0])
	if err != nil {
		return orb.Point{}, err
	}
	b, bDir, err := parseSide(sides[1])
	if err != nil {
		return orb.Point{}, err
	}

	switch {
	case aDir == 0 && bDir == 0:
		// Unlabeled input follows the (lat, lon) convention.
		return orb.Point{b, a}, nil
	case aDir == 0 || bDir == 0:
		return orb.Point{}, internal.NewError(internal.ErrorCodeCompass,
			fmt.Sprintf("invalid coordinate %q: either both or neither value must carry a compass letter", s), nil)
	}

	aLat, bLat := isLatitude(aDir), isLatitude(bDir)
	if aLat == bLat {
		return orb.Point{}, internal.NewError(internal.ErrorCodeCompass,
			fmt.Sprintf("invalid coordinate %q: need one of N/S and one of E/W", s), nil)
	}
	if aLat {
		return orb.Point{b, a}, nil
	}
	return orb.Point{a, b}, nil
}

// splitSides splits on a comma if present, otherwise on whitespace.
func splitSides(s string) []string {
	s = strings.TrimSpace(s)
	var parts []string
	if strings.Contains(s, ",") {
		parts = strings.SplitN(s, ",", 2)
	} else {
		parts = strings.Fields(s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseSide decomposes one coordinate token into a signed decimal degree
// value and its compass letter (0 when absent).
func parseSide(s string) (float64, byte, error) {
	m := sidePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, internal.NewError(internal.ErrorCodeCoordFormat,
			fmt.Sprintf("invalid coordinate value %q", s), nil)
	}

	deg, _ := strconv.ParseFloat(m[2], 64)
	if m[3] != "" {
		min, _ := strconv.ParseFloat(m[3], 64)
		deg += min / 60
	}
	if m[4] != "" {
		sec, _ := strconv.ParseFloat(m[4], 64)
		deg += sec / 3600
	}

	var dir byte
	if m[5] != "" {
		dir = strings.ToUpper(m[5])[0]
	}
	if m[1] == "-" || dir == 'S' || dir == 'W' {
		deg = -deg
	}
	return deg, dir, nil
}

func isLatitude(dir byte) bool {
	return dir == 'N' || dir == 'S'
}

// Mercator maps a (longitude, latitude) point in degrees to the
// normalized [0,1]² Web-Mercator tile space. The poles map to ±Inf;
// keeping latitudes inside the Mercator limits is the caller's job.
func Mercator(p orb.Point) (x, y float64) {
	x = (p.Lon() + 180) / 360
	y = (math.Pi - math.Log(math.Tan(math.Pi/4+p.Lat()*math.Pi/360))) / (2 * math.Pi)
	return x, y
}

// Tile returns the tile containing p at the given zoom.
func Tile(p orb.Point, zoom int) maptile.Tile {
	return maptile.At(p, maptile.Zoom(zoom))
}
