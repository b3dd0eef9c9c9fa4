// internal/bounds/bounds.go - Extent resolution into a tile-space rectangle
package bounds

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ptolemy/internal"
	"ptolemy/internal/geo"
)

// Box is an integer rectangle in tile space, top-left inclusive and
// bottom-right exclusive. A resolved box always satisfies X0 <= X1 and
// Y0 <= Y1; a zero-area box is legal and yields an empty composite.
type Box struct {
	X0, Y0 int
	X1, Y1 int
}

// Dx returns the box width in tiles.
func (b Box) Dx() int { return b.X1 - b.X0 }

// Dy returns the box height in tiles.
func (b Box) Dy() int { return b.Y1 - b.Y0 }

// Empty reports whether the box covers no tiles.
func (b Box) Empty() bool { return b.Dx() <= 0 || b.Dy() <= 0 }

// Count returns the number of tiles the box covers.
func (b Box) Count() int {
	if b.Empty() {
		return 0
	}
	return b.Dx() * b.Dy()
}

func (b Box) String() string {
	return fmt.Sprintf("[[%d,%d],[%d,%d]]", b.X0, b.Y0, b.X1, b.Y1)
}

// Scale shifts the box by a zoom delta: coordinates double per positive
// step and halve (flooring, like tile pyramids do) per negative step.
func (b Box) Scale(delta int) Box {
	if delta == 0 {
		return b
	}
	if delta > 0 {
		f := 1 << delta
		return Box{b.X0 * f, b.Y0 * f, b.X1 * f, b.Y1 * f}
	}
	f := 1 << (-delta)
	return Box{floorDiv(b.X0, f), floorDiv(b.Y0, f), floorDiv(b.X1, f), floorDiv(b.Y1, f)}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ExtentConfig carries the raw extent tokens from the command line.
// An empty string means the flag was absent. X, X1 and W additionally
// accept the inline-pair form "7,4" carrying their partner value, and
// X and X1 accept a geographic coordinate string (e.g. "52.118N 2.325W")
// resolved through the Mercator projection.
type ExtentConfig struct {
	X, Y   string // top-left tile
	X1, Y1 string // bottom-right tile (ABSOLUTE mode)
	W, H   string // width/height in tiles (RELATIVE mode)
	R      string // half side length around (x,y) (RADIUS mode)
}

// corner roles for geographic resolution
const (
	roleTopLeft = iota
	roleBottomRight
)

// Resolve reconciles the extent tokens into one canonical rectangle at
// the given zoom. Exactly zero or one of the ABSOLUTE (X1/Y1), RELATIVE
// (W/H) and RADIUS (R) modes may be in use; zero defaults to a single
// tile. Every malformed combination fails with a distinct error before
// any network activity happens.
func (c ExtentConfig) Resolve(zoom int) (Box, error) {
	x, y, err := resolvePair("x", c.X, "y", c.Y, pairOpts{defaultZero: true, role: roleTopLeft, zoom: zoom})
	if err != nil {
		return Box{}, err
	}

	absolute := c.X1 != "" || c.Y1 != ""
	relative := c.W != "" || c.H != ""
	radius := c.R != ""

	modes := 0
	for _, m := range []bool{absolute, relative, radius} {
		if m {
			modes++
		}
	}
	if modes > 1 {
		return Box{}, internal.NewError(internal.ErrorCodeAmbiguousExtent,
			"only one extent mode (-X/-Y, -W/-H or -r) can be selected", nil)
	}

	var box Box
	switch {
	case absolute:
		x1, y1, err := resolvePair("X", c.X1, "Y", c.Y1, pairOpts{role: roleBottomRight, zoom: zoom})
		if err != nil {
			return Box{}, err
		}
		box = Box{x, y, x1, y1}
	case radius:
		r, err := parseScalar("r", c.R)
		if err != nil {
			return Box{}, err
		}
		if r < 0 {
			return Box{}, internal.NewError(internal.ErrorCodeValidation,
				fmt.Sprintf("radius must not be negative, got %d", r), nil)
		}
		box = Box{x - r, y - r, x + r, y + r}
	default:
		// RELATIVE, with W=H=1 when no mode was selected at all
		w, h := 1, 1
		if relative {
			w, h, err = resolvePair("W", c.W, "H", c.H, pairOpts{squareDefault: true})
			if err != nil {
				return Box{}, err
			}
		}
		box = Box{x, y, x + w, y + h}
	}

	if box.X1 < box.X0 || box.Y1 < box.Y0 {
		return Box{}, internal.NewError(internal.ErrorCodeValidation,
			fmt.Sprintf("bottom-right corner precedes top-left: %s", box), nil)
	}
	return box, nil
}

type pairOpts struct {
	defaultZero   bool // absent pair defaults to (0,0)
	squareDefault bool // lone primary implies partner = primary (-W3 means a square)
	role          int  // corner role for geographic strings
	zoom          int
}

// resolvePair reconciles a primary token (which may carry an inline pair
// or a geographic string) with its scalar partner token.
//
// The inline pair wins: supplying a contradicting separate partner value
// alongside "-x7,4" is an error rather than a silent tie-break.
func resolvePair(xName, xTok, yName, yTok string, opts pairOpts) (int, int, error) {
	if xTok == "" {
		if yTok != "" {
			return 0, 0, internal.NewError(internal.ErrorCodeMissingPair,
				fmt.Sprintf("cannot define -%s but not -%s", yName, xName), nil)
		}
		if opts.defaultZero {
			return 0, 0, nil
		}
		return 0, 0, internal.NewError(internal.ErrorCodeMissingPair,
			fmt.Sprintf("-%s is required for this mode", xName), nil)
	}

	// Geographic form resolves both components at once.
	if !looksNumeric(xTok) {
		gx, gy, err := resolveGeographic(xName, xTok, opts)
		if err != nil {
			return 0, 0, err
		}
		if yTok != "" {
			return 0, 0, internal.NewError(internal.ErrorCodeConflictingPair,
				fmt.Sprintf("-%s carries a geographic pair, -%s must not be given", xName, yName), nil)
		}
		return gx, gy, nil
	}

	parts := strings.Split(xTok, ",")
	if len(parts) > 2 {
		return 0, 0, internal.NewError(internal.ErrorCodeValidation,
			fmt.Sprintf("only 1 or 2 values to -%s allowed, got %d", xName, len(parts)), nil)
	}

	x, err := parseScalar(xName, parts[0])
	if err != nil {
		return 0, 0, err
	}

	if len(parts) == 2 {
		// inline pair, e.g. -x7,4
		y, err := parseScalar(xName, parts[1])
		if err != nil {
			return 0, 0, err
		}
		if yTok != "" {
			sep, err := parseScalar(yName, yTok)
			if err != nil {
				return 0, 0, err
			}
			if sep != y {
				return 0, 0, internal.NewError(internal.ErrorCodeConflictingPair,
					fmt.Sprintf("-%s%d,%d contradicts -%s%d", xName, x, y, yName, sep), nil)
			}
		}
		return x, y, nil
	}

	if yTok == "" {
		if opts.squareDefault {
			return x, x, nil
		}
		return 0, 0, internal.NewError(internal.ErrorCodeMissingPair,
			fmt.Sprintf("cannot define -%s but not -%s", xName, yName), nil)
	}

	y, err := parseScalar(yName, yTok)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// resolveGeographic turns a geographic coordinate string into tile
// coordinates at the configured zoom. The top-left role floors and the
// bottom-right role ceils, so the resulting rectangle always fully
// encloses the requested point at tile granularity.
func resolveGeographic(name, tok string, opts pairOpts) (int, int, error) {
	p, err := geo.ParseCoordinate(tok)
	if err != nil {
		return 0, 0, err
	}
	mx, my := geo.Mercator(p)
	scale := float64(int(1) << opts.zoom)
	if opts.role == roleBottomRight {
		return int(math.Ceil(mx * scale)), int(math.Ceil(my * scale)), nil
	}
	return int(math.Floor(mx * scale)), int(math.Floor(my * scale)), nil
}

// looksNumeric reports whether the token is plain integer syntax
// (possibly an inline pair) rather than a geographic string.
func looksNumeric(tok string) bool {
	for _, part := range strings.Split(tok, ",") {
		part = strings.TrimSpace(part)
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}
	return true
}

func parseScalar(name, tok string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		return 0, internal.NewError(internal.ErrorCodeValidation,
			fmt.Sprintf("invalid integer %q for -%s", tok, name), err)
	}
	return v, nil
}
