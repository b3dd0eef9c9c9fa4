// internal/tile/types.go - Tile addressing and fetch result types
package tile

import "fmt"

// Address uniquely identifies one raster tile of a style. Coordinates
// conceptually range over [0, 2^zoom) but are not clamped here; keeping
// them sane for the intended use is the extent resolver's job.
type Address struct {
	Kind string
	Z    int
	X    int
	Y    int
}

// String returns the address in kind/z/x/y form.
func (a Address) String() string {
	return fmt.Sprintf("%s/%d/%d/%d", a.Kind, a.Z, a.X, a.Y)
}

// Status reports the outcome of fetching one tile.
type Status int

const (
	StatusOK Status = iota
	StatusFetchFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFetchFailed:
		return "fetch_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// CachedTile is the per-address result of a fetch pass. Path points into
// the cache directory and is only meaningful when Status is StatusOK;
// a failed tile is a documented gap in the composite, not a hard error.
type CachedTile struct {
	Address    Address
	Path       string
	Downloaded bool // freshly downloaded this run, false on a cache hit
	Status     Status
	Err        error
}

// Progress is the advisory per-tile completion callback invoked by
// FetchBox. done counts completed tiles out of total.
type Progress func(done, total int)

// Fetcher retrieves the raw bytes behind a tile URL.
type Fetcher interface {
	Fetch(url string) ([]byte, error)
}
