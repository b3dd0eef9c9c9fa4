// internal/tile/cache.go - Disk cache over a tile fetcher
package tile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ptolemy/internal"
	"ptolemy/internal/bounds"
	"ptolemy/internal/style"
)

// Cache maps tile addresses to files under a root directory, fetching
// misses through a Fetcher. The cache is append-only durable state keyed
// by (kind, z, x, y); nothing evicts or invalidates an entry unless
// Redownload is set for a run.
type Cache struct {
	root       string
	fetcher    Fetcher
	Redownload bool
	Stats      internal.FetchStats
}

// NewCache creates a cache rooted at dir backed by the given fetcher.
func NewCache(dir string, fetcher Fetcher) *Cache {
	return &Cache{root: dir, fetcher: fetcher}
}

// Path returns the deterministic cache location for an address,
// stable across runs: {root}/{kind}/{z}/{x}/{y}.jpg
func (c *Cache) Path(a Address) string {
	return filepath.Join(
		c.root,
		a.Kind,
		fmt.Sprintf("%d", a.Z),
		fmt.Sprintf("%d", a.X),
		fmt.Sprintf("%d.jpg", a.Y),
	)
}

// Get resolves one address to a cached file, fetching it if missing.
// A fetch failure is recorded on the returned tile, never returned as an
// error; only a failed cache write is fatal, since a usable cache write
// is required for correctness.
func (c *Cache) Get(st *style.Style, a Address) (*CachedTile, error) {
	out := c.Path(a)

	if !c.Redownload {
		if _, err := os.Stat(out); err == nil {
			return &CachedTile{Address: a, Path: out, Status: StatusOK}, nil
		}
	}

	data, err := c.fetcher.Fetch(st.URL(a.Z, a.X, a.Y))
	if err != nil {
		return &CachedTile{Address: a, Status: StatusFetchFailed, Err: err}, nil
	}

	if err := writeFileAtomic(out, data); err != nil {
		return nil, internal.NewError(internal.ErrorCodeCacheWrite,
			fmt.Sprintf("failed to write tile %s to cache", a), err)
	}
	return &CachedTile{Address: a, Path: out, Downloaded: true, Status: StatusOK}, nil
}

// FetchBox resolves every tile in the half-open range
// [box.X0, box.X1) × [box.Y0, box.Y1) at the given zoom, in stable
// column-major order (x outer, y inner). One tile's fetch failure never
// aborts the batch. progress may be nil.
func (c *Cache) FetchBox(st *style.Style, zoom int, box bounds.Box, progress Progress) ([]*CachedTile, error) {
	total := box.Count()
	tiles := make([]*CachedTile, 0, total)
	c.Stats = internal.FetchStats{TotalTiles: int64(total), StartTime: time.Now()}

	for x := box.X0; x < box.X1; x++ {
		for y := box.Y0; y < box.Y1; y++ {
			t, err := c.Get(st, Address{Kind: st.Kind, Z: zoom, X: x, Y: y})
			if err != nil {
				return nil, err
			}
			tiles = append(tiles, t)

			switch {
			case t.Status != StatusOK:
				c.Stats.FailedTiles++
			case t.Downloaded:
				c.Stats.DownloadedTiles++
			default:
				c.Stats.CachedTiles++
			}
			if progress != nil {
				progress(len(tiles), total)
			}
		}
	}

	c.Stats.EndTime = time.Now()
	return tiles, nil
}

// writeFileAtomic persists bytes via a temp file and rename so a
// crashed run never leaves a truncated tile behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tile-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
