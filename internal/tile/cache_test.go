// internal/tile/cache_test.go - Unit tests for the tile cache
package tile

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"ptolemy/internal"
	"ptolemy/internal/bounds"
	"ptolemy/internal/config"
	"ptolemy/internal/style"
)

var testNetworkConfig = config.NetworkConfig{Timeout: 5 * time.Second}

// newTileServer serves one fake tile per URL and counts requests.
// Paths listed in fail return 404.
func newTileServer(t *testing.T, requests *int32, fail map[string]bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		if fail[r.URL.Path] {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, "tile:%s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testStyle(srv *httptest.Server) *style.Style {
	return &style.Style{
		Kind:        "test",
		Name:        "Test",
		URLTemplate: srv.URL + "/{z}/{x}/{y}.png",
		TileSize:    256,
	}
}

func TestCachePath(t *testing.T) {
	c := NewCache("tiles", nil)
	got := c.Path(Address{Kind: "osm", Z: 3, X: 4, Y: 5})
	want := filepath.Join("tiles", "osm", "3", "4", "5.jpg")
	if got != want {
		t.Errorf("Path = %s, want %s", got, want)
	}
}

func TestFetchBoxOrder(t *testing.T) {
	var requests int32
	srv := newTileServer(t, &requests, nil)
	c := NewCache(t.TempDir(), NewHTTPFetcher(&testNetworkConfig))

	tiles, err := c.FetchBox(testStyle(srv), 1, bounds.Box{X0: 0, Y0: 0, X1: 2, Y1: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 4 {
		t.Fatalf("FetchBox returned %d tiles, want 4", len(tiles))
	}

	// Stable column-major order: x outer, y inner.
	want := []Address{
		{"test", 1, 0, 0}, {"test", 1, 0, 1},
		{"test", 1, 1, 0}, {"test", 1, 1, 1},
	}
	for i, tt := range tiles {
		if tt.Address != want[i] {
			t.Errorf("tile %d address = %v, want %v", i, tt.Address, want[i])
		}
		if tt.Status != StatusOK || !tt.Downloaded {
			t.Errorf("tile %d = status %v downloaded %v, want freshly downloaded OK", i, tt.Status, tt.Downloaded)
		}
	}
}

func TestFetchIsIdempotent(t *testing.T) {
	var requests int32
	srv := newTileServer(t, &requests, nil)
	c := NewCache(t.TempDir(), NewHTTPFetcher(&testNetworkConfig))
	st := testStyle(srv)
	box := bounds.Box{X0: 0, Y0: 0, X1: 2, Y1: 2}

	if _, err := c.FetchBox(st, 1, box, nil); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&requests); n != 4 {
		t.Fatalf("first pass made %d requests, want 4", n)
	}

	tiles, err := c.FetchBox(st, 1, box, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&requests); n != 4 {
		t.Errorf("second pass made %d extra requests, want 0", n-4)
	}
	for _, tt := range tiles {
		if tt.Downloaded {
			t.Errorf("tile %v reported freshly downloaded on a cache hit", tt.Address)
		}
		if tt.Status != StatusOK {
			t.Errorf("tile %v status = %v, want OK", tt.Address, tt.Status)
		}
	}
	if c.Stats.CachedTiles != 4 || c.Stats.DownloadedTiles != 0 {
		t.Errorf("stats = %+v, want 4 cached", c.Stats)
	}
}

func TestRedownloadBypassesCache(t *testing.T) {
	var requests int32
	srv := newTileServer(t, &requests, nil)
	c := NewCache(t.TempDir(), NewHTTPFetcher(&testNetworkConfig))
	st := testStyle(srv)
	box := bounds.Box{X0: 0, Y0: 0, X1: 1, Y1: 1}

	if _, err := c.FetchBox(st, 0, box, nil); err != nil {
		t.Fatal(err)
	}
	c.Redownload = true
	if _, err := c.FetchBox(st, 0, box, nil); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&requests); n != 2 {
		t.Errorf("made %d requests, want 2 (redownload must refetch)", n)
	}
}

func TestFetchFailureDoesNotAbortBatch(t *testing.T) {
	var requests int32
	srv := newTileServer(t, &requests, map[string]bool{"/1/1/0.png": true})
	c := NewCache(t.TempDir(), NewHTTPFetcher(&testNetworkConfig))

	tiles, err := c.FetchBox(testStyle(srv), 1, bounds.Box{X0: 0, Y0: 0, X1: 2, Y1: 2}, nil)
	if err != nil {
		t.Fatalf("a single tile failure must not abort the batch: %v", err)
	}

	var ok, failed int
	for _, tt := range tiles {
		switch tt.Status {
		case StatusOK:
			ok++
		case StatusFetchFailed:
			failed++
			if tt.Address != (Address{"test", 1, 1, 0}) {
				t.Errorf("wrong tile failed: %v", tt.Address)
			}
			if code := internal.CodeOf(tt.Err); code != internal.ErrorCodeFetch {
				t.Errorf("failed tile error code = %s, want %s", code, internal.ErrorCodeFetch)
			}
		}
	}
	if ok != 3 || failed != 1 {
		t.Errorf("got %d OK and %d failed tiles, want 3 and 1", ok, failed)
	}
	if c.Stats.FailedTiles != 1 {
		t.Errorf("stats.FailedTiles = %d, want 1", c.Stats.FailedTiles)
	}

	// The failure is not cached; a later pass may retry it.
	if _, err := os.Stat(c.Path(Address{"test", 1, 1, 0})); !os.IsNotExist(err) {
		t.Error("failed tile must not leave a cache file behind")
	}
}

func TestFetchBoxProgress(t *testing.T) {
	var requests int32
	srv := newTileServer(t, &requests, nil)
	c := NewCache(t.TempDir(), NewHTTPFetcher(&testNetworkConfig))

	var calls []int
	_, err := c.FetchBox(testStyle(srv), 1, bounds.Box{X0: 0, Y0: 0, X1: 2, Y1: 1}, func(done, total int) {
		if total != 2 {
			t.Errorf("progress total = %d, want 2", total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("progress calls = %v, want [1 2]", calls)
	}
}

func TestEmptyBox(t *testing.T) {
	var requests int32
	srv := newTileServer(t, &requests, nil)
	c := NewCache(t.TempDir(), NewHTTPFetcher(&testNetworkConfig))

	tiles, err := c.FetchBox(testStyle(srv), 0, bounds.Box{X0: 3, Y0: 3, X1: 3, Y1: 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 0 {
		t.Errorf("empty box fetched %d tiles", len(tiles))
	}
	if n := atomic.LoadInt32(&requests); n != 0 {
		t.Errorf("empty box made %d requests", n)
	}
}

func TestUserAgentHeader(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		fmt.Fprint(w, "tile")
	}))
	t.Cleanup(srv.Close)

	cfg := testNetworkConfig
	cfg.UserAgent = "ptolemy/1.0"
	f := NewHTTPFetcher(&cfg)
	if _, err := f.Fetch(srv.URL + "/0/0/0.png"); err != nil {
		t.Fatal(err)
	}
	if agent != "ptolemy/1.0" {
		t.Errorf("User-Agent = %q, want ptolemy/1.0", agent)
	}
}
