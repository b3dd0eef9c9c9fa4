// internal/style/style.go - Tile style table
package style

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Style describes one tile source: its short id, human-readable name,
// URL template and tile edge length in pixels. Styles are immutable once
// loaded and shared read-only by all fetch operations.
type Style struct {
	Kind        string
	Name        string
	URLTemplate string
	TileSize    int
}

// Table is the set of known styles keyed by kind.
type Table map[string]*Style

// Load reads the style table from a CSV file with a header row and
// one "kind,name,url,size" row per style.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open style table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse style table %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("style table %s is empty", path)
	}

	table := make(Table)
	for i, row := range rows[1:] { // skip header
		if len(row) != 4 {
			return nil, fmt.Errorf("style table %s row %d: expected 4 fields, got %d (missed comma?)", path, i+2, len(row))
		}
		size, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return nil, fmt.Errorf("style table %s row %d: invalid tile size %q: %w", path, i+2, row[3], err)
		}
		kind := strings.TrimSpace(row[0])
		table[kind] = &Style{
			Kind:        kind,
			Name:        strings.TrimSpace(row[1]),
			URLTemplate: strings.TrimSpace(row[2]),
			TileSize:    size,
		}
	}
	return table, nil
}

// Get looks up a style by kind.
func (t Table) Get(kind string) (*Style, error) {
	s, ok := t[kind]
	if !ok {
		return nil, fmt.Errorf("unknown style %q (known: %s)", kind, strings.Join(t.Kinds(), ", "))
	}
	return s, nil
}

// Kinds returns the known style ids in sorted order.
func (t Table) Kinds() []string {
	kinds := make([]string, 0, len(t))
	for k := range t {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// URL builds the remote tile URL for the given address by substituting
// the {kind}, {z}, {x} and {y} placeholders. A {s} placeholder rotates
// over the a/b/c subdomains commonly used by OSM-style servers.
func (s *Style) URL(z, x, y int) string {
	url := s.URLTemplate
	url = strings.ReplaceAll(url, "{kind}", s.Kind)
	url = strings.ReplaceAll(url, "{z}", strconv.Itoa(z))
	url = strings.ReplaceAll(url, "{x}", strconv.Itoa(x))
	url = strings.ReplaceAll(url, "{y}", strconv.Itoa(y))
	if strings.Contains(url, "{s}") {
		subdomain := string(rune('a' + ((x+y)%3+3)%3))
		url = strings.ReplaceAll(url, "{s}", subdomain)
	}
	return url
}
