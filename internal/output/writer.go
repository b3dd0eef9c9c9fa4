// internal/output/writer.go - Output artifact writing
package output

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Write encodes the raster to path, format chosen by the filename
// extension (.png, .jpg/.jpeg), creating parent directories as needed.
// The artifact is written exactly once at the end of a run.
func Write(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		return fmt.Errorf("unsupported output format %q (use .png or .jpg)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// DefaultPath derives an output filename from the invocation arguments,
// so runs with different options land in distinct files for easy
// comparison.
func DefaultPath(dir string, args []string) string {
	name := strings.Join(args, " ")
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" {
		name = "map"
	}
	return filepath.Join(dir, name+".png")
}
