// cmd/paint.go - Tile fetch-and-stitch command
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ptolemy/internal/bounds"
	"ptolemy/internal/compose"
	"ptolemy/internal/config"
	"ptolemy/internal/output"
	"ptolemy/internal/project"
	"ptolemy/internal/style"
	"ptolemy/internal/tile"
)

// paintCmd represents the paint command
var paintCmd = &cobra.Command{
	Use:   "paint [flags] STYLE...",
	Short: "Fetch a rectangle of tiles and stitch them into one image",
	Long: `Fetch a rectangle of map tiles and stitch them into a single image.

Coordinates are tile indices from 0 to 2^zoom. The top-left tile is given with
-x and -y; the extent is given in exactly one of three ways: the opposite
corner (-X/-Y), a width and height (-W/-H, a lone -W means a square), or a
radius around the centre (-r). With no extent flags a single tile is produced.

For convenience -x7,4 means -x7 -y4, and likewise for -X and -W. The -x and -X
flags also accept a geographic coordinate string such as "52.118N 2.325W",
which resolves to the tile rectangle fully enclosing that point.

Multiple styles are layered in argument order, later styles over earlier ones.

Examples:
  ptolemy paint -z2 -x0,0 -X4,4 osm
  ptolemy paint -z6 -x33 -y21 -W4 -i osm
  ptolemy paint -z10 -x "51.5N 0.13W" -r3 osm otm
  ptolemy paint --scale 3 --indicators --out world.png osm`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPaint,
}

func init() {
	rootCmd.AddCommand(paintCmd)

	paintCmd.Flags().IntP("zoom", "z", 0, "zoom factor (tile count doubles per unit)")

	// Extent flags; x, X and W accept inline pairs, x and X geographic strings
	paintCmd.Flags().StringP("x", "x", "", "x of top-left tile, a pair x,y or a geographic coordinate")
	paintCmd.Flags().StringP("y", "y", "", "y of top-left tile")
	paintCmd.Flags().StringP("x1", "X", "", "x of bottom-right tile, a pair X,Y or a geographic coordinate")
	paintCmd.Flags().StringP("y1", "Y", "", "y of bottom-right tile")
	paintCmd.Flags().StringP("width", "W", "", "width of image in tiles, or a pair W,H")
	paintCmd.Flags().StringP("height", "H", "", "height of image in tiles")
	paintCmd.Flags().StringP("radius", "r", "", "treat (x,y) as the centre of a square of this radius")

	paintCmd.Flags().IntP("scale", "s", 0, "zoom delta to scale the rectangle by")
	paintCmd.Flags().BoolP("indicators", "i", false, "draw helpful coordinate indicators")
	paintCmd.Flags().StringP("project", "p", "", fmt.Sprintf("re-project the result (%s); whole-world images only", strings.Join(project.Names(), ", ")))
	paintCmd.Flags().StringP("out", "o", "", "file to output the result to (default derived from the arguments)")
	paintCmd.Flags().Bool("redownload", false, "fetch tiles even when already cached")

	viper.BindPFlag("cache.redownload", paintCmd.Flags().Lookup("redownload"))
}

func runPaint(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	table, err := style.Load(cfg.Styles.Path)
	if err != nil {
		return fmt.Errorf("failed to load style table: %w", err)
	}

	styles := make([]*style.Style, 0, len(args))
	for _, kind := range args {
		st, err := table.Get(kind)
		if err != nil {
			return err
		}
		styles = append(styles, st)
	}

	// Resolve the extent before any network activity; every malformed
	// combination fails fast here.
	extent := bounds.ExtentConfig{
		X:  flagString(cmd, "x"),
		Y:  flagString(cmd, "y"),
		X1: flagString(cmd, "x1"),
		Y1: flagString(cmd, "y1"),
		W:  flagString(cmd, "width"),
		H:  flagString(cmd, "height"),
		R:  flagString(cmd, "radius"),
	}
	zoom, _ := cmd.Flags().GetInt("zoom")
	scale, _ := cmd.Flags().GetInt("scale")

	box, err := extent.Resolve(zoom)
	if err != nil {
		return err
	}
	box = box.Scale(scale)
	zoom += scale

	verbose := cfg.Logging.Verbose
	if verbose {
		fmt.Fprintf(os.Stderr, "drawing %d tiles\n", box.Count()*len(styles))
		fmt.Fprintf(os.Stderr, "zoom:     %d\n", zoom)
		fmt.Fprintf(os.Stderr, "top left: (%d, %d)\n", box.X0, box.Y0)
		fmt.Fprintf(os.Stderr, "size:     %dx%d\n", box.Dx(), box.Dy())
	}

	// The _ convention spares quoting slashes on the command line.
	cfg.Network.UserAgent = strings.ReplaceAll(cfg.Network.UserAgent, "_", "/")

	cache := tile.NewCache(cfg.Cache.Directory, tile.NewHTTPFetcher(&cfg.Network))
	cache.Redownload = cfg.Cache.Redownload

	comp := compose.New(box, styles[0].TileSize)

	var lastTiles []*tile.CachedTile
	for _, st := range styles {
		bar := progressbar.Default(int64(box.Count()), "fetching "+st.Kind)

		tiles, err := cache.FetchBox(st, zoom, box, func(done, total int) {
			bar.Set(done)
		})
		if err != nil {
			return err
		}
		bar.Finish()

		skipped, err := comp.DrawLayer(tiles)
		if err != nil {
			return err
		}
		if skipped > 0 {
			fmt.Fprintf(os.Stderr, "warning: %d of %d %s tiles missing from the output\n",
				skipped, box.Count(), st.Kind)
		}
		if verbose {
			stats := cache.Stats
			fmt.Fprintf(os.Stderr, "%s: %d cached, %d downloaded, %d failed in %s\n",
				st.Kind, stats.CachedTiles, stats.DownloadedTiles, stats.FailedTiles, stats.Duration().Round(time.Millisecond))
		}
		lastTiles = tiles
	}

	if indicators, _ := cmd.Flags().GetBool("indicators"); indicators {
		if err := comp.Annotate(lastTiles, zoom); err != nil {
			return err
		}
	}

	img := comp.Image()
	if name, _ := cmd.Flags().GetString("project"); name != "" {
		formula, ok := project.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown projection %q (available: %s)", name, strings.Join(project.Names(), ", "))
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "projecting to %s...\n", name)
		}
		img = project.Project(img, formula)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = output.DefaultPath(cfg.Output.Directory, append([]string{fmt.Sprintf("z%d", zoom), box.String()}, args...))
	}
	if err := output.Write(out, img); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	}
	return nil
}

// flagString reads a string flag, treating an unchanged empty flag as absent.
func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
