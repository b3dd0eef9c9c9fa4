// cmd/locate.go - Geographic coordinate to tile lookup
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ptolemy/internal/geo"
)

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate COORDINATE",
	Short: "Show which tile contains a geographic coordinate",
	Long: `Parse a geographic coordinate string and print its normalized Mercator
position and the tile containing it at the requested zoom level.

The coordinate may be decimal degrees or degrees/minutes/seconds, with
optional compass letters. Without letters the input is read as latitude
then longitude.

Examples:
  ptolemy locate "51.5074N 0.1278W"
  ptolemy locate --zoom 10 "51.5074,-0.1278"
  ptolemy locate -z 12 "52d7m5sN 2d19mW"`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)

	locateCmd.Flags().IntP("zoom", "z", 0, "zoom level for the tile lookup")
}

func runLocate(cmd *cobra.Command, args []string) error {
	p, err := geo.ParseCoordinate(args[0])
	if err != nil {
		return err
	}

	zoom, _ := cmd.Flags().GetInt("zoom")
	mx, my := geo.Mercator(p)
	t := geo.Tile(p, zoom)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "longitude: %.6f\n", p.Lon())
	fmt.Fprintf(out, "latitude:  %.6f\n", p.Lat())
	fmt.Fprintf(out, "mercator:  %.6f, %.6f\n", mx, my)
	fmt.Fprintf(out, "tile:      %d/%d/%d\n", t.Z, t.X, t.Y)
	return nil
}
