// cmd/root.go - Root command implementation
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ptolemy",
	Short: "Fetch, cache and stitch map tiles into a single image",
	Long: `Ptolemy is a map tile fetch-and-stitch tool.

Tiles are fetched into a local cache directory and stitched together into one
output image, optionally with coordinate indicators to help you find what you
want to map, or re-projected onto an alternate world projection.

A useful start is "ptolemy paint -s3 -i osm" - this shows the whole world split
into 8x8 tiles to further zoom in on.

Examples:
  # One world tile of OpenStreetMap
  ptolemy paint osm

  # An 8x8 world overview with coordinate indicators
  ptolemy paint --scale 3 --indicators osm

  # A 4x4 area at zoom 6 around tile (33,21), topo over base imagery
  ptolemy paint -z6 -x33,21 -r2 osm otm

  # The area fully enclosing a geographic point
  ptolemy paint -z10 -x "52.118N 2.325W" -W2 osm

  # The whole world warped to Eckert IV
  ptolemy paint --project eckert_iv osm

  # Which tile contains a coordinate?
  ptolemy locate --zoom 10 "51.5074N 0.1278W"`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ptolemy.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "tiles", "tile cache directory")
	rootCmd.PersistentFlags().String("styles", "tilemaps.csv", "style table file")
	rootCmd.PersistentFlags().StringP("user-agent", "u", "", "HTTP user agent; provide _ in place of /")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("cache.directory", rootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("styles.path", rootCmd.PersistentFlags().Lookup("styles"))
	viper.BindPFlag("network.user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	viper.BindPFlag("logging.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ptolemy" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ptolemy")
	}

	// Environment variables
	viper.SetEnvPrefix("PTOLEMY")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("logging.verbose") {
			rootCmd.PrintErrln("Using config file:", viper.ConfigFileUsed())
		}
	}
}
