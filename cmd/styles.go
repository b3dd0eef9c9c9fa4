// cmd/styles.go - Style table listing
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ptolemy/internal/config"
	"ptolemy/internal/style"
)

// stylesCmd represents the styles command
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available tile styles",
	RunE:  runStyles,
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}

func runStyles(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	table, err := style.Load(cfg.Styles.Path)
	if err != nil {
		return fmt.Errorf("failed to load style table: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tSIZE\tURL")
	for _, kind := range table.Kinds() {
		st := table[kind]
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", st.Kind, st.Name, st.TileSize, st.URLTemplate)
	}
	return w.Flush()
}
