package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var centralConfigPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "orbmesh",
	Short: "Orbmesh LEO Constellation Routing Simulator",
	Long: `Orbmesh simulates a mesh of LEO satellites whose links are bounded by
time-limited visibility windows, and which discover routes to each other with a
distributed distance-vector protocol.`,
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
	rootCmd.AddGroup(&cobra.Group{
		ID:    "sim",
		Title: "Simulation Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "tools",
		Title: "Tools",
	})
	rootCmd.PersistentFlags().StringVarP(&centralConfigPath, "config", "c", "central.yaml", "mesh-wide config")
}
