package cmd

import (
	"os"

	"github.com/orbmesh/orbmesh/gridpath"
	"github.com/spf13/cobra"
)

// gridCmd represents the grid command
var gridCmd = &cobra.Command{
	Use:   "grid [input.txt]",
	Short: "Answer shortest-path queries over a static satellite grid",
	Long: `Reads a fixed satellite grid and a list of queries, then answers
shortest-path and closest-compute-satellite queries over it. This tool runs on
a static snapshot; it does not use the time-windowed routing mesh.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		grid, queries, err := gridpath.ReadInputFile(args[0])
		if err != nil {
			fatal(err)
		}
		gridpath.RunQueries(grid, queries, os.Stdout)
	},
	GroupID: "tools",
}

func init() {
	rootCmd.AddCommand(gridCmd)
}
