package cmd

import (
	"fmt"

	"github.com/orbmesh/orbmesh/topology"
	"github.com/spf13/cobra"
)

// topoCmd represents the topo command
var topoCmd = &cobra.Command{
	Use:   "topo [table.csv]",
	Short: "Summarize a link topology table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		links, err := topology.ParseFile(args[0])
		if err != nil {
			fatal(err)
		}
		nodes := topology.Nodes(links)
		mesh := topology.FilterMesh(links)
		fmt.Printf("Number of Satellites: %d\n", len(nodes))
		for _, id := range nodes {
			fmt.Println(id)
		}
		fmt.Printf("%d of %d links enter the routing mesh (%s)\n", len(mesh), len(links), topology.LinkTypeLeo)
	},
	GroupID: "tools",
}

func init() {
	rootCmd.AddCommand(topoCmd)
}
