package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orbmesh/orbmesh/sim"
	"github.com/orbmesh/orbmesh/state"
	"github.com/orbmesh/orbmesh/topology"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a routing simulation from a link topology table",
	Run: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}
		duration, _ := cmd.Flags().GetDuration("duration")
		topoPath, _ := cmd.Flags().GetString("topology")

		cfg, err := state.ReadCentralConfig(centralConfigPath)
		if err != nil {
			if !os.IsNotExist(err) {
				fatal(err)
			}
			cfg = &state.CentralCfg{}
			cfg.ApplyDefaults()
		}
		if topoPath != "" {
			cfg.TopologyPath = topoPath
		}
		if cfg.TopologyPath == "" {
			fatal(fmt.Errorf("no topology table given, use --topology"))
		}

		links, err := topology.ParseFile(cfg.TopologyPath)
		if err != nil {
			fatal(err)
		}
		for _, id := range topology.Nodes(links) {
			if cfg.GetNode(id) == nil {
				cfg.Nodes = append(cfg.Nodes, state.NodeCfg{Id: id})
			}
		}

		clock := state.SystemClock{}
		mesh, err := sim.NewMesh(cfg, clock, level)
		if err != nil {
			fatal(err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), duration)
		defer cancel()
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			select {
			case <-c:
				cancel()
			case <-ctx.Done():
			}
		}()

		mesh.Start()
		defer mesh.Stop()

		replayer := topology.NewReplayer(clock, mesh, slog.Default())
		go func() {
			err := replayer.Run(ctx, topology.Rebase(links, clock.Now()))
			if err != nil && ctx.Err() == nil {
				slog.Error("replay failed", "err", err)
			}
		}()

		ticker := time.NewTicker(cfg.UpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				printTables(mesh)
				return
			case <-ticker.C:
				printTables(mesh)
			}
		}
	},
	GroupID: "sim",
}

func printTables(mesh *sim.Mesh) {
	for _, a := range mesh.Agents() {
		snap := a.Snapshot()
		fmt.Printf("%s: %d neighbors, %d routes (processed=%d sent=%d failed=%d)\n",
			snap.Node, len(snap.Neighbors), len(snap.Routes),
			snap.Counters.MessagesProcessed, snap.Counters.UpdatesSent, snap.Counters.FailedDeliveries)
		for _, r := range snap.Routes {
			fmt.Printf("  to %s via %s hops=%d cost=%.2f\n", r.Destination, r.NextHop, r.HopCount, r.Cost)
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	runCmd.Flags().StringP("topology", "t", "", "Link topology table CSV")
	runCmd.Flags().DurationP("duration", "d", 5*time.Minute, "Simulation duration")
}
