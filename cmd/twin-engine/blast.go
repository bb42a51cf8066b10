package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-twin/internal/api"
	"github.com/miradorstack/mirador-twin/internal/config"
	"github.com/miradorstack/mirador-twin/internal/engine"
	"github.com/miradorstack/mirador-twin/internal/repo"
	"github.com/miradorstack/mirador-twin/internal/utils"
)

var blastGraphPath string

var blastCmd = &cobra.Command{
	Use:   "blast <node-id>",
	Short: "Compute the blast radius of a node from a graph file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlast,
}

func init() {
	blastCmd.Flags().StringVar(&blastGraphPath, "graph", "", "Graph file (defaults to graph.path from config)")
}

func runBlast(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)

	path := blastGraphPath
	if path == "" {
		path = cfg.Graph.Path
	}
	graph, err := repo.NewFileSource(path).LoadGraph(context.Background())
	if err != nil {
		return err
	}
	policy, err := engine.LoadPolicy(cfg.Policy.Path, logger)
	if err != nil {
		return err
	}
	eng, err := engine.New(graph, logger, engineOptions(cfg, policy))
	if err != nil {
		return err
	}

	epicenter := args[0]
	if _, ok := eng.HealthState(epicenter); !ok {
		return fmt.Errorf("unknown node %q", epicenter)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(api.ToWireBlastRadius(eng.CalculateBlastRadius(epicenter)))
}
