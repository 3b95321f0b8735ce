package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/upstream"
	"github.com/Shresth-Senwal/djedops2nd/internal/workflow"
	"github.com/Shresth-Senwal/djedops2nd/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var workflowCmd = &cobra.Command{
	Use:   "workflow <graph.json>",
	Short: "Execute a workflow graph from a JSON file",
	Long: `Reads a workflow graph definition from a JSON file, executes it once
against live protocol metrics, and prints the run result.

Example graph:
  {
    "nodes": [
      {"id": "watch", "appletType": "price_monitor"},
      {"id": "check", "appletType": "reserve_check", "condition": {"kind": "dsi_above", "threshold": 400}},
      {"id": "mint", "appletType": "mint_action"}
    ],
    "edges": [
      {"from": "watch", "to": "check"},
      {"from": "check", "to": "mint"}
    ]
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflow,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(workflowCmd)
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read graph file: %w", err)
	}

	var graph workflow.Graph
	err = json.Unmarshal(data, &graph)
	if err != nil {
		return fmt.Errorf("parse graph file: %w", err)
	}

	logger := zap.NewNop()

	explorer := upstream.NewExplorerClient(cfg.ExplorerBaseURL, cfg.BankAddress, cfg.UpstreamTimeout, logger)
	coinGecko := upstream.NewCoinGeckoClient(cfg.CoinGeckoBaseURL, cfg.UpstreamTimeout, logger)
	oracle := upstream.NewOracleSource(coinGecko, explorer, logger)
	stateSource := upstream.NewStateSource(explorer, oracle, logger)
	snapshots := upstream.NewSnapshotCollector(stateSource, oracle, explorer, logger)

	executor := workflow.NewExecutor(workflow.ExecutorConfig{
		MinNodeDelay: cfg.WorkflowMinNodeDelay,
		MaxNodeDelay: cfg.WorkflowMaxNodeDelay,
		Logger:       logger,
	}, snapshots)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := executor.Execute(ctx, &graph)
	if err != nil {
		return fmt.Errorf("execute workflow: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	fmt.Println(string(out))

	return nil
}
