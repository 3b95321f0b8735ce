package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Shresth-Senwal/djedops2nd/internal/app"
	"github.com/Shresth-Senwal/djedops2nd/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the dashboard backend",
	Long: `Starts the Djed dashboard backend, which will:
1. Serve the JSON API and websocket stream on HTTP_PORT
2. Poll the DEX and protocol prices for arbitrage signals
3. Persist detected opportunities and workflow runs to storage

Configuration comes from environment variables; a .env file in the
working directory is loaded when present.`,
	RunE: runServer,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load config
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create logger
	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	// Run app
	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
