package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Shresth-Senwal/djedops2nd/internal/upstream"
	"github.com/Shresth-Senwal/djedops2nd/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current protocol state",
	Long: `Fetches the SigmaUSD bank box and oracle price once and prints the
derived reserve ratio and health status. Useful for checking upstream
connectivity without starting the server.`,
	RunE: runState,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(stateCmd)
}

func runState(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := zap.NewNop()

	explorer := upstream.NewExplorerClient(cfg.ExplorerBaseURL, cfg.BankAddress, cfg.UpstreamTimeout, logger)
	coinGecko := upstream.NewCoinGeckoClient(cfg.CoinGeckoBaseURL, cfg.UpstreamTimeout, logger)
	oracle := upstream.NewOracleSource(coinGecko, explorer, logger)
	source := upstream.NewStateSource(explorer, oracle, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	state := source.FetchState(ctx)

	fmt.Printf("=== Djed Protocol State ===\n\n")
	fmt.Printf("Source:           %s\n", state.Source)
	fmt.Printf("ERG Price:        $%.4f\n", state.ErgPrice)
	fmt.Printf("Base Reserves:    %.2f ERG\n", state.BaseReserves)
	fmt.Printf("Reserves (USD):   $%.2f\n", state.ReservesUSD)
	fmt.Printf("SigUSD Supply:    %.2f\n", state.StablecoinSupply)
	fmt.Printf("SigRSV Circ.:     %.2f\n", state.ShenCirculation)
	fmt.Printf("Reserve Ratio:    %.2f%%\n", state.ReserveRatio)
	fmt.Printf("Status:           %s\n", state.Status)

	return nil
}
