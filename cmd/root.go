package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "djedops",
	Short: "Djed protocol dashboard backend",
	Long: `Djed protocol dashboard backend that proxies Ergo chain and market data,
computes the SigmaUSD reserve ratio and health status, watches the
DEX-vs-protocol price spread for mint/redeem arbitrage signals,
and executes user-defined automation workflows.

The server polls upstream APIs (Ergo explorer, CoinGecko, Spectrum,
DeFiLlama, Paraswap) and serves a JSON API plus a websocket stream of
detected opportunities.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	// Flags can be added here if needed
}
