package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Upstream APIs
	ExplorerBaseURL    string
	BankAddress        string
	CoinGeckoBaseURL   string
	SpectrumBaseURL    string
	DefiLlamaBaseURL   string
	DefiLlamaYieldsURL string
	ParaswapBaseURL    string
	EthereumRPCURL     string
	UpstreamTimeout    time.Duration
	PriceCacheTTL      time.Duration
	DexProtocolSlug    string

	// Arbitrage
	ArbTickInterval time.Duration
	ArbNotionalUSD  float64
	ArbDEXFeeRate   float64
	ArbSlippageRate float64
	ArbFixedGasCost float64
	ArbHistoryLimit int
	ArbExpireAfter  time.Duration

	// Workflow execution
	WorkflowMinNodeDelay time.Duration
	WorkflowMaxNodeDelay time.Duration

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Upstream defaults
		ExplorerBaseURL:    getEnvOrDefault("ERGO_EXPLORER_URL", "https://api.ergoplatform.com/api/v1"),
		BankAddress:        getEnvOrDefault("SIGMAUSD_BANK_ADDRESS", "MUbV38YgqHy7XbsoXWF5z7EZm524Ybdwe5p9WDrbhruZRtehkRPT92imXer2eTkjwPDfboa1pR3zb3deVKVq3H7Xt98qcTqLuSBSbHb7izzo5jphEpcnqyKJ2xhmpNPVvmtbdJNdvdopPrHHDBbAGGeW7XYTQwEeoRfosXzcDtiGgw97b2aqjTsNFmZk7khBEQywjYfmoDc9nUCJMZ3vbSspnYo3LarLe55mh2Np8MNJqUN9APA6XkhZCrTTDRZb1B4krgFY1sVMswg2ceqguZRvC9pqt3tUUxmSnB24N6dowfVJKhLXwHPbrkHViBv1AKAJTmEaQW2DN1fRmD9ypXxZk8GXmYtxTtrj3BiunQ4qzUCu1eGzxSREjpkFSi2ATLSSDqUwxtRz639sHM6Lav4axFTur8jLevtLHGXWgh4GnXM389FeB3NEiHdWZuHhynSJzU5ke2uAomA4Tarf3f1t2JVSmzrXpuoj"),
		CoinGeckoBaseURL:   getEnvOrDefault("COINGECKO_API_URL", "https://api.coingecko.com/api/v3"),
		SpectrumBaseURL:    getEnvOrDefault("SPECTRUM_API_URL", "https://api.spectrum.fi/v1"),
		DefiLlamaBaseURL:   getEnvOrDefault("DEFILLAMA_API_URL", "https://api.llama.fi"),
		DefiLlamaYieldsURL: getEnvOrDefault("DEFILLAMA_YIELDS_URL", "https://yields.llama.fi"),
		ParaswapBaseURL:    getEnvOrDefault("PARASWAP_API_URL", "https://apiv5.paraswap.io"),
		EthereumRPCURL:     getEnvOrDefault("ETHEREUM_RPC_URL", "https://eth.llamarpc.com"),
		UpstreamTimeout:    getDurationOrDefault("UPSTREAM_TIMEOUT", 8*time.Second),
		PriceCacheTTL:      getDurationOrDefault("PRICE_CACHE_TTL", 30*time.Second),
		DexProtocolSlug:    getEnvOrDefault("DEX_PROTOCOL_SLUG", "spectrum"),

		// Arbitrage defaults
		ArbTickInterval: getDurationOrDefault("ARB_TICK_INTERVAL", 15*time.Second),
		ArbNotionalUSD:  getFloat64OrDefault("ARB_NOTIONAL_USD", 1000.0),
		ArbDEXFeeRate:   getFloat64OrDefault("ARB_DEX_FEE_RATE", 0.003),
		ArbSlippageRate: getFloat64OrDefault("ARB_SLIPPAGE_RATE", 0.005),
		ArbFixedGasCost: getFloat64OrDefault("ARB_FIXED_GAS_COST", 2.0),
		ArbHistoryLimit: getIntOrDefault("ARB_HISTORY_LIMIT", 20),
		ArbExpireAfter:  getDurationOrDefault("ARB_EXPIRE_AFTER", 300*time.Second),

		// Workflow defaults
		WorkflowMinNodeDelay: getDurationOrDefault("WORKFLOW_MIN_NODE_DELAY", 100*time.Millisecond),
		WorkflowMaxNodeDelay: getDurationOrDefault("WORKFLOW_MAX_NODE_DELAY", 400*time.Millisecond),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "djedops"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "djedops123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "djedops"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.ExplorerBaseURL == "" {
		return fmt.Errorf("ERGO_EXPLORER_URL cannot be empty")
	}

	if c.CoinGeckoBaseURL == "" {
		return fmt.Errorf("COINGECKO_API_URL cannot be empty")
	}

	if c.ArbTickInterval <= 0 {
		return fmt.Errorf("ARB_TICK_INTERVAL must be positive, got %s", c.ArbTickInterval)
	}

	if c.ArbNotionalUSD <= 0 {
		return fmt.Errorf("ARB_NOTIONAL_USD must be positive, got %f", c.ArbNotionalUSD)
	}

	if c.ArbHistoryLimit <= 0 {
		return fmt.Errorf("ARB_HISTORY_LIMIT must be positive, got %d", c.ArbHistoryLimit)
	}

	if c.WorkflowMaxNodeDelay < c.WorkflowMinNodeDelay {
		return fmt.Errorf("WORKFLOW_MAX_NODE_DELAY must be >= WORKFLOW_MIN_NODE_DELAY")
	}

	if c.StorageMode != "console" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'console' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
