package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ExplorerClient is an HTTP client for the Ergo Explorer API.
type ExplorerClient struct {
	baseURL    string
	bankAddr   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewExplorerClient creates a new Ergo Explorer client.
// bankAddr is the SigmaUSD bank contract address used to read reserves.
func NewExplorerClient(baseURL, bankAddr string, timeout time.Duration, logger *zap.Logger) *ExplorerClient {
	return &ExplorerClient{
		baseURL:  baseURL,
		bankAddr: bankAddr,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// get issues a GET and returns the raw body on 200.
func (c *ExplorerClient) get(ctx context.Context, path, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	RequestsTotal.WithLabelValues(source).Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		FailuresTotal.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("explorer request %s: %w", path, err)
	}
	defer resp.Body.Close()

	RequestDurationSeconds.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		FailuresTotal.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("explorer status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		FailuresTotal.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("read explorer response: %w", err)
	}

	return body, nil
}

// FetchNetworkInfo fetches the network-info document.
// The payload is passed through to dashboard clients untouched.
func (c *ExplorerClient) FetchNetworkInfo(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/info", "explorer_info")
}

// FetchBlocks fetches the most recent blocks, passed through untouched.
func (c *ExplorerClient) FetchBlocks(ctx context.Context, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 10
	}

	return c.get(ctx, fmt.Sprintf("/blocks?limit=%d", limit), "explorer_blocks")
}

// BankBalance holds the raw reserve numbers read from the bank contract.
type BankBalance struct {
	ReservesERG     float64 // nanoErg balance converted to ERG
	DjedSupply      float64
	ShenCirculation float64
}

// Token decimal scales on the SigmaUSD contract.
const (
	nanoErgPerErg   = 1e9
	sigUSDDecimals  = 1e2
	sigRSVDecimals  = 1
	sigUSDTokenName = "SigUSD"
	sigRSVTokenName = "SigRSV"
)

// FetchBankBalance reads the bank contract's confirmed balance and extracts
// reserve and circulation numbers. Uses path queries instead of full structs:
// the balance document is large and its shape has drifted across explorer
// versions.
func (c *ExplorerClient) FetchBankBalance(ctx context.Context) (*BankBalance, error) {
	body, err := c.get(ctx, "/addresses/"+c.bankAddr+"/balance/confirmed", "explorer_bank")
	if err != nil {
		return nil, err
	}

	nanoErgs := gjson.GetBytes(body, "nanoErgs")
	if !nanoErgs.Exists() {
		return nil, fmt.Errorf("bank balance missing nanoErgs field")
	}

	balance := &BankBalance{
		ReservesERG: nanoErgs.Float() / nanoErgPerErg,
	}

	tokens := gjson.GetBytes(body, "tokens")
	tokens.ForEach(func(_, token gjson.Result) bool {
		switch token.Get("name").String() {
		case sigUSDTokenName:
			balance.DjedSupply = token.Get("amount").Float() / sigUSDDecimals
		case sigRSVTokenName:
			balance.ShenCirculation = token.Get("amount").Float() / sigRSVDecimals
		}
		return true
	})

	if balance.DjedSupply <= 0 {
		return nil, fmt.Errorf("bank balance missing stablecoin token")
	}

	return balance, nil
}

// FetchOracleErgPrice reads the latest oracle-pool rate for ERG/USD from the
// explorer's oracle box listing. Used as the secondary oracle price source.
func (c *ExplorerClient) FetchOracleErgPrice(ctx context.Context) (float64, error) {
	body, err := c.get(ctx, "/oracle/erg-usd", "explorer_oracle")
	if err != nil {
		return 0, err
	}

	price := gjson.GetBytes(body, "latest_price").Float()
	if price <= 0 {
		return 0, fmt.Errorf("oracle pool returned no price")
	}

	return price, nil
}
